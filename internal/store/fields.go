package store

import (
	"encoding/json"
	"strconv"
)

// Fields is the untyped field map of a document. Adapters decode values
// differently (JSONB yields float64, Redis hashes yield strings), so the
// accessors are tolerant of representation and fall back to zero values
// rather than failing.
type Fields map[string]any

// String returns the field as a string, or "" when absent or not a string.
func (f Fields) String(key string) string {
	if v, ok := f[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// Int64 returns the field as an int64, accepting the numeric encodings the
// adapters produce. Absent or unparseable values yield 0.
func (f Fields) Int64(key string) int64 {
	v, ok := f[key]
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0
		}
		return i
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return 0
		}
		return i
	default:
		return 0
	}
}

// Has reports whether the field is present at all.
func (f Fields) Has(key string) bool {
	_, ok := f[key]
	return ok
}

// Clone returns a shallow copy, so stores can hand out snapshots without
// aliasing their internal state.
func (f Fields) Clone() Fields {
	if f == nil {
		return nil
	}
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

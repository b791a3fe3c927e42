package store

// Direction is a sort direction for ordered queries.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

// Filter is a single equality constraint on one field.
type Filter struct {
	Field string
	Value any
}

// Query describes a filtered, ordered, optionally capped read over one
// collection. OrderBy is mandatory; Where and Limit are optional
// (Limit <= 0 means uncapped).
type Query struct {
	Collection string
	Where      *Filter
	OrderBy    string
	Direction  Direction
	Limit      int
}

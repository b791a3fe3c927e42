package users

import (
	"fmt"

	"github.com/AmitLevy9/DailyBite/internal/store"
)

// Collection is the document collection holding user profiles, keyed by uid.
const Collection = "users"

// Profile is a user's public profile. PhotoPath is a blob store path;
// empty means no avatar. UpdatedAt is milliseconds since epoch.
type Profile struct {
	UID         string `json:"uid"`
	DisplayName string `json:"displayName"`
	PhotoPath   string `json:"photoPath,omitempty"`
	UpdatedAt   int64  `json:"updatedAt"`
}

// ProfileFromDocument maps a profile record keyed by uid. No field is
// required: a sparse record still yields a profile, and absence of the
// whole record means "no profile", which callers express by passing nil
// fields and receiving nil back.
func ProfileFromDocument(uid string, f store.Fields) *Profile {
	if f == nil {
		return nil
	}
	return &Profile{
		UID:         uid,
		DisplayName: f.String("displayName"),
		PhotoPath:   f.String("photoPath"),
		UpdatedAt:   f.Int64("updatedAt"),
	}
}

// Document emits the full profile record.
func (p Profile) Document() store.Fields {
	fields := store.Fields{
		"displayName": p.DisplayName,
		"updatedAt":   p.UpdatedAt,
	}
	if p.PhotoPath != "" {
		fields["photoPath"] = p.PhotoPath
	}
	return fields
}

// AvatarPath is the deterministic blob path for a user's avatar. Uploads
// overwrite in place, so the stored reference never changes.
func AvatarPath(uid string) string {
	return fmt.Sprintf("users/%s/avatar.jpg", uid)
}

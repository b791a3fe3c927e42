package posts

import "github.com/AmitLevy9/DailyBite/internal/store"

// Meal type vocabulary. The tags are the Hebrew labels the app displays;
// they are stored verbatim, so the vocabulary is part of the wire contract.
const (
	MealBreakfast = "בוקר"
	MealLunch     = "צהריים"
	MealDinner    = "ערב"
	MealSnack     = "נשנוש"
)

// MealTypes is the closed vocabulary accepted by create and update.
var MealTypes = []string{MealBreakfast, MealLunch, MealDinner, MealSnack}

// IsValidMealType reports whether tag is in the vocabulary.
func IsValidMealType(tag string) bool {
	for _, m := range MealTypes {
		if m == tag {
			return true
		}
	}
	return false
}

// Post is one meal post. Identity and owner are immutable after creation;
// timestamps are milliseconds since epoch. ImageStoragePath is a blob store
// path, not a URL.
type Post struct {
	ID               string `json:"id"`
	OwnerUID         string `json:"ownerUid"`
	MealType         string `json:"mealType"`
	Description      string `json:"description"`
	ImageStoragePath string `json:"imageStoragePath"`
	CreatedAt        int64  `json:"createdAt"`
	UpdatedAt        int64  `json:"updatedAt"`
	LikesCount       int    `json:"likesCount"`
}

// FromDocument maps an untyped record into a Post. The record key is the
// fallback identity when the id field is missing. ownerUid is the only
// required field: without it the record is rejected. Every other field
// falls back to its zero value, so one malformed optional field never drops
// an otherwise valid post.
func FromDocument(id string, f store.Fields) (Post, bool) {
	ownerUID := f.String("ownerUid")
	if ownerUID == "" {
		return Post{}, false
	}
	if docID := f.String("id"); docID != "" {
		id = docID
	}
	return Post{
		ID:               id,
		OwnerUID:         ownerUID,
		MealType:         f.String("mealType"),
		Description:      f.String("description"),
		ImageStoragePath: f.String("imageStoragePath"),
		CreatedAt:        f.Int64("createdAt"),
		UpdatedAt:        f.Int64("updatedAt"),
		LikesCount:       int(f.Int64("likesCount")),
	}, true
}

// Document emits the full record written to the posts collection.
// FromDocument applied to this map reproduces an equal Post.
func (p Post) Document() store.Fields {
	return store.Fields{
		"id":               p.ID,
		"ownerUid":         p.OwnerUID,
		"mealType":         p.MealType,
		"description":      p.Description,
		"imageStoragePath": p.ImageStoragePath,
		"createdAt":        p.CreatedAt,
		"updatedAt":        p.UpdatedAt,
		"likesCount":       int64(p.LikesCount),
	}
}

// CreatePostRequest is the input for creating a post.
type CreatePostRequest struct {
	OwnerUID    string
	MealType    string
	Description string
	ImageBytes  []byte
}

// UpdatePostRequest is the input for editing a post. NewImageBytes nil
// means keep the current image; when set, it overwrites the blob at the
// existing ImageStoragePath so references to that path stay valid.
type UpdatePostRequest struct {
	PostID           string
	MealType         string
	Description      string
	ImageStoragePath string
	NewImageBytes    []byte
}

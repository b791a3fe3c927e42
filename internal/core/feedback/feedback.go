// Package feedback handles the append-only reactions on a post: likes and
// comments. Items are never updated; deletion happens only as cleanup when
// the parent post is removed.
package feedback

import (
	"fmt"

	"github.com/AmitLevy9/DailyBite/internal/store"
)

// Feedback kinds.
const (
	KindLike    = "like"
	KindComment = "comment"
)

// ItemsCollection returns the per-post subcollection holding feedback items.
func ItemsCollection(postID string) string {
	return fmt.Sprintf("feedback/%s/items", postID)
}

// Item is one feedback record. Text is present iff Kind is KindComment.
// CreatedAt is milliseconds since epoch.
type Item struct {
	ID        string `json:"id"`
	PostID    string `json:"postId"`
	AuthorUID string `json:"authorUid"`
	Kind      string `json:"type"`
	Text      string `json:"text,omitempty"`
	CreatedAt int64  `json:"createdAt"`
}

// FromDocument maps an untyped record into an Item, with the record key as
// the fallback identity. postId is the only required field; everything else
// defaults.
func FromDocument(id string, f store.Fields) (Item, bool) {
	postID := f.String("postId")
	if postID == "" {
		return Item{}, false
	}
	if docID := f.String("id"); docID != "" {
		id = docID
	}
	return Item{
		ID:        id,
		PostID:    postID,
		AuthorUID: f.String("authorUid"),
		Kind:      f.String("type"),
		Text:      f.String("text"),
		CreatedAt: f.Int64("createdAt"),
	}, true
}

// Document emits the record written to the items subcollection. The text
// field is written only for comments, matching FromDocument's defaulting.
func (i Item) Document() store.Fields {
	fields := store.Fields{
		"id":        i.ID,
		"postId":    i.PostID,
		"authorUid": i.AuthorUID,
		"type":      i.Kind,
		"createdAt": i.CreatedAt,
	}
	if i.Kind == KindComment {
		fields["text"] = i.Text
	}
	return fields
}

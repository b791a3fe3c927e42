package posts

import (
	"context"

	"github.com/AmitLevy9/DailyBite/internal/realtime"
	"github.com/AmitLevy9/DailyBite/internal/store"
)

// Collection is the document collection holding post records.
const Collection = "posts"

// FeedLimit caps the main feed result window. There is no pagination
// beyond this cap.
const FeedLimit = 100

// Service defines the post commands and live feeds.
type Service interface {
	// CreatePost uploads the image, then writes the post record.
	// Returns the generated post id.
	CreatePost(ctx context.Context, req CreatePostRequest) (string, error)

	// GetPost reads a single post. Returns ErrNotFound when absent or when
	// the stored record is missing its owner.
	GetPost(ctx context.Context, postID string) (*Post, error)

	// UpdatePost overwrites the image in place when a replacement is given,
	// then updates mealType, description and updatedAt. Identity, owner,
	// createdAt and likesCount are never touched.
	UpdatePost(ctx context.Context, req UpdatePostRequest) error

	// DeletePost deletes the image blob best-effort, then the post record,
	// then best-effort the post's feedback items.
	DeletePost(ctx context.Context, postID, imageStoragePath string) error

	// SubscribeFeed opens a live stream of the main feed:
	// createdAt descending, capped at FeedLimit.
	SubscribeFeed() (*realtime.Subscription[Post], error)

	// SubscribeOwnerPosts opens a live stream of one user's posts,
	// createdAt descending, uncapped.
	SubscribeOwnerPosts(ownerUID string) (*realtime.Subscription[Post], error)
}

// FeedQuery is the descriptor behind SubscribeFeed, exported so one-shot
// reads query the same window the live stream observes.
func FeedQuery() store.Query {
	return store.Query{
		Collection: Collection,
		OrderBy:    "createdAt",
		Direction:  store.Descending,
		Limit:      FeedLimit,
	}
}

// OwnerPostsQuery is the descriptor behind SubscribeOwnerPosts.
func OwnerPostsQuery(ownerUID string) store.Query {
	return store.Query{
		Collection: Collection,
		Where:      &store.Filter{Field: "ownerUid", Value: ownerUID},
		OrderBy:    "createdAt",
		Direction:  store.Descending,
	}
}

package feedback

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/AmitLevy9/DailyBite/internal/core/commands"
	"github.com/AmitLevy9/DailyBite/internal/core/posts"
	"github.com/AmitLevy9/DailyBite/internal/realtime"
	"github.com/AmitLevy9/DailyBite/internal/store"
)

// Service defines the feedback commands and the live comment thread.
type Service interface {
	// Like atomically increments the post's like counter server-side, then
	// appends a like item. Concurrent likes commute; none are lost.
	Like(ctx context.Context, postID, authorUID string) error

	// AddComment appends a comment item with non-empty text.
	AddComment(ctx context.Context, postID, authorUID, text string) error

	// SubscribeComments opens a live stream of a post's comment thread,
	// createdAt ascending.
	SubscribeComments(postID string) (*realtime.Subscription[Item], error)
}

// CommentsQuery is the descriptor behind SubscribeComments.
func CommentsQuery(postID string) store.Query {
	return store.Query{
		Collection: ItemsCollection(postID),
		Where:      &store.Filter{Field: "type", Value: KindComment},
		OrderBy:    "createdAt",
		Direction:  store.Ascending,
	}
}

type feedbackService struct {
	docs   store.DocumentStore
	logger *slog.Logger
}

// NewService creates a new feedback service.
func NewService(docs store.DocumentStore, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &feedbackService{docs: docs, logger: logger}
}

// Like likes a post.
// Flow:
// 1. Atomic server-side increment of posts/{id}.likesCount (never
//    read-modify-write: concurrent likers must not clobber each other)
// 2. Append a like item to the post's feedback subcollection
// When step 2 fails the increment stays visible; the error names the step.
func (s *feedbackService) Like(ctx context.Context, postID, authorUID string) error {
	if err := s.docs.Increment(ctx, posts.Collection, postID, "likesCount", 1); err != nil {
		if store.IsNotFound(err) {
			return ErrPostNotFound
		}
		return commands.Fail(StepIncrementLikes, err)
	}

	collection := ItemsCollection(postID)
	item := Item{
		ID:        s.docs.NewID(collection),
		PostID:    postID,
		AuthorUID: authorUID,
		Kind:      KindLike,
		CreatedAt: time.Now().UnixMilli(),
	}
	if err := s.docs.Put(ctx, collection, item.ID, item.Document()); err != nil {
		s.logger.Warn("like item append failed, counter already incremented",
			"postId", postID, "authorUid", authorUID, "error", err)
		return commands.Fail(StepAppendItem, err)
	}
	return nil
}

// AddComment appends a comment to a post. No counter side effects.
func (s *feedbackService) AddComment(ctx context.Context, postID, authorUID, text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyComment
	}

	collection := ItemsCollection(postID)
	item := Item{
		ID:        s.docs.NewID(collection),
		PostID:    postID,
		AuthorUID: authorUID,
		Kind:      KindComment,
		Text:      text,
		CreatedAt: time.Now().UnixMilli(),
	}
	if err := s.docs.Put(ctx, collection, item.ID, item.Document()); err != nil {
		return commands.Fail(StepAppendItem, err)
	}
	return nil
}

// SubscribeComments opens a live stream of a post's comment thread.
func (s *feedbackService) SubscribeComments(postID string) (*realtime.Subscription[Item], error) {
	return realtime.Subscribe(s.docs, CommentsQuery(postID), func(doc store.Document) (Item, bool) {
		return FromDocument(doc.ID, doc.Fields)
	})
}

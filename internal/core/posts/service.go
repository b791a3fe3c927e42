package posts

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/AmitLevy9/DailyBite/internal/core/commands"
	"github.com/AmitLevy9/DailyBite/internal/realtime"
	"github.com/AmitLevy9/DailyBite/internal/store"
)

type postService struct {
	docs   store.DocumentStore
	blobs  store.BlobStore
	logger *slog.Logger
}

// NewService creates a new post service.
func NewService(docs store.DocumentStore, blobs store.BlobStore, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &postService{docs: docs, blobs: blobs, logger: logger}
}

// ImagePath derives the blob path for a post's image from its owner and id.
// The id is generated client-side, so the path exists before the record does.
func ImagePath(ownerUID, postID string) string {
	return fmt.Sprintf("posts/%s/%s.jpg", ownerUID, postID)
}

// CreatePost creates a new post.
// Flow:
// 1. Validate input
// 2. Generate the post id client-side
// 3. Upload the image to the path derived from (owner, id)
// 4. Write the post record, embedding the storage path
// A write failure after a successful upload leaves the blob orphaned; the
// error names the failing step so the path can be reaped out of band.
func (s *postService) CreatePost(ctx context.Context, req CreatePostRequest) (string, error) {
	if req.OwnerUID == "" {
		return "", NewValidationError("ownerUid", "owner is required")
	}
	if !IsValidMealType(req.MealType) {
		return "", NewValidationError("mealType", "unknown meal type")
	}
	if len(req.ImageBytes) == 0 {
		return "", NewValidationError("image", "image is required")
	}

	postID := s.docs.NewID(Collection)
	path := ImagePath(req.OwnerUID, postID)

	if err := s.blobs.Put(ctx, path, req.ImageBytes); err != nil {
		return "", commands.Fail(StepUploadImage, err)
	}

	now := time.Now().UnixMilli()
	post := Post{
		ID:               postID,
		OwnerUID:         req.OwnerUID,
		MealType:         req.MealType,
		Description:      req.Description,
		ImageStoragePath: path,
		CreatedAt:        now,
		UpdatedAt:        now,
		LikesCount:       0,
	}
	if err := s.docs.Put(ctx, Collection, postID, post.Document()); err != nil {
		s.logger.Warn("post record write failed after image upload, blob orphaned",
			"postId", postID, "path", path, "error", err)
		return "", commands.Fail(StepWriteRecord, err)
	}

	return postID, nil
}

// GetPost reads a single post by id.
func (s *postService) GetPost(ctx context.Context, postID string) (*Post, error) {
	fields, err := s.docs.Get(ctx, Collection, postID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read post %s: %w", postID, err)
	}
	post, ok := FromDocument(postID, fields)
	if !ok {
		return nil, ErrNotFound
	}
	return &post, nil
}

// UpdatePost edits meal type, description and updatedAt. A replacement
// image is uploaded to the same existing path so references stay valid.
func (s *postService) UpdatePost(ctx context.Context, req UpdatePostRequest) error {
	if req.PostID == "" {
		return NewValidationError("postId", "post id is required")
	}
	if !IsValidMealType(req.MealType) {
		return NewValidationError("mealType", "unknown meal type")
	}
	if req.NewImageBytes != nil {
		if req.ImageStoragePath == "" {
			return NewValidationError("imageStoragePath", "replacement image requires the existing path")
		}
		if err := s.blobs.Put(ctx, req.ImageStoragePath, req.NewImageBytes); err != nil {
			return commands.Fail(StepUploadImage, err)
		}
	}

	err := s.docs.Update(ctx, Collection, req.PostID, store.Fields{
		"mealType":    req.MealType,
		"description": req.Description,
		"updatedAt":   time.Now().UnixMilli(),
	})
	if err != nil {
		if store.IsNotFound(err) {
			return ErrNotFound
		}
		return commands.Fail(StepUpdateRecord, err)
	}
	return nil
}

// DeletePost removes a post.
// Flow:
// 1. Delete the image blob (best-effort: a failed blob delete must not
//    leave a non-deletable visible post, so the record delete still runs)
// 2. Delete the post record
// 3. Delete the post's feedback items (best-effort follow-up; a failure
//    here leaves orphaned feedback behind, logged but not surfaced)
func (s *postService) DeletePost(ctx context.Context, postID, imageStoragePath string) error {
	if postID == "" {
		return NewValidationError("postId", "post id is required")
	}

	if imageStoragePath != "" {
		if err := s.blobs.Delete(ctx, imageStoragePath); err != nil {
			s.logger.Warn("blob delete failed, continuing with record delete",
				"postId", postID, "path", imageStoragePath, "error", err)
		}
	}

	if err := s.docs.Delete(ctx, Collection, postID); err != nil {
		return commands.Fail(StepDeleteRecord, err)
	}

	s.deleteFeedback(ctx, postID)
	return nil
}

// deleteFeedback removes the feedback items of a deleted post. The
// subcollection path mirrors the one the feedback package writes to.
func (s *postService) deleteFeedback(ctx context.Context, postID string) {
	collection := fmt.Sprintf("feedback/%s/items", postID)
	items, err := s.docs.Query(ctx, store.Query{
		Collection: collection,
		OrderBy:    "createdAt",
		Direction:  store.Ascending,
	})
	if err != nil {
		s.logger.Warn("feedback cleanup query failed, items orphaned",
			"postId", postID, "error", err)
		return
	}
	for _, item := range items {
		if err := s.docs.Delete(ctx, collection, item.ID); err != nil {
			s.logger.Warn("feedback cleanup delete failed, item orphaned",
				"postId", postID, "itemId", item.ID, "error", err)
		}
	}
}

// SubscribeFeed opens a live stream of the main feed.
func (s *postService) SubscribeFeed() (*realtime.Subscription[Post], error) {
	return realtime.Subscribe(s.docs, FeedQuery(), mapDocument)
}

// SubscribeOwnerPosts opens a live stream of one user's posts.
func (s *postService) SubscribeOwnerPosts(ownerUID string) (*realtime.Subscription[Post], error) {
	return realtime.Subscribe(s.docs, OwnerPostsQuery(ownerUID), mapDocument)
}

func mapDocument(doc store.Document) (Post, bool) {
	return FromDocument(doc.ID, doc.Fields)
}

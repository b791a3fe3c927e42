package users

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/AmitLevy9/DailyBite/internal/core/commands"
	"github.com/AmitLevy9/DailyBite/internal/realtime"
	"github.com/AmitLevy9/DailyBite/internal/store"
)

// UpdateProfileRequest is the input for saving a profile. Avatar nil means
// keep the current one.
type UpdateProfileRequest struct {
	UID         string
	DisplayName string
	Avatar      []byte
}

// Service defines the profile commands and the live profile stream.
type Service interface {
	// UpdateProfile uploads the avatar when one is supplied, then upserts
	// displayName and updatedAt. The photoPath field is written only when an
	// avatar was actually uploaded, so a name-only save never clobbers an
	// existing avatar reference.
	UpdateProfile(ctx context.Context, req UpdateProfileRequest) error

	// GetProfile reads a profile. Returns nil (not an error) when the user
	// has no profile record yet.
	GetProfile(ctx context.Context, uid string) (*Profile, error)

	// SubscribeProfile opens a live stream of one user's profile. Emits nil
	// while the record is absent.
	SubscribeProfile(uid string) (*realtime.DocSubscription[*Profile], error)
}

type userService struct {
	docs   store.DocumentStore
	blobs  store.BlobStore
	logger *slog.Logger
}

// NewService creates a new user service.
func NewService(docs store.DocumentStore, blobs store.BlobStore, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &userService{docs: docs, blobs: blobs, logger: logger}
}

// UpdateProfile saves a profile.
// Flow:
// 1. If an avatar was supplied, upload it to the deterministic per-user
//    path, overwriting the previous one
// 2. Upsert displayName and updatedAt; include photoPath only when step 1
//    ran, so absence of a new avatar never erases the stored reference
func (s *userService) UpdateProfile(ctx context.Context, req UpdateProfileRequest) error {
	name := strings.TrimSpace(req.DisplayName)
	if name == "" {
		return ErrDisplayNameRequired
	}

	fields := store.Fields{
		"displayName": name,
		"updatedAt":   time.Now().UnixMilli(),
	}

	if req.Avatar != nil {
		path := AvatarPath(req.UID)
		if err := s.blobs.Put(ctx, path, req.Avatar); err != nil {
			return commands.Fail(StepUploadAvatar, err)
		}
		fields["photoPath"] = path
	}

	// First save creates the record, later saves merge into it.
	err := s.docs.Update(ctx, Collection, req.UID, fields)
	if store.IsNotFound(err) {
		err = s.docs.Put(ctx, Collection, req.UID, fields)
	}
	if err != nil {
		return commands.Fail(StepWriteProfile, err)
	}
	return nil
}

// GetProfile reads a profile by uid.
func (s *userService) GetProfile(ctx context.Context, uid string) (*Profile, error) {
	fields, err := s.docs.Get(ctx, Collection, uid)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read profile %s: %w", uid, err)
	}
	return ProfileFromDocument(uid, fields), nil
}

// SubscribeProfile opens a live stream of one user's profile.
func (s *userService) SubscribeProfile(uid string) (*realtime.DocSubscription[*Profile], error) {
	return realtime.SubscribeDoc(s.docs, Collection, uid, func(fields store.Fields) *Profile {
		return ProfileFromDocument(uid, fields)
	})
}

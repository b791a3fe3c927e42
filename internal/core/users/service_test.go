package users

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AmitLevy9/DailyBite/internal/store/memory"
)

func TestUpdateProfileFirstSaveCreatesRecord(t *testing.T) {
	docs := memory.NewDocStore()
	svc := NewService(docs, memory.NewBlobStore(), nil)
	ctx := context.Background()

	require.NoError(t, svc.UpdateProfile(ctx, UpdateProfileRequest{
		UID: "u1", DisplayName: "Amit", Avatar: []byte("png"),
	}))

	profile, err := svc.GetProfile(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, "Amit", profile.DisplayName)
	assert.Equal(t, AvatarPath("u1"), profile.PhotoPath)
	assert.NotZero(t, profile.UpdatedAt)
}

func TestUpdateProfileNameOnlyKeepsExistingAvatar(t *testing.T) {
	docs := memory.NewDocStore()
	blobs := memory.NewBlobStore()
	svc := NewService(docs, blobs, nil)
	ctx := context.Background()

	require.NoError(t, svc.UpdateProfile(ctx, UpdateProfileRequest{
		UID: "u1", DisplayName: "Amit", Avatar: []byte("png"),
	}))

	// Renaming without a new avatar must not clobber the stored reference.
	require.NoError(t, svc.UpdateProfile(ctx, UpdateProfileRequest{
		UID: "u1", DisplayName: "Amit Levy",
	}))

	profile, err := svc.GetProfile(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, "Amit Levy", profile.DisplayName)
	assert.Equal(t, AvatarPath("u1"), profile.PhotoPath)
}

func TestUpdateProfileNameOnlyWriteOmitsPhotoPath(t *testing.T) {
	docs := memory.NewDocStore()
	svc := NewService(docs, memory.NewBlobStore(), nil)
	ctx := context.Background()

	require.NoError(t, svc.UpdateProfile(ctx, UpdateProfileRequest{UID: "u1", DisplayName: "Amit"}))

	fields, err := docs.Get(ctx, Collection, "u1")
	require.NoError(t, err)
	assert.False(t, fields.Has("photoPath"), "no avatar uploaded, no photoPath written")
}

func TestUpdateProfileRequiresName(t *testing.T) {
	svc := NewService(memory.NewDocStore(), memory.NewBlobStore(), nil)
	err := svc.UpdateProfile(context.Background(), UpdateProfileRequest{UID: "u1", DisplayName: "  "})
	assert.ErrorIs(t, err, ErrDisplayNameRequired)
}

func TestGetProfileAbsentMeansNoProfile(t *testing.T) {
	svc := NewService(memory.NewDocStore(), memory.NewBlobStore(), nil)
	profile, err := svc.GetProfile(context.Background(), "nobody")
	require.NoError(t, err, "absence of the record is not an error")
	assert.Nil(t, profile)
}

func TestSubscribeProfileEmitsNilThenProfile(t *testing.T) {
	docs := memory.NewDocStore()
	svc := NewService(docs, memory.NewBlobStore(), nil)

	sub, err := svc.SubscribeProfile("u1")
	require.NoError(t, err)
	defer sub.Close()

	select {
	case p := <-sub.Updates():
		assert.Nil(t, p, "no record yet")
	case <-time.After(2 * time.Second):
		t.Fatal("no initial snapshot")
	}

	require.NoError(t, svc.UpdateProfile(context.Background(), UpdateProfileRequest{
		UID: "u1", DisplayName: "Amit",
	}))

	select {
	case p := <-sub.Updates():
		require.NotNil(t, p)
		assert.Equal(t, "Amit", p.DisplayName)
	case <-time.After(2 * time.Second):
		t.Fatal("no update after save")
	}
}

func TestProfileDocumentRoundTrip(t *testing.T) {
	original := Profile{UID: "u1", DisplayName: "Amit", PhotoPath: AvatarPath("u1"), UpdatedAt: 42}
	assert.Equal(t, &original, ProfileFromDocument("u1", original.Document()))

	sparse := Profile{UID: "u2"}
	assert.Equal(t, &sparse, ProfileFromDocument("u2", sparse.Document()))

	assert.Nil(t, ProfileFromDocument("u3", nil), "nil fields mean no profile")
}

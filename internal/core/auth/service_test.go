package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AmitLevy9/DailyBite/internal/store/memory"
)

func TestSignInAnonymouslyMintsFreshUID(t *testing.T) {
	svc := NewService(memory.NewDocStore())
	ctx := context.Background()

	uid1, err := svc.SignInAnonymously(ctx)
	require.NoError(t, err)
	uid2, err := svc.SignInAnonymously(ctx)
	require.NoError(t, err)

	assert.NotEmpty(t, uid1)
	assert.NotEqual(t, uid1, uid2)
}

func TestSignUpThenSignIn(t *testing.T) {
	svc := NewService(memory.NewDocStore())
	ctx := context.Background()

	uid, err := svc.SignUpEmail(ctx, "  Amit@Example.com ", "secret123")
	require.NoError(t, err)
	require.NotEmpty(t, uid)

	// Email is normalized, so a differently cased login resolves the same uid.
	got, err := svc.SignInEmail(ctx, "amit@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, uid, got)
}

func TestSignUpDuplicateEmail(t *testing.T) {
	svc := NewService(memory.NewDocStore())
	ctx := context.Background()

	_, err := svc.SignUpEmail(ctx, "amit@example.com", "secret123")
	require.NoError(t, err)

	_, err = svc.SignUpEmail(ctx, "amit@example.com", "other")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestSignInRejectsWrongPasswordAndUnknownEmail(t *testing.T) {
	svc := NewService(memory.NewDocStore())
	ctx := context.Background()

	_, err := svc.SignUpEmail(ctx, "amit@example.com", "secret123")
	require.NoError(t, err)

	_, err = svc.SignInEmail(ctx, "amit@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.SignInEmail(ctx, "nobody@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

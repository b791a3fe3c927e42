// Package auth implements the identity provider contract: anonymous and
// email sign-in backed by a credentials collection in the document store.
// Session handling is the HTTP layer's concern; this service only resolves
// credentials to a uid.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/AmitLevy9/DailyBite/internal/store"
)

// credentialsCollection holds email -> {uid, passwordHash} records.
const credentialsCollection = "credentials"

var (
	// ErrInvalidCredentials is returned for unknown email or wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailTaken is returned when signing up an already registered email.
	ErrEmailTaken = errors.New("email already registered")
)

// Service resolves sign-ins to user ids.
type Service interface {
	// SignInAnonymously mints a fresh uid with no credentials behind it.
	SignInAnonymously(ctx context.Context) (string, error)

	// SignUpEmail registers email/password and returns the new uid.
	SignUpEmail(ctx context.Context, email, password string) (string, error)

	// SignInEmail verifies email/password and returns the uid.
	SignInEmail(ctx context.Context, email, password string) (string, error)
}

type authService struct {
	docs store.DocumentStore
}

// NewService creates a new auth service.
func NewService(docs store.DocumentStore) Service {
	return &authService{docs: docs}
}

func (s *authService) SignInAnonymously(ctx context.Context) (string, error) {
	return s.docs.NewID("users"), nil
}

func (s *authService) SignUpEmail(ctx context.Context, email, password string) (string, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", ErrInvalidCredentials
	}

	if _, err := s.docs.Get(ctx, credentialsCollection, email); err == nil {
		return "", ErrEmailTaken
	} else if !store.IsNotFound(err) {
		return "", fmt.Errorf("failed to check credentials: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	uid := s.docs.NewID("users")
	err = s.docs.Put(ctx, credentialsCollection, email, store.Fields{
		"uid":          uid,
		"passwordHash": string(hash),
	})
	if err != nil {
		return "", fmt.Errorf("failed to store credentials: %w", err)
	}
	return uid, nil
}

func (s *authService) SignInEmail(ctx context.Context, email, password string) (string, error) {
	email = normalizeEmail(email)
	fields, err := s.docs.Get(ctx, credentialsCollection, email)
	if err != nil {
		if store.IsNotFound(err) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to read credentials: %w", err)
	}

	hash := fields.String("passwordHash")
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}

	uid := fields.String("uid")
	if uid == "" {
		return "", ErrInvalidCredentials
	}
	return uid, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

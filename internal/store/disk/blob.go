// Package disk stores blobs as plain files under a root directory.
package disk

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// BlobStore writes blobs to the local filesystem. The storage path becomes
// the file path relative to the root, so paths like posts/{uid}/{id}.jpg
// map onto a matching directory tree.
type BlobStore struct {
	root    string
	baseURL string
}

// NewBlobStore creates a filesystem blob store rooted at dir. baseURL is
// prepended when building public URLs and may be empty for relative URLs.
func NewBlobStore(dir, baseURL string) (*BlobStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create blob directory: %w", err)
	}
	return &BlobStore{root: dir, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

// Root returns the directory the store writes under, for serving files.
func (s *BlobStore) Root() string {
	return s.root
}

func (s *BlobStore) resolve(path string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(path))
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid blob path %q", path)
	}
	return filepath.Join(s.root, clean), nil
}

func (s *BlobStore) Put(ctx context.Context, path string, data []byte) error {
	dst, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("failed to create blob directory: %w", err)
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return fmt.Errorf("failed to write blob %s: %w", path, err)
	}
	return nil
}

func (s *BlobStore) PutFile(ctx context.Context, path, localPath string) error {
	dst, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("failed to create blob directory: %w", err)
	}
	src, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open local file %s: %w", localPath, err)
	}
	defer src.Close()
	f, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create blob %s: %w", path, err)
	}
	defer f.Close()
	if _, err := io.Copy(f, src); err != nil {
		return fmt.Errorf("failed to write blob %s: %w", path, err)
	}
	return nil
}

func (s *BlobStore) Delete(ctx context.Context, path string) error {
	dst, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.Remove(dst); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to delete blob %s: %w", path, err)
	}
	return nil
}

func (s *BlobStore) URL(ctx context.Context, path string) (string, error) {
	if _, err := s.resolve(path); err != nil {
		return "", err
	}
	return s.baseURL + "/blobs/" + path, nil
}

package object

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"

	"jobsearch-backend/internal/shared/util"
)

// ErrInvalidKey is returned for keys that escape the store root.
var ErrInvalidKey = errors.New("invalid storage key")

// ObjectStore saves and retrieves blobs by storage key.
type ObjectStore interface {
	Put(ctx context.Context, storageKey, contentType string, r io.Reader) (sizeBytes int64, err error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
	Delete(ctx context.Context, storageKey string) error
}

// UserKey builds a storage key under a hashed per-user namespace.
func UserKey(kind, userID, fileName string) (string, error) {
	name, err := util.SanitizeFileName(fileName)
	if err != nil {
		return "", err
	}
	return path.Join(kind, util.Digest(userID), name), nil
}

// CleanKey rejects absolute and parent-relative keys.
func CleanKey(storageKey string) (string, error) {
	clean := path.Clean(strings.ReplaceAll(storageKey, "\\", "/"))
	if clean == "." || strings.HasPrefix(clean, "..") || strings.HasPrefix(clean, "/") {
		return "", ErrInvalidKey
	}
	return clean, nil
}

package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

// ErrUnsupportedContentType is returned for uploads that are not images.
var ErrUnsupportedContentType = errors.New("unsupported content type")

// FileStorage defines the interface for object storage operations.
type FileStorage interface {
	// GeneratePresignedUploadURL creates a temporary URL that allows a PUT of objectKey.
	GeneratePresignedUploadURL(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error)

	// ObjectURL is the stable URL an uploaded object is served from.
	ObjectURL(objectKey string) string

	DeleteObject(ctx context.Context, objectKey string) error
}

var avatarExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// AvatarObjectKey builds a unique key for a user's avatar image,
// e.g. avatars/<userID>/<uuid>.png.
func AvatarObjectKey(userID, contentType string) (string, error) {
	ext, ok := avatarExtensions[strings.ToLower(strings.TrimSpace(contentType))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedContentType, contentType)
	}
	return path.Join("avatars", userID, uuid.NewString()+ext), nil
}

// AvatarKeyFromURL recovers the object key behind an avatar URL served by
// files. It reports false for URLs hosted elsewhere or outside the user's
// avatar prefix.
func AvatarKeyFromURL(files FileStorage, userID, rawURL string) (string, bool) {
	base := files.ObjectURL("")
	if base == "" || !strings.HasPrefix(rawURL, base) {
		return "", false
	}
	key, err := url.PathUnescape(strings.TrimPrefix(rawURL, base))
	if err != nil || path.Clean(key) != key || !strings.HasPrefix(key, path.Join("avatars", userID)+"/") {
		return "", false
	}
	return key, true
}

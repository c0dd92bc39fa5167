package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotInBucket is returned when a URL does not point into the store's bucket
var ErrNotInBucket = errors.New("url does not reference the bucket")

// ErrNotOwned is returned when an object key lies outside the expected user's folder
var ErrNotOwned = errors.New("object belongs to another user")

// CacheControl is applied to every uploaded thumbnail
const CacheControl = "max-age=3600"

// BlobStore holds project thumbnails
type BlobStore interface {
	Upload(ctx context.Context, path string, content []byte, contentType string) (string, error)
	Delete(ctx context.Context, path string) error
	PathFromURL(url string) (string, error)
}

// ThumbnailPath names an uploaded thumbnail: <userID>/<unixMillis><ext>
func ThumbnailPath(userID string, at time.Time, ext string) string {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return fmt.Sprintf("%s/%d%s", userID, at.UnixMilli(), ext)
}

// OwnedPath checks that path lies in userID's folder, as named by ThumbnailPath
func OwnedPath(path, userID string) error {
	if userID == "" || !strings.HasPrefix(path, userID+"/") || strings.Contains(path, "..") {
		return fmt.Errorf("%w: %s", ErrNotOwned, path)
	}
	return nil
}

// trimQuery drops any query string or fragment from an object key
func trimQuery(path string) string {
	if q := strings.IndexAny(path, "?#"); q >= 0 {
		return path[:q]
	}
	return path
}

// pathAfterBucket returns the object key that follows "/<bucket>/" in a public URL
func pathAfterBucket(url, bucket string) (string, error) {
	marker := "/" + bucket + "/"
	idx := strings.LastIndex(url, marker)
	if idx < 0 {
		return "", fmt.Errorf("%w: %s", ErrNotInBucket, url)
	}
	path := trimQuery(url[idx+len(marker):])
	if path == "" {
		return "", fmt.Errorf("%w: %s", ErrNotInBucket, url)
	}
	return path, nil
}

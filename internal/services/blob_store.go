package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// BlobStore is the object storage used for product documents
type BlobStore interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	PublicURL(key string) string
	Remove(ctx context.Context, key string) error
	KeyFromURL(url string) (string, bool)
	EnsureBucket(ctx context.Context) error
}

// ObjectKey lays documents out as <parentID>/<unixMillis>-<seq>-<fileName>.
// seq is the file's position in its upload batch, so same-named files in one
// request never share a key.
func ObjectKey(parentID uuid.UUID, seq int, fileName string, at time.Time) string {
	return fmt.Sprintf("%s/%d-%d-%s", parentID, at.UnixMilli(), seq, path.Base(fileName))
}

type bucketURLs struct {
	baseURL string
	bucket  string
}

func (b bucketURLs) PublicURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(b.baseURL, "/"), b.bucket, key)
}

// KeyFromURL recovers the object key from a stored public URL
func (b bucketURLs) KeyFromURL(url string) (string, bool) {
	marker := "/" + b.bucket + "/"
	idx := strings.Index(url, marker)
	if idx < 0 {
		return "", false
	}
	key := url[idx+len(marker):]
	if key == "" {
		return "", false
	}
	return key, true
}

package storage

import (
	"context"
	"io"
	"time"
)

// ObjectVersion is one stored version of a key.
type ObjectVersion struct {
	VersionID    string    `json:"versionId"`
	LastModified time.Time `json:"lastModified"`
	Size         int64     `json:"size"`
	IsLatest     bool      `json:"isLatest"`
}

// ObjectStorage is the narrow port the file store delegates bytes to. The
// backing bucket is expected to have versioning enabled: Put must return the
// version identifier of the stored object.
type ObjectStorage interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string, size int64, metadata map[string]string) (versionID string, err error)
	PresignDownload(ctx context.Context, key, versionID string, ttl time.Duration) (string, error)
	// DeleteVersion removes one stored version. An empty versionID falls
	// back to an unversioned delete (delete marker on versioned buckets).
	DeleteVersion(ctx context.Context, key, versionID string) error
	ListVersions(ctx context.Context, key string) ([]ObjectVersion, error)
}

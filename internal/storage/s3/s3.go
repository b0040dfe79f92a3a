package s3

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	appcfg "github.com/spshpau/project-service/config"
	"github.com/spshpau/project-service/internal/storage"
)

// Store implements storage.ObjectStorage on a versioned S3 bucket.
type Store struct {
	client    *s3.Client
	presigner *s3.PresignClient
	bucket    string
}

func New(ctx context.Context, cfg *appcfg.S3Config) (*Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg)
	return &Store{
		client:    client,
		presigner: s3.NewPresignClient(client),
		bucket:    cfg.Bucket,
	}, nil
}

func (s *Store) Put(ctx context.Context, key string, body io.Reader, contentType string, size int64, metadata map[string]string) (string, error) {
	out, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
		Metadata:      metadata,
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}

	versionID := aws.ToString(out.VersionId)
	log.Printf("s3: stored %s version=%s", key, versionID)
	return versionID, nil
}

func (s *Store) PresignDownload(ctx context.Context, key, versionID string, ttl time.Duration) (string, error) {
	in := &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}
	if versionID != "" {
		in.VersionId = aws.String(versionID)
	}

	req, err := s.presigner.PresignGetObject(ctx, in, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("presign %s@%s: %w", key, versionID, err)
	}
	return req.URL, nil
}

func (s *Store) DeleteVersion(ctx context.Context, key, versionID string) error {
	in := &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}
	if versionID != "" {
		in.VersionId = aws.String(versionID)
	} else {
		// No version id: unversioned delete, which leaves a delete marker
		// on versioned buckets.
		log.Printf("s3: deleting %s without version id", key)
	}

	if _, err := s.client.DeleteObject(ctx, in); err != nil {
		return fmt.Errorf("delete object %s@%s: %w", key, versionID, err)
	}
	return nil
}

func (s *Store) ListVersions(ctx context.Context, key string) ([]storage.ObjectVersion, error) {
	out := make([]storage.ObjectVersion, 0, 8)

	in := &s3.ListObjectVersionsInput{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(key),
	}
	for {
		resp, err := s.client.ListObjectVersions(ctx, in)
		if err != nil {
			return nil, fmt.Errorf("list versions %s: %w", key, err)
		}

		for _, v := range resp.Versions {
			if aws.ToString(v.Key) != key {
				continue
			}
			out = append(out, storage.ObjectVersion{
				VersionID:    aws.ToString(v.VersionId),
				LastModified: aws.ToTime(v.LastModified),
				Size:         aws.ToInt64(v.Size),
				IsLatest:     aws.ToBool(v.IsLatest),
			})
		}

		if !aws.ToBool(resp.IsTruncated) {
			break
		}
		in.KeyMarker = resp.NextKeyMarker
		in.VersionIdMarker = resp.NextVersionIdMarker
	}

	return out, nil
}

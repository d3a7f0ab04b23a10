// Package storage keeps uploaded files in MinIO buckets.
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/nixbug/entebus-server/internal/config"
)

const (
	codeNoSuchKey    = "NoSuchKey"
	codeNoSuchObject = "NoSuchObject"
)

// objectAPI is the part of the MinIO client used by Store.
type objectAPI interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error
	RemoveBucket(ctx context.Context, bucket string) error
	ListObjects(ctx context.Context, bucket string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
	StatObject(ctx context.Context, bucket, key string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	RemoveObject(ctx context.Context, bucket, key string, opts minio.RemoveObjectOptions) error
	GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, error)
	PutObject(ctx context.Context, bucket, key string, r io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

type minioClient struct {
	*minio.Client
}

// GetObject narrows the returned object to a reader so Store can be tested without a server.
func (c minioClient) GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	return c.Client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
}

type Store struct {
	api objectAPI
}

func NewMinIOStore(cfg *config.Config) (*Store, error) {
	client, err := minio.New(cfg.MinIOEndpoint(), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Env.MinIO.Username, cfg.Env.MinIO.Password, ""),
		Secure: cfg.Storage.Secure,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	return &Store{api: minioClient{client}}, nil
}

// CreateBucket creates bucket unless it already exists.
func (s *Store) CreateBucket(ctx context.Context, bucket string) error {
	exists, err := s.api.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", bucket, err)
	}
	if exists {
		return nil
	}

	if err := s.api.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("make bucket %s: %w", bucket, err)
	}

	slog.Info("Bucket created.", "bucket", bucket)
	return nil
}

// DeleteBucket empties bucket and removes it. A missing bucket is left alone.
func (s *Store) DeleteBucket(ctx context.Context, bucket string) error {
	exists, err := s.api.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", bucket, err)
	}
	if !exists {
		return nil
	}

	// Cancelling stops the listing goroutine when the loop exits early.
	listCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	for obj := range s.api.ListObjects(listCtx, bucket, minio.ListObjectsOptions{Recursive: true}) {
		if obj.Err != nil {
			return fmt.Errorf("list objects in %s: %w", bucket, obj.Err)
		}

		if err := s.api.RemoveObject(ctx, bucket, obj.Key, minio.RemoveObjectOptions{}); err != nil {
			return fmt.Errorf("remove object %s/%s: %w", bucket, obj.Key, err)
		}
	}

	if err := s.api.RemoveBucket(ctx, bucket); err != nil {
		return fmt.Errorf("remove bucket %s: %w", bucket, err)
	}

	slog.Info("Bucket deleted.", "bucket", bucket)
	return nil
}

func (s *Store) CreateAll(ctx context.Context) error {
	for _, b := range AllBuckets {
		if err := s.CreateBucket(ctx, b); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) DeleteAll(ctx context.Context) error {
	for _, b := range AllBuckets {
		if err := s.DeleteBucket(ctx, b); err != nil {
			return err
		}
	}
	return nil
}

// Download returns the content stored under key, or nil when there is none.
func (s *Store) Download(ctx context.Context, bucket, key string) ([]byte, error) {
	obj, err := s.api.GetObject(ctx, bucket, key)
	if err != nil {
		if isMissing(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get object %s/%s: %w", bucket, key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if isMissing(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read object %s/%s: %w", bucket, key, err)
	}

	return data, nil
}

// Delete removes key and reports whether it existed.
func (s *Store) Delete(ctx context.Context, bucket, key string) (bool, error) {
	if _, err := s.api.StatObject(ctx, bucket, key, minio.StatObjectOptions{}); err != nil {
		if isMissing(err) {
			return false, nil
		}
		return false, fmt.Errorf("stat object %s/%s: %w", bucket, key, err)
	}

	if err := s.api.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return false, fmt.Errorf("remove object %s/%s: %w", bucket, key, err)
	}

	return true, nil
}

func (s *Store) Upload(ctx context.Context, bucket, key string, size int64, r io.Reader) error {
	if _, err := s.api.PutObject(ctx, bucket, key, r, size, minio.PutObjectOptions{}); err != nil {
		return fmt.Errorf("put object %s/%s: %w", bucket, key, err)
	}
	return nil
}

func isMissing(err error) bool {
	code := minio.ToErrorResponse(err).Code
	return code == codeNoSuchKey || code == codeNoSuchObject
}

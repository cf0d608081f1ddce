package object

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"path"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/wb-go/wbf/retry"
)

// Storage mirrors generated files to an S3-compatible bucket using MinIO.
// Objects are stored under prefix/subdir/filename.
type Storage struct {
	client     *minio.Client
	bucketName string
	prefix     string
	strategy   retry.Strategy
}

// NewStorage creates a new Storage instance connected to the specified MinIO server.
// If the bucket does not exist, it will be created automatically.
func NewStorage(ctx context.Context, endpoint, accessKey, secretKey, bucketName string, useSSL bool, prefix string, strategy retry.Strategy) (*Storage, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, bucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check if bucket exists: %w", err)
	}

	if !exists {
		if err := client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &Storage{
		client:     client,
		bucketName: bucketName,
		prefix:     prefix,
		strategy:   strategy,
	}, nil
}

// Save uploads src to prefix/subdir/filename, retrying transient failures.
// Returns the object key within the bucket.
func (s *Storage) Save(ctx context.Context, subdir, filename string, src io.Reader) (string, error) {
	// Buffered so every attempt sends the full body.
	data, err := io.ReadAll(src)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", filename, err)
	}

	key := ObjectKey(s.prefix, subdir, filename)
	opts := minio.PutObjectOptions{ContentType: ContentType(filename)}

	err = retry.Do(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		_, err := s.client.PutObject(ctx, s.bucketName, key, bytes.NewReader(data), int64(len(data)), opts)
		return err
	}, s.strategy)
	if err != nil {
		return "", fmt.Errorf("failed to save file %s: %w", key, err)
	}

	return key, nil
}

// Delete removes the object stored under prefix/subdir/filename.
func (s *Storage) Delete(ctx context.Context, subdir, filename string) error {
	return s.client.RemoveObject(ctx, s.bucketName, ObjectKey(s.prefix, subdir, filename), minio.RemoveObjectOptions{})
}

// ObjectKey joins the key parts with forward slashes regardless of the host OS.
func ObjectKey(prefix, subdir, filename string) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{prefix, subdir, filename} {
		p = strings.Trim(filepath.ToSlash(p), "/")
		if p != "" && p != "." {
			parts = append(parts, p)
		}
	}
	return path.Join(parts...)
}

// ContentType guesses the MIME type from the file extension.
func ContentType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	case ".xml":
		return "application/xml"
	}

	if t := mime.TypeByExtension(filepath.Ext(filename)); t != "" {
		return t
	}
	return "application/octet-stream"
}

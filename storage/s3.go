package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Client stores wardrobe and try-on images in an S3-compatible bucket.
type S3Client struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// NewS3Client builds a client from environment configuration:
// S3_ENDPOINT, S3_BUCKET, S3_ACCESS_KEY, S3_SECRET_KEY, S3_USE_SSL.
func NewS3Client() (*S3Client, error) {
	endpoint := os.Getenv("S3_ENDPOINT")
	bucket := os.Getenv("S3_BUCKET")
	if endpoint == "" || bucket == "" {
		return nil, fmt.Errorf("S3_ENDPOINT and S3_BUCKET must be set")
	}

	useSSL := os.Getenv("S3_USE_SSL") != "false"

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(os.Getenv("S3_ACCESS_KEY"), os.Getenv("S3_SECRET_KEY"), ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing s3 client: %w", err)
	}

	scheme := "https"
	if !useSSL {
		scheme = "http"
	}

	return &S3Client{
		client:    client,
		bucket:    bucket,
		publicURL: fmt.Sprintf("%s://%s/%s", scheme, endpoint, bucket),
	}, nil
}

func (s *S3Client) UploadBase64(ctx context.Context, payload, objectKey, contentType string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", fmt.Errorf("decoding base64 payload: %w", err)
	}

	_, err = s.client.PutObject(ctx, s.bucket, objectKey, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("uploading %s: %w", objectKey, err)
	}

	return s.publicURL + "/" + objectKey, nil
}

func (s *S3Client) FetchBase64(ctx context.Context, url string) (string, error) {
	key, err := s.objectKeyFromURL(url)
	if err != nil {
		return "", err
	}

	object, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", key, err)
	}
	defer object.Close()

	data, err := io.ReadAll(object)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", key, err)
	}

	return base64.StdEncoding.EncodeToString(data), nil
}

func (s *S3Client) Delete(ctx context.Context, objectKey string) error {
	return s.client.RemoveObject(ctx, s.bucket, objectKey, minio.RemoveObjectOptions{})
}

// objectKeyFromURL extracts the bucket-relative key from a public URL
// produced by UploadBase64.
func (s *S3Client) objectKeyFromURL(url string) (string, error) {
	prefix := s.publicURL + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", fmt.Errorf("url %q does not belong to bucket %s", url, s.bucket)
	}
	return strings.TrimPrefix(url, prefix), nil
}

package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

const publicHost = "https://storage.googleapis.com"

// GCSImageStore stores uploaded images as objects in a single bucket.
type GCSImageStore struct {
	storageClient *storage.Client
	BucketName    string
	Prefix        string
}

func NewGCSImageStore(ctx context.Context, bucketName, saKeyPath string) (*GCSImageStore, error) {
	var opts []option.ClientOption
	if saKeyPath != "" {
		if _, err := os.Stat(saKeyPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("service account key not found at path: %s", saKeyPath)
		}
		opts = append(opts, option.WithCredentialsFile(saKeyPath))
	}

	storageClient, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS storage client: %w", err)
	}

	return &GCSImageStore{
		storageClient: storageClient,
		BucketName:    bucketName,
		Prefix:        "images",
	}, nil
}

// Upload decodes a base64 data URL and writes it to the bucket, returning the
// public URL of the new object.
func (s *GCSImageStore) Upload(ctx context.Context, dataURL string) (string, error) {
	contentType, data, err := DecodeDataURL(dataURL)
	if err != nil {
		return "", err
	}

	objectName := s.Prefix + "/" + uuid.NewString() + extensionFor(contentType)
	writer := s.storageClient.Bucket(s.BucketName).Object(objectName).NewWriter(ctx)
	writer.ContentType = contentType
	writer.CacheControl = "public, max-age=31536000"

	if _, err := io.Copy(writer, bytes.NewReader(data)); err != nil {
		_ = writer.Close()
		return "", fmt.Errorf("failed to write GCS object %s: %w", objectName, err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to close GCS writer for %s: %w", objectName, err)
	}

	return s.publicURL(objectName), nil
}

// Delete removes the object behind a URL previously returned by Upload.
// URLs that do not point into this bucket are ignored.
func (s *GCSImageStore) Delete(ctx context.Context, url string) error {
	objectName, ok := s.objectName(url)
	if !ok {
		return nil
	}
	err := s.storageClient.Bucket(s.BucketName).Object(objectName).Delete(ctx)
	if err != nil && err != storage.ErrObjectNotExist {
		return fmt.Errorf("failed to delete GCS object %s: %w", objectName, err)
	}
	return nil
}

func (s *GCSImageStore) Close() error {
	return s.storageClient.Close()
}

func (s *GCSImageStore) publicURL(objectName string) string {
	return fmt.Sprintf("%s/%s/%s", publicHost, s.BucketName, objectName)
}

func (s *GCSImageStore) objectName(url string) (string, bool) {
	prefix := fmt.Sprintf("%s/%s/", publicHost, s.BucketName)
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	name := strings.TrimPrefix(url, prefix)
	return name, name != ""
}

// DecodeDataURL parses "data:<mime>;base64,<payload>" and returns the MIME
// type and decoded bytes. Only image types are accepted.
func DecodeDataURL(dataURL string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(dataURL, "data:")
	if !ok {
		return "", nil, fmt.Errorf("image must be a data URL")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("malformed data URL")
	}
	contentType, encoding, _ := strings.Cut(meta, ";")
	if encoding != "base64" {
		return "", nil, fmt.Errorf("data URL must be base64 encoded")
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", nil, fmt.Errorf("unsupported content type %q", contentType)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("invalid base64 payload: %w", err)
	}
	if len(data) == 0 {
		return "", nil, fmt.Errorf("empty image")
	}
	return contentType, data, nil
}

func extensionFor(contentType string) string {
	exts, err := mime.ExtensionsByType(contentType)
	if err != nil || len(exts) == 0 {
		return ""
	}
	return exts[0]
}

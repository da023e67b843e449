package media

import (
	"bytes"
	"context"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"

	"github.com/scsit/ges/core"
)

// MinIOStore puts files in a bucket and returns URLs under baseURL.
type MinIOStore struct {
	client  *minio.Client
	bucket  string
	baseURL string
	maxSize int64
}

var _ core.MediaStore = (*MinIOStore)(nil)

// NewMinIOStore connects to the configured endpoint and creates the bucket if needed.
func NewMinIOStore(ctx context.Context, conf core.MediaConfig) (*MinIOStore, error) {
	client, err := minio.New(conf.MinIOEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(conf.MinIOAccessKey, conf.MinIOSecretKey, ""),
		Secure: conf.MinIOUseSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating minio client")
	}

	exists, err := client.BucketExists(ctx, conf.MinIOBucket)
	if err != nil {
		return nil, errors.Wrap(err, "checking bucket")
	}
	if !exists {
		if err = client.MakeBucket(ctx, conf.MinIOBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, errors.Wrap(err, "creating bucket")
		}
	}

	baseURL := conf.BaseURL
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &MinIOStore{client: client, bucket: conf.MinIOBucket, baseURL: baseURL, maxSize: conf.MaxUploadSize}, nil
}

func (s *MinIOStore) SaveImage(ctx context.Context, folder string, data []byte) (string, error) {
	img, err := prepareImage(data, s.maxSize)
	if err != nil {
		return "", err
	}

	name := path.Join(folder, uuid.New().String()+img.ext)
	_, err = s.client.PutObject(ctx, s.bucket, name, bytes.NewReader(img.data), int64(len(img.data)), minio.PutObjectOptions{
		ContentType: img.contentType,
	})
	if err != nil {
		return "", errors.Wrap(err, "uploading object")
	}
	return s.baseURL + name, nil
}

func (s *MinIOStore) Delete(ctx context.Context, url string) error {
	name := strings.TrimPrefix(url, s.baseURL)
	if name == url || name == "" {
		return nil
	}
	if err := s.client.RemoveObject(ctx, s.bucket, name, minio.RemoveObjectOptions{}); err != nil {
		return errors.Wrap(err, "removing object")
	}
	return nil
}

package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"

	"github.com/imgcatalog/backend/internal/config"
	"github.com/imgcatalog/backend/pkg/logger"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOClient stores uploads in an S3-compatible bucket.
type MinIOClient struct {
	client *minio.Client
	bucket string
}

func NewMinIOClient(cfg config.MinIOConfig) (*MinIOClient, error) {
	var creds *credentials.Credentials
	if cfg.AccessKey == "" {
		creds = credentials.NewIAM("")
	} else {
		creds = credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, "")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  creds,
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, err
	}

	return &MinIOClient{
		client: client,
		bucket: cfg.Bucket,
	}, nil
}

func (m *MinIOClient) Name() string {
	return config.StorageDriverMinIO
}

// Connect verifies the bucket is reachable. MinIO requests are stateless, so
// the session holds no network handle of its own.
func (m *MinIOClient) Connect(ctx context.Context) (Session, error) {
	address := m.client.EndpointURL().Host
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		logger.Error("minio_connect_failed", err, map[string]interface{}{
			"endpoint": address,
			"bucket":   m.bucket,
		})
		return nil, &ConnectionError{Address: address, Err: err}
	}
	if !exists {
		return nil, &ConnectionError{Address: address, Err: fmt.Errorf("bucket %s does not exist", m.bucket)}
	}
	return &minioSession{client: m.client, bucket: m.bucket}, nil
}

func (m *MinIOClient) EnsureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed creating bucket %s: %w", m.bucket, err)
	}
	return nil
}

type minioSession struct {
	client *minio.Client
	bucket string
}

func (s *minioSession) Store(ctx context.Context, remotePath string, reader io.Reader, size int64) error {
	objectName := strings.TrimPrefix(remotePath, "/")
	contentType := mime.TypeByExtension(path.Ext(objectName))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := s.client.PutObject(ctx, s.bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		if resp := minio.ToErrorResponse(err); resp.Code != "" {
			err = &TransferError{Path: remotePath, Status: resp.Code, Err: err}
		}
		logger.Error("minio_upload_failed", err, map[string]interface{}{
			"object_name":  objectName,
			"size":         size,
			"content_type": contentType,
			"bucket":       s.bucket,
		})
		return err
	}

	logger.Info("minio_upload_success", map[string]interface{}{
		"object_name":  objectName,
		"size":         size,
		"content_type": contentType,
		"bucket":       s.bucket,
	})
	return nil
}

func (s *minioSession) Close() error {
	return nil
}

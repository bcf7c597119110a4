package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/imgcatalog/backend/internal/storage"
	"github.com/imgcatalog/backend/pkg/logger"
)

const DefaultMaxImageBytes int64 = 5 * 1024 * 1024

var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

type UploadErrorKind string

const (
	UploadRejected   UploadErrorKind = "rejected"
	UploadConnection UploadErrorKind = "connection"
	UploadTransfer   UploadErrorKind = "transfer"
	UploadTimeout    UploadErrorKind = "timeout"
	UploadUnknown    UploadErrorKind = "unknown"
)

type RejectReason string

const (
	RejectUnsupportedType RejectReason = "unsupported_type"
	RejectEmpty           RejectReason = "empty"
	RejectTooLarge        RejectReason = "too_large"
)

// UploadError describes why an image did not reach the remote store. Reason is
// set only for rejections, Status only for transfer failures.
type UploadError struct {
	Kind   UploadErrorKind
	Reason RejectReason
	Status string
	Err    error
}

func (e *UploadError) Error() string {
	switch e.Kind {
	case UploadRejected:
		return "image rejected: " + e.message()
	case UploadTransfer:
		return fmt.Sprintf("image transfer failed with status %s", e.Status)
	default:
		if e.Err != nil {
			return fmt.Sprintf("image upload %s: %v", e.Kind, e.Err)
		}
		return fmt.Sprintf("image upload %s", e.Kind)
	}
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

func (e *UploadError) message() string {
	switch e.Reason {
	case RejectUnsupportedType:
		return "only .jpg, .jpeg, .png, .gif and .webp files are allowed"
	case RejectEmpty:
		return "file is empty"
	case RejectTooLarge:
		return "file exceeds the maximum allowed size"
	default:
		return string(e.Reason)
	}
}

// ValidateImage checks the extension and size of an image before any network
// activity. A non-positive max falls back to DefaultMaxImageBytes.
func ValidateImage(fileName string, size int64, max int64) error {
	if max <= 0 {
		max = DefaultMaxImageBytes
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	switch {
	case !allowedImageExtensions[ext]:
		return &UploadError{Kind: UploadRejected, Reason: RejectUnsupportedType}
	case size <= 0:
		return &UploadError{Kind: UploadRejected, Reason: RejectEmpty}
	case size > max:
		return &UploadError{Kind: UploadRejected, Reason: RejectTooLarge}
	}
	return nil
}

type UploadConfig struct {
	// Host and PublicPath build the public URL: https://{Host}/{PublicPath}/{name}.
	Host       string
	PublicPath string
	// BasePath is the directory on the remote store that receives uploads.
	BasePath string
	MaxBytes int64
}

type UploadResult struct {
	FileName string `json:"fileName"`
	URL      string `json:"fileUrl"`
	Size     int64  `json:"fileSize"`
}

// ImageUploader is satisfied by UploadService.
type ImageUploader interface {
	Upload(ctx context.Context, fileName string, reader io.Reader, size int64) (*UploadResult, error)
}

type UploadService struct {
	dialer storage.Dialer
	cfg    UploadConfig
}

func NewUploadService(dialer storage.Dialer, cfg UploadConfig) *UploadService {
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = DefaultMaxImageBytes
	}
	cfg.BasePath = strings.TrimRight(cfg.BasePath, "/")
	cfg.PublicPath = strings.Trim(cfg.PublicPath, "/")
	return &UploadService{dialer: dialer, cfg: cfg}
}

func (s *UploadService) MaxBytes() int64 {
	return s.cfg.MaxBytes
}

// Upload validates the image, stores it under a fresh unique name and returns
// its public URL. Failures are never retried here.
func (s *UploadService) Upload(ctx context.Context, fileName string, reader io.Reader, size int64) (*UploadResult, error) {
	if err := ValidateImage(fileName, size, s.cfg.MaxBytes); err != nil {
		logger.Warn("upload_rejected", map[string]interface{}{
			"file_name": fileName,
			"size":      size,
			"reason":    err.(*UploadError).Reason,
		})
		return nil, err
	}

	name := uuid.New().String() + strings.ToLower(filepath.Ext(fileName))
	remotePath := s.cfg.BasePath + "/" + name

	session, err := s.dialer.Connect(ctx)
	if err != nil {
		return nil, s.fail(ctx, fileName, remotePath, err)
	}
	defer func() {
		if closeErr := session.Close(); closeErr != nil {
			logger.Warn("upload_session_close_failed", map[string]interface{}{
				"store": s.dialer.Name(),
				"error": closeErr.Error(),
			})
		}
	}()

	if err := session.Store(ctx, remotePath, reader, size); err != nil {
		return nil, s.fail(ctx, fileName, remotePath, err)
	}

	result := &UploadResult{
		FileName: name,
		URL:      s.PublicURL(name),
		Size:     size,
	}

	logger.Info("upload_completed", map[string]interface{}{
		"store":         s.dialer.Name(),
		"original_name": fileName,
		"file_name":     name,
		"remote_path":   remotePath,
		"size":          size,
	})
	return result, nil
}

func (s *UploadService) PublicURL(name string) string {
	if s.cfg.PublicPath == "" {
		return fmt.Sprintf("https://%s/%s", s.cfg.Host, name)
	}
	return fmt.Sprintf("https://%s/%s/%s", s.cfg.Host, s.cfg.PublicPath, name)
}

func (s *UploadService) fail(ctx context.Context, fileName, remotePath string, err error) error {
	uploadErr := classifyUploadError(ctx, err)
	logger.Error("upload_failed", err, map[string]interface{}{
		"store":         s.dialer.Name(),
		"original_name": fileName,
		"remote_path":   remotePath,
		"kind":          uploadErr.Kind,
	})
	return uploadErr
}

func classifyUploadError(ctx context.Context, err error) *UploadError {
	if storage.IsTimeout(err) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &UploadError{Kind: UploadTimeout, Err: err}
	}

	var transferErr *storage.TransferError
	if errors.As(err, &transferErr) {
		return &UploadError{Kind: UploadTransfer, Status: transferErr.Status, Err: err}
	}

	var connErr *storage.ConnectionError
	if errors.As(err, &connErr) {
		return &UploadError{Kind: UploadConnection, Err: err}
	}

	return &UploadError{Kind: UploadUnknown, Err: err}
}

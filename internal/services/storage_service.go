// internal/services/storage_service.go
package services

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/javajoker/price-compare/internal/config"
	"github.com/javajoker/price-compare/internal/utils"
)

// ImageUploader stores an image and returns its public URL.
type ImageUploader interface {
	UploadImage(ctx context.Context, data []byte, filename string) (*UploadResult, error)
}

type StorageService struct {
	s3Client s3iface.S3API
	breaker  *gobreaker.CircuitBreaker
	aws      config.AWSConfig
	upload   config.UploadConfig
	now      func() time.Time
}

type UploadResult struct {
	URL      string `json:"url"`
	Key      string `json:"key"`
	Size     int64  `json:"size"`
	MimeType string `json:"mimeType"`
}

func NewStorageService(cfg *config.Config) (*StorageService, error) {
	s := &StorageService{
		aws:    cfg.AWS,
		upload: cfg.Upload,
		now:    time.Now,
	}

	if cfg.AWS.AccessKeyID == "" {
		logrus.WithField("dir", cfg.Upload.LocalDir).Info("S3 not configured, storing uploads on local disk")
		return s, nil
	}

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.AWS.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AWS.AccessKeyID,
			cfg.AWS.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	s.s3Client = s3.New(sess)
	s.breaker = utils.NewBreaker("s3-upload", 30*time.Second)
	return s, nil
}

// UsesLocalDisk reports whether uploads are served by this process.
func (s *StorageService) UsesLocalDisk() bool {
	return s.s3Client == nil
}

func (s *StorageService) MaxSize() int64 {
	return int64(s.upload.MaxSizeMB) * 1024 * 1024
}

// UploadImage checks size and file signature, then stores the bytes under
// the configured folder.
func (s *StorageService) UploadImage(ctx context.Context, data []byte, filename string) (*UploadResult, error) {
	if int64(len(data)) > s.MaxSize() {
		return nil, ErrImageTooLarge
	}

	mimeType, ext, ok := detectImageType(data)
	if !ok {
		return nil, ErrInvalidImage
	}

	key := s.generateKey(filename, ext)

	var (
		result *UploadResult
		err    error
	)
	if s.s3Client != nil {
		result, err = s.uploadToS3(ctx, data, key, mimeType)
	} else {
		result, err = s.uploadToLocal(data, key, mimeType)
	}
	if err != nil {
		logrus.WithError(err).WithField("key", key).Error("Image upload failed")
		return nil, fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}

	logrus.WithFields(logrus.Fields{
		"key":  result.Key,
		"size": result.Size,
	}).Info("Image uploaded")

	return result, nil
}

func (s *StorageService) uploadToS3(ctx context.Context, data []byte, key, contentType string) (*UploadResult, error) {
	params := &s3.PutObjectInput{
		Bucket:        aws.String(s.aws.S3Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
		ACL:           aws.String(s3.ObjectCannedACLPublicRead),
	}

	_, err := utils.ExecuteWithBreaker(s.breaker, func() (*s3.PutObjectOutput, error) {
		return s.s3Client.PutObjectWithContext(ctx, params)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	return &UploadResult{
		URL:      s.getS3URL(key),
		Key:      key,
		Size:     int64(len(data)),
		MimeType: contentType,
	}, nil
}

func (s *StorageService) uploadToLocal(data []byte, key, contentType string) (*UploadResult, error) {
	target := filepath.Join(s.upload.LocalDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write upload: %w", err)
	}

	return &UploadResult{
		URL:      strings.TrimRight(s.upload.PublicBaseURL, "/") + "/" + key,
		Key:      key,
		Size:     int64(len(data)),
		MimeType: contentType,
	}, nil
}

// generateKey keeps only the cleaned base name of the client file for
// readability; uniqueness comes from the date and a uuid prefix.
func (s *StorageService) generateKey(originalName, ext string) string {
	base := strings.TrimSuffix(path.Base(filepath.ToSlash(originalName)), path.Ext(originalName))
	base = sanitizeName(base)

	name := fmt.Sprintf("%s_%s", s.now().Format("20060102"), uuid.New().String()[:8])
	if base != "" {
		name += "_" + base
	}
	name += ext

	if s.upload.Folder != "" {
		return s.upload.Folder + "/" + name
	}
	return name
}

func sanitizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		case r == ' ' || r == '_' || r == '.':
			b.WriteRune('-')
		}
		if b.Len() >= 40 {
			break
		}
	}
	return strings.Trim(b.String(), "-")
}

func (s *StorageService) getS3URL(key string) string {
	if s.aws.CloudFrontURL != "" {
		return fmt.Sprintf("%s/%s", strings.TrimRight(s.aws.CloudFrontURL, "/"), key)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s",
		s.aws.S3Bucket, s.aws.Region, key)
}

// detectImageType recognises JPEG, PNG, GIF and WebP by their signature.
func detectImageType(buffer []byte) (mimeType, ext string, ok bool) {
	switch {
	case len(buffer) >= 3 && buffer[0] == 0xFF && buffer[1] == 0xD8 && buffer[2] == 0xFF:
		return "image/jpeg", ".jpg", true
	case len(buffer) >= 8 && bytes.Equal(buffer[:8], []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'}):
		return "image/png", ".png", true
	case len(buffer) >= 6 && (string(buffer[:6]) == "GIF87a" || string(buffer[:6]) == "GIF89a"):
		return "image/gif", ".gif", true
	case len(buffer) >= 12 && string(buffer[:4]) == "RIFF" && string(buffer[8:12]) == "WEBP":
		return "image/webp", ".webp", true
	default:
		return "", "", false
	}
}

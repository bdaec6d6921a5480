package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// S3Service stores uploaded documents and images in an S3-compatible
// bucket (MinIO in development).
type S3Service struct {
	client     *s3.Client
	uploader   *manager.Uploader
	downloader *manager.Downloader
	bucket     string
	region     string
}

type UploadResult struct {
	Key        string
	Bucket     string
	FileSize   int64
	MimeType   string
	UploadedAt time.Time
}

var documentExtensions = map[string]bool{
	".pdf": true, ".doc": true, ".docx": true, ".xls": true,
	".xlsx": true, ".txt": true, ".csv": true,
}

var imageExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true,
}

// NewS3Service creates a new S3 service instance with MinIO support
func NewS3Service() (*S3Service, error) {
	bucket := os.Getenv("AWS_S3_BUCKET")
	if bucket == "" {
		return nil, fmt.Errorf("AWS_S3_BUCKET environment variable is required")
	}

	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "us-east-1"
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	// MinIO requires path-style addressing
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		endpointURL := os.Getenv("AWS_ENDPOINT_URL")
		if endpointURL != "" {
			o.BaseEndpoint = aws.String(endpointURL)
			o.UsePathStyle = true
		}
	})

	return &S3Service{
		client:     client,
		uploader:   manager.NewUploader(client),
		downloader: manager.NewDownloader(client),
		bucket:     bucket,
		region:     region,
	}, nil
}

// UploadDocument stores a company document and returns its object key.
func (s *S3Service) UploadDocument(ctx context.Context, file multipart.File, header *multipart.FileHeader, companyID int64) (*UploadResult, error) {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !documentExtensions[ext] {
		return nil, fmt.Errorf("unsupported document type %q", ext)
	}
	key := fmt.Sprintf("documents/company-%d/%s%s", companyID, uuid.New().String(), ext)
	return s.upload(ctx, file, header, key)
}

// UploadImage stores an image and returns its object key.
func (s *S3Service) UploadImage(ctx context.Context, file multipart.File, header *multipart.FileHeader, companyID int64) (*UploadResult, error) {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !imageExtensions[ext] {
		return nil, fmt.Errorf("unsupported image type %q", ext)
	}
	key := fmt.Sprintf("images/company-%d/%s%s", companyID, uuid.New().String(), ext)
	return s.upload(ctx, file, header, key)
}

func (s *S3Service) upload(ctx context.Context, file multipart.File, header *multipart.FileHeader, key string) (*UploadResult, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	_, err = s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(mimeType),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	return &UploadResult{
		Key:        key,
		Bucket:     s.bucket,
		FileSize:   int64(len(data)),
		MimeType:   mimeType,
		UploadedAt: time.Now(),
	}, nil
}

// Download retrieves a stored object by key.
func (s *S3Service) Download(ctx context.Context, key string) ([]byte, error) {
	buf := manager.NewWriteAtBuffer([]byte{})
	_, err := s.downloader.Download(ctx, buf, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to download from S3: %w", err)
	}
	return buf.Bytes(), nil
}

// Delete removes a stored object by key.
func (s *S3Service) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from S3: %w", err)
	}
	return nil
}

package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"

	appconfig "pcshop_service/internal/config"
	"pcshop_service/internal/domain/entities"
	"pcshop_service/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ObjectAPI is the subset of the S3 client the store needs.
type ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3AttachmentStore keeps review photos and service-request files in an
// S3-compatible bucket. Object keys are "<owner>/<index>-<uuid>-<filename>".
type S3AttachmentStore struct {
	client  ObjectAPI
	bucket  string
	baseURL string
}

var _ interfaces.IAttachmentStore = (*S3AttachmentStore)(nil)

// NewS3Client builds the S3 client from the shared AWS config. A custom
// endpoint (MinIO, LocalStack) usually needs path-style addressing.
func NewS3Client(cfg aws.Config, c appconfig.StorageConfig) *s3.Client {
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if c.Endpoint != "" {
			o.BaseEndpoint = aws.String(c.Endpoint)
		}
		o.UsePathStyle = c.UsePathStyle
	})
}

func NewS3AttachmentStore(client ObjectAPI, c appconfig.StorageConfig, region string) *S3AttachmentStore {
	return &S3AttachmentStore{
		client:  client,
		bucket:  c.Bucket,
		baseURL: publicBaseURL(c, region),
	}
}

// publicBaseURL resolves the prefix of object URLs handed to clients.
func publicBaseURL(c appconfig.StorageConfig, region string) string {
	switch {
	case c.PublicBaseURL != "":
		return strings.TrimRight(c.PublicBaseURL, "/")
	case c.Endpoint != "":
		return strings.TrimRight(c.Endpoint, "/") + "/" + c.Bucket
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", c.Bucket, region)
	}
}

func (s *S3AttachmentStore) Upload(ctx context.Context, file entities.UploadFile, ownerID string, index int) (entities.Attachment, error) {
	key := objectKey(ownerID, index, file.Filename)
	contentType := file.MimeType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(file.Content),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(file.Content))),
	})
	if err != nil {
		return entities.Attachment{}, fmt.Errorf("put object %s: %w", key, err)
	}
	logrus.WithFields(logrus.Fields{"bucket": s.bucket, "key": key, "size": len(file.Content)}).
		Debug("[attachment][s3] uploaded")

	return entities.Attachment{
		Key:      key,
		URL:      s.baseURL + "/" + escapeKey(key),
		Filename: file.Filename,
		Size:     int64(len(file.Content)),
		MimeType: contentType,
	}, nil
}

func (s *S3AttachmentStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}

func objectKey(ownerID string, index int, filename string) string {
	return fmt.Sprintf("%s/%d-%s-%s", sanitizeSegment(ownerID), index, uuid.NewString(), sanitizeSegment(path.Base(filename)))
}

// sanitizeSegment keeps a key segment free of separators and control
// characters. Non-ASCII names (Hangul) are kept.
func sanitizeSegment(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\':
			return '_'
		case r < 0x20 || r == 0x7f:
			return -1
		}
		return r
	}, s)
	if s == "" || s == "." || s == ".." {
		return "file"
	}
	return s
}

func escapeKey(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}

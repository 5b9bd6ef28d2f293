package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
)

var (
	ErrInvalidImage   = errors.New("invalid base64 image")
	ErrPhotosDisabled = errors.New("photo storage is not configured")
)

const defaultContentType = "image/jpeg"

// ObjectPutter is the subset of the S3 client used for uploads.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type PhotoStore interface {
	Upload(ctx context.Context, userID, image string) (string, error)
}

type s3PhotoStore struct {
	client  ObjectPutter
	bucket  string
	baseURL string
}

// NewS3PhotoStore loads the default AWS credential chain for region.
func NewS3PhotoStore(ctx context.Context, region, bucket, baseURL string) (PhotoStore, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config for S3: %w", err)
	}
	return NewPhotoStore(s3.NewFromConfig(cfg), region, bucket, baseURL), nil
}

// NewPhotoStore uses baseURL for public links, or the bucket's virtual-hosted
// S3 address when baseURL is empty.
func NewPhotoStore(client ObjectPutter, region, bucket, baseURL string) PhotoStore {
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	}
	return &s3PhotoStore{
		client:  client,
		bucket:  bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (s *s3PhotoStore) Upload(ctx context.Context, userID, image string) (string, error) {
	contentType, data, err := DecodeImage(image)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("meal-photos/%s/%s%s", userID, uuid.NewString(), extensionFor(contentType))

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		ACL:         s3types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	return fmt.Sprintf("%s/%s", s.baseURL, key), nil
}

// DecodeImage accepts "data:<mime>;base64,<data>" or a bare base64 payload,
// which is treated as JPEG.
func DecodeImage(image string) (string, []byte, error) {
	image = strings.TrimSpace(image)
	if image == "" {
		return "", nil, ErrInvalidImage
	}

	contentType := defaultContentType
	payload := image
	if strings.HasPrefix(image, "data:") {
		parts := strings.SplitN(image, ",", 2)
		if len(parts) != 2 || !strings.HasSuffix(parts[0], ";base64") {
			return "", nil, ErrInvalidImage
		}
		contentType = strings.TrimSuffix(strings.TrimPrefix(parts[0], "data:"), ";base64")
		payload = parts[1]
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", nil, fmt.Errorf("%w: unsupported content type %q", ErrInvalidImage, contentType)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	return contentType, data, nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	}
	if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
		return exts[0]
	}
	if parts := strings.SplitN(contentType, "/", 2); len(parts) == 2 {
		return "." + parts[1]
	}
	return ""
}

package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
)

// Config holds the connection parameters for the media object store.
type Config struct {
	Bucket        string
	Region        string
	Endpoint      string
	PublicBaseURL string
}

// S3Store keeps uploaded media blobs in an S3-compatible bucket and hands
// back public URLs. Deletes are best-effort idempotent: removing an object
// that is already gone is not an error.
type S3Store struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
	baseURL  string
}

func NewS3Store(ctx context.Context, cfg Config) (*S3Store, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, fmt.Errorf("s3 store: bucket is required")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}

	if strings.TrimSpace(cfg.Endpoint) != "" {
		resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, _ ...interface{}) (aws.Endpoint, error) {
			if service == s3.ServiceID {
				return aws.Endpoint{
					URL:           cfg.Endpoint,
					SigningRegion: cfg.Region,
				}, nil
			}
			return aws.Endpoint{}, &aws.EndpointNotFoundError{}
		})
		loadOpts = append(loadOpts, awsconfig.WithEndpointResolverWithOptions(resolver))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	uploader := manager.NewUploader(client, func(u *manager.Uploader) {
		u.PartSize = 5 * 1024 * 1024
		u.LeavePartsOnError = false
	})

	return &S3Store{
		client:   client,
		uploader: uploader,
		bucket:   cfg.Bucket,
		baseURL:  strings.TrimSuffix(cfg.PublicBaseURL, "/"),
	}, nil
}

// Put uploads the blob under a fresh key derived from kind and the original
// filename extension, returning its public URL.
func (s *S3Store) Put(ctx context.Context, kind, filename string, r io.Reader) (string, error) {
	key := ObjectKey(kind, filename)

	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   manager.ReadSeekCloser(r),
		ACL:    s3types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("s3 store upload %s: %w", key, err)
	}

	if s.baseURL == "" {
		return key, nil
	}

	return fmt.Sprintf("%s/%s", s.baseURL, key), nil
}

// Delete removes the object behind a URL previously returned by Put.
// S3 DeleteObject succeeds for missing keys, which gives the idempotency
// the callers rely on.
func (s *S3Store) Delete(ctx context.Context, url string) error {
	key := s.KeyFromURL(url)
	if key == "" {
		return nil
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 store delete %s: %w", key, err)
	}
	return nil
}

// ObjectKey builds the bucket key for a new upload: kind/<uuid><ext>.
func ObjectKey(kind, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	kind = strings.Trim(kind, "/")
	if kind == "" {
		kind = "media"
	}
	return fmt.Sprintf("%s/%s%s", kind, uuid.New().String(), ext)
}

// KeyFromURL strips the public base URL prefix, falling back to treating the
// value as a bare key.
func (s *S3Store) KeyFromURL(url string) string {
	key := url
	if s.baseURL != "" {
		key = strings.TrimPrefix(key, s.baseURL)
	}
	return strings.TrimLeft(key, "/")
}

package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"

	"github.com/volunteer-hours-api/internal/config"
)

type uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

type objectDeleter interface {
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Store stores thumbnails in an S3-compatible bucket
type S3Store struct {
	uploader  uploader
	deleter   objectDeleter
	bucket    string
	publicURL string
	log       zerolog.Logger
}

// NewS3Store creates a store from storage configuration.
// Static credentials are used when both keys are set, otherwise the default AWS chain applies.
func NewS3Store(ctx context.Context, cfg config.StorageConfig, log zerolog.Logger) (*S3Store, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load storage config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	return newS3Store(manager.NewUploader(client), client, cfg.Bucket, cfg.PublicURL, log), nil
}

func newS3Store(up uploader, del objectDeleter, bucket, publicURL string, log zerolog.Logger) *S3Store {
	return &S3Store{
		uploader:  up,
		deleter:   del,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
		log:       log.With().Str("component", "storage").Str("bucket", bucket).Logger(),
	}
}

// Upload writes content at path and returns its public URL
func (s *S3Store) Upload(ctx context.Context, path string, content []byte, contentType string) (string, error) {
	out, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(path),
		Body:         bytes.NewReader(content),
		ContentType:  aws.String(contentType),
		CacheControl: aws.String(CacheControl),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", path, err)
	}

	s.log.Debug().Str("path", path).Int("bytes", len(content)).Msg("Thumbnail uploaded")

	if s.publicURL != "" {
		return s.publicURL + "/" + s.bucket + "/" + path, nil
	}
	return out.Location, nil
}

// Delete removes the object at path
func (s *S3Store) Delete(ctx context.Context, path string) error {
	_, err := s.deleter.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	return nil
}

// PathFromURL recovers the object key from a URL returned by Upload.
// With a public URL configured the URL must start with it; otherwise any host
// serving "/<bucket>/" is accepted.
func (s *S3Store) PathFromURL(url string) (string, error) {
	if s.publicURL == "" {
		return pathAfterBucket(url, s.bucket)
	}

	base := s.publicURL + "/" + s.bucket + "/"
	path, ok := strings.CutPrefix(url, base)
	if path = trimQuery(path); !ok || path == "" {
		return "", fmt.Errorf("%w: %s", ErrNotInBucket, url)
	}
	return path, nil
}

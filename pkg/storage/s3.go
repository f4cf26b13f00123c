package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"

	"blogapi/pkg/logger"
)

// S3Store uploads media to a bucket. When publicURL is empty the location
// returned by S3 is used as the media url.
type S3Store struct {
	bucket    string
	publicURL string
	uploader  *s3manager.Uploader
	client    s3iface.S3API
	logger    logger.Logger
}

func NewS3Store(bucket, region, publicURL string, logger logger.Logger) (*S3Store, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		return nil, fmt.Errorf("aws session could not be created: %w", err)
	}

	client := s3.New(sess)
	return &S3Store{
		bucket:    bucket,
		publicURL: strings.TrimSuffix(publicURL, "/"),
		uploader:  s3manager.NewUploaderWithClient(client),
		client:    client,
		logger:    logger,
	}, nil
}

func (s *S3Store) Save(ctx context.Context, name string, content io.Reader) (string, error) {
	out, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(name),
		Body:   content,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "S3 upload failed", map[string]interface{}{"key": name, "error": err.Error()})
		return "", fmt.Errorf("file could not be uploaded: %w", err)
	}

	if s.publicURL != "" {
		return s.publicURL + "/" + name, nil
	}
	return out.Location, nil
}

// Remove deletes the object. S3 reports success for missing keys.
func (s *S3Store) Remove(ctx context.Context, url string) error {
	key := s.keyFor(url)
	if key == "" {
		return nil
	}

	_, err := s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("file could not be removed: %w", err)
	}
	return nil
}

func (s *S3Store) keyFor(url string) string {
	if s.publicURL != "" && strings.HasPrefix(url, s.publicURL+"/") {
		return strings.TrimPrefix(url, s.publicURL+"/")
	}
	if i := strings.LastIndex(url, "/"); i >= 0 {
		return url[i+1:]
	}
	return url
}

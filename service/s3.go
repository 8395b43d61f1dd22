package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// BlobStore is the hosting boundary the valuation pipeline and handlers
// depend on. S3Service is the production implementation.
type BlobStore interface {
	Upload(ctx context.Context, folder, originalFilename string, body io.Reader, contentType string) (url, key string, err error)
	DeleteAll(ctx context.Context, keys []string) DeleteReport
}

// DeleteReport mirrors the bulk-delete response shape of the hosting
// provider: which keys went away and which failed, with reasons.
type DeleteReport struct {
	Deleted []string          `json:"deleted"`
	Failed  map[string]string `json:"failed,omitempty"`
}

type S3Service struct {
	client *s3.Client
	bucket string
	region string
}

func NewS3Service(ctx context.Context, bucket, region, accessKeyID, secretAccessKey string) (*S3Service, error) {
	if bucket == "" {
		return nil, fmt.Errorf("AWS_S3_BUCKET is required")
	}
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if accessKeyID != "" && secretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, ""),
		))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &S3Service{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		region: region,
	}, nil
}

// Upload stores the object under folder (e.g. "book_images") and returns its
// public URL together with the key needed to delete it later.
func (s *S3Service) Upload(ctx context.Context, folder, originalFilename string, body io.Reader, contentType string) (string, string, error) {
	ext := filepath.Ext(originalFilename)
	key := folder + "/" + uuid.New().String() + ext
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", "", err
	}
	return s.ObjectURL(key), key, nil
}

// DeleteAll removes the objects one by one and reports per-key outcomes.
// It never aborts early: a failed delete must not strand the rest.
func (s *S3Service) DeleteAll(ctx context.Context, keys []string) DeleteReport {
	report := DeleteReport{}
	for _, key := range keys {
		_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			if report.Failed == nil {
				report.Failed = map[string]string{}
			}
			report.Failed[key] = err.Error()
			continue
		}
		report.Deleted = append(report.Deleted, key)
	}
	return report
}

func (s *S3Service) ObjectURL(key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

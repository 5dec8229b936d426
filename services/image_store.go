package services

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// ImageStore persists image bytes under a key and returns a publicly
// resolvable URL.
type ImageStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

type S3ImageStore struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
}

func NewS3ImageStore(ctx context.Context, region, bucket, publicBaseURL string) (*S3ImageStore, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return &S3ImageStore{
		client:        s3.NewFromConfig(cfg),
		bucket:        bucket,
		publicBaseURL: publicBaseURL,
	}, nil
}

func (s *S3ImageStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		ACL:         s3types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	return fmt.Sprintf("%s/%s", s.publicBaseURL, key), nil
}

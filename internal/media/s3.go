package media

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const DefaultPresignTTL = 15 * time.Minute

// S3 resolves refs to presigned GET URLs for objects in one bucket.
type S3 struct {
	presigner *s3.PresignClient
	bucket    string
	ttl       time.Duration
}

// S3Config selects the bucket. Endpoint is for S3-compatible stores and
// forces path-style addressing.
type S3Config struct {
	Bucket   string
	Region   string
	Endpoint string
	TTL      time.Duration
}

// NewS3 loads AWS credentials from the default chain.
func NewS3(ctx context.Context, cfg S3Config) (*S3, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("configuring s3 media: bucket is required")
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return NewS3FromClient(client, cfg.Bucket, cfg.TTL), nil
}

func NewS3FromClient(client *s3.Client, bucket string, ttl time.Duration) *S3 {
	if ttl <= 0 {
		ttl = DefaultPresignTTL
	}

	return &S3{
		presigner: s3.NewPresignClient(client),
		bucket:    bucket,
		ttl:       ttl,
	}
}

func (s *S3) Resolve(ctx context.Context, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", nil
	}

	if isAbsolute(ref) {
		return ref, nil
	}

	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(strings.TrimPrefix(ref, "/")),
	}, s3.WithPresignExpires(s.ttl))
	if err != nil {
		return "", fmt.Errorf("presigning %s: %w", ref, err)
	}

	return req.URL, nil
}

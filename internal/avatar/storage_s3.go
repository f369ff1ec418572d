package avatar

import (
	"bytes"
	"context"
	"fmt"
	"image"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// S3Storage keeps avatars in an S3 bucket for multi-instance deployments
// where local disk is not shared. The returned URL is still a path; the CDN
// or bucket website in front of it resolves /avatars/* to the bucket.
type S3Storage struct {
	client *s3.Client
	bucket string
}

// NewS3Storage builds a client from the default AWS credential chain. A
// non-empty endpoint switches to path-style addressing for MinIO-compatible
// stores.
func NewS3Storage(ctx context.Context, bucket, region, endpoint string) (*S3Storage, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})
	return &S3Storage{client: client, bucket: bucket}, nil
}

func (s *S3Storage) Save(ctx context.Context, userID uuid.UUID, img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG); err != nil {
		return "", fmt.Errorf("encode avatar: %w", err)
	}

	key := "avatars/" + userID.String() + ".jpg"
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("image/jpeg"),
	})
	if err != nil {
		return "", fmt.Errorf("put avatar object: %w", err)
	}
	return "/" + key, nil
}

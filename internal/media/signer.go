package media

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Signer hands out pre-signed upload URLs for client-side uploads.
type Signer interface {
	PresignUpload(ctx context.Context, keyPrefix, contentType string) (UploadTarget, error)
}

// UploadTarget is the signed upload destination returned to clients.
type UploadTarget struct {
	UploadURL string `json:"upload_url"`
	ObjectURL string `json:"object_url"`
	ExpiresIn int    `json:"expires_in"`
}

const presignTTL = 5 * time.Minute

// S3Signer signs PUT requests against one bucket.
type S3Signer struct {
	presign *s3.PresignClient
	bucket  string
	region  string
}

// NewS3Signer loads the default AWS config and builds a signer.
func NewS3Signer(ctx context.Context, region, bucket string) (*S3Signer, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(cfg)
	return &S3Signer{
		presign: s3.NewPresignClient(client),
		bucket:  bucket,
		region:  region,
	}, nil
}

// PresignUpload generates a pre-signed PUT URL under keyPrefix with a
// random object name.
func (s *S3Signer) PresignUpload(ctx context.Context, keyPrefix, contentType string) (UploadTarget, error) {
	key := fmt.Sprintf("%s/%s", keyPrefix, uuid.NewString())

	request, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = presignTTL
	})
	if err != nil {
		return UploadTarget{}, fmt.Errorf("presign put: %w", err)
	}

	return UploadTarget{
		UploadURL: request.URL,
		ObjectURL: fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key),
		ExpiresIn: int(presignTTL.Seconds()),
	}, nil
}

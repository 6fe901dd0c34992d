package services

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const presignTTL = 5 * time.Minute

// PhotoService issues presigned S3 URLs for profile photo upload and read.
type PhotoService struct {
	Client *s3.Client
	Bucket string
}

func NewPhotoService(ctx context.Context, region, bucket string) (*PhotoService, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config: %w", err)
	}
	return &PhotoService{Client: s3.NewFromConfig(cfg), Bucket: bucket}, nil
}

// UploadURL returns a presigned PUT URL and the object key it targets.
func (ps *PhotoService) UploadURL(ctx context.Context, fileName, fileType string) (string, string, error) {
	key := "profile-photos/" + time.Now().Format("20060102150405") + "-" + fileName
	presigner := s3.NewPresignClient(ps.Client)
	out, err := presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(ps.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(fileType),
	}, s3.WithPresignExpires(presignTTL))
	if err != nil {
		return "", "", fmt.Errorf("failed to presign upload: %w", err)
	}
	return out.URL, key, nil
}

// ReadURL returns a presigned GET URL for a stored photo.
func (ps *PhotoService) ReadURL(ctx context.Context, key string) (string, error) {
	presigner := s3.NewPresignClient(ps.Client)
	out, err := presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(ps.Bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(presignTTL))
	if err != nil {
		return "", fmt.Errorf("failed to presign read: %w", err)
	}
	return out.URL, nil
}

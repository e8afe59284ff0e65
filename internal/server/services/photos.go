package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/gophfit/internal/common"
	sc "github.com/dmitrijs2005/gophfit/internal/server/config"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
)

// PhotoService hands out presigned upload URLs for progress photos.
type PhotoService struct {
	config *sc.Config
}

func NewPhotoService(cfg *sc.Config) *PhotoService {
	return &PhotoService{config: cfg}
}

// PhotoStorageKey builds the object key of a new photo of userID.
func PhotoStorageKey(userID string, d time.Time) string {
	d = d.UTC()
	return fmt.Sprintf("progress/%s/%04d/%02d/%02d/%v", userID, d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *PhotoService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return newS3PresignClient(client), nil
}

// PresignUpload returns the storage key and a presigned PUT URL for one
// image of the given content type.
func (s *PhotoService) PresignUpload(ctx context.Context, userID, contentType string) (string, string, error) {
	if s.config.S3Bucket == "" {
		return "", "", fmt.Errorf("photo storage: %w", ErrNotConfigured)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", "", fmt.Errorf("%w: content type %q is not an image", common.ErrorValidation, contentType)
	}

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return "", "", err
	}

	bucket := s.config.S3Bucket
	key := PhotoStorageKey(userID, time.Now())

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(s.config.PhotoURLExpiry))
	if err != nil {
		return "", "", err
	}

	return key, req.URL, nil
}

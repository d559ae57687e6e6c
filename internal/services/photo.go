package services

import (
	"context"
	"fmt"
	"time"

	appconfig "dating-backend/internal/config"
	"dating-backend/internal/models"
	"dating-backend/internal/repository"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

// Presigner signs short-lived GET URLs for stored objects.
// *s3.PresignClient satisfies it.
type Presigner interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// NewS3Presigner builds a presign client for the photo bucket
func NewS3Presigner(ctx context.Context, cfg appconfig.AWSConfig) (*s3.PresignClient, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return s3.NewPresignClient(client), nil
}

// PhotoService handles photo lookups
type PhotoService struct {
	repo      *repository.DatingRepository
	presigner Presigner
	bucket    string
	expiry    time.Duration
}

// NewPhotoService creates a new photo service. With a nil presigner photo
// URLs are returned as stored.
func NewPhotoService(repo *repository.DatingRepository, presigner Presigner, bucket string, expiry time.Duration) *PhotoService {
	return &PhotoService{
		repo:      repo,
		presigner: presigner,
		bucket:    bucket,
		expiry:    expiry,
	}
}

// GetPhoto retrieves a photo by ID, or nil when it does not exist
func (s *PhotoService) GetPhoto(ctx context.Context, id string) (*models.Photo, error) {
	photo, err := s.repo.GetPhoto(ctx, id)
	if err != nil || photo == nil {
		return nil, err
	}
	if err := s.resolveURL(ctx, photo); err != nil {
		return nil, err
	}
	return photo, nil
}

// GetMainPhoto retrieves the user's main photo, or nil when there is none
func (s *PhotoService) GetMainPhoto(ctx context.Context, userID string) (*models.Photo, error) {
	photo, err := s.repo.GetMainPhotoForUser(ctx, userID)
	if err != nil || photo == nil {
		return nil, err
	}
	if err := s.resolveURL(ctx, photo); err != nil {
		return nil, err
	}
	return photo, nil
}

// ResolveURLs replaces stored URLs with presigned ones in place
func (s *PhotoService) ResolveURLs(ctx context.Context, photos []models.Photo) error {
	for i := range photos {
		if err := s.resolveURL(ctx, &photos[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *PhotoService) resolveURL(ctx context.Context, photo *models.Photo) error {
	if s.presigner == nil || photo.PublicID == "" {
		return nil
	}

	request, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(photo.PublicID),
	}, s3.WithPresignExpires(s.expiry))
	if err != nil {
		log.Error().
			Err(err).
			Str("photo_id", photo.ID).
			Msg("Failed to presign photo URL")
		return fmt.Errorf("failed to generate pre-signed URL: %w", err)
	}

	photo.URL = request.URL
	return nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dmitrijs2005/portfolio/internal/common"
	sc "github.com/dmitrijs2005/portfolio/internal/server/config"
	"github.com/dmitrijs2005/portfolio/internal/server/models"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/techs"
)

// PresignValidity is how long presigned image URLs stay usable.
const PresignValidity = 15 * time.Minute

// ErrImagesDisabled is returned when no object storage bucket is configured.
var ErrImagesDisabled = errors.New("image storage is not configured")

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
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// ImageService hands out presigned object storage URLs for entry images.
type ImageService struct {
	techs  techs.Repository
	config *sc.Config
	now    func() time.Time
}

func NewImageService(techs techs.Repository, config *sc.Config) *ImageService {
	return &ImageService{
		techs:  techs,
		config: config,
		now:    time.Now,
	}
}

// StorageKey returns a fresh object key for an image uploaded at t.
func StorageKey(t time.Time) string {
	return fmt.Sprintf("techs/%04d/%02d/%02d/%v", t.Year(), t.Month(), t.Day(), uuid.New())
}

func (s *ImageService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
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
		if s.config.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return newS3PresignClient(client), nil
}

// PresignUpload records a new storage key as the entry image and returns a
// presigned PUT URL for the client to upload the bytes.
func (s *ImageService) PresignUpload(ctx context.Context, id primitive.ObjectID) (*models.ImageUpload, error) {
	if !s.config.ImagesEnabled() {
		return nil, ErrImagesDisabled
	}

	if _, err := s.techs.GetByID(ctx, id); err != nil {
		return nil, err
	}

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("presign client: %w", err)
	}

	now := s.now()
	bucket := s.config.S3Bucket
	key := StorageKey(now)

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(PresignValidity))
	if err != nil {
		return nil, fmt.Errorf("presign put: %w", err)
	}

	if err := s.techs.SetImage(ctx, id, key); err != nil {
		return nil, err
	}

	return &models.ImageUpload{
		EntryID:    id.Hex(),
		StorageKey: key,
		URL:        req.URL,
		ExpiresAt:  now.Add(PresignValidity),
	}, nil
}

// ImageURL returns where the entry image can be fetched. Absolute http(s)
// image references are returned unchanged; storage keys get a presigned
// GET URL. An entry without an image reports common.ErrorNotFound.
func (s *ImageService) ImageURL(ctx context.Context, id primitive.ObjectID) (string, error) {
	e, err := s.techs.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if e.Image == "" {
		return "", common.ErrorNotFound
	}
	if isAbsoluteURL(e.Image) {
		return e.Image, nil
	}
	if !s.config.ImagesEnabled() {
		return "", ErrImagesDisabled
	}

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return "", fmt.Errorf("presign client: %w", err)
	}

	bucket := s.config.S3Bucket
	key := e.Image

	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(PresignValidity))
	if err != nil {
		return "", fmt.Errorf("presign get: %w", err)
	}

	return req.URL, nil
}

func isAbsoluteURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sc "github.com/dmitrijs2005/chatgraph/internal/server/config"
	"github.com/dmitrijs2005/chatgraph/internal/server/models"
	"github.com/dmitrijs2005/chatgraph/internal/server/repositories/repomanager"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
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
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// PersonService serves the profile read side (the contact picker) and the
// avatar object-storage facility. Avatar bytes live in an S3-compatible
// bucket; Person.Image stores the object key.
type PersonService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
}

func NewPersonService(db *sql.DB, m repomanager.RepositoryManager, cfg *sc.Config) *PersonService {
	return &PersonService{
		db:          db,
		repomanager: m,
		config:      cfg,
	}
}

// People lists all persons, oldest first.
func (s *PersonService) People(ctx context.Context) ([]*models.Person, error) {

	repo := s.repomanager.Persons(s.db)

	people, err := repo.SelectAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error selecting persons: %w", err)
	}

	return people, nil
}

// Get resolves a single person by id.
func (s *PersonService) Get(ctx context.Context, id string) (*models.Person, error) {

	repo := s.repomanager.Persons(s.db)

	person, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting person: %w", err)
	}

	return person, nil
}

func randomAvatarKey() string {
	d := time.Now()
	return fmt.Sprintf("avatars/%d/%d/%d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *PersonService) getPresignClient() (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
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
	})

	return newS3PresignClient(client), nil
}

// PresignAvatarUpload returns a fresh storage key and a presigned PUT URL
// the client can upload the avatar bytes to. The key becomes the person's
// image once confirmed via SetAvatar.
func (s *PersonService) PresignAvatarUpload(ctx context.Context) (string, string, error) {

	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", "", err
	}

	bucket := s.config.S3Bucket
	key := randomAvatarKey()

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(15*time.Minute))

	if err != nil {
		return "", "", err
	}

	return key, req.URL, nil
}

// SetAvatar records the uploaded object key as the person's image.
func (s *PersonService) SetAvatar(ctx context.Context, personID string, key string) error {

	repo := s.repomanager.Persons(s.db)

	if err := repo.UpdateImage(ctx, personID, key); err != nil {
		return fmt.Errorf("error updating person image: %w", err)
	}

	return nil
}

// AvatarURL returns a presigned GET URL for the person's avatar, or an empty
// string when the person has no image set.
func (s *PersonService) AvatarURL(ctx context.Context, personID string) (string, error) {

	repo := s.repomanager.Persons(s.db)

	person, err := repo.GetByID(ctx, personID)
	if err != nil {
		return "", fmt.Errorf("error getting person: %w", err)
	}

	if person.Image == "" {
		return "", nil
	}

	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket

	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &person.Image,
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}

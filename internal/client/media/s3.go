package media

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/wellsta/internal/client/models"
	"github.com/dmitrijs2005/wellsta/internal/netx"
	"github.com/google/uuid"
)

const presignExpiry = 15 * time.Minute

// Presigner is the subset of *s3.PresignClient used by S3Store.
type Presigner interface {
	PresignPutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
	PresignGetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

type S3Config struct {
	Bucket    string `json:"bucket" yaml:"bucket"`
	Region    string `json:"region" yaml:"region"`
	Endpoint  string `json:"endpoint" yaml:"endpoint"`
	AccessKey string `json:"access_key" yaml:"access_key"`
	SecretKey string `json:"secret_key" yaml:"secret_key"`
}

func (c S3Config) Enabled() bool { return c.Bucket != "" }

type S3Store struct {
	bucket    string
	presigner Presigner
	http      *http.Client
	now       func() time.Time
}

func NewS3Store(bucket string, presigner Presigner, httpClient *http.Client) *S3Store {
	return &S3Store{bucket: bucket, presigner: presigner, http: httpClient, now: time.Now}
}

// NewPresigner builds an S3 presign client from static credentials. A
// custom endpoint (MinIO and friends) switches to path-style addressing.
func NewPresigner(ctx context.Context, cfg S3Config) (*s3.PresignClient, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return s3.NewPresignClient(client), nil
}

func (s *S3Store) objectKey(name string) string {
	d := s.now()
	return fmt.Sprintf("uploads/%d/%02d/%02d/%s%s", d.Year(), d.Month(), d.Day(), uuid.New(), strings.ToLower(path.Ext(name)))
}

func (s *S3Store) Put(ctx context.Context, name, contentType string, data []byte) (models.ImageRef, error) {
	if len(data) == 0 {
		return "", ErrEmptyUpload
	}

	key := s.objectKey(name)
	ct := detectContentType(contentType, data)

	req, err := s.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(ct),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", fmt.Errorf("presign put: %w", err)
	}

	if err := netx.UploadToPresignedURL(ctx, s.http, req.URL, ct, data); err != nil {
		return "", err
	}
	return models.ImageRef(key), nil
}

// URL returns a time-limited GET URL for an object stored by Put.
func (s *S3Store) URL(ctx context.Context, ref models.ImageRef) (string, error) {
	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(string(ref)),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", fmt.Errorf("presign get: %w", err)
	}
	return req.URL, nil
}

package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/goliatone/go-cms-console/internal/logging"
	"github.com/goliatone/go-cms-console/pkg/interfaces"
)

var ErrBucketRequired = errors.New("media: s3 bucket is required")

// S3Config describes the bucket uploads are written to.
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Prefix          string
	// PublicURL is the base the object key is appended to. When empty the
	// virtual-host style bucket url is used.
	PublicURL    string
	UsePathStyle bool
}

type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store uploads files with PutObject.
type S3Store struct {
	client putObjectAPI
	cfg    S3Config
	now    func() time.Time
	newID  func() uuid.UUID
	logger interfaces.Logger
}

// S3Option configures an S3Store.
type S3Option func(*S3Store)

// WithS3Logger sets the store logger.
func WithS3Logger(logger interfaces.Logger) S3Option {
	return func(s *S3Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithS3Clock overrides the time source used for key partitions.
func WithS3Clock(now func() time.Time) S3Option {
	return func(s *S3Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithS3IDSource overrides the uuid generator used for object names.
func WithS3IDSource(fn func() uuid.UUID) S3Option {
	return func(s *S3Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// NewS3Store loads the AWS configuration and builds the s3 client. Static
// credentials are used when both keys are set.
func NewS3Store(ctx context.Context, cfg S3Config, opts ...S3Option) (*S3Store, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, ErrBucketRequired
	}
	loadOpts := []func(*config.LoadOptions) error{}
	if cfg.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("media: load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})
	return newS3Store(client, cfg, opts...)
}

// NewS3StoreWithClient builds a store around an existing PutObject client.
func NewS3StoreWithClient(client putObjectAPI, cfg S3Config, opts ...S3Option) (*S3Store, error) {
	return newS3Store(client, cfg, opts...)
}

func newS3Store(client putObjectAPI, cfg S3Config, opts ...S3Option) (*S3Store, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, ErrBucketRequired
	}
	s := &S3Store{
		client: client,
		cfg:    cfg,
		now:    time.Now,
		newID:  uuid.New,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

var _ interfaces.MediaStore = (*S3Store)(nil)

func (s *S3Store) Upload(ctx context.Context, file interfaces.UploadFile) (*interfaces.UploadResult, error) {
	if len(file.Data) == 0 {
		return nil, ErrEmptyFile
	}
	key := DatedKey(s.cfg.Prefix, s.now(), ObjectName(s.newID(), file.Name))

	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(file.Data),
		ContentLength: aws.Int64(int64(len(file.Data))),
	}
	if file.ContentType != "" {
		input.ContentType = aws.String(file.ContentType)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		s.logger.Error("media.s3.put_failed", "key", key, "error", err)
		return nil, fmt.Errorf("media: put object %s: %w", key, err)
	}
	s.logger.Debug("media.s3.put", "key", key, "size", len(file.Data))
	return &interfaces.UploadResult{URL: joinURL(s.publicBase(), key), Key: key}, nil
}

func (s *S3Store) publicBase() string {
	if s.cfg.PublicURL != "" {
		return s.cfg.PublicURL
	}
	if s.cfg.Endpoint != "" {
		return strings.TrimRight(s.cfg.Endpoint, "/") + "/" + s.cfg.Bucket
	}
	region := s.cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", s.cfg.Bucket, region)
}

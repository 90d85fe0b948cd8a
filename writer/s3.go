package writer

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	appconfig "transferflow/config"
	"transferflow/logger"
)

// S3Uploader copies produced snapshot artifacts to an S3 bucket under a
// league/season partitioned key layout.
type S3Uploader struct {
	config   *appconfig.Config
	s3Client *s3.Client
	log      *logger.Log
}

// NewS3Uploader configures the AWS SDK and validates credentials before
// returning a ready uploader.
func NewS3Uploader(cfg *appconfig.Config) (*S3Uploader, error) {
	log := logger.GetLogger()
	ctx := context.Background()

	// Configure AWS options
	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Storage.S3.Region),
	}
	if cfg.Storage.S3.AccessKeyID != "" && cfg.Storage.S3.SecretAccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				cfg.Storage.S3.AccessKeyID,
				cfg.Storage.S3.SecretAccessKey,
				"",
			),
		))
	}

	awsConfig, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		log.WithComponent("s3_uploader").WithError(err).Warn("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	// Validate credentials
	creds, err := awsConfig.Credentials.Retrieve(ctx)
	if err != nil || !creds.HasKeys() {
		return nil, fmt.Errorf("aws credentials not found")
	}

	s3Client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.Storage.S3.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Storage.S3.Endpoint)
		}
		o.UsePathStyle = cfg.Storage.S3.PathStyle
	})

	log.WithComponent("s3_uploader").WithFields(logger.Fields{
		"bucket":     cfg.Storage.S3.Bucket,
		"region":     cfg.Storage.S3.Region,
		"endpoint":   cfg.Storage.S3.Endpoint,
		"path_style": cfg.Storage.S3.PathStyle,
	}).Info("s3 uploader initialized")

	return &S3Uploader{
		config:   cfg,
		s3Client: s3Client,
		log:      log,
	}, nil
}

// ObjectKey builds the partitioned key for a local artifact.
func (u *S3Uploader) ObjectKey(leagueID, season, localPath string) string {
	return path.Join(
		u.config.Storage.S3.Prefix,
		fmt.Sprintf("league=%s", leagueID),
		fmt.Sprintf("season=%s", season),
		filepath.Base(localPath),
	)
}

// Upload puts one local artifact into the bucket. Failures are returned for
// the caller to log; the run itself continues either way.
func (u *S3Uploader) Upload(ctx context.Context, localPath, key string) error {
	log := u.log.WithComponent("s3_uploader").WithFields(logger.Fields{
		"s3_key":    key,
		"path":      localPath,
		"operation": "upload",
	})

	data, err := os.ReadFile(localPath)
	if err != nil {
		return fmt.Errorf("read artifact: %w", err)
	}

	_, err = u.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(u.config.Storage.S3.Bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return fmt.Errorf("put object: %w", err)
	}

	log.WithFields(logger.Fields{"file_size": len(data)}).Info("artifact uploaded")
	return nil
}

package export

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/ukydev/motomaint/internal/config"
	"github.com/ukydev/motomaint/internal/models"
)

type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Archive describes an uploaded garage document.
type Archive struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// S3Archiver uploads garage documents to a bucket.
type S3Archiver struct {
	Client putObjectAPI
	Bucket string
	Region string
	Prefix string

	now func() time.Time
}

// NewS3Archiver builds an archiver from cfg. Static credentials are used
// when both keys are set, otherwise the default AWS chain applies.
func NewS3Archiver(ctx context.Context, cfg config.S3Config) (*S3Archiver, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}
	sdkConfig, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &S3Archiver{
		Client: s3.NewFromConfig(sdkConfig),
		Bucket: cfg.Bucket,
		Region: cfg.Region,
		Prefix: strings.Trim(cfg.Prefix, "/"),
	}, nil
}

// ObjectKey returns <prefix>/<owner>/garage-<UTC timestamp>.json.
func (a *S3Archiver) ObjectKey(ownerID string, at time.Time) string {
	name := fmt.Sprintf("%s/garage-%s.json", ownerID, at.UTC().Format("20060102T150405Z"))
	if a.Prefix == "" {
		return name
	}
	return a.Prefix + "/" + name
}

// Archive uploads the owner's garage document and returns where it landed.
func (a *S3Archiver) Archive(ctx context.Context, ownerID string, garage models.Garage) (Archive, error) {
	var buf bytes.Buffer
	if err := WriteDocument(&buf, garage); err != nil {
		return Archive{}, err
	}
	now := time.Now
	if a.now != nil {
		now = a.now
	}
	key := a.ObjectKey(ownerID, now())

	_, err := a.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return Archive{}, fmt.Errorf("failed to upload garage to S3: %w", err)
	}
	return Archive{
		Key: key,
		URL: fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", a.Bucket, a.Region, key),
	}, nil
}

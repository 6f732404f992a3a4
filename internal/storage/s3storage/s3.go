package s3storage

import (
	"context"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/denismitr/imageserver/internal/storage"
	"github.com/pkg/errors"
	"net/http"
	"strings"
)

type Config struct {
	AccessKey    string
	AccessSecret string
	AccessToken  string
	Region       string
	Endpoint     string
	Bucket       string

	// Prefix plays the role of the images root inside the bucket
	Prefix           string
	S3ForcePathStyle bool
	EnableSSL        bool
}

// RemoteStorage serves the same {variant}/{shard}/{file} layout from an S3 bucket
type RemoteStorage struct {
	cfg    Config
	client s3iface.S3API
}

func New(cfg Config) (*RemoteStorage, error) {
	s3Config := &aws.Config{
		Credentials:      credentials.NewStaticCredentials(cfg.AccessKey, cfg.AccessSecret, cfg.AccessToken),
		Endpoint:         aws.String(cfg.Endpoint),
		Region:           aws.String(cfg.Region),
		DisableSSL:       aws.Bool(!cfg.EnableSSL),
		S3ForcePathStyle: aws.Bool(cfg.S3ForcePathStyle),
	}

	sess, err := session.NewSession(s3Config)
	if err != nil {
		return nil, errors.Wrapf(storage.ErrIOFailure, "s3 session could not be created: %v", err)
	}

	return NewWithClient(cfg, s3.New(sess)), nil
}

func NewWithClient(cfg Config, client s3iface.S3API) *RemoteStorage {
	return &RemoteStorage{cfg: cfg, client: client}
}

// Open streams the object body, nothing is buffered in memory
func (rs *RemoteStorage) Open(ctx context.Context, key string) (*storage.Object, error) {
	objectKey := rs.objectKey(key)

	out, err := rs.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(rs.cfg.Bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return nil, classifyError(err, rs.cfg.Bucket, objectKey)
	}

	size := int64(-1)
	if out.ContentLength != nil {
		size = *out.ContentLength
	}

	return &storage.Object{
		Body:    storage.NewContextReader(ctx, out.Body),
		Size:    size,
		ModTime: aws.TimeValue(out.LastModified),
	}, nil
}

func (rs *RemoteStorage) objectKey(key string) string {
	prefix := strings.Trim(rs.cfg.Prefix, "/")
	if prefix == "" {
		return key
	}

	return prefix + "/" + key
}

func classifyError(err error, bucket, key string) error {
	var reqErr awserr.RequestFailure
	if errors.As(err, &reqErr) {
		switch reqErr.StatusCode() {
		case http.StatusNotFound:
			return errors.Wrapf(storage.ErrNotFound, "%s/%s: %v", bucket, key, err)
		case http.StatusForbidden:
			return errors.Wrapf(storage.ErrAccessDenied, "%s/%s: %v", bucket, key, err)
		}
	}

	var aErr awserr.Error
	if errors.As(err, &aErr) {
		switch aErr.Code() {
		case s3.ErrCodeNoSuchKey, s3.ErrCodeNoSuchBucket, "NotFound":
			return errors.Wrapf(storage.ErrNotFound, "%s/%s: %v", bucket, key, err)
		case "AccessDenied", "Forbidden":
			return errors.Wrapf(storage.ErrAccessDenied, "%s/%s: %v", bucket, key, err)
		}
	}

	return errors.Wrapf(storage.ErrIOFailure, "could not download file %s from bucket %s: %v", key, bucket, err)
}

// Package s3 provides an S3-backed block device, storing one object per block.
//
// It is useful for exercising S3-compatible gateways that front block or
// flash media (MinIO on SD-card single board computers, Localstack in CI).
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/marmos91/helocheck/pkg/device"
)

// Config describes the bucket holding the blocks.
type Config struct {
	Bucket string

	// Region and Endpoint fall back to the SDK defaults when empty. Endpoint
	// points at S3-compatible services.
	Region   string
	Endpoint string

	// KeyPrefix is prepended to block keys; end it with "/" to get a
	// directory-like layout such as "sd0/block-0000000042".
	KeyPrefix string

	// Static credentials. When empty the SDK default chain is used.
	AccessKeyID     string
	SecretAccessKey string

	// ForcePathStyle is needed by Localstack and MinIO.
	ForcePathStyle bool

	// Capacity bounds the number of addressable blocks. Zero means unbounded.
	Capacity uint64
}

// Device implements device.Device on an S3 bucket.
type Device struct {
	client    *s3.Client
	bucket    *string
	keyPrefix string
	capacity  uint64
	closed    atomic.Bool
}

// New wraps an existing client.
func New(client *s3.Client, cfg Config) *Device {
	return &Device{
		client:    client,
		bucket:    aws.String(cfg.Bucket),
		keyPrefix: cfg.KeyPrefix,
		capacity:  cfg.Capacity,
	}
}

// NewFromConfig builds the client from cfg and the AWS SDK's environment.
func NewFromConfig(ctx context.Context, cfg Config) (*Device, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("bucket is required")
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" {
		creds := credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(creds))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.ForcePathStyle
	})
	return New(client, cfg), nil
}

// Client returns the underlying S3 client.
func (d *Device) Client() *s3.Client { return d.client }

func (d *Device) fullKey(index uint32) string {
	return device.Key(d.keyPrefix, index)
}

func (d *Device) checkOpen() error {
	if d.closed.Load() {
		return device.ErrDeviceClosed
	}
	return nil
}

// WriteBlock stores data as the object of block index.
func (d *Device) WriteBlock(ctx context.Context, index uint32, data []byte) error {
	if err := device.CheckBlockSize(data); err != nil {
		return err
	}
	if err := d.checkOpen(); err != nil {
		return err
	}
	if d.capacity > 0 && uint64(index) >= d.capacity {
		return device.ErrOutOfRange
	}

	_, err := d.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        d.bucket,
		Key:           aws.String(d.fullKey(index)),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return fmt.Errorf("s3 put block %d: %w", index, err)
	}
	return nil
}

// ReadBlock fetches the object of block index. An object longer than a block
// is returned truncated to BlockSize+1 bytes so verification flags it.
func (d *Device) ReadBlock(ctx context.Context, index uint32) ([]byte, error) {
	if err := d.checkOpen(); err != nil {
		return nil, err
	}

	resp, err := d.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: d.bucket,
		Key:    aws.String(d.fullKey(index)),
	})
	if err != nil {
		if isNotFoundError(err) {
			return nil, device.ErrBlockNotFound
		}
		return nil, fmt.Errorf("s3 get block %d: %w", index, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, device.BlockSize+1))
	if err != nil {
		return nil, fmt.Errorf("s3 read block %d: %w", index, err)
	}
	return data, nil
}

// Sync has nothing to flush: a PutObject that returned is durable.
func (d *Device) Sync(ctx context.Context) error {
	return d.checkOpen()
}

func (d *Device) Capacity(ctx context.Context) (uint64, error) {
	return d.capacity, nil
}

// Close marks the device closed. The client holds no resources to release.
func (d *Device) Close() error {
	d.closed.Store(true)
	return nil
}

// HealthCheck issues HeadBucket, which checks both reachability and
// permissions.
func (d *Device) HealthCheck(ctx context.Context) error {
	if err := d.checkOpen(); err != nil {
		return err
	}
	if _, err := d.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: d.bucket}); err != nil {
		return fmt.Errorf("s3 bucket %s unreachable: %w", aws.ToString(d.bucket), err)
	}
	return nil
}

// isNotFoundError reports whether the service answered that the object does
// not exist. Typed SDK errors are checked first, then the API error code that
// S3-compatible services send, then a bare 404 status. Transport failures
// never match, whatever URL their message carries.
func isNotFoundError(err error) bool {
	if err == nil {
		return false
	}

	var (
		noKey    *types.NoSuchKey
		notFound *types.NotFound
	)
	if errors.As(err, &noKey) || errors.As(err, &notFound) {
		return true
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound", "404":
			return true
		}
		return false
	}

	var resp interface{ HTTPStatusCode() int }
	return errors.As(err, &resp) && resp.HTTPStatusCode() == http.StatusNotFound
}

var _ device.Device = (*Device)(nil)

package s3

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"
	"github.com/marmos91/helocheck/pkg/device"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFromConfig_RequiresBucket(t *testing.T) {
	_, err := NewFromConfig(context.Background(), Config{})
	assert.Error(t, err)
}

func statusError(code int) error {
	return &smithyhttp.ResponseError{
		Response: &smithyhttp.Response{Response: &http.Response{StatusCode: code}},
		Err:      errors.New("response error"),
	}
}

func TestIsNotFoundError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"NoSuchKey", fmt.Errorf("get: %w", &types.NoSuchKey{}), true},
		{"NotFound", fmt.Errorf("head: %w", &types.NotFound{}), true},
		{"api code", &smithy.GenericAPIError{Code: "NoSuchKey", Message: "gone"}, true},
		{"other api code", &smithy.GenericAPIError{Code: "NoSuchBucket", Message: "404"}, false},
		{"status 404", fmt.Errorf("get: %w", statusError(http.StatusNotFound)), true},
		{"status 503", statusError(http.StatusServiceUnavailable), false},
		{"url with 404", errors.New(`Get "http://127.0.0.1:1/b/block-0000000404": connection refused`), false},
		{"text NotFound", errors.New("dial tcp: lookup NotFound.local: no such host"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isNotFoundError(tt.err))
		})
	}
}

// An unreachable endpoint is an I/O error for every index, including those
// whose key contains "404".
func TestDevice_UnreachableIsNotMissing(t *testing.T) {
	client := s3.New(s3.Options{
		Region:           "us-east-1",
		BaseEndpoint:     aws.String("http://127.0.0.1:1"),
		UsePathStyle:     true,
		Credentials:      credentials.NewStaticCredentialsProvider("test", "test", ""),
		RetryMaxAttempts: 1,
	})
	d := New(client, Config{Bucket: "helocheck"})

	for _, index := range []uint32{403, 404, 1404, 4040} {
		_, err := d.ReadBlock(context.Background(), index)
		require.Error(t, err, "index %d", index)
		assert.NotErrorIs(t, err, device.ErrBlockNotFound, "index %d", index)
	}
}

func TestDevice_Key(t *testing.T) {
	d := New(nil, Config{Bucket: "b", KeyPrefix: "sd0/"})
	assert.Equal(t, "sd0/block-0000000042", d.fullKey(42))
}

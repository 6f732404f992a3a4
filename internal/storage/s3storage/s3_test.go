package s3storage

import (
	"context"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/denismitr/imageserver/internal/storage"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"io/ioutil"
	"net/http"
	"strings"
	"testing"
)

type fakeS3 struct {
	s3iface.S3API
	objects map[string]string
	err     error
	input   *s3.GetObjectInput
}

func (f *fakeS3) GetObjectWithContext(_ aws.Context, input *s3.GetObjectInput, _ ...request.Option) (*s3.GetObjectOutput, error) {
	f.input = input
	if f.err != nil {
		return nil, f.err
	}

	body, ok := f.objects[aws.StringValue(input.Key)]
	if !ok {
		return nil, awserr.New(s3.ErrCodeNoSuchKey, "The specified key does not exist.", nil)
	}

	return &s3.GetObjectOutput{
		Body:          ioutil.NopCloser(strings.NewReader(body)),
		ContentLength: aws.Int64(int64(len(body))),
	}, nil
}

func TestRemoteStorage_Open(t *testing.T) {
	client := &fakeS3{objects: map[string]string{"images/full/3f/foo.png": "png bytes"}}
	rs := NewWithClient(Config{Bucket: "media", Prefix: "/images/"}, client)

	t.Run("streams an existing object", func(t *testing.T) {
		obj, err := rs.Open(context.Background(), "full/3f/foo.png")
		require.NoError(t, err)
		defer obj.Body.Close()

		b, err := ioutil.ReadAll(obj.Body)
		require.NoError(t, err)
		assert.Equal(t, "png bytes", string(b))
		assert.Equal(t, int64(9), obj.Size)
		assert.Equal(t, "media", aws.StringValue(client.input.Bucket))
	})

	t.Run("missing object", func(t *testing.T) {
		_, err := rs.Open(context.Background(), "thumb/3f/foo.png")
		assert.True(t, errors.Is(err, storage.ErrNotFound))
	})
}

func Test_objectKey(t *testing.T) {
	tt := []struct {
		prefix   string
		expected string
	}{
		{prefix: "", expected: "full/3f/foo.png"},
		{prefix: "images", expected: "images/full/3f/foo.png"},
		{prefix: "/images/", expected: "images/full/3f/foo.png"},
		{prefix: "a/b", expected: "a/b/full/3f/foo.png"},
	}

	for _, tc := range tt {
		t.Run(tc.prefix, func(t *testing.T) {
			rs := NewWithClient(Config{Prefix: tc.prefix}, &fakeS3{})
			assert.Equal(t, tc.expected, rs.objectKey("full/3f/foo.png"))
		})
	}
}

func Test_classifyError(t *testing.T) {
	tt := []struct {
		name string
		err  error
		kind error
	}{
		{name: "no such key", err: awserr.New(s3.ErrCodeNoSuchKey, "missing", nil), kind: storage.ErrNotFound},
		{name: "no such bucket", err: awserr.New(s3.ErrCodeNoSuchBucket, "missing", nil), kind: storage.ErrNotFound},
		{name: "access denied", err: awserr.New("AccessDenied", "denied", nil), kind: storage.ErrAccessDenied},
		{
			name: "404 request failure",
			err:  awserr.NewRequestFailure(awserr.New("NotFound", "missing", nil), http.StatusNotFound, "req"),
			kind: storage.ErrNotFound,
		},
		{
			name: "403 request failure",
			err:  awserr.NewRequestFailure(awserr.New("Forbidden", "denied", nil), http.StatusForbidden, "req"),
			kind: storage.ErrAccessDenied,
		},
		{
			name: "503 request failure",
			err:  awserr.NewRequestFailure(awserr.New("SlowDown", "slow", nil), http.StatusServiceUnavailable, "req"),
			kind: storage.ErrIOFailure,
		},
		{name: "anything else", err: errors.New("connection reset"), kind: storage.ErrIOFailure},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			err := classifyError(tc.err, "media", "full/3f/foo.png")
			assert.True(t, errors.Is(err, tc.kind), "got %v", err)
		})
	}
}

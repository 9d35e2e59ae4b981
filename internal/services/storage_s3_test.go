package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/price-compare/internal/config"
	"github.com/javajoker/price-compare/internal/utils"
)

type fakeS3 struct {
	s3iface.S3API
	inputs []*s3.PutObjectInput
	bodies [][]byte
	err    error
}

func (f *fakeS3) PutObjectWithContext(_ aws.Context, input *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	f.inputs = append(f.inputs, input)
	if f.err != nil {
		return nil, f.err
	}
	body, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, err
	}
	f.bodies = append(f.bodies, body)
	return &s3.PutObjectOutput{}, nil
}

func newS3Storage(client *fakeS3, cloudFront string) *StorageService {
	return &StorageService{
		s3Client: client,
		breaker:  utils.NewBreaker("s3-upload-test", time.Minute),
		aws: config.AWSConfig{
			Region:        "us-east-1",
			S3Bucket:      "precios",
			CloudFrontURL: cloudFront,
		},
		upload: config.UploadConfig{Folder: "productos-escasos", MaxSizeMB: 1},
		now:    func() time.Time { return time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC) },
	}
}

func TestUploadImageS3(t *testing.T) {
	client := &fakeS3{}
	s := newS3Storage(client, "")
	require.False(t, s.UsesLocalDisk())

	result, err := s.UploadImage(context.Background(), pngHeader, "leche.png")
	require.NoError(t, err)

	require.Len(t, client.inputs, 1)
	input := client.inputs[0]
	assert.Equal(t, "precios", aws.StringValue(input.Bucket))
	assert.Equal(t, result.Key, aws.StringValue(input.Key))
	assert.Equal(t, s3.ObjectCannedACLPublicRead, aws.StringValue(input.ACL))
	assert.Equal(t, "image/png", aws.StringValue(input.ContentType))
	assert.Equal(t, int64(len(pngHeader)), aws.Int64Value(input.ContentLength))
	assert.Equal(t, pngHeader, client.bodies[0])

	assert.True(t, strings.HasPrefix(result.Key, "productos-escasos/20240502_"))
	assert.True(t, strings.HasSuffix(result.Key, "_leche.png"))
	assert.Equal(t, "https://precios.s3.us-east-1.amazonaws.com/"+result.Key, result.URL)
}

func TestUploadImageS3CloudFront(t *testing.T) {
	s := newS3Storage(&fakeS3{}, "https://d123.cloudfront.net/")

	result, err := s.UploadImage(context.Background(), pngHeader, "queso.png")
	require.NoError(t, err)
	assert.Equal(t, "https://d123.cloudfront.net/"+result.Key, result.URL)
}

func TestUploadImageS3Failures(t *testing.T) {
	client := &fakeS3{err: errors.New("connection reset")}
	s := newS3Storage(client, "")

	for i := 0; i < 5; i++ {
		_, err := s.UploadImage(context.Background(), pngHeader, "leche.png")
		assert.ErrorIs(t, err, ErrUploadFailed)
	}
	require.Len(t, client.inputs, 5)
	assert.Equal(t, gobreaker.StateOpen, s.breaker.State())

	_, err := s.UploadImage(context.Background(), pngHeader, "leche.png")
	assert.ErrorIs(t, err, ErrUploadFailed)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Len(t, client.inputs, 5)
}

package service

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 only supports single part uploads, which is all small banners need
type fakeS3 struct {
	manager.UploadAPIClient

	inputs []*s3.PutObjectInput
	bodies [][]byte
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}

	f.inputs = append(f.inputs, in)
	f.bodies = append(f.bodies, b)
	return &s3.PutObjectOutput{}, nil
}

func TestBannerUploader_Upload(t *testing.T) {
	fake := &fakeS3{}
	u := NewBannerUploader(fake, "banners-bucket", "https://cdn.example.com/")

	body := []byte("\x89PNG\r\n\x1a\nnot really an image")

	url, err := u.Upload(context.Background(), testEventID, bytes.NewReader(body), int64(len(body)), "image/png")
	require.NoError(t, err)
	require.Len(t, fake.inputs, 1)

	in := fake.inputs[0]
	key := aws.ToString(in.Key)

	assert.Equal(t, "banners-bucket", aws.ToString(in.Bucket))
	assert.True(t, strings.HasPrefix(key, "banners/"+testEventID+"/"), key)
	assert.True(t, strings.HasSuffix(key, ".png"), key)
	assert.Equal(t, "image/png", aws.ToString(in.ContentType))
	assert.Equal(t, "https://cdn.example.com/"+key, url)
	assert.Equal(t, body, fake.bodies[0])
}

func TestBannerUploader_Disabled(t *testing.T) {
	var u *BannerUploader

	_, err := u.Upload(context.Background(), testEventID, strings.NewReader("x"), 1, "image/png")
	assert.ErrorIs(t, err, ErrStorageDisabled)
}

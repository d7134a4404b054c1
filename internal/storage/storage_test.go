package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"io"
	"testing"

	"github.com/cwrk-planet/creator-hub/internal/errs"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/require"
)

// 1x1 PNG
var pngPixel, _ = base64.StdEncoding.DecodeString("iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII=")

func TestSniffImage(t *testing.T) {
	img, err := SniffImage(pngPixel, 1024)
	require.NoError(t, err)
	require.Equal(t, "image/png", img.ContentType)
	require.Equal(t, "png", img.Ext())

	_, err = SniffImage(pngPixel, 10)
	require.ErrorIs(t, err, errs.ErrValidation)

	_, err = SniffImage([]byte("GIF89a........"), 1024)
	require.ErrorIs(t, err, errs.ErrValidation)

	_, err = SniffImage(nil, 1024)
	require.ErrorIs(t, err, errs.ErrValidation)
}

func TestDecodeImage(t *testing.T) {
	raw := base64.StdEncoding.EncodeToString(pngPixel)

	img, err := DecodeImage("data:image/png;base64,"+raw, 1024)
	require.NoError(t, err)
	require.Equal(t, pngPixel, img.Data)

	img, err = DecodeImage(raw, 1024)
	require.NoError(t, err)
	require.Equal(t, "image/png", img.ContentType)

	_, err = DecodeImage("data:image/png;base64,@@@not-base64@@@", 1024)
	require.ErrorIs(t, err, errs.ErrValidation)

	_, err = DecodeImage("data:image/png,plain", 1024)
	require.ErrorIs(t, err, errs.ErrValidation)
}

func TestIsRemoteURL(t *testing.T) {
	require.True(t, IsRemoteURL("https://cdn.example.com/a.png"))
	require.True(t, IsRemoteURL(" HTTP://x"))
	require.False(t, IsRemoteURL("ftp://x"))
	require.False(t, IsRemoteURL("iVBORw0KGgo"))
}

type fakePutter struct {
	in   *s3.PutObjectInput
	body []byte
	err  error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = in
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, f.err
}

func TestS3Uploader_Upload(t *testing.T) {
	fp := &fakePutter{}
	up := newS3Uploader(fp, "bucket", "http://minio:9000/bucket/")

	img, err := SniffImage(pngPixel, 1024)
	require.NoError(t, err)

	url, err := up.Upload(context.Background(), "profile-pictures/user_1", img)
	require.NoError(t, err)
	require.Equal(t, "http://minio:9000/bucket/profile-pictures/user_1.png", url)
	require.Equal(t, "bucket", aws.ToString(fp.in.Bucket))
	require.Equal(t, "image/png", aws.ToString(fp.in.ContentType))
	require.True(t, bytes.Equal(pngPixel, fp.body))

	fp.err = errors.New("denied")
	_, err = up.Upload(context.Background(), "k", img)
	require.Error(t, err)
}

func TestInlineUploader(t *testing.T) {
	img, err := SniffImage(pngPixel, 1024)
	require.NoError(t, err)

	url, err := InlineUploader{}.Upload(context.Background(), "ignored", img)
	require.NoError(t, err)
	require.Equal(t, "data:image/png;base64,"+base64.StdEncoding.EncodeToString(pngPixel), url)
}

package storage

import (
	"context"
	"encoding/base64"
)

// Uploader stores an image under key and returns the URL clients should use.
type Uploader interface {
	Upload(ctx context.Context, key string, img *Image) (string, error)
}

// InlineUploader keeps the image in the database as a data URL. Used when no
// object storage is configured.
type InlineUploader struct{}

func (InlineUploader) Upload(_ context.Context, _ string, img *Image) (string, error) {
	return "data:" + img.ContentType + ";base64," + base64.StdEncoding.EncodeToString(img.Data), nil
}

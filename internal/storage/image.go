package storage

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/cwrk-planet/creator-hub/internal/errs"

	"github.com/gabriel-vasile/mimetype"
)

var allowedImageTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

type Image struct {
	Data        []byte
	ContentType string
}

func (i *Image) Ext() string { return allowedImageTypes[i.ContentType] }

// SniffImage checks size and detects the real content type from the bytes,
// ignoring whatever the client declared.
func SniffImage(data []byte, maxBytes int64) (*Image, error) {
	if len(data) == 0 {
		return nil, errs.Invalid("profilePicture", "image is empty")
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return nil, errs.Invalid("profilePicture", fmt.Sprintf("image exceeds %d bytes", maxBytes))
	}

	mt := mimetype.Detect(data)
	ct := mt.String()
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	if _, ok := allowedImageTypes[ct]; !ok {
		return nil, errs.Invalid("profilePicture", "only jpeg, png and webp images are allowed")
	}

	return &Image{Data: data, ContentType: ct}, nil
}

// DecodeImage accepts a data URL ("data:image/png;base64,...") or raw base64.
func DecodeImage(s string, maxBytes int64) (*Image, error) {
	payload := strings.TrimSpace(s)
	if strings.HasPrefix(payload, "data:") {
		comma := strings.IndexByte(payload, ',')
		if comma < 0 || !strings.Contains(payload[:comma], ";base64") {
			return nil, errs.Invalid("profilePicture", "invalid data URL")
		}
		payload = payload[comma+1:]
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(payload)
	}
	if err != nil {
		return nil, errs.Invalid("profilePicture", "invalid base64 image")
	}

	return SniffImage(data, maxBytes)
}

// IsRemoteURL reports whether s is an http(s) URL that is stored as is.
func IsRemoteURL(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

package utils

import (
	"encoding/base64"
	"errors"
	"strings"
)

var ErrNotDataURL = errors.New("not a base64 image data url")

// DataImage is a decoded data-URI image payload as submitted inline by the
// admin UI (for example "data:image/png;base64,....").
type DataImage struct {
	ContentType string
	Ext         string
	Bytes       []byte
}

func IsImageDataURL(value string) bool {
	return strings.HasPrefix(value, "data:image/")
}

func ParseImageDataURL(value string) (*DataImage, error) {
	if !IsImageDataURL(value) {
		return nil, ErrNotDataURL
	}
	meta, payload, found := strings.Cut(value[len("data:"):], ",")
	if !found || !strings.HasSuffix(meta, ";base64") {
		return nil, ErrNotDataURL
	}
	contentType := strings.TrimSuffix(meta, ";base64")
	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, ErrNotDataURL
	}

	ext := strings.TrimPrefix(contentType, "image/")
	if ext == "jpeg" {
		ext = "jpg"
	}
	return &DataImage{
		ContentType: contentType,
		Ext:         ext,
		Bytes:       decoded,
	}, nil
}

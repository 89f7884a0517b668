package utils

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseImageDataURL(t *testing.T) {
	payload := []byte{0x89, 0x50, 0x4e, 0x47}
	encoded := "data:image/png;base64," + base64.StdEncoding.EncodeToString(payload)

	image, err := ParseImageDataURL(encoded)
	require.NoError(t, err)
	assert.Equal(t, "image/png", image.ContentType)
	assert.Equal(t, "png", image.Ext)
	assert.Equal(t, payload, image.Bytes)
}

func TestParseImageDataURL_JpegExt(t *testing.T) {
	encoded := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte{0xff, 0xd8})

	image, err := ParseImageDataURL(encoded)
	require.NoError(t, err)
	assert.Equal(t, "jpg", image.Ext)
}

func TestParseImageDataURL_Rejects(t *testing.T) {
	cases := []string{
		"https://example.com/image.png",
		"data:text/plain;base64,aGVsbG8=",
		"data:image/png;base64,@@not-base64@@",
		"data:image/png,plain-payload",
		"",
	}
	for _, value := range cases {
		_, err := ParseImageDataURL(value)
		assert.ErrorIs(t, err, ErrNotDataURL, "value %q", value)
	}
}

func TestIsImageDataURL(t *testing.T) {
	assert.True(t, IsImageDataURL("data:image/png;base64,AAAA"))
	assert.False(t, IsImageDataURL("https://example.com/a.png"))
}

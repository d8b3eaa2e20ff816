package storage

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Payload defects are rejected before any S3 call, so a zero store is enough
func TestUploadBase64_InvalidPayloads(t *testing.T) {
	store := &S3Storage{}

	tests := []struct {
		name string
		data string
	}{
		{
			name: "Data URI without comma",
			data: "data:image/png;base64",
		},
		{
			name: "Unsupported media type",
			data: "data:image/tiff;base64," + base64.StdEncoding.EncodeToString([]byte("tiff bytes")),
		},
		{
			name: "Broken base64",
			data: "data:image/png;base64,not-base64!!",
		},
		{
			name: "Empty payload",
			data: "data:image/png;base64,",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.UploadBase64(tt.data, "recipes")

			assert.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidImage)
		})
	}
}

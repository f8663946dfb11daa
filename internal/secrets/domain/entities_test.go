package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/jfwood/barbican/internal/errors"
)

func TestSecretContentTypes(t *testing.T) {
	tests := []struct {
		name      string
		mimeTypes []string
		want      map[string]string
	}{
		{
			name:      "no encrypted data",
			mimeTypes: nil,
			want:      nil,
		},
		{
			name:      "plain text datum",
			mimeTypes: []string{MimeTypeTextPlain},
			want:      map[string]string{"default": MimeTypeTextPlain},
		},
		{
			name:      "aes datum",
			mimeTypes: []string{MimeTypeAES},
			want:      map[string]string{"default": MimeTypeAES},
		},
		{
			name:      "unmapped mime type contributes nothing",
			mimeTypes: []string{MimeTypeOctetStream},
			want:      nil,
		},
		{
			name:      "last mapped datum wins",
			mimeTypes: []string{MimeTypeTextPlain, MimeTypeAES},
			want:      map[string]string{"default": MimeTypeAES},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			secret := &Secret{}
			for _, mt := range tt.mimeTypes {
				secret.EncryptedData = append(secret.EncryptedData, &EncryptedDatum{MimeType: mt})
			}
			assert.Equal(t, tt.want, secret.ContentTypes())
		})
	}
}

func TestIsSupportedBitLength(t *testing.T) {
	assert.True(t, IsSupportedBitLength(128))
	assert.True(t, IsSupportedBitLength(192))
	assert.True(t, IsSupportedBitLength(256))
	assert.False(t, IsSupportedBitLength(64))
	assert.False(t, IsSupportedBitLength(0))
}

func TestErrorTypes(t *testing.T) {
	t.Run("invalid object unwraps to invalid input", func(t *testing.T) {
		err := NewInvalidObject("Secret' within 'Order", "'expiration' is before current time")
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
		assert.Contains(t, err.Error(), "Secret' within 'Order")
		assert.Contains(t, err.Error(), "before current time")
	})

	t.Run("not supported unwraps to not supported", func(t *testing.T) {
		err := NewNotSupported("Order", "the only 'algorithm' selection supported now is 'aes'")
		assert.True(t, apperrors.Is(err, apperrors.ErrNotSupported))
	})

	t.Run("limit exceeded unwraps to payload too large", func(t *testing.T) {
		err := NewLimitExceeded(10000)
		assert.True(t, apperrors.Is(err, apperrors.ErrPayloadTooLarge))
		assert.Contains(t, err.Error(), "10000")
	})
}

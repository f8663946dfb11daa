package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZero(t *testing.T) {
	key := []byte{1, 2, 3, 4}
	Zero(key)
	assert.Equal(t, []byte{0, 0, 0, 0}, key)
}

func TestKekMetadata(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		meta := &KekMetadata{
			Algorithm:  AESGCM,
			WrappedKey: []byte("wrapped"),
			Nonce:      []byte("nonce"),
		}

		encoded, err := meta.Encode()
		require.NoError(t, err)

		parsed, err := ParseKekMetadata(encoded)
		require.NoError(t, err)
		assert.Equal(t, meta, parsed)
	})

	t.Run("invalid json", func(t *testing.T) {
		_, err := ParseKekMetadata("not json")
		assert.ErrorIs(t, err, ErrInvalidKekMetadata)
	})

	t.Run("missing fields", func(t *testing.T) {
		_, err := ParseKekMetadata(`{"algorithm": "aes-gcm"}`)
		assert.ErrorIs(t, err, ErrInvalidKekMetadata)
	})
}

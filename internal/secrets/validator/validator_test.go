package validator

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/jfwood/barbican/internal/errors"
	"github.com/jfwood/barbican/internal/secrets/domain"
)

func newSecretValidatorForTest(t *testing.T, maxBytes int) *SecretValidator {
	t.Helper()
	v, err := NewSecretValidator(maxBytes)
	require.NoError(t, err)
	v.now = func() time.Time {
		return time.Date(2014, 2, 28, 19, 14, 44, 0, time.UTC)
	}
	return v
}

func TestSecretValidator(t *testing.T) {
	t.Run("minimal payload succeeds with nil name", func(t *testing.T) {
		v := newSecretValidatorForTest(t, 10000)

		payload, err := v.Validate([]byte(`{"mime_type": "application/octet-stream"}`), "")
		require.NoError(t, err)
		assert.Nil(t, payload.Name)
		assert.Nil(t, payload.Expiration)
		assert.False(t, payload.HasPlainText)
		assert.Equal(t, "application/octet-stream", payload.MimeType)
	})

	t.Run("blank name is normalized to nil", func(t *testing.T) {
		v := newSecretValidatorForTest(t, 10000)

		payload, err := v.Validate([]byte(`{"name": "   ", "mime_type": "text/plain"}`), "")
		require.NoError(t, err)
		assert.Nil(t, payload.Name)
	})

	t.Run("name is trimmed", func(t *testing.T) {
		v := newSecretValidatorForTest(t, 10000)

		payload, err := v.Validate([]byte(`{"name": "  my secret  ", "mime_type": "text/plain"}`), "")
		require.NoError(t, err)
		require.NotNil(t, payload.Name)
		assert.Equal(t, "my secret", *payload.Name)
	})

	t.Run("missing mime_type fails", func(t *testing.T) {
		v := newSecretValidatorForTest(t, 10000)

		_, err := v.Validate([]byte(`{"name": "secret"}`), "")
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
	})

	t.Run("unsupported mime_type fails", func(t *testing.T) {
		v := newSecretValidatorForTest(t, 10000)

		_, err := v.Validate([]byte(`{"mime_type": "application/json"}`), "")
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
	})

	t.Run("malformed json fails", func(t *testing.T) {
		v := newSecretValidatorForTest(t, 10000)

		_, err := v.Validate([]byte(`{"mime_type":`), "")
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
	})

	t.Run("future expiration is parsed to utc", func(t *testing.T) {
		v := newSecretValidatorForTest(t, 10000)

		payload, err := v.Validate(
			[]byte(`{"mime_type": "text/plain", "expiration": "2014-02-28T19:14:44-05:00"}`), "")
		require.NoError(t, err)
		require.NotNil(t, payload.Expiration)
		assert.Equal(t, time.Date(2014, 3, 1, 0, 14, 44, 0, time.UTC), *payload.Expiration)
	})

	t.Run("past expiration fails", func(t *testing.T) {
		v := newSecretValidatorForTest(t, 10000)

		_, err := v.Validate(
			[]byte(`{"mime_type": "text/plain", "expiration": "2014-02-28T19:14:44Z"}`), "")
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
		assert.Contains(t, err.Error(), "before current time")
	})

	t.Run("unparseable expiration fails", func(t *testing.T) {
		v := newSecretValidatorForTest(t, 10000)

		_, err := v.Validate(
			[]byte(`{"mime_type": "text/plain", "expiration": "next tuesday"}`), "")
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
	})

	t.Run("blank expiration is treated as omitted", func(t *testing.T) {
		v := newSecretValidatorForTest(t, 10000)

		payload, err := v.Validate([]byte(`{"mime_type": "text/plain", "expiration": "  "}`), "")
		require.NoError(t, err)
		assert.Nil(t, payload.Expiration)
	})

	t.Run("plain_text is trimmed", func(t *testing.T) {
		v := newSecretValidatorForTest(t, 10000)

		payload, err := v.Validate(
			[]byte(`{"mime_type": "text/plain", "plain_text": "  hunter2  "}`), "")
		require.NoError(t, err)
		assert.True(t, payload.HasPlainText)
		assert.Equal(t, "hunter2", payload.PlainText)
	})

	t.Run("oversized plain_text fails before trimming", func(t *testing.T) {
		v := newSecretValidatorForTest(t, 4)

		_, err := v.Validate([]byte(`{"mime_type": "text/plain", "plain_text": "  a  "}`), "")
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrPayloadTooLarge))

		var limitErr *domain.LimitExceededError
		require.True(t, apperrors.As(err, &limitErr))
		assert.Equal(t, 4, limitErr.MaxBytes)
	})

	t.Run("whitespace-only plain_text fails", func(t *testing.T) {
		v := newSecretValidatorForTest(t, 10000)

		_, err := v.Validate([]byte(`{"mime_type": "text/plain", "plain_text": "   "}`), "")
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
	})

	t.Run("parent schema is carried in the error", func(t *testing.T) {
		v := newSecretValidatorForTest(t, 10000)

		_, err := v.Validate([]byte(`{}`), "Order")
		require.Error(t, err)

		var invalidErr *domain.InvalidObjectError
		require.True(t, apperrors.As(err, &invalidErr))
		assert.Contains(t, invalidErr.Schema, "Order")
	})
}

func newOrderValidatorForTest(t *testing.T) *OrderValidator {
	t.Helper()
	sv := newSecretValidatorForTest(t, 10000)
	v, err := NewOrderValidator(sv)
	require.NoError(t, err)
	return v
}

func validOrderBody() []byte {
	return []byte(`{
		"secret": {
			"name": "certificate refresh",
			"algorithm": "aes",
			"cypher_type": "cbc",
			"bit_length": 256,
			"mime_type": "application/octet-stream"
		}
	}`)
}

func TestOrderValidator(t *testing.T) {
	t.Run("valid order succeeds", func(t *testing.T) {
		v := newOrderValidatorForTest(t)

		payload, err := v.Validate(validOrderBody(), "")
		require.NoError(t, err)
		require.NotNil(t, payload.Secret.Name)
		assert.Equal(t, "certificate refresh", *payload.Secret.Name)
		assert.Equal(t, domain.AlgorithmAES, payload.Secret.Algorithm)
		assert.Equal(t, domain.CypherTypeCBC, payload.Secret.CypherType)
		assert.Equal(t, 256, payload.Secret.BitLength)
	})

	t.Run("missing secret fails", func(t *testing.T) {
		v := newOrderValidatorForTest(t)

		_, err := v.Validate([]byte(`{}`), "")
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
	})

	t.Run("plain_text in order fails", func(t *testing.T) {
		v := newOrderValidatorForTest(t)

		body := []byte(`{
			"secret": {
				"algorithm": "aes",
				"cypher_type": "cbc",
				"bit_length": 256,
				"mime_type": "text/plain",
				"plain_text": "supplied material"
			}
		}`)
		_, err := v.Validate(body, "")
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
	})

	t.Run("nested secret validation failures propagate", func(t *testing.T) {
		v := newOrderValidatorForTest(t)

		_, err := v.Validate([]byte(`{"secret": {"name": "no mime type"}}`), "")
		require.Error(t, err)

		var invalidErr *domain.InvalidObjectError
		require.True(t, apperrors.As(err, &invalidErr))
		assert.Contains(t, invalidErr.Schema, "Order")
	})

	t.Run("unsupported generation parameters fail with not supported", func(t *testing.T) {
		tests := []struct {
			name       string
			algorithm  string
			cypherType string
			bitLength  int
		}{
			{"algorithm", "rsa", "cbc", 256},
			{"cypher_type", "aes", "gcm", 256},
			{"bit_length", "aes", "cbc", 512},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				v := newOrderValidatorForTest(t)

				body := []byte(`{
					"secret": {
						"algorithm": "` + tt.algorithm + `",
						"cypher_type": "` + tt.cypherType + `",
						"bit_length": ` + strconv.Itoa(tt.bitLength) + `,
						"mime_type": "application/octet-stream"
					}
				}`)
				_, err := v.Validate(body, "")
				require.Error(t, err)
				assert.True(t, apperrors.Is(err, apperrors.ErrNotSupported))

				var notSupportedErr *domain.NotSupportedError
				assert.True(t, apperrors.As(err, &notSupportedErr))
			})
		}
	})
}

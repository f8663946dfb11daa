package domain

import (
	"github.com/jfwood/barbican/internal/errors"
)

// Cryptographic operation error definitions.
var (
	// ErrUnsupportedAlgorithm indicates the requested AEAD algorithm is not
	// supported. Supported algorithms: AESGCM and ChaCha20.
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrInvalidKeySize indicates a key is not exactly 32 bytes.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrDecryptionFailed indicates a decryption or authentication failure.
	// The specific cause is not disclosed to avoid leaking oracle detail.
	ErrDecryptionFailed = errors.Wrap(errors.ErrInvalidInput, "decryption failed")

	// ErrInvalidKekMetadata indicates a stored datum carries KEK metadata
	// that cannot be decoded.
	ErrInvalidKekMetadata = errors.Wrap(errors.ErrInvalidInput, "invalid kek metadata")
)

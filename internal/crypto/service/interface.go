// Package service provides the cryptographic services used to encrypt and
// decrypt datum payloads: AEAD ciphers, a KMS keeper for DEK wrapping, and
// the cipher service combining them.
package service

import (
	"context"

	cryptoDomain "github.com/jfwood/barbican/internal/crypto/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Encrypt encrypts plaintext with optional AAD and returns ciphertext
	// and nonce.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt decrypts ciphertext using the provided nonce and AAD.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)
}

// AEADManager defines the interface for creating AEAD cipher instances.
type AEADManager interface {
	// CreateCipher creates an AEAD cipher instance for the specified algorithm.
	CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error)
}

// Keeper wraps and unwraps data encryption keys through a KMS provider.
// *secrets.Keeper from gocloud.dev implements it.
type Keeper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}

// Cipher is the gateway for datum payload encryption. Implementations own
// the full envelope: DEK generation, payload encryption, and DEK wrapping.
type Cipher interface {
	// Encrypt encrypts a payload and returns the ciphertext together with
	// the encoded KEK metadata needed to decrypt it later.
	Encrypt(ctx context.Context, plaintext []byte) (cypherText []byte, kekMetadata string, err error)

	// Decrypt recovers the payload from ciphertext and its KEK metadata.
	Decrypt(ctx context.Context, cypherText []byte, kekMetadata string) ([]byte, error)

	// GenerateSecretData generates fresh random secret material of the
	// given bit length and encrypts it. Used for order fulfillment where
	// the caller never supplies the plaintext.
	GenerateSecretData(ctx context.Context, bitLength int) (cypherText []byte, kekMetadata string, err error)
}

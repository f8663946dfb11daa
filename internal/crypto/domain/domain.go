// Package domain defines the core models for datum envelope encryption.
//
// Each encrypted datum carries its own Data Encryption Key (DEK). The DEK
// encrypts the payload with an AEAD cipher and is itself wrapped by the
// configured KMS keeper. The wrapped DEK, its nonce, and the AEAD algorithm
// travel with the datum as KEK metadata, so any datum can be decrypted
// without shared mutable key state.
package domain

// Algorithm represents the AEAD algorithm used to encrypt datum payloads.
type Algorithm string

const (
	// AESGCM is AES-256-GCM. Preferred on CPUs with AES-NI acceleration.
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 is ChaCha20-Poly1305. Preferred on platforms without AES
	// hardware support.
	ChaCha20 Algorithm = "chacha20-poly1305"
)

// KeySize is the required key length in bytes for all supported algorithms.
const KeySize = 32

// Zero overwrites a byte slice with zeros to clear key material from memory.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

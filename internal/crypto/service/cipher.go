package service

import (
	"context"
	"crypto/rand"
	"fmt"

	cryptoDomain "github.com/jfwood/barbican/internal/crypto/domain"
)

// CipherService implements the Cipher interface with per-datum envelope
// encryption. For every payload it generates a fresh 256-bit DEK, encrypts
// the payload with the configured AEAD algorithm, and wraps the DEK through
// the KMS keeper. The wrapped DEK, nonce, and algorithm are encoded as KEK
// metadata and stored with the ciphertext.
type CipherService struct {
	keeper      Keeper
	aeadManager AEADManager
	algorithm   cryptoDomain.Algorithm
}

// NewCipherService creates a CipherService encrypting new payloads with the
// given algorithm. Stored payloads decrypt with whatever algorithm their KEK
// metadata names, so changing the algorithm does not orphan existing data.
func NewCipherService(
	keeper Keeper,
	aeadManager AEADManager,
	algorithm cryptoDomain.Algorithm,
) *CipherService {
	return &CipherService{
		keeper:      keeper,
		aeadManager: aeadManager,
		algorithm:   algorithm,
	}
}

// Encrypt encrypts a payload and returns the ciphertext and encoded KEK
// metadata.
func (c *CipherService) Encrypt(
	ctx context.Context, plaintext []byte,
) (cypherText []byte, kekMetadata string, err error) {
	dek := make([]byte, cryptoDomain.KeySize)
	if _, err := rand.Read(dek); err != nil {
		return nil, "", fmt.Errorf("failed to generate DEK: %w", err)
	}
	defer cryptoDomain.Zero(dek)

	aead, err := c.aeadManager.CreateCipher(dek, c.algorithm)
	if err != nil {
		return nil, "", err
	}

	cypherText, nonce, err := aead.Encrypt(plaintext, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to encrypt payload: %w", err)
	}

	wrappedKey, err := c.keeper.Encrypt(ctx, dek)
	if err != nil {
		return nil, "", fmt.Errorf("failed to wrap DEK: %w", err)
	}

	meta := &cryptoDomain.KekMetadata{
		Algorithm:  c.algorithm,
		WrappedKey: wrappedKey,
		Nonce:      nonce,
	}
	kekMetadata, err = meta.Encode()
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode kek metadata: %w", err)
	}

	return cypherText, kekMetadata, nil
}

// Decrypt recovers the payload from ciphertext and its KEK metadata.
func (c *CipherService) Decrypt(
	ctx context.Context, cypherText []byte, kekMetadata string,
) ([]byte, error) {
	meta, err := cryptoDomain.ParseKekMetadata(kekMetadata)
	if err != nil {
		return nil, err
	}

	dek, err := c.keeper.Decrypt(ctx, meta.WrappedKey)
	if err != nil {
		return nil, cryptoDomain.ErrDecryptionFailed
	}
	defer cryptoDomain.Zero(dek)

	aead, err := c.aeadManager.CreateCipher(dek, meta.Algorithm)
	if err != nil {
		return nil, err
	}

	plaintext, err := aead.Decrypt(cypherText, meta.Nonce, nil)
	if err != nil {
		return nil, cryptoDomain.ErrDecryptionFailed
	}

	return plaintext, nil
}

// GenerateSecretData generates random secret material of the given bit
// length and encrypts it. The plaintext material is zeroed before returning.
func (c *CipherService) GenerateSecretData(
	ctx context.Context, bitLength int,
) (cypherText []byte, kekMetadata string, err error) {
	material := make([]byte, bitLength/8)
	if _, err := rand.Read(material); err != nil {
		return nil, "", fmt.Errorf("failed to generate secret material: %w", err)
	}
	defer cryptoDomain.Zero(material)

	return c.Encrypt(ctx, material)
}

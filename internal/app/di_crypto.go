package app

import (
	"context"
	"fmt"

	cryptoDomain "github.com/jfwood/barbican/internal/crypto/domain"
	cryptoService "github.com/jfwood/barbican/internal/crypto/service"
)

// Keeper returns the KMS keeper used for DEK wrapping.
func (c *Container) Keeper() (cryptoService.Keeper, error) {
	c.keeperInit.Do(func() {
		keeper, err := cryptoService.NewKMSService().OpenKeeper(context.Background(), c.config.KMSKeyURI)
		if err != nil {
			c.initErrors["keeper"] = fmt.Errorf("failed to open KMS keeper: %w", err)
			return
		}
		c.keeper = keeper
	})
	if storedErr, exists := c.initErrors["keeper"]; exists {
		return nil, storedErr
	}
	return c.keeper, nil
}

// Cipher returns the cipher service encrypting and decrypting datum payloads.
func (c *Container) Cipher() (cryptoService.Cipher, error) {
	c.cipherInit.Do(func() {
		keeper, err := c.Keeper()
		if err != nil {
			c.initErrors["cipher"] = err
			return
		}

		algorithm, err := parseAlgorithm(c.config.CryptoAEADAlgorithm)
		if err != nil {
			c.initErrors["cipher"] = err
			return
		}

		c.cipher = cryptoService.NewCipherService(keeper, cryptoService.NewAEADManager(), algorithm)
	})
	if storedErr, exists := c.initErrors["cipher"]; exists {
		return nil, storedErr
	}
	return c.cipher, nil
}

// parseAlgorithm maps the configured algorithm name to its domain value.
func parseAlgorithm(name string) (cryptoDomain.Algorithm, error) {
	switch cryptoDomain.Algorithm(name) {
	case cryptoDomain.AESGCM:
		return cryptoDomain.AESGCM, nil
	case cryptoDomain.ChaCha20:
		return cryptoDomain.ChaCha20, nil
	default:
		return "", fmt.Errorf("unsupported AEAD algorithm: %s", name)
	}
}

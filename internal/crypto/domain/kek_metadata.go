package domain

import (
	"encoding/json"
)

// KekMetadata describes how a datum's DEK was wrapped. It is serialized to
// JSON and stored alongside the ciphertext, so a datum remains decryptable
// after the application restarts or the keeper configuration is reopened.
type KekMetadata struct {
	// Algorithm is the AEAD algorithm the DEK encrypted the payload with.
	Algorithm Algorithm `json:"algorithm"`
	// WrappedKey is the DEK encrypted by the KMS keeper.
	WrappedKey []byte `json:"wrapped_key"`
	// Nonce is the AEAD nonce used for the payload encryption.
	Nonce []byte `json:"nonce"`
}

// Encode serializes the metadata to its storage representation.
func (m *KekMetadata) Encode() (string, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ParseKekMetadata decodes metadata from its storage representation.
func ParseKekMetadata(raw string) (*KekMetadata, error) {
	var meta KekMetadata
	if err := json.Unmarshal([]byte(raw), &meta); err != nil {
		return nil, ErrInvalidKekMetadata
	}
	if meta.Algorithm == "" || len(meta.WrappedKey) == 0 || len(meta.Nonce) == 0 {
		return nil, ErrInvalidKekMetadata
	}
	return &meta, nil
}

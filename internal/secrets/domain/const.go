// Package domain defines the core domain models and types for secret provisioning.
// Secrets are owned by tenants through tenant-secret associations and hold their
// payloads as encrypted data records produced by the cipher gateway.
package domain

// Status represents the lifecycle state shared by all provisioned entities.
type Status string

// Lifecycle states.
const (
	// StatusPending marks an entity accepted but not yet processed.
	StatusPending Status = "PENDING"
	// StatusActive marks a fully provisioned, usable entity.
	StatusActive Status = "ACTIVE"
	// StatusError marks an entity whose processing failed unrecoverably.
	StatusError Status = "ERROR"
)

// Supported mime types for secret payloads.
const (
	MimeTypeTextPlain   = "text/plain"
	MimeTypeOctetStream = "application/octet-stream"
	MimeTypeAES         = "application/aes"
)

// Generation parameters accepted for orders.
const (
	// AlgorithmAES is the only generation algorithm currently supported.
	AlgorithmAES = "aes"
	// CypherTypeCBC is the only cypher type currently supported.
	CypherTypeCBC = "cbc"
)

// SupportedBitLengths are the key sizes accepted for generated secrets.
var SupportedBitLengths = []int{128, 192, 256}

// RoleAdmin is the role granted to the tenant that creates a secret.
const RoleAdmin = "admin"

// contentTypesPlain and contentTypesAES map stored mime types to the content
// types that can be requested for the secret on read.
var (
	contentTypesPlain = map[string]string{"default": MimeTypeTextPlain}
	contentTypesAES   = map[string]string{"default": MimeTypeAES}

	contentTypeMappings = map[string]map[string]string{
		MimeTypeTextPlain: contentTypesPlain,
		MimeTypeAES:       contentTypesAES,
	}
)

// IsSupportedMimeType reports whether the mime type is accepted for supplied
// secret payloads.
func IsSupportedMimeType(mimeType string) bool {
	return mimeType == MimeTypeTextPlain || mimeType == MimeTypeOctetStream
}

// IsSupportedBitLength reports whether the bit length is accepted for generation.
func IsSupportedBitLength(bits int) bool {
	for _, b := range SupportedBitLengths {
		if b == bits {
			return true
		}
	}
	return false
}

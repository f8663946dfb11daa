package domain

import (
	"time"

	"github.com/google/uuid"
)

// Tenant is the external-authentication subject on whose behalf secrets are
// owned. Tenants are created lazily the first time a secret is provisioned
// for an unseen keystone subject and are never deleted by this service.
type Tenant struct {
	// ID is the unique identifier for the tenant.
	ID uuid.UUID
	// KeystoneID is the external identity subject id.
	KeystoneID string
	// Status is the tenant lifecycle state.
	Status Status
	// CreatedAt is the UTC timestamp when the tenant was created.
	CreatedAt time.Time
}

// Secret is a named, optionally expiring piece of protected material. The
// payload itself lives in one or more EncryptedDatum records.
type Secret struct {
	// ID is the unique identifier for the secret.
	ID uuid.UUID
	// Name is the optional human-readable name (nil when omitted or blank).
	Name *string
	// Expiration is the optional expiry timestamp. The provisioning flow
	// defaults a missing expiration to the creation time, which effectively
	// means "already expired"; callers that need a future expiry must supply
	// one explicitly.
	Expiration *time.Time
	// Status is the secret lifecycle state.
	Status Status
	// CreatedAt is the UTC timestamp when the secret was created.
	CreatedAt time.Time
	// EncryptedData holds the ciphertext representations loaded for reads.
	EncryptedData []*EncryptedDatum
}

// TenantSecret associates a Tenant with a Secret under a role. Modeling the
// association as an entity (rather than a bare foreign key) leaves room for a
// secret being shared with more than one tenant.
type TenantSecret struct {
	// ID is the unique identifier for the association.
	ID uuid.UUID
	// TenantID references the owning tenant.
	TenantID uuid.UUID
	// SecretID references the owned secret.
	SecretID uuid.UUID
	// Role is the access role granted by the association (e.g., "admin").
	Role string
	// Status is the association lifecycle state.
	Status Status
	// CreatedAt is the UTC timestamp when the association was created.
	CreatedAt time.Time
}

// EncryptedDatum is one ciphertext representation of a secret's payload.
// CypherText is never stored in plaintext form; the provisioning use case
// must pass the payload through the cipher gateway before persisting.
type EncryptedDatum struct {
	// ID is the unique identifier for the datum.
	ID uuid.UUID
	// SecretID references the secret this datum belongs to.
	SecretID uuid.UUID
	// MimeType describes the payload format (e.g., "text/plain").
	MimeType string
	// CypherText is the encrypted payload.
	CypherText []byte
	// KekMetadata is the opaque key-encryption-key bookkeeping needed to
	// decrypt this datum.
	KekMetadata string
	// Status is the datum lifecycle state.
	Status Status
	// CreatedAt is the UTC timestamp when the datum was created.
	CreatedAt time.Time
}

// Order is a request to generate (rather than directly supply) a secret's
// material. It carries the generation parameters validated at submission and
// transitions PENDING -> ACTIVE | ERROR as the provisioning path executes.
type Order struct {
	// ID is the unique identifier for the order.
	ID uuid.UUID
	// TenantID references the tenant that placed the order.
	TenantID uuid.UUID
	// SecretID references the provisioned secret once generation completes.
	SecretID *uuid.UUID
	// SecretName is the requested secret name (nil when omitted).
	SecretName *string
	// SecretAlgorithm is the requested generation algorithm (e.g., "aes").
	SecretAlgorithm string
	// SecretCypherType is the requested cypher type (e.g., "cbc").
	SecretCypherType string
	// SecretBitLength is the requested key size in bits.
	SecretBitLength int
	// SecretMimeType is the mime type for the generated payload.
	SecretMimeType string
	// SecretExpiration is the requested expiry for the generated secret.
	SecretExpiration *time.Time
	// Status is the order lifecycle state.
	Status Status
	// ErrorReason describes why the order failed (empty unless Status is ERROR).
	ErrorReason string
	// CreatedAt is the UTC timestamp when the order was created.
	CreatedAt time.Time
}

// Verification is a request to verify an external resource on behalf of a
// tenant. It shares the order task-dispatch contract.
type Verification struct {
	// ID is the unique identifier for the verification.
	ID uuid.UUID
	// TenantID references the tenant that requested the verification.
	TenantID uuid.UUID
	// ResourceType describes what is being verified.
	ResourceType string
	// ResourceRef identifies the resource being verified.
	ResourceRef string
	// Status is the verification lifecycle state.
	Status Status
	// CreatedAt is the UTC timestamp when the verification was created.
	CreatedAt time.Time
}

// ContentTypes returns the content types implied by the secret's encrypted
// data, keyed by selector ("default"). Unmapped mime types contribute no
// entry; when a secret holds multiple data records the last mapped one wins.
func (s *Secret) ContentTypes() map[string]string {
	var contentTypes map[string]string
	for _, datum := range s.EncryptedData {
		if mapping, ok := contentTypeMappings[datum.MimeType]; ok {
			contentTypes = mapping
		}
	}
	return contentTypes
}

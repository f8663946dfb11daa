// Package usecase defines the interfaces and implementations for secret
// provisioning business logic: supplied-secret creation, order fulfillment,
// and verification tracking. Use cases orchestrate repositories, the cipher
// service, and the task dispatcher.
package usecase

import (
	"context"

	"github.com/google/uuid"

	secretsDomain "github.com/jfwood/barbican/internal/secrets/domain"
	"github.com/jfwood/barbican/internal/secrets/validator"
)

// TenantRepository defines the interface for Tenant persistence operations.
type TenantRepository interface {
	Create(ctx context.Context, tenant *secretsDomain.Tenant) error
	GetByKeystoneID(ctx context.Context, keystoneID string) (*secretsDomain.Tenant, error)
}

// SecretRepository defines the interface for Secret persistence operations.
type SecretRepository interface {
	Create(ctx context.Context, secret *secretsDomain.Secret) error
	GetByID(ctx context.Context, tenantID, secretID uuid.UUID) (*secretsDomain.Secret, error)
	List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*secretsDomain.Secret, error)
	Count(ctx context.Context, tenantID uuid.UUID) (int, error)
	UpdateStatus(ctx context.Context, secretID uuid.UUID, status secretsDomain.Status) error
	Delete(ctx context.Context, secretID uuid.UUID) error
}

// TenantSecretRepository defines the interface for TenantSecret persistence
// operations.
type TenantSecretRepository interface {
	Create(ctx context.Context, tenantSecret *secretsDomain.TenantSecret) error
}

// EncryptedDatumRepository defines the interface for EncryptedDatum
// persistence operations.
type EncryptedDatumRepository interface {
	Create(ctx context.Context, datum *secretsDomain.EncryptedDatum) error
	ListBySecret(ctx context.Context, secretID uuid.UUID) ([]*secretsDomain.EncryptedDatum, error)
}

// OrderRepository defines the interface for Order persistence operations.
type OrderRepository interface {
	Create(ctx context.Context, order *secretsDomain.Order) error
	GetByID(ctx context.Context, tenantID, orderID uuid.UUID) (*secretsDomain.Order, error)
	List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*secretsDomain.Order, error)
	Count(ctx context.Context, tenantID uuid.UUID) (int, error)
	Update(ctx context.Context, order *secretsDomain.Order) error
	Delete(ctx context.Context, orderID uuid.UUID) error
}

// VerificationRepository defines the interface for Verification persistence
// operations.
type VerificationRepository interface {
	Create(ctx context.Context, verification *secretsDomain.Verification) error
	GetByID(ctx context.Context, tenantID, verificationID uuid.UUID) (*secretsDomain.Verification, error)
	UpdateStatus(ctx context.Context, verificationID uuid.UUID, status secretsDomain.Status) error
}

// TaskDispatcher sends asynchronous tasks to the worker side. The queue
// client implements it; when the queue is disabled a synchronous dispatcher
// executes tasks in-process instead.
type TaskDispatcher interface {
	DispatchProcessOrder(ctx context.Context, orderID uuid.UUID, keystoneID string) error
	DispatchProcessVerification(ctx context.Context, verificationID uuid.UUID, keystoneID string) error
}

// SecretUseCase defines the interface for supplied-secret business logic.
type SecretUseCase interface {
	// Create provisions a secret from a validated payload. When the payload
	// carries plaintext, the secret is stored with a single encrypted datum.
	Create(ctx context.Context, keystoneID string, payload *validator.SecretPayload) (*secretsDomain.Secret, error)

	// Get retrieves a secret's metadata with its encrypted data loaded.
	Get(ctx context.Context, keystoneID string, secretID uuid.UUID) (*secretsDomain.Secret, error)

	// GetPayload retrieves and decrypts the datum matching the requested
	// mime type.
	GetPayload(ctx context.Context, keystoneID string, secretID uuid.UUID, mimeType string) ([]byte, error)

	// PutPayload stores an encrypted datum on a secret created without one.
	PutPayload(ctx context.Context, keystoneID string, secretID uuid.UUID, mimeType string, payload []byte) error

	// List retrieves a page of the tenant's secrets with encrypted data
	// loaded, plus the total count.
	List(ctx context.Context, keystoneID string, limit, offset int) ([]*secretsDomain.Secret, int, error)

	// Delete removes a secret.
	Delete(ctx context.Context, keystoneID string, secretID uuid.UUID) error
}

// OrderUseCase defines the interface for order business logic, covering both
// the API side (create, read, delete) and the worker side (process).
type OrderUseCase interface {
	// Create registers a pending order and dispatches its fulfillment task.
	Create(ctx context.Context, keystoneID string, payload *validator.OrderPayload) (*secretsDomain.Order, error)

	// Get retrieves an order.
	Get(ctx context.Context, keystoneID string, orderID uuid.UUID) (*secretsDomain.Order, error)

	// List retrieves a page of the tenant's orders plus the total count.
	List(ctx context.Context, keystoneID string, limit, offset int) ([]*secretsDomain.Order, int, error)

	// Delete removes an order.
	Delete(ctx context.Context, keystoneID string, orderID uuid.UUID) error

	// Process fulfills a pending order by generating and storing the
	// requested secret. On failure the order is marked ERROR with a reason.
	Process(ctx context.Context, orderID uuid.UUID, keystoneID string) error
}

// VerificationUseCase defines the interface for resource verification
// business logic.
type VerificationUseCase interface {
	// Create registers a pending verification and dispatches its task.
	Create(ctx context.Context, keystoneID string, verification *secretsDomain.Verification) (*secretsDomain.Verification, error)

	// Get retrieves a verification.
	Get(ctx context.Context, keystoneID string, verificationID uuid.UUID) (*secretsDomain.Verification, error)

	// Process performs the verification check and updates its status.
	Process(ctx context.Context, verificationID uuid.UUID, keystoneID string) error
}

package domain

import (
	"fmt"

	"github.com/jfwood/barbican/internal/errors"
)

// Secret provisioning error definitions.
var (
	// ErrSecretNotFound indicates the secret was not found for the tenant.
	ErrSecretNotFound = errors.Wrap(errors.ErrNotFound, "secret not found")

	// ErrOrderNotFound indicates the order was not found for the tenant.
	ErrOrderNotFound = errors.Wrap(errors.ErrNotFound, "order not found")

	// ErrSecretAlreadyHasData indicates a payload was supplied for a secret
	// that already holds an encrypted datum for the same representation.
	ErrSecretAlreadyHasData = errors.Wrap(errors.ErrConflict, "secret already has data")

	// ErrSecretNoData indicates a payload read against a secret that holds
	// no encrypted data yet.
	ErrSecretNoData = errors.Wrap(errors.ErrNotFound, "secret has no data")

	// ErrContentTypeNotAcceptable indicates no stored representation of the
	// secret satisfies the requested content type.
	ErrContentTypeNotAcceptable = errors.Wrap(errors.ErrNotAcceptable, "no representation for requested content type")
)

// InvalidObjectError reports a payload that fails structural or semantic
// validation. Schema carries the fully-qualified schema name (parent name
// plus own name) for diagnostics.
type InvalidObjectError struct {
	Schema string
	Reason string
}

// Error implements the error interface.
func (e *InvalidObjectError) Error() string {
	return fmt.Sprintf("provided object does not match schema '%s': %s", e.Schema, e.Reason)
}

// Unwrap makes InvalidObjectError match errors.ErrInvalidInput.
func (e *InvalidObjectError) Unwrap() error {
	return errors.ErrInvalidInput
}

// NewInvalidObject creates an InvalidObjectError for the given schema.
func NewInvalidObject(schema, reason string) error {
	return &InvalidObjectError{Schema: schema, Reason: reason}
}

// NotSupportedError reports a payload that is well formed but requests an
// unimplemented algorithm, cypher type, or bit length.
type NotSupportedError struct {
	Schema string
	Reason string
}

// Error implements the error interface.
func (e *NotSupportedError) Error() string {
	return fmt.Sprintf("no support for value on schema '%s': %s", e.Schema, e.Reason)
}

// Unwrap makes NotSupportedError match errors.ErrNotSupported.
func (e *NotSupportedError) Unwrap() error {
	return errors.ErrNotSupported
}

// NewNotSupported creates a NotSupportedError for the given schema.
func NewNotSupported(schema, reason string) error {
	return &NotSupportedError{Schema: schema, Reason: reason}
}

// LimitExceededError reports a plaintext payload over the configured maximum
// size.
type LimitExceededError struct {
	MaxBytes int
}

// Error implements the error interface.
func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("secret payload exceeds maximum allowed size of %d bytes", e.MaxBytes)
}

// Unwrap makes LimitExceededError match errors.ErrPayloadTooLarge.
func (e *LimitExceededError) Unwrap() error {
	return errors.ErrPayloadTooLarge
}

// NewLimitExceeded creates a LimitExceededError with the configured limit.
func NewLimitExceeded(maxBytes int) error {
	return &LimitExceededError{MaxBytes: maxBytes}
}

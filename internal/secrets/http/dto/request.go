// Package dto provides data transfer objects for HTTP request and response
// handling.
package dto

import (
	validation "github.com/jellydator/validation"

	secretsDomain "github.com/jfwood/barbican/internal/secrets/domain"
	customValidation "github.com/jfwood/barbican/internal/validation"
)

// Secret and order bodies are validated by the schema validators against the
// raw request bytes; only the verification request is a plain DTO.

// CreateVerificationRequest contains the parameters for requesting a resource
// verification.
type CreateVerificationRequest struct {
	ResourceType string `json:"resource_type"`
	ResourceRef  string `json:"resource_ref"`
}

// Validate checks if the create verification request is valid.
func (r *CreateVerificationRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.ResourceType,
			validation.Required,
			customValidation.NotBlank,
		),
		validation.Field(&r.ResourceRef,
			validation.Required,
			customValidation.AbsoluteURL,
		),
	)
}

// ToDomain converts the request to a domain verification.
func (r *CreateVerificationRequest) ToDomain() *secretsDomain.Verification {
	return &secretsDomain.Verification{
		ResourceType: r.ResourceType,
		ResourceRef:  r.ResourceRef,
	}
}

package dto

import (
	"time"

	"github.com/jfwood/barbican/internal/httputil"
	secretsDomain "github.com/jfwood/barbican/internal/secrets/domain"
)

// RefResponse carries only the href of a newly accepted resource.
type RefResponse struct {
	SecretRef       string `json:"secret_ref,omitempty"`
	OrderRef        string `json:"order_ref,omitempty"`
	VerificationRef string `json:"verification_ref,omitempty"`
}

// SecretResponse represents a secret's metadata in API responses. The payload
// itself is never included; clients fetch it with an Accept header naming a
// stored content type.
type SecretResponse struct {
	SecretRef    string            `json:"secret_ref"`
	Name         *string           `json:"name"`
	Status       string            `json:"status"`
	Expiration   *time.Time        `json:"expiration,omitempty"`
	ContentTypes map[string]string `json:"content_types,omitempty"`
	Created      time.Time         `json:"created"`
}

// MapSecretToResponse converts a domain secret to an API response.
func MapSecretToResponse(baseURL, keystoneID string, secret *secretsDomain.Secret) SecretResponse {
	return SecretResponse{
		SecretRef:    httputil.SecretRef(baseURL, keystoneID, secret.ID),
		Name:         secret.Name,
		Status:       string(secret.Status),
		Expiration:   secret.Expiration,
		ContentTypes: secret.ContentTypes(),
		Created:      secret.CreatedAt,
	}
}

// ListSecretsResponse represents a paginated list of secrets in API responses.
type ListSecretsResponse struct {
	Secrets  []SecretResponse `json:"secrets"`
	Total    int              `json:"total"`
	Previous string           `json:"previous,omitempty"`
	Next     string           `json:"next,omitempty"`
}

// MapSecretsToListResponse converts a page of domain secrets to a list
// response with navigation hrefs.
func MapSecretsToListResponse(
	baseURL, keystoneID string,
	secrets []*secretsDomain.Secret,
	offset, limit, total int,
) ListSecretsResponse {
	data := make([]SecretResponse, 0, len(secrets))
	for _, secret := range secrets {
		data = append(data, MapSecretToResponse(baseURL, keystoneID, secret))
	}

	previous, next := httputil.PageRefs(httputil.SecretsRef(baseURL, keystoneID), offset, limit, total)
	return ListSecretsResponse{
		Secrets:  data,
		Total:    total,
		Previous: previous,
		Next:     next,
	}
}

// OrderResponse represents an order in API responses. The nested secret block
// echoes the requested generation parameters; secret_ref appears once the
// order is fulfilled.
type OrderResponse struct {
	OrderRef    string              `json:"order_ref"`
	SecretRef   string              `json:"secret_ref,omitempty"`
	Status      string              `json:"status"`
	ErrorReason string              `json:"error_reason,omitempty"`
	Secret      OrderSecretResponse `json:"secret"`
	Created     time.Time           `json:"created"`
}

// OrderSecretResponse echoes the generation parameters of an order.
type OrderSecretResponse struct {
	Name       *string    `json:"name"`
	Algorithm  string     `json:"algorithm"`
	CypherType string     `json:"cypher_type"`
	BitLength  int        `json:"bit_length"`
	MimeType   string     `json:"mime_type"`
	Expiration *time.Time `json:"expiration,omitempty"`
}

// MapOrderToResponse converts a domain order to an API response.
func MapOrderToResponse(baseURL, keystoneID string, order *secretsDomain.Order) OrderResponse {
	response := OrderResponse{
		OrderRef:    httputil.OrderRef(baseURL, keystoneID, order.ID),
		Status:      string(order.Status),
		ErrorReason: order.ErrorReason,
		Secret: OrderSecretResponse{
			Name:       order.SecretName,
			Algorithm:  order.SecretAlgorithm,
			CypherType: order.SecretCypherType,
			BitLength:  order.SecretBitLength,
			MimeType:   order.SecretMimeType,
			Expiration: order.SecretExpiration,
		},
		Created: order.CreatedAt,
	}
	if order.SecretID != nil {
		response.SecretRef = httputil.SecretRef(baseURL, keystoneID, *order.SecretID)
	}
	return response
}

// ListOrdersResponse represents a paginated list of orders in API responses.
type ListOrdersResponse struct {
	Orders   []OrderResponse `json:"orders"`
	Total    int             `json:"total"`
	Previous string          `json:"previous,omitempty"`
	Next     string          `json:"next,omitempty"`
}

// MapOrdersToListResponse converts a page of domain orders to a list response
// with navigation hrefs.
func MapOrdersToListResponse(
	baseURL, keystoneID string,
	orders []*secretsDomain.Order,
	offset, limit, total int,
) ListOrdersResponse {
	data := make([]OrderResponse, 0, len(orders))
	for _, order := range orders {
		data = append(data, MapOrderToResponse(baseURL, keystoneID, order))
	}

	previous, next := httputil.PageRefs(httputil.OrdersRef(baseURL, keystoneID), offset, limit, total)
	return ListOrdersResponse{
		Orders:   data,
		Total:    total,
		Previous: previous,
		Next:     next,
	}
}

// VerificationResponse represents a verification in API responses.
type VerificationResponse struct {
	VerificationRef string    `json:"verification_ref"`
	ResourceType    string    `json:"resource_type"`
	ResourceRef     string    `json:"resource_ref"`
	Status          string    `json:"status"`
	Created         time.Time `json:"created"`
}

// MapVerificationToResponse converts a domain verification to an API response.
func MapVerificationToResponse(
	baseURL, keystoneID string,
	verification *secretsDomain.Verification,
) VerificationResponse {
	return VerificationResponse{
		VerificationRef: httputil.VerificationRef(baseURL, keystoneID, verification.ID),
		ResourceType:    verification.ResourceType,
		ResourceRef:     verification.ResourceRef,
		Status:          string(verification.Status),
		Created:         verification.CreatedAt,
	}
}

package httputil

import (
	"fmt"

	"github.com/google/uuid"
)

// Resource reference builders. Responses identify resources by fully
// qualified hrefs scoped to the tenant's keystone identifier.

// SecretsRef returns the href of a tenant's secrets collection.
func SecretsRef(baseURL, keystoneID string) string {
	return fmt.Sprintf("%s/v1/%s/secrets", baseURL, keystoneID)
}

// SecretRef returns the href of one secret.
func SecretRef(baseURL, keystoneID string, secretID uuid.UUID) string {
	return fmt.Sprintf("%s/v1/%s/secrets/%s", baseURL, keystoneID, secretID)
}

// OrdersRef returns the href of a tenant's orders collection.
func OrdersRef(baseURL, keystoneID string) string {
	return fmt.Sprintf("%s/v1/%s/orders", baseURL, keystoneID)
}

// OrderRef returns the href of one order.
func OrderRef(baseURL, keystoneID string, orderID uuid.UUID) string {
	return fmt.Sprintf("%s/v1/%s/orders/%s", baseURL, keystoneID, orderID)
}

// VerificationsRef returns the href of a tenant's verifications collection.
func VerificationsRef(baseURL, keystoneID string) string {
	return fmt.Sprintf("%s/v1/%s/verifications", baseURL, keystoneID)
}

// VerificationRef returns the href of one verification.
func VerificationRef(baseURL, keystoneID string, verificationID uuid.UUID) string {
	return fmt.Sprintf("%s/v1/%s/verifications/%s", baseURL, keystoneID, verificationID)
}

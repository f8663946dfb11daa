// Package validator validates inbound secret and order request payloads
// before any entity is created. Structural validation runs against JSON
// schemas; semantic validation (expiration, payload size, generation
// parameters) runs on the decoded payload afterwards.
package validator

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"github.com/jfwood/barbican/internal/secrets/domain"
)

// SecretPayload is the normalized result of validating a secret request.
type SecretPayload struct {
	// Name is the trimmed secret name, nil when omitted or blank.
	Name *string
	// Expiration is the parsed expiry timestamp, nil when omitted.
	Expiration *time.Time
	// MimeType is the payload mime type.
	MimeType string
	// PlainText is the trimmed plaintext payload when supplied.
	PlainText string
	// HasPlainText reports whether the request carried a plain_text field.
	HasPlainText bool
	// Algorithm, CypherType and BitLength are generation parameters, only
	// meaningful for order requests.
	Algorithm  string
	CypherType string
	BitLength  int
}

// OrderPayload is the normalized result of validating an order request.
type OrderPayload struct {
	Secret SecretPayload
}

const secretSchemaJSON = `{
	"type": "object",
	"properties": {
		"name": {"type": "string"},
		"algorithm": {"type": "string"},
		"cypher_type": {"type": "string"},
		"bit_length": {"type": "integer", "minimum": 0},
		"expiration": {"type": "string"},
		"plain_text": {"type": "string"},
		"mime_type": {
			"type": "string",
			"enum": ["text/plain", "application/octet-stream"]
		}
	},
	"required": ["mime_type"]
}`

const orderSchemaJSON = `{
	"type": "object",
	"properties": {
		"secret": {"type": "object"}
	}
}`

// secretFields mirrors the accepted secret request shape for decoding after
// structural validation has passed.
type secretFields struct {
	Name       *string `json:"name"`
	Algorithm  string  `json:"algorithm"`
	CypherType string  `json:"cypher_type"`
	BitLength  int     `json:"bit_length"`
	Expiration *string `json:"expiration"`
	PlainText  *string `json:"plain_text"`
	MimeType   string  `json:"mime_type"`
}

// SecretValidator validates new-secret request payloads.
type SecretValidator struct {
	name           string
	schema         *gojsonschema.Schema
	maxSecretBytes int
	now            func() time.Time
}

// NewSecretValidator creates a secret validator enforcing the given maximum
// plaintext size in bytes.
func NewSecretValidator(maxSecretBytes int) (*SecretValidator, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(secretSchemaJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to compile secret schema: %w", err)
	}
	return &SecretValidator{
		name:           "Secret",
		schema:         schema,
		maxSecretBytes: maxSecretBytes,
		now:            time.Now,
	}, nil
}

// fullName returns the schema name qualified with the parent schema, matching
// the diagnostic format carried by validation errors.
func (v *SecretValidator) fullName(parentSchema string) string {
	if parentSchema == "" {
		return v.name
	}
	return fmt.Sprintf("%s' within '%s", v.name, parentSchema)
}

// Validate checks the raw JSON payload structurally and semantically and
// returns the normalized secret payload.
func (v *SecretValidator) Validate(data []byte, parentSchema string) (*SecretPayload, error) {
	schemaName := v.fullName(parentSchema)

	result, err := v.schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, domain.NewInvalidObject(schemaName, err.Error())
	}
	if !result.Valid() {
		reasons := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			reasons = append(reasons, desc.String())
		}
		return nil, domain.NewInvalidObject(schemaName, strings.Join(reasons, "; "))
	}

	var fields secretFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, domain.NewInvalidObject(schemaName, err.Error())
	}

	normalized := &SecretPayload{
		MimeType:   fields.MimeType,
		Algorithm:  fields.Algorithm,
		CypherType: fields.CypherType,
		BitLength:  fields.BitLength,
	}

	// Normalize 'name': trim and nil out an empty value.
	if fields.Name != nil {
		if name := strings.TrimSpace(*fields.Name); name != "" {
			normalized.Name = &name
		}
	}

	// Parse 'expiration' if provided and verify it is not already past.
	expiration, err := v.extractExpiration(fields.Expiration, schemaName)
	if err != nil {
		return nil, err
	}
	if expiration != nil {
		if !expiration.After(v.now().UTC()) {
			return nil, domain.NewInvalidObject(schemaName, "'expiration' is before current time")
		}
		normalized.Expiration = expiration
	}

	// Validate 'plain_text' if provided: size limit applies to the raw
	// value, emptiness to the trimmed one.
	if fields.PlainText != nil {
		plainText := *fields.PlainText
		if len(plainText) > v.maxSecretBytes {
			return nil, domain.NewLimitExceeded(v.maxSecretBytes)
		}
		plainText = strings.TrimSpace(plainText)
		if plainText == "" {
			return nil, domain.NewInvalidObject(
				schemaName, "if 'plain_text' specified, must be non empty")
		}
		normalized.PlainText = plainText
		normalized.HasPlainText = true
	}

	return normalized, nil
}

// extractExpiration parses the ISO-format expiration field when present.
func (v *SecretValidator) extractExpiration(raw *string, schemaName string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, strings.TrimSpace(*raw))
	if err != nil {
		return nil, domain.NewInvalidObject(schemaName, "invalid date for 'expiration'")
	}
	utc := parsed.UTC()
	return &utc, nil
}

// OrderValidator validates new-order request payloads. Orders generate
// secret material, so the nested secret must not carry supplied plaintext
// and the generation parameters must name a supported combination.
type OrderValidator struct {
	name            string
	schema          *gojsonschema.Schema
	secretValidator *SecretValidator
}

// orderFields mirrors the accepted order request shape.
type orderFields struct {
	Secret json.RawMessage `json:"secret"`
}

// NewOrderValidator creates an order validator. The nested secret payload is
// validated with the given secret validator using the order's name as parent
// schema context.
func NewOrderValidator(secretValidator *SecretValidator) (*OrderValidator, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(orderSchemaJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to compile order schema: %w", err)
	}
	return &OrderValidator{
		name:            "Order",
		schema:          schema,
		secretValidator: secretValidator,
	}, nil
}

// Validate checks the raw JSON payload and returns the normalized order
// payload.
func (v *OrderValidator) Validate(data []byte, parentSchema string) (*OrderPayload, error) {
	schemaName := v.name
	if parentSchema != "" {
		schemaName = fmt.Sprintf("%s' within '%s", v.name, parentSchema)
	}

	result, err := v.schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, domain.NewInvalidObject(schemaName, err.Error())
	}
	if !result.Valid() {
		reasons := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			reasons = append(reasons, desc.String())
		}
		return nil, domain.NewInvalidObject(schemaName, strings.Join(reasons, "; "))
	}

	var fields orderFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, domain.NewInvalidObject(schemaName, err.Error())
	}
	if len(fields.Secret) == 0 {
		return nil, domain.NewInvalidObject(schemaName, "'secret' attributes are required")
	}

	secret, err := v.secretValidator.Validate(fields.Secret, v.name)
	if err != nil {
		return nil, err
	}
	if secret.HasPlainText {
		return nil, domain.NewInvalidObject(
			schemaName, "'plain_text' not allowed for secret generation")
	}

	// Generation parameter gates. Values outside the supported set are well
	// formed but unimplemented, so they fail with NotSupported.
	if secret.Algorithm != domain.AlgorithmAES {
		return nil, domain.NewNotSupported(
			schemaName, "the only 'algorithm' selection supported now is 'aes'")
	}
	if secret.CypherType != domain.CypherTypeCBC {
		return nil, domain.NewNotSupported(
			schemaName, "the only 'cypher_type' selection supported now is 'cbc'")
	}
	if !domain.IsSupportedBitLength(secret.BitLength) {
		return nil, domain.NewNotSupported(
			schemaName, "the only 'bit_length' selections supported now are one of 128, 192, or 256")
	}

	return &OrderPayload{Secret: *secret}, nil
}

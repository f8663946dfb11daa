// Package http provides HTTP handlers for the tenant-scoped secret
// management API. Every route is nested under the tenant's keystone
// identifier; resources are identified by fully qualified hrefs.
package http

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jfwood/barbican/internal/httputil"
	"github.com/jfwood/barbican/internal/secrets/http/dto"
	secretsUseCase "github.com/jfwood/barbican/internal/secrets/usecase"
	"github.com/jfwood/barbican/internal/secrets/validator"
)

// SecretHandler handles HTTP requests for secret management operations.
type SecretHandler struct {
	secretUseCase   secretsUseCase.SecretUseCase
	secretValidator *validator.SecretValidator
	baseURL         string
	logger          *slog.Logger
}

// NewSecretHandler creates a new secret handler with required dependencies.
func NewSecretHandler(
	secretUseCase secretsUseCase.SecretUseCase,
	secretValidator *validator.SecretValidator,
	baseURL string,
	logger *slog.Logger,
) *SecretHandler {
	return &SecretHandler{
		secretUseCase:   secretUseCase,
		secretValidator: secretValidator,
		baseURL:         baseURL,
		logger:          logger,
	}
}

// keystoneID extracts the tenant's external identifier from the route.
func keystoneID(c *gin.Context) string {
	return c.Param("keystone_id")
}

// parseID parses a uuid path parameter.
func parseID(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s parameter: must be a UUID", name)
	}
	return id, nil
}

// CreateHandler creates a new secret, optionally with a supplied payload.
// POST /v1/:keystone_id/secrets
// Returns 201 Created with the secret href.
func (h *SecretHandler) CreateHandler(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	// The schema validator consumes the raw bytes; malformed JSON and
	// semantic failures both surface as validation errors.
	payload, err := h.secretValidator.Validate(body, "")
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	secret, err := h.secretUseCase.Create(c.Request.Context(), keystoneID(c), payload)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.RefResponse{
		SecretRef: httputil.SecretRef(h.baseURL, keystoneID(c), secret.ID),
	})
}

// ListHandler retrieves a paginated list of the tenant's secrets.
// GET /v1/:keystone_id/secrets?offset=N&limit=N
func (h *SecretHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	secrets, total, err := h.secretUseCase.List(c.Request.Context(), keystoneID(c), limit, offset)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	response := dto.MapSecretsToListResponse(h.baseURL, keystoneID(c), secrets, offset, limit, total)
	c.JSON(http.StatusOK, response)
}

// GetHandler retrieves a secret. The Accept header selects the
// representation: application/json returns the metadata with its content
// types; a stored mime type returns the decrypted payload.
// GET /v1/:keystone_id/secrets/:secret_id
func (h *SecretHandler) GetHandler(c *gin.Context) {
	secretID, err := parseID(c, "secret_id")
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	accept := c.GetHeader("Accept")
	if wantsMetadata(accept) {
		secret, err := h.secretUseCase.Get(c.Request.Context(), keystoneID(c), secretID)
		if err != nil {
			httputil.HandleErrorGin(c, err, h.logger)
			return
		}
		c.JSON(http.StatusOK, dto.MapSecretToResponse(h.baseURL, keystoneID(c), secret))
		return
	}

	payload, err := h.secretUseCase.GetPayload(c.Request.Context(), keystoneID(c), secretID, accept)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusOK, accept, payload)
}

// wantsMetadata reports whether the Accept header asks for the JSON metadata
// representation rather than a stored payload.
func wantsMetadata(accept string) bool {
	if accept == "" || accept == "*/*" {
		return true
	}
	return strings.Contains(accept, "application/json")
}

// PutPayloadHandler stores the payload of a secret created without one. The
// Content-Type header names the stored representation.
// PUT /v1/:keystone_id/secrets/:secret_id
// Returns 409 Conflict when the secret already has a payload.
func (h *SecretHandler) PutPayloadHandler(c *gin.Context) {
	secretID, err := parseID(c, "secret_id")
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	mimeType := c.ContentType()
	if err := h.secretUseCase.PutPayload(c.Request.Context(), keystoneID(c), secretID, mimeType, body); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteHandler removes a secret and its encrypted data.
// DELETE /v1/:keystone_id/secrets/:secret_id
func (h *SecretHandler) DeleteHandler(c *gin.Context) {
	secretID, err := parseID(c, "secret_id")
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := h.secretUseCase.Delete(c.Request.Context(), keystoneID(c), secretID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

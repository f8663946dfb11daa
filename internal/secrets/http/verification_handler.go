package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jfwood/barbican/internal/httputil"
	"github.com/jfwood/barbican/internal/secrets/http/dto"
	secretsUseCase "github.com/jfwood/barbican/internal/secrets/usecase"
	customValidation "github.com/jfwood/barbican/internal/validation"
)

// VerificationHandler handles HTTP requests for resource verifications.
type VerificationHandler struct {
	verificationUseCase secretsUseCase.VerificationUseCase
	baseURL             string
	logger              *slog.Logger
}

// NewVerificationHandler creates a new verification handler.
func NewVerificationHandler(
	verificationUseCase secretsUseCase.VerificationUseCase,
	baseURL string,
	logger *slog.Logger,
) *VerificationHandler {
	return &VerificationHandler{
		verificationUseCase: verificationUseCase,
		baseURL:             baseURL,
		logger:              logger,
	}
}

// CreateHandler accepts a resource verification request.
// POST /v1/:keystone_id/verifications
// Returns 202 Accepted with the verification href.
func (h *VerificationHandler) CreateHandler(c *gin.Context) {
	var req dto.CreateVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	verification, err := h.verificationUseCase.Create(c.Request.Context(), keystoneID(c), req.ToDomain())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusAccepted, dto.RefResponse{
		VerificationRef: httputil.VerificationRef(h.baseURL, keystoneID(c), verification.ID),
	})
}

// GetHandler retrieves a verification.
// GET /v1/:keystone_id/verifications/:verification_id
func (h *VerificationHandler) GetHandler(c *gin.Context) {
	verificationID, err := parseID(c, "verification_id")
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	verification, err := h.verificationUseCase.Get(c.Request.Context(), keystoneID(c), verificationID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapVerificationToResponse(h.baseURL, keystoneID(c), verification))
}

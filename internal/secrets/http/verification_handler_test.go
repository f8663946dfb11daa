package http

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	secretsDomain "github.com/jfwood/barbican/internal/secrets/domain"
	"github.com/jfwood/barbican/internal/secrets/http/dto"
	"github.com/jfwood/barbican/internal/secrets/usecase/mocks"
)

// setupVerificationHandler creates a test handler with mocked dependencies.
func setupVerificationHandler(t *testing.T) (*VerificationHandler, *mocks.MockVerificationUseCase) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	mockUseCase := &mocks.MockVerificationUseCase{}
	handler := NewVerificationHandler(mockUseCase, testBaseURL, testLogger())
	return handler, mockUseCase
}

func TestVerificationHandlerCreateHandler(t *testing.T) {
	t.Run("valid request is accepted with the verification href", func(t *testing.T) {
		handler, mockUseCase := setupVerificationHandler(t)
		verificationID := uuid.Must(uuid.NewV7())

		mockUseCase.On("Create", mock.Anything, testKeystoneID, mock.AnythingOfType("*domain.Verification")).
			Return(&secretsDomain.Verification{
				ID:     verificationID,
				Status: secretsDomain.StatusPending,
			}, nil)

		body := []byte(`{"resource_type": "image", "resource_ref": "https://example.test/images/1"}`)
		c, w := createTestContext(http.MethodPost, "/v1/"+testKeystoneID+"/verifications", body)
		c.Request.Header.Set("Content-Type", "application/json")

		handler.CreateHandler(c)

		assert.Equal(t, http.StatusAccepted, w.Code)

		var response dto.RefResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t,
			testBaseURL+"/v1/"+testKeystoneID+"/verifications/"+verificationID.String(),
			response.VerificationRef,
		)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("missing resource ref is a 400", func(t *testing.T) {
		handler, mockUseCase := setupVerificationHandler(t)

		body := []byte(`{"resource_type": "image"}`)
		c, w := createTestContext(http.MethodPost, "/v1/"+testKeystoneID+"/verifications", body)
		c.Request.Header.Set("Content-Type", "application/json")

		handler.CreateHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockUseCase.AssertNotCalled(t, "Create")
	})

	t.Run("malformed json is a 400", func(t *testing.T) {
		handler, _ := setupVerificationHandler(t)

		c, w := createTestContext(http.MethodPost, "/v1/"+testKeystoneID+"/verifications", []byte(`{`))
		c.Request.Header.Set("Content-Type", "application/json")

		handler.CreateHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestVerificationHandlerGetHandler(t *testing.T) {
	t.Run("returns the verification", func(t *testing.T) {
		handler, mockUseCase := setupVerificationHandler(t)
		verificationID := uuid.Must(uuid.NewV7())
		verification := &secretsDomain.Verification{
			ID:           verificationID,
			ResourceType: "image",
			ResourceRef:  "https://example.test/images/1",
			Status:       secretsDomain.StatusActive,
		}

		mockUseCase.On("Get", mock.Anything, testKeystoneID, verificationID).Return(verification, nil)

		c, w := createTestContext(http.MethodGet, "/v1/"+testKeystoneID+"/verifications/"+verificationID.String(), nil)
		c.Params = append(c.Params, gin.Param{Key: "verification_id", Value: verificationID.String()})

		handler.GetHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.VerificationResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "image", response.ResourceType)
		assert.Equal(t, "ACTIVE", response.Status)
	})

	t.Run("malformed id is a 400", func(t *testing.T) {
		handler, _ := setupVerificationHandler(t)

		c, w := createTestContext(http.MethodGet, "/v1/"+testKeystoneID+"/verifications/nope", nil)
		c.Params = append(c.Params, gin.Param{Key: "verification_id", Value: "nope"})

		handler.GetHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/jfwood/barbican/internal/errors"
	secretsDomain "github.com/jfwood/barbican/internal/secrets/domain"
	"github.com/jfwood/barbican/internal/secrets/http/dto"
	"github.com/jfwood/barbican/internal/secrets/usecase/mocks"
	"github.com/jfwood/barbican/internal/secrets/validator"
)

const (
	testBaseURL    = "http://localhost:8000"
	testKeystoneID = "keystone-1234"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// createTestContext builds a gin test context with an optional raw body.
func createTestContext(method, target string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	c.Request = req
	c.Params = gin.Params{{Key: "keystone_id", Value: testKeystoneID}}

	return c, w
}

// setupSecretHandler creates a test handler with mocked dependencies.
func setupSecretHandler(t *testing.T) (*SecretHandler, *mocks.MockSecretUseCase) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	mockUseCase := &mocks.MockSecretUseCase{}
	secretValidator, err := validator.NewSecretValidator(10000)
	require.NoError(t, err)

	handler := NewSecretHandler(mockUseCase, secretValidator, testBaseURL, testLogger())
	return handler, mockUseCase
}

func TestSecretHandlerCreateHandler(t *testing.T) {
	t.Run("valid request returns the secret href", func(t *testing.T) {
		handler, mockUseCase := setupSecretHandler(t)
		secretID := uuid.Must(uuid.NewV7())

		mockUseCase.On("Create", mock.Anything, testKeystoneID, mock.AnythingOfType("*validator.SecretPayload")).
			Return(&secretsDomain.Secret{ID: secretID, Status: secretsDomain.StatusActive}, nil)

		body := []byte(`{"name": "db password", "mime_type": "text/plain", "payload": "hunter2"}`)
		c, w := createTestContext(http.MethodPost, "/v1/"+testKeystoneID+"/secrets", body)

		handler.CreateHandler(c)

		assert.Equal(t, http.StatusCreated, w.Code)

		var response dto.RefResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, testBaseURL+"/v1/"+testKeystoneID+"/secrets/"+secretID.String(), response.SecretRef)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("missing mime type is a 400", func(t *testing.T) {
		handler, mockUseCase := setupSecretHandler(t)

		body := []byte(`{"name": "db password"}`)
		c, w := createTestContext(http.MethodPost, "/v1/"+testKeystoneID+"/secrets", body)

		handler.CreateHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockUseCase.AssertNotCalled(t, "Create")
	})

	t.Run("unsupported algorithm is a 400", func(t *testing.T) {
		handler, _ := setupSecretHandler(t)

		body := []byte(`{"mime_type": "text/plain", "algorithm": "rsa", "cypher_type": "cbc", "bit_length": 256}`)
		c, w := createTestContext(http.MethodPost, "/v1/"+testKeystoneID+"/secrets", body)

		handler.CreateHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("oversized payload is a 413", func(t *testing.T) {
		gin.SetMode(gin.TestMode)
		mockUseCase := &mocks.MockSecretUseCase{}
		secretValidator, err := validator.NewSecretValidator(4)
		require.NoError(t, err)
		handler := NewSecretHandler(mockUseCase, secretValidator, testBaseURL, testLogger())

		body := []byte(`{"mime_type": "text/plain", "payload": "way too long"}`)
		c, w := createTestContext(http.MethodPost, "/v1/"+testKeystoneID+"/secrets", body)

		handler.CreateHandler(c)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})
}

func TestSecretHandlerListHandler(t *testing.T) {
	t.Run("returns a page with navigation hrefs", func(t *testing.T) {
		handler, mockUseCase := setupSecretHandler(t)
		secrets := []*secretsDomain.Secret{
			{ID: uuid.Must(uuid.NewV7()), Status: secretsDomain.StatusActive},
		}

		mockUseCase.On("List", mock.Anything, testKeystoneID, 10, 10).Return(secrets, 30, nil)

		c, w := createTestContext(http.MethodGet, "/v1/"+testKeystoneID+"/secrets?offset=10&limit=10", nil)

		handler.ListHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.ListSecretsResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Len(t, response.Secrets, 1)
		assert.Equal(t, 30, response.Total)
		assert.NotEmpty(t, response.Previous)
		assert.NotEmpty(t, response.Next)
	})

	t.Run("invalid pagination is a 400", func(t *testing.T) {
		handler, _ := setupSecretHandler(t)

		c, w := createTestContext(http.MethodGet, "/v1/"+testKeystoneID+"/secrets?limit=0", nil)

		handler.ListHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSecretHandlerGetHandler(t *testing.T) {
	t.Run("json accept returns metadata with content types", func(t *testing.T) {
		handler, mockUseCase := setupSecretHandler(t)
		secretID := uuid.Must(uuid.NewV7())
		name := "db password"
		secret := &secretsDomain.Secret{
			ID:        secretID,
			Name:      &name,
			Status:    secretsDomain.StatusActive,
			CreatedAt: time.Now().UTC(),
			EncryptedData: []*secretsDomain.EncryptedDatum{
				{MimeType: secretsDomain.MimeTypeTextPlain},
			},
		}

		mockUseCase.On("Get", mock.Anything, testKeystoneID, secretID).Return(secret, nil)

		c, w := createTestContext(http.MethodGet, "/v1/"+testKeystoneID+"/secrets/"+secretID.String(), nil)
		c.Params = append(c.Params, gin.Param{Key: "secret_id", Value: secretID.String()})
		c.Request.Header.Set("Accept", "application/json")

		handler.GetHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.SecretResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, &name, response.Name)
		assert.Equal(t, map[string]string{"default": "text/plain"}, response.ContentTypes)
	})

	t.Run("payload accept returns the decrypted payload", func(t *testing.T) {
		handler, mockUseCase := setupSecretHandler(t)
		secretID := uuid.Must(uuid.NewV7())

		mockUseCase.On("GetPayload", mock.Anything, testKeystoneID, secretID, "text/plain").
			Return([]byte("hunter2"), nil)

		c, w := createTestContext(http.MethodGet, "/v1/"+testKeystoneID+"/secrets/"+secretID.String(), nil)
		c.Params = append(c.Params, gin.Param{Key: "secret_id", Value: secretID.String()})
		c.Request.Header.Set("Accept", "text/plain")

		handler.GetHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "hunter2", w.Body.String())
	})

	t.Run("unstored content type is a 406", func(t *testing.T) {
		handler, mockUseCase := setupSecretHandler(t)
		secretID := uuid.Must(uuid.NewV7())

		mockUseCase.On("GetPayload", mock.Anything, testKeystoneID, secretID, "application/octet-stream").
			Return(nil, secretsDomain.ErrContentTypeNotAcceptable)

		c, w := createTestContext(http.MethodGet, "/v1/"+testKeystoneID+"/secrets/"+secretID.String(), nil)
		c.Params = append(c.Params, gin.Param{Key: "secret_id", Value: secretID.String()})
		c.Request.Header.Set("Accept", "application/octet-stream")

		handler.GetHandler(c)

		assert.Equal(t, http.StatusNotAcceptable, w.Code)
	})

	t.Run("unknown secret is a 404", func(t *testing.T) {
		handler, mockUseCase := setupSecretHandler(t)
		secretID := uuid.Must(uuid.NewV7())

		mockUseCase.On("Get", mock.Anything, testKeystoneID, secretID).
			Return(nil, secretsDomain.ErrSecretNotFound)

		c, w := createTestContext(http.MethodGet, "/v1/"+testKeystoneID+"/secrets/"+secretID.String(), nil)
		c.Params = append(c.Params, gin.Param{Key: "secret_id", Value: secretID.String()})

		handler.GetHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("malformed id is a 400", func(t *testing.T) {
		handler, _ := setupSecretHandler(t)

		c, w := createTestContext(http.MethodGet, "/v1/"+testKeystoneID+"/secrets/not-a-uuid", nil)
		c.Params = append(c.Params, gin.Param{Key: "secret_id", Value: "not-a-uuid"})

		handler.GetHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSecretHandlerPutPayloadHandler(t *testing.T) {
	t.Run("stores the payload", func(t *testing.T) {
		handler, mockUseCase := setupSecretHandler(t)
		secretID := uuid.Must(uuid.NewV7())

		mockUseCase.On("PutPayload", mock.Anything, testKeystoneID, secretID, "text/plain", []byte("hunter2")).
			Return(nil)

		c, w := createTestContext(http.MethodPut, "/v1/"+testKeystoneID+"/secrets/"+secretID.String(), []byte("hunter2"))
		c.Params = append(c.Params, gin.Param{Key: "secret_id", Value: secretID.String()})
		c.Request.Header.Set("Content-Type", "text/plain")

		handler.PutPayloadHandler(c)

		assert.Equal(t, http.StatusNoContent, w.Code)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("secret with data is a 409", func(t *testing.T) {
		handler, mockUseCase := setupSecretHandler(t)
		secretID := uuid.Must(uuid.NewV7())

		mockUseCase.On("PutPayload", mock.Anything, testKeystoneID, secretID, "text/plain", mock.Anything).
			Return(secretsDomain.ErrSecretAlreadyHasData)

		c, w := createTestContext(http.MethodPut, "/v1/"+testKeystoneID+"/secrets/"+secretID.String(), []byte("hunter2"))
		c.Params = append(c.Params, gin.Param{Key: "secret_id", Value: secretID.String()})
		c.Request.Header.Set("Content-Type", "text/plain")

		handler.PutPayloadHandler(c)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("oversized payload is a 413", func(t *testing.T) {
		handler, mockUseCase := setupSecretHandler(t)
		secretID := uuid.Must(uuid.NewV7())

		mockUseCase.On("PutPayload", mock.Anything, testKeystoneID, secretID, "text/plain", mock.Anything).
			Return(apperrors.ErrPayloadTooLarge)

		c, w := createTestContext(http.MethodPut, "/v1/"+testKeystoneID+"/secrets/"+secretID.String(), []byte("hunter2"))
		c.Params = append(c.Params, gin.Param{Key: "secret_id", Value: secretID.String()})
		c.Request.Header.Set("Content-Type", "text/plain")

		handler.PutPayloadHandler(c)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})
}

func TestSecretHandlerDeleteHandler(t *testing.T) {
	t.Run("deletes the secret", func(t *testing.T) {
		handler, mockUseCase := setupSecretHandler(t)
		secretID := uuid.Must(uuid.NewV7())

		mockUseCase.On("Delete", mock.Anything, testKeystoneID, secretID).Return(nil)

		c, w := createTestContext(http.MethodDelete, "/v1/"+testKeystoneID+"/secrets/"+secretID.String(), nil)
		c.Params = append(c.Params, gin.Param{Key: "secret_id", Value: secretID.String()})

		handler.DeleteHandler(c)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("unknown secret is a 404", func(t *testing.T) {
		handler, mockUseCase := setupSecretHandler(t)
		secretID := uuid.Must(uuid.NewV7())

		mockUseCase.On("Delete", mock.Anything, testKeystoneID, secretID).
			Return(secretsDomain.ErrSecretNotFound)

		c, w := createTestContext(http.MethodDelete, "/v1/"+testKeystoneID+"/secrets/"+secretID.String(), nil)
		c.Params = append(c.Params, gin.Param{Key: "secret_id", Value: secretID.String()})

		handler.DeleteHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

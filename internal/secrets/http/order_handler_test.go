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
	"github.com/jfwood/barbican/internal/secrets/validator"
)

// setupOrderHandler creates a test handler with mocked dependencies.
func setupOrderHandler(t *testing.T) (*OrderHandler, *mocks.MockOrderUseCase) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	mockUseCase := &mocks.MockOrderUseCase{}
	secretValidator, err := validator.NewSecretValidator(10000)
	require.NoError(t, err)
	orderValidator, err := validator.NewOrderValidator(secretValidator)
	require.NoError(t, err)

	handler := NewOrderHandler(mockUseCase, orderValidator, testBaseURL, testLogger())
	return handler, mockUseCase
}

const validOrderBody = `{
	"secret": {
		"name": "generated key",
		"mime_type": "application/octet-stream",
		"algorithm": "aes",
		"cypher_type": "cbc",
		"bit_length": 256
	}
}`

func TestOrderHandlerCreateHandler(t *testing.T) {
	t.Run("valid request is accepted with the order href", func(t *testing.T) {
		handler, mockUseCase := setupOrderHandler(t)
		orderID := uuid.Must(uuid.NewV7())

		mockUseCase.On("Create", mock.Anything, testKeystoneID, mock.AnythingOfType("*validator.OrderPayload")).
			Return(&secretsDomain.Order{ID: orderID, Status: secretsDomain.StatusPending}, nil)

		c, w := createTestContext(http.MethodPost, "/v1/"+testKeystoneID+"/orders", []byte(validOrderBody))

		handler.CreateHandler(c)

		assert.Equal(t, http.StatusAccepted, w.Code)

		var response dto.RefResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, testBaseURL+"/v1/"+testKeystoneID+"/orders/"+orderID.String(), response.OrderRef)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("order without a secret block is a 400", func(t *testing.T) {
		handler, mockUseCase := setupOrderHandler(t)

		c, w := createTestContext(http.MethodPost, "/v1/"+testKeystoneID+"/orders", []byte(`{}`))

		handler.CreateHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockUseCase.AssertNotCalled(t, "Create")
	})

	t.Run("order with supplied plaintext is a 400", func(t *testing.T) {
		handler, _ := setupOrderHandler(t)

		body := []byte(`{"secret": {"mime_type": "text/plain", "payload": "hunter2"}}`)
		c, w := createTestContext(http.MethodPost, "/v1/"+testKeystoneID+"/orders", body)

		handler.CreateHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unsupported bit length is a 400", func(t *testing.T) {
		handler, _ := setupOrderHandler(t)

		body := []byte(`{"secret": {"mime_type": "application/octet-stream", "algorithm": "aes", "cypher_type": "cbc", "bit_length": 512}}`)
		c, w := createTestContext(http.MethodPost, "/v1/"+testKeystoneID+"/orders", body)

		handler.CreateHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestOrderHandlerGetHandler(t *testing.T) {
	t.Run("fulfilled order links its secret", func(t *testing.T) {
		handler, mockUseCase := setupOrderHandler(t)
		orderID := uuid.Must(uuid.NewV7())
		secretID := uuid.Must(uuid.NewV7())
		order := &secretsDomain.Order{
			ID:       orderID,
			SecretID: &secretID,
			Status:   secretsDomain.StatusActive,
		}

		mockUseCase.On("Get", mock.Anything, testKeystoneID, orderID).Return(order, nil)

		c, w := createTestContext(http.MethodGet, "/v1/"+testKeystoneID+"/orders/"+orderID.String(), nil)
		c.Params = append(c.Params, gin.Param{Key: "order_id", Value: orderID.String()})

		handler.GetHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.OrderResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "ACTIVE", response.Status)
		assert.Contains(t, response.SecretRef, secretID.String())
	})

	t.Run("unknown order is a 404", func(t *testing.T) {
		handler, mockUseCase := setupOrderHandler(t)
		orderID := uuid.Must(uuid.NewV7())

		mockUseCase.On("Get", mock.Anything, testKeystoneID, orderID).
			Return(nil, secretsDomain.ErrOrderNotFound)

		c, w := createTestContext(http.MethodGet, "/v1/"+testKeystoneID+"/orders/"+orderID.String(), nil)
		c.Params = append(c.Params, gin.Param{Key: "order_id", Value: orderID.String()})

		handler.GetHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestOrderHandlerListHandler(t *testing.T) {
	handler, mockUseCase := setupOrderHandler(t)
	orders := []*secretsDomain.Order{
		{ID: uuid.Must(uuid.NewV7()), Status: secretsDomain.StatusPending},
	}

	mockUseCase.On("List", mock.Anything, testKeystoneID, 50, 0).Return(orders, 1, nil)

	c, w := createTestContext(http.MethodGet, "/v1/"+testKeystoneID+"/orders", nil)

	handler.ListHandler(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.ListOrdersResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response.Orders, 1)
	assert.Equal(t, 1, response.Total)
}

func TestOrderHandlerDeleteHandler(t *testing.T) {
	handler, mockUseCase := setupOrderHandler(t)
	orderID := uuid.Must(uuid.NewV7())

	mockUseCase.On("Delete", mock.Anything, testKeystoneID, orderID).Return(nil)

	c, w := createTestContext(http.MethodDelete, "/v1/"+testKeystoneID+"/orders/"+orderID.String(), nil)
	c.Params = append(c.Params, gin.Param{Key: "order_id", Value: orderID.String()})

	handler.DeleteHandler(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, w.Code)
}

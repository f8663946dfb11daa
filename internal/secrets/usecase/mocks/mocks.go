// Package mocks provides mock implementations of the repository, dispatcher,
// and use case interfaces for testing.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	secretsDomain "github.com/jfwood/barbican/internal/secrets/domain"
	"github.com/jfwood/barbican/internal/secrets/validator"
)

// MockTenantRepository is a mock implementation of TenantRepository.
type MockTenantRepository struct {
	mock.Mock
}

func (m *MockTenantRepository) Create(ctx context.Context, tenant *secretsDomain.Tenant) error {
	args := m.Called(ctx, tenant)
	return args.Error(0)
}

func (m *MockTenantRepository) GetByKeystoneID(
	ctx context.Context,
	keystoneID string,
) (*secretsDomain.Tenant, error) {
	args := m.Called(ctx, keystoneID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*secretsDomain.Tenant), args.Error(1)
}

// MockSecretRepository is a mock implementation of SecretRepository.
type MockSecretRepository struct {
	mock.Mock
}

func (m *MockSecretRepository) Create(ctx context.Context, secret *secretsDomain.Secret) error {
	args := m.Called(ctx, secret)
	return args.Error(0)
}

func (m *MockSecretRepository) GetByID(
	ctx context.Context,
	tenantID, secretID uuid.UUID,
) (*secretsDomain.Secret, error) {
	args := m.Called(ctx, tenantID, secretID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*secretsDomain.Secret), args.Error(1)
}

func (m *MockSecretRepository) List(
	ctx context.Context,
	tenantID uuid.UUID,
	limit, offset int,
) ([]*secretsDomain.Secret, error) {
	args := m.Called(ctx, tenantID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*secretsDomain.Secret), args.Error(1)
}

func (m *MockSecretRepository) Count(ctx context.Context, tenantID uuid.UUID) (int, error) {
	args := m.Called(ctx, tenantID)
	return args.Int(0), args.Error(1)
}

func (m *MockSecretRepository) UpdateStatus(
	ctx context.Context,
	secretID uuid.UUID,
	status secretsDomain.Status,
) error {
	args := m.Called(ctx, secretID, status)
	return args.Error(0)
}

func (m *MockSecretRepository) Delete(ctx context.Context, secretID uuid.UUID) error {
	args := m.Called(ctx, secretID)
	return args.Error(0)
}

// MockTenantSecretRepository is a mock implementation of
// TenantSecretRepository.
type MockTenantSecretRepository struct {
	mock.Mock
}

func (m *MockTenantSecretRepository) Create(
	ctx context.Context,
	tenantSecret *secretsDomain.TenantSecret,
) error {
	args := m.Called(ctx, tenantSecret)
	return args.Error(0)
}

// MockEncryptedDatumRepository is a mock implementation of
// EncryptedDatumRepository.
type MockEncryptedDatumRepository struct {
	mock.Mock
}

func (m *MockEncryptedDatumRepository) Create(
	ctx context.Context,
	datum *secretsDomain.EncryptedDatum,
) error {
	args := m.Called(ctx, datum)
	return args.Error(0)
}

func (m *MockEncryptedDatumRepository) ListBySecret(
	ctx context.Context,
	secretID uuid.UUID,
) ([]*secretsDomain.EncryptedDatum, error) {
	args := m.Called(ctx, secretID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*secretsDomain.EncryptedDatum), args.Error(1)
}

// MockOrderRepository is a mock implementation of OrderRepository.
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, order *secretsDomain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(
	ctx context.Context,
	tenantID, orderID uuid.UUID,
) (*secretsDomain.Order, error) {
	args := m.Called(ctx, tenantID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*secretsDomain.Order), args.Error(1)
}

func (m *MockOrderRepository) List(
	ctx context.Context,
	tenantID uuid.UUID,
	limit, offset int,
) ([]*secretsDomain.Order, error) {
	args := m.Called(ctx, tenantID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*secretsDomain.Order), args.Error(1)
}

func (m *MockOrderRepository) Count(ctx context.Context, tenantID uuid.UUID) (int, error) {
	args := m.Called(ctx, tenantID)
	return args.Int(0), args.Error(1)
}

func (m *MockOrderRepository) Update(ctx context.Context, order *secretsDomain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) Delete(ctx context.Context, orderID uuid.UUID) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

// MockVerificationRepository is a mock implementation of
// VerificationRepository.
type MockVerificationRepository struct {
	mock.Mock
}

func (m *MockVerificationRepository) Create(
	ctx context.Context,
	verification *secretsDomain.Verification,
) error {
	args := m.Called(ctx, verification)
	return args.Error(0)
}

func (m *MockVerificationRepository) GetByID(
	ctx context.Context,
	tenantID, verificationID uuid.UUID,
) (*secretsDomain.Verification, error) {
	args := m.Called(ctx, tenantID, verificationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*secretsDomain.Verification), args.Error(1)
}

func (m *MockVerificationRepository) UpdateStatus(
	ctx context.Context,
	verificationID uuid.UUID,
	status secretsDomain.Status,
) error {
	args := m.Called(ctx, verificationID, status)
	return args.Error(0)
}

// MockTaskDispatcher is a mock implementation of TaskDispatcher.
type MockTaskDispatcher struct {
	mock.Mock
}

func (m *MockTaskDispatcher) DispatchProcessOrder(
	ctx context.Context,
	orderID uuid.UUID,
	keystoneID string,
) error {
	args := m.Called(ctx, orderID, keystoneID)
	return args.Error(0)
}

func (m *MockTaskDispatcher) DispatchProcessVerification(
	ctx context.Context,
	verificationID uuid.UUID,
	keystoneID string,
) error {
	args := m.Called(ctx, verificationID, keystoneID)
	return args.Error(0)
}

// MockCipher is a mock implementation of the cipher gateway.
type MockCipher struct {
	mock.Mock
}

func (m *MockCipher) Encrypt(
	ctx context.Context,
	plaintext []byte,
) (cypherText []byte, kekMetadata string, err error) {
	args := m.Called(ctx, plaintext)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]byte), args.String(1), args.Error(2)
}

func (m *MockCipher) Decrypt(
	ctx context.Context,
	cypherText []byte,
	kekMetadata string,
) ([]byte, error) {
	args := m.Called(ctx, cypherText, kekMetadata)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCipher) GenerateSecretData(
	ctx context.Context,
	bitLength int,
) (cypherText []byte, kekMetadata string, err error) {
	args := m.Called(ctx, bitLength)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]byte), args.String(1), args.Error(2)
}

// MockTxManager is a TxManager that runs the function without a database.
type MockTxManager struct {
	// Err, when set, is returned without running the function.
	Err error
}

func (m *MockTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.Err != nil {
		return m.Err
	}
	return fn(ctx)
}

// MockSecretUseCase is a mock implementation of SecretUseCase.
type MockSecretUseCase struct {
	mock.Mock
}

func (m *MockSecretUseCase) Create(
	ctx context.Context,
	keystoneID string,
	payload *validator.SecretPayload,
) (*secretsDomain.Secret, error) {
	args := m.Called(ctx, keystoneID, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*secretsDomain.Secret), args.Error(1)
}

func (m *MockSecretUseCase) Get(
	ctx context.Context,
	keystoneID string,
	secretID uuid.UUID,
) (*secretsDomain.Secret, error) {
	args := m.Called(ctx, keystoneID, secretID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*secretsDomain.Secret), args.Error(1)
}

func (m *MockSecretUseCase) GetPayload(
	ctx context.Context,
	keystoneID string,
	secretID uuid.UUID,
	mimeType string,
) ([]byte, error) {
	args := m.Called(ctx, keystoneID, secretID, mimeType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockSecretUseCase) PutPayload(
	ctx context.Context,
	keystoneID string,
	secretID uuid.UUID,
	mimeType string,
	payload []byte,
) error {
	args := m.Called(ctx, keystoneID, secretID, mimeType, payload)
	return args.Error(0)
}

func (m *MockSecretUseCase) List(
	ctx context.Context,
	keystoneID string,
	limit, offset int,
) ([]*secretsDomain.Secret, int, error) {
	args := m.Called(ctx, keystoneID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*secretsDomain.Secret), args.Int(1), args.Error(2)
}

func (m *MockSecretUseCase) Delete(
	ctx context.Context,
	keystoneID string,
	secretID uuid.UUID,
) error {
	args := m.Called(ctx, keystoneID, secretID)
	return args.Error(0)
}

// MockOrderUseCase is a mock implementation of OrderUseCase.
type MockOrderUseCase struct {
	mock.Mock
}

func (m *MockOrderUseCase) Create(
	ctx context.Context,
	keystoneID string,
	payload *validator.OrderPayload,
) (*secretsDomain.Order, error) {
	args := m.Called(ctx, keystoneID, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*secretsDomain.Order), args.Error(1)
}

func (m *MockOrderUseCase) Get(
	ctx context.Context,
	keystoneID string,
	orderID uuid.UUID,
) (*secretsDomain.Order, error) {
	args := m.Called(ctx, keystoneID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*secretsDomain.Order), args.Error(1)
}

func (m *MockOrderUseCase) List(
	ctx context.Context,
	keystoneID string,
	limit, offset int,
) ([]*secretsDomain.Order, int, error) {
	args := m.Called(ctx, keystoneID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*secretsDomain.Order), args.Int(1), args.Error(2)
}

func (m *MockOrderUseCase) Delete(
	ctx context.Context,
	keystoneID string,
	orderID uuid.UUID,
) error {
	args := m.Called(ctx, keystoneID, orderID)
	return args.Error(0)
}

func (m *MockOrderUseCase) Process(
	ctx context.Context,
	orderID uuid.UUID,
	keystoneID string,
) error {
	args := m.Called(ctx, orderID, keystoneID)
	return args.Error(0)
}

// MockVerificationUseCase is a mock implementation of VerificationUseCase.
type MockVerificationUseCase struct {
	mock.Mock
}

func (m *MockVerificationUseCase) Create(
	ctx context.Context,
	keystoneID string,
	verification *secretsDomain.Verification,
) (*secretsDomain.Verification, error) {
	args := m.Called(ctx, keystoneID, verification)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*secretsDomain.Verification), args.Error(1)
}

func (m *MockVerificationUseCase) Get(
	ctx context.Context,
	keystoneID string,
	verificationID uuid.UUID,
) (*secretsDomain.Verification, error) {
	args := m.Called(ctx, keystoneID, verificationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*secretsDomain.Verification), args.Error(1)
}

func (m *MockVerificationUseCase) Process(
	ctx context.Context,
	verificationID uuid.UUID,
	keystoneID string,
) error {
	args := m.Called(ctx, verificationID, keystoneID)
	return args.Error(0)
}

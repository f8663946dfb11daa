package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	cryptoService "github.com/jfwood/barbican/internal/crypto/service"
	"github.com/jfwood/barbican/internal/database"
	apperrors "github.com/jfwood/barbican/internal/errors"
	secretsDomain "github.com/jfwood/barbican/internal/secrets/domain"
	"github.com/jfwood/barbican/internal/secrets/validator"
)

// orderUseCase implements the OrderUseCase interface. The Create/Get/List/
// Delete side runs in the API process; Process runs wherever the task
// dispatcher delivers it, which may be the same process when the queue is
// disabled.
type orderUseCase struct {
	txManager        database.TxManager
	tenantRepo       TenantRepository
	orderRepo        OrderRepository
	secretRepo       SecretRepository
	tenantSecretRepo TenantSecretRepository
	datumRepo        EncryptedDatumRepository
	cipher           cryptoService.Cipher
	dispatcher       TaskDispatcher
	now              func() time.Time
}

// NewOrderUseCase creates an OrderUseCase.
func NewOrderUseCase(
	txManager database.TxManager,
	tenantRepo TenantRepository,
	orderRepo OrderRepository,
	secretRepo SecretRepository,
	tenantSecretRepo TenantSecretRepository,
	datumRepo EncryptedDatumRepository,
	cipher cryptoService.Cipher,
	dispatcher TaskDispatcher,
) OrderUseCase {
	return &orderUseCase{
		txManager:        txManager,
		tenantRepo:       tenantRepo,
		orderRepo:        orderRepo,
		secretRepo:       secretRepo,
		tenantSecretRepo: tenantSecretRepo,
		datumRepo:        datumRepo,
		cipher:           cipher,
		dispatcher:       dispatcher,
		now:              time.Now,
	}
}

// Create registers a pending order and dispatches its fulfillment task.
func (o *orderUseCase) Create(
	ctx context.Context,
	keystoneID string,
	payload *validator.OrderPayload,
) (*secretsDomain.Order, error) {
	tenant, err := getOrCreateTenant(ctx, o.tenantRepo, keystoneID, o.now)
	if err != nil {
		return nil, err
	}

	order := &secretsDomain.Order{
		ID:               uuid.Must(uuid.NewV7()),
		TenantID:         tenant.ID,
		SecretName:       payload.Secret.Name,
		SecretAlgorithm:  payload.Secret.Algorithm,
		SecretCypherType: payload.Secret.CypherType,
		SecretBitLength:  payload.Secret.BitLength,
		SecretMimeType:   payload.Secret.MimeType,
		SecretExpiration: payload.Secret.Expiration,
		Status:           secretsDomain.StatusPending,
		CreatedAt:        o.now().UTC(),
	}
	if err := o.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	if err := o.dispatcher.DispatchProcessOrder(ctx, order.ID, keystoneID); err != nil {
		order.Status = secretsDomain.StatusError
		order.ErrorReason = "failed to dispatch order processing"
		if updateErr := o.orderRepo.Update(ctx, order); updateErr != nil {
			return nil, updateErr
		}
		return nil, err
	}

	return order, nil
}

// Get retrieves an order.
func (o *orderUseCase) Get(
	ctx context.Context,
	keystoneID string,
	orderID uuid.UUID,
) (*secretsDomain.Order, error) {
	tenant, err := o.tenantRepo.GetByKeystoneID(ctx, keystoneID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, secretsDomain.ErrOrderNotFound
		}
		return nil, err
	}

	return o.orderRepo.GetByID(ctx, tenant.ID, orderID)
}

// List retrieves a page of the tenant's orders plus the total count.
func (o *orderUseCase) List(
	ctx context.Context,
	keystoneID string,
	limit, offset int,
) ([]*secretsDomain.Order, int, error) {
	tenant, err := o.tenantRepo.GetByKeystoneID(ctx, keystoneID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, 0, nil
		}
		return nil, 0, err
	}

	orders, err := o.orderRepo.List(ctx, tenant.ID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	total, err := o.orderRepo.Count(ctx, tenant.ID)
	if err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// Delete removes an order.
func (o *orderUseCase) Delete(
	ctx context.Context,
	keystoneID string,
	orderID uuid.UUID,
) error {
	tenant, err := o.tenantRepo.GetByKeystoneID(ctx, keystoneID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return secretsDomain.ErrOrderNotFound
		}
		return err
	}

	order, err := o.orderRepo.GetByID(ctx, tenant.ID, orderID)
	if err != nil {
		return err
	}

	return o.orderRepo.Delete(ctx, order.ID)
}

// Process fulfills a pending order: it provisions a secret with generated
// material in one transaction and flips the order to ACTIVE. On failure the
// order is flipped to ERROR with a reason, outside the transaction, so the
// failure is visible to the tenant.
func (o *orderUseCase) Process(
	ctx context.Context,
	orderID uuid.UUID,
	keystoneID string,
) error {
	tenant, err := o.tenantRepo.GetByKeystoneID(ctx, keystoneID)
	if err != nil {
		return err
	}

	order, err := o.orderRepo.GetByID(ctx, tenant.ID, orderID)
	if err != nil {
		return err
	}
	if order.Status == secretsDomain.StatusActive {
		// Already fulfilled; a redelivered task is a no-op.
		return nil
	}

	if err := o.fulfill(ctx, tenant, order); err != nil {
		order.Status = secretsDomain.StatusError
		order.ErrorReason = err.Error()
		if updateErr := o.orderRepo.Update(ctx, order); updateErr != nil {
			return updateErr
		}
		return err
	}

	return nil
}

// fulfill provisions the generated secret and activates the order.
func (o *orderUseCase) fulfill(
	ctx context.Context,
	tenant *secretsDomain.Tenant,
	order *secretsDomain.Order,
) error {
	expiration := order.SecretExpiration
	if expiration == nil {
		n := o.now().UTC()
		expiration = &n
	}

	return o.txManager.WithTx(ctx, func(txCtx context.Context) error {
		secret := &secretsDomain.Secret{
			ID:         uuid.Must(uuid.NewV7()),
			Name:       order.SecretName,
			Expiration: expiration,
			Status:     secretsDomain.StatusActive,
			CreatedAt:  o.now().UTC(),
		}
		if err := o.secretRepo.Create(txCtx, secret); err != nil {
			return err
		}

		tenantSecret := &secretsDomain.TenantSecret{
			ID:        uuid.Must(uuid.NewV7()),
			TenantID:  tenant.ID,
			SecretID:  secret.ID,
			Role:      secretsDomain.RoleAdmin,
			Status:    secretsDomain.StatusActive,
			CreatedAt: o.now().UTC(),
		}
		if err := o.tenantSecretRepo.Create(txCtx, tenantSecret); err != nil {
			return err
		}

		cypherText, kekMetadata, err := o.cipher.GenerateSecretData(txCtx, order.SecretBitLength)
		if err != nil {
			return err
		}

		datum := &secretsDomain.EncryptedDatum{
			ID:          uuid.Must(uuid.NewV7()),
			SecretID:    secret.ID,
			MimeType:    order.SecretMimeType,
			CypherText:  cypherText,
			KekMetadata: kekMetadata,
			Status:      secretsDomain.StatusActive,
			CreatedAt:   o.now().UTC(),
		}
		if err := o.datumRepo.Create(txCtx, datum); err != nil {
			return err
		}

		order.SecretID = &secret.ID
		order.Status = secretsDomain.StatusActive
		order.ErrorReason = ""
		return o.orderRepo.Update(txCtx, order)
	})
}

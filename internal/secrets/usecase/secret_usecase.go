package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	cryptoService "github.com/jfwood/barbican/internal/crypto/service"
	"github.com/jfwood/barbican/internal/database"
	apperrors "github.com/jfwood/barbican/internal/errors"
	secretsDomain "github.com/jfwood/barbican/internal/secrets/domain"
	"github.com/jfwood/barbican/internal/secrets/validator"
)

// secretUseCase implements the SecretUseCase interface.
type secretUseCase struct {
	txManager        database.TxManager
	tenantRepo       TenantRepository
	secretRepo       SecretRepository
	tenantSecretRepo TenantSecretRepository
	datumRepo        EncryptedDatumRepository
	cipher           cryptoService.Cipher
	maxPayloadBytes  int
	now              func() time.Time
}

// NewSecretUseCase creates a SecretUseCase.
func NewSecretUseCase(
	txManager database.TxManager,
	tenantRepo TenantRepository,
	secretRepo SecretRepository,
	tenantSecretRepo TenantSecretRepository,
	datumRepo EncryptedDatumRepository,
	cipher cryptoService.Cipher,
	maxPayloadBytes int,
) SecretUseCase {
	return &secretUseCase{
		txManager:        txManager,
		tenantRepo:       tenantRepo,
		secretRepo:       secretRepo,
		tenantSecretRepo: tenantSecretRepo,
		datumRepo:        datumRepo,
		cipher:           cipher,
		maxPayloadBytes:  maxPayloadBytes,
		now:              time.Now,
	}
}

// getOrCreateTenant resolves the tenant for a keystone identifier, creating
// an active tenant on first contact.
func getOrCreateTenant(
	ctx context.Context,
	tenantRepo TenantRepository,
	keystoneID string,
	now func() time.Time,
) (*secretsDomain.Tenant, error) {
	tenant, err := tenantRepo.GetByKeystoneID(ctx, keystoneID)
	if err == nil {
		return tenant, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	tenant = &secretsDomain.Tenant{
		ID:         uuid.Must(uuid.NewV7()),
		KeystoneID: keystoneID,
		Status:     secretsDomain.StatusActive,
		CreatedAt:  now().UTC(),
	}
	if err := tenantRepo.Create(ctx, tenant); err != nil {
		return nil, err
	}
	return tenant, nil
}

// Create provisions a secret from a validated payload. The secret, its
// tenant association, and the optional encrypted datum are created in one
// transaction, so a failed encryption leaves nothing behind.
func (s *secretUseCase) Create(
	ctx context.Context,
	keystoneID string,
	payload *validator.SecretPayload,
) (*secretsDomain.Secret, error) {
	tenant, err := getOrCreateTenant(ctx, s.tenantRepo, keystoneID, s.now)
	if err != nil {
		return nil, err
	}

	// An omitted expiration defaults to the creation instant, matching the
	// long-standing service behavior documented on the entity.
	expiration := payload.Expiration
	if expiration == nil {
		n := s.now().UTC()
		expiration = &n
	}

	secret := &secretsDomain.Secret{
		ID:         uuid.Must(uuid.NewV7()),
		Name:       payload.Name,
		Expiration: expiration,
		Status:     secretsDomain.StatusActive,
		CreatedAt:  s.now().UTC(),
	}

	err = s.txManager.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.secretRepo.Create(txCtx, secret); err != nil {
			return err
		}

		tenantSecret := &secretsDomain.TenantSecret{
			ID:        uuid.Must(uuid.NewV7()),
			TenantID:  tenant.ID,
			SecretID:  secret.ID,
			Role:      secretsDomain.RoleAdmin,
			Status:    secretsDomain.StatusActive,
			CreatedAt: s.now().UTC(),
		}
		if err := s.tenantSecretRepo.Create(txCtx, tenantSecret); err != nil {
			return err
		}

		if !payload.HasPlainText {
			return nil
		}

		datum, err := s.encryptDatum(txCtx, secret.ID, payload.MimeType, []byte(payload.PlainText))
		if err != nil {
			return err
		}
		secret.EncryptedData = []*secretsDomain.EncryptedDatum{datum}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return secret, nil
}

// encryptDatum encrypts a payload and persists the resulting datum.
func (s *secretUseCase) encryptDatum(
	ctx context.Context,
	secretID uuid.UUID,
	mimeType string,
	payload []byte,
) (*secretsDomain.EncryptedDatum, error) {
	cypherText, kekMetadata, err := s.cipher.Encrypt(ctx, payload)
	if err != nil {
		return nil, err
	}

	datum := &secretsDomain.EncryptedDatum{
		ID:          uuid.Must(uuid.NewV7()),
		SecretID:    secretID,
		MimeType:    mimeType,
		CypherText:  cypherText,
		KekMetadata: kekMetadata,
		Status:      secretsDomain.StatusActive,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.datumRepo.Create(ctx, datum); err != nil {
		return nil, err
	}
	return datum, nil
}

// Get retrieves a secret's metadata with its encrypted data loaded.
func (s *secretUseCase) Get(
	ctx context.Context,
	keystoneID string,
	secretID uuid.UUID,
) (*secretsDomain.Secret, error) {
	tenant, err := s.tenantRepo.GetByKeystoneID(ctx, keystoneID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, secretsDomain.ErrSecretNotFound
		}
		return nil, err
	}

	secret, err := s.secretRepo.GetByID(ctx, tenant.ID, secretID)
	if err != nil {
		return nil, err
	}

	secret.EncryptedData, err = s.datumRepo.ListBySecret(ctx, secret.ID)
	if err != nil {
		return nil, err
	}

	return secret, nil
}

// GetPayload retrieves and decrypts the datum matching the requested mime
// type.
func (s *secretUseCase) GetPayload(
	ctx context.Context,
	keystoneID string,
	secretID uuid.UUID,
	mimeType string,
) ([]byte, error) {
	secret, err := s.Get(ctx, keystoneID, secretID)
	if err != nil {
		return nil, err
	}
	if len(secret.EncryptedData) == 0 {
		return nil, secretsDomain.ErrSecretNoData
	}

	// Later data wins when multiple representations share a mime type.
	var datum *secretsDomain.EncryptedDatum
	for _, d := range secret.EncryptedData {
		if strings.EqualFold(d.MimeType, mimeType) {
			datum = d
		}
	}
	if datum == nil {
		return nil, secretsDomain.ErrContentTypeNotAcceptable
	}

	return s.cipher.Decrypt(ctx, datum.CypherText, datum.KekMetadata)
}

// PutPayload stores an encrypted datum on a secret created without one.
func (s *secretUseCase) PutPayload(
	ctx context.Context,
	keystoneID string,
	secretID uuid.UUID,
	mimeType string,
	payload []byte,
) error {
	if !secretsDomain.IsSupportedMimeType(mimeType) {
		return secretsDomain.NewInvalidObject("Secret", "unsupported mime type "+mimeType)
	}
	if len(payload) == 0 {
		return secretsDomain.NewInvalidObject("Secret", "payload must be non empty")
	}
	if len(payload) > s.maxPayloadBytes {
		return secretsDomain.NewLimitExceeded(s.maxPayloadBytes)
	}

	secret, err := s.Get(ctx, keystoneID, secretID)
	if err != nil {
		return err
	}
	if len(secret.EncryptedData) > 0 {
		return secretsDomain.ErrSecretAlreadyHasData
	}

	return s.txManager.WithTx(ctx, func(txCtx context.Context) error {
		_, err := s.encryptDatum(txCtx, secret.ID, mimeType, payload)
		return err
	})
}

// List retrieves a page of the tenant's secrets with encrypted data loaded.
func (s *secretUseCase) List(
	ctx context.Context,
	keystoneID string,
	limit, offset int,
) ([]*secretsDomain.Secret, int, error) {
	tenant, err := s.tenantRepo.GetByKeystoneID(ctx, keystoneID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// A tenant the service has never seen owns no secrets.
			return nil, 0, nil
		}
		return nil, 0, err
	}

	secrets, err := s.secretRepo.List(ctx, tenant.ID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	for _, secret := range secrets {
		secret.EncryptedData, err = s.datumRepo.ListBySecret(ctx, secret.ID)
		if err != nil {
			return nil, 0, err
		}
	}

	total, err := s.secretRepo.Count(ctx, tenant.ID)
	if err != nil {
		return nil, 0, err
	}

	return secrets, total, nil
}

// Delete removes a secret.
func (s *secretUseCase) Delete(
	ctx context.Context,
	keystoneID string,
	secretID uuid.UUID,
) error {
	tenant, err := s.tenantRepo.GetByKeystoneID(ctx, keystoneID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return secretsDomain.ErrSecretNotFound
		}
		return err
	}

	// Ownership check before removal.
	secret, err := s.secretRepo.GetByID(ctx, tenant.ID, secretID)
	if err != nil {
		return err
	}

	return s.secretRepo.Delete(ctx, secret.ID)
}

package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/jfwood/barbican/internal/errors"
	secretsDomain "github.com/jfwood/barbican/internal/secrets/domain"
)

// verificationUseCase implements the VerificationUseCase interface.
// Verification of the referenced resource is currently limited to recording
// the request and activating it asynchronously; deeper resource checks hang
// off Process as they land.
type verificationUseCase struct {
	tenantRepo       TenantRepository
	verificationRepo VerificationRepository
	dispatcher       TaskDispatcher
	now              func() time.Time
}

// NewVerificationUseCase creates a VerificationUseCase.
func NewVerificationUseCase(
	tenantRepo TenantRepository,
	verificationRepo VerificationRepository,
	dispatcher TaskDispatcher,
) VerificationUseCase {
	return &verificationUseCase{
		tenantRepo:       tenantRepo,
		verificationRepo: verificationRepo,
		dispatcher:       dispatcher,
		now:              time.Now,
	}
}

// Create registers a pending verification and dispatches its task.
func (v *verificationUseCase) Create(
	ctx context.Context,
	keystoneID string,
	verification *secretsDomain.Verification,
) (*secretsDomain.Verification, error) {
	tenant, err := getOrCreateTenant(ctx, v.tenantRepo, keystoneID, v.now)
	if err != nil {
		return nil, err
	}

	verification.ID = uuid.Must(uuid.NewV7())
	verification.TenantID = tenant.ID
	verification.Status = secretsDomain.StatusPending
	verification.CreatedAt = v.now().UTC()

	if err := v.verificationRepo.Create(ctx, verification); err != nil {
		return nil, err
	}

	if err := v.dispatcher.DispatchProcessVerification(ctx, verification.ID, keystoneID); err != nil {
		if updateErr := v.verificationRepo.UpdateStatus(
			ctx, verification.ID, secretsDomain.StatusError,
		); updateErr != nil {
			return nil, updateErr
		}
		return nil, err
	}

	return verification, nil
}

// Get retrieves a verification.
func (v *verificationUseCase) Get(
	ctx context.Context,
	keystoneID string,
	verificationID uuid.UUID,
) (*secretsDomain.Verification, error) {
	tenant, err := v.tenantRepo.GetByKeystoneID(ctx, keystoneID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	return v.verificationRepo.GetByID(ctx, tenant.ID, verificationID)
}

// Process performs the verification check and activates the record.
func (v *verificationUseCase) Process(
	ctx context.Context,
	verificationID uuid.UUID,
	keystoneID string,
) error {
	tenant, err := v.tenantRepo.GetByKeystoneID(ctx, keystoneID)
	if err != nil {
		return err
	}

	verification, err := v.verificationRepo.GetByID(ctx, tenant.ID, verificationID)
	if err != nil {
		return err
	}
	if verification.Status == secretsDomain.StatusActive {
		return nil
	}

	return v.verificationRepo.UpdateStatus(ctx, verification.ID, secretsDomain.StatusActive)
}

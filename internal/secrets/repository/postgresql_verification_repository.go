package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/jfwood/barbican/internal/database"
	apperrors "github.com/jfwood/barbican/internal/errors"
	secretsDomain "github.com/jfwood/barbican/internal/secrets/domain"
)

// PostgreSQLVerificationRepository implements Verification persistence for
// PostgreSQL.
type PostgreSQLVerificationRepository struct {
	db *sql.DB
}

// NewPostgreSQLVerificationRepository creates a new PostgreSQL Verification
// repository.
func NewPostgreSQLVerificationRepository(db *sql.DB) *PostgreSQLVerificationRepository {
	return &PostgreSQLVerificationRepository{db: db}
}

// Create inserts a new verification.
func (p *PostgreSQLVerificationRepository) Create(
	ctx context.Context,
	verification *secretsDomain.Verification,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO verifications (id, tenant_id, resource_type, resource_ref, status, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := querier.ExecContext(
		ctx,
		query,
		verification.ID,
		verification.TenantID,
		verification.ResourceType,
		verification.ResourceRef,
		verification.Status,
		verification.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create verification")
	}
	return nil
}

// GetByID retrieves a verification owned by the given tenant.
func (p *PostgreSQLVerificationRepository) GetByID(
	ctx context.Context,
	tenantID, verificationID uuid.UUID,
) (*secretsDomain.Verification, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, tenant_id, resource_type, resource_ref, status, created_at
			  FROM verifications
			  WHERE id = $1 AND tenant_id = $2
			  LIMIT 1`

	var verification secretsDomain.Verification
	err := querier.QueryRowContext(ctx, query, verificationID, tenantID).Scan(
		&verification.ID,
		&verification.TenantID,
		&verification.ResourceType,
		&verification.ResourceRef,
		&verification.Status,
		&verification.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get verification by id")
	}

	return &verification, nil
}

// UpdateStatus changes a verification's status.
func (p *PostgreSQLVerificationRepository) UpdateStatus(
	ctx context.Context,
	verificationID uuid.UUID,
	status secretsDomain.Status,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE verifications SET status = $1 WHERE id = $2`

	_, err := querier.ExecContext(ctx, query, status, verificationID)
	if err != nil {
		return apperrors.Wrap(err, "failed to update verification status")
	}
	return nil
}

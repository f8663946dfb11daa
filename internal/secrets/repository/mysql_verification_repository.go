package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/jfwood/barbican/internal/database"
	apperrors "github.com/jfwood/barbican/internal/errors"
	secretsDomain "github.com/jfwood/barbican/internal/secrets/domain"
)

// MySQLVerificationRepository implements Verification persistence for MySQL.
type MySQLVerificationRepository struct {
	db *sql.DB
}

// NewMySQLVerificationRepository creates a new MySQL Verification repository.
func NewMySQLVerificationRepository(db *sql.DB) *MySQLVerificationRepository {
	return &MySQLVerificationRepository{db: db}
}

// Create inserts a new verification.
func (m *MySQLVerificationRepository) Create(
	ctx context.Context,
	verification *secretsDomain.Verification,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO verifications (id, tenant_id, resource_type, resource_ref, status, created_at)
			  VALUES (?, ?, ?, ?, ?, ?)`

	id, err := verification.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal verification id")
	}
	tenantID, err := verification.TenantID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal tenant id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		tenantID,
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
func (m *MySQLVerificationRepository) GetByID(
	ctx context.Context,
	tenantID, verificationID uuid.UUID,
) (*secretsDomain.Verification, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, tenant_id, resource_type, resource_ref, status, created_at
			  FROM verifications
			  WHERE id = ? AND tenant_id = ?
			  LIMIT 1`

	verificationIDBytes, err := verificationID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal verification id")
	}
	tenantIDBytes, err := tenantID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal tenant id")
	}

	var verification secretsDomain.Verification
	var id, tid []byte
	err = querier.QueryRowContext(ctx, query, verificationIDBytes, tenantIDBytes).Scan(
		&id,
		&tid,
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

	if err := verification.ID.UnmarshalBinary(id); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal verification id")
	}
	if err := verification.TenantID.UnmarshalBinary(tid); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal tenant id")
	}

	return &verification, nil
}

// UpdateStatus changes a verification's status.
func (m *MySQLVerificationRepository) UpdateStatus(
	ctx context.Context,
	verificationID uuid.UUID,
	status secretsDomain.Status,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE verifications SET status = ? WHERE id = ?`

	id, err := verificationID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal verification id")
	}

	_, err = querier.ExecContext(ctx, query, status, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to update verification status")
	}
	return nil
}

package repository

import (
	"context"
	"database/sql"

	"github.com/jfwood/barbican/internal/database"
	apperrors "github.com/jfwood/barbican/internal/errors"
	secretsDomain "github.com/jfwood/barbican/internal/secrets/domain"
)

// MySQLTenantSecretRepository implements TenantSecret persistence for MySQL.
type MySQLTenantSecretRepository struct {
	db *sql.DB
}

// NewMySQLTenantSecretRepository creates a new MySQL TenantSecret repository.
func NewMySQLTenantSecretRepository(db *sql.DB) *MySQLTenantSecretRepository {
	return &MySQLTenantSecretRepository{db: db}
}

// Create inserts a new tenant-secret association.
func (m *MySQLTenantSecretRepository) Create(
	ctx context.Context,
	tenantSecret *secretsDomain.TenantSecret,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO tenant_secrets (id, tenant_id, secret_id, role, status, created_at)
			  VALUES (?, ?, ?, ?, ?, ?)`

	id, err := tenantSecret.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal tenant secret id")
	}
	tenantID, err := tenantSecret.TenantID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal tenant id")
	}
	secretID, err := tenantSecret.SecretID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal secret id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		tenantID,
		secretID,
		tenantSecret.Role,
		tenantSecret.Status,
		tenantSecret.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create tenant secret")
	}
	return nil
}

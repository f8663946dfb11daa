package repository

import (
	"context"
	"database/sql"

	"github.com/jfwood/barbican/internal/database"
	apperrors "github.com/jfwood/barbican/internal/errors"
	secretsDomain "github.com/jfwood/barbican/internal/secrets/domain"
)

// PostgreSQLTenantSecretRepository implements TenantSecret persistence for
// PostgreSQL.
type PostgreSQLTenantSecretRepository struct {
	db *sql.DB
}

// NewPostgreSQLTenantSecretRepository creates a new PostgreSQL TenantSecret
// repository.
func NewPostgreSQLTenantSecretRepository(db *sql.DB) *PostgreSQLTenantSecretRepository {
	return &PostgreSQLTenantSecretRepository{db: db}
}

// Create inserts a new tenant-secret association.
func (p *PostgreSQLTenantSecretRepository) Create(
	ctx context.Context,
	tenantSecret *secretsDomain.TenantSecret,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO tenant_secrets (id, tenant_id, secret_id, role, status, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := querier.ExecContext(
		ctx,
		query,
		tenantSecret.ID,
		tenantSecret.TenantID,
		tenantSecret.SecretID,
		tenantSecret.Role,
		tenantSecret.Status,
		tenantSecret.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create tenant secret")
	}
	return nil
}

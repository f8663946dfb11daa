// Package repository implements data persistence for the secret provisioning
// entities. Repositories support both PostgreSQL and MySQL and participate in
// transactions carried on the context.
package repository

import (
	"context"
	"database/sql"

	"github.com/jfwood/barbican/internal/database"
	apperrors "github.com/jfwood/barbican/internal/errors"
	secretsDomain "github.com/jfwood/barbican/internal/secrets/domain"
)

// PostgreSQLTenantRepository implements Tenant persistence for PostgreSQL.
type PostgreSQLTenantRepository struct {
	db *sql.DB
}

// NewPostgreSQLTenantRepository creates a new PostgreSQL Tenant repository.
func NewPostgreSQLTenantRepository(db *sql.DB) *PostgreSQLTenantRepository {
	return &PostgreSQLTenantRepository{db: db}
}

// Create inserts a new tenant.
func (p *PostgreSQLTenantRepository) Create(ctx context.Context, tenant *secretsDomain.Tenant) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO tenants (id, keystone_id, status, created_at)
			  VALUES ($1, $2, $3, $4)`

	_, err := querier.ExecContext(
		ctx,
		query,
		tenant.ID,
		tenant.KeystoneID,
		tenant.Status,
		tenant.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create tenant")
	}
	return nil
}

// GetByKeystoneID retrieves a tenant by its keystone identifier.
func (p *PostgreSQLTenantRepository) GetByKeystoneID(
	ctx context.Context,
	keystoneID string,
) (*secretsDomain.Tenant, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, keystone_id, status, created_at
			  FROM tenants
			  WHERE keystone_id = $1
			  LIMIT 1`

	var tenant secretsDomain.Tenant
	err := querier.QueryRowContext(ctx, query, keystoneID).Scan(
		&tenant.ID,
		&tenant.KeystoneID,
		&tenant.Status,
		&tenant.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get tenant by keystone id")
	}

	return &tenant, nil
}

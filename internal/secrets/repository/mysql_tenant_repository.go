package repository

import (
	"context"
	"database/sql"

	"github.com/jfwood/barbican/internal/database"
	apperrors "github.com/jfwood/barbican/internal/errors"
	secretsDomain "github.com/jfwood/barbican/internal/secrets/domain"
)

// MySQLTenantRepository implements Tenant persistence for MySQL.
type MySQLTenantRepository struct {
	db *sql.DB
}

// NewMySQLTenantRepository creates a new MySQL Tenant repository.
func NewMySQLTenantRepository(db *sql.DB) *MySQLTenantRepository {
	return &MySQLTenantRepository{db: db}
}

// Create inserts a new tenant.
func (m *MySQLTenantRepository) Create(ctx context.Context, tenant *secretsDomain.Tenant) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO tenants (id, keystone_id, status, created_at)
			  VALUES (?, ?, ?, ?)`

	id, err := tenant.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal tenant id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
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
func (m *MySQLTenantRepository) GetByKeystoneID(
	ctx context.Context,
	keystoneID string,
) (*secretsDomain.Tenant, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, keystone_id, status, created_at
			  FROM tenants
			  WHERE keystone_id = ?
			  LIMIT 1`

	var tenant secretsDomain.Tenant
	var id []byte
	err := querier.QueryRowContext(ctx, query, keystoneID).Scan(
		&id,
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

	if err := tenant.ID.UnmarshalBinary(id); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal tenant id")
	}

	return &tenant, nil
}

package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/jfwood/barbican/internal/database"
	apperrors "github.com/jfwood/barbican/internal/errors"
	secretsDomain "github.com/jfwood/barbican/internal/secrets/domain"
)

// PostgreSQLOrderRepository implements Order persistence for PostgreSQL.
type PostgreSQLOrderRepository struct {
	db *sql.DB
}

// NewPostgreSQLOrderRepository creates a new PostgreSQL Order repository.
func NewPostgreSQLOrderRepository(db *sql.DB) *PostgreSQLOrderRepository {
	return &PostgreSQLOrderRepository{db: db}
}

const postgresOrderColumns = `id, tenant_id, secret_id, secret_name, secret_algorithm,
			  secret_cypher_type, secret_bit_length, secret_mime_type, secret_expiration,
			  status, error_reason, created_at`

// Create inserts a new order.
func (p *PostgreSQLOrderRepository) Create(ctx context.Context, order *secretsDomain.Order) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO orders (` + postgresOrderColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := querier.ExecContext(
		ctx,
		query,
		order.ID,
		order.TenantID,
		order.SecretID,
		order.SecretName,
		order.SecretAlgorithm,
		order.SecretCypherType,
		order.SecretBitLength,
		order.SecretMimeType,
		order.SecretExpiration,
		order.Status,
		order.ErrorReason,
		order.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create order")
	}
	return nil
}

// GetByID retrieves an order owned by the given tenant.
func (p *PostgreSQLOrderRepository) GetByID(
	ctx context.Context,
	tenantID, orderID uuid.UUID,
) (*secretsDomain.Order, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + postgresOrderColumns + `
			  FROM orders
			  WHERE id = $1 AND tenant_id = $2
			  LIMIT 1`

	var order secretsDomain.Order
	err := querier.QueryRowContext(ctx, query, orderID, tenantID).Scan(
		&order.ID,
		&order.TenantID,
		&order.SecretID,
		&order.SecretName,
		&order.SecretAlgorithm,
		&order.SecretCypherType,
		&order.SecretBitLength,
		&order.SecretMimeType,
		&order.SecretExpiration,
		&order.Status,
		&order.ErrorReason,
		&order.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, secretsDomain.ErrOrderNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get order by id")
	}

	return &order, nil
}

// List retrieves a page of the tenant's orders ordered by creation time
// descending.
func (p *PostgreSQLOrderRepository) List(
	ctx context.Context,
	tenantID uuid.UUID,
	limit, offset int,
) ([]*secretsDomain.Order, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + postgresOrderColumns + `
			  FROM orders
			  WHERE tenant_id = $1
			  ORDER BY created_at DESC
			  LIMIT $2 OFFSET $3`

	rows, err := querier.QueryContext(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list orders")
	}
	defer rows.Close()

	var orders []*secretsDomain.Order
	for rows.Next() {
		var order secretsDomain.Order
		if err := rows.Scan(
			&order.ID,
			&order.TenantID,
			&order.SecretID,
			&order.SecretName,
			&order.SecretAlgorithm,
			&order.SecretCypherType,
			&order.SecretBitLength,
			&order.SecretMimeType,
			&order.SecretExpiration,
			&order.Status,
			&order.ErrorReason,
			&order.CreatedAt,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan order")
		}
		orders = append(orders, &order)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate orders")
	}

	return orders, nil
}

// Count returns the number of orders owned by the tenant.
func (p *PostgreSQLOrderRepository) Count(ctx context.Context, tenantID uuid.UUID) (int, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT COUNT(*) FROM orders WHERE tenant_id = $1`

	var count int
	if err := querier.QueryRowContext(ctx, query, tenantID).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count orders")
	}
	return count, nil
}

// Update persists the mutable fulfillment fields of an order.
func (p *PostgreSQLOrderRepository) Update(ctx context.Context, order *secretsDomain.Order) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE orders
			  SET secret_id = $1, status = $2, error_reason = $3
			  WHERE id = $4`

	_, err := querier.ExecContext(
		ctx,
		query,
		order.SecretID,
		order.Status,
		order.ErrorReason,
		order.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update order")
	}
	return nil
}

// Delete removes an order.
func (p *PostgreSQLOrderRepository) Delete(ctx context.Context, orderID uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM orders WHERE id = $1`

	_, err := querier.ExecContext(ctx, query, orderID)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete order")
	}
	return nil
}

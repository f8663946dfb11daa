package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/jfwood/barbican/internal/database"
	apperrors "github.com/jfwood/barbican/internal/errors"
	secretsDomain "github.com/jfwood/barbican/internal/secrets/domain"
)

// MySQLOrderRepository implements Order persistence for MySQL.
type MySQLOrderRepository struct {
	db *sql.DB
}

// NewMySQLOrderRepository creates a new MySQL Order repository.
func NewMySQLOrderRepository(db *sql.DB) *MySQLOrderRepository {
	return &MySQLOrderRepository{db: db}
}

const mysqlOrderColumns = `id, tenant_id, secret_id, secret_name, secret_algorithm,
			  secret_cypher_type, secret_bit_length, secret_mime_type, secret_expiration,
			  status, error_reason, created_at`

// marshalOrderIDs marshals the order's UUID fields to their binary form.
// SecretID stays nil until the order is fulfilled.
func marshalOrderIDs(order *secretsDomain.Order) (id, tenantID, secretID []byte, err error) {
	id, err = order.ID.MarshalBinary()
	if err != nil {
		return nil, nil, nil, apperrors.Wrap(err, "failed to marshal order id")
	}
	tenantID, err = order.TenantID.MarshalBinary()
	if err != nil {
		return nil, nil, nil, apperrors.Wrap(err, "failed to marshal tenant id")
	}
	if order.SecretID != nil {
		secretID, err = order.SecretID.MarshalBinary()
		if err != nil {
			return nil, nil, nil, apperrors.Wrap(err, "failed to marshal secret id")
		}
	}
	return id, tenantID, secretID, nil
}

// scanOrder scans an order row with binary UUID columns.
func scanOrder(row interface {
	Scan(dest ...any) error
}) (*secretsDomain.Order, error) {
	var order secretsDomain.Order
	var id, tenantID, secretID []byte
	err := row.Scan(
		&id,
		&tenantID,
		&secretID,
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
		return nil, err
	}

	if err := order.ID.UnmarshalBinary(id); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal order id")
	}
	if err := order.TenantID.UnmarshalBinary(tenantID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal tenant id")
	}
	if secretID != nil {
		var sid uuid.UUID
		if err := sid.UnmarshalBinary(secretID); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal secret id")
		}
		order.SecretID = &sid
	}

	return &order, nil
}

// Create inserts a new order.
func (m *MySQLOrderRepository) Create(ctx context.Context, order *secretsDomain.Order) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO orders (` + mysqlOrderColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	id, tenantID, secretID, err := marshalOrderIDs(order)
	if err != nil {
		return err
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		tenantID,
		secretID,
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
func (m *MySQLOrderRepository) GetByID(
	ctx context.Context,
	tenantID, orderID uuid.UUID,
) (*secretsDomain.Order, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + mysqlOrderColumns + `
			  FROM orders
			  WHERE id = ? AND tenant_id = ?
			  LIMIT 1`

	orderIDBytes, err := orderID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal order id")
	}
	tenantIDBytes, err := tenantID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal tenant id")
	}

	order, err := scanOrder(querier.QueryRowContext(ctx, query, orderIDBytes, tenantIDBytes))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, secretsDomain.ErrOrderNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get order by id")
	}

	return order, nil
}

// List retrieves a page of the tenant's orders ordered by creation time
// descending.
func (m *MySQLOrderRepository) List(
	ctx context.Context,
	tenantID uuid.UUID,
	limit, offset int,
) ([]*secretsDomain.Order, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + mysqlOrderColumns + `
			  FROM orders
			  WHERE tenant_id = ?
			  ORDER BY created_at DESC
			  LIMIT ? OFFSET ?`

	tenantIDBytes, err := tenantID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal tenant id")
	}

	rows, err := querier.QueryContext(ctx, query, tenantIDBytes, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list orders")
	}
	defer rows.Close()

	var orders []*secretsDomain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan order")
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate orders")
	}

	return orders, nil
}

// Count returns the number of orders owned by the tenant.
func (m *MySQLOrderRepository) Count(ctx context.Context, tenantID uuid.UUID) (int, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT COUNT(*) FROM orders WHERE tenant_id = ?`

	tenantIDBytes, err := tenantID.MarshalBinary()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to marshal tenant id")
	}

	var count int
	if err := querier.QueryRowContext(ctx, query, tenantIDBytes).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count orders")
	}
	return count, nil
}

// Update persists the mutable fulfillment fields of an order.
func (m *MySQLOrderRepository) Update(ctx context.Context, order *secretsDomain.Order) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE orders
			  SET secret_id = ?, status = ?, error_reason = ?
			  WHERE id = ?`

	id, _, secretID, err := marshalOrderIDs(order)
	if err != nil {
		return err
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		secretID,
		order.Status,
		order.ErrorReason,
		id,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update order")
	}
	return nil
}

// Delete removes an order.
func (m *MySQLOrderRepository) Delete(ctx context.Context, orderID uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM orders WHERE id = ?`

	id, err := orderID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal order id")
	}

	_, err = querier.ExecContext(ctx, query, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete order")
	}
	return nil
}

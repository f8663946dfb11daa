package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/jfwood/barbican/internal/database"
	apperrors "github.com/jfwood/barbican/internal/errors"
	secretsDomain "github.com/jfwood/barbican/internal/secrets/domain"
)

// MySQLSecretRepository implements Secret persistence for MySQL.
type MySQLSecretRepository struct {
	db *sql.DB
}

// NewMySQLSecretRepository creates a new MySQL Secret repository.
func NewMySQLSecretRepository(db *sql.DB) *MySQLSecretRepository {
	return &MySQLSecretRepository{db: db}
}

// Create inserts a new secret.
func (m *MySQLSecretRepository) Create(ctx context.Context, secret *secretsDomain.Secret) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO secrets (id, name, expiration, status, created_at)
			  VALUES (?, ?, ?, ?, ?)`

	id, err := secret.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal secret id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		secret.Name,
		secret.Expiration,
		secret.Status,
		secret.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create secret")
	}
	return nil
}

// GetByID retrieves a secret owned by the given tenant.
func (m *MySQLSecretRepository) GetByID(
	ctx context.Context,
	tenantID, secretID uuid.UUID,
) (*secretsDomain.Secret, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT s.id, s.name, s.expiration, s.status, s.created_at
			  FROM secrets s
			  JOIN tenant_secrets ts ON ts.secret_id = s.id
			  WHERE s.id = ? AND ts.tenant_id = ?
			  LIMIT 1`

	secretIDBytes, err := secretID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal secret id")
	}
	tenantIDBytes, err := tenantID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal tenant id")
	}

	var secret secretsDomain.Secret
	var id []byte
	err = querier.QueryRowContext(ctx, query, secretIDBytes, tenantIDBytes).Scan(
		&id,
		&secret.Name,
		&secret.Expiration,
		&secret.Status,
		&secret.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, secretsDomain.ErrSecretNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get secret by id")
	}

	if err := secret.ID.UnmarshalBinary(id); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal secret id")
	}

	return &secret, nil
}

// List retrieves a page of the tenant's secrets ordered by creation time
// descending.
func (m *MySQLSecretRepository) List(
	ctx context.Context,
	tenantID uuid.UUID,
	limit, offset int,
) ([]*secretsDomain.Secret, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT s.id, s.name, s.expiration, s.status, s.created_at
			  FROM secrets s
			  JOIN tenant_secrets ts ON ts.secret_id = s.id
			  WHERE ts.tenant_id = ?
			  ORDER BY s.created_at DESC
			  LIMIT ? OFFSET ?`

	tenantIDBytes, err := tenantID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal tenant id")
	}

	rows, err := querier.QueryContext(ctx, query, tenantIDBytes, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list secrets")
	}
	defer rows.Close()

	var secrets []*secretsDomain.Secret
	for rows.Next() {
		var secret secretsDomain.Secret
		var id []byte
		if err := rows.Scan(
			&id,
			&secret.Name,
			&secret.Expiration,
			&secret.Status,
			&secret.CreatedAt,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan secret")
		}
		if err := secret.ID.UnmarshalBinary(id); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal secret id")
		}
		secrets = append(secrets, &secret)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate secrets")
	}

	return secrets, nil
}

// Count returns the number of secrets owned by the tenant.
func (m *MySQLSecretRepository) Count(ctx context.Context, tenantID uuid.UUID) (int, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT COUNT(*)
			  FROM tenant_secrets
			  WHERE tenant_id = ?`

	tenantIDBytes, err := tenantID.MarshalBinary()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to marshal tenant id")
	}

	var count int
	if err := querier.QueryRowContext(ctx, query, tenantIDBytes).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count secrets")
	}
	return count, nil
}

// UpdateStatus changes a secret's status.
func (m *MySQLSecretRepository) UpdateStatus(
	ctx context.Context,
	secretID uuid.UUID,
	status secretsDomain.Status,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE secrets SET status = ? WHERE id = ?`

	id, err := secretID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal secret id")
	}

	_, err = querier.ExecContext(ctx, query, status, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to update secret status")
	}
	return nil
}

// Delete removes a secret. Associated rows in tenant_secrets and
// encrypted_data are removed by the schema's cascade rules.
func (m *MySQLSecretRepository) Delete(ctx context.Context, secretID uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM secrets WHERE id = ?`

	id, err := secretID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal secret id")
	}

	_, err = querier.ExecContext(ctx, query, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete secret")
	}
	return nil
}

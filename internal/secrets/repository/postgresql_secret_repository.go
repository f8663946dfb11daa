package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/jfwood/barbican/internal/database"
	apperrors "github.com/jfwood/barbican/internal/errors"
	secretsDomain "github.com/jfwood/barbican/internal/secrets/domain"
)

// PostgreSQLSecretRepository implements Secret persistence for PostgreSQL.
// Secrets are tenant scoped through the tenant_secrets association table, so
// reads always join against it.
type PostgreSQLSecretRepository struct {
	db *sql.DB
}

// NewPostgreSQLSecretRepository creates a new PostgreSQL Secret repository.
func NewPostgreSQLSecretRepository(db *sql.DB) *PostgreSQLSecretRepository {
	return &PostgreSQLSecretRepository{db: db}
}

// Create inserts a new secret.
func (p *PostgreSQLSecretRepository) Create(ctx context.Context, secret *secretsDomain.Secret) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO secrets (id, name, expiration, status, created_at)
			  VALUES ($1, $2, $3, $4, $5)`

	_, err := querier.ExecContext(
		ctx,
		query,
		secret.ID,
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
func (p *PostgreSQLSecretRepository) GetByID(
	ctx context.Context,
	tenantID, secretID uuid.UUID,
) (*secretsDomain.Secret, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT s.id, s.name, s.expiration, s.status, s.created_at
			  FROM secrets s
			  JOIN tenant_secrets ts ON ts.secret_id = s.id
			  WHERE s.id = $1 AND ts.tenant_id = $2
			  LIMIT 1`

	var secret secretsDomain.Secret
	err := querier.QueryRowContext(ctx, query, secretID, tenantID).Scan(
		&secret.ID,
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

	return &secret, nil
}

// List retrieves a page of the tenant's secrets ordered by creation time
// descending.
func (p *PostgreSQLSecretRepository) List(
	ctx context.Context,
	tenantID uuid.UUID,
	limit, offset int,
) ([]*secretsDomain.Secret, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT s.id, s.name, s.expiration, s.status, s.created_at
			  FROM secrets s
			  JOIN tenant_secrets ts ON ts.secret_id = s.id
			  WHERE ts.tenant_id = $1
			  ORDER BY s.created_at DESC
			  LIMIT $2 OFFSET $3`

	rows, err := querier.QueryContext(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list secrets")
	}
	defer rows.Close()

	var secrets []*secretsDomain.Secret
	for rows.Next() {
		var secret secretsDomain.Secret
		if err := rows.Scan(
			&secret.ID,
			&secret.Name,
			&secret.Expiration,
			&secret.Status,
			&secret.CreatedAt,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan secret")
		}
		secrets = append(secrets, &secret)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate secrets")
	}

	return secrets, nil
}

// Count returns the number of secrets owned by the tenant.
func (p *PostgreSQLSecretRepository) Count(ctx context.Context, tenantID uuid.UUID) (int, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT COUNT(*)
			  FROM tenant_secrets
			  WHERE tenant_id = $1`

	var count int
	if err := querier.QueryRowContext(ctx, query, tenantID).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count secrets")
	}
	return count, nil
}

// UpdateStatus changes a secret's status.
func (p *PostgreSQLSecretRepository) UpdateStatus(
	ctx context.Context,
	secretID uuid.UUID,
	status secretsDomain.Status,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE secrets SET status = $1 WHERE id = $2`

	_, err := querier.ExecContext(ctx, query, status, secretID)
	if err != nil {
		return apperrors.Wrap(err, "failed to update secret status")
	}
	return nil
}

// Delete removes a secret. Associated rows in tenant_secrets and
// encrypted_data are removed by the schema's cascade rules.
func (p *PostgreSQLSecretRepository) Delete(ctx context.Context, secretID uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM secrets WHERE id = $1`

	_, err := querier.ExecContext(ctx, query, secretID)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete secret")
	}
	return nil
}

package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/jfwood/barbican/internal/database"
	apperrors "github.com/jfwood/barbican/internal/errors"
	secretsDomain "github.com/jfwood/barbican/internal/secrets/domain"
)

// PostgreSQLEncryptedDatumRepository implements EncryptedDatum persistence
// for PostgreSQL.
type PostgreSQLEncryptedDatumRepository struct {
	db *sql.DB
}

// NewPostgreSQLEncryptedDatumRepository creates a new PostgreSQL
// EncryptedDatum repository.
func NewPostgreSQLEncryptedDatumRepository(db *sql.DB) *PostgreSQLEncryptedDatumRepository {
	return &PostgreSQLEncryptedDatumRepository{db: db}
}

// Create inserts a new encrypted datum.
func (p *PostgreSQLEncryptedDatumRepository) Create(
	ctx context.Context,
	datum *secretsDomain.EncryptedDatum,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO encrypted_data (id, secret_id, mime_type, cypher_text, kek_metadata, status, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := querier.ExecContext(
		ctx,
		query,
		datum.ID,
		datum.SecretID,
		datum.MimeType,
		datum.CypherText,
		datum.KekMetadata,
		datum.Status,
		datum.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create encrypted datum")
	}
	return nil
}

// ListBySecret retrieves all encrypted data for a secret ordered by creation
// time ascending, so later data wins when representations are folded into
// content types.
func (p *PostgreSQLEncryptedDatumRepository) ListBySecret(
	ctx context.Context,
	secretID uuid.UUID,
) ([]*secretsDomain.EncryptedDatum, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, secret_id, mime_type, cypher_text, kek_metadata, status, created_at
			  FROM encrypted_data
			  WHERE secret_id = $1
			  ORDER BY created_at ASC`

	rows, err := querier.QueryContext(ctx, query, secretID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list encrypted data")
	}
	defer rows.Close()

	var data []*secretsDomain.EncryptedDatum
	for rows.Next() {
		var datum secretsDomain.EncryptedDatum
		if err := rows.Scan(
			&datum.ID,
			&datum.SecretID,
			&datum.MimeType,
			&datum.CypherText,
			&datum.KekMetadata,
			&datum.Status,
			&datum.CreatedAt,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan encrypted datum")
		}
		data = append(data, &datum)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate encrypted data")
	}

	return data, nil
}

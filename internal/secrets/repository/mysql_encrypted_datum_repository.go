package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/jfwood/barbican/internal/database"
	apperrors "github.com/jfwood/barbican/internal/errors"
	secretsDomain "github.com/jfwood/barbican/internal/secrets/domain"
)

// MySQLEncryptedDatumRepository implements EncryptedDatum persistence for
// MySQL.
type MySQLEncryptedDatumRepository struct {
	db *sql.DB
}

// NewMySQLEncryptedDatumRepository creates a new MySQL EncryptedDatum
// repository.
func NewMySQLEncryptedDatumRepository(db *sql.DB) *MySQLEncryptedDatumRepository {
	return &MySQLEncryptedDatumRepository{db: db}
}

// Create inserts a new encrypted datum.
func (m *MySQLEncryptedDatumRepository) Create(
	ctx context.Context,
	datum *secretsDomain.EncryptedDatum,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO encrypted_data (id, secret_id, mime_type, cypher_text, kek_metadata, status, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	id, err := datum.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal datum id")
	}
	secretID, err := datum.SecretID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal secret id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		secretID,
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
// time ascending.
func (m *MySQLEncryptedDatumRepository) ListBySecret(
	ctx context.Context,
	secretID uuid.UUID,
) ([]*secretsDomain.EncryptedDatum, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, secret_id, mime_type, cypher_text, kek_metadata, status, created_at
			  FROM encrypted_data
			  WHERE secret_id = ?
			  ORDER BY created_at ASC`

	secretIDBytes, err := secretID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal secret id")
	}

	rows, err := querier.QueryContext(ctx, query, secretIDBytes)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list encrypted data")
	}
	defer rows.Close()

	var data []*secretsDomain.EncryptedDatum
	for rows.Next() {
		var datum secretsDomain.EncryptedDatum
		var id, sid []byte
		if err := rows.Scan(
			&id,
			&sid,
			&datum.MimeType,
			&datum.CypherText,
			&datum.KekMetadata,
			&datum.Status,
			&datum.CreatedAt,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan encrypted datum")
		}
		if err := datum.ID.UnmarshalBinary(id); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal datum id")
		}
		if err := datum.SecretID.UnmarshalBinary(sid); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal secret id")
		}
		data = append(data, &datum)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate encrypted data")
	}

	return data, nil
}

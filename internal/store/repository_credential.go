package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/andres-sumihe/workspace-organizer-sub004/internal/logger"
	"github.com/andres-sumihe/workspace-organizer-sub004/models"
)

// credentialRepository is the sqlite-backed implementation of
// [CredentialRepository]. Rows hold only sealed payloads; nothing in this
// table is readable without the vault's in-memory key.
type credentialRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewCredentialRepository constructs a [CredentialRepository] backed by the
// provided local database connection and logger.
func NewCredentialRepository(db *DB, logger *logger.Logger) CredentialRepository {
	logger.Debug().Msg("creating credential repository")
	return &credentialRepository{
		db:     db,
		logger: logger,
	}
}

// CreateCredential inserts a sealed credential and returns the persisted
// row with server-assigned timestamps.
func (r *credentialRepository) CreateCredential(ctx context.Context, credential models.Credential) (models.Credential, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, createCredential,
		credential.CredentialID, credential.Title, credential.Type, nullableString(credential.ProjectID),
		credential.Ciphertext, credential.Nonce, credential.AuthTag)

	var created models.Credential
	if err := scanCredential(row, &created); err != nil {
		log.Err(err).Str("func", "*credentialRepository.CreateCredential").Msg("error: scanning error")
		return models.Credential{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return created, nil
}

// ListCredentials returns every stored credential. Callers strip the sealed
// fields before returning metadata to clients.
func (r *credentialRepository) ListCredentials(ctx context.Context) ([]models.Credential, error) {
	log := logger.FromContext(ctx)

	rows, err := r.db.QueryContext(ctx, listCredentials)
	if err != nil {
		log.Err(err).Str("func", "*credentialRepository.ListCredentials").Msg("error: executing error")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var credentials []models.Credential
	for rows.Next() {
		var c models.Credential
		if err = scanCredential(rows, &c); err != nil {
			log.Err(err).Str("func", "*credentialRepository.ListCredentials").Msg("error: scanning error")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		credentials = append(credentials, c)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return credentials, nil
}

// FindCredentialByID retrieves one credential row.
// Returns [ErrCredentialNotFound] on an empty result.
func (r *credentialRepository) FindCredentialByID(ctx context.Context, credentialID string) (models.Credential, error) {
	log := logger.FromContext(ctx)

	var found models.Credential
	row := r.db.QueryRowContext(ctx, findCredentialByID, credentialID)

	if err := scanCredential(row, &found); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Credential{}, ErrCredentialNotFound
		}
		log.Err(err).Str("func", "*credentialRepository.FindCredentialByID").Msg("error: scanning error")
		return models.Credential{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return found, nil
}

// DeleteCredential removes one credential row.
// Returns [ErrCredentialNotFound] when nothing was deleted.
func (r *credentialRepository) DeleteCredential(ctx context.Context, credentialID string) error {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, deleteCredential, credentialID)
	if err != nil {
		log.Err(err).Str("func", "*credentialRepository.DeleteCredential").Msg("error: executing error")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrCredentialNotFound
	}

	return nil
}

// DeleteAllCredentials wipes the credentials table. Only the destructive
// local reset calls this.
func (r *credentialRepository) DeleteAllCredentials(ctx context.Context) error {
	log := logger.FromContext(ctx)

	if _, err := r.db.ExecContext(ctx, deleteAllCredentials); err != nil {
		log.Err(err).Str("func", "*credentialRepository.DeleteAllCredentials").Msg("error: executing error")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scan logic.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCredential(row rowScanner, c *models.Credential) error {
	return row.Scan(&c.CredentialID, &c.Title, &c.Type, &c.ProjectID,
		&c.Ciphertext, &c.Nonce, &c.AuthTag, &c.CreatedAt, &c.UpdatedAt)
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/andres-sumihe/workspace-organizer-sub004/internal/logger"
)

// schemaRepository is the postgres-backed implementation of
// [SchemaRepository]. It only ever reads schema_info; schema evolution is
// operator-run, never applied by this process implicitly.
type schemaRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewSchemaRepository constructs a [SchemaRepository] backed by the
// provided shared database connection and logger.
func NewSchemaRepository(db *DB, logger *logger.Logger) SchemaRepository {
	logger.Debug().Msg("creating schema repository")
	return &schemaRepository{
		db:     db,
		logger: logger,
	}
}

// GetSchemaVersion reads the shared store's declared schema version.
// A missing schema_info row reads as version 0, which the mode gateway
// treats as incompatible.
func (r *schemaRepository) GetSchemaVersion(ctx context.Context) (int, error) {
	log := logger.FromContext(ctx)

	ctx, cancel := context.WithTimeout(ctx, sharedQueryTimeout)
	defer cancel()

	var version int
	row := r.db.QueryRowContext(ctx, getSchemaVersion)
	if err := row.Scan(&version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		log.Err(err).Str("func", "*schemaRepository.GetSchemaVersion").Msg("error: scanning error")
		return 0, classifySharedError(err)
	}

	return version, nil
}

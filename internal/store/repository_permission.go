package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/andres-sumihe/workspace-organizer-sub004/internal/logger"
)

// permissionRepository is the postgres-backed implementation of
// [PermissionRepository]. Permission strings are resolved per request by
// joining role assignments; nothing is cached between requests.
type permissionRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewPermissionRepository constructs a [PermissionRepository] backed by the
// provided shared database connection and logger.
func NewPermissionRepository(db *DB, logger *logger.Logger) PermissionRepository {
	logger.Debug().Msg("creating permission repository")
	return &permissionRepository{
		db:     db,
		logger: logger,
	}
}

// ResolvePermissions returns the distinct "resource:action" strings granted
// to userID through its role assignments.
func (r *permissionRepository) ResolvePermissions(ctx context.Context, userID int64) ([]string, error) {
	log := logger.FromContext(ctx)

	ctx, cancel := context.WithTimeout(ctx, sharedQueryTimeout)
	defer cancel()

	query, args, err := sq.
		Select("rp.resource || ':' || rp.action").
		Distinct().
		From("role_permissions rp").
		Join("user_roles ur ON ur.role_id = rp.role_id").
		Where(sq.Eq{"ur.user_id": userID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*permissionRepository.ResolvePermissions").Msg("error: building query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*permissionRepository.ResolvePermissions").Msg("error: executing query")
		return nil, classifySharedError(err)
	}
	defer rows.Close()

	var permissions []string
	for rows.Next() {
		var permission string
		if err = rows.Scan(&permission); err != nil {
			log.Err(err).Str("func", "*permissionRepository.ResolvePermissions").Msg("error: scanning error")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		permissions = append(permissions, permission)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return permissions, nil
}

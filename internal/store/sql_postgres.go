package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/andres-sumihe/workspace-organizer-sub004/internal/config"
	"github.com/andres-sumihe/workspace-organizer-sub004/internal/logger"
	"github.com/jackc/pgx/v5/pgconn"
)

// sharedConnectTimeout bounds the initial ping so a dead shared store
// degrades the installation to solo mode instead of hanging startup.
const sharedConnectTimeout = 5 * time.Second

// NewConnectShared opens the shared postgres store named by cfg.DSN.
// A failure to connect is reported as [ErrSharedStoreUnavailable]; the
// caller (ModeGateway) treats that as solo operation, not as a fatal error.
func NewConnectShared(ctx context.Context, cfg config.SharedDB, log *logger.Logger) (*DB, error) {
	// establish connection
	conn, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		log.Err(err).Str("func", "NewConnectShared").Msg("error occured during shared database connection")
		return nil, fmt.Errorf("%w: %w", ErrSharedStoreUnavailable, err)
	}

	// setup connections
	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(4)

	// ping database with a bounded deadline
	pingCtx, cancel := context.WithTimeout(ctx, sharedConnectTimeout)
	defer cancel()
	if err = conn.PingContext(pingCtx); err != nil {
		log.Err(err).Str("func", "NewConnectShared").Msg("error connecting shared database (ping)")
		return nil, fmt.Errorf("%w: %w", ErrSharedStoreUnavailable, err)
	}
	log.Info().Str("func", "NewConnectShared").Msg("connected to shared database successfully")

	return &DB{
		DB:     conn,
		logger: log,
	}, nil
}

func postgresError(err error) string {
	var pgErr *pgconn.PgError
	// if postgres returns error
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}

	return ""
}

package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrUserAlreadyExists is returned by CreateUser when any user row is
	// already present. The installation is single-user: existence of one
	// account blocks creation of another regardless of the input.
	ErrUserAlreadyExists = errors.New("a local user already exists")

	// ErrNoUserWasFound is returned when a lookup expected to match a user
	// record produces an empty result set.
	ErrNoUserWasFound = errors.New("no user was found")

	// ErrSessionNotFound is returned when a session lookup by id or
	// refresh token matches nothing. Covers both unknown and already
	// deleted sessions, so logout stays idempotent.
	ErrSessionNotFound = errors.New("session not found")

	// ErrCredentialNotFound is returned when a credential lookup by id
	// matches nothing for the requesting installation.
	ErrCredentialNotFound = errors.New("credential not found")

	// ErrSettingNotFound is returned by the settings store when the
	// requested key has never been written or has been deleted.
	ErrSettingNotFound = errors.New("setting not found")

	// ErrAppInfoNotFound is returned when the shared store has no identity
	// row yet, meaning initializeAppInfo has not run against it.
	ErrAppInfoNotFound = errors.New("app info not found")

	// ErrSharedStoreUnavailable wraps connection-level failures against
	// the shared store (timeouts, refused connections). Surfaced instead
	// of blocking indefinitely.
	ErrSharedStoreUnavailable = errors.New("shared store unavailable")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails (e.g. invalid argument count or unsupported type).
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to execute statement")

	// ErrScanningRow is returned when scanning column values from a single
	// result row into a destination struct fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when scanning column values during
	// multi-row iteration fails, typically mid-result-set.
	ErrScanningRows = errors.New("failed to scan rows")
)

package store

// Local sqlite schema. Applied idempotently on every startup.
const localSchema = `
CREATE TABLE IF NOT EXISTS users (
    user_id       INTEGER PRIMARY KEY AUTOINCREMENT,
    username      TEXT NOT NULL UNIQUE,
    email         TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    display_name  TEXT NOT NULL DEFAULT '',
    active        INTEGER NOT NULL DEFAULT 1,
    created_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS sessions (
    session_id       TEXT PRIMARY KEY,
    user_id          INTEGER NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
    refresh_token    TEXT NOT NULL UNIQUE,
    expires_at       TIMESTAMP NOT NULL,
    client_ip        TEXT NOT NULL DEFAULT '',
    user_agent       TEXT NOT NULL DEFAULT '',
    created_at       TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    last_activity_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS credentials (
    credential_id TEXT PRIMARY KEY,
    title         TEXT NOT NULL,
    type          TEXT NOT NULL,
    project_id    TEXT,
    ciphertext    TEXT NOT NULL,
    nonce         TEXT NOT NULL,
    auth_tag      TEXT NOT NULL,
    created_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS settings (
    key        TEXT PRIMARY KEY,
    value      TEXT NOT NULL,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// Local user queries.
const (
	countUsers = `SELECT COUNT(*) FROM users;`

	createUser = `INSERT INTO users (username, email, password_hash, display_name, active)
    VALUES (?, ?, ?, ?, ?)
    RETURNING user_id, username, email, password_hash, display_name, active, created_at, updated_at;`

	findUserByLogin = `SELECT user_id, username, email, password_hash, display_name, active, created_at, updated_at
    FROM users
    WHERE username = ? OR email = ?;`

	findUserByID = `SELECT user_id, username, email, password_hash, display_name, active, created_at, updated_at
    FROM users
    WHERE user_id = ?;`

	updatePasswordHash = `UPDATE users
    SET password_hash = ?, updated_at = CURRENT_TIMESTAMP
    WHERE user_id = ?;`

	deleteAllUsers = `DELETE FROM users;`
)

// Local session queries.
const (
	createSession = `INSERT INTO sessions (session_id, user_id, refresh_token, expires_at, client_ip, user_agent, created_at, last_activity_at)
    VALUES (?, ?, ?, ?, ?, ?, ?, ?);`

	findSessionByRefreshToken = `SELECT session_id, user_id, refresh_token, expires_at, client_ip, user_agent, created_at, last_activity_at
    FROM sessions
    WHERE refresh_token = ?;`

	touchSession = `UPDATE sessions
    SET last_activity_at = CURRENT_TIMESTAMP, expires_at = ?
    WHERE session_id = ?;`

	deleteSession = `DELETE FROM sessions WHERE session_id = ?;`

	deleteSessionsForUser = `DELETE FROM sessions WHERE user_id = ?;`

	deleteExpiredSessions = `DELETE FROM sessions WHERE expires_at < ?;`

	deleteAllSessions = `DELETE FROM sessions;`
)

// Local credential queries.
const (
	createCredential = `INSERT INTO credentials (credential_id, title, type, project_id, ciphertext, nonce, auth_tag)
    VALUES (?, ?, ?, ?, ?, ?, ?)
    RETURNING credential_id, title, type, COALESCE(project_id, ''), ciphertext, nonce, auth_tag, created_at, updated_at;`

	listCredentials = `SELECT credential_id, title, type, COALESCE(project_id, ''), ciphertext, nonce, auth_tag, created_at, updated_at
    FROM credentials
    ORDER BY created_at;`

	findCredentialByID = `SELECT credential_id, title, type, COALESCE(project_id, ''), ciphertext, nonce, auth_tag, created_at, updated_at
    FROM credentials
    WHERE credential_id = ?;`

	deleteCredential = `DELETE FROM credentials WHERE credential_id = ?;`

	deleteAllCredentials = `DELETE FROM credentials;`
)

// Settings KV queries.
const (
	getSetting = `SELECT value FROM settings WHERE key = ?;`

	upsertSetting = `INSERT INTO settings (key, value, updated_at)
    VALUES (?, ?, CURRENT_TIMESTAMP)
    ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP;`

	deleteSetting = `DELETE FROM settings WHERE key = ?;`
)

// Shared store queries (postgres).
const (
	getAppInfo = `SELECT server_id, team_id, team_name, public_key, created_at
    FROM app_info
    LIMIT 1;`

	createAppInfo = `INSERT INTO app_info (server_id, team_id, team_name, public_key)
    VALUES ($1, $2, $3, $4)
    RETURNING server_id, team_id, team_name, public_key, created_at;`

	createAppSecret = `INSERT INTO app_secret (server_id, private_key)
    VALUES ($1, $2);`

	getSigningKey = `SELECT app_secret.private_key
    FROM app_secret
    JOIN app_info ON app_info.server_id = app_secret.server_id;`

	getSchemaVersion = `SELECT version FROM schema_info LIMIT 1;`
)

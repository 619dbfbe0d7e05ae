package models

// APIError is the error body returned by every failing endpoint.
type APIError struct {
	Code    string           `json:"code"`
	Message string           `json:"message"`
	Details []APIErrorDetail `json:"details,omitempty"`
}

// APIErrorDetail is a structured element of an error response, used for
// example to name the exact permission missing from a forbidden request.
type APIErrorDetail struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// API error codes shared between the handler layer and clients.
const (
	CodeBadRequest         = "BAD_REQUEST"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeNotFound           = "NOT_FOUND"
	CodeConflict           = "CONFLICT"
	CodeInternal           = "INTERNAL_ERROR"
	CodeTokenExpired       = "TOKEN_EXPIRED"
	CodeSessionExpired     = "SESSION_EXPIRED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeUserDisabled       = "USER_DISABLED"
	CodeAlreadySetUp       = "ALREADY_SET_UP"
	CodeVaultNotSetUp      = "VAULT_NOT_SET_UP"
	CodeVaultLocked        = "VAULT_LOCKED"
	CodeIncorrectPassword  = "INCORRECT_PASSWORD"
	CodeWeakPassword       = "WEAK_PASSWORD"
	CodeMissingPermission  = "MISSING_PERMISSION"
	CodeTrustServerChanged = "TRUST_SERVER_CHANGED"
	CodeTrustTeamChanged   = "TRUST_TEAM_CHANGED"
	CodeTrustKeyChanged    = "TRUST_KEY_CHANGED"
	CodeSchemaIncompatible = "SCHEMA_INCOMPATIBLE"
	CodeSharedUnavailable  = "SHARED_STORE_UNAVAILABLE"
)

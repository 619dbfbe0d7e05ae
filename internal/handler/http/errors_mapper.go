package http

import (
	"errors"
	"net/http"

	"github.com/andres-sumihe/workspace-organizer-sub004/internal/logger"
	"github.com/andres-sumihe/workspace-organizer-sub004/internal/service"
	"github.com/andres-sumihe/workspace-organizer-sub004/internal/store"
	"github.com/andres-sumihe/workspace-organizer-sub004/internal/utils"
	"github.com/andres-sumihe/workspace-organizer-sub004/models"
)

// errorClass pairs the HTTP status of a failure with the stable machine
// code clients branch on.
type errorClass struct {
	status int
	code   string
}

var errorStatusMap = map[error]errorClass{
	service.ErrInvalidDataProvided:     {http.StatusBadRequest, models.CodeBadRequest},
	service.ErrInvalidCredentials:      {http.StatusUnauthorized, models.CodeInvalidCredentials},
	service.ErrWrongPassword:           {http.StatusUnauthorized, models.CodeInvalidCredentials},
	service.ErrUserDisabled:            {http.StatusForbidden, models.CodeUserDisabled},
	service.ErrTokenIsExpired:          {http.StatusUnauthorized, models.CodeTokenExpired},
	service.ErrTokenIsInvalid:          {http.StatusUnauthorized, models.CodeUnauthorized},
	service.ErrInvalidRefreshToken:     {http.StatusUnauthorized, models.CodeUnauthorized},
	service.ErrRefreshTokenExpired:     {http.StatusUnauthorized, models.CodeTokenExpired},
	service.ErrSessionLocked:           {http.StatusUnauthorized, models.CodeSessionExpired},
	service.ErrConfirmationPhraseWrong: {http.StatusBadRequest, models.CodeBadRequest},
	service.ErrUnauthorized:            {http.StatusUnauthorized, models.CodeUnauthorized},
	service.ErrForbidden:               {http.StatusForbidden, models.CodeForbidden},

	service.ErrVaultNotSetUp:          {http.StatusConflict, models.CodeVaultNotSetUp},
	service.ErrVaultAlreadySetUp:      {http.StatusConflict, models.CodeAlreadySetUp},
	service.ErrVaultPasswordTooWeak:   {http.StatusBadRequest, models.CodeWeakPassword},
	service.ErrVaultIncorrectPassword: {http.StatusUnauthorized, models.CodeIncorrectPassword},
	service.ErrVaultLocked:            {http.StatusForbidden, models.CodeVaultLocked},

	service.ErrNoTeamBinding:            {http.StatusNotFound, models.CodeNotFound},
	service.ErrBindingServerMismatch:    {http.StatusConflict, models.CodeTrustServerChanged},
	service.ErrBindingTeamMismatch:      {http.StatusConflict, models.CodeTrustTeamChanged},
	service.ErrBindingKeyMismatch:       {http.StatusConflict, models.CodeTrustKeyChanged},
	service.ErrAttestationInvalid:       {http.StatusConflict, models.CodeConflict},
	service.ErrSharedModeNotAvailable:   {http.StatusServiceUnavailable, models.CodeSharedUnavailable},
	service.ErrSharedSchemaIncompatible: {http.StatusConflict, models.CodeSchemaIncompatible},

	store.ErrUserAlreadyExists:      {http.StatusConflict, models.CodeAlreadySetUp},
	store.ErrNoUserWasFound:         {http.StatusNotFound, models.CodeNotFound},
	store.ErrSessionNotFound:        {http.StatusUnauthorized, models.CodeUnauthorized},
	store.ErrCredentialNotFound:     {http.StatusNotFound, models.CodeNotFound},
	store.ErrSettingNotFound:        {http.StatusNotFound, models.CodeNotFound},
	store.ErrAppInfoNotFound:        {http.StatusNotFound, models.CodeNotFound},
	store.ErrSharedStoreUnavailable: {http.StatusServiceUnavailable, models.CodeSharedUnavailable},

	store.ErrBuildingSQLQuery:   {http.StatusInternalServerError, models.CodeInternal},
	store.ErrExecutingQuery:     {http.StatusInternalServerError, models.CodeInternal},
	store.ErrExecutingStatement: {http.StatusInternalServerError, models.CodeInternal},
	store.ErrScanningRow:        {http.StatusInternalServerError, models.CodeInternal},
	store.ErrScanningRows:       {http.StatusInternalServerError, models.CodeInternal},
}

func classifyError(err error) errorClass {
	for target, class := range errorStatusMap {
		if errors.Is(err, target) {
			return class
		}
	}
	return errorClass{http.StatusInternalServerError, models.CodeInternal}
}

// writeError maps err to its {status, code} pair and writes the standard
// error body. Missing-permission failures additionally carry a details
// entry naming the exact permission the caller lacked. Internal failures
// never leak their message to the client.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromRequest(r)

	class := classifyError(err)

	body := models.APIError{
		Code:    class.code,
		Message: err.Error(),
	}
	if class.status == http.StatusInternalServerError {
		body.Message = http.StatusText(http.StatusInternalServerError)
	}

	if missing, ok := service.MissingPermission(err); ok {
		body.Details = append(body.Details, models.APIErrorDetail{
			Field:   "permission",
			Code:    models.CodeMissingPermission,
			Message: "Required permission: " + missing.Required(),
		})
	}

	if class.status >= http.StatusInternalServerError {
		log.Err(err).Msg("request failed")
	} else {
		log.Debug().Err(err).Int("status", class.status).Send()
	}

	utils.WriteJSON(w, body, class.status)
}

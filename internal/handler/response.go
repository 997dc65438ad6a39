package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	apperrors "github.com/lagreelink/marketplace-server/internal/errors"
	"github.com/lagreelink/marketplace-server/internal/httputil"
)

var validate = validator.New()

func writeJSON(w http.ResponseWriter, status int, data any) {
	httputil.WriteJSON(w, status, data)
}

// writeError logs unexpected failures and maps known error codes onto their
// HTTP statuses.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	if !apperrors.IsAppError(err) {
		log.Error().Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")
	}
	httputil.WriteError(w, err)
}

// checkStruct runs validator tags on a decoded request body.
func checkStruct(v any) error {
	if err := validate.Struct(v); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			return apperrors.MissingRequired(errs[0].Field())
		}
		return apperrors.ValidationError("Invalid request body")
	}
	return nil
}

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/mycelian/mycelian-identities/server/internal/api/respond"
	"github.com/mycelian/mycelian-identities/server/internal/services"
)

// writeServiceError maps domain errors to 400/404/409 and anything else to 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		ve services.ValidationError
		ne services.NotFoundError
		ce services.ConflictError
	)
	switch {
	case errors.As(err, &ve):
		respond.WriteFieldError(w, http.StatusBadRequest, ve.Field, ve.Message)
	case errors.As(err, &ne):
		respond.WriteFieldError(w, http.StatusNotFound, ne.Field, ne.Message)
	case errors.As(err, &ce):
		respond.WriteFieldError(w, http.StatusConflict, ce.Field, ce.Message)
	default:
		log.Error().Stack().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
		respond.WriteInternalError(w, "internal server error")
	}
}

// decode reads a JSON body into v, writing 400 on failure.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return false
	}
	return true
}

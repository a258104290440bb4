package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/rpupo63/essay-board-backend/errs"
)

type Responder struct {
	logger zerolog.Logger
}

func NewResponder(logger zerolog.Logger) Responder {
	return Responder{logger}
}

// WriteJSON marshals data and writes it with the given status code.
func (r Responder) WriteJSON(w http.ResponseWriter, status int, data any) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		r.logger.Error().Err(err).Msg("error marshaling response data")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(jsonData); err != nil {
		r.logger.Error().Err(err).Msg("error writing response")
	}
}

// WriteError maps err to a JSON error response. Server errors are logged with
// their full cause chain; the body never carries the cause.
func (r Responder) WriteError(w http.ResponseWriter, err error) {
	var apiErr *errs.ApiErr

	if !errors.As(err, &apiErr) {
		r.logger.Error().Err(err).Msg("unexpected error")
		r.writeInternalError(w)
		return
	}

	if apiErr.IsServerError() {
		r.logger.Error().
			Int("status", apiErr.StatusCode).
			Str("error", apiErr.GetFullError()).
			Msg("request failed")
		if apiErr.StatusCode == http.StatusInternalServerError {
			r.writeInternalError(w)
			return
		}
		r.WriteJSON(w, apiErr.StatusCode, newErrorResponse(apiErr.Message(), "error", apiErr.Details))
		return
	}

	if errs.IsValidationError(apiErr) {
		resp := newErrorResponse("Validation failed", "validation_error", "")
		resp.Field = apiErr.Field
		resp.Errors = errs.Violations(apiErr)
		r.WriteJSON(w, apiErr.StatusCode, resp)
		return
	}

	resp := newErrorResponse(apiErr.Message(), "error", apiErr.Details)
	resp.Field = apiErr.Field
	r.WriteJSON(w, apiErr.StatusCode, resp)
}

func (r Responder) writeInternalError(w http.ResponseWriter) {
	r.WriteJSON(w, http.StatusInternalServerError,
		newErrorResponse("Internal Server Error", "error", "An unexpected error occurred"))
}

// wrapDatabaseError wraps a database error with context information
func wrapDatabaseError(operation, entity string, cause error) error {
	return errs.NewDatabaseError(operation, entity, cause)
}

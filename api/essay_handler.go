package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/essay-board-backend/database"
	"github.com/rpupo63/essay-board-backend/errs"
	"github.com/rpupo63/essay-board-backend/models"
)

const (
	defaultPage         = 1
	defaultLimit        = 20
	defaultMaxPageLimit = 100

	maxBodySize = 1 << 20 // 1 MiB
)

type essayHandler struct {
	responder    Responder
	logger       zerolog.Logger
	essayRepo    database.EssayRepo
	maxPageLimit int
}

func newEssayHandler(essayRepo database.EssayRepo, maxPageLimit int) essayHandler {
	logger := log.With().Str("handlerName", "essayHandler").Logger()

	return essayHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		essayRepo:    essayRepo,
		maxPageLimit: maxPageLimit,
	}
}

// getAllEssays lists one page of essays, newest first.
// GET /api/essays?page=&limit=
func (h essayHandler) getAllEssays() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		page := parsePositiveInt(query.Get("page"), defaultPage)
		limit := min(parsePositiveInt(query.Get("limit"), defaultLimit), h.maxPageLimit)

		result, err := h.essayRepo.List(r.Context(), page, limit)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("list", "essays", err))
			return
		}

		response := essayListResponse{
			Essays: make([]essayResponse, 0, len(result.Essays)),
			Total:  result.Total,
		}
		for _, essay := range result.Essays {
			response.Essays = append(response.Essays, newEssayResponse(essay))
		}

		h.responder.WriteJSON(w, http.StatusOK, response)
	}
}

// getEssay returns one essay.
// GET /api/essays/{essayID}
func (h essayHandler) getEssay() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		essayID := chi.URLParam(r, "essayID")

		essay, err := h.essayRepo.FindByID(r.Context(), essayID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "essay", err))
			return
		}
		if essay == nil {
			h.responder.WriteError(w, errs.NewNotFound("Essay"))
			return
		}

		h.responder.WriteJSON(w, http.StatusOK, newEssayResponse(*essay))
	}
}

// createEssay validates the full field set and stores a new essay.
// POST /api/essays
func (h essayHandler) createEssay() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := decodeEssayRequest(w, r)
		if err != nil {
			h.logDecodeFailure(err)
			h.responder.WriteError(w, err)
			return
		}

		input, err := req.toInput()
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		essay, err := h.essayRepo.Add(r.Context(), input)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "essay", err))
			return
		}

		h.logger.Info().Str("essayID", essay.ID).Msg("Essay created")
		h.responder.WriteJSON(w, http.StatusCreated, newEssayResponse(*essay))
	}
}

// updateEssay applies a partial update.
// PUT /api/essays/{essayID}
func (h essayHandler) updateEssay() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		essayID := chi.URLParam(r, "essayID")

		req, err := decodeEssayRequest(w, r)
		if err != nil {
			h.logDecodeFailure(err)
			h.responder.WriteError(w, err)
			return
		}

		patch, err := req.toPatch()
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		essay, err := h.essayRepo.Update(r.Context(), essayID, patch)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "essay", err))
			return
		}
		if essay == nil {
			h.responder.WriteError(w, errs.NewNotFound("Essay"))
			return
		}

		h.logger.Info().Str("essayID", essay.ID).Msg("Essay updated")
		h.responder.WriteJSON(w, http.StatusOK, newEssayResponse(*essay))
	}
}

// deleteEssay removes an essay permanently.
// DELETE /api/essays/{essayID}
func (h essayHandler) deleteEssay() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		essayID := chi.URLParam(r, "essayID")

		removed, err := h.essayRepo.Delete(r.Context(), essayID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "essay", err))
			return
		}
		if !removed {
			h.responder.WriteError(w, errs.NewNotFound("Essay"))
			return
		}

		h.logger.Info().Str("essayID", essayID).Msg("Essay deleted")
		h.responder.WriteJSON(w, http.StatusOK, statusResponse{
			Status:  "success",
			Message: "Essay deleted successfully",
		})
	}
}

func (h essayHandler) logDecodeFailure(err error) {
	switch {
	case errs.IsMaxBodySizeExceededError(err):
		h.logger.Warn().Err(err).Msg("Essay request body too large")
	case errs.IsInvalidJSONError(err), errs.IsMalformedPayloadError(err):
		h.logger.Debug().Err(err).Msg("Failed to decode essay request body")
	}
}

// decodeEssayRequest reads exactly one JSON value of at most maxBodySize
// bytes. Unknown keys, including id and createdAt, are ignored.
func decodeEssayRequest(w http.ResponseWriter, r *http.Request) (essayRequest, error) {
	var req essayRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	dec := json.NewDecoder(r.Body)

	if err := dec.Decode(&req); err != nil {
		return nil, decodeError(err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, errs.NewMaxBodySizeExceededError(maxErr.Limit)
		}
		return nil, errs.NewMalformedPayloadError("essay", err)
	}
	return req, nil
}

func decodeError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return errs.NewMaxBodySizeExceededError(maxErr.Limit)
	}
	return errs.NewInvalidJSONError(err)
}

// essayFields lists the accepted body fields in the order violations are
// reported. Required fields carry the message shown when they are empty.
var essayFields = []struct {
	name            string
	requiredMessage string
}{
	{"title", "Title is required"},
	{"author", "Author is required"},
	{"why", "Please explain why you recommend this essay"},
	{"source", ""},
	{"pseudonym", ""},
}

// validate checks every known field. With partial set, absent fields are
// allowed; present fields must still be strings, and required ones non-empty.
// An explicit null is never accepted.
func (req essayRequest) validate(partial bool) (map[string]*string, []errs.FieldViolation) {
	values := make(map[string]*string, len(essayFields))
	var violations []errs.FieldViolation

	for _, f := range essayFields {
		raw, present := req[f.name]
		if !present {
			if f.requiredMessage != "" && !partial {
				violations = append(violations, errs.FieldViolation{Field: f.name, Message: f.requiredMessage})
			}
			continue
		}

		if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			violations = append(violations, errs.FieldViolation{Field: f.name, Message: "Expected string, received null"})
			continue
		}

		var value string
		if err := json.Unmarshal(raw, &value); err != nil {
			violations = append(violations, errs.FieldViolation{Field: f.name, Message: "Expected string"})
			continue
		}
		if value == "" && f.requiredMessage != "" {
			violations = append(violations, errs.FieldViolation{Field: f.name, Message: f.requiredMessage})
			continue
		}
		values[f.name] = &value
	}

	return values, violations
}

// toInput validates a create request. Every required field must be present
// and non-empty.
func (req essayRequest) toInput() (models.EssayInput, error) {
	values, violations := req.validate(false)
	if len(violations) > 0 {
		return models.EssayInput{}, errs.NewValidationError(violations)
	}

	return models.EssayInput{
		Title:     *values["title"],
		Author:    *values["author"],
		Why:       *values["why"],
		Source:    values["source"],
		Pseudonym: values["pseudonym"],
	}, nil
}

// toPatch validates an update request. Fields are optional, but a present
// required field must not be empty.
func (req essayRequest) toPatch() (models.EssayPatch, error) {
	values, violations := req.validate(true)
	if len(violations) > 0 {
		return models.EssayPatch{}, errs.NewValidationError(violations)
	}

	return models.EssayPatch{
		Title:     values["title"],
		Author:    values["author"],
		Why:       values["why"],
		Source:    values["source"],
		Pseudonym: values["pseudonym"],
	}, nil
}

// parsePositiveInt returns def when raw is absent, unparseable or below one.
func parsePositiveInt(raw string, def int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	return n
}

package api

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/essay-board-backend/database"
	"github.com/rpupo63/essay-board-backend/errs"
)

type healthHandler struct {
	responder   Responder
	logger      zerolog.Logger
	essayRepo   database.EssayRepo
	startupTime time.Time
}

func newHealthHandler(essayRepo database.EssayRepo, startupTime time.Time) healthHandler {
	logger := log.With().Str("handlerName", "healthHandler").Logger()

	return healthHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		essayRepo:   essayRepo,
		startupTime: startupTime,
	}
}

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Uptime    string `json:"uptime,omitempty"`
}

// live reports that the process is up.
// GET /health/live
func (h healthHandler) live() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := healthResponse{
			Status:    "ok",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}
		if !h.startupTime.IsZero() {
			resp.Uptime = time.Since(h.startupTime).Round(time.Second).String()
		}
		h.responder.WriteJSON(w, http.StatusOK, resp)
	}
}

// ready reports whether the essay store can be read; 503 when it cannot.
// GET /health/ready
func (h healthHandler) ready() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := healthResponse{
			Status:    "ok",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}

		if _, err := h.essayRepo.List(r.Context(), 1, 1); err != nil {
			h.responder.WriteError(w, errs.NewDatabaseConnectionError(err))
			return
		}

		h.responder.WriteJSON(w, http.StatusOK, resp)
	}
}

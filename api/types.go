package api

import (
	"encoding/json"

	"github.com/rpupo63/essay-board-backend/errs"
	"github.com/rpupo63/essay-board-backend/models"
)

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	essayHandler  essayHandler
	healthHandler healthHandler
}

// ErrorResponse represents an error response from the API. Message repeats
// Error for clients that read {message, errors}.
type ErrorResponse struct {
	Error   string                `json:"error"`
	Message string                `json:"message"`
	Status  string                `json:"status"`
	Field   string                `json:"field,omitempty"`
	Details string                `json:"details,omitempty"`
	Errors  []errs.FieldViolation `json:"errors,omitempty"`
}

func newErrorResponse(message, status, details string) ErrorResponse {
	return ErrorResponse{
		Error:   message,
		Message: message,
		Status:  status,
		Details: details,
	}
}

// essayResponse is an essay as served to clients, with display hints derived
// from the stored fields.
type essayResponse struct {
	models.Essay
	SourceKind  models.SourceKind `json:"sourceKind"`
	DisplayName string            `json:"displayName"`
	SourceURL   string            `json:"sourceUrl,omitempty"`
}

func newEssayResponse(e models.Essay) essayResponse {
	resp := essayResponse{
		Essay:       e,
		SourceKind:  models.SourceNone,
		DisplayName: e.DisplayName(),
	}
	if e.Source != nil {
		resp.SourceKind = models.ClassifySource(*e.Source)
		resp.SourceURL, _ = models.SourceURL(*e.Source)
	}
	return resp
}

type essayListResponse struct {
	Essays []essayResponse `json:"essays"`
	Total  int             `json:"total"`
}

type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// essayRequest is the body of a create or update call, kept raw per key so
// an absent field can be told apart from an explicit null.
type essayRequest map[string]json.RawMessage

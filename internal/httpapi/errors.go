package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"stagedoor/internal/store"
	"stagedoor/internal/workflow"
)

type errorResponse struct {
	Error        string `json:"error"`
	CurrentPhase string `json:"currentPhase,omitempty"`
}

// writeError maps the workflow error taxonomy to HTTP statuses. Invalid
// transitions carry the entity's current phase so the caller can react
// without a second read.
func writeError(w http.ResponseWriter, err error) {
	var transitionErr *workflow.InvalidTransitionError
	if errors.As(err, &transitionErr) {
		writeJSON(w, http.StatusConflict, errorResponse{
			Error:        transitionErr.Error(),
			CurrentPhase: transitionErr.Current,
		})
		return
	}

	switch {
	case errors.Is(err, workflow.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "does not exist"})
	case errors.Is(err, workflow.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "forbidden"})
	case errors.Is(err, workflow.ErrUnauthorized), errors.Is(err, store.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
	case errors.Is(err, workflow.ErrInvalidTransition):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, workflow.ErrConflict):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, workflow.ErrValidation):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

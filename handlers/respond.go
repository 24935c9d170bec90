package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"ironcraft/apperr"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

type errorResponse struct {
	Error  string   `json:"error"`
	Failed []string `json:"failed,omitempty"`
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case apperr.IsValidation(err):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case apperr.IsNotFound(err):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case apperr.IsPartialFailure(err):
		var pf *apperr.PartialFailure
		errors.As(err, &pf)
		failed := make([]string, len(pf.Failed))
		for i, f := range pf.Failed {
			failed[i] = f.Collection + "/" + f.ID
		}
		// Succeeded calls stand; the client retries the failed subset.
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error(), Failed: failed})
	default:
		log.Printf("internal error: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	return true
}

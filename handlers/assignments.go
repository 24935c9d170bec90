package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"ironcraft/models"
	"ironcraft/scheduling"
)

type AssignmentHandler struct {
	repo   *scheduling.Repository
	poster *scheduling.Poster
}

func NewAssignmentHandler(repo *scheduling.Repository, poster *scheduling.Poster) *AssignmentHandler {
	return &AssignmentHandler{repo: repo, poster: poster}
}

type assignmentResponse struct {
	ID string `json:"id"`
	models.Assignment
}

func assignmentsOut(assignments []models.Assignment) []assignmentResponse {
	out := make([]assignmentResponse, len(assignments))
	for i, a := range assignments {
		out[i] = assignmentResponse{ID: a.ID, Assignment: a}
	}
	return out
}

func (h *AssignmentHandler) ListDrafts(w http.ResponseWriter, r *http.Request) {
	drafts, err := h.repo.ListDraftsForJobsite(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, assignmentsOut(drafts))
}

func (h *AssignmentHandler) AssignedNames(w http.ResponseWriter, r *http.Request) {
	names, err := h.repo.ListAssignedContractorNames(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, names)
}

// ReplaceSelection swaps a jobsite's draft selection for a day. An empty
// contractor list clears the day.
func (h *AssignmentHandler) ReplaceSelection(w http.ResponseWriter, r *http.Request) {
	jobsiteID := chi.URLParam(r, "id")

	var req struct {
		Date          string   `json:"date"`
		ContractorIDs []string `json:"contractor_ids"`
		Message       string   `json:"message"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	err := h.repo.ReplaceDraftSelection(r.Context(), jobsiteID, req.Date, req.ContractorIDs, req.Message)
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AssignmentHandler) PostJobsite(w http.ResponseWriter, r *http.Request) {
	if err := h.poster.PostJobsite(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PostAll runs the batch post. The override decision is made here, by the
// operator, before the engine runs; the engine itself never waits on a
// prompt. A response with aborted=true carries the conflicting rows the
// operator must confirm over.
func (h *AssignmentHandler) PostAll(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TargetDate string `json:"target_date"`
		Override   bool   `json:"override"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := h.poster.PostAll(r.Context(), req.TargetDate, req.Override)
	if err != nil {
		writeError(w, err)
		return
	}
	if result.Aborted {
		writeJSON(w, http.StatusConflict, result)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

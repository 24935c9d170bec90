package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"ironcraft/apperr"
	"ironcraft/directory"
	"ironcraft/docstore"
	"ironcraft/models"
)

type DirectoryHandler struct {
	dir   *directory.Service
	store docstore.Store
}

func NewDirectoryHandler(dir *directory.Service, store docstore.Store) *DirectoryHandler {
	return &DirectoryHandler{dir: dir, store: store}
}

func (h *DirectoryHandler) ListContractors(w http.ResponseWriter, r *http.Request) {
	contractors, err := h.dir.ListContractors(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]profileResponse, len(contractors))
	for i := range contractors {
		out[i] = profileOf(&contractors[i])
	}
	writeJSON(w, http.StatusOK, out)
}

// SetContractorRate is the admin path for maintaining hourly rates.
func (h *DirectoryHandler) SetContractorRate(w http.ResponseWriter, r *http.Request) {
	contractorID := chi.URLParam(r, "id")

	var req struct {
		HourlyRate float64 `json:"hourly_rate"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.HourlyRate < 0 {
		writeError(w, apperr.Invalid("hourly_rate", "must not be negative"))
		return
	}
	if _, err := h.dir.GetContractor(r.Context(), contractorID); err != nil {
		writeError(w, err)
		return
	}

	if _, err := h.store.Update(r.Context(), models.ContractorCollection, contractorID,
		map[string]any{"hourly_rate": req.HourlyRate}); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *DirectoryHandler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := h.dir.ListCompanies(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, companiesOut(companies))
}

func (h *DirectoryHandler) CreateCompany(w http.ResponseWriter, r *http.Request) {
	var req models.Company
	if !decodeBody(w, r, &req) {
		return
	}
	created, err := h.dir.CreateCompany(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, companyOut(*created))
}

func (h *DirectoryHandler) DeleteCompany(w http.ResponseWriter, r *http.Request) {
	if err := h.dir.DeleteCompany(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *DirectoryHandler) ListJobsites(w http.ResponseWriter, r *http.Request) {
	jobsites, err := h.dir.ListJobsites(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jobsitesOut(jobsites))
}

func (h *DirectoryHandler) CreateJobsite(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name      string `json:"name"`
		Address   string `json:"address"`
		CompanyID string `json:"company_id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	created, err := h.dir.CreateJobsite(r.Context(), req.Name, req.Address, req.CompanyID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, jobsiteOut(*created))
}

func (h *DirectoryHandler) DeleteJobsite(w http.ResponseWriter, r *http.Request) {
	if err := h.dir.DeleteJobsite(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Response shapes carry the document id alongside the stored fields.

type companyResponse struct {
	ID string `json:"id"`
	models.Company
}

func companyOut(c models.Company) companyResponse {
	return companyResponse{ID: c.ID, Company: c}
}

func companiesOut(companies []models.Company) []companyResponse {
	out := make([]companyResponse, len(companies))
	for i, c := range companies {
		out[i] = companyOut(c)
	}
	return out
}

type jobsiteResponse struct {
	ID string `json:"id"`
	models.Jobsite
}

func jobsiteOut(j models.Jobsite) jobsiteResponse {
	return jobsiteResponse{ID: j.ID, Jobsite: j}
}

func jobsitesOut(jobsites []models.Jobsite) []jobsiteResponse {
	out := make([]jobsiteResponse, len(jobsites))
	for i, j := range jobsites {
		out[i] = jobsiteOut(j)
	}
	return out
}

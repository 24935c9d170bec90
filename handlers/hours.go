package handlers

import (
	"net/http"

	"ironcraft/apperr"
	"ironcraft/directory"
	"ironcraft/ledger"
	"ironcraft/middleware"
)

type HoursHandler struct {
	ledger *ledger.Ledger
	dir    *directory.Service
}

func NewHoursHandler(l *ledger.Ledger, dir *directory.Service) *HoursHandler {
	return &HoursHandler{ledger: l, dir: dir}
}

// SubmitHours records a day's worked hours. The jobsite resolves from the
// contractor's posted assignment for that date; when none exists the
// request must name one explicitly (the manual override path). Admins may
// submit on another contractor's behalf.
func (h *HoursHandler) SubmitHours(w http.ResponseWriter, r *http.Request) {
	self := middleware.ContractorFromContext(r.Context())
	if self == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		ContractorID string   `json:"contractor_id"`
		JobSiteID    string   `json:"job_site_id"`
		Date         string   `json:"date"`
		Hours        float64  `json:"hours"`
		HourlyRate   *float64 `json:"hourly_rate"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	contractor := self
	if req.ContractorID != "" && req.ContractorID != self.ID {
		if !self.IsAdmin() {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		other, err := h.dir.GetContractor(r.Context(), req.ContractorID)
		if err != nil {
			writeError(w, err)
			return
		}
		contractor = other
	}

	jobsiteID := req.JobSiteID
	if jobsiteID == "" {
		jobsite, err := h.ledger.LookupAssignedJobsite(r.Context(), contractor.ID, req.Date)
		if err != nil {
			writeError(w, err)
			return
		}
		if jobsite == nil {
			writeError(w, apperr.Invalid("job_site_id", "no posted assignment for that date, select a jobsite"))
			return
		}
		jobsiteID = jobsite.ID
	}

	rate := contractor.HourlyRate
	if req.HourlyRate != nil {
		rate = *req.HourlyRate
	}

	entry, err := h.ledger.SubmitHours(r.Context(), contractor.ID, jobsiteID, req.Date, req.Hours, rate)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

// LoggedHours returns the caller's entries over an inclusive date range.
// Admins may query any contractor with ?contractor_id=.
func (h *HoursHandler) LoggedHours(w http.ResponseWriter, r *http.Request) {
	self := middleware.ContractorFromContext(r.Context())
	if self == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	contractorID := self.ID
	if other := r.URL.Query().Get("contractor_id"); other != "" && other != self.ID {
		if !self.IsAdmin() {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		contractorID = other
	}

	entries, err := h.ledger.LoggedHours(r.Context(),
		contractorID,
		r.URL.Query().Get("start"),
		r.URL.Query().Get("end"),
	)
	if err != nil {
		writeError(w, err)
		return
	}

	var totalHours float64
	for _, entry := range entries {
		totalHours += entry.Hours
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"entries":     entries,
		"total_hours": totalHours,
	})
}

// AssignedJobsite looks up where the caller is posted on a date. Returns
// null, not 404, when no posted assignment exists.
func (h *HoursHandler) AssignedJobsite(w http.ResponseWriter, r *http.Request) {
	self := middleware.ContractorFromContext(r.Context())
	if self == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	jobsite, err := h.ledger.LookupAssignedJobsite(r.Context(), self.ID, r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, err)
		return
	}
	if jobsite == nil {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	writeJSON(w, http.StatusOK, jobsiteOut(*jobsite))
}

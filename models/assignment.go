package models

// Assignment schedules one contractor at one jobsite on one calendar day.
//
// Rows with Posted=false are mutable scratch state; rows with Posted=true
// are what contractors see and what the ledger trusts. A contractor holds
// at most one draft per day across all jobsites; the same holds for
// posted rows, enforced best-effort by the posting engine.
type Assignment struct {
	Meta
	ContractorID string `json:"contractor_id"`
	JobSiteID    string `json:"job_site_id"`
	Date         string `json:"date"`
	Message      string `json:"message,omitempty"`
	Posted       bool   `json:"posted"`
}

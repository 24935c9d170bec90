package models

// HoursEntry records worked time for one contractor on one day. At most
// one entry exists per (contractor, date); a later submission deletes and
// replaces the earlier one.
type HoursEntry struct {
	Meta
	ContractorID   string  `json:"contractor_id"`
	ContractorName string  `json:"contractor_name"`
	JobSiteID      string  `json:"job_site_id"`
	CompanyID      string  `json:"company_id"`
	Date           string  `json:"date"`
	Hours          float64 `json:"hours"`
	HourlyRate     float64 `json:"hourly_rate"`
	Pay            float64 `json:"pay"`
}

// PayRecord is the legacy independently-computed pay stream. Deprecated:
// HoursEntry is authoritative; these are read only to flag divergence.
type PayRecord struct {
	Meta
	ContractorID string  `json:"contractor_id"`
	Date         string  `json:"date"`
	Pay          float64 `json:"pay"`
}

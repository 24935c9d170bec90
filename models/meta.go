package models

import "time"

// Collection names in the document store.
const (
	ContractorCollection = "contractors"
	CompanyCollection    = "companies"
	JobsiteCollection    = "jobsites"
	AssignmentCollection = "assignments"
	HoursCollection      = "hours"
	PayRecordCollection  = "pay_records"
)

// Meta carries the store-assigned document identity. It is embedded in
// every model and filled in when a document is decoded; it is never part
// of the stored fields.
type Meta struct {
	ID        string    `json:"-"`
	CreatedAt time.Time `json:"-"`
}

func (m *Meta) SetDocMeta(id string, createdAt time.Time) {
	m.ID = id
	m.CreatedAt = createdAt
}

// Package ledger records worked hours and the pay derived from them, one
// entry per contractor per day.
package ledger

import (
	"context"
	"strings"

	"ironcraft/apperr"
	"ironcraft/directory"
	"ironcraft/docstore"
	"ironcraft/models"
)

type Ledger struct {
	store docstore.Store
	dir   *directory.Service
}

func New(store docstore.Store, dir *directory.Service) *Ledger {
	return &Ledger{store: store, dir: dir}
}

// SubmitHours records worked time for one day, superseding any earlier
// entry for the same (contractor, date): the old entry is deleted and a
// fresh one written. Last write wins, never a merge.
//
// The caller asserts the jobsite. A posted assignment is not required;
// the manual override path supplies the jobsite explicitly when no
// assignment resolves for the day.
func (l *Ledger) SubmitHours(ctx context.Context, contractorID, jobsiteID, date string, hours, hourlyRate float64) (*models.HoursEntry, error) {
	day, err := models.Day(date)
	if err != nil {
		return nil, apperr.Invalid("date", err.Error())
	}
	if hours < 0 {
		return nil, apperr.Invalid("hours", "must not be negative")
	}
	if hourlyRate < 0 {
		return nil, apperr.Invalid("hourly_rate", "must not be negative")
	}
	if strings.TrimSpace(jobsiteID) == "" {
		return nil, apperr.Invalid("job_site_id", "jobsite selection is required")
	}

	contractor, err := l.dir.GetContractor(ctx, contractorID)
	if err != nil {
		return nil, err
	}
	jobsite, err := l.dir.GetJobsite(ctx, jobsiteID)
	if err != nil {
		return nil, err
	}

	existing, err := l.store.List(ctx, models.HoursCollection,
		docstore.Eq("contractor_id", contractorID),
		docstore.Eq("date", day),
	)
	if err != nil {
		return nil, err
	}
	for _, doc := range existing {
		if err := l.store.Delete(ctx, models.HoursCollection, doc.ID); err != nil {
			return nil, err
		}
	}

	entry := models.HoursEntry{
		ContractorID:   contractorID,
		ContractorName: contractor.DisplayName(),
		JobSiteID:      jobsiteID,
		CompanyID:      jobsite.CompanyID,
		Date:           day,
		Hours:          hours,
		HourlyRate:     hourlyRate,
		Pay:            hours * hourlyRate,
	}
	doc, err := l.store.Create(ctx, models.HoursCollection, docstore.NewID(), entry)
	if err != nil {
		return nil, err
	}
	created, err := docstore.Decode[models.HoursEntry](doc)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// LookupAssignedJobsite finds the jobsite a contractor is posted to on an
// exact date. A nil jobsite with nil error means no posted assignment
// exists and the caller should fall back to manual jobsite selection.
func (l *Ledger) LookupAssignedJobsite(ctx context.Context, contractorID, date string) (*models.Jobsite, error) {
	day, err := models.Day(date)
	if err != nil {
		return nil, apperr.Invalid("date", err.Error())
	}

	docs, err := l.store.List(ctx, models.AssignmentCollection,
		docstore.Eq("contractor_id", contractorID),
		docstore.Eq("date", day),
		docstore.Eq("posted", true),
	)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, nil
	}
	a, err := docstore.Decode[models.Assignment](docs[0])
	if err != nil {
		return nil, err
	}
	return l.dir.GetJobsite(ctx, a.JobSiteID)
}

// LoggedHours returns a contractor's entries in an inclusive day range.
func (l *Ledger) LoggedHours(ctx context.Context, contractorID, startDate, endDate string) ([]models.HoursEntry, error) {
	start, err := models.Day(startDate)
	if err != nil {
		return nil, apperr.Invalid("start_date", err.Error())
	}
	end, err := models.Day(endDate)
	if err != nil {
		return nil, apperr.Invalid("end_date", err.Error())
	}

	docs, err := l.store.List(ctx, models.HoursCollection,
		docstore.Eq("contractor_id", contractorID),
		docstore.Gte("date", start),
		docstore.Lte("date", end),
	)
	if err != nil {
		return nil, err
	}
	return docstore.DecodeAll[models.HoursEntry](docs)
}

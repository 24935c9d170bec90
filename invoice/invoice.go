// Package invoice aggregates ledger entries into billing data for a
// company over a date range. The aggregator produces InvoiceData; what a
// renderer does with it is not its concern.
package invoice

import (
	"context"
	"math"

	"ironcraft/apperr"
	"ironcraft/directory"
	"ironcraft/docstore"
	"ironcraft/models"
)

// Biller identifies the invoicing party, shown in the invoice header.
type Biller struct {
	Name          string
	ABN           string
	ACN           string
	Address       string
	Phone         string
	BSB           string
	AccountNumber string
}

type LineItem struct {
	Date           string  `json:"date"`
	ContractorName string  `json:"contractor_name"`
	Hours          float64 `json:"hours"`
	HourlyRate     float64 `json:"hourly_rate"`
	Amount         float64 `json:"amount"`
}

type JobsiteSection struct {
	JobsiteID string     `json:"jobsite_id"`
	Name      string     `json:"name"`
	Lines     []LineItem `json:"lines"`
	Subtotal  float64    `json:"subtotal"`
}

type InvoiceData struct {
	Biller      Biller           `json:"biller"`
	CompanyName string           `json:"company_name"`
	CompanyABN  string           `json:"company_abn"`
	StartDate   string           `json:"start_date"`
	EndDate     string           `json:"end_date"`
	Jobsites    []JobsiteSection `json:"jobsites"`
	TotalAmount float64          `json:"total_amount"`
}

type Aggregator struct {
	store  docstore.Store
	dir    *directory.Service
	biller Biller
}

func NewAggregator(store docstore.Store, dir *directory.Service, biller Biller) *Aggregator {
	return &Aggregator{store: store, dir: dir, biller: biller}
}

// BuildInvoice groups hours entries by jobsite for one company over an
// inclusive day range. Line amounts are recomputed as hours * rate;
// HoursEntry is the authoritative pay source. Jobsites with no entries in
// range are omitted entirely, not emitted as empty sections.
func (a *Aggregator) BuildInvoice(ctx context.Context, companyID, startDate, endDate string) (*InvoiceData, error) {
	start, err := models.Day(startDate)
	if err != nil {
		return nil, apperr.Invalid("start_date", err.Error())
	}
	end, err := models.Day(endDate)
	if err != nil {
		return nil, apperr.Invalid("end_date", err.Error())
	}

	company, err := a.dir.GetCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	jobsites, err := a.dir.ListJobsitesForCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	data := &InvoiceData{
		Biller:      a.biller,
		CompanyName: company.Name,
		CompanyABN:  company.ABN,
		StartDate:   start,
		EndDate:     end,
	}

	for _, jobsite := range jobsites {
		docs, err := a.store.List(ctx, models.HoursCollection,
			docstore.Eq("job_site_id", jobsite.ID),
			docstore.Gte("date", start),
			docstore.Lte("date", end),
		)
		if err != nil {
			return nil, err
		}
		if len(docs) == 0 {
			continue
		}
		entries, err := docstore.DecodeAll[models.HoursEntry](docs)
		if err != nil {
			return nil, err
		}

		section := JobsiteSection{JobsiteID: jobsite.ID, Name: jobsite.Name}
		for _, entry := range entries {
			amount := entry.Hours * entry.HourlyRate
			section.Lines = append(section.Lines, LineItem{
				Date:           entry.Date,
				ContractorName: entry.ContractorName,
				Hours:          entry.Hours,
				HourlyRate:     entry.HourlyRate,
				Amount:         amount,
			})
			section.Subtotal += amount
		}
		data.TotalAmount += section.Subtotal
		data.Jobsites = append(data.Jobsites, section)
	}
	return data, nil
}

// PayMismatch flags a legacy pay record diverging from the ledger.
type PayMismatch struct {
	ContractorID string  `json:"contractor_id"`
	Date         string  `json:"date"`
	LegacyPay    float64 `json:"legacy_pay"`
	LedgerPay    float64 `json:"ledger_pay"`
	HasEntry     bool    `json:"has_entry"`
}

// LegacyPayMismatches reconciles the deprecated pay_records stream
// against the authoritative ledger over an inclusive day range. Legacy
// values never feed invoice totals; this exists so operators can spot
// divergent records before that collection is retired.
func (a *Aggregator) LegacyPayMismatches(ctx context.Context, startDate, endDate string) ([]PayMismatch, error) {
	start, err := models.Day(startDate)
	if err != nil {
		return nil, apperr.Invalid("start_date", err.Error())
	}
	end, err := models.Day(endDate)
	if err != nil {
		return nil, apperr.Invalid("end_date", err.Error())
	}

	recordDocs, err := a.store.List(ctx, models.PayRecordCollection,
		docstore.Gte("date", start),
		docstore.Lte("date", end),
	)
	if err != nil {
		return nil, err
	}
	records, err := docstore.DecodeAll[models.PayRecord](recordDocs)
	if err != nil {
		return nil, err
	}

	var mismatches []PayMismatch
	for _, record := range records {
		entryDocs, err := a.store.List(ctx, models.HoursCollection,
			docstore.Eq("contractor_id", record.ContractorID),
			docstore.Eq("date", record.Date),
		)
		if err != nil {
			return nil, err
		}

		mismatch := PayMismatch{
			ContractorID: record.ContractorID,
			Date:         record.Date,
			LegacyPay:    record.Pay,
		}
		if len(entryDocs) > 0 {
			entry, err := docstore.Decode[models.HoursEntry](entryDocs[0])
			if err != nil {
				return nil, err
			}
			mismatch.HasEntry = true
			mismatch.LedgerPay = entry.Hours * entry.HourlyRate
			if math.Abs(mismatch.LedgerPay-record.Pay) < 0.005 {
				continue
			}
		}
		mismatches = append(mismatches, mismatch)
	}
	return mismatches, nil
}

// Package scheduling implements the assignment workflow: draft editing,
// conflict detection and the one-way draft to posted transition.
//
// All writes are independent remote calls against a store with no
// cross-document transactions. Concurrent operators editing the same
// jobsite and day race last-writer-wins; the operator population is small
// and supervised, and the workflow reports rather than locks.
package scheduling

import (
	"context"
	"strings"

	"ironcraft/apperr"
	"ironcraft/directory"
	"ironcraft/docstore"
	"ironcraft/models"
)

type Repository struct {
	store docstore.Store
	dir   *directory.Service
}

func NewRepository(store docstore.Store, dir *directory.Service) *Repository {
	return &Repository{store: store, dir: dir}
}

// ListDraftsForJobsite returns the mutable posted=false rows for one
// jobsite.
func (r *Repository) ListDraftsForJobsite(ctx context.Context, jobsiteID string) ([]models.Assignment, error) {
	docs, err := r.store.List(ctx, models.AssignmentCollection,
		docstore.Eq("job_site_id", jobsiteID),
		docstore.Eq("posted", false),
	)
	if err != nil {
		return nil, err
	}
	return docstore.DecodeAll[models.Assignment](docs)
}

// ListAssignedContractorNames returns distinct contractor display names
// across every assignment (draft and posted) of a jobsite, de-duplicated
// by contractor id before name resolution.
func (r *Repository) ListAssignedContractorNames(ctx context.Context, jobsiteID string) ([]string, error) {
	docs, err := r.store.List(ctx, models.AssignmentCollection,
		docstore.Eq("job_site_id", jobsiteID),
	)
	if err != nil {
		return nil, err
	}
	assignments, err := docstore.DecodeAll[models.Assignment](docs)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var names []string
	for _, a := range assignments {
		if seen[a.ContractorID] {
			continue
		}
		seen[a.ContractorID] = true
		contractor, err := r.dir.GetContractor(ctx, a.ContractorID)
		if err != nil {
			return nil, err
		}
		names = append(names, contractor.DisplayName())
	}
	return names, nil
}

// ReplaceDraftSelection discards the jobsite's draft selection for a day
// and writes the new one. Selecting a contractor here also revokes their
// assignment at any other jobsite on that day: one place per contractor
// per day, across jobsites.
//
// Deletes and creates fan out concurrently per id. On a partial failure
// the succeeded calls stand and the failed subset is reported; nothing is
// rolled back.
func (r *Repository) ReplaceDraftSelection(ctx context.Context, jobsiteID, date string, contractorIDs []string, message string) error {
	day, err := models.Day(date)
	if err != nil {
		return apperr.Invalid("date", err.Error())
	}
	if _, err := r.dir.GetJobsite(ctx, jobsiteID); err != nil {
		return err
	}

	// Collapse repeated ids so one contractor never gets two rows for
	// the day out of a single selection.
	selected := make(map[string]bool, len(contractorIDs))
	var distinct []string
	for _, id := range contractorIDs {
		if strings.TrimSpace(id) == "" {
			return apperr.Invalid("contractor_ids", "empty contractor id")
		}
		if selected[id] {
			continue
		}
		selected[id] = true
		distinct = append(distinct, id)
	}

	// Every assignment dated that day, across all jobsites.
	docs, err := r.store.List(ctx, models.AssignmentCollection, docstore.Eq("date", day))
	if err != nil {
		return err
	}
	assignments, err := docstore.DecodeAll[models.Assignment](docs)
	if err != nil {
		return err
	}

	var toDelete []string
	for _, a := range assignments {
		switch {
		case a.JobSiteID == jobsiteID:
			// Prior selection for this jobsite is fully discarded,
			// never diffed.
			toDelete = append(toDelete, a.ID)
		case selected[a.ContractorID]:
			toDelete = append(toDelete, a.ID)
		}
	}

	err = runBatch("replace draft selection: delete", models.AssignmentCollection, toDelete, func(id string) error {
		return r.store.Delete(ctx, models.AssignmentCollection, id)
	})
	if err != nil {
		return err
	}

	message = strings.TrimSpace(message)
	return runBatch("replace draft selection: create", models.AssignmentCollection, distinct, func(contractorID string) error {
		draft := models.Assignment{
			ContractorID: contractorID,
			JobSiteID:    jobsiteID,
			Date:         day,
			Message:      message,
			Posted:       false,
		}
		_, err := r.store.Create(ctx, models.AssignmentCollection, docstore.NewID(), draft)
		return err
	})
}

// listPosted returns posted assignments matching the given filters.
func (r *Repository) listPosted(ctx context.Context, extra ...docstore.Filter) ([]models.Assignment, error) {
	filters := append([]docstore.Filter{docstore.Eq("posted", true)}, extra...)
	docs, err := r.store.List(ctx, models.AssignmentCollection, filters...)
	if err != nil {
		return nil, err
	}
	return docstore.DecodeAll[models.Assignment](docs)
}

// listDrafts returns every draft across all jobsites, whatever its date
// field says.
func (r *Repository) listDrafts(ctx context.Context) ([]models.Assignment, error) {
	docs, err := r.store.List(ctx, models.AssignmentCollection, docstore.Eq("posted", false))
	if err != nil {
		return nil, err
	}
	return docstore.DecodeAll[models.Assignment](docs)
}

package scheduling

import (
	"context"
	"fmt"
	"log"
	"sort"

	"ironcraft/apperr"
	"ironcraft/directory"
	"ironcraft/docstore"
	"ironcraft/models"
	"ironcraft/notify"
)

// Poster runs the one-way DRAFT -> POSTED transition. There is no
// unposting.
//
// The engine favors forward progress over atomicity: once the override
// decision point is passed, writes that already committed are never
// rolled back when a later step fails. The PostAllResult records what
// happened so an operator can correct the remainder.
type Poster struct {
	store      docstore.Store
	repo       *Repository
	dir        *directory.Service
	dispatcher notify.Dispatcher
}

func NewPoster(store docstore.Store, repo *Repository, dir *directory.Service, dispatcher notify.Dispatcher) *Poster {
	return &Poster{store: store, repo: repo, dir: dir, dispatcher: dispatcher}
}

type PostAllResult struct {
	// Aborted is set when already-posted rows exist on the target date
	// and the operator did not confirm the override. No writes were
	// issued.
	Aborted   bool                `json:"aborted"`
	Conflicts []models.Assignment `json:"conflicts,omitempty"`

	Overridden    int      `json:"overridden"`
	Posted        int      `json:"posted"`
	DroppedDrafts int      `json:"dropped_drafts"`
	Jobsites      []string `json:"jobsites,omitempty"`
	Notified      []string `json:"notified,omitempty"`
	NotifyFailed  []string `json:"notify_failed,omitempty"`
}

// PostJobsite publishes one jobsite in place: the jobsite flag first,
// then every not-yet-posted assignment of the jobsite, with no re-dating.
// Already-posted rows are skipped, so posting twice changes nothing.
func (p *Poster) PostJobsite(ctx context.Context, jobsiteID string) error {
	if _, err := p.dir.GetJobsite(ctx, jobsiteID); err != nil {
		return err
	}
	if _, err := p.store.Update(ctx, models.JobsiteCollection, jobsiteID, map[string]any{"posted": true}); err != nil {
		return err
	}

	docs, err := p.store.List(ctx, models.AssignmentCollection, docstore.Eq("job_site_id", jobsiteID))
	if err != nil {
		return err
	}
	assignments, err := docstore.DecodeAll[models.Assignment](docs)
	if err != nil {
		return err
	}

	var toPost []string
	for _, a := range assignments {
		if !a.Posted {
			toPost = append(toPost, a.ID)
		}
	}
	return runBatch("post jobsite", models.AssignmentCollection, toPost, func(id string) error {
		_, err := p.store.Update(ctx, models.AssignmentCollection, id, map[string]any{"posted": true})
		return err
	})
}

// PostAll publishes every outstanding draft across all jobsites, re-dated
// to targetDate. The existence of a draft is the signal, not its stale
// date field.
//
// The override decision is made by the caller before this runs; when
// posted rows already occupy the target date and override is false, the
// batch aborts before any destructive call.
func (p *Poster) PostAll(ctx context.Context, targetDate string, override bool) (*PostAllResult, error) {
	day, err := models.Day(targetDate)
	if err != nil {
		return nil, apperr.Invalid("target_date", err.Error())
	}
	result := &PostAllResult{}

	existing, err := p.repo.listPosted(ctx, docstore.Eq("date", day))
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 && !override {
		result.Aborted = true
		result.Conflicts = existing
		return result, nil
	}

	// Decision point passed. Everything from here on is destructive and
	// is not rolled back.
	if len(existing) > 0 {
		ids := assignmentIDs(existing)
		if err := runBatch("post all: override delete", models.AssignmentCollection, ids, func(id string) error {
			return p.store.Delete(ctx, models.AssignmentCollection, id)
		}); err != nil {
			return result, err
		}
		result.Overridden = len(ids)
	}

	drafts, err := p.repo.listDrafts(ctx)
	if err != nil {
		return result, err
	}
	if len(drafts) == 0 {
		return result, nil
	}

	// Re-date every candidate to the target day, then drop duplicate
	// rows per contractor, newest draft winning.
	candidates := make([]models.Assignment, len(drafts))
	copy(candidates, drafts)
	for i := range candidates {
		candidates[i].Date = day
	}
	decision := ResolveDuplicates(DetectDuplicates(candidates))
	losers := make(map[string]bool, len(decision.ToDelete))
	for _, id := range decision.ToDelete {
		losers[id] = true
	}

	var survivors []models.Assignment
	for _, c := range candidates {
		if !losers[c.ID] {
			survivors = append(survivors, c)
		}
	}

	if err := runBatch("post all: create posted", models.AssignmentCollection, assignmentIDs(survivors), func(draftID string) error {
		draft := findAssignment(survivors, draftID)
		posted := models.Assignment{
			ContractorID: draft.ContractorID,
			JobSiteID:    draft.JobSiteID,
			Date:         day,
			Message:      draft.Message,
			Posted:       true,
		}
		_, err := p.store.Create(ctx, models.AssignmentCollection, docstore.NewID(), posted)
		return err
	}); err != nil {
		return result, err
	}
	result.Posted = len(survivors)

	// Drafts are deleted on promotion, duplicate losers included; no
	// orphan drafts survive a batch post.
	if err := runBatch("post all: delete drafts", models.AssignmentCollection, assignmentIDs(drafts), func(id string) error {
		return p.store.Delete(ctx, models.AssignmentCollection, id)
	}); err != nil {
		return result, err
	}
	result.DroppedDrafts = len(decision.ToDelete)

	jobsiteIDs := distinctJobsites(survivors)
	if err := runBatch("post all: mark jobsites", models.JobsiteCollection, jobsiteIDs, func(id string) error {
		_, err := p.store.Update(ctx, models.JobsiteCollection, id, map[string]any{"posted": true})
		return err
	}); err != nil {
		return result, err
	}
	result.Jobsites = jobsiteIDs

	p.notifyPosted(ctx, day, survivors, result)
	return result, nil
}

// notifyPosted sends one notification per distinct contractor. Failures
// are logged per recipient and never fail the batch.
func (p *Poster) notifyPosted(ctx context.Context, day string, posted []models.Assignment, result *PostAllResult) {
	byContractor := make(map[string]models.Assignment)
	var order []string
	for _, a := range posted {
		if _, seen := byContractor[a.ContractorID]; !seen {
			order = append(order, a.ContractorID)
			byContractor[a.ContractorID] = a
		}
	}
	sort.Strings(order)

	for _, contractorID := range order {
		a := byContractor[contractorID]
		contractor, err := p.dir.GetContractor(ctx, contractorID)
		if err != nil {
			log.Printf("notify: contractor %s lookup failed: %v", contractorID, err)
			result.NotifyFailed = append(result.NotifyFailed, contractorID)
			continue
		}
		if contractor.PushToken == "" {
			log.Printf("notify: contractor %s has no push token, skipping", contractorID)
			continue
		}

		body := fmt.Sprintf("You have been assigned for %s.", day)
		if jobsite, err := p.dir.GetJobsite(ctx, a.JobSiteID); err == nil {
			body = fmt.Sprintf("You have been assigned to %s on %s.", jobsite.Name, day)
		}
		if a.Message != "" {
			body += " " + a.Message
		}

		if err := p.dispatcher.Send(ctx, contractor.PushToken, "New Assignment", body); err != nil {
			log.Printf("notify: sending to contractor %s failed: %v", contractorID, err)
			result.NotifyFailed = append(result.NotifyFailed, contractorID)
			continue
		}
		result.Notified = append(result.Notified, contractorID)
	}
}

func assignmentIDs(assignments []models.Assignment) []string {
	ids := make([]string, len(assignments))
	for i, a := range assignments {
		ids[i] = a.ID
	}
	return ids
}

func findAssignment(assignments []models.Assignment, id string) models.Assignment {
	for _, a := range assignments {
		if a.ID == id {
			return a
		}
	}
	return models.Assignment{}
}

func distinctJobsites(assignments []models.Assignment) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, a := range assignments {
		if !seen[a.JobSiteID] {
			seen[a.JobSiteID] = true
			ids = append(ids, a.JobSiteID)
		}
	}
	sort.Strings(ids)
	return ids
}

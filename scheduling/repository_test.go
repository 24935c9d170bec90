package scheduling

import (
	"context"
	"testing"

	"ironcraft/apperr"
	"ironcraft/directory"
	"ironcraft/docstore"
	"ironcraft/models"
)

func newTestRepo(t *testing.T) (*docstore.Memory, *directory.Service, *Repository) {
	t.Helper()
	store := docstore.NewMemory()
	dir := directory.NewService(store)
	return store, dir, NewRepository(store, dir)
}

func seedContractor(t *testing.T, store docstore.Store, id, name string) {
	t.Helper()
	c := models.Contractor{Name: name, Email: name + "@example.com", Privilege: models.PrivilegeUser, HourlyRate: 50}
	if _, err := store.Create(context.Background(), models.ContractorCollection, id, c); err != nil {
		t.Fatalf("seed contractor %s: %v", id, err)
	}
}

func seedJobsite(t *testing.T, store docstore.Store, id, name string) {
	t.Helper()
	j := models.Jobsite{Name: name, Address: "1 Main St", CompanyID: "co1"}
	if _, err := store.Create(context.Background(), models.JobsiteCollection, id, j); err != nil {
		t.Fatalf("seed jobsite %s: %v", id, err)
	}
}

func seedAssignment(t *testing.T, store docstore.Store, id string, a models.Assignment) {
	t.Helper()
	if _, err := store.Create(context.Background(), models.AssignmentCollection, id, a); err != nil {
		t.Fatalf("seed assignment %s: %v", id, err)
	}
}

func listAssignments(t *testing.T, store docstore.Store, filters ...docstore.Filter) []models.Assignment {
	t.Helper()
	docs, err := store.List(context.Background(), models.AssignmentCollection, filters...)
	if err != nil {
		t.Fatalf("list assignments: %v", err)
	}
	assignments, err := docstore.DecodeAll[models.Assignment](docs)
	if err != nil {
		t.Fatalf("decode assignments: %v", err)
	}
	return assignments
}

func TestReplaceDraftSelection_CreatesDrafts(t *testing.T) {
	ctx := context.Background()
	store, _, repo := newTestRepo(t)
	seedJobsite(t, store, "site1", "Tower")
	seedContractor(t, store, "c1", "Alice")
	seedContractor(t, store, "c2", "Bob")

	err := repo.ReplaceDraftSelection(ctx, "site1", "2025-06-10", []string{"c1", "c2"}, "bring PPE")
	if err != nil {
		t.Fatalf("replace: %v", err)
	}

	drafts, err := repo.ListDraftsForJobsite(ctx, "site1")
	if err != nil {
		t.Fatalf("list drafts: %v", err)
	}
	if len(drafts) != 2 {
		t.Fatalf("got %d drafts, want 2", len(drafts))
	}
	for _, d := range drafts {
		if d.Posted {
			t.Errorf("draft %s created as posted", d.ID)
		}
		if d.Date != "2025-06-10" {
			t.Errorf("draft date = %q, want 2025-06-10", d.Date)
		}
		if d.Message != "bring PPE" {
			t.Errorf("draft message = %q", d.Message)
		}
	}
}

func TestReplaceDraftSelection_DiscardsNotDiffs(t *testing.T) {
	ctx := context.Background()
	store, _, repo := newTestRepo(t)
	seedJobsite(t, store, "site1", "Tower")
	seedContractor(t, store, "c1", "Alice")
	seedContractor(t, store, "c2", "Bob")

	if err := repo.ReplaceDraftSelection(ctx, "site1", "2025-06-10", []string{"c1", "c2"}, ""); err != nil {
		t.Fatalf("first replace: %v", err)
	}
	// Re-select only c1. The prior rows must be gone, not patched.
	before := listAssignments(t, store)
	if err := repo.ReplaceDraftSelection(ctx, "site1", "2025-06-10", []string{"c1"}, ""); err != nil {
		t.Fatalf("second replace: %v", err)
	}
	after := listAssignments(t, store)

	if len(after) != 1 {
		t.Fatalf("got %d assignments after re-select, want 1", len(after))
	}
	if after[0].ContractorID != "c1" {
		t.Errorf("survivor contractor = %q, want c1", after[0].ContractorID)
	}
	for _, old := range before {
		if old.ID == after[0].ID {
			t.Errorf("row %s was reused, want fresh rows each replace", old.ID)
		}
	}
}

func TestReplaceDraftSelection_RevokesOtherJobsite(t *testing.T) {
	ctx := context.Background()
	store, _, repo := newTestRepo(t)
	seedJobsite(t, store, "site1", "Tower")
	seedJobsite(t, store, "site2", "Bridge")
	seedContractor(t, store, "c1", "Alice")
	seedContractor(t, store, "c2", "Bob")

	// c1 already drafted at site2 on the same day; c2 drafted at site2 too
	// but is not selected here, so their row stays.
	seedAssignment(t, store, "a1", models.Assignment{ContractorID: "c1", JobSiteID: "site2", Date: "2025-06-10"})
	seedAssignment(t, store, "a2", models.Assignment{ContractorID: "c2", JobSiteID: "site2", Date: "2025-06-10"})

	if err := repo.ReplaceDraftSelection(ctx, "site1", "2025-06-10", []string{"c1"}, ""); err != nil {
		t.Fatalf("replace: %v", err)
	}

	remaining := listAssignments(t, store, docstore.Eq("job_site_id", "site2"))
	if len(remaining) != 1 || remaining[0].ContractorID != "c2" {
		t.Fatalf("site2 rows = %+v, want only c2", remaining)
	}
	site1 := listAssignments(t, store, docstore.Eq("job_site_id", "site1"))
	if len(site1) != 1 || site1[0].ContractorID != "c1" {
		t.Fatalf("site1 rows = %+v, want only c1", site1)
	}
}

func TestReplaceDraftSelection_EmptyClearsDay(t *testing.T) {
	ctx := context.Background()
	store, _, repo := newTestRepo(t)
	seedJobsite(t, store, "site1", "Tower")
	seedContractor(t, store, "c1", "Alice")

	if err := repo.ReplaceDraftSelection(ctx, "site1", "2025-06-10", []string{"c1"}, ""); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if err := repo.ReplaceDraftSelection(ctx, "site1", "2025-06-10", nil, ""); err != nil {
		t.Fatalf("clear: %v", err)
	}
	drafts, err := repo.ListDraftsForJobsite(ctx, "site1")
	if err != nil {
		t.Fatalf("list drafts: %v", err)
	}
	if len(drafts) != 0 {
		t.Errorf("got %d drafts after clear, want 0", len(drafts))
	}
}

func TestReplaceDraftSelection_CollapsesRepeatedIDs(t *testing.T) {
	ctx := context.Background()
	store, _, repo := newTestRepo(t)
	seedJobsite(t, store, "site1", "Tower")
	seedContractor(t, store, "c1", "Alice")
	seedContractor(t, store, "c2", "Bob")

	if err := repo.ReplaceDraftSelection(ctx, "site1", "2025-06-10", []string{"c1", "c1", "c2", "c1"}, ""); err != nil {
		t.Fatalf("replace: %v", err)
	}

	forC1 := listAssignments(t, store, docstore.Eq("contractor_id", "c1"))
	if len(forC1) != 1 {
		t.Fatalf("got %d rows for c1, want exactly 1", len(forC1))
	}
	all := listAssignments(t, store)
	if len(all) != 2 {
		t.Errorf("got %d drafts total, want 2", len(all))
	}
}

func TestReplaceDraftSelection_NormalizesTimestamp(t *testing.T) {
	ctx := context.Background()
	store, _, repo := newTestRepo(t)
	seedJobsite(t, store, "site1", "Tower")
	seedContractor(t, store, "c1", "Alice")

	if err := repo.ReplaceDraftSelection(ctx, "site1", "2025-06-10T14:30:00Z", []string{"c1"}, ""); err != nil {
		t.Fatalf("replace: %v", err)
	}
	drafts, _ := repo.ListDraftsForJobsite(ctx, "site1")
	if len(drafts) != 1 || drafts[0].Date != "2025-06-10" {
		t.Fatalf("drafts = %+v, want one dated 2025-06-10", drafts)
	}
}

func TestReplaceDraftSelection_Validation(t *testing.T) {
	ctx := context.Background()
	store, _, repo := newTestRepo(t)
	seedJobsite(t, store, "site1", "Tower")

	if err := repo.ReplaceDraftSelection(ctx, "site1", "not-a-date", []string{"c1"}, ""); !apperr.IsValidation(err) {
		t.Errorf("bad date: got %v, want validation error", err)
	}
	if err := repo.ReplaceDraftSelection(ctx, "site1", "2025-06-10", []string{" "}, ""); !apperr.IsValidation(err) {
		t.Errorf("blank contractor id: got %v, want validation error", err)
	}
	if err := repo.ReplaceDraftSelection(ctx, "ghost", "2025-06-10", []string{"c1"}, ""); !apperr.IsNotFound(err) {
		t.Errorf("unknown jobsite: got %v, want not found", err)
	}
}

func TestListAssignedContractorNames_Dedupes(t *testing.T) {
	ctx := context.Background()
	store, _, repo := newTestRepo(t)
	seedJobsite(t, store, "site1", "Tower")
	seedContractor(t, store, "c1", "Alice")
	seedContractor(t, store, "c2", "Bob")

	seedAssignment(t, store, "a1", models.Assignment{ContractorID: "c1", JobSiteID: "site1", Date: "2025-06-09", Posted: true})
	seedAssignment(t, store, "a2", models.Assignment{ContractorID: "c1", JobSiteID: "site1", Date: "2025-06-10"})
	seedAssignment(t, store, "a3", models.Assignment{ContractorID: "c2", JobSiteID: "site1", Date: "2025-06-10"})

	names, err := repo.ListAssignedContractorNames(ctx, "site1")
	if err != nil {
		t.Fatalf("names: %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("got %d names, want 2 (deduped): %v", len(names), names)
	}
}

func TestListAssignedContractorNames_MissingContractor(t *testing.T) {
	ctx := context.Background()
	store, _, repo := newTestRepo(t)
	seedJobsite(t, store, "site1", "Tower")
	seedAssignment(t, store, "a1", models.Assignment{ContractorID: "ghost", JobSiteID: "site1", Date: "2025-06-10"})

	if _, err := repo.ListAssignedContractorNames(ctx, "site1"); !apperr.IsNotFound(err) {
		t.Errorf("got %v, want not found for dangling contractor reference", err)
	}
}

package scheduling

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"ironcraft/directory"
	"ironcraft/docstore"
	"ironcraft/models"
)

// fakeDispatcher records sends and can be told to fail for an address.
type fakeDispatcher struct {
	mu      sync.Mutex
	sent    []string
	failFor map[string]bool
}

func (d *fakeDispatcher) Send(ctx context.Context, address, title, body string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.failFor[address] {
		return fmt.Errorf("push rejected for %s", address)
	}
	d.sent = append(d.sent, address)
	return nil
}

func newTestPoster(t *testing.T) (*docstore.Memory, *Poster, *fakeDispatcher) {
	t.Helper()
	store := docstore.NewMemory()
	dir := directory.NewService(store)
	repo := NewRepository(store, dir)
	dispatcher := &fakeDispatcher{failFor: make(map[string]bool)}
	return store, NewPoster(store, repo, dir, dispatcher), dispatcher
}

func seedContractorWithToken(t *testing.T, store docstore.Store, id, name, token string) {
	t.Helper()
	c := models.Contractor{Name: name, Email: name + "@example.com", Privilege: models.PrivilegeUser, PushToken: token}
	if _, err := store.Create(context.Background(), models.ContractorCollection, id, c); err != nil {
		t.Fatalf("seed contractor %s: %v", id, err)
	}
}

func TestPostJobsite_Publishes(t *testing.T) {
	ctx := context.Background()
	store, poster, _ := newTestPoster(t)
	seedJobsite(t, store, "site1", "Tower")
	seedAssignment(t, store, "a1", models.Assignment{ContractorID: "c1", JobSiteID: "site1", Date: "2025-06-10"})
	seedAssignment(t, store, "a2", models.Assignment{ContractorID: "c2", JobSiteID: "site1", Date: "2025-06-10"})

	if err := poster.PostJobsite(ctx, "site1"); err != nil {
		t.Fatalf("post jobsite: %v", err)
	}

	for _, a := range listAssignments(t, store) {
		if !a.Posted {
			t.Errorf("assignment %s still draft after post", a.ID)
		}
		if a.Date != "2025-06-10" {
			t.Errorf("single-jobsite post must not re-date: %s has %s", a.ID, a.Date)
		}
	}

	doc, err := store.Get(ctx, models.JobsiteCollection, "site1")
	if err != nil {
		t.Fatalf("get jobsite: %v", err)
	}
	jobsite, err := docstore.Decode[models.Jobsite](doc)
	if err != nil {
		t.Fatalf("decode jobsite: %v", err)
	}
	if !jobsite.Posted {
		t.Error("jobsite flag not set")
	}
}

func TestPostJobsite_Idempotent(t *testing.T) {
	ctx := context.Background()
	store, poster, _ := newTestPoster(t)
	seedJobsite(t, store, "site1", "Tower")
	seedAssignment(t, store, "a1", models.Assignment{ContractorID: "c1", JobSiteID: "site1", Date: "2025-06-10"})

	if err := poster.PostJobsite(ctx, "site1"); err != nil {
		t.Fatalf("first post: %v", err)
	}
	if err := poster.PostJobsite(ctx, "site1"); err != nil {
		t.Fatalf("second post: %v", err)
	}
	if got := listAssignments(t, store); len(got) != 1 || !got[0].Posted {
		t.Errorf("second post changed rows: %+v", got)
	}
}

func TestPostAll_RedatesStaleDrafts(t *testing.T) {
	ctx := context.Background()
	store, poster, dispatcher := newTestPoster(t)
	seedJobsite(t, store, "site1", "Tower")
	seedContractorWithToken(t, store, "c1", "Alice", "ExponentPushToken[A]")
	seedContractorWithToken(t, store, "c2", "Bob", "ExponentPushToken[B]")

	// Drafts carry a stale date; the batch is the signal, not the field.
	seedAssignment(t, store, "a1", models.Assignment{ContractorID: "c1", JobSiteID: "site1", Date: "2025-06-10"})
	seedAssignment(t, store, "a2", models.Assignment{ContractorID: "c2", JobSiteID: "site1", Date: "2025-06-10"})

	result, err := poster.PostAll(ctx, "2025-06-12", false)
	if err != nil {
		t.Fatalf("post all: %v", err)
	}
	if result.Aborted {
		t.Fatal("unexpected abort")
	}
	if result.Posted != 2 {
		t.Errorf("posted = %d, want 2", result.Posted)
	}

	all := listAssignments(t, store)
	if len(all) != 2 {
		t.Fatalf("got %d rows after post, want 2 (drafts deleted on promotion)", len(all))
	}
	for _, a := range all {
		if !a.Posted {
			t.Errorf("row %s not posted", a.ID)
		}
		if a.Date != "2025-06-12" {
			t.Errorf("row %s dated %s, want 2025-06-12", a.ID, a.Date)
		}
	}

	if len(dispatcher.sent) != 2 {
		t.Errorf("sent %d notifications, want 2", len(dispatcher.sent))
	}
	if len(result.Notified) != 2 {
		t.Errorf("notified = %v, want both contractors", result.Notified)
	}
}

func TestPostAll_AbortsOnConflictWithoutOverride(t *testing.T) {
	ctx := context.Background()
	store, poster, dispatcher := newTestPoster(t)
	seedJobsite(t, store, "site1", "Tower")
	seedContractorWithToken(t, store, "c1", "Alice", "ExponentPushToken[A]")

	seedAssignment(t, store, "posted1", models.Assignment{ContractorID: "c1", JobSiteID: "site1", Date: "2025-06-12", Posted: true})
	seedAssignment(t, store, "draft1", models.Assignment{ContractorID: "c1", JobSiteID: "site1", Date: "2025-06-10"})

	result, err := poster.PostAll(ctx, "2025-06-12", false)
	if err != nil {
		t.Fatalf("post all: %v", err)
	}
	if !result.Aborted {
		t.Fatal("expected abort when posted rows occupy the target date")
	}
	if len(result.Conflicts) != 1 || result.Conflicts[0].ID != "posted1" {
		t.Errorf("conflicts = %+v, want the existing posted row", result.Conflicts)
	}

	// Declined override is a no-op: both rows untouched, nothing sent.
	all := listAssignments(t, store)
	if len(all) != 2 {
		t.Fatalf("abort must not write: got %d rows, want 2", len(all))
	}
	if len(dispatcher.sent) != 0 {
		t.Errorf("abort must not notify, sent %v", dispatcher.sent)
	}
}

func TestPostAll_OverrideReplacesExisting(t *testing.T) {
	ctx := context.Background()
	store, poster, _ := newTestPoster(t)
	seedJobsite(t, store, "site1", "Tower")
	seedJobsite(t, store, "site2", "Bridge")
	seedContractorWithToken(t, store, "c1", "Alice", "ExponentPushToken[A]")

	seedAssignment(t, store, "posted1", models.Assignment{ContractorID: "c1", JobSiteID: "site1", Date: "2025-06-12", Posted: true})
	seedAssignment(t, store, "draft1", models.Assignment{ContractorID: "c1", JobSiteID: "site2", Date: "2025-06-11"})

	result, err := poster.PostAll(ctx, "2025-06-12", true)
	if err != nil {
		t.Fatalf("post all: %v", err)
	}
	if result.Aborted {
		t.Fatal("override must not abort")
	}
	if result.Overridden != 1 {
		t.Errorf("overridden = %d, want 1", result.Overridden)
	}

	all := listAssignments(t, store)
	if len(all) != 1 {
		t.Fatalf("got %d rows, want 1", len(all))
	}
	if all[0].JobSiteID != "site2" || !all[0].Posted || all[0].Date != "2025-06-12" {
		t.Errorf("surviving row = %+v, want posted site2 row on 2025-06-12", all[0])
	}
	if all[0].ID == "posted1" || all[0].ID == "draft1" {
		t.Errorf("promotion must mint a fresh row, got %s", all[0].ID)
	}
}

func TestPostAll_ResolvesDuplicateDrafts(t *testing.T) {
	ctx := context.Background()
	store, poster, dispatcher := newTestPoster(t)
	seedJobsite(t, store, "site1", "Tower")
	seedJobsite(t, store, "site2", "Bridge")
	seedContractorWithToken(t, store, "c1", "Alice", "ExponentPushToken[A]")

	// Two drafts for the same contractor on different stale days; both
	// land on the target date, the newer one wins.
	seedAssignment(t, store, "older", models.Assignment{ContractorID: "c1", JobSiteID: "site1", Date: "2025-06-10"})
	seedAssignment(t, store, "newer", models.Assignment{ContractorID: "c1", JobSiteID: "site2", Date: "2025-06-11"})

	result, err := poster.PostAll(ctx, "2025-06-12", false)
	if err != nil {
		t.Fatalf("post all: %v", err)
	}
	if result.Posted != 1 {
		t.Errorf("posted = %d, want 1", result.Posted)
	}
	if result.DroppedDrafts != 1 {
		t.Errorf("dropped drafts = %d, want 1", result.DroppedDrafts)
	}

	all := listAssignments(t, store)
	if len(all) != 1 {
		t.Fatalf("got %d rows, want 1", len(all))
	}
	if all[0].JobSiteID != "site2" {
		t.Errorf("kept jobsite = %s, want site2 (newer draft wins)", all[0].JobSiteID)
	}
	if len(dispatcher.sent) != 1 {
		t.Errorf("one contractor, one notification; sent %d", len(dispatcher.sent))
	}
}

func TestPostAll_NoDrafts(t *testing.T) {
	_, poster, _ := newTestPoster(t)

	result, err := poster.PostAll(context.Background(), "2025-06-12", false)
	if err != nil {
		t.Fatalf("post all: %v", err)
	}
	if result.Aborted || result.Posted != 0 {
		t.Errorf("empty batch result = %+v", result)
	}
}

func TestPostAll_NotifyFailureDoesNotFailBatch(t *testing.T) {
	ctx := context.Background()
	store, poster, dispatcher := newTestPoster(t)
	seedJobsite(t, store, "site1", "Tower")
	seedContractorWithToken(t, store, "c1", "Alice", "ExponentPushToken[A]")
	seedContractorWithToken(t, store, "c2", "Bob", "ExponentPushToken[B]")
	dispatcher.failFor["ExponentPushToken[B]"] = true

	seedAssignment(t, store, "a1", models.Assignment{ContractorID: "c1", JobSiteID: "site1", Date: "2025-06-10"})
	seedAssignment(t, store, "a2", models.Assignment{ContractorID: "c2", JobSiteID: "site1", Date: "2025-06-10"})

	result, err := poster.PostAll(ctx, "2025-06-12", false)
	if err != nil {
		t.Fatalf("notification failure must not fail the post: %v", err)
	}
	if result.Posted != 2 {
		t.Errorf("posted = %d, want 2", result.Posted)
	}
	if len(result.Notified) != 1 || result.Notified[0] != "c1" {
		t.Errorf("notified = %v, want [c1]", result.Notified)
	}
	if len(result.NotifyFailed) != 1 || result.NotifyFailed[0] != "c2" {
		t.Errorf("notify failed = %v, want [c2]", result.NotifyFailed)
	}
}

func TestPostAll_SkipsContractorsWithoutToken(t *testing.T) {
	ctx := context.Background()
	store, poster, dispatcher := newTestPoster(t)
	seedJobsite(t, store, "site1", "Tower")
	seedContractor(t, store, "c1", "Alice")

	seedAssignment(t, store, "a1", models.Assignment{ContractorID: "c1", JobSiteID: "site1", Date: "2025-06-10"})

	result, err := poster.PostAll(ctx, "2025-06-12", false)
	if err != nil {
		t.Fatalf("post all: %v", err)
	}
	if len(dispatcher.sent) != 0 {
		t.Errorf("no token, nothing to send; sent %v", dispatcher.sent)
	}
	if len(result.NotifyFailed) != 0 {
		t.Errorf("missing token is a skip, not a failure: %v", result.NotifyFailed)
	}
}

func TestPostAll_MarksJobsitesPosted(t *testing.T) {
	ctx := context.Background()
	store, poster, _ := newTestPoster(t)
	seedJobsite(t, store, "site1", "Tower")
	seedJobsite(t, store, "site2", "Bridge")
	seedContractorWithToken(t, store, "c1", "Alice", "")
	seedContractorWithToken(t, store, "c2", "Bob", "")

	seedAssignment(t, store, "a1", models.Assignment{ContractorID: "c1", JobSiteID: "site1", Date: "2025-06-10"})
	seedAssignment(t, store, "a2", models.Assignment{ContractorID: "c2", JobSiteID: "site2", Date: "2025-06-10"})

	result, err := poster.PostAll(ctx, "2025-06-12", false)
	if err != nil {
		t.Fatalf("post all: %v", err)
	}
	if len(result.Jobsites) != 2 {
		t.Fatalf("jobsites = %v, want both", result.Jobsites)
	}
	for _, id := range []string{"site1", "site2"} {
		doc, err := store.Get(ctx, models.JobsiteCollection, id)
		if err != nil {
			t.Fatalf("get %s: %v", id, err)
		}
		jobsite, err := docstore.Decode[models.Jobsite](doc)
		if err != nil {
			t.Fatalf("decode %s: %v", id, err)
		}
		if !jobsite.Posted {
			t.Errorf("jobsite %s not flagged posted", id)
		}
	}
}

func TestPostAll_InvalidDate(t *testing.T) {
	_, poster, _ := newTestPoster(t)
	if _, err := poster.PostAll(context.Background(), "12/06/2025", false); err == nil {
		t.Error("expected validation error for malformed target date")
	}
}

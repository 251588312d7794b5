package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/bhattashubham/scamnepal-csr-sub000/internal/core/risk"
	"github.com/bhattashubham/scamnepal-csr-sub000/internal/modkit/repokit"
	perr "github.com/bhattashubham/scamnepal-csr-sub000/internal/platform/errors"
	pnet "github.com/bhattashubham/scamnepal-csr-sub000/internal/platform/net"
	"github.com/bhattashubham/scamnepal-csr-sub000/internal/platform/store"
	"github.com/bhattashubham/scamnepal-csr-sub000/internal/services/entities/domain"
	"github.com/bhattashubham/scamnepal-csr-sub000/internal/services/entities/repo"
)

type fakeTx struct{}

func (fakeTx) Exec(_ context.Context, _ string, _ ...any) (store.CommandTag, error) { return nil, nil }
func (fakeTx) Query(_ context.Context, _ string, _ ...any) (store.Rows, error)      { return nil, nil }
func (fakeTx) QueryRow(_ context.Context, _ string, _ ...any) store.Row            { return nil }
func (fakeTx) Tx(_ context.Context, fn func(q store.RowQuerier) error) error       { return fn(nil) }

type applied struct {
	version int64
	status  risk.EntityStatus
	score   float64
	count   int
	total   float64
}

type fakeRepo struct {
	entities map[uuid.UUID]domain.Entity
	byKey    map[string]uuid.UUID

	agg     domain.Aggregates
	aggErr  error
	version int64

	applyErr error
	applies  []applied
	outbox   []string

	lookups [][2]string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		entities: map[uuid.UUID]domain.Entity{},
		byKey:    map[string]uuid.UUID{},
		version:  1,
	}
}

func (f *fakeRepo) ResolveOrCreate(_ context.Context, id uuid.UUID, typ, norm string, now time.Time) (uuid.UUID, error) {
	key := typ + "|" + norm
	if got, ok := f.byKey[key]; ok {
		return got, nil
	}
	f.byKey[key] = id
	f.entities[id] = domain.Entity{ID: id, Normalized: norm, Version: 1, CreatedAt: now}
	return id, nil
}

func (f *fakeRepo) Get(_ context.Context, id uuid.UUID) (domain.Entity, error) {
	e, ok := f.entities[id]
	if !ok {
		return domain.Entity{}, perr.NotFoundf("entity %s not found", id)
	}
	return e, nil
}

func (f *fakeRepo) Lookup(_ context.Context, typ, norm string) (domain.Entity, error) {
	f.lookups = append(f.lookups, [2]string{typ, norm})
	id, ok := f.byKey[typ+"|"+norm]
	if !ok {
		return domain.Entity{}, perr.NotFoundf("no entity for that identifier")
	}
	return f.entities[id], nil
}

func (f *fakeRepo) List(_ context.Context, _ domain.ListFilter) ([]domain.Entity, int, error) {
	var out []domain.Entity
	for _, e := range f.entities {
		out = append(out, e)
	}
	return out, 45, nil
}

func (f *fakeRepo) Aggregates(_ context.Context, _ uuid.UUID) (domain.Aggregates, int64, error) {
	if f.aggErr != nil {
		return domain.Aggregates{}, 0, f.aggErr
	}
	return f.agg, f.version, nil
}

func (f *fakeRepo) ApplyAggregates(_ context.Context, _ uuid.UUID, version int64, status risk.EntityStatus, score float64, count int, total float64, _ time.Time) error {
	if f.applyErr != nil {
		return f.applyErr
	}
	f.applies = append(f.applies, applied{version: version, status: status, score: score, count: count, total: total})
	return nil
}

func (f *fakeRepo) UpdateCurated(_ context.Context, id uuid.UUID, displayName *string, tags *[]string, _ time.Time) error {
	e, ok := f.entities[id]
	if !ok {
		return perr.NotFoundf("entity %s not found", id)
	}
	if displayName != nil {
		e.DisplayName = *displayName
	}
	if tags != nil {
		e.Tags = *tags
	}
	f.entities[id] = e
	return nil
}

func (f *fakeRepo) EnqueueIndex(_ context.Context, _ uuid.UUID, reason string) error {
	f.outbox = append(f.outbox, reason)
	return nil
}

func (f *fakeRepo) Drifted(_ context.Context, _ int) ([]uuid.UUID, error) { return nil, nil }

type fakeBinder struct{ r *fakeRepo }

func (b fakeBinder) Bind(_ repokit.Queryer) repo.Repo { return b.r }

func newSvc(fr *fakeRepo) *Svc {
	return New(fakeTx{}, fakeBinder{r: fr}, Config{})
}

func TestRelinkRecomputesAggregates(t *testing.T) {
	fr := newFakeRepo()
	fr.agg = domain.Aggregates{
		Counts:      risk.StatusCounts{Total: 3, Verified: 1, Rejected: 1},
		MaxScore:    80,
		AvgScore:    60,
		TotalAmount: 125000,
	}
	fr.version = 7
	svc := newSvc(fr)

	if err := svc.Relink(context.Background(), nil, uuid.New()); err != nil {
		t.Fatalf("relink: %v", err)
	}
	if len(fr.applies) != 1 {
		t.Fatalf("applies = %d, want 1", len(fr.applies))
	}
	got := fr.applies[0]
	if got.version != 7 {
		t.Fatalf("cas version = %d, want 7", got.version)
	}
	if got.status != risk.EntityConfirmed {
		t.Fatalf("status = %s, want confirmed with a verified report", got.status)
	}
	// 0.6*80 + 0.4*60 = 72
	if got.score != 72 {
		t.Fatalf("score = %v, want 72", got.score)
	}
	if got.count != 3 || got.total != 125000 {
		t.Fatalf("count/total = %d/%v", got.count, got.total)
	}
	if len(fr.outbox) != 1 || fr.outbox[0] != "relink" {
		t.Fatalf("outbox = %v, want one relink marker", fr.outbox)
	}
}

func TestRelinkMissingEntityIsConsistencyViolation(t *testing.T) {
	fr := newFakeRepo()
	fr.aggErr = perr.NotFoundf("entity gone")
	svc := newSvc(fr)

	err := svc.Relink(context.Background(), nil, uuid.New())
	if !perr.IsCode(err, perr.ErrorCodeConsistency) {
		t.Fatalf("err = %v, want consistency violation", err)
	}
}

func TestRelinkVersionMissSurfacesRetryable(t *testing.T) {
	fr := newFakeRepo()
	fr.applyErr = perr.RetryConflictf("version moved")
	svc := newSvc(fr)

	err := svc.Relink(context.Background(), nil, uuid.New())
	if err == nil || !perr.Retryable(err) {
		t.Fatalf("err = %v, want retryable conflict for the caller's RetryTx", err)
	}
	if len(fr.outbox) != 0 {
		t.Fatal("failed relink must not queue an index refresh")
	}
}

func TestLinkIsIdempotentPerIdentifier(t *testing.T) {
	fr := newFakeRepo()
	svc := newSvc(fr)
	ctx := context.Background()

	a, err := svc.Link(ctx, nil, "phone", "+9779841234567", "+977-9841234567")
	if err != nil {
		t.Fatalf("link: %v", err)
	}
	b, err := svc.Link(ctx, nil, "phone", "+9779841234567", "9841234567")
	if err != nil {
		t.Fatalf("link again: %v", err)
	}
	if a != b {
		t.Fatalf("same normalized identifier resolved to %s and %s", a, b)
	}
}

func TestLookupNormalizesBeforeResolving(t *testing.T) {
	fr := newFakeRepo()
	svc := newSvc(fr)
	ctx := context.Background()

	id, _ := svc.Link(ctx, nil, "email", "scammer@example.com", "")
	got, err := svc.Lookup(ctx, domain.LookupInput{Type: "email", Value: "  Scammer@Example.COM "})
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if got.ID != id {
		t.Fatalf("resolved %s, want %s", got.ID, id)
	}
	if fr.lookups[0][1] != "scammer@example.com" {
		t.Fatalf("lookup used %q, want folded form", fr.lookups[0][1])
	}
}

func TestLookupRejectsMalformedValue(t *testing.T) {
	svc := newSvc(newFakeRepo())
	_, err := svc.Lookup(context.Background(), domain.LookupInput{Type: "email", Value: "nope"})
	if !perr.IsCode(err, perr.ErrorCodeInvalidIdentifier) {
		t.Fatalf("err = %v, want invalid identifier", err)
	}
}

func TestListComputesTotalPages(t *testing.T) {
	svc := newSvc(newFakeRepo())
	page, err := svc.List(context.Background(), domain.ListFilter{Limit: 20})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.TotalPages != 3 {
		t.Fatalf("totalPages = %d, want 3 for 45 rows at 20 per page", page.TotalPages)
	}
}

func TestUpdateRequiresModerator(t *testing.T) {
	fr := newFakeRepo()
	svc := newSvc(fr)
	id, _ := svc.Link(context.Background(), nil, "handle", "scammer", "")

	name := "Known Scam Ring"
	reporter := pnet.WithActor(context.Background(), "rep-1", "reporter")
	if _, err := svc.Update(reporter, id, domain.UpdateInput{DisplayName: &name}); !perr.IsCode(err, perr.ErrorCodeForbidden) {
		t.Fatalf("err = %v, want forbidden", err)
	}

	mod := pnet.WithActor(context.Background(), "mod-1", "moderator")
	got, err := svc.Update(mod, id, domain.UpdateInput{DisplayName: &name})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.DisplayName != name {
		t.Fatalf("displayName = %q", got.DisplayName)
	}
	if len(fr.outbox) == 0 || fr.outbox[len(fr.outbox)-1] != "curated" {
		t.Fatalf("outbox = %v, want curated marker", fr.outbox)
	}

	if _, err := svc.Update(mod, id, domain.UpdateInput{}); !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("empty update err = %v, want validation", err)
	}
}

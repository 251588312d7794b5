// Package service contains entity resolution and aggregation workflows
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bhattashubham/scamnepal-csr-sub000/internal/core/identifier"
	"github.com/bhattashubham/scamnepal-csr-sub000/internal/core/risk"
	"github.com/bhattashubham/scamnepal-csr-sub000/internal/modkit/repokit"
	perr "github.com/bhattashubham/scamnepal-csr-sub000/internal/platform/errors"
	pnet "github.com/bhattashubham/scamnepal-csr-sub000/internal/platform/net"
	"github.com/bhattashubham/scamnepal-csr-sub000/internal/platform/net/http/bind"
	"github.com/bhattashubham/scamnepal-csr-sub000/internal/services/entities/domain"
	"github.com/bhattashubham/scamnepal-csr-sub000/internal/services/entities/repo"
)

// Service is the public service port
type Service interface{ domain.ServicePort }

// Config carries the aggregate scoring knobs
type Config struct {
	RiskPolicy risk.Policy
}

// Svc implements both the public surface and the transactional aggregator
type Svc struct {
	Repo   repo.Repo
	binder repokit.Binder[repo.Repo]
	db     repokit.TxRunner
	cfg    Config
	now    func() time.Time
}

// New constructs the service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], cfg Config) *Svc {
	if db == nil {
		panic("entities.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("entities.Service requires a non nil Repo binder")
	}
	return &Svc{
		Repo:   binder.Bind(db),
		binder: binder,
		db:     db,
		cfg:    cfg,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Link resolves or creates the entity shell for an identifier, on the
// caller's transaction
func (s *Svc) Link(ctx context.Context, q repokit.Queryer, identifierType, normalized, _ string) (uuid.UUID, error) {
	r := s.binder.Bind(q)
	return r.ResolveOrCreate(ctx, uuid.New(), identifierType, normalized, s.now())
}

// Relink recomputes an entity's aggregates from its current report set and
// applies them under the version stamp, queueing a search refresh. Runs on
// the caller's transaction; a version miss surfaces as a retryable conflict
// so the enclosing RetryTx re-runs the whole unit
func (s *Svc) Relink(ctx context.Context, q repokit.Queryer, entityID uuid.UUID) error {
	r := s.binder.Bind(q)

	agg, version, err := r.Aggregates(ctx, entityID)
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			return perr.Consistencyf("entity %s missing while reports reference it", entityID)
		}
		return err
	}

	status := risk.DeriveEntityStatus(agg.Counts)
	score := s.cfg.RiskPolicy.BlendParts(agg.MaxScore, agg.AvgScore)

	if err := r.ApplyAggregates(ctx, entityID, version, status, score, agg.Counts.Total, agg.TotalAmount, s.now()); err != nil {
		return err
	}
	return r.EnqueueIndex(ctx, entityID, "relink")
}

// Get returns one entity profile
func (s *Svc) Get(ctx context.Context, id uuid.UUID) (domain.Entity, error) {
	return s.Repo.Get(ctx, id)
}

// Lookup normalizes a raw identifier and resolves it onto its profile
func (s *Svc) Lookup(ctx context.Context, in domain.LookupInput) (domain.Entity, error) {
	if err := bind.Validate(in); err != nil {
		return domain.Entity{}, err
	}
	typ, err := identifier.ParseType(in.Type)
	if err != nil {
		return domain.Entity{}, perr.WithField(err, "type")
	}
	norm, err := identifier.Normalize(typ, in.Value, "")
	if err != nil {
		return domain.Entity{}, perr.WithField(err, "value")
	}
	return s.Repo.Lookup(ctx, string(typ), norm)
}

// List pages entity profiles ordered by risk score descending
func (s *Svc) List(ctx context.Context, f domain.ListFilter) (domain.EntityPage, error) {
	f = f.Normalize()
	rows, total, err := s.Repo.List(ctx, f)
	if err != nil {
		return domain.EntityPage{}, err
	}
	pages := total / f.Limit
	if total%f.Limit != 0 {
		pages++
	}
	return domain.EntityPage{Data: rows, Total: total, Page: f.Page, Limit: f.Limit, TotalPages: pages}, nil
}

// Update edits the moderator-curated fields. Derived fields (status, risk,
// counts) are never settable from outside the aggregator
func (s *Svc) Update(ctx context.Context, id uuid.UUID, in domain.UpdateInput) (domain.Entity, error) {
	if !moderator(ctx) {
		return domain.Entity{}, perr.Forbiddenf("moderator role required")
	}
	if err := bind.Validate(in); err != nil {
		return domain.Entity{}, err
	}
	if in.DisplayName == nil && in.Tags == nil {
		return domain.Entity{}, perr.Validationf("nothing to update")
	}

	err := repokit.WithTx(ctx, s.db, func(q repokit.Queryer) error {
		r := s.binder.Bind(q)
		if err := r.UpdateCurated(ctx, id, in.DisplayName, in.Tags, s.now()); err != nil {
			return err
		}
		return r.EnqueueIndex(ctx, id, "curated")
	})
	if err != nil {
		return domain.Entity{}, err
	}
	return s.Repo.Get(ctx, id)
}

func moderator(ctx context.Context) bool {
	switch pnet.ActorRole(ctx) {
	case "moderator", "admin":
		return true
	}
	return false
}

// Package service contains the report lifecycle workflows
package service

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/bhattashubham/scamnepal-csr-sub000/internal/core/identifier"
	"github.com/bhattashubham/scamnepal-csr-sub000/internal/core/risk"
	"github.com/bhattashubham/scamnepal-csr-sub000/internal/modkit/repokit"
	perr "github.com/bhattashubham/scamnepal-csr-sub000/internal/platform/errors"
	pnet "github.com/bhattashubham/scamnepal-csr-sub000/internal/platform/net"
	"github.com/bhattashubham/scamnepal-csr-sub000/internal/platform/net/http/bind"
	"github.com/bhattashubham/scamnepal-csr-sub000/internal/services/reports/domain"
	"github.com/bhattashubham/scamnepal-csr-sub000/internal/services/reports/repo"
)

// Service is the public service port
type Service interface{ domain.ServicePort }

// Config carries submission policy knobs
type Config struct {
	NarrativeMin int
	NarrativeMax int
	RiskPolicy   risk.Policy

	// Retry bounds the optimistic re-run of aggregate transactions;
	// the zero value falls back to repokit.DefaultRetry
	Retry repokit.RetryPolicy
}

func (c Config) normalized() Config {
	if c.NarrativeMin <= 0 {
		c.NarrativeMin = 50
	}
	if c.NarrativeMax <= 0 {
		c.NarrativeMax = 5000
	}
	return c
}

// Svc implements the service port
type Svc struct {
	Repo     repo.Repo
	binder   repokit.Binder[repo.Repo]
	db       repokit.TxRunner
	entities domain.EntityPort
	queue    domain.QueuePort
	cfg      Config
	retry    repokit.RetryPolicy
	now      func() time.Time
}

// New constructs the service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], entities domain.EntityPort, queue domain.QueuePort, cfg Config) *Svc {
	if db == nil {
		panic("reports.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("reports.Service requires a non nil Repo binder")
	}
	if entities == nil {
		panic("reports.Service requires a non nil EntityPort")
	}
	if queue == nil {
		panic("reports.Service requires a non nil QueuePort")
	}
	return &Svc{
		Repo:     binder.Bind(db),
		binder:   binder,
		db:       db,
		entities: entities,
		queue:    queue,
		cfg:      cfg.normalized(),
		retry:    cfg.Retry,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Submit validates and ingests a public submission. The report row, its
// first history entry, the entity aggregate, and the moderation task all
// commit in one transaction
func (s *Svc) Submit(ctx context.Context, in domain.SubmitInput) (domain.SubmitResult, error) {
	actor := pnet.ActorID(ctx)
	if actor == "" {
		return domain.SubmitResult{}, perr.Unauthorizedf("missing actor identity")
	}

	if err := bind.Validate(in); err != nil {
		return domain.SubmitResult{}, err
	}

	typ, err := identifier.ParseType(in.IdentifierType)
	if err != nil {
		return domain.SubmitResult{}, perr.WithField(err, "identifierType")
	}
	norm, err := identifier.Normalize(typ, in.IdentifierValue, in.CountryCode)
	if err != nil {
		return domain.SubmitResult{}, perr.WithField(err, "identifierValue")
	}

	cat, err := risk.ParseCategory(in.Category)
	if err != nil {
		return domain.SubmitResult{}, perr.WithField(err, "category")
	}

	if n := utf8.RuneCountInString(in.Narrative); n < s.cfg.NarrativeMin || n > s.cfg.NarrativeMax {
		return domain.SubmitResult{}, perr.WithField(
			perr.Validationf("narrative must be between %d and %d characters", s.cfg.NarrativeMin, s.cfg.NarrativeMax),
			"narrative")
	}

	now := s.now()
	var incidentAt *time.Time
	if in.IncidentDate != "" {
		t, err := time.Parse("2006-01-02", in.IncidentDate)
		if err != nil {
			return domain.SubmitResult{}, perr.WithField(perr.Validationf("incident date must be YYYY-MM-DD"), "incidentDate")
		}
		if t.After(now) {
			return domain.SubmitResult{}, perr.WithField(perr.Validationf("incident date cannot be in the future"), "incidentDate")
		}
		incidentAt = &t
	}

	rep := domain.Report{
		ID: uuid.New(),
		Identifier: domain.Identifier{
			Type:        typ,
			RawValue:    in.IdentifierValue,
			Normalized:  norm,
			CountryCode: in.CountryCode,
		},
		Category:   cat,
		Narrative:  in.Narrative,
		AmountLost: in.AmountLost,
		Currency:   in.Currency,
		Channel:    in.IncidentChannel,
		IncidentAt: incidentAt,
		RiskScore:  s.cfg.RiskPolicy.InitialScore(cat, in.AmountLost),
		Status:     domain.StatusPending,
		ReporterID: actor,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err = repokit.RetryTx(ctx, s.db, s.retry, func(q repokit.Queryer) error {
		entityID, err := s.entities.Link(ctx, q, domain.LinkFacts{
			IdentifierType: string(typ),
			Normalized:     norm,
			RawValue:       in.IdentifierValue,
		})
		if err != nil {
			return err
		}
		rep.EntityID = entityID

		r := s.binder.Bind(q)
		if err := r.Insert(ctx, rep); err != nil {
			return err
		}
		if err := r.AppendHistory(ctx, domain.HistoryEntry{
			ReportID:  rep.ID,
			NewStatus: domain.StatusPending,
			ActorID:   actor,
			Reason:    "submitted",
			Timestamp: now,
		}); err != nil {
			return err
		}
		if err := s.entities.Relink(ctx, q, entityID); err != nil {
			return err
		}
		return s.queue.Enqueue(ctx, q, rep.ID, now)
	})
	if err != nil {
		return domain.SubmitResult{}, err
	}

	return domain.SubmitResult{
		ID:        rep.ID,
		Status:    rep.Status,
		RiskScore: rep.RiskScore,
		CreatedAt: rep.CreatedAt,
	}, nil
}

// Get returns a report visible to the calling actor
func (s *Svc) Get(ctx context.Context, reportID uuid.UUID) (domain.Report, error) {
	rep, err := s.Repo.Get(ctx, reportID)
	if err != nil {
		return domain.Report{}, err
	}
	if err := s.canView(ctx, rep); err != nil {
		return domain.Report{}, err
	}
	return rep, nil
}

// History returns the append-only audit trail of a report
func (s *Svc) History(ctx context.Context, reportID uuid.UUID) ([]domain.HistoryEntry, error) {
	rep, err := s.Repo.Get(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if err := s.canView(ctx, rep); err != nil {
		return nil, err
	}
	return s.Repo.History(ctx, reportID)
}

// List pages reports for moderators
func (s *Svc) List(ctx context.Context, f domain.ListFilter) (domain.ReportPage, error) {
	if !moderator(ctx) {
		return domain.ReportPage{}, perr.Forbiddenf("moderator role required")
	}
	f = f.Normalize()
	rows, total, err := s.Repo.List(ctx, f)
	if err != nil {
		return domain.ReportPage{}, err
	}
	return domain.ReportPage{Reports: rows, Total: total, Page: f.Page, Limit: f.Limit}, nil
}

// ListMine pages the calling reporter's own submissions
func (s *Svc) ListMine(ctx context.Context, f domain.ListFilter) (domain.ReportPage, error) {
	actor := pnet.ActorID(ctx)
	if actor == "" {
		return domain.ReportPage{}, perr.Unauthorizedf("missing actor identity")
	}
	f = f.Normalize()
	rows, total, err := s.Repo.ListByReporter(ctx, actor, f)
	if err != nil {
		return domain.ReportPage{}, err
	}
	return domain.ReportPage{Reports: rows, Total: total, Page: f.Page, Limit: f.Limit}, nil
}

func (s *Svc) canView(ctx context.Context, rep domain.Report) error {
	if moderator(ctx) || pnet.ActorID(ctx) == rep.ReporterID {
		return nil
	}
	return perr.Forbiddenf("not the report owner")
}

func moderator(ctx context.Context) bool {
	switch pnet.ActorRole(ctx) {
	case "moderator", "admin":
		return true
	}
	return false
}

// Package service runs the background maintenance loops: search outbox
// drains, aggregate consistency audits, and SLA depth reporting.
//
// The search projection is eventually consistent; it lags a committed
// write by at most one drain interval while the sweeper is up
package service

import (
	"context"
	"errors"
	"time"

	"github.com/bhattashubham/scamnepal-csr-sub000/internal/modkit/repokit"
	"github.com/bhattashubham/scamnepal-csr-sub000/internal/platform/logger"
	"github.com/bhattashubham/scamnepal-csr-sub000/internal/platform/store"

	edom "github.com/bhattashubham/scamnepal-csr-sub000/internal/services/entities/domain"
	erepo "github.com/bhattashubham/scamnepal-csr-sub000/internal/services/entities/repo"
	mrepo "github.com/bhattashubham/scamnepal-csr-sub000/internal/services/moderation/repo"
	sdom "github.com/bhattashubham/scamnepal-csr-sub000/internal/services/search/domain"
	"github.com/bhattashubham/scamnepal-csr-sub000/internal/services/sweeper/guardrails"
)

// Config controls the sweep cadence
type Config struct {
	DrainInterval time.Duration
	DrainBatch    int
	AuditInterval time.Duration
	AuditLimit    int

	// RebuildOnStart reprojects every entity before the loops begin;
	// the recovery path after index loss
	RebuildOnStart bool
}

func (c Config) normalized() Config {
	if c.DrainInterval <= 0 {
		c.DrainInterval = 250 * time.Millisecond
	}
	if c.DrainBatch <= 0 {
		c.DrainBatch = 64
	}
	if c.AuditInterval <= 0 {
		c.AuditInterval = time.Hour
	}
	if c.AuditLimit <= 0 {
		c.AuditLimit = 100
	}
	return c
}

// Svc is the sweeper worker
type Svc struct {
	db         repokit.TxRunner
	indexer    sdom.IndexerPort
	aggregator edom.AggregatorPort
	entities   repokit.Binder[erepo.Repo]
	tasks      repokit.Binder[mrepo.Repo]

	// lease(ctx, do) should claim the audit lease and run do(); nil
	// disables the guard and every instance audits
	lease func(context.Context, func(context.Context) error) error

	cfg Config
	now func() time.Time
}

// New constructs the sweeper
func New(db repokit.TxRunner, indexer sdom.IndexerPort, aggregator edom.AggregatorPort,
	entities repokit.Binder[erepo.Repo], tasks repokit.Binder[mrepo.Repo],
	lease func(context.Context, func(context.Context) error) error, cfg Config) *Svc {
	if db == nil {
		panic("sweeper.Service requires a non nil TxRunner")
	}
	if indexer == nil {
		panic("sweeper.Service requires a non nil search indexer")
	}
	if aggregator == nil {
		panic("sweeper.Service requires a non nil entity aggregator")
	}
	if entities == nil || tasks == nil {
		panic("sweeper.Service requires entity and task repo binders")
	}
	return &Svc{
		db:         db,
		indexer:    indexer,
		aggregator: aggregator,
		entities:   entities,
		tasks:      tasks,
		lease:      lease,
		cfg:        cfg.normalized(),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Run blocks until ctx cancels, draining the index outbox every interval
// and auditing aggregate consistency every audit interval
func (s *Svc) Run(ctx context.Context) error {
	l := logger.C(ctx).With().Str("mod", "sweeper").Logger()

	if s.cfg.RebuildOnStart {
		n, err := s.indexer.Rebuild(ctx)
		if err != nil {
			l.Error().Err(err).Int("projected", n).Msg("index rebuild failed")
			return err
		}
		l.Info().Int("projected", n).Msg("index rebuilt")
	}

	drain := time.NewTicker(s.cfg.DrainInterval)
	defer drain.Stop()
	audit := time.NewTicker(s.cfg.AuditInterval)
	defer audit.Stop()

	l.Info().
		Dur("drainInterval", s.cfg.DrainInterval).
		Dur("auditInterval", s.cfg.AuditInterval).
		Msg("sweeper running")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-drain.C:
			n, err := s.indexer.DrainOutbox(ctx, s.cfg.DrainBatch)
			if err != nil {
				l.Error().Err(err).Msg("outbox drain failed")
				continue
			}
			if n > 0 {
				l.Debug().Int("drained", n).Msg("outbox drained")
			}
		case <-audit.C:
			// outbox drain tolerates concurrent sweepers (SKIP LOCKED);
			// the audit repair does not, so it runs under the lease
			run := s.Audit
			if s.lease != nil {
				run = func(ctx context.Context) error { return s.lease(ctx, s.Audit) }
			}
			if err := run(ctx); err != nil {
				if errors.Is(err, guardrails.ErrLeaseHeld) {
					l.Debug().Msg("audit lease held elsewhere; clean skip")
					continue
				}
				l.Error().Err(err).Msg("consistency audit failed")
			}
		}
	}
}

// Audit recounts aggregates per entity and repairs any drift it finds.
// Drift means a past transaction violated the resync invariant; it is
// always logged at error level before the repair, never silently fixed
func (s *Svc) Audit(ctx context.Context) error {
	l := logger.C(ctx).With().Str("mod", "sweeper").Logger()

	drifted, err := s.entities.Bind(s.db).Drifted(ctx, s.cfg.AuditLimit)
	if err != nil {
		return err
	}
	for _, id := range drifted {
		l.Error().
			Str("entityId", id.String()).
			Msg("aggregate drift detected: stored snapshot disagrees with report recount")
		err := s.db.Tx(ctx, func(q store.RowQuerier) error {
			return s.aggregator.Relink(ctx, q, id)
		})
		if err != nil {
			l.Error().Err(err).Str("entityId", id.String()).Msg("drift repair failed")
			continue
		}
		l.Warn().Str("entityId", id.String()).Msg("aggregate drift repaired")
	}

	overdue, err := s.tasks.Bind(s.db).OverdueOpenCount(ctx, s.now())
	if err != nil {
		return err
	}
	if overdue > 0 {
		l.Warn().Int("overdueTasks", overdue).Msg("moderation queue has tasks past their SLA")
	} else {
		l.Info().Msg("moderation queue within SLA")
	}
	return nil
}

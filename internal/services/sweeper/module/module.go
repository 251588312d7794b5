// Package module wires the sweeper worker as a modkit.Module
package module

import (
	"context"

	modkit "github.com/bhattashubham/scamnepal-csr-sub000/internal/modkit"
	"github.com/bhattashubham/scamnepal-csr-sub000/internal/modkit/httpkit"

	edom "github.com/bhattashubham/scamnepal-csr-sub000/internal/services/entities/domain"
	erepo "github.com/bhattashubham/scamnepal-csr-sub000/internal/services/entities/repo"
	mrepo "github.com/bhattashubham/scamnepal-csr-sub000/internal/services/moderation/repo"
	sdom "github.com/bhattashubham/scamnepal-csr-sub000/internal/services/search/domain"
	"github.com/bhattashubham/scamnepal-csr-sub000/internal/services/sweeper/domain"
	"github.com/bhattashubham/scamnepal-csr-sub000/internal/services/sweeper/guardrails"
	wsvc "github.com/bhattashubham/scamnepal-csr-sub000/internal/services/sweeper/service"
)

// Ports exported by the sweeper module
type Ports struct {
	Runner domain.RunnerPort
}

// Injected declares the cross-module ports the sweeper requires
type Injected struct {
	Indexer    sdom.IndexerPort
	Aggregator edom.AggregatorPort
}

// Module implements modkit.Module for the sweeper
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs and wires the sweeper module
func New(deps modkit.Deps, injected Injected) *Module {
	if injected.Indexer == nil {
		panic("sweeper module requires an Indexer port (from services/search)")
	}
	if injected.Aggregator == nil {
		panic("sweeper module requires an Aggregator port (from services/entities)")
	}
	opts := FromConfig(deps.Cfg)

	var leaseFn func(context.Context, func(context.Context) error) error
	if opts.EnableLeases {
		leaseFn = guardrails.MakeLease(deps.PG, "sweeper_audit", "sweeper", opts.LeaseTTL)
	}

	svc := wsvc.New(deps.PG, injected.Indexer, injected.Aggregator,
		erepo.NewPG(), mrepo.NewPG(), leaseFn, wsvc.Config{
			DrainInterval:  opts.DrainInterval,
			DrainBatch:     opts.DrainBatch,
			AuditInterval:  opts.AuditInterval,
			AuditLimit:     opts.AuditLimit,
			RebuildOnStart: opts.RebuildOnStart,
		})

	m := &Module{deps: deps}
	m.ports = Ports{Runner: svc}
	return m
}

// Name returns the module name
func (m *Module) Name() string { return "sweeper" }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// MountRoutes is a no-op: the sweeper has no HTTP routes
func (m *Module) MountRoutes(_ httpkit.Router) {}

// Package module wires reports into the API using modkit
package module

import (
	"net/http"

	modkit "github.com/bhattashubham/scamnepal-csr-sub000/internal/modkit"
	"github.com/bhattashubham/scamnepal-csr-sub000/internal/modkit/httpkit"
	str "github.com/bhattashubham/scamnepal-csr-sub000/internal/platform/strings"

	"github.com/bhattashubham/scamnepal-csr-sub000/internal/services/reports/domain"
	rhttp "github.com/bhattashubham/scamnepal-csr-sub000/internal/services/reports/http"
	rrepo "github.com/bhattashubham/scamnepal-csr-sub000/internal/services/reports/repo"
	rsvc "github.com/bhattashubham/scamnepal-csr-sub000/internal/services/reports/service"
)

// Module implements the reports API module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws       []func(http.Handler) http.Handler
	ports     any
	swaggerOn bool

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	svc rsvc.Service
}

// Ports declares the injected cross-module ports this module requires
type Ports struct {
	Entities domain.EntityPort
	Queue    domain.QueuePort
}

// New constructs the reports module
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("reports"),
		modkit.WithPrefix("/reports"),
	}, opts...)...)

	cfg := FromConfig(deps.Cfg)

	var injected Ports
	if p, ok := b.Ports.(Ports); ok {
		injected = p
	}
	if injected.Entities == nil {
		panic("reports module requires Entities port (from services/entities)")
	}
	if injected.Queue == nil {
		panic("reports module requires Queue port (from services/moderation)")
	}

	svc := rsvc.New(deps.PG, rrepo.NewPG(), injected.Entities, injected.Queue, rsvc.Config{
		NarrativeMin: cfg.NarrativeMin,
		NarrativeMax: cfg.NarrativeMax,
		RiskPolicy:   cfg.RiskPolicy,
		Retry:        cfg.Retry,
	})

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		swaggerOn: b.SwaggerOn,
		subrouter: b.Subrouter,
		svc:       svc,
	}
	m.ports = adaptReportsPort{svc: svc}

	external := b.Register
	m.register = func(r httpkit.Router) {
		rhttp.Register(r, m.svc)
		if external != nil {
			external(r)
		}
	}
	return m
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		if m.subrouter != nil {
			rr = m.subrouter(rr)
		}
		if m.register != nil {
			m.register(rr)
		}
	})
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Middlewares returns the module middlewares
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.mws }

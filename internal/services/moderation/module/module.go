// Package module wires moderation into the API using modkit
package module

import (
	"net/http"

	modkit "github.com/bhattashubham/scamnepal-csr-sub000/internal/modkit"
	"github.com/bhattashubham/scamnepal-csr-sub000/internal/modkit/httpkit"
	str "github.com/bhattashubham/scamnepal-csr-sub000/internal/platform/strings"

	"github.com/bhattashubham/scamnepal-csr-sub000/internal/services/moderation/domain"
	mhttp "github.com/bhattashubham/scamnepal-csr-sub000/internal/services/moderation/http"
	mrepo "github.com/bhattashubham/scamnepal-csr-sub000/internal/services/moderation/repo"
	msvc "github.com/bhattashubham/scamnepal-csr-sub000/internal/services/moderation/service"
)

// Module implements the moderation API module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws       []func(http.Handler) http.Handler
	ports     any
	swaggerOn bool

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	svc msvc.Service
}

// Injected declares the cross-module ports this module requires
type Injected struct {
	Reports domain.ReportsPort
}

// New constructs the moderation module
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("moderation"),
		modkit.WithPrefix("/moderation"),
	}, opts...)...)

	cfg := FromConfig(deps.Cfg)

	var injected Injected
	if p, ok := b.Ports.(Injected); ok {
		injected = p
	}
	if injected.Reports == nil {
		panic("moderation module requires Reports port (from services/reports)")
	}

	svc := msvc.New(deps.PG, mrepo.NewPG(), injected.Reports, cfg.Schedule)

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		swaggerOn: b.SwaggerOn,
		subrouter: b.Subrouter,
		svc:       svc,
	}
	m.ports = Ports{
		Service: svc,
		Queue:   msvc.NewQueue(mrepo.NewPG(), cfg.Schedule),
	}

	external := b.Register
	m.register = func(r httpkit.Router) {
		mhttp.Register(r, m.svc)
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

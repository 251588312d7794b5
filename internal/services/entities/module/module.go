// Package module wires entities into the API using modkit
package module

import (
	"net/http"

	modkit "github.com/bhattashubham/scamnepal-csr-sub000/internal/modkit"
	"github.com/bhattashubham/scamnepal-csr-sub000/internal/modkit/httpkit"
	str "github.com/bhattashubham/scamnepal-csr-sub000/internal/platform/strings"

	ehttp "github.com/bhattashubham/scamnepal-csr-sub000/internal/services/entities/http"
	erepo "github.com/bhattashubham/scamnepal-csr-sub000/internal/services/entities/repo"
	esvc "github.com/bhattashubham/scamnepal-csr-sub000/internal/services/entities/service"
)

// Module implements the entities API module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws       []func(http.Handler) http.Handler
	ports     any
	swaggerOn bool

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	svc *esvc.Svc
}

// New constructs the entities module
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("entities"),
		modkit.WithPrefix("/entities"),
	}, opts...)...)

	cfg := FromConfig(deps.Cfg)

	svc := esvc.New(deps.PG, erepo.NewPG(), esvc.Config{
		RiskPolicy: cfg.RiskPolicy,
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
	m.ports = Ports{Service: svc, Aggregator: svc}

	external := b.Register
	m.register = func(r httpkit.Router) {
		ehttp.Register(r, m.svc)
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

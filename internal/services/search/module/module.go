// Package module wires search into the API using modkit
package module

import (
	"net/http"

	modkit "github.com/bhattashubham/scamnepal-csr-sub000/internal/modkit"
	"github.com/bhattashubham/scamnepal-csr-sub000/internal/modkit/httpkit"
	str "github.com/bhattashubham/scamnepal-csr-sub000/internal/platform/strings"

	shttp "github.com/bhattashubham/scamnepal-csr-sub000/internal/services/search/http"
	srepo "github.com/bhattashubham/scamnepal-csr-sub000/internal/services/search/repo"
	ssvc "github.com/bhattashubham/scamnepal-csr-sub000/internal/services/search/service"
)

// Module implements the search API module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws       []func(http.Handler) http.Handler
	ports     any
	swaggerOn bool

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	svc *ssvc.Svc
}

// New constructs the search module
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("search"),
		modkit.WithPrefix("/search"),
	}, opts...)...)

	cfg := FromConfig(deps.Cfg)

	binder := srepo.NewPG()
	svc := ssvc.New(deps.PG, binder, ssvc.Config{
		Rank:         cfg.Rank,
		CandidateCap: cfg.CandidateCap,
		MinPrefix:    cfg.MinPrefix,
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
	m.ports = Ports{
		Service: svc,
		Indexer: ssvc.NewIndexer(deps.PG, binder),
	}

	external := b.Register
	m.register = func(r httpkit.Router) {
		shttp.Register(r, m.svc)
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

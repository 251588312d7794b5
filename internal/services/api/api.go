// Package api composes the HTTP API from the service modules
package api

import (
	"context"

	"github.com/google/uuid"

	"github.com/bhattashubham/scamnepal-csr-sub000/internal/modkit/repokit"
	"github.com/bhattashubham/scamnepal-csr-sub000/internal/platform/config"
	"github.com/bhattashubham/scamnepal-csr-sub000/internal/platform/logger"
	phttp "github.com/bhattashubham/scamnepal-csr-sub000/internal/platform/net/http"
	"github.com/bhattashubham/scamnepal-csr-sub000/internal/platform/store"

	"github.com/bhattashubham/scamnepal-csr-sub000/internal/modkit"
	"github.com/bhattashubham/scamnepal-csr-sub000/internal/modkit/httpkit"
	"github.com/bhattashubham/scamnepal-csr-sub000/internal/modkit/module"
	"github.com/bhattashubham/scamnepal-csr-sub000/internal/modkit/swaggerkit"

	metamod "github.com/bhattashubham/scamnepal-csr-sub000/internal/services/api/meta/module"
	edom "github.com/bhattashubham/scamnepal-csr-sub000/internal/services/entities/domain"
	entmod "github.com/bhattashubham/scamnepal-csr-sub000/internal/services/entities/module"
	modmod "github.com/bhattashubham/scamnepal-csr-sub000/internal/services/moderation/module"
	mrepo "github.com/bhattashubham/scamnepal-csr-sub000/internal/services/moderation/repo"
	msvc "github.com/bhattashubham/scamnepal-csr-sub000/internal/services/moderation/service"
	rdom "github.com/bhattashubham/scamnepal-csr-sub000/internal/services/reports/domain"
	repmod "github.com/bhattashubham/scamnepal-csr-sub000/internal/services/reports/module"
	searchmod "github.com/bhattashubham/scamnepal-csr-sub000/internal/services/search/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	// shared deps for modules
	deps := modkit.Deps{
		Cfg: opt.Config,
		PG:  opt.Store.PG,
	}

	// Entities first: the aggregator port feeds the report ingest tx
	entities := entmod.New(deps)
	entPorts := module.MustPortsOf[entmod.Ports](entities)

	// The queue adapter is transactional and repo-backed, so reports can
	// construct before the moderation module exists. This breaks the
	// reports <-> moderation construction cycle
	queue := msvc.NewQueue(mrepo.NewPG(), modmod.FromConfig(deps.Cfg).Schedule)

	reports := repmod.New(deps, modkit.WithPorts(repmod.Ports{
		Entities: adaptAggregator{agg: entPorts.Aggregator},
		Queue:    queue,
	}))
	repPorts := module.MustPortsOf[rdom.ServicePort](reports)

	moderation := modmod.New(deps, modkit.WithPorts(modmod.Injected{
		Reports: repPorts,
	}))

	search := searchmod.New(deps)

	meta := metamod.New(deps)
	mods := []module.Module{
		entities,
		reports,
		moderation,
		search,
	}

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		swaggerkit.Mount(r, opt.EnableSwagger)
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

		// health, readiness and version stay open for the platform
		module.Register(meta.Name(), meta.Ports())
		meta.MountRoutes(api)

		// everything else carries the gateway-resolved identity; the
		// auth middleware puts it on ctx before any handler runs
		api.Group(func(gr httpkit.Router) {
			gr.Use(httpkit.Auth(httpkit.NewHeaderPort()))

			for _, m := range mods {
				// register each module's ports under its own name
				module.Register(m.Name(), m.Ports())

				m.MountRoutes(gr)
			}
		})
	})
}

// adaptAggregator narrows the entity aggregator onto the seam the report
// lifecycle drives inside its ingest transaction
type adaptAggregator struct{ agg edom.AggregatorPort }

func (a adaptAggregator) Link(ctx context.Context, q repokit.Queryer, f rdom.LinkFacts) (uuid.UUID, error) {
	return a.agg.Link(ctx, q, f.IdentifierType, f.Normalized, f.RawValue)
}

func (a adaptAggregator) Relink(ctx context.Context, q repokit.Queryer, entityID uuid.UUID) error {
	return a.agg.Relink(ctx, q, entityID)
}


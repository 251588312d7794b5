package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"

	"github.com/bhattashubham/scamnepal-csr-sub000/internal/platform/config"
	"github.com/bhattashubham/scamnepal-csr-sub000/internal/platform/logger"
	"github.com/bhattashubham/scamnepal-csr-sub000/internal/platform/store"

	modkit "github.com/bhattashubham/scamnepal-csr-sub000/internal/modkit"
	"github.com/bhattashubham/scamnepal-csr-sub000/internal/modkit/module"

	entmod "github.com/bhattashubham/scamnepal-csr-sub000/internal/services/entities/module"
	searchmod "github.com/bhattashubham/scamnepal-csr-sub000/internal/services/search/module"
	sweepmod "github.com/bhattashubham/scamnepal-csr-sub000/internal/services/sweeper/module"
)

func main() {
	root := config.New()
	pgCfg := root.Prefix("CSR_PGSQL_")

	l := logger.Get()

	var (
		fRebuild   = flag.Bool("rebuild", false, "reproject the whole search index before the loops start")
		fAuditOnce = flag.Bool("audit", false, "run one consistency audit pass and exit")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if pgCfg.MayBool("MIGRATE", true) {
		if err := store.Migrate(ctx, pgCfg.MustString("URL"), *l); err != nil {
			l.Fatal().Err(err).Msg("migrations failed")
		}
	}

	st, err := store.Open(ctx, store.Config{
		PG: store.PGConfig{
			Enabled:     true,
			URL:         pgCfg.MustString("URL"),
			MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
			LogSQL:      pgCfg.MayBool("LOG_SQL", false),
		},
	}, store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	deps := modkit.Deps{
		Cfg: root,
		PG:  st.PG,
		Log: *l,
	}

	entities := entmod.New(deps)
	search := searchmod.New(deps)

	sweeper := sweepmod.New(deps, sweepmod.Injected{
		Indexer:    module.MustPortsOf[searchmod.Ports](search).Indexer,
		Aggregator: module.MustPortsOf[entmod.Ports](entities).Aggregator,
	})
	ports := module.MustPortsOf[sweepmod.Ports](sweeper)

	if *fRebuild {
		indexed, err := module.MustPortsOf[searchmod.Ports](search).Indexer.Rebuild(ctx)
		if err != nil {
			l.Fatal().Err(err).Msg("index rebuild failed")
		}
		l.Info().Int("entities", indexed).Msg("search index rebuilt")
	}

	if *fAuditOnce {
		if err := ports.Runner.Audit(ctx); err != nil {
			l.Fatal().Err(err).Msg("consistency audit failed")
		}
		return
	}

	if err := ports.Runner.Run(ctx); err != nil && ctx.Err() == nil {
		l.Fatal().Err(err).Msg("sweeper stopped")
	}
	l.Info().Msg("sweeper shut down")
}

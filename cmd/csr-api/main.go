// @title         Community Scam Registry API
// @version       0.1.0
// @description   Scam report intake, entity risk profiles, moderation queue, and search

package main

import (
	"context"

	"github.com/bhattashubham/scamnepal-csr-sub000/internal/platform/config"
	"github.com/bhattashubham/scamnepal-csr-sub000/internal/platform/logger"
	phttp "github.com/bhattashubham/scamnepal-csr-sub000/internal/platform/net/http"
	"github.com/bhattashubham/scamnepal-csr-sub000/internal/platform/store"

	"github.com/bhattashubham/scamnepal-csr-sub000/internal/services/api"
)

func main() {
	root := config.New()
	apiCfg := root.Prefix("CSR_API_")
	pgCfg := root.Prefix("CSR_PGSQL_")

	l := logger.Get()

	ctx := context.Background()
	dbURL := pgCfg.MustString("URL")

	if pgCfg.MayBool("MIGRATE", true) {
		if err := store.Migrate(ctx, dbURL, *l); err != nil {
			l.Panic().Err(err).Msg("migrations failed")
		}
	}

	st, err := store.Open(ctx, store.Config{
		PG: store.PGConfig{
			Enabled:     true,
			URL:         dbURL,
			MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 8)),
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

	// http server (reads CSR_API_PORT / CSR_API_ADDR)
	srv := phttp.NewServer(apiCfg)

	// modules read their own CSR_* prefixes off the root conf
	api.Mount(
		srv.Router(),
		api.Options{
			Config:         root,
			Store:          st,
			Logger:         l,
			EnableSwagger:  apiCfg.MayBool("ENABLE_DOCS", true),
			EnableProfiler: apiCfg.MayBool("ENABLE_PPROF", false),
		},
	)

	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}

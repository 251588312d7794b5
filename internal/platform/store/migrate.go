package store

import (
	"context"
	"database/sql"
	"embed"

	"github.com/bhattashubham/scamnepal-csr-sub000/internal/platform/logger"

	"github.com/pressly/goose/v3"

	// database/sql driver goose migrates through
	_ "github.com/jackc/pgx/v5/stdlib"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate applies the embedded schema migrations to the database at url
// safe to run on every boot since goose tracks applied versions
func Migrate(ctx context.Context, url string, log logger.Logger) error {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(gooseLogger{log: log.With().Str("component", "migrate").Logger()})
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, "migrations")
}

// gooseLogger routes goose output through our structured logger
type gooseLogger struct{ log logger.Logger }

func (g gooseLogger) Fatalf(format string, v ...any) { g.log.Fatal().Msgf(format, v...) }
func (g gooseLogger) Printf(format string, v ...any) { g.log.Info().Msgf(format, v...) }

// Package repo provides postgres access for entity aggregates
package repo

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bhattashubham/scamnepal-csr-sub000/internal/core/identifier"
	"github.com/bhattashubham/scamnepal-csr-sub000/internal/core/risk"
	"github.com/bhattashubham/scamnepal-csr-sub000/internal/modkit/repokit"
	perr "github.com/bhattashubham/scamnepal-csr-sub000/internal/platform/errors"
	"github.com/bhattashubham/scamnepal-csr-sub000/internal/platform/store"
	"github.com/bhattashubham/scamnepal-csr-sub000/internal/services/entities/domain"
)

// Repo is the entity persistence surface used by the service layer
type Repo interface {
	// ResolveOrCreate returns the entity id for an identifier, inserting
	// a fresh shell row when none exists. Concurrency-safe via the
	// (identifier_type, identifier_norm) unique constraint
	ResolveOrCreate(ctx context.Context, id uuid.UUID, identifierType, normalized string, now time.Time) (uuid.UUID, error)

	Get(ctx context.Context, id uuid.UUID) (domain.Entity, error)
	Lookup(ctx context.Context, identifierType, normalized string) (domain.Entity, error)
	List(ctx context.Context, f domain.ListFilter) ([]domain.Entity, int, error)

	// Aggregates recomputes the snapshot of an entity's linked reports
	// together with the current row version for the CAS update
	Aggregates(ctx context.Context, entityID uuid.UUID) (domain.Aggregates, int64, error)

	// ApplyAggregates writes a recomputed snapshot guarded by version.
	// Zero rows affected surfaces as a retryable conflict
	ApplyAggregates(ctx context.Context, entityID uuid.UUID, version int64, status risk.EntityStatus, score float64, count int, total float64, now time.Time) error

	// UpdateCurated edits display name and tags, bumping the version
	UpdateCurated(ctx context.Context, id uuid.UUID, displayName *string, tags *[]string, now time.Time) error

	// EnqueueIndex queues a search projection refresh for the entity,
	// in the same transaction as the mutation it mirrors
	EnqueueIndex(ctx context.Context, entityID uuid.UUID, reason string) error

	// Drifted returns ids of entities whose stored aggregates disagree
	// with a recount of their report set
	Drifted(ctx context.Context, limit int) ([]uuid.UUID, error)
}

type (
	// PG implements the Repo interface using Postgres
	PG struct{}

	// queries holds the database query methods
	queries struct{ q repokit.Queryer }
)

// NewPG creates a new Postgres repository binder
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind binds a Postgres queryer to the Repo implementation
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

const entityCols = `
	id, identifier_type, identifier_norm, display_name, status, risk_score,
	report_count, total_amount, tags, version, created_at, updated_at`

func scanEntity(row store.Row) (domain.Entity, error) {
	var e domain.Entity
	var typ, status string
	err := row.Scan(
		&e.ID, &typ, &e.Normalized, &e.DisplayName, &status, &e.RiskScore,
		&e.ReportCount, &e.TotalAmount, &e.Tags, &e.Version, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return domain.Entity{}, err
	}
	e.IdentifierType = identifier.Type(typ)
	e.Status = risk.EntityStatus(status)
	return e, nil
}

func (r *queries) ResolveOrCreate(ctx context.Context, id uuid.UUID, identifierType, normalized string, now time.Time) (uuid.UUID, error) {
	const ins = `
		INSERT INTO entities (id, identifier_type, identifier_norm, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT ON CONSTRAINT entities_identifier_key DO NOTHING
		RETURNING id`
	rows, err := r.q.Query(ctx, ins, id, identifierType, normalized, now)
	if err != nil {
		return uuid.Nil, perr.FromPostgres(err, "create entity")
	}
	if rows.Next() {
		var got uuid.UUID
		err := rows.Scan(&got)
		rows.Close()
		if err != nil {
			return uuid.Nil, err
		}
		return got, rows.Err()
	}
	rows.Close()

	const sel = `SELECT id FROM entities WHERE identifier_type = $1 AND identifier_norm = $2`
	got, err := store.Scalar[uuid.UUID](ctx, r.q, sel, identifierType, normalized)
	if err != nil {
		return uuid.Nil, perr.FromPostgres(err, "resolve entity")
	}
	return got, nil
}

func (r *queries) Get(ctx context.Context, id uuid.UUID) (domain.Entity, error) {
	sql := `SELECT ` + entityCols + ` FROM entities WHERE id = $1`
	e, err := store.One(ctx, r.q, scanEntity, sql, id)
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			return domain.Entity{}, perr.NotFoundf("entity %s not found", id)
		}
		return domain.Entity{}, perr.FromPostgres(err, "get entity")
	}
	return e, nil
}

func (r *queries) Lookup(ctx context.Context, identifierType, normalized string) (domain.Entity, error) {
	sql := `SELECT ` + entityCols + ` FROM entities WHERE identifier_type = $1 AND identifier_norm = $2`
	e, err := store.One(ctx, r.q, scanEntity, sql, identifierType, normalized)
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			return domain.Entity{}, perr.NotFoundf("no entity for that identifier")
		}
		return domain.Entity{}, perr.FromPostgres(err, "lookup entity")
	}
	return e, nil
}

func (r *queries) List(ctx context.Context, f domain.ListFilter) ([]domain.Entity, int, error) {
	f = f.Normalize()
	const where = `
		WHERE ($1 = '' OR status = $1)
		  AND ($2 = '' OR identifier_norm LIKE $2 || '%' OR display_name ILIKE '%' || $2 || '%')`

	search := strings.TrimSpace(f.Search)
	total, err := store.Scalar[int](ctx, r.q,
		`SELECT count(*) FROM entities`+where, f.Status, search)
	if err != nil {
		return nil, 0, perr.FromPostgres(err, "count entities")
	}

	sql := `SELECT ` + entityCols + ` FROM entities` + where + `
		ORDER BY risk_score DESC, id ASC
		LIMIT $3 OFFSET $4`
	out, err := store.Many(ctx, r.q, scanEntity, sql, f.Status, search, f.Limit, (f.Page-1)*f.Limit)
	if err != nil {
		return nil, 0, perr.FromPostgres(err, "list entities")
	}
	return out, total, nil
}

// aggregate snapshot of the linked report set. under_review and escalated
// both count as open review for status derivation
const aggSQL = `
	SELECT
		count(*),
		count(*) FILTER (WHERE status = 'verified'),
		count(*) FILTER (WHERE status IN ('under_review', 'escalated')),
		count(*) FILTER (WHERE status = 'rejected'),
		coalesce(max(risk_score), 0),
		coalesce(avg(risk_score), 0),
		coalesce(sum(amount_lost), 0)
	FROM reports
	WHERE entity_id = $1`

func (r *queries) Aggregates(ctx context.Context, entityID uuid.UUID) (domain.Aggregates, int64, error) {
	version, err := store.Scalar[int64](ctx, r.q, `SELECT version FROM entities WHERE id = $1`, entityID)
	if err != nil {
		return domain.Aggregates{}, 0, perr.FromPostgres(err, "entity version")
	}

	var a domain.Aggregates
	row := r.q.QueryRow(ctx, aggSQL, entityID)
	err = row.Scan(
		&a.Counts.Total, &a.Counts.Verified, &a.Counts.UnderReview, &a.Counts.Rejected,
		&a.MaxScore, &a.AvgScore, &a.TotalAmount,
	)
	if err != nil {
		return domain.Aggregates{}, 0, perr.FromPostgres(err, "entity aggregates")
	}
	return a, version, nil
}

func (r *queries) ApplyAggregates(ctx context.Context, entityID uuid.UUID, version int64, status risk.EntityStatus, score float64, count int, total float64, now time.Time) error {
	const sql = `
		UPDATE entities
		SET status = $3, risk_score = $4, report_count = $5, total_amount = $6,
		    version = version + 1, updated_at = $7
		WHERE id = $1 AND version = $2`
	tag, err := r.q.Exec(ctx, sql, entityID, version, string(status), score, count, total, now)
	if err != nil {
		return perr.FromPostgres(err, "apply entity aggregates")
	}
	if tag.RowsAffected() == 0 {
		return perr.RetryConflictf("entity %s version %d moved", entityID, version)
	}
	return nil
}

func (r *queries) UpdateCurated(ctx context.Context, id uuid.UUID, displayName *string, tags *[]string, now time.Time) error {
	const sql = `
		UPDATE entities
		SET display_name = coalesce($2, display_name),
		    tags = coalesce($3, tags),
		    version = version + 1, updated_at = $4
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, sql, id, displayName, tags, now)
	if err != nil {
		return perr.FromPostgres(err, "update entity")
	}
	if tag.RowsAffected() != 1 {
		return perr.NotFoundf("entity %s not found", id)
	}
	return nil
}

func (r *queries) EnqueueIndex(ctx context.Context, entityID uuid.UUID, reason string) error {
	const sql = `INSERT INTO index_outbox (entity_id, reason) VALUES ($1, $2)`
	_, err := r.q.Exec(ctx, sql, entityID, reason)
	return perr.FromPostgres(err, "enqueue index refresh")
}

func (r *queries) Drifted(ctx context.Context, limit int) ([]uuid.UUID, error) {
	const sql = `
		SELECT e.id
		FROM entities e
		LEFT JOIN (
			SELECT entity_id, count(*) AS cnt, coalesce(sum(amount_lost), 0) AS total
			FROM reports GROUP BY entity_id
		) r ON r.entity_id = e.id
		WHERE e.report_count <> coalesce(r.cnt, 0)
		   OR e.total_amount <> coalesce(r.total, 0)
		LIMIT $1`
	ids, err := store.Many(ctx, r.q, func(row store.Row) (uuid.UUID, error) {
		var id uuid.UUID
		err := row.Scan(&id)
		return id, err
	}, sql, limit)
	if err != nil {
		return nil, perr.FromPostgres(err, "audit entity aggregates")
	}
	return ids, nil
}

// Package repo provides postgres access for the search projection
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bhattashubham/scamnepal-csr-sub000/internal/modkit/repokit"
	perr "github.com/bhattashubham/scamnepal-csr-sub000/internal/platform/errors"
	"github.com/bhattashubham/scamnepal-csr-sub000/internal/platform/store"
	"github.com/bhattashubham/scamnepal-csr-sub000/internal/services/search/domain"
)

// OutboxRow is one leased refresh marker
type OutboxRow struct {
	ID       int64
	EntityID uuid.UUID
}

// Repo is the projection persistence surface used by the service layer
type Repo interface {
	// Candidates returns filtered docs for scoring plus the total over
	// the filtered set. Text queries rank by ts_rank and stop at the
	// cap; empty text browses by recency
	Candidates(ctx context.Context, q domain.Query, capN int) ([]domain.Hit, int, error)

	// Facets counts categories and statuses over the filtered set
	Facets(ctx context.Context, q domain.Query) (domain.Facets, error)

	// Suggest prefix-matches identifier values and category names,
	// deduplicated and ranked by document frequency
	Suggest(ctx context.Context, prefix string, limit int) ([]domain.Suggestion, error)

	// UpsertEntityDoc projects the entity row; false when the entity
	// no longer exists
	UpsertEntityDoc(ctx context.Context, entityID uuid.UUID, now time.Time) (bool, error)

	// UpsertReportDocs projects every report of the entity
	UpsertReportDocs(ctx context.Context, entityID uuid.UUID, now time.Time) error

	// DeleteOrphanDocs removes docs whose authority row is gone
	DeleteOrphanDocs(ctx context.Context, entityID uuid.UUID) error

	// DeleteEntityDocs removes the whole doc family of an entity
	DeleteEntityDocs(ctx context.Context, entityID uuid.UUID) error

	// LeaseOutbox locks up to limit pending refresh markers, skipping
	// rows another drainer already holds
	LeaseOutbox(ctx context.Context, limit int) ([]OutboxRow, error)

	DeleteOutbox(ctx context.Context, ids []int64) error

	// AllEntityIDs streams every entity id for a full rebuild
	AllEntityIDs(ctx context.Context) ([]uuid.UUID, error)
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

// filter placeholders $1..$7: docType, category, status, riskMin,
// riskMax, dateFrom, dateTo. Empty string / NULL disables a filter
const docFilter = `
	($1 = '' OR doc_type = $1)
	AND ($2 = '' OR category = $2)
	AND ($3 = '' OR status = $3)
	AND ($4::float8 IS NULL OR risk_score >= $4)
	AND ($5::float8 IS NULL OR risk_score <= $5)
	AND ($6::timestamptz IS NULL OR created_at >= $6)
	AND ($7::timestamptz IS NULL OR created_at <= $7)`

const hitCols = `
	doc_id, doc_type, ref_id, entity_id, identifier_norm, display_name,
	category, status, risk_score, report_count, created_at`

func scanHit(row store.Row) (domain.Hit, error) {
	var h domain.Hit
	err := row.Scan(
		&h.DocID, &h.DocType, &h.RefID, &h.EntityID, &h.Identifier, &h.DisplayName,
		&h.Category, &h.Status, &h.RiskScore, &h.ReportCount, &h.CreatedAt, &h.Relevance,
	)
	return h, err
}

func filterArgs(q domain.Query) []any {
	return []any{q.DocType, q.Category, q.Status, q.RiskMin, q.RiskMax, q.DateFrom, q.DateTo}
}

func (r *queries) Candidates(ctx context.Context, q domain.Query, capN int) ([]domain.Hit, int, error) {
	if q.Text != "" {
		return r.textCandidates(ctx, q, capN)
	}
	return r.recencyCandidates(ctx, q, capN)
}

func (r *queries) textCandidates(ctx context.Context, q domain.Query, capN int) ([]domain.Hit, int, error) {
	sql := `
		SELECT ` + hitCols + `,
		       ts_rank(tsv, websearch_to_tsquery('simple', $8)) AS relevance
		FROM search_documents
		WHERE ` + docFilter + `
		  AND tsv @@ websearch_to_tsquery('simple', $8)
		ORDER BY relevance DESC, doc_id ASC
		LIMIT $9`
	args := append(filterArgs(q), q.Text, capN)
	hits, err := store.Many(ctx, r.q, scanHit, sql, args...)
	if err != nil {
		return nil, 0, perr.FromPostgres(err, "search candidates")
	}

	countSQL := `
		SELECT count(*) FROM search_documents
		WHERE ` + docFilter + `
		  AND tsv @@ websearch_to_tsquery('simple', $8)`
	total, err := store.Scalar[int](ctx, r.q, countSQL, append(filterArgs(q), q.Text)...)
	if err != nil {
		return nil, 0, perr.FromPostgres(err, "search count")
	}
	return hits, total, nil
}

func (r *queries) recencyCandidates(ctx context.Context, q domain.Query, capN int) ([]domain.Hit, int, error) {
	sql := `
		SELECT ` + hitCols + `, 0::float8 AS relevance
		FROM search_documents
		WHERE ` + docFilter + `
		ORDER BY created_at DESC, doc_id ASC
		LIMIT $8`
	hits, err := store.Many(ctx, r.q, scanHit, sql, append(filterArgs(q), capN)...)
	if err != nil {
		return nil, 0, perr.FromPostgres(err, "browse candidates")
	}

	countSQL := `SELECT count(*) FROM search_documents WHERE ` + docFilter
	total, err := store.Scalar[int](ctx, r.q, countSQL, filterArgs(q)...)
	if err != nil {
		return nil, 0, perr.FromPostgres(err, "browse count")
	}
	return hits, total, nil
}

func scanBucket(row store.Row) (domain.Bucket, error) {
	var b domain.Bucket
	err := row.Scan(&b.Value, &b.Count)
	return b, err
}

func (r *queries) Facets(ctx context.Context, q domain.Query) (domain.Facets, error) {
	catSQL := `
		SELECT category, count(*) FROM search_documents
		WHERE ` + docFilter + ` AND category <> ''
		GROUP BY category ORDER BY count(*) DESC, category ASC`
	cats, err := store.Many(ctx, r.q, scanBucket, catSQL, filterArgs(q)...)
	if err != nil {
		return domain.Facets{}, perr.FromPostgres(err, "category facets")
	}

	stSQL := `
		SELECT status, count(*) FROM search_documents
		WHERE ` + docFilter + `
		GROUP BY status ORDER BY count(*) DESC, status ASC`
	sts, err := store.Many(ctx, r.q, scanBucket, stSQL, filterArgs(q)...)
	if err != nil {
		return domain.Facets{}, perr.FromPostgres(err, "status facets")
	}
	return domain.Facets{Categories: cats, Statuses: sts}, nil
}

func (r *queries) Suggest(ctx context.Context, prefix string, limit int) ([]domain.Suggestion, error) {
	// identifier values and category names compete in one frequency table
	const sql = `
		SELECT v.value, count(*) AS freq
		FROM search_documents d,
		     LATERAL (VALUES (d.identifier_norm), (d.category)) AS v(value)
		WHERE v.value LIKE $1 || '%' AND v.value <> ''
		GROUP BY v.value
		ORDER BY freq DESC, v.value ASC
		LIMIT $2`
	out, err := store.Many(ctx, r.q, func(row store.Row) (domain.Suggestion, error) {
		var s domain.Suggestion
		err := row.Scan(&s.Value, &s.Count)
		return s, err
	}, sql, prefix, limit)
	if err != nil {
		return nil, perr.FromPostgres(err, "suggest")
	}
	return out, nil
}

const docUpsert = `
	ON CONFLICT (doc_id) DO UPDATE SET
		identifier_norm = EXCLUDED.identifier_norm,
		display_name    = EXCLUDED.display_name,
		category        = EXCLUDED.category,
		status          = EXCLUDED.status,
		risk_score      = EXCLUDED.risk_score,
		report_count    = EXCLUDED.report_count,
		created_at      = EXCLUDED.created_at,
		tsv             = EXCLUDED.tsv,
		updated_at      = EXCLUDED.updated_at`

func (r *queries) UpsertEntityDoc(ctx context.Context, entityID uuid.UUID, now time.Time) (bool, error) {
	sql := `
		INSERT INTO search_documents (doc_id, doc_type, ref_id, entity_id,
			identifier_norm, display_name, category, status, risk_score,
			report_count, created_at, tsv, updated_at)
		SELECT 'entity:' || e.id, 'entity', e.id, e.id,
			e.identifier_norm, e.display_name, '', e.status, e.risk_score,
			e.report_count, e.created_at,
			setweight(to_tsvector('simple', e.identifier_norm || ' ' || e.display_name), 'A') ||
			setweight(to_tsvector('simple', array_to_string(e.tags, ' ')), 'B'),
			$2
		FROM entities e WHERE e.id = $1 ` + docUpsert
	tag, err := store.Exec(ctx, r.q, sql, entityID, now)
	if err != nil {
		return false, perr.FromPostgres(err, "project entity doc")
	}
	return tag.RowsAffected() > 0, nil
}

func (r *queries) UpsertReportDocs(ctx context.Context, entityID uuid.UUID, now time.Time) error {
	sql := `
		INSERT INTO search_documents (doc_id, doc_type, ref_id, entity_id,
			identifier_norm, display_name, category, status, risk_score,
			report_count, created_at, tsv, updated_at)
		SELECT 'report:' || r.id, 'report', r.id, r.entity_id,
			r.identifier_norm, '', r.category, r.status, r.risk_score,
			0, r.created_at,
			setweight(to_tsvector('simple', r.identifier_norm), 'A') ||
			setweight(to_tsvector('simple', r.category), 'B') ||
			setweight(to_tsvector('simple', r.narrative), 'C'),
			$2
		FROM reports r WHERE r.entity_id = $1 ` + docUpsert
	if _, err := store.Exec(ctx, r.q, sql, entityID, now); err != nil {
		return perr.FromPostgres(err, "project report docs")
	}
	return nil
}

func (r *queries) DeleteOrphanDocs(ctx context.Context, entityID uuid.UUID) error {
	const sql = `
		DELETE FROM search_documents d
		WHERE d.entity_id = $1 AND d.doc_type = 'report'
		  AND NOT EXISTS (SELECT 1 FROM reports r WHERE r.id = d.ref_id)`
	if _, err := store.Exec(ctx, r.q, sql, entityID); err != nil {
		return perr.FromPostgres(err, "prune orphan docs")
	}
	return nil
}

func (r *queries) DeleteEntityDocs(ctx context.Context, entityID uuid.UUID) error {
	const sql = `DELETE FROM search_documents WHERE entity_id = $1`
	if _, err := store.Exec(ctx, r.q, sql, entityID); err != nil {
		return perr.FromPostgres(err, "delete entity docs")
	}
	return nil
}

func (r *queries) LeaseOutbox(ctx context.Context, limit int) ([]OutboxRow, error) {
	const sql = `
		SELECT id, entity_id FROM index_outbox
		ORDER BY id ASC
		LIMIT $1
		FOR UPDATE SKIP LOCKED`
	rows, err := store.Many(ctx, r.q, func(row store.Row) (OutboxRow, error) {
		var o OutboxRow
		err := row.Scan(&o.ID, &o.EntityID)
		return o, err
	}, sql, limit)
	if err != nil {
		return nil, perr.FromPostgres(err, "lease outbox")
	}
	return rows, nil
}

func (r *queries) DeleteOutbox(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	const sql = `DELETE FROM index_outbox WHERE id = ANY($1)`
	if _, err := store.Exec(ctx, r.q, sql, ids); err != nil {
		return perr.FromPostgres(err, "delete outbox rows")
	}
	return nil
}

func (r *queries) AllEntityIDs(ctx context.Context) ([]uuid.UUID, error) {
	const sql = `SELECT id FROM entities ORDER BY created_at ASC, id ASC`
	ids, err := store.Many(ctx, r.q, func(row store.Row) (uuid.UUID, error) {
		var id uuid.UUID
		err := row.Scan(&id)
		return id, err
	}, sql)
	if err != nil {
		return nil, perr.FromPostgres(err, "list entity ids")
	}
	return ids, nil
}

// Package repo provides postgres access for reports and their audit trail
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
	"github.com/bhattashubham/scamnepal-csr-sub000/internal/services/reports/domain"
)

// Repo is the report persistence surface used by the service layer
type Repo interface {
	Insert(ctx context.Context, r domain.Report) error
	Get(ctx context.Context, id uuid.UUID) (domain.Report, error)

	// GetLocked reads a report under FOR UPDATE so concurrent transitions
	// on the same report serialize inside their transactions
	GetLocked(ctx context.Context, id uuid.UUID) (domain.Report, error)

	SetStatus(ctx context.Context, id uuid.UUID, to domain.Status, at time.Time) error

	AppendHistory(ctx context.Context, e domain.HistoryEntry) error
	History(ctx context.Context, reportID uuid.UUID) ([]domain.HistoryEntry, error)

	List(ctx context.Context, f domain.ListFilter) ([]domain.Report, int, error)
	ListByReporter(ctx context.Context, reporterID string, f domain.ListFilter) ([]domain.Report, int, error)
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

const reportCols = `
	id, entity_id, identifier_type, identifier_raw, identifier_norm,
	coalesce(identifier_cc, ''), category, narrative,
	coalesce(amount_lost, 0), coalesce(currency, ''), coalesce(channel, ''),
	incident_at, risk_score, status, reporter_id, created_at, updated_at`

func scanReport(row store.Row) (domain.Report, error) {
	var r domain.Report
	var idType, category, status string
	var incidentAt *time.Time
	err := row.Scan(
		&r.ID, &r.EntityID, &idType, &r.Identifier.RawValue, &r.Identifier.Normalized,
		&r.Identifier.CountryCode, &category, &r.Narrative,
		&r.AmountLost, &r.Currency, &r.Channel,
		&incidentAt, &r.RiskScore, &status, &r.ReporterID, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return domain.Report{}, err
	}
	r.Identifier.Type = identifier.Type(idType)
	r.Category = risk.Category(category)
	r.Status = domain.Status(status)
	r.IncidentAt = incidentAt
	return r, nil
}

func (r *queries) Insert(ctx context.Context, rep domain.Report) error {
	const sql = `
		INSERT INTO reports (
			id, entity_id, identifier_type, identifier_raw, identifier_norm,
			identifier_cc, category, narrative, amount_lost, currency, channel,
			incident_at, risk_score, status, reporter_id, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)`
	_, err := r.q.Exec(ctx, sql,
		rep.ID, rep.EntityID, string(rep.Identifier.Type), rep.Identifier.RawValue,
		rep.Identifier.Normalized, nullable(rep.Identifier.CountryCode),
		string(rep.Category), rep.Narrative, rep.AmountLost,
		nullable(rep.Currency), nullable(rep.Channel),
		rep.IncidentAt, rep.RiskScore, string(rep.Status), rep.ReporterID,
		rep.CreatedAt, rep.UpdatedAt,
	)
	return perr.FromPostgres(err, "insert report")
}

func (r *queries) Get(ctx context.Context, id uuid.UUID) (domain.Report, error) {
	return r.get(ctx, id, "")
}

func (r *queries) GetLocked(ctx context.Context, id uuid.UUID) (domain.Report, error) {
	return r.get(ctx, id, " FOR UPDATE")
}

func (r *queries) get(ctx context.Context, id uuid.UUID, suffix string) (domain.Report, error) {
	sql := `SELECT ` + reportCols + ` FROM reports WHERE id = $1` + suffix
	rep, err := store.One(ctx, r.q, scanReport, sql, id)
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			return domain.Report{}, perr.NotFoundf("report %s not found", id)
		}
		return domain.Report{}, perr.FromPostgres(err, "get report")
	}
	return rep, nil
}

func (r *queries) SetStatus(ctx context.Context, id uuid.UUID, to domain.Status, at time.Time) error {
	const sql = `UPDATE reports SET status = $2, updated_at = $3 WHERE id = $1`
	tag, err := r.q.Exec(ctx, sql, id, string(to), at)
	if err != nil {
		return perr.FromPostgres(err, "set report status")
	}
	if tag.RowsAffected() != 1 {
		return perr.NotFoundf("report %s not found", id)
	}
	return nil
}

func (r *queries) AppendHistory(ctx context.Context, e domain.HistoryEntry) error {
	const sql = `
		INSERT INTO report_status_history (report_id, from_status, to_status, actor_id, reason, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)`
	_, err := r.q.Exec(ctx, sql,
		e.ReportID, string(e.OldStatus), string(e.NewStatus), e.ActorID, e.Reason, e.Timestamp)
	return perr.FromPostgres(err, "append status history")
}

func (r *queries) History(ctx context.Context, reportID uuid.UUID) ([]domain.HistoryEntry, error) {
	const sql = `
		SELECT report_id, from_status, to_status, actor_id, reason, created_at
		FROM report_status_history
		WHERE report_id = $1
		ORDER BY id ASC`
	out, err := store.Many(ctx, r.q, scanHistory, sql, reportID)
	if err != nil {
		return nil, perr.FromPostgres(err, "report history")
	}
	return out, nil
}

func scanHistory(row store.Row) (domain.HistoryEntry, error) {
	var e domain.HistoryEntry
	var from, to string
	if err := row.Scan(&e.ReportID, &from, &to, &e.ActorID, &e.Reason, &e.Timestamp); err != nil {
		return domain.HistoryEntry{}, err
	}
	e.OldStatus, e.NewStatus = domain.Status(from), domain.Status(to)
	return e, nil
}

func (r *queries) List(ctx context.Context, f domain.ListFilter) ([]domain.Report, int, error) {
	return r.list(ctx, f, "")
}

func (r *queries) ListByReporter(ctx context.Context, reporterID string, f domain.ListFilter) ([]domain.Report, int, error) {
	return r.list(ctx, f, reporterID)
}

func (r *queries) list(ctx context.Context, f domain.ListFilter, reporterID string) ([]domain.Report, int, error) {
	f = f.Normalize()
	const where = `
		WHERE ($1 = '' OR status = $1)
		  AND ($2 = '' OR category = $2)
		  AND ($3 = '' OR reporter_id = $3)`

	total, err := store.Scalar[int](ctx, r.q,
		`SELECT count(*) FROM reports`+where, f.Status, f.Category, reporterID)
	if err != nil {
		return nil, 0, perr.FromPostgres(err, "count reports")
	}

	sql := `SELECT ` + reportCols + ` FROM reports` + where + `
		ORDER BY created_at DESC, id ASC
		LIMIT $4 OFFSET $5`
	out, err := store.Many(ctx, r.q, scanReport, sql, f.Status, f.Category, reporterID, f.Limit, (f.Page-1)*f.Limit)
	if err != nil {
		return nil, 0, perr.FromPostgres(err, "list reports")
	}
	return out, total, nil
}

func nullable(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}

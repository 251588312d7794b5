// Package repo provides postgres access for the moderation queue
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bhattashubham/scamnepal-csr-sub000/internal/modkit/repokit"
	perr "github.com/bhattashubham/scamnepal-csr-sub000/internal/platform/errors"
	"github.com/bhattashubham/scamnepal-csr-sub000/internal/platform/store"
	"github.com/bhattashubham/scamnepal-csr-sub000/internal/services/moderation/domain"
)

// Repo is the task persistence surface used by the service layer
type Repo interface {
	InsertTask(ctx context.Context, id, reportID uuid.UUID, deadline, now time.Time) error
	Get(ctx context.Context, id uuid.UUID) (domain.Task, error)

	// Claim runs the single-statement compare-and-swap. When the task was
	// already held, claimed is false and currentAssignee names the holder
	Claim(ctx context.Context, id uuid.UUID, actor string, now time.Time) (claimed bool, currentAssignee string, err error)

	Unassign(ctx context.Context, id uuid.UUID, now time.Time) error

	// CompleteByReport archives the open task of a report with its
	// decision stamp. No open task is not an error; reports can change
	// status while no task is live
	CompleteByReport(ctx context.Context, reportID uuid.UUID, decision domain.Decision, decidedBy string, now time.Time) (bool, error)

	// ListQueue pages tasks with priority computed in SQL from the
	// joined report risk score and task age
	ListQueue(ctx context.Context, f domain.QueueFilter, ageWeight, ageCapHours float64, now time.Time) ([]domain.Task, int, error)

	// OverdueOpenCount counts open tasks past their SLA deadline
	OverdueOpenCount(ctx context.Context, now time.Time) (int, error)
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

const taskCols = `
	t.id, t.report_id, t.status, coalesce(t.assigned_to, ''), t.claimed_at,
	t.sla_deadline, coalesce(t.decision, ''), coalesce(t.decided_by, ''),
	t.decided_at, t.created_at, t.updated_at, r.risk_score, r.category`

func scanTask(row store.Row) (domain.Task, error) {
	var t domain.Task
	var status, decision string
	err := row.Scan(
		&t.ID, &t.ReportID, &status, &t.AssignedTo, &t.ClaimedAt,
		&t.SLADeadline, &decision, &t.DecidedBy,
		&t.DecidedAt, &t.CreatedAt, &t.UpdatedAt, &t.RiskScore, &t.Category,
	)
	if err != nil {
		return domain.Task{}, err
	}
	t.Status = domain.TaskStatus(status)
	t.Decision = domain.Decision(decision)
	return t, nil
}

func (r *queries) InsertTask(ctx context.Context, id, reportID uuid.UUID, deadline, now time.Time) error {
	const sql = `
		INSERT INTO moderation_tasks (id, report_id, sla_deadline, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)`
	_, err := r.q.Exec(ctx, sql, id, reportID, deadline, now)
	if perr.IsDuplicateKey(err) {
		// one live task per report; a second enqueue is a no-op
		return nil
	}
	return perr.FromPostgres(err, "insert moderation task")
}

func (r *queries) Get(ctx context.Context, id uuid.UUID) (domain.Task, error) {
	sql := `SELECT ` + taskCols + `
		FROM moderation_tasks t
		JOIN reports r ON r.id = t.report_id
		WHERE t.id = $1`
	t, err := store.One(ctx, r.q, scanTask, sql, id)
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			return domain.Task{}, perr.NotFoundf("task %s not found", id)
		}
		return domain.Task{}, perr.FromPostgres(err, "get moderation task")
	}
	return t, nil
}

func (r *queries) Claim(ctx context.Context, id uuid.UUID, actor string, now time.Time) (bool, string, error) {
	const cas = `
		UPDATE moderation_tasks
		SET assigned_to = $2, claimed_at = $3, updated_at = $3
		WHERE id = $1 AND status = 'pending' AND assigned_to IS NULL`
	tag, err := r.q.Exec(ctx, cas, id, actor, now)
	if err != nil {
		return false, "", perr.FromPostgres(err, "claim task")
	}
	if tag.RowsAffected() == 1 {
		return true, actor, nil
	}

	const who = `SELECT status, coalesce(assigned_to, '') FROM moderation_tasks WHERE id = $1`
	rows, err := r.q.Query(ctx, who, id)
	if err != nil {
		return false, "", perr.FromPostgres(err, "claim task")
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return false, "", perr.FromPostgres(err, "claim task")
		}
		return false, "", perr.NotFoundf("task %s not found", id)
	}
	var status, assignee string
	if err := rows.Scan(&status, &assignee); err != nil {
		return false, "", err
	}
	if status == string(domain.TaskCompleted) {
		return false, "", perr.Conflictf("task %s is already completed", id)
	}
	return false, assignee, nil
}

func (r *queries) Unassign(ctx context.Context, id uuid.UUID, now time.Time) error {
	const sql = `
		UPDATE moderation_tasks
		SET assigned_to = NULL, claimed_at = NULL, updated_at = $2
		WHERE id = $1 AND status = 'pending'`
	tag, err := r.q.Exec(ctx, sql, id, now)
	if err != nil {
		return perr.FromPostgres(err, "unassign task")
	}
	if tag.RowsAffected() != 1 {
		return perr.Conflictf("task %s is not open", id)
	}
	return nil
}

func (r *queries) CompleteByReport(ctx context.Context, reportID uuid.UUID, decision domain.Decision, decidedBy string, now time.Time) (bool, error) {
	const sql = `
		UPDATE moderation_tasks
		SET status = 'completed', decision = $2, decided_by = $3, decided_at = $4, updated_at = $4
		WHERE report_id = $1 AND status <> 'completed'`
	tag, err := r.q.Exec(ctx, sql, reportID, string(decision), decidedBy, now)
	if err != nil {
		return false, perr.FromPostgres(err, "complete task")
	}
	return tag.RowsAffected() > 0, nil
}

// priorityExpr must stay in lockstep with core/schedule.Priority
const priorityExpr = `r.risk_score + LEAST(EXTRACT(EPOCH FROM ($3 - t.created_at)) / 3600.0, $5) * $6`

func (r *queries) ListQueue(ctx context.Context, f domain.QueueFilter, ageWeight, ageCapHours float64, now time.Time) ([]domain.Task, int, error) {
	f = f.Normalize()
	const where = `
		WHERE (($1 = '' AND t.status <> 'completed') OR t.status = $1)
		  AND ($2 = '' OR t.assigned_to = $2)
		  AND (NOT $4 OR (t.sla_deadline < $3 AND t.status <> 'completed'))`

	total, err := store.Scalar[int](ctx, r.q, `
		SELECT count(*) FROM moderation_tasks t
		JOIN reports r ON r.id = t.report_id`+where,
		f.Status, f.AssignedTo, now, f.Overdue)
	if err != nil {
		return nil, 0, perr.FromPostgres(err, "count queue")
	}

	sql := `SELECT ` + taskCols + `, ` + priorityExpr + ` AS priority
		FROM moderation_tasks t
		JOIN reports r ON r.id = t.report_id` + where + `
		ORDER BY priority DESC, t.id ASC
		LIMIT $7 OFFSET $8`
	out, err := store.Many(ctx, r.q, func(row store.Row) (domain.Task, error) {
		var t domain.Task
		var status, decision string
		err := row.Scan(
			&t.ID, &t.ReportID, &status, &t.AssignedTo, &t.ClaimedAt,
			&t.SLADeadline, &decision, &t.DecidedBy,
			&t.DecidedAt, &t.CreatedAt, &t.UpdatedAt, &t.RiskScore, &t.Category,
			&t.Priority,
		)
		if err != nil {
			return domain.Task{}, err
		}
		t.Status = domain.TaskStatus(status)
		t.Decision = domain.Decision(decision)
		return t, nil
	}, sql, f.Status, f.AssignedTo, now, f.Overdue, ageCapHours, ageWeight, f.Limit, (f.Page-1)*f.Limit)
	if err != nil {
		return nil, 0, perr.FromPostgres(err, "list queue")
	}
	return out, total, nil
}

func (r *queries) OverdueOpenCount(ctx context.Context, now time.Time) (int, error) {
	const sql = `
		SELECT count(*) FROM moderation_tasks
		WHERE status <> 'completed' AND sla_deadline < $1`
	n, err := store.Scalar[int](ctx, r.q, sql, now)
	if err != nil {
		return 0, perr.FromPostgres(err, "overdue count")
	}
	return n, nil
}

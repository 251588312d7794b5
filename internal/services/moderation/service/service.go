// Package service contains the moderation queue workflows
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/bhattashubham/scamnepal-csr-sub000/internal/core/schedule"
	"github.com/bhattashubham/scamnepal-csr-sub000/internal/modkit/repokit"
	perr "github.com/bhattashubham/scamnepal-csr-sub000/internal/platform/errors"
	pnet "github.com/bhattashubham/scamnepal-csr-sub000/internal/platform/net"
	"github.com/bhattashubham/scamnepal-csr-sub000/internal/platform/net/http/bind"
	"github.com/bhattashubham/scamnepal-csr-sub000/internal/services/moderation/domain"
	"github.com/bhattashubham/scamnepal-csr-sub000/internal/services/moderation/repo"
	rdom "github.com/bhattashubham/scamnepal-csr-sub000/internal/services/reports/domain"
)

// Service is the public service port
type Service interface{ domain.ServicePort }

// decisionEdges maps a ruling onto its report state machine target
var decisionEdges = map[domain.Decision]rdom.Status{
	domain.DecisionApprove:     rdom.StatusVerified,
	domain.DecisionReject:      rdom.StatusRejected,
	domain.DecisionEscalate:    rdom.StatusEscalated,
	domain.DecisionRequireInfo: rdom.StatusRequiresInfo,
}

// Svc implements the service port
type Svc struct {
	Repo    repo.Repo
	binder  repokit.Binder[repo.Repo]
	db      repokit.TxRunner
	reports domain.ReportsPort
	pol     schedule.Policy
	now     func() time.Time
}

// New constructs the service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], reports domain.ReportsPort, pol schedule.Policy) *Svc {
	if db == nil {
		panic("moderation.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("moderation.Service requires a non nil Repo binder")
	}
	if reports == nil {
		panic("moderation.Service requires a non nil ReportsPort")
	}
	if pol == (schedule.Policy{}) {
		pol = schedule.DefaultPolicy
	}
	return &Svc{
		Repo:    binder.Bind(db),
		binder:  binder,
		db:      db,
		reports: reports,
		pol:     pol,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// ListQueue pages open tasks ordered by computed priority. Priority is
// evaluated in SQL for ordering and decorated here for display
func (s *Svc) ListQueue(ctx context.Context, f domain.QueueFilter) (domain.QueuePage, error) {
	if err := requireModerator(ctx); err != nil {
		return domain.QueuePage{}, err
	}
	f = f.Normalize()
	now := s.now()
	rows, total, err := s.Repo.ListQueue(ctx, f, s.pol.AgeWeight, s.pol.AgeCapHours, now)
	if err != nil {
		return domain.QueuePage{}, err
	}
	for i := range rows {
		s.decorate(&rows[i], now)
	}
	return domain.QueuePage{Tasks: rows, Total: total, Page: f.Page, Limit: f.Limit}, nil
}

// Claim assigns a task to the calling moderator. The compare-and-swap is a
// single statement; exactly one concurrent caller wins and losers surface a
// conflict naming the holder. Claim conflicts are never auto-retried
func (s *Svc) Claim(ctx context.Context, taskID uuid.UUID) (domain.Task, error) {
	if err := requireModerator(ctx); err != nil {
		return domain.Task{}, err
	}
	actor := pnet.ActorID(ctx)
	now := s.now()

	claimed, assignee, err := s.Repo.Claim(ctx, taskID, actor, now)
	if err != nil {
		return domain.Task{}, err
	}
	if !claimed {
		return domain.Task{}, &claimConflictError{
			err:             perr.Conflictf("task is already claimed"),
			currentAssignee: assignee,
		}
	}
	return s.get(ctx, taskID)
}

// Unassign releases a claim. Only the claimant or an admin may release
func (s *Svc) Unassign(ctx context.Context, taskID uuid.UUID) (domain.Task, error) {
	if err := requireModerator(ctx); err != nil {
		return domain.Task{}, err
	}
	t, err := s.Repo.Get(ctx, taskID)
	if err != nil {
		return domain.Task{}, err
	}
	if t.AssignedTo == "" {
		return s.get(ctx, taskID)
	}
	if t.AssignedTo != pnet.ActorID(ctx) && pnet.ActorRole(ctx) != "admin" {
		return domain.Task{}, perr.Forbiddenf("only the claimant or an admin can release a task")
	}
	if err := s.Repo.Unassign(ctx, taskID, s.now()); err != nil {
		return domain.Task{}, err
	}
	return s.get(ctx, taskID)
}

// Decide applies one ruling: the report state machine transition, the task
// archive, the entity resync, and the index outbox commit as one unit via
// the reports service transaction
func (s *Svc) Decide(ctx context.Context, taskID uuid.UUID, in domain.DecideInput) (domain.DecideResult, error) {
	if err := requireModerator(ctx); err != nil {
		return domain.DecideResult{}, err
	}
	if err := bind.Validate(in); err != nil {
		return domain.DecideResult{}, err
	}
	decision, err := domain.ParseDecision(in.Decision)
	if err != nil {
		return domain.DecideResult{}, perr.WithField(err, "decision")
	}

	t, err := s.Repo.Get(ctx, taskID)
	if err != nil {
		return domain.DecideResult{}, err
	}
	if t.Status == domain.TaskCompleted {
		return domain.DecideResult{}, perr.Conflictf("completed tasks cannot be reopened")
	}
	actor := pnet.ActorID(ctx)
	if t.AssignedTo != "" && t.AssignedTo != actor && pnet.ActorRole(ctx) != "admin" {
		return domain.DecideResult{}, perr.Forbiddenf("task is claimed by another moderator")
	}

	reason := in.Reason
	if in.Notes != "" {
		if reason != "" {
			reason += " — "
		}
		reason += in.Notes
	}
	if _, err := s.reports.Transition(ctx, t.ReportID, decisionEdges[decision], reason); err != nil {
		return domain.DecideResult{}, err
	}

	done, err := s.get(ctx, taskID)
	if err != nil {
		return domain.DecideResult{}, err
	}
	return domain.DecideResult{
		Task:        done,
		Decision:    decision,
		ModeratorID: actor,
		Timestamp:   done.UpdatedAt.Format(time.RFC3339),
		ReportID:    done.ReportID,
	}, nil
}

// BulkDecide applies one ruling to many tasks. Each task is its own unit;
// one failure never aborts the rest
func (s *Svc) BulkDecide(ctx context.Context, in domain.BulkDecideInput) ([]domain.BulkOutcome, error) {
	if err := requireModerator(ctx); err != nil {
		return nil, err
	}
	if err := bind.Validate(in); err != nil {
		return nil, err
	}
	if _, err := domain.ParseDecision(in.Decision); err != nil {
		return nil, perr.WithField(err, "decision")
	}

	out := make([]domain.BulkOutcome, 0, len(in.TaskIDs))
	for _, id := range in.TaskIDs {
		_, err := s.Decide(ctx, id, domain.DecideInput{Decision: in.Decision, Reason: in.Reason})
		o := domain.BulkOutcome{TaskID: id, Status: "ok"}
		if err != nil {
			o.Status = "failed"
			o.Error = perr.WireFrom(err).Message
		}
		out = append(out, o)
	}
	return out, nil
}

func (s *Svc) get(ctx context.Context, taskID uuid.UUID) (domain.Task, error) {
	t, err := s.Repo.Get(ctx, taskID)
	if err != nil {
		return domain.Task{}, err
	}
	s.decorate(&t, s.now())
	return t, nil
}

func (s *Svc) decorate(t *domain.Task, now time.Time) {
	age := now.Sub(t.CreatedAt)
	t.AgeHours = age.Hours()
	t.Priority = s.pol.Priority(t.RiskScore, age)
	t.Overdue = t.Status != domain.TaskCompleted && s.pol.Overdue(now, t.SLADeadline)
}

func requireModerator(ctx context.Context) error {
	switch pnet.ActorRole(ctx) {
	case "moderator", "admin":
		return nil
	}
	return perr.Forbiddenf("moderator role required")
}

// claimConflictError carries the current assignee for the 409 envelope
type claimConflictError struct {
	err             error
	currentAssignee string
}

func (e *claimConflictError) Error() string { return e.err.Error() }

func (e *claimConflictError) Unwrap() error { return e.err }

// Conflict exposes the payload for transport
func (e *claimConflictError) Conflict() domain.ClaimConflict {
	return domain.ClaimConflict{CurrentAssignee: e.currentAssignee}
}

// AsClaimConflict extracts a claim conflict payload when err is one
func AsClaimConflict(err error) (domain.ClaimConflict, bool) {
	var ce *claimConflictError
	if errors.As(err, &ce) {
		return ce.Conflict(), true
	}
	return domain.ClaimConflict{}, false
}

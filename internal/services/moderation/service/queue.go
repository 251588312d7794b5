package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bhattashubham/scamnepal-csr-sub000/internal/core/schedule"
	"github.com/bhattashubham/scamnepal-csr-sub000/internal/modkit/repokit"
	"github.com/bhattashubham/scamnepal-csr-sub000/internal/services/moderation/domain"
	"github.com/bhattashubham/scamnepal-csr-sub000/internal/services/moderation/repo"
	rdom "github.com/bhattashubham/scamnepal-csr-sub000/internal/services/reports/domain"
)

// Queue keeps moderation tasks in lockstep with report status changes.
// All calls run on the caller's transaction Queryer so the task mutation
// commits atomically with the report mutation driving it
type Queue struct {
	binder repokit.Binder[repo.Repo]
	pol    schedule.Policy
}

// NewQueue constructs the transactional queue adapter
func NewQueue(binder repokit.Binder[repo.Repo], pol schedule.Policy) *Queue {
	if binder == nil {
		panic("moderation.Queue requires a non nil Repo binder")
	}
	return &Queue{binder: binder, pol: pol}
}

// Enqueue opens the pending task for a freshly submitted report
func (k *Queue) Enqueue(ctx context.Context, q repokit.Queryer, reportID uuid.UUID, at time.Time) error {
	r := k.binder.Bind(q)
	return r.InsertTask(ctx, uuid.New(), reportID, k.pol.Deadline(at), at)
}

// OnStatusChange completes or re-opens the report's task to mirror a
// committed transition. Terminal statuses archive the task with the
// matching decision; escalation archives and opens a fresh task for the
// next reviewer; the requires_info return path re-opens the queue
func (k *Queue) OnStatusChange(ctx context.Context, q repokit.Queryer, reportID uuid.UUID, to rdom.Status, actorID string, at time.Time) error {
	r := k.binder.Bind(q)

	switch to {
	case rdom.StatusVerified:
		_, err := r.CompleteByReport(ctx, reportID, domain.DecisionApprove, actorID, at)
		return err
	case rdom.StatusRejected:
		_, err := r.CompleteByReport(ctx, reportID, domain.DecisionReject, actorID, at)
		return err
	case rdom.StatusEscalated:
		if _, err := r.CompleteByReport(ctx, reportID, domain.DecisionEscalate, actorID, at); err != nil {
			return err
		}
		return r.InsertTask(ctx, uuid.New(), reportID, k.pol.Deadline(at), at)
	case rdom.StatusRequiresInfo:
		_, err := r.CompleteByReport(ctx, reportID, domain.DecisionRequireInfo, actorID, at)
		return err
	case rdom.StatusPending:
		// reporter answered an information request; back into the queue
		return r.InsertTask(ctx, uuid.New(), reportID, k.pol.Deadline(at), at)
	default:
		// under_review keeps the live task as is
		return nil
	}
}

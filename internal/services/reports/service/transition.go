package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/bhattashubham/scamnepal-csr-sub000/internal/modkit/repokit"
	perr "github.com/bhattashubham/scamnepal-csr-sub000/internal/platform/errors"
	pnet "github.com/bhattashubham/scamnepal-csr-sub000/internal/platform/net"
	"github.com/bhattashubham/scamnepal-csr-sub000/internal/services/reports/domain"
)

// Transition drives one state machine edge. The report row, the history
// entry, the entity aggregate resync, and the moderation task update all
// commit in one transaction. Concurrent transitions on one report
// serialize on the row lock; the loser re-reads and fails the edge check
func (s *Svc) Transition(ctx context.Context, reportID uuid.UUID, to domain.Status, reason string) (domain.Report, error) {
	actor := pnet.ActorID(ctx)
	if actor == "" {
		return domain.Report{}, perr.Unauthorizedf("missing actor identity")
	}
	if !to.Valid() {
		return domain.Report{}, perr.WithField(perr.Validationf("unknown status %q", to), "toStatus")
	}

	var out domain.Report
	err := repokit.RetryTx(ctx, s.db, s.retry, func(q repokit.Queryer) error {
		r := s.binder.Bind(q)

		rep, err := r.GetLocked(ctx, reportID)
		if err != nil {
			return err
		}
		if err := s.canTransition(ctx, rep, to); err != nil {
			return err
		}
		if !domain.CanTransition(rep.Status, to) {
			return perr.IllegalTransitionf("cannot move report from %s to %s", rep.Status, to)
		}

		now := s.now()
		if err := r.SetStatus(ctx, reportID, to, now); err != nil {
			return err
		}
		if err := r.AppendHistory(ctx, domain.HistoryEntry{
			ReportID:  reportID,
			OldStatus: rep.Status,
			NewStatus: to,
			ActorID:   actor,
			Reason:    reason,
			Timestamp: now,
		}); err != nil {
			return err
		}
		if err := s.entities.Relink(ctx, q, rep.EntityID); err != nil {
			return err
		}
		if err := s.queue.OnStatusChange(ctx, q, reportID, to, actor, now); err != nil {
			return err
		}

		out = rep
		out.Status = to
		out.UpdatedAt = now
		return nil
	})
	if err != nil {
		return domain.Report{}, err
	}
	return out, nil
}

// canTransition gates who may drive an edge. Moderators drive the review
// lifecycle; the report owner may only answer an information request by
// moving their own report from requires_info back to pending
func (s *Svc) canTransition(ctx context.Context, rep domain.Report, to domain.Status) error {
	if moderator(ctx) {
		return nil
	}
	if pnet.ActorID(ctx) == rep.ReporterID &&
		rep.Status == domain.StatusRequiresInfo && to == domain.StatusPending {
		return nil
	}
	return perr.Forbiddenf("moderator role required")
}

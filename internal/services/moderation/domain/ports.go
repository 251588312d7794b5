package domain

import (
	"context"

	"github.com/google/uuid"

	rdom "github.com/bhattashubham/scamnepal-csr-sub000/internal/services/reports/domain"
)

// ServicePort is the moderation queue contract exposed to transport
type ServicePort interface {
	// ListQueue pages open tasks ordered by computed priority
	ListQueue(ctx context.Context, f QueueFilter) (QueuePage, error)

	// Claim assigns a task to the calling moderator. Exactly one caller
	// wins a race; losers get a conflict naming the current assignee
	Claim(ctx context.Context, taskID uuid.UUID) (Task, error)

	// Unassign releases a claim. Claimant or admin only
	Unassign(ctx context.Context, taskID uuid.UUID) (Task, error)

	// Decide applies a ruling, driving the report state machine and
	// completing the task in one transaction
	Decide(ctx context.Context, taskID uuid.UUID, in DecideInput) (DecideResult, error)

	// BulkDecide applies one ruling to many tasks with per-item outcomes
	BulkDecide(ctx context.Context, in BulkDecideInput) ([]BulkOutcome, error)
}

// ReportsPort is the slice of the report lifecycle the queue drives
type ReportsPort interface {
	Transition(ctx context.Context, reportID uuid.UUID, to rdom.Status, reason string) (rdom.Report, error)
}

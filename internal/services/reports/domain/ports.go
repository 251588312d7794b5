package domain

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bhattashubham/scamnepal-csr-sub000/internal/modkit/repokit"
)

// ServicePort is the report lifecycle contract exposed to transport and to
// the moderation scheduler
type ServicePort interface {
	// Submit validates and ingests a public submission for the actor on ctx
	Submit(ctx context.Context, in SubmitInput) (SubmitResult, error)

	// Transition drives one state machine edge for the actor on ctx.
	// The status update, history append, entity resync, queue sync, and
	// index outbox all commit in one transaction
	Transition(ctx context.Context, reportID uuid.UUID, to Status, reason string) (Report, error)

	// Get returns a report visible to the actor (owner or moderator)
	Get(ctx context.Context, reportID uuid.UUID) (Report, error)

	// History returns the append-only audit trail of a report
	History(ctx context.Context, reportID uuid.UUID) ([]HistoryEntry, error)

	// List pages reports for moderators
	List(ctx context.Context, f ListFilter) (ReportPage, error)

	// ListMine pages the calling reporter's own submissions
	ListMine(ctx context.Context, f ListFilter) (ReportPage, error)
}

// LinkFacts is what the entity aggregator needs to resolve a report onto
// its entity inside the ingest transaction
type LinkFacts struct {
	IdentifierType string
	Normalized     string
	RawValue       string
}

// EntityPort is the aggregator seam the report lifecycle drives. Both calls
// run on the caller's transaction Queryer so the aggregate update commits
// atomically with the report mutation
type EntityPort interface {
	// Link resolves or creates the entity shell for the facts. Callers
	// insert their report row and then Relink so the aggregates see it
	Link(ctx context.Context, q repokit.Queryer, f LinkFacts) (uuid.UUID, error)

	// Relink recomputes status and risk for an existing entity after a
	// constituent report changed status
	Relink(ctx context.Context, q repokit.Queryer, entityID uuid.UUID) error
}

// QueuePort is the moderation scheduler seam. Calls run on the caller's
// transaction Queryer
type QueuePort interface {
	// Enqueue creates the pending moderation task when a report enters
	// the queue
	Enqueue(ctx context.Context, q repokit.Queryer, reportID uuid.UUID, enqueuedAt time.Time) error

	// OnStatusChange completes or re-opens the report's task to match a
	// committed transition
	OnStatusChange(ctx context.Context, q repokit.Queryer, reportID uuid.UUID, to Status, actorID string, at time.Time) error
}

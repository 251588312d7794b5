package domain

import (
	"context"

	"github.com/google/uuid"
)

// ServicePort is the search surface exposed to transport and other modules
type ServicePort interface {
	Search(ctx context.Context, q Query) (Page, error)
	Suggest(ctx context.Context, prefix string, limit int) ([]Suggestion, error)
}

// IndexerPort keeps the projection in lockstep with the authoritative
// tables. DrainOutbox is the sweeper's steady-state path; Rebuild is the
// recovery path reprojecting every entity from scratch
type IndexerPort interface {
	SyncEntity(ctx context.Context, entityID uuid.UUID) error
	DrainOutbox(ctx context.Context, batch int) (int, error)
	Rebuild(ctx context.Context) (int, error)
}

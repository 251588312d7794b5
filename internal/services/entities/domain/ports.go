package domain

import (
	"context"

	"github.com/google/uuid"

	"github.com/bhattashubham/scamnepal-csr-sub000/internal/modkit/repokit"
)

// ServicePort is the public entity surface
type ServicePort interface {
	// Get returns one entity profile
	Get(ctx context.Context, id uuid.UUID) (Entity, error)

	// Lookup resolves a raw identifier onto its entity profile
	Lookup(ctx context.Context, in LookupInput) (Entity, error)

	// List pages entity profiles ordered by risk score
	List(ctx context.Context, f ListFilter) (EntityPage, error)

	// Update edits moderator-curated fields (display name, tags)
	Update(ctx context.Context, id uuid.UUID, in UpdateInput) (Entity, error)
}

// AggregatorPort is the transactional seam the report lifecycle drives.
// Both calls run on the caller's transaction Queryer
type AggregatorPort interface {
	// Link resolves or creates the entity shell for an identifier
	Link(ctx context.Context, q repokit.Queryer, identifierType, normalized, rawValue string) (uuid.UUID, error)

	// Relink recomputes the aggregates of an entity from its current
	// report set and bumps the version under compare-and-swap
	Relink(ctx context.Context, q repokit.Queryer, entityID uuid.UUID) error
}

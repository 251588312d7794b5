package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bhattashubham/scamnepal-csr-sub000/internal/modkit/repokit"
	"github.com/bhattashubham/scamnepal-csr-sub000/internal/platform/store"
	"github.com/bhattashubham/scamnepal-csr-sub000/internal/services/search/repo"
)

// Indexer reprojects search documents from the authoritative tables. One
// entity's whole doc family refreshes as a unit: the entity doc, a doc
// per report, orphans pruned. An entity that vanished from the store
// takes its documents with it
type Indexer struct {
	binder repokit.Binder[repo.Repo]
	db     repokit.TxRunner
	now    func() time.Time
}

// NewIndexer constructs the projection writer
func NewIndexer(db repokit.TxRunner, binder repokit.Binder[repo.Repo]) *Indexer {
	if db == nil {
		panic("search.Indexer requires a non nil TxRunner")
	}
	if binder == nil {
		panic("search.Indexer requires a non nil Repo binder")
	}
	return &Indexer{
		binder: binder,
		db:     db,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// SyncEntity refreshes one entity's doc family in its own transaction
func (ix *Indexer) SyncEntity(ctx context.Context, entityID uuid.UUID) error {
	return ix.db.Tx(ctx, func(q store.RowQuerier) error {
		return ix.sync(ctx, ix.binder.Bind(q), entityID)
	})
}

func (ix *Indexer) sync(ctx context.Context, r repo.Repo, entityID uuid.UUID) error {
	now := ix.now()
	live, err := r.UpsertEntityDoc(ctx, entityID, now)
	if err != nil {
		return err
	}
	if !live {
		return r.DeleteEntityDocs(ctx, entityID)
	}
	if err := r.UpsertReportDocs(ctx, entityID, now); err != nil {
		return err
	}
	return r.DeleteOrphanDocs(ctx, entityID)
}

// DrainOutbox leases up to batch refresh markers, reprojects each touched
// entity once, and deletes the drained rows, all in one transaction.
// Concurrent drainers skip each other's leases
func (ix *Indexer) DrainOutbox(ctx context.Context, batch int) (int, error) {
	if batch < 1 {
		batch = 64
	}
	drained := 0
	err := ix.db.Tx(ctx, func(q store.RowQuerier) error {
		r := ix.binder.Bind(q)
		rows, err := r.LeaseOutbox(ctx, batch)
		if err != nil || len(rows) == 0 {
			return err
		}

		ids := make([]int64, 0, len(rows))
		seen := make(map[uuid.UUID]struct{}, len(rows))
		for _, row := range rows {
			ids = append(ids, row.ID)
			if _, dup := seen[row.EntityID]; dup {
				continue
			}
			seen[row.EntityID] = struct{}{}
			if err := ix.sync(ctx, r, row.EntityID); err != nil {
				return err
			}
		}
		if err := r.DeleteOutbox(ctx, ids); err != nil {
			return err
		}
		drained = len(rows)
		return nil
	})
	return drained, err
}

// Rebuild reprojects every entity from scratch. Each entity commits on
// its own so a crash mid-rebuild loses no finished work
func (ix *Indexer) Rebuild(ctx context.Context) (int, error) {
	ids, err := ix.binder.Bind(ix.db).AllEntityIDs(ctx)
	if err != nil {
		return 0, err
	}
	for i, id := range ids {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if err := ix.SyncEntity(ctx, id); err != nil {
			return i, err
		}
	}
	return len(ids), nil
}

// Package guardrails provides the named worker lease the sweeper uses to
// keep a single instance running the audit pass
package guardrails

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/bhattashubham/scamnepal-csr-sub000/internal/modkit/repokit"
	"github.com/bhattashubham/scamnepal-csr-sub000/internal/platform/store"
)

// ErrLeaseHeld signals another worker owns the lease already
var ErrLeaseHeld = fmt.Errorf("sweeper: lease already held")

// MakeLease claims the named row in worker_leases (auto-reclaim via
// expires_at) and runs do() while holding it. A held, unexpired lease
// returns ErrLeaseHeld without running do
func MakeLease(
	db repokit.TxRunner,
	name string,
	owner string,
	ttl time.Duration,
) func(ctx context.Context, do func(context.Context) error) error {
	owner = fmt.Sprintf("%s:%d", owner, os.Getpid())

	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	toInterval := func(d time.Duration) string { return fmt.Sprintf("%d seconds", int64(d/time.Second)) }

	return func(ctx context.Context, do func(context.Context) error) error {
		var claimed bool
		if err := db.Tx(ctx, func(q store.RowQuerier) error {
			rows, err := q.Query(ctx, `
				INSERT INTO worker_leases (name, owner, claimed_at, expires_at)
				VALUES ($1, $2, now(), now() + ($3)::interval)
				ON CONFLICT (name) DO UPDATE
				   SET owner = EXCLUDED.owner, claimed_at = now(), expires_at = EXCLUDED.expires_at
				 WHERE worker_leases.expires_at <= now() OR worker_leases.owner = EXCLUDED.owner
				RETURNING true
			`, name, owner, toInterval(ttl))
			if err != nil {
				return err
			}
			defer rows.Close()
			// zero rows means the upsert lost to a live lease; anything
			// else from the database is a real failure, not a held lease
			if rows.Next() {
				if err := rows.Scan(&claimed); err != nil {
					return err
				}
			}
			return rows.Err()
		}); err != nil {
			return err
		}
		if !claimed {
			return ErrLeaseHeld
		}
		return do(ctx)
	}
}

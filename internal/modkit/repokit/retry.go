package repokit

import (
	"context"
	"time"

	perr "github.com/bhattashubham/scamnepal-csr-sub000/internal/platform/errors"
)

// RetryPolicy bounds the optimistic retry loop around aggregate transactions
type RetryPolicy struct {
	// Attempts is the total number of tries including the first, minimum 1
	Attempts int

	// Backoff is the base sleep between tries, doubled each retry
	Backoff time.Duration
}

// DefaultRetry is used when a zero policy is passed
var DefaultRetry = RetryPolicy{Attempts: 5, Backoff: 25 * time.Millisecond}

func (p RetryPolicy) normalized() RetryPolicy {
	if p.Attempts < 1 {
		p.Attempts = DefaultRetry.Attempts
	}
	if p.Backoff <= 0 {
		p.Backoff = DefaultRetry.Backoff
	}
	return p
}

// RetryTx runs fn inside a transaction and re-runs the whole transaction when
// it fails with a retryable conflict (optimistic version miss, serialization
// failure, deadlock). Non-retryable errors surface immediately; a conflict
// that survives all attempts surfaces as-is so the caller sees the real code.
//
// Claim conflicts are deliberately constructed non-retryable and never loop here
func RetryTx(ctx context.Context, tx TxRunner, p RetryPolicy, fn func(q Queryer) error) error {
	p = p.normalized()

	var err error
	backoff := p.Backoff
	for attempt := 1; ; attempt++ {
		err = tx.Tx(ctx, fn)
		if err == nil || !perr.Retryable(err) || attempt >= p.Attempts {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
}

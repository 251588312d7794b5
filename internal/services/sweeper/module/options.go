package module

import (
	"time"

	"github.com/bhattashubham/scamnepal-csr-sub000/internal/platform/config"
)

// Options for the sweeper module
type Options struct {
	DrainInterval  time.Duration
	DrainBatch     int
	AuditInterval  time.Duration
	AuditLimit     int
	RebuildOnStart bool
	LeaseTTL       time.Duration
	EnableLeases   bool
}

// FromConfig fills options from environment
// CSR_SWEEP_INTERVAL_MS (default 250) is the outbox drain cadence
// CSR_SWEEP_BATCH (default 64) is the max outbox rows per drain
// CSR_SWEEP_AUDIT_INTERVAL (default 1h) is the consistency audit cadence
// CSR_SWEEP_AUDIT_LIMIT (default 100) caps drifted entities per audit
// CSR_SWEEP_REBUILD (default false) reprojects the whole index on boot
// CSR_SWEEP_LEASE_TTL (default 5m) bounds how long a dead auditor blocks others
// CSR_SWEEP_LEASES (default true) guards the audit pass with the worker lease
func FromConfig(cfg config.Conf) Options {
	w := cfg.Prefix("CSR_SWEEP_")
	return Options{
		DrainInterval:  time.Duration(w.MayInt("INTERVAL_MS", 250)) * time.Millisecond,
		DrainBatch:     w.MayInt("BATCH", 64),
		AuditInterval:  w.MayDuration("AUDIT_INTERVAL", time.Hour),
		AuditLimit:     w.MayInt("AUDIT_LIMIT", 100),
		RebuildOnStart: w.MayBool("REBUILD", false),
		LeaseTTL:       w.MayDuration("LEASE_TTL", 5*time.Minute),
		EnableLeases:   w.MayBool("LEASES", true),
	}
}

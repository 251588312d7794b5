package module

import (
	"time"

	"github.com/bhattashubham/scamnepal-csr-sub000/internal/core/risk"
	"github.com/bhattashubham/scamnepal-csr-sub000/internal/modkit/repokit"
	"github.com/bhattashubham/scamnepal-csr-sub000/internal/platform/config"
)

// Options configures the reports module
type Options struct {
	NarrativeMin int
	NarrativeMax int
	RiskPolicy   risk.Policy
	Retry        repokit.RetryPolicy
}

// FromConfig reads options from config.Conf
// CSR_POLICY_NARRATIVE_MIN/MAX bound the narrative length
// CSR_RISK_* feed the initial-score policy (shared with services/entities)
// CSR_RETRY_ATTEMPTS/BACKOFF_MS bound the aggregate conflict retry loop
func FromConfig(cfg config.Conf) Options {
	pf := cfg.Prefix("CSR_POLICY_")
	rf := cfg.Prefix("CSR_RISK_")
	tf := cfg.Prefix("CSR_RETRY_")
	return Options{
		NarrativeMin: pf.MayInt("NARRATIVE_MIN", 50),
		NarrativeMax: pf.MayInt("NARRATIVE_MAX", 5000),
		RiskPolicy: risk.Policy{
			AmountBonusCap: rf.MayFloat64("AMOUNT_BONUS_CAP", risk.DefaultPolicy.AmountBonusCap),
			BlendMaxWeight: rf.MayFloat64("BLEND_MAX_WEIGHT", risk.DefaultPolicy.BlendMaxWeight),
			BlendAvgWeight: rf.MayFloat64("BLEND_AVG_WEIGHT", risk.DefaultPolicy.BlendAvgWeight),
		},
		Retry: repokit.RetryPolicy{
			Attempts: tf.MayInt("ATTEMPTS", repokit.DefaultRetry.Attempts),
			Backoff:  time.Duration(tf.MayInt("BACKOFF_MS", int(repokit.DefaultRetry.Backoff/time.Millisecond))) * time.Millisecond,
		},
	}
}

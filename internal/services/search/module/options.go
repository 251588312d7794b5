package module

import (
	"github.com/bhattashubham/scamnepal-csr-sub000/internal/core/rank"
	"github.com/bhattashubham/scamnepal-csr-sub000/internal/platform/config"
)

// Options configures the search module
type Options struct {
	Rank         rank.Policy
	CandidateCap int
	MinPrefix    int
}

// FromConfig reads options from config.Conf
func FromConfig(cfg config.Conf) Options {
	sf := cfg.Prefix("CSR_SEARCH_")
	return Options{
		Rank: rank.Policy{
			WRelevance:   sf.MayFloat64("W_RELEVANCE", rank.DefaultPolicy.WRelevance),
			WRisk:        sf.MayFloat64("W_RISK", rank.DefaultPolicy.WRisk),
			WRecency:     sf.MayFloat64("W_RECENCY", rank.DefaultPolicy.WRecency),
			HalfLifeDays: sf.MayFloat64("HALFLIFE_DAYS", rank.DefaultPolicy.HalfLifeDays),
		},
		CandidateCap: sf.MayInt("CANDIDATE_CAP", 500),
		MinPrefix:    sf.MayInt("MIN_PREFIX", 2),
	}
}

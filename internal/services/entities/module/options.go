package module

import (
	"github.com/bhattashubham/scamnepal-csr-sub000/internal/core/risk"
	"github.com/bhattashubham/scamnepal-csr-sub000/internal/platform/config"
)

// Options configures the entities module
type Options struct {
	RiskPolicy risk.Policy
}

// FromConfig reads options from config.Conf
func FromConfig(cfg config.Conf) Options {
	rf := cfg.Prefix("CSR_RISK_")
	return Options{
		RiskPolicy: risk.Policy{
			AmountBonusCap: rf.MayFloat64("AMOUNT_BONUS_CAP", risk.DefaultPolicy.AmountBonusCap),
			BlendMaxWeight: rf.MayFloat64("BLEND_MAX_WEIGHT", risk.DefaultPolicy.BlendMaxWeight),
			BlendAvgWeight: rf.MayFloat64("BLEND_AVG_WEIGHT", risk.DefaultPolicy.BlendAvgWeight),
		},
	}
}

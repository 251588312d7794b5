package module

import (
	"time"

	"github.com/bhattashubham/scamnepal-csr-sub000/internal/core/schedule"
	"github.com/bhattashubham/scamnepal-csr-sub000/internal/platform/config"
)

// Options configures the moderation module
type Options struct {
	Schedule schedule.Policy
}

// FromConfig reads options from config.Conf
func FromConfig(cfg config.Conf) Options {
	qf := cfg.Prefix("CSR_QUEUE_")
	slaHours := qf.MayFloat64("SLA_HOURS", schedule.DefaultPolicy.SLA.Hours())
	return Options{
		Schedule: schedule.Policy{
			SLA:         time.Duration(slaHours * float64(time.Hour)),
			AgeWeight:   qf.MayFloat64("AGE_WEIGHT", schedule.DefaultPolicy.AgeWeight),
			AgeCapHours: qf.MayFloat64("AGE_CAP_HOURS", schedule.DefaultPolicy.AgeCapHours),
		},
	}
}

// Package schedule is the moderation queue policy: how a pending report's
// priority grows while it waits and when its SLA runs out. Pure functions so
// the policy is testable without a queue behind it; priorities are computed
// lazily on read and never stored
package schedule

import "time"

// Policy carries the queue tuning knobs. Zero value gets Defaults applied
type Policy struct {
	// SLA is how long a task may sit before it counts as overdue
	SLA time.Duration

	// AgeWeight is the priority gained per waiting hour
	AgeWeight float64

	// AgeCapHours bounds the age contribution so ancient tasks cannot
	// starve fresh severe ones forever
	AgeCapHours float64
}

// DefaultPolicy matches the production queue behavior
var DefaultPolicy = Policy{
	SLA:         24 * time.Hour,
	AgeWeight:   0.5,
	AgeCapHours: 48,
}

func (p Policy) normalized() Policy {
	if p.SLA <= 0 {
		p.SLA = DefaultPolicy.SLA
	}
	if p.AgeWeight <= 0 {
		p.AgeWeight = DefaultPolicy.AgeWeight
	}
	if p.AgeCapHours <= 0 {
		p.AgeCapHours = DefaultPolicy.AgeCapHours
	}
	return p
}

// Priority scores a queued task: the report risk plus a capped age bonus.
// riskScore is the report's [0,100] score, age is how long the task has waited
func (p Policy) Priority(riskScore float64, age time.Duration) float64 {
	p = p.normalized()
	hours := age.Hours()
	if hours < 0 {
		hours = 0
	}
	if hours > p.AgeCapHours {
		hours = p.AgeCapHours
	}
	return riskScore + hours*p.AgeWeight
}

// Deadline computes the SLA deadline for a task enqueued at t
func (p Policy) Deadline(t time.Time) time.Time {
	return t.Add(p.normalized().SLA)
}

// Overdue reports whether a task with the given deadline has blown its SLA
func (p Policy) Overdue(now, deadline time.Time) bool {
	return now.After(deadline)
}

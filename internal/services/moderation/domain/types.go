// Package domain holds the moderation queue types and ports
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"

	perr "github.com/bhattashubham/scamnepal-csr-sub000/internal/platform/errors"
)

// Decision is the closed set of moderator rulings on a task
type Decision string

// Decisions
const (
	DecisionApprove     Decision = "approve"
	DecisionReject      Decision = "reject"
	DecisionEscalate    Decision = "escalate"
	DecisionRequireInfo Decision = "require_info"
)

// Valid reports whether d is a known decision
func (d Decision) Valid() bool {
	switch d {
	case DecisionApprove, DecisionReject, DecisionEscalate, DecisionRequireInfo:
		return true
	}
	return false
}

// ParseDecision maps a wire string onto a Decision or fails with validation
func ParseDecision(s string) (Decision, error) {
	d := Decision(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", perr.Validationf("unknown decision %q", s)
	}
	return d, nil
}

// TaskStatus is the lifecycle of a queue task. Completed tasks stay as
// archive rows carrying the decision provenance
type TaskStatus string

// Task statuses
const (
	TaskPending   TaskStatus = "pending"
	TaskCompleted TaskStatus = "completed"
)

// Task is one unit of moderation work. Priority, age, and the overdue flag
// are computed at read time, never stored
type Task struct {
	ID          uuid.UUID  `json:"id"`
	ReportID    uuid.UUID  `json:"reportId"`
	Status      TaskStatus `json:"status"`
	AssignedTo  string     `json:"assignedTo,omitempty"`
	ClaimedAt   *time.Time `json:"claimedAt,omitempty"`
	SLADeadline time.Time  `json:"slaDeadline"`
	Decision    Decision   `json:"decision,omitempty"`
	DecidedBy   string     `json:"decidedBy,omitempty"`
	DecidedAt   *time.Time `json:"decidedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`

	// joined from the report for queue display
	RiskScore float64 `json:"riskScore"`
	Category  string  `json:"category,omitempty"`

	// computed
	Priority float64 `json:"priority"`
	AgeHours float64 `json:"ageHours"`
	Overdue  bool    `json:"overdue"`
}

// ClaimConflict names the moderator already holding a task. Carried in the
// error envelope data of a 409 so the loser can render who won
type ClaimConflict struct {
	CurrentAssignee string `json:"currentAssignee"`
}

// Package domain holds the report types, the status state machine, and the
// ports the report lifecycle composes with
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/bhattashubham/scamnepal-csr-sub000/internal/core/identifier"
	"github.com/bhattashubham/scamnepal-csr-sub000/internal/core/risk"
)

// Status is the closed set of report lifecycle states. Transitions go
// through CanTransition; anything else is an illegal edge
type Status string

// Report statuses
const (
	StatusPending      Status = "pending"
	StatusUnderReview  Status = "under_review"
	StatusVerified     Status = "verified"
	StatusRejected     Status = "rejected"
	StatusRequiresInfo Status = "requires_info"
	StatusEscalated    Status = "escalated"
)

// transitions is the legal edge set. verified and rejected are terminal
var transitions = map[Status][]Status{
	StatusPending:      {StatusUnderReview, StatusVerified, StatusRejected, StatusRequiresInfo},
	StatusUnderReview:  {StatusVerified, StatusRejected, StatusRequiresInfo, StatusEscalated},
	StatusRequiresInfo: {StatusPending, StatusRejected},
	StatusEscalated:    {StatusVerified, StatusRejected},
	StatusVerified:     nil,
	StatusRejected:     nil,
}

// Valid reports whether s is a known status
func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// Terminal reports whether s admits no further transitions
func (s Status) Terminal() bool {
	return s == StatusVerified || s == StatusRejected
}

// CanTransition reports whether from → to is a legal edge
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NextStatuses returns the legal targets from s, nil when terminal
func NextStatuses(s Status) []Status {
	out := make([]Status, len(transitions[s]))
	copy(out, transitions[s])
	return out
}

// Identifier is the typed contact surface a report accuses
type Identifier struct {
	Type        identifier.Type `json:"type"`
	RawValue    string          `json:"rawValue"`
	Normalized  string          `json:"normalizedValue"`
	CountryCode string          `json:"countryCode,omitempty"`
}

// Report is the authoritative record of one accusation. Owned by the
// reporter at creation; mutated only through the state machine and the
// entity aggregator
type Report struct {
	ID         uuid.UUID     `json:"id"`
	EntityID   uuid.UUID     `json:"entityId"`
	Identifier Identifier    `json:"identifier"`
	Category   risk.Category `json:"category"`
	Narrative  string        `json:"narrative"`
	AmountLost float64       `json:"amountLost"`
	Currency   string        `json:"currency,omitempty"`
	Channel    string        `json:"incidentChannel,omitempty"`
	IncidentAt *time.Time    `json:"incidentDate,omitempty"`
	RiskScore  float64       `json:"riskScore"`
	Status     Status        `json:"status"`
	ReporterID string        `json:"reporterId"`
	CreatedAt  time.Time     `json:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt"`
}

// HistoryEntry is one element of a report's append-only audit trail.
// Entries are never mutated or deleted
type HistoryEntry struct {
	ReportID  uuid.UUID `json:"reportId"`
	OldStatus Status    `json:"oldStatus"`
	NewStatus Status    `json:"newStatus"`
	ActorID   string    `json:"actorId"`
	Reason    string    `json:"reason,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

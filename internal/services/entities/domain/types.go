// Package domain holds the entity aggregate types and service ports
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/bhattashubham/scamnepal-csr-sub000/internal/core/identifier"
	"github.com/bhattashubham/scamnepal-csr-sub000/internal/core/risk"
)

// Entity is the aggregate profile of one accused identifier. Status, risk
// score, report count, and total amount are derived from the linked report
// set and recomputed inside the same transaction as any report mutation.
// Version guards concurrent recomputes
type Entity struct {
	ID             uuid.UUID         `json:"id"`
	IdentifierType identifier.Type   `json:"identifierType"`
	Normalized     string            `json:"normalizedValue"`
	DisplayName    string            `json:"displayName,omitempty"`
	Status         risk.EntityStatus `json:"status"`
	RiskScore      float64           `json:"riskScore"`
	ReportCount    int               `json:"reportCount"`
	TotalAmount    float64           `json:"totalAmountLost"`
	Tags           []string          `json:"tags"`
	Version        int64             `json:"-"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

// Aggregates is the recomputed snapshot of an entity's linked report set
type Aggregates struct {
	Counts      risk.StatusCounts
	MaxScore    float64
	AvgScore    float64
	TotalAmount float64
}

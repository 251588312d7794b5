// Package domain holds the search query, result, and port types.
//
// Search reads a derived projection (search_documents), not the
// authoritative tables. The projection is refreshed through an outbox
// drained by the sweeper, so results lag a committed write by at most
// one drain cycle
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Hit is one ranked search result row
type Hit struct {
	DocID       string    `json:"docId"`
	DocType     string    `json:"docType"`
	RefID       uuid.UUID `json:"refId"`
	EntityID    uuid.UUID `json:"entityId"`
	Identifier  string    `json:"identifier"`
	DisplayName string    `json:"displayName,omitempty"`
	Category    string    `json:"category,omitempty"`
	Status      string    `json:"status"`
	RiskScore   float64   `json:"riskScore"`
	ReportCount int       `json:"reportCount,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`

	// Score is the blended final score this page was ordered by
	Score float64 `json:"score"`

	// Relevance is the raw text-match signal before blending
	Relevance float64 `json:"-"`
}

// Bucket is one facet value with its count over the filtered set
type Bucket struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Facets are category and status distributions over the filtered set,
// computed before the candidate cap so counts match the total
type Facets struct {
	Categories []Bucket `json:"categories"`
	Statuses   []Bucket `json:"statuses"`
}

// Suggestion is one autocomplete candidate ranked by frequency
type Suggestion struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

package domain

import "time"

// Sort orders
const (
	SortRelevance = "relevance"
	SortDate      = "date"
	SortRisk      = "risk"
)

// Query narrows and orders a search. All filters apply in SQL before
// scoring; Text empty means filter-only browsing ordered by recency
type Query struct {
	Text     string     `json:"text,omitempty"`
	DocType  string     `json:"docType,omitempty" validate:"omitempty,oneof=report entity"`
	Category string     `json:"category,omitempty"`
	Status   string     `json:"status,omitempty"`
	RiskMin  *float64   `json:"riskScoreMin,omitempty" validate:"omitempty,gte=0,lte=100"`
	RiskMax  *float64   `json:"riskScoreMax,omitempty" validate:"omitempty,gte=0,lte=100"`
	DateFrom *time.Time `json:"dateFrom,omitempty"`
	DateTo   *time.Time `json:"dateTo,omitempty"`

	SortBy string `json:"sortBy,omitempty" validate:"omitempty,oneof=relevance date risk"`
	Page   int    `json:"page,omitempty"`
	Limit  int    `json:"limit,omitempty"`

	IncludeFacets      bool `json:"includeFacets,omitempty"`
	IncludeSuggestions bool `json:"includeSuggestions,omitempty"`
}

// Normalize applies paging and sort defaults
func (q Query) Normalize() Query {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 || q.Limit > 100 {
		q.Limit = 20
	}
	if q.SortBy == "" {
		q.SortBy = SortRelevance
	}
	return q
}

// Page is one page of ranked hits with optional extras
type Page struct {
	Hits        []Hit        `json:"hits"`
	Total       int          `json:"total"`
	Page        int          `json:"page"`
	Limit       int          `json:"limit"`
	Facets      *Facets      `json:"facets,omitempty"`
	Suggestions []Suggestion `json:"suggestions,omitempty"`
}

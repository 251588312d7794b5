// Package service contains the search and ranking workflows
package service

import (
	"context"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bhattashubham/scamnepal-csr-sub000/internal/core/rank"
	"github.com/bhattashubham/scamnepal-csr-sub000/internal/modkit/repokit"
	perr "github.com/bhattashubham/scamnepal-csr-sub000/internal/platform/errors"
	"github.com/bhattashubham/scamnepal-csr-sub000/internal/platform/net/http/bind"
	"github.com/bhattashubham/scamnepal-csr-sub000/internal/services/search/domain"
	"github.com/bhattashubham/scamnepal-csr-sub000/internal/services/search/repo"
)

// Service is the public service port
type Service interface{ domain.ServicePort }

// Config carries the ranking and candidate knobs
type Config struct {
	Rank         rank.Policy
	CandidateCap int
	MinPrefix    int
	SuggestLimit int
}

func (c Config) normalized() Config {
	if c.CandidateCap <= 0 {
		c.CandidateCap = 500
	}
	if c.MinPrefix <= 0 {
		c.MinPrefix = 2
	}
	if c.SuggestLimit <= 0 {
		c.SuggestLimit = 10
	}
	return c
}

// Svc implements the service port
type Svc struct {
	Repo   repo.Repo
	binder repokit.Binder[repo.Repo]
	db     repokit.TxRunner
	cfg    Config
	now    func() time.Time
}

// New constructs the service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], cfg Config) *Svc {
	if db == nil {
		panic("search.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("search.Service requires a non nil Repo binder")
	}
	return &Svc{
		Repo:   binder.Bind(db),
		binder: binder,
		db:     db,
		cfg:    cfg.normalized(),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Search filters in SQL, blends the text/risk/recency signals in memory
// over the capped candidate set, and pages the final ordering. Repeating
// a query pages identically; ties break by doc id
func (s *Svc) Search(ctx context.Context, q domain.Query) (domain.Page, error) {
	if err := bind.Validate(q); err != nil {
		return domain.Page{}, err
	}
	if q.RiskMin != nil && q.RiskMax != nil && *q.RiskMin > *q.RiskMax {
		return domain.Page{}, perr.WithField(perr.Validationf("risk range is inverted"), "riskScoreMin")
	}
	if q.DateFrom != nil && q.DateTo != nil && q.DateFrom.After(*q.DateTo) {
		return domain.Page{}, perr.WithField(perr.Validationf("date range is inverted"), "dateFrom")
	}
	q = q.Normalize()
	q.Text = strings.TrimSpace(q.Text)

	hits, total, err := s.Repo.Candidates(ctx, q, s.cfg.CandidateCap)
	if err != nil {
		return domain.Page{}, err
	}

	now := s.now()
	ordered := s.order(hits, q.SortBy, now)

	start := (q.Page - 1) * q.Limit
	if start > len(ordered) {
		start = len(ordered)
	}
	end := start + q.Limit
	if end > len(ordered) {
		end = len(ordered)
	}

	page := domain.Page{
		Hits:  ordered[start:end],
		Total: total,
		Page:  q.Page,
		Limit: q.Limit,
	}
	if page.Hits == nil {
		page.Hits = []domain.Hit{}
	}

	if q.IncludeFacets {
		f, err := s.Repo.Facets(ctx, q)
		if err != nil {
			return domain.Page{}, err
		}
		page.Facets = &f
	}
	if q.IncludeSuggestions && q.Text != "" {
		sg, err := s.Suggest(ctx, q.Text, s.cfg.SuggestLimit)
		if err != nil {
			return domain.Page{}, err
		}
		page.Suggestions = sg
	}
	return page, nil
}

// order attaches blended scores and applies the requested sort
func (s *Svc) order(hits []domain.Hit, sortBy string, now time.Time) []domain.Hit {
	docs := make([]rank.Doc, len(hits))
	byID := make(map[string]domain.Hit, len(hits))
	for i, h := range hits {
		docs[i] = rank.Doc{
			ID:        h.DocID,
			Relevance: h.Relevance,
			RiskScore: h.RiskScore,
			CreatedAt: h.CreatedAt,
		}
		byID[h.DocID] = h
	}
	scored := s.cfg.Rank.Rank(docs, now)

	out := make([]domain.Hit, len(scored))
	for i, sc := range scored {
		h := byID[sc.ID]
		h.Score = sc.FinalScore
		out[i] = h
	}

	switch sortBy {
	case domain.SortDate:
		sort.SliceStable(out, func(i, j int) bool {
			if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
				return out[i].CreatedAt.After(out[j].CreatedAt)
			}
			return out[i].DocID < out[j].DocID
		})
	case domain.SortRisk:
		sort.SliceStable(out, func(i, j int) bool {
			if out[i].RiskScore != out[j].RiskScore {
				return out[i].RiskScore > out[j].RiskScore
			}
			return out[i].DocID < out[j].DocID
		})
	}
	return out
}

// Suggest autocompletes identifiers and category names by frequency.
// Prefixes shorter than the configured minimum return an empty set
func (s *Svc) Suggest(ctx context.Context, prefix string, limit int) ([]domain.Suggestion, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if utf8.RuneCountInString(prefix) < s.cfg.MinPrefix {
		return []domain.Suggestion{}, nil
	}
	if limit < 1 || limit > 50 {
		limit = s.cfg.SuggestLimit
	}
	return s.Repo.Suggest(ctx, prefix, limit)
}

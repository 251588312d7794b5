// Package http provides http transport for search
package http

import (
	stdhttp "net/http"
	"strconv"
	"time"

	"github.com/bhattashubham/scamnepal-csr-sub000/internal/modkit/httpkit"
	ptime "github.com/bhattashubham/scamnepal-csr-sub000/internal/platform/time"
	"github.com/bhattashubham/scamnepal-csr-sub000/internal/services/search/domain"
	svc "github.com/bhattashubham/scamnepal-csr-sub000/internal/services/search/service"
)

// Register mounts search endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.Get(r, "/", h.search)
	httpkit.Get(r, "/suggest", h.suggest)
}

type handlers struct{ svc svc.Service }

// @Summary Search reports and entities
// @Tags Search
// @Produce json
// @Param text query string false "Full text query; empty browses by recency"
// @Param docType query string false "report or entity"
// @Param category query string false "Category filter"
// @Param status query string false "Status filter"
// @Param riskScoreMin query number false "Minimum risk score"
// @Param riskScoreMax query number false "Maximum risk score"
// @Param dateFrom query string false "RFC3339 lower bound"
// @Param dateTo query string false "RFC3339 upper bound"
// @Param sortBy query string false "relevance, date, or risk"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Param includeFacets query bool false "Attach category/status facets"
// @Param includeSuggestions query bool false "Attach query suggestions"
// @Success 200 {object} domain.Page "ok"
// @Router /search [get]
func (h *handlers) search(r *stdhttp.Request) (any, error) {
	q, err := queryFromRequest(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Search(r.Context(), q)
}

// @Summary Autocomplete identifiers and categories
// @Tags Search
// @Produce json
// @Param prefix query string true "Prefix to complete"
// @Param limit query int false "Max suggestions"
// @Success 200 {array} domain.Suggestion "ok"
// @Router /search/suggest [get]
func (h *handlers) suggest(r *stdhttp.Request) (any, error) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	return h.svc.Suggest(r.Context(), q.Get("prefix"), limit)
}

func queryFromRequest(r *stdhttp.Request) (domain.Query, error) {
	v := r.URL.Query()
	page, _ := strconv.Atoi(v.Get("page"))
	limit, _ := strconv.Atoi(v.Get("limit"))

	q := domain.Query{
		Text:     v.Get("text"),
		DocType:  v.Get("docType"),
		Category: v.Get("category"),
		Status:   v.Get("status"),
		SortBy:   v.Get("sortBy"),
		Page:     page,
		Limit:    limit,
	}
	q.IncludeFacets, _ = strconv.ParseBool(v.Get("includeFacets"))
	q.IncludeSuggestions, _ = strconv.ParseBool(v.Get("includeSuggestions"))

	if s := v.Get("riskScoreMin"); s != "" {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			q.RiskMin = &f
		}
	}
	if s := v.Get("riskScoreMax"); s != "" {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			q.RiskMax = &f
		}
	}
	if s := v.Get("dateFrom"); s != "" {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			q.DateFrom = ptime.Ptr(t)
		}
	}
	if s := v.Get("dateTo"); s != "" {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			q.DateTo = ptime.Ptr(t)
		}
	}
	return q, nil
}

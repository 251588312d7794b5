// Package http provides http transport for reports
package http

import (
	stdhttp "net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/bhattashubham/scamnepal-csr-sub000/internal/modkit/httpkit"
	perr "github.com/bhattashubham/scamnepal-csr-sub000/internal/platform/errors"
	"github.com/bhattashubham/scamnepal-csr-sub000/internal/services/reports/domain"
	svc "github.com/bhattashubham/scamnepal-csr-sub000/internal/services/reports/service"
)

// Register mounts report endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.PostJSON[domain.SubmitInput](r, "/", h.submit)
	httpkit.Get(r, "/", h.list)
	httpkit.Get(r, "/mine", h.listMine)
	httpkit.Get(r, "/{id}", h.get)
	httpkit.Get(r, "/{id}/history", h.history)
	httpkit.PostJSON[domain.TransitionInput](r, "/{id}/status", h.transition)
}

type handlers struct{ svc svc.Service }

// @Summary Submit a scam report
// @Tags Reports
// @Accept json
// @Produce json
// @Param payload body domain.SubmitInput true "Submission"
// @Success 201 {object} domain.SubmitResult "created"
// @Failure 422 {object} httpkit.Envelope "validation failed"
// @Router /reports [post]
func (h *handlers) submit(r *stdhttp.Request, in domain.SubmitInput) (any, error) {
	out, err := h.svc.Submit(r.Context(), in)
	if err != nil {
		return nil, err
	}
	return httpkit.Created(out), nil
}

// @Summary List reports
// @Tags Reports
// @Produce json
// @Param status query string false "Status filter"
// @Param category query string false "Category filter"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} domain.ReportPage "ok"
// @Router /reports [get]
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	page, err := h.svc.List(r.Context(), filterFromQuery(r))
	if err != nil {
		return nil, err
	}
	return httpkit.List(page.Reports, page.Total, page.Page, page.Limit), nil
}

// @Summary List the caller's own reports
// @Tags Reports
// @Produce json
// @Param status query string false "Status filter"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} domain.ReportPage "ok"
// @Router /reports/mine [get]
func (h *handlers) listMine(r *stdhttp.Request) (any, error) {
	page, err := h.svc.ListMine(r.Context(), filterFromQuery(r))
	if err != nil {
		return nil, err
	}
	return httpkit.List(page.Reports, page.Total, page.Page, page.Limit), nil
}

// @Summary Get one report
// @Tags Reports
// @Produce json
// @Param id path string true "Report ID"
// @Success 200 {object} domain.Report "ok"
// @Failure 404 {object} httpkit.Envelope "not found"
// @Router /reports/{id} [get]
func (h *handlers) get(r *stdhttp.Request) (any, error) {
	id, err := pathID(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Get(r.Context(), id)
}

// @Summary Report status history
// @Tags Reports
// @Produce json
// @Param id path string true "Report ID"
// @Success 200 {array} domain.HistoryEntry "ok"
// @Router /reports/{id}/history [get]
func (h *handlers) history(r *stdhttp.Request) (any, error) {
	id, err := pathID(r)
	if err != nil {
		return nil, err
	}
	return h.svc.History(r.Context(), id)
}

// @Summary Transition a report's status
// @Tags Reports
// @Accept json
// @Produce json
// @Param id path string true "Report ID"
// @Param payload body domain.TransitionInput true "Transition"
// @Success 200 {object} domain.Report "ok"
// @Failure 409 {object} httpkit.Envelope "illegal transition"
// @Router /reports/{id}/status [post]
func (h *handlers) transition(r *stdhttp.Request, in domain.TransitionInput) (any, error) {
	id, err := pathID(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Transition(r.Context(), id, domain.Status(in.ToStatus), in.Reason)
}

func pathID(r *stdhttp.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, perr.WithField(perr.InvalidArgf("invalid report id"), "id")
	}
	return id, nil
}

func filterFromQuery(r *stdhttp.Request) domain.ListFilter {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return domain.ListFilter{
		Status:   q.Get("status"),
		Category: q.Get("category"),
		Page:     page,
		Limit:    limit,
	}
}

// Package http provides http transport for the moderation queue
package http

import (
	stdhttp "net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/bhattashubham/scamnepal-csr-sub000/internal/modkit/httpkit"
	perr "github.com/bhattashubham/scamnepal-csr-sub000/internal/platform/errors"
	"github.com/bhattashubham/scamnepal-csr-sub000/internal/services/moderation/domain"
	svc "github.com/bhattashubham/scamnepal-csr-sub000/internal/services/moderation/service"
)

// Register mounts moderation endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.Get(r, "/queue", h.queue)
	httpkit.Post(r, "/tasks/{id}/claim", h.claim)
	httpkit.Post(r, "/tasks/{id}/unassign", h.unassign)
	httpkit.PostJSON[domain.DecideInput](r, "/tasks/{id}/decide", h.decide)
	httpkit.PostJSON[domain.BulkDecideInput](r, "/decisions:bulk", h.bulkDecide)
}

type handlers struct{ svc svc.Service }

// @Summary List the moderation queue by priority
// @Tags Moderation
// @Produce json
// @Param status query string false "Task status filter"
// @Param assignedTo query string false "Assignee filter"
// @Param overdue query bool false "Only tasks past their SLA"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} domain.QueuePage "ok"
// @Router /moderation/queue [get]
func (h *handlers) queue(r *stdhttp.Request) (any, error) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	overdue, _ := strconv.ParseBool(q.Get("overdue"))
	out, err := h.svc.ListQueue(r.Context(), domain.QueueFilter{
		Status:     q.Get("status"),
		AssignedTo: q.Get("assignedTo"),
		Overdue:    overdue,
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		return nil, err
	}
	return httpkit.List(out.Tasks, out.Total, out.Page, out.Limit), nil
}

// @Summary Claim a task
// @Tags Moderation
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} domain.Task "ok"
// @Failure 409 {object} httpkit.Envelope "already claimed; data names the current assignee"
// @Router /moderation/tasks/{id}/claim [post]
func (h *handlers) claim(r *stdhttp.Request) (any, error) {
	id, err := pathID(r)
	if err != nil {
		return nil, err
	}
	t, err := h.svc.Claim(r.Context(), id)
	if err != nil {
		if cc, ok := svc.AsClaimConflict(err); ok {
			return httpkit.ErrorData(err, cc), nil
		}
		return nil, err
	}
	return t, nil
}

// @Summary Release a claimed task
// @Tags Moderation
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} domain.Task "ok"
// @Router /moderation/tasks/{id}/unassign [post]
func (h *handlers) unassign(r *stdhttp.Request) (any, error) {
	id, err := pathID(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Unassign(r.Context(), id)
}

// @Summary Decide a task
// @Tags Moderation
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param payload body domain.DecideInput true "Ruling"
// @Success 200 {object} domain.DecideResult "ok"
// @Failure 409 {object} httpkit.Envelope "illegal transition or completed task"
// @Router /moderation/tasks/{id}/decide [post]
func (h *handlers) decide(r *stdhttp.Request, in domain.DecideInput) (any, error) {
	id, err := pathID(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Decide(r.Context(), id, in)
}

// @Summary Decide many tasks at once
// @Tags Moderation
// @Accept json
// @Produce json
// @Param payload body domain.BulkDecideInput true "Bulk ruling"
// @Success 200 {array} domain.BulkOutcome "per-item outcomes"
// @Router /moderation/decisions:bulk [post]
func (h *handlers) bulkDecide(r *stdhttp.Request, in domain.BulkDecideInput) (any, error) {
	return h.svc.BulkDecide(r.Context(), in)
}

func pathID(r *stdhttp.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, perr.WithField(perr.InvalidArgf("invalid task id"), "id")
	}
	return id, nil
}

// Package http provides http transport for entities
package http

import (
	stdhttp "net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/bhattashubham/scamnepal-csr-sub000/internal/modkit/httpkit"
	perr "github.com/bhattashubham/scamnepal-csr-sub000/internal/platform/errors"
	"github.com/bhattashubham/scamnepal-csr-sub000/internal/services/entities/domain"
	svc "github.com/bhattashubham/scamnepal-csr-sub000/internal/services/entities/service"
)

// Register mounts entity endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.Get(r, "/", h.list)
	httpkit.Get(r, "/lookup", h.lookup)
	httpkit.Get(r, "/{id}", h.get)
	httpkit.PatchJSON[domain.UpdateInput](r, "/{id}", h.update)
}

type handlers struct{ svc svc.Service }

// @Summary Browse entity profiles
// @Tags Entities
// @Produce json
// @Param status query string false "Status filter"
// @Param search query string false "Identifier or display name search"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} domain.EntityPage "ok"
// @Router /entities [get]
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return h.svc.List(r.Context(), domain.ListFilter{
		Status: q.Get("status"),
		Search: q.Get("search"),
		Page:   page,
		Limit:  limit,
	})
}

// @Summary Resolve an identifier onto its entity profile
// @Tags Entities
// @Produce json
// @Param type query string true "Identifier type"
// @Param value query string true "Raw identifier value"
// @Success 200 {object} domain.Entity "ok"
// @Failure 404 {object} httpkit.Envelope "no entity for that identifier"
// @Router /entities/lookup [get]
func (h *handlers) lookup(r *stdhttp.Request) (any, error) {
	q := r.URL.Query()
	return h.svc.Lookup(r.Context(), domain.LookupInput{
		Type:  q.Get("type"),
		Value: q.Get("value"),
	})
}

// @Summary Get one entity profile
// @Tags Entities
// @Produce json
// @Param id path string true "Entity ID"
// @Success 200 {object} domain.Entity "ok"
// @Failure 404 {object} httpkit.Envelope "not found"
// @Router /entities/{id} [get]
func (h *handlers) get(r *stdhttp.Request) (any, error) {
	id, err := pathID(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Get(r.Context(), id)
}

// @Summary Edit entity display name and tags
// @Tags Entities
// @Accept json
// @Produce json
// @Param id path string true "Entity ID"
// @Param payload body domain.UpdateInput true "Fields to update"
// @Success 200 {object} domain.Entity "ok"
// @Router /entities/{id} [patch]
func (h *handlers) update(r *stdhttp.Request, in domain.UpdateInput) (any, error) {
	id, err := pathID(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Update(r.Context(), id, in)
}

func pathID(r *stdhttp.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, perr.WithField(perr.InvalidArgf("invalid entity id"), "id")
	}
	return id, nil
}

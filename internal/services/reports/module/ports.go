package module

import (
	"context"

	"github.com/google/uuid"

	"github.com/bhattashubham/scamnepal-csr-sub000/internal/services/reports/domain"
	rsvc "github.com/bhattashubham/scamnepal-csr-sub000/internal/services/reports/service"
)

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// adaptReportsPort exposes service methods as module ports for cross-module usage
type adaptReportsPort struct{ svc rsvc.Service }

func (a adaptReportsPort) Submit(ctx context.Context, in domain.SubmitInput) (domain.SubmitResult, error) {
	return a.svc.Submit(ctx, in)
}

func (a adaptReportsPort) Transition(ctx context.Context, reportID uuid.UUID, to domain.Status, reason string) (domain.Report, error) {
	return a.svc.Transition(ctx, reportID, to, reason)
}

func (a adaptReportsPort) Get(ctx context.Context, reportID uuid.UUID) (domain.Report, error) {
	return a.svc.Get(ctx, reportID)
}

func (a adaptReportsPort) History(ctx context.Context, reportID uuid.UUID) ([]domain.HistoryEntry, error) {
	return a.svc.History(ctx, reportID)
}

func (a adaptReportsPort) List(ctx context.Context, f domain.ListFilter) (domain.ReportPage, error) {
	return a.svc.List(ctx, f)
}

func (a adaptReportsPort) ListMine(ctx context.Context, f domain.ListFilter) (domain.ReportPage, error) {
	return a.svc.ListMine(ctx, f)
}

package domain

import (
	"github.com/google/uuid"
)

// QueueFilter narrows the queue listing
type QueueFilter struct {
	Status     string `json:"status,omitempty"`
	AssignedTo string `json:"assignedTo,omitempty"`
	Overdue    bool   `json:"overdue,omitempty"`
	Page       int    `json:"page,omitempty"`
	Limit      int    `json:"limit,omitempty"`
}

// Normalize applies paging defaults and caps
func (f QueueFilter) Normalize() QueueFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}
	return f
}

// QueuePage is one page of tasks ordered by priority
type QueuePage struct {
	Tasks []Task `json:"tasks"`
	Total int    `json:"total"`
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
}

// DecideInput carries a single ruling
type DecideInput struct {
	Decision string `json:"decision" validate:"required" example:"approve"`
	Reason   string `json:"reason,omitempty" validate:"omitempty,max=500"`
	Notes    string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// DecideResult pairs the completed task with its decision stamp
type DecideResult struct {
	Task        Task      `json:"task"`
	Decision    Decision  `json:"decision"`
	ModeratorID string    `json:"moderatorId"`
	Timestamp   string    `json:"timestamp"`
	ReportID    uuid.UUID `json:"reportId"`
}

// BulkDecideInput carries one ruling over many tasks
type BulkDecideInput struct {
	TaskIDs  []uuid.UUID `json:"taskIds" validate:"required,min=1,max=100"`
	Decision string      `json:"decision" validate:"required"`
	Reason   string      `json:"reason,omitempty" validate:"omitempty,max=500"`
}

// BulkOutcome is the per-task result of a bulk ruling. The batch never
// aborts; failures are reported item by item
type BulkOutcome struct {
	TaskID uuid.UUID `json:"taskId"`
	Status string    `json:"status"`
	Error  string    `json:"error,omitempty"`
}

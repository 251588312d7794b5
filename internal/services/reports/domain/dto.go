package domain

import (
	"time"

	"github.com/google/uuid"
)

// SubmitInput is the public submission payload. Field names are the API
// contract consumed by the UI layer
type SubmitInput struct {
	IdentifierType  string  `json:"identifierType" validate:"required" example:"phone"`
	IdentifierValue string  `json:"identifierValue" validate:"required,min=1,max=320" example:"+977-9841234567"`
	CountryCode     string  `json:"countryCode,omitempty" validate:"omitempty,len=2,alpha" example:"NP"`
	Category        string  `json:"category" validate:"required" example:"phishing"`
	Narrative       string  `json:"narrative" validate:"required" example:"They called pretending to be my bank and asked for my OTP..."`
	AmountLost      float64 `json:"amountLost,omitempty" validate:"omitempty,min=0" example:"25000"`
	Currency        string  `json:"currency,omitempty" validate:"omitempty,len=3,alpha" example:"NPR"`
	IncidentDate    string  `json:"incidentDate,omitempty" validate:"omitempty,datetime=2006-01-02" example:"2026-02-14"`
	IncidentChannel string  `json:"incidentChannel,omitempty" validate:"omitempty,max=100" example:"viber"`
}

// SubmitResult is the ingest acknowledgement
type SubmitResult struct {
	ID        uuid.UUID `json:"id"`
	Status    Status    `json:"status"`
	RiskScore float64   `json:"riskScore"`
	CreatedAt time.Time `json:"createdAt"`
}

// TransitionInput drives a direct status transition on a report
type TransitionInput struct {
	ToStatus string `json:"toStatus" validate:"required" example:"under_review"`
	Reason   string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

// ListFilter narrows the moderator report listing
type ListFilter struct {
	Status   string `json:"status,omitempty"`
	Category string `json:"category,omitempty"`
	Page     int    `json:"page,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

// Normalize applies paging defaults and caps
func (f ListFilter) Normalize() ListFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}
	return f
}

// ReportPage is one page of reports with its total
type ReportPage struct {
	Reports []Report `json:"reports"`
	Total   int      `json:"total"`
	Page    int      `json:"page"`
	Limit   int      `json:"limit"`
}

package domain

// ListFilter narrows the entity listing
type ListFilter struct {
	Status string `json:"status,omitempty"`
	Search string `json:"search,omitempty"`
	Page   int    `json:"page,omitempty"`
	Limit  int    `json:"limit,omitempty"`
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

// EntityPage is the browse response shape
type EntityPage struct {
	Data       []Entity `json:"data"`
	Total      int      `json:"total"`
	Page       int      `json:"page"`
	Limit      int      `json:"limit"`
	TotalPages int      `json:"totalPages"`
}

// LookupInput resolves one identifier onto its entity profile
type LookupInput struct {
	Type  string `json:"type" validate:"required"`
	Value string `json:"value" validate:"required,min=1,max=320"`
}

// UpdateInput carries the moderator-editable entity fields. Nil leaves a
// field untouched
type UpdateInput struct {
	DisplayName *string   `json:"displayName,omitempty" validate:"omitempty,max=200"`
	Tags        *[]string `json:"tags,omitempty" validate:"omitempty,max=20,dive,tag_slug"`
}

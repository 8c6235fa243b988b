package lead

// CreateLeadRequest represents a manually added lead
type CreateLeadRequest struct {
	Name  string `json:"name" validate:"required,min=3"`
	Phone string `json:"phone"`
	Email string `json:"email" validate:"omitempty,email"`

	// Attribution, usually absent for manual leads
	Source      string `json:"source"`
	UTMSource   string `json:"utm_source"`
	UTMMedium   string `json:"utm_medium"`
	UTMCampaign string `json:"utm_campaign"`
	UTMTerm     string `json:"utm_term"`
	UTMContent  string `json:"utm_content"`
	GCLID       string `json:"gclid"`
}

// UpdateStatusRequest represents a single-lead qualification change
type UpdateStatusRequest struct {
	Status Status `json:"qualification_status" validate:"required,oneof=new hot warm cold won"`
}

// BulkStatusRequest represents a qualification change over a selected id set
type BulkStatusRequest struct {
	IDs    []int64 `json:"ids" validate:"required,min=1"`
	Status Status  `json:"qualification_status" validate:"required,oneof=new hot warm cold won"`
}

// UpdateCommentRequest replaces the operator comment on a lead
type UpdateCommentRequest struct {
	Comment string `json:"comment"`
}

// ListResponse represents the full lead collection
type ListResponse struct {
	Leads []Lead `json:"leads"`
	Total int    `json:"total"`
}

package dashboard

import "leadpanel/internal/domain/lead"

// SetStatusRequest represents an optimistic single-lead qualification change
type SetStatusRequest struct {
	Status lead.Status `json:"qualification_status" validate:"required,oneof=new hot warm cold won"`
}

// BulkSetStatusRequest represents an optimistic qualification change over a
// set of leads. When IDs is empty the current selection is used.
type BulkSetStatusRequest struct {
	IDs    []int64     `json:"ids"`
	Status lead.Status `json:"qualification_status" validate:"required,oneof=new hot warm cold won"`
}

// SelectionResponse reports the selected ids after a selection change
type SelectionResponse struct {
	Selected []int64 `json:"selected_ids"`
}

package lead

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"leadpanel/internal/pkg/response"
	"leadpanel/internal/pkg/validator"
)

// Handler handles lead HTTP requests
type Handler struct {
	service *Service
	hub     *Hub
}

// NewHandler creates lead handler
func NewHandler(service *Service, hub *Hub) *Handler {
	return &Handler{
		service: service,
		hub:     hub,
	}
}

// ListLeads handles GET /api/v1/leads
// @Summary List leads
// @Description Full lead collection ordered by creation time descending
// @Tags Leads
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=ListResponse}
// @Failure 500 {object} response.Response
// @Router /leads [get]
func (h *Handler) ListLeads(c *gin.Context) {
	leads, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list leads")
		return
	}

	response.Success(c, http.StatusOK, ListResponse{Leads: leads, Total: len(leads)})
}

// GetLead handles GET /api/v1/leads/:id
// @Summary Get lead by ID
// @Tags Leads
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lead ID"
// @Success 200 {object} response.Response{data=Lead}
// @Failure 404 {object} response.Response
// @Router /leads/{id} [get]
func (h *Handler) GetLead(c *gin.Context) {
	id, ok := leadID(c)
	if !ok {
		return
	}

	l, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrLeadNotFound) {
			response.Error(c, http.StatusNotFound, "LEAD_NOT_FOUND", "Lead not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch lead")
		return
	}

	response.Success(c, http.StatusOK, l)
}

// CreateLead handles POST /api/v1/leads
// @Summary Add a manual lead
// @Description Inserts an operator-entered lead with status new
// @Tags Leads
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateLeadRequest true "Lead data"
// @Success 201 {object} response.Response{data=Lead}
// @Failure 400 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /leads [post]
func (h *Handler) CreateLead(c *gin.Context) {
	var req CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Invalid lead data", errs)
		return
	}

	l, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create lead")
		return
	}

	response.Success(c, http.StatusCreated, l)
}

// UpdateStatus handles PATCH /api/v1/leads/:id/status
// @Summary Update qualification status
// @Tags Leads
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lead ID"
// @Param request body UpdateStatusRequest true "New status"
// @Success 200 {object} response.Response{data=Lead}
// @Failure 404 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /leads/{id}/status [patch]
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := leadID(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Invalid status", errs)
		return
	}

	l, err := h.service.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, ErrLeadNotFound):
			response.Error(c, http.StatusNotFound, "LEAD_NOT_FOUND", "Lead not found")
		case errors.Is(err, ErrInvalidStatus):
			response.Error(c, http.StatusUnprocessableEntity, "INVALID_STATUS", "Unknown qualification status")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update status")
		}
		return
	}

	response.Success(c, http.StatusOK, l)
}

// BulkUpdateStatus handles PATCH /api/v1/leads/status
// @Summary Update qualification status for a set of leads
// @Tags Leads
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body BulkStatusRequest true "Ids and new status"
// @Success 200 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /leads/status [patch]
func (h *Handler) BulkUpdateStatus(c *gin.Context) {
	var req BulkStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Invalid bulk update", errs)
		return
	}

	updated, err := h.service.BulkUpdateStatus(c.Request.Context(), req.IDs, req.Status)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update leads")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"updated": updated})
}

// UpdateComment handles PATCH /api/v1/leads/:id/comment
// @Summary Save the operator comment
// @Tags Leads
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lead ID"
// @Param request body UpdateCommentRequest true "Comment"
// @Success 200 {object} response.Response{data=Lead}
// @Failure 404 {object} response.Response
// @Router /leads/{id}/comment [patch]
func (h *Handler) UpdateComment(c *gin.Context) {
	id, ok := leadID(c)
	if !ok {
		return
	}

	var req UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}

	l, err := h.service.UpdateComment(c.Request.Context(), id, req.Comment)
	if err != nil {
		if errors.Is(err, ErrLeadNotFound) {
			response.Error(c, http.StatusNotFound, "LEAD_NOT_FOUND", "Lead not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to save comment")
		return
	}

	response.Success(c, http.StatusOK, l)
}

// DeleteLead handles DELETE /api/v1/leads/:id
// @Summary Delete a lead
// @Tags Leads
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lead ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /leads/{id} [delete]
func (h *Handler) DeleteLead(c *gin.Context) {
	id, ok := leadID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrLeadNotFound) {
			response.Error(c, http.StatusNotFound, "LEAD_NOT_FOUND", "Lead not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete lead")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Lead deleted"})
}

// Watch handles GET /api/v1/leads/watch, upgrading to a websocket that
// streams insert/update/delete events for the leads table.
func (h *Handler) Watch(c *gin.Context) {
	if err := h.hub.ServeWS(c.Writer, c.Request); err != nil {
		response.Error(c, http.StatusBadRequest, "UPGRADE_FAILED", "Websocket upgrade failed")
	}
}

func leadID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid lead ID")
		return 0, false
	}
	return id, true
}

package dashboard

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"leadpanel/internal/domain/lead"
	"leadpanel/internal/pkg/metrics"
	"leadpanel/internal/pkg/response"
	"leadpanel/internal/pkg/validator"
)

// Handler serves the dashboard view and its edit operations, all backed by
// the process-wide session that owns the live lead collection.
type Handler struct {
	session *Session
	metrics *metrics.Metrics
}

// NewHandler creates dashboard handler
func NewHandler(session *Session, m *metrics.Metrics) *Handler {
	return &Handler{session: session, metrics: m}
}

// RegisterRoutes registers dashboard routes on an authenticated group
func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	d := r.Group("/dashboard")
	{
		d.GET("", handler.GetDashboard)
		d.PATCH("/leads/:id/status", handler.SetStatus)
		d.PATCH("/leads/status", handler.BulkSetStatus)
		d.PUT("/selection", handler.SelectAll)
		d.POST("/selection/:id", handler.ToggleSelection)
		d.DELETE("/selection", handler.ClearSelection)
	}
}

// GetDashboard handles GET /api/v1/dashboard
// @Summary Dashboard view
// @Description Stats with period deltas, charts, one table page and the current selection, computed from a single snapshot of the session collection
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Param search query string false "Name search, case-insensitive"
// @Param status query string false "Qualification status or all" Enums(all, new, hot, warm, cold, won)
// @Param origin query string false "Derived origin label or all"
// @Param from query string false "Range start, YYYY-MM-DD; defaults to start of current month"
// @Param to query string false "Range end, YYYY-MM-DD; defaults to today"
// @Param sort query string false "Sort key" default(created_at)
// @Param dir query string false "Sort direction" Enums(asc, desc) default(desc)
// @Param page query int false "Page number" default(1)
// @Success 200 {object} response.Response{data=View}
// @Failure 400 {object} response.Response
// @Router /dashboard [get]
func (h *Handler) GetDashboard(c *gin.Context) {
	params, err := parseParams(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_PARAMS", err.Error())
		return
	}

	start := time.Now()
	view := Compute(Annotate(h.session.Snapshot()), params)
	view.Selected = h.session.SelectedIDs()
	h.metrics.RecordDashboardQuery(time.Since(start))

	response.Success(c, http.StatusOK, view)
}

// SetStatus handles PATCH /api/v1/dashboard/leads/:id/status
// @Summary Change one lead's qualification optimistically
// @Description Applies the change to the session immediately and rolls it back if the write fails
// @Tags Dashboard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lead ID"
// @Param request body SetStatusRequest true "New status"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /dashboard/leads/{id}/status [patch]
func (h *Handler) SetStatus(c *gin.Context) {
	id, ok := leadID(c)
	if !ok {
		return
	}

	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Invalid status", errs)
		return
	}

	if err := h.session.SetStatus(c.Request.Context(), id, req.Status); err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Status updated"})
}

// BulkSetStatus handles PATCH /api/v1/dashboard/leads/status
// @Summary Change the qualification of many leads optimistically
// @Description Targets the ids in the body, or the current selection when none are given; the selection is cleared either way
// @Tags Dashboard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body BulkSetStatusRequest true "Ids and new status"
// @Success 200 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /dashboard/leads/status [patch]
func (h *Handler) BulkSetStatus(c *gin.Context) {
	var req BulkSetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Invalid bulk update", errs)
		return
	}

	ids := req.IDs
	if len(ids) == 0 {
		ids = h.session.SelectedIDs()
	}
	if len(ids) == 0 {
		response.Error(c, http.StatusUnprocessableEntity, "NO_SELECTION", "No leads selected")
		return
	}

	if err := h.session.BulkSetStatus(c.Request.Context(), ids, req.Status); err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"updated": len(ids)})
}

// SelectAll handles PUT /api/v1/dashboard/selection
// @Summary Select every lead matching the current filters
// @Description Accepts the same query parameters as the dashboard view and replaces the selection with the whole filtered set, not just the visible page
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=SelectionResponse}
// @Failure 400 {object} response.Response
// @Router /dashboard/selection [put]
func (h *Handler) SelectAll(c *gin.Context) {
	params, err := parseParams(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_PARAMS", err.Error())
		return
	}

	h.session.SelectAllFiltered(params)
	response.Success(c, http.StatusOK, SelectionResponse{Selected: h.session.SelectedIDs()})
}

// ToggleSelection handles POST /api/v1/dashboard/selection/:id
// @Summary Toggle one lead in the selection
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lead ID"
// @Success 200 {object} response.Response{data=SelectionResponse}
// @Router /dashboard/selection/{id} [post]
func (h *Handler) ToggleSelection(c *gin.Context) {
	id, ok := leadID(c)
	if !ok {
		return
	}

	h.session.Toggle(id)
	response.Success(c, http.StatusOK, SelectionResponse{Selected: h.session.SelectedIDs()})
}

// ClearSelection handles DELETE /api/v1/dashboard/selection
// @Summary Clear the selection
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=SelectionResponse}
// @Router /dashboard/selection [delete]
func (h *Handler) ClearSelection(c *gin.Context) {
	h.session.ClearSelection()
	response.Success(c, http.StatusOK, SelectionResponse{Selected: []int64{}})
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, lead.ErrLeadNotFound):
		response.Error(c, http.StatusNotFound, "LEAD_NOT_FOUND", "Lead not found")
	case errors.Is(err, lead.ErrInvalidStatus):
		response.Error(c, http.StatusUnprocessableEntity, "INVALID_STATUS", "Unknown qualification status")
	default:
		response.Error(c, http.StatusInternalServerError, "WRITE_FAILED", "Failed to save changes")
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

func parseParams(c *gin.Context) (Params, error) {
	p := DefaultParams(time.Now())

	p.Search = c.Query("search")

	if s := c.Query("status"); s != "" {
		if s != FilterAll && !lead.Status(s).Valid() {
			return p, errInvalidParam("status", s)
		}
		p.Status = s
	}

	if o := c.Query("origin"); o != "" {
		p.Origin = o
	}

	if from := c.Query("from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return p, errInvalidParam("from", from)
		}
		p.From = &t
		p.To = nil
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return p, errInvalidParam("to", to)
		}
		p.To = &t
	}

	if s := c.Query("sort"); s != "" {
		key, err := ParseSortKey(s)
		if err != nil {
			return p, err
		}
		p.Sort = key
	}
	if d := c.Query("dir"); d != "" {
		dir, err := ParseDirection(d)
		if err != nil {
			return p, err
		}
		p.Dir = dir
	}

	if pg := c.Query("page"); pg != "" {
		n, err := strconv.Atoi(pg)
		if err != nil || n < 1 {
			return p, errInvalidParam("page", pg)
		}
		p.Page = n
	}

	return p, nil
}

type paramError struct {
	name, value string
}

func (e paramError) Error() string {
	return "invalid " + e.name + " parameter: " + e.value
}

func errInvalidParam(name, value string) error {
	return paramError{name: name, value: value}
}

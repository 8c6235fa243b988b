package lead

import "github.com/gin-gonic/gin"

// RegisterRoutes registers lead routes on an authenticated group
func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	leads := r.Group("/leads")
	{
		leads.GET("", handler.ListLeads)
		leads.POST("", handler.CreateLead)
		leads.GET("/watch", handler.Watch)
		leads.PATCH("/status", handler.BulkUpdateStatus)
		leads.GET("/:id", handler.GetLead)
		leads.PATCH("/:id/status", handler.UpdateStatus)
		leads.PATCH("/:id/comment", handler.UpdateComment)
		leads.DELETE("/:id", handler.DeleteLead)
	}
}

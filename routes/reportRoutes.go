package routes

import (
	"github.com/gin-gonic/gin"

	"missingpersons-be/middlewares"
	"missingpersons-be/models"
)

// ReportRoutes sets up the sighting report routes
func ReportRoutes(r *gin.Engine, h Handlers) {
	reports := r.Group("/api/reports")
	{
		reports.GET("", h.Reports.ListReports)
		reports.POST("", middlewares.OptionalAuth(h.JWTSecret), h.limit(), h.Reports.CreateReport)
		reports.PUT("/:id", h.auth(), middlewares.RequireRole(models.RoleAdmin), h.Reports.UpdateReportStatus)
	}
}

package routes

import (
	"github.com/gin-gonic/gin"

	"missingpersons-be/middlewares"
	"missingpersons-be/models"
)

// CaseRoutes sets up the missing-person case routes
func CaseRoutes(r *gin.Engine, h Handlers) {
	admin := middlewares.RequireRole(models.RoleAdmin)

	cases := r.Group("/api/missing-persons")
	{
		cases.GET("", h.Cases.ListCases)
		cases.POST("", middlewares.OptionalAuth(h.JWTSecret), h.limit(), h.Cases.CreateCase)
		cases.GET("/:id", h.Cases.GetCase)
		cases.PUT("/:id", h.auth(), admin, h.Cases.UpdateCase)
		cases.DELETE("/:id", h.auth(), admin, h.Cases.DeleteCase)
		cases.POST("/:id/toggle-status", h.auth(), h.Cases.ToggleStatus)
	}
}

package routes

import "github.com/gin-gonic/gin"

// AnalyticsRoutes sets up the read-only analytics and map routes
func AnalyticsRoutes(r *gin.Engine, h Handlers) {
	analytics := r.Group("/api/analytics")
	{
		analytics.GET("", h.Analytics.Summary)
		analytics.GET("/aggregate", h.Analytics.Aggregate)
	}

	heatmap := r.Group("/api/heatmap")
	{
		heatmap.GET("", h.Analytics.Heatmap)
		heatmap.GET("/regions/*region", h.Analytics.RegionReport)
	}
}

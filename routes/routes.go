package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"missingpersons-be/controllers"
	"missingpersons-be/middlewares"
)

// Handlers is everything the route tables need.
type Handlers struct {
	Auth      *controllers.AuthController
	Cases     *controllers.CaseController
	Reports   *controllers.ReportController
	Analytics *controllers.AnalyticsController

	JWTSecret string
	// Limiter guards public submissions; nil disables rate limiting.
	Limiter gin.HandlerFunc
	Log     *zap.Logger
}

func (h Handlers) auth() gin.HandlerFunc {
	return middlewares.AuthMiddleware(h.JWTSecret, h.Log)
}

func (h Handlers) limit() gin.HandlerFunc {
	if h.Limiter == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return h.Limiter
}

// Register mounts every route on r.
func Register(r *gin.Engine, h Handlers) {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	AuthRoutes(r, h)
	CaseRoutes(r, h)
	ReportRoutes(r, h)
	AnalyticsRoutes(r, h)
}

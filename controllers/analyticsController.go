package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"missingpersons-be/models"
	"missingpersons-be/query"
	"missingpersons-be/services"
)

type AnalyticsController struct {
	Cases *services.CaseService
	Log   *zap.Logger
	Now   services.Clock
}

func (ac *AnalyticsController) now(c *gin.Context) time.Time {
	if t, ok := models.ParseDate(c.Query("now")); ok {
		return t
	}
	if ac.Now != nil {
		return ac.Now()
	}
	return time.Now()
}

// Summary returns the dashboard figures over every case.
func (ac *AnalyticsController) Summary(c *gin.Context) {
	cases, err := ac.Cases.All(c.Request.Context())
	if err != nil {
		respondError(c, ac.Log, err, "Failed to get analytics")
		return
	}
	c.JSON(http.StatusOK, query.Summarize(cases, ac.now(c)))
}

// Aggregate groups the cases matching the search parameters by groupBy.
func (ac *AnalyticsController) Aggregate(c *gin.Context) {
	key, ok := query.ParseGroupKey(c.DefaultQuery("groupBy", string(query.ByRegion)))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid groupBy"})
		return
	}

	cases, err := ac.Cases.Search(c.Request.Context(), query.ParseSpec(c.Request.URL.Query()))
	if err != nil {
		respondError(c, ac.Log, err, "Failed to aggregate cases")
		return
	}

	dist := query.Aggregate(cases, key)
	groups := dist.Sorted()
	if key == query.ByAgeGroup {
		groups = dist.InOrder(query.AgeGroups)
	}
	c.JSON(http.StatusOK, gin.H{
		"groupBy": key,
		"total":   len(cases),
		"groups":  groups,
	})
}

// Heatmap returns map points and per-region counts for the matching cases.
func (ac *AnalyticsController) Heatmap(c *gin.Context) {
	cases, err := ac.Cases.Search(c.Request.Context(), query.ParseSpec(c.Request.URL.Query()))
	if err != nil {
		respondError(c, ac.Log, err, "Failed to build heatmap")
		return
	}
	c.JSON(http.StatusOK, query.Heatmap(cases))
}

// RegionReport drills into one region. The route is a catch-all so that
// "Australia/Oceania" can be addressed without escaping the slash.
func (ac *AnalyticsController) RegionReport(c *gin.Context) {
	region := strings.Trim(c.Param("region"), "/")
	if !models.Region(region).IsValid() {
		c.JSON(http.StatusNotFound, gin.H{"error": "Region not found"})
		return
	}

	cases, err := ac.Cases.All(c.Request.Context())
	if err != nil {
		respondError(c, ac.Log, err, "Failed to build region report")
		return
	}
	c.JSON(http.StatusOK, query.BuildRegionReport(cases, region))
}

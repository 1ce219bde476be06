package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"missingpersons-be/models"
	"missingpersons-be/services"
)

type ReportController struct {
	Sightings *services.SightingService
	Log       *zap.Logger
}

// ListReports returns reports newest first, optionally for one case.
func (rc *ReportController) ListReports(c *gin.Context) {
	reports, err := rc.Sightings.List(c.Request.Context(), c.Query("personId"))
	if err != nil {
		respondError(c, rc.Log, err, "Failed to retrieve reports")
		return
	}
	c.JSON(http.StatusOK, reports)
}

func (rc *ReportController) CreateReport(c *gin.Context) {
	var input struct {
		PersonID        string              `json:"personId" binding:"required"`
		ReporterName    string              `json:"reporterName" binding:"required,max=100"`
		ReporterContact string              `json:"reporterContact" binding:"max=200"`
		Location        string              `json:"location" binding:"required,max=200"`
		SightingDate    string              `json:"sightingDate"`
		Description     string              `json:"description" binding:"max=2000"`
		Coordinates     *models.Coordinates `json:"coordinates"`
		FoundPerson     bool                `json:"foundPerson"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report := &models.SightingReport{
		CaseID:          input.PersonID,
		ReporterName:    input.ReporterName,
		ReporterContact: input.ReporterContact,
		Location:        input.Location,
		SightingDate:    input.SightingDate,
		Description:     input.Description,
		Coordinates:     input.Coordinates,
		FoundPerson:     input.FoundPerson,
	}
	if err := rc.Sightings.Submit(c.Request.Context(), report); err != nil {
		respondError(c, rc.Log, err, "Failed to create report")
		return
	}
	c.JSON(http.StatusCreated, report)
}

// UpdateReportStatus verifies or dismisses a pending report.
func (rc *ReportController) UpdateReportStatus(c *gin.Context) {
	var input struct {
		Status string `json:"status" binding:"required,oneof=verified false"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := rc.Sightings.UpdateStatus(c.Request.Context(), c.Param("id"), models.VerificationStatus(input.Status))
	if err != nil {
		respondError(c, rc.Log, err, "Failed to update report")
		return
	}
	c.JSON(http.StatusOK, report)
}

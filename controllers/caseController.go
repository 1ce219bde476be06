package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"missingpersons-be/models"
	"missingpersons-be/query"
	"missingpersons-be/services"
)

type CaseController struct {
	Cases *services.CaseService
	Log   *zap.Logger
}

type caseInput struct {
	Name             string              `json:"name" binding:"required,max=100"`
	Age              *int                `json:"age" binding:"omitempty,gte=0,lte=150"`
	Gender           string              `json:"gender" binding:"omitempty,oneof=male female other unknown"`
	Description      string              `json:"description" binding:"max=2000"`
	LastSeenDate     string              `json:"lastSeenDate" binding:"required"`
	LastSeenLocation string              `json:"lastSeenLocation" binding:"required,max=200"`
	Country          string              `json:"country" binding:"max=100"`
	State            string              `json:"state" binding:"max=100"`
	City             string              `json:"city" binding:"max=100"`
	Status           string              `json:"status" binding:"omitempty,oneof=missing found"`
	PhotoURL         string              `json:"photoUrl"`
	Region           string              `json:"region" binding:"required"`
	Coordinates      *models.Coordinates `json:"coordinates"`
	Contact          *models.Contact     `json:"contact"`
}

func (in caseInput) toCase() *models.Case {
	c := &models.Case{
		Name:             in.Name,
		Age:              in.Age,
		Gender:           models.Gender(in.Gender),
		Description:      in.Description,
		LastSeenDate:     in.LastSeenDate,
		LastSeenLocation: in.LastSeenLocation,
		Country:          in.Country,
		State:            in.State,
		City:             in.City,
		Status:           models.CaseStatus(in.Status),
		PhotoURL:         in.PhotoURL,
		Region:           models.Region(in.Region),
		Contact:          in.Contact,
	}
	if in.Coordinates != nil {
		c.Coordinates = *in.Coordinates
	}
	return c
}

// ListCases runs the case query from the URL parameters. Malformed filter
// values are ignored rather than rejected.
func (cc *CaseController) ListCases(c *gin.Context) {
	spec := query.ParseSpec(c.Request.URL.Query())

	cases, err := cc.Cases.Search(c.Request.Context(), spec)
	if err != nil {
		respondError(c, cc.Log, err, "Failed to retrieve cases")
		return
	}

	page, limit := query.ParsePage(c.Query("page"), c.Query("limit"))
	window, pg := query.Paginate(cases, page, limit)

	c.JSON(http.StatusOK, gin.H{
		"cases":       window,
		"totalCases":  pg.Total,
		"totalPages":  pg.TotalPages,
		"currentPage": pg.Number,
	})
}

func (cc *CaseController) GetCase(c *gin.Context) {
	found, err := cc.Cases.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, cc.Log, err, "Failed to retrieve case")
		return
	}
	c.JSON(http.StatusOK, found)
}

func (cc *CaseController) CreateCase(c *gin.Context) {
	var input caseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created := input.toCase()
	if err := cc.Cases.Submit(c.Request.Context(), created); err != nil {
		respondError(c, cc.Log, err, "Failed to create case")
		return
	}
	c.JSON(http.StatusCreated, created)
}

type casePatchInput struct {
	Name             *string             `json:"name" binding:"omitempty,max=100"`
	Age              json.RawMessage     `json:"age"`
	Gender           *models.Gender      `json:"gender"`
	Description      *string             `json:"description" binding:"omitempty,max=2000"`
	LastSeenDate     *string             `json:"lastSeenDate"`
	LastSeenLocation *string             `json:"lastSeenLocation" binding:"omitempty,max=200"`
	Country          *string             `json:"country"`
	State            *string             `json:"state"`
	City             *string             `json:"city"`
	Status           *models.CaseStatus  `json:"status"`
	PhotoURL         *string             `json:"photoUrl"`
	Region           *models.Region      `json:"region"`
	Coordinates      *models.Coordinates `json:"coordinates"`
	FoundLocation    *string             `json:"foundLocation"`
	Contact          *models.Contact     `json:"contact"`
}

// toPatch converts the request body; an explicit "age": null clears the age.
func (in casePatchInput) toPatch() (services.CasePatch, error) {
	p := services.CasePatch{
		Name:             in.Name,
		Gender:           in.Gender,
		Description:      in.Description,
		LastSeenDate:     in.LastSeenDate,
		LastSeenLocation: in.LastSeenLocation,
		Country:          in.Country,
		State:            in.State,
		City:             in.City,
		Status:           in.Status,
		PhotoURL:         in.PhotoURL,
		Region:           in.Region,
		Coordinates:      in.Coordinates,
		FoundLocation:    in.FoundLocation,
		Contact:          in.Contact,
	}
	switch {
	case len(in.Age) == 0:
	case bytes.Equal(bytes.TrimSpace(in.Age), []byte("null")):
		p.ClearAge = true
	default:
		var age int
		if err := json.Unmarshal(in.Age, &age); err != nil {
			return p, err
		}
		p.Age = &age
	}
	return p, nil
}

func (cc *CaseController) UpdateCase(c *gin.Context) {
	var input casePatchInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	patch, err := input.toPatch()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "age must be a whole number or null"})
		return
	}

	updated, err := cc.Cases.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondError(c, cc.Log, err, "Failed to update case")
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (cc *CaseController) DeleteCase(c *gin.Context) {
	if err := cc.Cases.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, cc.Log, err, "Failed to delete case")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Case deleted successfully"})
}

// ToggleStatus flips a case between missing and found. The body is optional
// and may name where the person was found.
func (cc *CaseController) ToggleStatus(c *gin.Context) {
	var input struct {
		FoundLocation string `json:"foundLocation" binding:"max=200"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	updated, err := cc.Cases.ToggleStatus(c.Request.Context(), c.Param("id"), input.FoundLocation)
	if err != nil {
		respondError(c, cc.Log, err, "Failed to update case status")
		return
	}
	c.JSON(http.StatusOK, updated)
}

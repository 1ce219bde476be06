package models

import (
	"time"
)

// VerificationStatus enum
type VerificationStatus string

const (
	Pending  VerificationStatus = "pending"
	Verified VerificationStatus = "verified"
	False    VerificationStatus = "false"
)

// IsValid reports whether s is one of the three verification states.
func (s VerificationStatus) IsValid() bool {
	switch s {
	case Pending, Verified, False:
		return true
	}
	return false
}

// IsTerminal is true once a report has been verified or dismissed.
func (s VerificationStatus) IsTerminal() bool {
	return s == Verified || s == False
}

// SightingReport is a tip submitted against a case
type SightingReport struct {
	ID              string             `bson:"_id,omitempty" json:"id"`
	CaseID          string             `bson:"personId" json:"personId"`
	ReporterName    string             `bson:"reporterName" json:"reporterName"`
	ReporterContact string             `bson:"reporterContact" json:"reporterContact"`
	Location        string             `bson:"location" json:"location"`
	SightingDate    string             `bson:"sightingDate" json:"sightingDate"`
	Description     string             `bson:"description" json:"description"`
	Coordinates     *Coordinates       `bson:"coordinates,omitempty" json:"coordinates,omitempty"`
	FoundPerson     bool               `bson:"foundPerson" json:"foundPerson"`
	Status          VerificationStatus `bson:"status" json:"status"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Summary is the compact form pushed onto the case's sightings list.
func (r SightingReport) Summary() CaseSighting {
	return CaseSighting{
		ID:        r.ID,
		Location:  r.Location,
		Date:      r.SightingDate,
		Status:    r.Status,
		CreatedAt: r.CreatedAt,
	}
}

package models

import (
	"time"
)

// Gender enum
type Gender string

const (
	Male          Gender = "male"
	Female        Gender = "female"
	OtherGender   Gender = "other"
	UnknownGender Gender = "unknown"
)

// CaseStatus enum
type CaseStatus string

const (
	Missing CaseStatus = "missing"
	Found   CaseStatus = "found"
)

// Region is the macro-region a case is filed under.
type Region string

const (
	NorthAmerica Region = "North America"
	SouthAmerica Region = "South America"
	Europe       Region = "Europe"
	Africa       Region = "Africa"
	Asia         Region = "Asia"
	Oceania      Region = "Australia/Oceania"
)

// Regions lists every macro-region in display order.
var Regions = []Region{NorthAmerica, SouthAmerica, Europe, Africa, Asia, Oceania}

// IsValid reports whether g is one of the known genders.
func (g Gender) IsValid() bool {
	switch g {
	case Male, Female, OtherGender, UnknownGender:
		return true
	}
	return false
}

// IsValid reports whether s is missing or found.
func (s CaseStatus) IsValid() bool {
	return s == Missing || s == Found
}

// IsValid reports whether r is one of Regions.
func (r Region) IsValid() bool {
	for _, known := range Regions {
		if r == known {
			return true
		}
	}
	return false
}

// Coordinates of the last-seen location
type Coordinates struct {
	Lat float64 `bson:"lat" json:"lat" validate:"latitude"`
	Lng float64 `bson:"lng" json:"lng" validate:"longitude"`
}

// Contact is the person to reach about a case
type Contact struct {
	Name  string `bson:"name" json:"name"`
	Phone string `bson:"phone" json:"phone"`
	Email string `bson:"email" json:"email" validate:"omitempty,email"`
}

// CaseSighting is the summary of a sighting report kept on the case itself.
type CaseSighting struct {
	ID        string             `bson:"_id" json:"id"`
	Location  string             `bson:"location" json:"location"`
	Date      string             `bson:"date" json:"date"`
	Status    VerificationStatus `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// Case represents a missing person record.
//
// Dates the engine filters on (LastSeenDate, ReportDate, FoundDate) are kept
// as calendar-date strings; use ParseDate to compare them.
type Case struct {
	ID               string         `bson:"_id,omitempty" json:"id"`
	Name             string         `bson:"name" json:"name"`
	Age              *int           `bson:"age,omitempty" json:"age,omitempty" validate:"omitempty,gte=0,lte=150"`
	Gender           Gender         `bson:"gender" json:"gender" validate:"omitempty,oneof=male female other unknown"`
	Description      string         `bson:"description" json:"description"`
	LastSeenDate     string         `bson:"lastSeenDate" json:"lastSeenDate"`
	LastSeenLocation string         `bson:"lastSeenLocation" json:"lastSeenLocation"`
	Country          string         `bson:"country,omitempty" json:"country,omitempty"`
	State            string         `bson:"state,omitempty" json:"state,omitempty"`
	City             string         `bson:"city,omitempty" json:"city,omitempty"`
	Status           CaseStatus     `bson:"status" json:"status" validate:"oneof=missing found"`
	PhotoURL         string         `bson:"photoUrl" json:"photoUrl" validate:"omitempty,url"`
	ReportDate       string         `bson:"reportDate" json:"reportDate"`
	Region           Region         `bson:"region" json:"region"`
	Coordinates      Coordinates    `bson:"coordinates" json:"coordinates"`
	FoundDate        string         `bson:"foundDate,omitempty" json:"foundDate,omitempty"`
	FoundLocation    string         `bson:"foundLocation,omitempty" json:"foundLocation,omitempty"`
	Contact          *Contact       `bson:"contact,omitempty" json:"contact,omitempty"`
	Sightings        []CaseSighting `bson:"sightings,omitempty" json:"sightings,omitempty"`
	CreatedAt        time.Time      `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time      `bson:"updatedAt" json:"updatedAt"`
}

// IntPtr returns a pointer to n. Handy for building cases with a known age.
func IntPtr(n int) *int { return &n }

// Package query filters, sorts and aggregates an in-memory collection of
// cases for the search, analytics and heatmap views.
//
// Everything here is a pure function over its arguments: the input slice is
// never modified, no state survives between calls and nothing returns an
// error. Malformed filter input degrades to "no filtering on that dimension"
// and malformed records are excluded or sorted to an edge.
package query

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"missingpersons-be/models"
)

// All disables a status, gender or region filter.
const All = "all"

// SortBy selects the result ordering.
type SortBy string

const (
	SortRecent SortBy = "recent"
	SortOldest SortBy = "oldest"
	SortName   SortBy = "name"
	SortAge    SortBy = "age"
)

// ParseSortBy falls back to SortRecent for anything it does not know.
func ParseSortBy(s string) SortBy {
	switch SortBy(strings.ToLower(strings.TrimSpace(s))) {
	case SortOldest:
		return SortOldest
	case SortName:
		return SortName
	case SortAge:
		return SortAge
	default:
		return SortRecent
	}
}

// AgeRange is an inclusive [Min, Max] age window.
type AgeRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// DefaultAgeRange applies when a Spec carries no AgeRange. The age
// predicate is always on: records without an age never match.
var DefaultAgeRange = AgeRange{Min: 0, Max: 100}

// Spec is one search request. Zero values mean "no filtering", except
// AgeRange, where nil means DefaultAgeRange.
type Spec struct {
	Keyword  string     `json:"keyword,omitempty"`
	Status   string     `json:"status,omitempty"`
	Gender   string     `json:"gender,omitempty"`
	Region   string     `json:"region,omitempty"`
	AgeRange *AgeRange  `json:"ageRange,omitempty"`
	DateFrom *time.Time `json:"dateFrom,omitempty"`
	DateTo   *time.Time `json:"dateTo,omitempty"`
	SortBy   SortBy     `json:"sortBy,omitempty"`
}

// StatusFilter returns the status to pre-filter on in the store, or "" when
// the spec does not constrain status.
func (s Spec) StatusFilter() string { return activeEnum(s.Status) }

// RegionFilter is StatusFilter for region.
func (s Spec) RegionFilter() string { return activeEnum(s.Region) }

func activeEnum(v string) string {
	if v == "" || v == All {
		return ""
	}
	return v
}

// ParseSpec builds a Spec from query-string parameters:
// keyword, status, gender, region, minAge, maxAge, dateFrom, dateTo, sortBy.
//
// Values that do not parse are dropped rather than reported.
func ParseSpec(v url.Values) Spec {
	spec := Spec{
		Keyword: v.Get("keyword"),
		Status:  strings.TrimSpace(v.Get("status")),
		Gender:  strings.TrimSpace(v.Get("gender")),
		Region:  strings.TrimSpace(v.Get("region")),
		SortBy:  ParseSortBy(v.Get("sortBy")),
	}
	if strings.TrimSpace(spec.Keyword) == "" {
		spec.Keyword = v.Get("search")
	}

	minAge, hasMin := parseAge(v.Get("minAge"))
	maxAge, hasMax := parseAge(v.Get("maxAge"))
	if hasMin || hasMax {
		r := DefaultAgeRange
		if hasMin {
			r.Min = minAge
		}
		if hasMax {
			r.Max = maxAge
		}
		spec.AgeRange = &r
	}

	if t, ok := models.ParseDate(v.Get("dateFrom")); ok {
		spec.DateFrom = &t
	}
	if t, ok := models.ParseDate(v.Get("dateTo")); ok {
		spec.DateTo = &t
	}
	return spec
}

func parseAge(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

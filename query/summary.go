package query

import (
	"time"

	"missingpersons-be/models"
)

const (
	// RecentWindow is how far back a report counts as recent activity.
	RecentWindow = 30 * 24 * time.Hour
	// TrendMonths is the number of calendar months in MonthlyTrends.
	TrendMonths = 6
)

// MonthTrend counts cases opened and resolved in one calendar month.
type MonthTrend struct {
	Month    string `json:"month"`
	Label    string `json:"label"`
	NewCases int    `json:"newCases"`
	Resolved int    `json:"resolved"`
}

// Summary backs the analytics dashboard.
type Summary struct {
	TotalCases     int          `json:"totalCases"`
	ActiveCases    int          `json:"activeCases"`
	FoundCases     int          `json:"foundCases"`
	RecentActivity int          `json:"recentActivity"`
	RegionData     []Group      `json:"regionData"`
	GenderData     []Group      `json:"genderData"`
	AgeGroups      []Group      `json:"ageGroups"`
	MonthlyTrends  []MonthTrend `json:"monthlyTrends"`
}

// Summarize computes dashboard statistics as of now.
func Summarize(cases []models.Case, now time.Time) Summary {
	status := Aggregate(cases, ByStatus)
	today := truncateDay(now)

	s := Summary{
		TotalCases:    len(cases),
		ActiveCases:   status[string(models.Missing)].Count,
		FoundCases:    status[string(models.Found)].Count,
		RegionData:    Aggregate(cases, ByRegion).Sorted(),
		GenderData:    Aggregate(cases, ByGender).Sorted(),
		AgeGroups:     Aggregate(cases, ByAgeGroup).InOrder(AgeGroups),
		MonthlyTrends: monthlyTrends(cases, today),
	}

	since := today.Add(-RecentWindow)
	for _, c := range cases {
		if reported, ok := models.ParseDate(c.ReportDate); ok && reported.After(since) && !reported.After(today) {
			s.RecentActivity++
		}
	}
	return s
}

func monthlyTrends(cases []models.Case, today time.Time) []MonthTrend {
	first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(TrendMonths - 1), 0)

	trends := make([]MonthTrend, TrendMonths)
	index := make(map[string]int, TrendMonths)
	for i := range trends {
		m := first.AddDate(0, i, 0)
		trends[i] = MonthTrend{Month: m.Format("2006-01"), Label: m.Format("Jan")}
		index[trends[i].Month] = i
	}

	for _, c := range cases {
		if reported, ok := models.ParseDate(c.ReportDate); ok {
			if i, ok := index[reported.Format("2006-01")]; ok {
				trends[i].NewCases++
			}
		}
		if c.Status != models.Found {
			continue
		}
		if found, ok := models.ParseDate(c.FoundDate); ok {
			if i, ok := index[found.Format("2006-01")]; ok {
				trends[i].Resolved++
			}
		}
	}
	return trends
}

// MapPoint is a case placed on the map.
type MapPoint struct {
	ID     string            `json:"id"`
	Name   string            `json:"name"`
	Status models.CaseStatus `json:"status"`
	Region models.Region     `json:"region"`
	Lat    float64           `json:"lat"`
	Lng    float64           `json:"lng"`
}

// HeatmapData is the regional distribution plus the plottable cases.
type HeatmapData struct {
	Total   int        `json:"total"`
	Regions []Group    `json:"regions"`
	Points  []MapPoint `json:"points"`
}

// Heatmap builds map data. Cases at (0,0) or with out-of-range coordinates
// are counted in Regions but not plotted.
func Heatmap(cases []models.Case) HeatmapData {
	h := HeatmapData{
		Total:   len(cases),
		Regions: Aggregate(cases, ByRegion).Sorted(),
		Points:  make([]MapPoint, 0, len(cases)),
	}
	for _, c := range cases {
		if !plottable(c.Coordinates) {
			continue
		}
		h.Points = append(h.Points, MapPoint{
			ID:     c.ID,
			Name:   c.Name,
			Status: c.Status,
			Region: c.Region,
			Lat:    c.Coordinates.Lat,
			Lng:    c.Coordinates.Lng,
		})
	}
	return h
}

func plottable(p models.Coordinates) bool {
	if p.Lat == 0 && p.Lng == 0 {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// RegionReport describes a single region.
type RegionReport struct {
	Region          string  `json:"region"`
	Cases           int     `json:"cases"`
	Active          int     `json:"active"`
	Resolved        int     `json:"resolved"`
	ResolvedPercent float64 `json:"resolvedPercent"`
	Countries       []Group `json:"countries"`
}

// BuildRegionReport summarises the cases filed under region.
func BuildRegionReport(cases []models.Case, region string) RegionReport {
	inRegion := Filter(cases, Spec{Region: region})
	status := Aggregate(inRegion, ByStatus)

	r := RegionReport{
		Region:    region,
		Cases:     len(inRegion),
		Active:    status[string(models.Missing)].Count,
		Resolved:  status[string(models.Found)].Count,
		Countries: Aggregate(inRegion, ByCountry).Sorted(),
	}
	r.ResolvedPercent = status[string(models.Found)].Percent
	return r
}

package query

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"missingpersons-be/models"
)

// Search returns the cases matching every predicate in spec, ordered by
// spec.SortBy. The result is a new slice; cases is left untouched.
func Search(cases []models.Case, spec Spec) []models.Case {
	return Sort(Filter(cases, spec), spec.SortBy)
}

// Filter keeps the cases matching every predicate in spec, in input order.
func Filter(cases []models.Case, spec Spec) []models.Case {
	m := newMatcher(spec)
	results := make([]models.Case, 0, len(cases))
	for _, c := range cases {
		if m.match(c) {
			results = append(results, c)
		}
	}
	return results
}

type matcher struct {
	keyword  string
	status   string
	gender   string
	region   string
	ages     AgeRange
	dateFrom *time.Time
	dateTo   *time.Time
}

func newMatcher(spec Spec) matcher {
	m := matcher{
		status:   activeEnum(spec.Status),
		gender:   activeEnum(spec.Gender),
		region:   activeEnum(spec.Region),
		ages:     DefaultAgeRange,
		dateFrom: spec.DateFrom,
		dateTo:   spec.DateTo,
	}
	// Whitespace only means no keyword; otherwise the keyword is matched as given.
	if strings.TrimSpace(spec.Keyword) != "" {
		m.keyword = strings.ToLower(spec.Keyword)
	}
	if spec.AgeRange != nil {
		m.ages = *spec.AgeRange
	}
	return m
}

func (m matcher) match(c models.Case) bool {
	return m.matchKeyword(c) &&
		(m.status == "" || string(c.Status) == m.status) &&
		(m.gender == "" || string(c.Gender) == m.gender) &&
		(m.region == "" || string(c.Region) == m.region) &&
		m.matchAge(c) &&
		m.matchDates(c)
}

func (m matcher) matchKeyword(c models.Case) bool {
	if m.keyword == "" {
		return true
	}
	for _, field := range []string{c.Name, c.Description, c.LastSeenLocation} {
		if field != "" && strings.Contains(strings.ToLower(field), m.keyword) {
			return true
		}
	}
	return false
}

func (m matcher) matchAge(c models.Case) bool {
	if c.Age == nil {
		return false
	}
	return *c.Age >= m.ages.Min && *c.Age <= m.ages.Max
}

func (m matcher) matchDates(c models.Case) bool {
	if m.dateFrom == nil && m.dateTo == nil {
		return true
	}
	seen, ok := models.ParseDate(c.LastSeenDate)
	if !ok {
		return false
	}
	if m.dateFrom != nil && seen.Before(truncateDay(*m.dateFrom)) {
		return false
	}
	if m.dateTo != nil && seen.After(truncateDay(*m.dateTo)) {
		return false
	}
	return true
}

func truncateDay(t time.Time) time.Time {
	y, mo, d := t.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}

// Sort returns a stably sorted copy of cases.
//
// Records missing the sort field go to a fixed edge: an unknown report date
// counts as the earliest possible date, a missing name or age sorts last.
func Sort(cases []models.Case, by SortBy) []models.Case {
	out := make([]models.Case, len(cases))
	copy(out, cases)

	switch ParseSortBy(string(by)) {
	case SortOldest:
		sortByReportDate(out, false)
	case SortName:
		sortByName(out)
	case SortAge:
		sort.SliceStable(out, func(i, j int) bool {
			a, b := out[i].Age, out[j].Age
			if a == nil || b == nil {
				return a != nil && b == nil
			}
			return *a > *b
		})
	default:
		sortByReportDate(out, true)
	}
	return out
}

func sortByReportDate(cases []models.Case, newestFirst bool) {
	dates := make(map[string]time.Time, len(cases))
	reported := func(c models.Case) time.Time {
		if t, ok := dates[c.ReportDate]; ok {
			return t
		}
		t, _ := models.ParseDate(c.ReportDate)
		dates[c.ReportDate] = t
		return t
	}
	sort.SliceStable(cases, func(i, j int) bool {
		a, b := reported(cases[i]), reported(cases[j])
		if newestFirst {
			return a.After(b)
		}
		return a.Before(b)
	})
}

func sortByName(cases []models.Case) {
	// Collators carry scratch buffers and are not safe to share.
	col := collate.New(language.English)
	sort.SliceStable(cases, func(i, j int) bool {
		a := strings.TrimSpace(cases[i].Name)
		b := strings.TrimSpace(cases[j].Name)
		if a == "" || b == "" {
			return a != "" && b == ""
		}
		return col.CompareString(a, b) < 0
	})
}

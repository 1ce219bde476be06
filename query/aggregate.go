package query

import (
	"math"
	"sort"
	"strings"

	"missingpersons-be/models"
)

// GroupKey names a categorical dimension cases can be counted by.
type GroupKey string

const (
	ByRegion   GroupKey = "region"
	ByGender   GroupKey = "gender"
	ByAgeGroup GroupKey = "ageGroup"
	ByStatus   GroupKey = "status"
	ByCountry  GroupKey = "country"
)

// ParseGroupKey accepts the canonical names case-insensitively, plus
// "age" and "agegroup" for ByAgeGroup.
func ParseGroupKey(s string) (GroupKey, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "region":
		return ByRegion, true
	case "gender":
		return ByGender, true
	case "agegroup", "age", "age-group":
		return ByAgeGroup, true
	case "status":
		return ByStatus, true
	case "country":
		return ByCountry, true
	}
	return "", false
}

// Age group labels, in display order.
const (
	AgeChild      = "0-12"
	AgeTeen       = "13-17"
	AgeYoungAdult = "18-25"
	AgeAdult      = "26-40"
	AgeMiddle     = "41-60"
	AgeSenior     = "60+"
)

// AgeGroups lists the age buckets in display order.
var AgeGroups = []string{AgeChild, AgeTeen, AgeYoungAdult, AgeAdult, AgeMiddle, AgeSenior}

// AgeGroup returns the bucket for age. Each age falls in exactly one bucket;
// 60 itself belongs to "41-60". Negative ages have no bucket.
func AgeGroup(age int) (string, bool) {
	switch {
	case age < 0:
		return "", false
	case age <= 12:
		return AgeChild, true
	case age <= 17:
		return AgeTeen, true
	case age <= 25:
		return AgeYoungAdult, true
	case age <= 40:
		return AgeAdult, true
	case age <= 60:
		return AgeMiddle, true
	default:
		return AgeSenior, true
	}
}

// KeyFunc derives a grouping key from a case. ok=false leaves the case
// out of every group (it still counts towards the total).
type KeyFunc func(c models.Case) (key string, ok bool)

// GroupStat is one group's share of the collection. Percent keeps the raw
// fraction; use Rounded for display.
type GroupStat struct {
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// Rounded is Percent rounded to the nearest whole number.
func (g GroupStat) Rounded() int {
	return int(math.Round(g.Percent))
}

// Distribution maps a group key to its count and share of the total.
type Distribution map[string]GroupStat

// Group is a Distribution entry in list form.
type Group struct {
	Key     string  `json:"key"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
	Rounded int     `json:"roundedPercent"`
}

// GroupAndCount counts cases per derived key. Every key in seed is present
// in the result even with a zero count. Percentages divide by len(cases)
// and are 0 when the collection is empty.
func GroupAndCount(cases []models.Case, keyFn KeyFunc, seed ...string) Distribution {
	counts := make(map[string]int, len(seed))
	for _, k := range seed {
		counts[k] = 0
	}
	for _, c := range cases {
		if key, ok := keyFn(c); ok {
			counts[key]++
		}
	}

	total := len(cases)
	dist := make(Distribution, len(counts))
	for k, n := range counts {
		dist[k] = GroupStat{Count: n, Percent: percent(n, total)}
	}
	return dist
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}

// Aggregate groups cases by one of the built-in keys. Unknown keys give an
// empty distribution.
func Aggregate(cases []models.Case, groupBy GroupKey) Distribution {
	switch groupBy {
	case ByRegion:
		return GroupAndCount(cases, regionKey)
	case ByGender:
		return GroupAndCount(cases, genderKey)
	case ByAgeGroup:
		return GroupAndCount(cases, ageGroupKey, AgeGroups...)
	case ByStatus:
		return GroupAndCount(cases, statusKey, string(models.Missing), string(models.Found))
	case ByCountry:
		return GroupAndCount(cases, countryKey)
	}
	return Distribution{}
}

const unknownKey = "unknown"

func regionKey(c models.Case) (string, bool) {
	return orUnknown(string(c.Region)), true
}

func genderKey(c models.Case) (string, bool) {
	return orUnknown(string(c.Gender)), true
}

func statusKey(c models.Case) (string, bool) {
	return orUnknown(string(c.Status)), true
}

func countryKey(c models.Case) (string, bool) {
	country := strings.TrimSpace(c.Country)
	return country, country != ""
}

func ageGroupKey(c models.Case) (string, bool) {
	if c.Age == nil {
		return "", false
	}
	return AgeGroup(*c.Age)
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return unknownKey
	}
	return s
}

// Sorted lists groups by count, largest first, ties by key.
func (d Distribution) Sorted() []Group {
	groups := d.list()
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Count != groups[j].Count {
			return groups[i].Count > groups[j].Count
		}
		return groups[i].Key < groups[j].Key
	})
	return groups
}

// InOrder lists the groups named in keys first, in that order, followed by
// any remaining groups as Sorted would order them.
func (d Distribution) InOrder(keys []string) []Group {
	seen := make(map[string]bool, len(keys))
	groups := make([]Group, 0, len(d))
	for _, k := range keys {
		if stat, ok := d[k]; ok {
			groups = append(groups, toGroup(k, stat))
			seen[k] = true
		}
	}
	for _, g := range d.Sorted() {
		if !seen[g.Key] {
			groups = append(groups, g)
		}
	}
	return groups
}

// Total sums the group counts.
func (d Distribution) Total() int {
	n := 0
	for _, stat := range d {
		n += stat.Count
	}
	return n
}

func (d Distribution) list() []Group {
	groups := make([]Group, 0, len(d))
	for k, stat := range d {
		groups = append(groups, toGroup(k, stat))
	}
	return groups
}

func toGroup(key string, stat GroupStat) Group {
	return Group{Key: key, Count: stat.Count, Percent: stat.Percent, Rounded: stat.Rounded()}
}

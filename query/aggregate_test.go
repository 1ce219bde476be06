package query

import (
	"math"
	"testing"

	"missingpersons-be/models"
)

func TestAggregate_AgeGroups(t *testing.T) {
	dist := Aggregate(scenarioCases(), ByAgeGroup)

	want := map[string]int{AgeChild: 1, AgeTeen: 0, AgeYoungAdult: 0, AgeAdult: 0, AgeMiddle: 1, AgeSenior: 1}
	if len(dist) != len(want) {
		t.Fatalf("got %d buckets, want %d: %v", len(dist), len(want), dist)
	}
	for k, n := range want {
		stat, ok := dist[k]
		if !ok {
			t.Errorf("bucket %q missing", k)
			continue
		}
		if stat.Count != n {
			t.Errorf("bucket %q count = %d, want %d", k, stat.Count, n)
		}
	}
	for _, k := range []string{AgeChild, AgeMiddle, AgeSenior} {
		if got := dist[k].Percent; math.Abs(got-100.0/3) > 1e-9 {
			t.Errorf("bucket %q percent = %v", k, got)
		}
		if got := dist[k].Rounded(); got != 33 {
			t.Errorf("bucket %q rounded = %d, want 33", k, got)
		}
	}
}

func TestAgeGroup_Boundaries(t *testing.T) {
	tests := []struct {
		age  int
		want string
	}{
		{0, AgeChild}, {12, AgeChild},
		{13, AgeTeen}, {17, AgeTeen},
		{18, AgeYoungAdult}, {25, AgeYoungAdult},
		{26, AgeAdult}, {40, AgeAdult},
		{41, AgeMiddle}, {60, AgeMiddle},
		{61, AgeSenior}, {120, AgeSenior},
	}
	for _, tt := range tests {
		got, ok := AgeGroup(tt.age)
		if !ok || got != tt.want {
			t.Errorf("AgeGroup(%d) = %q, %v; want %q", tt.age, got, ok, tt.want)
		}
	}
	if _, ok := AgeGroup(-1); ok {
		t.Error("negative age should have no bucket")
	}
}

func TestAggregate_AgePartition(t *testing.T) {
	var cases []models.Case
	withAge := 0
	for age := -2; age <= 110; age += 3 {
		cases = append(cases, models.Case{Age: models.IntPtr(age)})
		if age >= 0 {
			withAge++
		}
	}
	cases = append(cases, models.Case{Name: "no age"}, models.Case{Name: "also no age"})

	dist := Aggregate(cases, ByAgeGroup)
	if got := dist.Total(); got != withAge {
		t.Errorf("bucket counts sum to %d, want %d", got, withAge)
	}
}

func TestAggregate_EmptyCollection(t *testing.T) {
	for _, key := range []GroupKey{ByRegion, ByGender, ByAgeGroup, ByStatus, ByCountry} {
		dist := Aggregate(nil, key)
		for k, stat := range dist {
			if stat.Percent != 0 || math.IsNaN(stat.Percent) {
				t.Errorf("%s/%s: percent = %v, want 0", key, k, stat.Percent)
			}
		}
	}
	if got := len(Aggregate(nil, ByAgeGroup)); got != len(AgeGroups) {
		t.Errorf("age buckets on empty input = %d, want %d", got, len(AgeGroups))
	}
}

func TestAggregate_Categorical(t *testing.T) {
	cases := []models.Case{
		{Region: models.Asia, Gender: models.Male, Status: models.Missing, Country: "India"},
		{Region: models.Asia, Gender: models.Female, Status: models.Found, Country: "UAE"},
		{Region: models.Europe, Gender: models.Female, Status: models.Missing, Country: "Spain"},
		{Gender: "", Status: models.Missing},
	}

	region := Aggregate(cases, ByRegion)
	if region["Asia"].Count != 2 || region["Europe"].Count != 1 || region["unknown"].Count != 1 {
		t.Errorf("region = %v", region)
	}
	if region["Asia"].Percent != 50 {
		t.Errorf("Asia percent = %v, want 50", region["Asia"].Percent)
	}

	gender := Aggregate(cases, ByGender)
	if gender["female"].Count != 2 || gender["male"].Count != 1 || gender["unknown"].Count != 1 {
		t.Errorf("gender = %v", gender)
	}

	status := Aggregate(cases, ByStatus)
	if status["missing"].Count != 3 || status["found"].Count != 1 {
		t.Errorf("status = %v", status)
	}

	country := Aggregate(cases, ByCountry)
	if len(country) != 3 || country.Total() != 3 {
		t.Errorf("country = %v", country)
	}

	if got := Aggregate(cases, "shoe size"); len(got) != 0 {
		t.Errorf("unknown key = %v", got)
	}
}

func TestGroupAndCount_CustomKey(t *testing.T) {
	cases := []models.Case{{Name: "Ana"}, {Name: "Al"}, {Name: "Ben"}, {}}
	initial := func(c models.Case) (string, bool) {
		if c.Name == "" {
			return "", false
		}
		return c.Name[:1], true
	}

	dist := GroupAndCount(cases, initial, "Z")
	if dist["A"].Count != 2 || dist["B"].Count != 1 || dist["Z"].Count != 0 {
		t.Errorf("dist = %v", dist)
	}
	if dist["A"].Percent != 50 {
		t.Errorf("A percent = %v, want 50 (total includes unkeyed records)", dist["A"].Percent)
	}
}

func TestDistribution_Ordering(t *testing.T) {
	dist := Distribution{
		"Europe": {Count: 2},
		"Asia":   {Count: 5},
		"Africa": {Count: 2},
	}
	sorted := dist.Sorted()
	if sorted[0].Key != "Asia" || sorted[1].Key != "Africa" || sorted[2].Key != "Europe" {
		t.Errorf("Sorted = %+v", sorted)
	}

	ordered := dist.InOrder([]string{"Europe", "Nowhere"})
	if len(ordered) != 3 || ordered[0].Key != "Europe" || ordered[1].Key != "Asia" {
		t.Errorf("InOrder = %+v", ordered)
	}
}

func TestParseGroupKey(t *testing.T) {
	tests := []struct {
		in   string
		want GroupKey
		ok   bool
	}{
		{"region", ByRegion, true},
		{"Gender", ByGender, true},
		{"ageGroup", ByAgeGroup, true},
		{"age", ByAgeGroup, true},
		{"STATUS", ByStatus, true},
		{"country", ByCountry, true},
		{"height", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseGroupKey(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseGroupKey(%q) = %q, %v", tt.in, got, ok)
		}
	}
}

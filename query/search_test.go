package query

import (
	"net/url"
	"reflect"
	"testing"
	"time"

	"missingpersons-be/models"
)

func scenarioCases() []models.Case {
	return []models.Case{
		{ID: "1", Name: "Ana", Age: models.IntPtr(10), Status: models.Missing, Region: models.Asia},
		{ID: "2", Name: "Ben", Age: models.IntPtr(45), Status: models.Found, Region: models.Europe},
		{ID: "3", Name: "Cy", Age: models.IntPtr(70), Status: models.Missing, Region: models.Asia},
	}
}

func names(cases []models.Case) []string {
	out := make([]string, len(cases))
	for i, c := range cases {
		out[i] = c.Name
	}
	return out
}

func date(t *testing.T, s string) *time.Time {
	t.Helper()
	d, ok := models.ParseDate(s)
	if !ok {
		t.Fatalf("bad test date %q", s)
	}
	return &d
}

func TestSearch_Scenarios(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
		want []string
	}{
		{"region keeps input order", Spec{Region: "Asia"}, []string{"Ana", "Cy"}},
		{"age range", Spec{AgeRange: &AgeRange{Min: 40, Max: 100}}, []string{"Ben", "Cy"}},
		{"sort by age", Spec{SortBy: SortAge}, []string{"Cy", "Ben", "Ana"}},
		{"keyword not present", Spec{Keyword: "xyz-not-present"}, []string{}},
		{"status found", Spec{Status: "found"}, []string{"Ben"}},
		{"all is a bypass", Spec{Status: All, Gender: All, Region: All}, []string{"Ana", "Ben", "Cy"}},
		{"combined predicates", Spec{Region: "Asia", AgeRange: &AgeRange{Min: 50, Max: 80}}, []string{"Cy"}},
		{"status is case sensitive", Spec{Status: "Missing"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := names(Search(scenarioCases(), tt.spec))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSearch_DateFromAfterDateTo(t *testing.T) {
	cases := []models.Case{
		{Name: "A", LastSeenDate: "2023-10-15"},
		{Name: "B", LastSeenDate: "2023-11-02"},
	}
	got := Search(cases, Spec{DateFrom: date(t, "2023-12-01"), DateTo: date(t, "2023-01-01")})
	if len(got) != 0 {
		t.Errorf("expected empty result, got %v", names(got))
	}
}

func TestSearch_DatesCompareByCalendarValue(t *testing.T) {
	cases := []models.Case{
		{Name: "Sept", Age: models.IntPtr(30), LastSeenDate: "2023-9-1"},
		{Name: "Oct", Age: models.IntPtr(30), LastSeenDate: "2023-10-1"},
		{Name: "LateOct", Age: models.IntPtr(30), LastSeenDate: "2023-10-15"},
		{Name: "NoDate", Age: models.IntPtr(30)},
		{Name: "Garbage", Age: models.IntPtr(30), LastSeenDate: "last tuesday"},
	}

	tests := []struct {
		name string
		spec Spec
		want []string
	}{
		{"from only", Spec{DateFrom: date(t, "2023-9-15")}, []string{"Oct", "LateOct"}},
		{"to only", Spec{DateTo: date(t, "2023-10-01")}, []string{"Sept", "Oct"}},
		{"both bounds inclusive", Spec{DateFrom: date(t, "2023-10-1"), DateTo: date(t, "2023-10-15")}, []string{"Oct", "LateOct"}},
		{"no bounds keeps undated", Spec{}, []string{"Sept", "Oct", "LateOct", "NoDate", "Garbage"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := names(Filter(cases, tt.spec))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSearch_KeywordCaseInsensitive(t *testing.T) {
	cases := []models.Case{
		{Name: "John Smith", Age: models.IntPtr(30)},
		{Name: "Someone", Age: models.IntPtr(30), Description: "Wearing a blue JACKET"},
		{Name: "Other", Age: models.IntPtr(30), LastSeenLocation: "Central Park, New York"},
		{Name: "Parker", Age: models.IntPtr(30)},
		{Age: models.IntPtr(30)},
	}

	tests := []struct {
		keyword string
		want    []string
	}{
		{"john", []string{"John Smith"}},
		{"JOHN", []string{"John Smith"}},
		{"ohn smi", []string{"John Smith"}},
		{"jacket", []string{"Someone"}},
		{"central park", []string{"Other"}},
		{"park", []string{"Other", "Parker"}},
		// Surrounding spaces are part of the substring.
		{" park", []string{"Other"}},
		{"  ", []string{"John Smith", "Someone", "Other", "Parker", ""}},
	}
	for _, tt := range tests {
		got := names(Filter(cases, Spec{Keyword: tt.keyword}))
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("keyword %q: got %v, want %v", tt.keyword, got, tt.want)
		}
	}
}

func TestSearch_AgePredicate(t *testing.T) {
	cases := []models.Case{
		{Name: "NoAge"},
		{Name: "Five", Age: models.IntPtr(5)},
		{Name: "Old", Age: models.IntPtr(104)},
	}

	// Without a range the default 0..100 window still applies.
	if got := names(Filter(cases, Spec{})); !reflect.DeepEqual(got, []string{"Five"}) {
		t.Errorf("no age range: got %v", got)
	}
	if got := names(Filter(cases, Spec{AgeRange: &AgeRange{Min: 0, Max: 100}})); !reflect.DeepEqual(got, []string{"Five"}) {
		t.Errorf("default age range: got %v", got)
	}
	if got := names(Filter(cases, Spec{AgeRange: &AgeRange{Min: 100, Max: 120}})); !reflect.DeepEqual(got, []string{"Old"}) {
		t.Errorf("wide age range: got %v", got)
	}
	got := names(Filter(cases, Spec{AgeRange: &AgeRange{Min: 0, Max: 10}}))
	if !reflect.DeepEqual(got, []string{"Five"}) {
		t.Errorf("narrow age range: got %v", got)
	}
	got = names(Filter(cases, Spec{AgeRange: &AgeRange{Min: 30, Max: 10}}))
	if len(got) != 0 {
		t.Errorf("inverted age range: got %v", got)
	}
}

func TestSearch_DoesNotMutateInput(t *testing.T) {
	cases := scenarioCases()
	before := names(cases)

	_ = Search(cases, Spec{SortBy: SortName})
	_ = Search(cases, Spec{SortBy: SortAge})

	if got := names(cases); !reflect.DeepEqual(got, before) {
		t.Errorf("input reordered: %v", got)
	}
}

func TestSearch_SubsetAndIdempotent(t *testing.T) {
	cases := append(scenarioCases(), models.Case{ID: "4", Name: "Dee", Region: models.Asia})
	specs := []Spec{
		{},
		{Region: "Asia"},
		{Keyword: "a", SortBy: SortName},
		{AgeRange: &AgeRange{Min: 5, Max: 50}, SortBy: SortAge},
	}

	for _, spec := range specs {
		once := Search(cases, spec)
		ids := map[string]int{}
		for _, c := range cases {
			ids[c.ID]++
		}
		for _, c := range once {
			ids[c.ID]--
			if ids[c.ID] < 0 {
				t.Fatalf("spec %+v: record %q fabricated or duplicated", spec, c.ID)
			}
		}
		twice := Search(once, spec)
		if !reflect.DeepEqual(names(once), names(twice)) {
			t.Errorf("spec %+v not idempotent: %v then %v", spec, names(once), names(twice))
		}
	}
}

func TestSearch_EmptyCollection(t *testing.T) {
	got := Search(nil, Spec{Keyword: "x", SortBy: SortName})
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
}

func TestSort_ReportDate(t *testing.T) {
	cases := []models.Case{
		{Name: "Oct", ReportDate: "2023-10-16"},
		{Name: "Blank"},
		{Name: "Sept", ReportDate: "2023-9-29"},
		{Name: "Bad", ReportDate: "not a date"},
		{Name: "Nov", ReportDate: "2023-11-03"},
	}

	recent := names(Sort(cases, SortRecent))
	if want := []string{"Nov", "Oct", "Sept", "Blank", "Bad"}; !reflect.DeepEqual(recent, want) {
		t.Errorf("recent: got %v, want %v", recent, want)
	}
	oldest := names(Sort(cases, SortOldest))
	if want := []string{"Blank", "Bad", "Sept", "Oct", "Nov"}; !reflect.DeepEqual(oldest, want) {
		t.Errorf("oldest: got %v, want %v", oldest, want)
	}
	// Unknown sort keys fall back to recent.
	if got := names(Sort(cases, "shuffle")); !reflect.DeepEqual(got, recent) {
		t.Errorf("unknown sort: got %v, want %v", got, recent)
	}
}

func TestSort_Name(t *testing.T) {
	cases := []models.Case{
		{ID: "1", Name: "bob"},
		{ID: "2", Name: ""},
		{ID: "3", Name: "Émile"},
		{ID: "4", Name: "Alice"},
		{ID: "5", Name: "adam"},
		{ID: "6", Name: "   "},
	}
	want := []string{"5", "4", "1", "3", "2", "6"}

	first := Sort(cases, SortName)
	second := Sort(cases, SortName)
	var got []string
	for _, c := range first {
		got = append(got, c.ID)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("name sort is not deterministic")
	}
}

func TestSort_AgeStable(t *testing.T) {
	cases := []models.Case{
		{ID: "a", Age: models.IntPtr(30)},
		{ID: "b"},
		{ID: "c", Age: models.IntPtr(30)},
		{ID: "d", Age: models.IntPtr(70)},
	}
	var got []string
	for _, c := range Sort(cases, SortAge) {
		got = append(got, c.ID)
	}
	if want := []string{"d", "a", "c", "b"}; !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseSpec(t *testing.T) {
	v := url.Values{}
	v.Set("keyword", "john ")
	v.Set("status", "missing")
	v.Set("region", "all")
	v.Set("minAge", "18")
	v.Set("maxAge", "abc")
	v.Set("dateFrom", "2023-9-1")
	v.Set("dateTo", "soon")
	v.Set("sortBy", "NAME")

	spec := ParseSpec(v)
	if spec.Keyword != "john " {
		t.Errorf("Keyword = %q", spec.Keyword)
	}
	if spec.StatusFilter() != "missing" || spec.RegionFilter() != "" {
		t.Errorf("filters = %q %q", spec.StatusFilter(), spec.RegionFilter())
	}
	if spec.AgeRange == nil || *spec.AgeRange != (AgeRange{Min: 18, Max: 100}) {
		t.Errorf("AgeRange = %+v", spec.AgeRange)
	}
	if spec.DateFrom == nil || spec.DateFrom.Month() != time.September {
		t.Errorf("DateFrom = %v", spec.DateFrom)
	}
	if spec.DateTo != nil {
		t.Errorf("unparseable dateTo should be dropped, got %v", spec.DateTo)
	}
	if spec.SortBy != SortName {
		t.Errorf("SortBy = %q", spec.SortBy)
	}
}

func TestParseSpec_MalformedDegradesToNoFilter(t *testing.T) {
	v := url.Values{}
	v.Set("minAge", "-3")
	v.Set("maxAge", "old")
	v.Set("dateFrom", "2023-02-30")
	v.Set("sortBy", "random")

	spec := ParseSpec(v)
	if spec.AgeRange != nil {
		t.Errorf("AgeRange = %+v, want nil", spec.AgeRange)
	}
	if spec.DateFrom != nil {
		t.Errorf("DateFrom = %v, want nil", spec.DateFrom)
	}
	if spec.SortBy != SortRecent {
		t.Errorf("SortBy = %q, want recent", spec.SortBy)
	}

	got := Search(scenarioCases(), spec)
	if len(got) != 3 {
		t.Errorf("expected all cases, got %v", names(got))
	}
}

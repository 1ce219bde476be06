package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"go.uber.org/zap"

	"missingpersons-be/models"
	"missingpersons-be/store"
)

var testDBCounter uint64

// newTestStore opens a named shared-cache memory database so every pooled
// connection sees the same tables.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	id := atomic.AddUint64(&testDBCounter, 1)
	s, err := Open(fmt.Sprintf("file:cases%d?mode=memory&cache=shared", id), zap.NewNop())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { s.Close(context.Background()) })
	return s
}

func TestOpen_Idempotent(t *testing.T) {
	s := newTestStore(t)
	if err := migrate(s.db); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
}

func TestCaseRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c := &models.Case{
		Name: "Maria Garcia", Age: models.IntPtr(17), Gender: models.Female,
		Status: models.Found, Region: models.Europe, Country: "Spain",
		ReportDate: "2023-11-03", FoundDate: "2023-11-09",
		Coordinates: models.Coordinates{Lat: 40.4168, Lng: -3.7038},
		Contact:     &models.Contact{Name: "Luis Garcia", Email: "luis@example.com"},
	}
	if err := s.CreateCase(ctx, c); err != nil {
		t.Fatalf("CreateCase: %v", err)
	}
	if c.ID == "" || c.CreatedAt.IsZero() {
		t.Fatalf("CreateCase did not assign id/timestamps: %+v", c)
	}

	got, err := s.GetCase(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetCase: %v", err)
	}
	if got.Name != c.Name || got.Age == nil || *got.Age != 17 || got.Region != models.Europe {
		t.Errorf("GetCase = %+v", got)
	}
	if got.Contact == nil || got.Contact.Email != "luis@example.com" {
		t.Errorf("contact = %+v", got.Contact)
	}
	if got.Coordinates.Lat != 40.4168 {
		t.Errorf("coordinates = %+v", got.Coordinates)
	}
	if len(got.Sightings) != 0 {
		t.Errorf("sightings = %+v", got.Sightings)
	}

	got.Age = nil
	got.Status = models.Missing
	if err := s.UpdateCase(ctx, got); err != nil {
		t.Fatalf("UpdateCase: %v", err)
	}
	again, _ := s.GetCase(ctx, c.ID)
	if again.Age != nil || again.Status != models.Missing || again.FoundDate != "2023-11-09" {
		t.Errorf("after update = %+v", again)
	}
}

func TestCase_NotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.GetCase(ctx, "nope"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetCase err = %v", err)
	}
	if err := s.UpdateCase(ctx, &models.Case{ID: "nope", Status: models.Missing}); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("UpdateCase err = %v", err)
	}
	if err := s.DeleteCase(ctx, "nope"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("DeleteCase err = %v", err)
	}
	if err := s.AddSighting(ctx, "nope", models.CaseSighting{ID: "x"}); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("AddSighting err = %v", err)
	}
}

func TestListCases_Filter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	n, err := store.Seed(ctx, s)
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if n != len(store.DemoCases()) {
		t.Fatalf("Seed inserted %d", n)
	}
	if again, _ := store.Seed(ctx, s); again != 0 {
		t.Errorf("second Seed inserted %d, want 0", again)
	}

	all, err := s.ListCases(ctx, store.Filter{Status: "all", Region: "all"})
	if err != nil {
		t.Fatalf("ListCases: %v", err)
	}
	if len(all) != n {
		t.Errorf("ListCases(all) = %d, want %d", len(all), n)
	}

	found, _ := s.ListCases(ctx, store.Filter{Status: "found"})
	if len(found) != 2 {
		t.Errorf("found = %d, want 2", len(found))
	}
	for _, c := range found {
		if c.Status != models.Found {
			t.Errorf("unexpected status %q", c.Status)
		}
	}

	asiaFound, _ := s.ListCases(ctx, store.Filter{Status: "found", Region: "Asia"})
	if len(asiaFound) != 1 || asiaFound[0].Name != "Mohammed Al-Farsi" {
		t.Errorf("Asia/found = %+v", asiaFound)
	}
}

func TestSightings(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c := &models.Case{Name: "Jamal Nkosi", Status: models.Missing}
	if err := s.CreateCase(ctx, c); err != nil {
		t.Fatalf("CreateCase: %v", err)
	}
	for _, id := range []string{"s1", "s2"} {
		if err := s.AddSighting(ctx, c.ID, models.CaseSighting{ID: id, Location: "Nairobi", Status: models.Pending}); err != nil {
			t.Fatalf("AddSighting %s: %v", id, err)
		}
	}
	if err := s.SetSightingStatus(ctx, c.ID, "s2", models.False); err != nil {
		t.Fatalf("SetSightingStatus: %v", err)
	}
	if err := s.SetSightingStatus(ctx, c.ID, "missing", models.False); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("unknown sighting err = %v", err)
	}

	got, _ := s.GetCase(ctx, c.ID)
	if len(got.Sightings) != 2 || got.Sightings[0].Status != models.Pending || got.Sightings[1].Status != models.False {
		t.Errorf("sightings = %+v", got.Sightings)
	}
}

func TestReports(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	r1 := &models.SightingReport{CaseID: "c1", ReporterName: "Ann", Location: "Park", SightingDate: "2023-11-01", Status: models.Pending}
	r2 := &models.SightingReport{CaseID: "c2", ReporterName: "Bob", Location: "Mall", SightingDate: "2023-11-02", Status: models.Pending,
		Coordinates: &models.Coordinates{Lat: 1.5, Lng: 2.5}, FoundPerson: true}
	for _, r := range []*models.SightingReport{r1, r2} {
		if err := s.CreateReport(ctx, r); err != nil {
			t.Fatalf("CreateReport: %v", err)
		}
	}

	all, err := s.ListReports(ctx, "")
	if err != nil || len(all) != 2 {
		t.Fatalf("ListReports = %v, %v", all, err)
	}
	only, _ := s.ListReports(ctx, "c2")
	if len(only) != 1 || !only[0].FoundPerson || only[0].Coordinates == nil || only[0].Coordinates.Lng != 2.5 {
		t.Errorf("ListReports(c2) = %+v", only)
	}

	if err := s.UpdateReportStatus(ctx, r1.ID, models.Verified); err != nil {
		t.Fatalf("UpdateReportStatus: %v", err)
	}
	got, err := s.GetReport(ctx, r1.ID)
	if err != nil || got.Status != models.Verified || got.Coordinates != nil {
		t.Errorf("GetReport = %+v, %v", got, err)
	}
	if _, err := s.GetReport(ctx, "nope"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetReport(nope) err = %v", err)
	}

	// Only pending reports move; a finalised one stays as it is.
	if err := s.UpdateReportStatus(ctx, r1.ID, models.False); !errors.Is(err, store.ErrConflict) {
		t.Errorf("second UpdateReportStatus err = %v, want ErrConflict", err)
	}
	if got, _ := s.GetReport(ctx, r1.ID); got.Status != models.Verified {
		t.Errorf("status after conflict = %q", got.Status)
	}
	if err := s.UpdateReportStatus(ctx, "nope", models.Verified); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("UpdateReportStatus(nope) err = %v", err)
	}

	if err := s.DeleteReport(ctx, r2.ID); err != nil {
		t.Fatalf("DeleteReport: %v", err)
	}
	if err := s.DeleteReport(ctx, r2.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second DeleteReport err = %v", err)
	}
	if rest, _ := s.ListReports(ctx, ""); len(rest) != 1 {
		t.Errorf("reports after delete = %+v", rest)
	}
}

func TestListCases_SkipsCorruptRows(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	good := &models.Case{Name: "Readable", Status: models.Missing}
	bad := &models.Case{Name: "Broken", Status: models.Missing}
	for _, c := range []*models.Case{good, bad} {
		if err := s.CreateCase(ctx, c); err != nil {
			t.Fatalf("CreateCase: %v", err)
		}
	}
	if _, err := s.db.ExecContext(ctx, `UPDATE cases SET sightings = '[{' WHERE id = ?`, bad.ID); err != nil {
		t.Fatalf("corrupt row: %v", err)
	}

	list, err := s.ListCases(ctx, store.Filter{})
	if err != nil {
		t.Fatalf("ListCases: %v", err)
	}
	if len(list) != 1 || list[0].ID != good.ID {
		t.Errorf("ListCases = %+v", list)
	}
	if _, err := s.GetCase(ctx, bad.ID); err == nil {
		t.Error("GetCase on a corrupt row should fail")
	}
}

func TestUsers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := &models.User{Name: "Admin", Email: " Admin@Example.com", Password: "hash", Role: models.RoleAdmin}
	if err := s.CreateUser(ctx, u); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.Email != "admin@example.com" {
		t.Errorf("email not normalised: %q", u.Email)
	}

	dup := &models.User{Name: "Other", Email: "ADMIN@example.com", Password: "x", Role: models.RoleUser}
	if err := s.CreateUser(ctx, dup); !errors.Is(err, store.ErrDuplicate) {
		t.Errorf("duplicate err = %v", err)
	}

	byEmail, err := s.GetUserByEmail(ctx, "admin@EXAMPLE.com")
	if err != nil || byEmail.ID != u.ID || byEmail.Role != models.RoleAdmin {
		t.Errorf("GetUserByEmail = %+v, %v", byEmail, err)
	}
	if _, err := s.GetUserByID(ctx, "nope"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetUserByID(nope) err = %v", err)
	}
}

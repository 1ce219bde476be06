package mongostore

import (
	"context"
	"errors"
	"os"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"missingpersons-be/models"
	"missingpersons-be/store"
)

func TestCaseFilter(t *testing.T) {
	tests := []struct {
		name string
		in   store.Filter
		want bson.M
	}{
		{"empty", store.Filter{}, bson.M{}},
		{"all sentinel", store.Filter{Status: "all", Region: "all"}, bson.M{}},
		{"status only", store.Filter{Status: "found"}, bson.M{"status": "found"}},
		{"both", store.Filter{Status: "missing", Region: "Europe"}, bson.M{"status": "missing", "region": "Europe"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := caseFilter(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("caseFilter = %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("caseFilter[%q] = %v, want %v", k, got[k], v)
				}
			}
		})
	}
}

func TestReportFilter(t *testing.T) {
	if len(reportFilter("")) != 0 {
		t.Error("empty case id should list every report")
	}
	if got := reportFilter("abc"); got["personId"] != "abc" {
		t.Errorf("reportFilter = %v", got)
	}
}

func TestNotFound(t *testing.T) {
	if !errors.Is(notFound(mongo.ErrNoDocuments), store.ErrNotFound) {
		t.Error("ErrNoDocuments should map to store.ErrNotFound")
	}
	other := errors.New("boom")
	if notFound(other) != other {
		t.Error("other errors should pass through")
	}
}

// newTestStore connects to MONGODB_TEST_URI and uses a throwaway database.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	uri := os.Getenv("MONGODB_TEST_URI")
	if uri == "" {
		t.Skip("MONGODB_TEST_URI not set")
	}
	ctx := context.Background()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	dbName := "missingpersons_test_" + newID()
	t.Cleanup(func() {
		_ = client.Database(dbName).Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})
	return New(ctx, client, dbName, zap.NewNop())
}

func TestStore_CaseLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c := &models.Case{Name: "John Doe", Status: models.Missing, Region: models.Europe, Gender: models.Male}
	if err := s.CreateCase(ctx, c); err != nil {
		t.Fatalf("CreateCase: %v", err)
	}

	sighting := models.CaseSighting{ID: newID(), Location: "Madrid", Date: "2023-11-05", Status: models.Pending}
	if err := s.AddSighting(ctx, c.ID, sighting); err != nil {
		t.Fatalf("AddSighting: %v", err)
	}
	if err := s.SetSightingStatus(ctx, c.ID, sighting.ID, models.Verified); err != nil {
		t.Fatalf("SetSightingStatus: %v", err)
	}

	got, err := s.GetCase(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetCase: %v", err)
	}
	if len(got.Sightings) != 1 || got.Sightings[0].Status != models.Verified {
		t.Errorf("sightings = %+v", got.Sightings)
	}

	list, err := s.ListCases(ctx, store.Filter{Region: "Asia"})
	if err != nil || len(list) != 0 {
		t.Errorf("ListCases(Asia) = %v, %v", list, err)
	}

	if err := s.DeleteCase(ctx, c.ID); err != nil {
		t.Fatalf("DeleteCase: %v", err)
	}
	if _, err := s.GetCase(ctx, c.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetCase after delete: %v", err)
	}
}

func TestStore_DuplicateUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateUser(ctx, &models.User{Name: "A", Email: "a@example.com", Password: "x", Role: models.RoleUser}); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	err := s.CreateUser(ctx, &models.User{Name: "B", Email: " A@Example.com ", Password: "y", Role: models.RoleUser})
	if !errors.Is(err, store.ErrDuplicate) {
		t.Errorf("second CreateUser err = %v, want ErrDuplicate", err)
	}
}

func TestStore_ReportStatusIsFinal(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	r := &models.SightingReport{CaseID: "c1", ReporterName: "Ann", Location: "Park", Status: models.Pending}
	if err := s.CreateReport(ctx, r); err != nil {
		t.Fatalf("CreateReport: %v", err)
	}
	if err := s.UpdateReportStatus(ctx, r.ID, models.Verified); err != nil {
		t.Fatalf("UpdateReportStatus: %v", err)
	}
	if err := s.UpdateReportStatus(ctx, r.ID, models.False); !errors.Is(err, store.ErrConflict) {
		t.Errorf("second update err = %v, want ErrConflict", err)
	}
	if err := s.UpdateReportStatus(ctx, "nope", models.False); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("unknown report err = %v", err)
	}

	if err := s.DeleteReport(ctx, r.ID); err != nil {
		t.Fatalf("DeleteReport: %v", err)
	}
	if _, err := s.GetReport(ctx, r.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetReport after delete: %v", err)
	}
}

// Package mongostore implements the store interfaces on MongoDB.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"missingpersons-be/models"
	"missingpersons-be/store"
)

const (
	casesCollection   = "missingPersons"
	reportsCollection = "reports"
	usersCollection   = "users"

	opTimeout = 10 * time.Second
)

type Store struct {
	client  *mongo.Client
	cases   *mongo.Collection
	reports *mongo.Collection
	users   *mongo.Collection
	log     *zap.Logger
}

var _ store.Store = (*Store)(nil)

// New wraps an already connected client. Index creation failures are logged
// and do not stop the store from being used.
func New(ctx context.Context, client *mongo.Client, dbName string, logger *zap.Logger) *Store {
	db := client.Database(dbName)
	s := &Store{
		client:  client,
		cases:   db.Collection(casesCollection),
		reports: db.Collection(reportsCollection),
		users:   db.Collection(usersCollection),
		log:     logger,
	}
	if err := s.ensureIndexes(ctx); err != nil {
		logger.Warn("mongo: index creation warnings", zap.Error(err))
	}
	return s
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	type spec struct {
		col   *mongo.Collection
		name  string
		model mongo.IndexModel
	}
	specs := []spec{
		{s.cases, "createdAt", mongo.IndexModel{Keys: bson.D{{Key: "createdAt", Value: -1}}}},
		{s.cases, "status,region", mongo.IndexModel{Keys: bson.D{{Key: "status", Value: 1}, {Key: "region", Value: 1}}}},
		{s.reports, "personId,createdAt", mongo.IndexModel{Keys: bson.D{{Key: "personId", Value: 1}, {Key: "createdAt", Value: -1}}}},
		{s.users, "email", mongo.IndexModel{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
	}

	var errs []string
	for _, sp := range specs {
		if _, err := sp.col.Indexes().CreateOne(ctx, sp.model); err != nil {
			errs = append(errs, sp.col.Name()+"."+sp.name+": "+err.Error())
		}
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// caseFilter translates a store filter into a Mongo query document.
func caseFilter(f store.Filter) bson.M {
	filter := bson.M{}
	if f.Status != "" && f.Status != "all" {
		filter["status"] = f.Status
	}
	if f.Region != "" && f.Region != "all" {
		filter["region"] = f.Region
	}
	return filter
}

func reportFilter(caseID string) bson.M {
	if caseID == "" {
		return bson.M{}
	}
	return bson.M{"personId": caseID}
}

func newID() string {
	return primitive.NewObjectID().Hex()
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return store.ErrNotFound
	}
	return err
}

// Cases

func (s *Store) ListCases(ctx context.Context, f store.Filter) ([]models.Case, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.cases.Find(ctx, caseFilter(f), opts)
	if err != nil {
		return nil, fmt.Errorf("find cases: %w", err)
	}
	defer cursor.Close(ctx)

	cases := []models.Case{}
	for cursor.Next(ctx) {
		var c models.Case
		if err := cursor.Decode(&c); err != nil {
			s.log.Warn("skipping unreadable case",
				zap.Stringer("id", cursor.Current.Lookup("_id")), zap.Error(err))
			continue
		}
		cases = append(cases, c)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate cases: %w", err)
	}
	return cases, nil
}

func (s *Store) GetCase(ctx context.Context, id string) (*models.Case, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var c models.Case
	if err := s.cases.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return nil, fmt.Errorf("get case %s: %w", id, notFound(err))
	}
	return &c, nil
}

func (s *Store) CreateCase(ctx context.Context, c *models.Case) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if c.ID == "" {
		c.ID = newID()
	}
	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now

	if _, err := s.cases.InsertOne(ctx, c); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("create case %s: %w", c.ID, store.ErrDuplicate)
		}
		return fmt.Errorf("create case: %w", err)
	}
	return nil
}

func (s *Store) UpdateCase(ctx context.Context, c *models.Case) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	c.UpdatedAt = time.Now().UTC()
	res, err := s.cases.ReplaceOne(ctx, bson.M{"_id": c.ID}, c)
	if err != nil {
		return fmt.Errorf("update case %s: %w", c.ID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("update case %s: %w", c.ID, store.ErrNotFound)
	}
	return nil
}

func (s *Store) DeleteCase(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := s.cases.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete case %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("delete case %s: %w", id, store.ErrNotFound)
	}
	return nil
}

func (s *Store) AddSighting(ctx context.Context, caseID string, sighting models.CaseSighting) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := s.cases.UpdateOne(ctx, bson.M{"_id": caseID}, bson.M{
		"$push": bson.M{"sightings": sighting},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("add sighting to %s: %w", caseID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("add sighting to %s: %w", caseID, store.ErrNotFound)
	}
	return nil
}

func (s *Store) SetSightingStatus(ctx context.Context, caseID, sightingID string, status models.VerificationStatus) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := s.cases.UpdateOne(ctx,
		bson.M{"_id": caseID, "sightings._id": sightingID},
		bson.M{"$set": bson.M{
			"sightings.$.status": status,
			"updatedAt":          time.Now().UTC(),
		}},
	)
	if err != nil {
		return fmt.Errorf("set sighting status on %s: %w", caseID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("set sighting status on %s: %w", caseID, store.ErrNotFound)
	}
	return nil
}

// Sighting reports

func (s *Store) CreateReport(ctx context.Context, r *models.SightingReport) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if r.ID == "" {
		r.ID = newID()
	}
	now := time.Now().UTC()
	r.CreatedAt, r.UpdatedAt = now, now

	if _, err := s.reports.InsertOne(ctx, r); err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	return nil
}

func (s *Store) ListReports(ctx context.Context, caseID string) ([]models.SightingReport, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.reports.Find(ctx, reportFilter(caseID), opts)
	if err != nil {
		return nil, fmt.Errorf("find reports: %w", err)
	}
	defer cursor.Close(ctx)

	reports := []models.SightingReport{}
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, fmt.Errorf("decode reports: %w", err)
	}
	return reports, nil
}

func (s *Store) GetReport(ctx context.Context, id string) (*models.SightingReport, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var r models.SightingReport
	if err := s.reports.FindOne(ctx, bson.M{"_id": id}).Decode(&r); err != nil {
		return nil, fmt.Errorf("get report %s: %w", id, notFound(err))
	}
	return &r, nil
}

func (s *Store) UpdateReportStatus(ctx context.Context, id string, status models.VerificationStatus) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	filter := bson.M{"_id": id, "status": models.Pending}
	res, err := s.reports.UpdateOne(ctx, filter, bson.M{"$set": bson.M{
		"status":    status,
		"updatedAt": time.Now().UTC(),
	}})
	if err != nil {
		return fmt.Errorf("update report %s: %w", id, err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	n, err := s.reports.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("update report %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("update report %s: %w", id, store.ErrNotFound)
	}
	return fmt.Errorf("update report %s: %w", id, store.ErrConflict)
}

func (s *Store) DeleteReport(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := s.reports.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete report %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("delete report %s: %w", id, store.ErrNotFound)
	}
	return nil
}

// Users

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	u.Email = models.NormalizeEmail(u.Email)
	count, err := s.users.CountDocuments(ctx, bson.M{"email": u.Email})
	if err != nil {
		return fmt.Errorf("check existing user: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("create user %s: %w", u.Email, store.ErrDuplicate)
	}

	if u.ID == "" {
		u.ID = newID()
	}
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now

	if _, err := s.users.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("create user %s: %w", u.Email, store.ErrDuplicate)
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var u models.User
	if err := s.users.FindOne(ctx, bson.M{"email": models.NormalizeEmail(email)}).Decode(&u); err != nil {
		return nil, fmt.Errorf("get user by email: %w", notFound(err))
	}
	return &u, nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var u models.User
	if err := s.users.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, fmt.Errorf("get user %s: %w", id, notFound(err))
	}
	return &u, nil
}

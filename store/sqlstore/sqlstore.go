// Package sqlstore implements the store interfaces on SQLite using the
// pure-Go modernc.org/sqlite driver, so no C toolchain is needed.
//
// Nested case data (contact, sightings) is kept in JSON text columns. The
// engine filters in memory, so only status and region need real columns
// for the storage-side filter.
//
// DSN examples:
//   - file: "missingpersons.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
//   - tests: "file:casesN?mode=memory&cache=shared"
package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"missingpersons-be/models"
	"missingpersons-be/store"
)

type Store struct {
	db  *sql.DB
	log *zap.Logger
}

var _ store.Store = (*Store)(nil)

// Open opens (or creates) the database at dsn and runs the migrations.
func Open(dsn string, logger *zap.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	logger.Info("sqlite ready", zap.String("dsn", dsn))
	return &Store{db: db, log: logger}, nil
}

func (s *Store) Close(context.Context) error {
	return s.db.Close()
}

// migrate runs each DDL statement on its own; the driver only executes the
// first statement of a multi-statement string.
func migrate(db *sql.DB) error {
	for _, stmt := range strings.Split(schema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration statement failed: %w\nstatement: %s", err, stmt)
		}
	}
	return nil
}

const schema = `
CREATE TABLE IF NOT EXISTS cases (
    id                 TEXT PRIMARY KEY,
    name               TEXT NOT NULL,
    age                INTEGER,
    gender             TEXT NOT NULL DEFAULT '',
    description        TEXT NOT NULL DEFAULT '',
    last_seen_date     TEXT NOT NULL DEFAULT '',
    last_seen_location TEXT NOT NULL DEFAULT '',
    country            TEXT NOT NULL DEFAULT '',
    state              TEXT NOT NULL DEFAULT '',
    city               TEXT NOT NULL DEFAULT '',
    status             TEXT NOT NULL,
    photo_url          TEXT NOT NULL DEFAULT '',
    report_date        TEXT NOT NULL DEFAULT '',
    region             TEXT NOT NULL DEFAULT '',
    lat                REAL NOT NULL DEFAULT 0,
    lng                REAL NOT NULL DEFAULT 0,
    found_date         TEXT NOT NULL DEFAULT '',
    found_location     TEXT NOT NULL DEFAULT '',
    contact            TEXT,
    sightings          TEXT NOT NULL DEFAULT '[]',
    created_at         DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at         DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_cases_status_region ON cases(status, region);

CREATE TABLE IF NOT EXISTS reports (
    id               TEXT PRIMARY KEY,
    person_id        TEXT NOT NULL,
    reporter_name    TEXT NOT NULL,
    reporter_contact TEXT NOT NULL DEFAULT '',
    location         TEXT NOT NULL,
    sighting_date    TEXT NOT NULL,
    description      TEXT NOT NULL DEFAULT '',
    lat              REAL,
    lng              REAL,
    found_person     INTEGER NOT NULL DEFAULT 0,
    status           TEXT NOT NULL CHECK(status IN ('pending','verified','false')),
    created_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_reports_person ON reports(person_id, created_at);

CREATE TABLE IF NOT EXISTS users (
    id         TEXT PRIMARY KEY,
    name       TEXT NOT NULL,
    email      TEXT NOT NULL UNIQUE,
    password   TEXT NOT NULL,
    role       TEXT NOT NULL CHECK(role IN ('user','admin')),
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

func isUnique(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE")
}

// Cases

const caseColumns = `id, name, age, gender, description, last_seen_date, last_seen_location,
	country, state, city, status, photo_url, report_date, region, lat, lng,
	found_date, found_location, contact, sightings, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

// errCorruptRow marks a row whose columns scanned but whose JSON payload
// did not decode.
var errCorruptRow = errors.New("corrupt row")

func scanCase(row rowScanner) (models.Case, error) {
	var (
		c         models.Case
		age       sql.NullInt64
		contact   sql.NullString
		sightings string
	)
	err := row.Scan(&c.ID, &c.Name, &age, &c.Gender, &c.Description, &c.LastSeenDate,
		&c.LastSeenLocation, &c.Country, &c.State, &c.City, &c.Status, &c.PhotoURL,
		&c.ReportDate, &c.Region, &c.Coordinates.Lat, &c.Coordinates.Lng,
		&c.FoundDate, &c.FoundLocation, &contact, &sightings, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return c, err
	}
	if age.Valid {
		c.Age = models.IntPtr(int(age.Int64))
	}
	if contact.Valid && contact.String != "" {
		c.Contact = &models.Contact{}
		if err := json.Unmarshal([]byte(contact.String), c.Contact); err != nil {
			return c, fmt.Errorf("%w: decode contact: %v", errCorruptRow, err)
		}
	}
	if err := json.Unmarshal([]byte(sightings), &c.Sightings); err != nil {
		return c, fmt.Errorf("%w: decode sightings: %v", errCorruptRow, err)
	}
	return c, nil
}

// caseArgs returns the column values of c in caseColumns order.
func caseArgs(c *models.Case) ([]any, error) {
	var age sql.NullInt64
	if c.Age != nil {
		age = sql.NullInt64{Int64: int64(*c.Age), Valid: true}
	}
	var contact sql.NullString
	if c.Contact != nil {
		b, err := json.Marshal(c.Contact)
		if err != nil {
			return nil, fmt.Errorf("encode contact: %w", err)
		}
		contact = sql.NullString{String: string(b), Valid: true}
	}
	sightings := c.Sightings
	if sightings == nil {
		sightings = []models.CaseSighting{}
	}
	sb, err := json.Marshal(sightings)
	if err != nil {
		return nil, fmt.Errorf("encode sightings: %w", err)
	}
	return []any{c.ID, c.Name, age, c.Gender, c.Description, c.LastSeenDate,
		c.LastSeenLocation, c.Country, c.State, c.City, c.Status, c.PhotoURL,
		c.ReportDate, c.Region, c.Coordinates.Lat, c.Coordinates.Lng,
		c.FoundDate, c.FoundLocation, contact, string(sb), c.CreatedAt, c.UpdatedAt}, nil
}

func (s *Store) ListCases(ctx context.Context, f store.Filter) ([]models.Case, error) {
	q := `SELECT ` + caseColumns + ` FROM cases`
	var (
		where []string
		args  []any
	)
	if f.Status != "" && f.Status != "all" {
		where = append(where, "status = ?")
		args = append(args, f.Status)
	}
	if f.Region != "" && f.Region != "all" {
		where = append(where, "region = ?")
		args = append(args, f.Region)
	}
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY created_at DESC, rowid DESC"

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list cases: %w", err)
	}
	defer rows.Close()

	cases := []models.Case{}
	for rows.Next() {
		c, err := scanCase(rows)
		if errors.Is(err, errCorruptRow) {
			s.log.Warn("skipping unreadable case", zap.String("id", c.ID), zap.Error(err))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("scan case: %w", err)
		}
		cases = append(cases, c)
	}
	return cases, rows.Err()
}

func (s *Store) GetCase(ctx context.Context, id string) (*models.Case, error) {
	return getCase(ctx, s.db, id)
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getCase(ctx context.Context, q querier, id string) (*models.Case, error) {
	row := q.QueryRowContext(ctx, `SELECT `+caseColumns+` FROM cases WHERE id = ?`, id)
	c, err := scanCase(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get case %s: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get case %s: %w", id, err)
	}
	return &c, nil
}

func (s *Store) CreateCase(ctx context.Context, c *models.Case) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now

	args, err := caseArgs(c)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO cases (`+caseColumns+`) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		args...)
	if err != nil {
		if isUnique(err) {
			return fmt.Errorf("create case %s: %w", c.ID, store.ErrDuplicate)
		}
		return fmt.Errorf("create case: %w", err)
	}
	return nil
}

func (s *Store) UpdateCase(ctx context.Context, c *models.Case) error {
	c.UpdatedAt = time.Now().UTC()
	args, err := caseArgs(c)
	if err != nil {
		return err
	}
	// Drop id and created_at; id goes last for the WHERE clause.
	vals := make([]any, 0, len(args)-1)
	vals = append(vals, args[1:len(args)-2]...)
	vals = append(vals, c.UpdatedAt, c.ID)
	res, err := s.db.ExecContext(ctx, `UPDATE cases SET
		name = ?, age = ?, gender = ?, description = ?, last_seen_date = ?, last_seen_location = ?,
		country = ?, state = ?, city = ?, status = ?, photo_url = ?, report_date = ?, region = ?,
		lat = ?, lng = ?, found_date = ?, found_location = ?, contact = ?, sightings = ?, updated_at = ?
		WHERE id = ?`, vals...)
	if err != nil {
		return fmt.Errorf("update case %s: %w", c.ID, err)
	}
	return expectOne(res, "update case "+c.ID)
}

func (s *Store) DeleteCase(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM cases WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete case %s: %w", id, err)
	}
	return expectOne(res, "delete case "+id)
}

func (s *Store) AddSighting(ctx context.Context, caseID string, sighting models.CaseSighting) error {
	return s.editSightings(ctx, caseID, func(list []models.CaseSighting) ([]models.CaseSighting, error) {
		return append(list, sighting), nil
	})
}

func (s *Store) SetSightingStatus(ctx context.Context, caseID, sightingID string, status models.VerificationStatus) error {
	return s.editSightings(ctx, caseID, func(list []models.CaseSighting) ([]models.CaseSighting, error) {
		for i := range list {
			if list[i].ID == sightingID {
				list[i].Status = status
				return list, nil
			}
		}
		return nil, fmt.Errorf("sighting %s: %w", sightingID, store.ErrNotFound)
	})
}

// editSightings rewrites a case's sightings column inside one transaction.
func (s *Store) editSightings(ctx context.Context, caseID string, edit func([]models.CaseSighting) ([]models.CaseSighting, error)) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	c, err := getCase(ctx, tx, caseID)
	if err != nil {
		return err
	}
	list, err := edit(c.Sightings)
	if err != nil {
		return err
	}
	b, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode sightings: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE cases SET sightings = ?, updated_at = ? WHERE id = ?`,
		string(b), time.Now().UTC(), caseID); err != nil {
		return fmt.Errorf("update sightings on %s: %w", caseID, err)
	}
	return tx.Commit()
}

func expectOne(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, store.ErrNotFound)
	}
	return nil
}

// Sighting reports

const reportColumns = `id, person_id, reporter_name, reporter_contact, location, sighting_date,
	description, lat, lng, found_person, status, created_at, updated_at`

func scanReport(row rowScanner) (models.SightingReport, error) {
	var (
		r        models.SightingReport
		lat, lng sql.NullFloat64
	)
	err := row.Scan(&r.ID, &r.CaseID, &r.ReporterName, &r.ReporterContact, &r.Location,
		&r.SightingDate, &r.Description, &lat, &lng, &r.FoundPerson, &r.Status,
		&r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return r, err
	}
	if lat.Valid && lng.Valid {
		r.Coordinates = &models.Coordinates{Lat: lat.Float64, Lng: lng.Float64}
	}
	return r, nil
}

func (s *Store) CreateReport(ctx context.Context, r *models.SightingReport) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	r.CreatedAt, r.UpdatedAt = now, now

	var lat, lng sql.NullFloat64
	if r.Coordinates != nil {
		lat = sql.NullFloat64{Float64: r.Coordinates.Lat, Valid: true}
		lng = sql.NullFloat64{Float64: r.Coordinates.Lng, Valid: true}
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO reports (`+reportColumns+`) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		r.ID, r.CaseID, r.ReporterName, r.ReporterContact, r.Location, r.SightingDate,
		r.Description, lat, lng, r.FoundPerson, r.Status, r.CreatedAt, r.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	return nil
}

func (s *Store) ListReports(ctx context.Context, caseID string) ([]models.SightingReport, error) {
	q := `SELECT ` + reportColumns + ` FROM reports`
	var args []any
	if caseID != "" {
		q += ` WHERE person_id = ?`
		args = append(args, caseID)
	}
	q += ` ORDER BY created_at DESC, rowid DESC`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	reports := []models.SightingReport{}
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

func (s *Store) GetReport(ctx context.Context, id string) (*models.SightingReport, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+reportColumns+` FROM reports WHERE id = ?`, id)
	r, err := scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get report %s: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get report %s: %w", id, err)
	}
	return &r, nil
}

func (s *Store) UpdateReportStatus(ctx context.Context, id string, status models.VerificationStatus) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE reports SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
		status, time.Now().UTC(), id, models.Pending)
	if err != nil {
		return fmt.Errorf("update report %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update report %s: %w", id, err)
	}
	if n > 0 {
		return nil
	}

	var exists int
	err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reports WHERE id = ?`, id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("update report %s: %w", id, err)
	}
	if exists == 0 {
		return fmt.Errorf("update report %s: %w", id, store.ErrNotFound)
	}
	return fmt.Errorf("update report %s: %w", id, store.ErrConflict)
}

func (s *Store) DeleteReport(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM reports WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete report %s: %w", id, err)
	}
	return expectOne(res, "delete report "+id)
}

// Users

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	u.Email = models.NormalizeEmail(u.Email)
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, password, role, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Name, u.Email, u.Password, u.Role, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		if isUnique(err) {
			return fmt.Errorf("create user %s: %w", u.Email, store.ErrDuplicate)
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getUser(ctx, "email", models.NormalizeEmail(email))
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.getUser(ctx, "id", id)
}

func (s *Store) getUser(ctx context.Context, column, value string) (*models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, email, password, role, created_at, updated_at FROM users WHERE `+column+` = ?`, value).
		Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user by %s: %w", column, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user by %s: %w", column, err)
	}
	return &u, nil
}

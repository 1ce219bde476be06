// Package store defines the persistence interfaces the services depend on.
// Implementations live in mongostore and sqlstore.
package store

import (
	"context"
	"errors"

	"missingpersons-be/models"
)

//go:generate mockgen -source=store.go -destination=mocks/store_mock.go -package=mocks

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate")
	// ErrConflict means the record exists but is no longer in the state the
	// write was conditioned on.
	ErrConflict = errors.New("conflict")
)

// Filter narrows ListCases on the storage side. Empty fields match anything.
type Filter struct {
	Status string
	Region string
}

type CaseStore interface {
	ListCases(ctx context.Context, f Filter) ([]models.Case, error)
	GetCase(ctx context.Context, id string) (*models.Case, error)
	CreateCase(ctx context.Context, c *models.Case) error
	UpdateCase(ctx context.Context, c *models.Case) error
	DeleteCase(ctx context.Context, id string) error
	AddSighting(ctx context.Context, caseID string, s models.CaseSighting) error
	SetSightingStatus(ctx context.Context, caseID, sightingID string, status models.VerificationStatus) error
}

type SightingStore interface {
	CreateReport(ctx context.Context, r *models.SightingReport) error
	// ListReports returns reports newest first; an empty caseID lists all.
	ListReports(ctx context.Context, caseID string) ([]models.SightingReport, error)
	GetReport(ctx context.Context, id string) (*models.SightingReport, error)
	// UpdateReportStatus only changes a pending report. A report that has
	// already left pending yields ErrConflict.
	UpdateReportStatus(ctx context.Context, id string, status models.VerificationStatus) error
	DeleteReport(ctx context.Context, id string) error
}

type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// Store bundles the three stores a backend provides.
type Store interface {
	CaseStore
	SightingStore
	UserStore
	Close(ctx context.Context) error
}

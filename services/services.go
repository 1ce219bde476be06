// Package services holds the business rules that sit between the HTTP
// controllers and the store backends.
package services

import (
	"errors"
	"fmt"
	"time"

	"missingpersons-be/models"
	"missingpersons-be/store"
)

var (
	ErrCaseNotFound       = errors.New("case not found")
	ErrReportNotFound     = errors.New("report not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrEmailTaken         = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Clock returns the current time; tests replace it to pin "today".
type Clock func() time.Time

func today(now Clock) string {
	return models.FormatDate(now())
}

func invalid(err error) error {
	return fmt.Errorf("%w: %v", ErrInvalidInput, err)
}

// mapNotFound swaps store.ErrNotFound for the service's own sentinel.
func mapNotFound(err error, sentinel error) error {
	if errors.Is(err, store.ErrNotFound) {
		return sentinel
	}
	return err
}

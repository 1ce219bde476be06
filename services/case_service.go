package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"missingpersons-be/models"
	"missingpersons-be/query"
	"missingpersons-be/store"
	"missingpersons-be/utils"
)

type CaseService struct {
	Store store.CaseStore
	Log   *zap.Logger
	Now   Clock
}

func NewCaseService(cs store.CaseStore, logger *zap.Logger) *CaseService {
	return &CaseService{Store: cs, Log: logger, Now: time.Now}
}

// CasePatch carries a partial update; nil fields are left unchanged.
type CasePatch struct {
	Name             *string
	Age              *int
	ClearAge         bool
	Gender           *models.Gender
	Description      *string
	LastSeenDate     *string
	LastSeenLocation *string
	Country          *string
	State            *string
	City             *string
	Status           *models.CaseStatus
	PhotoURL         *string
	Region           *models.Region
	Coordinates      *models.Coordinates
	FoundLocation    *string
	Contact          *models.Contact
}

func sanitizeCase(c *models.Case) {
	c.Name = utils.SanitizeText(c.Name)
	c.Description = utils.SanitizeText(c.Description)
	c.LastSeenLocation = utils.SanitizeText(c.LastSeenLocation)
	c.Country = utils.SanitizeText(c.Country)
	c.State = utils.SanitizeText(c.State)
	c.City = utils.SanitizeText(c.City)
	c.FoundLocation = utils.SanitizeText(c.FoundLocation)
	if c.Contact != nil {
		c.Contact.Name = utils.SanitizeText(c.Contact.Name)
		c.Contact.Phone = utils.SanitizeText(c.Contact.Phone)
	}
}

func checkCase(c *models.Case) error {
	if c.Name == "" {
		return invalid(fmt.Errorf("name is required"))
	}
	if c.LastSeenDate != "" {
		if _, ok := models.ParseDate(c.LastSeenDate); !ok {
			return invalid(fmt.Errorf("lastSeenDate %q is not a date", c.LastSeenDate))
		}
	}
	if c.Region != "" && !c.Region.IsValid() {
		return invalid(fmt.Errorf("unknown region %q", c.Region))
	}
	if err := models.Validate(c); err != nil {
		return invalid(err)
	}
	return nil
}

// Submit files a new case. Status defaults to missing and the report date
// to today; ID, timestamps and sightings are always server-assigned.
func (s *CaseService) Submit(ctx context.Context, c *models.Case) error {
	c.ID = ""
	c.Sightings = nil
	sanitizeCase(c)
	if c.Status == "" {
		c.Status = models.Missing
	}
	if c.Gender == "" {
		c.Gender = models.UnknownGender
	}
	if c.ReportDate == "" {
		c.ReportDate = today(s.Now)
	}
	if c.Status == models.Found {
		if c.FoundDate == "" {
			c.FoundDate = today(s.Now)
		}
		if c.FoundLocation == "" {
			c.FoundLocation = c.LastSeenLocation
		}
	}
	if err := checkCase(c); err != nil {
		return err
	}

	if err := s.Store.CreateCase(ctx, c); err != nil {
		return fmt.Errorf("submit case: %w", err)
	}
	s.Log.Info("case submitted", zap.String("id", c.ID), zap.String("region", string(c.Region)))
	return nil
}

func (s *CaseService) Get(ctx context.Context, id string) (*models.Case, error) {
	c, err := s.Store.GetCase(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, ErrCaseNotFound)
	}
	return c, nil
}

// Search pushes the status and region predicates down to the store and
// runs the full query in memory.
func (s *CaseService) Search(ctx context.Context, spec query.Spec) ([]models.Case, error) {
	cases, err := s.Store.ListCases(ctx, store.Filter{
		Status: spec.StatusFilter(),
		Region: spec.RegionFilter(),
	})
	if err != nil {
		return nil, fmt.Errorf("search cases: %w", err)
	}
	return query.Search(cases, spec), nil
}

// All returns every stored case, for the analytics views.
func (s *CaseService) All(ctx context.Context) ([]models.Case, error) {
	cases, err := s.Store.ListCases(ctx, store.Filter{})
	if err != nil {
		return nil, fmt.Errorf("list cases: %w", err)
	}
	return cases, nil
}

// Update applies patch to the case. A status change follows the same rules
// as ToggleStatus.
func (s *CaseService) Update(ctx context.Context, id string, patch CasePatch) (*models.Case, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	setString(&c.Name, patch.Name)
	setString(&c.Description, patch.Description)
	setString(&c.LastSeenDate, patch.LastSeenDate)
	setString(&c.LastSeenLocation, patch.LastSeenLocation)
	setString(&c.Country, patch.Country)
	setString(&c.State, patch.State)
	setString(&c.City, patch.City)
	setString(&c.PhotoURL, patch.PhotoURL)
	if patch.ClearAge {
		c.Age = nil
	} else if patch.Age != nil {
		c.Age = models.IntPtr(*patch.Age)
	}
	if patch.Gender != nil {
		c.Gender = *patch.Gender
	}
	if patch.Region != nil {
		c.Region = *patch.Region
	}
	if patch.Coordinates != nil {
		c.Coordinates = *patch.Coordinates
	}
	if patch.Contact != nil {
		contact := *patch.Contact
		c.Contact = &contact
	}
	if patch.Status != nil && *patch.Status != c.Status {
		if !patch.Status.IsValid() {
			return nil, invalid(fmt.Errorf("unknown status %q", *patch.Status))
		}
		s.setStatus(c, *patch.Status, deref(patch.FoundLocation))
	} else if patch.FoundLocation != nil {
		c.FoundLocation = *patch.FoundLocation
	}

	sanitizeCase(c)
	if err := checkCase(c); err != nil {
		return nil, err
	}
	if err := s.Store.UpdateCase(ctx, c); err != nil {
		return nil, mapNotFound(err, ErrCaseNotFound)
	}
	return c, nil
}

// ToggleStatus flips a case between missing and found. Marking a case found
// stamps today's date and the found location (defaulting to the last-seen
// location). Reopening a case keeps the previous found date and location.
func (s *CaseService) ToggleStatus(ctx context.Context, id, foundLocation string) (*models.Case, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	next := models.Found
	if c.Status == models.Found {
		next = models.Missing
	}
	s.setStatus(c, next, utils.SanitizeText(foundLocation))

	if err := s.Store.UpdateCase(ctx, c); err != nil {
		return nil, mapNotFound(err, ErrCaseNotFound)
	}
	s.Log.Info("case status changed", zap.String("id", c.ID), zap.String("status", string(c.Status)))
	return c, nil
}

func (s *CaseService) setStatus(c *models.Case, status models.CaseStatus, foundLocation string) {
	c.Status = status
	if status != models.Found {
		return
	}
	c.FoundDate = today(s.Now)
	c.FoundLocation = foundLocation
	if c.FoundLocation == "" {
		c.FoundLocation = c.LastSeenLocation
	}
}

func (s *CaseService) Delete(ctx context.Context, id string) error {
	if err := s.Store.DeleteCase(ctx, id); err != nil {
		return mapNotFound(err, ErrCaseNotFound)
	}
	s.Log.Info("case deleted", zap.String("id", id))
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

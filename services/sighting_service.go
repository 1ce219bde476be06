package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"missingpersons-be/models"
	"missingpersons-be/store"
	"missingpersons-be/utils"
)

type SightingService struct {
	Cases   store.CaseStore
	Reports store.SightingStore
	Log     *zap.Logger
	Now     Clock
}

func NewSightingService(cs store.CaseStore, ss store.SightingStore, logger *zap.Logger) *SightingService {
	return &SightingService{Cases: cs, Reports: ss, Log: logger, Now: time.Now}
}

// Submit records a sighting report against an existing case and appends a
// pending summary to the case's sighting list.
func (s *SightingService) Submit(ctx context.Context, r *models.SightingReport) error {
	r.ID = ""
	r.Status = models.Pending
	r.ReporterName = utils.SanitizeText(r.ReporterName)
	r.ReporterContact = utils.SanitizeText(r.ReporterContact)
	r.Location = utils.SanitizeText(r.Location)
	r.Description = utils.SanitizeText(r.Description)

	if r.CaseID == "" || r.ReporterName == "" || r.Location == "" {
		return invalid(fmt.Errorf("personId, reporterName and location are required"))
	}
	if r.SightingDate == "" {
		r.SightingDate = today(s.Now)
	} else if _, ok := models.ParseDate(r.SightingDate); !ok {
		return invalid(fmt.Errorf("sightingDate %q is not a date", r.SightingDate))
	}
	if r.Coordinates != nil {
		if err := models.Validate(r.Coordinates); err != nil {
			return invalid(err)
		}
	}

	if _, err := s.Cases.GetCase(ctx, r.CaseID); err != nil {
		return mapNotFound(err, ErrCaseNotFound)
	}
	if err := s.Reports.CreateReport(ctx, r); err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := s.Cases.AddSighting(ctx, r.CaseID, r.Summary()); err != nil {
		// Drop the report so it does not outlive its case.
		if derr := s.Reports.DeleteReport(ctx, r.ID); derr != nil {
			s.Log.Error("could not remove report after failed case update",
				zap.String("report", r.ID), zap.String("case", r.CaseID), zap.Error(derr))
		}
		r.ID = ""
		return mapNotFound(err, ErrCaseNotFound)
	}

	s.Log.Info("sighting reported",
		zap.String("report", r.ID),
		zap.String("case", r.CaseID),
		zap.Bool("foundPerson", r.FoundPerson))
	return nil
}

// List returns the reports for one case, or all reports when caseID is empty.
func (s *SightingService) List(ctx context.Context, caseID string) ([]models.SightingReport, error) {
	if caseID != "" {
		if _, err := s.Cases.GetCase(ctx, caseID); err != nil {
			return nil, mapNotFound(err, ErrCaseNotFound)
		}
	}
	reports, err := s.Reports.ListReports(ctx, caseID)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return reports, nil
}

// UpdateStatus moves a pending report to verified or false. Both are final.
// A verified report that says the person was found also resolves the case.
func (s *SightingService) UpdateStatus(ctx context.Context, id string, status models.VerificationStatus) (*models.SightingReport, error) {
	if !status.IsTerminal() {
		return nil, invalid(fmt.Errorf("status must be verified or false, got %q", status))
	}

	r, err := s.Reports.GetReport(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, ErrReportNotFound)
	}
	if r.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: report is already %s", ErrInvalidTransition, r.Status)
	}

	if err := s.Reports.UpdateReportStatus(ctx, id, status); err != nil {
		if errors.Is(err, store.ErrConflict) {
			// Another update finalised the report after it was read.
			return nil, fmt.Errorf("%w: report is no longer pending", ErrInvalidTransition)
		}
		return nil, mapNotFound(err, ErrReportNotFound)
	}
	r.Status = status

	if err := s.Cases.SetSightingStatus(ctx, r.CaseID, r.ID, status); err != nil {
		// The case may have been deleted since; the report itself is updated.
		s.Log.Warn("could not mirror sighting status onto case",
			zap.String("case", r.CaseID), zap.String("report", r.ID), zap.Error(err))
	}

	if status == models.Verified && r.FoundPerson {
		if err := s.resolveCase(ctx, r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (s *SightingService) resolveCase(ctx context.Context, r *models.SightingReport) error {
	c, err := s.Cases.GetCase(ctx, r.CaseID)
	if err != nil {
		return mapNotFound(err, ErrCaseNotFound)
	}
	if c.Status == models.Found {
		return nil
	}
	c.Status = models.Found
	c.FoundDate = today(s.Now)
	c.FoundLocation = r.Location
	if err := s.Cases.UpdateCase(ctx, c); err != nil {
		return mapNotFound(err, ErrCaseNotFound)
	}
	s.Log.Info("case resolved by verified sighting", zap.String("case", c.ID), zap.String("report", r.ID))
	return nil
}

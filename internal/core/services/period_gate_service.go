package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fingrid-labs/gl_core/internal/apperrors"
	"github.com/fingrid-labs/gl_core/internal/core/domain"
	portsrepo "github.com/fingrid-labs/gl_core/internal/core/ports/repositories"
	portssvc "github.com/fingrid-labs/gl_core/internal/core/ports/services"
	"github.com/fingrid-labs/gl_core/internal/platform/logging"
)

// periodService answers period-gate questions from the accounting periods
// maintained by the period-management system. It never writes period data.
type periodService struct {
	periodRepo portsrepo.PeriodRepository
}

// NewPeriodService creates a new period service.
func NewPeriodService(periodRepo portsrepo.PeriodRepository) portssvc.PeriodSvcFacade {
	return &periodService{periodRepo: periodRepo}
}

// Ensure periodService implements the portssvc.PeriodSvcFacade interface
var _ portssvc.PeriodSvcFacade = (*periodService)(nil)

// IsOpen reports whether the accounting period covering the date permits posting.
// A date that no period covers at all is a hard failure, never a silent allow.
func (s *periodService) IsOpen(ctx context.Context, date time.Time) (bool, error) {
	logger := logging.FromContext(ctx)

	period, err := s.periodRepo.FindPeriodForDate(ctx, date)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("No accounting period covers date", slog.String("date", date.Format("2006-01-02")))
			return false, fmt.Errorf("%w: %s", apperrors.ErrNoOpenPeriod, date.Format("2006-01-02"))
		}
		logger.Error("Failed to look up accounting period", slog.String("error", err.Error()), slog.String("date", date.Format("2006-01-02")))
		return false, fmt.Errorf("failed to look up accounting period: %w", err)
	}

	return period.IsOpen, nil
}

// GetPeriodForDate retrieves the period covering the given date.
func (s *periodService) GetPeriodForDate(ctx context.Context, date time.Time) (*domain.AccountingPeriod, error) {
	period, err := s.periodRepo.FindPeriodForDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to find period for date %s: %w", date.Format("2006-01-02"), err)
	}
	return period, nil
}

// ListPeriods retrieves all known periods ordered by start date.
func (s *periodService) ListPeriods(ctx context.Context) ([]domain.AccountingPeriod, error) {
	periods, err := s.periodRepo.ListPeriods(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounting periods: %w", err)
	}
	return periods, nil
}

package repositories

import (
	"context"
	"time"

	"github.com/fingrid-labs/gl_core/internal/core/domain"
)

// PeriodReader defines read operations for accounting period data. Periods are
// maintained by the period-management system; this module only consults them.
type PeriodReader interface {
	// FindPeriodForDate retrieves the period whose date range covers the given
	// date, or ErrNotFound when no period covers it.
	FindPeriodForDate(ctx context.Context, date time.Time) (*domain.AccountingPeriod, error)

	// ListPeriods retrieves all known periods ordered by start date.
	ListPeriods(ctx context.Context) ([]domain.AccountingPeriod, error)
}

// PeriodRepository is the facade for period data access.
type PeriodRepository interface {
	PeriodReader
}

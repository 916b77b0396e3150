package services

import (
	"context"
	"time"

	"github.com/fingrid-labs/gl_core/internal/core/domain"
)

// PeriodGateSvc answers whether general ledger activity is allowed on a date.
// The entry service consults it before creating, re-dating or posting entries.
type PeriodGateSvc interface {
	// IsOpen reports whether the accounting period covering the date permits
	// posting. A date no period covers is a hard error (ErrNoOpenPeriod),
	// never a silent allow.
	IsOpen(ctx context.Context, date time.Time) (bool, error)
}

// PeriodReaderSvc defines read operations for accounting periods
type PeriodReaderSvc interface {
	// GetPeriodForDate retrieves the period covering the given date.
	GetPeriodForDate(ctx context.Context, date time.Time) (*domain.AccountingPeriod, error)

	// ListPeriods retrieves all known periods ordered by start date.
	ListPeriods(ctx context.Context) ([]domain.AccountingPeriod, error)
}

// PeriodSvcFacade combines the period gate with period reads
type PeriodSvcFacade interface {
	PeriodGateSvc
	PeriodReaderSvc
}

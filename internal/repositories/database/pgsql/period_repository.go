package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/fingrid-labs/gl_core/internal/apperrors"
	"github.com/fingrid-labs/gl_core/internal/core/domain"
	portsrepo "github.com/fingrid-labs/gl_core/internal/core/ports/repositories"
	"github.com/fingrid-labs/gl_core/internal/models"
	"github.com/fingrid-labs/gl_core/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxPeriodRepository reads the accounting_periods table. The table is owned
// and maintained by the period-management system; this module never writes it.
type PgxPeriodRepository struct {
	BaseRepository
}

// newPgxPeriodRepository creates a new read-only repository for period data.
func newPgxPeriodRepository(pool *pgxpool.Pool) portsrepo.PeriodRepository {
	return &PgxPeriodRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxPeriodRepository implements portsrepo.PeriodRepository
var _ portsrepo.PeriodRepository = (*PgxPeriodRepository)(nil)

// FindPeriodForDate retrieves the period whose date range covers the given date.
func (r *PgxPeriodRepository) FindPeriodForDate(ctx context.Context, date time.Time) (*domain.AccountingPeriod, error) {
	query := `
		SELECT period_id, name, start_date, end_date, is_open
		FROM accounting_periods
		WHERE start_date <= $1::date AND end_date >= $1::date
		ORDER BY start_date
		LIMIT 1;
	`
	var modelPeriod models.AccountingPeriod
	err := r.Pool.QueryRow(ctx, query, date).Scan(
		&modelPeriod.PeriodID,
		&modelPeriod.Name,
		&modelPeriod.StartDate,
		&modelPeriod.EndDate,
		&modelPeriod.IsOpen,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find period for date "+date.Format("2006-01-02"), err)
	}

	domainPeriod := mapping.ToDomainAccountingPeriod(modelPeriod)
	return &domainPeriod, nil
}

// ListPeriods retrieves all known periods ordered by start date.
func (r *PgxPeriodRepository) ListPeriods(ctx context.Context) ([]domain.AccountingPeriod, error) {
	query := `
		SELECT period_id, name, start_date, end_date, is_open
		FROM accounting_periods
		ORDER BY start_date;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query accounting periods", err)
	}
	defer rows.Close()

	periods := []domain.AccountingPeriod{}
	for rows.Next() {
		var modelPeriod models.AccountingPeriod
		err := rows.Scan(
			&modelPeriod.PeriodID,
			&modelPeriod.Name,
			&modelPeriod.StartDate,
			&modelPeriod.EndDate,
			&modelPeriod.IsOpen,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan accounting period row", err)
		}
		periods = append(periods, mapping.ToDomainAccountingPeriod(modelPeriod))
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating accounting period rows", err)
	}

	return periods, nil
}

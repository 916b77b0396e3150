package pgsql

import (
	portsrepo "github.com/fingrid-labs/gl_core/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	segmentTypeRepo := newPgxSegmentTypeRepository(dbPool)
	segmentValueRepo := newPgxSegmentValueRepository(dbPool)
	combinationRepo := newPgxCombinationRepository(dbPool)
	entryRepo := newPgxEntryRepository(dbPool)
	periodRepo := newPgxPeriodRepository(dbPool)

	return portsrepo.RepositoryProvider{
		SegmentTypeRepo:  segmentTypeRepo,
		SegmentValueRepo: segmentValueRepo,
		CombinationRepo:  combinationRepo,
		EntryRepo:        entryRepo,
		PeriodRepo:       periodRepo,
	}
}

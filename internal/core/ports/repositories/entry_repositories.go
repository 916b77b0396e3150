package repositories

import (
	"context"
	"time"

	"github.com/fingrid-labs/gl_core/internal/core/domain"
)

// EntryReader defines read operations for journal entry data
type EntryReader interface {
	// FindEntryByID retrieves a specific journal entry by its unique identifier.
	// Lines are fetched separately through LineReader.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// FindEntriesByCombinationIDs retrieves the distinct entries that have at
	// least one line posting to any of the given combinations, newest first.
	FindEntriesByCombinationIDs(ctx context.Context, combinationIDs []string) ([]domain.JournalEntry, error)
}

// LineReader defines read operations for journal line data
type LineReader interface {
	// FindLineByID retrieves a specific journal line by its unique identifier.
	FindLineByID(ctx context.Context, lineID string) (*domain.JournalLine, error)

	// FindLinesByEntryID retrieves all lines of a single entry.
	FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error)

	// FindLinesByEntryIDs retrieves lines for multiple entries, grouped by entry ID.
	FindLinesByEntryIDs(ctx context.Context, entryIDs []string) (map[string][]domain.JournalLine, error)
}

// EntryWriter defines write operations for journal entry data
type EntryWriter interface {
	// SaveEntry persists a new draft entry and its lines within a transaction.
	SaveEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine) error

	// UpdateEntryWithLines updates a draft entry's header, upserts the given
	// lines and deletes the named ones, all within one transaction. The entry
	// row is locked and the posted flag re-checked before writing; a posted
	// entry is reported as ErrConflict.
	UpdateEntryWithLines(ctx context.Context, entry domain.JournalEntry, linesToUpsert []domain.JournalLine, lineIDsToDelete []string) error

	// PostEntry flips the entry's posted flag and persists the ledger record
	// within one transaction. Posting is guarded by posted = FALSE; an entry
	// already posted is reported as ErrConflict.
	PostEntry(ctx context.Context, entryID string, record domain.GeneralLedgerRecord, updatedBy string, updatedAt time.Time) error

	// DeleteEntry removes a draft entry and its lines. A posted entry is
	// reported as ErrConflict.
	DeleteEntry(ctx context.Context, entryID string) error
}

// LedgerRecordReader defines read operations for general ledger records
type LedgerRecordReader interface {
	// FindLedgerRecordByEntryID retrieves the ledger record created when the entry posted.
	FindLedgerRecordByEntryID(ctx context.Context, entryID string) (*domain.GeneralLedgerRecord, error)

	// FindLedgerRecordsByCombinationIDs retrieves the records of posted entries
	// that have at least one line posting to any of the given combinations.
	FindLedgerRecordsByCombinationIDs(ctx context.Context, combinationIDs []string) ([]domain.GeneralLedgerRecord, error)
}

// EntryRepositoryFacade combines all entry-related repository interfaces
// This is a facade for clients that need access to all operations
type EntryRepositoryFacade interface {
	EntryReader
	LineReader
	EntryWriter
	LedgerRecordReader
}

// EntryRepositoryWithTx extends EntryRepositoryFacade with transaction capabilities
type EntryRepositoryWithTx interface {
	EntryRepositoryFacade
	TransactionManager
}

package services

import (
	"context"

	"github.com/fingrid-labs/gl_core/internal/core/domain"
	"github.com/fingrid-labs/gl_core/internal/dto"
	"github.com/shopspring/decimal"
)

// EntryReaderSvc defines read operations for journal entries
type EntryReaderSvc interface {
	// GetEntryByID retrieves a specific journal entry with its lines.
	GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// FilterEntries retrieves the entries whose lines post to segment values
	// matching the filter.
	FilterEntries(ctx context.Context, filter dto.SegmentFilter) ([]domain.JournalEntry, error)
}

// EntryWriterSvc defines write operations for journal entries
type EntryWriterSvc interface {
	// CreateEntry persists a new draft entry with its lines. Segment sets on
	// lines are resolved to combinations; the entry date must fall in an open period.
	CreateEntry(ctx context.Context, req dto.CreateEntryRequest, creatorUserID string) (*domain.JournalEntry, error)

	// UpdateEntry rewrites a draft entry: lines with a known id are updated,
	// lines without an id are created, and existing lines absent from the
	// request are deleted. Posted entries are reported as ErrConflict.
	UpdateEntry(ctx context.Context, entryID string, req dto.UpdateEntryRequest, updaterUserID string) (*domain.JournalEntry, error)

	// AddLine appends one line to a draft entry.
	AddLine(ctx context.Context, entryID string, line dto.EntryLineRequest, updaterUserID string) (*domain.JournalLine, error)

	// UpdateLine rewrites one line of a draft entry.
	UpdateLine(ctx context.Context, entryID string, lineID string, line dto.EntryLineRequest, updaterUserID string) (*domain.JournalLine, error)

	// RemoveLine deletes one line from a draft entry.
	RemoveLine(ctx context.Context, entryID string, lineID string, updaterUserID string) error

	// PostEntry validates balance and period, flips the entry to posted and
	// creates its single general ledger record. A posted entry can never be
	// modified again; posting twice is reported as ErrConflict.
	PostEntry(ctx context.Context, entryID string, posterUserID string) (*domain.GeneralLedgerRecord, error)

	// DeleteEntry removes a draft entry outright. Posted entries are reported
	// as ErrConflict; reversal is the way to undo them.
	DeleteEntry(ctx context.Context, entryID string) error

	// CreateReversal builds a new draft entry mirroring the posted entry's
	// lines with debit and credit swapped, linked back to the original.
	CreateReversal(ctx context.Context, entryID string, creatorUserID string) (*domain.JournalEntry, error)
}

// EntryCalculatorSvc defines balance calculations over an entry's lines
type EntryCalculatorSvc interface {
	// TotalDebit sums the entry's debit lines.
	TotalDebit(ctx context.Context, entryID string) (decimal.Decimal, error)

	// TotalCredit sums the entry's credit lines.
	TotalCredit(ctx context.Context, entryID string) (decimal.Decimal, error)

	// BalanceDifference returns total debit minus total credit, exact.
	BalanceDifference(ctx context.Context, entryID string) (decimal.Decimal, error)

	// IsBalanced reports whether total debit equals total credit.
	IsBalanced(ctx context.Context, entryID string) (bool, error)

	// GetEntryBalance returns all balance figures of an entry in one call.
	GetEntryBalance(ctx context.Context, entryID string) (*dto.EntryBalanceResponse, error)
}

// LedgerRecordReaderSvc defines read operations for general ledger records
type LedgerRecordReaderSvc interface {
	// GetLedgerRecordByEntryID retrieves the record created when the entry posted.
	GetLedgerRecordByEntryID(ctx context.Context, entryID string) (*domain.GeneralLedgerRecord, error)

	// FilterLedgerRecords retrieves the records of posted entries whose lines
	// post to segment values matching the filter.
	FilterLedgerRecords(ctx context.Context, filter dto.SegmentFilter) ([]domain.GeneralLedgerRecord, error)
}

// EntrySvcFacade combines all entry-related service interfaces
// This is a facade for clients that need access to all operations
type EntrySvcFacade interface {
	EntryReaderSvc
	EntryWriterSvc
	EntryCalculatorSvc
	LedgerRecordReaderSvc
}

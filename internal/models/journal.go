package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineType indicates whether a journal line is a Debit or a Credit.
type LineType string

const (
	Debit  LineType = "DEBIT"
	Credit LineType = "CREDIT"
)

// JournalEntry is the persistence shape of a journal entry header.
type JournalEntry struct {
	EntryID           string    `json:"entryID" db:"entry_id"`
	EntryDate         time.Time `json:"entryDate" db:"entry_date"`
	CurrencyCode      string    `json:"currencyCode" db:"currency_code"`
	Memo              string    `json:"memo" db:"memo"`
	Posted            bool      `json:"posted" db:"posted"`
	ReversalOfEntryID *string   `json:"reversalOfEntryID" db:"reversal_of_entry_id"`
	AuditFields
}

// JournalLine is the persistence shape of a single debit/credit line.
type JournalLine struct {
	LineID        string          `json:"lineID" db:"line_id"`
	EntryID       string          `json:"entryID" db:"entry_id"`
	Amount        decimal.Decimal `json:"amount" db:"amount"`
	LineType      LineType        `json:"lineType" db:"line_type"`
	CombinationID string          `json:"combinationID" db:"combination_id"`
	Memo          string          `json:"memo" db:"memo"`
	AuditFields
}

// GeneralLedgerRecord is the persistence shape of the 1:1 posting record.
type GeneralLedgerRecord struct {
	GLRecordID    string    `json:"glRecordID" db:"gl_record_id"`
	EntryID       string    `json:"entryID" db:"entry_id"`
	SubmittedDate time.Time `json:"submittedDate" db:"submitted_date"`
	AuditFields
}

// AccountingPeriod mirrors the period authority's table; read-only here.
type AccountingPeriod struct {
	PeriodID  string    `json:"periodID" db:"period_id"`
	Name      string    `json:"name" db:"name"`
	StartDate time.Time `json:"startDate" db:"start_date"`
	EndDate   time.Time `json:"endDate" db:"end_date"`
	IsOpen    bool      `json:"isOpen" db:"is_open"`
}

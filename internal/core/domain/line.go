package domain

import "github.com/shopspring/decimal"

// LineType indicates whether a journal line is a Debit or a Credit.
type LineType string

const (
	Debit  LineType = "DEBIT"
	Credit LineType = "CREDIT"
)

// JournalLine is a single amount within an entry, booked against one interned
// combination. The referenced combination can never be deleted while any line
// points at it.
type JournalLine struct {
	LineID        string          `json:"lineID"`        // Primary Key (e.g., UUID)
	EntryID       string          `json:"entryID"`       // FK -> journal_entries.entry_id (NON-NULL)
	Amount        decimal.Decimal `json:"amount"`        // Non-negative; precise decimal type
	LineType      LineType        `json:"lineType"`      // DEBIT or CREDIT (NON-NULL)
	CombinationID string          `json:"combinationID"` // FK -> combinations.combination_id (NON-NULL)
	Memo          string          `json:"memo"`          // Nullable
	AuditFields
}

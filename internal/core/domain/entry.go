package domain

import "time"

// JournalEntry is a dated group of debit/credit lines. Entries start as
// drafts and make a single one-way transition to posted; a posted entry, its
// lines and the combinations they reference are permanently read-only.
type JournalEntry struct {
	EntryID           string    `json:"entryID"`           // Primary Key (e.g., UUID)
	EntryDate         time.Time `json:"entryDate"`         // Date the financial event occurred
	CurrencyCode      string    `json:"currencyCode"`      // ISO code; currency master data lives outside this core
	Memo              string    `json:"memo"`              // Nullable user description
	Posted            bool      `json:"posted"`            // false -> true only, via Post
	ReversalOfEntryID *string   `json:"reversalOfEntryID"` // Set when this entry was created to reverse another
	Lines             []JournalLine
	AuditFields
}

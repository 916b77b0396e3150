package domain

import "time"

// GeneralLedgerRecord marks a journal entry as part of the permanent ledger.
// Exactly one record exists per posted entry, created inside the same atomic
// unit that flips the entry's posted flag.
type GeneralLedgerRecord struct {
	GLRecordID    string    `json:"glRecordID"`    // Primary Key (e.g., UUID)
	EntryID       string    `json:"entryID"`       // FK -> journal_entries.entry_id, 1:1
	SubmittedDate time.Time `json:"submittedDate"` // Posting date (clock time of the successful Post)
	AuditFields
}

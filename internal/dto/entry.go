package dto

import (
	"time"

	"github.com/fingrid-labs/gl_core/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Entry status strings surfaced by the API layer. Internally an entry only
// carries the posted flag.
const (
	EntryStatusDraft  = "DRAFT"
	EntryStatusPosted = "POSTED"
)

// EntryLineRequest defines one line of a journal entry. Exactly one of
// CombinationID and Segments must be provided: either the caller already holds
// an interned combination id, or it supplies the segment set and the service
// resolves it.
type EntryLineRequest struct {
	LineID        *string         `json:"lineID"` // Set on update to address an existing line
	Amount        decimal.Decimal `json:"amount" validate:"required"`
	Type          domain.LineType `json:"type" validate:"required,oneof=DEBIT CREDIT"`
	CombinationID *string         `json:"combinationID" validate:"required_without=Segments,excluded_with=Segments"`
	Segments      []SegmentPair   `json:"segments" validate:"omitempty,min=1,dive"`
	Memo          string          `json:"memo"`
}

// Validate runs struct-level validation on a single line request.
func (r EntryLineRequest) Validate() error {
	return validateStruct(r)
}

// CreateEntryRequest defines the structure for creating a new journal entry.
type CreateEntryRequest struct {
	EntryDate    time.Time          `json:"entryDate" validate:"required"`
	CurrencyCode string             `json:"currencyCode" validate:"required,len=3"`
	Memo         string             `json:"memo"`
	Lines        []EntryLineRequest `json:"lines" validate:"required,min=2,dive"`
}

// Validate runs struct-level validation on the request.
func (r CreateEntryRequest) Validate() error {
	return validateStruct(r)
}

// UpdateEntryRequest replaces the mutable parts of a draft entry. Lines carry
// the full desired set: lines with a known id are updated, lines without an id
// are created, and existing lines whose ids are absent are deleted.
type UpdateEntryRequest struct {
	EntryDate    *time.Time         `json:"entryDate"`
	CurrencyCode *string            `json:"currencyCode" validate:"omitempty,len=3"`
	Memo         *string            `json:"memo"`
	Lines        []EntryLineRequest `json:"lines" validate:"omitempty,min=2,dive"`
}

// Validate runs struct-level validation on the request.
func (r UpdateEntryRequest) Validate() error {
	return validateStruct(r)
}

// EntryLineResponse defines the data returned for a single journal line.
type EntryLineResponse struct {
	LineID        string          `json:"lineID"`
	EntryID       string          `json:"entryID"`
	Amount        decimal.Decimal `json:"amount"`
	Type          domain.LineType `json:"type"`
	CombinationID string          `json:"combinationID"`
	Memo          string          `json:"memo"`
	CreatedAt     time.Time       `json:"createdAt"`
	CreatedBy     string          `json:"createdBy"`
	LastUpdatedAt time.Time       `json:"lastUpdatedAt"`
	LastUpdatedBy string          `json:"lastUpdatedBy"`
}

// EntryResponse defines the data returned for a journal entry.
type EntryResponse struct {
	EntryID           string              `json:"entryID"`
	EntryDate         time.Time           `json:"entryDate"`
	CurrencyCode      string              `json:"currencyCode"`
	Memo              string              `json:"memo"`
	Status            string              `json:"status"`
	ReversalOfEntryID string              `json:"reversalOfEntryID,omitempty"`
	Lines             []EntryLineResponse `json:"lines,omitempty"`
	CreatedAt         time.Time           `json:"createdAt"`
	CreatedBy         string              `json:"createdBy"`
	LastUpdatedAt     time.Time           `json:"lastUpdatedAt"`
	LastUpdatedBy     string              `json:"lastUpdatedBy"`
}

// ToEntryLineResponse converts a domain.JournalLine to EntryLineResponse DTO
func ToEntryLineResponse(l *domain.JournalLine) EntryLineResponse {
	return EntryLineResponse{
		LineID:        l.LineID,
		EntryID:       l.EntryID,
		Amount:        l.Amount,
		Type:          l.LineType,
		CombinationID: l.CombinationID,
		Memo:          l.Memo,
		CreatedAt:     l.CreatedAt,
		CreatedBy:     l.CreatedBy,
		LastUpdatedAt: l.LastUpdatedAt,
		LastUpdatedBy: l.LastUpdatedBy,
	}
}

// ToEntryResponse converts a domain.JournalEntry to EntryResponse DTO
func ToEntryResponse(e *domain.JournalEntry) EntryResponse {
	status := EntryStatusDraft
	if e.Posted {
		status = EntryStatusPosted
	}
	reversalOf := ""
	if e.ReversalOfEntryID != nil {
		reversalOf = *e.ReversalOfEntryID
	}
	lines := make([]EntryLineResponse, len(e.Lines))
	for i, l := range e.Lines {
		lines[i] = ToEntryLineResponse(&l)
	}
	return EntryResponse{
		EntryID:           e.EntryID,
		EntryDate:         e.EntryDate,
		CurrencyCode:      e.CurrencyCode,
		Memo:              e.Memo,
		Status:            status,
		ReversalOfEntryID: reversalOf,
		Lines:             lines,
		CreatedAt:         e.CreatedAt,
		CreatedBy:         e.CreatedBy,
		LastUpdatedAt:     e.LastUpdatedAt,
		LastUpdatedBy:     e.LastUpdatedBy,
	}
}

// ToListEntryResponse converts a slice of domain.JournalEntry to response DTOs
func ToListEntryResponse(entries []domain.JournalEntry) []EntryResponse {
	res := make([]EntryResponse, len(entries))
	for i, e := range entries {
		res[i] = ToEntryResponse(&e)
	}
	return res
}

// EntryBalanceResponse reports the debit/credit totals of an entry.
type EntryBalanceResponse struct {
	EntryID     string          `json:"entryID"`
	TotalDebit  decimal.Decimal `json:"totalDebit"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
	Difference  decimal.Decimal `json:"difference"` // debit minus credit
	IsBalanced  bool            `json:"isBalanced"`
}

// PostEntryResponse reports the outcome of posting an entry.
type PostEntryResponse struct {
	JournalEntryID  string    `json:"journalEntryID"`
	GeneralLedgerID string    `json:"generalLedgerID"`
	SubmittedDate   time.Time `json:"submittedDate"`
}

// ToPostEntryResponse converts the ledger record created by a post to PostEntryResponse DTO
func ToPostEntryResponse(r *domain.GeneralLedgerRecord) PostEntryResponse {
	return PostEntryResponse{
		JournalEntryID:  r.EntryID,
		GeneralLedgerID: r.GLRecordID,
		SubmittedDate:   r.SubmittedDate,
	}
}

// LedgerRecordResponse defines the data returned for a general ledger record.
type LedgerRecordResponse struct {
	GLRecordID    string    `json:"glRecordID"`
	EntryID       string    `json:"entryID"`
	SubmittedDate time.Time `json:"submittedDate"`
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
}

// ToLedgerRecordResponse converts a domain.GeneralLedgerRecord to LedgerRecordResponse DTO
func ToLedgerRecordResponse(r *domain.GeneralLedgerRecord) LedgerRecordResponse {
	return LedgerRecordResponse{
		GLRecordID:    r.GLRecordID,
		EntryID:       r.EntryID,
		SubmittedDate: r.SubmittedDate,
		CreatedAt:     r.CreatedAt,
		CreatedBy:     r.CreatedBy,
	}
}

// ToListLedgerRecordResponse converts a slice of domain.GeneralLedgerRecord to response DTOs
func ToListLedgerRecordResponse(records []domain.GeneralLedgerRecord) []LedgerRecordResponse {
	res := make([]LedgerRecordResponse, len(records))
	for i, r := range records {
		res[i] = ToLedgerRecordResponse(&r)
	}
	return res
}

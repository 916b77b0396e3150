package mapping

import (
	"github.com/fingrid-labs/gl_core/internal/core/domain"
	"github.com/fingrid-labs/gl_core/internal/models"
)

// ToModelJournalEntry converts a domain.JournalEntry to models.JournalEntry
func ToModelJournalEntry(e domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		EntryID:           e.EntryID,
		EntryDate:         e.EntryDate,
		CurrencyCode:      e.CurrencyCode,
		Memo:              e.Memo,
		Posted:            e.Posted,
		ReversalOfEntryID: e.ReversalOfEntryID,
		AuditFields:       ToModelAuditFields(e.AuditFields),
	}
}

// ToDomainJournalEntry converts a models.JournalEntry to domain.JournalEntry.
// Lines are attached separately by the caller when the read includes them.
func ToDomainJournalEntry(e models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:           e.EntryID,
		EntryDate:         e.EntryDate,
		CurrencyCode:      e.CurrencyCode,
		Memo:              e.Memo,
		Posted:            e.Posted,
		ReversalOfEntryID: e.ReversalOfEntryID,
		AuditFields:       ToDomainAuditFields(e.AuditFields),
	}
}

// ToModelJournalLine converts a domain.JournalLine to models.JournalLine
func ToModelJournalLine(l domain.JournalLine) models.JournalLine {
	return models.JournalLine{
		LineID:        l.LineID,
		EntryID:       l.EntryID,
		Amount:        l.Amount,
		LineType:      models.LineType(l.LineType),
		CombinationID: l.CombinationID,
		Memo:          l.Memo,
		AuditFields:   ToModelAuditFields(l.AuditFields),
	}
}

// ToDomainJournalLine converts a models.JournalLine to domain.JournalLine
func ToDomainJournalLine(l models.JournalLine) domain.JournalLine {
	return domain.JournalLine{
		LineID:        l.LineID,
		EntryID:       l.EntryID,
		Amount:        l.Amount,
		LineType:      domain.LineType(l.LineType),
		CombinationID: l.CombinationID,
		Memo:          l.Memo,
		AuditFields:   ToDomainAuditFields(l.AuditFields),
	}
}

// ToModelJournalLineSlice converts a slice of domain.JournalLine to models
func ToModelJournalLineSlice(lines []domain.JournalLine) []models.JournalLine {
	if lines == nil {
		return nil
	}
	out := make([]models.JournalLine, len(lines))
	for i, l := range lines {
		out[i] = ToModelJournalLine(l)
	}
	return out
}

// ToDomainJournalLineSlice converts a slice of models.JournalLine to domain
func ToDomainJournalLineSlice(lines []models.JournalLine) []domain.JournalLine {
	if lines == nil {
		return nil
	}
	out := make([]domain.JournalLine, len(lines))
	for i, l := range lines {
		out[i] = ToDomainJournalLine(l)
	}
	return out
}

// ToModelGeneralLedgerRecord converts a domain.GeneralLedgerRecord to models.GeneralLedgerRecord
func ToModelGeneralLedgerRecord(r domain.GeneralLedgerRecord) models.GeneralLedgerRecord {
	return models.GeneralLedgerRecord{
		GLRecordID:    r.GLRecordID,
		EntryID:       r.EntryID,
		SubmittedDate: r.SubmittedDate,
		AuditFields:   ToModelAuditFields(r.AuditFields),
	}
}

// ToDomainGeneralLedgerRecord converts a models.GeneralLedgerRecord to domain.GeneralLedgerRecord
func ToDomainGeneralLedgerRecord(r models.GeneralLedgerRecord) domain.GeneralLedgerRecord {
	return domain.GeneralLedgerRecord{
		GLRecordID:    r.GLRecordID,
		EntryID:       r.EntryID,
		SubmittedDate: r.SubmittedDate,
		AuditFields:   ToDomainAuditFields(r.AuditFields),
	}
}

// ToDomainAccountingPeriod converts a models.AccountingPeriod to domain.AccountingPeriod
func ToDomainAccountingPeriod(p models.AccountingPeriod) domain.AccountingPeriod {
	return domain.AccountingPeriod{
		PeriodID:  p.PeriodID,
		Name:      p.Name,
		StartDate: p.StartDate,
		EndDate:   p.EndDate,
		IsOpen:    p.IsOpen,
	}
}

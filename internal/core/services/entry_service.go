package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fingrid-labs/gl_core/internal/apperrors"
	"github.com/fingrid-labs/gl_core/internal/core/domain"
	portsrepo "github.com/fingrid-labs/gl_core/internal/core/ports/repositories"
	portssvc "github.com/fingrid-labs/gl_core/internal/core/ports/services"
	"github.com/fingrid-labs/gl_core/internal/dto"
	"github.com/fingrid-labs/gl_core/internal/platform/clock"
	"github.com/fingrid-labs/gl_core/internal/platform/logging"
	"github.com/fingrid-labs/gl_core/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// entryService provides the journal entry engine: draft lifecycle, balance
// checks, posting and reversal. All mutating operations run through the
// repository in a single transaction so an entry and its lines never diverge.
type entryService struct {
	entryRepo      portsrepo.EntryRepositoryFacade
	combinationSvc portssvc.CombinationSvcFacade
	periodGate     portssvc.PeriodGateSvc
	clock          clock.Clock
}

// NewEntryService creates a new EntryService.
func NewEntryService(entryRepo portsrepo.EntryRepositoryFacade, combinationSvc portssvc.CombinationSvcFacade, periodGate portssvc.PeriodGateSvc, clk clock.Clock) portssvc.EntrySvcFacade {
	return &entryService{
		entryRepo:      entryRepo,
		combinationSvc: combinationSvc,
		periodGate:     periodGate,
		clock:          clk,
	}
}

// Ensure entryService implements the portssvc.EntrySvcFacade interface
var _ portssvc.EntrySvcFacade = (*entryService)(nil)

// checkPeriod consults the period gate for the given date and converts every
// refusal into a PeriodClosedError carrying the date and which check failed.
func (s *entryService) checkPeriod(ctx context.Context, date time.Time, scope apperrors.PeriodScope) error {
	logger := logging.FromContext(ctx)

	open, err := s.periodGate.IsOpen(ctx, date)
	if err != nil {
		if errors.Is(err, apperrors.ErrNoOpenPeriod) {
			return apperrors.NewPeriodClosedError(date, scope, apperrors.ErrNoOpenPeriod)
		}
		logger.Error("Period gate check failed", slog.String("error", err.Error()), slog.String("date", date.Format("2006-01-02")))
		return fmt.Errorf("period gate check failed: %w", err)
	}
	if !open {
		return apperrors.NewPeriodClosedError(date, scope, nil)
	}
	return nil
}

// resolveLineCombination turns a line request into a combination id: either the
// pre-resolved id the caller supplied (verified to exist) or the id interned
// for the supplied segment set.
func (s *entryService) resolveLineCombination(ctx context.Context, line dto.EntryLineRequest, userID string) (string, error) {
	if line.CombinationID != nil {
		combination, err := s.combinationSvc.GetCombinationByID(ctx, *line.CombinationID)
		if err != nil {
			return "", err
		}
		return combination.CombinationID, nil
	}
	return s.combinationSvc.ResolveCombination(ctx, dto.ResolveCombinationRequest{Segments: line.Segments}, userID)
}

// buildLine constructs a domain line from a request after resolving its combination.
func (s *entryService) buildLine(ctx context.Context, entryID string, req dto.EntryLineRequest, userID string, now time.Time) (domain.JournalLine, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return domain.JournalLine{}, fmt.Errorf("%w: line amount must be positive, got %s", apperrors.ErrValidation, req.Amount.String())
	}

	combinationID, err := s.resolveLineCombination(ctx, req, userID)
	if err != nil {
		return domain.JournalLine{}, err
	}

	return domain.JournalLine{
		LineID:        uuid.NewString(),
		EntryID:       entryID,
		Amount:        req.Amount,
		LineType:      req.Type,
		CombinationID: combinationID,
		Memo:          req.Memo,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}, nil
}

// CreateEntry persists a new draft entry with its lines. Drafts may be
// unbalanced; balance is enforced at posting time. The entry date must fall in
// an open accounting period.
// Implements portssvc.EntrySvcFacade
func (s *entryService) CreateEntry(ctx context.Context, req dto.CreateEntryRequest, creatorUserID string) (*domain.JournalEntry, error) {
	logger := logging.FromContext(ctx)

	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkPeriod(ctx, req.EntryDate, apperrors.ScopeEntryDate); err != nil {
		logger.Warn("Entry creation blocked by period gate", slog.String("error", err.Error()))
		return nil, err
	}

	now := s.clock.Now()
	entryID := uuid.NewString()

	lines := make([]domain.JournalLine, len(req.Lines))
	for i, lineReq := range req.Lines {
		line, err := s.buildLine(ctx, entryID, lineReq, creatorUserID, now)
		if err != nil {
			return nil, err
		}
		lines[i] = line
	}

	entry := domain.JournalEntry{
		EntryID:      entryID,
		EntryDate:    req.EntryDate,
		CurrencyCode: req.CurrencyCode,
		Memo:         req.Memo,
		Posted:       false,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.entryRepo.SaveEntry(ctx, entry, lines); err != nil {
		logger.Error("Failed to save journal entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to save journal entry: %w", err)
	}

	logger.Info("Journal entry created successfully", slog.String("entry_id", entryID), slog.Int("line_count", len(lines)))
	// Lines are fetched through GetEntryByID; the header is enough here.
	return &entry, nil
}

// loadDraft fetches an entry and rejects it when already posted. The posted
// flag is re-checked under a row lock inside the repository write, so this is
// only the fast path that spares losers the heavier work.
func (s *entryService) loadDraft(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.entryRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find journal entry %s: %w", entryID, err)
	}
	if entry.Posted {
		return nil, fmt.Errorf("%w: journal entry %s is posted and immutable", apperrors.ErrConflict, entryID)
	}
	return entry, nil
}

// UpdateEntry rewrites a draft entry: header fields from the request, and when
// lines are supplied, a full diff against the stored lines. Lines with a known
// id are updated, lines without an id are created, and stored lines whose ids
// are absent from the request are deleted.
// Implements portssvc.EntrySvcFacade
func (s *entryService) UpdateEntry(ctx context.Context, entryID string, req dto.UpdateEntryRequest, updaterUserID string) (*domain.JournalEntry, error) {
	logger := logging.FromContext(ctx)

	if err := req.Validate(); err != nil {
		return nil, err
	}

	entry, err := s.loadDraft(ctx, entryID)
	if err != nil {
		return nil, err
	}

	if req.EntryDate != nil && !req.EntryDate.Equal(entry.EntryDate) {
		if err := s.checkPeriod(ctx, *req.EntryDate, apperrors.ScopeEntryDate); err != nil {
			logger.Warn("Entry re-dating blocked by period gate", slog.String("entry_id", entryID), slog.String("error", err.Error()))
			return nil, err
		}
		entry.EntryDate = *req.EntryDate
	}
	if req.CurrencyCode != nil {
		entry.CurrencyCode = *req.CurrencyCode
	}
	if req.Memo != nil {
		entry.Memo = *req.Memo
	}

	now := s.clock.Now()
	var linesToUpsert []domain.JournalLine
	var lineIDsToDelete []string

	if req.Lines != nil {
		existing, err := s.entryRepo.FindLinesByEntryID(ctx, entryID)
		if err != nil {
			logger.Error("Failed to fetch lines for entry update", slog.String("error", err.Error()), slog.String("entry_id", entryID))
			return nil, fmt.Errorf("failed to fetch lines for entry %s: %w", entryID, err)
		}
		existingByID := make(map[string]domain.JournalLine, len(existing))
		for _, line := range existing {
			existingByID[line.LineID] = line
		}

		requested := make(map[string]bool, len(req.Lines))
		for _, lineReq := range req.Lines {
			if lineReq.LineID == nil {
				line, err := s.buildLine(ctx, entryID, lineReq, updaterUserID, now)
				if err != nil {
					return nil, err
				}
				linesToUpsert = append(linesToUpsert, line)
				continue
			}

			current, ok := existingByID[*lineReq.LineID]
			if !ok {
				return nil, fmt.Errorf("%w: line %s does not belong to entry %s", apperrors.ErrValidation, *lineReq.LineID, entryID)
			}
			requested[*lineReq.LineID] = true

			updatedLine, err := s.applyLineRequest(ctx, current, lineReq, updaterUserID, now)
			if err != nil {
				return nil, err
			}
			linesToUpsert = append(linesToUpsert, updatedLine)
		}

		for _, line := range existing {
			if !requested[line.LineID] {
				lineIDsToDelete = append(lineIDsToDelete, line.LineID)
			}
		}
	}

	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = updaterUserID

	if err := s.entryRepo.UpdateEntryWithLines(ctx, *entry, linesToUpsert, lineIDsToDelete); err != nil {
		logger.Error("Failed to save entry update", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to save entry update: %w", err)
	}

	logger.Info("Journal entry updated successfully", slog.String("entry_id", entryID), slog.Int("upserted", len(linesToUpsert)), slog.Int("deleted", len(lineIDsToDelete)))
	return entry, nil
}

// applyLineRequest rewrites an existing line from a request, keeping its
// identity and creation stamps.
func (s *entryService) applyLineRequest(ctx context.Context, current domain.JournalLine, req dto.EntryLineRequest, userID string, now time.Time) (domain.JournalLine, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return domain.JournalLine{}, fmt.Errorf("%w: line amount must be positive, got %s", apperrors.ErrValidation, req.Amount.String())
	}
	combinationID, err := s.resolveLineCombination(ctx, req, userID)
	if err != nil {
		return domain.JournalLine{}, err
	}

	current.Amount = req.Amount
	current.LineType = req.Type
	current.CombinationID = combinationID
	current.Memo = req.Memo
	current.LastUpdatedAt = now
	current.LastUpdatedBy = userID
	return current, nil
}

// AddLine appends one line to a draft entry.
// Implements portssvc.EntrySvcFacade
func (s *entryService) AddLine(ctx context.Context, entryID string, line dto.EntryLineRequest, updaterUserID string) (*domain.JournalLine, error) {
	logger := logging.FromContext(ctx)

	if err := line.Validate(); err != nil {
		return nil, err
	}

	entry, err := s.loadDraft(ctx, entryID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	newLine, err := s.buildLine(ctx, entryID, line, updaterUserID, now)
	if err != nil {
		return nil, err
	}

	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = updaterUserID

	if err := s.entryRepo.UpdateEntryWithLines(ctx, *entry, []domain.JournalLine{newLine}, nil); err != nil {
		logger.Error("Failed to add line to entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to add line to entry %s: %w", entryID, err)
	}

	logger.Info("Line added to journal entry", slog.String("entry_id", entryID), slog.String("line_id", newLine.LineID))
	return &newLine, nil
}

// UpdateLine rewrites one line of a draft entry.
// Implements portssvc.EntrySvcFacade
func (s *entryService) UpdateLine(ctx context.Context, entryID string, lineID string, line dto.EntryLineRequest, updaterUserID string) (*domain.JournalLine, error) {
	logger := logging.FromContext(ctx)

	if err := line.Validate(); err != nil {
		return nil, err
	}

	entry, err := s.loadDraft(ctx, entryID)
	if err != nil {
		return nil, err
	}

	current, err := s.entryRepo.FindLineByID(ctx, lineID)
	if err != nil {
		return nil, fmt.Errorf("failed to find line %s: %w", lineID, err)
	}
	if current.EntryID != entryID {
		logger.Warn("Line belongs to a different entry", slog.String("line_id", lineID), slog.String("line_entry_id", current.EntryID), slog.String("requested_entry_id", entryID))
		return nil, apperrors.ErrNotFound
	}

	now := s.clock.Now()
	updatedLine, err := s.applyLineRequest(ctx, *current, line, updaterUserID, now)
	if err != nil {
		return nil, err
	}

	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = updaterUserID

	if err := s.entryRepo.UpdateEntryWithLines(ctx, *entry, []domain.JournalLine{updatedLine}, nil); err != nil {
		logger.Error("Failed to update entry line", slog.String("error", err.Error()), slog.String("entry_id", entryID), slog.String("line_id", lineID))
		return nil, fmt.Errorf("failed to update line %s: %w", lineID, err)
	}

	logger.Info("Journal entry line updated", slog.String("entry_id", entryID), slog.String("line_id", lineID))
	return &updatedLine, nil
}

// RemoveLine deletes one line from a draft entry. The entry must keep at least
// two lines.
// Implements portssvc.EntrySvcFacade
func (s *entryService) RemoveLine(ctx context.Context, entryID string, lineID string, updaterUserID string) error {
	logger := logging.FromContext(ctx)

	entry, err := s.loadDraft(ctx, entryID)
	if err != nil {
		return err
	}

	current, err := s.entryRepo.FindLineByID(ctx, lineID)
	if err != nil {
		return fmt.Errorf("failed to find line %s: %w", lineID, err)
	}
	if current.EntryID != entryID {
		logger.Warn("Line belongs to a different entry", slog.String("line_id", lineID), slog.String("line_entry_id", current.EntryID), slog.String("requested_entry_id", entryID))
		return apperrors.ErrNotFound
	}

	lines, err := s.entryRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return fmt.Errorf("failed to fetch lines for entry %s: %w", entryID, err)
	}
	if len(lines) <= 2 {
		return fmt.Errorf("%w: journal entry must keep at least two lines", apperrors.ErrValidation)
	}

	now := s.clock.Now()
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = updaterUserID

	if err := s.entryRepo.UpdateEntryWithLines(ctx, *entry, nil, []string{lineID}); err != nil {
		logger.Error("Failed to remove entry line", slog.String("error", err.Error()), slog.String("entry_id", entryID), slog.String("line_id", lineID))
		return fmt.Errorf("failed to remove line %s: %w", lineID, err)
	}

	logger.Info("Journal entry line removed", slog.String("entry_id", entryID), slog.String("line_id", lineID))
	return nil
}

// GetEntryByID retrieves a specific journal entry with its lines.
// Implements portssvc.EntrySvcFacade
func (s *entryService) GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	logger := logging.FromContext(ctx)

	entry, err := s.entryRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find journal entry by ID", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		}
		return nil, fmt.Errorf("failed to find journal entry %s: %w", entryID, err)
	}

	lines, err := s.entryRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		logger.Error("Failed to fetch lines for journal entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to retrieve lines for entry %s: %w", entryID, apperrors.ErrInternal)
	}
	entry.Lines = lines

	logger.Debug("Journal entry retrieved successfully", slog.String("entry_id", entryID), slog.Int("line_count", len(lines)))
	return entry, nil
}

// PostEntry validates balance and period, flips the entry to posted and
// creates its single general ledger record. The repository performs the flip
// as a compare-and-set inside one transaction, so of two concurrent posters
// exactly one wins and the loser sees ErrConflict.
// Implements portssvc.EntrySvcFacade
func (s *entryService) PostEntry(ctx context.Context, entryID string, posterUserID string) (*domain.GeneralLedgerRecord, error) {
	logger := logging.FromContext(ctx)

	entry, err := s.entryRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find journal entry %s: %w", entryID, err)
	}
	if entry.Posted {
		logger.Warn("Attempt to post an already posted entry", slog.String("entry_id", entryID))
		return nil, fmt.Errorf("%w: journal entry %s is already posted", apperrors.ErrConflict, entryID)
	}

	lines, err := s.entryRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch lines for entry %s: %w", entryID, err)
	}
	if err := accounting.ValidateEntryBalance(lines); err != nil {
		logger.Warn("Entry failed balance validation at posting", slog.String("entry_id", entryID), slog.String("error", err.Error()))
		return nil, err
	}

	if err := s.checkPeriod(ctx, entry.EntryDate, apperrors.ScopeEntryDate); err != nil {
		logger.Warn("Posting blocked by period gate on entry date", slog.String("entry_id", entryID), slog.String("error", err.Error()))
		return nil, err
	}
	now := s.clock.Now()
	if err := s.checkPeriod(ctx, now, apperrors.ScopePostingDate); err != nil {
		logger.Warn("Posting blocked by period gate on posting date", slog.String("entry_id", entryID), slog.String("error", err.Error()))
		return nil, err
	}

	record := domain.GeneralLedgerRecord{
		GLRecordID:    uuid.NewString(),
		EntryID:       entryID,
		SubmittedDate: now,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     posterUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: posterUserID,
		},
	}

	if err := s.entryRepo.PostEntry(ctx, entryID, record, posterUserID, now); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			logger.Warn("Lost posting race", slog.String("entry_id", entryID))
			return nil, fmt.Errorf("%w: journal entry %s is already posted", apperrors.ErrConflict, entryID)
		}
		logger.Error("Failed to post journal entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to post journal entry %s: %w", entryID, err)
	}

	logger.Info("Journal entry posted successfully", slog.String("entry_id", entryID), slog.String("gl_record_id", record.GLRecordID))
	return &record, nil
}

// DeleteEntry removes a draft entry outright. Posted entries can never be
// deleted; reversal is the way to undo them.
// Implements portssvc.EntrySvcFacade
func (s *entryService) DeleteEntry(ctx context.Context, entryID string) error {
	logger := logging.FromContext(ctx)

	entry, err := s.entryRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return fmt.Errorf("failed to find journal entry %s: %w", entryID, err)
	}
	if entry.Posted {
		logger.Warn("Attempt to delete a posted entry", slog.String("entry_id", entryID))
		return fmt.Errorf("%w: posted entries cannot be deleted, create a reversal instead", apperrors.ErrConflict)
	}

	if err := s.entryRepo.DeleteEntry(ctx, entryID); err != nil {
		logger.Error("Failed to delete journal entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return fmt.Errorf("failed to delete journal entry %s: %w", entryID, err)
	}

	logger.Info("Journal entry deleted successfully", slog.String("entry_id", entryID))
	return nil
}

// CreateReversal builds a new draft entry mirroring the posted entry's lines
// with debit and credit swapped, linked back to the original. The original
// stays posted and untouched; the reversal goes through the normal draft
// lifecycle and period gate. The reversal is dated with the current clock so
// old entries stay reversible after their period closes.
// Implements portssvc.EntrySvcFacade
func (s *entryService) CreateReversal(ctx context.Context, entryID string, creatorUserID string) (*domain.JournalEntry, error) {
	logger := logging.FromContext(ctx)

	original, err := s.entryRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Original entry not found for reversal", slog.String("entry_id", entryID))
		}
		return nil, fmt.Errorf("failed to find journal entry %s: %w", entryID, err)
	}
	if !original.Posted {
		return nil, fmt.Errorf("%w: only posted entries can be reversed", apperrors.ErrConflict)
	}
	if original.ReversalOfEntryID != nil {
		logger.Warn("Attempt to reverse a reversal entry", slog.String("entry_id", entryID))
		return nil, fmt.Errorf("%w: cannot reverse an entry that is already a reversal", apperrors.ErrConflict)
	}

	originalLines, err := s.entryRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		logger.Error("Failed to fetch original lines for reversal", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to retrieve lines for entry %s: %w", entryID, err)
	}

	now := s.clock.Now()
	if err := s.checkPeriod(ctx, now, apperrors.ScopeEntryDate); err != nil {
		logger.Warn("Reversal creation blocked by period gate", slog.String("entry_id", entryID), slog.String("error", err.Error()))
		return nil, err
	}

	reversalID := uuid.NewString()
	reversal := domain.JournalEntry{
		EntryID:           reversalID,
		EntryDate:         now,
		CurrencyCode:      original.CurrencyCode,
		Memo:              fmt.Sprintf("Reversal of entry %s", entryID),
		Posted:            false,
		ReversalOfEntryID: &original.EntryID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	reversalLines := make([]domain.JournalLine, len(originalLines))
	for i, origLine := range originalLines {
		mirrored := domain.Debit
		if origLine.LineType == domain.Debit {
			mirrored = domain.Credit
		}
		reversalLines[i] = domain.JournalLine{
			LineID:        uuid.NewString(),
			EntryID:       reversalID,
			Amount:        origLine.Amount,
			LineType:      mirrored,
			CombinationID: origLine.CombinationID,
			Memo:          origLine.Memo,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     creatorUserID,
				LastUpdatedAt: now,
				LastUpdatedBy: creatorUserID,
			},
		}
	}

	if err := s.entryRepo.SaveEntry(ctx, reversal, reversalLines); err != nil {
		logger.Error("Failed to save reversal entry", slog.String("error", err.Error()), slog.String("original_entry_id", entryID))
		return nil, fmt.Errorf("failed to save reversal entry: %w", err)
	}

	logger.Info("Reversal entry created successfully", slog.String("original_entry_id", entryID), slog.String("reversal_entry_id", reversalID))
	return &reversal, nil
}

// FilterEntries retrieves the entries whose lines post to segment values
// matching the filter, lines attached.
// Implements portssvc.EntrySvcFacade
func (s *entryService) FilterEntries(ctx context.Context, filter dto.SegmentFilter) ([]domain.JournalEntry, error) {
	logger := logging.FromContext(ctx)

	combinationIDs, err := s.combinationSvc.FindCombinationIDsByFilter(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(combinationIDs) == 0 {
		return []domain.JournalEntry{}, nil
	}

	entries, err := s.entryRepo.FindEntriesByCombinationIDs(ctx, combinationIDs)
	if err != nil {
		logger.Error("Failed to filter journal entries", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to filter journal entries: %w", err)
	}
	if len(entries) == 0 {
		return entries, nil
	}

	entryIDs := make([]string, len(entries))
	for i, entry := range entries {
		entryIDs[i] = entry.EntryID
	}
	linesByEntry, err := s.entryRepo.FindLinesByEntryIDs(ctx, entryIDs)
	if err != nil {
		logger.Error("Failed to fetch lines for filtered entries", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to fetch lines for filtered entries: %w", err)
	}
	for i := range entries {
		entries[i].Lines = linesByEntry[entries[i].EntryID]
	}

	logger.Debug("Journal entries filtered successfully", slog.Int("combination_count", len(combinationIDs)), slog.Int("entry_count", len(entries)))
	return entries, nil
}

// FilterLedgerRecords retrieves the records of posted entries whose lines post
// to segment values matching the filter.
// Implements portssvc.EntrySvcFacade
func (s *entryService) FilterLedgerRecords(ctx context.Context, filter dto.SegmentFilter) ([]domain.GeneralLedgerRecord, error) {
	logger := logging.FromContext(ctx)

	combinationIDs, err := s.combinationSvc.FindCombinationIDsByFilter(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(combinationIDs) == 0 {
		return []domain.GeneralLedgerRecord{}, nil
	}

	records, err := s.entryRepo.FindLedgerRecordsByCombinationIDs(ctx, combinationIDs)
	if err != nil {
		logger.Error("Failed to filter ledger records", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to filter ledger records: %w", err)
	}

	logger.Debug("Ledger records filtered successfully", slog.Int("combination_count", len(combinationIDs)), slog.Int("record_count", len(records)))
	return records, nil
}

// GetLedgerRecordByEntryID retrieves the record created when the entry posted.
// Implements portssvc.EntrySvcFacade
func (s *entryService) GetLedgerRecordByEntryID(ctx context.Context, entryID string) (*domain.GeneralLedgerRecord, error) {
	record, err := s.entryRepo.FindLedgerRecordByEntryID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find ledger record for entry %s: %w", entryID, err)
	}
	return record, nil
}

// entryLines fetches the lines of an existing entry for balance calculations.
func (s *entryService) entryLines(ctx context.Context, entryID string) ([]domain.JournalLine, error) {
	if _, err := s.entryRepo.FindEntryByID(ctx, entryID); err != nil {
		return nil, fmt.Errorf("failed to find journal entry %s: %w", entryID, err)
	}
	lines, err := s.entryRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch lines for entry %s: %w", entryID, err)
	}
	return lines, nil
}

// TotalDebit sums the entry's debit lines.
// Implements portssvc.EntrySvcFacade
func (s *entryService) TotalDebit(ctx context.Context, entryID string) (decimal.Decimal, error) {
	lines, err := s.entryLines(ctx, entryID)
	if err != nil {
		return decimal.Zero, err
	}
	return accounting.TotalDebit(lines), nil
}

// TotalCredit sums the entry's credit lines.
// Implements portssvc.EntrySvcFacade
func (s *entryService) TotalCredit(ctx context.Context, entryID string) (decimal.Decimal, error) {
	lines, err := s.entryLines(ctx, entryID)
	if err != nil {
		return decimal.Zero, err
	}
	return accounting.TotalCredit(lines), nil
}

// BalanceDifference returns total debit minus total credit, exact.
// Implements portssvc.EntrySvcFacade
func (s *entryService) BalanceDifference(ctx context.Context, entryID string) (decimal.Decimal, error) {
	lines, err := s.entryLines(ctx, entryID)
	if err != nil {
		return decimal.Zero, err
	}
	return accounting.BalanceDifference(lines), nil
}

// IsBalanced reports whether total debit equals total credit.
// Implements portssvc.EntrySvcFacade
func (s *entryService) IsBalanced(ctx context.Context, entryID string) (bool, error) {
	lines, err := s.entryLines(ctx, entryID)
	if err != nil {
		return false, err
	}
	return accounting.IsBalanced(lines), nil
}

// GetEntryBalance returns all balance figures of an entry in one call.
// Implements portssvc.EntrySvcFacade
func (s *entryService) GetEntryBalance(ctx context.Context, entryID string) (*dto.EntryBalanceResponse, error) {
	lines, err := s.entryLines(ctx, entryID)
	if err != nil {
		return nil, err
	}

	totalDebit := accounting.TotalDebit(lines)
	totalCredit := accounting.TotalCredit(lines)
	return &dto.EntryBalanceResponse{
		EntryID:     entryID,
		TotalDebit:  totalDebit,
		TotalCredit: totalCredit,
		Difference:  totalDebit.Sub(totalCredit),
		IsBalanced:  totalDebit.Equal(totalCredit),
	}, nil
}

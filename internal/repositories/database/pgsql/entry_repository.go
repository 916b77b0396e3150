package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fingrid-labs/gl_core/internal/apperrors"
	"github.com/fingrid-labs/gl_core/internal/core/domain"
	portsrepo "github.com/fingrid-labs/gl_core/internal/core/ports/repositories"
	"github.com/fingrid-labs/gl_core/internal/models"
	"github.com/fingrid-labs/gl_core/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxEntryRepository struct {
	BaseRepository
}

// newPgxEntryRepository creates a new repository for journal entry, line and
// ledger record data.
func newPgxEntryRepository(pool *pgxpool.Pool) portsrepo.EntryRepositoryWithTx {
	return &PgxEntryRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxEntryRepository implements portsrepo.EntryRepositoryWithTx
var _ portsrepo.EntryRepositoryWithTx = (*PgxEntryRepository)(nil)

const journalEntryColumns = `entry_id, entry_date, currency_code, memo, posted, reversal_of_entry_id, created_at, created_by, last_updated_at, last_updated_by`

const journalLineColumns = `line_id, entry_id, amount, line_type, combination_id, memo, created_at, created_by, last_updated_at, last_updated_by`

// scanJournalEntry scans one journal_entries row. reversal_of_entry_id is nullable.
func scanJournalEntry(row pgx.Row) (models.JournalEntry, error) {
	var modelEntry models.JournalEntry
	var reversalOf sql.NullString
	err := row.Scan(
		&modelEntry.EntryID,
		&modelEntry.EntryDate,
		&modelEntry.CurrencyCode,
		&modelEntry.Memo,
		&modelEntry.Posted,
		&reversalOf,
		&modelEntry.CreatedAt,
		&modelEntry.CreatedBy,
		&modelEntry.LastUpdatedAt,
		&modelEntry.LastUpdatedBy,
	)
	if err != nil {
		return models.JournalEntry{}, err
	}
	if reversalOf.Valid {
		modelEntry.ReversalOfEntryID = &reversalOf.String
	}
	return modelEntry, nil
}

func scanJournalLine(row pgx.Row) (models.JournalLine, error) {
	var modelLine models.JournalLine
	err := row.Scan(
		&modelLine.LineID,
		&modelLine.EntryID,
		&modelLine.Amount,
		&modelLine.LineType,
		&modelLine.CombinationID,
		&modelLine.Memo,
		&modelLine.CreatedAt,
		&modelLine.CreatedBy,
		&modelLine.LastUpdatedAt,
		&modelLine.LastUpdatedBy,
	)
	if err != nil {
		return models.JournalLine{}, err
	}
	return modelLine, nil
}

// lockEntry locks the entry row for the duration of tx and returns its posted
// flag. Missing entries surface as ErrNotFound.
func (r *PgxEntryRepository) lockEntry(ctx context.Context, tx pgx.Tx, entryID string) (bool, error) {
	query := `
		SELECT posted
		FROM journal_entries
		WHERE entry_id = $1
		FOR UPDATE;
	`
	var posted bool
	if err := tx.QueryRow(ctx, query, entryID).Scan(&posted); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, apperrors.ErrNotFound
		}
		return false, apperrors.NewAppError(500, "failed to lock entry "+entryID, err)
	}
	return posted, nil
}

// queueLineUpsert queues one line write onto the batch. The conflict clause
// turns a rerun for an existing line into an update; a line_id colliding from
// a different entry is left untouched.
func queueLineUpsert(batch *pgx.Batch, modelLine models.JournalLine) {
	query := `
		INSERT INTO journal_lines (` + journalLineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (line_id) DO UPDATE
		SET amount = EXCLUDED.amount,
		    line_type = EXCLUDED.line_type,
		    combination_id = EXCLUDED.combination_id,
		    memo = EXCLUDED.memo,
		    last_updated_at = EXCLUDED.last_updated_at,
		    last_updated_by = EXCLUDED.last_updated_by
		WHERE journal_lines.entry_id = EXCLUDED.entry_id;
	`
	batch.Queue(query,
		modelLine.LineID,
		modelLine.EntryID,
		modelLine.Amount,
		modelLine.LineType,
		modelLine.CombinationID,
		modelLine.Memo,
		modelLine.CreatedAt,
		modelLine.CreatedBy,
		modelLine.LastUpdatedAt,
		modelLine.LastUpdatedBy,
	)
}

// SaveEntry persists a new draft entry and its lines within a DB transaction.
func (r *PgxEntryRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	modelEntry := mapping.ToModelJournalEntry(entry)
	entryQuery := `
		INSERT INTO journal_entries (` + journalEntryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err = tx.Exec(ctx, entryQuery,
		modelEntry.EntryID,
		modelEntry.EntryDate,
		modelEntry.CurrencyCode,
		modelEntry.Memo,
		modelEntry.Posted,
		modelEntry.ReversalOfEntryID,
		modelEntry.CreatedAt,
		modelEntry.CreatedBy,
		modelEntry.LastUpdatedAt,
		modelEntry.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert entry "+modelEntry.EntryID, err)
	}

	batch := &pgx.Batch{}
	for _, line := range lines {
		queueLineUpsert(batch, mapping.ToModelJournalLine(line))
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to execute line batch for entry "+modelEntry.EntryID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return err
	}

	return nil
}

// UpdateEntryWithLines rewrites a draft entry's header and lines within one DB
// transaction. The entry row is locked first and the posted flag re-checked
// under the lock, so a concurrent post cannot interleave with this write.
func (r *PgxEntryRepository) UpdateEntryWithLines(ctx context.Context, entry domain.JournalEntry, linesToUpsert []domain.JournalLine, lineIDsToDelete []string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	posted, err := r.lockEntry(ctx, tx, entry.EntryID)
	if err != nil {
		return err
	}
	if posted {
		return fmt.Errorf("%w: entry %s is already posted", apperrors.ErrConflict, entry.EntryID)
	}

	modelEntry := mapping.ToModelJournalEntry(entry)
	entryQuery := `
		UPDATE journal_entries
		SET entry_date = $2,
		    currency_code = $3,
		    memo = $4,
		    last_updated_at = $5,
		    last_updated_by = $6
		WHERE entry_id = $1;
	`
	_, err = tx.Exec(ctx, entryQuery,
		modelEntry.EntryID,
		modelEntry.EntryDate,
		modelEntry.CurrencyCode,
		modelEntry.Memo,
		modelEntry.LastUpdatedAt,
		modelEntry.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update entry "+modelEntry.EntryID, err)
	}

	batch := &pgx.Batch{}
	for _, line := range linesToUpsert {
		queueLineUpsert(batch, mapping.ToModelJournalLine(line))
	}
	if len(lineIDsToDelete) > 0 {
		deleteQuery := `
			DELETE FROM journal_lines
			WHERE entry_id = $1 AND line_id = ANY($2);
		`
		batch.Queue(deleteQuery, modelEntry.EntryID, lineIDsToDelete)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to execute line batch for entry "+modelEntry.EntryID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return err
	}

	return nil
}

// PostEntry flips the entry's posted flag and persists the ledger record within
// one DB transaction. The flip is guarded by posted = FALSE, so of two racing
// posters exactly one commits; the other gets ErrConflict.
func (r *PgxEntryRepository) PostEntry(ctx context.Context, entryID string, record domain.GeneralLedgerRecord, updatedBy string, updatedAt time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	posted, err := r.lockEntry(ctx, tx, entryID)
	if err != nil {
		return err
	}
	if posted {
		return fmt.Errorf("%w: entry %s is already posted", apperrors.ErrConflict, entryID)
	}

	postQuery := `
		UPDATE journal_entries
		SET posted = TRUE,
		    last_updated_at = $2,
		    last_updated_by = $3
		WHERE entry_id = $1 AND posted = FALSE;
	`
	cmdTag, err := tx.Exec(ctx, postQuery, entryID, updatedAt, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark entry "+entryID+" as posted", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: entry %s is already posted", apperrors.ErrConflict, entryID)
	}

	modelRecord := mapping.ToModelGeneralLedgerRecord(record)
	recordQuery := `
		INSERT INTO general_ledger_records (gl_record_id, entry_id, submitted_date, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err = tx.Exec(ctx, recordQuery,
		modelRecord.GLRecordID,
		modelRecord.EntryID,
		modelRecord.SubmittedDate,
		modelRecord.CreatedAt,
		modelRecord.CreatedBy,
		modelRecord.LastUpdatedAt,
		modelRecord.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return fmt.Errorf("%w: entry %s already has a ledger record", apperrors.ErrConflict, entryID)
		}
		return apperrors.NewAppError(500, "failed to insert ledger record for entry "+entryID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return err
	}

	return nil
}

// DeleteEntry removes a draft entry and its lines within one DB transaction.
func (r *PgxEntryRepository) DeleteEntry(ctx context.Context, entryID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	posted, err := r.lockEntry(ctx, tx, entryID)
	if err != nil {
		return err
	}
	if posted {
		return fmt.Errorf("%w: entry %s is already posted", apperrors.ErrConflict, entryID)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM journal_lines WHERE entry_id = $1;`, entryID); err != nil {
		return apperrors.NewAppError(500, "failed to delete lines of entry "+entryID, err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM journal_entries WHERE entry_id = $1;`, entryID); err != nil {
		return apperrors.NewAppError(500, "failed to delete entry "+entryID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return err
	}

	return nil
}

// FindEntryByID retrieves an entry by its ID. Lines are fetched separately.
func (r *PgxEntryRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	query := `
		SELECT ` + journalEntryColumns + `
		FROM journal_entries
		WHERE entry_id = $1;
	`
	modelEntry, err := scanJournalEntry(r.Pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find entry by ID "+entryID, err)
	}

	domainEntry := mapping.ToDomainJournalEntry(modelEntry)
	return &domainEntry, nil
}

// FindEntriesByCombinationIDs retrieves the distinct entries with at least one
// line posting to any of the given combinations, newest first.
func (r *PgxEntryRepository) FindEntriesByCombinationIDs(ctx context.Context, combinationIDs []string) ([]domain.JournalEntry, error) {
	if len(combinationIDs) == 0 {
		return []domain.JournalEntry{}, nil
	}

	query := `
		SELECT DISTINCT e.entry_id, e.entry_date, e.currency_code, e.memo, e.posted, e.reversal_of_entry_id, e.created_at, e.created_by, e.last_updated_at, e.last_updated_by
		FROM journal_entries e
		JOIN journal_lines l ON l.entry_id = e.entry_id
		WHERE l.combination_id = ANY($1)
		ORDER BY e.entry_date DESC, e.entry_id;
	`
	rows, err := r.Pool.Query(ctx, query, combinationIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query entries by combination IDs", err)
	}
	defer rows.Close()

	entries := []domain.JournalEntry{}
	for rows.Next() {
		modelEntry, err := scanJournalEntry(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan entry row", err)
		}
		entries = append(entries, mapping.ToDomainJournalEntry(modelEntry))
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating entry rows", err)
	}

	return entries, nil
}

// FindLineByID retrieves a journal line by its ID.
func (r *PgxEntryRepository) FindLineByID(ctx context.Context, lineID string) (*domain.JournalLine, error) {
	query := `
		SELECT ` + journalLineColumns + `
		FROM journal_lines
		WHERE line_id = $1;
	`
	modelLine, err := scanJournalLine(r.Pool.QueryRow(ctx, query, lineID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find line by ID "+lineID, err)
	}

	domainLine := mapping.ToDomainJournalLine(modelLine)
	return &domainLine, nil
}

// FindLinesByEntryID retrieves all lines of a single entry.
func (r *PgxEntryRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error) {
	query := `
		SELECT ` + journalLineColumns + `
		FROM journal_lines
		WHERE entry_id = $1
		ORDER BY created_at, line_id;
	`
	rows, err := r.Pool.Query(ctx, query, entryID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query lines for entry "+entryID, err)
	}
	defer rows.Close()

	lines := []domain.JournalLine{}
	for rows.Next() {
		modelLine, err := scanJournalLine(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan line row for entry "+entryID, err)
		}
		lines = append(lines, mapping.ToDomainJournalLine(modelLine))
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating line rows for entry "+entryID, err)
	}

	return lines, nil
}

// FindLinesByEntryIDs retrieves lines for multiple entries in one query,
// grouped by entry ID. Entries with no lines get an empty slice.
func (r *PgxEntryRepository) FindLinesByEntryIDs(ctx context.Context, entryIDs []string) (map[string][]domain.JournalLine, error) {
	if len(entryIDs) == 0 {
		return map[string][]domain.JournalLine{}, nil
	}

	query := `
		SELECT ` + journalLineColumns + `
		FROM journal_lines
		WHERE entry_id = ANY($1)
		ORDER BY entry_id, created_at, line_id;
	`
	rows, err := r.Pool.Query(ctx, query, entryIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query lines for entry IDs", err)
	}
	defer rows.Close()

	linesMap := make(map[string][]domain.JournalLine)
	for rows.Next() {
		modelLine, err := scanJournalLine(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan line row during batch fetch", err)
		}
		domainLine := mapping.ToDomainJournalLine(modelLine)
		linesMap[domainLine.EntryID] = append(linesMap[domainLine.EntryID], domainLine)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating line rows during batch fetch", err)
	}

	for _, entryID := range entryIDs {
		if _, exists := linesMap[entryID]; !exists {
			linesMap[entryID] = []domain.JournalLine{}
		}
	}

	return linesMap, nil
}

// FindLedgerRecordByEntryID retrieves the ledger record created when the entry
// posted.
func (r *PgxEntryRepository) FindLedgerRecordByEntryID(ctx context.Context, entryID string) (*domain.GeneralLedgerRecord, error) {
	query := `
		SELECT gl_record_id, entry_id, submitted_date, created_at, created_by, last_updated_at, last_updated_by
		FROM general_ledger_records
		WHERE entry_id = $1;
	`
	var modelRecord models.GeneralLedgerRecord
	err := r.Pool.QueryRow(ctx, query, entryID).Scan(
		&modelRecord.GLRecordID,
		&modelRecord.EntryID,
		&modelRecord.SubmittedDate,
		&modelRecord.CreatedAt,
		&modelRecord.CreatedBy,
		&modelRecord.LastUpdatedAt,
		&modelRecord.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find ledger record for entry "+entryID, err)
	}

	domainRecord := mapping.ToDomainGeneralLedgerRecord(modelRecord)
	return &domainRecord, nil
}

// FindLedgerRecordsByCombinationIDs retrieves the records of posted entries
// with at least one line posting to any of the given combinations.
func (r *PgxEntryRepository) FindLedgerRecordsByCombinationIDs(ctx context.Context, combinationIDs []string) ([]domain.GeneralLedgerRecord, error) {
	if len(combinationIDs) == 0 {
		return []domain.GeneralLedgerRecord{}, nil
	}

	query := `
		SELECT DISTINCT g.gl_record_id, g.entry_id, g.submitted_date, g.created_at, g.created_by, g.last_updated_at, g.last_updated_by
		FROM general_ledger_records g
		JOIN journal_lines l ON l.entry_id = g.entry_id
		WHERE l.combination_id = ANY($1)
		ORDER BY g.submitted_date DESC, g.gl_record_id;
	`
	rows, err := r.Pool.Query(ctx, query, combinationIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query ledger records by combination IDs", err)
	}
	defer rows.Close()

	records := []domain.GeneralLedgerRecord{}
	for rows.Next() {
		var modelRecord models.GeneralLedgerRecord
		err := rows.Scan(
			&modelRecord.GLRecordID,
			&modelRecord.EntryID,
			&modelRecord.SubmittedDate,
			&modelRecord.CreatedAt,
			&modelRecord.CreatedBy,
			&modelRecord.LastUpdatedAt,
			&modelRecord.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan ledger record row", err)
		}
		records = append(records, mapping.ToDomainGeneralLedgerRecord(modelRecord))
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating ledger record rows", err)
	}

	return records, nil
}

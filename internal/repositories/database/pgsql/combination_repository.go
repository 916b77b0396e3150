package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/fingrid-labs/gl_core/internal/apperrors"
	"github.com/fingrid-labs/gl_core/internal/core/domain"
	portsrepo "github.com/fingrid-labs/gl_core/internal/core/ports/repositories"
	"github.com/fingrid-labs/gl_core/internal/models"
	"github.com/fingrid-labs/gl_core/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxCombinationRepository struct {
	BaseRepository
}

// newPgxCombinationRepository creates a new repository for combination data.
func newPgxCombinationRepository(pool *pgxpool.Pool) portsrepo.CombinationRepositoryWithTx {
	return &PgxCombinationRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxCombinationRepository implements portsrepo.CombinationRepositoryWithTx
var _ portsrepo.CombinationRepositoryWithTx = (*PgxCombinationRepository)(nil)

// SaveCombination persists a combination and its details within a DB transaction.
// A fingerprint collision surfaces as ErrDuplicate so the caller can rerun the
// find and adopt the row that won the race.
func (r *PgxCombinationRepository) SaveCombination(ctx context.Context, combination domain.Combination) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	modelCombination := mapping.ToModelCombination(combination)
	combinationQuery := `
		INSERT INTO combinations (combination_id, description, is_active, fingerprint, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err = tx.Exec(ctx, combinationQuery,
		modelCombination.CombinationID,
		modelCombination.Description,
		modelCombination.IsActive,
		modelCombination.Fingerprint,
		modelCombination.CreatedAt,
		modelCombination.CreatedBy,
		modelCombination.LastUpdatedAt,
		modelCombination.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return fmt.Errorf("%w: a combination with the same segments already exists", apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to insert combination "+modelCombination.CombinationID, err)
	}

	batch := &pgx.Batch{}
	detailQuery := `
		INSERT INTO combination_details (combination_detail_id, combination_id, segment_type_id, segment_value_id)
		VALUES ($1, $2, $3, $4);
	`
	for _, detail := range combination.Details {
		modelDetail := mapping.ToModelCombinationDetail(detail)
		batch.Queue(detailQuery,
			modelDetail.CombinationDetailID,
			modelDetail.CombinationID,
			modelDetail.SegmentTypeID,
			modelDetail.SegmentValueID,
		)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to execute detail batch for combination "+modelCombination.CombinationID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return err
	}

	return nil
}

// FindCombinationByID retrieves a combination and its details by its ID.
func (r *PgxCombinationRepository) FindCombinationByID(ctx context.Context, combinationID string) (*domain.Combination, error) {
	query := `
		SELECT combination_id, description, is_active, fingerprint, created_at, created_by, last_updated_at, last_updated_by
		FROM combinations
		WHERE combination_id = $1;
	`
	return r.findCombination(ctx, query, combinationID)
}

// FindCombinationByFingerprint retrieves the combination whose canonical
// fingerprint matches, with details.
func (r *PgxCombinationRepository) FindCombinationByFingerprint(ctx context.Context, fingerprint string) (*domain.Combination, error) {
	query := `
		SELECT combination_id, description, is_active, fingerprint, created_at, created_by, last_updated_at, last_updated_by
		FROM combinations
		WHERE fingerprint = $1;
	`
	return r.findCombination(ctx, query, fingerprint)
}

func (r *PgxCombinationRepository) findCombination(ctx context.Context, query string, arg interface{}) (*domain.Combination, error) {
	var modelCombination models.Combination
	var description sql.NullString

	err := r.Pool.QueryRow(ctx, query, arg).Scan(
		&modelCombination.CombinationID,
		&description,
		&modelCombination.IsActive,
		&modelCombination.Fingerprint,
		&modelCombination.CreatedAt,
		&modelCombination.CreatedBy,
		&modelCombination.LastUpdatedAt,
		&modelCombination.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find combination", err)
	}

	if description.Valid {
		modelCombination.Description = &description.String
	}

	domainCombination := mapping.ToDomainCombination(modelCombination)
	details, err := r.findCombinationDetails(ctx, modelCombination.CombinationID)
	if err != nil {
		return nil, err
	}
	domainCombination.Details = details

	return &domainCombination, nil
}

// findCombinationDetails fetches the detail rows of one combination; the join
// against segment_values carries each value's code into the result.
func (r *PgxCombinationRepository) findCombinationDetails(ctx context.Context, combinationID string) ([]domain.CombinationDetail, error) {
	query := `
		SELECT cd.combination_detail_id, cd.combination_id, cd.segment_type_id, cd.segment_value_id, sv.code
		FROM combination_details cd
		JOIN segment_values sv ON sv.segment_value_id = cd.segment_value_id
		WHERE cd.combination_id = $1
		ORDER BY cd.segment_type_id;
	`
	rows, err := r.Pool.Query(ctx, query, combinationID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query details for combination "+combinationID, err)
	}
	defer rows.Close()

	modelDetails := []models.CombinationDetail{}
	for rows.Next() {
		var d models.CombinationDetail
		err := rows.Scan(
			&d.CombinationDetailID,
			&d.CombinationID,
			&d.SegmentTypeID,
			&d.SegmentValueID,
			&d.Code,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan detail row for combination "+combinationID, err)
		}
		modelDetails = append(modelDetails, d)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating detail rows for combination "+combinationID, err)
	}

	return mapping.ToDomainCombinationDetailSlice(modelDetails), nil
}

// segmentPairPredicate renders a (segment_type_id, code) tuple list as SQL
// placeholders starting at $1 and collects the matching args.
func segmentPairPredicate(pairs []domain.SegmentPair) (string, []interface{}) {
	tuples := make([]string, 0, len(pairs))
	args := make([]interface{}, 0, len(pairs)*2)
	for i, pair := range pairs {
		tuples = append(tuples, "($"+strconv.Itoa(i*2+1)+", $"+strconv.Itoa(i*2+2)+")")
		args = append(args, pair.SegmentTypeID, pair.Code)
	}
	return strings.Join(tuples, ", "), args
}

// FindCombinationIDsByAnySegment returns ids of combinations pinned to at least
// one of the given (type, code) pairs.
func (r *PgxCombinationRepository) FindCombinationIDsByAnySegment(ctx context.Context, pairs []domain.SegmentPair) ([]string, error) {
	if len(pairs) == 0 {
		return []string{}, nil
	}

	tuples, args := segmentPairPredicate(pairs)
	query := `
		SELECT DISTINCT cd.combination_id
		FROM combination_details cd
		JOIN segment_values sv ON sv.segment_value_id = cd.segment_value_id
		WHERE (cd.segment_type_id, sv.code) IN (` + tuples + `)
		ORDER BY cd.combination_id;
	`
	return r.queryCombinationIDs(ctx, query, args)
}

// FindCombinationIDsByAllSegments returns ids of combinations pinned to every
// one of the given (type, code) pairs. A combination holds at most one detail
// per segment type, so matching every distinct pair means a full match.
func (r *PgxCombinationRepository) FindCombinationIDsByAllSegments(ctx context.Context, pairs []domain.SegmentPair) ([]string, error) {
	if len(pairs) == 0 {
		return []string{}, nil
	}

	distinct := make(map[domain.SegmentPair]struct{}, len(pairs))
	for _, pair := range pairs {
		distinct[pair] = struct{}{}
	}

	tuples, args := segmentPairPredicate(pairs)
	args = append(args, len(distinct))
	query := `
		SELECT cd.combination_id
		FROM combination_details cd
		JOIN segment_values sv ON sv.segment_value_id = cd.segment_value_id
		WHERE (cd.segment_type_id, sv.code) IN (` + tuples + `)
		GROUP BY cd.combination_id
		HAVING COUNT(*) = $` + strconv.Itoa(len(args)) + `
		ORDER BY cd.combination_id;
	`
	return r.queryCombinationIDs(ctx, query, args)
}

func (r *PgxCombinationRepository) queryCombinationIDs(ctx context.Context, query string, args []interface{}) ([]string, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query combination IDs by segments", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan combination ID row", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating combination ID rows", err)
	}

	return ids, nil
}

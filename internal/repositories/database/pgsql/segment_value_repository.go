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

type PgxSegmentValueRepository struct {
	BaseRepository
}

// newPgxSegmentValueRepository creates a new repository for segment value data.
func newPgxSegmentValueRepository(pool *pgxpool.Pool) portsrepo.SegmentValueRepositoryWithTx {
	return &PgxSegmentValueRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxSegmentValueRepository implements portsrepo.SegmentValueRepositoryWithTx
var _ portsrepo.SegmentValueRepositoryWithTx = (*PgxSegmentValueRepository)(nil)

const segmentValueColumns = `segment_value_id, segment_type_id, code, parent_code, node_kind, alias, is_active, created_at, created_by, last_updated_at, last_updated_by`

// scanSegmentValue scans one segment_values row. parent_code is nullable.
func scanSegmentValue(row pgx.Row) (models.SegmentValue, error) {
	var modelValue models.SegmentValue
	var parentCode sql.NullString
	err := row.Scan(
		&modelValue.SegmentValueID,
		&modelValue.SegmentTypeID,
		&modelValue.Code,
		&parentCode,
		&modelValue.NodeKind,
		&modelValue.Alias,
		&modelValue.IsActive,
		&modelValue.CreatedAt,
		&modelValue.CreatedBy,
		&modelValue.LastUpdatedAt,
		&modelValue.LastUpdatedBy,
	)
	if err != nil {
		return models.SegmentValue{}, err
	}
	if parentCode.Valid {
		modelValue.ParentCode = &parentCode.String
	}
	return modelValue, nil
}

// SaveSegmentValue persists a new segment value.
func (r *PgxSegmentValueRepository) SaveSegmentValue(ctx context.Context, segmentValue domain.SegmentValue) error {
	modelValue := mapping.ToModelSegmentValue(segmentValue)
	query := `
		INSERT INTO segment_values (` + segmentValueColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		modelValue.SegmentValueID,
		modelValue.SegmentTypeID,
		modelValue.Code,
		modelValue.ParentCode,
		modelValue.NodeKind,
		modelValue.Alias,
		modelValue.IsActive,
		modelValue.CreatedAt,
		modelValue.CreatedBy,
		modelValue.LastUpdatedAt,
		modelValue.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return fmt.Errorf("%w: code %q already exists under segment type %s", apperrors.ErrDuplicate, modelValue.Code, modelValue.SegmentTypeID)
		}
		return apperrors.NewAppError(500, "failed to insert segment value "+modelValue.SegmentValueID, err)
	}
	return nil
}

// FindSegmentValueByID retrieves a segment value by its ID.
func (r *PgxSegmentValueRepository) FindSegmentValueByID(ctx context.Context, segmentValueID string) (*domain.SegmentValue, error) {
	query := `
		SELECT ` + segmentValueColumns + `
		FROM segment_values
		WHERE segment_value_id = $1;
	`
	modelValue, err := scanSegmentValue(r.Pool.QueryRow(ctx, query, segmentValueID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find segment value by ID "+segmentValueID, err)
	}

	domainValue := mapping.ToDomainSegmentValue(modelValue)
	return &domainValue, nil
}

// FindSegmentValue retrieves the value with the given code under the given type.
func (r *PgxSegmentValueRepository) FindSegmentValue(ctx context.Context, segmentTypeID string, code string) (*domain.SegmentValue, error) {
	query := `
		SELECT ` + segmentValueColumns + `
		FROM segment_values
		WHERE segment_type_id = $1 AND code = $2;
	`
	modelValue, err := scanSegmentValue(r.Pool.QueryRow(ctx, query, segmentTypeID, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find segment value "+code+" under type "+segmentTypeID, err)
	}

	domainValue := mapping.ToDomainSegmentValue(modelValue)
	return &domainValue, nil
}

// FindSegmentValues retrieves the values for multiple (type, code) pairs in one
// round trip. Pairs with no matching row are simply absent from the result map.
func (r *PgxSegmentValueRepository) FindSegmentValues(ctx context.Context, pairs []domain.SegmentPair) (map[domain.SegmentPair]domain.SegmentValue, error) {
	if len(pairs) == 0 {
		return map[domain.SegmentPair]domain.SegmentValue{}, nil
	}

	tuples := make([]string, 0, len(pairs))
	args := make([]interface{}, 0, len(pairs)*2)
	for i, pair := range pairs {
		tuples = append(tuples, "($"+strconv.Itoa(i*2+1)+", $"+strconv.Itoa(i*2+2)+")")
		args = append(args, pair.SegmentTypeID, pair.Code)
	}

	query := `
		SELECT ` + segmentValueColumns + `
		FROM segment_values
		WHERE (segment_type_id, code) IN (` + strings.Join(tuples, ", ") + `);
	`
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query segment values by pairs", err)
	}
	defer rows.Close()

	valuesMap := make(map[domain.SegmentPair]domain.SegmentValue, len(pairs))
	for rows.Next() {
		modelValue, err := scanSegmentValue(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan segment value row", err)
		}
		domainValue := mapping.ToDomainSegmentValue(modelValue)
		key := domain.SegmentPair{SegmentTypeID: domainValue.SegmentTypeID, Code: domainValue.Code}
		valuesMap[key] = domainValue
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating segment value rows", err)
	}

	return valuesMap, nil
}

// ListSegmentValues retrieves all values of a segment type ordered by code.
func (r *PgxSegmentValueRepository) ListSegmentValues(ctx context.Context, segmentTypeID string) ([]domain.SegmentValue, error) {
	query := `
		SELECT ` + segmentValueColumns + `
		FROM segment_values
		WHERE segment_type_id = $1
		ORDER BY code;
	`
	return r.querySegmentValues(ctx, query, segmentTypeID)
}

// ListChildValues retrieves the direct children of the given code within its type.
func (r *PgxSegmentValueRepository) ListChildValues(ctx context.Context, segmentTypeID string, parentCode string) ([]domain.SegmentValue, error) {
	query := `
		SELECT ` + segmentValueColumns + `
		FROM segment_values
		WHERE segment_type_id = $1 AND parent_code = $2
		ORDER BY code;
	`
	return r.querySegmentValues(ctx, query, segmentTypeID, parentCode)
}

func (r *PgxSegmentValueRepository) querySegmentValues(ctx context.Context, query string, args ...interface{}) ([]domain.SegmentValue, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query segment values", err)
	}
	defer rows.Close()

	values := []domain.SegmentValue{}
	for rows.Next() {
		modelValue, err := scanSegmentValue(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan segment value row", err)
		}
		values = append(values, mapping.ToDomainSegmentValue(modelValue))
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating segment value rows", err)
	}

	return values, nil
}

// GetSegmentValueUsage counts the rows that reference the value: child values
// under it, combinations pinned to it, and journal lines through those
// combinations.
func (r *PgxSegmentValueRepository) GetSegmentValueUsage(ctx context.Context, segmentValueID string) (domain.SegmentValueUsage, error) {
	query := `
		WITH v AS (
			SELECT segment_type_id, code FROM segment_values WHERE segment_value_id = $1
		)
		SELECT
			(SELECT COUNT(*) FROM segment_values sv JOIN v ON sv.segment_type_id = v.segment_type_id AND sv.parent_code = v.code),
			(SELECT COUNT(DISTINCT cd.combination_id) FROM combination_details cd WHERE cd.segment_value_id = $1),
			(SELECT COUNT(*) FROM journal_lines jl
			 WHERE jl.combination_id IN (
				SELECT cd.combination_id FROM combination_details cd WHERE cd.segment_value_id = $1));
	`
	var usage domain.SegmentValueUsage
	err := r.Pool.QueryRow(ctx, query, segmentValueID).Scan(
		&usage.ChildCount,
		&usage.CombinationCount,
		&usage.LineCount,
	)
	if err != nil {
		return domain.SegmentValueUsage{}, apperrors.NewAppError(500, "failed to count usage of segment value "+segmentValueID, err)
	}
	return usage, nil
}

// UpdateSegmentValue updates an existing segment value.
func (r *PgxSegmentValueRepository) UpdateSegmentValue(ctx context.Context, segmentValue domain.SegmentValue) error {
	modelValue := mapping.ToModelSegmentValue(segmentValue)
	query := `
		UPDATE segment_values
		SET parent_code = $2,
		    node_kind = $3,
		    alias = $4,
		    is_active = $5,
		    last_updated_at = $6,
		    last_updated_by = $7
		WHERE segment_value_id = $1;
	`
	// code and segment_type_id identify the value to posted lines and are
	// intentionally not part of the SET list.
	cmdTag, err := r.Pool.Exec(ctx, query,
		modelValue.SegmentValueID,
		modelValue.ParentCode,
		modelValue.NodeKind,
		modelValue.Alias,
		modelValue.IsActive,
		modelValue.LastUpdatedAt,
		modelValue.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update segment value "+modelValue.SegmentValueID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteSegmentValue removes a segment value. The usage check happens in the
// service layer; the FK translation below only catches writers racing the check.
func (r *PgxSegmentValueRepository) DeleteSegmentValue(ctx context.Context, segmentValueID string) error {
	query := `
		DELETE FROM segment_values
		WHERE segment_value_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, segmentValueID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return fmt.Errorf("%w: segment value %s is still referenced", apperrors.ErrConflict, segmentValueID)
		}
		return apperrors.NewAppError(500, "failed to delete segment value "+segmentValueID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

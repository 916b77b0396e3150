package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/fingrid-labs/gl_core/internal/apperrors"
	"github.com/fingrid-labs/gl_core/internal/core/domain"
	portsrepo "github.com/fingrid-labs/gl_core/internal/core/ports/repositories"
	"github.com/fingrid-labs/gl_core/internal/models"
	"github.com/fingrid-labs/gl_core/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxSegmentTypeRepository struct {
	BaseRepository
}

// newPgxSegmentTypeRepository creates a new repository for segment type data.
func newPgxSegmentTypeRepository(pool *pgxpool.Pool) portsrepo.SegmentTypeRepositoryWithTx {
	return &PgxSegmentTypeRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxSegmentTypeRepository implements portsrepo.SegmentTypeRepositoryWithTx
var _ portsrepo.SegmentTypeRepositoryWithTx = (*PgxSegmentTypeRepository)(nil)

// SaveSegmentType persists a new segment type.
func (r *PgxSegmentTypeRepository) SaveSegmentType(ctx context.Context, segmentType domain.SegmentType) error {
	modelType := mapping.ToModelSegmentType(segmentType)
	query := `
		INSERT INTO segment_types (segment_type_id, name, is_required, is_hierarchical, code_length, display_order, is_active, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		modelType.SegmentTypeID,
		modelType.Name,
		modelType.IsRequired,
		modelType.IsHierarchical,
		modelType.CodeLength,
		modelType.DisplayOrder,
		modelType.IsActive,
		modelType.CreatedAt,
		modelType.CreatedBy,
		modelType.LastUpdatedAt,
		modelType.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return fmt.Errorf("%w: segment type named %q already exists", apperrors.ErrDuplicate, modelType.Name)
		}
		return apperrors.NewAppError(500, "failed to insert segment type "+modelType.SegmentTypeID, err)
	}
	return nil
}

// FindSegmentTypeByID retrieves a segment type by its ID.
func (r *PgxSegmentTypeRepository) FindSegmentTypeByID(ctx context.Context, segmentTypeID string) (*domain.SegmentType, error) {
	query := `
		SELECT segment_type_id, name, is_required, is_hierarchical, code_length, display_order, is_active, created_at, created_by, last_updated_at, last_updated_by
		FROM segment_types
		WHERE segment_type_id = $1;
	`
	var modelType models.SegmentType
	err := r.Pool.QueryRow(ctx, query, segmentTypeID).Scan(
		&modelType.SegmentTypeID,
		&modelType.Name,
		&modelType.IsRequired,
		&modelType.IsHierarchical,
		&modelType.CodeLength,
		&modelType.DisplayOrder,
		&modelType.IsActive,
		&modelType.CreatedAt,
		&modelType.CreatedBy,
		&modelType.LastUpdatedAt,
		&modelType.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find segment type by ID "+segmentTypeID, err)
	}

	domainType := mapping.ToDomainSegmentType(modelType)
	return &domainType, nil
}

// ListSegmentTypes retrieves all segment types ordered for display.
func (r *PgxSegmentTypeRepository) ListSegmentTypes(ctx context.Context) ([]domain.SegmentType, error) {
	query := `
		SELECT segment_type_id, name, is_required, is_hierarchical, code_length, display_order, is_active, created_at, created_by, last_updated_at, last_updated_by
		FROM segment_types
		ORDER BY display_order, name;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query segment types", err)
	}
	defer rows.Close()

	types := []domain.SegmentType{}
	for rows.Next() {
		var modelType models.SegmentType
		err := rows.Scan(
			&modelType.SegmentTypeID,
			&modelType.Name,
			&modelType.IsRequired,
			&modelType.IsHierarchical,
			&modelType.CodeLength,
			&modelType.DisplayOrder,
			&modelType.IsActive,
			&modelType.CreatedAt,
			&modelType.CreatedBy,
			&modelType.LastUpdatedAt,
			&modelType.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan segment type row", err)
		}
		types = append(types, mapping.ToDomainSegmentType(modelType))
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating segment type rows", err)
	}

	return types, nil
}

// GetSegmentTypeUsage counts the rows that reference the type, directly or
// through its values.
func (r *PgxSegmentTypeRepository) GetSegmentTypeUsage(ctx context.Context, segmentTypeID string) (domain.SegmentTypeUsage, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM segment_values sv WHERE sv.segment_type_id = $1),
			(SELECT COUNT(DISTINCT cd.combination_id) FROM combination_details cd WHERE cd.segment_type_id = $1),
			(SELECT COUNT(*) FROM journal_lines jl
			 WHERE jl.combination_id IN (
				SELECT cd.combination_id FROM combination_details cd WHERE cd.segment_type_id = $1));
	`
	var usage domain.SegmentTypeUsage
	err := r.Pool.QueryRow(ctx, query, segmentTypeID).Scan(
		&usage.ValueCount,
		&usage.CombinationCount,
		&usage.LineCount,
	)
	if err != nil {
		return domain.SegmentTypeUsage{}, apperrors.NewAppError(500, "failed to count usage of segment type "+segmentTypeID, err)
	}
	return usage, nil
}

// UpdateSegmentType updates an existing segment type.
func (r *PgxSegmentTypeRepository) UpdateSegmentType(ctx context.Context, segmentType domain.SegmentType) error {
	modelType := mapping.ToModelSegmentType(segmentType)
	query := `
		UPDATE segment_types
		SET name = $2,
		    is_required = $3,
		    code_length = $4,
		    display_order = $5,
		    is_active = $6,
		    last_updated_at = $7,
		    last_updated_by = $8
		WHERE segment_type_id = $1;
	`
	// is_hierarchical is fixed at creation and intentionally not part of the SET list.
	cmdTag, err := r.Pool.Exec(ctx, query,
		modelType.SegmentTypeID,
		modelType.Name,
		modelType.IsRequired,
		modelType.CodeLength,
		modelType.DisplayOrder,
		modelType.IsActive,
		modelType.LastUpdatedAt,
		modelType.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return fmt.Errorf("%w: segment type named %q already exists", apperrors.ErrDuplicate, modelType.Name)
		}
		return apperrors.NewAppError(500, "failed to update segment type "+modelType.SegmentTypeID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteSegmentType removes a segment type. The usage check happens in the
// service layer; the FK translation below only catches writers racing the check.
func (r *PgxSegmentTypeRepository) DeleteSegmentType(ctx context.Context, segmentTypeID string) error {
	query := `
		DELETE FROM segment_types
		WHERE segment_type_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, segmentTypeID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return fmt.Errorf("%w: segment type %s is still referenced", apperrors.ErrConflict, segmentTypeID)
		}
		return apperrors.NewAppError(500, "failed to delete segment type "+segmentTypeID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

package repositories

import (
	"context"

	"github.com/fingrid-labs/gl_core/internal/core/domain"
)

// SegmentTypeReader defines read operations for segment type data
type SegmentTypeReader interface {
	// FindSegmentTypeByID retrieves a specific segment type by its unique identifier.
	FindSegmentTypeByID(ctx context.Context, segmentTypeID string) (*domain.SegmentType, error)

	// ListSegmentTypes retrieves all segment types ordered by display order.
	ListSegmentTypes(ctx context.Context) ([]domain.SegmentType, error)

	// GetSegmentTypeUsage counts the values, combinations and journal lines
	// that reference the type, directly or through its values.
	GetSegmentTypeUsage(ctx context.Context, segmentTypeID string) (domain.SegmentTypeUsage, error)
}

// SegmentTypeWriter defines write operations for segment type data
type SegmentTypeWriter interface {
	// SaveSegmentType persists a new segment type.
	SaveSegmentType(ctx context.Context, segmentType domain.SegmentType) error

	// UpdateSegmentType updates an existing segment type.
	UpdateSegmentType(ctx context.Context, segmentType domain.SegmentType) error

	// DeleteSegmentType removes a segment type. Callers must have verified it is unused.
	DeleteSegmentType(ctx context.Context, segmentTypeID string) error
}

// SegmentTypeRepositoryFacade combines all segment-type repository interfaces
type SegmentTypeRepositoryFacade interface {
	SegmentTypeReader
	SegmentTypeWriter
}

// SegmentTypeRepositoryWithTx extends SegmentTypeRepositoryFacade with transaction capabilities
type SegmentTypeRepositoryWithTx interface {
	SegmentTypeRepositoryFacade
	TransactionManager
}

// SegmentValueReader defines read operations for segment value data
type SegmentValueReader interface {
	// FindSegmentValueByID retrieves a specific segment value by its unique identifier.
	FindSegmentValueByID(ctx context.Context, segmentValueID string) (*domain.SegmentValue, error)

	// FindSegmentValue retrieves the value with the given code under the given type.
	FindSegmentValue(ctx context.Context, segmentTypeID string, code string) (*domain.SegmentValue, error)

	// FindSegmentValues retrieves the values for multiple (type, code) pairs in
	// one round trip, keyed by pair. Pairs with no matching value are absent
	// from the result.
	FindSegmentValues(ctx context.Context, pairs []domain.SegmentPair) (map[domain.SegmentPair]domain.SegmentValue, error)

	// ListSegmentValues retrieves all values of a segment type ordered by code.
	ListSegmentValues(ctx context.Context, segmentTypeID string) ([]domain.SegmentValue, error)

	// ListChildValues retrieves the direct children of the given code within its type.
	ListChildValues(ctx context.Context, segmentTypeID string, parentCode string) ([]domain.SegmentValue, error)

	// GetSegmentValueUsage counts the children, combinations and journal lines
	// that reference the value.
	GetSegmentValueUsage(ctx context.Context, segmentValueID string) (domain.SegmentValueUsage, error)
}

// SegmentValueWriter defines write operations for segment value data
type SegmentValueWriter interface {
	// SaveSegmentValue persists a new segment value.
	SaveSegmentValue(ctx context.Context, segmentValue domain.SegmentValue) error

	// UpdateSegmentValue updates an existing segment value.
	UpdateSegmentValue(ctx context.Context, segmentValue domain.SegmentValue) error

	// DeleteSegmentValue removes a segment value. Callers must have verified it is unused.
	DeleteSegmentValue(ctx context.Context, segmentValueID string) error
}

// SegmentValueRepositoryFacade combines all segment-value repository interfaces
type SegmentValueRepositoryFacade interface {
	SegmentValueReader
	SegmentValueWriter
}

// SegmentValueRepositoryWithTx extends SegmentValueRepositoryFacade with transaction capabilities
type SegmentValueRepositoryWithTx interface {
	SegmentValueRepositoryFacade
	TransactionManager
}

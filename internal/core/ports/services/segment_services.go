package services

import (
	"context"

	"github.com/fingrid-labs/gl_core/internal/core/domain"
	"github.com/fingrid-labs/gl_core/internal/dto"
)

// SegmentTypeReaderSvc defines read operations for segment types
type SegmentTypeReaderSvc interface {
	// GetSegmentTypeByID retrieves a specific segment type by its ID.
	GetSegmentTypeByID(ctx context.Context, segmentTypeID string) (*domain.SegmentType, error)

	// ListSegmentTypes retrieves all segment types ordered by display order.
	ListSegmentTypes(ctx context.Context) ([]domain.SegmentType, error)

	// CheckSegmentTypeUsage reports whether the type is referenced by values,
	// combinations or journal lines, with one detail string per reason.
	CheckSegmentTypeUsage(ctx context.Context, segmentTypeID string) (*dto.UsageResponse, error)
}

// SegmentTypeWriterSvc defines write operations for segment types
type SegmentTypeWriterSvc interface {
	// CreateSegmentType registers a new segment type.
	CreateSegmentType(ctx context.Context, req dto.CreateSegmentTypeRequest, creatorUserID string) (*domain.SegmentType, error)

	// UpdateSegmentType updates a segment type. Once any of the type's values
	// is referenced by a journal line, only display order and active flag may change.
	UpdateSegmentType(ctx context.Context, segmentTypeID string, req dto.UpdateSegmentTypeRequest, updaterUserID string) (*domain.SegmentType, error)

	// DeleteSegmentType removes an unused segment type. A type that is still
	// referenced is reported as a usage conflict listing every reason.
	DeleteSegmentType(ctx context.Context, segmentTypeID string) error
}

// SegmentTypeSvcFacade combines all segment-type service interfaces
type SegmentTypeSvcFacade interface {
	SegmentTypeReaderSvc
	SegmentTypeWriterSvc
}

// SegmentValueReaderSvc defines read operations for segment values
type SegmentValueReaderSvc interface {
	// GetSegmentValue retrieves the value with the given code under the given type.
	GetSegmentValue(ctx context.Context, segmentTypeID string, code string) (*domain.SegmentValue, error)

	// ListSegmentValues retrieves all values of a segment type ordered by code.
	ListSegmentValues(ctx context.Context, segmentTypeID string) ([]domain.SegmentValue, error)

	// CheckSegmentValueUsage reports whether the value is referenced by child
	// values, combinations or journal lines, with one detail string per reason.
	CheckSegmentValueUsage(ctx context.Context, segmentTypeID string, code string) (*dto.UsageResponse, error)
}

// SegmentHierarchyNavigatorSvc defines traversal operations over a type's value tree
type SegmentHierarchyNavigatorSvc interface {
	// ParentOf retrieves the parent of the given value, or nil when it has none.
	ParentOf(ctx context.Context, segmentTypeID string, code string) (*domain.SegmentValue, error)

	// FullPath retrieves the chain from the root ancestor down to the value
	// itself. When a parent link dangles the path stops below the missing hop.
	FullPath(ctx context.Context, segmentTypeID string, code string) ([]domain.SegmentValue, error)

	// Descendants retrieves every value below the given one, breadth first.
	Descendants(ctx context.Context, segmentTypeID string, code string) ([]domain.SegmentValue, error)
}

// SegmentValueWriterSvc defines write operations for segment values
type SegmentValueWriterSvc interface {
	// CreateSegmentValue adds a value to a segment type.
	CreateSegmentValue(ctx context.Context, req dto.CreateSegmentValueRequest, creatorUserID string) (*domain.SegmentValue, error)

	// UpdateSegmentValue updates a value addressed by its type and code.
	UpdateSegmentValue(ctx context.Context, segmentTypeID string, code string, req dto.UpdateSegmentValueRequest, updaterUserID string) (*domain.SegmentValue, error)

	// DeleteSegmentValue removes an unused segment value. A value that is still
	// referenced is reported as a usage conflict that points at deactivation instead.
	DeleteSegmentValue(ctx context.Context, segmentTypeID string, code string) error
}

// SegmentValueSvcFacade combines all segment-value service interfaces
type SegmentValueSvcFacade interface {
	SegmentValueReaderSvc
	SegmentHierarchyNavigatorSvc
	SegmentValueWriterSvc
}

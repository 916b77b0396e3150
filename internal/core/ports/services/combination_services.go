package services

import (
	"context"

	"github.com/fingrid-labs/gl_core/internal/core/domain"
	"github.com/fingrid-labs/gl_core/internal/dto"
)

// CombinationReaderSvc defines read operations for combinations
type CombinationReaderSvc interface {
	// GetCombinationByID retrieves a combination and its details by ID.
	GetCombinationByID(ctx context.Context, combinationID string) (*domain.Combination, error)

	// FindCombination retrieves the combination matching exactly the given
	// segment set, or ErrNotFound when none exists.
	FindCombination(ctx context.Context, pairs []dto.SegmentPair) (*domain.Combination, error)

	// FindCombinationIDsByFilter resolves a segment filter to the ids of the
	// combinations it matches.
	FindCombinationIDsByFilter(ctx context.Context, filter dto.SegmentFilter) ([]string, error)
}

// CombinationWriterSvc defines write operations for combinations
type CombinationWriterSvc interface {
	// ResolveCombination returns the id of the combination for the given
	// segment set, creating it first if it does not exist yet. Resolving the
	// same set always yields the same id.
	ResolveCombination(ctx context.Context, req dto.ResolveCombinationRequest, creatorUserID string) (string, error)

	// CreateCombination validates the segment set and persists a new
	// combination. An existing combination for the same set is reported as
	// ErrDuplicate.
	CreateCombination(ctx context.Context, pairs []dto.SegmentPair, description *string, creatorUserID string) (*domain.Combination, error)

	// UpdateCombination always returns ErrConflict: combinations are immutable
	// once created because ledger history references them.
	UpdateCombination(ctx context.Context, combinationID string) error

	// DeleteCombination always returns ErrConflict, same reason as UpdateCombination.
	DeleteCombination(ctx context.Context, combinationID string) error
}

// CombinationSvcFacade combines all combination service interfaces
type CombinationSvcFacade interface {
	CombinationReaderSvc
	CombinationWriterSvc
}

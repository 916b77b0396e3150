package repositories

import (
	"context"

	"github.com/fingrid-labs/gl_core/internal/core/domain"
)

// CombinationReader defines read operations for combination data
type CombinationReader interface {
	// FindCombinationByID retrieves a combination and its details by its unique identifier.
	FindCombinationByID(ctx context.Context, combinationID string) (*domain.Combination, error)

	// FindCombinationByFingerprint retrieves the combination whose canonical
	// fingerprint matches, with details. Fingerprint equality is exactly
	// set-equality of the (type, code) pairs.
	FindCombinationByFingerprint(ctx context.Context, fingerprint string) (*domain.Combination, error)

	// FindCombinationIDsByAnySegment returns ids of combinations pinned to at
	// least one of the given (type, code) pairs.
	FindCombinationIDsByAnySegment(ctx context.Context, pairs []domain.SegmentPair) ([]string, error)

	// FindCombinationIDsByAllSegments returns ids of combinations pinned to
	// every one of the given (type, code) pairs.
	FindCombinationIDsByAllSegments(ctx context.Context, pairs []domain.SegmentPair) ([]string, error)
}

// CombinationWriter defines write operations for combination data
type CombinationWriter interface {
	// SaveCombination persists a combination and its details within a transaction.
	// A fingerprint uniqueness violation is reported as ErrDuplicate so callers
	// can rerun the find.
	SaveCombination(ctx context.Context, combination domain.Combination) error
}

// CombinationRepositoryFacade combines all combination repository interfaces
type CombinationRepositoryFacade interface {
	CombinationReader
	CombinationWriter
}

// CombinationRepositoryWithTx extends CombinationRepositoryFacade with transaction capabilities
type CombinationRepositoryWithTx interface {
	CombinationRepositoryFacade
	TransactionManager
}

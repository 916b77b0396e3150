package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/fingrid-labs/gl_core/internal/apperrors"
	"github.com/fingrid-labs/gl_core/internal/core/domain"
	portsrepo "github.com/fingrid-labs/gl_core/internal/core/ports/repositories"
	portssvc "github.com/fingrid-labs/gl_core/internal/core/ports/services"
	"github.com/fingrid-labs/gl_core/internal/dto"
	"github.com/fingrid-labs/gl_core/internal/platform/clock"
	"github.com/fingrid-labs/gl_core/internal/platform/logging"
)

// maxResolveAttempts bounds the find-create-refind loop when concurrent
// resolvers race on the same segment set.
const maxResolveAttempts = 3

// combinationService interns segment combinations: one immutable combination
// row per distinct segment set, found or created on demand.
type combinationService struct {
	combinationRepo  portsrepo.CombinationRepositoryFacade
	segmentTypeRepo  portsrepo.SegmentTypeReader
	segmentValueRepo portsrepo.SegmentValueReader
	clock            clock.Clock
}

// NewCombinationService creates a new CombinationService.
func NewCombinationService(combinationRepo portsrepo.CombinationRepositoryFacade, segmentTypeRepo portsrepo.SegmentTypeReader, segmentValueRepo portsrepo.SegmentValueReader, clk clock.Clock) portssvc.CombinationSvcFacade {
	return &combinationService{
		combinationRepo:  combinationRepo,
		segmentTypeRepo:  segmentTypeRepo,
		segmentValueRepo: segmentValueRepo,
		clock:            clk,
	}
}

// Ensure combinationService implements the portssvc.CombinationSvcFacade interface
var _ portssvc.CombinationSvcFacade = (*combinationService)(nil)

// normalizeSegmentInput trims and checks the raw pairs: the set must be
// non-empty, every field non-blank and no segment type named twice.
func normalizeSegmentInput(pairs []dto.SegmentPair) ([]domain.SegmentPair, error) {
	if len(pairs) == 0 {
		return nil, fmt.Errorf("%w: at least one segment pair is required", apperrors.ErrValidation)
	}

	normalized := make([]domain.SegmentPair, len(pairs))
	seenTypes := make(map[string]bool, len(pairs))
	for i, p := range pairs {
		typeID := strings.TrimSpace(p.SegmentTypeID)
		code := strings.TrimSpace(p.SegmentCode)
		if typeID == "" || code == "" {
			return nil, fmt.Errorf("%w: segment pairs must carry both a segment type and a code", apperrors.ErrValidation)
		}
		if seenTypes[typeID] {
			return nil, fmt.Errorf("%w: segment type %s", apperrors.ErrDuplicateSegmentType, typeID)
		}
		seenTypes[typeID] = true
		normalized[i] = domain.SegmentPair{SegmentTypeID: typeID, Code: code}
	}
	return normalized, nil
}

// validateSegments checks that every pair names an existing type and an
// existing code under that type. Inactive values do not block: existence is
// the only requirement for interning. Returns the matched values keyed by pair.
func (s *combinationService) validateSegments(ctx context.Context, pairs []domain.SegmentPair) (map[domain.SegmentPair]domain.SegmentValue, error) {
	for _, p := range pairs {
		if _, err := s.segmentTypeRepo.FindSegmentTypeByID(ctx, p.SegmentTypeID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: segment type %s does not exist", apperrors.ErrUnknownSegment, p.SegmentTypeID)
			}
			return nil, fmt.Errorf("failed to find segment type %s: %w", p.SegmentTypeID, err)
		}
	}

	values, err := s.segmentValueRepo.FindSegmentValues(ctx, pairs)
	if err != nil {
		return nil, fmt.Errorf("failed to look up segment values: %w", err)
	}
	for _, p := range pairs {
		if _, ok := values[p]; !ok {
			return nil, fmt.Errorf("%w: code %q does not exist under segment type %s", apperrors.ErrUnknownSegment, p.Code, p.SegmentTypeID)
		}
	}
	return values, nil
}

// GetCombinationByID retrieves a combination and its details by ID.
// Implements portssvc.CombinationSvcFacade
func (s *combinationService) GetCombinationByID(ctx context.Context, combinationID string) (*domain.Combination, error) {
	combination, err := s.combinationRepo.FindCombinationByID(ctx, combinationID)
	if err != nil {
		return nil, fmt.Errorf("failed to find combination %s: %w", combinationID, err)
	}
	return combination, nil
}

// FindCombination retrieves the combination matching exactly the given segment
// set. Matching is set equality: same cardinality and every pair present,
// regardless of order.
// Implements portssvc.CombinationSvcFacade
func (s *combinationService) FindCombination(ctx context.Context, pairs []dto.SegmentPair) (*domain.Combination, error) {
	normalized, err := normalizeSegmentInput(pairs)
	if err != nil {
		return nil, err
	}

	combination, err := s.combinationRepo.FindCombinationByFingerprint(ctx, domain.Fingerprint(normalized))
	if err != nil {
		return nil, fmt.Errorf("failed to find combination for segment set: %w", err)
	}
	return combination, nil
}

// CreateCombination validates the segment set and persists a new combination
// with one detail per pair, atomically. A combination already interned for the
// same set is reported as ErrDuplicate.
// Implements portssvc.CombinationSvcFacade
func (s *combinationService) CreateCombination(ctx context.Context, pairs []dto.SegmentPair, description *string, creatorUserID string) (*domain.Combination, error) {
	logger := logging.FromContext(ctx)

	normalized, err := normalizeSegmentInput(pairs)
	if err != nil {
		return nil, err
	}
	values, err := s.validateSegments(ctx, normalized)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	combination := domain.Combination{
		CombinationID: uuid.NewString(),
		Description:   description,
		IsActive:      true,
		Fingerprint:   domain.Fingerprint(normalized),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	combination.Details = make([]domain.CombinationDetail, len(normalized))
	for i, p := range normalized {
		value := values[p]
		combination.Details[i] = domain.CombinationDetail{
			CombinationDetailID: uuid.NewString(),
			CombinationID:       combination.CombinationID,
			SegmentTypeID:       p.SegmentTypeID,
			SegmentValueID:      value.SegmentValueID,
			Code:                p.Code,
		}
	}

	if err := s.combinationRepo.SaveCombination(ctx, combination); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			logger.Debug("Combination already interned for segment set", slog.String("fingerprint", combination.Fingerprint))
			return nil, fmt.Errorf("%w: a combination for this segment set already exists", apperrors.ErrDuplicate)
		}
		logger.Error("Failed to save combination", slog.String("error", err.Error()), slog.String("fingerprint", combination.Fingerprint))
		return nil, fmt.Errorf("failed to save combination: %w", err)
	}

	logger.Info("Combination created successfully", slog.String("combination_id", combination.CombinationID), slog.Int("segments", len(combination.Details)))
	return &combination, nil
}

// ResolveCombination returns the id of the combination for the given segment
// set, creating it first if it does not exist yet. Concurrent resolvers may
// race on the insert; the loser reruns the find, bounded by maxResolveAttempts.
// Implements portssvc.CombinationSvcFacade
func (s *combinationService) ResolveCombination(ctx context.Context, req dto.ResolveCombinationRequest, creatorUserID string) (string, error) {
	logger := logging.FromContext(ctx)

	if err := req.Validate(); err != nil {
		return "", err
	}
	normalized, err := normalizeSegmentInput(req.Segments)
	if err != nil {
		return "", err
	}
	fingerprint := domain.Fingerprint(normalized)

	for attempt := 1; attempt <= maxResolveAttempts; attempt++ {
		combination, err := s.combinationRepo.FindCombinationByFingerprint(ctx, fingerprint)
		if err == nil {
			return combination.CombinationID, nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return "", fmt.Errorf("failed to find combination for segment set: %w", err)
		}

		created, err := s.CreateCombination(ctx, req.Segments, req.Description, creatorUserID)
		if err == nil {
			return created.CombinationID, nil
		}
		if !errors.Is(err, apperrors.ErrDuplicate) {
			return "", err
		}
		// Lost the insert race; the winner's row will satisfy the next find.
		logger.Debug("Combination insert race lost, retrying find", slog.String("fingerprint", fingerprint), slog.Int("attempt", attempt))
	}

	logger.Error("Combination resolution exhausted retries", slog.String("fingerprint", fingerprint))
	return "", fmt.Errorf("%w: could not resolve combination after %d attempts", apperrors.ErrInternal, maxResolveAttempts)
}

// FindCombinationIDsByFilter resolves a segment filter to the ids of the
// combinations it matches.
// Implements portssvc.CombinationSvcFacade
func (s *combinationService) FindCombinationIDsByFilter(ctx context.Context, filter dto.SegmentFilter) ([]string, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	switch {
	case filter.Segment != nil:
		pair := domain.SegmentPair{SegmentTypeID: strings.TrimSpace(filter.Segment.SegmentTypeID), Code: strings.TrimSpace(filter.Segment.SegmentCode)}
		ids, err := s.combinationRepo.FindCombinationIDsByAnySegment(ctx, []domain.SegmentPair{pair})
		if err != nil {
			return nil, fmt.Errorf("failed to find combinations by segment: %w", err)
		}
		return ids, nil
	case len(filter.All) > 0:
		ids, err := s.combinationRepo.FindCombinationIDsByAllSegments(ctx, trimPairs(filter.All))
		if err != nil {
			return nil, fmt.Errorf("failed to find combinations by segment set: %w", err)
		}
		return ids, nil
	default:
		ids, err := s.combinationRepo.FindCombinationIDsByAnySegment(ctx, trimPairs(filter.Any))
		if err != nil {
			return nil, fmt.Errorf("failed to find combinations by segments: %w", err)
		}
		return ids, nil
	}
}

// trimPairs converts filter pairs to domain pairs. Unlike interning input,
// filters may name the same segment type more than once.
func trimPairs(pairs []dto.SegmentPair) []domain.SegmentPair {
	out := make([]domain.SegmentPair, len(pairs))
	for i, p := range pairs {
		out[i] = domain.SegmentPair{SegmentTypeID: strings.TrimSpace(p.SegmentTypeID), Code: strings.TrimSpace(p.SegmentCode)}
	}
	return out
}

// UpdateCombination always returns ErrConflict: combinations are immutable
// once created because ledger history references them.
// Implements portssvc.CombinationSvcFacade
func (s *combinationService) UpdateCombination(ctx context.Context, combinationID string) error {
	logger := logging.FromContext(ctx)
	logger.Warn("Rejected attempt to update a combination", slog.String("combination_id", combinationID))
	return fmt.Errorf("%w: combinations are immutable once created", apperrors.ErrConflict)
}

// DeleteCombination always returns ErrConflict, same reason as UpdateCombination.
// Implements portssvc.CombinationSvcFacade
func (s *combinationService) DeleteCombination(ctx context.Context, combinationID string) error {
	logger := logging.FromContext(ctx)
	logger.Warn("Rejected attempt to delete a combination", slog.String("combination_id", combinationID))
	return fmt.Errorf("%w: combinations are immutable once created", apperrors.ErrConflict)
}

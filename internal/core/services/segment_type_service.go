package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/fingrid-labs/gl_core/internal/apperrors"
	"github.com/fingrid-labs/gl_core/internal/core/domain"
	portsrepo "github.com/fingrid-labs/gl_core/internal/core/ports/repositories"
	portssvc "github.com/fingrid-labs/gl_core/internal/core/ports/services"
	"github.com/fingrid-labs/gl_core/internal/dto"
	"github.com/fingrid-labs/gl_core/internal/platform/clock"
	"github.com/fingrid-labs/gl_core/internal/platform/logging"
)

// segmentTypeService provides segment type registry operations.
type segmentTypeService struct {
	segmentTypeRepo portsrepo.SegmentTypeRepositoryFacade
	clock           clock.Clock
}

// NewSegmentTypeService creates a new SegmentTypeService.
func NewSegmentTypeService(segmentTypeRepo portsrepo.SegmentTypeRepositoryFacade, clk clock.Clock) portssvc.SegmentTypeSvcFacade {
	return &segmentTypeService{
		segmentTypeRepo: segmentTypeRepo,
		clock:           clk,
	}
}

// Ensure segmentTypeService implements the portssvc.SegmentTypeSvcFacade interface
var _ portssvc.SegmentTypeSvcFacade = (*segmentTypeService)(nil)

// CreateSegmentType registers a new segment type.
// Implements portssvc.SegmentTypeSvcFacade
func (s *segmentTypeService) CreateSegmentType(ctx context.Context, req dto.CreateSegmentTypeRequest, creatorUserID string) (*domain.SegmentType, error) {
	logger := logging.FromContext(ctx)

	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	segmentType := domain.SegmentType{
		SegmentTypeID:  uuid.NewString(),
		Name:           req.Name,
		IsRequired:     req.IsRequired,
		IsHierarchical: req.IsHierarchical,
		CodeLength:     req.CodeLength,
		DisplayOrder:   req.DisplayOrder,
		IsActive:       true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.segmentTypeRepo.SaveSegmentType(ctx, segmentType); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			logger.Warn("Segment type name already taken", slog.String("name", req.Name))
			return nil, fmt.Errorf("%w: segment type name %q already exists", apperrors.ErrDuplicate, req.Name)
		}
		logger.Error("Failed to save segment type", slog.String("error", err.Error()), slog.String("name", req.Name))
		return nil, fmt.Errorf("failed to save segment type: %w", err)
	}

	logger.Info("Segment type created successfully", slog.String("segment_type_id", segmentType.SegmentTypeID), slog.String("name", segmentType.Name))
	return &segmentType, nil
}

// UpdateSegmentType updates a segment type. Once any of the type's values is
// referenced by a journal line the structural fields are frozen; only display
// order and the active flag stay mutable.
// Implements portssvc.SegmentTypeSvcFacade
func (s *segmentTypeService) UpdateSegmentType(ctx context.Context, segmentTypeID string, req dto.UpdateSegmentTypeRequest, updaterUserID string) (*domain.SegmentType, error) {
	logger := logging.FromContext(ctx)

	if err := req.Validate(); err != nil {
		return nil, err
	}

	segmentType, err := s.segmentTypeRepo.FindSegmentTypeByID(ctx, segmentTypeID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Segment type not found for update", slog.String("segment_type_id", segmentTypeID))
		} else {
			logger.Error("Failed to find segment type for update", slog.String("error", err.Error()), slog.String("segment_type_id", segmentTypeID))
		}
		return nil, err
	}

	touchesStructure := req.Name != nil || req.IsRequired != nil || req.CodeLength != nil
	if touchesStructure {
		usage, err := s.segmentTypeRepo.GetSegmentTypeUsage(ctx, segmentTypeID)
		if err != nil {
			logger.Error("Failed to check segment type usage before update", slog.String("error", err.Error()), slog.String("segment_type_id", segmentTypeID))
			return nil, fmt.Errorf("failed to check segment type usage: %w", err)
		}
		if usage.LineCount > 0 {
			logger.Warn("Attempt to change structural fields of a segment type in ledger use", slog.String("segment_type_id", segmentTypeID), slog.Int64("line_count", usage.LineCount))
			return nil, fmt.Errorf("%w: segment type %s is referenced by journal lines; only display order and active flag may change", apperrors.ErrConflict, segmentTypeID)
		}
	}

	updated := false
	if req.Name != nil {
		segmentType.Name = *req.Name
		updated = true
	}
	if req.IsRequired != nil {
		segmentType.IsRequired = *req.IsRequired
		updated = true
	}
	if req.CodeLength != nil {
		segmentType.CodeLength = *req.CodeLength
		updated = true
	}
	if req.DisplayOrder != nil {
		segmentType.DisplayOrder = *req.DisplayOrder
		updated = true
	}
	if req.IsActive != nil {
		segmentType.IsActive = *req.IsActive
		updated = true
	}

	if !updated {
		logger.Debug("No fields provided for segment type update", slog.String("segment_type_id", segmentTypeID))
		return segmentType, nil
	}

	now := s.clock.Now()
	segmentType.LastUpdatedAt = now
	segmentType.LastUpdatedBy = updaterUserID

	if err := s.segmentTypeRepo.UpdateSegmentType(ctx, *segmentType); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: segment type name %q already exists", apperrors.ErrDuplicate, segmentType.Name)
		}
		logger.Error("Failed to save segment type update", slog.String("error", err.Error()), slog.String("segment_type_id", segmentTypeID))
		return nil, fmt.Errorf("failed to save segment type update: %w", err)
	}

	logger.Info("Segment type updated successfully", slog.String("segment_type_id", segmentTypeID))
	return segmentType, nil
}

// GetSegmentTypeByID retrieves a specific segment type by its ID.
// Implements portssvc.SegmentTypeSvcFacade
func (s *segmentTypeService) GetSegmentTypeByID(ctx context.Context, segmentTypeID string) (*domain.SegmentType, error) {
	logger := logging.FromContext(ctx)

	segmentType, err := s.segmentTypeRepo.FindSegmentTypeByID(ctx, segmentTypeID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find segment type by ID", slog.String("error", err.Error()), slog.String("segment_type_id", segmentTypeID))
		}
		return nil, fmt.Errorf("failed to find segment type %s: %w", segmentTypeID, err)
	}
	return segmentType, nil
}

// ListSegmentTypes retrieves all segment types ordered by display order.
// Implements portssvc.SegmentTypeSvcFacade
func (s *segmentTypeService) ListSegmentTypes(ctx context.Context) ([]domain.SegmentType, error) {
	logger := logging.FromContext(ctx)

	types, err := s.segmentTypeRepo.ListSegmentTypes(ctx)
	if err != nil {
		logger.Error("Failed to list segment types", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list segment types: %w", err)
	}
	return types, nil
}

// CheckSegmentTypeUsage reports whether the type is referenced anywhere that
// blocks deletion, with one detail string per reason.
// Implements portssvc.SegmentTypeSvcFacade
func (s *segmentTypeService) CheckSegmentTypeUsage(ctx context.Context, segmentTypeID string) (*dto.UsageResponse, error) {
	logger := logging.FromContext(ctx)

	if _, err := s.segmentTypeRepo.FindSegmentTypeByID(ctx, segmentTypeID); err != nil {
		return nil, fmt.Errorf("failed to find segment type %s: %w", segmentTypeID, err)
	}

	usage, err := s.segmentTypeRepo.GetSegmentTypeUsage(ctx, segmentTypeID)
	if err != nil {
		logger.Error("Failed to check segment type usage", slog.String("error", err.Error()), slog.String("segment_type_id", segmentTypeID))
		return nil, fmt.Errorf("failed to check segment type usage: %w", err)
	}

	return &dto.UsageResponse{
		IsUsed:       usage.ValueCount > 0 || usage.CombinationCount > 0 || usage.LineCount > 0,
		UsageDetails: segmentTypeUsageDetails(usage),
	}, nil
}

// DeleteSegmentType removes an unused segment type. A type that is still
// referenced is rejected with every reason listed.
// Implements portssvc.SegmentTypeSvcFacade
func (s *segmentTypeService) DeleteSegmentType(ctx context.Context, segmentTypeID string) error {
	logger := logging.FromContext(ctx)

	segmentType, err := s.segmentTypeRepo.FindSegmentTypeByID(ctx, segmentTypeID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Segment type not found for delete", slog.String("segment_type_id", segmentTypeID))
		}
		return fmt.Errorf("failed to find segment type %s: %w", segmentTypeID, err)
	}

	usage, err := s.segmentTypeRepo.GetSegmentTypeUsage(ctx, segmentTypeID)
	if err != nil {
		logger.Error("Failed to check segment type usage before delete", slog.String("error", err.Error()), slog.String("segment_type_id", segmentTypeID))
		return fmt.Errorf("failed to check segment type usage: %w", err)
	}
	if reasons := segmentTypeUsageDetails(usage); len(reasons) > 0 {
		logger.Warn("Refusing to delete segment type in use", slog.String("segment_type_id", segmentTypeID), slog.Int("reasons", len(reasons)))
		return apperrors.NewUsageError("segment type", segmentType.Name, reasons, "deactivate the type instead of deleting it")
	}

	if err := s.segmentTypeRepo.DeleteSegmentType(ctx, segmentTypeID); err != nil {
		logger.Error("Failed to delete segment type", slog.String("error", err.Error()), slog.String("segment_type_id", segmentTypeID))
		return fmt.Errorf("failed to delete segment type: %w", err)
	}

	logger.Info("Segment type deleted successfully", slog.String("segment_type_id", segmentTypeID))
	return nil
}

// segmentTypeUsageDetails renders one human-readable reason per live reference kind.
func segmentTypeUsageDetails(usage domain.SegmentTypeUsage) []string {
	var details []string
	if usage.ValueCount > 0 {
		details = append(details, fmt.Sprintf("%d segment values belong to this type", usage.ValueCount))
	}
	if usage.CombinationCount > 0 {
		details = append(details, fmt.Sprintf("%d combinations pin a value of this type", usage.CombinationCount))
	}
	if usage.LineCount > 0 {
		details = append(details, fmt.Sprintf("%d journal lines post to combinations using this type", usage.LineCount))
	}
	return details
}

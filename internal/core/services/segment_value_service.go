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

// segmentValueService provides catalog operations for the values of a segment
// type, including traversal of the value hierarchy.
type segmentValueService struct {
	segmentValueRepo portsrepo.SegmentValueRepositoryFacade
	segmentTypeRepo  portsrepo.SegmentTypeReader
	clock            clock.Clock
}

// NewSegmentValueService creates a new SegmentValueService.
func NewSegmentValueService(segmentValueRepo portsrepo.SegmentValueRepositoryFacade, segmentTypeRepo portsrepo.SegmentTypeReader, clk clock.Clock) portssvc.SegmentValueSvcFacade {
	return &segmentValueService{
		segmentValueRepo: segmentValueRepo,
		segmentTypeRepo:  segmentTypeRepo,
		clock:            clk,
	}
}

// Ensure segmentValueService implements the portssvc.SegmentValueSvcFacade interface
var _ portssvc.SegmentValueSvcFacade = (*segmentValueService)(nil)

// CreateSegmentValue adds a value to a segment type after validating the type,
// the code length and the parent link.
// Implements portssvc.SegmentValueSvcFacade
func (s *segmentValueService) CreateSegmentValue(ctx context.Context, req dto.CreateSegmentValueRequest, creatorUserID string) (*domain.SegmentValue, error) {
	logger := logging.FromContext(ctx)

	if err := req.Validate(); err != nil {
		return nil, err
	}

	segmentType, err := s.segmentTypeRepo.FindSegmentTypeByID(ctx, req.SegmentTypeID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: segment type %s does not exist", apperrors.ErrUnknownSegment, req.SegmentTypeID)
		}
		logger.Error("Failed to find segment type for value creation", slog.String("error", err.Error()), slog.String("segment_type_id", req.SegmentTypeID))
		return nil, fmt.Errorf("failed to find segment type: %w", err)
	}
	if !segmentType.IsActive {
		return nil, fmt.Errorf("%w: segment type %s is inactive", apperrors.ErrValidation, req.SegmentTypeID)
	}
	if segmentType.CodeLength > 0 && len(req.Code) != segmentType.CodeLength {
		return nil, fmt.Errorf("%w: code %q must be exactly %d characters for segment type %s", apperrors.ErrValidation, req.Code, segmentType.CodeLength, segmentType.Name)
	}

	nodeKind := domain.NodeLeaf
	if req.NodeKind != "" {
		nodeKind = domain.NodeKind(req.NodeKind)
	}

	if req.ParentCode != nil {
		if err := s.validateParentLink(ctx, segmentType, req.Code, *req.ParentCode, nodeKind); err != nil {
			return nil, err
		}
	}

	now := s.clock.Now()
	segmentValue := domain.SegmentValue{
		SegmentValueID: uuid.NewString(),
		SegmentTypeID:  req.SegmentTypeID,
		Code:           req.Code,
		ParentCode:     req.ParentCode,
		NodeKind:       nodeKind,
		Alias:          req.Alias,
		IsActive:       true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.segmentValueRepo.SaveSegmentValue(ctx, segmentValue); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			logger.Warn("Segment value code already taken", slog.String("segment_type_id", req.SegmentTypeID), slog.String("code", req.Code))
			return nil, fmt.Errorf("%w: code %q already exists under segment type %s", apperrors.ErrDuplicate, req.Code, req.SegmentTypeID)
		}
		logger.Error("Failed to save segment value", slog.String("error", err.Error()), slog.String("code", req.Code))
		return nil, fmt.Errorf("failed to save segment value: %w", err)
	}

	logger.Info("Segment value created successfully", slog.String("segment_value_id", segmentValue.SegmentValueID), slog.String("segment_type_id", req.SegmentTypeID), slog.String("code", req.Code))
	return &segmentValue, nil
}

// validateParentLink enforces the hierarchy rules for a value's parent code.
func (s *segmentValueService) validateParentLink(ctx context.Context, segmentType *domain.SegmentType, code, parentCode string, nodeKind domain.NodeKind) error {
	if !segmentType.IsHierarchical {
		return fmt.Errorf("%w: segment type %s is not hierarchical", apperrors.ErrValidation, segmentType.SegmentTypeID)
	}
	if nodeKind == domain.NodeRoot {
		return fmt.Errorf("%w: a ROOT value cannot have a parent", apperrors.ErrValidation)
	}
	if parentCode == code {
		return fmt.Errorf("%w: value %q cannot be its own parent", apperrors.ErrValidation, code)
	}

	parent, err := s.segmentValueRepo.FindSegmentValue(ctx, segmentType.SegmentTypeID, parentCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: parent code %q does not exist under segment type %s", apperrors.ErrValidation, parentCode, segmentType.SegmentTypeID)
		}
		return fmt.Errorf("failed to find parent value: %w", err)
	}
	if !parent.IsActive {
		return fmt.Errorf("%w: parent code %q is inactive", apperrors.ErrValidation, parentCode)
	}
	if parent.NodeKind == domain.NodeLeaf {
		return fmt.Errorf("%w: parent code %q is a LEAF and cannot have children", apperrors.ErrValidation, parentCode)
	}
	return nil
}

// UpdateSegmentValue updates a value addressed by its type and code. The code
// itself never changes. An empty parent code in the request clears the parent link.
// Implements portssvc.SegmentValueSvcFacade
func (s *segmentValueService) UpdateSegmentValue(ctx context.Context, segmentTypeID string, code string, req dto.UpdateSegmentValueRequest, updaterUserID string) (*domain.SegmentValue, error) {
	logger := logging.FromContext(ctx)

	if err := req.Validate(); err != nil {
		return nil, err
	}

	segmentValue, err := s.segmentValueRepo.FindSegmentValue(ctx, segmentTypeID, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Segment value not found for update", slog.String("segment_type_id", segmentTypeID), slog.String("code", code))
		}
		return nil, fmt.Errorf("failed to find segment value %s/%s: %w", segmentTypeID, code, err)
	}

	updated := false
	if req.NodeKind != nil {
		segmentValue.NodeKind = domain.NodeKind(*req.NodeKind)
		updated = true
	}
	if req.ParentCode != nil {
		if *req.ParentCode == "" {
			segmentValue.ParentCode = nil
		} else {
			segmentType, err := s.segmentTypeRepo.FindSegmentTypeByID(ctx, segmentTypeID)
			if err != nil {
				return nil, fmt.Errorf("failed to find segment type: %w", err)
			}
			if err := s.validateParentLink(ctx, segmentType, code, *req.ParentCode, segmentValue.NodeKind); err != nil {
				return nil, err
			}
			segmentValue.ParentCode = req.ParentCode
		}
		updated = true
	}
	if req.Alias != nil {
		segmentValue.Alias = *req.Alias
		updated = true
	}
	if req.IsActive != nil {
		segmentValue.IsActive = *req.IsActive
		updated = true
	}

	if !updated {
		logger.Debug("No fields provided for segment value update", slog.String("segment_type_id", segmentTypeID), slog.String("code", code))
		return segmentValue, nil
	}

	now := s.clock.Now()
	segmentValue.LastUpdatedAt = now
	segmentValue.LastUpdatedBy = updaterUserID

	if err := s.segmentValueRepo.UpdateSegmentValue(ctx, *segmentValue); err != nil {
		logger.Error("Failed to save segment value update", slog.String("error", err.Error()), slog.String("segment_value_id", segmentValue.SegmentValueID))
		return nil, fmt.Errorf("failed to save segment value update: %w", err)
	}

	logger.Info("Segment value updated successfully", slog.String("segment_value_id", segmentValue.SegmentValueID))
	return segmentValue, nil
}

// GetSegmentValue retrieves the value with the given code under the given type.
// Implements portssvc.SegmentValueSvcFacade
func (s *segmentValueService) GetSegmentValue(ctx context.Context, segmentTypeID string, code string) (*domain.SegmentValue, error) {
	segmentValue, err := s.segmentValueRepo.FindSegmentValue(ctx, segmentTypeID, code)
	if err != nil {
		return nil, fmt.Errorf("failed to find segment value %s/%s: %w", segmentTypeID, code, err)
	}
	return segmentValue, nil
}

// ListSegmentValues retrieves all values of a segment type ordered by code.
// Implements portssvc.SegmentValueSvcFacade
func (s *segmentValueService) ListSegmentValues(ctx context.Context, segmentTypeID string) ([]domain.SegmentValue, error) {
	logger := logging.FromContext(ctx)

	if _, err := s.segmentTypeRepo.FindSegmentTypeByID(ctx, segmentTypeID); err != nil {
		return nil, fmt.Errorf("failed to find segment type %s: %w", segmentTypeID, err)
	}

	values, err := s.segmentValueRepo.ListSegmentValues(ctx, segmentTypeID)
	if err != nil {
		logger.Error("Failed to list segment values", slog.String("error", err.Error()), slog.String("segment_type_id", segmentTypeID))
		return nil, fmt.Errorf("failed to list segment values: %w", err)
	}
	return values, nil
}

// ParentOf retrieves the parent of the given value, or nil when it has none.
// A dangling parent link is reported as ErrNotFound.
// Implements portssvc.SegmentValueSvcFacade
func (s *segmentValueService) ParentOf(ctx context.Context, segmentTypeID string, code string) (*domain.SegmentValue, error) {
	segmentValue, err := s.segmentValueRepo.FindSegmentValue(ctx, segmentTypeID, code)
	if err != nil {
		return nil, fmt.Errorf("failed to find segment value %s/%s: %w", segmentTypeID, code, err)
	}
	if segmentValue.ParentCode == nil {
		return nil, nil
	}

	parent, err := s.segmentValueRepo.FindSegmentValue(ctx, segmentTypeID, *segmentValue.ParentCode)
	if err != nil {
		return nil, fmt.Errorf("failed to find parent %q of value %s/%s: %w", *segmentValue.ParentCode, segmentTypeID, code, err)
	}
	return parent, nil
}

// FullPath retrieves the chain from the root ancestor down to the value itself.
// The walk stops below a dangling parent link and refuses to loop on cycles.
// Implements portssvc.SegmentValueSvcFacade
func (s *segmentValueService) FullPath(ctx context.Context, segmentTypeID string, code string) ([]domain.SegmentValue, error) {
	logger := logging.FromContext(ctx)

	segmentValue, err := s.segmentValueRepo.FindSegmentValue(ctx, segmentTypeID, code)
	if err != nil {
		return nil, fmt.Errorf("failed to find segment value %s/%s: %w", segmentTypeID, code, err)
	}

	path := []domain.SegmentValue{*segmentValue}
	seen := map[string]bool{segmentValue.Code: true}

	current := segmentValue
	for current.ParentCode != nil {
		parent, err := s.segmentValueRepo.FindSegmentValue(ctx, segmentTypeID, *current.ParentCode)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				logger.Warn("Dangling parent link in segment hierarchy", slog.String("segment_type_id", segmentTypeID), slog.String("code", current.Code), slog.String("parent_code", *current.ParentCode))
				break
			}
			return nil, fmt.Errorf("failed to walk hierarchy for %s/%s: %w", segmentTypeID, code, err)
		}
		if seen[parent.Code] {
			logger.Warn("Cycle detected in segment hierarchy", slog.String("segment_type_id", segmentTypeID), slog.String("code", parent.Code))
			break
		}
		seen[parent.Code] = true
		path = append([]domain.SegmentValue{*parent}, path...)
		current = parent
	}

	return path, nil
}

// Descendants retrieves every value below the given one, breadth first.
// Implements portssvc.SegmentValueSvcFacade
func (s *segmentValueService) Descendants(ctx context.Context, segmentTypeID string, code string) ([]domain.SegmentValue, error) {
	logger := logging.FromContext(ctx)

	if _, err := s.segmentValueRepo.FindSegmentValue(ctx, segmentTypeID, code); err != nil {
		return nil, fmt.Errorf("failed to find segment value %s/%s: %w", segmentTypeID, code, err)
	}

	var descendants []domain.SegmentValue
	seen := map[string]bool{code: true}
	queue := []string{code}

	for len(queue) > 0 {
		currentCode := queue[0]
		queue = queue[1:]

		children, err := s.segmentValueRepo.ListChildValues(ctx, segmentTypeID, currentCode)
		if err != nil {
			logger.Error("Failed to list child values", slog.String("error", err.Error()), slog.String("segment_type_id", segmentTypeID), slog.String("parent_code", currentCode))
			return nil, fmt.Errorf("failed to list children of %s/%s: %w", segmentTypeID, currentCode, err)
		}
		for _, child := range children {
			if seen[child.Code] {
				continue
			}
			seen[child.Code] = true
			descendants = append(descendants, child)
			queue = append(queue, child.Code)
		}
	}

	return descendants, nil
}

// CheckSegmentValueUsage reports whether the value is referenced anywhere that
// blocks deletion, with one detail string per reason.
// Implements portssvc.SegmentValueSvcFacade
func (s *segmentValueService) CheckSegmentValueUsage(ctx context.Context, segmentTypeID string, code string) (*dto.UsageResponse, error) {
	logger := logging.FromContext(ctx)

	segmentValue, err := s.segmentValueRepo.FindSegmentValue(ctx, segmentTypeID, code)
	if err != nil {
		return nil, fmt.Errorf("failed to find segment value %s/%s: %w", segmentTypeID, code, err)
	}

	usage, err := s.segmentValueRepo.GetSegmentValueUsage(ctx, segmentValue.SegmentValueID)
	if err != nil {
		logger.Error("Failed to check segment value usage", slog.String("error", err.Error()), slog.String("segment_value_id", segmentValue.SegmentValueID))
		return nil, fmt.Errorf("failed to check segment value usage: %w", err)
	}

	return &dto.UsageResponse{
		IsUsed:       usage.ChildCount > 0 || usage.CombinationCount > 0 || usage.LineCount > 0,
		UsageDetails: segmentValueUsageDetails(usage),
	}, nil
}

// DeleteSegmentValue removes an unused segment value. A value that is still
// referenced is rejected; the error points at deactivation as the sanctioned
// alternative.
// Implements portssvc.SegmentValueSvcFacade
func (s *segmentValueService) DeleteSegmentValue(ctx context.Context, segmentTypeID string, code string) error {
	logger := logging.FromContext(ctx)

	segmentValue, err := s.segmentValueRepo.FindSegmentValue(ctx, segmentTypeID, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Segment value not found for delete", slog.String("segment_type_id", segmentTypeID), slog.String("code", code))
		}
		return fmt.Errorf("failed to find segment value %s/%s: %w", segmentTypeID, code, err)
	}

	usage, err := s.segmentValueRepo.GetSegmentValueUsage(ctx, segmentValue.SegmentValueID)
	if err != nil {
		logger.Error("Failed to check segment value usage before delete", slog.String("error", err.Error()), slog.String("segment_value_id", segmentValue.SegmentValueID))
		return fmt.Errorf("failed to check segment value usage: %w", err)
	}
	if reasons := segmentValueUsageDetails(usage); len(reasons) > 0 {
		logger.Warn("Refusing to delete segment value in use", slog.String("segment_value_id", segmentValue.SegmentValueID), slog.Int("reasons", len(reasons)))
		return apperrors.NewUsageError("segment value", code, reasons, "deactivate the value instead of deleting it")
	}

	if err := s.segmentValueRepo.DeleteSegmentValue(ctx, segmentValue.SegmentValueID); err != nil {
		logger.Error("Failed to delete segment value", slog.String("error", err.Error()), slog.String("segment_value_id", segmentValue.SegmentValueID))
		return fmt.Errorf("failed to delete segment value: %w", err)
	}

	logger.Info("Segment value deleted successfully", slog.String("segment_value_id", segmentValue.SegmentValueID), slog.String("code", code))
	return nil
}

// segmentValueUsageDetails renders one human-readable reason per live reference kind.
func segmentValueUsageDetails(usage domain.SegmentValueUsage) []string {
	var details []string
	if usage.ChildCount > 0 {
		details = append(details, fmt.Sprintf("%d child values name this value as their parent", usage.ChildCount))
	}
	if usage.CombinationCount > 0 {
		details = append(details, fmt.Sprintf("%d combinations pin this value", usage.CombinationCount))
	}
	if usage.LineCount > 0 {
		details = append(details, fmt.Sprintf("%d journal lines post to combinations using this value", usage.LineCount))
	}
	return details
}

package dto

import (
	"time"

	"github.com/fingrid-labs/gl_core/internal/core/domain"
)

// SegmentPair names one segment value by its type and code.
type SegmentPair struct {
	SegmentTypeID string `json:"segmentTypeID" validate:"required"`
	SegmentCode   string `json:"segmentCode" validate:"required"`
}

// ToDomainSegmentPairs converts request pairs to their domain form.
func ToDomainSegmentPairs(pairs []SegmentPair) []domain.SegmentPair {
	if pairs == nil {
		return nil
	}
	out := make([]domain.SegmentPair, len(pairs))
	for i, p := range pairs {
		out[i] = domain.SegmentPair{SegmentTypeID: p.SegmentTypeID, Code: p.SegmentCode}
	}
	return out
}

// ResolveCombinationRequest asks for the combination identified by the given
// segment set, creating it first if it does not exist yet.
type ResolveCombinationRequest struct {
	Segments    []SegmentPair `json:"segments" validate:"required,min=1,dive"`
	Description *string       `json:"description"`
}

// Validate runs struct-level validation on the request.
func (r ResolveCombinationRequest) Validate() error {
	return validateStruct(r)
}

// CombinationResponse defines the data returned for a combination.
type CombinationResponse struct {
	CombinationID string        `json:"combinationID"`
	Description   string        `json:"description"` // Empty string if null in DB
	IsActive      bool          `json:"isActive"`
	Segments      []SegmentPair `json:"segments"`
	CreatedAt     time.Time     `json:"createdAt"`
	CreatedBy     string        `json:"createdBy"`
}

// ToCombinationResponse converts a domain.Combination to CombinationResponse DTO
func ToCombinationResponse(c *domain.Combination) CombinationResponse {
	desc := ""
	if c.Description != nil {
		desc = *c.Description
	}
	segments := make([]SegmentPair, len(c.Details))
	for i, d := range c.Details {
		segments[i] = SegmentPair{SegmentTypeID: d.SegmentTypeID, SegmentCode: d.Code}
	}
	return CombinationResponse{
		CombinationID: c.CombinationID,
		Description:   desc,
		IsActive:      c.IsActive,
		Segments:      segments,
		CreatedAt:     c.CreatedAt,
		CreatedBy:     c.CreatedBy,
	}
}

// SegmentFilter selects entries or ledger records by the segment values their
// lines post to. Exactly one of the three modes must be set: Segment matches a
// single pair, All matches combinations carrying every pair, Any matches
// combinations carrying at least one.
type SegmentFilter struct {
	Segment *SegmentPair  `json:"segment" validate:"omitempty"`
	All     []SegmentPair `json:"all" validate:"omitempty,min=1,dive"`
	Any     []SegmentPair `json:"any" validate:"omitempty,min=1,dive"`
}

// Validate checks the struct tags and that exactly one filter mode is present.
func (f SegmentFilter) Validate() error {
	if err := validateStruct(f); err != nil {
		return err
	}
	modes := 0
	if f.Segment != nil {
		modes++
	}
	if len(f.All) > 0 {
		modes++
	}
	if len(f.Any) > 0 {
		modes++
	}
	if modes != 1 {
		return errExactlyOneFilterMode
	}
	return nil
}

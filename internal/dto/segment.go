package dto

import (
	"time"

	"github.com/fingrid-labs/gl_core/internal/core/domain"
)

// CreateSegmentTypeRequest defines the data needed to register a new segment type.
type CreateSegmentTypeRequest struct {
	Name           string `json:"name" validate:"required,max=100"`
	IsRequired     bool   `json:"isRequired"`
	IsHierarchical bool   `json:"isHierarchical"`
	CodeLength     int    `json:"codeLength" validate:"gte=0"` // 0 means unconstrained
	DisplayOrder   int    `json:"displayOrder" validate:"gte=0"`
}

// Validate runs struct-level validation on the request.
func (r CreateSegmentTypeRequest) Validate() error {
	return validateStruct(r)
}

// UpdateSegmentTypeRequest defines the data allowed for updating a segment type.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateSegmentTypeRequest struct {
	Name         *string `json:"name" validate:"omitempty,max=100"`
	IsRequired   *bool   `json:"isRequired"`
	CodeLength   *int    `json:"codeLength" validate:"omitempty,gte=0"`
	DisplayOrder *int    `json:"displayOrder" validate:"omitempty,gte=0"`
	IsActive     *bool   `json:"isActive"`
}

// Validate runs struct-level validation on the request.
func (r UpdateSegmentTypeRequest) Validate() error {
	return validateStruct(r)
}

// SegmentTypeResponse defines the data returned for a segment type.
type SegmentTypeResponse struct {
	SegmentTypeID  string    `json:"segmentTypeID"`
	Name           string    `json:"name"`
	IsRequired     bool      `json:"isRequired"`
	IsHierarchical bool      `json:"isHierarchical"`
	CodeLength     int       `json:"codeLength"`
	DisplayOrder   int       `json:"displayOrder"`
	IsActive       bool      `json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
	CreatedBy      string    `json:"createdBy"`
	LastUpdatedAt  time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy  string    `json:"lastUpdatedBy"`
}

// ToSegmentTypeResponse converts a domain.SegmentType to SegmentTypeResponse DTO
func ToSegmentTypeResponse(st *domain.SegmentType) SegmentTypeResponse {
	return SegmentTypeResponse{
		SegmentTypeID:  st.SegmentTypeID,
		Name:           st.Name,
		IsRequired:     st.IsRequired,
		IsHierarchical: st.IsHierarchical,
		CodeLength:     st.CodeLength,
		DisplayOrder:   st.DisplayOrder,
		IsActive:       st.IsActive,
		CreatedAt:      st.CreatedAt,
		CreatedBy:      st.CreatedBy,
		LastUpdatedAt:  st.LastUpdatedAt,
		LastUpdatedBy:  st.LastUpdatedBy,
	}
}

// ToListSegmentTypeResponse converts a slice of domain.SegmentType to response DTOs
func ToListSegmentTypeResponse(types []domain.SegmentType) []SegmentTypeResponse {
	res := make([]SegmentTypeResponse, len(types))
	for i, st := range types {
		res[i] = ToSegmentTypeResponse(&st)
	}
	return res
}

// CreateSegmentValueRequest defines the data needed to add a value to a segment type.
type CreateSegmentValueRequest struct {
	SegmentTypeID string  `json:"segmentTypeID" validate:"required"`
	Code          string  `json:"code" validate:"required,max=50"`
	ParentCode    *string `json:"parentCode"`
	NodeKind      string  `json:"nodeKind" validate:"omitempty,oneof=ROOT INTERMEDIATE LEAF"` // defaults to LEAF
	Alias         string  `json:"alias" validate:"max=255"`
}

// Validate runs struct-level validation on the request.
func (r CreateSegmentValueRequest) Validate() error {
	return validateStruct(r)
}

// UpdateSegmentValueRequest defines the data allowed for updating a segment value.
// The code itself is immutable; identity changes go through create + deactivate.
type UpdateSegmentValueRequest struct {
	ParentCode *string `json:"parentCode"`
	NodeKind   *string `json:"nodeKind" validate:"omitempty,oneof=ROOT INTERMEDIATE LEAF"`
	Alias      *string `json:"alias" validate:"omitempty,max=255"`
	IsActive   *bool   `json:"isActive"`
}

// Validate runs struct-level validation on the request.
func (r UpdateSegmentValueRequest) Validate() error {
	return validateStruct(r)
}

// SegmentValueResponse defines the data returned for a segment value.
type SegmentValueResponse struct {
	SegmentValueID string    `json:"segmentValueID"`
	SegmentTypeID  string    `json:"segmentTypeID"`
	Code           string    `json:"code"`
	ParentCode     string    `json:"parentCode"` // Empty string if the value has no parent
	NodeKind       string    `json:"nodeKind"`
	Alias          string    `json:"alias"`
	IsActive       bool      `json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
	CreatedBy      string    `json:"createdBy"`
	LastUpdatedAt  time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy  string    `json:"lastUpdatedBy"`
}

// ToSegmentValueResponse converts a domain.SegmentValue to SegmentValueResponse DTO
func ToSegmentValueResponse(sv *domain.SegmentValue) SegmentValueResponse {
	parent := ""
	if sv.ParentCode != nil {
		parent = *sv.ParentCode
	}
	return SegmentValueResponse{
		SegmentValueID: sv.SegmentValueID,
		SegmentTypeID:  sv.SegmentTypeID,
		Code:           sv.Code,
		ParentCode:     parent,
		NodeKind:       string(sv.NodeKind),
		Alias:          sv.Alias,
		IsActive:       sv.IsActive,
		CreatedAt:      sv.CreatedAt,
		CreatedBy:      sv.CreatedBy,
		LastUpdatedAt:  sv.LastUpdatedAt,
		LastUpdatedBy:  sv.LastUpdatedBy,
	}
}

// ToListSegmentValueResponse converts a slice of domain.SegmentValue to response DTOs
func ToListSegmentValueResponse(values []domain.SegmentValue) []SegmentValueResponse {
	res := make([]SegmentValueResponse, len(values))
	for i, sv := range values {
		res[i] = ToSegmentValueResponse(&sv)
	}
	return res
}

// SegmentPathResponse carries a value's root-to-leaf hierarchy chain together
// with its ">"-joined code rendering.
type SegmentPathResponse struct {
	Path   string                 `json:"path"`
	Values []SegmentValueResponse `json:"values"`
}

// ToSegmentPathResponse converts a root-first hierarchy chain to SegmentPathResponse DTO
func ToSegmentPathResponse(chain []domain.SegmentValue) SegmentPathResponse {
	return SegmentPathResponse{
		Path:   domain.PathString(chain),
		Values: ToListSegmentValueResponse(chain),
	}
}

// UsageResponse reports whether an entity is referenced anywhere that blocks deletion.
type UsageResponse struct {
	IsUsed       bool     `json:"isUsed"`
	UsageDetails []string `json:"usageDetails"`
}

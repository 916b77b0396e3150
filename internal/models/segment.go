package models

// SegmentType is the persistence shape of a chart-of-accounts dimension.
type SegmentType struct {
	SegmentTypeID  string `json:"segmentTypeID" db:"segment_type_id"`
	Name           string `json:"name" db:"name"`
	IsRequired     bool   `json:"isRequired" db:"is_required"`
	IsHierarchical bool   `json:"isHierarchical" db:"is_hierarchical"`
	CodeLength     int    `json:"codeLength" db:"code_length"`
	DisplayOrder   int    `json:"displayOrder" db:"display_order"`
	IsActive       bool   `json:"isActive" db:"is_active"`
	AuditFields
}

// NodeKind mirrors domain.NodeKind at the persistence layer.
type NodeKind string

const (
	NodeRoot         NodeKind = "ROOT"
	NodeIntermediate NodeKind = "INTERMEDIATE"
	NodeLeaf         NodeKind = "LEAF"
)

// SegmentValue is the persistence shape of a coded dimension member.
// ParentCode is nullable; the referenced code may not exist (dangling parent),
// which traversals tolerate.
type SegmentValue struct {
	SegmentValueID string   `json:"segmentValueID" db:"segment_value_id"`
	SegmentTypeID  string   `json:"segmentTypeID" db:"segment_type_id"`
	Code           string   `json:"code" db:"code"`
	ParentCode     *string  `json:"parentCode" db:"parent_code"`
	NodeKind       NodeKind `json:"nodeKind" db:"node_kind"`
	Alias          string   `json:"alias" db:"alias"`
	IsActive       bool     `json:"isActive" db:"is_active"`
	AuditFields
}

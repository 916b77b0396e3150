package domain

import "strings"

// SegmentType defines one axis of the compound account key (e.g. Entity,
// Account, Project). Types are owned by configuration tooling and mutate
// freely until one of their values is referenced by a journal line.
type SegmentType struct {
	SegmentTypeID  string `json:"segmentTypeID"`  // Primary Key (e.g., UUID)
	Name           string `json:"name"`           // Unique across types
	IsRequired     bool   `json:"isRequired"`     // Whether combinations must carry this axis
	IsHierarchical bool   `json:"isHierarchical"` // Whether values may form a parent/child tree
	CodeLength     int    `json:"codeLength"`     // Exact code length for values; 0 = unconstrained
	DisplayOrder   int    `json:"displayOrder"`   // Presentation order for configuration UIs
	IsActive       bool   `json:"isActive"`       // Soft-retire flag
	AuditFields
}

// NodeKind places a segment value inside its type's hierarchy.
type NodeKind string

const (
	NodeRoot         NodeKind = "ROOT"
	NodeIntermediate NodeKind = "INTERMEDIATE"
	NodeLeaf         NodeKind = "LEAF"
)

// SegmentValue is a coded member of a segment type. Codes are unique within
// their type; ParentCode optionally links the value into the type's hierarchy.
type SegmentValue struct {
	SegmentValueID string   `json:"segmentValueID"` // Primary Key (e.g., UUID)
	SegmentTypeID  string   `json:"segmentTypeID"`  // FK -> segment_types.segment_type_id (NON-NULL)
	Code           string   `json:"code"`           // Unique within the type
	ParentCode     *string  `json:"parentCode"`     // Nullable; code of the parent value within the same type
	NodeKind       NodeKind `json:"nodeKind"`       // ROOT, INTERMEDIATE or LEAF
	Alias          string   `json:"alias"`          // Human-readable label
	IsActive       bool     `json:"isActive"`       // Soft-retire flag; the sanctioned alternative to deletion
	AuditFields
}

// PathString renders a hierarchy chain as its codes joined with ">", root first.
func PathString(chain []SegmentValue) string {
	codes := make([]string, len(chain))
	for i, v := range chain {
		codes[i] = v.Code
	}
	return strings.Join(codes, ">")
}

// SegmentTypeUsage counts the references that bear on deleting a segment type.
type SegmentTypeUsage struct {
	ValueCount       int64 // values registered under the type
	CombinationCount int64 // combinations pinned to one of those values
	LineCount        int64 // journal lines posting to one of those combinations
}

// SegmentValueUsage counts the references that bear on deleting a segment value.
type SegmentValueUsage struct {
	ChildCount       int64 // values naming this value as their parent
	CombinationCount int64 // combinations pinned to this value
	LineCount        int64 // journal lines posting to this value's combinations
}

package domain

import (
	"fmt"
	"sort"
	"strings"
)

// SegmentPair names one (segment type, value code) assignment inside a
// combination request. Pair order never matters; the set is what identifies a
// combination.
type SegmentPair struct {
	SegmentTypeID string `json:"segmentTypeID"`
	Code          string `json:"segmentCode"`
}

// Combination is the interned compound key over one value per covered segment
// type. Exactly one combination exists per unordered pair set; once created it
// is never mutated or deleted.
type Combination struct {
	CombinationID string  `json:"combinationID"` // Primary Key (e.g., UUID)
	Description   *string `json:"description"`   // Optional caller-supplied label
	IsActive      bool    `json:"isActive"`      // Persisted for parity with dimension entities; not mutable through this core
	Fingerprint   string  `json:"-"`             // Canonical form of the pair set; unique
	Details       []CombinationDetail
	AuditFields
}

// CombinationDetail pins one segment value onto a combination. A combination
// carries at most one detail per segment type, and the detail is as immutable
// as its parent.
type CombinationDetail struct {
	CombinationDetailID string `json:"combinationDetailID"` // Primary Key (e.g., UUID)
	CombinationID       string `json:"combinationID"`       // FK -> combinations.combination_id (NON-NULL)
	SegmentTypeID       string `json:"segmentTypeID"`       // FK -> segment_types.segment_type_id (NON-NULL)
	SegmentValueID      string `json:"segmentValueID"`      // FK -> segment_values.segment_value_id (NON-NULL)
	Code                string `json:"segmentCode"`         // Denormalized value code for read convenience
}

// Fingerprint computes the canonical identity of a pair set: pairs sorted by
// segment type id and joined as "typeID=code". Two requests naming the same
// set in any order produce the same fingerprint, which backs the uniqueness
// constraint the interner relies on.
func Fingerprint(pairs []SegmentPair) string {
	sorted := make([]SegmentPair, len(pairs))
	copy(sorted, pairs)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].SegmentTypeID < sorted[j].SegmentTypeID
	})

	parts := make([]string, len(sorted))
	for i, p := range sorted {
		parts[i] = fmt.Sprintf("%s=%s", p.SegmentTypeID, p.Code)
	}
	return strings.Join(parts, "|")
}

// Pairs returns the combination's detail set as (type, code) pairs.
func (c *Combination) Pairs() []SegmentPair {
	pairs := make([]SegmentPair, len(c.Details))
	for i, d := range c.Details {
		pairs[i] = SegmentPair{SegmentTypeID: d.SegmentTypeID, Code: d.Code}
	}
	return pairs
}

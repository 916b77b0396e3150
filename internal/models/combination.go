package models

// Combination is the persistence shape of the interned compound key.
// Fingerprint is the canonical pair set ("typeID=code" sorted, "|"-joined) and
// carries the UNIQUE constraint that makes interning race-safe.
type Combination struct {
	CombinationID string  `json:"combinationID" db:"combination_id"`
	Description   *string `json:"description" db:"description"`
	IsActive      bool    `json:"isActive" db:"is_active"`
	Fingerprint   string  `json:"-" db:"fingerprint"`
	AuditFields
}

// CombinationDetail pins one segment value onto a combination; at most one row
// per (combination, segment type). Code is not a column of its own; reads join
// segment_values to populate it.
type CombinationDetail struct {
	CombinationDetailID string `json:"combinationDetailID" db:"combination_detail_id"`
	CombinationID       string `json:"combinationID" db:"combination_id"`
	SegmentTypeID       string `json:"segmentTypeID" db:"segment_type_id"`
	SegmentValueID      string `json:"segmentValueID" db:"segment_value_id"`
	Code                string `json:"segmentCode"`
}

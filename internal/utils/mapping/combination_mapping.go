package mapping

import (
	"github.com/fingrid-labs/gl_core/internal/core/domain"
	"github.com/fingrid-labs/gl_core/internal/models"
)

// ToModelCombination converts a domain.Combination to models.Combination
func ToModelCombination(c domain.Combination) models.Combination {
	return models.Combination{
		CombinationID: c.CombinationID,
		Description:   c.Description,
		IsActive:      c.IsActive,
		Fingerprint:   c.Fingerprint,
		AuditFields:   ToModelAuditFields(c.AuditFields),
	}
}

// ToDomainCombination converts a models.Combination to domain.Combination.
// Details are attached separately by the caller when the read includes them.
func ToDomainCombination(c models.Combination) domain.Combination {
	return domain.Combination{
		CombinationID: c.CombinationID,
		Description:   c.Description,
		IsActive:      c.IsActive,
		Fingerprint:   c.Fingerprint,
		AuditFields:   ToDomainAuditFields(c.AuditFields),
	}
}

// ToModelCombinationDetail converts a domain.CombinationDetail to models.CombinationDetail
func ToModelCombinationDetail(d domain.CombinationDetail) models.CombinationDetail {
	return models.CombinationDetail{
		CombinationDetailID: d.CombinationDetailID,
		CombinationID:       d.CombinationID,
		SegmentTypeID:       d.SegmentTypeID,
		SegmentValueID:      d.SegmentValueID,
		Code:                d.Code,
	}
}

// ToDomainCombinationDetail converts a models.CombinationDetail to domain.CombinationDetail
func ToDomainCombinationDetail(d models.CombinationDetail) domain.CombinationDetail {
	return domain.CombinationDetail{
		CombinationDetailID: d.CombinationDetailID,
		CombinationID:       d.CombinationID,
		SegmentTypeID:       d.SegmentTypeID,
		SegmentValueID:      d.SegmentValueID,
		Code:                d.Code,
	}
}

// ToDomainCombinationDetailSlice converts a slice of models.CombinationDetail to domain
func ToDomainCombinationDetailSlice(details []models.CombinationDetail) []domain.CombinationDetail {
	if details == nil {
		return nil
	}
	out := make([]domain.CombinationDetail, len(details))
	for i, d := range details {
		out[i] = ToDomainCombinationDetail(d)
	}
	return out
}

package mapping

import (
	"github.com/fingrid-labs/gl_core/internal/core/domain"
	"github.com/fingrid-labs/gl_core/internal/models"
)

// ToModelSegmentType converts a domain SegmentType to a model SegmentType
func ToModelSegmentType(d domain.SegmentType) models.SegmentType {
	return models.SegmentType{
		SegmentTypeID:  d.SegmentTypeID,
		Name:           d.Name,
		IsRequired:     d.IsRequired,
		IsHierarchical: d.IsHierarchical,
		CodeLength:     d.CodeLength,
		DisplayOrder:   d.DisplayOrder,
		IsActive:       d.IsActive,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainSegmentType converts a model SegmentType to a domain SegmentType
func ToDomainSegmentType(m models.SegmentType) domain.SegmentType {
	return domain.SegmentType{
		SegmentTypeID:  m.SegmentTypeID,
		Name:           m.Name,
		IsRequired:     m.IsRequired,
		IsHierarchical: m.IsHierarchical,
		CodeLength:     m.CodeLength,
		DisplayOrder:   m.DisplayOrder,
		IsActive:       m.IsActive,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelSegmentValue converts a domain SegmentValue to a model SegmentValue
func ToModelSegmentValue(d domain.SegmentValue) models.SegmentValue {
	return models.SegmentValue{
		SegmentValueID: d.SegmentValueID,
		SegmentTypeID:  d.SegmentTypeID,
		Code:           d.Code,
		ParentCode:     d.ParentCode,
		NodeKind:       models.NodeKind(d.NodeKind),
		Alias:          d.Alias,
		IsActive:       d.IsActive,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainSegmentValue converts a model SegmentValue to a domain SegmentValue
func ToDomainSegmentValue(m models.SegmentValue) domain.SegmentValue {
	return domain.SegmentValue{
		SegmentValueID: m.SegmentValueID,
		SegmentTypeID:  m.SegmentTypeID,
		Code:           m.Code,
		ParentCode:     m.ParentCode,
		NodeKind:       domain.NodeKind(m.NodeKind),
		Alias:          m.Alias,
		IsActive:       m.IsActive,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

package mapping

import (
	"github.com/schoolworks/fee_billing_app/internal/core/domain"
	"github.com/schoolworks/fee_billing_app/internal/models"
)

// ToModelFeeCategory converts a domain FeeCategory to a model FeeCategory
func ToModelFeeCategory(d domain.FeeCategory) models.FeeCategory {
	return models.FeeCategory{
		CategoryID:  d.CategoryID,
		Name:        d.Name,
		Description: d.Description,
		IsActive:    d.IsActive,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainFeeCategory converts a model FeeCategory to a domain FeeCategory
func ToDomainFeeCategory(m models.FeeCategory) domain.FeeCategory {
	return domain.FeeCategory{
		CategoryID:  m.CategoryID,
		Name:        m.Name,
		Description: m.Description,
		IsActive:    m.IsActive,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelFeeStructure converts a domain FeeStructure to a model FeeStructure
func ToModelFeeStructure(d domain.FeeStructure) models.FeeStructure {
	return models.FeeStructure{
		StructureID:   d.StructureID,
		ClassID:       d.ClassID,
		FeeCategoryID: d.FeeCategoryID,
		Amount:        d.Amount,
		IsMonthly:     d.IsMonthly,
		IsActive:      d.IsActive,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainFeeStructure converts a model FeeStructure to a domain FeeStructure
func ToDomainFeeStructure(m models.FeeStructure) domain.FeeStructure {
	return domain.FeeStructure{
		StructureID:   m.StructureID,
		ClassID:       m.ClassID,
		FeeCategoryID: m.FeeCategoryID,
		Amount:        m.Amount,
		IsMonthly:     m.IsMonthly,
		IsActive:      m.IsActive,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainFeeStructureSlice converts model FeeStructures to domain FeeStructures
func ToDomainFeeStructureSlice(ms []models.FeeStructure) []domain.FeeStructure {
	ds := make([]domain.FeeStructure, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainFeeStructure(m)
	}
	return ds
}

package mapping

import (
	"github.com/schoolworks/fee_billing_app/internal/core/domain"
	"github.com/schoolworks/fee_billing_app/internal/models"
)

// ToModelDiscount converts a domain StudentDiscount to a model StudentDiscount
func ToModelDiscount(d domain.StudentDiscount) models.StudentDiscount {
	return models.StudentDiscount{
		DiscountID:    d.DiscountID,
		StudentID:     d.StudentID,
		FeeCategoryID: d.FeeCategoryID,
		DiscountType:  string(d.DiscountType),
		DiscountValue: d.DiscountValue,
		Reason:        d.Reason,
		ValidFrom:     d.ValidFrom,
		ValidTo:       d.ValidTo,
		IsActive:      d.IsActive,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainDiscount converts a model StudentDiscount to a domain StudentDiscount
func ToDomainDiscount(m models.StudentDiscount) domain.StudentDiscount {
	return domain.StudentDiscount{
		DiscountID:    m.DiscountID,
		StudentID:     m.StudentID,
		FeeCategoryID: m.FeeCategoryID,
		DiscountType:  domain.DiscountType(m.DiscountType),
		DiscountValue: m.DiscountValue,
		Reason:        m.Reason,
		ValidFrom:     m.ValidFrom,
		ValidTo:       m.ValidTo,
		IsActive:      m.IsActive,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainDiscountSlice converts model StudentDiscounts to domain StudentDiscounts
func ToDomainDiscountSlice(ms []models.StudentDiscount) []domain.StudentDiscount {
	ds := make([]domain.StudentDiscount, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainDiscount(m)
	}
	return ds
}

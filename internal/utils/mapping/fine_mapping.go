package mapping

import (
	"github.com/schoolworks/fee_billing_app/internal/core/domain"
	"github.com/schoolworks/fee_billing_app/internal/models"
)

// ToModelFineTier converts a domain FineTier to a model FineTier
func ToModelFineTier(d domain.FineTier) models.FineTier {
	return models.FineTier{
		FineID:       d.FineID,
		ClassID:      d.ClassID,
		DaysAfterDue: d.DaysAfterDue,
		FineType:     string(d.FineType),
		FineValue:    d.FineValue,
		IsActive:     d.IsActive,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainFineTier converts a model FineTier to a domain FineTier
func ToDomainFineTier(m models.FineTier) domain.FineTier {
	return domain.FineTier{
		FineID:       m.FineID,
		ClassID:      m.ClassID,
		DaysAfterDue: m.DaysAfterDue,
		FineType:     domain.FineType(m.FineType),
		FineValue:    m.FineValue,
		IsActive:     m.IsActive,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainFineTierSlice converts model FineTiers to domain FineTiers
func ToDomainFineTierSlice(ms []models.FineTier) []domain.FineTier {
	ds := make([]domain.FineTier, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainFineTier(m)
	}
	return ds
}

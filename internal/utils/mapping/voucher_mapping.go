package mapping

import (
	"github.com/schoolworks/fee_billing_app/internal/core/domain"
	"github.com/schoolworks/fee_billing_app/internal/models"
)

// ToModelVoucher converts a domain FeeVoucher to a model FeeVoucher
func ToModelVoucher(d domain.FeeVoucher) models.FeeVoucher {
	return models.FeeVoucher{
		VoucherID:     d.VoucherID,
		VoucherNumber: d.VoucherNumber,
		StudentID:     d.StudentID,
		VoucherType:   string(d.VoucherType),
		MonthYear:     d.MonthYear,
		IssueDate:     d.IssueDate,
		DueDate:       d.DueDate,
		TotalAmount:   d.TotalAmount,
		PaidAmount:    d.PaidAmount,
		FineAmount:    d.FineAmount,
		Status:        models.VoucherStatus(d.Status),
		PaymentDate:   d.PaymentDate,
		Notes:         d.Notes,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainVoucher converts a model FeeVoucher to a domain FeeVoucher
func ToDomainVoucher(m models.FeeVoucher) domain.FeeVoucher {
	return domain.FeeVoucher{
		VoucherID:     m.VoucherID,
		VoucherNumber: m.VoucherNumber,
		StudentID:     m.StudentID,
		VoucherType:   domain.VoucherType(m.VoucherType),
		MonthYear:     m.MonthYear,
		IssueDate:     m.IssueDate,
		DueDate:       m.DueDate,
		TotalAmount:   m.TotalAmount,
		PaidAmount:    m.PaidAmount,
		FineAmount:    m.FineAmount,
		Status:        domain.VoucherStatus(m.Status),
		PaymentDate:   m.PaymentDate,
		Notes:         m.Notes,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelVoucherLine converts a domain VoucherLine to a model VoucherLine
func ToModelVoucherLine(d domain.VoucherLine) models.VoucherLine {
	return models.VoucherLine{
		LineID:         d.LineID,
		VoucherID:      d.VoucherID,
		FeeCategoryID:  d.FeeCategoryID,
		OriginalAmount: d.OriginalAmount,
		DiscountAmount: d.DiscountAmount,
		FinalAmount:    d.FinalAmount,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainVoucherLine converts a model VoucherLine to a domain VoucherLine
func ToDomainVoucherLine(m models.VoucherLine) domain.VoucherLine {
	return domain.VoucherLine{
		LineID:         m.LineID,
		VoucherID:      m.VoucherID,
		FeeCategoryID:  m.FeeCategoryID,
		OriginalAmount: m.OriginalAmount,
		DiscountAmount: m.DiscountAmount,
		FinalAmount:    m.FinalAmount,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainVoucherLineSlice converts model VoucherLines to domain VoucherLines
func ToDomainVoucherLineSlice(ms []models.VoucherLine) []domain.VoucherLine {
	ds := make([]domain.VoucherLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainVoucherLine(m)
	}
	return ds
}

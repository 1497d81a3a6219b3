package mapping

import (
	"github.com/schoolworks/fee_billing_app/internal/core/domain"
	"github.com/schoolworks/fee_billing_app/internal/models"
)

// ToModelPayment converts a domain Payment to a model Payment
func ToModelPayment(d domain.Payment) models.Payment {
	return models.Payment{
		PaymentID:       d.PaymentID,
		VoucherID:       d.VoucherID,
		Method:          string(d.Method),
		Amount:          d.Amount,
		PaymentDate:     d.PaymentDate,
		ReferenceNumber: d.ReferenceNumber,
		BankName:        d.BankName,
		Notes:           d.Notes,
		ReceivedBy:      d.ReceivedBy,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPayment converts a model Payment to a domain Payment
func ToDomainPayment(m models.Payment) domain.Payment {
	return domain.Payment{
		PaymentID:       m.PaymentID,
		VoucherID:       m.VoucherID,
		Method:          domain.PaymentMethod(m.Method),
		Amount:          m.Amount,
		PaymentDate:     m.PaymentDate,
		ReferenceNumber: m.ReferenceNumber,
		BankName:        m.BankName,
		Notes:           m.Notes,
		ReceivedBy:      m.ReceivedBy,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainPaymentSlice converts model Payments to domain Payments
func ToDomainPaymentSlice(ms []models.Payment) []domain.Payment {
	ds := make([]domain.Payment, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainPayment(m)
	}
	return ds
}

package generator

import (
	"github.com/talkincode/shopgen/internal/domain"
)

// Payments settles every finalized order with one payment made within
// lagDays of the order date.
func Payments(src *Source, orders []domain.Order, lagDays int) []domain.Payment {
	payments := make([]domain.Payment, 0, len(orders))
	for i, o := range orders {
		payments = append(payments, domain.Payment{
			PaymentID:     int64(i + 1),
			OrderID:       o.OrderID,
			PaymentDate:   o.OrderDate.AddDays(src.IntRange(0, lagDays)),
			PaymentMethod: src.Pick(domain.PaymentMethods),
			Amount:        o.TotalAmount,
		})
	}
	return payments
}

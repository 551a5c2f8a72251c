package generator

import (
	"github.com/talkincode/shopgen/internal/domain"
)

// Orders generates m order shells owned by customers 1..customerCount.
// TotalAmount is left at 0; OrderItems computes it.
func Orders(src *Source, m, customerCount int, w Window) ([]domain.Order, error) {
	if m <= 0 || customerCount <= 0 {
		return nil, &ConfigError{Problems: []string{"orders and customers must be > 0"}}
	}
	orders := make([]domain.Order, 0, m)
	for i := 1; i <= m; i++ {
		orders = append(orders, domain.Order{
			OrderID:     int64(i),
			CustomerID:  int64(src.IntRange(1, customerCount)),
			OrderDate:   src.Date(w),
			TotalAmount: 0,
		})
	}
	return orders, nil
}

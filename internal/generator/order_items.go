package generator

import (
	"fmt"

	"github.com/talkincode/shopgen/internal/domain"
)

const bulkQuantityRate = 0.3

// OrderItems allocates k line items over orders and returns them together with
// a copy of orders whose TotalAmount is finalized. The input slice is not modified.
//
// Every order first receives one item (coverage), the remaining k-len(orders)
// items go to random orders (distribution). Line totals are rounded to cents as
// they are produced and summed per order, so an order total can drift from a
// single rounded sum by a fraction of a cent.
func OrderItems(src *Source, orders []domain.Order, products []domain.Product, k int) ([]domain.OrderItem, []domain.Order, error) {
	if len(orders) == 0 || len(products) == 0 {
		return nil, nil, &ConfigError{Problems: []string{"order items need at least one order and one product"}}
	}
	if k < len(orders) {
		return nil, nil, &ConfigError{Problems: []string{
			fmt.Sprintf("order_items (%d) must be >= orders (%d) so every order gets an item", k, len(orders)),
		}}
	}

	items := make([]domain.OrderItem, 0, k)
	totals := make(map[int64]float64, len(orders))
	add := func(orderID int64, product domain.Product, quantity int) {
		lineTotal := domain.Round2(float64(quantity) * product.Price)
		items = append(items, domain.OrderItem{
			OrderItemID: int64(len(items) + 1),
			OrderID:     orderID,
			ProductID:   product.ProductID,
			Quantity:    quantity,
			LineTotal:   lineTotal,
		})
		totals[orderID] += lineTotal
	}

	// coverage
	for _, o := range orders {
		product := products[src.Intn(len(products))]
		add(o.OrderID, product, src.IntRange(1, 3))
	}

	// distribution
	for n := k - len(orders); n > 0; n-- {
		o := orders[src.Intn(len(orders))]
		product := products[src.Intn(len(products))]
		add(o.OrderID, product, bulkQuantity(src))
	}

	finalized := make([]domain.Order, len(orders))
	for i, o := range orders {
		o.TotalAmount = domain.Round2(totals[o.OrderID])
		finalized[i] = o
	}
	return items, finalized, nil
}

// bulkQuantity is mostly 1-3, occasionally a bulk purchase of 4-10.
func bulkQuantity(src *Source) int {
	if src.Float64() < 1-bulkQuantityRate {
		return src.IntRange(1, 3)
	}
	return src.IntRange(4, 10)
}

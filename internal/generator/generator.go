// Package generator produces a synthetic, referentially closed e-commerce
// dataset from a single seeded random stream.
//
// Phases run in a fixed order (customers, products, orders, order items,
// payments); each consumes a contiguous slice of the stream, so the same
// Params always yield the same Dataset.
package generator

import (
	"github.com/pkg/errors"
	"github.com/talkincode/shopgen/internal/domain"
)

const (
	StageCustomers  = "customers"
	StageProducts   = "products"
	StageOrders     = "orders"
	StageOrderItems = "order_items"
	StagePayments   = "payments"
)

// StageHook is notified after each phase with the number of rows it produced.
type StageHook func(stage string, rows int)

// Generate validates p and builds the whole dataset.
func Generate(p Params, hooks ...StageHook) (*domain.Dataset, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	notify := func(stage string, rows int) {
		for _, h := range hooks {
			h(stage, rows)
		}
	}

	anchor := p.AnchorDate()
	src := NewSource(p.Seed)

	customers, err := Customers(src, p.Customers, TrailingWindow(anchor, p.SignupWindowDays))
	if err != nil {
		return nil, errors.Wrap(err, "generate customers")
	}
	notify(StageCustomers, len(customers))

	products, err := Products(src, p.Products)
	if err != nil {
		return nil, errors.Wrap(err, "generate products")
	}
	notify(StageProducts, len(products))

	shells, err := Orders(src, p.Orders, len(customers), TrailingWindow(anchor, p.OrderWindowDays))
	if err != nil {
		return nil, errors.Wrap(err, "generate orders")
	}
	notify(StageOrders, len(shells))

	items, orders, err := OrderItems(src, shells, products, p.OrderItems)
	if err != nil {
		return nil, errors.Wrap(err, "generate order items")
	}
	notify(StageOrderItems, len(items))

	payments := Payments(src, orders, p.PaymentLagDays)
	notify(StagePayments, len(payments))

	return &domain.Dataset{
		Customers:  customers,
		Products:   products,
		Orders:     orders,
		OrderItems: items,
		Payments:   payments,
	}, nil
}

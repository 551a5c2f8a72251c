package app

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/talkincode/shopgen/internal/domain"
	"gorm.io/gorm"
)

// ErrIntegrity marks a store whose contents break a cross-table invariant.
var ErrIntegrity = errors.New("store integrity check failed")

// IntegrityReport is the result of the post-load SQL checks.
type IntegrityReport struct {
	Rows                map[string]int64 `json:"rows"`
	OrphanOrders        int64            `json:"orphan_orders"`
	OrphanOrderItems    int64            `json:"orphan_order_items"`
	OrphanPayments      int64            `json:"orphan_payments"`
	OrdersWithoutItems  int64            `json:"orders_without_items"`
	OrdersWithoutPay    int64            `json:"orders_without_payment"`
	MismatchedTotals    []int64          `json:"mismatched_totals"`
	MismatchedPayments  []int64          `json:"mismatched_payments"`
	PaymentsBeforeOrder int64            `json:"payments_before_order"`
}

func (r *IntegrityReport) OK() bool {
	return len(r.Problems()) == 0
}

// Problems lists one line per failed check.
func (r *IntegrityReport) Problems() []string {
	var out []string
	add := func(n int64, what string) {
		if n > 0 {
			out = append(out, fmt.Sprintf("%d %s", n, what))
		}
	}
	add(r.OrphanOrders, "orders reference a missing customer")
	add(r.OrphanOrderItems, "order items reference a missing order or product")
	add(r.OrphanPayments, "payments reference a missing order")
	add(r.OrdersWithoutItems, "orders have no items")
	add(r.OrdersWithoutPay, "orders have no payment")
	add(int64(len(r.MismatchedTotals)), "order totals differ from their items")
	add(int64(len(r.MismatchedPayments)), "payment amounts differ from their order")
	add(r.PaymentsBeforeOrder, "payments are dated before their order")
	return out
}

// Err returns ErrIntegrity with the failed checks, or nil.
func (r *IntegrityReport) Err() error {
	if r.OK() {
		return nil
	}
	return errors.Wrapf(ErrIntegrity, "%v", r.Problems())
}

type orderAmounts struct {
	OrderID int64   `gorm:"column:order_id"`
	Total   float64 `gorm:"column:total_amount"`
	Other   float64 `gorm:"column:other"`
}

// CheckIntegrity runs the post-load checks against the store. Money is
// compared in Go with the same rounding and tolerance as the validator.
func CheckIntegrity(db *gorm.DB) (*IntegrityReport, error) {
	r := &IntegrityReport{Rows: map[string]int64{}}
	for i, table := range domain.TableNames {
		var n int64
		if err := db.Model(domain.Tables[i]).Count(&n).Error; err != nil {
			return nil, errors.Wrapf(err, "count %s", table)
		}
		r.Rows[table] = n
	}

	counts := []struct {
		dest  *int64
		query string
	}{
		{&r.OrphanOrders, `SELECT COUNT(*) FROM orders o
			LEFT JOIN customers c ON o.customer_id = c.customer_id
			WHERE c.customer_id IS NULL`},
		{&r.OrphanOrderItems, `SELECT COUNT(*) FROM order_items oi
			LEFT JOIN orders o ON oi.order_id = o.order_id
			LEFT JOIN products p ON oi.product_id = p.product_id
			WHERE o.order_id IS NULL OR p.product_id IS NULL`},
		{&r.OrphanPayments, `SELECT COUNT(*) FROM payments p
			LEFT JOIN orders o ON p.order_id = o.order_id
			WHERE o.order_id IS NULL`},
		{&r.OrdersWithoutItems, `SELECT COUNT(*) FROM orders o
			WHERE NOT EXISTS (SELECT 1 FROM order_items oi WHERE oi.order_id = o.order_id)`},
		{&r.OrdersWithoutPay, `SELECT COUNT(*) FROM orders o
			WHERE NOT EXISTS (SELECT 1 FROM payments p WHERE p.order_id = o.order_id)`},
		{&r.PaymentsBeforeOrder, `SELECT COUNT(*) FROM payments p
			JOIN orders o ON p.order_id = o.order_id
			WHERE p.payment_date < o.order_date`},
	}
	for _, c := range counts {
		if err := db.Raw(c.query).Scan(c.dest).Error; err != nil {
			return nil, errors.Wrap(err, "integrity query")
		}
	}

	var totals []orderAmounts
	if err := db.Raw(`SELECT o.order_id, o.total_amount, SUM(oi.line_total) AS other
		FROM orders o
		JOIN order_items oi ON o.order_id = oi.order_id
		GROUP BY o.order_id, o.total_amount
		ORDER BY o.order_id`).Scan(&totals).Error; err != nil {
		return nil, errors.Wrap(err, "order totals query")
	}
	for _, t := range totals {
		if !domain.MoneyEqual(domain.Round2(t.Other), t.Total) {
			r.MismatchedTotals = append(r.MismatchedTotals, t.OrderID)
		}
	}

	var payments []orderAmounts
	if err := db.Raw(`SELECT o.order_id, o.total_amount, p.amount AS other
		FROM orders o
		JOIN payments p ON o.order_id = p.order_id
		ORDER BY o.order_id`).Scan(&payments).Error; err != nil {
		return nil, errors.Wrap(err, "payment amounts query")
	}
	for _, p := range payments {
		if !domain.MoneyEqual(p.Other, p.Total) {
			r.MismatchedPayments = append(r.MismatchedPayments, p.OrderID)
		}
	}
	return r, nil
}

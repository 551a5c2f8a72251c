package generator

import (
	"fmt"
	"time"

	"github.com/talkincode/shopgen/internal/domain"
)

// Params controls one generation run. The full and sample datasets differ only in Params.
type Params struct {
	Seed             int64     `json:"seed"`
	Customers        int       `json:"customers"`
	Products         int       `json:"products"`
	Orders           int       `json:"orders"`
	OrderItems       int       `json:"order_items"`
	SignupWindowDays int       `json:"signup_window_days"`
	OrderWindowDays  int       `json:"order_window_days"`
	PaymentLagDays   int       `json:"payment_lag_days"`
	Anchor           time.Time `json:"anchor"` // last day of both windows; zero means today
}

// DefaultParams is the full dataset: three years of history.
func DefaultParams() Params {
	return Params{
		Seed:             42,
		Customers:        2000,
		Products:         600,
		Orders:           4000,
		OrderItems:       10000,
		SignupWindowDays: 3 * 365,
		OrderWindowDays:  3 * 365,
		PaymentLagDays:   7,
	}
}

// SampleParams is a small dataset over one year, used for demos and dashboards.
func SampleParams() Params {
	return Params{
		Seed:             42,
		Customers:        100,
		Products:         50,
		Orders:           200,
		OrderItems:       500,
		SignupWindowDays: 365,
		OrderWindowDays:  365,
		PaymentLagDays:   7,
	}
}

// Validate reports all invalid parameters at once.
func (p Params) Validate() error {
	var problems []string
	positive := func(name string, v int) {
		if v <= 0 {
			problems = append(problems, fmt.Sprintf("%s must be > 0, got %d", name, v))
		}
	}
	positive("customers", p.Customers)
	positive("products", p.Products)
	positive("orders", p.Orders)
	positive("order_items", p.OrderItems)
	positive("signup_window_days", p.SignupWindowDays)
	positive("order_window_days", p.OrderWindowDays)
	if p.PaymentLagDays < 0 {
		problems = append(problems, fmt.Sprintf("payment_lag_days must be >= 0, got %d", p.PaymentLagDays))
	}
	if p.Orders > 0 && p.OrderItems < p.Orders {
		problems = append(problems, fmt.Sprintf("order_items (%d) must be >= orders (%d) so every order gets an item", p.OrderItems, p.Orders))
	}
	if len(problems) > 0 {
		return &ConfigError{Problems: problems}
	}
	return nil
}

// AnchorDate resolves the window end day.
func (p Params) AnchorDate() domain.Date {
	if p.Anchor.IsZero() {
		return domain.NewDate(time.Now())
	}
	return domain.NewDate(p.Anchor)
}

// Window is an inclusive range of days ending at the anchor.
type Window struct {
	Start domain.Date
	End   domain.Date
}

// TrailingWindow returns the days window ending at end.
func TrailingWindow(end domain.Date, days int) Window {
	return Window{Start: end.AddDays(-days), End: end}
}

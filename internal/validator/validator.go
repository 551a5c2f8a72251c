// Package validator checks a generated dataset against its schema and
// cross-table invariants before anything is persisted.
package validator

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"

	playground "github.com/go-playground/validator/v10"
	"github.com/talkincode/shopgen/internal/domain"
)

var rules = newRules()

func newRules() *playground.Validate {
	v := playground.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("csv"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("category", func(fl playground.FieldLevel) bool {
		return domain.IsCategory(fl.Field().String())
	})
	_ = v.RegisterValidation("payment_method", func(fl playground.FieldLevel) bool {
		return domain.IsPaymentMethod(fl.Field().String())
	})
	return v
}

// Validate runs every check over ds and returns the full report.
// Checks run in order: entity, referential, aggregate, payment.
func Validate(ds *domain.Dataset) *Report {
	r := &Report{Rows: ds.Counts()}
	checkEntities(r, ds)
	checkReferences(r, ds)
	checkOrderTotals(r, ds)
	checkPayments(r, ds)
	return r
}

func checkFields(r *Report, table string, key int64, row interface{}) {
	err := rules.Struct(row)
	if err == nil {
		return
	}
	fieldErrs, ok := err.(playground.ValidationErrors)
	if !ok {
		r.add(Violation{Check: CheckEntity, Table: table, Key: key, Rule: "struct", Detail: err.Error()})
		return
	}
	for _, fe := range fieldErrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		r.add(Violation{
			Check:  CheckEntity,
			Table:  table,
			Key:    key,
			Field:  fe.Field(),
			Rule:   rule,
			Detail: fmt.Sprintf("value %v violates %s", fe.Value(), rule),
		})
	}
}

func requireDate(r *Report, table string, key int64, field string, d domain.Date) {
	if d.IsZero() {
		r.add(Violation{Check: CheckEntity, Table: table, Key: key, Field: field, Rule: "required", Detail: "date is missing"})
	}
}

// uniqueKeys reports every repeated primary key of a table.
type uniqueKeys struct {
	table string
	field string
	seen  map[int64]struct{}
}

func newUniqueKeys(table, field string, size int) *uniqueKeys {
	return &uniqueKeys{table: table, field: field, seen: make(map[int64]struct{}, size)}
}

func (u *uniqueKeys) check(r *Report, key int64) {
	if _, dup := u.seen[key]; dup {
		r.add(Violation{Check: CheckEntity, Table: u.table, Key: key, Field: u.field, Rule: "unique", Detail: "duplicate primary key"})
		return
	}
	u.seen[key] = struct{}{}
}

func checkEntities(r *Report, ds *domain.Dataset) {
	keys := newUniqueKeys(domain.TableCustomers, "customer_id", len(ds.Customers))
	emails := make(map[string]int64, len(ds.Customers))
	for _, c := range ds.Customers {
		keys.check(r, c.CustomerID)
		checkFields(r, domain.TableCustomers, c.CustomerID, c)
		requireDate(r, domain.TableCustomers, c.CustomerID, "signup_date", c.SignupDate)
		if c.Email == "" {
			continue
		}
		if first, dup := emails[c.Email]; dup {
			r.add(Violation{
				Check: CheckEntity, Table: domain.TableCustomers, Key: c.CustomerID, Field: "email", Rule: "unique",
				Detail: fmt.Sprintf("email %s already used by customer %d", c.Email, first),
			})
			continue
		}
		emails[c.Email] = c.CustomerID
	}

	keys = newUniqueKeys(domain.TableProducts, "product_id", len(ds.Products))
	for _, p := range ds.Products {
		keys.check(r, p.ProductID)
		checkFields(r, domain.TableProducts, p.ProductID, p)
	}

	keys = newUniqueKeys(domain.TableOrders, "order_id", len(ds.Orders))
	for _, o := range ds.Orders {
		keys.check(r, o.OrderID)
		checkFields(r, domain.TableOrders, o.OrderID, o)
		requireDate(r, domain.TableOrders, o.OrderID, "order_date", o.OrderDate)
	}

	keys = newUniqueKeys(domain.TableOrderItems, "order_item_id", len(ds.OrderItems))
	for _, it := range ds.OrderItems {
		keys.check(r, it.OrderItemID)
		checkFields(r, domain.TableOrderItems, it.OrderItemID, it)
	}

	keys = newUniqueKeys(domain.TablePayments, "payment_id", len(ds.Payments))
	for _, p := range ds.Payments {
		keys.check(r, p.PaymentID)
		checkFields(r, domain.TablePayments, p.PaymentID, p)
		requireDate(r, domain.TablePayments, p.PaymentID, "payment_date", p.PaymentDate)
	}
}

func orphan(r *Report, table string, key int64, field, parent string, ref int64) {
	r.add(Violation{
		Check: CheckReferential, Table: table, Key: key, Field: field, Rule: "references " + parent,
		Detail: fmt.Sprintf("%s %d does not exist in %s", field, ref, parent),
	})
}

func checkReferences(r *Report, ds *domain.Dataset) {
	customers := make(map[int64]struct{}, len(ds.Customers))
	for _, c := range ds.Customers {
		customers[c.CustomerID] = struct{}{}
	}
	products := make(map[int64]struct{}, len(ds.Products))
	for _, p := range ds.Products {
		products[p.ProductID] = struct{}{}
	}
	orders := make(map[int64]struct{}, len(ds.Orders))
	for _, o := range ds.Orders {
		orders[o.OrderID] = struct{}{}
		if _, ok := customers[o.CustomerID]; !ok {
			orphan(r, domain.TableOrders, o.OrderID, "customer_id", domain.TableCustomers, o.CustomerID)
		}
	}
	for _, it := range ds.OrderItems {
		if _, ok := orders[it.OrderID]; !ok {
			orphan(r, domain.TableOrderItems, it.OrderItemID, "order_id", domain.TableOrders, it.OrderID)
		}
		if _, ok := products[it.ProductID]; !ok {
			orphan(r, domain.TableOrderItems, it.OrderItemID, "product_id", domain.TableProducts, it.ProductID)
		}
	}
	for _, p := range ds.Payments {
		if _, ok := orders[p.OrderID]; !ok {
			orphan(r, domain.TablePayments, p.PaymentID, "order_id", domain.TableOrders, p.OrderID)
		}
	}
}

// checkOrderTotals compares each order total to the rounded sum of its line
// totals. An order without items breaks the coverage invariant.
func checkOrderTotals(r *Report, ds *domain.Dataset) {
	sums := make(map[int64]float64, len(ds.Orders))
	counts := make(map[int64]int, len(ds.Orders))
	for _, it := range ds.OrderItems {
		sums[it.OrderID] += it.LineTotal
		counts[it.OrderID]++
	}
	for _, o := range ds.Orders {
		if counts[o.OrderID] == 0 {
			r.add(Violation{
				Check: CheckAggregate, Table: domain.TableOrders, Key: o.OrderID, Field: "order_items", Rule: "min=1",
				Detail: "order has no items",
			})
			continue
		}
		itemsTotal := domain.Round2(sums[o.OrderID])
		if !domain.MoneyEqual(itemsTotal, o.TotalAmount) {
			r.add(Violation{
				Check: CheckAggregate, Table: domain.TableOrders, Key: o.OrderID, Field: "total_amount", Rule: "sum(line_total)",
				Detail:   "order total does not match its items",
				Expected: itemsTotal, Actual: o.TotalAmount, Delta: math.Abs(itemsTotal - o.TotalAmount),
			})
		}
	}
}

// checkPayments requires exactly one payment per order, with the order's
// amount, made on or after the order date.
func checkPayments(r *Report, ds *domain.Dataset) {
	orders := make(map[int64]domain.Order, len(ds.Orders))
	for _, o := range ds.Orders {
		orders[o.OrderID] = o
	}
	paid := make(map[int64][]int64, len(ds.Payments))
	for _, p := range ds.Payments {
		paid[p.OrderID] = append(paid[p.OrderID], p.PaymentID)
		o, ok := orders[p.OrderID]
		if !ok {
			continue // reported as referential
		}
		if !domain.MoneyEqual(p.Amount, o.TotalAmount) {
			r.add(Violation{
				Check: CheckPayment, Table: domain.TablePayments, Key: p.PaymentID, Field: "amount", Rule: "order.total_amount",
				Detail:   fmt.Sprintf("payment amount does not match order %d", o.OrderID),
				Expected: o.TotalAmount, Actual: p.Amount, Delta: math.Abs(o.TotalAmount - p.Amount),
			})
		}
		if !p.PaymentDate.IsZero() && p.PaymentDate.Before(o.OrderDate) {
			r.add(Violation{
				Check: CheckPayment, Table: domain.TablePayments, Key: p.PaymentID, Field: "payment_date", Rule: ">= order_date",
				Detail: fmt.Sprintf("paid %s before order %d was placed on %s", p.PaymentDate, o.OrderID, o.OrderDate),
			})
		}
	}

	for _, o := range ds.Orders {
		ids := paid[o.OrderID]
		switch {
		case len(ids) == 0:
			r.add(Violation{
				Check: CheckPayment, Table: domain.TableOrders, Key: o.OrderID, Field: "payment", Rule: "exactly one",
				Detail: "order has no payment",
			})
		case len(ids) > 1:
			sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
			r.add(Violation{
				Check: CheckPayment, Table: domain.TableOrders, Key: o.OrderID, Field: "payment", Rule: "exactly one",
				Detail: fmt.Sprintf("order has %d payments %v", len(ids), ids),
			})
		}
	}
}

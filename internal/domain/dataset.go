package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
)

// Dataset holds the five entity sets of one generation run.
type Dataset struct {
	Customers  []Customer
	Products   []Product
	Orders     []Order
	OrderItems []OrderItem
	Payments   []Payment
}

// Counts returns the row count per table name.
func (ds *Dataset) Counts() map[string]int {
	return map[string]int{
		TableCustomers:  len(ds.Customers),
		TableProducts:   len(ds.Products),
		TableOrders:     len(ds.Orders),
		TableOrderItems: len(ds.OrderItems),
		TablePayments:   len(ds.Payments),
	}
}

// TotalRows is the number of rows across all tables.
func (ds *Dataset) TotalRows() int {
	return len(ds.Customers) + len(ds.Products) + len(ds.Orders) + len(ds.OrderItems) + len(ds.Payments)
}

// Digest is a SHA-256 over a canonical rendering of every row in table order.
// Two datasets with the same digest are byte-identical once exported.
func (ds *Dataset) Digest() string {
	h := sha256.New()
	ds.writeCanonical(h)
	return hex.EncodeToString(h.Sum(nil))
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (ds *Dataset) writeCanonical(w io.Writer) {
	for _, c := range ds.Customers {
		fmt.Fprintf(w, "c|%d|%s|%s|%s|%s\n", c.CustomerID, c.FirstName, c.LastName, c.Email, c.SignupDate)
	}
	for _, p := range ds.Products {
		fmt.Fprintf(w, "p|%d|%s|%s|%s\n", p.ProductID, p.Name, p.Category, money(p.Price))
	}
	for _, o := range ds.Orders {
		fmt.Fprintf(w, "o|%d|%d|%s|%s\n", o.OrderID, o.CustomerID, o.OrderDate, money(o.TotalAmount))
	}
	for _, it := range ds.OrderItems {
		fmt.Fprintf(w, "i|%d|%d|%d|%d|%s\n", it.OrderItemID, it.OrderID, it.ProductID, it.Quantity, money(it.LineTotal))
	}
	for _, p := range ds.Payments {
		fmt.Fprintf(w, "y|%d|%d|%s|%s|%s\n", p.PaymentID, p.OrderID, p.PaymentMethod, money(p.Amount), p.PaymentDate)
	}
}

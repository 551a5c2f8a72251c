package export

import (
	"fmt"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/pkg/errors"
	"github.com/talkincode/shopgen/internal/domain"
)

type sheet struct {
	name   string
	header []string
	rows   [][]interface{}
}

func sheets(ds *domain.Dataset) []sheet {
	customers := sheet{name: domain.TableCustomers, header: []string{"customer_id", "first_name", "last_name", "email", "signup_date"}}
	for _, c := range ds.Customers {
		customers.rows = append(customers.rows, []interface{}{c.CustomerID, c.FirstName, c.LastName, c.Email, c.SignupDate.String()})
	}
	products := sheet{name: domain.TableProducts, header: []string{"product_id", "name", "category", "price"}}
	for _, p := range ds.Products {
		products.rows = append(products.rows, []interface{}{p.ProductID, p.Name, p.Category, p.Price})
	}
	orders := sheet{name: domain.TableOrders, header: []string{"order_id", "customer_id", "order_date", "total_amount"}}
	for _, o := range ds.Orders {
		orders.rows = append(orders.rows, []interface{}{o.OrderID, o.CustomerID, o.OrderDate.String(), o.TotalAmount})
	}
	items := sheet{name: domain.TableOrderItems, header: []string{"order_item_id", "order_id", "product_id", "quantity", "line_total"}}
	for _, it := range ds.OrderItems {
		items.rows = append(items.rows, []interface{}{it.OrderItemID, it.OrderID, it.ProductID, it.Quantity, it.LineTotal})
	}
	payments := sheet{name: domain.TablePayments, header: []string{"payment_id", "order_id", "payment_method", "amount", "payment_date"}}
	for _, p := range ds.Payments {
		payments.rows = append(payments.rows, []interface{}{p.PaymentID, p.OrderID, p.PaymentMethod, p.Amount, p.PaymentDate.String()})
	}
	return []sheet{customers, products, orders, items, payments}
}

func cell(col, row int) string {
	return fmt.Sprintf("%s%d", excelize.ToAlphaString(col), row)
}

// WriteXLSX writes one worksheet per table into the workbook at file.
func WriteXLSX(file string, ds *domain.Dataset) error {
	xlsx := excelize.NewFile()
	for i, sh := range sheets(ds) {
		if i == 0 {
			xlsx.SetSheetName("Sheet1", sh.name)
		} else {
			xlsx.NewSheet(sh.name)
		}
		for col, h := range sh.header {
			xlsx.SetCellValue(sh.name, cell(col, 1), h)
		}
		for r, row := range sh.rows {
			for col, v := range row {
				xlsx.SetCellValue(sh.name, cell(col, r+2), v)
			}
		}
	}
	xlsx.SetActiveSheet(1)
	if err := xlsx.SaveAs(file); err != nil {
		return errors.Wrapf(err, "save workbook %s", file)
	}
	return nil
}

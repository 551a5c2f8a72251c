// Package export writes a dataset to flat files: one CSV per table and an
// optional XLSX workbook with one sheet per table.
package export

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
	"github.com/talkincode/shopgen/internal/domain"
)

// CSVFile is the file name of a table's CSV export.
func CSVFile(table string) string {
	return table + ".csv"
}

// TableCSV renders one table as CSV bytes with a header row.
func TableCSV(ds *domain.Dataset, table string) ([]byte, error) {
	var rows interface{}
	switch table {
	case domain.TableCustomers:
		rows = ds.Customers
	case domain.TableProducts:
		rows = ds.Products
	case domain.TableOrders:
		rows = ds.Orders
	case domain.TableOrderItems:
		rows = ds.OrderItems
	case domain.TablePayments:
		rows = ds.Payments
	default:
		return nil, errors.Errorf("unknown table %q", table)
	}
	data, err := gocsv.MarshalBytes(rows)
	if err != nil {
		return nil, errors.Wrapf(err, "marshal %s", table)
	}
	return data, nil
}

// WriteCSV writes customers.csv through payments.csv into dir and returns the paths.
func WriteCSV(dir string, ds *domain.Dataset) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create export dir %s", dir)
	}
	files := make([]string, 0, len(domain.TableNames))
	for _, table := range domain.TableNames {
		data, err := TableCSV(ds, table)
		if err != nil {
			return nil, err
		}
		file := filepath.Join(dir, CSVFile(table))
		if err := os.WriteFile(file, data, 0o644); err != nil {
			return nil, errors.Wrapf(err, "write %s", file)
		}
		files = append(files, file)
	}
	return files, nil
}

// ReadCSV loads the five CSV files written by WriteCSV.
func ReadCSV(dir string) (*domain.Dataset, error) {
	ds := &domain.Dataset{}
	targets := map[string]interface{}{
		domain.TableCustomers:  &ds.Customers,
		domain.TableProducts:   &ds.Products,
		domain.TableOrders:     &ds.Orders,
		domain.TableOrderItems: &ds.OrderItems,
		domain.TablePayments:   &ds.Payments,
	}
	for _, table := range domain.TableNames {
		file := filepath.Join(dir, CSVFile(table))
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, errors.Wrapf(err, "read %s", file)
		}
		if err := gocsv.UnmarshalBytes(bytes.TrimSpace(data), targets[table]); err != nil {
			return nil, errors.Wrapf(err, "parse %s", file)
		}
	}
	return ds, nil
}

// Package report renders documentation about a dataset: a data dictionary
// introspected from the live schema and a column profile of the rows.
package report

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/talkincode/shopgen/internal/domain"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

var tableDescriptions = map[string]string{
	domain.TableCustomers:  "Customer information including personal details and signup date",
	domain.TableProducts:   "Product catalog with pricing and categorization",
	domain.TableOrders:     "Order records with customer references and totals",
	domain.TableOrderItems: "Individual items within orders with quantities and pricing",
	domain.TablePayments:   "Payment records linked to orders with payment method details",
}

var columnDescriptions = map[string]string{
	"customer_id":    "Unique identifier for the customer",
	"first_name":     "Customer's first name",
	"last_name":      "Customer's last name",
	"email":          "Customer's email address (unique)",
	"signup_date":    "Date when customer registered",
	"product_id":     "Unique identifier for the product",
	"name":           "Product name",
	"category":       "Product category",
	"price":          "Product price (must be > 0)",
	"order_id":       "Unique identifier for the order",
	"order_date":     "Date when order was placed",
	"total_amount":   "Total amount for the order",
	"order_item_id":  "Unique identifier for the order item",
	"quantity":       "Quantity of product ordered (must be > 0)",
	"line_total":     "Total cost for this line item",
	"payment_id":     "Unique identifier for the payment",
	"payment_method": "Method of payment (card, paypal, bank)",
	"amount":         "Payment amount",
	"payment_date":   "Date when payment was processed",
}

const erDiagram = "```\n" +
	"customers ──┬─────────────┐\n" +
	"            │             │\n" +
	"            ▼             ▼\n" +
	"          orders ──┬───► payments\n" +
	"                   │\n" +
	"                   ▼\n" +
	"              order_items ──► products\n" +
	"```\n"

// constraintNotes collects CHECK and single-column UNIQUE constraints per
// column from the model definitions.
func constraintNotes(db *gorm.DB) (map[string]map[string][]string, error) {
	cache := &sync.Map{}
	notes := map[string]map[string][]string{}
	for _, model := range domain.Tables {
		sch, err := schema.Parse(model, cache, db.NamingStrategy)
		if err != nil {
			return nil, errors.Wrap(err, "parse model schema")
		}
		cols := map[string][]string{}
		for _, chk := range sch.ParseCheckConstraints() {
			if chk.Field == nil {
				continue
			}
			cols[chk.Field.DBName] = append(cols[chk.Field.DBName], "CHECK("+chk.Constraint+")")
		}
		for _, idx := range sch.ParseIndexes() {
			if idx.Class == "UNIQUE" && len(idx.Fields) == 1 {
				name := idx.Fields[0].DBName
				cols[name] = append(cols[name], "UNIQUE")
			}
		}
		for name := range cols {
			sort.Strings(cols[name])
		}
		notes[sch.Table] = cols
	}
	return notes, nil
}

// DataDictionary renders the markdown data dictionary of the dataset tables
// present in db.
func DataDictionary(db *gorm.DB, generatedAt time.Time) (string, error) {
	existing, err := ListTables(db)
	if err != nil {
		return "", err
	}
	present := map[string]int64{}
	for _, t := range existing {
		present[t.Name] = t.RowCount
	}
	notes, err := constraintNotes(db)
	if err != nil {
		return "", err
	}

	p := message.NewPrinter(language.English)
	var b strings.Builder
	b.WriteString("# E-commerce Data Dictionary\n")
	fmt.Fprintf(&b, "*Generated on %s*\n\n", generatedAt.Format("2006-01-02 15:04:05"))
	b.WriteString("## Project Overview\n\n")
	b.WriteString("A synthetic e-commerce dataset of customers, products, orders, order items and payments. ")
	b.WriteString("Every reference resolves, every order has at least one item, order totals equal the sum of their ")
	b.WriteString("line totals and every order has exactly one payment for its total.\n\n")
	fmt.Fprintf(&b, "Database: %s\n\n---\n\n", db.Dialector.Name())
	b.WriteString("## Entity Relationship Diagram\n")
	b.WriteString(erDiagram)
	b.WriteString("\n")

	for _, table := range domain.TableNames {
		count, ok := present[table]
		if !ok {
			continue
		}
		columns, err := TableColumns(db, table)
		if err != nil {
			return "", err
		}
		fks, err := ForeignKeys(db, table)
		if err != nil {
			return "", err
		}

		fmt.Fprintf(&b, "## %s\n\n", table)
		fmt.Fprintf(&b, "%s\n\n", tableDescriptions[table])
		b.WriteString(p.Sprintf("**Row Count:** %d\n\n", count))
		b.WriteString("### Schema\n")
		b.WriteString("| Column | Type | Constraints | Description |\n")
		b.WriteString("|--------|------|-------------|-------------|\n")
		for _, col := range columns {
			var constraints []string
			if !col.Nullable {
				constraints = append(constraints, "NOT NULL")
			}
			if col.PrimaryKey {
				constraints = append(constraints, "PRIMARY KEY")
			}
			constraints = append(constraints, notes[table][col.Name]...)
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
				col.Name, col.Type, strings.Join(constraints, ", "), columnDescriptions[col.Name])
		}
		b.WriteString("\n")

		if len(fks) > 0 {
			b.WriteString("### Foreign Keys\n")
			b.WriteString("| Column | References |\n")
			b.WriteString("|--------|------------|\n")
			for _, fk := range fks {
				fmt.Fprintf(&b, "| %s | %s(%s) |\n", fk.Column, fk.ReferencedTable, fk.ReferencedColumn)
			}
			b.WriteString("\n")
		}
		b.WriteString("---\n\n")
	}
	return b.String(), nil
}

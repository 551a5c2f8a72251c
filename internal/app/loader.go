package app

import (
	"context"

	"github.com/pkg/errors"
	"github.com/talkincode/shopgen/internal/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultBatchSize is the number of rows per INSERT when none is configured.
const DefaultBatchSize = 500

// LoadDataset replaces the contents of the five tables with ds in a single
// transaction. Existing rows are removed children first, then tables are
// filled parents first so every foreign key resolves on insert.
func LoadDataset(ctx context.Context, db *gorm.DB, ds *domain.Dataset, batchSize int) error {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := len(domain.Tables) - 1; i >= 0; i-- {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(domain.Tables[i]).Error; err != nil {
				return errors.Wrapf(err, "clear %s", domain.TableNames[i])
			}
		}

		inserts := []struct {
			table string
			rows  interface{}
			n     int
		}{
			{domain.TableCustomers, ds.Customers, len(ds.Customers)},
			{domain.TableProducts, ds.Products, len(ds.Products)},
			{domain.TableOrders, ds.Orders, len(ds.Orders)},
			{domain.TableOrderItems, ds.OrderItems, len(ds.OrderItems)},
			{domain.TablePayments, ds.Payments, len(ds.Payments)},
		}
		for _, ins := range inserts {
			if err := ctx.Err(); err != nil {
				return err
			}
			if ins.n == 0 {
				continue
			}
			if err := tx.Omit(clause.Associations).CreateInBatches(ins.rows, batchSize).Error; err != nil {
				return errors.Wrapf(err, "insert %s", ins.table)
			}
			zap.L().Debug("table loaded",
				zap.String("namespace", "loader"),
				zap.String("table", ins.table),
				zap.Int("rows", ins.n))
		}
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "load dataset")
	}
	zap.L().Info("dataset loaded",
		zap.String("namespace", "loader"),
		zap.String("database", db.Dialector.Name()),
		zap.Int("rows", ds.TotalRows()))
	return nil
}

// LoadStoredDataset reads the five tables back in primary key order.
func LoadStoredDataset(ctx context.Context, db *gorm.DB) (*domain.Dataset, error) {
	ds := &domain.Dataset{}
	tx := db.WithContext(ctx)
	steps := []struct {
		table string
		order string
		dest  interface{}
	}{
		{domain.TableCustomers, "customer_id", &ds.Customers},
		{domain.TableProducts, "product_id", &ds.Products},
		{domain.TableOrders, "order_id", &ds.Orders},
		{domain.TableOrderItems, "order_item_id", &ds.OrderItems},
		{domain.TablePayments, "payment_id", &ds.Payments},
	}
	for _, s := range steps {
		if err := tx.Order(s.order).Find(s.dest).Error; err != nil {
			return nil, errors.Wrapf(err, "read %s", s.table)
		}
	}
	return ds, nil
}

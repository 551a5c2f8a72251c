package generator

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talkincode/shopgen/internal/domain"
)

var testAnchor = domain.NewDate(time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC))

func TestCustomersDenseIDsAndUniqueEmails(t *testing.T) {
	w := TrailingWindow(testAnchor, 365)
	customers, err := Customers(NewSource(1), 500, w)
	require.NoError(t, err)
	require.Len(t, customers, 500)

	emails := map[string]bool{}
	for i, c := range customers {
		assert.Equal(t, int64(i+1), c.CustomerID)
		assert.NotEmpty(t, c.FirstName)
		assert.NotEmpty(t, c.LastName)
		assert.False(t, emails[c.Email], "duplicate email %s", c.Email)
		emails[c.Email] = true
		assert.False(t, c.SignupDate.Before(w.Start))
		assert.False(t, w.End.Before(c.SignupDate))
	}
}

func TestCustomersRejectsNonPositiveCount(t *testing.T) {
	_, err := Customers(NewSource(1), 0, TrailingWindow(testAnchor, 10))
	assert.True(t, errors.Is(err, ErrConfig))
}

func TestUniqueEmailBudgetExhausted(t *testing.T) {
	seen := map[string]struct{}{}
	twin := NewSource(7)
	for i := 0; i < maxEmailAttempts; i++ {
		seen[twin.Email()] = struct{}{}
	}
	_, err := uniqueEmail(NewSource(7), seen)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrGeneration))
}

func TestProductsPriceAndCategory(t *testing.T) {
	products, err := Products(NewSource(2), 1000)
	require.NoError(t, err)
	require.Len(t, products, 1000)
	for i, p := range products {
		assert.Equal(t, int64(i+1), p.ProductID)
		assert.Greater(t, p.Price, 0.0)
		assert.Equal(t, domain.Round2(p.Price), p.Price)
		assert.True(t, domain.IsCategory(p.Category), p.Category)
		assert.NotEmpty(t, p.Name)
	}
}

func TestOrdersAreShells(t *testing.T) {
	w := TrailingWindow(testAnchor, 90)
	orders, err := Orders(NewSource(3), 200, 7, w)
	require.NoError(t, err)
	require.Len(t, orders, 200)
	for i, o := range orders {
		assert.Equal(t, int64(i+1), o.OrderID)
		assert.GreaterOrEqual(t, o.CustomerID, int64(1))
		assert.LessOrEqual(t, o.CustomerID, int64(7))
		assert.Zero(t, o.TotalAmount)
		assert.False(t, o.OrderDate.Before(w.Start))
	}
}

func fixture(t *testing.T, orders, products int) ([]domain.Order, []domain.Product) {
	t.Helper()
	src := NewSource(11)
	ps, err := Products(src, products)
	require.NoError(t, err)
	os, err := Orders(src, orders, 5, TrailingWindow(testAnchor, 30))
	require.NoError(t, err)
	return os, ps
}

func TestOrderItemsCoverageThenDistribution(t *testing.T) {
	shells, products := fixture(t, 40, 25)
	items, orders, err := OrderItems(NewSource(5), shells, products, 300)
	require.NoError(t, err)
	require.Len(t, items, 300)
	require.Len(t, orders, 40)

	for i, it := range items {
		assert.Equal(t, int64(i+1), it.OrderItemID, "ids are sequential without gaps")
		if i < len(shells) {
			assert.Equal(t, shells[i].OrderID, it.OrderID, "coverage assigns one item per order in order sequence")
			assert.LessOrEqual(t, it.Quantity, 3)
		}
		assert.GreaterOrEqual(t, it.Quantity, 1)
		assert.LessOrEqual(t, it.Quantity, 10)
	}

	for _, o := range shells {
		assert.Zero(t, o.TotalAmount, "input orders are not modified")
	}
}

func TestOrderItemsTotalsUsePerStepRounding(t *testing.T) {
	shells, products := fixture(t, 10, 8)
	// prices with a third decimal make every multiplication round
	for i := range products {
		products[i].Price = 1.005 + float64(i)*0.333
	}
	items, orders, err := OrderItems(NewSource(9), shells, products, 120)
	require.NoError(t, err)

	price := map[int64]float64{}
	for _, p := range products {
		price[p.ProductID] = p.Price
	}
	running := map[int64]float64{}
	for _, it := range items {
		assert.Equal(t, domain.Round2(float64(it.Quantity)*price[it.ProductID]), it.LineTotal)
		running[it.OrderID] += it.LineTotal
	}
	for _, o := range orders {
		assert.Equal(t, domain.Round2(running[o.OrderID]), o.TotalAmount)
		assert.True(t, domain.MoneyEqual(running[o.OrderID], o.TotalAmount))
	}
}

func TestOrderItemsCoverageOnly(t *testing.T) {
	shells, products := fixture(t, 12, 4)
	items, orders, err := OrderItems(NewSource(4), shells, products, 12)
	require.NoError(t, err)
	require.Len(t, items, 12)
	for i, o := range orders {
		assert.Equal(t, o.OrderID, items[i].OrderID)
		assert.Equal(t, items[i].LineTotal, o.TotalAmount)
	}
}

func TestOrderItemsRejectsTooFewItems(t *testing.T) {
	shells, products := fixture(t, 15, 4)
	items, orders, err := OrderItems(NewSource(4), shells, products, 14)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfig))
	assert.Nil(t, items)
	assert.Nil(t, orders)
}

func TestBulkQuantityMixture(t *testing.T) {
	src := NewSource(21)
	bulk := 0
	const n = 20000
	for i := 0; i < n; i++ {
		q := bulkQuantity(src)
		require.GreaterOrEqual(t, q, 1)
		require.LessOrEqual(t, q, 10)
		if q >= 4 {
			bulk++
		}
	}
	assert.InDelta(t, bulkQuantityRate, float64(bulk)/n, 0.02)
}

func TestPaymentsMirrorOrders(t *testing.T) {
	shells, products := fixture(t, 30, 10)
	_, orders, err := OrderItems(NewSource(6), shells, products, 90)
	require.NoError(t, err)

	payments := Payments(NewSource(8), orders, 7)
	require.Len(t, payments, len(orders))
	for i, p := range payments {
		o := orders[i]
		assert.Equal(t, int64(i+1), p.PaymentID)
		assert.Equal(t, o.OrderID, p.OrderID)
		assert.Equal(t, o.TotalAmount, p.Amount)
		assert.True(t, domain.IsPaymentMethod(p.PaymentMethod))
		assert.False(t, p.PaymentDate.Before(o.OrderDate))
		assert.False(t, o.OrderDate.AddDays(7).Before(p.PaymentDate))
	}
}

func TestParamsValidateCollectsAllProblems(t *testing.T) {
	p := DefaultParams()
	p.Customers = 0
	p.OrderItems = p.Orders - 1
	p.PaymentLagDays = -1
	err := p.Validate()
	require.Error(t, err)

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Len(t, cfgErr.Problems, 3)
	assert.True(t, errors.Is(err, ErrConfig))

	assert.NoError(t, DefaultParams().Validate())
	assert.NoError(t, SampleParams().Validate())
}

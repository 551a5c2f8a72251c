package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateScanAndValue(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan("2024-03-09"))
	assert.Equal(t, "2024-03-09", d.String())

	require.NoError(t, d.Scan([]byte("2024-03-10 00:00:00+00:00")))
	assert.Equal(t, "2024-03-10", d.String())

	require.NoError(t, d.Scan(time.Date(2024, 3, 11, 17, 45, 0, 0, time.UTC)))
	assert.Equal(t, "2024-03-11", d.String())

	v, err := d.Value()
	require.NoError(t, err)
	assert.Equal(t, "2024-03-11", v)

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())
	v, err = d.Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	assert.Error(t, d.Scan(42))
}

func TestDateJSONAndCSV(t *testing.T) {
	d, err := ParseDate("2023-12-31")
	require.NoError(t, err)

	b, err := d.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"2023-12-31"`, string(b))

	var back Date
	require.NoError(t, back.UnmarshalJSON(b))
	assert.True(t, back.Equal(d.Time))

	s, err := d.MarshalCSV()
	require.NoError(t, err)
	assert.Equal(t, "2023-12-31", s)
	require.NoError(t, back.UnmarshalCSV("2024-01-01"))
	assert.True(t, d.AddDays(1).Equal(back.Time))
	assert.True(t, d.Before(back))
}

func TestMembership(t *testing.T) {
	assert.Len(t, Categories, 10)
	assert.True(t, IsCategory("Home & Garden"))
	assert.False(t, IsCategory("Garden"))
	assert.True(t, IsPaymentMethod("paypal"))
	assert.False(t, IsPaymentMethod("cash"))
}

func TestDatasetDigest(t *testing.T) {
	day, _ := ParseDate("2024-01-01")
	ds := &Dataset{
		Customers: []Customer{{CustomerID: 1, FirstName: "Ada", LastName: "Byron", Email: "ada@example.com", SignupDate: day}},
		Products:  []Product{{ProductID: 1, Name: "Lamp Shade", Category: "Home & Garden", Price: 19.99}},
		Orders:    []Order{{OrderID: 1, CustomerID: 1, OrderDate: day, TotalAmount: 39.98}},
		OrderItems: []OrderItem{
			{OrderItemID: 1, OrderID: 1, ProductID: 1, Quantity: 2, LineTotal: 39.98},
		},
		Payments: []Payment{{PaymentID: 1, OrderID: 1, PaymentMethod: PaymentCard, Amount: 39.98, PaymentDate: day}},
	}
	first := ds.Digest()
	assert.Len(t, first, 64)
	assert.Equal(t, first, ds.Digest())
	assert.Equal(t, 5, ds.TotalRows())
	assert.Equal(t, 1, ds.Counts()[TableOrderItems])

	ds.Orders[0].TotalAmount = 39.99
	assert.NotEqual(t, first, ds.Digest())
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 3.0, Round2(2.999))
	assert.Equal(t, 12.35, Round2(12.345000001))
	assert.Equal(t, 0.01, Round2(0.005000001))
	assert.True(t, MoneyEqual(10.00, 10.009))
	assert.False(t, MoneyEqual(10.00, 10.02))
}

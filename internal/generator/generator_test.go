package generator_test

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talkincode/shopgen/internal/generator"
	"github.com/talkincode/shopgen/internal/validator"
)

func smallParams() generator.Params {
	p := generator.DefaultParams()
	p.Customers = 10
	p.Products = 20
	p.Orders = 15
	p.OrderItems = 50
	p.Anchor = time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	return p
}

func TestGenerateSmallScenario(t *testing.T) {
	var stages []string
	ds, err := generator.Generate(smallParams(), func(stage string, rows int) {
		stages = append(stages, stage)
	})
	require.NoError(t, err)

	assert.Len(t, ds.Customers, 10)
	assert.Len(t, ds.Products, 20)
	assert.Len(t, ds.Orders, 15)
	assert.Len(t, ds.OrderItems, 50)
	assert.Len(t, ds.Payments, 15)
	assert.Equal(t, []string{
		generator.StageCustomers,
		generator.StageProducts,
		generator.StageOrders,
		generator.StageOrderItems,
		generator.StagePayments,
	}, stages)

	report := validator.Validate(ds)
	assert.True(t, report.OK(), report.Summary())
	assert.Empty(t, report.Violations)
}

func TestGenerateIsDeterministic(t *testing.T) {
	a, err := generator.Generate(smallParams())
	require.NoError(t, err)
	b, err := generator.Generate(smallParams())
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, a.Digest(), b.Digest())

	other := smallParams()
	other.Seed = 43
	c, err := generator.Generate(other)
	require.NoError(t, err)
	assert.NotEqual(t, a.Digest(), c.Digest())
}

func TestGenerateRejectsTooFewItemsBeforeAnyRow(t *testing.T) {
	p := smallParams()
	p.OrderItems = p.Orders - 1
	called := false
	ds, err := generator.Generate(p, func(string, int) { called = true })
	require.Error(t, err)
	assert.True(t, errors.Is(err, generator.ErrConfig))
	assert.Nil(t, ds)
	assert.False(t, called)
}

func TestGenerateDefaultScaleValidates(t *testing.T) {
	if testing.Short() {
		t.Skip("full-size dataset")
	}
	p := generator.DefaultParams()
	p.Anchor = time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	ds, err := generator.Generate(p)
	require.NoError(t, err)
	assert.Equal(t, 10000, len(ds.OrderItems))
	report := validator.Validate(ds)
	assert.True(t, report.OK(), report.Summary())
}

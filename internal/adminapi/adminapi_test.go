package adminapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talkincode/shopgen/config"
	"github.com/talkincode/shopgen/internal/app"
	"github.com/talkincode/shopgen/internal/domain"
	"github.com/talkincode/shopgen/internal/generator"
	"github.com/talkincode/shopgen/internal/webserver"
	"gorm.io/gorm"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type fixture struct {
	ds      *domain.Dataset
	db      *gorm.DB
	handler http.Handler
}

func setup(t *testing.T) *fixture {
	t.Helper()
	cfg := config.DefaultAppConfig()
	cfg.System.Workdir = t.TempDir()
	cfg.Logger.FileEnable = false
	cfg.Audit.Enabled = false

	db, err := app.OpenMemoryDatabase()
	require.NoError(t, err)
	a := app.NewApplication(cfg)
	a.OverrideDB(db)
	require.NoError(t, a.Init())
	t.Cleanup(a.Release)

	p := generator.SampleParams()
	p.Anchor = time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
	ds, err := generator.Generate(p)
	require.NoError(t, err)
	require.NoError(t, app.LoadDataset(context.Background(), db, ds, 100))

	Init()
	return &fixture{ds: ds, db: db, handler: webserver.NewWebServer(a).Handler()}
}

func (f *fixture) get(t *testing.T, path string, out interface{}) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	if out != nil {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
	}
	return rec.Code
}

type pagedBody[T any] struct {
	Data []T      `json:"data"`
	Meta PageMeta `json:"meta"`
}

type itemBody[T any] struct {
	Data T `json:"data"`
}

func TestHealthAndBanner(t *testing.T) {
	f := setup(t)
	var body map[string]string
	assert.Equal(t, http.StatusOK, f.get(t, "/health", &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, http.StatusOK, f.get(t, "/", &body))
	assert.Contains(t, body["message"], "running")

	var errBody webserver.ErrorBody
	assert.Equal(t, http.StatusNotFound, f.get(t, "/api/v1/refunds", &errBody))
	assert.Equal(t, "NOT_FOUND", errBody.Error)
}

func TestListCustomersPagination(t *testing.T) {
	f := setup(t)
	var body pagedBody[domain.Customer]
	require.Equal(t, http.StatusOK, f.get(t, "/api/v1/customers?page=2&perPage=30", &body))
	assert.Equal(t, int64(100), body.Meta.Total)
	assert.Equal(t, 2, body.Meta.Page)
	assert.Equal(t, 30, body.Meta.PageSize)
	require.Len(t, body.Data, 30)
	assert.Equal(t, int64(31), body.Data[0].CustomerID)
	assert.Equal(t, f.ds.Customers[30].Email, body.Data[0].Email)
	assert.Equal(t, f.ds.Customers[30].SignupDate.String(), body.Data[0].SignupDate.String())

	require.Equal(t, http.StatusOK, f.get(t, "/api/v1/customers?limit=5000", &body))
	assert.Equal(t, 1000, body.Meta.PageSize)
	assert.Len(t, body.Data, 100)
}

func TestListCustomersByName(t *testing.T) {
	f := setup(t)
	want := f.ds.Customers[7].LastName
	var body pagedBody[domain.Customer]
	require.Equal(t, http.StatusOK, f.get(t, "/api/v1/customers?name="+urlEscape(want), &body))
	require.NotEmpty(t, body.Data)
	for _, c := range body.Data {
		assert.True(t, containsFold(c.FirstName, want) || containsFold(c.LastName, want))
	}
}

func TestGetCustomer(t *testing.T) {
	f := setup(t)
	var body itemBody[domain.Customer]
	require.Equal(t, http.StatusOK, f.get(t, "/api/v1/customers/3", &body))
	assert.Equal(t, f.ds.Customers[2].Email, body.Data.Email)

	var errBody webserver.ErrorBody
	assert.Equal(t, http.StatusNotFound, f.get(t, "/api/v1/customers/9999", &errBody))
	assert.Equal(t, "NOT_FOUND", errBody.Error)
	assert.Equal(t, http.StatusBadRequest, f.get(t, "/api/v1/customers/abc", &errBody))
	assert.Equal(t, "INVALID_ID", errBody.Error)
}

func TestListProductsByCategory(t *testing.T) {
	f := setup(t)
	category := f.ds.Products[0].Category
	want := 0
	for _, p := range f.ds.Products {
		if p.Category == category {
			want++
		}
	}
	var body pagedBody[domain.Product]
	require.Equal(t, http.StatusOK, f.get(t, "/api/v1/products?category="+urlEscape(category)+"&sort=price&order=desc", &body))
	assert.Equal(t, int64(want), body.Meta.Total)
	for i, p := range body.Data {
		assert.Equal(t, category, p.Category)
		if i > 0 {
			assert.LessOrEqual(t, p.Price, body.Data[i-1].Price)
		}
	}

	var cats itemBody[[]string]
	require.Equal(t, http.StatusOK, f.get(t, "/api/v1/products/categories", &cats))
	assert.Equal(t, domain.Categories, cats.Data)
}

func TestGetOrderWithItems(t *testing.T) {
	f := setup(t)
	var body itemBody[OrderDetail]
	require.Equal(t, http.StatusOK, f.get(t, "/api/v1/orders/1", &body))
	assert.Equal(t, f.ds.Orders[0].TotalAmount, body.Data.TotalAmount)
	require.NotEmpty(t, body.Data.Items)
	sum := 0.0
	for _, it := range body.Data.Items {
		assert.Equal(t, int64(1), it.OrderID)
		sum += it.LineTotal
	}
	assert.True(t, domain.MoneyEqual(domain.Round2(sum), body.Data.TotalAmount))
	require.NotNil(t, body.Data.Payment)
	assert.Equal(t, body.Data.TotalAmount, body.Data.Payment.Amount)
}

func TestListOrdersFilters(t *testing.T) {
	f := setup(t)
	cust := f.ds.Orders[0].CustomerID
	want := 0
	for _, o := range f.ds.Orders {
		if o.CustomerID == cust {
			want++
		}
	}
	var body pagedBody[domain.Order]
	require.Equal(t, http.StatusOK, f.get(t, "/api/v1/orders?customer_id="+itoa(cust), &body))
	assert.Equal(t, int64(want), body.Meta.Total)

	dates := make([]string, 0, len(f.ds.Orders))
	for _, o := range f.ds.Orders {
		dates = append(dates, o.OrderDate.String())
	}
	sort.Strings(dates)
	from, to := dates[50], dates[149]
	inRange := 0
	for _, d := range dates {
		if d >= from && d <= to {
			inRange++
		}
	}
	require.Equal(t, http.StatusOK, f.get(t, "/api/v1/orders?from="+from+"&to="+to+"&perPage=1000", &body))
	assert.Equal(t, int64(inRange), body.Meta.Total)
	for _, o := range body.Data {
		assert.GreaterOrEqual(t, o.OrderDate.String(), from)
		assert.LessOrEqual(t, o.OrderDate.String(), to)
	}

	var errBody webserver.ErrorBody
	assert.Equal(t, http.StatusBadRequest, f.get(t, "/api/v1/orders?from=someday", &errBody))
}

func TestOrderItemsAndPayments(t *testing.T) {
	f := setup(t)
	var items pagedBody[domain.OrderItem]
	require.Equal(t, http.StatusOK, f.get(t, "/api/v1/order-items?order_id=1", &items))
	assert.NotZero(t, items.Meta.Total)

	var item itemBody[domain.OrderItem]
	require.Equal(t, http.StatusOK, f.get(t, "/api/v1/order-items/10", &item))
	assert.Equal(t, f.ds.OrderItems[9], item.Data)

	var payments pagedBody[domain.Payment]
	require.Equal(t, http.StatusOK, f.get(t, "/api/v1/payments?method=paypal&perPage=1000", &payments))
	for _, p := range payments.Data {
		assert.Equal(t, domain.PaymentPaypal, p.PaymentMethod)
	}

	var errBody webserver.ErrorBody
	assert.Equal(t, http.StatusBadRequest, f.get(t, "/api/v1/payments?method=cash", &errBody))
	assert.Equal(t, http.StatusNotFound, f.get(t, "/api/v1/payments/100000", &errBody))
}

func TestAnalytics(t *testing.T) {
	f := setup(t)

	var daily itemBody[[]DailyRevenue]
	require.Equal(t, http.StatusOK, f.get(t, "/api/v1/analytics/revenue/daily", &daily))
	var orders int64
	for i, d := range daily.Data {
		orders += d.OrderCount
		if i > 0 {
			assert.True(t, daily.Data[i-1].Date.Before(d.Date))
		}
	}
	assert.Equal(t, int64(len(f.ds.Orders)), orders)

	var top itemBody[[]TopCustomer]
	require.Equal(t, http.StatusOK, f.get(t, "/api/v1/analytics/top-customers?limit=5", &top))
	require.Len(t, top.Data, 5)
	for i := 1; i < len(top.Data); i++ {
		assert.GreaterOrEqual(t, top.Data[i-1].TotalSpend, top.Data[i].TotalSpend)
	}

	var errBody webserver.ErrorBody
	assert.Equal(t, http.StatusBadRequest, f.get(t, "/api/v1/analytics/top-customers?limit=101", &errBody))
	assert.Equal(t, http.StatusBadRequest, f.get(t, "/api/v1/analytics/top-products?limit=0", &errBody))

	var products itemBody[[]TopProduct]
	require.Equal(t, http.StatusOK, f.get(t, "/api/v1/analytics/top-products", &products))
	assert.Len(t, products.Data, defaultTopN)

	var methods itemBody[[]PaymentMethodStat]
	require.Equal(t, http.StatusOK, f.get(t, "/api/v1/analytics/payment-methods", &methods))
	var payments int64
	for _, m := range methods.Data {
		assert.True(t, domain.IsPaymentMethod(m.PaymentMethod))
		payments += m.Payments
	}
	assert.Equal(t, int64(len(f.ds.Payments)), payments)

	var categories itemBody[[]CategoryRevenue]
	require.Equal(t, http.StatusOK, f.get(t, "/api/v1/analytics/revenue/category", &categories))
	assert.NotEmpty(t, categories.Data)

	var signups itemBody[[]MonthlySignups]
	require.Equal(t, http.StatusOK, f.get(t, "/api/v1/analytics/signups/monthly", &signups))
	var customers int64
	for _, s := range signups.Data {
		assert.Len(t, s.Month, 7)
		customers += s.Customers
	}
	assert.Equal(t, int64(len(f.ds.Customers)), customers)

	var ov itemBody[Overview]
	require.Equal(t, http.StatusOK, f.get(t, "/api/v1/analytics/overview", &ov))
	assert.Equal(t, int64(500), ov.Data.Rows[domain.TableOrderItems])
	revenue := 0.0
	for _, o := range f.ds.Orders {
		revenue += o.TotalAmount
	}
	assert.True(t, domain.MoneyEqual(domain.Round2(revenue), ov.Data.Revenue))
	assert.Equal(t, 2.5, ov.Data.AvgItemsPerOrd)
	assert.False(t, ov.Data.FirstOrderDate.IsZero())
	assert.False(t, ov.Data.LastOrderDate.Before(ov.Data.FirstOrderDate))
}

func TestDbmsRoutes(t *testing.T) {
	f := setup(t)
	var tables itemBody[[]struct {
		Name     string `json:"name"`
		RowCount int64  `json:"row_count"`
	}]
	require.Equal(t, http.StatusOK, f.get(t, "/api/v1/dbms/tables", &tables))
	found := map[string]int64{}
	for _, tb := range tables.Data {
		found[tb.Name] = tb.RowCount
	}
	assert.Equal(t, int64(200), found[domain.TableOrders])

	var cols itemBody[[]struct {
		Name       string `json:"name"`
		PrimaryKey bool   `json:"primary_key"`
	}]
	require.Equal(t, http.StatusOK, f.get(t, "/api/v1/dbms/tables/payments/schema", &cols))
	require.NotEmpty(t, cols.Data)
	assert.Equal(t, "payment_id", cols.Data[0].Name)
	assert.True(t, cols.Data[0].PrimaryKey)

	var fks itemBody[[]struct {
		Column          string `json:"column"`
		ReferencedTable string `json:"referenced_table"`
	}]
	require.Equal(t, http.StatusOK, f.get(t, "/api/v1/dbms/tables/payments/foreignkeys", &fks))
	require.Len(t, fks.Data, 1)
	assert.Equal(t, domain.TableOrders, fks.Data[0].ReferencedTable)

	var errBody webserver.ErrorBody
	assert.Equal(t, http.StatusNotFound, f.get(t, "/api/v1/dbms/tables/refunds/schema", &errBody))
	assert.Equal(t, http.StatusBadRequest, f.get(t, "/api/v1/dbms/tables/bad-name/schema", &errBody))
}

func TestLookupDatabaseErrorIsNotNotFound(t *testing.T) {
	f := setup(t)
	var body itemBody[domain.Payment]
	require.Equal(t, http.StatusOK, f.get(t, "/api/v1/payments/1", &body))
	assert.Equal(t, int64(1), body.Data.PaymentID)

	require.NoError(t, f.db.Migrator().DropTable(&domain.Payment{}))

	var errBody webserver.ErrorBody
	assert.Equal(t, http.StatusInternalServerError, f.get(t, "/api/v1/payments/1", &errBody))
	assert.Equal(t, "DATABASE_ERROR", errBody.Error)
	assert.Equal(t, http.StatusInternalServerError, f.get(t, "/api/v1/orders/1", &errBody))
	assert.Equal(t, "DATABASE_ERROR", errBody.Error)
	assert.Equal(t, http.StatusNotFound, f.get(t, "/api/v1/customers/100000", &errBody))
	assert.Equal(t, "NOT_FOUND", errBody.Error)
}

func TestGetOrderWithoutPayment(t *testing.T) {
	f := setup(t)
	require.NoError(t, f.db.Where("order_id = ?", 2).Delete(&domain.Payment{}).Error)
	var raw map[string]interface{}
	require.Equal(t, http.StatusOK, f.get(t, "/api/v1/orders/2", &raw))
	data := raw["data"].(map[string]interface{})
	assert.NotContains(t, data, "payment")
	assert.NotEmpty(t, data["items"])
	assert.EqualValues(t, 2, data["order_id"])
}

package adminapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/talkincode/shopgen/internal/domain"
	"github.com/talkincode/shopgen/internal/webserver"
	"gorm.io/gorm"
)

const (
	defaultTopN = 10
	maxTopN     = 100
)

type DailyRevenue struct {
	Date       domain.Date `json:"date" gorm:"column:date"`
	OrderCount int64       `json:"order_count" gorm:"column:order_count"`
	Revenue    float64     `json:"revenue" gorm:"column:revenue"`
}

type TopCustomer struct {
	CustomerID int64   `json:"customer_id" gorm:"column:customer_id"`
	FirstName  string  `json:"first_name" gorm:"column:first_name"`
	LastName   string  `json:"last_name" gorm:"column:last_name"`
	OrderCount int64   `json:"order_count" gorm:"column:order_count"`
	TotalSpend float64 `json:"total_spend" gorm:"column:total_spend"`
}

type TopProduct struct {
	ProductID     int64   `json:"product_id" gorm:"column:product_id"`
	Name          string  `json:"name" gorm:"column:name"`
	Category      string  `json:"category" gorm:"column:category"`
	TotalQuantity int64   `json:"total_quantity" gorm:"column:total_quantity"`
	TotalRevenue  float64 `json:"total_revenue" gorm:"column:total_revenue"`
}

type CategoryRevenue struct {
	Category   string  `json:"category" gorm:"column:category"`
	OrderCount int64   `json:"order_count" gorm:"column:order_count"`
	Quantity   int64   `json:"quantity" gorm:"column:quantity"`
	Revenue    float64 `json:"revenue" gorm:"column:revenue"`
}

type PaymentMethodStat struct {
	PaymentMethod string  `json:"payment_method" gorm:"column:payment_method"`
	Payments      int64   `json:"payments" gorm:"column:payments"`
	Amount        float64 `json:"amount" gorm:"column:amount"`
}

type MonthlySignups struct {
	Month     string `json:"month" gorm:"column:month"`
	Customers int64  `json:"customers" gorm:"column:customers"`
}

type Overview struct {
	Rows           map[string]int64 `json:"rows"`
	Revenue        float64          `json:"revenue"`
	AvgOrderValue  float64          `json:"avg_order_value"`
	AvgItemsPerOrd float64          `json:"avg_items_per_order"`
	FirstOrderDate domain.Date      `json:"first_order_date"`
	LastOrderDate  domain.Date      `json:"last_order_date"`
}

func registerAnalyticsRoutes() {
	webserver.ApiGET("/analytics/revenue/daily", dailyRevenue)
	webserver.ApiGET("/analytics/revenue/category", categoryRevenue)
	webserver.ApiGET("/analytics/top-customers", topCustomers)
	webserver.ApiGET("/analytics/top-products", topProducts)
	webserver.ApiGET("/analytics/payment-methods", paymentMethods)
	webserver.ApiGET("/analytics/signups/monthly", monthlySignups)
	webserver.ApiGET("/analytics/overview", overview)
}

// parseTopN reads limit for top-N endpoints. Unlike list pagination an out of
// range limit is rejected.
func parseTopN(c echo.Context) (int, bool) {
	v := c.QueryParam("limit")
	if v == "" {
		return defaultTopN, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 || n > maxTopN {
		return 0, false
	}
	return n, true
}

func dailyRevenue(c echo.Context) error {
	from, err := parseDateQuery(c, "from")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid from date", err.Error())
	}
	to, err := parseDateQuery(c, "to")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid to date", err.Error())
	}
	db := GetDB(c).Model(&domain.Order{}).
		Select("order_date AS date, COUNT(*) AS order_count, COALESCE(SUM(total_amount), 0) AS revenue")
	if !from.IsZero() {
		db = db.Where("order_date >= ?", from)
	}
	if !to.IsZero() {
		db = db.Where("order_date <= ?", to)
	}
	var rows []DailyRevenue
	if err := db.Group("order_date").Order("order_date").Scan(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "QUERY_ERROR", "Failed to aggregate daily revenue", err.Error())
	}
	for i := range rows {
		rows[i].Revenue = domain.Round2(rows[i].Revenue)
	}
	return ok(c, rows)
}

func topCustomers(c echo.Context) error {
	limit, valid := parseTopN(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "limit must be between 1 and 100", nil)
	}
	var rows []TopCustomer
	err := GetDB(c).Raw(`
		SELECT
			c.customer_id,
			c.first_name,
			c.last_name,
			COUNT(o.order_id) AS order_count,
			SUM(o.total_amount) AS total_spend
		FROM customers c
		JOIN orders o ON c.customer_id = o.customer_id
		GROUP BY c.customer_id, c.first_name, c.last_name
		ORDER BY total_spend DESC, c.customer_id
		LIMIT ?
	`, limit).Scan(&rows).Error
	if err != nil {
		return fail(c, http.StatusInternalServerError, "QUERY_ERROR", "Failed to rank customers", err.Error())
	}
	for i := range rows {
		rows[i].TotalSpend = domain.Round2(rows[i].TotalSpend)
	}
	return ok(c, rows)
}

func topProducts(c echo.Context) error {
	limit, valid := parseTopN(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "limit must be between 1 and 100", nil)
	}
	var rows []TopProduct
	err := GetDB(c).Raw(`
		SELECT
			p.product_id,
			p.name,
			p.category,
			SUM(oi.quantity) AS total_quantity,
			SUM(oi.line_total) AS total_revenue
		FROM products p
		JOIN order_items oi ON p.product_id = oi.product_id
		GROUP BY p.product_id, p.name, p.category
		ORDER BY total_revenue DESC, p.product_id
		LIMIT ?
	`, limit).Scan(&rows).Error
	if err != nil {
		return fail(c, http.StatusInternalServerError, "QUERY_ERROR", "Failed to rank products", err.Error())
	}
	for i := range rows {
		rows[i].TotalRevenue = domain.Round2(rows[i].TotalRevenue)
	}
	return ok(c, rows)
}

func categoryRevenue(c echo.Context) error {
	var rows []CategoryRevenue
	err := GetDB(c).Raw(`
		SELECT
			p.category,
			COUNT(DISTINCT oi.order_id) AS order_count,
			SUM(oi.quantity) AS quantity,
			SUM(oi.line_total) AS revenue
		FROM order_items oi
		JOIN products p ON p.product_id = oi.product_id
		GROUP BY p.category
		ORDER BY revenue DESC, p.category
	`).Scan(&rows).Error
	if err != nil {
		return fail(c, http.StatusInternalServerError, "QUERY_ERROR", "Failed to aggregate category revenue", err.Error())
	}
	for i := range rows {
		rows[i].Revenue = domain.Round2(rows[i].Revenue)
	}
	return ok(c, rows)
}

func paymentMethods(c echo.Context) error {
	var rows []PaymentMethodStat
	err := GetDB(c).Model(&domain.Payment{}).
		Select("payment_method, COUNT(*) AS payments, COALESCE(SUM(amount), 0) AS amount").
		Group("payment_method").
		Order("payment_method").
		Scan(&rows).Error
	if err != nil {
		return fail(c, http.StatusInternalServerError, "QUERY_ERROR", "Failed to aggregate payment methods", err.Error())
	}
	for i := range rows {
		rows[i].Amount = domain.Round2(rows[i].Amount)
	}
	return ok(c, rows)
}

func monthExpr(db *gorm.DB, column string) string {
	switch db.Dialector.Name() {
	case "postgres":
		return "to_char(" + column + ", 'YYYY-MM')"
	default:
		return "strftime('%Y-%m', " + column + ")"
	}
}

func monthlySignups(c echo.Context) error {
	db := GetDB(c)
	month := monthExpr(db, "signup_date")
	var rows []MonthlySignups
	err := db.Model(&domain.Customer{}).
		Select(month + " AS month, COUNT(*) AS customers").
		Group(month).
		Order("month").
		Scan(&rows).Error
	if err != nil {
		return fail(c, http.StatusInternalServerError, "QUERY_ERROR", "Failed to aggregate signups", err.Error())
	}
	return ok(c, rows)
}

func overview(c echo.Context) error {
	db := GetDB(c)
	res := Overview{Rows: map[string]int64{}}
	for i, table := range domain.TableNames {
		var n int64
		if err := db.Model(domain.Tables[i]).Count(&n).Error; err != nil {
			return fail(c, http.StatusInternalServerError, "QUERY_ERROR", "Failed to count "+table, err.Error())
		}
		res.Rows[table] = n
	}

	var agg struct {
		Revenue float64     `gorm:"column:revenue"`
		First   domain.Date `gorm:"column:first_date"`
		Last    domain.Date `gorm:"column:last_date"`
	}
	err := db.Model(&domain.Order{}).
		Select("COALESCE(SUM(total_amount), 0) AS revenue, MIN(order_date) AS first_date, MAX(order_date) AS last_date").
		Scan(&agg).Error
	if err != nil {
		return fail(c, http.StatusInternalServerError, "QUERY_ERROR", "Failed to aggregate orders", err.Error())
	}
	res.Revenue = domain.Round2(agg.Revenue)
	res.FirstOrderDate = agg.First
	res.LastOrderDate = agg.Last
	if orders := res.Rows[domain.TableOrders]; orders > 0 {
		res.AvgOrderValue = domain.Round2(agg.Revenue / float64(orders))
		res.AvgItemsPerOrd = domain.Round2(float64(res.Rows[domain.TableOrderItems]) / float64(orders))
	}
	return ok(c, res)
}

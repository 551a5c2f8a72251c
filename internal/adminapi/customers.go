package adminapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/talkincode/shopgen/internal/domain"
	"github.com/talkincode/shopgen/internal/webserver"
)

func registerCustomerRoutes() {
	webserver.ApiGET("/customers", listCustomers)
	webserver.ApiGET("/customers/:id", getCustomer)
	webserver.ApiGET("/customers/:id/orders", listCustomerOrders)
}

func listCustomers(c echo.Context) error {
	page, pageSize := parsePagination(c)
	db := GetDB(c).Model(&domain.Customer{})

	if name := strings.TrimSpace(c.QueryParam("name")); name != "" {
		db = db.Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?", likePattern(name), likePattern(name))
	}
	if email := strings.TrimSpace(c.QueryParam("email")); email != "" {
		db = db.Where("email = ?", strings.ToLower(email))
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query customers", err.Error())
	}
	var rows []domain.Customer
	if err := db.Order("customer_id").Offset((page - 1) * pageSize).Limit(pageSize).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query customers", err.Error())
	}
	return paged(c, rows, total, page, pageSize)
}

func getCustomer(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid customer ID", nil)
	}
	var cust domain.Customer
	if err := GetDB(c).Where("customer_id = ?", id).First(&cust).Error; err != nil {
		return lookupFail(c, err, "Customer")
	}
	return ok(c, cust)
}

func listCustomerOrders(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid customer ID", nil)
	}
	var orders []domain.Order
	if err := GetDB(c).Where("customer_id = ?", id).Order("order_date, order_id").Find(&orders).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query orders", err.Error())
	}
	return ok(c, orders)
}

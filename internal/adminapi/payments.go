package adminapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/talkincode/shopgen/internal/domain"
	"github.com/talkincode/shopgen/internal/webserver"
)

func registerPaymentRoutes() {
	webserver.ApiGET("/payments", listPayments)
	webserver.ApiGET("/payments/:id", getPayment)
}

func listPayments(c echo.Context) error {
	page, pageSize := parsePagination(c)
	method := strings.ToLower(strings.TrimSpace(c.QueryParam("method")))
	if method != "" && !domain.IsPaymentMethod(method) {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unknown payment method", domain.PaymentMethods)
	}
	orderID, err := parseInt64Query(c, "order_id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid order_id", err.Error())
	}

	db := GetDB(c).Model(&domain.Payment{})
	if method != "" {
		db = db.Where("payment_method = ?", method)
	}
	if orderID > 0 {
		db = db.Where("order_id = ?", orderID)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query payments", err.Error())
	}
	var rows []domain.Payment
	if err := db.Order("payment_id").Offset((page - 1) * pageSize).Limit(pageSize).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query payments", err.Error())
	}
	return paged(c, rows, total, page, pageSize)
}

func getPayment(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid payment ID", nil)
	}
	var p domain.Payment
	if err := GetDB(c).Where("payment_id = ?", id).First(&p).Error; err != nil {
		return lookupFail(c, err, "Payment")
	}
	return ok(c, p)
}

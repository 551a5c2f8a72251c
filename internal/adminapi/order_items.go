package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/talkincode/shopgen/internal/domain"
	"github.com/talkincode/shopgen/internal/webserver"
)

func registerOrderItemRoutes() {
	webserver.ApiGET("/order-items", listOrderItems)
	webserver.ApiGET("/order-items/:id", getOrderItem)
}

func listOrderItems(c echo.Context) error {
	page, pageSize := parsePagination(c)
	orderID, err := parseInt64Query(c, "order_id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid order_id", err.Error())
	}
	productID, err := parseInt64Query(c, "product_id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid product_id", err.Error())
	}

	db := GetDB(c).Model(&domain.OrderItem{})
	if orderID > 0 {
		db = db.Where("order_id = ?", orderID)
	}
	if productID > 0 {
		db = db.Where("product_id = ?", productID)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query order items", err.Error())
	}
	var rows []domain.OrderItem
	if err := db.Order("order_item_id").Offset((page - 1) * pageSize).Limit(pageSize).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query order items", err.Error())
	}
	return paged(c, rows, total, page, pageSize)
}

func getOrderItem(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order item ID", nil)
	}
	var item domain.OrderItem
	if err := GetDB(c).Where("order_item_id = ?", id).First(&item).Error; err != nil {
		return lookupFail(c, err, "Order item")
	}
	return ok(c, item)
}

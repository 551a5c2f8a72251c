package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/talkincode/shopgen/internal/domain"
	"github.com/talkincode/shopgen/internal/webserver"
	"gorm.io/gorm"
)

// OrderDetail is an order with its lines and payment.
type OrderDetail struct {
	domain.Order
	Items   []domain.OrderItem `json:"items"`
	Payment *domain.Payment    `json:"payment,omitempty"`
}

func registerOrderRoutes() {
	webserver.ApiGET("/orders", listOrders)
	webserver.ApiGET("/orders/:id", getOrder)
}

func listOrders(c echo.Context) error {
	page, pageSize := parsePagination(c)
	customerID, err := parseInt64Query(c, "customer_id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid customer_id", err.Error())
	}
	from, err := parseDateQuery(c, "from")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid from date", err.Error())
	}
	to, err := parseDateQuery(c, "to")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid to date", err.Error())
	}

	db := GetDB(c).Model(&domain.Order{})
	if customerID > 0 {
		db = db.Where("customer_id = ?", customerID)
	}
	if !from.IsZero() {
		db = db.Where("order_date >= ?", from)
	}
	if !to.IsZero() {
		db = db.Where("order_date <= ?", to)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query orders", err.Error())
	}
	var rows []domain.Order
	if err := db.Order("order_id").Offset((page - 1) * pageSize).Limit(pageSize).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query orders", err.Error())
	}
	return paged(c, rows, total, page, pageSize)
}

func getOrder(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	var order domain.Order
	err = GetDB(c).
		Preload("Items", func(tx *gorm.DB) *gorm.DB { return tx.Order("order_item_id") }).
		Preload("Payment").
		Where("order_id = ?", id).
		First(&order).Error
	if err != nil {
		return lookupFail(c, err, "Order")
	}
	detail := OrderDetail{Order: order, Items: order.Items, Payment: order.Payment}
	if detail.Items == nil {
		detail.Items = []domain.OrderItem{}
	}
	return ok(c, detail)
}

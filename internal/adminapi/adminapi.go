// Package adminapi implements the read-only REST endpoints over the stored
// dataset. Nothing here writes to the database.
package adminapi

import (
	"github.com/labstack/echo/v4"
	"github.com/talkincode/shopgen/internal/webserver"
	"gorm.io/gorm"
)

// Init registers every route with the webserver. Call it before
// webserver.NewWebServer.
func Init() {
	registerCustomerRoutes()
	registerProductRoutes()
	registerOrderRoutes()
	registerOrderItemRoutes()
	registerPaymentRoutes()
	registerAnalyticsRoutes()
	registerDbmsRoutes()
}

func GetDB(c echo.Context) *gorm.DB {
	return webserver.GetDB(c)
}

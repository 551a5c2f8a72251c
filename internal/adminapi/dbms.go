package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/talkincode/shopgen/internal/report"
	"github.com/talkincode/shopgen/internal/webserver"
)

// registerDbmsRoutes registers the read-only schema browser
func registerDbmsRoutes() {
	webserver.ApiGET("/dbms/tables", dbmsListTables)
	webserver.ApiGET("/dbms/tables/:name/schema", dbmsGetTableSchema)
	webserver.ApiGET("/dbms/tables/:name/foreignkeys", dbmsGetTableForeignKeys)
}

func dbmsFail(c echo.Context, err error) error {
	if errors.Is(err, report.ErrUnsupportedDialect) {
		return fail(c, http.StatusBadRequest, "UNSUPPORTED_DATABASE", err.Error(), nil)
	}
	return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to inspect database", err.Error())
}

// dbmsListTables returns all tables in the database
func dbmsListTables(c echo.Context) error {
	tables, err := report.ListTables(GetDB(c))
	if err != nil {
		return dbmsFail(c, err)
	}
	return ok(c, tables)
}

// dbmsGetTableSchema returns the columns of a specific table
func dbmsGetTableSchema(c echo.Context) error {
	name := c.Param("name")
	if !report.IsValidTableName(name) {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid table name", nil)
	}
	columns, err := report.TableColumns(GetDB(c), name)
	if err != nil {
		return dbmsFail(c, err)
	}
	if len(columns) == 0 {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Table not found", nil)
	}
	return ok(c, columns)
}

// dbmsGetTableForeignKeys returns all foreign key constraints for a table
func dbmsGetTableForeignKeys(c echo.Context) error {
	name := c.Param("name")
	if !report.IsValidTableName(name) {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid table name", nil)
	}
	fks, err := report.ForeignKeys(GetDB(c), name)
	if err != nil {
		return dbmsFail(c, err)
	}
	if fks == nil {
		fks = []report.ForeignKeyInfo{}
	}
	return ok(c, fks)
}

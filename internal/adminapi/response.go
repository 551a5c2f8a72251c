package adminapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/talkincode/shopgen/internal/domain"
	"github.com/talkincode/shopgen/internal/webserver"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 100
	maxPageSize     = 1000
)

// Response wraps every successful payload.
type Response struct {
	Data interface{} `json:"data"`
	Meta *PageMeta   `json:"meta,omitempty"`
}

type PageMeta struct {
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, Response{Data: data})
}

func paged(c echo.Context, data interface{}, total int64, page, pageSize int) error {
	return c.JSON(http.StatusOK, Response{
		Data: data,
		Meta: &PageMeta{Total: total, Page: page, PageSize: pageSize},
	})
}

// lookupFail answers a failed single-record lookup. Only a missing row is a 404.
func lookupFail(c echo.Context, err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", what+" not found", nil)
	}
	return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query "+strings.ToLower(what), err.Error())
}

func fail(c echo.Context, status int, code, msg string, details interface{}) error {
	return c.JSON(status, webserver.ErrorBody{Error: code, Message: msg, Details: details})
}

// parsePagination reads page and perPage (or pageSize / limit). Sizes above
// maxPageSize are clamped.
func parsePagination(c echo.Context) (page, pageSize int) {
	page = 1
	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil && p > 0 {
		page = p
	}
	pageSize = defaultPageSize
	for _, name := range []string{"perPage", "pageSize", "limit"} {
		if ps, err := strconv.Atoi(c.QueryParam(name)); err == nil && ps > 0 {
			pageSize = ps
			break
		}
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

func parseIDParam(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

// parseInt64Query returns 0 when the parameter is absent.
func parseInt64Query(c echo.Context, name string) (int64, error) {
	v := strings.TrimSpace(c.QueryParam(name))
	if v == "" {
		return 0, nil
	}
	return strconv.ParseInt(v, 10, 64)
}

// parseDateQuery accepts any date layout dateparse knows. The zero Date
// means the parameter was absent.
func parseDateQuery(c echo.Context, name string) (domain.Date, error) {
	v := strings.TrimSpace(c.QueryParam(name))
	if v == "" {
		return domain.Date{}, nil
	}
	t, err := dateparse.ParseIn(v, time.UTC)
	if err != nil {
		return domain.Date{}, err
	}
	return domain.NewDate(t), nil
}

func likePattern(s string) string {
	return "%" + strings.ToLower(s) + "%"
}

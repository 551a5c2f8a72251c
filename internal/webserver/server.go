// Package webserver hosts the read API on echo. Handlers register themselves
// with ApiGET before the server is built and are mounted under /api/v1.
package webserver

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"
	"github.com/talkincode/shopgen/internal/app"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	ApiPrefix = "/api/v1"

	ContextAppKey = "appctx"
	ContextDBKey  = "db"
)

type route struct {
	method  string
	path    string
	handler echo.HandlerFunc
	mw      []echo.MiddlewareFunc
}

var (
	routesMu  sync.Mutex
	apiRoutes []route
)

func register(method, path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	routesMu.Lock()
	defer routesMu.Unlock()
	for _, r := range apiRoutes {
		if r.method == method && r.path == path {
			return
		}
	}
	apiRoutes = append(apiRoutes, route{method: method, path: path, handler: h, mw: m})
}

// ApiGET registers a read endpoint below ApiPrefix.
func ApiGET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	register(http.MethodGet, path, h, m...)
}

// JSONSerializer implements echo.JSONSerializer with json-iterator.
type JSONSerializer struct{}

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

func (JSONSerializer) Serialize(c echo.Context, i interface{}, indent string) error {
	enc := jsonAPI.NewEncoder(c.Response())
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(i)
}

func (JSONSerializer) Deserialize(c echo.Context, i interface{}) error {
	err := jsonAPI.NewDecoder(c.Request().Body).Decode(i)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
	}
	return nil
}

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error   string      `json:"error"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	status := http.StatusInternalServerError
	msg := http.StatusText(status)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		msg = fmt.Sprint(he.Message)
	} else {
		zap.L().Error("unhandled api error", zap.String("namespace", "webserver"), zap.Error(err))
	}
	code := "HTTP_ERROR"
	switch status {
	case http.StatusNotFound:
		code = "NOT_FOUND"
	case http.StatusMethodNotAllowed:
		code = "METHOD_NOT_ALLOWED"
	case http.StatusInternalServerError:
		code = "INTERNAL_ERROR"
	}
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = c.JSON(status, ErrorBody{Error: code, Message: msg})
}

type WebServer struct {
	root   *echo.Echo
	appCtx app.AppContext
}

// NewWebServer builds the echo instance and mounts every registered route.
func NewWebServer(appCtx app.AppContext) *WebServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger.SetLevel(log.OFF)
	e.JSONSerializer = JSONSerializer{}
	e.HTTPErrorHandler = httpErrorHandler

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			zap.L().Debug("api request",
				zap.String("namespace", "webserver"),
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID))
			return nil
		},
	}))
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(ContextAppKey, appCtx)
			c.Set(ContextDBKey, appCtx.DB().WithContext(c.Request().Context()))
			return next(c)
		}
	})

	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"message": "E-commerce Data API is running"})
	})
	e.GET("/health", func(c echo.Context) error {
		sqlDB, err := appCtx.DB().DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request().Context())
		}
		if err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unhealthy", "error": err.Error()})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
	})

	api := e.Group(ApiPrefix)
	routesMu.Lock()
	for _, r := range apiRoutes {
		api.Add(r.method, r.path, r.handler, r.mw...)
	}
	routesMu.Unlock()

	return &WebServer{root: e, appCtx: appCtx}
}

// Handler exposes the router, mostly for httptest.
func (s *WebServer) Handler() http.Handler {
	return s.root
}

// Start serves until ctx is canceled, then shuts down gracefully.
func (s *WebServer) Start(ctx context.Context) error {
	cfg := s.appCtx.Config().Web
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	errCh := make(chan error, 1)
	go func() {
		zap.S().Infof("read api listening on %s", addr)
		errCh <- s.root.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "read api")
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.root.Shutdown(shutdownCtx)
	}
}

// GetDB returns the request scoped database handle.
func GetDB(c echo.Context) *gorm.DB {
	return c.Get(ContextDBKey).(*gorm.DB)
}

func GetAppContext(c echo.Context) app.AppContext {
	return c.Get(ContextAppKey).(app.AppContext)
}

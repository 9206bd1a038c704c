package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"contactbook/contact"
	"contactbook/errs"
	"contactbook/pkg/config"
	"contactbook/pkg/logger"
	"contactbook/pkg/sentry"

	"github.com/VictoriaMetrics/metrics"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type Server struct {
	// Router is the Echo router instance
	Router *echo.Echo

	// Addr represents the address the server will listen on
	Addr string

	// Allowed origins for CORS
	AllowOrigins []string

	// RateLimit is the per-client request rate; zero disables limiting.
	RateLimit float64

	Logger *zap.Logger

	// Metrics collects request counters and latency histograms
	Metrics *metrics.Set

	ContactService contact.Service
}

func Default(cfg *config.Config) *Server {
	s := Server{
		Router:       echo.New(),
		Addr:         ":8080",
		AllowOrigins: []string{"*"},
		RateLimit:    cfg.RateLimit,
		Logger:       logger.NOOPLogger,
		Metrics:      metrics.NewSet(),
	}
	if cfg.Port != 0 {
		s.Addr = fmt.Sprintf(":%d", cfg.Port)
	}
	if cfg.AllowOrigins != "" {
		s.AllowOrigins = splitOrigins(cfg.AllowOrigins)
	}

	s.Router.HideBanner = true
	s.Router.Validator = NewValidator()
	s.Router.HTTPErrorHandler = s.handleHTTPError
	s.RegisterGlobalMiddlewares()

	s.RegisterHealthRoutes()
	s.RegisterMetricsRoutes()
	s.RegisterContactRoutes(s.Router.Group("/api/contacts"))
	return &s
}

func (s *Server) RegisterGlobalMiddlewares() {
	s.Router.Use(middleware.Recover())
	s.Router.Use(middleware.Secure())
	s.Router.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	s.Router.Use(middleware.Gzip())
	s.Router.Use(sentryecho.New(sentryecho.Options{Repanic: true}))
	s.Router.Use(s.logRequests)
	s.Router.Use(s.meterRequests)
	if s.RateLimit > 0 {
		s.Router.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(s.RateLimit))))
	}

	// CORS
	if len(s.AllowOrigins) > 0 {
		s.Router.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:  s.AllowOrigins,
			ExposeHeaders: []string{echo.HeaderLocation, echo.HeaderXRequestID},
		}))
	}
}

func (s *Server) Start() error {
	return s.Router.Start(s.Addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.Router.Shutdown(ctx)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

func (s *Server) logRequests(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}

		req := c.Request()
		s.Logger.Info("request",
			zap.String("request_id", requestID(c)),
			zap.String("method", req.Method),
			zap.String("uri", req.RequestURI),
			zap.Int("status", c.Response().Status),
			zap.Duration("latency", time.Since(start)),
		)
		return nil
	}
}

// handleHTTPError maps application errors to HTTP responses. Messages of
// internal failures are never exposed.
func (s *Server) handleHTTPError(err error, c echo.Context) {
	status := http.StatusInternalServerError
	message := "Internal server error"

	if he, ok := err.(*echo.HTTPError); ok {
		status = he.Code
		message = httpErrorMessage(he)
	} else {
		switch errs.ErrorCode(err) {
		case errs.EINVALID:
			status = http.StatusBadRequest
			message = errs.ErrorMessage(err)
		case errs.ENOTFOUND:
			status = http.StatusNotFound
			message = errs.ErrorMessage(err)
		case errs.ECONFLICT:
			status = http.StatusConflict
			message = errs.ErrorMessage(err)
		}
	}

	if status >= http.StatusInternalServerError {
		s.Logger.Error("request failed",
			zap.String("request_id", requestID(c)),
			zap.Error(err),
		)
		sentry.WithContext(c).
			WithTags(map[string]string{"request_id": requestID(c)}).
			Error(err)
	}

	// Don't write response if already committed
	if c.Response().Committed {
		return
	}
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = writeError(c, status, message, errs.ErrorField(err), err)
	}
	if err != nil {
		s.Logger.Error("cannot write error response", zap.Error(err))
	}
}

func httpErrorMessage(he *echo.HTTPError) string {
	if he.Code >= http.StatusInternalServerError {
		return "Internal server error"
	}
	if msg, ok := he.Message.(string); ok {
		return msg
	}
	return http.StatusText(he.Code)
}

func requestID(c echo.Context) string {
	return c.Response().Header().Get(echo.HeaderXRequestID)
}

func splitOrigins(s string) []string {
	var origins []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

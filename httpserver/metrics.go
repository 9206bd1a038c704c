package httpserver

import (
	"fmt"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/labstack/echo/v4"
)

func (s *Server) RegisterMetricsRoutes() {
	s.Router.GET("/metrics", s.handleMetrics)
}

// handleMetrics godoc
// @Summary Metrics
// @Description Prometheus metrics of the HTTP server and the process
// @Tags health
// @Produce plain
// @Success 200
// @Router /metrics [get]
func (s *Server) handleMetrics(c echo.Context) error {
	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/plain; version=0.0.4")
	s.Metrics.WritePrometheus(w)
	metrics.WriteProcessMetrics(w)
	return nil
}

// meterRequests counts requests and records their latency labelled by
// method, route template and final status.
func (s *Server) meterRequests(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		if err := next(c); err != nil {
			c.Error(err)
		}

		path := c.Path()
		if path == "" {
			path = "unmatched"
		}
		labels := fmt.Sprintf(`{method=%q,path=%q,status="%d"}`, c.Request().Method, path, c.Response().Status)
		s.Metrics.GetOrCreateCounter(`http_requests_total` + labels).Inc()
		s.Metrics.GetOrCreateHistogram(`http_request_duration_seconds` + labels).UpdateDuration(start)
		return nil
	}
}

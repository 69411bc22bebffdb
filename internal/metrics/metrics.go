// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// Collector registers and records the application's Prometheus metrics.
type Collector struct {
	httpStatus    *prometheus.CounterVec
	loginSuccess  prometheus.Counter
	tokenRejected prometheus.Counter
	authDenied    *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sweetshop_http_status_total",
			Help: "Responses by HTTP status code",
		}, []string{"status_code"}),
		loginSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sweetshop_login_success_total",
			Help: "Completed Google OAuth sign-ins",
		}),
		tokenRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sweetshop_token_rejected_total",
			Help: "Session tokens rejected by verification",
		}),
		authDenied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sweetshop_auth_denied_total",
			Help: "Requests denied by the authentication guard, by reason",
		}, []string{"reason"}),
	}

	reg.MustRegister(
		c.httpStatus,
		c.loginSuccess,
		c.tokenRejected,
		c.authDenied,
	)

	return c
}

// RecordLogin records a completed sign-in.
func (c *Collector) RecordLogin() {
	c.loginSuccess.Inc()
}

// RecordTokenRejected records a failed token verification.
func (c *Collector) RecordTokenRejected() {
	c.tokenRejected.Inc()
}

// RecordAuthDenied records a guard denial. reason is "unauthorized" or
// "forbidden".
func (c *Collector) RecordAuthDenied(reason string) {
	c.authDenied.WithLabelValues(reason).Inc()
}

// RecordHTTPStatus records a response status code.
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// Middleware records the status code of every response.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		c.RecordHTTPStatus(ww.Status())
	})
}

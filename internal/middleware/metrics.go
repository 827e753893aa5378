package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var metricsNamespace = "empdesk"

// Metrics is the HTTP and employee metrics collection
type Metrics struct {
	factory         promauto.Factory
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	employeeOps     *prometheus.CounterVec
	storedEmployees prometheus.GaugeFunc
}

// NewMetrics registers the collection on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		factory: factory,
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "http_requests_total",
				Help:      "Number of HTTP requests by route, method and status.",
			},
			[]string{"route", "method", "status"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency by route and method.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),
		employeeOps: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "employee_operations_total",
				Help:      "Employee record operations by kind and outcome.",
			},
			[]string{"operation", "outcome"},
		),
	}
}

// WithEmployeeCount exposes the number of stored employees through f
func (m *Metrics) WithEmployeeCount(f func() float64) {
	m.storedEmployees = m.factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "stored_employees",
			Help:      "Number of employee records currently stored.",
		},
		f,
	)
}

// Handler records request counts and latency
func (m *Metrics) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requestsTotal.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		m.requestDuration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}

// ObserveEmployeeOp counts an employee operation
func (m *Metrics) ObserveEmployeeOp(operation string, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.employeeOps.WithLabelValues(operation, outcome).Inc()
}

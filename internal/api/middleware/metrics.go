package middleware

import (
	"net/http"
	"sync/atomic"
)

// probePaths are endpoints hit by load balancers and scrapers; counting
// them would drown out the real traffic the /metrics numbers describe.
var probePaths = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// MetricsCollector counts API requests and error responses (4xx/5xx).
type MetricsCollector struct {
	requestCount *atomic.Int64
	errorCount   *atomic.Int64
}

// NewMetricsCollector creates a new metrics collector.
func NewMetricsCollector(requestCount, errorCount *atomic.Int64) *MetricsCollector {
	return &MetricsCollector{
		requestCount: requestCount,
		errorCount:   errorCount,
	}
}

// Middleware returns middleware that counts requests and errors,
// excluding probe endpoints.
func (mc *MetricsCollector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if probePaths[r.URL.Path] {
			next.ServeHTTP(w, r)
			return
		}

		mc.requestCount.Add(1)

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		if rw.statusCode >= 400 {
			mc.errorCount.Add(1)
		}
	})
}

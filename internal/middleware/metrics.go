package middleware

import (
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RedisErrors counts Redis command failures by operation type.
var RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "inkwell_redis_errors_total",
	Help: "Total number of Redis errors by operation type",
}, []string{"operation"})

// TimelineCacheHits counts home timeline cache lookups by outcome (hit, miss, bypass).
var TimelineCacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "inkwell_timeline_cache_lookups_total",
	Help: "Total home timeline cache lookups by outcome",
}, []string{"outcome"})

var (
	promOnce sync.Once
	promInst *fiberprometheus.FiberPrometheus
)

// InitMetrics creates the Prometheus middleware for the given service name.
// The underlying collectors register globally, so the instance is shared
// across server constructions.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		promInst = fiberprometheus.New(serviceName)
	})
	return promInst
}

// MetricsMiddleware returns the request-instrumentation handler for the app.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}

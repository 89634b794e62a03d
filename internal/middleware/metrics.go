package middleware

import (
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RedisErrors counts Redis command failures by command name.
var RedisErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "chronicle_redis_errors_total",
		Help: "Total number of Redis command errors.",
	},
	[]string{"command"},
)

var (
	promOnce sync.Once
	prom     *fiberprometheus.FiberPrometheus
)

// InitMetrics creates the Prometheus HTTP middleware for the given service
// name. The collectors live in the default registry, so the instance is
// created once and shared.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		prom = fiberprometheus.New(serviceName)
	})
	return prom
}

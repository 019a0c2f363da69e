package engine

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// 仿真总数
	simulationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "xdevs",
			Subsystem: "engine",
			Name:      "simulations_total",
			Help:      "Total simulation runs",
		},
		[]string{"model", "status"},
	)

	// 仿真耗时
	simulationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "xdevs",
			Subsystem: "engine",
			Name:      "simulation_duration_seconds",
			Help:      "Simulation wall-clock latency",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"model"},
	)

	// 迭代总数
	iterationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "xdevs",
			Subsystem: "engine",
			Name:      "iterations_total",
			Help:      "Total simulation iterations (collection+transition pairs)",
		},
		[]string{"model"},
	)
)

func init() {
	// 注册指标
	prometheus.MustRegister(simulationsTotal, simulationDuration, iterationsTotal)
}

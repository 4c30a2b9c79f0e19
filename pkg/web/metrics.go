package web

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var apiOperations = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "taskhive",
	Subsystem: "api",
	Name:      "operations_total",
	Help:      "The total number of API operations",
}, []string{"operation", "status"})

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

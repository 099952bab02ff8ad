// metrics.go — Prometheus метрики слоя мутаций: bo_mutations_total.
package collection

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
)

// mutationsTotal — количество мутаций коллекций по домену, действию и итогу.
var mutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "bo_mutations_total",
		Help: "Количество мутаций коллекций Back Office",
	},
	[]string{"domain", "action", "outcome"},
)

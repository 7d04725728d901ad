package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/davicafu/clientelab/internal/cliente/domain"
)

type clienteMetrics struct {
	operations *prometheus.CounterVec
}

// NewClienteMetrics registra clientes_operations_total{operation,outcome}.
func NewClienteMetrics(registry *prometheus.Registry) domain.ClienteMetrics {
	return &clienteMetrics{
		operations: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "clientes_operations_total",
				Help: "The total number of cliente write operations by outcome",
			},
			[]string{"operation", "outcome"},
		),
	}
}

func (m *clienteMetrics) IncOperation(operation, outcome string) {
	m.operations.WithLabelValues(operation, outcome).Inc()
}

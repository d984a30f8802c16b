package metrics

import (
	"time"

	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	postgresRepositoryRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "postgres_repository",
		Name:      "operations_total",
		Help:      "Count of Postgres repository operations.",
	}, []string{"operation", "network", "status"})
	postgresRepositoryRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "postgres_repository",
		Name:      "operation_duration_seconds",
		Help:      "Duration of Postgres repository operations.",
		Buckets:   []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"operation", "network", "status"})
)

// PostgresRepository tracks metrics for the transactional store.
type PostgresRepository struct {
	network string
}

// NewPostgresRepository creates a collector labelled with network.
func NewPostgresRepository(network model.Network) *PostgresRepository {
	return &PostgresRepository{network: orUnknown(string(network))}
}

// Observe records duration and status of a repository operation.
func (m PostgresRepository) Observe(operation string, err error, started time.Time) {
	postgresRepositoryRequestsTotal.WithLabelValues(operation, m.network, status(err)).Inc()
	postgresRepositoryRequestDuration.WithLabelValues(operation, m.network, status(err)).Observe(time.Since(started).Seconds())
}

package metrics

import (
	"time"

	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const sinkSubsystem = "cardano_sink"

var (
	sinkBlocksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: sinkSubsystem,
		Name:      "blocks_total",
		Help:      "Count of processed blocks.",
	}, []string{"network", "status"})

	sinkBlockDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: sinkSubsystem,
		Name:      "block_duration_seconds",
		Help:      "Duration of processing a block, transaction included.",
		Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"network", "status"})

	sinkRollbacksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: sinkSubsystem,
		Name:      "rollbacks_total",
		Help:      "Count of applied rollbacks.",
	}, []string{"network", "status"})

	sinkRolledBackBlocks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: sinkSubsystem,
		Name:      "rolled_back_blocks_total",
		Help:      "Count of blocks deleted by rollbacks.",
	}, []string{"network"})

	sinkRollbackDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: sinkSubsystem,
		Name:      "rollback_duration_seconds",
		Help:      "Duration of applying a rollback.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"network", "status"})

	sinkEpoch = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: sinkSubsystem,
		Name:      "epoch",
		Help:      "Epoch currently being ingested.",
	}, []string{"network"})

	sinkTasksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: sinkSubsystem,
		Name:      "tasks_total",
		Help:      "Count of executed tasks.",
	}, []string{"network", "task", "status"})

	sinkTaskDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: sinkSubsystem,
		Name:      "task_duration_seconds",
		Help:      "Duration of a single task run.",
		Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
	}, []string{"network", "task", "status"})

	sinkTasksSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: sinkSubsystem,
		Name:      "tasks_skipped_total",
		Help:      "Count of tasks skipped for a block.",
	}, []string{"network", "task", "reason"})
)

// CardanoSink tracks block, rollback and task metrics of the ingestion sink.
type CardanoSink struct {
	network string
}

func NewCardanoSink(network model.Network) *CardanoSink {
	return &CardanoSink{network: orUnknown(string(network))}
}

// ObserveBlock records the outcome and duration of one block.
func (m CardanoSink) ObserveBlock(err error, started time.Time) {
	sinkBlocksTotal.WithLabelValues(m.network, status(err)).Inc()
	sinkBlockDuration.WithLabelValues(m.network, status(err)).Observe(time.Since(started).Seconds())
}

// ObserveRollback records a rollback and how many blocks it removed.
func (m CardanoSink) ObserveRollback(err error, deleted int64, started time.Time) {
	sinkRollbacksTotal.WithLabelValues(m.network, status(err)).Inc()
	sinkRollbackDuration.WithLabelValues(m.network, status(err)).Observe(time.Since(started).Seconds())
	if deleted > 0 {
		sinkRolledBackBlocks.WithLabelValues(m.network).Add(float64(deleted))
	}
}

func (m CardanoSink) ObserveEpoch(epoch uint64) {
	sinkEpoch.WithLabelValues(m.network).Set(float64(epoch))
}

// ObserveTask records one task run.
func (m CardanoSink) ObserveTask(task string, err error, started time.Time) {
	sinkTasksTotal.WithLabelValues(m.network, task, status(err)).Inc()
	sinkTaskDuration.WithLabelValues(m.network, task, status(err)).Observe(time.Since(started).Seconds())
}

func (m CardanoSink) ObserveTaskSkipped(task, reason string) {
	sinkTasksSkipped.WithLabelValues(m.network, task, reason).Inc()
}

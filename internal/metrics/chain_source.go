package metrics

import (
	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	chainSourceEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "chain_source",
		Name:      "events_total",
		Help:      "Count of chain events delivered by the source.",
	}, []string{"source", "network", "kind"})
	chainSourceReconnectsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "chain_source",
		Name:      "reconnects_total",
		Help:      "Count of reconnect attempts to the chain source.",
	}, []string{"source", "network", "status"})
)

// ChainSource tracks metrics of a chain event source.
type ChainSource struct {
	source  string
	network string
}

// NewChainSource creates a collector for the named source kind ("relay", "replay").
func NewChainSource(source string, network model.Network) *ChainSource {
	return &ChainSource{source: orUnknown(source), network: orUnknown(string(network))}
}

func (m ChainSource) ObserveEvent(kind string) {
	chainSourceEventsTotal.WithLabelValues(m.source, m.network, kind).Inc()
}

func (m ChainSource) ObserveReconnect(err error) {
	chainSourceReconnectsTotal.WithLabelValues(m.source, m.network, status(err)).Inc()
}

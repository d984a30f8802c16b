package ingester

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/chain"
	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/model"
	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/perf"
	"go.uber.org/zap"
)

type sinkState int32

const (
	stateResolving sinkState = iota
	stateStreaming
	stateStopped
)

// SinkConfig carries the collaborators of a CardanoSink. Reports and Metrics are optional.
type SinkConfig struct {
	Network    model.Network
	Repository chain.Repository
	Decoder    Decoder
	Executor   Executor
	Genesis    Bootstrapper
	Reports    ReportWriter
	Metrics    SinkMetrics
	// Tasks is the aggregator the executor records task durations into.
	Tasks *perf.Aggregator
	// IntersectPoints is how many recent points StartFrom offers when resuming from the tip.
	IntersectPoints int
}

// CardanoSink applies chain events to the store one at a time.
type CardanoSink struct {
	network         model.Network
	repo            chain.Repository
	decoder         Decoder
	executor        Executor
	genesis         Bootstrapper
	reports         ReportWriter
	metrics         SinkMetrics
	logger          *zap.Logger
	intersectPoints int
	now             func() time.Time

	state      atomic.Int32
	stages     *perf.Aggregator
	tasks      *perf.Aggregator
	lastEpoch  int64
	epochStart time.Time
	// fetch waits until the event it belongs to has passed the epoch check.
	fetch time.Duration
}

// NewCardanoSink validates cfg and builds a sink in the resolving state.
func NewCardanoSink(cfg SinkConfig, logger *zap.Logger) (*CardanoSink, error) {
	switch {
	case cfg.Repository == nil:
		return nil, errors.New("sink repository is required")
	case cfg.Decoder == nil:
		return nil, errors.New("sink decoder is required")
	case cfg.Executor == nil:
		return nil, errors.New("sink executor is required")
	case cfg.Genesis == nil:
		return nil, errors.New("sink genesis bootstrapper is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Tasks == nil {
		cfg.Tasks = perf.NewAggregator()
	}
	if cfg.IntersectPoints <= 0 {
		cfg.IntersectPoints = 1
	}
	return &CardanoSink{
		network:         cfg.Network,
		repo:            cfg.Repository,
		decoder:         cfg.Decoder,
		executor:        cfg.Executor,
		genesis:         cfg.Genesis,
		reports:         cfg.Reports,
		metrics:         cfg.Metrics,
		logger:          logger.Named("sink").With(zap.String("network", string(cfg.Network))),
		intersectPoints: cfg.IntersectPoints,
		now:             time.Now,
		stages:          perf.NewAggregator(),
		tasks:           cfg.Tasks,
		lastEpoch:       -1,
		epochStart:      time.Now(),
	}, nil
}

// Process applies one event. Blocks are committed in their own transaction; a failure
// leaves the store untouched and is returned.
func (s *CardanoSink) Process(ctx context.Context, ev chain.Event) error {
	switch sinkState(s.state.Load()) {
	case stateStopped:
		return ErrSinkStopped
	case stateResolving:
		return ErrSinkNotStarted
	}

	switch e := ev.(type) {
	case chain.BlockArrival:
		return s.processBlock(ctx, e)
	case chain.RollBack:
		return s.rollback(ctx, e)
	default:
		s.logger.Warn("ignoring unknown event", zap.Any("event", ev))
		return nil
	}
}

// RecordFetch notes time spent waiting for the source. It is charged to the epoch of the
// next processed event.
func (s *CardanoSink) RecordFetch(d time.Duration) {
	s.fetch += d
}

func (s *CardanoSink) flushFetch() {
	if s.fetch > 0 {
		s.stages.Record(perf.StageBlockFetch, s.fetch)
		s.fetch = 0
	}
}

// Stop moves the sink to the stopped state. Later Process calls fail with ErrSinkStopped.
func (s *CardanoSink) Stop(_ context.Context) error {
	if sinkState(s.state.Swap(int32(stateStopped))) != stateStopped {
		s.logger.Info("sink stopped", zap.Int64("last_epoch", s.lastEpoch))
	}
	return nil
}

func (s *CardanoSink) since(started time.Time) time.Duration {
	return s.now().Sub(started)
}

var _ Sink = (*CardanoSink)(nil)

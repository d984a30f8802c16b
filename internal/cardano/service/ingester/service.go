package ingester

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/chain"
	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/model"
	"go.uber.org/zap"
)

// Service feeds the events of a chain source into a sink, strictly in order.
type Service struct {
	source  chain.Source
	sink    Sink
	network model.Network
	from    string
	tracker Tracker
	logger  *zap.Logger
	now     func() time.Time
}

// Tracker is told about every event the sink applied.
type Tracker interface {
	Track(ev chain.Event)
}

// NewService builds a Service that resumes from the block hash from, or the latest
// stored block when from is empty.
func NewService(source chain.Source, sink Sink, network model.Network, from string, logger *zap.Logger) (*Service, error) {
	if source == nil {
		return nil, errors.New("chain source is required")
	}
	if sink == nil {
		return nil, errors.New("sink is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		source:  source,
		sink:    sink,
		network: network,
		from:    from,
		logger:  logger.With(zap.String("network", string(network))),
		now:     time.Now,
	}, nil
}

// SetTracker registers t to observe processed events.
func (s *Service) SetTracker(t Tracker) {
	s.tracker = t
}

// Run resolves the start point, then processes events until the context is cancelled,
// the source is exhausted or an event fails. Exhausting the source is not an error.
func (s *Service) Run(ctx context.Context) (err error) {
	defer func() {
		if stopErr := s.sink.Stop(context.WithoutCancel(ctx)); stopErr != nil && err == nil {
			err = fmt.Errorf("stop sink: %w", stopErr)
		}
		if closeErr := s.source.Close(); closeErr != nil {
			s.logger.Warn("close chain source failed", zap.Error(closeErr))
		}
	}()

	points, err := s.sink.StartFrom(ctx, s.from)
	if err != nil {
		return fmt.Errorf("resolve start point: %w", err)
	}
	if err := s.source.Start(ctx, points); err != nil {
		return fmt.Errorf("start chain source: %w", err)
	}
	s.logger.Info("ingestion started", zap.Int("points", len(points)))

	var processed uint64
	for {
		fetchStarted := s.now()
		ev, err := s.source.Next(ctx)
		if errors.Is(err, io.EOF) {
			s.logger.Info("chain source exhausted", zap.Uint64("events", processed))
			return nil
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("next chain event: %w", err)
		}
		s.sink.RecordFetch(s.now().Sub(fetchStarted))

		if err := s.sink.Process(ctx, ev); err != nil {
			return fmt.Errorf("process chain event: %w", err)
		}
		if s.tracker != nil {
			s.tracker.Track(ev)
		}
		processed++
	}
}

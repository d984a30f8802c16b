// Package relay streams chain events from a websocket relay that follows a Cardano node.
package relay

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/chain"
	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/model"
	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/source"
	"github.com/gorilla/websocket"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

// ErrIntersectNotFound is returned when the relay knows none of the requested points.
var ErrIntersectNotFound = errors.New("relay found no intersection")

// ErrClosed is returned by Next after Close.
var ErrClosed = errors.New("relay source closed")

const (
	defaultKeepPoints     = 10
	defaultBackoffInitial = time.Second
	defaultBackoffMax     = time.Minute
)

type Metrics interface {
	ObserveEvent(kind string)
	ObserveReconnect(err error)
}

// Config controls the relay connection.
type Config struct {
	URL              string
	Header           http.Header
	HandshakeTimeout time.Duration
	BackoffInitial   time.Duration
	BackoffMax       time.Duration
	// MaxReconnects bounds connection attempts after a lost connection; zero retries forever.
	MaxReconnects int
	// KeepPoints is how many recent points are offered when reconnecting.
	KeepPoints int
}

type frame struct {
	msg source.Message
	err error
}

// Source is a chain.Source reading JSON frames from a relay. It is not safe for concurrent use.
type Source struct {
	cfg     Config
	dialer  *websocket.Dialer
	metrics Metrics
	logger  *zap.Logger

	conn   *websocket.Conn
	frames chan frame
	done   chan struct{}
	points []model.Point
	closed bool
}

// New creates a relay source. metrics may be nil.
func New(cfg Config, metrics Metrics, logger *zap.Logger) *Source {
	if cfg.HandshakeTimeout <= 0 {
		cfg.HandshakeTimeout = 10 * time.Second
	}
	if cfg.KeepPoints <= 0 {
		cfg.KeepPoints = defaultKeepPoints
	}
	if cfg.BackoffInitial <= 0 {
		cfg.BackoffInitial = defaultBackoffInitial
	}
	if cfg.BackoffMax < cfg.BackoffInitial {
		cfg.BackoffMax = max(defaultBackoffMax, cfg.BackoffInitial)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Source{
		cfg:     cfg,
		dialer:  &websocket.Dialer{HandshakeTimeout: cfg.HandshakeTimeout, Proxy: http.ProxyFromEnvironment},
		metrics: metrics,
		logger:  logger.Named("relay"),
	}
}

// Start connects and asks the relay to continue after the first of points it knows.
func (s *Source) Start(ctx context.Context, points []model.Point) error {
	s.points = append([]model.Point(nil), points...)
	if err := s.connect(ctx); err != nil {
		return fmt.Errorf("start relay: %w", err)
	}
	return nil
}

// Next returns the next block or rollback. Lost connections are re-established from the
// most recent points delivered.
func (s *Source) Next(ctx context.Context) (chain.Event, error) {
	for {
		if s.closed {
			return nil, ErrClosed
		}
		if s.conn == nil {
			if err := s.reconnect(ctx); err != nil {
				return nil, err
			}
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case f := <-s.frames:
			if f.err != nil {
				s.logger.Warn("relay connection lost", zap.Error(f.err))
				s.drop()
				continue
			}
			ev, err := f.msg.Event()
			if errors.Is(err, source.ErrUnknownMessage) {
				s.logger.Warn("ignoring relay message", zap.String("type", f.msg.Type))
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("decode relay message: %w", err)
			}
			s.track(ev)
			if s.metrics != nil {
				s.metrics.ObserveEvent(f.msg.Type)
			}
			return ev, nil
		}
	}
}

// Close terminates the connection. Next returns ErrClosed afterwards.
func (s *Source) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.drop()
}

func (s *Source) connect(ctx context.Context) error {
	conn, _, err := s.dialer.DialContext(ctx, s.cfg.URL, s.cfg.Header)
	if err != nil {
		return fmt.Errorf("dial %s: %w", s.cfg.URL, err)
	}
	if err := s.handshake(conn); err != nil {
		_ = conn.Close()
		return err
	}

	s.conn = conn
	s.frames = make(chan frame)
	s.done = make(chan struct{})
	go read(conn, s.frames, s.done)

	s.logger.Info("connected to relay",
		zap.String("url", s.cfg.URL),
		zap.Int("points", len(s.points)),
	)
	return nil
}

func (s *Source) handshake(conn *websocket.Conn) error {
	deadline := time.Now().Add(s.cfg.HandshakeTimeout)
	if err := conn.SetWriteDeadline(deadline); err != nil {
		return fmt.Errorf("set write deadline: %w", err)
	}
	if err := conn.WriteJSON(source.IntersectRequest(s.points)); err != nil {
		return fmt.Errorf("send intersect: %w", err)
	}
	if err := conn.SetReadDeadline(deadline); err != nil {
		return fmt.Errorf("set read deadline: %w", err)
	}
	var reply source.Message
	if err := conn.ReadJSON(&reply); err != nil {
		return fmt.Errorf("read intersect reply: %w", err)
	}
	switch reply.Type {
	case source.TypeIntersectFound:
	case source.TypeIntersectNotFound:
		return ErrIntersectNotFound
	default:
		return fmt.Errorf("unexpected intersect reply %q", reply.Type)
	}
	if err := conn.SetReadDeadline(time.Time{}); err != nil {
		return fmt.Errorf("clear read deadline: %w", err)
	}
	return conn.SetWriteDeadline(time.Time{})
}

func (s *Source) reconnect(ctx context.Context) error {
	backoff, err := s.newBackoff()
	if err != nil {
		return fmt.Errorf("reconnect relay: %w", err)
	}

	attempt := 0
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		s.logger.Info("reconnecting to relay", zap.Int("attempt", attempt))
		err := s.connect(ctx)
		if s.metrics != nil {
			s.metrics.ObserveReconnect(err)
		}
		switch {
		case err == nil:
			return nil
		case errors.Is(err, ErrIntersectNotFound), ctx.Err() != nil:
			return err
		}
		s.logger.Warn("relay reconnect failed", zap.Int("attempt", attempt), zap.Error(err))
		return retry.RetryableError(err)
	})
	if err != nil {
		return fmt.Errorf("reconnect relay after %d attempts: %w", attempt, err)
	}
	return nil
}

// newBackoff spaces reconnect attempts exponentially up to BackoffMax.
func (s *Source) newBackoff() (retry.Backoff, error) {
	backoff, err := retry.NewExponential(s.cfg.BackoffInitial)
	if err != nil {
		return nil, fmt.Errorf("create backoff: %w", err)
	}
	backoff = retry.WithCappedDuration(s.cfg.BackoffMax, backoff)
	if s.cfg.MaxReconnects > 0 {
		backoff = retry.WithMaxRetries(uint64(s.cfg.MaxReconnects-1), backoff)
	}
	return backoff, nil
}

// track keeps the resume points in line with what was delivered, newest first.
func (s *Source) track(ev chain.Event) {
	switch e := ev.(type) {
	case chain.BlockArrival:
		s.points = append([]model.Point{{Slot: e.BlockSlot, Hash: e.BlockHash}}, s.points...)
	case chain.RollBack:
		kept := []model.Point{{Slot: e.BlockSlot, Hash: e.BlockHash}}
		for _, p := range s.points {
			if p.Slot < e.BlockSlot {
				kept = append(kept, p)
			}
		}
		s.points = kept
	}
	if len(s.points) > s.cfg.KeepPoints {
		s.points = s.points[:s.cfg.KeepPoints]
	}
}

// Points returns the points a reconnect would offer.
func (s *Source) Points() []model.Point {
	return append([]model.Point(nil), s.points...)
}

func (s *Source) drop() error {
	if s.conn == nil {
		return nil
	}
	close(s.done)
	err := s.conn.Close()
	s.conn = nil
	s.frames = nil
	return err
}

func read(conn *websocket.Conn, frames chan<- frame, done <-chan struct{}) {
	for {
		var msg source.Message
		err := conn.ReadJSON(&msg)
		select {
		case frames <- frame{msg: msg, err: err}:
		case <-done:
			return
		}
		if err != nil {
			return
		}
	}
}

var _ chain.Source = (*Source)(nil)

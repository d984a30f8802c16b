// Package replay reads chain events from a newline delimited JSON capture.
package replay

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/chain"
	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/model"
	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/source"
	"go.uber.org/ratelimit"
	"go.uber.org/zap"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

const maxLine = 16 << 20

type Metrics interface {
	ObserveEvent(kind string)
}

// Source is a chain.Source over a capture file. Next returns io.EOF once the file is exhausted.
type Source struct {
	path    string
	limiter ratelimit.Limiter
	metrics Metrics
	logger  *zap.Logger

	file    *os.File
	scanner *bufio.Scanner
	line    int
}

// New creates a replay source. rps bounds events per second; zero or less disables pacing.
func New(path string, rps int, metrics Metrics, logger *zap.Logger) *Source {
	limiter := ratelimit.NewUnlimited()
	if rps > 0 {
		limiter = ratelimit.New(rps)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Source{
		path:    path,
		limiter: limiter,
		metrics: metrics,
		logger:  logger.Named("replay"),
	}
}

// Start positions the capture after the newest of points it contains, or at its beginning.
func (s *Source) Start(ctx context.Context, points []model.Point) error {
	skip, err := s.intersect(ctx, points)
	if err != nil {
		return err
	}
	if err := s.open(); err != nil {
		return err
	}
	for s.line < skip {
		if !s.scanner.Scan() {
			return fmt.Errorf("seek %s to line %d: %w", s.path, skip, s.scanErr())
		}
		s.line++
	}
	s.logger.Info("replay started",
		zap.String("path", s.path),
		zap.Int("skipped", skip),
	)
	return nil
}

// Next returns the next event in the capture.
func (s *Source) Next(ctx context.Context) (chain.Event, error) {
	if s.scanner == nil {
		return nil, errors.New("replay not started")
	}
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !s.scanner.Scan() {
			if err := s.scanner.Err(); err != nil {
				return nil, fmt.Errorf("read %s: %w", s.path, err)
			}
			return nil, io.EOF
		}
		s.line++
		raw := s.scanner.Bytes()
		if len(raw) == 0 {
			continue
		}

		var msg source.Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, fmt.Errorf("parse %s line %d: %w", s.path, s.line, err)
		}
		ev, err := msg.Event()
		if err != nil {
			return nil, fmt.Errorf("parse %s line %d: %w", s.path, s.line, err)
		}

		s.limiter.Take()
		if s.metrics != nil {
			s.metrics.ObserveEvent(msg.Type)
		}
		return ev, nil
	}
}

func (s *Source) Close() error {
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	s.scanner = nil
	return err
}

// intersect returns how many lines precede the resume position.
func (s *Source) intersect(ctx context.Context, points []model.Point) (int, error) {
	if len(points) == 0 {
		return 0, nil
	}
	rank := make(map[string]int, len(points))
	for i, p := range points {
		rank[p.Hash] = i
	}

	if err := s.open(); err != nil {
		return 0, err
	}
	defer s.Close()

	best, skip := len(points), 0
	for s.scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		s.line++
		var msg source.Message
		if err := json.Unmarshal(s.scanner.Bytes(), &msg); err != nil {
			continue
		}
		if !msg.Matches(points) {
			continue
		}
		if r := rank[msg.BlockHash]; r < best {
			best, skip = r, s.line
		}
	}
	if err := s.scanner.Err(); err != nil {
		return 0, fmt.Errorf("scan %s: %w", s.path, err)
	}
	if best == len(points) {
		s.logger.Warn("no resume point in capture, replaying from the beginning",
			zap.Int("points", len(points)),
		)
	}
	return skip, nil
}

func (s *Source) open() error {
	f, err := os.Open(s.path)
	if err != nil {
		return fmt.Errorf("open capture: %w", err)
	}
	s.file = f
	s.scanner = bufio.NewScanner(f)
	s.scanner.Buffer(make([]byte, 0, 64<<10), maxLine)
	s.line = 0
	return nil
}

func (s *Source) scanErr() error {
	if err := s.scanner.Err(); err != nil {
		return err
	}
	return io.ErrUnexpectedEOF
}

var _ chain.Source = (*Source)(nil)

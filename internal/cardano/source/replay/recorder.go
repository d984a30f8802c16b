package replay

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/chain"
	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/source"
)

// Recorder wraps a chain.Source and appends every delivered event to a capture file
// that Source can later replay.
type Recorder struct {
	chain.Source
	w      io.WriteCloser
	encode *json.Encoder
}

// NewRecorder opens path for appending and records the events of src into it.
func NewRecorder(src chain.Source, path string) (*Recorder, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open capture: %w", err)
	}
	return &Recorder{Source: src, w: f, encode: json.NewEncoder(f)}, nil
}

// Next forwards the next event and records it before returning.
func (r *Recorder) Next(ctx context.Context) (chain.Event, error) {
	ev, err := r.Source.Next(ctx)
	if err != nil {
		return nil, err
	}
	msg, err := source.FromEvent(ev)
	if err != nil {
		return nil, err
	}
	if err := r.encode.Encode(msg); err != nil {
		return nil, fmt.Errorf("record event: %w", err)
	}
	return ev, nil
}

// Close closes the capture file and the wrapped source.
func (r *Recorder) Close() error {
	srcErr := r.Source.Close()
	if err := r.w.Close(); err != nil {
		return fmt.Errorf("close capture: %w", err)
	}
	return srcErr
}

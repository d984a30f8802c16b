package transport

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/chain"
	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/model"
)

// StatusResponse is the body served by Status.
type StatusResponse struct {
	Network     string     `json:"network"`
	Blocks      uint64     `json:"blocks"`
	Rollbacks   uint64     `json:"rollbacks"`
	Epoch       *uint64    `json:"epoch,omitempty"`
	LastSlot    uint64     `json:"last_slot"`
	LastHash    string     `json:"last_hash,omitempty"`
	LastEventAt *time.Time `json:"last_event_at,omitempty"`
}

// Status tracks the progress of the ingestion loop. It is safe for concurrent use.
type Status struct {
	mu   sync.RWMutex
	resp StatusResponse
	now  func() time.Time
}

func NewStatus(network model.Network) *Status {
	return &Status{resp: StatusResponse{Network: string(network)}, now: time.Now}
}

// Track records a processed event.
func (s *Status) Track(ev chain.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch e := ev.(type) {
	case chain.BlockArrival:
		s.resp.Blocks++
		s.resp.LastSlot = e.BlockSlot
		s.resp.LastHash = e.BlockHash
		if e.Epoch != nil {
			epoch := *e.Epoch
			s.resp.Epoch = &epoch
		}
	case chain.RollBack:
		s.resp.Rollbacks++
		s.resp.LastSlot = e.BlockSlot
		s.resp.LastHash = e.BlockHash
	default:
		return
	}
	at := s.now()
	s.resp.LastEventAt = &at
}

// Snapshot returns the current progress.
func (s *Status) Snapshot() StatusResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resp
}

func (s *Status) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.Snapshot())
}

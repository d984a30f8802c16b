// Package perf accumulates named durations across an epoch.
package perf

import (
	"sort"
	"sync"
	"time"
)

// Stage names recorded by the sink.
const (
	StageBlockFetch   = "block_fetch"
	StageBlockParse   = "block_parse"
	StageBlockProcess = "block_process"
	StageRollback     = "rollback"
	StageOverhead     = "overhead"
)

// Aggregator sums durations by name. The zero value is ready to use.
type Aggregator struct {
	mu     sync.Mutex
	totals map[string]time.Duration
}

// NewAggregator creates an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{totals: make(map[string]time.Duration)}
}

// Record adds d to the total of name.
func (a *Aggregator) Record(name string, d time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.totals == nil {
		a.totals = make(map[string]time.Duration)
	}
	a.totals[name] += d
}

// Set replaces the total of name.
func (a *Aggregator) Set(name string, d time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.totals == nil {
		a.totals = make(map[string]time.Duration)
	}
	a.totals[name] = d
}

// Total returns a copy of the accumulated durations.
func (a *Aggregator) Total() map[string]time.Duration {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make(map[string]time.Duration, len(a.totals))
	for k, v := range a.totals {
		out[k] = v
	}
	return out
}

// Sum returns the total of every name except the excluded ones.
func (a *Aggregator) Sum(exclude ...string) time.Duration {
	a.mu.Lock()
	defer a.mu.Unlock()
	var sum time.Duration
outer:
	for k, v := range a.totals {
		for _, e := range exclude {
			if k == e {
				continue outer
			}
		}
		sum += v
	}
	return sum
}

// Reset drops every accumulated duration.
func (a *Aggregator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.totals = make(map[string]time.Duration)
}

// Entry is a named total.
type Entry struct {
	Name     string
	Duration time.Duration
}

// Sorted returns the totals ordered by name.
func (a *Aggregator) Sorted() []Entry {
	totals := a.Total()
	entries := make([]Entry, 0, len(totals))
	for k, v := range totals {
		entries = append(entries, Entry{Name: k, Duration: v})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries
}

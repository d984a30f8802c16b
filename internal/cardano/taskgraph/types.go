package taskgraph

import (
	"time"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// Recorder accumulates per-task durations. perf.Aggregator implements it.
	Recorder interface {
		Record(name string, d time.Duration)
	}
	Metrics interface {
		ObserveTask(task string, err error, started time.Time)
		ObserveTaskSkipped(task, reason string)
	}
)

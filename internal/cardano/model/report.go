package model

import "time"

// ReportKind separates stage timings from task timings in a performance report.
type ReportKind string

var (
	ReportStage ReportKind = "stage"
	ReportTask  ReportKind = "task"
)

// EpochReportRow is one accumulated duration of a finished epoch.
type EpochReportRow struct {
	Network    Network
	Epoch      uint64
	Kind       ReportKind
	Name       string
	Duration   time.Duration
	FinishedAt time.Time
}

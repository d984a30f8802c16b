package taskgraph

import (
	"context"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/chain"
	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/ledger"
	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/model"
	"go.uber.org/zap"
)

// Skip reasons reported to metrics.
const (
	skipEra       = "era"
	skipPredicate = "should_run"
	skipUpstream  = "upstream_skipped"
)

// Executor runs a Plan against decoded blocks.
type Executor struct {
	plan     *Plan
	recorder Recorder
	metrics  Metrics
	logger   *zap.Logger
	now      func() time.Time
}

// NewExecutor builds an Executor. recorder and metrics may be nil.
func NewExecutor(plan *Plan, recorder Recorder, metrics Metrics, logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{
		plan:     plan,
		recorder: recorder,
		metrics:  metrics,
		logger:   logger.Named("executor"),
		now:      time.Now,
	}
}

// Plan returns the plan the executor runs.
func (e *Executor) Plan() *Plan {
	return e.plan
}

// Execute runs every applicable task of the plan in order, inside tx. Tasks run one at a
// time because tx is not safe for concurrent use. The first failure stops execution and is
// returned as a *TaskError; the caller owns rolling tx back.
func (e *Executor) Execute(ctx context.Context, tx chain.Tx, block ledger.Block, info model.BlockGlobalInfo) (Outputs, error) {
	outputs := make(Outputs, len(e.plan.tasks))
	for _, task := range e.plan.tasks {
		if err := ctx.Err(); err != nil {
			return nil, &TaskError{Task: task.Name, Err: err}
		}
		if reason, skip := e.skip(task, block, outputs); skip {
			e.logger.Debug("skipping task",
				zap.String("task", task.Name),
				zap.String("reason", reason),
				zap.Uint64("slot", block.Header().Slot),
			)
			if e.metrics != nil {
				e.metrics.ObserveTaskSkipped(task.Name, reason)
			}
			continue
		}

		upstream := make(Outputs, len(task.Reads))
		for _, slot := range task.Reads {
			upstream[slot] = outputs[slot]
		}

		started := e.now()
		out, err := task.Execute(ctx, Input{
			Tx:       tx,
			Block:    block,
			Info:     info,
			Upstream: upstream,
			Config:   task.Config,
		})
		elapsed := e.now().Sub(started)
		if e.recorder != nil {
			e.recorder.Record(task.Name, elapsed)
		}
		if e.metrics != nil {
			e.metrics.ObserveTask(task.Name, err, started)
		}
		if err != nil {
			return nil, &TaskError{Task: task.Name, Err: err}
		}
		outputs[task.Writes] = out
	}
	return outputs, nil
}

// skip decides whether a task sits out this block. A task whose producer was skipped is
// skipped too, since its declared reads would be missing.
func (e *Executor) skip(task Definition, block ledger.Block, outputs Outputs) (string, bool) {
	if !task.appliesTo(block.Era()) {
		return skipEra, true
	}
	for _, slot := range task.Reads {
		if _, ok := outputs[slot]; !ok {
			return skipUpstream, true
		}
	}
	if task.ShouldRun != nil && !task.ShouldRun(block, task.Config) {
		return skipPredicate, true
	}
	return "", false
}

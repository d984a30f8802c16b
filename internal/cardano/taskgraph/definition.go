// Package taskgraph validates extraction tasks into an execution plan and runs them per block.
package taskgraph

import (
	"context"
	"fmt"

	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/chain"
	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/ledger"
	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/model"
)

// TaskConfig holds the per-task options of an execution plan.
type TaskConfig struct {
	// Readonly looks up rows written by an earlier run instead of inserting them.
	Readonly       bool
	IncludePayload bool
	Network        model.Network
}

// Outputs maps output slot names to task results. It is scoped to one block.
type Outputs map[string]any

// Input is what a task sees while executing.
type Input struct {
	Tx    chain.Tx
	Block ledger.Block
	Info  model.BlockGlobalInfo
	// Upstream only holds the slots the task declared as reads.
	Upstream Outputs
	Config   TaskConfig
}

// Get returns the upstream value stored in slot.
func Get[T any](in Input, slot string) (T, error) {
	var zero T
	v, ok := in.Upstream[slot]
	if !ok {
		return zero, fmt.Errorf("slot %q was not declared as a read", slot)
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("slot %q holds %T, want %T", slot, v, zero)
	}
	return typed, nil
}

// Definition describes one extraction task.
type Definition struct {
	Name string
	// Eras restricts the task to blocks of these eras. Empty means every era.
	Eras []model.Era
	// Reads lists upstream output slots in the order the task expects them.
	Reads  []string
	Writes string
	// ShouldRun is a cheap filter evaluated before Execute. Nil always runs.
	ShouldRun func(block ledger.Block, cfg TaskConfig) bool
	Execute   func(ctx context.Context, in Input) (any, error)
	Config    TaskConfig
}

func (d Definition) appliesTo(era model.Era) bool {
	if len(d.Eras) == 0 {
		return true
	}
	for _, e := range d.Eras {
		if e == era {
			return true
		}
	}
	return false
}

// TaskError attaches the failing task to an execution error.
type TaskError struct {
	Task string
	Err  error
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("task %s: %v", e.Task, e.Err)
}

func (e *TaskError) Unwrap() error {
	return e.Err
}

package tasks

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/model"
	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/taskgraph"
	"go.uber.org/zap"
)

// Options are the per-task settings of a plan file.
type Options struct {
	Readonly       bool `toml:"readonly"`
	IncludePayload bool `toml:"include_payload"`
}

type factory func(cfg taskgraph.TaskConfig, logger *zap.Logger) taskgraph.Definition

var registry = map[string]factory{
	BlockTaskName: func(cfg taskgraph.TaskConfig, _ *zap.Logger) taskgraph.Definition {
		return BlockTask(cfg)
	},
	CatalystTransactionTaskName:  CatalystTransactionTask,
	CatalystRegistrationTaskName: CatalystRegistrationTask,
}

// DefaultPlanTOML enables every task with default options.
const DefaultPlanTOML = `
[block]

[catalyst_txn]

[catalyst_registration]
`

// LoadPlan reads a plan file. See ParsePlan.
func LoadPlan(path string, network model.Network, logger *zap.Logger) (*taskgraph.Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan %s: %w", path, err)
	}
	return ParsePlan(string(data), network, logger)
}

// ParsePlan builds an execution plan from a TOML document whose top-level tables name
// tasks in declaration order. The block task is always scheduled, and always first.
func ParsePlan(data string, network model.Network, logger *zap.Logger) (*taskgraph.Plan, error) {
	var tables map[string]Options
	md, err := toml.Decode(data, &tables)
	if err != nil {
		return nil, fmt.Errorf("decode plan: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown plan options: %v", undecoded)
	}

	names := []string{BlockTaskName}
	for _, key := range md.Keys() {
		if len(key) != 1 || key[0] == BlockTaskName {
			continue
		}
		if _, ok := registry[key[0]]; !ok {
			return nil, fmt.Errorf("unknown task %q", key[0])
		}
		names = append(names, key[0])
	}

	b := taskgraph.NewBuilder()
	for _, name := range names {
		opts := tables[name]
		b.Register(registry[name](taskgraph.TaskConfig{
			Readonly:       opts.Readonly,
			IncludePayload: opts.IncludePayload,
			Network:        network,
		}, logger))
	}
	plan, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("build plan: %w", err)
	}
	return plan, nil
}

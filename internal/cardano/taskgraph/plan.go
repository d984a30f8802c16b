package taskgraph

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyName      = errors.New("task name is empty")
	ErrDuplicateName  = errors.New("duplicate task name")
	ErrMissingExecute = errors.New("task has no execute function")
	ErrEmptyWrite     = errors.New("task writes no slot")
	ErrDuplicateWrite = errors.New("slot written by more than one task")
	ErrSelfRead       = errors.New("task reads its own slot")
	ErrMissingWriter  = errors.New("slot is read but never written")
	ErrCycle          = errors.New("dependency cycle")
)

// Builder collects task definitions in declaration order.
type Builder struct {
	defs []Definition
}

func NewBuilder() *Builder {
	return &Builder{}
}

// Register appends a task. Declaration order breaks ties in the execution order.
func (b *Builder) Register(def Definition) *Builder {
	b.defs = append(b.defs, def)
	return b
}

// Plan is an immutable, validated task graph in execution order.
type Plan struct {
	tasks []Definition
}

// Build validates the registered tasks and orders them topologically.
func (b *Builder) Build() (*Plan, error) {
	names := make(map[string]struct{}, len(b.defs))
	writers := make(map[string]int, len(b.defs))
	for i, def := range b.defs {
		if def.Name == "" {
			return nil, fmt.Errorf("task #%d: %w", i, ErrEmptyName)
		}
		if _, dup := names[def.Name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateName, def.Name)
		}
		names[def.Name] = struct{}{}
		if def.Execute == nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingExecute, def.Name)
		}
		if def.Writes == "" {
			return nil, fmt.Errorf("%w: %s", ErrEmptyWrite, def.Name)
		}
		if other, dup := writers[def.Writes]; dup {
			return nil, fmt.Errorf("%w: %s by %s and %s", ErrDuplicateWrite, def.Writes, b.defs[other].Name, def.Name)
		}
		writers[def.Writes] = i
	}

	// deps[i] holds the indices of the tasks task i reads from.
	deps := make([][]int, len(b.defs))
	for i, def := range b.defs {
		for _, slot := range def.Reads {
			if slot == def.Writes {
				return nil, fmt.Errorf("%w: %s reads %s", ErrSelfRead, def.Name, slot)
			}
			w, ok := writers[slot]
			if !ok {
				return nil, fmt.Errorf("%w: %s read by %s", ErrMissingWriter, slot, def.Name)
			}
			deps[i] = append(deps[i], w)
		}
	}

	order, err := topoSort(b.defs, deps)
	if err != nil {
		return nil, err
	}
	tasks := make([]Definition, 0, len(order))
	for _, i := range order {
		tasks = append(tasks, b.defs[i])
	}
	return &Plan{tasks: tasks}, nil
}

// topoSort repeatedly takes the first task in declaration order whose dependencies are done.
func topoSort(defs []Definition, deps [][]int) ([]int, error) {
	done := make([]bool, len(defs))
	order := make([]int, 0, len(defs))
	for len(order) < len(defs) {
		next := -1
		for i := range defs {
			if done[i] {
				continue
			}
			ready := true
			for _, d := range deps[i] {
				if !done[d] {
					ready = false
					break
				}
			}
			if ready {
				next = i
				break
			}
		}
		if next < 0 {
			return nil, fmt.Errorf("%w: %s", ErrCycle, strings.Join(findCycle(defs, deps, done), " -> "))
		}
		done[next] = true
		order = append(order, next)
	}
	return order, nil
}

// Names returns the task names in execution order.
func (p *Plan) Names() []string {
	names := make([]string, 0, len(p.tasks))
	for _, t := range p.tasks {
		names = append(names, t.Name)
	}
	return names
}

// Len returns the number of tasks.
func (p *Plan) Len() int {
	return len(p.tasks)
}

// findCycle follows unfinished dependencies from the first blocked task. Every blocked task
// has one, so the walk must revisit a task, and the revisited part of the path is a cycle.
func findCycle(defs []Definition, deps [][]int, done []bool) []string {
	cur := 0
	for done[cur] {
		cur++
	}
	pos := make(map[int]int)
	var path []int
	for {
		if p, seen := pos[cur]; seen {
			path = path[p:]
			break
		}
		pos[cur] = len(path)
		path = append(path, cur)
		for _, d := range deps[cur] {
			if !done[d] {
				cur = d
				break
			}
		}
	}
	names := make([]string, 0, len(path)+1)
	for _, i := range path {
		names = append(names, defs[i].Name)
	}
	return append(names, defs[path[0]].Name)
}

// Definitions returns a copy of the tasks in execution order.
func (p *Plan) Definitions() []Definition {
	return append([]Definition(nil), p.tasks...)
}

package taskgraph

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/ledger"
	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/ledger/ledgertest"
	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/model"
	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/perf"
	"go.uber.org/zap"
)

func conwayBlock(t *testing.T) ledger.Block {
	t.Helper()
	b, err := ledger.DecodeBlock(ledgertest.Block{EraTag: 7, Number: 1, Slot: 2}.Encode())
	if err != nil {
		t.Fatalf("DecodeBlock() error = %v", err)
	}
	return b
}

// tracer records the order tasks ran in and what they saw upstream.
type tracer struct {
	ran  []string
	seen map[string]Outputs
}

func (tr *tracer) task(name, writes string, reads ...string) Definition {
	return Definition{
		Name:   name,
		Writes: writes,
		Reads:  reads,
		Execute: func(_ context.Context, in Input) (any, error) {
			tr.ran = append(tr.ran, name)
			if tr.seen == nil {
				tr.seen = make(map[string]Outputs)
			}
			tr.seen[name] = in.Upstream
			return name + "-out", nil
		},
	}
}

func mustBuild(t *testing.T, defs ...Definition) *Plan {
	t.Helper()
	b := NewBuilder()
	for _, d := range defs {
		b.Register(d)
	}
	plan, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return plan
}

func TestExecutor_Execute(t *testing.T) {
	type want struct {
		ran     []string
		outputs Outputs
		errTask string
	}
	tests := []struct {
		name    string
		prepare func(ctrl *gomock.Controller, tr *tracer) (*Executor, context.Context)
		want    want
	}{
		{
			name: "runs in dependency order with declared reads only",
			prepare: func(ctrl *gomock.Controller, tr *tracer) (*Executor, context.Context) {
				metrics := NewMockMetrics(ctrl)
				metrics.EXPECT().ObserveTask(gomock.Any(), nil, gomock.Any()).Times(3)
				plan := mustBuild(t,
					tr.task("c", "z", "y"),
					tr.task("a", "x"),
					tr.task("b", "y", "x"),
				)
				return NewExecutor(plan, nil, metrics, zap.NewNop()), context.Background()
			},
			want: want{
				ran:     []string{"a", "b", "c"},
				outputs: Outputs{"x": "a-out", "y": "b-out", "z": "c-out"},
			},
		},
		{
			name: "era filtered producer skips its consumers",
			prepare: func(ctrl *gomock.Controller, tr *tracer) (*Executor, context.Context) {
				metrics := NewMockMetrics(ctrl)
				byronOnly := tr.task("byron", "b")
				byronOnly.Eras = []model.Era{model.Byron}
				gomock.InOrder(
					metrics.EXPECT().ObserveTaskSkipped("byron", skipEra),
					metrics.EXPECT().ObserveTaskSkipped("dependent", skipUpstream),
					metrics.EXPECT().ObserveTask("independent", nil, gomock.Any()),
				)
				plan := mustBuild(t, byronOnly, tr.task("dependent", "d", "b"), tr.task("independent", "i"))
				return NewExecutor(plan, nil, metrics, zap.NewNop()), context.Background()
			},
			want: want{
				ran:     []string{"independent"},
				outputs: Outputs{"i": "independent-out"},
			},
		},
		{
			name: "should run predicate",
			prepare: func(ctrl *gomock.Controller, tr *tracer) (*Executor, context.Context) {
				never := tr.task("never", "n")
				never.ShouldRun = func(ledger.Block, TaskConfig) bool { return false }
				conway := tr.task("conway", "c")
				conway.Eras = []model.Era{model.Babbage, model.Conway}
				plan := mustBuild(t, never, conway)
				return NewExecutor(plan, nil, nil, nil), context.Background()
			},
			want: want{
				ran:     []string{"conway"},
				outputs: Outputs{"c": "conway-out"},
			},
		},
		{
			name: "first failure aborts",
			prepare: func(ctrl *gomock.Controller, tr *tracer) (*Executor, context.Context) {
				metrics := NewMockMetrics(ctrl)
				recorder := NewMockRecorder(ctrl)
				failing := Definition{
					Name:   "failing",
					Writes: "f",
					Reads:  []string{"x"},
					Execute: func(context.Context, Input) (any, error) {
						tr.ran = append(tr.ran, "failing")
						return nil, errors.New("insert failed")
					},
				}
				gomock.InOrder(
					metrics.EXPECT().ObserveTask("a", nil, gomock.Any()),
					metrics.EXPECT().ObserveTask("failing", gomock.Not(nil), gomock.Any()),
				)
				recorder.EXPECT().Record("a", gomock.Any())
				recorder.EXPECT().Record("failing", gomock.Any())
				plan := mustBuild(t, tr.task("a", "x"), failing, tr.task("after", "z", "f"))
				return NewExecutor(plan, recorder, metrics, zap.NewNop()), context.Background()
			},
			want: want{
				ran:     []string{"a", "failing"},
				errTask: "failing",
			},
		},
		{
			name: "cancelled context",
			prepare: func(ctrl *gomock.Controller, tr *tracer) (*Executor, context.Context) {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return NewExecutor(mustBuild(t, tr.task("a", "x")), nil, nil, nil), ctx
			},
			want: want{errTask: "a"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			tr := &tracer{}
			e, ctx := tt.prepare(ctrl, tr)
			got, err := e.Execute(ctx, nil, conwayBlock(t), model.BlockGlobalInfo{Era: model.Conway})
			if tt.want.errTask != "" {
				var taskErr *TaskError
				if !errors.As(err, &taskErr) || taskErr.Task != tt.want.errTask {
					t.Fatalf("Execute() error = %v, want TaskError for %s", err, tt.want.errTask)
				}
				if got != nil {
					t.Fatalf("Execute() outputs = %v, want nil", got)
				}
			} else if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if !reflect.DeepEqual(tr.ran, tt.want.ran) {
				t.Fatalf("ran = %v, want %v", tr.ran, tt.want.ran)
			}
			if tt.want.outputs != nil && !reflect.DeepEqual(got, tt.want.outputs) {
				t.Fatalf("Execute() = %v, want %v", got, tt.want.outputs)
			}
		})
	}
}

func TestExecutor_Execute_upstreamIsolation(t *testing.T) {
	tr := &tracer{}
	plan := mustBuild(t, tr.task("a", "x"), tr.task("b", "y"), tr.task("c", "z", "y"))
	if _, err := NewExecutor(plan, nil, nil, nil).Execute(context.Background(), nil, conwayBlock(t), model.BlockGlobalInfo{}); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if want := (Outputs{"y": "b-out"}); !reflect.DeepEqual(tr.seen["c"], want) {
		t.Fatalf("c saw %v, want %v", tr.seen["c"], want)
	}
	if len(tr.seen["a"]) != 0 {
		t.Fatalf("a saw %v, want nothing", tr.seen["a"])
	}
}

func TestExecutor_Execute_repeatable(t *testing.T) {
	agg := perf.NewAggregator()
	run := func() ([]string, Outputs) {
		tr := &tracer{}
		plan := mustBuild(t, tr.task("c", "z", "x", "y"), tr.task("b", "y"), tr.task("a", "x"))
		out, err := NewExecutor(plan, agg, nil, nil).Execute(context.Background(), nil, conwayBlock(t), model.BlockGlobalInfo{})
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		return tr.ran, out
	}
	ran1, out1 := run()
	ran2, out2 := run()
	if !reflect.DeepEqual(ran1, ran2) || !reflect.DeepEqual(out1, out2) {
		t.Fatalf("runs differ: %v/%v and %v/%v", ran1, out1, ran2, out2)
	}
	totals := agg.Total()
	for _, name := range []string{"a", "b", "c"} {
		if _, ok := totals[name]; !ok {
			t.Fatalf("no duration recorded for %s", name)
		}
	}
}

func TestGet(t *testing.T) {
	in := Input{Upstream: Outputs{"block": int64(7)}}
	if v, err := Get[int64](in, "block"); err != nil || v != 7 {
		t.Fatalf("Get() = %v, %v", v, err)
	}
	if _, err := Get[string](in, "block"); err == nil {
		t.Fatalf("Get() with the wrong type succeeded")
	}
	if _, err := Get[int64](in, "missing"); err == nil {
		t.Fatalf("Get() of an undeclared slot succeeded")
	}
}

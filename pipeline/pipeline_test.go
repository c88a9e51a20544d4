package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/rushteam/estatekit/core"
)

// stageNode 记录执行顺序并对 items 做简单变换。
type stageNode struct {
	name   string
	kind   Kind
	trace  *[]string
	mutate func([]*core.Item) []*core.Item
	err    error
}

func (n *stageNode) Name() string { return n.name }
func (n *stageNode) Kind() Kind   { return n.kind }

func (n *stageNode) Process(_ context.Context, _ *core.QueryContext, items []*core.Item) ([]*core.Item, error) {
	*n.trace = append(*n.trace, n.name)
	if n.err != nil {
		return nil, n.err
	}
	if n.mutate != nil {
		return n.mutate(items), nil
	}
	return items, nil
}

func TestPipeline_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("nodes run in declared order", func(t *testing.T) {
		var trace []string
		p := &Pipeline{Nodes: []Node{
			&stageNode{name: "recall", kind: KindRecall, trace: &trace,
				mutate: func([]*core.Item) []*core.Item {
					return []*core.Item{
						core.NewItem(&core.Listing{ID: 1}),
						core.NewItem(&core.Listing{ID: 2}),
					}
				}},
			&stageNode{name: "topn", kind: KindReRank, trace: &trace,
				mutate: func(items []*core.Item) []*core.Item { return items[:1] }},
		}}

		items, err := p.Run(ctx, &core.QueryContext{}, nil)
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if len(trace) != 2 || trace[0] != "recall" || trace[1] != "topn" {
			t.Errorf("trace = %v", trace)
		}
		if len(items) != 1 || items[0].ID() != 1 {
			t.Errorf("items = %v", items)
		}
	})

	t.Run("error aborts the chain", func(t *testing.T) {
		var trace []string
		p := &Pipeline{Nodes: []Node{
			&stageNode{name: "boom", kind: KindRecall, trace: &trace, err: errors.New("boom")},
			&stageNode{name: "after", kind: KindRank, trace: &trace},
		}}
		if _, err := p.Run(ctx, nil, nil); err == nil {
			t.Fatal("Run() error = nil, want boom")
		}
		if len(trace) != 1 {
			t.Errorf("downstream node ran after error: %v", trace)
		}
	})

	t.Run("empty pipeline passes input through", func(t *testing.T) {
		p := &Pipeline{}
		in := []*core.Item{core.NewItem(&core.Listing{ID: 7})}
		out, err := p.Run(ctx, nil, in)
		if err != nil || len(out) != 1 {
			t.Errorf("Run() = (%d items, %v)", len(out), err)
		}
	})
}

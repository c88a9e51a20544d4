package recall

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rushteam/estatekit/core"
	"github.com/rushteam/estatekit/pkg/utils"
	"github.com/rushteam/estatekit/store"
)

func itemIDs(items []*core.Item) []int64 {
	out := make([]int64, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID())
	}
	return out
}

func equalIDs(a []int64, b ...int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func listing(id int64) *core.Listing {
	return &core.Listing{ID: id, City: "Boston", Price: float64(id) * 1000}
}

func TestStoreSource(t *testing.T) {
	ctx := context.Background()
	memStore := store.NewMemoryStore()
	for _, id := range []int64{3, 1, 2} {
		if err := memStore.Add(ctx, listing(id)); err != nil {
			t.Fatal(err)
		}
	}

	t.Run("returns all listings in insertion order", func(t *testing.T) {
		src := NewStoreSource(memStore)
		items, err := src.Recall(ctx, nil)
		if err != nil {
			t.Fatalf("Recall() error = %v", err)
		}
		if !equalIDs(itemIDs(items), 3, 1, 2) {
			t.Errorf("ids = %v, want [3 1 2]", itemIDs(items))
		}
	})

	t.Run("max items truncation", func(t *testing.T) {
		src := &StoreSource{Store: memStore, MaxItems: 2}
		items, err := src.Recall(ctx, nil)
		if err != nil {
			t.Fatal(err)
		}
		if !equalIDs(itemIDs(items), 3, 1) {
			t.Errorf("ids = %v, want [3 1]", itemIDs(items))
		}
	})

	t.Run("nil store errors", func(t *testing.T) {
		src := &StoreSource{}
		if _, err := src.Recall(ctx, nil); !core.IsUnavailable(err) {
			t.Errorf("Recall() error = %v, want UNAVAILABLE", err)
		}
	})
}

func TestStaticSource(t *testing.T) {
	src := NewStaticSource("recall.curated", []*core.Listing{listing(1), nil, listing(2)})
	items, err := src.Recall(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if !equalIDs(itemIDs(items), 1, 2) {
		t.Errorf("ids = %v, want [1 2]", itemIDs(items))
	}
	if src.Name() != "recall.curated" {
		t.Errorf("Name() = %q", src.Name())
	}
}

// failingSource 总是返回错误，用于验证 Fanout 的降级行为。
type failingSource struct{}

func (s *failingSource) Name() string { return "recall.failing" }
func (s *failingSource) Recall(context.Context, *core.QueryContext) ([]*core.Item, error) {
	return nil, errors.New("backend down")
}

// taggedSource 返回带自定义标签的召回结果。
type taggedSource struct {
	name     string
	listings []*core.Listing
	key, val string
}

func (s *taggedSource) Name() string { return s.name }
func (s *taggedSource) Recall(context.Context, *core.QueryContext) ([]*core.Item, error) {
	out := make([]*core.Item, 0, len(s.listings))
	for _, l := range s.listings {
		it := core.NewItem(l)
		it.PutLabel(s.key, utils.Label{Value: s.val, Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}

// slowSource 模拟超时的召回源。
type slowSource struct{ delay time.Duration }

func (s *slowSource) Name() string { return "recall.slow" }
func (s *slowSource) Recall(ctx context.Context, _ *core.QueryContext) ([]*core.Item, error) {
	select {
	case <-time.After(s.delay):
		return []*core.Item{core.NewItem(listing(99))}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func TestFanout(t *testing.T) {
	ctx := context.Background()

	t.Run("declaration order concatenation with dedup", func(t *testing.T) {
		fanout := &Fanout{
			Sources: []Source{
				NewStaticSource("a", []*core.Listing{listing(1), listing(2)}),
				NewStaticSource("b", []*core.Listing{listing(2), listing(3)}),
			},
			Dedup: true,
		}
		items, err := fanout.Process(ctx, nil, nil)
		if err != nil {
			t.Fatal(err)
		}
		if !equalIDs(itemIDs(items), 1, 2, 3) {
			t.Errorf("ids = %v, want [1 2 3]", itemIDs(items))
		}
		// 来源标签写入
		if lbl, ok := items[0].Labels["recall_source"]; !ok || lbl.Value != "a" {
			t.Errorf("recall_source = %v", lbl)
		}
		// 重复命中（#2 同时来自 a 与 b）归属首个来源，不累积
		if lbl := items[1].Labels["recall_source"]; lbl.Value != "a" {
			t.Errorf("duplicate recall_source = %q, want a", lbl.Value)
		}
	})

	t.Run("failing source does not break the others", func(t *testing.T) {
		fanout := &Fanout{
			Sources: []Source{
				&failingSource{},
				NewStaticSource("ok", []*core.Listing{listing(1)}),
			},
		}
		items, err := fanout.Process(ctx, nil, nil)
		if err != nil {
			t.Fatal(err)
		}
		if !equalIDs(itemIDs(items), 1) {
			t.Errorf("ids = %v, want [1]", itemIDs(items))
		}
	})

	t.Run("slow source dropped on timeout", func(t *testing.T) {
		fanout := &Fanout{
			Sources: []Source{
				&slowSource{delay: time.Second},
				NewStaticSource("fast", []*core.Listing{listing(1)}),
			},
			Timeout: 10 * time.Millisecond,
		}
		items, err := fanout.Process(ctx, nil, nil)
		if err != nil {
			t.Fatal(err)
		}
		if !equalIDs(itemIDs(items), 1) {
			t.Errorf("ids = %v, want [1]", itemIDs(items))
		}
	})

	t.Run("priority merge keeps higher priority duplicate", func(t *testing.T) {
		fanout := &Fanout{
			Sources: []Source{
				NewStaticSource("first", []*core.Listing{listing(1)}),
				NewStaticSource("second", []*core.Listing{listing(1), listing(2)}),
			},
			Dedup:         true,
			MergeStrategy: "priority",
		}
		items, err := fanout.Process(ctx, nil, nil)
		if err != nil {
			t.Fatal(err)
		}
		if !equalIDs(itemIDs(items), 1, 2) {
			t.Errorf("ids = %v, want [1 2]", itemIDs(items))
		}
		if lbl := items[0].Labels["recall_source"]; lbl.Value != "first" {
			t.Errorf("kept duplicate from %q, want first", lbl.Value)
		}
		if lbl := items[0].Labels["recall_priority"]; lbl.Value != "0" {
			t.Errorf("kept duplicate priority = %q, want 0", lbl.Value)
		}
	})

	t.Run("dropped duplicate merges only non-provenance labels", func(t *testing.T) {
		fanout := &Fanout{
			Sources: []Source{
				NewStaticSource("first", []*core.Listing{listing(1)}),
				&taggedSource{name: "second", listings: []*core.Listing{listing(1)}, key: "seen_in", val: "second"},
			},
			Dedup:         true,
			MergeStrategy: "priority",
		}
		items, err := fanout.Process(ctx, nil, nil)
		if err != nil {
			t.Fatal(err)
		}
		if !equalIDs(itemIDs(items), 1) {
			t.Fatalf("ids = %v, want [1]", itemIDs(items))
		}
		// 来源归属胜出的召回源
		if lbl := items[0].Labels["recall_source"]; lbl.Value != "first" {
			t.Errorf("recall_source = %q, want first", lbl.Value)
		}
		// 其余标签照常并入
		if lbl := items[0].Labels["seen_in"]; lbl.Value != "second" {
			t.Errorf("seen_in = %q, want second", lbl.Value)
		}
	})

	t.Run("empty sources", func(t *testing.T) {
		fanout := &Fanout{}
		items, err := fanout.Process(ctx, nil, nil)
		if err != nil || len(items) != 0 {
			t.Errorf("Process() = (%d items, %v), want empty", len(items), err)
		}
	})
}

package recall

import (
	"context"
	"fmt"

	"github.com/rushteam/estatekit/core"
	"github.com/rushteam/estatekit/pipeline"
)

// StoreSource 是存储召回源：从 ListingStore 取出全量房源作为候选集，
// 按存储返回的插入顺序输出。检索、推荐、统计都从这份候选集出发。
//
// 同时实现了 Source 和 Node 接口，可以单独作为 Pipeline 的召回节点，
// 也可以挂在 Fanout 下与其他源并发执行。
type StoreSource struct {
	Store core.ListingStore
	// MaxItems 最多返回多少条候选（<=0 表示不限制）
	MaxItems int
}

func NewStoreSource(store core.ListingStore) *StoreSource {
	return &StoreSource{Store: store}
}

func (r *StoreSource) Name() string { return "recall.store" }

func (r *StoreSource) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 pipeline.Node 接口，忽略上游 items（召回是链路起点）。
func (r *StoreSource) Process(ctx context.Context, qctx *core.QueryContext, _ []*core.Item) ([]*core.Item, error) {
	return r.Recall(ctx, qctx)
}

// Recall 实现 Source 接口。
func (r *StoreSource) Recall(ctx context.Context, _ *core.QueryContext) ([]*core.Item, error) {
	if r.Store == nil {
		return nil, core.NewDomainError(core.ModuleStore, core.ErrorCodeUnavailable, "recall: store not configured")
	}
	listings, err := r.Store.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load listings: %w", err)
	}
	if r.MaxItems > 0 && len(listings) > r.MaxItems {
		listings = listings[:r.MaxItems]
	}
	items := make([]*core.Item, 0, len(listings))
	for _, l := range listings {
		if l == nil {
			continue
		}
		items = append(items, core.NewItem(l))
	}
	return items, nil
}

var (
	_ Source        = (*StoreSource)(nil)
	_ pipeline.Node = (*StoreSource)(nil)
)

package recall

import (
	"context"

	"github.com/rushteam/estatekit/core"
	"github.com/rushteam/estatekit/pipeline"
)

// StaticSource 是静态召回源：直接返回预置的房源列表。
// 多用于测试、示例，或把少量人工运营位挂进 Fanout。
// 与 StoreSource 一样同时实现 Source 和 Node 接口。
type StaticSource struct {
	SourceName string
	Listings   []*core.Listing
}

func NewStaticSource(name string, listings []*core.Listing) *StaticSource {
	return &StaticSource{SourceName: name, Listings: listings}
}

func (r *StaticSource) Name() string {
	if r.SourceName == "" {
		return "recall.static"
	}
	return r.SourceName
}

func (r *StaticSource) Kind() pipeline.Kind { return pipeline.KindRecall }

func (r *StaticSource) Process(ctx context.Context, qctx *core.QueryContext, _ []*core.Item) ([]*core.Item, error) {
	return r.Recall(ctx, qctx)
}

func (r *StaticSource) Recall(_ context.Context, _ *core.QueryContext) ([]*core.Item, error) {
	items := make([]*core.Item, 0, len(r.Listings))
	for _, l := range r.Listings {
		if l == nil {
			continue
		}
		items = append(items, core.NewItem(l))
	}
	return items, nil
}

var (
	_ Source        = (*StaticSource)(nil)
	_ pipeline.Node = (*StaticSource)(nil)
)

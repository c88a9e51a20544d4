package rank

import (
	"context"
	"sort"

	"github.com/rushteam/estatekit/core"
	"github.com/rushteam/estatekit/pipeline"
	"github.com/rushteam/estatekit/pkg/utils"
	"github.com/rushteam/estatekit/search"
)

// SimilarityNode 按与目标房源的相似度排序（"看了又看"场景）。
// 目标房源取自 QueryContext.Target，本身会被从候选中剔除。
// - 写入 labels：rank_strategy
// - 更新 item.Score 并按分数降序排序
//
// 没有设置目标房源时原样返回（召回链路可能尚未定位目标）。
type SimilarityNode struct{}

func (n *SimilarityNode) Name() string        { return "rank.similarity" }
func (n *SimilarityNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *SimilarityNode) Process(
	_ context.Context,
	qctx *core.QueryContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if qctx == nil || qctx.Target == nil || len(items) == 0 {
		return items, nil
	}

	target := qctx.Target
	out := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if it == nil || it.Listing == nil {
			continue
		}
		if it.Listing.ID == target.ID {
			continue
		}
		it.Score = search.Similarity(target, it.Listing)
		it.PutLabel("rank_strategy", utils.Label{Value: "similarity", Source: "rank"})
		out = append(out, it)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out, nil
}

var _ pipeline.Node = (*SimilarityNode)(nil)

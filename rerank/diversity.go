package rerank

import (
	"context"

	"github.com/rushteam/estatekit/core"
	"github.com/rushteam/estatekit/pipeline"
)

// DiversityNode 是一个多样性重排节点：限制同一城市的房源在头部的数量，
// 避免结果被单个城市刷屏。
//
// 遍历已排序的候选，每个城市最多保留 MaxPerCity 个放入前段，
// 超出配额的依次追加在后段，整体仍保持各自的相对顺序，不丢弃房源。
type DiversityNode struct {
	// MaxPerCity 每个城市最多保留多少个房源（<=0 表示不限制）
	MaxPerCity int
}

func (n *DiversityNode) Name() string {
	return "rerank.diversity"
}

func (n *DiversityNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *DiversityNode) Process(
	_ context.Context,
	_ *core.QueryContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.MaxPerCity <= 0 || len(items) == 0 {
		return items, nil
	}

	counts := make(map[string]int)
	head := make([]*core.Item, 0, len(items))
	var overflow []*core.Item
	for _, it := range items {
		if it == nil || it.Listing == nil {
			continue
		}
		city := it.Listing.City
		if counts[city] < n.MaxPerCity {
			counts[city]++
			head = append(head, it)
			continue
		}
		overflow = append(overflow, it)
	}
	return append(head, overflow...), nil
}

var _ pipeline.Node = (*DiversityNode)(nil)

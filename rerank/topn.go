package rerank

import (
	"context"

	"github.com/rushteam/estatekit/core"
	"github.com/rushteam/estatekit/pipeline"
)

// TopNNode 是一个 Top-N 截断节点，用于在排序后截取前 N 个房源。
// 通常在排序（Rank）节点之后使用，用于限制返回结果数量。
//
// 使用场景：
//   - 排序后只返回 Top 5/10/50 个结果
//   - 控制接口返回数量，提升性能
//   - 配合多样性重排使用
//
// 示例：
//
//	pipeline := &pipeline.Pipeline{
//	    Nodes: []pipeline.Node{
//	        &rank.SimilarityNode{},      // 按相似度排序
//	        &rerank.TopNNode{N: 5},      // 截取 Top 5
//	        &rerank.DiversityNode{...},  // 多样性重排
//	    },
//	}
type TopNNode struct {
	// N 要保留的房源数量（Top N）
	// 如果 N <= 0，则返回所有房源（不截断）
	// 如果 N > len(items)，则返回所有房源
	N int
}

func (n *TopNNode) Name() string {
	return "rerank.topn"
}

func (n *TopNNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TopNNode) Process(
	_ context.Context,
	_ *core.QueryContext,
	items []*core.Item,
) ([]*core.Item, error) {
	// 如果 N <= 0，不截断，返回所有房源
	if n.N <= 0 {
		return items, nil
	}

	// 如果房源数量小于等于 N，直接返回
	if len(items) <= n.N {
		return items, nil
	}

	// 截取前 N 个房源
	return items[:n.N], nil
}

var _ pipeline.Node = (*TopNNode)(nil)

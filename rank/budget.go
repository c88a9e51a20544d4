package rank

import (
	"context"
	"math"
	"sort"

	"github.com/rushteam/estatekit/core"
	"github.com/rushteam/estatekit/pipeline"
	"github.com/rushteam/estatekit/pkg/conv"
	"github.com/rushteam/estatekit/pkg/utils"
)

// BudgetNode 按预算筛选并排序：保留价格在 [budget*(1-tol), budget*(1+tol)]
// 区间内的房源（闭区间），越接近预算越靠前。
// - 写入 labels：rank_strategy
// - Score = -|价格-预算|，沿用分数越大越靠前的约定
//
// 预算与容差优先取节点字段，其次取 QueryContext.Params 的
// budget / tolerance；容差未设置时用默认 0.1。预算未设置时原样返回。
type BudgetNode struct {
	Budget    float64
	Tolerance float64
}

func (n *BudgetNode) Name() string        { return "rank.budget" }
func (n *BudgetNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *BudgetNode) Process(
	_ context.Context,
	qctx *core.QueryContext,
	items []*core.Item,
) ([]*core.Item, error) {
	budget, tolerance := n.resolve(qctx)
	if budget <= 0 || len(items) == 0 {
		return items, nil
	}

	low := budget * (1 - tolerance)
	high := budget * (1 + tolerance)
	out := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if it == nil || it.Listing == nil {
			continue
		}
		price := it.Listing.Price
		if price < low || price > high {
			continue
		}
		it.Score = -math.Abs(price - budget)
		it.PutLabel("rank_strategy", utils.Label{Value: "budget", Source: "rank"})
		out = append(out, it)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out, nil
}

func (n *BudgetNode) resolve(qctx *core.QueryContext) (budget, tolerance float64) {
	budget = n.Budget
	tolerance = n.Tolerance
	if qctx != nil && qctx.Params != nil {
		if budget <= 0 {
			if v, ok := conv.ToFloat64(qctx.Params["budget"]); ok {
				budget = v
			}
		}
		if tolerance <= 0 {
			if v, ok := conv.ToFloat64(qctx.Params["tolerance"]); ok {
				tolerance = v
			}
		}
	}
	if tolerance <= 0 {
		tolerance = (&core.DefaultSearchConfig{}).DefaultBudgetTolerance()
	}
	return budget, tolerance
}

var _ pipeline.Node = (*BudgetNode)(nil)

package rank

import (
	"context"
	"sort"

	"github.com/rushteam/estatekit/core"
	"github.com/rushteam/estatekit/model"
	"github.com/rushteam/estatekit/pipeline"
	"github.com/rushteam/estatekit/pkg/utils"
)

// ModelNode 是一个使用 PriceModel 的排序 Node（不限定模型类型，线性回归只是默认实现之一）。
// - 对每个房源调用模型预测价格，并写回 Listing.PredictedPrice
// - 写入 labels：rank_model
// - 更新 item.Score 并按分数降序排序
//
// 默认 Score = 预测价格（高价值房源靠前）；ByValueGap 模式下
// Score = 预测价格 - 挂牌价格，被低估的房源（性价比高）排在前面。
type ModelNode struct {
	Model      model.PriceModel
	ByValueGap bool
}

func (n *ModelNode) Name() string        { return "rank.model" }
func (n *ModelNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *ModelNode) Process(
	_ context.Context,
	_ *core.QueryContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.Model == nil || len(items) == 0 {
		return items, nil
	}

	for _, it := range items {
		if it == nil || it.Listing == nil {
			continue
		}
		predicted, err := n.Model.Predict(it.Listing)
		if err != nil {
			return nil, err
		}
		it.Listing.SetPredictedPrice(predicted)
		if n.ByValueGap {
			it.Score = predicted - it.Listing.Price
		} else {
			it.Score = predicted
		}
		it.PutLabel("rank_model", utils.Label{Value: n.Model.Name(), Source: "rank"})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i] == nil {
			return false
		}
		if items[j] == nil {
			return true
		}
		return items[i].Score > items[j].Score
	})
	return items, nil
}

var _ pipeline.Node = (*ModelNode)(nil)

package feature

import (
	"context"

	"github.com/rushteam/estatekit/core"
	"github.com/rushteam/estatekit/pipeline"
)

// EnrichNode 是特征注入节点，将外部特征服务的房源特征合并到 Item.Features。
//
// 使用场景：
//   - 为下游字典型模型（如 RPC 排序模型）补充房源统计特征
//   - 为响应增加展示用特征（小区均价、热度等）
//
// 合并规则：已存在的特征保留原值，外部特征不覆盖。
type EnrichNode struct {
	// Provider 特征服务
	Provider core.FeatureProvider

	// Prefix 特征名前缀（可选，如 "ext_"），用于区分外部特征
	Prefix string
}

func (n *EnrichNode) Name() string {
	return "feature.enrich"
}

func (n *EnrichNode) Kind() pipeline.Kind {
	return pipeline.KindPostProcess
}

func (n *EnrichNode) Process(
	ctx context.Context,
	qctx *core.QueryContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 || n.Provider == nil {
		return items, nil
	}

	ids := make([]int64, 0, len(items))
	for _, item := range items {
		if item != nil && item.Listing != nil {
			ids = append(ids, item.Listing.ID)
		}
	}
	if len(ids) == 0 {
		return items, nil
	}

	featuresByID, err := n.Provider.BatchGetListingFeatures(ctx, ids)
	if err != nil {
		// 特征服务失败不阻断链路，按无特征处理
		return items, nil
	}

	for _, item := range items {
		if item == nil || item.Listing == nil {
			continue
		}
		features, ok := featuresByID[item.Listing.ID]
		if !ok {
			continue
		}
		if item.Features == nil {
			item.Features = make(map[string]float64, len(features))
		}
		for k, v := range features {
			key := n.Prefix + k
			if _, exists := item.Features[key]; !exists {
				item.Features[key] = v
			}
		}
	}

	return items, nil
}

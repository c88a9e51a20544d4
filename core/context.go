package core

import "github.com/rushteam/estatekit/pkg/utils"

// QueryContext 承载查询条件/场景/参考房源信息，贯穿整个 Pipeline 透传。
type QueryContext struct {
	Scene string

	// Criteria 是结构化筛选条件（城市、价格区间、卧室数等）
	Criteria Criteria

	// Keywords 是自由文本关键词查询（空格分隔，忽略大小写）
	Keywords string

	// Target 是相似推荐的参考房源；相似度类节点依赖此字段
	Target *Listing

	// Labels 是查询级标签，可驱动整个 Pipeline 行为
	// 例如：预算敏感、急租、首次购房等
	Labels map[string]utils.Label

	// Params 请求级上下文参数，包含：
	// - 地理参数：latitude, longitude, radius_km
	// - 预算参数：budget, tolerance
	// - 截断参数：max_results
	Params map[string]any
}

// PutLabel 写入查询级 Label。
func (qctx *QueryContext) PutLabel(key string, lbl utils.Label) {
	if qctx.Labels == nil {
		qctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := qctx.Labels[key]; ok {
		qctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	qctx.Labels[key] = lbl
}

// GetLabel 获取查询级 Label。
func (qctx *QueryContext) GetLabel(key string) (utils.Label, bool) {
	if qctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := qctx.Labels[key]
	return lbl, ok
}

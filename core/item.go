package core

import "github.com/rushteam/estatekit/pkg/utils"

// Item 是检索链路中的统一承载结构：房源、特征、分数、标签。
// Labels 用于解释与策略驱动；Score 用于排序决策。
type Item struct {
	Listing  *Listing
	Score    float64
	Features map[string]float64
	Labels   map[string]utils.Label
}

func NewItem(l *Listing) *Item {
	return &Item{
		Listing:  l,
		Score:    0,
		Features: make(map[string]float64),
		Labels:   make(map[string]utils.Label),
	}
}

// ID 返回房源 ID；Listing 为空时返回 0。
func (it *Item) ID() int64 {
	if it == nil || it.Listing == nil {
		return 0
	}
	return it.Listing.ID
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}

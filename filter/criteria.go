package filter

import (
	"context"

	"github.com/rushteam/estatekit/core"
)

// CriteriaFilter 是结构化条件过滤器，剔除不满足条件（AND 语义）的房源。
//
// 条件来源：优先使用节点自身的 Criteria；为空时回退到 QueryContext.Criteria。
// 两者都为空时不过滤。
type CriteriaFilter struct {
	// Criteria 节点级条件（可选）
	Criteria core.Criteria
}

// NewCriteriaFilter 创建结构化条件过滤器
func NewCriteriaFilter(criteria core.Criteria) *CriteriaFilter {
	return &CriteriaFilter{Criteria: criteria}
}

func (f *CriteriaFilter) Name() string {
	return "filter.criteria"
}

func (f *CriteriaFilter) ShouldFilter(
	ctx context.Context,
	qctx *core.QueryContext,
	item *core.Item,
) (bool, error) {
	if item == nil || item.Listing == nil {
		return true, nil
	}

	criteria := f.Criteria
	if len(criteria) == 0 && qctx != nil {
		criteria = qctx.Criteria
	}
	if len(criteria) == 0 {
		return false, nil
	}

	ok, err := criteria.Matches(item.Listing)
	if err != nil {
		return false, err
	}
	return !ok, nil
}

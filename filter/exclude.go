package filter

import (
	"context"

	"github.com/rushteam/estatekit/core"
)

// ExcludeFilter 是排除过滤器，剔除指定 ID 的房源。
//
// 使用场景：
//   - 相似推荐：排除参考房源自身（ExcludeTarget）
//   - 业务黑名单：下架、重复、测试房源等
type ExcludeFilter struct {
	// IDs 要排除的房源 ID 列表
	IDs []int64

	// ExcludeTarget 是否排除 QueryContext.Target 指向的房源
	ExcludeTarget bool
}

// NewExcludeFilter 创建排除过滤器
func NewExcludeFilter(ids []int64, excludeTarget bool) *ExcludeFilter {
	return &ExcludeFilter{
		IDs:           ids,
		ExcludeTarget: excludeTarget,
	}
}

func (f *ExcludeFilter) Name() string {
	return "filter.exclude"
}

func (f *ExcludeFilter) ShouldFilter(
	ctx context.Context,
	qctx *core.QueryContext,
	item *core.Item,
) (bool, error) {
	if item == nil || item.Listing == nil {
		return true, nil
	}

	id := item.Listing.ID
	for _, excluded := range f.IDs {
		if id == excluded {
			return true, nil
		}
	}

	if f.ExcludeTarget && qctx != nil && qctx.Target != nil && id == qctx.Target.ID {
		return true, nil
	}

	return false, nil
}

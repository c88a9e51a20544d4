package filter

import (
	"context"

	"github.com/rushteam/estatekit/core"
	"github.com/rushteam/estatekit/pkg/dsl"
)

// ExprFilter 是规则表达式过滤器，表达式描述要保留的房源（WHERE 语义），
// 不满足表达式的房源被剔除。表达式语法见 pkg/dsl。
//
// 示例：
//   - `listing.price <= 500000.0` → 只保留 50 万以内的房源
//   - `"pool" in listing.amenities` → 只保留带泳池的房源
//   - `listing.city == "Boston" || listing.city == "Cambridge"` → 城市白名单
type ExprFilter struct {
	// Expr 保留条件表达式；为空时不过滤
	Expr string
}

// NewExprFilter 创建规则表达式过滤器
func NewExprFilter(expr string) *ExprFilter {
	return &ExprFilter{Expr: expr}
}

func (f *ExprFilter) Name() string {
	return "filter.expr"
}

func (f *ExprFilter) ShouldFilter(
	ctx context.Context,
	qctx *core.QueryContext,
	item *core.Item,
) (bool, error) {
	if item == nil || item.Listing == nil {
		return true, nil
	}
	if f.Expr == "" {
		return false, nil
	}

	keep, err := dsl.NewEval(item, qctx).Evaluate(f.Expr)
	if err != nil {
		return false, err
	}
	return !keep, nil
}

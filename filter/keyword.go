package filter

import (
	"context"

	"github.com/rushteam/estatekit/core"
	"github.com/rushteam/estatekit/search"
)

// KeywordFilter 是关键词过滤器，剔除未命中任何词项的房源。
// 词项匹配规则与 search.Engine.SearchKeywords 一致：
// 查询串按空白分词，城市/房型/设施做忽略大小写的子串匹配。
//
// 关键词来源：优先使用节点自身的 Keywords；为空时回退到 QueryContext.Keywords。
// 两者都为空时不过滤（区别于引擎：空查询直接返回空结果）。
type KeywordFilter struct {
	// Keywords 节点级关键词（可选）
	Keywords string
}

// NewKeywordFilter 创建关键词过滤器
func NewKeywordFilter(keywords string) *KeywordFilter {
	return &KeywordFilter{Keywords: keywords}
}

func (f *KeywordFilter) Name() string {
	return "filter.keyword"
}

func (f *KeywordFilter) ShouldFilter(
	ctx context.Context,
	qctx *core.QueryContext,
	item *core.Item,
) (bool, error) {
	if item == nil || item.Listing == nil {
		return true, nil
	}

	keywords := f.Keywords
	if keywords == "" && qctx != nil {
		keywords = qctx.Keywords
	}
	terms := search.Tokenize(keywords)
	if len(terms) == 0 {
		return false, nil
	}

	return !search.MatchesTerms(item.Listing, terms), nil
}

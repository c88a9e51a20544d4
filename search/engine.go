package search

import (
	"math"
	"sort"
	"strings"

	"github.com/rushteam/estatekit/core"
)

// Engine 是房源检索引擎：结构化筛选、关键词检索、地理检索、相似推荐、
// 预算推荐与统计聚合。
//
// 设计原则：
//   - 无状态：所有操作接收房源切片，返回新切片，不修改输入
//   - 确定性：排序一律使用稳定排序，同分房源保持输入相对顺序
//   - 过滤类操作保持输入顺序
type Engine struct{}

// NewEngine 创建检索引擎
func NewEngine() *Engine {
	return &Engine{}
}

// Search 按结构化条件筛选房源（AND 语义），保持输入顺序。
// 条件值解析失败时立即返回错误。
func (e *Engine) Search(listings []*core.Listing, criteria core.Criteria) ([]*core.Listing, error) {
	results := make([]*core.Listing, 0)
	for _, l := range listings {
		if l == nil {
			continue
		}
		ok, err := criteria.Matches(l)
		if err != nil {
			return nil, err
		}
		if ok {
			results = append(results, l)
		}
	}
	return results, nil
}

// SearchKeywords 关键词检索：查询串按空白分词，任一词项命中
// 城市/房型/任一设施（忽略大小写的子串匹配）即保留该房源。
// 保持输入顺序；空查询串返回空结果。
func (e *Engine) SearchKeywords(listings []*core.Listing, keywords string) []*core.Listing {
	terms := Tokenize(keywords)
	results := make([]*core.Listing, 0)
	for _, l := range listings {
		if MatchesTerms(l, terms) {
			results = append(results, l)
		}
	}
	return results
}

// Tokenize 把查询串按空白拆成小写词项。
func Tokenize(keywords string) []string {
	fields := strings.Fields(keywords)
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		terms = append(terms, strings.ToLower(f))
	}
	return terms
}

// MatchesTerms 判断房源是否命中任一词项（城市/房型/设施的忽略大小写子串匹配）。
// 词项列表为空时返回 false。
func MatchesTerms(l *core.Listing, terms []string) bool {
	if l == nil || len(terms) == 0 {
		return false
	}
	city := strings.ToLower(l.City)
	typ := strings.ToLower(l.Type)
	for _, term := range terms {
		if strings.Contains(city, term) || strings.Contains(typ, term) {
			return true
		}
		for _, amenity := range l.Amenities {
			if strings.Contains(strings.ToLower(amenity), term) {
				return true
			}
		}
	}
	return false
}

// SearchNearby 返回与参考点大圆距离不超过 radiusKm（含边界）的房源，保持输入顺序。
func (e *Engine) SearchNearby(listings []*core.Listing, lat, lon, radiusKm float64) []*core.Listing {
	results := make([]*core.Listing, 0)
	for _, l := range listings {
		if l == nil {
			continue
		}
		distance := core.HaversineKm(lat, lon, l.Latitude, l.Longitude)
		if distance <= radiusKm {
			results = append(results, l)
		}
	}
	return results
}

// RecommendSimilar 相似推荐：排除目标房源自身（按 ID），其余房源按相似度
// 稳定降序排列，截断到 maxResults 条。maxResults <= 0 时返回空结果。
func (e *Engine) RecommendSimilar(listings []*core.Listing, target *core.Listing, maxResults int) []*core.Listing {
	if target == nil {
		return []*core.Listing{}
	}

	type scored struct {
		listing *core.Listing
		score   float64
	}
	candidates := make([]scored, 0, len(listings))
	for _, l := range listings {
		if l == nil || l.ID == target.ID {
			continue
		}
		candidates = append(candidates, scored{listing: l, score: Similarity(target, l)})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	count := maxResults
	if count > len(candidates) {
		count = len(candidates)
	}
	if count < 0 {
		count = 0
	}
	results := make([]*core.Listing, 0, count)
	for i := 0; i < count; i++ {
		results = append(results, candidates[i].listing)
	}
	return results
}

// RecommendByBudget 预算推荐：价格落在 [budget*(1-tolerance), budget*(1+tolerance)]
// （含边界）的房源，按 |price - budget| 稳定升序排列。
func (e *Engine) RecommendByBudget(listings []*core.Listing, budget, tolerance float64) []*core.Listing {
	minPrice := budget * (1.0 - tolerance)
	maxPrice := budget * (1.0 + tolerance)

	results := make([]*core.Listing, 0)
	for _, l := range listings {
		if l == nil {
			continue
		}
		if l.Price >= minPrice && l.Price <= maxPrice {
			results = append(results, l)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return math.Abs(results[i].Price-budget) < math.Abs(results[j].Price-budget)
	})
	return results
}

// PriceStatistics 计算价格统计：count / mean / min / max / median / std_dev。
// 中位数在偶数个样本时取中间两值的平均；标准差为总体标准差（除以 N）。
// 空输入返回空 map。
func (e *Engine) PriceStatistics(listings []*core.Listing) map[string]float64 {
	stats := make(map[string]float64)

	prices := make([]float64, 0, len(listings))
	for _, l := range listings {
		if l == nil {
			continue
		}
		prices = append(prices, l.Price)
	}
	if len(prices) == 0 {
		return stats
	}

	sort.Float64s(prices)

	sum := 0.0
	for _, p := range prices {
		sum += p
	}
	n := len(prices)
	mean := sum / float64(n)

	stats["count"] = float64(n)
	stats["mean"] = mean
	stats["min"] = prices[0]
	stats["max"] = prices[n-1]
	if n%2 == 0 {
		stats["median"] = (prices[n/2-1] + prices[n/2]) / 2.0
	} else {
		stats["median"] = prices[n/2]
	}

	variance := 0.0
	for _, p := range prices {
		variance += (p - mean) * (p - mean)
	}
	stats["std_dev"] = math.Sqrt(variance / float64(n))

	return stats
}

// PopularAmenities 统计各项设施在房源集中出现的次数。
func (e *Engine) PopularAmenities(listings []*core.Listing) map[string]int {
	counts := make(map[string]int)
	for _, l := range listings {
		if l == nil {
			continue
		}
		for _, amenity := range l.Amenities {
			counts[amenity]++
		}
	}
	return counts
}

// AmenityCount 是设施及其出现次数，用于排行输出。
type AmenityCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// TopAmenities 返回出现次数最多的前 n 项设施，按次数降序；
// 次数相同按名称升序，保证输出确定。n <= 0 时返回空结果。
func (e *Engine) TopAmenities(listings []*core.Listing, n int) []AmenityCount {
	if n <= 0 {
		return []AmenityCount{}
	}
	counts := e.PopularAmenities(listings)

	ranked := make([]AmenityCount, 0, len(counts))
	for name, count := range counts {
		ranked = append(ranked, AmenityCount{Name: name, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Name < ranked[j].Name
	})

	if n > len(ranked) {
		n = len(ranked)
	}
	return ranked[:n]
}

// AveragePrice 计算平均价格；空输入返回 0。
func (e *Engine) AveragePrice(listings []*core.Listing) float64 {
	sum := 0.0
	n := 0
	for _, l := range listings {
		if l == nil {
			continue
		}
		sum += l.Price
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// CountByCity 统计各城市的房源数量。
func (e *Engine) CountByCity(listings []*core.Listing) map[string]int {
	counts := make(map[string]int)
	for _, l := range listings {
		if l == nil {
			continue
		}
		counts[l.City]++
	}
	return counts
}

// CountByType 统计各房型的房源数量。
func (e *Engine) CountByType(listings []*core.Listing) map[string]int {
	counts := make(map[string]int)
	for _, l := range listings {
		if l == nil {
			continue
		}
		counts[l.Type]++
	}
	return counts
}

package search

import (
	"math"

	"github.com/rushteam/estatekit/core"
)

// Similarity 计算两个房源的相似度得分，区间 [0, 1.0]。
//
// 得分构成：
//   - 同城：+0.3
//   - 同房型：+0.2
//   - 卧室数相同：+0.2；相差 1：+0.1
//   - 价格接近度：+0.2 * (min/max)
//   - 面积接近度：+0.1 * (min/max)
//
// 价格与面积的比值项在较大值不为正数时按 0 计，保证得分总是有限值。
// 价格、面积为正的两条完全相同的房源得分为 1.0。
func Similarity(a, b *core.Listing) float64 {
	if a == nil || b == nil {
		return 0
	}

	score := 0.0
	if a.City == b.City {
		score += 0.3
	}
	if a.Type == b.Type {
		score += 0.2
	}

	bedroomDiff := a.Bedrooms - b.Bedrooms
	if bedroomDiff < 0 {
		bedroomDiff = -bedroomDiff
	}
	if bedroomDiff == 0 {
		score += 0.2
	} else if bedroomDiff == 1 {
		score += 0.1
	}

	score += 0.2 * closeness(a.Price, b.Price)
	score += 0.1 * closeness(a.Size, b.Size)

	return score
}

// closeness 返回 min/max 比值；较大值不为正数时返回 0。
func closeness(x, y float64) float64 {
	max := math.Max(x, y)
	if max <= 0 {
		return 0
	}
	return math.Min(x, y) / max
}

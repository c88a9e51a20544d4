package search

import (
	"sort"

	"github.com/rushteam/estatekit/core"
)

// SortBy 是房源排序方式。
type SortBy string

const (
	SortPriceAsc     SortBy = "price_asc"     // 价格升序
	SortPriceDesc    SortBy = "price_desc"    // 价格降序
	SortSizeAsc      SortBy = "size_asc"      // 面积升序
	SortSizeDesc     SortBy = "size_desc"     // 面积降序
	SortBedroomsAsc  SortBy = "bedrooms_asc"  // 卧室数升序
	SortBedroomsDesc SortBy = "bedrooms_desc" // 卧室数降序
	SortCityAsc      SortBy = "city_asc"      // 城市名升序
	SortDistance     SortBy = "distance"      // 与参考点距离升序
)

// Sort 返回按指定方式稳定排序的新切片，原切片不变。
// SortDistance 依赖参考点坐标 (refLat, refLon)，其余方式忽略参考点。
// 未识别的排序方式返回未排序的拷贝。
func (e *Engine) Sort(listings []*core.Listing, by SortBy, refLat, refLon float64) []*core.Listing {
	sorted := make([]*core.Listing, len(listings))
	copy(sorted, listings)

	less := func(a, b *core.Listing) bool { return false }
	switch by {
	case SortPriceAsc:
		less = func(a, b *core.Listing) bool { return a.Price < b.Price }
	case SortPriceDesc:
		less = func(a, b *core.Listing) bool { return a.Price > b.Price }
	case SortSizeAsc:
		less = func(a, b *core.Listing) bool { return a.Size < b.Size }
	case SortSizeDesc:
		less = func(a, b *core.Listing) bool { return a.Size > b.Size }
	case SortBedroomsAsc:
		less = func(a, b *core.Listing) bool { return a.Bedrooms < b.Bedrooms }
	case SortBedroomsDesc:
		less = func(a, b *core.Listing) bool { return a.Bedrooms > b.Bedrooms }
	case SortCityAsc:
		less = func(a, b *core.Listing) bool { return a.City < b.City }
	case SortDistance:
		less = func(a, b *core.Listing) bool {
			da := core.HaversineKm(refLat, refLon, a.Latitude, a.Longitude)
			db := core.HaversineKm(refLat, refLon, b.Latitude, b.Longitude)
			return da < db
		}
	default:
		return sorted
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a == nil || b == nil {
			return a != nil
		}
		return less(a, b)
	})
	return sorted
}

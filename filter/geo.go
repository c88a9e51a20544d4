package filter

import (
	"context"
	"fmt"

	"github.com/rushteam/estatekit/core"
	"github.com/rushteam/estatekit/pkg/conv"
)

// RadiusFilter 是地理围栏过滤器，剔除与参考点大圆距离超过半径的房源。
// 距离等于半径的房源保留（含边界）。
//
// 参考点来源：优先使用节点自身的 Latitude/Longitude；
// 未设置时回退到 QueryContext.Params 的 latitude/longitude/radius_km。
type RadiusFilter struct {
	// Latitude / Longitude 参考点坐标（可选）
	Latitude  float64
	Longitude float64

	// RadiusKm 半径（公里）；<= 0 时取默认 10.0
	RadiusKm float64

	// HasPoint 标记节点级参考点是否已设置（坐标 0,0 是合法值）
	HasPoint bool
}

// NewRadiusFilter 创建地理围栏过滤器
func NewRadiusFilter(lat, lon, radiusKm float64) *RadiusFilter {
	return &RadiusFilter{
		Latitude:  lat,
		Longitude: lon,
		RadiusKm:  radiusKm,
		HasPoint:  true,
	}
}

func (f *RadiusFilter) Name() string {
	return "filter.radius"
}

func (f *RadiusFilter) ShouldFilter(
	ctx context.Context,
	qctx *core.QueryContext,
	item *core.Item,
) (bool, error) {
	if item == nil || item.Listing == nil {
		return true, nil
	}

	lat, lon, radius, err := f.resolve(qctx)
	if err != nil {
		return false, err
	}

	distance := core.HaversineKm(lat, lon, item.Listing.Latitude, item.Listing.Longitude)
	return distance > radius, nil
}

// resolve 确定参考点与半径；缺少参考点时返回错误。
func (f *RadiusFilter) resolve(qctx *core.QueryContext) (lat, lon, radius float64, err error) {
	lat, lon, radius = f.Latitude, f.Longitude, f.RadiusKm
	hasPoint := f.HasPoint

	if !hasPoint && qctx != nil && qctx.Params != nil {
		latVal, latOK := conv.ToFloat64(qctx.Params["latitude"])
		lonVal, lonOK := conv.ToFloat64(qctx.Params["longitude"])
		if latOK && lonOK {
			lat, lon = latVal, lonVal
			hasPoint = true
		}
		if r, ok := conv.ToFloat64(qctx.Params["radius_km"]); ok {
			radius = r
		}
	}

	if !hasPoint {
		return 0, 0, 0, fmt.Errorf("radius filter: reference point not set")
	}
	if radius <= 0 {
		cfg := &core.DefaultSearchConfig{}
		radius = cfg.DefaultRadiusKm()
	}
	return lat, lon, radius, nil
}

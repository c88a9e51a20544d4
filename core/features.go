package core

import "context"

// FeatureProvider 是房源特征服务的领域接口。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（feature）实现
//   - 遵循依赖倒置原则：领域层定义接口，基础设施层实现接口
//   - 避免循环依赖：领域层不依赖基础设施层
//
// 使用场景：
//   - 获取房源统计特征：历史浏览量、成交周期、小区均价等
//   - 在排序前补充模型所需的外部特征
//
// 注意：请求级上下文参数（如 latitude、radius_km 等）应通过 QueryContext.Params 传递，
// 而不是通过 FeatureProvider 获取。
//
// 实现：
//   - feature.MapProvider 实现此接口
//   - feature.FeastProvider 实现此接口
type FeatureProvider interface {
	// Name 返回特征服务名称（用于日志/监控）
	Name() string

	// GetListingFeatures 获取房源特征（单个房源）
	GetListingFeatures(ctx context.Context, id int64) (map[string]float64, error)

	// BatchGetListingFeatures 批量获取房源特征（推荐使用，减少网络往返）
	BatchGetListingFeatures(ctx context.Context, ids []int64) (map[int64]map[string]float64, error)

	// Close 关闭特征服务，释放资源
	Close(ctx context.Context) error
}

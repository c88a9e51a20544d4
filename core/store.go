package core

import "context"

// ListingStore 是房源存储的领域接口。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（store）实现
//   - 遵循依赖倒置原则：领域层定义接口，基础设施层实现接口
//   - 避免循环依赖：领域层不依赖基础设施层
//
// 使用场景：
//   - 检索数据源：筛选、关键词、地理召回都从这里取全量房源
//   - 训练数据源：模型训练读取全量房源
//   - 在线服务：API 按 ID 取房源、写回预测价格
//
// 实现：
//   - store.MemoryStore 实现此接口
//   - store.RedisStore 实现此接口
//   - store.PostgresStore 实现此接口
type ListingStore interface {
	// Name 返回存储后端名称（用于日志/监控）
	Name() string

	// Add 写入或更新单个房源（按 ID upsert）
	Add(ctx context.Context, l *Listing) error

	// Remove 按 ID 删除房源；不存在时返回 ErrListingNotFound
	Remove(ctx context.Context, id int64) error

	// Get 按 ID 读取房源；不存在时返回 ErrListingNotFound
	Get(ctx context.Context, id int64) (*Listing, error)

	// All 返回全部房源，保持插入顺序
	All(ctx context.Context) ([]*Listing, error)

	// Count 返回房源数量
	Count(ctx context.Context) (int, error)

	// Close 关闭连接/释放资源
	Close() error
}

// Store 错误定义（使用统一的 DomainError）
var (
	// ErrListingNotFound 表示房源不存在
	ErrListingNotFound = NewDomainError(ModuleStore, ErrorCodeNotFound, "store: listing not found")

	// ErrStoreNotSupported 表示操作不支持
	ErrStoreNotSupported = NewDomainError(ModuleStore, ErrorCodeNotSupported, "store: operation not supported")
)

// IsListingNotFound 检查错误是否为房源不存在（使用统一的错误检查）
func IsListingNotFound(err error) bool {
	if err == nil {
		return false
	}
	domainErr := GetDomainError(err)
	if domainErr != nil && domainErr.Module == ModuleStore {
		return domainErr.Code == ErrorCodeNotFound
	}
	return false
}

// IsStoreNotSupported 检查错误是否为操作不支持（使用统一的错误检查）
func IsStoreNotSupported(err error) bool {
	if err == nil {
		return false
	}
	domainErr := GetDomainError(err)
	if domainErr != nil && domainErr.Module == ModuleStore {
		return domainErr.Code == ErrorCodeNotSupported
	}
	return false
}

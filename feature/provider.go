package feature

import (
	"context"
	"fmt"

	"github.com/rushteam/estatekit/core"
)

var (
	// ErrFeatureNotFound 特征未找到
	ErrFeatureNotFound = core.NewDomainError(core.ModuleFeature, core.ErrorCodeNotFound, "feature: features not found")
	// ErrProviderUnavailable 特征服务不可用
	ErrProviderUnavailable = core.NewDomainError(core.ModuleFeature, core.ErrorCodeUnavailable, "feature: provider unavailable")
)

// MapProvider 是内存特征提供者，特征按房源 ID 静态登记。
//
// 使用场景：
//   - 单测与本地开发
//   - 离线算好的房源统计特征（浏览量、成交周期等）直接灌入内存
type MapProvider struct {
	// Features 房源 ID -> 特征字典
	Features map[int64]map[string]float64
}

// NewMapProvider 创建内存特征提供者
func NewMapProvider(features map[int64]map[string]float64) *MapProvider {
	if features == nil {
		features = make(map[int64]map[string]float64)
	}
	return &MapProvider{Features: features}
}

func (p *MapProvider) Name() string {
	return "map"
}

func (p *MapProvider) GetListingFeatures(ctx context.Context, id int64) (map[string]float64, error) {
	features, ok := p.Features[id]
	if !ok {
		return nil, ErrFeatureNotFound
	}
	// 拷贝，避免调用方修改内部状态
	out := make(map[string]float64, len(features))
	for k, v := range features {
		out[k] = v
	}
	return out, nil
}

func (p *MapProvider) BatchGetListingFeatures(ctx context.Context, ids []int64) (map[int64]map[string]float64, error) {
	result := make(map[int64]map[string]float64, len(ids))
	for _, id := range ids {
		features, err := p.GetListingFeatures(ctx, id)
		if err != nil {
			continue // 缺失的房源跳过，不视为整体失败
		}
		result[id] = features
	}
	return result, nil
}

func (p *MapProvider) Close(ctx context.Context) error {
	return nil
}

// 确保 MapProvider 实现了 core.FeatureProvider 接口
var _ core.FeatureProvider = (*MapProvider)(nil)

// StoreProvider 是基于房源存储的特征提供者。
// 从 ListingStore 读取房源，经 Extractor 转换为特征字典。
//
// 使用场景：
//   - 没有独立特征平台时，直接用房源本身的属性做特征
//   - 排序节点需要字典形式特征（如 RPC 远程模型）
type StoreProvider struct {
	Store     core.ListingStore
	Extractor *Extractor
}

// NewStoreProvider 创建基于存储的特征提供者
func NewStoreProvider(store core.ListingStore, extractor *Extractor) *StoreProvider {
	if extractor == nil {
		extractor = NewExtractor()
	}
	return &StoreProvider{Store: store, Extractor: extractor}
}

func (p *StoreProvider) Name() string {
	return "store"
}

func (p *StoreProvider) GetListingFeatures(ctx context.Context, id int64) (map[string]float64, error) {
	if p.Store == nil {
		return nil, ErrProviderUnavailable
	}
	l, err := p.Store.Get(ctx, id)
	if err != nil {
		if core.IsListingNotFound(err) {
			return nil, ErrFeatureNotFound
		}
		return nil, fmt.Errorf("get listing %d: %w", id, err)
	}
	return p.Extractor.Map(l), nil
}

func (p *StoreProvider) BatchGetListingFeatures(ctx context.Context, ids []int64) (map[int64]map[string]float64, error) {
	result := make(map[int64]map[string]float64, len(ids))
	for _, id := range ids {
		features, err := p.GetListingFeatures(ctx, id)
		if err != nil {
			if core.IsNotFound(err) {
				continue
			}
			return result, err
		}
		result[id] = features
	}
	return result, nil
}

func (p *StoreProvider) Close(ctx context.Context) error {
	return nil
}

// 确保 StoreProvider 实现了 core.FeatureProvider 接口
var _ core.FeatureProvider = (*StoreProvider)(nil)

package feature

import (
	"context"
	"sync"
	"time"

	"github.com/rushteam/estatekit/core"
)

// CachedProvider 是特征缓存装饰器，为任意 FeatureProvider 添加本地 TTL 缓存。
// 用于减少对远程特征服务（如 Feast）的访问。
type CachedProvider struct {
	mu       sync.RWMutex
	provider core.FeatureProvider
	entries  map[int64]*cacheEntry
	maxSize  int
	ttl      time.Duration
}

type cacheEntry struct {
	features   map[string]float64
	expireTime time.Time
	accessTime time.Time
}

// NewCachedProvider 创建特征缓存装饰器。
// maxSize <= 0 时取默认 1024；ttl <= 0 时取默认 5 分钟。
func NewCachedProvider(provider core.FeatureProvider, maxSize int, ttl time.Duration) *CachedProvider {
	if maxSize <= 0 {
		maxSize = 1024
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedProvider{
		provider: provider,
		entries:  make(map[int64]*cacheEntry),
		maxSize:  maxSize,
		ttl:      ttl,
	}
}

func (c *CachedProvider) Name() string {
	if c.provider == nil {
		return "cached"
	}
	return "cached:" + c.provider.Name()
}

func (c *CachedProvider) GetListingFeatures(ctx context.Context, id int64) (map[string]float64, error) {
	if features, ok := c.get(id); ok {
		return features, nil
	}
	if c.provider == nil {
		return nil, ErrProviderUnavailable
	}
	features, err := c.provider.GetListingFeatures(ctx, id)
	if err != nil {
		return nil, err
	}
	c.set(id, features)
	return features, nil
}

func (c *CachedProvider) BatchGetListingFeatures(ctx context.Context, ids []int64) (map[int64]map[string]float64, error) {
	result := make(map[int64]map[string]float64, len(ids))
	missed := make([]int64, 0)
	for _, id := range ids {
		if features, ok := c.get(id); ok {
			result[id] = features
		} else {
			missed = append(missed, id)
		}
	}
	if len(missed) == 0 || c.provider == nil {
		return result, nil
	}

	fetched, err := c.provider.BatchGetListingFeatures(ctx, missed)
	if err != nil {
		return result, err
	}
	for id, features := range fetched {
		result[id] = features
		c.set(id, features)
	}
	return result, nil
}

func (c *CachedProvider) Close(ctx context.Context) error {
	c.mu.Lock()
	c.entries = make(map[int64]*cacheEntry)
	c.mu.Unlock()
	if c.provider != nil {
		return c.provider.Close(ctx)
	}
	return nil
}

func (c *CachedProvider) get(id int64) (map[string]float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[id]
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expireTime) {
		delete(c.entries, id)
		return nil, false
	}
	entry.accessTime = time.Now()
	return entry.features, true
}

func (c *CachedProvider) set(id int64, features map[string]float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= c.maxSize {
		c.evictOldest()
	}
	c.entries[id] = &cacheEntry{
		features:   features,
		expireTime: time.Now().Add(c.ttl),
		accessTime: time.Now(),
	}
}

// evictOldest 删除最久未访问的条目（调用方需持有写锁）
func (c *CachedProvider) evictOldest() {
	var oldestKey int64
	var oldestTime time.Time
	first := true

	for key, entry := range c.entries {
		if first || entry.accessTime.Before(oldestTime) {
			oldestKey = key
			oldestTime = entry.accessTime
			first = false
		}
	}
	if !first {
		delete(c.entries, oldestKey)
	}
}

// 确保 CachedProvider 实现了 core.FeatureProvider 接口
var _ core.FeatureProvider = (*CachedProvider)(nil)

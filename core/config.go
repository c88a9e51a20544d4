package core

import "time"

// SearchConfig 是检索相关的配置接口，用于提供默认值。
type SearchConfig interface {
	// DefaultMaxResults 返回推荐结果的默认条数
	DefaultMaxResults() int

	// MaxResultsCap 返回单次请求结果条数的上限
	MaxResultsCap() int

	// DefaultRadiusKm 返回附近检索的默认半径（公里）
	DefaultRadiusKm() float64

	// DefaultBudgetTolerance 返回预算推荐的默认容差比例
	DefaultBudgetTolerance() float64

	// DefaultTimeout 返回默认的超时时间
	DefaultTimeout() time.Duration
}

// DefaultSearchConfig 是默认的检索配置实现。
type DefaultSearchConfig struct{}

func (c *DefaultSearchConfig) DefaultMaxResults() int {
	return 5
}

func (c *DefaultSearchConfig) MaxResultsCap() int {
	return 50
}

func (c *DefaultSearchConfig) DefaultRadiusKm() float64 {
	return 10.0
}

func (c *DefaultSearchConfig) DefaultBudgetTolerance() float64 {
	return 0.1
}

func (c *DefaultSearchConfig) DefaultTimeout() time.Duration {
	return 2 * time.Second
}

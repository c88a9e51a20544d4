package feature

import (
	"context"
	"fmt"
	"strings"

	"github.com/rushteam/estatekit/core"
	"github.com/rushteam/estatekit/feast"
	"github.com/rushteam/estatekit/pkg/conv"
)

// FeastProvider 从 Feast 在线存储拉取房源行为特征，实现 core.FeatureProvider。
// 这类特征（浏览量、收藏量、挂牌天数等）由离线管道计算后物化到 Feast，
// 不在 Listing 实体上。
//
// Features 使用 Feast 全名（"listing_stats:view_count"），返回的特征 key
// 去掉特征视图前缀（"view_count"），便于在 CEL 表达式与模型中引用。
type FeastProvider struct {
	Client feast.Client
	// Project Feast 项目名
	Project string
	// Features 要拉取的特征全名列表
	Features []string
	// EntityKey 实体键名，默认 "listing_id"
	EntityKey string
}

func NewFeastProvider(client feast.Client, project string, features []string) *FeastProvider {
	return &FeastProvider{
		Client:   client,
		Project:  project,
		Features: features,
	}
}

func (p *FeastProvider) Name() string { return "feast" }

func (p *FeastProvider) entityKey() string {
	if p.EntityKey == "" {
		return "listing_id"
	}
	return p.EntityKey
}

func (p *FeastProvider) GetListingFeatures(ctx context.Context, id int64) (map[string]float64, error) {
	batch, err := p.BatchGetListingFeatures(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	features, ok := batch[id]
	if !ok {
		return nil, ErrFeatureNotFound
	}
	return features, nil
}

func (p *FeastProvider) BatchGetListingFeatures(ctx context.Context, ids []int64) (map[int64]map[string]float64, error) {
	if p.Client == nil {
		return nil, ErrProviderUnavailable
	}
	if len(ids) == 0 {
		return map[int64]map[string]float64{}, nil
	}

	entityRows := make([]map[string]interface{}, len(ids))
	for i, id := range ids {
		entityRows[i] = map[string]interface{}{p.entityKey(): id}
	}
	resp, err := p.Client.GetOnlineFeatures(ctx, &feast.GetOnlineFeaturesRequest{
		Features:   p.Features,
		EntityRows: entityRows,
		Project:    p.Project,
	})
	if err != nil {
		return nil, fmt.Errorf("feast batch get: %w", err)
	}
	if len(resp.FeatureVectors) != len(ids) {
		return nil, fmt.Errorf("feast batch get: row count mismatch: expected %d, got %d", len(ids), len(resp.FeatureVectors))
	}

	out := make(map[int64]map[string]float64, len(ids))
	for i, id := range ids {
		values := resp.FeatureVectors[i].Values
		if len(values) == 0 {
			continue
		}
		features := make(map[string]float64, len(values))
		for name, v := range values {
			f, ok := conv.ToFloat64(v)
			if !ok {
				continue // 非数值特征对线性模型无意义，跳过
			}
			features[stripViewPrefix(name)] = f
		}
		out[id] = features
	}
	return out, nil
}

func (p *FeastProvider) Close(_ context.Context) error {
	if p.Client == nil {
		return nil
	}
	return p.Client.Close()
}

// stripViewPrefix 去掉 "listing_stats:view_count" 中的特征视图前缀。
func stripViewPrefix(name string) string {
	if i := strings.LastIndex(name, ":"); i >= 0 {
		return name[i+1:]
	}
	return name
}

var _ core.FeatureProvider = (*FeastProvider)(nil)

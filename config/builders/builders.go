// Package builders 注册所有可配置驱动的内置 Node。
// 在入口处 import _ "github.com/rushteam/estatekit/config/builders" 即可生效。
//
// 需要外部依赖（ListingStore、FeatureProvider）的节点无法仅凭配置构建，
// 应在代码中组装后挂进 Pipeline，对应的 builder 会返回明确的错误提示。
package builders

import (
	"fmt"
	"time"

	"github.com/rushteam/estatekit/config"
	"github.com/rushteam/estatekit/core"
	"github.com/rushteam/estatekit/feature"
	"github.com/rushteam/estatekit/filter"
	"github.com/rushteam/estatekit/model"
	"github.com/rushteam/estatekit/pipeline"
	"github.com/rushteam/estatekit/pkg/conv"
	"github.com/rushteam/estatekit/rank"
	"github.com/rushteam/estatekit/recall"
	"github.com/rushteam/estatekit/rerank"
)

func init() {
	config.Register("recall.fanout", BuildFanoutNode)
	config.Register("recall.static", BuildStaticNode)
	config.Register("filter", BuildFilterNode)
	config.Register("rank.similarity", BuildSimilarityNode)
	config.Register("rank.budget", BuildBudgetNode)
	config.Register("rank.model", BuildModelNode)
	config.Register("rank.rpc", BuildRPCNode)
	config.Register("rerank.topn", BuildTopNNode)
	config.Register("rerank.diversity", BuildDiversityNode)
	config.Register("feature.enrich", BuildFeatureEnrichNode)
}

func BuildFanoutNode(cfg map[string]interface{}) (pipeline.Node, error) {
	sourcesConfig, ok := cfg["sources"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("sources not found or invalid")
	}
	sources := make([]recall.Source, 0, len(sourcesConfig))
	for _, sc := range sourcesConfig {
		sourceMap, ok := sc.(map[string]interface{})
		if !ok {
			continue
		}
		sourceType := conv.ConfigGet(sourceMap, "type", "")
		switch sourceType {
		case "static":
			sources = append(sources, &recall.StaticSource{
				SourceName: conv.ConfigGet(sourceMap, "name", ""),
				Listings:   listingsFromConfig(sourceMap["listings"]),
			})
		case "store":
			return nil, fmt.Errorf("store source requires a ListingStore, wire recall.StoreSource in code")
		default:
			return nil, fmt.Errorf("unknown source type: %s", sourceType)
		}
	}
	fanout := &recall.Fanout{
		Sources:       sources,
		Dedup:         conv.ConfigGet(cfg, "dedup", true),
		MergeStrategy: conv.ConfigGet(cfg, "merge_strategy", ""),
	}
	if sec := conv.ConfigGetInt64(cfg, "timeout", 0); sec > 0 {
		fanout.Timeout = time.Duration(sec) * time.Second
	}
	if n := conv.ConfigGetInt64(cfg, "max_concurrent", 0); n > 0 {
		fanout.MaxConcurrent = int(n)
	}
	return fanout, nil
}

func BuildStaticNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &recall.StaticSource{
		SourceName: conv.ConfigGet(cfg, "name", ""),
		Listings:   listingsFromConfig(cfg["listings"]),
	}, nil
}

func BuildFilterNode(cfg map[string]interface{}) (pipeline.Node, error) {
	filtersConfig, ok := cfg["filters"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("filters not found or invalid")
	}
	filters := make([]filter.Filter, 0, len(filtersConfig))
	for _, fc := range filtersConfig {
		filterMap, ok := fc.(map[string]interface{})
		if !ok {
			continue
		}
		filterType := conv.ConfigGet(filterMap, "type", "")
		switch filterType {
		case "criteria":
			criteria := conv.MapToString(conv.ConfigGet(filterMap, "criteria", map[string]interface{}(nil)))
			filters = append(filters, filter.NewCriteriaFilter(core.Criteria(criteria)))
		case "keyword":
			filters = append(filters, &filter.KeywordFilter{
				Keywords: conv.ConfigGet(filterMap, "keywords", ""),
			})
		case "radius":
			f := filter.NewRadiusFilter(
				conv.ConfigGetFloat64(filterMap, "latitude", 0),
				conv.ConfigGetFloat64(filterMap, "longitude", 0),
				conv.ConfigGetFloat64(filterMap, "radius_km", 0),
			)
			if _, ok := filterMap["latitude"]; !ok {
				f.HasPoint = false // 没配坐标时回退到 QueryContext.Params
			}
			filters = append(filters, f)
		case "exclude":
			filters = append(filters, &filter.ExcludeFilter{
				IDs:           conv.SliceAnyToInt64(filterMap["ids"]),
				ExcludeTarget: conv.ConfigGet(filterMap, "exclude_target", false),
			})
		case "expr":
			filters = append(filters, &filter.ExprFilter{
				Expr: conv.ConfigGet(filterMap, "expr", ""),
			})
		default:
			return nil, fmt.Errorf("unknown filter type: %s", filterType)
		}
	}
	return &filter.FilterNode{Filters: filters}, nil
}

func BuildSimilarityNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &rank.SimilarityNode{}, nil
}

func BuildBudgetNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &rank.BudgetNode{
		Budget:    conv.ConfigGetFloat64(cfg, "budget", 0),
		Tolerance: conv.ConfigGetFloat64(cfg, "tolerance", 0),
	}, nil
}

// BuildModelNode 从模型文件构建排序节点。注意 Load 只恢复偏置与权重，
// 类别编码与归一化参数需在代码中重新 Train 获得。
func BuildModelNode(cfg map[string]interface{}) (pipeline.Node, error) {
	path := conv.ConfigGet(cfg, "path", "")
	if path == "" {
		return nil, fmt.Errorf("path not found")
	}
	lr := model.NewLinearRegression()
	if err := lr.Load(path); err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	return &rank.ModelNode{
		Model:      lr,
		ByValueGap: conv.ConfigGet(cfg, "by_value_gap", false),
	}, nil
}

func BuildRPCNode(cfg map[string]interface{}) (pipeline.Node, error) {
	endpoint := conv.ConfigGet(cfg, "endpoint", "")
	if endpoint == "" {
		return nil, fmt.Errorf("endpoint not found")
	}
	timeout := 5 * time.Second
	if sec := conv.ConfigGetInt64(cfg, "timeout", 5); sec > 0 {
		timeout = time.Duration(sec) * time.Second
	}
	modelName := conv.ConfigGet(cfg, "model_name", "rpc")
	if modelName == "" {
		modelName = "rpc"
	}
	rpcModel := model.NewRPCModel(modelName, endpoint, timeout)
	return &rank.ModelNode{Model: rpcModel}, nil
}

func BuildTopNNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &rerank.TopNNode{N: int(conv.ConfigGetInt64(cfg, "n", 0))}, nil
}

func BuildDiversityNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &rerank.DiversityNode{
		MaxPerCity: int(conv.ConfigGetInt64(cfg, "max_per_city", 0)),
	}, nil
}

func BuildFeatureEnrichNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &feature.EnrichNode{
		Prefix: conv.ConfigGet(cfg, "prefix", ""),
	}, nil
}

func listingsFromConfig(v interface{}) []*core.Listing {
	raw, ok := v.([]interface{})
	if !ok {
		return nil
	}
	listings := make([]*core.Listing, 0, len(raw))
	for _, e := range raw {
		m, ok := e.(map[string]interface{})
		if !ok {
			continue
		}
		listings = append(listings, &core.Listing{
			ID:        conv.ConfigGetInt64(m, "id", 0),
			City:      conv.ConfigGet(m, "city", ""),
			Price:     conv.ConfigGetFloat64(m, "price", 0),
			Bedrooms:  int(conv.ConfigGetInt64(m, "bedrooms", 0)),
			Bathrooms: int(conv.ConfigGetInt64(m, "bathrooms", 0)),
			Size:      conv.ConfigGetFloat64(m, "size", 0),
			Type:      conv.ConfigGet(m, "type", ""),
			Latitude:  conv.ConfigGetFloat64(m, "latitude", 0),
			Longitude: conv.ConfigGetFloat64(m, "longitude", 0),
			Amenities: conv.SliceAnyToString(m["amenities"]),
		})
	}
	return listings
}

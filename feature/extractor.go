package feature

import (
	"github.com/rushteam/estatekit/core"
)

// NumFeatures 是房源特征向量的固定维度。
const NumFeatures = 9

// FeatureNames 返回特征向量各维度的名称（与 Vector 的顺序一致）。
func FeatureNames() []string {
	return []string{
		"city_code",
		"type_code",
		"bedrooms",
		"bathrooms",
		"size",
		"latitude",
		"longitude",
		"size_per_bedroom",
		"amenity_count",
	}
}

// Extractor 是房源特征抽取器，将 Listing 转换为定长数值向量。
//
// 设计原则：
//   - 特征顺序固定（见 FeatureNames），训练与预测共用同一布局
//   - 类别特征（城市、房型）通过冻结编码表编码，见 CategoryCodec
//   - Fit 只负责建表；Vector 是纯函数，不改变抽取器状态
//
// 注意：size_per_bedroom 是原始除法，卧室数为 0 时产生 Inf；
// 数据导入层（ingest）会对这类记录打标，由调用方决定取舍。
type Extractor struct {
	Cities *CategoryCodec
	Types  *CategoryCodec
}

// NewExtractor 创建空的特征抽取器
func NewExtractor() *Extractor {
	return &Extractor{
		Cities: NewCategoryCodec(),
		Types:  NewCategoryCodec(),
	}
}

// Fit 重建编码表：按输入顺序扫描全部房源，对每个房源先登记城市、再登记房型。
func (e *Extractor) Fit(listings []*core.Listing) {
	if e.Cities == nil {
		e.Cities = NewCategoryCodec()
	}
	if e.Types == nil {
		e.Types = NewCategoryCodec()
	}
	e.Cities.Reset()
	e.Types.Reset()
	for _, l := range listings {
		if l == nil {
			continue
		}
		e.Cities.Fit(l.City)
		e.Types.Fit(l.Type)
	}
}

// Vector 抽取定长特征向量，顺序与 FeatureNames 一致。
func (e *Extractor) Vector(l *core.Listing) []float64 {
	v := make([]float64, NumFeatures)
	if l == nil {
		return v
	}
	v[0] = float64(e.Cities.Encode(l.City))
	v[1] = float64(e.Types.Encode(l.Type))
	v[2] = float64(l.Bedrooms)
	v[3] = float64(l.Bathrooms)
	v[4] = l.Size
	v[5] = l.Latitude
	v[6] = l.Longitude
	v[7] = l.Size / float64(l.Bedrooms)
	v[8] = float64(len(l.Amenities))
	return v
}

// Map 抽取特征字典（特征名 -> 特征值），用于字典型模型（如 RPC 排序模型）。
func (e *Extractor) Map(l *core.Listing) map[string]float64 {
	names := FeatureNames()
	vec := e.Vector(l)
	features := make(map[string]float64, len(names))
	for i, name := range names {
		features[name] = vec[i]
	}
	return features
}

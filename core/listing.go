package core

// Listing 是房源的领域实体：位置、价格、户型、配套设施。
// 它是纯数据实体，除字段访问与条件匹配外不承载业务逻辑。
//
// PredictedPrice 使用指针表达“未预估”，而不是用 0 作为哨兵值：
// nil 表示模型尚未给出估价，序列化时该字段被省略。
type Listing struct {
	ID             int64    `json:"id"`
	City           string   `json:"city"`
	Price          float64  `json:"price"`
	Bedrooms       int      `json:"bedrooms"`
	Bathrooms      int      `json:"bathrooms"`
	Size           float64  `json:"size"`
	Type           string   `json:"type"` // apartment / house / condo / studio ...
	Latitude       float64  `json:"latitude"`
	Longitude      float64  `json:"longitude"`
	Amenities      []string `json:"amenities"`
	PredictedPrice *float64 `json:"predicted_price,omitempty"`
}

// Clone 返回 Listing 的深拷贝。
// Store 实现用它保证对外返回的是独立副本，调用方修改副本不会影响存储内的数据。
func (l *Listing) Clone() *Listing {
	if l == nil {
		return nil
	}
	out := *l
	if l.Amenities != nil {
		out.Amenities = make([]string, len(l.Amenities))
		copy(out.Amenities, l.Amenities)
	}
	if l.PredictedPrice != nil {
		p := *l.PredictedPrice
		out.PredictedPrice = &p
	}
	return &out
}

// SetPredictedPrice 写入模型估价。
func (l *Listing) SetPredictedPrice(price float64) {
	l.PredictedPrice = &price
}

// HasPredictedPrice 返回是否已有模型估价。
func (l *Listing) HasPredictedPrice() bool {
	return l.PredictedPrice != nil
}

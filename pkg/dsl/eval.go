package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/estatekit/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
)

// initCELEnv 初始化 CEL 环境，定义变量和函数
func initCELEnv() (*cel.Env, error) {
	env, err := cel.NewEnv(
		// 定义变量类型
		cel.Variable("listing", cel.DynType),
		cel.Variable("item", cel.DynType),
		cel.Variable("label", cel.DynType),
		cel.Variable("params", cel.DynType),
	)
	return env, err
}

// getCELEnv 获取或创建 CEL 环境
func getCELEnv() (*cel.Env, error) {
	var err error
	celEnvOnce.Do(func() {
		celEnv, err = initCELEnv()
	})
	return celEnv, err
}

// Eval 是规则表达式解释器，使用 CEL (Common Expression Language) 实现。
// CEL 是 Google 开发的表达式语言，具有类型安全、高性能、线程安全等特性。
//
// 表达式语法（CEL 标准语法）：
//   - 房源属性：listing.price < 500000 / listing.city == "Boston"
//   - 数值：item.score > 0.7 / item.score >= 0.5
//   - 逻辑：listing.type == "condo" && listing.bedrooms >= 2
//   - 存在性：label.recall_source != null
//   - 包含："pool" in listing.amenities / label.recall_source.contains("store")
//
// 示例：
//   - `listing.price >= 100000.0 && listing.price <= 300000.0` → 价格区间
//   - `label.filtered == null` → 未被任何过滤器打标
//   - `params.budget != null && listing.price <= params.budget` → 不超预算
type Eval struct {
	item *core.Item
	qctx *core.QueryContext
	env  *cel.Env
}

// NewEval 创建一个新的表达式解释器，可以多次调用 Evaluate 方法。
func NewEval(item *core.Item, qctx *core.QueryContext) *Eval {
	env, _ := getCELEnv()
	return &Eval{
		item: item,
		qctx: qctx,
		env:  env,
	}
}

// Evaluate 解析并执行表达式，返回布尔结果。
// 空表达式视为恒真。
//
// 注意：CEL 访问不存在的 key 会报错，存在性检查应写 label.key != null
func (e *Eval) Evaluate(expr string) (bool, error) {
	if expr == "" {
		return true, nil
	}

	// 编译表达式
	ast, issues := e.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return false, fmt.Errorf("compile error: %v", issues.Err())
	}

	// 创建程序
	prg, err := e.env.Program(ast)
	if err != nil {
		return false, fmt.Errorf("program error: %v", err)
	}

	// 准备输入数据
	input := e.buildInput()

	// 执行表达式
	out, _, err := prg.Eval(input)
	if err != nil {
		return false, fmt.Errorf("eval error: %v", err)
	}

	// 转换为布尔值
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}

	return result, nil
}

// buildInput 构建 CEL 表达式的输入数据
func (e *Eval) buildInput() map[string]interface{} {
	// 构建 label map
	labels := make(map[string]interface{})
	if e.item != nil {
		for k, v := range e.item.Labels {
			labels[k] = map[string]interface{}{
				"value":  v.Value,
				"source": v.Source,
			}
		}
	}

	// 构建 listing map
	listing := make(map[string]interface{})
	if e.item != nil && e.item.Listing != nil {
		l := e.item.Listing
		listing = map[string]interface{}{
			"id":        l.ID,
			"city":      l.City,
			"price":     l.Price,
			"bedrooms":  l.Bedrooms,
			"bathrooms": l.Bathrooms,
			"size":      l.Size,
			"type":      l.Type,
			"latitude":  l.Latitude,
			"longitude": l.Longitude,
			"amenities": l.Amenities,
		}
		if l.PredictedPrice != nil {
			listing["predicted_price"] = *l.PredictedPrice
		}
	}

	// 构建 item map
	item := make(map[string]interface{})
	if e.item != nil {
		item = map[string]interface{}{
			"id":       e.item.ID(),
			"score":    e.item.Score,
			"features": e.item.Features,
			"labels":   labels,
		}
	}

	// label 作为顶层访问：label.recall_source 直接返回 value
	labelAccessor := make(map[string]interface{})
	for k, v := range labels {
		labelAccessor[k] = v.(map[string]interface{})["value"]
	}

	var params map[string]any
	if e.qctx != nil {
		params = e.qctx.Params
	}
	if params == nil {
		params = make(map[string]any)
	}

	return map[string]interface{}{
		"listing": listing,
		"item":    item,
		"label":   labelAccessor,
		"params":  params,
	}
}

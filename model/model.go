package model

import "github.com/rushteam/estatekit/core"

// PriceModel 是价格预测的最小抽象：输入房源，输出预测价格。
// 具体实现可以是本地模型（线性回归）或远程估价服务（RPC/HTTP）。
type PriceModel interface {
	Name() string
	Predict(l *core.Listing) (float64, error)
}

// ErrNotTrained 表示模型尚未训练，无法预测或持久化。
var ErrNotTrained = core.NewDomainError(core.ModuleModel, core.ErrorCodeNotTrained, "model: not trained")

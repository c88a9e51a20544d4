package recall

import (
	"context"

	"github.com/rushteam/estatekit/core"
)

// Source 表示一个可复用的召回源（存储/静态/远程/...）。
// 你可以把它理解为"可并发 fan-out 的策略单元"。
type Source interface {
	Name() string
	Recall(ctx context.Context, qctx *core.QueryContext) ([]*core.Item, error)
}

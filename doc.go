// Package estatekit 是一个房源检索与估价工具包（Real-Estate Kit）。
//
// 设计要点：
// - Pipeline-first: 检索/推荐逻辑通过 Node 串联（Recall → Filter → Rank → ReRank）
// - Labels-first: labels 全链路透传与标准化 merge，支持 explain / 观测 / 策略驱动
// - Engine 与 Pipeline 共享同一套领域语义：search.Engine 是纯函数引擎，
//   filter/rank/rerank 下的 Node 把同样的语义挂进可编排的链路
// - 价格预测: model.LinearRegression 在房源集上训练线性回归，
//   预测结果写回 Listing.PredictedPrice
package estatekit

import "github.com/rushteam/estatekit/pipeline"

// 轻量 facade：便于用户直接 import "estatekit" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindRecall      = pipeline.KindRecall
	KindFilter      = pipeline.KindFilter
	KindRank        = pipeline.KindRank
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)

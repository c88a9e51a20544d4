package model

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/rushteam/estatekit/core"
	"github.com/rushteam/estatekit/feature"
)

// LinearRegression 实现了批量梯度下降训练的线性回归价格模型。
//
// 预测原理：
//  1. 特征抽取：Listing -> 定长向量（见 feature.Extractor）
//  2. Z-score 标准化：训练集上拟合的均值/标准差
//  3. 线性加权求和：price = Bias + sum(Weight_i * Feature_i)
//  4. 下限截断：价格不为负，max(0, price)
//
// 截断同样作用于训练时的梯度计算，训练与预测前向一致。
//
// 持久化说明：Save/Load 只读写偏置与权重；编码表和标准化参数
// 不落盘，Load 后直接预测使用的是空编码表（未知类别）与恒等标准化。
type LinearRegression struct {
	Bias    float64
	Weights []float64

	extractor *feature.Extractor
	scaler    *feature.ZScore
	trained   bool

	learningRate float64
	iterations   int
	progress     func(iteration int, mse float64)
}

// Option 是 LinearRegression 的配置选项，采用函数式选项模式。
type Option func(*LinearRegression)

// WithLearningRate 设置学习率（默认 0.01）
func WithLearningRate(lr float64) Option {
	return func(m *LinearRegression) {
		if lr > 0 {
			m.learningRate = lr
		}
	}
}

// WithIterations 设置迭代次数（默认 1000）
func WithIterations(n int) Option {
	return func(m *LinearRegression) {
		if n > 0 {
			m.iterations = n
		}
	}
}

// WithProgress 设置训练进度回调，每 100 轮迭代调用一次，
// 携带当前迭代序号与更新后的训练集 MSE。
func WithProgress(fn func(iteration int, mse float64)) Option {
	return func(m *LinearRegression) {
		m.progress = fn
	}
}

// NewLinearRegression 创建线性回归模型
func NewLinearRegression(opts ...Option) *LinearRegression {
	m := &LinearRegression{
		extractor:    feature.NewExtractor(),
		scaler:       &feature.ZScore{},
		learningRate: 0.01,
		iterations:   1000,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *LinearRegression) Name() string {
	return "linear_regression"
}

// Trained 返回模型是否已训练
func (m *LinearRegression) Trained() bool {
	return m.trained
}

// Extractor 返回模型当前使用的特征抽取器
func (m *LinearRegression) Extractor() *feature.Extractor {
	return m.extractor
}

// Train 在给定房源集上训练模型：重建编码表、拟合标准化参数、梯度下降。
// 失败时模型状态保持不变。
func (m *LinearRegression) Train(listings []*core.Listing) error {
	if len(listings) == 0 {
		return core.NewDomainError(core.ModuleModel, core.ErrorCodeInvalidInput, "model: no training data")
	}

	extractor := feature.NewExtractor()
	extractor.Fit(listings)

	X := make([][]float64, 0, len(listings))
	y := make([]float64, 0, len(listings))
	for _, l := range listings {
		if l == nil {
			continue
		}
		X = append(X, extractor.Vector(l))
		y = append(y, l.Price)
	}
	if len(X) == 0 {
		return core.NewDomainError(core.ModuleModel, core.ErrorCodeInvalidInput, "model: no training data")
	}

	scaler := feature.FitZScore(X)
	for i := range X {
		X[i] = scaler.Apply(X[i])
	}

	weights, bias := m.gradientDescent(X, y)

	m.extractor = extractor
	m.scaler = scaler
	m.Weights = weights
	m.Bias = bias
	m.trained = true
	return nil
}

// gradientDescent 全量批梯度下降。
// 每轮先用更新前的参数累积全部样本梯度，再统一更新；
// 进度回调读取的是更新后的 MSE。
func (m *LinearRegression) gradientDescent(X [][]float64, y []float64) ([]float64, float64) {
	numFeatures := len(X[0])
	numSamples := len(X)

	weights := make([]float64, numFeatures)
	bias := 0.0

	for iter := 0; iter < m.iterations; iter++ {
		weightGradients := make([]float64, numFeatures)
		biasGradient := 0.0

		for i := 0; i < numSamples; i++ {
			predicted := clampedScore(weights, bias, X[i])
			err := predicted - y[i]

			for j := 0; j < numFeatures; j++ {
				weightGradients[j] += err * X[i][j]
			}
			biasGradient += err
		}

		for j := 0; j < numFeatures; j++ {
			weights[j] -= m.learningRate * weightGradients[j] / float64(numSamples)
		}
		bias -= m.learningRate * biasGradient / float64(numSamples)

		if m.progress != nil && iter%100 == 0 {
			mse := 0.0
			for i := 0; i < numSamples; i++ {
				err := clampedScore(weights, bias, X[i]) - y[i]
				mse += err * err
			}
			mse /= float64(numSamples)
			m.progress(iter, mse)
		}
	}

	return weights, bias
}

// clampedScore 计算线性得分并截断到非负；维度不匹配时返回 0。
func clampedScore(weights []float64, bias float64, features []float64) float64 {
	if len(features) != len(weights) {
		return 0
	}
	result := bias
	for i := range weights {
		result += weights[i] * features[i]
	}
	return math.Max(0, result)
}

// Predict 预测单个房源的价格；未训练时返回 ErrNotTrained。
func (m *LinearRegression) Predict(l *core.Listing) (float64, error) {
	if !m.trained {
		return 0, ErrNotTrained
	}
	vec := m.extractor.Vector(l)
	normalized := m.scaler.Apply(vec)
	return clampedScore(m.Weights, m.Bias, normalized), nil
}

// PredictAll 批量预测，结果与输入一一对应；未训练时返回 ErrNotTrained。
func (m *LinearRegression) PredictAll(listings []*core.Listing) ([]float64, error) {
	if !m.trained {
		return nil, ErrNotTrained
	}
	predictions := make([]float64, 0, len(listings))
	for _, l := range listings {
		p, err := m.Predict(l)
		if err != nil {
			return nil, err
		}
		predictions = append(predictions, p)
	}
	return predictions, nil
}

// Accuracy 在测试集上计算准确率：100 - MAPE（平均绝对百分比误差）。
// 未训练或测试集为空时返回 0。
func (m *LinearRegression) Accuracy(testData []*core.Listing) float64 {
	if !m.trained || len(testData) == 0 {
		return 0
	}

	totalError := 0.0
	totalActual := 0.0
	for _, l := range testData {
		if l == nil {
			continue
		}
		predicted, err := m.Predict(l)
		if err != nil {
			continue
		}
		totalError += math.Abs(predicted - l.Price)
		totalActual += l.Price
	}

	mape := (totalError / totalActual) * 100.0
	return 100.0 - mape
}

// Metrics 返回模型指标：is_trained / num_features / bias，
// 有权重时附带 avg_weight。
func (m *LinearRegression) Metrics() map[string]float64 {
	metrics := make(map[string]float64)

	if m.trained {
		metrics["is_trained"] = 1.0
	} else {
		metrics["is_trained"] = 0.0
	}
	metrics["num_features"] = float64(len(m.Weights))
	metrics["bias"] = m.Bias

	if len(m.Weights) > 0 {
		sum := 0.0
		for _, w := range m.Weights {
			sum += w
		}
		metrics["avg_weight"] = sum / float64(len(m.Weights))
	}

	return metrics
}

// Save 将模型写入文本文件：首行模型名，次行偏置，之后每行一个权重。
// 未训练时拒绝保存。
func (m *LinearRegression) Save(path string) error {
	if !m.trained {
		return ErrNotTrained
	}

	var b strings.Builder
	b.WriteString(m.Name())
	b.WriteByte('\n')
	b.WriteString(strconv.FormatFloat(m.Bias, 'g', -1, 64))
	b.WriteByte('\n')
	for _, w := range m.Weights {
		b.WriteString(strconv.FormatFloat(w, 'g', -1, 64))
		b.WriteByte('\n')
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write model file: %w", err)
	}
	return nil
}

// Load 从文本文件读入偏置与权重，读到空行或文件末尾为止。
// 有权重即视为已训练；编码表与标准化参数不在文件中，恢复为空。
func (m *LinearRegression) Load(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open model file: %w", err)
	}
	defer file.Close()

	bias := 0.0
	var weights []float64

	scanner := bufio.NewScanner(file)
	if scanner.Scan() {
		// 首行是模型名，兼容旧文件，不校验
		if scanner.Scan() {
			bias, err = strconv.ParseFloat(strings.TrimSpace(scanner.Text()), 64)
			if err != nil {
				return fmt.Errorf("parse bias: %w", err)
			}
			for scanner.Scan() {
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					break
				}
				w, err := strconv.ParseFloat(line, 64)
				if err != nil {
					return fmt.Errorf("parse weight: %w", err)
				}
				weights = append(weights, w)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read model file: %w", err)
	}

	m.Bias = bias
	m.Weights = weights
	m.trained = len(weights) > 0
	m.extractor = feature.NewExtractor()
	m.scaler = &feature.ZScore{}
	return nil
}

// 确保 LinearRegression 实现了 PriceModel 接口
var _ PriceModel = (*LinearRegression)(nil)

package feature

import "math"

// ZScore 是定长特征向量的 Z-score 标准化参数。
// 公式: z = (x - μ) / σ
//
// 设计原则：
//   - 参数在训练集上拟合（FitZScore），预测时复用，保证训练/预测一致
//   - 标准差使用总体标准差（除以 N）
//   - 标准差为 0 的维度记为 1，避免除零
type ZScore struct {
	Means []float64
	Stds  []float64
}

// FitZScore 在样本集上拟合每一维的均值与总体标准差。
// 空样本集返回空参数（Apply 退化为拷贝）。
func FitZScore(samples [][]float64) *ZScore {
	z := &ZScore{}
	if len(samples) == 0 {
		return z
	}
	dims := len(samples[0])
	z.Means = make([]float64, dims)
	z.Stds = make([]float64, dims)

	for j := 0; j < dims; j++ {
		sum := 0.0
		n := 0
		for _, s := range samples {
			if j >= len(s) {
				continue
			}
			sum += s[j]
			n++
		}
		if n == 0 {
			z.Stds[j] = 1
			continue
		}
		mean := sum / float64(n)

		variance := 0.0
		for _, s := range samples {
			if j >= len(s) {
				continue
			}
			d := s[j] - mean
			variance += d * d
		}
		std := math.Sqrt(variance / float64(n))
		if std == 0 {
			std = 1
		}
		z.Means[j] = mean
		z.Stds[j] = std
	}
	return z
}

// Apply 返回标准化后的新向量，不修改输入。
// 只标准化前 len(Means) 维；超出部分原样保留。
func (z *ZScore) Apply(vec []float64) []float64 {
	out := make([]float64, len(vec))
	copy(out, vec)
	for i := range out {
		if i >= len(z.Means) || i >= len(z.Stds) {
			break
		}
		out[i] = (out[i] - z.Means[i]) / z.Stds[i]
	}
	return out
}

// Len 返回已拟合的维度数
func (z *ZScore) Len() int {
	return len(z.Means)
}

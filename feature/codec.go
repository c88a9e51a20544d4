package feature

// UnknownCode 是冻结编码表遇到未知类别时返回的编码。
// 取 -1 而不是 0，避免与第一个已知类别的编码冲突。
const UnknownCode = -1

// CategoryCodec 是类别编码器（冻结编码表）。
// 将类别映射为整数（0, 1, 2, ...），编码表只在 Fit 阶段生长；
// Encode 阶段遇到未知类别统一返回 UnknownCode，不会扩表。
//
// 设计原则：
//   - 训练与预测共用同一张编码表，保证特征含义稳定
//   - 编码顺序由 Fit 的输入顺序决定（首次出现即分配编码）
//   - 零值即可用：未 Fit 时所有类别都是未知类别
type CategoryCodec struct {
	codes  map[string]int
	values []string
}

// NewCategoryCodec 创建空的类别编码器
func NewCategoryCodec() *CategoryCodec {
	return &CategoryCodec{
		codes: make(map[string]int),
	}
}

// Fit 登记一个类别；已存在时不变。返回该类别的编码。
func (c *CategoryCodec) Fit(value string) int {
	if c.codes == nil {
		c.codes = make(map[string]int)
	}
	if code, ok := c.codes[value]; ok {
		return code
	}
	code := len(c.values)
	c.codes[value] = code
	c.values = append(c.values, value)
	return code
}

// Encode 返回类别的编码；未知类别返回 UnknownCode。
func (c *CategoryCodec) Encode(value string) int {
	if code, ok := c.codes[value]; ok {
		return code
	}
	return UnknownCode
}

// Decode 返回编码对应的类别；编码越界时返回 ("", false)。
func (c *CategoryCodec) Decode(code int) (string, bool) {
	if code < 0 || code >= len(c.values) {
		return "", false
	}
	return c.values[code], true
}

// Len 返回已登记的类别数量
func (c *CategoryCodec) Len() int {
	return len(c.values)
}

// Values 返回已登记的类别列表（按编码顺序）
func (c *CategoryCodec) Values() []string {
	out := make([]string, len(c.values))
	copy(out, c.values)
	return out
}

// Reset 清空编码表
func (c *CategoryCodec) Reset() {
	c.codes = make(map[string]int)
	c.values = nil
}

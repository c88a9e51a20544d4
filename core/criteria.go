package core

import (
	"fmt"
	"strconv"
)

// Criteria 是筛选条件：识别的 key 到字符串值的映射。
// 这是系统的全部“查询语言”：未识别的 key 被静默忽略，
// 匹配为所有已给条件的逻辑与（AND）。
type Criteria map[string]string

// Criteria 识别的 key 常量。
const (
	CriteriaCity      = "city"      // 城市，精确匹配
	CriteriaMinPrice  = "min_price" // 价格下界（含）
	CriteriaMaxPrice  = "max_price" // 价格上界（含）
	CriteriaBedrooms  = "bedrooms"  // 卧室数，精确匹配
	CriteriaBathrooms = "bathrooms" // 卫生间数，精确匹配
	CriteriaType      = "type"      // 房源类型，精确匹配
	CriteriaMinSize   = "min_size"  // 面积下界（含）
	CriteriaMaxSize   = "max_size"  // 面积上界（含）
)

// Matches 判断 listing 是否满足全部条件。
// 数值条件的值解析失败时立即返回错误，不做部分匹配。
func (c Criteria) Matches(l *Listing) (bool, error) {
	for key, value := range c {
		switch key {
		case CriteriaCity:
			if l.City != value {
				return false, nil
			}
		case CriteriaMinPrice:
			min, err := parseCriteriaFloat(key, value)
			if err != nil {
				return false, err
			}
			if l.Price < min {
				return false, nil
			}
		case CriteriaMaxPrice:
			max, err := parseCriteriaFloat(key, value)
			if err != nil {
				return false, err
			}
			if l.Price > max {
				return false, nil
			}
		case CriteriaBedrooms:
			n, err := parseCriteriaInt(key, value)
			if err != nil {
				return false, err
			}
			if l.Bedrooms != n {
				return false, nil
			}
		case CriteriaBathrooms:
			n, err := parseCriteriaInt(key, value)
			if err != nil {
				return false, err
			}
			if l.Bathrooms != n {
				return false, nil
			}
		case CriteriaType:
			if l.Type != value {
				return false, nil
			}
		case CriteriaMinSize:
			min, err := parseCriteriaFloat(key, value)
			if err != nil {
				return false, err
			}
			if l.Size < min {
				return false, nil
			}
		case CriteriaMaxSize:
			max, err := parseCriteriaFloat(key, value)
			if err != nil {
				return false, err
			}
			if l.Size > max {
				return false, nil
			}
		}
	}
	return true, nil
}

func parseCriteriaFloat(key, value string) (float64, error) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("criteria %s=%q: %w", key, value, err)
	}
	return f, nil
}

func parseCriteriaInt(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("criteria %s=%q: %w", key, value, err)
	}
	return n, nil
}

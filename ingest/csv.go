// Package ingest 负责房源数据的导入导出（CSV）。
// 脏数据不会中断导入：解析失败的行被跳过，可疑但可用的行被保留，
// 两类都以 Issue 形式返回给调用方，便于日志与数据治理。
package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rushteam/estatekit/core"
)

// CSV 列顺序，前 9 列必填，Amenities 与 PredictedPrice 可选。
var csvHeader = []string{
	"ID", "City", "Price", "Bedrooms", "Bathrooms",
	"Size", "Type", "Latitude", "Longitude", "Amenities", "PredictedPrice",
}

// Issue 记录导入时发现的数据问题。
type Issue struct {
	// Line 记录序号（含表头，从 1 开始）
	Line int
	// Reason 问题描述
	Reason string
}

func (i Issue) String() string {
	return fmt.Sprintf("line %d: %s", i.Line, i.Reason)
}

// LoadCSV 从 CSV 文件加载房源。
//
// 规则：
//   - 首行视为表头，跳过
//   - 列数不足 9 或数值解析失败的行：跳过并记录 Issue
//   - 卧室数为 0 或面积 <=0 的房源：保留并记录 Issue（影响派生特征）
//   - Amenities 列为逗号分隔（整列按 CSV 规则引用），空段被过滤
//   - PredictedPrice 列忽略，估价由模型在运行时生成
func LoadCSV(path string) ([]*core.Listing, []Issue, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	return loadCSV(f)
}

func loadCSV(r io.Reader) ([]*core.Listing, []Issue, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // 列数逐行校验

	var (
		listings []*core.Listing
		issues   []Issue
		line     int
	)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			issues = append(issues, Issue{Line: line, Reason: fmt.Sprintf("csv: %v", err)})
			continue
		}
		if line == 1 {
			continue // 表头
		}
		l, issue := parseRecord(record)
		if issue != "" {
			issues = append(issues, Issue{Line: line, Reason: issue})
		}
		if l == nil {
			continue
		}
		if l.Bedrooms == 0 {
			issues = append(issues, Issue{Line: line, Reason: fmt.Sprintf("listing %d: zero bedrooms", l.ID)})
		}
		if l.Size <= 0 {
			issues = append(issues, Issue{Line: line, Reason: fmt.Sprintf("listing %d: non-positive size", l.ID)})
		}
		listings = append(listings, l)
	}
	return listings, issues, nil
}

// parseRecord 解析一行数据；解析失败时返回 (nil, 原因)。
func parseRecord(record []string) (*core.Listing, string) {
	if len(record) < 9 {
		return nil, fmt.Sprintf("too few columns: %d", len(record))
	}

	id, err := strconv.ParseInt(strings.TrimSpace(record[0]), 10, 64)
	if err != nil {
		return nil, fmt.Sprintf("parse id: %v", err)
	}
	price, err := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
	if err != nil {
		return nil, fmt.Sprintf("parse price: %v", err)
	}
	bedrooms, err := strconv.Atoi(strings.TrimSpace(record[3]))
	if err != nil {
		return nil, fmt.Sprintf("parse bedrooms: %v", err)
	}
	bathrooms, err := strconv.Atoi(strings.TrimSpace(record[4]))
	if err != nil {
		return nil, fmt.Sprintf("parse bathrooms: %v", err)
	}
	size, err := strconv.ParseFloat(strings.TrimSpace(record[5]), 64)
	if err != nil {
		return nil, fmt.Sprintf("parse size: %v", err)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(record[7]), 64)
	if err != nil {
		return nil, fmt.Sprintf("parse latitude: %v", err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(record[8]), 64)
	if err != nil {
		return nil, fmt.Sprintf("parse longitude: %v", err)
	}

	l := &core.Listing{
		ID:        id,
		City:      record[1],
		Price:     price,
		Bedrooms:  bedrooms,
		Bathrooms: bathrooms,
		Size:      size,
		Type:      record[6],
		Latitude:  lat,
		Longitude: lon,
	}
	if len(record) > 9 && record[9] != "" {
		l.Amenities = splitAmenities(record[9])
	}
	return l, ""
}

// splitAmenities 按逗号切分配套设施，过滤空段。
func splitAmenities(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// LoadIntoStore 从 CSV 加载房源并写入 store，返回成功写入的条数。
func LoadIntoStore(ctx context.Context, s core.ListingStore, path string) (int, []Issue, error) {
	listings, issues, err := LoadCSV(path)
	if err != nil {
		return 0, issues, err
	}
	count := 0
	for _, l := range listings {
		if err := s.Add(ctx, l); err != nil {
			return count, issues, fmt.Errorf("add listing %d: %w", l.ID, err)
		}
		count++
	}
	return count, issues, nil
}

// SaveCSV 将房源写为 CSV 文件，列顺序与 LoadCSV 一致。
// PredictedPrice 为 nil 时写空串，区别于估价恰好为 0 的情况。
func SaveCSV(path string, listings []*core.Listing) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	defer f.Close()
	return saveCSV(f, listings)
}

func saveCSV(w io.Writer, listings []*core.Listing) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, l := range listings {
		if l == nil {
			continue
		}
		predicted := ""
		if l.PredictedPrice != nil {
			predicted = strconv.FormatFloat(*l.PredictedPrice, 'f', 2, 64)
		}
		record := []string{
			strconv.FormatInt(l.ID, 10),
			l.City,
			strconv.FormatFloat(l.Price, 'f', -1, 64),
			strconv.Itoa(l.Bedrooms),
			strconv.Itoa(l.Bathrooms),
			strconv.FormatFloat(l.Size, 'f', -1, 64),
			l.Type,
			strconv.FormatFloat(l.Latitude, 'f', -1, 64),
			strconv.FormatFloat(l.Longitude, 'f', -1, 64),
			strings.Join(l.Amenities, ","),
			predicted,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write listing %d: %w", l.ID, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

package sheet

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ToRows 记录 -> 以 JSON 字段名为 key 的行
func ToRows[T any](records []T) ([]map[string]any, error) {
	b, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("failed to encode records: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var rows []map[string]any
	if err := dec.Decode(&rows); err != nil {
		return nil, fmt.Errorf("failed to decode rows: %w", err)
	}
	return rows, nil
}

// FromRows 行 -> 记录
func FromRows[T any](rows []map[string]any) ([]T, error) {
	b, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to encode rows: %w", err)
	}
	var out []T
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("failed to decode records: %w", err)
	}
	return out, nil
}

// cellText 导出时的单元格文本
func cellText(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}

// cellValue 数字列写入数字，其余写入文本
func cellValue(col Column, v any) any {
	if !col.Numeric {
		return cellText(v)
	}
	return coerceInt(cellText(v))
}

// coerceInt 数字列的类型转换，无法解析、非有限值或超出 int 范围时为 0
func coerceInt(s string) int {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0
	}
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	f = math.Trunc(f)
	if f >= math.MaxInt || f < math.MinInt {
		return 0
	}
	return int(f)
}

// mapRow 按表头把一行原始单元格映射为记录字段；缺失的列取空串或 0
func mapRow(cols []Column, headerIdx map[string]int, cells []string) (map[string]any, bool) {
	row := make(map[string]any, len(cols))
	blank := true
	for _, col := range cols {
		raw := ""
		if idx, ok := headerIdx[col.Header]; ok && idx < len(cells) {
			raw = strings.TrimSpace(cells[idx])
		}
		if raw != "" {
			blank = false
		}
		if col.Numeric {
			row[col.Field] = coerceInt(raw)
		} else {
			row[col.Field] = raw
		}
	}
	return row, !blank
}

func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := idx[h]; !dup {
			idx[h] = i
		}
	}
	return idx
}

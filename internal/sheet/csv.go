package sheet

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

// CSV 编码
const (
	EncodingUTF8 = "utf8"
	EncodingGBK  = "gbk"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// NormalizeEncoding 未知编码按 utf8 处理
func NormalizeEncoding(enc string) string {
	switch strings.ToLower(strings.ReplaceAll(enc, "-", "")) {
	case "gbk", "gb2312", "gb18030":
		return EncodingGBK
	default:
		return EncodingUTF8
	}
}

// ExportCSV utf8 输出带 BOM（Excel 才能识别中文），gbk 供中文 Windows 直接打开
func ExportCSV(layout Layout, rows []map[string]any, encoding string) ([]byte, error) {
	var buf bytes.Buffer
	var sink io.Writer = &buf
	var gbk *transform.Writer

	if NormalizeEncoding(encoding) == EncodingGBK {
		gbk = transform.NewWriter(&buf, simplifiedchinese.GBK.NewEncoder())
		sink = gbk
	} else {
		buf.Write(utf8BOM)
	}

	w := csv.NewWriter(sink)
	header := make([]string, 0, len(layout.Columns))
	for _, col := range layout.Columns {
		header = append(header, col.Header)
	}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, item := range rows {
		line := make([]string, 0, len(layout.Columns))
		for _, col := range layout.Columns {
			line = append(line, cellText(cellValue(col, item[col.Field])))
		}
		if err := w.Write(line); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	if gbk != nil {
		if err := gbk.Close(); err != nil {
			return nil, fmt.Errorf("failed to encode csv as gbk: %w", err)
		}
	}
	return buf.Bytes(), nil
}

// ParseCSV 读取 CSV（utf8 可带 BOM，或 gbk）
func ParseCSV(r io.Reader, layout Layout, encoding string) ([]map[string]any, error) {
	if NormalizeEncoding(encoding) == EncodingGBK {
		r = transform.NewReader(r, simplifiedchinese.GBK.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cells, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	return mapTable(layout, cells), nil
}

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"seedbreed/internal/domain"
	"seedbreed/internal/repository"
	"seedbreed/internal/sheet"

	"go.uber.org/zap"
)

// 导出文件格式
const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeCSV  = "text/csv"
)

// keyed 可以被重新分配 key 的记录
type keyed[T any] interface {
	domain.Record
	WithKey(key int64) T
}

// ExportFile 导出结果（文件名固定）
type ExportFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// recordList 单个集合的列表操作：每次修改都整体写回集合
type recordList[T keyed[T]] struct {
	repo     repository.Collection[T]
	layout   sheet.Layout
	validate func(T) error
	// keep 把服务端维护的字段从已存记录带回编辑结果
	keep     func(stored, edited T) T
	logger   *zap.Logger
	now      func() time.Time
}

func newRecordList[T keyed[T]](repo repository.Collection[T], layout sheet.Layout, validate func(T) error, logger *zap.Logger) *recordList[T] {
	return &recordList[T]{
		repo:     repo,
		layout:   layout,
		validate: validate,
		logger:   logger,
		now:      time.Now,
	}
}

// List 读取整个集合
func (l *recordList[T]) List(ctx context.Context) ([]T, error) {
	return l.repo.ReadAll(ctx)
}

// Create 分配新 key 后追加
func (l *recordList[T]) Create(ctx context.Context, rec T) (T, error) {
	var zero T
	if err := l.check(rec); err != nil {
		return zero, err
	}
	list, err := l.repo.ReadAll(ctx)
	if err != nil {
		return zero, err
	}
	rec = rec.WithKey(repository.NewKeySeq(l.now(), list).Next())
	list = append(list, rec)
	if err := l.repo.ReplaceAll(ctx, list); err != nil {
		return zero, err
	}
	return rec, nil
}

// Update 把请求体中出现的字段覆盖到已存记录上，未出现的字段保持不变；以路径中的 key 为准
func (l *recordList[T]) Update(ctx context.Context, key int64, patch []byte) (T, error) {
	var zero T
	list, err := l.repo.ReadAll(ctx)
	if err != nil {
		return zero, err
	}
	idx := repository.IndexOfKey(list, key)
	if idx < 0 {
		return zero, warn(MsgRecordNotFound)
	}
	rec := list[idx]
	if len(patch) > 0 {
		if err := json.Unmarshal(patch, &rec); err != nil {
			return zero, fmt.Errorf("invalid record body: %w", err)
		}
	}
	rec = rec.WithKey(key)
	if l.keep != nil {
		rec = l.keep(list[idx], rec)
	}
	if err := l.check(rec); err != nil {
		return zero, err
	}
	list[idx] = rec
	if err := l.repo.ReplaceAll(ctx, list); err != nil {
		return zero, err
	}
	return rec, nil
}

func (l *recordList[T]) Delete(ctx context.Context, key int64) error {
	list, err := l.repo.ReadAll(ctx)
	if err != nil {
		return err
	}
	out, n := repository.RemoveKeys(list, []int64{key})
	if n == 0 {
		return warn(MsgRecordNotFound)
	}
	return l.repo.ReplaceAll(ctx, out)
}

// BatchDelete 批量删除，返回实际删除条数；不存在的 key 忽略
func (l *recordList[T]) BatchDelete(ctx context.Context, keys []int64) (int, error) {
	if len(keys) == 0 {
		return 0, warn(MsgSelectRecords)
	}
	list, err := l.repo.ReadAll(ctx)
	if err != nil {
		return 0, err
	}
	out, n := repository.RemoveKeys(list, keys)
	if n == 0 {
		return 0, nil
	}
	if err := l.repo.ReplaceAll(ctx, out); err != nil {
		return 0, err
	}
	return n, nil
}

// Import 按扩展名解析上传文件（.xlsx / .csv），为每行分配新 key 后追加到集合
func (l *recordList[T]) Import(ctx context.Context, filename string, r io.Reader, encoding string) (int, error) {
	var (
		rows []map[string]any
		err  error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		rows, err = sheet.ParseXLSX(r, l.layout)
	case ".csv":
		rows, err = sheet.ParseCSV(r, l.layout, encoding)
	case ".xls":
		return 0, warn(MsgXLSNotSupported)
	default:
		return 0, warn(MsgUnsupportedFileFormat)
	}
	if err != nil {
		return 0, err
	}

	imported, err := sheet.FromRows[T](rows)
	if err != nil {
		return 0, fmt.Errorf("failed to map rows of %s: %w", l.layout.SheetName, err)
	}
	if len(imported) == 0 {
		return 0, nil
	}

	list, err := l.repo.ReadAll(ctx)
	if err != nil {
		return 0, err
	}
	seq := repository.NewKeySeq(l.now(), list)
	for _, rec := range imported {
		list = append(list, rec.WithKey(seq.Next()))
	}
	if err := l.repo.ReplaceAll(ctx, list); err != nil {
		return 0, err
	}

	l.logger.Info("Imported records",
		zap.String("collection", l.repo.Name()),
		zap.String("file", filename),
		zap.Int("count", len(imported)),
	)
	return len(imported), nil
}

// Export 导出整个集合，format 为 xlsx（默认）或 csv
func (l *recordList[T]) Export(ctx context.Context, format, encoding string) (*ExportFile, error) {
	list, err := l.repo.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := sheet.ToRows(list)
	if err != nil {
		return nil, err
	}

	if strings.EqualFold(format, FormatCSV) {
		data, err := sheet.ExportCSV(l.layout, rows, encoding)
		if err != nil {
			return nil, err
		}
		ct := contentTypeCSV + "; charset=utf-8"
		if sheet.NormalizeEncoding(encoding) == sheet.EncodingGBK {
			ct = contentTypeCSV + "; charset=gbk"
		}
		return &ExportFile{Name: l.layout.FileName(FormatCSV), ContentType: ct, Data: data}, nil
	}

	data, err := sheet.ExportXLSX(l.layout, rows)
	if err != nil {
		return nil, err
	}
	return &ExportFile{Name: l.layout.FileName(FormatXLSX), ContentType: contentTypeXLSX, Data: data}, nil
}

func (l *recordList[T]) check(rec T) error {
	if l.validate == nil {
		return nil
	}
	return l.validate(rec)
}

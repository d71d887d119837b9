package commands

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"seedbreed/internal/service"
)

// porter 支持导入导出的集合
type porter interface {
	Import(ctx context.Context, filename string, r io.Reader, encoding string) (int, error)
	Export(ctx context.Context, format, encoding string) (*service.ExportFile, error)
}

// 与 HTTP 路径保持一致的集合名
func porters() map[string]porter {
	return map[string]porter{
		"introductions":  seed.Introductions,
		"purifications":  seed.Purifications,
		"sowings":        seed.Sowings,
		"test-records":   seed.TestRecords,
		"seed-inventory": seed.SavedSeeds,
	}
}

func collectionNames() string {
	names := make([]string, 0, 5)
	for n := range porters() {
		names = append(names, n)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func lookupCollection(name string) (porter, error) {
	p, ok := porters()[name]
	if !ok {
		return nil, fmt.Errorf("unknown collection %q (one of: %s)", name, collectionNames())
	}
	return p, nil
}

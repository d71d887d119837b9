package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"seedbreed/internal/domain"
	"seedbreed/internal/store"

	"go.uber.org/zap"
)

// KeyPrefix 集合在 KV 中的 key 前缀
const KeyPrefix = "seedbreed:collection:"

// 集合名称
const (
	IntroductionCollection = "introductionRecords"
	PurificationCollection = "purificationRecords"
	SowingCollection       = "sowingRecords"
	TestCollection         = "testRecords"
	SavedSeedCollection    = "savedSeedRecords"
)

// Collection 单个记录集合的仓储：整读整写，没有锁也没有版本校验，
// 并发的两次 读-改-写 中后写入者覆盖先写入者。
type Collection[T domain.Record] interface {
	// ReadAll 读取整个集合；key 不存在或内容损坏时返回空列表
	ReadAll(ctx context.Context) ([]T, error)
	// ReplaceAll 一次写入覆盖整个集合
	ReplaceAll(ctx context.Context, records []T) error
	Name() string
}

type (
	IntroductionRepository = Collection[domain.IntroductionRecord]
	PurificationRepository = Collection[domain.PurificationRecord]
	SowingRepository       = Collection[domain.SowingRecord]
	TestRecordRepository   = Collection[domain.TestRecord]
	SavedSeedRepository    = Collection[domain.SavedSeedRecord]
)

// KVCollection 基于 store.KV 的集合实现，值为 JSON 数组
type KVCollection[T domain.Record] struct {
	kv     store.KV
	name   string
	logger *zap.Logger
}

func NewKVCollection[T domain.Record](kv store.KV, name string, logger *zap.Logger) *KVCollection[T] {
	return &KVCollection[T]{kv: kv, name: name, logger: logger}
}

func (c *KVCollection[T]) Name() string { return c.name }

func (c *KVCollection[T]) ReadAll(ctx context.Context) ([]T, error) {
	raw, err := c.kv.Get(ctx, KeyPrefix+c.name)
	if err != nil {
		if errors.Is(err, store.ErrMiss) {
			return []T{}, nil
		}
		return nil, fmt.Errorf("failed to load collection %s: %w", c.name, err)
	}
	if raw == "" {
		return []T{}, nil
	}

	var out []T
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		c.logger.Warn("collection payload is malformed, treating as empty",
			zap.String("collection", c.name),
			zap.Int("payload_len", len(raw)),
			zap.Error(err),
		)
		return []T{}, nil
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func (c *KVCollection[T]) ReplaceAll(ctx context.Context, records []T) error {
	if records == nil {
		records = []T{}
	}
	b, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to encode collection %s: %w", c.name, err)
	}
	if err := c.kv.Set(ctx, KeyPrefix+c.name, string(b)); err != nil {
		return fmt.Errorf("failed to save collection %s: %w", c.name, err)
	}
	return nil
}

// Repositories 五个集合的仓储，共享同一个 KV 后端
type Repositories struct {
	Introductions IntroductionRepository
	Purifications PurificationRepository
	Sowings       SowingRepository
	TestRecords   TestRecordRepository
	SavedSeeds    SavedSeedRepository
}

func NewRepositories(kv store.KV, logger *zap.Logger) *Repositories {
	return &Repositories{
		Introductions: NewKVCollection[domain.IntroductionRecord](kv, IntroductionCollection, logger),
		Purifications: NewKVCollection[domain.PurificationRecord](kv, PurificationCollection, logger),
		Sowings:       NewKVCollection[domain.SowingRecord](kv, SowingCollection, logger),
		TestRecords:   NewKVCollection[domain.TestRecord](kv, TestCollection, logger),
		SavedSeeds:    NewKVCollection[domain.SavedSeedRecord](kv, SavedSeedCollection, logger),
	}
}

package service

import (
	"context"
	"strings"

	"seedbreed/internal/domain"
	"seedbreed/internal/lineage"
	"seedbreed/internal/repository"
	"seedbreed/internal/sheet"

	"go.uber.org/zap"
)

// TestRecordService 考种记载表：测量字段可编辑，可生成留种记录
type TestRecordService struct {
	*recordList[domain.TestRecord]
	seeds repository.SavedSeedRepository
	pub   publisher
}

func NewTestRecordService(repos *repository.Repositories, notifier lineage.Notifier, logger *zap.Logger) *TestRecordService {
	return &TestRecordService{
		recordList: newRecordList[domain.TestRecord](repos.TestRecords, sheet.TestRecords, nil, logger),
		seeds:      repos.SavedSeeds,
		pub:        publisher{notifier: notifier, logger: logger},
	}
}

// Load 同 SowingService.Load：合并交接记录，有变化才写回
func (s *TestRecordService) Load(ctx context.Context, incoming *domain.TestRecord) ([]domain.TestRecord, error) {
	list, err := s.repo.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	if incoming == nil {
		return list, nil
	}
	list, changed := lineage.Merge(list, *incoming)
	if changed {
		if err := s.repo.ReplaceAll(ctx, list); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// SaveSeed 追加一条留种记录（不去重），来源标签沿用考种记录
func (s *TestRecordService) SaveSeed(ctx context.Context, key int64, in SaveSeedInput) (*Handoff[domain.SavedSeedRecord], error) {
	if in.Amount <= 0 {
		return nil, warn(MsgSavedAmountRequired)
	}
	tests, err := s.repo.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	idx := repository.IndexOfKey(tests, key)
	if idx < 0 {
		return nil, warn(MsgRecordNotFound)
	}
	src := tests[idx]

	seeds, err := s.seeds.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	saveTime := strings.TrimSpace(in.SaveTime)
	if saveTime == "" {
		saveTime = domain.FormatDate(now)
	}
	rec := src.ToSavedSeed(repository.NewKeySeq(now, seeds).Next(), in.Amount, saveTime)
	if err := s.seeds.ReplaceAll(ctx, append(seeds, rec)); err != nil {
		return nil, err
	}

	s.pub.publish(ctx, lineage.NewEvent(lineage.EventSeedSaved, src, rec, false))
	s.logger.Info("Seed saved",
		zap.Int64("test_key", key),
		zap.String("planting_code", rec.PlantingCode),
		zap.Int("amount", rec.Amount),
	)
	return &Handoff[domain.SavedSeedRecord]{Record: rec, Redirect: RedirectSeedInventory}, nil
}

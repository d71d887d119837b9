package service

import (
	"context"

	"seedbreed/internal/domain"
	"seedbreed/internal/lineage"
	"seedbreed/internal/repository"
	"seedbreed/internal/sheet"

	"go.uber.org/zap"
)

// SowingService 播种记录：列表维护、合并上游交接的记录、生成考种记录
type SowingService struct {
	*recordList[domain.SowingRecord]
	tests repository.TestRecordRepository
	pub   publisher
}

func NewSowingService(repos *repository.Repositories, notifier lineage.Notifier, logger *zap.Logger) *SowingService {
	list := newRecordList(repos.Sowings, sheet.Sowings, validateSowing, logger)
	// 状态只由生成考种记录改变
	list.keep = func(stored, edited domain.SowingRecord) domain.SowingRecord {
		edited.Status = stored.Status
		return edited
	}
	return &SowingService{
		recordList: list,
		tests:      repos.TestRecords,
		pub:        publisher{notifier: notifier, logger: logger},
	}
}

func validateSowing(r domain.SowingRecord) error {
	if r.SowingAmount <= 0 {
		return warn(MsgSowingAmountRequired)
	}
	return nil
}

// Load 加载播种集合；incoming 为上游页面交接过来的记录。集合中已有同 key 的记录时
// 保持集合不变，只有合并改变了集合时才写回（重复进入页面不会重复插入）。
func (s *SowingService) Load(ctx context.Context, incoming *domain.SowingRecord) ([]domain.SowingRecord, error) {
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

// GenerateTestRecord 由播种记录生成考种记录。
// 已是 Success 的播种记录直接告警，两个集合都不变；否则先写考种集合，再把播种状态置为 Success。
func (s *SowingService) GenerateTestRecord(ctx context.Context, key int64) (*Handoff[domain.TestRecord], error) {
	sowings, err := s.repo.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	idx := repository.IndexOfKey(sowings, key)
	if idx < 0 {
		return nil, warn(MsgRecordNotFound)
	}
	src := sowings[idx]
	if src.TestGenerated() {
		return nil, warn(MsgTestAlreadyGenerated)
	}

	tests, err := s.tests.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	rec := src.ToTestRecord(repository.NewKeySeq(now, tests).Next(), domain.FormatDate(now))
	tests, replaced := lineage.Upsert(tests, rec)
	if err := s.tests.ReplaceAll(ctx, tests); err != nil {
		return nil, err
	}

	src.Status = domain.SowingStatusSuccess
	sowings[idx] = src
	if err := s.repo.ReplaceAll(ctx, sowings); err != nil {
		return nil, err
	}

	s.pub.publish(ctx, lineage.NewEvent(lineage.EventTestGenerated, src, rec, replaced))
	s.logger.Info("Test record generated",
		zap.Int64("sowing_key", key),
		zap.Int64("test_key", rec.Key),
		zap.String("planting_code", rec.PlantingCode),
		zap.Bool("replaced", replaced),
	)
	return &Handoff[domain.TestRecord]{Record: rec, Redirect: RedirectTestRecords, Replaced: replaced}, nil
}

package service

import (
	"context"

	"seedbreed/internal/domain"
	"seedbreed/internal/lineage"
	"seedbreed/internal/repository"
	"seedbreed/internal/sheet"

	"go.uber.org/zap"
)

// PurificationService 自交系纯化记录，与引种共用下游播种流程
type PurificationService struct {
	*recordList[domain.PurificationRecord]
	gen sowingGenerator
}

func NewPurificationService(repos *repository.Repositories, notifier lineage.Notifier, logger *zap.Logger) *PurificationService {
	return &PurificationService{
		recordList: newRecordList(repos.Purifications, sheet.Purifications, func(r domain.PurificationRecord) error {
			return validateDescriptor(r.Descriptor)
		}, logger),
		gen: sowingGenerator{sowings: repos.Sowings, publisher: publisher{notifier: notifier, logger: logger}},
	}
}

// GenerateSowing 生成来源为“自交系纯化”的播种记录
func (s *PurificationService) GenerateSowing(ctx context.Context, key int64, in SowingInput) (*Handoff[domain.SowingRecord], error) {
	if in.SowingAmount <= 0 {
		return nil, warn(MsgSowingAmountRequired)
	}
	list, err := s.repo.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	idx := repository.IndexOfKey(list, key)
	if idx < 0 {
		return nil, warn(MsgRecordNotFound)
	}
	src := list[idx]

	now := s.now()
	detail := in.detail(src.Code, domain.FormatDate(now))
	return s.gen.generate(ctx, now, src, func(k int64) domain.SowingRecord {
		return src.ToSowing(k, detail)
	})
}

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

// IntroductionService 引种记录：列表维护，以及生成播种记录
type IntroductionService struct {
	*recordList[domain.IntroductionRecord]
	gen sowingGenerator
}

func NewIntroductionService(repos *repository.Repositories, notifier lineage.Notifier, logger *zap.Logger) *IntroductionService {
	return &IntroductionService{
		recordList: newRecordList(repos.Introductions, sheet.Introductions, validateIntroduction, logger),
		gen:        sowingGenerator{sowings: repos.Sowings, publisher: publisher{notifier: notifier, logger: logger}},
	}
}

func validateIntroduction(r domain.IntroductionRecord) error {
	return validateDescriptor(r.Descriptor)
}

// validateDescriptor 编号、名称必填
func validateDescriptor(d domain.Descriptor) error {
	if strings.TrimSpace(d.Code) == "" {
		return warn(MsgCodeRequired)
	}
	if strings.TrimSpace(d.Name) == "" {
		return warn(MsgNameRequired)
	}
	return nil
}

// GenerateSowing 由引种记录生成播种记录，按种植编号去重后写入播种集合。
// 引种记录本身没有状态，可以多次生成。
func (s *IntroductionService) GenerateSowing(ctx context.Context, key int64, in SowingInput) (*Handoff[domain.SowingRecord], error) {
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

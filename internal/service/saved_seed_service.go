package service

import (
	"seedbreed/internal/domain"
	"seedbreed/internal/repository"
	"seedbreed/internal/sheet"

	"go.uber.org/zap"
)

// SavedSeedService 种质库（留种记录）：只读列表、删除、导入导出
type SavedSeedService struct {
	*recordList[domain.SavedSeedRecord]
}

func NewSavedSeedService(repos *repository.Repositories, logger *zap.Logger) *SavedSeedService {
	return &SavedSeedService{
		recordList: newRecordList(repos.SavedSeeds, sheet.SavedSeeds, validateSavedSeed, logger),
	}
}

func validateSavedSeed(r domain.SavedSeedRecord) error {
	if r.Amount <= 0 {
		return warn(MsgSavedAmountRequired)
	}
	return nil
}

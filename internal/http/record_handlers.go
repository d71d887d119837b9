package httpapi

import (
	"net/http"

	"seedbreed/internal/domain"
	"seedbreed/internal/service"

	"go.uber.org/zap"
)

// RecordHandlers 记录集合的新增、加载合并与阶段流转
type RecordHandlers struct {
	Introductions *service.IntroductionService
	Purifications *service.PurificationService
	Sowings       *service.SowingService
	TestRecords   *service.TestRecordService
	SavedSeeds    *service.SavedSeedService
	logger        *zap.Logger
}

func NewRecordHandlers(
	introductions *service.IntroductionService,
	purifications *service.PurificationService,
	sowings *service.SowingService,
	testRecords *service.TestRecordService,
	savedSeeds *service.SavedSeedService,
	logger *zap.Logger,
) *RecordHandlers {
	return &RecordHandlers{
		Introductions: introductions,
		Purifications: purifications,
		Sowings:       sowings,
		TestRecords:   testRecords,
		SavedSeeds:    savedSeeds,
		logger:        logger,
	}
}

func (h *RecordHandlers) CreateIntroduction(w http.ResponseWriter, r *http.Request) {
	var rec domain.IntroductionRecord
	if err := readBodyJSON(r, 1<<20, &rec); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid body"))
		return
	}
	out, err := h.Introductions.Create(r.Context(), rec)
	if err != nil {
		writeServiceError(w, h.logger, "CreateIntroduction", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(out))
}

func (h *RecordHandlers) CreatePurification(w http.ResponseWriter, r *http.Request) {
	var rec domain.PurificationRecord
	if err := readBodyJSON(r, 1<<20, &rec); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid body"))
		return
	}
	out, err := h.Purifications.Create(r.Context(), rec)
	if err != nil {
		writeServiceError(w, h.logger, "CreatePurification", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(out))
}

// IntroductionToSowing 引种 -> 播种
func (h *RecordHandlers) IntroductionToSowing(w http.ResponseWriter, r *http.Request) {
	key, err := pathKey(r)
	if err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	var in service.SowingInput
	if err := readBodyJSON(r, 1<<20, &in); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid body"))
		return
	}
	out, err := h.Introductions.GenerateSowing(r.Context(), key, in)
	if err != nil {
		writeServiceError(w, h.logger, "IntroductionToSowing", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(out))
}

// PurificationToSowing 自交系纯化 -> 播种
func (h *RecordHandlers) PurificationToSowing(w http.ResponseWriter, r *http.Request) {
	key, err := pathKey(r)
	if err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	var in service.SowingInput
	if err := readBodyJSON(r, 1<<20, &in); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid body"))
		return
	}
	out, err := h.Purifications.GenerateSowing(r.Context(), key, in)
	if err != nil {
		writeServiceError(w, h.logger, "PurificationToSowing", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(out))
}

// SowingToTestRecord 播种 -> 考种；重复生成返回 warning
func (h *RecordHandlers) SowingToTestRecord(w http.ResponseWriter, r *http.Request) {
	key, err := pathKey(r)
	if err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	out, err := h.Sowings.GenerateTestRecord(r.Context(), key)
	if err != nil {
		writeServiceError(w, h.logger, "SowingToTestRecord", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(out))
}

// TestRecordToSavedSeed 考种 -> 留种
func (h *RecordHandlers) TestRecordToSavedSeed(w http.ResponseWriter, r *http.Request) {
	key, err := pathKey(r)
	if err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	var in service.SaveSeedInput
	if err := readBodyJSON(r, 1<<20, &in); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid body"))
		return
	}
	out, err := h.TestRecords.SaveSeed(r.Context(), key, in)
	if err != nil {
		writeServiceError(w, h.logger, "TestRecordToSavedSeed", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(out))
}

// LoadSowings 播种列表加载，body: {"incoming": 上游交接的记录（可省略）}
func (h *RecordHandlers) LoadSowings(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Incoming *domain.SowingRecord `json:"incoming"`
	}
	if err := readBodyJSON(r, 1<<20, &payload); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid body"))
		return
	}
	items, err := h.Sowings.Load(r.Context(), payload.Incoming)
	if err != nil {
		writeServiceError(w, h.logger, "LoadSowings", err)
		return
	}
	writeList(w, items)
}

func (h *RecordHandlers) LoadTestRecords(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Incoming *domain.TestRecord `json:"incoming"`
	}
	if err := readBodyJSON(r, 1<<20, &payload); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid body"))
		return
	}
	items, err := h.TestRecords.Load(r.Context(), payload.Incoming)
	if err != nil {
		writeServiceError(w, h.logger, "LoadTestRecords", err)
		return
	}
	writeList(w, items)
}

package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"seedbreed/internal/domain"
	"seedbreed/internal/lineage"
	"seedbreed/internal/repository"
	"seedbreed/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2024, 6, 1, 8, 30, 0, 0, time.Local)

// countingKV 统计写入次数
type countingKV struct {
	store.KV
	sets map[string]int
}

func (c *countingKV) Set(ctx context.Context, key, value string) error {
	c.sets[key]++
	return c.KV.Set(ctx, key, value)
}

type failingNotifier struct{}

func (failingNotifier) Notify(context.Context, lineage.Event) error {
	return errors.New("broker unavailable")
}

type fixture struct {
	kv            *countingKV
	repos         *repository.Repositories
	events        *lineage.MemoryLog
	introductions *IntroductionService
	purifications *PurificationService
	sowings       *SowingService
	tests         *TestRecordService
	seeds         *SavedSeedService
	dashboard     *DashboardService
}

func newFixture(t *testing.T, notifier lineage.Notifier) *fixture {
	t.Helper()
	logger := zap.NewNop()
	kv := &countingKV{KV: store.NewMemoryKV(), sets: map[string]int{}}
	repos := repository.NewRepositories(kv, logger)
	events := lineage.NewMemoryLog(50)
	if notifier == nil {
		notifier = events
	}

	f := &fixture{
		kv:            kv,
		repos:         repos,
		events:        events,
		introductions: NewIntroductionService(repos, notifier, logger),
		purifications: NewPurificationService(repos, notifier, logger),
		sowings:       NewSowingService(repos, notifier, logger),
		tests:         NewTestRecordService(repos, notifier, logger),
		seeds:         NewSavedSeedService(repos, logger),
		dashboard:     NewDashboardService(repos, events, logger),
	}
	clock := func() time.Time { return fixedNow }
	f.introductions.now = clock
	f.purifications.now = clock
	f.sowings.now = clock
	f.tests.now = clock
	f.seeds.now = clock
	return f
}

func (f *fixture) raw(t *testing.T, collection string) string {
	t.Helper()
	v, err := f.kv.Get(context.Background(), repository.KeyPrefix+collection)
	if errors.Is(err, store.ErrMiss) {
		return ""
	}
	require.NoError(t, err)
	return v
}

func requireWarning(t *testing.T, err error, msg string) {
	t.Helper()
	w, ok := AsWarning(err)
	require.True(t, ok, "expected warning, got %v", err)
	assert.Equal(t, msg, w.Message)
}

func TestPipeline_YZ001(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	intro, err := f.introductions.Create(ctx, domain.IntroductionRecord{
		Descriptor: domain.Descriptor{Code: "YZ001", Name: "甜瓜", Generation: "F2"},
	})
	require.NoError(t, err)
	assert.NotZero(t, intro.Key)

	// 引种 -> 播种
	sowing, err := f.introductions.GenerateSowing(ctx, intro.Key, SowingInput{SowingAmount: 50})
	require.NoError(t, err)
	assert.Equal(t, RedirectSowings, sowing.Redirect)
	assert.Equal(t, domain.SowingStatusPending, sowing.Record.Status)
	assert.Equal(t, domain.SourceIntroduction, sowing.Record.Source)
	assert.Equal(t, "YZ001", sowing.Record.PlantingCode)
	assert.Equal(t, "2024-06-01", sowing.Record.SowingTime)
	assert.Equal(t, "F2", sowing.Record.Generation)
	assert.Equal(t, 50, sowing.Record.SowingAmount)

	// 播种页面加载时合并交接记录，不会重复插入
	sowingKey := repository.KeyPrefix + repository.SowingCollection
	writes := f.kv.sets[sowingKey]
	list, err := f.sowings.Load(ctx, &sowing.Record)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, writes, f.kv.sets[sowingKey])

	// 播种 -> 考种
	test, err := f.sowings.GenerateTestRecord(ctx, sowing.Record.Key)
	require.NoError(t, err)
	assert.Equal(t, RedirectTestRecords, test.Redirect)
	assert.Equal(t, "YZ001", test.Record.PlantingCode)
	assert.Equal(t, "2024-06-01", test.Record.TestTime)

	list, err = f.sowings.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, domain.SowingStatusSuccess, list[0].Status)

	// 再次生成：告警，两个集合都不变
	beforeSowings := f.raw(t, repository.SowingCollection)
	beforeTests := f.raw(t, repository.TestCollection)
	_, err = f.sowings.GenerateTestRecord(ctx, sowing.Record.Key)
	requireWarning(t, err, MsgTestAlreadyGenerated)
	assert.Equal(t, beforeSowings, f.raw(t, repository.SowingCollection))
	assert.Equal(t, beforeTests, f.raw(t, repository.TestCollection))

	tests, err := f.tests.List(ctx)
	require.NoError(t, err)
	assert.Len(t, tests, 1)

	events, err := f.events.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, lineage.EventTestGenerated, events[0].Type)
	assert.Equal(t, lineage.EventSowingGenerated, events[1].Type)
}

func TestGenerateTestRecord_SamePlantingCodeReplaces(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	require.NoError(t, f.repos.Sowings.ReplaceAll(ctx, []domain.SowingRecord{
		{Key: 1, Descriptor: domain.Descriptor{Code: "A", Name: "第一批"}, SowingDetail: domain.SowingDetail{PlantingCode: "P-1", SowingAmount: 10}, Status: domain.SowingStatusPending},
		{Key: 2, Descriptor: domain.Descriptor{Code: "B", Name: "第二批"}, SowingDetail: domain.SowingDetail{PlantingCode: "P-1", SowingAmount: 20}, Status: domain.SowingStatusPending},
	}))

	first, err := f.sowings.GenerateTestRecord(ctx, 1)
	require.NoError(t, err)
	assert.False(t, first.Replaced)

	second, err := f.sowings.GenerateTestRecord(ctx, 2)
	require.NoError(t, err)
	assert.True(t, second.Replaced)

	tests, err := f.tests.List(ctx)
	require.NoError(t, err)
	require.Len(t, tests, 1)
	assert.Equal(t, "第二批", tests[0].Name)
	assert.Equal(t, 20, tests[0].SowingAmount)
}

func TestGenerateSowing_Validation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	intro, err := f.introductions.Create(ctx, domain.IntroductionRecord{Descriptor: domain.Descriptor{Code: "YZ002", Name: "西瓜"}})
	require.NoError(t, err)

	_, err = f.introductions.GenerateSowing(ctx, intro.Key, SowingInput{})
	requireWarning(t, err, MsgSowingAmountRequired)
	assert.Empty(t, f.raw(t, repository.SowingCollection))

	_, err = f.introductions.GenerateSowing(ctx, intro.Key+999, SowingInput{SowingAmount: 1})
	requireWarning(t, err, MsgRecordNotFound)
}

func TestGenerateSowing_RespectsInput(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	intro, err := f.introductions.Create(ctx, domain.IntroductionRecord{Descriptor: domain.Descriptor{Code: "YZ003", Name: "黄瓜"}})
	require.NoError(t, err)

	h, err := f.introductions.GenerateSowing(ctx, intro.Key, SowingInput{
		PlantingCode: " ZZ-01 ",
		SowingAmount: 8,
		PlanCode:     "JH-2024",
		SowingTime:   "2024-04-10",
	})
	require.NoError(t, err)
	assert.Equal(t, "ZZ-01", h.Record.PlantingCode)
	assert.Equal(t, "JH-2024", h.Record.PlanCode)
	assert.Equal(t, "2024-04-10", h.Record.SowingTime)
}

func TestPurificationGenerateSowing_TagsSource(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	p, err := f.purifications.Create(ctx, domain.PurificationRecord{
		Descriptor:       domain.Descriptor{Code: "ZJ01", Name: "自交系一号"},
		PurificationTime: "2024-05-20",
	})
	require.NoError(t, err)

	h, err := f.purifications.GenerateSowing(ctx, p.Key, SowingInput{SowingAmount: 30})
	require.NoError(t, err)
	assert.Equal(t, domain.SourcePurification, h.Record.Source)
	assert.Equal(t, "2024-05-20", h.Record.IntroductionTime)

	// 一路流转到留种，来源标签保留
	test, err := f.sowings.GenerateTestRecord(ctx, h.Record.Key)
	require.NoError(t, err)
	seed, err := f.tests.SaveSeed(ctx, test.Record.Key, SaveSeedInput{Amount: 120})
	require.NoError(t, err)
	assert.Equal(t, domain.SourcePurification, seed.Record.Source)
	assert.Equal(t, RedirectSeedInventory, seed.Redirect)
}

func TestSaveSeed_AppendOnly(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	require.NoError(t, f.repos.TestRecords.ReplaceAll(ctx, []domain.TestRecord{
		{Key: 7, Descriptor: domain.Descriptor{Code: "YZ001"}, Source: domain.SourceIntroduction, SowingDetail: domain.SowingDetail{PlantingCode: "P-7"}},
	}))

	_, err := f.tests.SaveSeed(ctx, 7, SaveSeedInput{})
	requireWarning(t, err, MsgSavedAmountRequired)

	_, err = f.tests.SaveSeed(ctx, 7, SaveSeedInput{Amount: 100})
	require.NoError(t, err)
	_, err = f.tests.SaveSeed(ctx, 7, SaveSeedInput{Amount: 50, SaveTime: "2024-10-01"})
	require.NoError(t, err)

	seeds, err := f.seeds.List(ctx)
	require.NoError(t, err)
	require.Len(t, seeds, 2)
	assert.NotEqual(t, seeds[0].Key, seeds[1].Key)
	assert.Equal(t, "2024-06-01", seeds[0].SaveTime)
	assert.Equal(t, "2024-10-01", seeds[1].SaveTime)
	assert.Equal(t, "P-7", seeds[1].PlantingCode)
}

// generatedSowing 引种 -> 播种 -> 考种，返回播种交接记录
func generatedSowing(t *testing.T, f *fixture) domain.SowingRecord {
	t.Helper()
	ctx := context.Background()
	intro, err := f.introductions.Create(ctx, domain.IntroductionRecord{Descriptor: domain.Descriptor{Code: "YZ001", Name: "甜瓜"}})
	require.NoError(t, err)
	h, err := f.introductions.GenerateSowing(ctx, intro.Key, SowingInput{SowingAmount: 50})
	require.NoError(t, err)
	_, err = f.sowings.GenerateTestRecord(ctx, h.Record.Key)
	require.NoError(t, err)
	return h.Record
}

func TestSowingLoad_StaleHandoffKeepsStoredRecord(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	handoff := generatedSowing(t, f)
	require.Equal(t, domain.SowingStatusPending, handoff.Status)

	// 页面回退后带着旧的交接记录再次进入
	writes := f.kv.sets[repository.KeyPrefix+repository.SowingCollection]
	list, err := f.sowings.Load(ctx, &handoff)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, domain.SowingStatusSuccess, list[0].Status)
	assert.Equal(t, writes, f.kv.sets[repository.KeyPrefix+repository.SowingCollection])

	_, err = f.sowings.GenerateTestRecord(ctx, handoff.Key)
	requireWarning(t, err, MsgTestAlreadyGenerated)

	tests, err := f.tests.List(ctx)
	require.NoError(t, err)
	assert.Len(t, tests, 1)
}

func TestSowingUpdate_PartialBodyKeepsIdentityAndStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	handoff := generatedSowing(t, f)

	updated, err := f.sowings.Update(ctx, handoff.Key, []byte(`{"sowingAmount":60,"status":"未生成考种记录"}`))
	require.NoError(t, err)
	assert.Equal(t, 60, updated.SowingAmount)
	assert.Equal(t, "YZ001", updated.Code)
	assert.Equal(t, "YZ001", updated.PlantingCode)
	// 状态由服务端维护，请求体中的值被忽略
	assert.Equal(t, domain.SowingStatusSuccess, updated.Status)

	_, err = f.sowings.GenerateTestRecord(ctx, handoff.Key)
	requireWarning(t, err, MsgTestAlreadyGenerated)

	tests, err := f.tests.List(ctx)
	require.NoError(t, err)
	assert.Len(t, tests, 1)
}

func TestTestRecordLoad_PersistsOnlyWhenChanged(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	key := repository.KeyPrefix + repository.TestCollection

	list, err := f.tests.Load(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Zero(t, f.kv.sets[key])

	incoming := domain.TestRecord{Key: 11, SowingDetail: domain.SowingDetail{PlantingCode: "P-11"}}
	list, err = f.tests.Load(ctx, &incoming)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 1, f.kv.sets[key])

	// 刷新页面，交接记录再次到达
	list, err = f.tests.Load(ctx, &incoming)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, 1, f.kv.sets[key])
}

func TestBatchDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	require.NoError(t, f.repos.SavedSeeds.ReplaceAll(ctx, []domain.SavedSeedRecord{
		{Key: 1, Amount: 1}, {Key: 2, Amount: 2}, {Key: 3, Amount: 3},
	}))
	before := f.raw(t, repository.SavedSeedCollection)

	// 空选择：告警，集合不变
	_, err := f.seeds.BatchDelete(ctx, nil)
	requireWarning(t, err, MsgSelectRecords)
	assert.Equal(t, before, f.raw(t, repository.SavedSeedCollection))

	n, err := f.seeds.BatchDelete(ctx, []int64{1, 3, 404})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	seeds, err := f.seeds.List(ctx)
	require.NoError(t, err)
	require.Len(t, seeds, 1)
	assert.Equal(t, int64(2), seeds[0].Key)
}

func TestDeleteAndUpdate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	rec, err := f.introductions.Create(ctx, domain.IntroductionRecord{Descriptor: domain.Descriptor{Code: "YZ010", Name: "南瓜"}})
	require.NoError(t, err)

	_, err = f.introductions.Create(ctx, domain.IntroductionRecord{Descriptor: domain.Descriptor{Code: "YZ011"}})
	requireWarning(t, err, MsgNameRequired)

	// 以路径中的 key 为准，未提交的字段保持原值
	updated, err := f.introductions.Update(ctx, rec.Key, []byte(`{"key":12345,"generation":"F3"}`))
	require.NoError(t, err)
	assert.Equal(t, rec.Key, updated.Key)
	assert.Equal(t, "南瓜", updated.Name)

	list, err := f.introductions.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "F3", list[0].Generation)
	assert.Equal(t, "YZ010", list[0].Code)

	// 显式清空必填字段仍然校验
	_, err = f.introductions.Update(ctx, rec.Key, []byte(`{"name":""}`))
	requireWarning(t, err, MsgNameRequired)

	_, err = f.introductions.Update(ctx, rec.Key, []byte(`{"name":`))
	assert.Error(t, err)

	_, err = f.introductions.Update(ctx, 1, []byte(`{"code":"X","name":"Y"}`))
	requireWarning(t, err, MsgRecordNotFound)

	requireWarning(t, f.introductions.Delete(ctx, 1), MsgRecordNotFound)
	require.NoError(t, f.introductions.Delete(ctx, rec.Key))

	list, err = f.introductions.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func buildWorkbook(t *testing.T, header []string, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &header))
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		r := row
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &r))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestImport_YZ099(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	data := buildWorkbook(t, []string{"编号", "引种名称"}, [][]any{{"YZ099", "测试瓜"}})
	n, err := f.introductions.Import(ctx, "引种模板.xlsx", bytes.NewReader(data), "")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	list, err := f.introductions.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.NotZero(t, list[0].Key)
	assert.Equal(t, "YZ099", list[0].Code)
	assert.Equal(t, "测试瓜", list[0].Name)
	assert.Empty(t, list[0].Method)
	assert.Empty(t, list[0].Type)
	assert.Empty(t, list[0].IsRegular)
	assert.Empty(t, list[0].Generation)
	assert.Empty(t, list[0].IntroductionTime)
}

func TestImport_RejectsUnsupportedFiles(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	_, err := f.introductions.Import(ctx, "old.xls", bytes.NewReader([]byte("x")), "")
	requireWarning(t, err, MsgXLSNotSupported)

	_, err = f.introductions.Import(ctx, "notes.txt", bytes.NewReader([]byte("x")), "")
	requireWarning(t, err, MsgUnsupportedFileFormat)
}

func TestExportImport_RoundTrip(t *testing.T) {
	ctx := context.Background()
	src := newFixture(t, nil)
	original := []domain.SowingRecord{
		{Key: 1, Descriptor: domain.Descriptor{Code: "YZ001", Name: "甜瓜", Generation: "F2"}, Source: domain.SourceIntroduction,
			SowingDetail: domain.SowingDetail{PlantingCode: "P-1", SowingAmount: 50, SowingTime: "2024-03-01"}, Status: domain.SowingStatusPending},
		{Key: 2, Descriptor: domain.Descriptor{Code: "ZJ01", Name: "自交系"}, Source: domain.SourcePurification,
			SowingDetail: domain.SowingDetail{PlantingCode: "P-2", SowingAmount: 12}, Status: domain.SowingStatusSuccess},
	}
	require.NoError(t, src.repos.Sowings.ReplaceAll(ctx, original))

	for _, tc := range []struct {
		format   string
		encoding string
		name     string
	}{
		{FormatXLSX, "", "播种记录.xlsx"},
		{FormatCSV, "utf8", "播种记录.csv"},
		{FormatCSV, "gbk", "播种记录.csv"},
	} {
		t.Run(tc.format+tc.encoding, func(t *testing.T) {
			file, err := src.sowings.Export(ctx, tc.format, tc.encoding)
			require.NoError(t, err)
			assert.Equal(t, tc.name, file.Name)

			dst := newFixture(t, nil)
			n, err := dst.sowings.Import(ctx, file.Name, bytes.NewReader(file.Data), tc.encoding)
			require.NoError(t, err)
			assert.Equal(t, len(original), n)

			got, err := dst.sowings.List(ctx)
			require.NoError(t, err)
			require.Len(t, got, len(original))
			for i := range got {
				assert.Equal(t, original[i], got[i].WithKey(original[i].Key))
			}
		})
	}
}

func TestTransition_NotifierFailureDoesNotFail(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, failingNotifier{})

	intro, err := f.introductions.Create(ctx, domain.IntroductionRecord{Descriptor: domain.Descriptor{Code: "YZ020", Name: "丝瓜"}})
	require.NoError(t, err)
	h, err := f.introductions.GenerateSowing(ctx, intro.Key, SowingInput{SowingAmount: 5})
	require.NoError(t, err)

	list, err := f.sowings.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, h.Record, list[0])
}

func TestDashboardStats(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	require.NoError(t, f.repos.Sowings.ReplaceAll(ctx, []domain.SowingRecord{
		{Key: 1, SowingDetail: domain.SowingDetail{PlantingCode: "P-1", SowingAmount: 1}, Status: domain.SowingStatusPending},
		{Key: 2, SowingDetail: domain.SowingDetail{PlantingCode: "P-2", SowingAmount: 1}, Status: domain.SowingStatusPending},
	}))
	_, err := f.sowings.GenerateTestRecord(ctx, 2)
	require.NoError(t, err)
	require.NoError(t, f.repos.SavedSeeds.ReplaceAll(ctx, []domain.SavedSeedRecord{
		{Key: 1, Amount: 100, Source: domain.SourceIntroduction},
		{Key: 2, Amount: 40, Source: domain.SourceIntroduction},
		{Key: 3, Amount: 7, Source: domain.SourcePurification},
	}))

	stats, err := f.dashboard.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Counts[repository.SowingCollection])
	assert.Equal(t, 1, stats.Counts[repository.TestCollection])
	assert.Equal(t, 0, stats.Counts[repository.IntroductionCollection])
	assert.Equal(t, 1, stats.SowingStatus[domain.SowingStatusPending])
	assert.Equal(t, 1, stats.SowingStatus[domain.SowingStatusSuccess])
	assert.Equal(t, 140, stats.SeedAmountBySource[domain.SourceIntroduction])
	assert.Equal(t, 7, stats.SeedAmountBySource[domain.SourcePurification])
	require.Len(t, stats.RecentTestRecords, 1)
	assert.Equal(t, "P-2", stats.RecentTestRecords[0].PlantingCode)
	require.Len(t, stats.RecentEvents, 1)
	assert.Equal(t, lineage.EventTestGenerated, stats.RecentEvents[0].Type)
}

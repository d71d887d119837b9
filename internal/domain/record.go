package domain

import "time"

// 播种记录状态
const (
	SowingStatusPending = "未生成考种记录"
	SowingStatusSuccess = "Success"
)

// 入口流程来源标签
const (
	SourceIntroduction = "引种"
	SourcePurification = "自交系纯化"
)

// DateLayout 记录中日期字段的格式
const DateLayout = "2006-01-02"

// Stage 记录所处的阶段
type Stage string

const (
	StageIntroduction Stage = "introduction"
	StagePurification Stage = "purification"
	StageSowing       Stage = "sowing"
	StageTest         Stage = "test"
	StageSavedSeed    Stage = "saved_seed"
)

// Record 各阶段记录的公共接口
type Record interface {
	RecordKey() int64
	Stage() Stage
}

// Planted 带种植编号（自然键）的记录
type Planted interface {
	Record
	NaturalKey() string
}

// Descriptor 引种/纯化记录的描述字段，下游阶段按值复制
type Descriptor struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	Method     string `json:"method"`
	Type       string `json:"type"`
	IsRegular  string `json:"isRegular"`
	Generation string `json:"generation"`
}

// SowingDetail 播种信息，考种记录按值复制
type SowingDetail struct {
	PlantingCode string `json:"plantingCode"`
	SowingAmount int    `json:"sowingAmount"`
	PlanCode     string `json:"planCode"`
	SowingTime   string `json:"sowingTime"`
}

// FormatDate 按 DateLayout 格式化
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

package domain

// TestRecord 考种记录，以数字 key 作为唯一标识
type TestRecord struct {
	Key int64 `json:"key"`
	Descriptor
	IntroductionTime string `json:"introductionTime"`
	Source           string `json:"source"`
	SowingDetail
	TestTime        string `json:"testTime"`
	GerminationRate string `json:"germinationRate"`
	PurityRate      string `json:"purityRate"`
	Remarks         string `json:"remarks"`
}

func (r TestRecord) RecordKey() int64   { return r.Key }
func (r TestRecord) Stage() Stage       { return StageTest }
func (r TestRecord) NaturalKey() string { return r.PlantingCode }

// WithKey 返回替换 key 后的副本
func (r TestRecord) WithKey(key int64) TestRecord {
	r.Key = key
	return r
}

// ToSavedSeed 生成留种记录，来源标签沿用入口流程
func (r TestRecord) ToSavedSeed(key int64, amount int, saveTime string) SavedSeedRecord {
	return SavedSeedRecord{
		Key:          key,
		Descriptor:   r.Descriptor,
		PlantingCode: r.PlantingCode,
		Amount:       amount,
		SaveTime:     saveTime,
		Source:       r.Source,
	}
}

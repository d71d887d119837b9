package domain

// SowingRecord 播种记录
type SowingRecord struct {
	Key int64 `json:"key"`
	Descriptor
	IntroductionTime string `json:"introductionTime"`
	Source           string `json:"source"`
	SowingDetail
	Status string `json:"status"`
}

func (r SowingRecord) RecordKey() int64   { return r.Key }
func (r SowingRecord) Stage() Stage       { return StageSowing }
func (r SowingRecord) NaturalKey() string { return r.PlantingCode }

// WithKey 返回替换 key 后的副本
func (r SowingRecord) WithKey(key int64) SowingRecord {
	r.Key = key
	return r
}

// TestGenerated 是否已生成考种记录
func (r SowingRecord) TestGenerated() bool {
	return r.Status == SowingStatusSuccess
}

// ToTestRecord 复制播种记录的全部字段生成考种记录，测量字段留空
func (r SowingRecord) ToTestRecord(key int64, testTime string) TestRecord {
	return TestRecord{
		Key:              key,
		Descriptor:       r.Descriptor,
		IntroductionTime: r.IntroductionTime,
		Source:           r.Source,
		SowingDetail:     r.SowingDetail,
		TestTime:         testTime,
	}
}

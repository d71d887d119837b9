package domain

// IntroductionRecord 引种记录
type IntroductionRecord struct {
	Key int64 `json:"key"`
	Descriptor
	IntroductionTime string `json:"introductionTime"`
}

func (r IntroductionRecord) RecordKey() int64 { return r.Key }
func (r IntroductionRecord) Stage() Stage     { return StageIntroduction }

// WithKey 返回替换 key 后的副本
func (r IntroductionRecord) WithKey(key int64) IntroductionRecord {
	r.Key = key
	return r
}

// ToSowing 由引种记录生成播种记录（复制描述字段）
func (r IntroductionRecord) ToSowing(key int64, detail SowingDetail) SowingRecord {
	return SowingRecord{
		Key:              key,
		Descriptor:       r.Descriptor,
		IntroductionTime: r.IntroductionTime,
		Source:           SourceIntroduction,
		SowingDetail:     detail,
		Status:           SowingStatusPending,
	}
}

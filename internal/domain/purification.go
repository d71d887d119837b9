package domain

// PurificationRecord 自交系纯化记录
type PurificationRecord struct {
	Key int64 `json:"key"`
	Descriptor
	ParentCode       string `json:"parentCode"`
	PurificationTime string `json:"purificationTime"`
}

func (r PurificationRecord) RecordKey() int64 { return r.Key }
func (r PurificationRecord) Stage() Stage     { return StagePurification }

// WithKey 返回替换 key 后的副本
func (r PurificationRecord) WithKey(key int64) PurificationRecord {
	r.Key = key
	return r
}

// ToSowing 由纯化记录生成播种记录；纯化时间写入 introductionTime 列
func (r PurificationRecord) ToSowing(key int64, detail SowingDetail) SowingRecord {
	return SowingRecord{
		Key:              key,
		Descriptor:       r.Descriptor,
		IntroductionTime: r.PurificationTime,
		Source:           SourcePurification,
		SowingDetail:     detail,
		Status:           SowingStatusPending,
	}
}

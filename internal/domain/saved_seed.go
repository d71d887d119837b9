package domain

// SavedSeedRecord 留种（种质库）记录
type SavedSeedRecord struct {
	Key int64 `json:"key"`
	Descriptor
	PlantingCode string `json:"plantingCode"`
	Amount       int    `json:"amount"`
	SaveTime     string `json:"saveTime"`
	Source       string `json:"source"`
}

func (r SavedSeedRecord) RecordKey() int64   { return r.Key }
func (r SavedSeedRecord) Stage() Stage       { return StageSavedSeed }
func (r SavedSeedRecord) NaturalKey() string { return r.PlantingCode }

// WithKey 返回替换 key 后的副本
func (r SavedSeedRecord) WithKey(key int64) SavedSeedRecord {
	r.Key = key
	return r
}

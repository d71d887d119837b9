package lineage

import "seedbreed/internal/domain"

// Upsert 按种植编号查找同一自然键的记录：找到则原位替换，否则追加。
// 种植编号为空的记录不参与去重，总是追加。
func Upsert[T domain.Planted](list []T, rec T) ([]T, bool) {
	if code := rec.NaturalKey(); code != "" {
		for i := range list {
			if list[i].NaturalKey() == code {
				list[i] = rec
				return list, true
			}
		}
	}
	return append(list, rec), false
}

// Merge 把页面跳转带来的记录并入集合。交接记录在流转时已经写入过，
// 集合里已有同 key 的记录时以集合为准（之后的编辑和状态变化不会被旧的交接记录覆盖）；
// 同种植编号但 key 不同时替换，都没有时追加。changed=false 表示无需写回。
func Merge[T domain.Planted](list []T, incoming T) (out []T, changed bool) {
	if key := incoming.RecordKey(); key != 0 {
		for i := range list {
			if list[i].RecordKey() == key {
				return list, false
			}
		}
	}
	if code := incoming.NaturalKey(); code != "" {
		for i := range list {
			if list[i].NaturalKey() == code {
				list[i] = incoming
				return list, true
			}
		}
	}
	return append(list, incoming), true
}

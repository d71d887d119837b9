package repository

import (
	"time"

	"seedbreed/internal/domain"
)

// KeySeq 生成集合内唯一的数字 key：毫秒时间戳，且始终大于集合中已有的最大 key
type KeySeq struct {
	next int64
}

func NewKeySeq[T domain.Record](now time.Time, existing []T) *KeySeq {
	next := now.UnixMilli()
	for _, r := range existing {
		if k := r.RecordKey(); k >= next {
			next = k + 1
		}
	}
	return &KeySeq{next: next}
}

func (s *KeySeq) Next() int64 {
	k := s.next
	s.next++
	return k
}

// IndexOfKey 线性查找 key，未找到返回 -1
func IndexOfKey[T domain.Record](list []T, key int64) int {
	for i, r := range list {
		if r.RecordKey() == key {
			return i
		}
	}
	return -1
}

// RemoveKeys 返回去掉指定 key 后的新列表以及实际删除的条数
func RemoveKeys[T domain.Record](list []T, keys []int64) ([]T, int) {
	drop := make(map[int64]struct{}, len(keys))
	for _, k := range keys {
		drop[k] = struct{}{}
	}
	out := make([]T, 0, len(list))
	for _, r := range list {
		if _, ok := drop[r.RecordKey()]; ok {
			continue
		}
		out = append(out, r)
	}
	return out, len(list) - len(out)
}

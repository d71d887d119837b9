package lineage

import (
	"context"
	"errors"
	"sync"
	"time"

	"seedbreed/internal/domain"

	"github.com/google/uuid"
)

// 事件类型
const (
	EventSowingGenerated = "sowing_generated"
	EventTestGenerated   = "test_record_generated"
	EventSeedSaved       = "seed_saved"
)

// Event 一次阶段流转
type Event struct {
	EventID      string       `json:"event_id"`
	Type         string       `json:"type"`
	FromStage    domain.Stage `json:"from_stage"`
	ToStage      domain.Stage `json:"to_stage"`
	SourceKey    int64        `json:"source_key"`
	TargetKey    int64        `json:"target_key"`
	PlantingCode string       `json:"planting_code"`
	Replaced     bool         `json:"replaced"`
	OccurredAt   time.Time    `json:"occurred_at"`
}

// NewEvent 由上下游记录构造事件
func NewEvent(eventType string, from domain.Record, to domain.Planted, replaced bool) Event {
	return Event{
		EventID:      uuid.NewString(),
		Type:         eventType,
		FromStage:    from.Stage(),
		ToStage:      to.Stage(),
		SourceKey:    from.RecordKey(),
		TargetKey:    to.RecordKey(),
		PlantingCode: to.NaturalKey(),
		Replaced:     replaced,
		OccurredAt:   time.Now().UTC(),
	}
}

// Notifier 发布流转事件；失败只记录日志，不影响流转本身
type Notifier interface {
	Notify(ctx context.Context, e Event) error
}

// History 最近的流转事件（新的在前）
type History interface {
	Recent(ctx context.Context, n int) ([]Event, error)
}

// MultiNotifier 依次通知所有下游，汇总错误
type MultiNotifier []Notifier

func (m MultiNotifier) Notify(ctx context.Context, e Event) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// MemoryLog 进程内环形缓冲，未接 Redis 时为看板提供最近事件
type MemoryLog struct {
	mu     sync.Mutex
	events []Event
	size   int
}

func NewMemoryLog(size int) *MemoryLog {
	if size <= 0 {
		size = 100
	}
	return &MemoryLog{size: size}
}

func (l *MemoryLog) Notify(_ context.Context, e Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
	if len(l.events) > l.size {
		l.events = l.events[len(l.events)-l.size:]
	}
	return nil
}

func (l *MemoryLog) Recent(_ context.Context, n int) ([]Event, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if n <= 0 || n > len(l.events) {
		n = len(l.events)
	}
	out := make([]Event, 0, n)
	for i := len(l.events) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, l.events[i])
	}
	return out, nil
}

package lineage

import (
	"context"
	"encoding/json"
	"fmt"

	commonredis "seedbreed/common/redis"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// DefaultStream 流转事件所在的 Redis Stream
const DefaultStream = "seedbreed:lineage"

// RedisStreamNotifier 把事件 XADD 到 Redis Stream，同时可读取最近事件
type RedisStreamNotifier struct {
	client *redis.Client
	stream string
	maxLen int64
	logger *zap.Logger
}

func NewRedisStreamNotifier(client *redis.Client, stream string, maxLen int64, logger *zap.Logger) *RedisStreamNotifier {
	if stream == "" {
		stream = DefaultStream
	}
	return &RedisStreamNotifier{client: client, stream: stream, maxLen: maxLen, logger: logger}
}

func (n *RedisStreamNotifier) Notify(ctx context.Context, e Event) error {
	id, err := commonredis.PublishJSONToStream(ctx, n.client, n.stream, e, n.maxLen)
	if err != nil {
		return fmt.Errorf("failed to publish lineage event: %w", err)
	}
	n.logger.Debug("lineage event published",
		zap.String("stream", n.stream),
		zap.String("message_id", id),
		zap.String("event_id", e.EventID),
	)
	return nil
}

func (n *RedisStreamNotifier) Recent(ctx context.Context, count int) ([]Event, error) {
	if count <= 0 {
		count = 10
	}
	msgs, err := commonredis.ReadLatest(ctx, n.client, n.stream, int64(count))
	if err != nil {
		return nil, fmt.Errorf("failed to read lineage stream: %w", err)
	}

	out := make([]Event, 0, len(msgs))
	for _, m := range msgs {
		data, _ := m.Values["data"].(string)
		var e Event
		if err := json.Unmarshal([]byte(data), &e); err != nil {
			n.logger.Warn("skip malformed lineage message", zap.String("message_id", m.ID), zap.Error(err))
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

package lineage

import (
	"context"
	"encoding/json"
	"fmt"
)

// DefaultTopic 流转事件的 MQTT 主题
const DefaultTopic = "seedbreed/lineage"

// Publisher common/mqtt.Client 满足此接口
type Publisher interface {
	Publish(topic string, retained bool, payload []byte) error
}

type MQTTNotifier struct {
	pub   Publisher
	topic string
}

func NewMQTTNotifier(pub Publisher, topic string) *MQTTNotifier {
	if topic == "" {
		topic = DefaultTopic
	}
	return &MQTTNotifier{pub: pub, topic: topic}
}

func (n *MQTTNotifier) Notify(_ context.Context, e Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal lineage event: %w", err)
	}
	return n.pub.Publish(n.topic, false, payload)
}

package lineage

import (
	"context"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsNotifier 按事件类型累计流转次数，供 /metrics 抓取
type MetricsNotifier struct {
	events *prometheus.CounterVec
}

func NewMetricsNotifier(reg prometheus.Registerer) (*MetricsNotifier, error) {
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "seedbreed",
		Subsystem: "lineage",
		Name:      "events_total",
		Help:      "Stage transitions by event type and whether an existing downstream record was replaced.",
	}, []string{"type", "replaced"})
	if err := reg.Register(events); err != nil {
		return nil, err
	}
	return &MetricsNotifier{events: events}, nil
}

func (n *MetricsNotifier) Notify(_ context.Context, e Event) error {
	n.events.WithLabelValues(e.Type, strconv.FormatBool(e.Replaced)).Inc()
	return nil
}

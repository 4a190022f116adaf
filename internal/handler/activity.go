package handler

import (
	"encoding/json"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/libhub/library-service/pkg/circuit_breaker"
	"github.com/libhub/library-service/pkg/kafka"
)

// ActivityLog publishes audit events to the activity topic. Fire-and-forget:
// a broker outage must never fail the originating request.
type ActivityLog interface {
	Log(event kafka.EventActivity) error
}

type activityLog struct {
	producer sarama.AsyncProducer
	topic    string
	cb       circuit_breaker.CircuitBreaker
}

func NewActivityLog(producer sarama.AsyncProducer, topic string) *activityLog {
	return &activityLog{
		producer: producer,
		topic:    topic,
		cb:       circuit_breaker.New(20, 30*time.Second, 0.5, 5),
	}
}

func (l *activityLog) Log(event kafka.EventActivity) error {
	return l.cb.Call(func() error {
		data, err := json.Marshal(event)
		if err != nil {
			return err
		}
		msg := &sarama.ProducerMessage{Topic: l.topic, Value: sarama.StringEncoder(data)}
		l.producer.Input() <- msg
		return nil
	})
}

// logActivity stamps and publishes the event, dropping it on failure.
func (h *Handler) logActivity(event kafka.EventActivity) {
	if h.activityLog == nil {
		return
	}
	event.Timestamp = time.Now().UTC()
	if err := h.activityLog.Log(event); err != nil {
		h.log.Warn("activity log", zap.Error(err), zap.String("type", event.EventType))
	}
}

package messaging

import (
	"context"
	"fmt"
	"strconv"

	"github.com/segmentio/kafka-go"
	"github.com/wyfcoding/optionhedge/internal/hedge/domain"
	pricing "github.com/wyfcoding/optionhedge/internal/pricing/domain"
	"github.com/wyfcoding/optionhedge/pkg/mq"
)

// EventTypeHeader 消息头中的事件类型
const EventTypeHeader = "event_type"

// KafkaEventPublisher 将定价与对冲领域事件发布到同一个 Kafka topic
type KafkaEventPublisher struct {
	producer mq.Producer
	topic    string
}

var (
	_ domain.EventPublisher  = (*KafkaEventPublisher)(nil)
	_ pricing.EventPublisher = (*KafkaEventPublisher)(nil)
)

// NewKafkaEventPublisher 创建新的 KafkaEventPublisher 实例
func NewKafkaEventPublisher(producer mq.Producer, topic string) *KafkaEventPublisher {
	return &KafkaEventPublisher{producer: producer, topic: topic}
}

// PublishOptionPriced 发布期权定价完成事件，按期权类型分区
func (p *KafkaEventPublisher) PublishOptionPriced(ctx context.Context, event pricing.OptionPricedEvent) error {
	return p.publish(ctx, pricing.OptionPricedEventType, string(event.OptionType), event)
}

// PublishScenarioEvaluated 发布情景评估完成事件，按现价分区
func (p *KafkaEventPublisher) PublishScenarioEvaluated(ctx context.Context, event domain.ScenarioEvaluatedEvent) error {
	return p.publish(ctx, domain.ScenarioEvaluatedEventType, strconv.FormatFloat(event.Spot, 'f', -1, 64), event)
}

// PublishSweepCompleted 发布网格扫描完成事件，按批次分区
func (p *KafkaEventPublisher) PublishSweepCompleted(ctx context.Context, event domain.SweepCompletedEvent) error {
	return p.publish(ctx, domain.SweepCompletedEventType, event.BatchID, event)
}

func (p *KafkaEventPublisher) publish(ctx context.Context, eventType, key string, event any) error {
	err := p.producer.SendMessage(ctx, p.topic, key, event, kafka.Header{Key: EventTypeHeader, Value: []byte(eventType)})
	if err != nil {
		return fmt.Errorf("publish %s: %w", eventType, err)
	}
	return nil
}

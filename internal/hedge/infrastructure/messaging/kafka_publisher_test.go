package messaging

import (
	"context"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/wyfcoding/optionhedge/internal/hedge/domain"
	pricing "github.com/wyfcoding/optionhedge/internal/pricing/domain"
)

type sentMessage struct {
	topic, key string
	value      any
	headers    []kafka.Header
}

type fakeProducer struct {
	sent []sentMessage
	err  error
}

func (f *fakeProducer) SendMessage(_ context.Context, topic, key string, value any, headers ...kafka.Header) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMessage{topic, key, value, headers})
	return nil
}

func (f *fakeProducer) Close() error { return nil }

func eventType(m sentMessage) string {
	for _, h := range m.headers {
		if h.Key == EventTypeHeader {
			return string(h.Value)
		}
	}
	return ""
}

func TestKafkaEventPublisher(t *testing.T) {
	fp := &fakeProducer{}
	pub := NewKafkaEventPublisher(fp, "hedge-events")
	ctx := context.Background()

	if err := pub.PublishOptionPriced(ctx, pricing.OptionPricedEvent{OptionType: pricing.OptionTypePut}); err != nil {
		t.Fatal(err)
	}
	if err := pub.PublishScenarioEvaluated(ctx, domain.ScenarioEvaluatedEvent{Spot: 24000}); err != nil {
		t.Fatal(err)
	}
	if err := pub.PublishSweepCompleted(ctx, domain.SweepCompletedEvent{BatchID: "b-1"}); err != nil {
		t.Fatal(err)
	}

	want := []struct{ key, eventType string }{
		{"PUT", pricing.OptionPricedEventType},
		{"24000", domain.ScenarioEvaluatedEventType},
		{"b-1", domain.SweepCompletedEventType},
	}
	if len(fp.sent) != len(want) {
		t.Fatalf("sent %d messages", len(fp.sent))
	}
	for i, w := range want {
		m := fp.sent[i]
		if m.topic != "hedge-events" || m.key != w.key || eventType(m) != w.eventType {
			t.Errorf("message %d = %+v, want key %q type %q", i, m, w.key, w.eventType)
		}
	}
}

func TestKafkaEventPublisherWrapsErrors(t *testing.T) {
	cause := errors.New("broker down")
	pub := NewKafkaEventPublisher(&fakeProducer{err: cause}, "t")
	err := pub.PublishSweepCompleted(context.Background(), domain.SweepCompletedEvent{})
	if !errors.Is(err, cause) {
		t.Errorf("error = %v, want wrapped %v", err, cause)
	}
}

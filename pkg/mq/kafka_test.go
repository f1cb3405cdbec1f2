package mq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
)

type recordingWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestSendMessageEncodesJSON(t *testing.T) {
	w := &recordingWriter{}
	p := &KafkaProducer{writer: w}

	err := p.SendMessage(context.Background(), "hedge-events", "k1",
		map[string]float64{"total_pnl": 1.5},
		kafka.Header{Key: "event_type", Value: []byte("ScenarioEvaluated")})
	if err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}
	if len(w.msgs) != 1 {
		t.Fatalf("got %d messages", len(w.msgs))
	}
	msg := w.msgs[0]
	if msg.Topic != "hedge-events" || string(msg.Key) != "k1" {
		t.Errorf("message = %+v", msg)
	}
	var body map[string]float64
	if err := json.Unmarshal(msg.Value, &body); err != nil || body["total_pnl"] != 1.5 {
		t.Errorf("value = %s (%v)", msg.Value, err)
	}
	if len(msg.Headers) != 1 || string(msg.Headers[0].Value) != "ScenarioEvaluated" {
		t.Errorf("headers = %+v", msg.Headers)
	}

	if err := p.Close(); err != nil || !w.closed {
		t.Errorf("Close() = %v, closed = %v", err, w.closed)
	}
}

func TestSendMessageErrors(t *testing.T) {
	p := &KafkaProducer{writer: &recordingWriter{err: errors.New("broker down")}}
	if err := p.SendMessage(context.Background(), "t", "k", 1); err == nil {
		t.Error("expected write error")
	}
	if err := p.SendMessage(context.Background(), "t", "k", make(chan int)); err == nil {
		t.Error("expected marshal error")
	}
}

func TestNewProducerRequiresBrokers(t *testing.T) {
	if _, err := NewProducer(KafkaConfig{}); err == nil {
		t.Error("expected error for empty brokers")
	}
}

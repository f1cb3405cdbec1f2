package domain

import "context"

// EventPublisher 事件发布者接口
type EventPublisher interface {
	// PublishScenarioEvaluated 发布情景评估完成事件
	PublishScenarioEvaluated(ctx context.Context, event ScenarioEvaluatedEvent) error

	// PublishSweepCompleted 发布网格扫描完成事件
	PublishSweepCompleted(ctx context.Context, event SweepCompletedEvent) error
}

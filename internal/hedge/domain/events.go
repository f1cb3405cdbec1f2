package domain

import "time"

const (
	ScenarioEvaluatedEventType = "ScenarioEvaluated"
	SweepCompletedEventType    = "SweepCompleted"
)

// ScenarioEvaluatedEvent 情景评估完成事件
type ScenarioEvaluatedEvent struct {
	Spot          float64   `json:"spot"`
	TimeRemaining float64   `json:"time_remaining"`
	FuturePnL     float64   `json:"future_pnl"`
	PutPnL        float64   `json:"put_pnl"`
	CallPnL       float64   `json:"call_pnl"`
	TotalPnL      float64   `json:"total_pnl"`
	OccurredOn    time.Time `json:"occurred_on"`
}

// SweepCompletedEvent 网格扫描完成事件
type SweepCompletedEvent struct {
	BatchID     string       `json:"batch_id"`
	Grid        ScenarioGrid `json:"grid"`
	Points      int          `json:"points"`
	MinTotalPnL float64      `json:"min_total_pnl"`
	MaxTotalPnL float64      `json:"max_total_pnl"`
	DurationMs  int64        `json:"duration_ms"`
	OccurredOn  time.Time    `json:"occurred_on"`
}

// NewScenarioEvaluatedEvent 由评估结果构造事件
func NewScenarioEvaluatedEvent(r PnLReport) ScenarioEvaluatedEvent {
	return ScenarioEvaluatedEvent{
		Spot:          r.Scenario.Spot,
		TimeRemaining: r.Scenario.TimeRemaining,
		FuturePnL:     r.FuturePnL,
		PutPnL:        r.PutPnL,
		CallPnL:       r.CallPnL,
		TotalPnL:      r.TotalPnL,
		OccurredOn:    time.Now(),
	}
}

// NewSweepCompletedEvent 汇总扫描结果
func NewSweepCompletedEvent(batchID string, g ScenarioGrid, reports []PnLReport, elapsed time.Duration) SweepCompletedEvent {
	e := SweepCompletedEvent{
		BatchID:    batchID,
		Grid:       g,
		Points:     len(reports),
		DurationMs: elapsed.Milliseconds(),
		OccurredOn: time.Now(),
	}
	for i, r := range reports {
		if i == 0 || r.TotalPnL < e.MinTotalPnL {
			e.MinTotalPnL = r.TotalPnL
		}
		if i == 0 || r.TotalPnL > e.MaxTotalPnL {
			e.MaxTotalPnL = r.TotalPnL
		}
	}
	return e
}

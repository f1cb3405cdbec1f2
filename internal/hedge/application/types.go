package application

import (
	"github.com/wyfcoding/optionhedge/internal/hedge/domain"
	pricing "github.com/wyfcoding/optionhedge/internal/pricing/domain"
)

// EvaluateScenarioCommand 情景评估命令
type EvaluateScenarioCommand struct {
	Spot          float64
	TimeRemaining float64 // 年
	AtExpiry      bool    // 为 true 时忽略 TimeRemaining
}

func (c EvaluateScenarioCommand) scenario() domain.Scenario {
	if c.AtExpiry {
		return domain.AtExpiry(c.Spot)
	}
	return domain.NewScenario(c.Spot, c.TimeRemaining)
}

// SweepCommand 网格扫描命令，Grid 为零值时使用默认网格
type SweepCommand struct {
	Grid domain.ScenarioGrid
}

// PnLReportDTO 情景盈亏，金额保留两位小数
// 金额溢出为 NaN/Inf 时记为 0.00 并置 Degenerate
type PnLReportDTO struct {
	Spot          float64 `json:"spot"`
	TimeRemaining float64 `json:"time_remaining"`
	AtExpiry      bool    `json:"at_expiry"`
	PutPrice      string  `json:"put_price"`
	CallPrice     string  `json:"call_price"`
	FuturePnL     string  `json:"future_pnl"`
	PutPnL        string  `json:"put_pnl"`
	CallPnL       string  `json:"call_pnl"`
	TotalPnL      string  `json:"total_pnl"`
	Degenerate    bool    `json:"degenerate"`
}

// LegDTO 单腿信息
type LegDTO struct {
	Instrument string  `json:"instrument"`
	Side       string  `json:"side"`
	Qty        float64 `json:"qty"`
	Strike     float64 `json:"strike,omitempty"`
	Volatility float64 `json:"volatility,omitempty"`
	EntryPrice string  `json:"entry_price"`
}

// PositionDTO 头寸概览
type PositionDTO struct {
	Rate                float64  `json:"rate"`
	InitialSpot         float64  `json:"initial_spot"`
	InitialTimeToExpiry float64  `json:"initial_time_to_expiry"`
	Legs                []LegDTO `json:"legs"`
	InitialValue        string   `json:"initial_value"`
}

// SweepResultDTO 网格扫描结果
type SweepResultDTO struct {
	BatchID string              `json:"batch_id"`
	Grid    domain.ScenarioGrid `json:"grid"`
	Points  int                 `json:"points"`
	Reports []PnLReportDTO      `json:"reports"`
}

func money(v float64) string {
	d, _ := pricing.FiniteDecimal(v)
	return d.StringFixed(2)
}

func toPnLReportDTO(r domain.PnLReport) PnLReportDTO {
	dto := PnLReportDTO{
		Spot:          r.Scenario.Spot,
		TimeRemaining: r.Scenario.TimeRemaining,
		AtExpiry:      r.Scenario.IsAtExpiry(),
	}
	ok := true
	for _, f := range []struct {
		dst *string
		v   float64
	}{
		{&dto.PutPrice, r.PutPrice},
		{&dto.CallPrice, r.CallPrice},
		{&dto.FuturePnL, r.FuturePnL},
		{&dto.PutPnL, r.PutPnL},
		{&dto.CallPnL, r.CallPnL},
		{&dto.TotalPnL, r.TotalPnL},
	} {
		d, fine := pricing.FiniteDecimal(f.v)
		ok = ok && fine
		*f.dst = d.StringFixed(2)
	}
	dto.Degenerate = !ok
	return dto
}

func toPositionDTO(p *domain.Position) *PositionDTO {
	cfg, fut, put, call := p.Config(), p.Future(), p.Put(), p.Call()
	return &PositionDTO{
		Rate:                cfg.Rate,
		InitialSpot:         cfg.InitialSpot,
		InitialTimeToExpiry: cfg.InitialTimeToExpiry,
		Legs: []LegDTO{
			{Instrument: "FUTURE", Side: string(fut.Side), Qty: fut.Qty, EntryPrice: money(fut.EntryPrice)},
			{Instrument: string(put.Type), Side: string(put.Side), Qty: put.Qty, Strike: put.Strike, Volatility: put.Volatility, EntryPrice: money(put.EntryPrice)},
			{Instrument: string(call.Type), Side: string(call.Side), Qty: call.Qty, Strike: call.Strike, Volatility: call.Volatility, EntryPrice: money(call.EntryPrice)},
		},
		InitialValue: money(p.InitialValue()),
	}
}

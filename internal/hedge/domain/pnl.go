package domain

// PnLReport 单个情景下各腿盈亏
type PnLReport struct {
	Scenario  Scenario `json:"scenario"`
	PutPrice  float64  `json:"put_price"`
	CallPrice float64  `json:"call_price"`
	FuturePnL float64  `json:"future_pnl"`
	PutPnL    float64  `json:"put_pnl"`
	CallPnL   float64  `json:"call_pnl"`
	TotalPnL  float64  `json:"total_pnl"`
}

// Evaluate 在情景现价与剩余期限下重新定价期权腿，计算相对开仓价的盈亏
// 期货与看跌为多头，看涨为空头。
func (p *Position) Evaluate(s Scenario) PnLReport {
	putPrice := p.markPrice(p.put, s.Spot, s.TimeRemaining)
	callPrice := p.markPrice(p.call, s.Spot, s.TimeRemaining)

	r := PnLReport{
		Scenario:  s,
		PutPrice:  putPrice,
		CallPrice: callPrice,
		FuturePnL: legPnL(p.future.Side, s.Spot, p.future.EntryPrice, p.future.Qty),
		PutPnL:    legPnL(p.put.Side, putPrice, p.put.EntryPrice, p.put.Qty),
		CallPnL:   legPnL(p.call.Side, callPrice, p.call.EntryPrice, p.call.Qty),
	}
	r.TotalPnL = r.FuturePnL + r.PutPnL + r.CallPnL
	return r
}

// Evaluate 评估头寸在 (spot, timeRemaining) 下的盈亏
func Evaluate(p *Position, spot, timeRemaining float64) PnLReport {
	return p.Evaluate(NewScenario(spot, timeRemaining))
}

// legPnL (现价 - 开仓价) * 数量，空头取反
func legPnL(side Side, mark, entry, qty float64) float64 {
	pnl := (mark - entry) * qty
	if side == SideSell {
		return -pnl
	}
	return pnl
}

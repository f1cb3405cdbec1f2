package domain

import (
	pricing "github.com/wyfcoding/optionhedge/internal/pricing/domain"
)

// Side 持仓方向
type Side string

const (
	SideBuy  Side = "BUY"  // 多头
	SideSell Side = "SELL" // 空头
)

// FutureLeg 期货腿
type FutureLeg struct {
	Side       Side
	Qty        float64
	EntryPrice float64
}

// OptionLeg 期权腿，开仓价在构造头寸时确定
type OptionLeg struct {
	Side       Side
	Type       pricing.OptionType
	Qty        float64
	Strike     float64
	Volatility float64
	EntryPrice float64
}

// Position 固定的三腿对冲头寸：期货多头、看跌期权多头、看涨期权空头
// 构造后不可变
type Position struct {
	config PositionConfig
	future FutureLeg
	put    OptionLeg
	call   OptionLeg
}

// NewPosition 校验配置并在建仓现价与期限下计算期权开仓价
func NewPosition(cfg PositionConfig) (*Position, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.InitialSpot = cfg.entrySpot()

	p := &Position{
		config: cfg,
		future: FutureLeg{Side: SideBuy, Qty: cfg.Qty, EntryPrice: cfg.FutureEntryPrice},
		put: OptionLeg{
			Side:       SideBuy,
			Type:       pricing.OptionTypePut,
			Qty:        cfg.Qty,
			Strike:     cfg.StrikePut,
			Volatility: cfg.IVPut,
		},
		call: OptionLeg{
			Side:       SideSell,
			Type:       pricing.OptionTypeCall,
			Qty:        cfg.Qty,
			Strike:     cfg.StrikeCall,
			Volatility: cfg.IVCall,
		},
	}
	p.put.EntryPrice = p.markPrice(p.put, cfg.InitialSpot, cfg.InitialTimeToExpiry)
	p.call.EntryPrice = p.markPrice(p.call, cfg.InitialSpot, cfg.InitialTimeToExpiry)
	return p, nil
}

// Config 返回构造参数副本
func (p *Position) Config() PositionConfig { return p.config }

// Future 返回期货腿副本
func (p *Position) Future() FutureLeg { return p.future }

// Put 返回看跌期权腿副本
func (p *Position) Put() OptionLeg { return p.put }

// Call 返回看涨期权腿副本
func (p *Position) Call() OptionLeg { return p.call }

// InitialValue 建仓价值：期货与看跌多头计正，看涨空头计负
func (p *Position) InitialValue() float64 {
	return p.future.Qty*p.future.EntryPrice + p.put.Qty*p.put.EntryPrice - p.call.Qty*p.call.EntryPrice
}

// markPrice 用腿的固定行权价、波动率和头寸利率，在给定现价与期限下定价
func (p *Position) markPrice(leg OptionLeg, spot, timeToExpiry float64) float64 {
	// 腿的期权类型在构造时固定，Price 只会返回退化值而不会报错
	price, _ := pricing.Price(pricing.OptionContract{
		Spot:         spot,
		Strike:       leg.Strike,
		TimeToExpiry: timeToExpiry,
		RiskFreeRate: p.config.Rate,
		Volatility:   leg.Volatility,
		Type:         leg.Type,
	})
	return price
}

package domain

import "time"

const OptionPricedEventType = "OptionPriced"

// OptionPricedEvent 期权定价完成事件
type OptionPricedEvent struct {
	OptionType      OptionType `json:"option_type"`
	StrikePrice     float64    `json:"strike_price"`
	UnderlyingPrice float64    `json:"underlying_price"`
	TimeToExpiry    float64    `json:"time_to_expiry"`
	Volatility      float64    `json:"volatility"`
	RiskFreeRate    float64    `json:"risk_free_rate"`
	OptionPrice     float64    `json:"option_price"`
	Degenerate      bool       `json:"degenerate"`
	PricingModel    string     `json:"pricing_model"`
	OccurredOn      time.Time  `json:"occurred_on"`
}

// NewOptionPricedEvent 由合约和价格构造定价事件
func NewOptionPricedEvent(c OptionContract, price float64) OptionPricedEvent {
	return OptionPricedEvent{
		OptionType:      c.Type,
		StrikePrice:     c.Strike,
		UnderlyingPrice: c.Spot,
		TimeToExpiry:    c.TimeToExpiry,
		Volatility:      c.Volatility,
		RiskFreeRate:    c.RiskFreeRate,
		OptionPrice:     price,
		Degenerate:      c.Degenerate(),
		PricingModel:    PricingModelBlackScholes,
		OccurredOn:      time.Now(),
	}
}

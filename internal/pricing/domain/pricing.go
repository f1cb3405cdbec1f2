package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PricingModelBlackScholes 唯一支持的定价模型
const PricingModelBlackScholes = "BlackScholes"

// PricingResult 定价结果，价格和 Greeks 以定点小数保存用于展示和传输
// 合约参数按原值回显，可能为 NaN/Inf
type PricingResult struct {
	OptionType      OptionType      `json:"option_type"`
	StrikePrice     float64         `json:"-"`
	UnderlyingPrice float64         `json:"-"`
	OptionPrice     decimal.Decimal `json:"option_price"`
	Delta           decimal.Decimal `json:"delta"`
	Gamma           decimal.Decimal `json:"gamma"`
	Theta           decimal.Decimal `json:"theta"`
	Vega            decimal.Decimal `json:"vega"`
	Rho             decimal.Decimal `json:"rho"`
	Degenerate      bool            `json:"degenerate"`
	PricingModel    string          `json:"pricing_model"`
	CalculatedAt    int64           `json:"calculated_at"`
}

// FiniteDecimal 转为定点小数；NaN/Inf 无法表示，返回 decimal.Zero 和 false
func FiniteDecimal(v float64) (decimal.Decimal, bool) {
	if !finite(v) {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(v), true
}

// NewPricingResult 由模型输出构造定价结果
// 任一输出无法表示为定点小数时记为 0 并标记 Degenerate
func NewPricingResult(c OptionContract, r *BlackScholesResult) *PricingResult {
	ok := true
	conv := func(v float64) decimal.Decimal {
		d, fine := FiniteDecimal(v)
		ok = ok && fine
		return d
	}
	res := &PricingResult{
		OptionType:      c.Type,
		StrikePrice:     c.Strike,
		UnderlyingPrice: c.Spot,
		OptionPrice:     conv(r.Price),
		Delta:           conv(r.Delta),
		Gamma:           conv(r.Gamma),
		Theta:           conv(r.Theta),
		Vega:            conv(r.Vega),
		Rho:             conv(r.Rho),
		PricingModel:    PricingModelBlackScholes,
		CalculatedAt:    time.Now().UnixMilli(),
	}
	res.Degenerate = c.Degenerate() || !ok
	return res
}

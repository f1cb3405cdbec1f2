package application

import (
	"github.com/wyfcoding/optionhedge/internal/pricing/domain"
)

// PriceOptionCommand 期权定价命令
type PriceOptionCommand struct {
	OptionType      string
	StrikePrice     float64
	UnderlyingPrice float64
	TimeToExpiry    float64 // 年，0 表示到期
	Volatility      float64
	RiskFreeRate    float64
}

// GetGreeksQuery 希腊字母查询，参数同定价命令
type GetGreeksQuery PriceOptionCommand

func (c PriceOptionCommand) toContract() (domain.OptionContract, error) {
	t, err := domain.ParseOptionType(c.OptionType)
	if err != nil {
		return domain.OptionContract{}, err
	}
	return domain.OptionContract{
		Spot:         c.UnderlyingPrice,
		Strike:       c.StrikePrice,
		TimeToExpiry: c.TimeToExpiry,
		RiskFreeRate: c.RiskFreeRate,
		Volatility:   c.Volatility,
		Type:         t,
	}, nil
}

// OptionPriceDTO 定价结果，Price 保留两位小数
type OptionPriceDTO struct {
	OptionType   string  `json:"option_type"`
	Price        string  `json:"price"`
	RawPrice     float64 `json:"raw_price"`
	Degenerate   bool    `json:"degenerate"`
	PricingModel string  `json:"pricing_model"`
	CalculatedAt int64   `json:"calculated_at"`
}

// GreeksDTO 希腊字母结果
type GreeksDTO struct {
	OptionType string `json:"option_type"`
	Price      string `json:"price"`
	Delta      string `json:"delta"`
	Gamma      string `json:"gamma"`
	Theta      string `json:"theta"`
	Vega       string `json:"vega"`
	Rho        string `json:"rho"`
	Degenerate bool   `json:"degenerate"`
}

func toOptionPriceDTO(r *domain.PricingResult, raw float64) *OptionPriceDTO {
	return &OptionPriceDTO{
		OptionType:   string(r.OptionType),
		Price:        r.OptionPrice.StringFixed(2),
		RawPrice:     raw,
		Degenerate:   r.Degenerate,
		PricingModel: r.PricingModel,
		CalculatedAt: r.CalculatedAt,
	}
}

func toGreeksDTO(r *domain.PricingResult) *GreeksDTO {
	return &GreeksDTO{
		OptionType: string(r.OptionType),
		Price:      r.OptionPrice.StringFixed(2),
		Delta:      r.Delta.StringFixed(6),
		Gamma:      r.Gamma.StringFixed(6),
		Theta:      r.Theta.StringFixed(6),
		Vega:       r.Vega.StringFixed(6),
		Rho:        r.Rho.StringFixed(6),
		Degenerate: r.Degenerate,
	}
}

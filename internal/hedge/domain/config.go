// 包 对冲头寸模拟的领域模型
package domain

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidPositionConfig 头寸配置非法
var ErrInvalidPositionConfig = errors.New("invalid position config")

// PositionConfig 固定对冲头寸的构造参数
type PositionConfig struct {
	StrikePut           float64 // 看跌期权行权价
	StrikeCall          float64 // 看涨期权行权价
	Rate                float64 // 无风险利率
	IVPut               float64 // 看跌期权波动率
	IVCall              float64 // 看涨期权波动率
	Qty                 float64 // 每条腿数量
	FutureEntryPrice    float64 // 期货开仓价
	InitialTimeToExpiry float64 // 建仓时剩余期限 (年)
	InitialSpot         float64 // 建仓时现价，0 表示取 FutureEntryPrice
}

// DefaultPositionConfig 默认头寸：24000 看跌 / 28000 看涨，数量 2500，期货开仓 24000
func DefaultPositionConfig() PositionConfig {
	return PositionConfig{
		StrikePut:           24000,
		StrikeCall:          28000,
		Rate:                0.10,
		IVPut:               0.18,
		IVCall:              0.14,
		Qty:                 2500,
		FutureEntryPrice:    24000,
		InitialTimeToExpiry: 1.0,
		InitialSpot:         24000,
	}
}

// Validate 校验配置
func (c PositionConfig) Validate() error {
	fields := []struct {
		name string
		val  float64
	}{
		{"strike_put", c.StrikePut},
		{"strike_call", c.StrikeCall},
		{"iv_put", c.IVPut},
		{"iv_call", c.IVCall},
		{"qty", c.Qty},
		{"future_entry_price", c.FutureEntryPrice},
		{"initial_time_to_expiry", c.InitialTimeToExpiry},
		{"initial_spot", c.entrySpot()},
	}
	for _, f := range fields {
		if math.IsNaN(f.val) || math.IsInf(f.val, 0) || f.val <= 0 {
			return fmt.Errorf("%w: %s must be a positive number, got %v", ErrInvalidPositionConfig, f.name, f.val)
		}
	}
	if math.IsNaN(c.Rate) || math.IsInf(c.Rate, 0) {
		return fmt.Errorf("%w: rate must be finite, got %v", ErrInvalidPositionConfig, c.Rate)
	}
	return nil
}

func (c PositionConfig) entrySpot() float64 {
	if c.InitialSpot == 0 {
		return c.FutureEntryPrice
	}
	return c.InitialSpot
}

package domain

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidScenario 情景参数非法
var ErrInvalidScenario = errors.New("invalid scenario")

// Scenario 单次评估的假设行情
type Scenario struct {
	Spot          float64 `json:"spot"`
	TimeRemaining float64 `json:"time_remaining"` // 年，0 表示到期
}

// NewScenario 创建情景
func NewScenario(spot, timeRemaining float64) Scenario {
	return Scenario{Spot: spot, TimeRemaining: timeRemaining}
}

// AtExpiry 到期情景，期权按内在价值计价
func AtExpiry(spot float64) Scenario {
	return Scenario{Spot: spot, TimeRemaining: 0}
}

// IsAtExpiry 是否为到期情景
func (s Scenario) IsAtExpiry() bool {
	return s.TimeRemaining == 0
}

// Validate 要求现价为正且期限非负
func (s Scenario) Validate() error {
	if math.IsNaN(s.Spot) || math.IsInf(s.Spot, 0) || s.Spot <= 0 {
		return fmt.Errorf("%w: spot must be a positive number, got %v", ErrInvalidScenario, s.Spot)
	}
	if math.IsNaN(s.TimeRemaining) || math.IsInf(s.TimeRemaining, 0) || s.TimeRemaining < 0 {
		return fmt.Errorf("%w: time remaining must be >= 0, got %v", ErrInvalidScenario, s.TimeRemaining)
	}
	return nil
}

// MonthsToYears 月数换算为年
func MonthsToYears(months int) float64 {
	return float64(months) / 12
}

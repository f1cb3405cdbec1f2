// 包 定价服务的领域模型
package domain

import (
	"errors"
	"fmt"
	"strings"
)

// OptionType 期权类型
type OptionType string

const (
	OptionTypeCall OptionType = "CALL" // 看涨期权
	OptionTypePut  OptionType = "PUT"  // 看跌期权
)

// DegeneratePrice 模型无定义时返回的价格 (非正的现价/行权价/波动率或负的到期时间)
const DegeneratePrice = 0.0

// ErrInvalidOptionType 期权类型既不是 CALL 也不是 PUT，属于调用方缺陷
var ErrInvalidOptionType = errors.New("invalid option type")

// Valid 是否为已知期权类型
func (t OptionType) Valid() bool {
	return t == OptionTypeCall || t == OptionTypePut
}

// ParseOptionType 解析期权类型，大小写不敏感
func ParseOptionType(s string) (OptionType, error) {
	t := OptionType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidOptionType, s)
	}
	return t, nil
}

// OptionContract 单次定价的合约参数
type OptionContract struct {
	Spot         float64    // 标的资产价格
	Strike       float64    // 行权价
	TimeToExpiry float64    // 到期时间 (年)
	RiskFreeRate float64    // 无风险利率
	Volatility   float64    // 年化波动率
	Type         OptionType // 期权类型 (CALL/PUT)
}

// Greeks 希腊字母
type Greeks struct {
	Delta float64
	Gamma float64
	Theta float64
	Vega  float64
	Rho   float64
}

// Degenerate 模型在该参数下无定义：任一输入非有限，或现价/行权价/波动率非正，或到期时间为负
func (c OptionContract) Degenerate() bool {
	for _, x := range []float64{c.Spot, c.Strike, c.TimeToExpiry, c.RiskFreeRate, c.Volatility} {
		if !finite(x) {
			return true
		}
	}
	return c.Spot <= 0 || c.Strike <= 0 || c.Volatility <= 0 || c.TimeToExpiry < 0
}

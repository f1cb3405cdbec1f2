package domain

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// BlackScholesResult Black-Scholes 模型输出
type BlackScholesResult struct {
	Price float64
	Greeks
}

// Price 计算欧式期权的 Black-Scholes 理论价格
// 期权类型非法时返回 ErrInvalidOptionType；市场参数使模型无定义时返回 DegeneratePrice 且不报错；
// TimeToExpiry 恰为 0 表示到期，直接返回内在价值。返回值总是 >= 0。
func Price(c OptionContract) (float64, error) {
	if !c.Type.Valid() {
		return DegeneratePrice, fmt.Errorf("%w: %q", ErrInvalidOptionType, c.Type)
	}
	if c.Degenerate() {
		return DegeneratePrice, nil
	}
	if c.TimeToExpiry == 0 {
		return Intrinsic(c), nil
	}

	d1, d2 := d1d2(c)
	discounted := c.Strike * math.Exp(-c.RiskFreeRate*c.TimeToExpiry)

	var price float64
	if c.Type == OptionTypeCall {
		price = c.Spot*normCdf(d1) - discounted*normCdf(d2)
	} else {
		price = discounted*normCdf(-d2) - c.Spot*normCdf(-d1)
	}

	if !finite(price) {
		return DegeneratePrice, nil
	}
	// 浮点误差可能产生极小的负值
	return math.Max(price, 0), nil
}

// Intrinsic 内在价值，即立即行权的收益
// CALL: max(S-K, 0)；其余按 PUT 处理: max(K-S, 0)
func Intrinsic(c OptionContract) float64 {
	if c.Type == OptionTypeCall {
		return math.Max(c.Spot-c.Strike, 0)
	}
	return math.Max(c.Strike-c.Spot, 0)
}

// CalculateBlackScholes 计算 Black-Scholes 价格和 Greeks
// 退化输入返回全零结果；到期时价格为内在价值，Delta 为阶跃值，其余 Greeks 为零。
func CalculateBlackScholes(c OptionContract) (*BlackScholesResult, error) {
	price, err := Price(c)
	if err != nil {
		return nil, err
	}
	if c.Degenerate() {
		return &BlackScholesResult{}, nil
	}
	if c.TimeToExpiry == 0 {
		return &BlackScholesResult{Price: price, Greeks: Greeks{Delta: expiryDelta(c)}}, nil
	}

	S, K, T, r, v := c.Spot, c.Strike, c.TimeToExpiry, c.RiskFreeRate, c.Volatility
	sqrtT := math.Sqrt(T)
	d1, d2 := d1d2(c)
	pdfD1 := normPdf(d1)
	discounted := K * math.Exp(-r*T)

	g := Greeks{
		Gamma: pdfD1 / (S * v * sqrtT),
		Vega:  S * pdfD1 * sqrtT,
	}
	if c.Type == OptionTypeCall {
		g.Delta = normCdf(d1)
		g.Theta = -S*pdfD1*v/(2*sqrtT) - r*discounted*normCdf(d2)
		g.Rho = discounted * T * normCdf(d2)
	} else {
		g.Delta = normCdf(d1) - 1
		g.Theta = -S*pdfD1*v/(2*sqrtT) + r*discounted*normCdf(-d2)
		g.Rho = -discounted * T * normCdf(-d2)
	}

	for _, x := range []float64{g.Delta, g.Gamma, g.Theta, g.Vega, g.Rho} {
		if !finite(x) {
			return &BlackScholesResult{Price: price}, nil
		}
	}
	return &BlackScholesResult{Price: price, Greeks: g}, nil
}

func d1d2(c OptionContract) (float64, float64) {
	volSqrtT := c.Volatility * math.Sqrt(c.TimeToExpiry)
	d1 := (math.Log(c.Spot/c.Strike) + (c.RiskFreeRate+0.5*c.Volatility*c.Volatility)*c.TimeToExpiry) / volSqrtT
	return d1, d1 - volSqrtT
}

func expiryDelta(c OptionContract) float64 {
	switch {
	case c.Type == OptionTypeCall && c.Spot > c.Strike:
		return 1
	case c.Type == OptionTypePut && c.Spot < c.Strike:
		return -1
	}
	return 0
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// normCdf 标准正态分布累积分布函数
func normCdf(x float64) float64 {
	return distuv.UnitNormal.CDF(x)
}

// normPdf 标准正态分布概率密度函数
func normPdf(x float64) float64 {
	return distuv.UnitNormal.Prob(x)
}

package application

import (
	"context"
	"fmt"

	"github.com/wyfcoding/optionhedge/internal/pricing/domain"
	"github.com/wyfcoding/optionhedge/pkg/metrics"
)

// PricingQueryService 处理所有定价相关的查询操作（Queries）。
type PricingQueryService struct {
	metrics metrics.MetricsCollector
}

// NewPricingQueryService 构造函数。
func NewPricingQueryService(collector metrics.MetricsCollector) *PricingQueryService {
	if collector == nil {
		collector = metrics.NopCollector{}
	}
	return &PricingQueryService{metrics: collector}
}

// GetGreeks 计算价格与希腊字母
func (s *PricingQueryService) GetGreeks(ctx context.Context, q GetGreeksQuery) (*GreeksDTO, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	contract, err := PriceOptionCommand(q).toContract()
	if err != nil {
		return nil, err
	}

	bs, err := domain.CalculateBlackScholes(contract)
	if err != nil {
		return nil, fmt.Errorf("calculate greeks: %w", err)
	}
	s.metrics.RecordOptionPriced(string(contract.Type), contract.Degenerate())

	return toGreeksDTO(domain.NewPricingResult(contract, bs)), nil
}

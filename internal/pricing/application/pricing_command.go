package application

import (
	"context"
	"fmt"

	"github.com/wyfcoding/optionhedge/internal/pricing/domain"
	"github.com/wyfcoding/optionhedge/pkg/logger"
	"github.com/wyfcoding/optionhedge/pkg/metrics"
)

// PricingCommandService 处理定价相关的命令操作
type PricingCommandService struct {
	publisher domain.EventPublisher
	metrics   metrics.MetricsCollector
}

// NewPricingCommandService 创建新的 PricingCommandService 实例，publisher 可为 nil
func NewPricingCommandService(publisher domain.EventPublisher, collector metrics.MetricsCollector) *PricingCommandService {
	if collector == nil {
		collector = metrics.NopCollector{}
	}
	return &PricingCommandService{
		publisher: publisher,
		metrics:   collector,
	}
}

// PriceOption 期权定价
func (c *PricingCommandService) PriceOption(ctx context.Context, cmd PriceOptionCommand) (*OptionPriceDTO, error) {
	contract, err := cmd.toContract()
	if err != nil {
		return nil, err
	}

	price, err := domain.Price(contract)
	if err != nil {
		return nil, fmt.Errorf("price option: %w", err)
	}

	degenerate := contract.Degenerate()
	c.metrics.RecordOptionPriced(string(contract.Type), degenerate)
	if degenerate {
		logger.Warn(ctx, "degenerate pricing input",
			"option_type", contract.Type,
			"spot", contract.Spot,
			"strike", contract.Strike,
			"time_to_expiry", contract.TimeToExpiry,
			"volatility", contract.Volatility,
		)
	}

	if c.publisher != nil {
		if err := c.publisher.PublishOptionPriced(ctx, domain.NewOptionPricedEvent(contract, price)); err != nil {
			// 事件发布失败不影响定价结果
			logger.Error(ctx, "failed to publish option priced event", "error", err)
		}
	}

	result := domain.NewPricingResult(contract, &domain.BlackScholesResult{Price: price})
	return toOptionPriceDTO(result, price), nil
}

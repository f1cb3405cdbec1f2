package application

import (
	"context"

	"github.com/wyfcoding/optionhedge/internal/pricing/domain"
	"github.com/wyfcoding/optionhedge/pkg/metrics"
)

// PricingService 定价门面服务。
type PricingService struct {
	Command *PricingCommandService
	Query   *PricingQueryService
}

// NewPricingService 构造函数。
func NewPricingService(publisher domain.EventPublisher, collector metrics.MetricsCollector) *PricingService {
	return &PricingService{
		Command: NewPricingCommandService(publisher, collector),
		Query:   NewPricingQueryService(collector),
	}
}

// --- Command Facade ---

func (s *PricingService) PriceOption(ctx context.Context, cmd PriceOptionCommand) (*OptionPriceDTO, error) {
	return s.Command.PriceOption(ctx, cmd)
}

// --- Query Facade ---

func (s *PricingService) GetGreeks(ctx context.Context, q GetGreeksQuery) (*GreeksDTO, error) {
	return s.Query.GetGreeks(ctx, q)
}

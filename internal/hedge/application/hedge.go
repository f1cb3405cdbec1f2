package application

import (
	"context"

	"github.com/wyfcoding/optionhedge/internal/hedge/domain"
	"github.com/wyfcoding/optionhedge/pkg/metrics"
)

// HedgeService 对冲模拟门面服务。
type HedgeService struct {
	Command *HedgeCommandService
	Query   *HedgeQueryService
}

// NewHedgeService 构造函数。
func NewHedgeService(position *domain.Position, publisher domain.EventPublisher, collector metrics.MetricsCollector) *HedgeService {
	return &HedgeService{
		Command: NewHedgeCommandService(position, publisher, collector),
		Query:   NewHedgeQueryService(position),
	}
}

// --- Command Facade ---

func (s *HedgeService) EvaluateScenario(ctx context.Context, cmd EvaluateScenarioCommand) (*PnLReportDTO, error) {
	return s.Command.EvaluateScenario(ctx, cmd)
}

func (s *HedgeService) Sweep(ctx context.Context, cmd SweepCommand) (*SweepResultDTO, error) {
	return s.Command.Sweep(ctx, cmd)
}

// --- Query Facade ---

func (s *HedgeService) GetPosition(ctx context.Context) (*PositionDTO, error) {
	return s.Query.GetPosition(ctx)
}

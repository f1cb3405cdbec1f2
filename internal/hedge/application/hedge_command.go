package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wyfcoding/optionhedge/internal/hedge/domain"
	"github.com/wyfcoding/optionhedge/pkg/logger"
	"github.com/wyfcoding/optionhedge/pkg/metrics"
)

// HedgeCommandService 处理情景评估与网格扫描
type HedgeCommandService struct {
	position  *domain.Position
	publisher domain.EventPublisher
	metrics   metrics.MetricsCollector
}

// NewHedgeCommandService 创建 HedgeCommandService，publisher 可为 nil
func NewHedgeCommandService(position *domain.Position, publisher domain.EventPublisher, collector metrics.MetricsCollector) *HedgeCommandService {
	if collector == nil {
		collector = metrics.NopCollector{}
	}
	return &HedgeCommandService{
		position:  position,
		publisher: publisher,
		metrics:   collector,
	}
}

// EvaluateScenario 评估单个情景
func (s *HedgeCommandService) EvaluateScenario(ctx context.Context, cmd EvaluateScenarioCommand) (*PnLReportDTO, error) {
	scenario := cmd.scenario()
	if err := scenario.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	report := s.position.Evaluate(scenario)
	s.metrics.RecordScenarioEvaluation(time.Since(start))

	logger.Debug(ctx, "scenario evaluated",
		"spot", scenario.Spot,
		"time_remaining", scenario.TimeRemaining,
		"total_pnl", report.TotalPnL,
	)

	if s.publisher != nil {
		if err := s.publisher.PublishScenarioEvaluated(ctx, domain.NewScenarioEvaluatedEvent(report)); err != nil {
			logger.Error(ctx, "failed to publish scenario evaluated event", "error", err)
		}
	}

	dto := toPnLReportDTO(report)
	return &dto, nil
}

// Sweep 并行评估整张情景网格
func (s *HedgeCommandService) Sweep(ctx context.Context, cmd SweepCommand) (*SweepResultDTO, error) {
	grid := cmd.Grid
	if grid.SpotStep == 0 && grid.SpotFrom == 0 && grid.SpotTo == 0 && len(grid.Times) == 0 {
		grid = domain.DefaultGrid()
	}
	batchID := uuid.New().String()

	start := time.Now()
	reports, err := s.position.Sweep(ctx, grid)
	if err != nil {
		return nil, fmt.Errorf("sweep %s: %w", batchID, err)
	}
	elapsed := time.Since(start)
	s.metrics.RecordSweep(len(reports), elapsed)

	logger.Info(ctx, "scenario sweep completed",
		"batch_id", batchID,
		"points", len(reports),
		"duration", elapsed,
	)

	if s.publisher != nil {
		if err := s.publisher.PublishSweepCompleted(ctx, domain.NewSweepCompletedEvent(batchID, grid, reports, elapsed)); err != nil {
			logger.Error(ctx, "failed to publish sweep completed event", "batch_id", batchID, "error", err)
		}
	}

	dtos := make([]PnLReportDTO, len(reports))
	for i, r := range reports {
		dtos[i] = toPnLReportDTO(r)
	}
	return &SweepResultDTO{
		BatchID: batchID,
		Grid:    grid,
		Points:  len(dtos),
		Reports: dtos,
	}, nil
}

package domain

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// MaxGridPoints 单次扫描允许的最大情景数
const MaxGridPoints = 10000

// ErrInvalidGrid 扫描网格非法
var ErrInvalidGrid = errors.New("invalid scenario grid")

// ScenarioGrid 现价区间 [SpotFrom, SpotTo] 按 SpotStep 步进，与每个剩余期限组合
type ScenarioGrid struct {
	SpotFrom float64   `json:"spot_from"`
	SpotTo   float64   `json:"spot_to"`
	SpotStep float64   `json:"spot_step"`
	Times    []float64 `json:"times"`
}

// DefaultGrid 到期时 20000..28000，步长 1000
func DefaultGrid() ScenarioGrid {
	return ScenarioGrid{SpotFrom: 20000, SpotTo: 28000, SpotStep: 1000, Times: []float64{0}}
}

// Validate 校验网格
func (g ScenarioGrid) Validate() error {
	for _, v := range []float64{g.SpotFrom, g.SpotTo, g.SpotStep} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: bounds must be finite", ErrInvalidGrid)
		}
	}
	if g.SpotFrom <= 0 {
		return fmt.Errorf("%w: spot_from must be positive, got %v", ErrInvalidGrid, g.SpotFrom)
	}
	if g.SpotTo < g.SpotFrom {
		return fmt.Errorf("%w: spot_to %v is below spot_from %v", ErrInvalidGrid, g.SpotTo, g.SpotFrom)
	}
	if g.SpotStep <= 0 {
		return fmt.Errorf("%w: spot_step must be positive, got %v", ErrInvalidGrid, g.SpotStep)
	}
	if len(g.Times) == 0 {
		return fmt.Errorf("%w: at least one time is required", ErrInvalidGrid)
	}
	for _, t := range g.Times {
		if math.IsNaN(t) || math.IsInf(t, 0) || t < 0 {
			return fmt.Errorf("%w: time %v must be >= 0", ErrInvalidGrid, t)
		}
	}
	// 先按浮点数比较，避免超大区间转 int 溢出
	if steps := math.Floor((g.SpotTo-g.SpotFrom)/g.SpotStep+1e-9) + 1; steps*float64(len(g.Times)) > MaxGridPoints {
		return fmt.Errorf("%w: grid has more than %d points", ErrInvalidGrid, MaxGridPoints)
	}
	return nil
}

// Spots 网格上的现价，升序
func (g ScenarioGrid) Spots() []float64 {
	n := int(math.Floor((g.SpotTo-g.SpotFrom)/g.SpotStep+1e-9)) + 1
	spots := make([]float64, n)
	for i := range spots {
		// 用乘法而不是累加，避免误差累积
		spots[i] = g.SpotFrom + float64(i)*g.SpotStep
	}
	return spots
}

// Scenarios 按期限优先、现价升序展开网格
func (g ScenarioGrid) Scenarios() []Scenario {
	spots := g.Spots()
	out := make([]Scenario, 0, len(spots)*len(g.Times))
	for _, t := range g.Times {
		for _, s := range spots {
			out = append(out, NewScenario(s, t))
		}
	}
	return out
}

// Sweep 并行评估网格上的全部情景，结果顺序与 Scenarios 一致
func (p *Position) Sweep(ctx context.Context, g ScenarioGrid) ([]PnLReport, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	scenarios := g.Scenarios()
	reports := make([]PnLReport, len(scenarios))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i, s := range scenarios {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			reports[i] = p.Evaluate(s)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

package domain

import (
	"context"
	"errors"
	"math"
	"testing"
)

const (
	wantPutEntry  = 742.9972083549801
	wantCallEntry = 810.405303307838
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func defaultPosition(t *testing.T) *Position {
	t.Helper()
	p, err := NewPosition(DefaultPositionConfig())
	if err != nil {
		t.Fatalf("NewPosition() error = %v", err)
	}
	return p
}

func TestNewPositionEntryPrices(t *testing.T) {
	p := defaultPosition(t)

	if !almostEqual(p.Put().EntryPrice, wantPutEntry, 1e-6) {
		t.Errorf("put entry = %.10f, want %.10f", p.Put().EntryPrice, wantPutEntry)
	}
	if !almostEqual(p.Call().EntryPrice, wantCallEntry, 1e-6) {
		t.Errorf("call entry = %.10f, want %.10f", p.Call().EntryPrice, wantCallEntry)
	}
	if f := p.Future(); f.EntryPrice != 24000 || f.Qty != 2500 || f.Side != SideBuy {
		t.Errorf("future leg = %+v", f)
	}
	if p.Put().Side != SideBuy || p.Call().Side != SideSell {
		t.Errorf("sides put=%s call=%s", p.Put().Side, p.Call().Side)
	}
	if want := 2500*24000 + 2500*wantPutEntry - 2500*wantCallEntry; !almostEqual(p.InitialValue(), want, 1e-3) {
		t.Errorf("InitialValue() = %v, want %v", p.InitialValue(), want)
	}
}

func TestNewPositionInitialSpotDefaultsToFutureEntry(t *testing.T) {
	cfg := DefaultPositionConfig()
	cfg.InitialSpot = 0
	p, err := NewPosition(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if p.Config().InitialSpot != 24000 {
		t.Errorf("InitialSpot = %v, want 24000", p.Config().InitialSpot)
	}
	if !almostEqual(p.Put().EntryPrice, wantPutEntry, 1e-6) {
		t.Errorf("put entry = %v", p.Put().EntryPrice)
	}
}

func TestNewPositionRejectsInvalidConfig(t *testing.T) {
	mutations := map[string]func(*PositionConfig){
		"zero put strike":   func(c *PositionConfig) { c.StrikePut = 0 },
		"negative call":     func(c *PositionConfig) { c.StrikeCall = -1 },
		"zero put vol":      func(c *PositionConfig) { c.IVPut = 0 },
		"nan call vol":      func(c *PositionConfig) { c.IVCall = math.NaN() },
		"zero qty":          func(c *PositionConfig) { c.Qty = 0 },
		"zero entry":        func(c *PositionConfig) { c.FutureEntryPrice = 0 },
		"zero initial time": func(c *PositionConfig) { c.InitialTimeToExpiry = 0 },
		"negative spot":     func(c *PositionConfig) { c.InitialSpot = -24000 },
		"inf rate":          func(c *PositionConfig) { c.Rate = math.Inf(1) },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultPositionConfig()
			mutate(&cfg)
			if _, err := NewPosition(cfg); !errors.Is(err, ErrInvalidPositionConfig) {
				t.Errorf("NewPosition() error = %v, want ErrInvalidPositionConfig", err)
			}
		})
	}
}

func TestEvaluateAtExpiryConcreteScenario(t *testing.T) {
	p := defaultPosition(t)
	r := p.Evaluate(AtExpiry(24000))

	if r.FuturePnL != 0 {
		t.Errorf("FuturePnL = %v, want 0", r.FuturePnL)
	}
	if r.PutPrice != 0 || r.CallPrice != 0 {
		t.Errorf("leg prices at expiry = %v/%v, want 0/0", r.PutPrice, r.CallPrice)
	}
	put, call := p.Put().EntryPrice, p.Call().EntryPrice
	if want := (0 - put) * 2500; r.PutPnL != want {
		t.Errorf("PutPnL = %v, want %v", r.PutPnL, want)
	}
	if want := (call - 0) * 2500; r.CallPnL != want {
		t.Errorf("CallPnL = %v, want %v", r.CallPnL, want)
	}
	if want := -put*2500 + call*2500; !almostEqual(r.TotalPnL, want, 1e-6) {
		t.Errorf("TotalPnL = %v, want %v", r.TotalPnL, want)
	}
	if !almostEqual(r.TotalPnL, 168520.23738214467, 1e-3) {
		t.Errorf("TotalPnL = %.6f, want ~168520.237382", r.TotalPnL)
	}
}

func TestEvaluateSignConventions(t *testing.T) {
	p := defaultPosition(t)
	tests := []struct {
		name string
		s    Scenario
	}{
		{"deep itm put at expiry", AtExpiry(20000)},
		{"itm call at expiry", AtExpiry(30000)},
		{"half year", NewScenario(26000, 0.5)},
		{"one month", NewScenario(23000, MonthsToYears(1))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := p.Evaluate(tt.s)
			if want := (tt.s.Spot - 24000) * 2500; r.FuturePnL != want {
				t.Errorf("FuturePnL = %v, want %v", r.FuturePnL, want)
			}
			if want := (r.PutPrice - p.Put().EntryPrice) * 2500; !almostEqual(r.PutPnL, want, 1e-6) {
				t.Errorf("PutPnL = %v, want %v", r.PutPnL, want)
			}
			if want := (p.Call().EntryPrice - r.CallPrice) * 2500; !almostEqual(r.CallPnL, want, 1e-6) {
				t.Errorf("CallPnL = %v, want %v", r.CallPnL, want)
			}
			if r.TotalPnL != r.FuturePnL+r.PutPnL+r.CallPnL {
				t.Errorf("TotalPnL %v is not the sum of legs", r.TotalPnL)
			}
			if r.Scenario != tt.s {
				t.Errorf("Scenario = %+v, want %+v", r.Scenario, tt.s)
			}
		})
	}
}

func TestEvaluateUsesScenarioTime(t *testing.T) {
	p := defaultPosition(t)
	// 建仓时点重新评估应得到零盈亏
	r := Evaluate(p, 24000, 1)
	if !almostEqual(r.TotalPnL, 0, 1e-9) || r.PutPrice != p.Put().EntryPrice {
		t.Errorf("re-evaluating the entry scenario = %+v", r)
	}
	later := Evaluate(p, 24000, 0.5)
	if later.PutPrice >= r.PutPrice {
		t.Errorf("put should lose time value: %v >= %v", later.PutPrice, r.PutPrice)
	}
}

func TestEvaluateCollarFloor(t *testing.T) {
	p := defaultPosition(t)
	// 到期时低于看跌行权价，看跌保护使总盈亏不再下降
	floor := p.Evaluate(AtExpiry(24000)).TotalPnL
	for _, s := range []float64{20000, 21000, 22000, 23000} {
		if got := p.Evaluate(AtExpiry(s)).TotalPnL; !almostEqual(got, floor, 1e-6) {
			t.Errorf("TotalPnL at %v = %v, want floor %v", s, got, floor)
		}
	}
	// 高于看涨行权价后总盈亏封顶
	capped := p.Evaluate(AtExpiry(28000)).TotalPnL
	if got := p.Evaluate(AtExpiry(32000)).TotalPnL; !almostEqual(got, capped, 1e-6) {
		t.Errorf("TotalPnL at 32000 = %v, want cap %v", got, capped)
	}
}

func TestEvaluateDegenerateScenarioIsTotal(t *testing.T) {
	p := defaultPosition(t)
	r := p.Evaluate(NewScenario(-1, 0.5))
	if r.PutPrice != 0 || r.CallPrice != 0 {
		t.Errorf("degenerate leg prices = %v/%v", r.PutPrice, r.CallPrice)
	}
}

func TestScenarioValidate(t *testing.T) {
	valid := []Scenario{AtExpiry(24000), NewScenario(1, 2)}
	for _, s := range valid {
		if err := s.Validate(); err != nil {
			t.Errorf("Validate(%+v) = %v", s, err)
		}
	}
	invalid := []Scenario{NewScenario(0, 1), NewScenario(24000, -0.1), NewScenario(math.NaN(), 1), NewScenario(24000, math.Inf(1))}
	for _, s := range invalid {
		if err := s.Validate(); !errors.Is(err, ErrInvalidScenario) {
			t.Errorf("Validate(%+v) = %v, want ErrInvalidScenario", s, err)
		}
	}
	if !AtExpiry(1).IsAtExpiry() || NewScenario(1, 0.1).IsAtExpiry() {
		t.Error("IsAtExpiry mismatch")
	}
	if MonthsToYears(6) != 0.5 || MonthsToYears(12) != 1 {
		t.Error("MonthsToYears mismatch")
	}
}

func TestSweepDefaultGrid(t *testing.T) {
	p := defaultPosition(t)
	reports, err := p.Sweep(context.Background(), DefaultGrid())
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}
	if len(reports) != 9 {
		t.Fatalf("got %d reports, want 9", len(reports))
	}
	for i, r := range reports {
		if want := 20000 + float64(i)*1000; r.Scenario.Spot != want || !r.Scenario.IsAtExpiry() {
			t.Errorf("report %d scenario = %+v, want spot %v at expiry", i, r.Scenario, want)
		}
		if r != p.Evaluate(r.Scenario) {
			t.Errorf("report %d differs from direct evaluation", i)
		}
	}
}

func TestSweepOrderIsTimeMajor(t *testing.T) {
	p := defaultPosition(t)
	g := ScenarioGrid{SpotFrom: 22000, SpotTo: 26000, SpotStep: 2000, Times: []float64{0.5, 0}}
	reports, err := p.Sweep(context.Background(), g)
	if err != nil {
		t.Fatal(err)
	}
	want := []Scenario{
		{22000, 0.5}, {24000, 0.5}, {26000, 0.5},
		{22000, 0}, {24000, 0}, {26000, 0},
	}
	if len(reports) != len(want) {
		t.Fatalf("got %d reports", len(reports))
	}
	for i := range want {
		if reports[i].Scenario != want[i] {
			t.Errorf("report %d scenario = %+v, want %+v", i, reports[i].Scenario, want[i])
		}
	}
}

func TestSweepRejectsInvalidGrid(t *testing.T) {
	p := defaultPosition(t)
	grids := map[string]ScenarioGrid{
		"zero step":     {SpotFrom: 1, SpotTo: 2, SpotStep: 0, Times: []float64{0}},
		"reversed":      {SpotFrom: 3, SpotTo: 2, SpotStep: 1, Times: []float64{0}},
		"zero from":     {SpotFrom: 0, SpotTo: 2, SpotStep: 1, Times: []float64{0}},
		"no times":      {SpotFrom: 1, SpotTo: 2, SpotStep: 1},
		"negative time": {SpotFrom: 1, SpotTo: 2, SpotStep: 1, Times: []float64{-1}},
		"too many":      {SpotFrom: 1, SpotTo: 1e9, SpotStep: 1, Times: []float64{0}},
		"nan bound":     {SpotFrom: 1, SpotTo: math.NaN(), SpotStep: 1, Times: []float64{0}},
	}
	for name, g := range grids {
		t.Run(name, func(t *testing.T) {
			if _, err := p.Sweep(context.Background(), g); !errors.Is(err, ErrInvalidGrid) {
				t.Errorf("Sweep() error = %v, want ErrInvalidGrid", err)
			}
		})
	}
}

func TestSweepCancelled(t *testing.T) {
	p := defaultPosition(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.Sweep(ctx, DefaultGrid()); !errors.Is(err, context.Canceled) {
		t.Errorf("Sweep() error = %v, want context.Canceled", err)
	}
}

func TestNewSweepCompletedEvent(t *testing.T) {
	reports := []PnLReport{{TotalPnL: 5}, {TotalPnL: -3}, {TotalPnL: 7}}
	e := NewSweepCompletedEvent("b1", DefaultGrid(), reports, 0)
	if e.Points != 3 || e.MinTotalPnL != -3 || e.MaxTotalPnL != 7 || e.BatchID != "b1" {
		t.Errorf("event = %+v", e)
	}
}

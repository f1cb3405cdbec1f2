package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/wyfcoding/optionhedge/internal/hedge/domain"
	"github.com/wyfcoding/optionhedge/pkg/config"
)

func defaultPosition(t *testing.T) *domain.Position {
	t.Helper()
	cfg, err := config.LoadWithDefaults("testdata/missing.toml")
	if err != nil {
		t.Fatal(err)
	}
	p, err := domain.NewPosition(positionConfig(cfg.Hedge))
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestRunOnceAtExpiry(t *testing.T) {
	var buf bytes.Buffer
	if err := runOnce(&buf, defaultPosition(t), 24000, 0, false); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"BUY PUT entry price: 743.00",
		"SELL CALL entry price: 810.41",
		"future P&L: 0.00",
		"put P&L:    -1857493.02",
		"call P&L:   2026013.26",
		"total P&L:  168520.24",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunOnceSweep(t *testing.T) {
	var buf bytes.Buffer
	if err := runOnce(&buf, defaultPosition(t), 0, 0, true); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	// 两行入场价 + 表头 + 9 个网格点
	if len(lines) != 12 {
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}
	if !strings.HasSuffix(lines[len(lines)-1], "10168520.24") {
		t.Errorf("last row = %q", lines[len(lines)-1])
	}
}

func TestRunOnceRejectsNegativeMonths(t *testing.T) {
	if err := runOnce(&bytes.Buffer{}, defaultPosition(t), 24000, -1, false); err == nil {
		t.Fatal("expected error for negative months")
	}
}

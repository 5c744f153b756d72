package stat

import (
	"testing"

	"github.com/shiryu-mmt/marketreplay/internal/price"
)

func TestUpdateExecuteAccumulatesVolume(t *testing.T) {
	b := NewBuilder(0, 1_000_000_000)
	b.UpdateExecute(1, price.P{Mantissa: 1000, Basis: 4}, 100)
	b.UpdateExecute(1, price.P{Mantissa: 1010, Basis: 4}, 50)
	ivs := b.Intervals()
	if len(ivs) != 1 {
		t.Fatalf("expected 1 interval, got %d", len(ivs))
	}
	if ivs[0].Volume != 150 {
		t.Errorf("expected volume 150, got %d", ivs[0].Volume)
	}
	if ivs[0].High.Mantissa != 1010 || ivs[0].Low.Mantissa != 1000 {
		t.Errorf("unexpected high/low: %+v %+v", ivs[0].High, ivs[0].Low)
	}
}

func TestUpdateExecuteSeparatesIntervals(t *testing.T) {
	b := NewBuilder(0, 1_000_000_000)
	b.UpdateExecute(500_000_000, price.P{Mantissa: 1000, Basis: 4}, 10)
	b.UpdateExecute(1_500_000_000, price.P{Mantissa: 1005, Basis: 4}, 20)
	ivs := b.Intervals()
	if len(ivs) != 2 {
		t.Fatalf("expected 2 intervals, got %d", len(ivs))
	}
}

func TestSummaryRollsUpAcrossIntervals(t *testing.T) {
	b := NewBuilder(0, 1_000_000_000)
	b.UpdateExecute(0, price.P{Mantissa: 1000, Basis: 4}, 10)
	b.UpdateExecute(1_000_000_000, price.P{Mantissa: 900, Basis: 4}, 10)
	b.UpdateExecute(2_000_000_000, price.P{Mantissa: 1100, Basis: 4}, 10)
	s := b.Summary()
	if s.Open.Mantissa != 1000 {
		t.Errorf("expected open 1000, got %d", s.Open.Mantissa)
	}
	if s.Close.Mantissa != 1100 {
		t.Errorf("expected close 1100, got %d", s.Close.Mantissa)
	}
	if s.High.Mantissa != 1100 || s.Low.Mantissa != 900 {
		t.Errorf("unexpected day high/low: %+v %+v", s.High, s.Low)
	}
	if s.TotalVolume != 30 {
		t.Errorf("expected total volume 30, got %d", s.TotalVolume)
	}
}

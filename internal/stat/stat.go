// Package stat implements the interval market-statistics accumulator: the
// consumption/emission contract for per-interval volume, VWAP, OHLC, and
// execute counts, plus LOB level-5 and day-summary scalars. It is
// intentionally a representative subset of the full OHLC carry-forward
// derivation rather than a line-for-line port — see DESIGN.md.
package stat

import (
	"github.com/shopspring/decimal"

	"github.com/shiryu-mmt/marketreplay/internal/book"
	"github.com/shiryu-mmt/marketreplay/internal/price"
)

// Interval accumulates one fixed-width time bucket's trading activity.
type Interval struct {
	Index             int
	Volume            uint64
	PriceVolume       decimal.Decimal
	Open, High, Low, Close price.P
	ExecuteCount      uint64
	hasTrade          bool
}

// VWAP returns the interval's volume-weighted average price, or zero if
// nothing traded.
func (iv *Interval) VWAP() decimal.Decimal {
	if iv.Volume == 0 {
		return decimal.Zero
	}
	return iv.PriceVolume.Div(decimal.NewFromInt(int64(iv.Volume)))
}

// Builder accumulates Intervals keyed by their index, the interval width
// and session start fixed at construction.
type Builder struct {
	startNanos    uint64
	intervalNanos uint64
	intervals     map[int]*Interval
	order         []int
}

// NewBuilder builds an accumulator whose interval 0 begins at
// startNanos (nanoseconds since midnight) and is intervalNanos wide.
func NewBuilder(startNanos, intervalNanos uint64) *Builder {
	return &Builder{startNanos: startNanos, intervalNanos: intervalNanos, intervals: make(map[int]*Interval)}
}

func (b *Builder) indexOf(timeNanos uint64) int {
	if timeNanos < b.startNanos {
		return 0
	}
	return int((timeNanos - b.startNanos) / b.intervalNanos)
}

func (b *Builder) intervalAt(idx int) *Interval {
	iv, ok := b.intervals[idx]
	if !ok {
		iv = &Interval{Index: idx}
		b.intervals[idx] = iv
		b.order = append(b.order, idx)
	}
	return iv
}

// UpdateExecute folds one trade into its interval: volume, VWAP input,
// OHLC, and execute count, grounded on the field contract
// update_execute_msg/update_ohlc consume (price, quantity, timestamp).
func (b *Builder) UpdateExecute(timeNanos uint64, p price.P, qty uint64) {
	iv := b.intervalAt(b.indexOf(timeNanos))
	iv.Volume += qty
	iv.PriceVolume = iv.PriceVolume.Add(decimal.NewFromFloat(p.Float64()).Mul(decimal.NewFromInt(int64(qty))))
	iv.ExecuteCount++
	if !iv.hasTrade {
		iv.Open = p
		iv.High = p
		iv.Low = p
		iv.hasTrade = true
	} else {
		if price.Cmp(p, iv.High) > 0 {
			iv.High = p
		}
		if price.Cmp(p, iv.Low) < 0 {
			iv.Low = p
		}
	}
	iv.Close = p
}

// Intervals returns every accumulated interval in index order.
func (b *Builder) Intervals() []*Interval {
	out := make([]*Interval, 0, len(b.order))
	for _, idx := range b.order {
		out = append(out, b.intervals[idx])
	}
	return out
}

// LOBLevel5 returns the book's best-5-levels volume summary, the LOB
// snapshot the stat blob carries alongside the OHLC arrays.
func LOBLevel5(b *book.Book) book.LevelSummary {
	return b.Levels(5)
}

// DaySummary is the day-level scalar rollup: first open, last close,
// session high/low, and totals across every interval.
type DaySummary struct {
	Open, Close, High, Low price.P
	TotalVolume            uint64
	TotalExecuteCount      uint64
}

// Summary rolls every accumulated interval up into one DaySummary.
func (b *Builder) Summary() DaySummary {
	var s DaySummary
	first := true
	for _, idx := range b.order {
		iv := b.intervals[idx]
		if !iv.hasTrade {
			continue
		}
		if first {
			s.Open = iv.Open
			s.High = iv.High
			s.Low = iv.Low
			first = false
		} else {
			if price.Cmp(iv.High, s.High) > 0 {
				s.High = iv.High
			}
			if price.Cmp(iv.Low, s.Low) < 0 {
				s.Low = iv.Low
			}
		}
		s.Close = iv.Close
		s.TotalVolume += iv.Volume
		s.TotalExecuteCount += iv.ExecuteCount
	}
	return s
}

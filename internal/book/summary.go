package book

import "github.com/shiryu-mmt/marketreplay/internal/price"

// LevelSummary aggregates resting volume by price, best level first, for
// the top n price levels on each side.
type LevelSummary struct {
	Ask map[price.P]uint64
	Bid map[price.P]uint64
}

// Levels returns the volume-by-price summary for the best n levels of
// each side.
func (b *Book) Levels(n int) LevelSummary {
	sum := LevelSummary{Ask: make(map[price.P]uint64), Bid: make(map[price.P]uint64)}
	for _, p := range b.SortedPrices(price.Ask, n) {
		sum.Ask[p] = b.VolumeAt(price.Ask, p)
	}
	for _, p := range b.SortedPrices(price.Bid, n) {
		sum.Bid[p] = b.VolumeAt(price.Bid, p)
	}
	return sum
}

// SpreadLimit computes the ask/bid price bounds spread ticks away from
// the midpoint of the current top of book. mid = floor((ask+bid)/2);
// ask_limit = mid+spread; bid_limit = mid-spread, with bid_limit bumped by
// one tick when ask+bid is odd so the two limits straddle the midpoint
// symmetrically under integer division. If one side is empty, only the
// present side's limit is computed, spread ticks beyond that side's own
// top; the empty side's limit is returned as the zero price.
func (b *Book) SpreadLimit(spread uint64) (askLimit, bidLimit price.P, ok bool) {
	askTop, okA := b.PriceTop(price.Ask)
	bidTop, okB := b.PriceTop(price.Bid)
	switch {
	case !okA && !okB:
		return price.P{}, price.P{}, false
	case !okA:
		return price.P{}, shiftTicks(bidTop, -int64(spread)), true
	case !okB:
		return shiftTicks(askTop, int64(spread)), price.P{}, true
	}
	basis := askTop.Basis
	if bidTop.Basis > basis {
		basis = bidTop.Basis
	}
	a := askTop.Rebase(basis).Mantissa
	bidM := bidTop.Rebase(basis).Mantissa
	sum := a + bidM
	mid := sum / 2
	al := mid + spread
	bl := mid - spread
	if sum%2 != 0 {
		bl++
	}
	return price.P{Mantissa: al, Basis: basis}, price.P{Mantissa: bl, Basis: basis}, true
}

func shiftTicks(p price.P, ticks int64) price.P {
	if ticks >= 0 {
		return price.P{Mantissa: p.Mantissa + uint64(ticks), Basis: p.Basis}
	}
	return price.P{Mantissa: p.Mantissa - uint64(-ticks), Basis: p.Basis}
}

// SpreadSummary returns the volume-by-price summary for every price
// within spread ticks of the midpoint on each side.
func (b *Book) SpreadSummary(spread uint64) LevelSummary {
	sum := LevelSummary{Ask: make(map[price.P]uint64), Bid: make(map[price.P]uint64)}
	askLimit, bidLimit, ok := b.SpreadLimit(spread)
	if !ok {
		return sum
	}
	for _, p := range b.SortedPrices(price.Ask, 0) {
		if price.Cmp(p, askLimit) > 0 {
			break
		}
		sum.Ask[p] = b.VolumeAt(price.Ask, p)
	}
	for _, p := range b.SortedPrices(price.Bid, 0) {
		if price.Cmp(p, bidLimit) < 0 {
			break
		}
		sum.Bid[p] = b.VolumeAt(price.Bid, p)
	}
	return sum
}

// QueueSnapshot is the queue-level detail of one price: every live order
// in priority order.
type QueueSnapshot struct {
	Ask map[price.P][]Order
	Bid map[price.P][]Order
}

// LevelSnapshot returns queue-level detail for the best n price levels of
// each side.
func (b *Book) LevelSnapshot(n int) QueueSnapshot {
	snap := QueueSnapshot{Ask: make(map[price.P][]Order), Bid: make(map[price.P][]Order)}
	for _, p := range b.SortedPrices(price.Ask, n) {
		snap.Ask[p] = b.OrdersAt(price.Ask, p)
	}
	for _, p := range b.SortedPrices(price.Bid, n) {
		snap.Bid[p] = b.OrdersAt(price.Bid, p)
	}
	return snap
}

// SpreadSnapshot returns queue-level detail for every price within spread
// ticks of the midpoint on each side.
func (b *Book) SpreadSnapshot(spread uint64) QueueSnapshot {
	snap := QueueSnapshot{Ask: make(map[price.P][]Order), Bid: make(map[price.P][]Order)}
	askLimit, bidLimit, ok := b.SpreadLimit(spread)
	if !ok {
		return snap
	}
	for _, p := range b.SortedPrices(price.Ask, 0) {
		if price.Cmp(p, askLimit) > 0 {
			break
		}
		snap.Ask[p] = b.OrdersAt(price.Ask, p)
	}
	for _, p := range b.SortedPrices(price.Bid, 0) {
		if price.Cmp(p, bidLimit) < 0 {
			break
		}
		snap.Bid[p] = b.OrdersAt(price.Bid, p)
	}
	return snap
}

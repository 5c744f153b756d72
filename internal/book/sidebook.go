package book

import (
	"github.com/huandu/skiplist"

	"github.com/shiryu-mmt/marketreplay/internal/price"
)

// sideBook is the ordered map from price to the OrderQueue resting there,
// for one side of the book. Ask sides order ascending (best ask lowest),
// bid sides order descending (best bid highest) — achieved by handing the
// skiplist a side-specific comparator rather than wrapping Price itself,
// matching the Ask/Bid-price-wrapper split the algorithm this is grounded
// on uses.
type sideBook struct {
	list *skiplist.SkipList
	side price.Side
}

func newSideBook(side price.Side) *sideBook {
	var cmp skiplist.GreaterThanFunc
	if side == price.Ask {
		cmp = func(lhs, rhs interface{}) int {
			return price.Cmp(lhs.(price.P), rhs.(price.P))
		}
	} else {
		cmp = func(lhs, rhs interface{}) int {
			return price.Cmp(rhs.(price.P), lhs.(price.P))
		}
	}
	return &sideBook{list: skiplist.New(cmp), side: side}
}

func (s *sideBook) queueAt(p price.P) (*OrderQueue, bool) {
	el := s.list.Get(p)
	if el == nil {
		return nil, false
	}
	return el.Value.(*OrderQueue), true
}

func (s *sideBook) queueAtOrCreate(p price.P) *OrderQueue {
	if q, ok := s.queueAt(p); ok {
		return q
	}
	q := newOrderQueue()
	s.list.Set(p, q)
	return q
}

// dropIfEmpty removes the price level entirely once its queue empties —
// an empty queue never persists in the book.
func (s *sideBook) dropIfEmpty(p price.P) {
	if q, ok := s.queueAt(p); ok && q.Empty() {
		s.list.Remove(p)
	}
}

func (s *sideBook) top() (price.P, *OrderQueue, bool) {
	el := s.list.Front()
	if el == nil {
		return price.P{}, nil, false
	}
	return el.Key().(price.P), el.Value.(*OrderQueue), true
}

func (s *sideBook) bottom() (price.P, *OrderQueue, bool) {
	el := s.list.Back()
	if el == nil {
		return price.P{}, nil, false
	}
	return el.Key().(price.P), el.Value.(*OrderQueue), true
}

// sortedPrices returns up to limit prices in priority order, best first.
// limit <= 0 means unbounded.
func (s *sideBook) sortedPrices(limit int) []price.P {
	out := make([]price.P, 0)
	for el := s.list.Front(); el != nil; el = el.Next() {
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, el.Key().(price.P))
	}
	return out
}

func (s *sideBook) totalVolume() uint64 {
	var total uint64
	for el := s.list.Front(); el != nil; el = el.Next() {
		total += el.Value.(*OrderQueue).Volume()
	}
	return total
}

func (s *sideBook) totalOrders() int {
	var total int
	for el := s.list.Front(); el != nil; el = el.Next() {
		total += el.Value.(*OrderQueue).Count()
	}
	return total
}

func (s *sideBook) len() int { return s.list.Len() }

// ordersInPriority returns every live order across all price levels on
// this side, walking in priority's sweep direction: BothDesc sweeps
// levels in the side's natural best-to-worst order (oldest-first within
// each level); BothAsc sweeps worst-to-best (newest-first within each
// level).
func (s *sideBook) ordersInPriority(priority Priority) []Order {
	var out []Order
	if priority == BothAsc {
		for el := s.list.Back(); el != nil; el = el.Prev() {
			out = append(out, el.Value.(*OrderQueue).OrdersPriority(priority)...)
		}
		return out
	}
	for el := s.list.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value.(*OrderQueue).OrdersPriority(priority)...)
	}
	return out
}

// Package book implements the venue-agnostic limit order book: a
// reconstruction of resting orders from a stream of venue events. It does
// not match orders — it mirrors whatever the venue itself reports, the way
// spec.md requires of a reconstruction book rather than a trading engine.
package book

import (
	"fmt"

	"github.com/shiryu-mmt/marketreplay/internal/price"
)

type location struct {
	side  price.Side
	price price.P
}

// Book is a two-sided limit order book indexed by venue order id.
type Book struct {
	ask *sideBook
	bid *sideBook
	loc map[OrderID]location
}

// New creates an empty book.
func New() *Book {
	return &Book{
		ask: newSideBook(price.Ask),
		bid: newSideBook(price.Bid),
		loc: make(map[OrderID]location),
	}
}

func (b *Book) sideOf(s price.Side) *sideBook {
	if s == price.Ask {
		return b.ask
	}
	return b.bid
}

// Insert adds a new order. Returns ErrKeyAlreadyExists if id is already
// resting anywhere in the book.
func (b *Book) Insert(o Order) error {
	if _, ok := b.loc[o.ID]; ok {
		return ErrKeyAlreadyExists
	}
	sb := b.sideOf(o.Side)
	q := sb.queueAtOrCreate(o.Price)
	if err := q.Push(o); err != nil {
		return err
	}
	b.loc[o.ID] = location{side: o.Side, price: o.Price}
	return nil
}

// SortedInsert adds a new order at an explicit queue position instead of
// at the back — used when a venue event carries its own priority (a
// resequenced replay, not ordinary arrival).
func (b *Book) SortedInsert(o Order, at int) error {
	if _, ok := b.loc[o.ID]; ok {
		return ErrKeyAlreadyExists
	}
	sb := b.sideOf(o.Side)
	q := sb.queueAtOrCreate(o.Price)
	if err := q.SortedInsert(o, at); err != nil {
		return err
	}
	b.loc[o.ID] = location{side: o.Side, price: o.Price}
	return nil
}

// Remove deletes id from the book unconditionally (a venue Delete event).
func (b *Book) Remove(id OrderID) (Order, error) {
	loc, ok := b.loc[id]
	if !ok {
		return Order{}, ErrOrderNotFound
	}
	sb := b.sideOf(loc.side)
	q, ok := sb.queueAt(loc.price)
	if !ok {
		return Order{}, ErrOrderNotFound
	}
	o, err := q.Remove(id)
	if err != nil {
		return Order{}, err
	}
	delete(b.loc, id)
	sb.dropIfEmpty(loc.price)
	return o, nil
}

// Reduce lowers id's resting quantity by qty (a venue Cancel, Execute, or
// ExecutedWithPrice event). A qty at or above id's remaining quantity
// clamps to a full removal rather than underflowing, the same as Remove.
func (b *Book) Reduce(id OrderID, qty uint64) error {
	loc, ok := b.loc[id]
	if !ok {
		return ErrOrderNotFound
	}
	sb := b.sideOf(loc.side)
	q, ok := sb.queueAt(loc.price)
	if !ok {
		return ErrOrderNotFound
	}
	if err := q.Reduce(id, qty); err != nil {
		return err
	}
	if _, stillThere := q.Get(id); !stillThere {
		delete(b.loc, id)
	}
	sb.dropIfEmpty(loc.price)
	return nil
}

// Replace atomically removes oldID and inserts newOrder, preserving
// oldID's side regardless of what newOrder.Side says — both ITCH and
// TAQ/Arca replace messages carry the side forward from the order being
// replaced, never re-derived independently (see DESIGN.md Open Question).
// The new order joins the back of its queue; time priority is not kept.
func (b *Book) Replace(oldID OrderID, newOrder Order) error {
	old, err := b.Remove(oldID)
	if err != nil {
		return err
	}
	newOrder.Side = old.Side
	return b.Insert(newOrder)
}

// Get returns the live order for id, if resting anywhere in the book.
func (b *Book) Get(id OrderID) (Order, bool) {
	loc, ok := b.loc[id]
	if !ok {
		return Order{}, false
	}
	q, ok := b.sideOf(loc.side).queueAt(loc.price)
	if !ok {
		return Order{}, false
	}
	return q.Get(id)
}

// Top returns the best (highest priority) order on side s.
func (b *Book) Top(s price.Side) (Order, bool) {
	_, q, ok := b.sideOf(s).top()
	if !ok {
		return Order{}, false
	}
	return q.Front()
}

// PriceTop returns the best price on side s.
func (b *Book) PriceTop(s price.Side) (price.P, bool) {
	p, _, ok := b.sideOf(s).top()
	return p, ok
}

// PriceBottom returns the worst (furthest from market) price on side s.
func (b *Book) PriceBottom(s price.Side) (price.P, bool) {
	p, _, ok := b.sideOf(s).bottom()
	return p, ok
}

// VolumeAt returns the total resting quantity at price p on side s.
func (b *Book) VolumeAt(s price.Side, p price.P) uint64 {
	q, ok := b.sideOf(s).queueAt(p)
	if !ok {
		return 0
	}
	return q.Volume()
}

// TotalVolume returns the total resting quantity across all prices on
// side s.
func (b *Book) TotalVolume(s price.Side) uint64 {
	return b.sideOf(s).totalVolume()
}

// LiveOrderCount returns the number of live orders on side s.
func (b *Book) LiveOrderCount(s price.Side) int {
	return b.sideOf(s).totalOrders()
}

// SortedPrices returns up to limit prices on side s in priority order,
// best first. limit <= 0 means unbounded.
func (b *Book) SortedPrices(s price.Side, limit int) []price.P {
	return b.sideOf(s).sortedPrices(limit)
}

// OrdersAt returns the live orders resting at price p on side s, in
// price-time priority order (oldest first).
func (b *Book) OrdersAt(s price.Side, p price.P) []Order {
	q, ok := b.sideOf(s).queueAt(p)
	if !ok {
		return nil
	}
	return q.Orders()
}

// Priority selects walk direction for priority-aware order enumeration,
// both within one price level and when sweeping across levels. Either
// variant still serves price-time priority; they differ in which end of
// the queue (or which end of the side's price ladder) is served first.
type Priority int

const (
	// BothDesc walks a queue front-to-back (oldest order first) and
	// sweeps price levels in the side's natural best-to-worst order.
	BothDesc Priority = iota
	// BothAsc walks a queue back-to-front (newest order first) and
	// sweeps price levels worst-to-best, the reverse of BothDesc.
	BothAsc
)

// ListResult is the outcome of enumerating orders against a target
// quantity: the orders consumed in priority order, and any shortfall if
// the side didn't hold enough total volume to satisfy target.
type ListResult struct {
	Orders  []Order
	Deficit uint64
}

func sweep(orders []Order, limitQty uint64) ListResult {
	if limitQty == 0 {
		return ListResult{Orders: orders}
	}
	var cum uint64
	for i, o := range orders {
		cum += o.Qty
		if cum >= limitQty {
			return ListResult{Orders: orders[:i+1]}
		}
	}
	return ListResult{Orders: orders, Deficit: limitQty - cum}
}

// ListOrdersAt implements ask_orders_at/bid_orders_at: enumerates live
// orders at price p on side s, walking within the level in the direction
// priority selects, stopping once their cumulative quantity reaches
// limitQty. If the level doesn't hold enough, Deficit reports the
// shortfall. limitQty == 0 means return every order at that price with
// zero deficit.
func (b *Book) ListOrdersAt(s price.Side, p price.P, limitQty uint64, priority Priority) ListResult {
	q, ok := b.sideOf(s).queueAt(p)
	if !ok {
		if limitQty == 0 {
			return ListResult{}
		}
		return ListResult{Deficit: limitQty}
	}
	return sweep(q.OrdersPriority(priority), limitQty)
}

// TotalOrders implements total_ask_orders/total_bid_orders: sweeps price
// levels on side s in priority's direction, accumulating live orders
// until their summed quantity reaches limitQty. limitQty == 0 returns
// every resting order on the side with zero deficit.
func (b *Book) TotalOrders(s price.Side, limitQty uint64, priority Priority) ListResult {
	return sweep(b.sideOf(s).ordersInPriority(priority), limitQty)
}

// ListOrders enumerates every live order on side s across all price
// levels, in full price-time priority order (best price first, oldest
// order first within a price).
func (b *Book) ListOrders(s price.Side) []Order {
	sb := b.sideOf(s)
	var out []Order
	for el := sb.list.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value.(*OrderQueue).Orders()...)
	}
	return out
}

// IntegrityCheck verifies, for every resting price level on both sides,
// that the queue's tracked live count and its reported volume agree with an
// independent recount: count == |{id ∈ queue.ids : id ∈ id_map}| and
// volume == Σ id_map[id].quantity over that same set, where id_map is the
// book's id→location index. A mismatch means a queue's tombstone
// bookkeeping has drifted from the book's own id index. It does not
// mutate the book.
func (b *Book) IntegrityCheck() error {
	if err := b.checkSide(price.Ask); err != nil {
		return err
	}
	return b.checkSide(price.Bid)
}

func (b *Book) checkSide(side price.Side) error {
	sb := b.sideOf(side)
	for el := sb.list.Front(); el != nil; el = el.Next() {
		p := el.Key().(price.P)
		q := el.Value.(*OrderQueue)
		var count int
		var volume uint64
		for _, e := range q.entries {
			loc, ok := b.loc[e.order.ID]
			if !ok || loc.side != side || price.Cmp(loc.price, p) != 0 {
				continue
			}
			count++
			volume += e.order.Qty
		}
		if count != q.Count() {
			return fmt.Errorf("book: %s queue at %s count mismatch: tracked=%d recomputed=%d", side, p, q.Count(), count)
		}
		if volume != q.Volume() {
			return fmt.Errorf("book: %s queue at %s volume mismatch: tracked=%d recomputed=%d", side, p, q.Volume(), volume)
		}
	}
	return nil
}

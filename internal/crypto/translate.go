package crypto

import (
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shiryu-mmt/marketreplay/internal/event"
	"github.com/shiryu-mmt/marketreplay/internal/price"
)

// Basis is the fixed-point basis crypto prices are rebased to before
// entering the book — eight decimal places, enough for the venues this
// translates (most crypto pairs quote to 1e-8 or coarser).
const Basis = 8

// Translator maps the Full channel's UUID order ids onto surrogate
// uint64 ids the book can index, and normalizes Full messages into
// Records.
type Translator struct {
	mu      sync.Mutex
	next    uint64
	ids     map[uuid.UUID]uint64
	records []event.Record
}

// New builds a crypto Full-channel translator.
func New() *Translator {
	return &Translator{ids: make(map[uuid.UUID]uint64), next: 1}
}

func (t *Translator) surrogate(id uuid.UUID) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if v, ok := t.ids[id]; ok {
		return v
	}
	v := t.next
	t.next++
	t.ids[id] = v
	return v
}

func (t *Translator) forget(id uuid.UUID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.ids, id)
}

func sideOf(s Side) price.Side {
	if s == SideSell {
		return price.Ask
	}
	return price.Bid
}

// decimalQty rebases a venue decimal quantity/size string onto the fixed
// Basis used for crypto records, truncating any precision finer than
// that basis.
func decimalQty(d decimal.Decimal) uint64 {
	scaled := d.Shift(Basis).Truncate(0)
	return uint64(scaled.IntPart())
}

func decimalToPrice(d decimal.Decimal) price.P {
	return price.P{Mantissa: decimalQty(d), Basis: Basis}
}

// HandleOpen normalizes an Open message into an Add record.
func (t *Translator) HandleOpen(o Open) event.Record {
	p := decimalToPrice(o.Price)
	r := event.Record{
		Type: event.Add, Time: uint64(o.Time.UnixNano()), OrderID: t.surrogate(o.OrderID),
		Side: uint64(sideOf(o.Side)), Price: p.Mantissa, Qty: decimalQty(o.RemainingSize),
		NextIndex: event.NoNext,
	}
	t.records = append(t.records, r)
	return r
}

// HandleDone normalizes a Done message into a Delete record and forgets
// the order's surrogate id mapping.
func (t *Translator) HandleDone(d Done) event.Record {
	r := event.Record{
		Type: event.Delete, Time: uint64(d.Time.UnixNano()), OrderID: t.surrogate(d.OrderID),
		NextIndex: event.NoNext,
	}
	t.records = append(t.records, r)
	t.forget(d.OrderID)
	return r
}

// HandleMatch normalizes a Match message into an Executed record against
// the maker order (the resting side a trade reduces).
func (t *Translator) HandleMatch(m Match) event.Record {
	r := event.Record{
		Type: event.Executed, Time: uint64(m.Time.UnixNano()), OrderID: t.surrogate(m.MakerOrderID),
		Qty: decimalQty(m.Size), NextIndex: event.NoNext,
	}
	t.records = append(t.records, r)
	return r
}

// HandleChanged normalizes a Changed (decrement) message into a Cancelled
// record for the shrunk quantity.
func (t *Translator) HandleChanged(c Changed) event.Record {
	var delta uint64
	if c.Decrement.OldSize != nil && c.Decrement.NewSize != nil {
		delta = decimalQty(c.Decrement.OldSize.Sub(*c.Decrement.NewSize))
	}
	r := event.Record{
		Type: event.Cancelled, Time: uint64(c.Time.UnixNano()), OrderID: t.surrogate(c.OrderID),
		Qty: delta, NextIndex: event.NoNext,
	}
	t.records = append(t.records, r)
	return r
}

// Records returns the translated stream so far.
func (t *Translator) Records() []event.Record { return t.records }

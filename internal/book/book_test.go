package book

import (
	"testing"

	"github.com/shiryu-mmt/marketreplay/internal/price"
)

func p(mantissa uint64) price.P { return price.P{Mantissa: mantissa, Basis: 4} }

func TestNewBookEmpty(t *testing.T) {
	b := New()
	if _, ok := b.PriceTop(price.Ask); ok {
		t.Errorf("expected no ask top on empty book")
	}
	if _, ok := b.PriceTop(price.Bid); ok {
		t.Errorf("expected no bid top on empty book")
	}
}

func TestInsertAndTop(t *testing.T) {
	b := New()
	if err := b.Insert(Order{ID: 1, Side: price.Ask, Price: p(101), Qty: 10, Time: 1}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := b.Insert(Order{ID: 2, Side: price.Ask, Price: p(100), Qty: 5, Time: 2}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	top, ok := b.PriceTop(price.Ask)
	if !ok || top.Mantissa != 100 {
		t.Errorf("expected best ask 100, got %v ok=%v", top, ok)
	}
}

func TestInsertDuplicateID(t *testing.T) {
	b := New()
	o := Order{ID: 1, Side: price.Bid, Price: p(100), Qty: 1, Time: 1}
	if err := b.Insert(o); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := b.Insert(o); err != ErrKeyAlreadyExists {
		t.Errorf("expected ErrKeyAlreadyExists, got %v", err)
	}
}

func TestReduceRemovesEmptyQueue(t *testing.T) {
	b := New()
	if err := b.Insert(Order{ID: 1, Side: price.Bid, Price: p(100), Qty: 10, Time: 1}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := b.Reduce(1, 10); err != nil {
		t.Fatalf("reduce: %v", err)
	}
	if _, ok := b.Get(1); ok {
		t.Errorf("order should be gone after full reduce")
	}
	if _, ok := b.PriceTop(price.Bid); ok {
		t.Errorf("empty price level should not persist")
	}
}

func TestReduceExceedsQuantityClampsToRemove(t *testing.T) {
	b := New()
	if err := b.Insert(Order{ID: 1, Side: price.Ask, Price: p(100), Qty: 5, Time: 1}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := b.Reduce(1, 6); err != nil {
		t.Errorf("expected reduce past remaining quantity to clamp, got %v", err)
	}
	if _, ok := b.Get(1); ok {
		t.Errorf("order should be gone after a reduce that exceeds remaining quantity")
	}
	if _, ok := b.PriceTop(price.Ask); ok {
		t.Errorf("empty price level should not persist")
	}
}

func TestRemoveUnknown(t *testing.T) {
	b := New()
	if _, err := b.Remove(99); err != ErrOrderNotFound {
		t.Errorf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestReplacePreservesSide(t *testing.T) {
	b := New()
	if err := b.Insert(Order{ID: 1, Side: price.Bid, Price: p(100), Qty: 5, Time: 1}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := b.Replace(1, Order{ID: 2, Side: price.Ask, Price: p(101), Qty: 5, Time: 2}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	o, ok := b.Get(2)
	if !ok {
		t.Fatalf("expected replacement order present")
	}
	if o.Side != price.Bid {
		t.Errorf("expected replacement to keep old side Bid, got %v", o.Side)
	}
}

func TestPriceTimePriorityWithinLevel(t *testing.T) {
	b := New()
	_ = b.Insert(Order{ID: 1, Side: price.Ask, Price: p(100), Qty: 5, Time: 1})
	_ = b.Insert(Order{ID: 2, Side: price.Ask, Price: p(100), Qty: 5, Time: 2})
	orders := b.OrdersAt(price.Ask, p(100))
	if len(orders) != 2 || orders[0].ID != 1 || orders[1].ID != 2 {
		t.Errorf("expected arrival order [1,2], got %v", orders)
	}
}

func TestListOrdersAtDeficit(t *testing.T) {
	b := New()
	_ = b.Insert(Order{ID: 1, Side: price.Bid, Price: p(100), Qty: 5, Time: 1})
	_ = b.Insert(Order{ID: 2, Side: price.Bid, Price: p(100), Qty: 5, Time: 2})
	res := b.ListOrdersAt(price.Bid, p(100), 20, BothDesc)
	if res.Deficit != 10 {
		t.Errorf("expected deficit 10, got %d", res.Deficit)
	}
	if len(res.Orders) != 2 {
		t.Errorf("expected both orders returned, got %d", len(res.Orders))
	}
}

func TestListOrdersAtPriorityDirection(t *testing.T) {
	b := New()
	_ = b.Insert(Order{ID: 1, Side: price.Ask, Price: p(100), Qty: 5, Time: 1})
	_ = b.Insert(Order{ID: 2, Side: price.Ask, Price: p(100), Qty: 5, Time: 2})
	desc := b.ListOrdersAt(price.Ask, p(100), 0, BothDesc)
	if len(desc.Orders) != 2 || desc.Orders[0].ID != 1 || desc.Orders[1].ID != 2 {
		t.Errorf("expected BothDesc oldest-first [1,2], got %v", desc.Orders)
	}
	asc := b.ListOrdersAt(price.Ask, p(100), 0, BothAsc)
	if len(asc.Orders) != 2 || asc.Orders[0].ID != 2 || asc.Orders[1].ID != 1 {
		t.Errorf("expected BothAsc newest-first [2,1], got %v", asc.Orders)
	}
}

func TestTotalOrdersSweepsLevels(t *testing.T) {
	b := New()
	_ = b.Insert(Order{ID: 1, Side: price.Ask, Price: p(100), Qty: 5, Time: 1})
	_ = b.Insert(Order{ID: 2, Side: price.Ask, Price: p(101), Qty: 5, Time: 2})
	desc := b.TotalOrders(price.Ask, 6, BothDesc)
	if len(desc.Orders) != 2 || desc.Orders[0].ID != 1 {
		t.Errorf("expected BothDesc sweep to start at best price (100), got %v", desc.Orders)
	}
	if desc.Deficit != 0 {
		t.Errorf("expected no deficit, got %d", desc.Deficit)
	}
	asc := b.TotalOrders(price.Ask, 6, BothAsc)
	if len(asc.Orders) != 2 || asc.Orders[0].ID != 2 {
		t.Errorf("expected BothAsc sweep to start at worst price (101), got %v", asc.Orders)
	}
}

func TestIntegrityCheckPassesAfterOrdinaryOps(t *testing.T) {
	b := New()
	_ = b.Insert(Order{ID: 1, Side: price.Ask, Price: p(99), Qty: 5, Time: 1})
	_ = b.Insert(Order{ID: 2, Side: price.Bid, Price: p(100), Qty: 5, Time: 2})
	_ = b.Insert(Order{ID: 3, Side: price.Bid, Price: p(100), Qty: 7, Time: 3})
	_ = b.Reduce(3, 2)
	if err := b.IntegrityCheck(); err != nil {
		t.Errorf("expected integrity check to pass, got %v", err)
	}
}

func TestIntegrityCheckDetectsIDMapDrift(t *testing.T) {
	b := New()
	_ = b.Insert(Order{ID: 1, Side: price.Bid, Price: p(100), Qty: 5, Time: 1})
	// Forge a drift between the queue's own entries and the book's id
	// index, without going through Remove/Reduce.
	delete(b.loc, 1)
	if err := b.IntegrityCheck(); err == nil {
		t.Errorf("expected integrity check to detect id map drift")
	}
}

func TestSpreadLimitOddSum(t *testing.T) {
	b := New()
	// ask=101, bid=100 -> sum=201 (odd), mid=100, spread=1 -> ask_limit=101, bid_limit=100
	_ = b.Insert(Order{ID: 1, Side: price.Ask, Price: p(101), Qty: 1, Time: 1})
	_ = b.Insert(Order{ID: 2, Side: price.Bid, Price: p(100), Qty: 1, Time: 2})
	al, bl, ok := b.SpreadLimit(1)
	if !ok {
		t.Fatalf("expected spread limit with both sides present")
	}
	if al.Mantissa != 101 {
		t.Errorf("expected ask_limit 101, got %d", al.Mantissa)
	}
	if bl.Mantissa != 100 {
		t.Errorf("expected bid_limit 100 (bumped for odd sum), got %d", bl.Mantissa)
	}
}

func TestQueueCompaction(t *testing.T) {
	q := newOrderQueue()
	for i := 0; i < 200; i++ {
		_ = q.Push(Order{ID: OrderID(i), Qty: 1})
	}
	for i := 0; i < 150; i++ {
		_, _ = q.Remove(OrderID(i))
	}
	if q.Count() != 50 {
		t.Fatalf("expected 50 live orders, got %d", q.Count())
	}
	if len(q.entries) >= 200 {
		t.Errorf("expected compaction to shrink entries, still at %d", len(q.entries))
	}
}

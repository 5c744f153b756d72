package replay

import (
	"testing"

	"github.com/shiryu-mmt/marketreplay/internal/event"
	"github.com/shiryu-mmt/marketreplay/internal/price"
)

func TestRunBatchesSameTimestamp(t *testing.T) {
	d := New(4, DepthLevel, 5, false)
	records := []event.Record{
		{Type: event.Add, Time: 100, OrderID: 1, Side: uint64(price.Ask), Price: 100, Qty: 10},
		{Type: event.Add, Time: 100, OrderID: 2, Side: uint64(price.Bid), Price: 90, Qty: 5},
		{Type: event.Add, Time: 200, OrderID: 3, Side: uint64(price.Ask), Price: 101, Qty: 3},
	}
	snaps, err := d.Run(records)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(snaps) != 2 {
		t.Fatalf("expected 2 snapshots (one per distinct timestamp), got %d", len(snaps))
	}
	if snaps[0].Time != 100 || snaps[1].Time != 200 {
		t.Errorf("unexpected snapshot timestamps: %v %v", snaps[0].Time, snaps[1].Time)
	}
}

func TestRunAppliesDeleteAndReduce(t *testing.T) {
	d := New(4, DepthLevel, 5, false)
	records := []event.Record{
		{Type: event.Add, Time: 1, OrderID: 1, Side: uint64(price.Bid), Price: 100, Qty: 10},
		{Type: event.Executed, Time: 2, OrderID: 1, Qty: 10},
	}
	if _, err := d.Run(records); err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, ok := d.Book.Get(1); ok {
		t.Errorf("expected order fully executed and gone")
	}
}

func TestRunQueueLevelSnapshot(t *testing.T) {
	d := New(4, DepthLevel, 2, true)
	records := []event.Record{
		{Type: event.Add, Time: 1, OrderID: 1, Side: uint64(price.Ask), Price: 100, Qty: 10},
	}
	snaps, err := d.Run(records)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if snaps[0].Queue == nil {
		t.Fatalf("expected queue snapshot to be populated")
	}
}

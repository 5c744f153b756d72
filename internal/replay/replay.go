// Package replay steps a book forward through a normalized event stream
// in same-timestamp batches, emitting one snapshot per batch — either
// queue-level detail (every resting order) or aggregated volume, at
// either a fixed level depth or a spread-ticks-from-midpoint window.
package replay

import (
	"fmt"

	"github.com/shiryu-mmt/marketreplay/internal/book"
	"github.com/shiryu-mmt/marketreplay/internal/event"
	"github.com/shiryu-mmt/marketreplay/internal/price"
)

// Depth selects whether a Driver's Depth parameter means "best N price
// levels" or "N ticks either side of the midpoint".
type Depth int

const (
	DepthLevel Depth = iota
	DepthSpread
)

// Snapshot is one replay step's output, timestamped to the batch of
// records it was produced from.
type Snapshot struct {
	Time   uint64
	Queue  *book.QueueSnapshot
	Volume *book.LevelSummary
}

// Driver owns the book being replayed into and the snapshot policy
// applied after every same-timestamp batch.
type Driver struct {
	Book       *book.Book
	Basis      uint64
	DepthKind  Depth
	DepthValue uint64
	QueueLevel bool
}

// New builds a replay driver over a fresh book. basis is the fixed-point
// basis every record's Price field is denominated in for this stream.
func New(basis uint64, depthKind Depth, depthValue uint64, queueLevel bool) *Driver {
	return &Driver{Book: book.New(), Basis: basis, DepthKind: depthKind, DepthValue: depthValue, QueueLevel: queueLevel}
}

// Run applies records to the book in same-timestamp batches, emitting one
// Snapshot per batch.
func (d *Driver) Run(records []event.Record) ([]Snapshot, error) {
	var out []Snapshot
	i := 0
	for i < len(records) {
		j := i
		t := records[i].Time
		for j < len(records) && records[j].Time == t {
			if err := d.apply(records[j]); err != nil {
				return out, fmt.Errorf("replay: apply record %d: %w", j, err)
			}
			j++
		}
		out = append(out, d.snapshot(t))
		i = j
	}
	return out, nil
}

func (d *Driver) apply(r event.Record) error {
	switch r.Type {
	case event.Add:
		return d.Book.Insert(book.Order{
			ID: book.OrderID(r.OrderID), Side: price.Side(r.Side),
			Price: price.P{Mantissa: r.Price, Basis: d.Basis}, Qty: r.Qty, Time: r.Time, Info: r.Aux,
		})
	case event.Delete:
		_, err := d.Book.Remove(book.OrderID(r.OrderID))
		return err
	case event.Cancelled, event.Executed, event.ExecutedWithPrice:
		return d.Book.Reduce(book.OrderID(r.OrderID), r.Qty)
	case event.Replace:
		return d.Book.Replace(book.OrderID(r.Aux), book.Order{
			ID: book.OrderID(r.OrderID), Side: price.Side(r.Side),
			Price: price.P{Mantissa: r.Price, Basis: d.Basis}, Qty: r.Qty, Time: r.Time,
		})
	case event.CrossTrade, event.NonCrossTrade:
		return nil
	default:
		return fmt.Errorf("replay: unknown record type %v", r.Type)
	}
}

func (d *Driver) snapshot(t uint64) Snapshot {
	s := Snapshot{Time: t}
	switch d.DepthKind {
	case DepthLevel:
		if d.QueueLevel {
			q := d.Book.LevelSnapshot(int(d.DepthValue))
			s.Queue = &q
		} else {
			v := d.Book.Levels(int(d.DepthValue))
			s.Volume = &v
		}
	case DepthSpread:
		if d.QueueLevel {
			q := d.Book.SpreadSnapshot(d.DepthValue)
			s.Queue = &q
		} else {
			v := d.Book.SpreadSummary(d.DepthValue)
			s.Volume = &v
		}
	}
	return s
}

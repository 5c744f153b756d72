// Package event implements the normalized, venue-agnostic event model that
// every translator (ITCH, TAQ/Arca, crypto Full-channel) decodes into, and
// the fixed-width binary record format that stores them on disk.
package event

// Type enumerates the normalized event kinds every venue translator
// reduces its own wire format down to.
type Type uint64

const (
	Add Type = iota
	Delete
	Cancelled
	Replace
	Executed
	ExecutedWithPrice
	CrossTrade
	NonCrossTrade
)

func (t Type) String() string {
	switch t {
	case Add:
		return "Add"
	case Delete:
		return "Delete"
	case Cancelled:
		return "Cancelled"
	case Replace:
		return "Replace"
	case Executed:
		return "Executed"
	case ExecutedWithPrice:
		return "ExecutedWithPrice"
	case CrossTrade:
		return "CrossTrade"
	case NonCrossTrade:
		return "NonCrossTrade"
	default:
		return "Unknown"
	}
}

// NoNext marks a record whose NextIndex has not yet been back-patched.
const NoNext = ^uint64(0)

// NumFields is the fixed field count of one on-disk record.
const NumFields = 9

// Record is one fixed-width event as it is written to a .bin.zst file, its
// nine fields laid out in the exact order the wire format pins them to:
//
//	0 type, 1 time, 2 reference (OrderID), 3 shares (Qty), 4 price,
//	5 side, 6 original_shares (OrigQty), 7 aux, 8 next_index (NextIndex)
//
// Qty is the per-event share count (executed/cancelled shares, or the
// resulting shares for Add/Replace); OrigQty is the order's resting
// quantity immediately before this event (zero for Add). Aux is
// single-purpose per Type: the mpid compact code on Add, the old order
// reference on Replace, the printable flag on ExecutedWithPrice, the
// encoded cross-type on CrossTrade, zero otherwise. NextIndex is filled in
// later, once a following record referencing the same OrderID is seen —
// it chains every record that touched one order id into a singly-linked
// list so a reader can walk an order's full history without a second
// index.
type Record struct {
	Type      Type
	Time      uint64
	OrderID   uint64
	Qty       uint64
	Price     uint64
	Side      uint64
	OrigQty   uint64
	Aux       uint64
	NextIndex uint64
}

func (r Record) fields() [NumFields]uint64 {
	return [NumFields]uint64{
		uint64(r.Type), r.Time, r.OrderID, r.Qty, r.Price,
		r.Side, r.OrigQty, r.Aux, r.NextIndex,
	}
}

func fromFields(f [NumFields]uint64) Record {
	return Record{
		Type:      Type(f[0]),
		Time:      f[1],
		OrderID:   f[2],
		Qty:       f[3],
		Price:     f[4],
		Side:      f[5],
		OrigQty:   f[6],
		Aux:       f[7],
		NextIndex: f[8],
	}
}

// Package crypto implements the Full-channel (Coinbase-style) websocket
// translator: wire message types, the participant fee-rate decoder (with
// the upstream Maker/Taker defect corrected), and a websocket feed reader
// that normalizes onto the same event.Record stream the ITCH and Arca
// translators produce.
package crypto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Side is the venue's own buy/sell tag on the wire, decoded from JSON
// before being mapped onto price.Side.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// Reason explains why an order left the book.
type Reason string

const (
	ReasonFilled   Reason = "filled"
	ReasonCanceled Reason = "canceled"
)

// PartType is which side of a trade an order profile describes.
type PartType string

const (
	PartMaker PartType = "maker"
	PartTaker PartType = "taker"
)

// OrderProfile is the decoded maker/taker fee-rate pair attached to a
// Match message.
type OrderProfile struct {
	PartType PartType
	FeeRate  decimal.Decimal
}

// Decrement is the three-variant change payload Full emits: a limit order
// shrinking in size, or a market order shrinking in funds or size.
type Decrement struct {
	Price    *decimal.Decimal
	OldSize  *decimal.Decimal
	NewSize  *decimal.Decimal
	OldFunds *decimal.Decimal
	NewFunds *decimal.Decimal
}

// Received is emitted when the matching engine accepts a new order, before
// it rests on the book.
type Received struct {
	Time      time.Time
	ProductID string
	Sequence  uint64
	OrderID   uuid.UUID
	Side      Side
}

// Open is emitted once a received order actually rests on the book.
type Open struct {
	Time          time.Time
	ProductID     string
	Sequence      uint64
	OrderID       uuid.UUID
	Side          Side
	Price         decimal.Decimal
	RemainingSize decimal.Decimal
}

// Done is emitted when an order leaves the book, filled or canceled.
type Done struct {
	Time          time.Time
	ProductID     string
	Sequence      uint64
	OrderID       uuid.UUID
	Side          Side
	Reason        Reason
	Price         *decimal.Decimal
	RemainingSize decimal.Decimal
}

// Match is emitted on every trade.
type Match struct {
	Time         time.Time
	ProductID    string
	Sequence     uint64
	TradeID      uint64
	MakerOrderID uuid.UUID
	TakerOrderID uuid.UUID
	Side         Side
	Size         decimal.Decimal
	Price        decimal.Decimal
	TakerProfile *OrderProfile
	MakerProfile *OrderProfile
}

// Changed is emitted when a resting order's size or funds decrease
// without a trade (a self-trade prevention or a market order partially
// expiring).
type Changed struct {
	Time      time.Time
	ProductID string
	Sequence  uint64
	OrderID   uuid.UUID
	Side      Side
	Decrement Decrement
}

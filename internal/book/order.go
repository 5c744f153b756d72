package book

import "github.com/shiryu-mmt/marketreplay/internal/price"

// OrderID is the venue's own order reference number. ITCH and TAQ/Arca
// both hand out u64 reference numbers directly; the crypto translator
// maps its UUID order ids onto a surrogate OrderID (see internal/crypto).
type OrderID uint64

// Order is one resting order as tracked by the book. Info carries a
// venue-opaque participant code (an mpid compact code on Nasdaq, 0 when
// the venue doesn't report one).
type Order struct {
	ID    OrderID
	Side  price.Side
	Price price.P
	Qty   uint64
	Time  uint64
	Info  uint64
}

// Package account tracks one participant's order lifecycle across three
// books: orders still resting (Pending), the portion that has traded
// (Executed), and the portion withdrawn (Cancelled). A quantity moves
// from Pending into exactly one of the other two as it resolves.
package account

import (
	"github.com/shiryu-mmt/marketreplay/internal/book"
	"github.com/shiryu-mmt/marketreplay/internal/price"
)

// ExecInfo is the quantity and price of one fill against a pending order.
type ExecInfo struct {
	ID    book.OrderID
	Qty   uint64
	Price price.P
}

// CancelInfo is the quantity withdrawn from a pending order.
type CancelInfo struct {
	ID  book.OrderID
	Qty uint64
}

// Account is one participant's order lifecycle, grounded on the pending/
// executed/cancelled three-book split.
type Account struct {
	Pending   *book.Book
	Executed  *book.Book
	Cancelled *book.Book
}

// New returns an empty account.
func New() *Account {
	return &Account{Pending: book.New(), Executed: book.New(), Cancelled: book.New()}
}

// Order records a new resting order for this participant.
func (a *Account) Order(o book.Order) error {
	return a.Pending.Insert(o)
}

// Execute moves qty of a pending order into the executed book at the
// fill price, reducing (or fully removing) the pending order.
func (a *Account) Execute(info ExecInfo) error {
	o, ok := a.Pending.Get(info.ID)
	if !ok {
		return book.ErrOrderNotFound
	}
	if err := a.Pending.Reduce(info.ID, info.Qty); err != nil {
		return err
	}
	return accumulate(a.Executed, book.Order{ID: info.ID, Side: o.Side, Price: info.Price, Qty: info.Qty, Time: o.Time})
}

// Cancel moves qty of a pending order into the cancelled book at the
// order's own resting price.
func (a *Account) Cancel(info CancelInfo) error {
	o, ok := a.Pending.Get(info.ID)
	if !ok {
		return book.ErrOrderNotFound
	}
	if err := a.Pending.Reduce(info.ID, info.Qty); err != nil {
		return err
	}
	return accumulate(a.Cancelled, book.Order{ID: info.ID, Side: o.Side, Price: o.Price, Qty: info.Qty, Time: o.Time})
}

// accumulate adds o's quantity to whatever is already resting under o.ID
// in b, rather than erroring on a duplicate key — executed/cancelled
// books track a running total per order id, not one-shot inserts.
func accumulate(b *book.Book, o book.Order) error {
	if existing, ok := b.Get(o.ID); ok {
		if _, err := b.Remove(o.ID); err != nil {
			return err
		}
		o.Qty += existing.Qty
	}
	return b.Insert(o)
}

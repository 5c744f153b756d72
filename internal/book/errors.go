package book

import "errors"

// Error taxonomy for book operations. These are invariant violations per
// spec.md §7 — a caller encountering one has fed the book a sequence of
// events that contradicts what the book already holds.
var (
	ErrKeyAlreadyExists = errors.New("book: order id already exists")
	ErrOrderNotFound    = errors.New("book: order id not found")
	ErrPriceNotFound    = errors.New("book: no orders resting at price")
)

// Package reassemble implements the high-availability reassembler: a
// per-product sequence buffer that merges redundant copies of the same
// feed from multiple sources, delivering each sequence number exactly
// once and reporting a gap only once every source has moved past it, plus
// the connection supervisor that keeps those sources alive.
package reassemble

// Loss reports a sequence number that no source ever delivered, even
// though every source has since moved past it — a genuine gap, not a
// transient ordering artifact, and not treated as an error (spec.md §7:
// SequenceGap is not an error).
type Loss struct {
	ProductID string
	Sequence  uint64
}

// Buffer reassembles one product's sequence stream out of numSources
// redundant copies. The first copy of a given sequence number to arrive,
// from any source, wins; later duplicates are dropped silently.
type Buffer[T any] struct {
	productID string
	readSeq   uint64
	writeSeqs []uint64
	queue     []*T
}

// NewBuffer builds a reassembly buffer for productID fed by numSources
// redundant connections, seeded from firstSeen — the first sequence
// number ever observed on this product, so read_seq starts one behind it
// (firstSeen-1) rather than at zero. Without this seed, a product whose
// stream doesn't start at sequence 1 would read its own startup as a gap.
func NewBuffer[T any](productID string, numSources int, firstSeen uint64) *Buffer[T] {
	return &Buffer[T]{productID: productID, readSeq: firstSeen - 1, writeSeqs: make([]uint64, numSources)}
}

// Write records data for seq as reported by source (an index into the
// buffer's numSources). Returns true if this write was the first to
// claim seq.
func (b *Buffer[T]) Write(source int, seq uint64, data T) bool {
	if seq > b.writeSeqs[source] {
		b.writeSeqs[source] = seq
	}
	if seq <= b.readSeq {
		return false
	}
	need := int(seq - b.readSeq)
	for len(b.queue) < need {
		b.queue = append(b.queue, nil)
	}
	pos := need - 1
	first := b.queue[pos] == nil
	if first {
		v := data
		b.queue[pos] = &v
	}
	return first
}

// Read pops the next in-order item if one is ready. If it isn't, but
// every source has already advanced past the current read position, the
// gap is reported as a Loss and the read position advances anyway — a
// missing sequence number can't block the stream forever once every
// source agrees it's gone.
func (b *Buffer[T]) Read() (data T, loss *Loss, ready bool) {
	if len(b.queue) == 0 {
		return data, nil, false
	}
	if b.queue[0] != nil {
		data = *b.queue[0]
		b.queue = b.queue[1:]
		b.readSeq++
		return data, nil, true
	}
	for _, ws := range b.writeSeqs {
		if ws <= b.readSeq {
			return data, nil, false
		}
	}
	lost := b.readSeq + 1
	b.queue = b.queue[1:]
	b.readSeq++
	return data, &Loss{ProductID: b.productID, Sequence: lost}, false
}

package event

// Status is the translation-time bookkeeping kept per live order id so a
// later event touching the same id can locate and back-patch the record
// that preceded it. It is never part of the order book itself — the book
// only ever sees fully-formed Records, never Status.
type Status struct {
	Price uint64
	Side  uint64
	Qty   uint64
	Index uint64
	Info  uint64
}

// StatusMap tracks one Status per live order id during translation.
type StatusMap struct {
	m map[uint64]Status
}

// NewStatusMap returns an empty status map.
func NewStatusMap() *StatusMap {
	return &StatusMap{m: make(map[uint64]Status)}
}

// BackPatch, given the record slice being built and the id of the order a
// new record at newIndex just touched, sets the NextIndex field of the
// order's previous record (if any) to newIndex — chaining the two
// together.
func (sm *StatusMap) BackPatch(records []Record, id uint64, newIndex uint64) {
	if st, ok := sm.m[id]; ok {
		records[st.Index].NextIndex = newIndex
	}
}

// Update records id's latest touch point.
func (sm *StatusMap) Update(id uint64, st Status) {
	sm.m[id] = st
}

// Get returns id's current status, if the order is still live.
func (sm *StatusMap) Get(id uint64) (Status, bool) {
	st, ok := sm.m[id]
	return st, ok
}

// Delete removes id once the order is fully gone (Delete or a fill that
// exhausts it) — a later reference to the same numeric id (venues reuse
// reference numbers) starts a fresh chain.
func (sm *StatusMap) Delete(id uint64) {
	delete(sm.m, id)
}

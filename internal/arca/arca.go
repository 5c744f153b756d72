// Package arca implements the NYSE Arca / TAQ Integrated Feed translator.
// Its message shape mirrors ITCH's (AddOrder/DeleteOrder/OrderCancelled/
// ReplaceOrder/OrderExecuted/OrderExecutedWithPrice/CrossTrade/
// NonCrossTrade) but ReplaceOrder here always carries the replaced
// order's own side forward rather than trusting a side field on the
// message — Arca's replace message doesn't report a side at all.
package arca

import (
	"github.com/rs/zerolog"

	"github.com/shiryu-mmt/marketreplay/internal/event"
	"github.com/shiryu-mmt/marketreplay/internal/obslog"
	"github.com/shiryu-mmt/marketreplay/internal/price"
)

// CrossType mirrors taq-rust's enums.rs CrossType values relevant to the
// abort conditions below.
type CrossType byte

const (
	CrossOpening CrossType = iota
	CrossClosing
	CrossIPOOrHalted
	CrossIntraday
	CrossExtendedTradingClose
)

// Message is one decoded Arca event.
type Message struct {
	Time uint64
	Body Body
}

// BodyKind discriminates Body's active field.
type BodyKind int

const (
	BodyAddOrder BodyKind = iota
	BodyDeleteOrder
	BodyOrderCancelled
	BodyReplaceOrder
	BodyOrderExecuted
	BodyOrderExecutedWithPrice
	BodyCrossTrade
	BodyNonCrossTrade
)

// Body is the union of Arca message payloads.
type Body struct {
	Kind BodyKind

	Reference    uint64
	NewReference uint64
	Shares       uint64
	Price        price.P
	Side         price.Side
	MPID         uint64
	Cancelled    uint64
	Executed     uint64
	CrossType    CrossType
}

// Translator applies a decoded Arca message stream to a normalized
// Record sequence, the same shape ITCH's translator produces, so
// downstream replay/summary code never needs to know which venue a file
// came from.
type Translator struct {
	log     zerolog.Logger
	status  *event.StatusMap
	records []event.Record
	aborted bool
}

// New builds an Arca translator.
func New(log zerolog.Logger) *Translator {
	return &Translator{log: log, status: event.NewStatusMap()}
}

// emit appends r and counts it towards the translation-volume metric.
func (t *Translator) emit(r event.Record) {
	t.records = append(t.records, r)
	obslog.RecordsTranslated.WithLabelValues("arca").Inc()
}

// Handle applies one message, exactly mirroring mmm-nyse's book.rs
// dispatch. AddOrder always emits a plain Add record; reference numbers
// that arrive out of order are not detected or treated differently.
func (t *Translator) Handle(m Message) bool {
	if t.aborted {
		return false
	}
	switch m.Body.Kind {
	case BodyAddOrder:
		idx := uint64(len(t.records))
		t.emit(event.Record{
			Type: event.Add, Time: m.Time, OrderID: m.Body.Reference, Side: uint64(m.Body.Side),
			Price: m.Body.Price.Mantissa, Qty: m.Body.Shares, Aux: m.Body.MPID, NextIndex: event.NoNext,
		})
		t.status.Update(m.Body.Reference, event.Status{
			Price: m.Body.Price.Mantissa, Side: uint64(m.Body.Side), Qty: m.Body.Shares, Index: idx,
		})
	case BodyDeleteOrder:
		idx := uint64(len(t.records))
		t.status.BackPatch(t.records, m.Body.Reference, idx)
		t.emit(event.Record{
			Type: event.Delete, Time: m.Time, OrderID: m.Body.Reference, NextIndex: event.NoNext,
		})
		t.status.Delete(m.Body.Reference)
	case BodyOrderCancelled:
		t.reduce(m.Time, m.Body.Reference, event.Cancelled, m.Body.Cancelled)
	case BodyReplaceOrder:
		old, ok := t.status.Get(m.Body.Reference)
		idx := uint64(len(t.records))
		t.status.BackPatch(t.records, m.Body.Reference, idx)
		side := price.Side(0)
		var origQty uint64
		if ok {
			side = price.Side(old.Side)
			origQty = old.Qty
		}
		t.emit(event.Record{
			Type: event.Replace, Time: m.Time, OrderID: m.Body.NewReference, Side: uint64(side),
			Price: m.Body.Price.Mantissa, Qty: m.Body.Shares, OrigQty: origQty,
			Aux: m.Body.Reference, NextIndex: event.NoNext,
		})
		t.status.Delete(m.Body.Reference)
		t.status.Update(m.Body.NewReference, event.Status{
			Price: m.Body.Price.Mantissa, Side: uint64(side), Qty: m.Body.Shares, Index: idx,
		})
	case BodyOrderExecuted:
		t.reduce(m.Time, m.Body.Reference, event.Executed, m.Body.Executed)
	case BodyOrderExecutedWithPrice:
		t.reduce(m.Time, m.Body.Reference, event.ExecutedWithPrice, m.Body.Executed)
	case BodyCrossTrade:
		if m.Body.CrossType == CrossIPOOrHalted || m.Body.CrossType == CrossIntraday {
			t.log.Warn().Msg("abnormal cross trade, aborting")
			t.aborted = true
			return false
		}
		t.emit(event.Record{Type: event.CrossTrade, Time: m.Time, NextIndex: event.NoNext})
	case BodyNonCrossTrade:
		t.emit(event.Record{Type: event.NonCrossTrade, Time: m.Time, NextIndex: event.NoNext})
	}
	return true
}

func (t *Translator) reduce(ts uint64, ref uint64, typ event.Type, qty uint64) {
	st, ok := t.status.Get(ref)
	idx := uint64(len(t.records))
	t.status.BackPatch(t.records, ref, idx)
	r := event.Record{Type: typ, Time: ts, OrderID: ref, Qty: qty, NextIndex: event.NoNext}
	if ok {
		r.OrigQty = st.Qty
	}
	t.emit(r)
	if ok {
		if qty >= st.Qty {
			t.status.Delete(ref)
		} else {
			st.Qty -= qty
			st.Index = idx
			t.status.Update(ref, st)
		}
	}
}

// Records returns the translated stream.
func (t *Translator) Records() []event.Record { return t.records }

// Aborted reports whether translation stopped early on a cross-trade
// abort condition.
func (t *Translator) Aborted() bool { return t.aborted }

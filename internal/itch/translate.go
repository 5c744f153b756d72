package itch

import (
	"encoding/binary"

	"github.com/rs/zerolog"

	"github.com/shiryu-mmt/marketreplay/internal/event"
	"github.com/shiryu-mmt/marketreplay/internal/obslog"
	"github.com/shiryu-mmt/marketreplay/internal/price"
)

// Translator converts one stock's ITCH message stream into normalized
// Records, back-patching NextIndex chains as it goes, and building the
// side files (mpid map, NOII, BBO) spec.md §6 describes as the full
// output set for a prepped file.
type Translator struct {
	Stock string
	log   zerolog.Logger

	status  *event.StatusMap
	records []event.Record
	noii    []event.Record
	bbo     []event.Record
	mpid    map[uint32]string

	bestAsk, bestBid int64
	aborted          bool
}

// NewTranslator builds a translator for one stock symbol.
func NewTranslator(stock string, log zerolog.Logger) *Translator {
	return &Translator{
		Stock:    stock,
		log:      log.With().Str("stock", stock).Logger(),
		status:   event.NewStatusMap(),
		mpid:     make(map[uint32]string),
		bestAsk:  -1,
		bestBid:  -1,
	}
}

// Handle applies one decoded message to the translator, appending zero or
// more normalized records. It returns false once the stock has been
// aborted (a halt/cross/broken-trade condition spec.md documents as
// venue-reported, not a parse failure) — the caller should stop feeding
// this translator further messages for the stock.
func (t *Translator) Handle(m Message) bool {
	if t.aborted {
		return false
	}
	if !inSession(m.Time) {
		return true
	}
	switch m.Body.Kind {
	case kindAddOrder, kindAddOrderMPID:
		t.add(m)
	case kindOrderExecuted:
		t.reduce(m, event.Executed, m.Body.Shares, price.P{})
	case kindOrderExecutedPrice:
		t.reduce(m, event.ExecutedWithPrice, m.Body.Shares, m.Body.Price)
	case kindOrderCancel:
		t.reduce(m, event.Cancelled, m.Body.Shares, price.P{})
	case kindOrderDelete:
		t.delete(m)
	case kindOrderReplace:
		t.replace(m)
	case kindCrossTrade:
		if m.Body.CrossType == crossIPOOrHalted || m.Body.CrossType == crossIntraday {
			t.log.Warn().Uint8("cross_type", m.Body.CrossType).Msg("abnormal cross trade, aborting stock")
			t.aborted = true
			return false
		}
		t.appendRaw(event.CrossTrade, m, 0, 0, price.P{}, 0)
	case kindBrokenTrade:
		t.log.Warn().Msg("broken trade, aborting stock")
		t.aborted = true
		return false
	case kindTradingAction:
		switch m.Body.TradingState {
		case tradingHalted, tradingPaused, tradingQuotationOnly:
			t.log.Warn().Uint8("state", m.Body.TradingState).Msg("trading halted/paused, aborting stock")
			t.aborted = true
			return false
		}
	case kindParticipantPos:
		t.mpid[m.Body.MPID] = mpidString(m.Body.MPID)
	case kindNOII:
		t.noii = append(t.noii, event.Record{
			Type: event.NonCrossTrade, Time: m.Time, Qty: uint64(m.Body.Shares), NextIndex: event.NoNext,
		})
	case kindTrade:
		t.appendRaw(event.NonCrossTrade, m, uint64(m.Body.Side), m.Body.OrderRef, m.Body.Price, m.Body.Shares)
	}
	return true
}

const (
	crossIPOOrHalted byte = 2
	crossIntraday    byte = 3

	tradingHalted        byte = 'H'
	tradingPaused        byte = 'P'
	tradingQuotationOnly byte = 'Q'
)

// emit appends r and counts it towards the translation-volume metric.
func (t *Translator) emit(r event.Record) {
	t.records = append(t.records, r)
	obslog.RecordsTranslated.WithLabelValues("nasdaq").Inc()
}

func (t *Translator) add(m Message) {
	idx := uint64(len(t.records))
	r := event.Record{
		Type: event.Add, Time: m.Time, OrderID: m.Body.OrderRef,
		Side: uint64(m.Body.Side), Price: m.Body.Price.Mantissa, Qty: uint64(m.Body.Shares),
		Aux: uint64(m.Body.MPID), NextIndex: event.NoNext,
	}
	t.emit(r)
	t.status.Update(m.Body.OrderRef, event.Status{
		Price: m.Body.Price.Mantissa, Side: uint64(m.Body.Side), Qty: uint64(m.Body.Shares),
		Index: idx, Info: uint64(m.Body.MPID),
	})
	t.updateBBO(m.Body.Side, m.Body.Price)
}

func (t *Translator) reduce(m Message, typ event.Type, shares uint32, p price.P) {
	st, ok := t.status.Get(m.Body.OrderRef)
	idx := uint64(len(t.records))
	t.status.BackPatch(t.records, m.Body.OrderRef, idx)
	r := event.Record{
		Type: typ, Time: m.Time, OrderID: m.Body.OrderRef, Qty: uint64(shares), NextIndex: event.NoNext,
	}
	if ok {
		r.OrigQty = st.Qty
	}
	if typ == event.ExecutedWithPrice {
		r.Price = p.Mantissa
	}
	t.emit(r)
	if ok {
		remaining := st.Qty - uint64(shares)
		if remaining == 0 {
			t.status.Delete(m.Body.OrderRef)
		} else {
			st.Qty = remaining
			st.Index = idx
			t.status.Update(m.Body.OrderRef, st)
		}
	}
}

func (t *Translator) delete(m Message) {
	idx := uint64(len(t.records))
	t.status.BackPatch(t.records, m.Body.OrderRef, idx)
	st, ok := t.status.Get(m.Body.OrderRef)
	r := event.Record{
		Type: event.Delete, Time: m.Time, OrderID: m.Body.OrderRef, NextIndex: event.NoNext,
	}
	if ok {
		r.OrigQty = st.Qty
	}
	t.emit(r)
	t.status.Delete(m.Body.OrderRef)
}

func (t *Translator) replace(m Message) {
	old, ok := t.status.Get(m.Body.OrderRef)
	idx := uint64(len(t.records))
	t.status.BackPatch(t.records, m.Body.OrderRef, idx)
	side := m.Body.Side
	r := event.Record{
		Type: event.Replace, Time: m.Time, OrderID: m.Body.NewOrderRef, Side: uint64(side),
		Price: m.Body.Price.Mantissa, Qty: uint64(m.Body.Shares), Aux: m.Body.OrderRef,
		NextIndex: event.NoNext,
	}
	if ok {
		side = price.Side(old.Side)
		r.Side = uint64(side)
		r.OrigQty = old.Qty
	}
	t.emit(r)
	t.status.Delete(m.Body.OrderRef)
	t.status.Update(m.Body.NewOrderRef, event.Status{
		Price: m.Body.Price.Mantissa, Side: uint64(side), Qty: uint64(m.Body.Shares), Index: idx,
	})
	t.updateBBO(side, m.Body.Price)
}

func (t *Translator) appendRaw(typ event.Type, m Message, side, orderID uint64, p price.P, qty uint32) {
	t.emit(event.Record{
		Type: typ, Time: m.Time, OrderID: orderID, Side: side, Price: p.Mantissa,
		Qty: uint64(qty), NextIndex: event.NoNext,
	})
}

func (t *Translator) updateBBO(side price.Side, p price.P) {
	if side == price.Ask {
		if t.bestAsk < 0 || int64(p.Mantissa) < t.bestAsk {
			t.bestAsk = int64(p.Mantissa)
		}
	} else {
		if int64(p.Mantissa) > t.bestBid {
			t.bestBid = int64(p.Mantissa)
		}
	}
	t.bbo = append(t.bbo, event.Record{Price: uint64(t.bestAsk), Aux: uint64(t.bestBid), NextIndex: event.NoNext})
}

// Records returns the translated event stream in emission order.
func (t *Translator) Records() []event.Record { return t.records }

// NOIIRecords returns the NOII imbalance side stream.
func (t *Translator) NOIIRecords() []event.Record { return t.noii }

// BBORecords returns the best-bid/best-ask side stream.
func (t *Translator) BBORecords() []event.Record { return t.bbo }

// MPIDMap returns the compact-code to participant-id table built from
// ParticipantPosition messages.
func (t *Translator) MPIDMap() map[uint32]string { return t.mpid }

// Aborted reports whether this stock's stream hit a halt/cross/broken
// trade condition and stopped translating early.
func (t *Translator) Aborted() bool { return t.aborted }

func mpidString(code uint32) string {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], code)
	return string(b[:])
}

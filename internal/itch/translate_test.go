package itch

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/shiryu-mmt/marketreplay/internal/event"
	"github.com/shiryu-mmt/marketreplay/internal/price"
)

func addMsg(ref uint64, side price.Side, shares uint32, mantissa uint64, t uint64) Message {
	return Message{Time: t, Stock: "AAPL", Body: Body{
		Kind: kindAddOrder, OrderRef: ref, Side: side, Shares: shares,
		Price: price.P{Mantissa: mantissa, Basis: priceBasis},
	}}
}

func TestTranslatorAddThenExecute(t *testing.T) {
	tr := NewTranslator("AAPL", zerolog.Nop())
	tr.Handle(addMsg(1, price.Bid, 100, 1000000, startTimeNanos+1))
	tr.Handle(Message{Time: startTimeNanos + 2, Body: Body{Kind: kindOrderExecuted, OrderRef: 1, Shares: 40}})

	recs := tr.Records()
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if recs[0].Type != event.Add || recs[1].Type != event.Executed {
		t.Errorf("unexpected record types: %v %v", recs[0].Type, recs[1].Type)
	}
	if recs[0].NextIndex != 1 {
		t.Errorf("expected back-patch to point at index 1, got %d", recs[0].NextIndex)
	}
}

func TestTranslatorReplacePreservesSide(t *testing.T) {
	tr := NewTranslator("AAPL", zerolog.Nop())
	tr.Handle(addMsg(1, price.Ask, 100, 1000000, startTimeNanos+1))
	tr.Handle(Message{Time: startTimeNanos + 2, Body: Body{
		Kind: kindOrderReplace, OrderRef: 1, NewOrderRef: 2, Shares: 50,
		Price: price.P{Mantissa: 1010000, Basis: priceBasis},
	}})
	recs := tr.Records()
	if recs[1].Side != uint64(price.Ask) {
		t.Errorf("expected replace to keep Ask side, got %d", recs[1].Side)
	}
	if recs[1].OrigQty != 100 {
		t.Errorf("expected replace to carry the old order's resting quantity 100, got %d", recs[1].OrigQty)
	}
}

func TestTranslatorExecutePopulatesOrigQty(t *testing.T) {
	tr := NewTranslator("AAPL", zerolog.Nop())
	tr.Handle(addMsg(1, price.Bid, 100, 1000000, startTimeNanos+1))
	tr.Handle(Message{Time: startTimeNanos + 2, Body: Body{Kind: kindOrderExecuted, OrderRef: 1, Shares: 40}})
	recs := tr.Records()
	if recs[1].OrigQty != 100 {
		t.Errorf("expected executed record to carry pre-event quantity 100, got %d", recs[1].OrigQty)
	}
	if recs[1].Qty != 40 {
		t.Errorf("expected executed record shares to be 40, got %d", recs[1].Qty)
	}
}

func TestTranslatorOutOfSessionIgnored(t *testing.T) {
	tr := NewTranslator("AAPL", zerolog.Nop())
	tr.Handle(addMsg(1, price.Bid, 100, 1000000, 1))
	if len(tr.Records()) != 0 {
		t.Errorf("expected out-of-session message to be dropped")
	}
}

func TestTranslatorAbortsOnHalt(t *testing.T) {
	tr := NewTranslator("AAPL", zerolog.Nop())
	cont := tr.Handle(Message{Time: startTimeNanos + 1, Body: Body{Kind: kindTradingAction, TradingState: tradingHalted}})
	if cont {
		t.Errorf("expected Handle to report stop after halt")
	}
	if !tr.Aborted() {
		t.Errorf("expected translator to be aborted")
	}
}

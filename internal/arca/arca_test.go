package arca

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/shiryu-mmt/marketreplay/internal/event"
	"github.com/shiryu-mmt/marketreplay/internal/price"
)

func TestReplaceOrderKeepsOldSide(t *testing.T) {
	tr := New(zerolog.Nop())
	tr.Handle(Message{Time: 1, Body: Body{Kind: BodyAddOrder, Reference: 1, Side: price.Bid, Shares: 10, Price: price.P{Mantissa: 100, Basis: 4}}})
	tr.Handle(Message{Time: 2, Body: Body{Kind: BodyReplaceOrder, Reference: 1, NewReference: 2, Shares: 20, Price: price.P{Mantissa: 101, Basis: 4}}})
	recs := tr.Records()
	if recs[1].Side != uint64(price.Bid) {
		t.Errorf("expected replace to inherit Bid side, got %d", recs[1].Side)
	}
}

func TestOrderExecutedReducesAndDeletes(t *testing.T) {
	tr := New(zerolog.Nop())
	tr.Handle(Message{Time: 1, Body: Body{Kind: BodyAddOrder, Reference: 1, Side: price.Ask, Shares: 10, Price: price.P{Mantissa: 100, Basis: 4}}})
	tr.Handle(Message{Time: 2, Body: Body{Kind: BodyOrderExecuted, Reference: 1, Executed: 10}})
	recs := tr.Records()
	if recs[1].Type != event.Executed || recs[1].Qty != 10 {
		t.Errorf("unexpected executed record: %+v", recs[1])
	}
	if recs[0].NextIndex != 1 {
		t.Errorf("expected back-patch NextIndex=1, got %d", recs[0].NextIndex)
	}
}

func TestAbortsOnIntradayCross(t *testing.T) {
	tr := New(zerolog.Nop())
	cont := tr.Handle(Message{Time: 1, Body: Body{Kind: BodyCrossTrade, CrossType: CrossIntraday}})
	if cont || !tr.Aborted() {
		t.Errorf("expected abort on intraday cross")
	}
}

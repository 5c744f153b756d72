package crypto

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shiryu-mmt/marketreplay/internal/event"
	"github.com/shiryu-mmt/marketreplay/internal/price"
)

func TestDecodeFeeRatesTakerOnly(t *testing.T) {
	taker := "0.003"
	profile, err := DecodeFeeRates(FeeRates{Taker: &taker})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if profile.PartType != PartTaker {
		t.Errorf("expected PartTaker for a lone taker fee rate, got %v", profile.PartType)
	}
}

func TestDecodeFeeRatesMakerOnly(t *testing.T) {
	maker := "0.001"
	profile, err := DecodeFeeRates(FeeRates{Maker: &maker})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if profile.PartType != PartMaker {
		t.Errorf("expected PartMaker, got %v", profile.PartType)
	}
}

func TestDecodeFeeRatesEmpty(t *testing.T) {
	profile, err := DecodeFeeRates(FeeRates{})
	if err != nil || profile != nil {
		t.Errorf("expected nil profile for empty fee rates, got %v %v", profile, err)
	}
}

func TestHandleOpenProducesAddRecord(t *testing.T) {
	tr := New()
	id := uuid.New()
	r := tr.HandleOpen(Open{
		Time: time.Unix(0, 1000), OrderID: id, Side: SideBuy,
		Price: decimal.NewFromFloat(100.5), RemainingSize: decimal.NewFromFloat(2),
	})
	if r.Type != event.Add {
		t.Errorf("expected Add record, got %v", r.Type)
	}
	if r.Side != uint64(price.Bid) {
		t.Errorf("expected Bid side for buy, got %d", r.Side)
	}
}

func TestHandleDoneForgetsSurrogate(t *testing.T) {
	tr := New()
	id := uuid.New()
	tr.HandleOpen(Open{Time: time.Unix(0, 1), OrderID: id, Side: SideSell, Price: decimal.NewFromInt(1), RemainingSize: decimal.NewFromInt(1)})
	first := tr.surrogate(id)
	tr.HandleDone(Done{Time: time.Unix(0, 2), OrderID: id})
	second := tr.surrogate(id)
	if first == second {
		t.Errorf("expected a fresh surrogate id after forget, got same id %d twice", first)
	}
}

package crypto

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// FeeRates is the raw wire shape of a Match message's participant fee
// fields: at most one of maker/taker is ever populated.
type FeeRates struct {
	Maker *string `json:"maker_fee_rate,omitempty"`
	Taker *string `json:"taker_fee_rate,omitempty"`
}

// DecodeFeeRates turns the raw wire pair into an OrderProfile. The
// upstream decoder this is grounded on maps a lone taker fee rate onto
// PartType::Maker — a defect spec.md calls out explicitly. Here a taker
// rate decodes to PartTaker and a maker rate to PartMaker, matching what
// each field actually means.
func DecodeFeeRates(fr FeeRates) (*OrderProfile, error) {
	switch {
	case fr.Maker == nil && fr.Taker == nil:
		return nil, nil
	case fr.Maker != nil && fr.Taker == nil:
		rate, err := decimal.NewFromString(*fr.Maker)
		if err != nil {
			return nil, fmt.Errorf("crypto: maker fee rate: %w", err)
		}
		return &OrderProfile{PartType: PartMaker, FeeRate: rate}, nil
	case fr.Maker == nil && fr.Taker != nil:
		rate, err := decimal.NewFromString(*fr.Taker)
		if err != nil {
			return nil, fmt.Errorf("crypto: taker fee rate: %w", err)
		}
		return &OrderProfile{PartType: PartTaker, FeeRate: rate}, nil
	default:
		return nil, fmt.Errorf("crypto: both maker and taker fee rates present")
	}
}

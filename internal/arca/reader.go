package arca

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/shiryu-mmt/marketreplay/internal/price"
)

// Reader parses the NYSE Arca Integrated Feed's daily CSV export, the
// format taq-rust's MessageStream read row by row (one Arca message per
// row, first column a one-letter kind tag). There is no binary framing to
// replicate here — Arca's TAQ distribution is flat CSV, unlike ITCH.
//
// Column layout: kind,reference,new_reference,shares,price_mantissa,side,
// mpid,cancelled,executed,cross_type,timestamp_nanos
type Reader struct {
	cr *csv.Reader
}

// NewReader wraps r as a row-oriented Arca message source.
func NewReader(r io.Reader) *Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true
	return &Reader{cr: cr}
}

// Next reads and parses the next row, returning io.EOF once the stream is
// exhausted.
func (fr *Reader) Next() (Message, error) {
	row, err := fr.cr.Read()
	if err != nil {
		return Message{}, err
	}
	if len(row) < 11 {
		return Message{}, fmt.Errorf("arca: short row, fields=%d", len(row))
	}
	u64 := func(i int) uint64 {
		v, _ := strconv.ParseUint(row[i], 10, 64)
		return v
	}
	ts := u64(10)
	m := Message{Time: ts}
	side := price.Bid
	if row[5] == "S" {
		side = price.Ask
	}
	switch row[0] {
	case "A":
		m.Body = Body{Kind: BodyAddOrder, Reference: u64(1), Shares: u64(3),
			Price: price.P{Mantissa: u64(4), Basis: 4}, Side: side, MPID: u64(6)}
	case "D":
		m.Body = Body{Kind: BodyDeleteOrder, Reference: u64(1)}
	case "X":
		m.Body = Body{Kind: BodyOrderCancelled, Reference: u64(1), Cancelled: u64(7)}
	case "U":
		m.Body = Body{Kind: BodyReplaceOrder, Reference: u64(1), NewReference: u64(2), Shares: u64(3),
			Price: price.P{Mantissa: u64(4), Basis: 4}}
	case "E":
		m.Body = Body{Kind: BodyOrderExecuted, Reference: u64(1), Executed: u64(8)}
	case "C":
		m.Body = Body{Kind: BodyOrderExecutedWithPrice, Reference: u64(1), Executed: u64(8),
			Price: price.P{Mantissa: u64(4), Basis: 4}}
	case "Q":
		m.Body = Body{Kind: BodyCrossTrade, CrossType: CrossType(u64(9))}
	case "T":
		m.Body = Body{Kind: BodyNonCrossTrade, Shares: u64(3), Price: price.P{Mantissa: u64(4), Basis: 4}}
	default:
		return Message{}, fmt.Errorf("arca: unknown row kind %q", row[0])
	}
	return m, nil
}

package itch

import (
	"encoding/binary"
	"fmt"

	"github.com/shiryu-mmt/marketreplay/internal/price"
)

// msgKind mirrors ITCH 5.0's one-byte message type tag.
type msgKind byte

const (
	kindAddOrder           msgKind = 'A'
	kindAddOrderMPID       msgKind = 'F'
	kindOrderExecuted      msgKind = 'E'
	kindOrderExecutedPrice msgKind = 'C'
	kindOrderCancel        msgKind = 'X'
	kindOrderDelete        msgKind = 'D'
	kindOrderReplace       msgKind = 'U'
	kindTrade              msgKind = 'P'
	kindCrossTrade         msgKind = 'Q'
	kindBrokenTrade        msgKind = 'B'
	kindTradingAction      msgKind = 'H'
	kindParticipantPos     msgKind = 'L'
	kindNOII               msgKind = 'I'
)

// priceBasis is ITCH's fixed basis: prices are 4-byte integers denominated
// in 1/10000ths of a dollar.
const priceBasis = 4

// Message is one decoded ITCH event, timestamp already expanded to
// nanoseconds since midnight.
type Message struct {
	Time  uint64
	Stock string
	Body  Body
}

// Body is the union of decoded message payloads. Exactly one of the typed
// fields is meaningful, selected by Kind.
type Body struct {
	Kind msgKind

	OrderRef     uint64
	NewOrderRef  uint64
	Side         price.Side
	Shares       uint32
	Price        price.P
	MPID         uint32
	MatchNumber  uint64
	CrossType    byte
	TradingState byte
}

// Decode parses one ITCH message from its type byte plus payload (the
// payload excludes the 2-byte message-length prefix ITCH wraps every
// message in, which the caller's framing layer strips).
func Decode(kind byte, payload []byte) (Message, error) {
	if len(payload) < 10 {
		return Message{}, fmt.Errorf("itch: short message body, kind=%c len=%d", kind, len(payload))
	}
	ts := timestampNanos(payload[4:10])
	rest := payload[10:]
	m := Message{Time: ts}
	switch msgKind(kind) {
	case kindAddOrder, kindAddOrderMPID:
		if len(rest) < 19 {
			return Message{}, fmt.Errorf("itch: short add-order body")
		}
		ref := binary.BigEndian.Uint64(rest[0:8])
		side := sideOf(rest[8])
		shares := binary.BigEndian.Uint32(rest[9:13])
		stock := stockSymbol(rest[13:21])
		p := binary.BigEndian.Uint32(rest[21:25])
		var mpid uint32
		if msgKind(kind) == kindAddOrderMPID && len(rest) >= 29 {
			mpid = binary.BigEndian.Uint32(rest[25:29])
		}
		m.Stock = stock
		m.Body = Body{Kind: msgKind(kind), OrderRef: ref, Side: side, Shares: shares,
			Price: price.P{Mantissa: uint64(p), Basis: priceBasis}, MPID: mpid}
	case kindOrderExecuted:
		ref := binary.BigEndian.Uint64(rest[0:8])
		shares := binary.BigEndian.Uint32(rest[8:12])
		match := binary.BigEndian.Uint64(rest[12:20])
		m.Body = Body{Kind: kindOrderExecuted, OrderRef: ref, Shares: shares, MatchNumber: match}
	case kindOrderExecutedPrice:
		ref := binary.BigEndian.Uint64(rest[0:8])
		shares := binary.BigEndian.Uint32(rest[8:12])
		match := binary.BigEndian.Uint64(rest[12:20])
		p := binary.BigEndian.Uint32(rest[21:25])
		m.Body = Body{Kind: kindOrderExecutedPrice, OrderRef: ref, Shares: shares, MatchNumber: match,
			Price: price.P{Mantissa: uint64(p), Basis: priceBasis}}
	case kindOrderCancel:
		ref := binary.BigEndian.Uint64(rest[0:8])
		shares := binary.BigEndian.Uint32(rest[8:12])
		m.Body = Body{Kind: kindOrderCancel, OrderRef: ref, Shares: shares}
	case kindOrderDelete:
		ref := binary.BigEndian.Uint64(rest[0:8])
		m.Body = Body{Kind: kindOrderDelete, OrderRef: ref}
	case kindOrderReplace:
		old := binary.BigEndian.Uint64(rest[0:8])
		nw := binary.BigEndian.Uint64(rest[8:16])
		shares := binary.BigEndian.Uint32(rest[16:20])
		p := binary.BigEndian.Uint32(rest[20:24])
		m.Body = Body{Kind: kindOrderReplace, OrderRef: old, NewOrderRef: nw, Shares: shares,
			Price: price.P{Mantissa: uint64(p), Basis: priceBasis}}
	case kindTrade:
		ref := binary.BigEndian.Uint64(rest[0:8])
		side := sideOf(rest[8])
		shares := binary.BigEndian.Uint32(rest[9:13])
		stock := stockSymbol(rest[13:21])
		p := binary.BigEndian.Uint32(rest[21:25])
		match := binary.BigEndian.Uint64(rest[25:33])
		m.Stock = stock
		m.Body = Body{Kind: kindTrade, OrderRef: ref, Side: side, Shares: shares,
			Price: price.P{Mantissa: uint64(p), Basis: priceBasis}, MatchNumber: match}
	case kindCrossTrade:
		shares := binary.BigEndian.Uint64(rest[0:8])
		stock := stockSymbol(rest[8:16])
		p := binary.BigEndian.Uint32(rest[16:20])
		match := binary.BigEndian.Uint64(rest[20:28])
		crossType := rest[28]
		m.Stock = stock
		m.Body = Body{Kind: kindCrossTrade, Shares: uint32(shares),
			Price: price.P{Mantissa: uint64(p), Basis: priceBasis}, MatchNumber: match, CrossType: crossType}
	case kindBrokenTrade:
		match := binary.BigEndian.Uint64(rest[0:8])
		m.Body = Body{Kind: kindBrokenTrade, MatchNumber: match}
	case kindTradingAction:
		stock := stockSymbol(rest[0:8])
		state := rest[8]
		m.Stock = stock
		m.Body = Body{Kind: kindTradingAction, TradingState: state}
	case kindParticipantPos:
		mpid := binary.BigEndian.Uint32(rest[0:4])
		stock := stockSymbol(rest[4:12])
		m.Stock = stock
		m.Body = Body{Kind: kindParticipantPos, MPID: mpid}
	case kindNOII:
		if len(rest) < 16 {
			return Message{}, fmt.Errorf("itch: short NOII body")
		}
		paired := binary.BigEndian.Uint64(rest[0:8])
		m.Body = Body{Kind: kindNOII, Shares: uint32(paired)}
	default:
		return Message{}, fmt.Errorf("itch: unknown message kind %q", string(kind))
	}
	return m, nil
}

func sideOf(b byte) price.Side {
	if b == 'S' {
		return price.Ask
	}
	return price.Bid
}

func stockSymbol(b []byte) string {
	end := len(b)
	for end > 0 && b[end-1] == ' ' {
		end--
	}
	return string(b[:end])
}

// timestampNanos expands ITCH's 6-byte big-endian nanosecond timestamp.
func timestampNanos(b []byte) uint64 {
	var v uint64
	for _, x := range b {
		v = v<<8 | uint64(x)
	}
	return v
}

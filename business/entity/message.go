// Package entity provides entities for business logic.
package entity

import "sort"

// HeaderSize is the length of the common frame header: kind byte, locate
// code, tracking number and the 32-bit nanosecond timestamp.
const HeaderSize = 9

// MaxFrameLength is the longest declared frame ('K'). Carryover between
// Feed calls is always strictly shorter.
const MaxFrameLength = 57

const (
	KindSystemEvent       MessageKind = 'S'
	KindOptionDirectory   MessageKind = 'R'
	KindTradingAction     MessageKind = 'H'
	KindOptionOpen        MessageKind = 'O'
	KindAddOrderShort     MessageKind = 'a'
	KindAddOrderLong      MessageKind = 'A'
	KindAddQuoteShort     MessageKind = 'j'
	KindAddQuoteLong      MessageKind = 'J'
	KindExecuted          MessageKind = 'E'
	KindExecutedWithPrice MessageKind = 'C'
	KindOrderCancel       MessageKind = 'X'
	KindReplaceShort      MessageKind = 'u'
	KindReplaceLong       MessageKind = 'U'
	KindSingleSideDelete  MessageKind = 'D'
	KindSingleSideUpdate  MessageKind = 'G'
	KindQuoteReplaceShort MessageKind = 'k'
	KindQuoteReplaceLong  MessageKind = 'K'
	KindQuoteDelete       MessageKind = 'Y'
	KindCrossTrade        MessageKind = 'Q'
	KindNOII              MessageKind = 'I'
)

type MessageKind byte

// frameLengths is the authoritative total mapping from kind to declared
// frame length. A kind absent here is unrecognized and cannot be skipped:
// without a length there is no safe offset to advance by.
var frameLengths = map[MessageKind]int{
	KindSystemEvent:       10,
	KindOptionDirectory:   44,
	KindTradingAction:     14,
	KindOptionOpen:        14,
	KindAddOrderShort:     26,
	KindAddOrderLong:      30,
	KindAddQuoteShort:     37,
	KindAddQuoteLong:      45,
	KindExecuted:          29,
	KindExecutedWithPrice: 34,
	KindOrderCancel:       21,
	KindReplaceShort:      29,
	KindReplaceLong:       33,
	KindSingleSideDelete:  17,
	KindSingleSideUpdate:  26,
	KindQuoteReplaceShort: 49,
	KindQuoteReplaceLong:  57,
	KindQuoteDelete:       25,
	KindCrossTrade:        30,
	KindNOII:              35,
}

// FrameLength returns the declared frame length for k.
func FrameLength(k MessageKind) (int, bool) {
	l, ok := frameLengths[k]
	return l, ok
}

// Kinds returns every known message kind in type-code order.
func Kinds() []MessageKind {
	res := make([]MessageKind, 0, len(frameLengths))
	for k := range frameLengths {
		res = append(res, k)
	}
	sort.Slice(res, func(i, j int) bool { return res[i] < res[j] })
	return res
}

// Valid checks if the given MessageKind is a known type code.
func (k MessageKind) Valid() bool {
	_, ok := frameLengths[k]
	return ok
}

func (k MessageKind) String() string {
	switch k {
	case KindSystemEvent:
		return "system-event"
	case KindOptionDirectory:
		return "option-directory"
	case KindTradingAction:
		return "trading-action"
	case KindOptionOpen:
		return "option-open"
	case KindAddOrderShort:
		return "add-order-short"
	case KindAddOrderLong:
		return "add-order-long"
	case KindAddQuoteShort:
		return "add-quote-short"
	case KindAddQuoteLong:
		return "add-quote-long"
	case KindExecuted:
		return "executed"
	case KindExecutedWithPrice:
		return "executed-with-price"
	case KindOrderCancel:
		return "order-cancel"
	case KindReplaceShort:
		return "replace-short"
	case KindReplaceLong:
		return "replace-long"
	case KindSingleSideDelete:
		return "single-side-delete"
	case KindSingleSideUpdate:
		return "single-side-update"
	case KindQuoteReplaceShort:
		return "quote-replace-short"
	case KindQuoteReplaceLong:
		return "quote-replace-long"
	case KindQuoteDelete:
		return "quote-delete"
	case KindCrossTrade:
		return "cross-trade"
	case KindNOII:
		return "noii"
	default:
		return "unrecognized"
	}
}

// Header is the common frame header. Timestamp is the wire's 32-bit
// nanosecond field widened to uint64.
type Header struct {
	Kind      MessageKind
	Locate    uint16
	Tracking  uint16
	Timestamp uint64
}

// Message is one decoded frame. Payload holds exactly one of the payload
// structs below, selected by Header.Kind; an unrecognized frame carries
// *Unrecognized and keeps the raw bytes for diagnostics.
type Message struct {
	Header
	Payload interface{}
}

func (m *Message) Reset() {
	m.Header = Header{}
	m.Payload = nil
}

type SystemEvent struct {
	EventCode byte
}

type OptionDirectory struct {
	OptionID         uint32
	Symbol           string
	ExpirationYear   uint8
	ExpirationMonth  uint8
	ExpirationDay    uint8
	StrikePrice      uint32
	OptionType       byte
	Source           uint8
	UnderlyingSymbol string
	ClosingType      byte
	Tradable         byte
	MPV              byte
}

type TradingAction struct {
	OptionID uint32
	State    byte
}

type OptionOpen struct {
	OptionID uint32
	State    byte
}

type AddOrderShort struct {
	OrderRef  uint64
	Side      byte
	Contracts uint16
	OptionID  uint32
	Price     uint16
}

type AddOrderLong struct {
	OrderRef  uint64
	Side      byte
	Contracts uint32
	OptionID  uint32
	Price     uint32
}

type AddQuoteShort struct {
	BidRef   uint64
	AskRef   uint64
	OptionID uint32
	BidPrice uint16
	BidSize  uint16
	AskPrice uint16
	AskSize  uint16
}

type AddQuoteLong struct {
	BidRef   uint64
	AskRef   uint64
	OptionID uint32
	BidPrice uint32
	BidSize  uint32
	AskPrice uint32
	AskSize  uint32
}

type Executed struct {
	OrderRef    uint64
	Contracts   uint32
	CrossNumber uint32
	MatchNumber uint32
}

type ExecutedWithPrice struct {
	OrderRef    uint64
	CrossNumber uint32
	MatchNumber uint32
	Printable   byte
	Price       uint32
	Volume      uint32
}

type OrderCancel struct {
	OrderRef  uint64
	Cancelled uint32
}

type ReplaceShort struct {
	OrigRef uint64
	NewRef  uint64
	Price   uint16
	Size    uint16
}

type ReplaceLong struct {
	OrigRef uint64
	NewRef  uint64
	Price   uint32
	Size    uint32
}

type SingleSideDelete struct {
	OrderRef uint64
}

type SingleSideUpdate struct {
	OrderRef uint64
	Reason   byte
	Price    uint32
	Size     uint32
}

type QuoteReplaceShort struct {
	OrigBidRef uint64
	OrigAskRef uint64
	NewBidRef  uint64
	NewAskRef  uint64
	BidPrice   uint16
	BidSize    uint16
	AskPrice   uint16
	AskSize    uint16
}

type QuoteReplaceLong struct {
	OrigBidRef uint64
	OrigAskRef uint64
	NewBidRef  uint64
	NewAskRef  uint64
	BidPrice   uint32
	BidSize    uint32
	AskPrice   uint32
	AskSize    uint32
}

type QuoteDelete struct {
	BidRef uint64
	AskRef uint64
}

type CrossTrade struct {
	OptionID    uint32
	CrossNumber uint32
	MatchNumber uint32
	CrossType   byte
	Price       uint32
	Volume      uint32
}

type NOII struct {
	AuctionID          uint32
	AuctionType        byte
	PairedContracts    uint32
	ImbalanceSide      byte
	ImbalanceContracts uint32
	ImbalancePrice     uint32
	ImbalanceVolume    uint32
	Reserved           string
}

// Unrecognized retains the raw bytes of a frame whose kind byte is not in
// the length table.
type Unrecognized struct {
	Kind   byte
	Raw    []byte
	Length int
}

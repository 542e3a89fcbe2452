// Package decoder implements the per-kind field decoders of the feed format.
package decoder

import (
	"github.com/forest33/ittofeed/business/entity"
	"github.com/forest33/ittofeed/pkg/wire"
)

// Decoder decodes single complete frames. The returned record and its
// payload are owned by the Decoder and reused: they are valid until the
// next Decode call on the same instance. Handlers that retain a record
// must copy it.
type Decoder struct {
	msg entity.Message

	systemEvent       entity.SystemEvent
	optionDirectory   entity.OptionDirectory
	tradingAction     entity.TradingAction
	optionOpen        entity.OptionOpen
	addOrderShort     entity.AddOrderShort
	addOrderLong      entity.AddOrderLong
	addQuoteShort     entity.AddQuoteShort
	addQuoteLong      entity.AddQuoteLong
	executed          entity.Executed
	executedWithPrice entity.ExecutedWithPrice
	orderCancel       entity.OrderCancel
	replaceShort      entity.ReplaceShort
	replaceLong       entity.ReplaceLong
	singleSideDelete  entity.SingleSideDelete
	singleSideUpdate  entity.SingleSideUpdate
	quoteReplaceShort entity.QuoteReplaceShort
	quoteReplaceLong  entity.QuoteReplaceLong
	quoteDelete       entity.QuoteDelete
	crossTrade        entity.CrossTrade
	noii              entity.NOII
}

func New() *Decoder {
	return &Decoder{}
}

// Decode decodes one frame of exactly the declared length for its kind.
// Offsets follow the vendor record layouts; the length table is the only
// source of frame boundaries.
func (d *Decoder) Decode(frame []byte) (*entity.Message, error) {
	if len(frame) == 0 {
		return nil, entity.ErrEmptyFrame
	}

	kind := entity.MessageKind(frame[0])
	length, ok := entity.FrameLength(kind)
	if !ok {
		return nil, entity.ErrUnknownMessageKind
	}
	if len(frame) != length {
		return nil, entity.ErrWrongFrameLength
	}

	d.msg.Reset()
	d.msg.Kind = kind
	d.msg.Locate = wire.Uint16(frame, 1)
	d.msg.Tracking = wire.Uint16(frame, 3)
	d.msg.Timestamp = uint64(wire.Uint32(frame, 5))

	switch kind {
	case entity.KindSystemEvent:
		d.systemEvent = entity.SystemEvent{
			EventCode: frame[9],
		}
		d.msg.Payload = &d.systemEvent
	case entity.KindOptionDirectory:
		d.optionDirectory = entity.OptionDirectory{
			OptionID:         wire.Uint32(frame, 9),
			Symbol:           wire.Alpha(frame, 13, 6),
			ExpirationYear:   frame[19],
			ExpirationMonth:  frame[20],
			ExpirationDay:    frame[21],
			StrikePrice:      wire.Uint32(frame, 22),
			OptionType:       frame[26],
			Source:           frame[27],
			UnderlyingSymbol: wire.Alpha(frame, 28, 13),
			ClosingType:      frame[41],
			Tradable:         frame[42],
			MPV:              frame[43],
		}
		d.msg.Payload = &d.optionDirectory
	case entity.KindTradingAction:
		d.tradingAction = entity.TradingAction{
			OptionID: wire.Uint32(frame, 9),
			State:    frame[13],
		}
		d.msg.Payload = &d.tradingAction
	case entity.KindOptionOpen:
		d.optionOpen = entity.OptionOpen{
			OptionID: wire.Uint32(frame, 9),
			State:    frame[13],
		}
		d.msg.Payload = &d.optionOpen
	case entity.KindAddOrderShort:
		d.addOrderShort = entity.AddOrderShort{
			OrderRef:  wire.Uint64(frame, 9),
			Side:      frame[17],
			Contracts: wire.Uint16(frame, 18),
			OptionID:  wire.Uint32(frame, 20),
			Price:     wire.Uint16(frame, 24),
		}
		d.msg.Payload = &d.addOrderShort
	case entity.KindAddOrderLong:
		d.addOrderLong = entity.AddOrderLong{
			OrderRef:  wire.Uint64(frame, 9),
			Side:      frame[17],
			Contracts: wire.Uint32(frame, 18),
			OptionID:  wire.Uint32(frame, 22),
			Price:     wire.Uint32(frame, 26),
		}
		d.msg.Payload = &d.addOrderLong
	case entity.KindAddQuoteShort:
		d.addQuoteShort = entity.AddQuoteShort{
			BidRef:   wire.Uint64(frame, 9),
			AskRef:   wire.Uint64(frame, 17),
			OptionID: wire.Uint32(frame, 25),
			BidPrice: wire.Uint16(frame, 29),
			BidSize:  wire.Uint16(frame, 31),
			AskPrice: wire.Uint16(frame, 33),
			AskSize:  wire.Uint16(frame, 35),
		}
		d.msg.Payload = &d.addQuoteShort
	case entity.KindAddQuoteLong:
		d.addQuoteLong = entity.AddQuoteLong{
			BidRef:   wire.Uint64(frame, 9),
			AskRef:   wire.Uint64(frame, 17),
			OptionID: wire.Uint32(frame, 25),
			BidPrice: wire.Uint32(frame, 29),
			BidSize:  wire.Uint32(frame, 33),
			AskPrice: wire.Uint32(frame, 37),
			AskSize:  wire.Uint32(frame, 41),
		}
		d.msg.Payload = &d.addQuoteLong
	case entity.KindExecuted:
		d.executed = entity.Executed{
			OrderRef:    wire.Uint64(frame, 9),
			Contracts:   wire.Uint32(frame, 17),
			CrossNumber: wire.Uint32(frame, 21),
			MatchNumber: wire.Uint32(frame, 25),
		}
		d.msg.Payload = &d.executed
	case entity.KindExecutedWithPrice:
		d.executedWithPrice = entity.ExecutedWithPrice{
			OrderRef:    wire.Uint64(frame, 9),
			CrossNumber: wire.Uint32(frame, 17),
			MatchNumber: wire.Uint32(frame, 21),
			Printable:   frame[25],
			Price:       wire.Uint32(frame, 26),
			Volume:      wire.Uint32(frame, 30),
		}
		d.msg.Payload = &d.executedWithPrice
	case entity.KindOrderCancel:
		d.orderCancel = entity.OrderCancel{
			OrderRef:  wire.Uint64(frame, 9),
			Cancelled: wire.Uint32(frame, 17),
		}
		d.msg.Payload = &d.orderCancel
	case entity.KindReplaceShort:
		d.replaceShort = entity.ReplaceShort{
			OrigRef: wire.Uint64(frame, 9),
			NewRef:  wire.Uint64(frame, 17),
			Price:   wire.Uint16(frame, 25),
			Size:    wire.Uint16(frame, 27),
		}
		d.msg.Payload = &d.replaceShort
	case entity.KindReplaceLong:
		d.replaceLong = entity.ReplaceLong{
			OrigRef: wire.Uint64(frame, 9),
			NewRef:  wire.Uint64(frame, 17),
			Price:   wire.Uint32(frame, 25),
			Size:    wire.Uint32(frame, 29),
		}
		d.msg.Payload = &d.replaceLong
	case entity.KindSingleSideDelete:
		d.singleSideDelete = entity.SingleSideDelete{
			OrderRef: wire.Uint64(frame, 9),
		}
		d.msg.Payload = &d.singleSideDelete
	case entity.KindSingleSideUpdate:
		d.singleSideUpdate = entity.SingleSideUpdate{
			OrderRef: wire.Uint64(frame, 9),
			Reason:   frame[17],
			Price:    wire.Uint32(frame, 18),
			Size:     wire.Uint32(frame, 22),
		}
		d.msg.Payload = &d.singleSideUpdate
	case entity.KindQuoteReplaceShort:
		d.quoteReplaceShort = entity.QuoteReplaceShort{
			OrigBidRef: wire.Uint64(frame, 9),
			OrigAskRef: wire.Uint64(frame, 17),
			NewBidRef:  wire.Uint64(frame, 25),
			NewAskRef:  wire.Uint64(frame, 33),
			BidPrice:   wire.Uint16(frame, 41),
			BidSize:    wire.Uint16(frame, 43),
			AskPrice:   wire.Uint16(frame, 45),
			AskSize:    wire.Uint16(frame, 47),
		}
		d.msg.Payload = &d.quoteReplaceShort
	case entity.KindQuoteReplaceLong:
		d.quoteReplaceLong = entity.QuoteReplaceLong{
			OrigBidRef: wire.Uint64(frame, 9),
			OrigAskRef: wire.Uint64(frame, 17),
			NewBidRef:  wire.Uint64(frame, 25),
			NewAskRef:  wire.Uint64(frame, 33),
			BidPrice:   wire.Uint32(frame, 41),
			BidSize:    wire.Uint32(frame, 45),
			AskPrice:   wire.Uint32(frame, 49),
			AskSize:    wire.Uint32(frame, 53),
		}
		d.msg.Payload = &d.quoteReplaceLong
	case entity.KindQuoteDelete:
		d.quoteDelete = entity.QuoteDelete{
			BidRef: wire.Uint64(frame, 9),
			AskRef: wire.Uint64(frame, 17),
		}
		d.msg.Payload = &d.quoteDelete
	case entity.KindCrossTrade:
		d.crossTrade = entity.CrossTrade{
			OptionID:    wire.Uint32(frame, 9),
			CrossNumber: wire.Uint32(frame, 13),
			MatchNumber: wire.Uint32(frame, 17),
			CrossType:   frame[21],
			Price:       wire.Uint32(frame, 22),
			Volume:      wire.Uint32(frame, 26),
		}
		d.msg.Payload = &d.crossTrade
	case entity.KindNOII:
		d.noii = entity.NOII{
			AuctionID:          wire.Uint32(frame, 9),
			AuctionType:        frame[13],
			PairedContracts:    wire.Uint32(frame, 14),
			ImbalanceSide:      frame[18],
			ImbalanceContracts: wire.Uint32(frame, 19),
			ImbalancePrice:     wire.Uint32(frame, 23),
			ImbalanceVolume:    wire.Uint32(frame, 27),
			Reserved:           wire.Alpha(frame, 31, 4),
		}
		d.msg.Payload = &d.noii
	}

	return &d.msg, nil
}

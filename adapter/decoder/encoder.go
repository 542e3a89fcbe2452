package decoder

import (
	"github.com/forest33/ittofeed/business/entity"
	"github.com/forest33/ittofeed/pkg/wire"
)

// payloadKind maps a payload type back to its kind byte.
func payloadKind(p interface{}) (entity.MessageKind, bool) {
	switch p.(type) {
	case *entity.SystemEvent:
		return entity.KindSystemEvent, true
	case *entity.OptionDirectory:
		return entity.KindOptionDirectory, true
	case *entity.TradingAction:
		return entity.KindTradingAction, true
	case *entity.OptionOpen:
		return entity.KindOptionOpen, true
	case *entity.AddOrderShort:
		return entity.KindAddOrderShort, true
	case *entity.AddOrderLong:
		return entity.KindAddOrderLong, true
	case *entity.AddQuoteShort:
		return entity.KindAddQuoteShort, true
	case *entity.AddQuoteLong:
		return entity.KindAddQuoteLong, true
	case *entity.Executed:
		return entity.KindExecuted, true
	case *entity.ExecutedWithPrice:
		return entity.KindExecutedWithPrice, true
	case *entity.OrderCancel:
		return entity.KindOrderCancel, true
	case *entity.ReplaceShort:
		return entity.KindReplaceShort, true
	case *entity.ReplaceLong:
		return entity.KindReplaceLong, true
	case *entity.SingleSideDelete:
		return entity.KindSingleSideDelete, true
	case *entity.SingleSideUpdate:
		return entity.KindSingleSideUpdate, true
	case *entity.QuoteReplaceShort:
		return entity.KindQuoteReplaceShort, true
	case *entity.QuoteReplaceLong:
		return entity.KindQuoteReplaceLong, true
	case *entity.QuoteDelete:
		return entity.KindQuoteDelete, true
	case *entity.CrossTrade:
		return entity.KindCrossTrade, true
	case *entity.NOII:
		return entity.KindNOII, true
	}
	return 0, false
}

// Marshal encodes a record back into its wire frame. The payload type must
// agree with the header kind.
func Marshal(m *entity.Message) ([]byte, error) {
	length, ok := entity.FrameLength(m.Kind)
	if !ok {
		return nil, entity.ErrUnknownMessageKind
	}
	if k, ok := payloadKind(m.Payload); !ok || k != m.Kind {
		return nil, entity.ErrWrongPayloadType
	}

	frame := make([]byte, length)
	frame[0] = byte(m.Kind)
	wire.PutUint16(frame, 1, m.Locate)
	wire.PutUint16(frame, 3, m.Tracking)
	wire.PutUint32(frame, 5, uint32(m.Timestamp))

	switch p := m.Payload.(type) {
	case *entity.SystemEvent:
		frame[9] = p.EventCode
	case *entity.OptionDirectory:
		wire.PutUint32(frame, 9, p.OptionID)
		wire.PutAlpha(frame, 13, 6, p.Symbol)
		frame[19] = p.ExpirationYear
		frame[20] = p.ExpirationMonth
		frame[21] = p.ExpirationDay
		wire.PutUint32(frame, 22, p.StrikePrice)
		frame[26] = p.OptionType
		frame[27] = p.Source
		wire.PutAlpha(frame, 28, 13, p.UnderlyingSymbol)
		frame[41] = p.ClosingType
		frame[42] = p.Tradable
		frame[43] = p.MPV
	case *entity.TradingAction:
		wire.PutUint32(frame, 9, p.OptionID)
		frame[13] = p.State
	case *entity.OptionOpen:
		wire.PutUint32(frame, 9, p.OptionID)
		frame[13] = p.State
	case *entity.AddOrderShort:
		wire.PutUint64(frame, 9, p.OrderRef)
		frame[17] = p.Side
		wire.PutUint16(frame, 18, p.Contracts)
		wire.PutUint32(frame, 20, p.OptionID)
		wire.PutUint16(frame, 24, p.Price)
	case *entity.AddOrderLong:
		wire.PutUint64(frame, 9, p.OrderRef)
		frame[17] = p.Side
		wire.PutUint32(frame, 18, p.Contracts)
		wire.PutUint32(frame, 22, p.OptionID)
		wire.PutUint32(frame, 26, p.Price)
	case *entity.AddQuoteShort:
		wire.PutUint64(frame, 9, p.BidRef)
		wire.PutUint64(frame, 17, p.AskRef)
		wire.PutUint32(frame, 25, p.OptionID)
		wire.PutUint16(frame, 29, p.BidPrice)
		wire.PutUint16(frame, 31, p.BidSize)
		wire.PutUint16(frame, 33, p.AskPrice)
		wire.PutUint16(frame, 35, p.AskSize)
	case *entity.AddQuoteLong:
		wire.PutUint64(frame, 9, p.BidRef)
		wire.PutUint64(frame, 17, p.AskRef)
		wire.PutUint32(frame, 25, p.OptionID)
		wire.PutUint32(frame, 29, p.BidPrice)
		wire.PutUint32(frame, 33, p.BidSize)
		wire.PutUint32(frame, 37, p.AskPrice)
		wire.PutUint32(frame, 41, p.AskSize)
	case *entity.Executed:
		wire.PutUint64(frame, 9, p.OrderRef)
		wire.PutUint32(frame, 17, p.Contracts)
		wire.PutUint32(frame, 21, p.CrossNumber)
		wire.PutUint32(frame, 25, p.MatchNumber)
	case *entity.ExecutedWithPrice:
		wire.PutUint64(frame, 9, p.OrderRef)
		wire.PutUint32(frame, 17, p.CrossNumber)
		wire.PutUint32(frame, 21, p.MatchNumber)
		frame[25] = p.Printable
		wire.PutUint32(frame, 26, p.Price)
		wire.PutUint32(frame, 30, p.Volume)
	case *entity.OrderCancel:
		wire.PutUint64(frame, 9, p.OrderRef)
		wire.PutUint32(frame, 17, p.Cancelled)
	case *entity.ReplaceShort:
		wire.PutUint64(frame, 9, p.OrigRef)
		wire.PutUint64(frame, 17, p.NewRef)
		wire.PutUint16(frame, 25, p.Price)
		wire.PutUint16(frame, 27, p.Size)
	case *entity.ReplaceLong:
		wire.PutUint64(frame, 9, p.OrigRef)
		wire.PutUint64(frame, 17, p.NewRef)
		wire.PutUint32(frame, 25, p.Price)
		wire.PutUint32(frame, 29, p.Size)
	case *entity.SingleSideDelete:
		wire.PutUint64(frame, 9, p.OrderRef)
	case *entity.SingleSideUpdate:
		wire.PutUint64(frame, 9, p.OrderRef)
		frame[17] = p.Reason
		wire.PutUint32(frame, 18, p.Price)
		wire.PutUint32(frame, 22, p.Size)
	case *entity.QuoteReplaceShort:
		wire.PutUint64(frame, 9, p.OrigBidRef)
		wire.PutUint64(frame, 17, p.OrigAskRef)
		wire.PutUint64(frame, 25, p.NewBidRef)
		wire.PutUint64(frame, 33, p.NewAskRef)
		wire.PutUint16(frame, 41, p.BidPrice)
		wire.PutUint16(frame, 43, p.BidSize)
		wire.PutUint16(frame, 45, p.AskPrice)
		wire.PutUint16(frame, 47, p.AskSize)
	case *entity.QuoteReplaceLong:
		wire.PutUint64(frame, 9, p.OrigBidRef)
		wire.PutUint64(frame, 17, p.OrigAskRef)
		wire.PutUint64(frame, 25, p.NewBidRef)
		wire.PutUint64(frame, 33, p.NewAskRef)
		wire.PutUint32(frame, 41, p.BidPrice)
		wire.PutUint32(frame, 45, p.BidSize)
		wire.PutUint32(frame, 49, p.AskPrice)
		wire.PutUint32(frame, 53, p.AskSize)
	case *entity.QuoteDelete:
		wire.PutUint64(frame, 9, p.BidRef)
		wire.PutUint64(frame, 17, p.AskRef)
	case *entity.CrossTrade:
		wire.PutUint32(frame, 9, p.OptionID)
		wire.PutUint32(frame, 13, p.CrossNumber)
		wire.PutUint32(frame, 17, p.MatchNumber)
		frame[21] = p.CrossType
		wire.PutUint32(frame, 22, p.Price)
		wire.PutUint32(frame, 26, p.Volume)
	case *entity.NOII:
		wire.PutUint32(frame, 9, p.AuctionID)
		frame[13] = p.AuctionType
		wire.PutUint32(frame, 14, p.PairedContracts)
		frame[18] = p.ImbalanceSide
		wire.PutUint32(frame, 19, p.ImbalanceContracts)
		wire.PutUint32(frame, 23, p.ImbalancePrice)
		wire.PutUint32(frame, 27, p.ImbalanceVolume)
		wire.PutAlpha(frame, 31, 4, p.Reserved)
	default:
		return nil, entity.ErrWrongPayloadType
	}

	return frame, nil
}

package dispatch

import (
	"testing"

	"github.com/forest33/ittofeed/business/entity"
	"github.com/forest33/ittofeed/pkg/logger"
)

func newTestSink(sanity bool) *Sink {
	return New(logger.NewDefault(), sanity)
}

func quoteDeleteMsg() *entity.Message {
	return &entity.Message{
		Header:  entity.Header{Kind: entity.KindQuoteDelete},
		Payload: &entity.QuoteDelete{BidRef: 1, AskRef: 2},
	}
}

func TestRegisterReplaces(t *testing.T) {
	s := newTestSink(false)

	var first, second int
	s.Register(entity.KindQuoteDelete, func(*entity.Message) { first++ })
	s.Register(entity.KindQuoteDelete, func(*entity.Message) { second++ })

	s.Emit(quoteDeleteMsg())

	if first != 0 {
		t.Errorf("replaced handler called %d times", first)
	}
	if second != 1 {
		t.Errorf("active handler called %d times, want 1", second)
	}
}

func TestDefaultHandler(t *testing.T) {
	s := newTestSink(false)

	var specific, fallback int
	s.Register(entity.KindQuoteDelete, func(*entity.Message) { specific++ })
	s.RegisterDefault(func(*entity.Message) { fallback++ })

	s.Emit(quoteDeleteMsg())
	s.Emit(&entity.Message{
		Header:  entity.Header{Kind: entity.KindSystemEvent},
		Payload: &entity.SystemEvent{EventCode: 'O'},
	})

	if specific != 1 || fallback != 1 {
		t.Errorf("specific = %d, fallback = %d", specific, fallback)
	}
	if s.Dropped() != 0 {
		t.Errorf("dropped = %d", s.Dropped())
	}
}

func TestUnregisteredDropped(t *testing.T) {
	s := newTestSink(false)

	s.Emit(quoteDeleteMsg())
	s.Emit(quoteDeleteMsg())

	if s.Dropped() != 2 {
		t.Errorf("dropped = %d, want 2", s.Dropped())
	}
}

func TestSanityCheckStillDelivers(t *testing.T) {
	s := newTestSink(true)

	var delivered int
	s.Register(entity.KindAddOrderShort, func(*entity.Message) { delivered++ })

	s.Emit(&entity.Message{
		Header: entity.Header{Kind: entity.KindAddOrderShort},
		Payload: &entity.AddOrderShort{
			OrderRef: 1, Side: 0x00, Contracts: 0, OptionID: 7, Price: 5,
		},
	})

	if delivered != 1 {
		t.Errorf("delivered = %d, want 1", delivered)
	}
	if s.Malformed() != 1 {
		t.Errorf("malformed = %d, want 1", s.Malformed())
	}
}

func TestSanityCheckCleanRecord(t *testing.T) {
	s := newTestSink(true)
	s.RegisterDefault(func(*entity.Message) {})

	s.Emit(&entity.Message{
		Header: entity.Header{Kind: entity.KindAddOrderShort},
		Payload: &entity.AddOrderShort{
			OrderRef: 1, Side: 'B', Contracts: 2, OptionID: 7, Price: 5,
		},
	})

	if s.Malformed() != 0 {
		t.Errorf("malformed = %d, want 0", s.Malformed())
	}
}

func TestSetSanityCheck(t *testing.T) {
	s := newTestSink(false)
	s.RegisterDefault(func(*entity.Message) {})

	malformed := &entity.Message{
		Header: entity.Header{Kind: entity.KindAddOrderShort},
		Payload: &entity.AddOrderShort{
			OrderRef: 1, Side: 0x00, Contracts: 0, OptionID: 7, Price: 5,
		},
	}

	s.Emit(malformed)
	if s.Malformed() != 0 {
		t.Errorf("malformed = %d before enabling", s.Malformed())
	}

	s.SetSanityCheck(true)
	s.Emit(malformed)
	if s.Malformed() != 1 {
		t.Errorf("malformed = %d, want 1", s.Malformed())
	}

	s.SetSanityCheck(false)
	s.Emit(malformed)
	if s.Malformed() != 1 {
		t.Errorf("malformed = %d after disabling, want 1", s.Malformed())
	}
}

func TestUnrecognizedHook(t *testing.T) {
	s := newTestSink(false)

	var gotKind byte
	var gotPos uint64
	s.RegisterUnrecognized(func(rec *entity.Unrecognized, position uint64) {
		gotKind = rec.Kind
		gotPos = position
	})

	s.Unrecognized(&entity.Unrecognized{Kind: 0x01, Raw: []byte{0x01}, Length: 1}, 42)

	if gotKind != 0x01 || gotPos != 42 {
		t.Errorf("hook got kind %#x position %d", gotKind, gotPos)
	}
	if s.UnrecognizedCount() != 1 {
		t.Errorf("unrecognized = %d, want 1", s.UnrecognizedCount())
	}
}

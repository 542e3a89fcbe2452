// Package dispatch routes resolved records to registered handlers.
package dispatch

import (
	"sync/atomic"

	"github.com/forest33/ittofeed/business/entity"
	"github.com/forest33/ittofeed/pkg/logger"
)

// Handler consumes one record. The record is reused by the decoder, copy
// anything retained past the call.
type Handler func(msg *entity.Message)

// UnrecognizedHandler receives diagnostics for frames whose kind byte is
// not in the length table.
type UnrecognizedHandler func(rec *entity.Unrecognized, position uint64)

// Sink implements the resolver sink. Registration is not safe for
// concurrent use with Emit; counters and the sanity-check toggle may be
// used from other goroutines.
type Sink struct {
	log    *logger.Logger
	sanity atomic.Bool

	handlers       map[entity.MessageKind]Handler
	fallback       Handler
	onUnrecognized UnrecognizedHandler

	dropped      atomic.Uint64
	malformed    atomic.Uint64
	unrecognized atomic.Uint64
}

func New(log *logger.Logger, sanityCheck bool) *Sink {
	s := &Sink{
		log:      log,
		handlers: make(map[entity.MessageKind]Handler),
	}
	s.sanity.Store(sanityCheck)

	return s
}

// SetSanityCheck toggles the field sanity check while the sink is running.
func (s *Sink) SetSanityCheck(enabled bool) {
	s.sanity.Store(enabled)
}

// Register installs the handler for one kind, replacing any previous one.
func (s *Sink) Register(kind entity.MessageKind, h Handler) {
	s.handlers[kind] = h
}

// RegisterDefault installs the catch-all handler for kinds without their
// own registration.
func (s *Sink) RegisterDefault(h Handler) {
	s.fallback = h
}

// RegisterUnrecognized installs the diagnostic hook for unknown kinds.
func (s *Sink) RegisterUnrecognized(h UnrecognizedHandler) {
	s.onUnrecognized = h
}

func (s *Sink) Emit(msg *entity.Message) {
	if s.sanity.Load() {
		if field := malformedField(msg); field != "" {
			s.malformed.Add(1)
			s.log.Warn().
				Str("kind", msg.Kind.String()).
				Str("field", field).
				Msg("malformed field")
		}
	}

	h, ok := s.handlers[msg.Kind]
	if !ok {
		h = s.fallback
	}
	if h == nil {
		s.dropped.Add(1)
		return
	}
	h(msg)
}

func (s *Sink) Unrecognized(rec *entity.Unrecognized, position uint64) {
	s.unrecognized.Add(1)
	s.log.Warn().
		Uint8("kind", rec.Kind).
		Uint64("position", position).
		Int("length", rec.Length).
		Msg("unrecognized frame")
	if s.onUnrecognized != nil {
		s.onUnrecognized(rec, position)
	}
}

// Dropped counts records for kinds with neither a handler nor a default.
func (s *Sink) Dropped() uint64 {
	return s.dropped.Load()
}

// Malformed counts records that failed the field sanity check. They are
// still delivered.
func (s *Sink) Malformed() uint64 {
	return s.malformed.Load()
}

// UnrecognizedCount counts unknown-kind diagnostics.
func (s *Sink) UnrecognizedCount() uint64 {
	return s.unrecognized.Load()
}

// malformedField reports the first suspicious field of a record: a letter
// code outside the printable range or a zero size where the venue never
// sends one. Decoding is not affected, this is telemetry only.
func malformedField(msg *entity.Message) string {
	switch p := msg.Payload.(type) {
	case *entity.SystemEvent:
		if !printable(p.EventCode) {
			return "event_code"
		}
	case *entity.TradingAction:
		if !printable(p.State) {
			return "state"
		}
	case *entity.OptionOpen:
		if !printable(p.State) {
			return "state"
		}
	case *entity.AddOrderShort:
		if !printable(p.Side) {
			return "side"
		}
		if p.Contracts == 0 {
			return "contracts"
		}
	case *entity.AddOrderLong:
		if !printable(p.Side) {
			return "side"
		}
		if p.Contracts == 0 {
			return "contracts"
		}
	case *entity.Executed:
		if p.Contracts == 0 {
			return "contracts"
		}
	case *entity.ExecutedWithPrice:
		if !printable(p.Printable) {
			return "printable"
		}
		if p.Volume == 0 {
			return "volume"
		}
	case *entity.NOII:
		if !printable(p.AuctionType) {
			return "auction_type"
		}
	}
	return ""
}

func printable(b byte) bool {
	return b >= 0x20 && b < 0x7F
}

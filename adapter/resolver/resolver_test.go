package resolver

import (
	"encoding/hex"
	"errors"
	"reflect"
	"testing"

	"github.com/forest33/ittofeed/business/entity"
)

var testFrames = map[entity.MessageKind]string{
	entity.KindSystemEvent:      "530000073ee035ae454f",
	entity.KindOptionOpen:       "4f00051f1ad982b4d40003d55959",
	entity.KindQuoteDelete:      "5900001ed4f930080300000000b328555000000000b3285554",
	entity.KindAddOrderShort:    "61000013f8f649749200000000b2d05e08530002134500050008",
	entity.KindQuoteReplaceLong: "4b00001ed5623e278c00000000b328a52400000000b329d9a400000000b328a52800000000b329d9a8007eb198000000050081611800000005",
}

// captureSink copies every delivered record, the resolver reuses storage.
type captureSink struct {
	records      []entity.Message
	payloads     []interface{}
	unrecognized []entity.Unrecognized
	positions    []uint64
}

func (s *captureSink) Emit(msg *entity.Message) {
	s.records = append(s.records, *msg)
	s.payloads = append(s.payloads, clonePayload(msg.Payload))
}

func (s *captureSink) Unrecognized(rec *entity.Unrecognized, position uint64) {
	s.unrecognized = append(s.unrecognized, entity.Unrecognized{
		Kind:   rec.Kind,
		Raw:    append([]byte(nil), rec.Raw...),
		Length: rec.Length,
	})
	s.positions = append(s.positions, position)
}

func clonePayload(p interface{}) interface{} {
	v := reflect.ValueOf(p).Elem()
	c := reflect.New(v.Type())
	c.Elem().Set(v)
	return c.Interface()
}

func mustFrame(t *testing.T, kind entity.MessageKind) []byte {
	t.Helper()
	frame, err := hex.DecodeString(testFrames[kind])
	if err != nil {
		t.Fatalf("bad frame for %s: %v", kind, err)
	}
	return frame
}

func concat(frames ...[]byte) []byte {
	var out []byte
	for _, f := range frames {
		out = append(out, f...)
	}
	return out
}

func TestFeedConcatenated(t *testing.T) {
	order := []entity.MessageKind{
		entity.KindSystemEvent,
		entity.KindOptionOpen,
		entity.KindQuoteDelete,
		entity.KindAddOrderShort,
		entity.KindQuoteReplaceLong,
	}

	var frames [][]byte
	for _, k := range order {
		frames = append(frames, mustFrame(t, k))
	}

	sink := &captureSink{}
	r := New(sink)
	if err := r.Feed(concat(frames...)); err != nil {
		t.Fatalf("Feed error: %v", err)
	}

	if len(sink.records) != len(order) {
		t.Fatalf("records = %d, want %d", len(sink.records), len(order))
	}
	for i, k := range order {
		if sink.records[i].Kind != k {
			t.Errorf("record %d: kind = %s, want %s", i, sink.records[i].Kind, k)
		}
	}
	if r.CarryoverLen() != 0 {
		t.Errorf("carryover = %d after whole frames", r.CarryoverLen())
	}
}

func TestFragmentationInvariance(t *testing.T) {
	stream := concat(
		mustFrame(t, entity.KindQuoteReplaceLong),
		mustFrame(t, entity.KindSystemEvent),
		mustFrame(t, entity.KindAddOrderShort),
		mustFrame(t, entity.KindQuoteDelete),
	)

	whole := &captureSink{}
	r := New(whole)
	if err := r.Feed(stream); err != nil {
		t.Fatalf("Feed error: %v", err)
	}

	splits := map[string][]int{
		"byte-by-byte": chunkSizes(len(stream), 1),
		"pairs":        chunkSizes(len(stream), 2),
		"sevens":       chunkSizes(len(stream), 7),
		"mid-frame":    {30, len(stream) - 30},
		"header-split": {5, len(stream) - 5},
	}

	for name, sizes := range splits {
		sink := &captureSink{}
		r := New(sink)
		rest := stream
		for _, n := range sizes {
			if err := r.Feed(rest[:n]); err != nil {
				t.Fatalf("%s: Feed error: %v", name, err)
			}
			if r.CarryoverLen() >= entity.MaxFrameLength {
				t.Fatalf("%s: carryover %d out of range", name, r.CarryoverLen())
			}
			rest = rest[n:]
		}

		if len(sink.records) != len(whole.records) {
			t.Fatalf("%s: records = %d, want %d", name, len(sink.records), len(whole.records))
		}
		for i := range whole.records {
			if sink.records[i].Header != whole.records[i].Header {
				t.Errorf("%s: record %d header differs", name, i)
			}
			if !reflect.DeepEqual(sink.payloads[i], whole.payloads[i]) {
				t.Errorf("%s: record %d payload differs", name, i)
			}
		}
	}
}

func chunkSizes(total, step int) []int {
	var sizes []int
	for total > 0 {
		n := step
		if n > total {
			n = total
		}
		sizes = append(sizes, n)
		total -= n
	}
	return sizes
}

func TestCarryoverCompletion(t *testing.T) {
	frame := mustFrame(t, entity.KindSystemEvent)

	sink := &captureSink{}
	r := New(sink)

	if err := r.Feed(frame[:5]); err != nil {
		t.Fatalf("Feed error: %v", err)
	}
	if len(sink.records) != 0 {
		t.Fatalf("records after half frame = %d", len(sink.records))
	}
	if r.CarryoverLen() != 5 {
		t.Fatalf("carryover = %d, want 5", r.CarryoverLen())
	}

	if err := r.Feed(frame[5:]); err != nil {
		t.Fatalf("Feed error: %v", err)
	}
	if len(sink.records) != 1 {
		t.Fatalf("records = %d, want 1", len(sink.records))
	}
	if sink.records[0].Tracking != 0x073E {
		t.Errorf("tracking = %#x", sink.records[0].Tracking)
	}
	if r.Completions() != 1 {
		t.Errorf("completions = %d, want 1", r.Completions())
	}
	if r.CarryoverLen() != 0 {
		t.Errorf("carryover = %d after completion", r.CarryoverLen())
	}
}

func TestUnknownKindFatal(t *testing.T) {
	good := mustFrame(t, entity.KindSystemEvent)
	bad := append(concat(good), 0x01, 0x02, 0x03)
	bad = append(bad, mustFrame(t, entity.KindQuoteDelete)...)

	sink := &captureSink{}
	r := New(sink)

	err := r.Feed(bad)
	var ukErr *entity.UnknownKindError
	if !errors.As(err, &ukErr) {
		t.Fatalf("err = %v, want UnknownKindError", err)
	}
	if ukErr.Kind != 0x01 {
		t.Errorf("kind = %#x, want 0x01", ukErr.Kind)
	}
	if ukErr.Position != uint64(len(good)) {
		t.Errorf("position = %d, want %d", ukErr.Position, len(good))
	}
	if !errors.Is(err, entity.ErrUnknownMessageKind) {
		t.Error("error does not unwrap to ErrUnknownMessageKind")
	}

	// one good record before the bad byte, nothing after
	if len(sink.records) != 1 {
		t.Errorf("records = %d, want 1", len(sink.records))
	}
	if len(sink.unrecognized) != 1 || sink.unrecognized[0].Kind != 0x01 {
		t.Errorf("unrecognized = %+v", sink.unrecognized)
	}
	if r.CarryoverLen() != 0 {
		t.Errorf("carryover = %d after fatal error", r.CarryoverLen())
	}

	// the resolver stays usable for the next datagram
	if err := r.Feed(mustFrame(t, entity.KindOptionOpen)); err != nil {
		t.Fatalf("Feed after error: %v", err)
	}
	if len(sink.records) != 2 {
		t.Errorf("records = %d, want 2", len(sink.records))
	}
}

func TestPositionTracksStream(t *testing.T) {
	sink := &captureSink{}
	r := New(sink)

	stream := concat(
		mustFrame(t, entity.KindSystemEvent),
		mustFrame(t, entity.KindOptionOpen),
	)
	if err := r.Feed(stream[:12]); err != nil {
		t.Fatalf("Feed error: %v", err)
	}
	if err := r.Feed(stream[12:]); err != nil {
		t.Fatalf("Feed error: %v", err)
	}
	if r.Position() != uint64(len(stream)) {
		t.Errorf("position = %d, want %d", r.Position(), len(stream))
	}
}

func TestClosedResolver(t *testing.T) {
	r := New(&captureSink{})
	r.Close()
	if err := r.Feed(mustFrame(t, entity.KindSystemEvent)); err != entity.ErrResolverClosed {
		t.Errorf("err = %v, want ErrResolverClosed", err)
	}
}

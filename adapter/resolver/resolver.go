// Package resolver turns a fragmented byte stream into complete frames.
package resolver

import (
	"github.com/forest33/ittofeed/adapter/decoder"
	"github.com/forest33/ittofeed/business/entity"
)

// Sink receives resolved records. Records are reused between calls, a
// handler that retains one must copy it.
type Sink interface {
	Emit(msg *entity.Message)
	Unrecognized(rec *entity.Unrecognized, position uint64)
}

// Resolver carries at most one partial frame between Feed calls. It is not
// reentrant; use one resolver per transport source.
type Resolver struct {
	dec  *decoder.Decoder
	sink Sink

	carry    [entity.MaxFrameLength - 1]byte
	carryLen int
	frame    [entity.MaxFrameLength]byte

	offset      uint64
	completions uint64
	closed      bool
}

func New(sink Sink) *Resolver {
	return &Resolver{
		dec:  decoder.New(),
		sink: sink,
	}
}

// Feed consumes one chunk. Complete frames are decoded and emitted in
// order; a short tail is kept as carryover for the next call. An unknown
// kind byte at a frame boundary is fatal for the rest of the chunk: the
// carryover and the remaining bytes are dropped and an
// *entity.UnknownKindError is returned. Whether to keep feeding after that
// is the caller's policy.
func (r *Resolver) Feed(chunk []byte) error {
	if r.closed {
		return entity.ErrResolverClosed
	}
	if len(chunk) == 0 {
		return nil
	}

	// Carryover always starts with a validated kind byte, so the length
	// lookup cannot fail here.
	if r.carryLen > 0 {
		length, _ := entity.FrameLength(entity.MessageKind(r.carry[0]))
		need := length - r.carryLen
		if need > len(chunk) {
			copy(r.carry[r.carryLen:], chunk)
			r.carryLen += len(chunk)
			r.offset += uint64(len(chunk))
			return nil
		}
		n := copy(r.frame[:], r.carry[:r.carryLen])
		copy(r.frame[n:length], chunk[:need])
		msg, err := r.dec.Decode(r.frame[:length])
		if err != nil {
			return err
		}
		r.carryLen = 0
		r.completions++
		r.offset += uint64(need)
		r.sink.Emit(msg)
		chunk = chunk[need:]
	}

	for len(chunk) > 0 {
		kind := entity.MessageKind(chunk[0])
		length, ok := entity.FrameLength(kind)
		if !ok {
			ukErr := &entity.UnknownKindError{Kind: chunk[0], Position: r.offset}
			r.sink.Unrecognized(&entity.Unrecognized{
				Kind:   chunk[0],
				Raw:    chunk,
				Length: len(chunk),
			}, r.offset)
			r.carryLen = 0
			r.offset += uint64(len(chunk))
			return ukErr
		}
		if len(chunk) < length {
			r.carryLen = copy(r.carry[:], chunk)
			r.offset += uint64(len(chunk))
			return nil
		}
		msg, err := r.dec.Decode(chunk[:length])
		if err != nil {
			return err
		}
		r.offset += uint64(length)
		r.sink.Emit(msg)
		chunk = chunk[length:]
	}

	return nil
}

// Reset drops any pending carryover, keeping the absolute offset.
func (r *Resolver) Reset() {
	r.carryLen = 0
}

// Close makes any further Feed fail with ErrResolverClosed.
func (r *Resolver) Close() {
	r.closed = true
	r.carryLen = 0
}

// CarryoverLen reports the number of buffered partial-frame bytes.
func (r *Resolver) CarryoverLen() int {
	return r.carryLen
}

// Position is the absolute offset of the next unexamined byte, counted
// from the first byte ever fed.
func (r *Resolver) Position() uint64 {
	return r.offset
}

// Completions counts frames that were assembled across a chunk boundary.
func (r *Resolver) Completions() uint64 {
	return r.completions
}

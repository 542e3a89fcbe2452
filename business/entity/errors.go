package entity

import (
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
)

var (
	ErrWrongFrameLength   = errors.New("wrong frame length")
	ErrEmptyFrame         = errors.New("empty frame")
	ErrUnknownMessageKind = errors.New("unknown message kind")
	ErrWrongPayloadType   = errors.New("payload type does not match message kind")
	ErrResolverClosed     = errors.New("resolver is closed")
	ErrUnsupportedCapture = errors.New("unsupported capture format")
	ErrWrongChunkSize     = errors.New("wrong chunk size")
)

// UnknownKindError is the fatal framing error: the byte at an expected
// kind position matches none of the known codes. Position is the absolute
// offset in the stream, counted from the first byte ever fed.
type UnknownKindError struct {
	Kind     byte
	Position uint64
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("unknown message kind 0x%02X at stream position %d", e.Kind, e.Position)
}

func (e *UnknownKindError) Unwrap() error {
	return ErrUnknownMessageKind
}

// IsErrorInterruptingNetwork reports whether err terminates a receive loop
// rather than a single read.
func IsErrorInterruptingNetwork(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
		return true
	}
	return strings.Contains(err.Error(), "use of closed network connection")
}

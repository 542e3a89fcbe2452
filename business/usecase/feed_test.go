package usecase

import (
	"encoding/hex"
	"errors"
	"testing"

	"github.com/forest33/ittofeed/adapter/dispatch"
	"github.com/forest33/ittofeed/business/entity"
	"github.com/forest33/ittofeed/pkg/logger"
)

const (
	systemEventHex = "530000073ee035ae454f"
	quoteDeleteHex = "5900001ed4f930080300000000b328555000000000b3285554"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("bad hex: %v", err)
	}
	return b
}

func TestFeedStatistics(t *testing.T) {
	log := logger.NewDefault()
	sink := dispatch.New(log, false)

	var handled int
	sink.RegisterDefault(func(*entity.Message) { handled++ })

	var deltas []entity.Statistic
	uc := NewFeedUseCase(log, sink, func(s *entity.Statistic) {
		deltas = append(deltas, *s)
	})

	stream := append(mustHex(t, systemEventHex), mustHex(t, quoteDeleteHex)...)

	// split mid-frame to force a carryover completion
	if err := uc.Feed(stream[:15]); err != nil {
		t.Fatalf("Feed error: %v", err)
	}
	if err := uc.Feed(stream[15:]); err != nil {
		t.Fatalf("Feed error: %v", err)
	}

	stat := uc.GetStatistic()
	if stat.Bytes != uint64(len(stream)) {
		t.Errorf("bytes = %d, want %d", stat.Bytes, len(stream))
	}
	if stat.Chunks != 2 {
		t.Errorf("chunks = %d, want 2", stat.Chunks)
	}
	if stat.Frames != 2 {
		t.Errorf("frames = %d, want 2", stat.Frames)
	}
	if stat.ByKind["system-event"] != 1 || stat.ByKind["quote-delete"] != 1 {
		t.Errorf("byKind = %v", stat.ByKind)
	}
	if stat.Completions != 1 {
		t.Errorf("completions = %d, want 1", stat.Completions)
	}
	if stat.CarryoverLen != 0 {
		t.Errorf("carryover = %d", stat.CarryoverLen)
	}
	if handled != 2 {
		t.Errorf("handled = %d, want 2", handled)
	}

	if len(deltas) != 2 {
		t.Fatalf("deltas = %d, want 2", len(deltas))
	}
	if deltas[0].Frames != 1 || deltas[1].Frames != 1 {
		t.Errorf("frame deltas = %d, %d", deltas[0].Frames, deltas[1].Frames)
	}
}

func TestGetStatisticDuringFeed(t *testing.T) {
	log := logger.NewDefault()
	sink := dispatch.New(log, false)
	sink.RegisterDefault(func(*entity.Message) {})

	uc := NewFeedUseCase(log, sink, nil)

	frame := mustHex(t, systemEventHex)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			stat := uc.GetStatistic()
			if stat.CarryoverLen >= entity.MaxFrameLength {
				t.Errorf("carryover = %d", stat.CarryoverLen)
				return
			}
		}
	}()

	// byte-by-byte split keeps the carryover and completion counters
	// changing while the snapshots are taken
	for i := 0; i < 200; i++ {
		for _, b := range frame {
			if err := uc.Feed([]byte{b}); err != nil {
				t.Fatalf("Feed error: %v", err)
			}
		}
	}
	<-done

	stat := uc.GetStatistic()
	if stat.Frames != 200 {
		t.Errorf("frames = %d, want 200", stat.Frames)
	}
	if stat.Completions != 200 {
		t.Errorf("completions = %d, want 200", stat.Completions)
	}
	if stat.CarryoverLen != 0 {
		t.Errorf("carryover = %d", stat.CarryoverLen)
	}
}

func TestFeedDatagramResumesAfterUnknownKind(t *testing.T) {
	log := logger.NewDefault()
	sink := dispatch.New(log, false)
	sink.RegisterDefault(func(*entity.Message) {})

	uc := NewFeedUseCase(log, sink, nil)

	if err := uc.FeedDatagram([]byte{0x01, 0x02, 0x03}); err != nil {
		t.Fatalf("FeedDatagram error: %v", err)
	}
	if err := uc.FeedDatagram(mustHex(t, systemEventHex)); err != nil {
		t.Fatalf("FeedDatagram error: %v", err)
	}

	stat := uc.GetStatistic()
	if stat.Frames != 1 {
		t.Errorf("frames = %d, want 1", stat.Frames)
	}
	if stat.Unrecognized != 1 {
		t.Errorf("unrecognized = %d, want 1", stat.Unrecognized)
	}
}

func TestFeedStreamAbortsOnUnknownKind(t *testing.T) {
	log := logger.NewDefault()
	sink := dispatch.New(log, false)
	uc := NewFeedUseCase(log, sink, nil)

	err := uc.Feed([]byte{0x01})
	var ukErr *entity.UnknownKindError
	if !errors.As(err, &ukErr) {
		t.Fatalf("err = %v, want UnknownKindError", err)
	}
}

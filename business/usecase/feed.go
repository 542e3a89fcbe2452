// Package usecase provides the use cases for business logic.
package usecase

import (
	"sync"

	"github.com/forest33/ittofeed/adapter/dispatch"
	"github.com/forest33/ittofeed/adapter/resolver"
	"github.com/forest33/ittofeed/business/entity"
	"github.com/forest33/ittofeed/pkg/logger"
)

// FeedUseCase runs one feed source through the resolver and keeps the
// accumulated statistics. Feed is single-threaded; GetStatistic may be
// called from other goroutines.
type FeedUseCase struct {
	log  *logger.Logger
	sink *dispatch.Sink
	res  *resolver.Resolver

	statHandler entity.StatisticHandler

	// Resolver state is owned by the Feed goroutine; completions and
	// carryLen are snapshots taken under mux so GetStatistic never
	// touches the resolver itself.
	mux         sync.Mutex
	bytes       uint64
	chunks      uint64
	frames      uint64
	completions uint64
	carryLen    int
	byKind      map[string]uint64
}

func NewFeedUseCase(log *logger.Logger, sink *dispatch.Sink, statHandler entity.StatisticHandler) *FeedUseCase {
	uc := &FeedUseCase{
		log:         log,
		sink:        sink,
		statHandler: statHandler,
		byKind:      make(map[string]uint64, len(entity.Kinds())),
	}
	uc.res = resolver.New(uc)

	return uc
}

// Feed consumes one chunk. On an unknown kind the framing state is already
// dropped; whether to keep feeding is the caller's policy: a datagram
// consumer resumes with the next datagram, a file ingest stops.
func (uc *FeedUseCase) Feed(chunk []byte) error {
	uc.mux.Lock()
	uc.bytes += uint64(len(chunk))
	uc.chunks++
	framesBefore := uc.frames
	uc.mux.Unlock()

	err := uc.res.Feed(chunk)

	uc.mux.Lock()
	uc.completions = uc.res.Completions()
	uc.carryLen = uc.res.CarryoverLen()
	framesAfter := uc.frames
	uc.mux.Unlock()

	if uc.statHandler != nil {
		uc.statHandler(&entity.Statistic{
			Bytes:  uint64(len(chunk)),
			Chunks: 1,
			Frames: framesAfter - framesBefore,
		})
	}

	return err
}

// FeedDatagram is Feed with the datagram policy applied: an unknown kind
// is logged and swallowed so the loop continues with the next datagram.
func (uc *FeedUseCase) FeedDatagram(chunk []byte) error {
	err := uc.Feed(chunk)
	if _, ok := err.(*entity.UnknownKindError); ok {
		uc.log.Warn().Err(err).Msg("datagram dropped")
		return nil
	}
	return err
}

// Emit implements the resolver sink.
func (uc *FeedUseCase) Emit(msg *entity.Message) {
	uc.mux.Lock()
	uc.frames++
	uc.byKind[msg.Kind.String()]++
	uc.mux.Unlock()

	uc.sink.Emit(msg)
}

// Unrecognized implements the resolver sink.
func (uc *FeedUseCase) Unrecognized(rec *entity.Unrecognized, position uint64) {
	uc.sink.Unrecognized(rec, position)
}

// GetStatistic returns a snapshot of the accumulated feed state.
func (uc *FeedUseCase) GetStatistic() *entity.FeedStatistic {
	uc.mux.Lock()
	defer uc.mux.Unlock()

	byKind := make(map[string]uint64, len(uc.byKind))
	for k, v := range uc.byKind {
		byKind[k] = v
	}

	return &entity.FeedStatistic{
		Bytes:        uc.bytes,
		Chunks:       uc.chunks,
		Frames:       uc.frames,
		ByKind:       byKind,
		Unrecognized: uc.sink.UnrecognizedCount(),
		Malformed:    uc.sink.Malformed(),
		Dropped:      uc.sink.Dropped(),
		Completions:  uc.completions,
		CarryoverLen: uc.carryLen,
	}
}

// Shutdown closes the resolver; pending carryover is discarded.
func (uc *FeedUseCase) Shutdown() {
	uc.res.Close()
}

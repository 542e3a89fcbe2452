package entity

// Statistic is a delta of feed counters produced by one processing step.
type Statistic struct {
	Bytes        uint64
	Chunks       uint64
	Frames       uint64
	Unrecognized uint64
	Malformed    uint64
	Dropped      uint64
	Completions  uint64
}

// FeedStatistic is the accumulated state exposed by the statistics endpoint.
type FeedStatistic struct {
	Bytes        uint64
	Chunks       uint64
	Frames       uint64
	ByKind       map[string]uint64
	Unrecognized uint64
	Malformed    uint64
	Dropped      uint64
	Completions  uint64
	CarryoverLen int
}

type StatisticHandler func(*Statistic)

// Package main ittofeed replay main package
package main

import (
	"io"
	"log"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/forest33/ittofeed/adapter/capture"
	"github.com/forest33/ittofeed/adapter/transport"
	"github.com/forest33/ittofeed/business/entity"
	"github.com/forest33/ittofeed/pkg/automaxprocs"
	"github.com/forest33/ittofeed/pkg/config"
	"github.com/forest33/ittofeed/pkg/logger"
	"github.com/forest33/ittofeed/pkg/profiler"
)

var (
	cfg        = &entity.ReplayConfig{}
	cfgHandler *config.Config
	zlog       *logger.Logger

	interval atomic.Int64
	burst    atomic.Bool
)

func init() {
	var err error
	cfgHandler, err = config.New(entity.DefaultReplayConfigFileName, "", cfg)
	if err != nil {
		log.Fatalf("failed to parse config file: %v", err)
	}

	zlog = logger.New(logger.Config{
		Level:             cfg.Logger.Level,
		TimeFieldFormat:   cfg.Logger.TimeFieldFormat,
		PrettyPrint:       *cfg.Logger.PrettyPrint,
		DisableSampling:   *cfg.Logger.DisableSampling,
		RedirectStdLogger: *cfg.Logger.RedirectStdLogger,
		ErrorStack:        *cfg.Logger.ErrorStack,
		ShowCaller:        *cfg.Logger.ShowCaller,
		FileName:          cfg.Logger.FileName,
	})

	if cfg.Runtime.GoMaxProcs != 0 {
		runtime.GOMAXPROCS(cfg.Runtime.GoMaxProcs)
	} else {
		automaxprocs.Init(zlog)
	}
}

func main() {
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		zlog.Fatalf("wrong configuration: %v", err)
	}

	if *cfg.Profiler.Enabled {
		profiler.Start(&profiler.Config{
			Host: cfg.Profiler.Host,
			Port: cfg.Profiler.Port,
		}, zlog)
	}

	sender, err := transport.NewUDPSender(cfg.Network, zlog)
	if err != nil {
		zlog.Fatalf("failed to create sender: %v", err)
	}
	defer func() { _ = sender.Close() }()

	applyPacing(cfg)
	if err := cfgHandler.AddObserver(onConfigChanged); err != nil {
		zlog.Fatalf("failed to create config file observer: %v", err)
	}

	var (
		bytes     uint64
		datagrams uint64
		start     = time.Now()
	)

	send := func(chunk []byte) error {
		if err := sender.Send(chunk); err != nil {
			return err
		}
		bytes += uint64(len(chunk))
		datagrams++
		if d := time.Duration(interval.Load()); !burst.Load() && d > 0 {
			time.Sleep(d)
		}
		return nil
	}

	if capture.IsPcap(cfg.Input) {
		err = replayPcap(cfg.Input, send)
	} else {
		err = replayStream(cfg.Input, cfg.Pacing.ChunkSize, send)
	}
	if err != nil {
		zlog.Fatalf("replay failed: %v", err)
	}

	zlog.Info().
		Str("input", cfg.Input).
		Uint64("bytes", bytes).
		Uint64("datagrams", datagrams).
		Str("elapsed", time.Since(start).String()).
		Msg("replay finished")
}

func applyPacing(c *entity.ReplayConfig) {
	interval.Store(int64(time.Duration(c.Pacing.IntervalUsec) * time.Microsecond))
	burst.Store(*c.Pacing.Burst)
}

// onConfigChanged lets the pacing of a long replay be adjusted without
// restarting it.
func onConfigChanged(data interface{}) {
	c := data.(*entity.ReplayConfig)
	c.Normalize()
	if err := c.Validate(); err != nil {
		zlog.Error().Err(err).Msg("wrong configuration, change ignored")
		return
	}
	cfg = c
	applyPacing(c)
}

// replayPcap reproduces the original datagram boundaries of the capture.
func replayPcap(path string, send transport.ChunkHandler) error {
	r, err := capture.OpenPcap(path)
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()

	for {
		payload, err := r.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := send(payload); err != nil {
			return err
		}
	}
}

// replayStream cuts the byte stream into datagrams of the configured
// chunk size; frame boundaries are restored by the consumer's carryover.
func replayStream(path string, chunkSize int, send transport.ChunkHandler) error {
	r, err := capture.OpenStream(path)
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()

	f, err := transport.NewFile(r, chunkSize, zlog)
	if err != nil {
		return err
	}
	return f.Run(send)
}

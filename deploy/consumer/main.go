// Package main ittofeed consumer main package
package main

import (
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/forest33/ittofeed/adapter/capture"
	"github.com/forest33/ittofeed/adapter/dispatch"
	rest "github.com/forest33/ittofeed/adapter/http"
	"github.com/forest33/ittofeed/adapter/transport"
	"github.com/forest33/ittofeed/business/entity"
	"github.com/forest33/ittofeed/business/usecase"
	"github.com/forest33/ittofeed/pkg/automaxprocs"
	"github.com/forest33/ittofeed/pkg/config"
	"github.com/forest33/ittofeed/pkg/logger"
	"github.com/forest33/ittofeed/pkg/profiler"
)

// fileChunkSize is the read size for file ingest; it only affects
// carryover behaviour, not the decoded output.
const fileChunkSize = 8192

var (
	cfg        = &entity.ConsumerConfig{}
	cfgHandler *config.Config
	zlog       *logger.Logger

	sink        *dispatch.Sink
	feedUseCase *usecase.FeedUseCase
)

func init() {
	var err error
	cfgHandler, err = config.New(entity.DefaultConsumerConfigFileName, "", cfg)
	if err != nil {
		log.Fatalf("failed to parse config file: %v", err)
	}

	// stdout carries the rendered records
	zlog = logger.New(logger.Config{
		Level:             cfg.Logger.Level,
		TimeFieldFormat:   cfg.Logger.TimeFieldFormat,
		PrettyPrint:       *cfg.Logger.PrettyPrint,
		DisableSampling:   *cfg.Logger.DisableSampling,
		RedirectStdLogger: *cfg.Logger.RedirectStdLogger,
		ErrorStack:        *cfg.Logger.ErrorStack,
		ShowCaller:        *cfg.Logger.ShowCaller,
		Stderr:            true,
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

	out := newRenderer(os.Stdout, cfg.Output, cfg.Input)
	defer func() { _ = out.flush() }()

	sink = dispatch.New(zlog, *cfg.SanityCheck)
	sink.RegisterDefault(out.handle)

	feedUseCase = usecase.NewFeedUseCase(zlog, sink, nil)
	defer feedUseCase.Shutdown()

	if err := cfgHandler.AddObserver(onConfigChanged); err != nil {
		zlog.Fatalf("failed to create config file observer: %v", err)
	}

	if *cfg.Rest.Enabled {
		initRestServer()
	}

	if cfg.Input != "" {
		if err := runFile(out); err != nil {
			zlog.Fatalf("ingest failed: %v", err)
		}
		logStatistic()
		return
	}

	runUDP()
}

// runFile ingests a capture file to completion. An unknown kind aborts:
// inside a file there is no datagram boundary to resynchronize on.
func runFile(out *renderer) error {
	if capture.IsPcap(cfg.Input) {
		r, err := capture.OpenPcap(cfg.Input)
		if err != nil {
			return err
		}
		defer func() { _ = r.Close() }()

		return runPcap(r)
	}

	r, err := capture.OpenStream(cfg.Input)
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()

	f, err := transport.NewFile(r, fileChunkSize, zlog)
	if err != nil {
		return err
	}
	return f.Run(feedUseCase.Feed)
}

func runPcap(r *capture.Pcap) error {
	for {
		payload, err := r.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := feedUseCase.FeedDatagram(payload); err != nil {
			return err
		}
	}
}

func runUDP() {
	udp, err := transport.NewUDP(cfg.Network, zlog)
	if err != nil {
		zlog.Fatalf("failed to create UDP listener: %v", err)
	}
	defer func() { _ = udp.Shutdown() }()

	zlog.Info().
		Str("addr", udp.Addr().String()).
		Msg("listening for feed datagrams")

	udp.Listen(feedUseCase.FeedDatagram)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logStatistic()
}

func onConfigChanged(data interface{}) {
	cfg = data.(*entity.ConsumerConfig)
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		zlog.Error().Err(err).Msg("wrong configuration, change ignored")
		return
	}
	sink.SetSanityCheck(*cfg.SanityCheck)
}

func initRestServer() {
	srv, err := rest.New(&rest.Config{
		Host: cfg.Rest.Host,
		Port: cfg.Rest.Port,
	}, zlog, feedUseCase)
	if err != nil {
		zlog.Fatalf("failed to create HTTP server: %v", err)
	}
	srv.Start()
}

func logStatistic() {
	stat := feedUseCase.GetStatistic()
	zlog.Info().
		Uint64("bytes", stat.Bytes).
		Uint64("chunks", stat.Chunks).
		Uint64("frames", stat.Frames).
		Uint64("unrecognized", stat.Unrecognized).
		Uint64("malformed", stat.Malformed).
		Uint64("completions", stat.Completions).
		Msg("feed finished")
}

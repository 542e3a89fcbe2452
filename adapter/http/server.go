// Package rest exposes the feed statistics over HTTP.
package rest

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/forest33/ittofeed/business/entity"
	"github.com/forest33/ittofeed/pkg/logger"
	"github.com/forest33/ittofeed/pkg/structs"
)

type Server struct {
	cfg         *Config
	log         *logger.Logger
	feedUseCase FeedUseCase
	router      *gin.Engine
}

type Config struct {
	Host string
	Port int
}

type FeedUseCase interface {
	GetStatistic() *entity.FeedStatistic
}

func New(cfg *Config, log *logger.Logger, feedUseCase FeedUseCase) (*Server, error) {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		cfg:         cfg,
		log:         log,
		feedUseCase: feedUseCase,
		router:      gin.Default(),
	}

	return s, s.init()
}

func (s *Server) init() error {
	s.router.GET("/api/v1/statistic", s.handlerStatistic)
	return nil
}

func (s *Server) Start() {
	go func() {
		s.log.Info().
			Str("host", s.cfg.Host).
			Int("port", s.cfg.Port).
			Msg("starting HTTP server")

		err := s.router.Run(fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port))
		if err != nil {
			s.log.Fatalf("failed to start HTTP server: %v", err)
		}
	}()
}

type statisticResponse struct {
	Bytes        uint64      `json:"bytes"`
	Chunks       uint64      `json:"chunks"`
	Frames       uint64      `json:"frames"`
	Kinds        []kindCount `json:"kinds"`
	Unrecognized uint64      `json:"unrecognized"`
	Malformed    uint64      `json:"malformed"`
	Dropped      uint64      `json:"dropped"`
	Completions  uint64      `json:"carryoverCompletions"`
	CarryoverLen int         `json:"carryoverLength"`
}

type kindCount struct {
	Kind  string `json:"kind"`
	Count uint64 `json:"count"`
}

func (s *Server) handlerStatistic(ctx *gin.Context) {
	stat := s.feedUseCase.GetStatistic()

	ctx.JSON(http.StatusOK, &statisticResponse{
		Bytes:  stat.Bytes,
		Chunks: stat.Chunks,
		Frames: stat.Frames,
		Kinds: structs.Map(entity.Kinds(), func(k entity.MessageKind) kindCount {
			return kindCount{Kind: k.String(), Count: stat.ByKind[k.String()]}
		}),
		Unrecognized: stat.Unrecognized,
		Malformed:    stat.Malformed,
		Dropped:      stat.Dropped,
		Completions:  stat.Completions,
		CarryoverLen: stat.CarryoverLen,
	})
}

package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/shockbridge/shockbridge/internal/config"
	"github.com/shockbridge/shockbridge/internal/core/port"

	"github.com/asynkron/protoactor-go/actor"
	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"
)

type Server struct {
	port        uint
	httpLog     bool
	rootContext *actor.RootContext
	masterActor *actor.PID
	connect     *ConnectAdapter
	logger      *zap.Logger
}

// NewServer serves the Lovense Connect emulation next to the health and
// metrics endpoints.
func NewServer(cfg config.Config, rootContext *actor.RootContext, masterActor *actor.PID, sink port.ChannelSink, logger *zap.Logger) *http.Server {
	NewServer := newServer(cfg, rootContext, masterActor, sink, logger)

	// Declare Server config
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", NewServer.port),
		Handler:      NewServer.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return server
}

func newServer(cfg config.Config, rootContext *actor.RootContext, masterActor *actor.PID, sink port.ChannelSink, logger *zap.Logger) *Server {
	return &Server{
		port:        cfg.Port,
		httpLog:     cfg.HttpLog,
		rootContext: rootContext,
		masterActor: masterActor,
		connect:     NewConnectAdapter(sink, logger),
		logger:      logger,
	}
}

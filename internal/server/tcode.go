package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/shockbridge/shockbridge/internal/config"
	"github.com/shockbridge/shockbridge/internal/core/domain"
	"github.com/shockbridge/shockbridge/internal/core/port"
	"github.com/shockbridge/shockbridge/internal/metrics"
	"github.com/shockbridge/shockbridge/pkg/tcode"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

const (
	TCODE_ADAPTER_NAME     = "tcode"
	TCODE_MAX_MESSAGE_SIZE = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// clients connect from local toy software, not from browsers
	CheckOrigin: func(_ *http.Request) bool { return true },
}

// TCodeAdapter drives the vibrate channel from the L0 axis. Every packet
// also triggers one immediate dispatch on top of the regular re-send loop.
type TCodeAdapter struct {
	sink   port.ChannelSink
	logger *zap.Logger
}

func NewTCodeAdapter(sink port.ChannelSink, logger *zap.Logger) *TCodeAdapter {
	return &TCodeAdapter{
		sink:   sink,
		logger: logger.With(zap.String("adapter", TCODE_ADAPTER_NAME)),
	}
}

func NewTCodeServer(cfg config.Config, sink port.ChannelSink, logger *zap.Logger) *http.Server {
	adapter := NewTCodeAdapter(sink, logger)
	return &http.Server{
		Addr:        fmt.Sprintf("%s:%d", cfg.TCode.Host, cfg.TCode.Port),
		Handler:     adapter.RegisterRoutes(cfg.HttpLog),
		IdleTimeout: time.Minute,
	}
}

func (a *TCodeAdapter) RegisterRoutes(httpLog bool) http.Handler {
	e := echo.New()
	e.HideBanner = true
	if httpLog {
		e.Use(middleware.Logger())
	}
	e.Use(middleware.Recover())

	e.GET("/*", a.WebSocketHandler)

	return e
}

func (a *TCodeAdapter) WebSocketHandler(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		a.logger.Warn("tcode: upgrade failed", zap.Error(err))
		return nil
	}
	defer conn.Close()
	conn.SetReadLimit(TCODE_MAX_MESSAGE_SIZE)

	a.logger.Info("tcode: client connected", zap.String("remote", conn.RemoteAddr().String()))
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				a.logger.Warn("tcode: read failed", zap.Error(err))
			} else {
				a.logger.Info("tcode: client disconnected")
			}
			return nil
		}
		if msgType != websocket.TextMessage && msgType != websocket.BinaryMessage {
			continue
		}
		a.HandlePacket(string(data))
	}
}

func (a *TCodeAdapter) HandlePacket(packet string) {
	raw, err := tcode.ParseValue(packet)
	if err != nil {
		a.logger.Debug("tcode: ignoring packet", zap.String("packet", packet), zap.Error(err))
		metrics.AdapterMessage(TCODE_ADAPTER_NAME, metrics.RESULT_IGNORED)
		return
	}
	intensity := tcode.Normalize(raw)
	a.logger.Debug("tcode: L0", zap.Int("raw", raw), zap.Int("intensity", intensity))
	metrics.AdapterMessage(TCODE_ADAPTER_NAME, metrics.RESULT_ACCEPTED)
	a.sink.UpdateVibrate(intensity, TCODE_ADAPTER_NAME)
	a.sink.DispatchNow(TCODE_ADAPTER_NAME, domain.ChannelVibrate)
}

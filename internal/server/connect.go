package server

import (
	"net/http"
	"sync"

	"github.com/shockbridge/shockbridge/internal/core/domain"
	"github.com/shockbridge/shockbridge/internal/core/port"
	"github.com/shockbridge/shockbridge/internal/metrics"
	"github.com/shockbridge/shockbridge/pkg/lovense"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	CONNECT_ADAPTER_NAME = "connect"
	CONNECT_TOY_ID       = "SHOCKBRIDGE"
	CONNECT_TOY_NAME     = "Shockbridge OpenShock Bridge"
	CONNECT_TOY_TYPE     = "lush"
)

type ConnectToy struct {
	Name     string `json:"name"`
	Id       string `json:"id"`
	NickName string `json:"nickName"`
	Status   int    `json:"status"`
	Type     string `json:"type"`
	Battery  int    `json:"battery"`
}

type GetToysResponse struct {
	Data map[string]ConnectToy `json:"data"`
	Type string                `json:"type"`
	Code int                   `json:"code"`
}

type CommandRequest struct {
	Command string `json:"command" form:"command"`
	Action  string `json:"action" form:"action"`
	ToyId   string `json:"toy" form:"toy"`
}

type Ack struct {
	Type string `json:"type"`
	Code int    `json:"code"`
}

var okAck = Ack{Type: "ok", Code: http.StatusOK}

// ConnectAdapter emulates the Lovense Connect discovery and command API.
// It only forwards a level when it differs from the last one it saw.
type ConnectAdapter struct {
	mu            sync.Mutex
	lastIntensity int
	sink          port.ChannelSink
	logger        *zap.Logger
}

func NewConnectAdapter(sink port.ChannelSink, logger *zap.Logger) *ConnectAdapter {
	return &ConnectAdapter{
		sink:   sink,
		logger: logger.With(zap.String("adapter", CONNECT_ADAPTER_NAME)),
	}
}

func (a *ConnectAdapter) GetToysHandler(c echo.Context) error {
	a.logger.Debug("connect: GetToys")
	return c.JSON(http.StatusOK, GetToysResponse{
		Data: map[string]ConnectToy{
			CONNECT_TOY_ID: {
				Name:     CONNECT_TOY_NAME,
				Id:       CONNECT_TOY_ID,
				NickName: CONNECT_TOY_NAME,
				Status:   1,
				Type:     CONNECT_TOY_TYPE,
				Battery:  100,
			},
		},
		Type: okAck.Type,
		Code: okAck.Code,
	})
}

// CommandHandler always acknowledges, whatever happened to the body.
func (a *ConnectAdapter) CommandHandler(c echo.Context) error {
	var req CommandRequest
	if err := c.Bind(&req); err != nil {
		a.logger.Debug("connect: malformed command body", zap.Error(err))
		metrics.AdapterMessage(CONNECT_ADAPTER_NAME, metrics.RESULT_IGNORED)
		return c.JSON(http.StatusOK, okAck)
	}
	if req.Action == "" {
		a.logger.Debug("connect: unknown command structure", zap.String("command", req.Command))
		metrics.AdapterMessage(CONNECT_ADAPTER_NAME, metrics.RESULT_IGNORED)
		return c.JSON(http.StatusOK, okAck)
	}
	a.HandleAction(req.Action)
	return c.JSON(http.StatusOK, okAck)
}

// HandleAction applies a "Vibrate:<0-20>" action. A level of zero only
// stops the re-send loop, there is no explicit stop command.
func (a *ConnectAdapter) HandleAction(action string) {
	level, err := lovense.ParseAction(action)
	if err != nil {
		a.logger.Debug("connect: dropping action", zap.String("action", action), zap.Error(err))
		metrics.AdapterMessage(CONNECT_ADAPTER_NAME, metrics.RESULT_IGNORED)
		return
	}
	intensity := lovense.Normalize(level)

	a.mu.Lock()
	defer a.mu.Unlock()
	if intensity == a.lastIntensity {
		metrics.AdapterMessage(CONNECT_ADAPTER_NAME, metrics.RESULT_IGNORED)
		return
	}
	a.logger.Debug("connect: vibrate", zap.Int("level", level), zap.Int("intensity", intensity))
	metrics.AdapterMessage(CONNECT_ADAPTER_NAME, metrics.RESULT_ACCEPTED)
	a.lastIntensity = intensity
	a.sink.UpdateVibrate(intensity, CONNECT_ADAPTER_NAME)
	if intensity > 0 {
		a.sink.DispatchNow(CONNECT_ADAPTER_NAME, domain.ChannelVibrate)
	}
}

package actorutil

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/shockbridge/shockbridge/internal/core/domain"
	"github.com/shockbridge/shockbridge/internal/mqtt"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/lmittmann/tint"
	"go.uber.org/zap"
)

func PipeToSelfWithRecover(ctx actor.Context, future *actor.Future, mapFn func(error) any) {
	ctx.ReenterAfter(future, func(msg any, err error) {
		if err != nil {
			ctx.Send(ctx.Self(), mapFn(err))
			return
		}
		ctx.Send(ctx.Self(), msg)
	})
}

func NewActorSystemWithZapLogger(logger *zap.Logger) *actor.ActorSystem {
	stdOutLogger := zap.NewStdLog(logger)

	var slogLevel slog.Level = slog.LevelInfo

	switch logger.Level() {
	case zap.DebugLevel:
		slogLevel = slog.LevelDebug
	case zap.InfoLevel:
		slogLevel = slog.LevelInfo
	case zap.WarnLevel:
		slogLevel = slog.LevelWarn
	case zap.ErrorLevel, zap.PanicLevel, zap.FatalLevel:
		slogLevel = slog.LevelError
	}

	return actor.NewActorSystem(actor.WithLoggerFactory(func(system *actor.ActorSystem) *slog.Logger {
		return slog.New(tint.NewHandler(stdOutLogger.Writer(), &tint.Options{
			Level:      slogLevel,
			TimeFormat: time.DateTime,
		}))
	}))
}

func ActorLogger(actorName string, logger *zap.Logger) *zap.Logger {
	return logger.With(zap.String("actor", actorName))
}

// ParsedMQTTCommandToCommand maps an MQTT switch or number command to the
// request understood by the owning actor. Unknown ids yield (nil, nil).
func ParsedMQTTCommandToCommand(cmd mqtt.Command) (domain.ActorRequest, error) {
	switch cmd.Entity {
	case domain.SWITCH_ID_SHOCK_MODE:
		if cmd.Component != mqtt.COMPONENT_SWITCH {
			return nil, fmt.Errorf("%s is a switch", cmd.Entity)
		}
		return domain.SetShockModeRequest{Enable: cmd.On}, nil
	case domain.INPUT_NUMBER_ID_OUTPUT_MIN, domain.INPUT_NUMBER_ID_OUTPUT_MAX:
		if cmd.Component != mqtt.COMPONENT_NUMBER {
			return nil, fmt.Errorf("%s is a number", cmd.Entity)
		}
		if cmd.Value < 0 || cmd.Value > 100 {
			return nil, fmt.Errorf("%s out of range: %v", cmd.Entity, cmd.Value)
		}
		v := int(math.Round(cmd.Value))
		if cmd.Entity == domain.INPUT_NUMBER_ID_OUTPUT_MIN {
			return domain.SetOutputRangeRequest{Min: &v}, nil
		}
		return domain.SetOutputRangeRequest{Max: &v}, nil
	}
	return nil, nil
}

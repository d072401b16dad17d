package actor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shockbridge/shockbridge/internal/core/domain"
	"github.com/shockbridge/shockbridge/internal/core/events"
	"github.com/shockbridge/shockbridge/internal/core/port"
	"github.com/shockbridge/shockbridge/internal/metrics"
	"github.com/shockbridge/shockbridge/internal/util/actorutil"
	"github.com/shockbridge/shockbridge/pkg/openshock"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"go.uber.org/zap"
)

const DEFAULT_SEND_TIMEOUT = 5 * time.Second

// OutputActor owns the output channel. Every command is sent on its own
// background task so a slow transport never holds up the next tick.
type OutputActor struct {
	behavior    actor.Behavior
	stash       *actorutil.Stash
	output      port.OutputChannel
	sendTimeout time.Duration
	eventStream *eventstream.EventStream
	lastStatus  *domain.OutputStatus
	logger      *zap.Logger
}

type dispatchResult struct {
	Command domain.CanonicalCommand
	Trigger domain.DispatchTrigger
	Error   error
}

func NewOutputActor(output port.OutputChannel, sendTimeout time.Duration, eventStream *eventstream.EventStream, logger *zap.Logger) *OutputActor {
	if sendTimeout <= 0 {
		sendTimeout = DEFAULT_SEND_TIMEOUT
	}
	act := &OutputActor{
		output:      output,
		sendTimeout: sendTimeout,
		eventStream: eventStream,
		behavior:    actor.NewBehavior(),
		stash:       &actorutil.Stash{},
		logger:      actorutil.ActorLogger(domain.ACTOR_ID_OUTPUT, logger),
	}
	act.behavior.Become(act.StartingReceive)
	return act
}

func (state *OutputActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *OutputActor) StartingReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("output@starting started", zap.String("transport", string(state.output.Name())))
		state.lastStatus = nil
		state.publishStatus(true)
		state.behavior.Become(state.DefaultReceive)
		state.stash.UnstashAll(ctx)
	case *actor.Restarting:
	default:
		state.logger.Debug("output@starting stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *OutputActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthRequest:
		status := state.output.Status()
		state.logger.Debug("output@default ActorHealthRequest", zap.String("state", status.State))
		// a degraded hub still lets the rest of the bridge run
		ctx.Respond(domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_OUTPUT,
			Healthy: true,
			State:   status.State,
		})
	case domain.DispatchRequest:
		for _, cmd := range msg.Commands {
			state.send(ctx, cmd, msg.Trigger)
		}
		actorutil.ForRequest(msg).Respond(ctx, domain.DispatchResponse{Sent: len(msg.Commands)})
	case dispatchResult:
		state.onDispatchResult(msg)
	case domain.HubRawCommandRequest:
		var err error
		if w, ok := state.output.(port.RawLineWriter); ok {
			err = w.WriteLine(msg.Line)
		} else {
			err = fmt.Errorf("%s output does not accept raw commands", state.output.Name())
		}
		if err != nil {
			state.logger.Warn("output@default HubRawCommandRequest failed", zap.Error(err))
		}
		actorutil.ForRequest(msg).Respond(ctx, domain.HubRawCommandResponse{
			ActorResponseMixIn: domain.ErrorResponse(err),
		})
	case domain.GetOutputStatusRequest:
		actorutil.ForRequest(msg).Respond(ctx, domain.GetOutputStatusResponse{
			Status: state.output.Status(),
		})
	case domain.PublishStateRequest:
		state.publishStatus(true)
	case *actor.Stopping:
		state.logger.Debug("output@default stopping")
	default:
		state.logger.Debug("output@default recv", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

func (state *OutputActor) send(ctx actor.Context, cmd domain.CanonicalCommand, trigger domain.DispatchTrigger) {
	output := state.output
	timeout := state.sendTimeout
	actorutil.NewBackgroundTask(ctx, func() (*dispatchResult, error) {
		sendCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		err := output.Send(sendCtx, cmd)
		return &dispatchResult{Command: cmd, Trigger: trigger, Error: err}, nil
	}).WithTimeout(timeout).Recover(func(err error) dispatchResult {
		return dispatchResult{Command: cmd, Trigger: trigger, Error: err}
	}).PipeToAsync(ctx.Self())
}

func (state *OutputActor) onDispatchResult(res dispatchResult) {
	var apiErr *openshock.APIError
	switch {
	case res.Error == nil:
		metrics.Dispatch(res.Command, res.Trigger, metrics.RESULT_SENT)
	case errors.Is(res.Error, openshock.ErrHubNotConnected):
		// already reported once by the hub
		metrics.Dispatch(res.Command, res.Trigger, metrics.RESULT_DROPPED)
	case errors.As(res.Error, &apiErr):
		state.logger.Error("output@default command rejected", zap.Stringer("command", res.Command),
			zap.Int("status", apiErr.StatusCode), zap.String("body", apiErr.Body))
		metrics.Dispatch(res.Command, res.Trigger, metrics.RESULT_FAILED)
	default:
		state.logger.Warn("output@default command dropped", zap.Stringer("command", res.Command), zap.Error(res.Error))
		metrics.Dispatch(res.Command, res.Trigger, metrics.RESULT_FAILED)
	}
	state.publishStatus(false)
}

// publishStatus emits the output status, only on change unless forced.
func (state *OutputActor) publishStatus(force bool) {
	status := state.output.Status()
	if !force && state.lastStatus != nil && *state.lastStatus == status {
		return
	}
	if state.lastStatus != nil && *state.lastStatus != status {
		state.logger.Info("output@default status changed", zap.String("state", status.State), zap.Bool("connected", status.Connected))
	}
	state.lastStatus = &status
	metrics.OutputStatus(status)
	if state.eventStream != nil {
		for _, ev := range events.OutputStatusToUpdateEvents(status) {
			state.eventStream.Publish(ev)
		}
	}
}

package actor

import (
	"fmt"

	"github.com/shockbridge/shockbridge/internal/config"
	"github.com/shockbridge/shockbridge/internal/core/domain"
	"github.com/shockbridge/shockbridge/internal/core/events"
	"github.com/shockbridge/shockbridge/internal/core/port"
	. "github.com/shockbridge/shockbridge/internal/util/actorutil"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/asynkron/protoactor-go/scheduler"
	"go.uber.org/zap"
)

const (
	CONFIG_KEY_OUTPUT_MIN = "output.min"
	CONFIG_KEY_OUTPUT_MAX = "output.max"
)

// PersistActor turns single shot commands into held actuation: on every
// tick it re-sends each active channel with a duration slightly longer
// than the tick. It also owns the output range.
type PersistActor struct {
	ActorWithStates
	scheduler     *scheduler.TimerScheduler
	cancelTick    scheduler.CancelFunc
	stash         *Stash
	channelsActor *actor.PID
	outputActor   *actor.PID
	planner       port.DispatchPlanner
	outputRange   domain.OutputRange
	configWriter  port.ConfigWriter
	eventStream   *eventstream.EventStream
	logger        *zap.Logger
}

type persistTick struct {
}

func NewPersistActor(outputRange domain.OutputRange, planner port.DispatchPlanner, channelsActor, outputActor *actor.PID,
	configWriter port.ConfigWriter, eventStream *eventstream.EventStream, logger *zap.Logger) *PersistActor {
	act := &PersistActor{
		outputRange:   outputRange,
		planner:       planner,
		channelsActor: channelsActor,
		outputActor:   outputActor,
		configWriter:  configWriter,
		eventStream:   eventStream,
		stash:         &Stash{},
		logger:        ActorLogger(domain.ACTOR_ID_PERSIST, logger),
		ActorWithStates: ActorWithStates{
			Behavior: actor.NewBehavior(),
		},
	}
	act.Become(PLStartingState{actor: act})
	return act
}

func (state *PersistActor) Receive(context actor.Context) {
	state.Behavior.Receive(context)
}

// Starting state

type PLStartingState struct {
	ActorState
	actor *PersistActor
}

func (state PLStartingState) Name() string {
	return "starting"
}

func (state PLStartingState) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		interval := state.actor.planner.Interval()
		state.actor.logger.Debug("persist@starting started", zap.Duration("interval", interval))
		state.actor.scheduler = scheduler.NewTimerScheduler(ctx)
		state.actor.cancelTick = state.actor.scheduler.SendRepeatedly(interval, interval, ctx.Self(), persistTick{})
		state.actor.publishRange()
		state.actor.Become(PLRunningState{actor: state.actor})
		state.actor.stash.UnstashAll(ctx)
	case *actor.Restarting:
		state.actor.stopTicking()
	default:
		state.actor.logger.Debug("persist@starting stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.actor.stash.Stash(ctx, msg)
	}
}

// Running state

type PLRunningState struct {
	ActorState
	actor *PersistActor
}

func (state PLRunningState) Name() string {
	return "running"
}

func (state PLRunningState) Receive(ctx actor.Context) {
	act := state.actor
	switch msg := ctx.Message().(type) {
	case persistTick:
		ctx.Request(act.channelsActor, domain.GetChannelSnapshotRequest{Trigger: domain.TriggerTick})
	case domain.ImmediateDispatchRequest:
		act.logger.Debug("persist@running ImmediateDispatchRequest", zap.String("source", msg.Source))
		ctx.Request(act.channelsActor, domain.GetChannelSnapshotRequest{
			Trigger:  domain.TriggerImmediate,
			Channels: msg.Channels,
		})
	case domain.GetChannelSnapshotResponse:
		commands := act.planner.Plan(msg.Snapshot, act.outputRange, msg.Channels...)
		if len(commands) > 0 {
			ctx.Send(act.outputActor, domain.DispatchRequest{
				Commands: commands,
				Trigger:  msg.Trigger,
			})
		}
	case domain.SetOutputRangeRequest:
		next := act.outputRange
		if msg.Min != nil {
			next.Min = *msg.Min
		}
		if msg.Max != nil {
			next.Max = *msg.Max
		}
		if err := config.CheckOutputRange(next.Min, next.Max); err != nil {
			act.logger.Warn("persist@running rejected output range", zap.Int("min", next.Min), zap.Int("max", next.Max), zap.Error(err))
			ForRequest(msg).Respond(ctx, domain.OutputRangeResponse{
				ActorResponseMixIn: domain.ErrorResponse(err),
				Range:              act.outputRange,
			})
			return
		}
		act.setOutputRange(next)
		ForRequest(msg).Respond(ctx, domain.OutputRangeResponse{Range: act.outputRange})
	case domain.GetOutputRangeRequest:
		ForRequest(msg).Respond(ctx, domain.OutputRangeResponse{Range: act.outputRange})
	case domain.PublishStateRequest:
		act.publishRange()
	case domain.ActorHealthRequest:
		act.logger.Debug("persist@running ActorHealthRequest")
		ctx.Respond(domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_PERSIST,
			Healthy: true,
			State:   act.StateName(),
		})
	case *actor.Stopping:
		act.stopTicking()
	case *actor.Restarting:
		act.stopTicking()
	default:
		act.logger.Debug("persist@running recv", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

func (state *PersistActor) setOutputRange(next domain.OutputRange) {
	if next == state.outputRange {
		return
	}
	state.logger.Info("persist: output range changed", zap.Int("min", next.Min), zap.Int("max", next.Max))
	if state.configWriter != nil {
		if next.Min != state.outputRange.Min {
			if err := state.configWriter.Save(CONFIG_KEY_OUTPUT_MIN, next.Min); err != nil {
				state.logger.Warn("persist: could not persist output.min", zap.Error(err))
			}
		}
		if next.Max != state.outputRange.Max {
			if err := state.configWriter.Save(CONFIG_KEY_OUTPUT_MAX, next.Max); err != nil {
				state.logger.Warn("persist: could not persist output.max", zap.Error(err))
			}
		}
	}
	state.outputRange = next
	state.publishRange()
}

func (state *PersistActor) publishRange() {
	if state.eventStream == nil {
		return
	}
	for _, ev := range events.OutputRangeToUpdateEvents(state.outputRange) {
		state.eventStream.Publish(ev)
	}
}

func (state *PersistActor) stopTicking() {
	if state.cancelTick != nil {
		state.cancelTick()
		state.cancelTick = nil
	}
}

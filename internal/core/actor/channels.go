package actor

import (
	"fmt"

	"github.com/shockbridge/shockbridge/internal/core/domain"
	"github.com/shockbridge/shockbridge/internal/core/events"
	"github.com/shockbridge/shockbridge/internal/core/port"
	"github.com/shockbridge/shockbridge/internal/core/service"
	"github.com/shockbridge/shockbridge/internal/metrics"
	. "github.com/shockbridge/shockbridge/internal/util/actorutil"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"go.uber.org/zap"
)

const CONFIG_KEY_SHOCK_MODE = "shock_mode"

// ChannelsActor is the single owner of the channel intensities and the
// shock mode flag. Adapters mutate it only through messages, so every
// snapshot it hands out is consistent.
type ChannelsActor struct {
	ActorWithStates
	stash        *Stash
	state        domain.ChannelSnapshot
	configWriter port.ConfigWriter
	eventStream  *eventstream.EventStream
	logger       *zap.Logger
}

func NewChannelsActor(shockMode bool, configWriter port.ConfigWriter, eventStream *eventstream.EventStream, logger *zap.Logger) *ChannelsActor {
	act := &ChannelsActor{
		state:        domain.ChannelSnapshot{ShockMode: shockMode},
		configWriter: configWriter,
		eventStream:  eventStream,
		stash:        &Stash{},
		logger:       ActorLogger(domain.ACTOR_ID_CHANNELS, logger),
		ActorWithStates: ActorWithStates{
			Behavior: actor.NewBehavior(),
		},
	}
	act.Become(CHStartingState{actor: act})
	return act
}

func (state *ChannelsActor) Receive(context actor.Context) {
	state.Behavior.Receive(context)
}

// Starting state

type CHStartingState struct {
	ActorState
	actor *ChannelsActor
}

func (state CHStartingState) Name() string {
	return "starting"
}

func (state CHStartingState) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.actor.logger.Debug("channels@starting started", zap.Bool("shockMode", state.actor.state.ShockMode))
		state.actor.publishState()
		state.actor.becomeMode()
		state.actor.stash.UnstashAll(ctx)
	case *actor.Restarting:
	default:
		state.actor.logger.Debug("channels@starting stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.actor.stash.Stash(ctx, msg)
	}
}

// Mode state. Slider one drives vibrate in vibrateMode and shock in shockMode.

type CHModeState struct {
	ActorState
	actor *ChannelsActor
	name  string
}

func (state CHModeState) Name() string {
	return state.name
}

func (state CHModeState) Receive(ctx actor.Context) {
	act := state.actor
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthRequest:
		act.logger.Debug(fmt.Sprintf("channels@%s ActorHealthRequest", state.Name()))
		ctx.Respond(domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_CHANNELS,
			Healthy: true,
			State:   act.StateName(),
		})
	case domain.SliderUpdateRequest:
		prev := act.state
		next, target := service.ApplySlider(prev, msg.Slider, msg.Intensity)
		act.logger.Debug(fmt.Sprintf("channels@%s slider", state.Name()), zap.Int("slider", int(msg.Slider)),
			zap.Stringer("channel", target), zap.Int("intensity", next.Intensity(target)), zap.String("source", msg.Source))
		act.setState(prev, next)
	case domain.VibrateUpdateRequest:
		prev := act.state
		next := prev
		next.Vibrate = service.ClampIntensity(msg.Intensity)
		act.logger.Debug(fmt.Sprintf("channels@%s vibrate", state.Name()), zap.Int("intensity", next.Vibrate), zap.String("source", msg.Source))
		act.setState(prev, next)
	case domain.SetShockModeRequest:
		act.setShockMode(msg.Enable)
		ForRequest(msg).Respond(ctx, domain.ShockModeResponse{ShockMode: act.state.ShockMode})
	case domain.ToggleShockModeRequest:
		act.setShockMode(!act.state.ShockMode)
		ForRequest(msg).Respond(ctx, domain.ShockModeResponse{ShockMode: act.state.ShockMode})
	case domain.GetChannelSnapshotRequest:
		ForRequest(msg).Respond(ctx, domain.GetChannelSnapshotResponse{
			Trigger:  msg.Trigger,
			Channels: msg.Channels,
			Snapshot: act.state,
		})
	case domain.PublishStateRequest:
		act.publishState()
	default:
		act.logger.Debug(fmt.Sprintf("channels@%s recv", state.Name()), zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

func (state *ChannelsActor) becomeMode() {
	name := "vibrateMode"
	if state.state.ShockMode {
		name = "shockMode"
	}
	state.Become(CHModeState{actor: state, name: name})
}

func (state *ChannelsActor) setState(prev, next domain.ChannelSnapshot) {
	state.state = next
	metrics.ChannelSnapshot(next)
	if prev.Vibrate != next.Vibrate || prev.Shock != next.Shock {
		state.publish(events.ChannelSnapshotToUpdateEvents(next)[:2]...)
	}
}

func (state *ChannelsActor) setShockMode(enable bool) {
	if state.state.ShockMode == enable {
		return
	}
	state.state.ShockMode = enable
	state.logger.Info("channels: shock mode changed", zap.Bool("shockMode", enable))
	if state.configWriter != nil {
		if err := state.configWriter.Save(CONFIG_KEY_SHOCK_MODE, enable); err != nil {
			state.logger.Warn("channels: could not persist shock mode", zap.Error(err))
		}
	}
	metrics.ChannelSnapshot(state.state)
	state.publish(events.ShockModeUpdateEvent(enable))
	state.becomeMode()
}

func (state *ChannelsActor) publishState() {
	metrics.ChannelSnapshot(state.state)
	state.publish(events.ChannelSnapshotToUpdateEvents(state.state)...)
}

func (state *ChannelsActor) publish(evs ...any) {
	if state.eventStream == nil {
		return
	}
	for _, ev := range evs {
		state.eventStream.Publish(ev)
	}
}

package actor

import (
	"fmt"
	"log"
	"time"

	adactor "github.com/shockbridge/shockbridge/internal/adapter/actor"
	"github.com/shockbridge/shockbridge/internal/config"
	"github.com/shockbridge/shockbridge/internal/core/domain"
	"github.com/shockbridge/shockbridge/internal/core/port"
	"github.com/shockbridge/shockbridge/internal/core/service"
	. "github.com/shockbridge/shockbridge/internal/util/actorutil"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"go.uber.org/zap"
)

const (
	HEALTH_CHILD_TIMEOUT   = 500 * time.Millisecond
	HEALTH_OVERALL_TIMEOUT = 1 * time.Second
)

type MQTTActorProvider func(*eventstream.EventStream) *adactor.MQTTActor

type OutputActorProvider func(*eventstream.EventStream) *adactor.OutputActor

// MasterOfPuppetsActor spawns and supervises the bridge actors and routes
// every external request to the actor that owns the affected state.
type MasterOfPuppetsActor struct {
	config   config.Config
	behavior actor.Behavior
	stash    *Stash

	currentHealthCheck  healthCheckResult
	eventStream         *eventstream.EventStream
	channelsActor       *actor.PID
	persistActor        *actor.PID
	outputActor         *actor.PID
	mqttActor           *actor.PID
	planner             port.DispatchPlanner
	configWriter        port.ConfigWriter
	outputActorProvider OutputActorProvider
	mqttActorProvider   MQTTActorProvider
	logger              *zap.Logger
}

type healthCheckResult struct {
	expected       []string
	healthy        map[string]bool
	states         map[string]string
	checksReceived int
	respondTo      *actor.PID
}

// NewMasterOfPuppetsActor builds the root actor. A nil mqttActorProvider
// leaves the MQTT bridge out.
func NewMasterOfPuppetsActor(config config.Config, outputActorProvider OutputActorProvider, mqttActorProvider MQTTActorProvider,
	configWriter port.ConfigWriter, eventStream *eventstream.EventStream, logger *zap.Logger) *MasterOfPuppetsActor {
	if eventStream == nil {
		eventStream = &eventstream.EventStream{}
	}
	act := &MasterOfPuppetsActor{
		config:              config,
		behavior:            actor.NewBehavior(),
		stash:               &Stash{},
		logger:              ActorLogger(domain.ACTOR_ID_MASTER, logger),
		eventStream:         eventStream,
		planner:             service.NewDispatchPlanner(config.OutputTransport()),
		configWriter:        configWriter,
		outputActorProvider: outputActorProvider,
		mqttActorProvider:   mqttActorProvider,
	}
	act.behavior.Become(act.StartingReceive)
	return act
}

func (state *MasterOfPuppetsActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *MasterOfPuppetsActor) StartingReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("master@starting started")

		outputActorPID, err := state.startOutputActor(ctx)
		if err != nil {
			panic(err)
		}
		state.outputActor = outputActorPID

		channelsActorPID, err := state.startChannelsActor(ctx)
		if err != nil {
			panic(err)
		}
		state.channelsActor = channelsActorPID

		persistActorPID, err := state.startPersistActor(ctx)
		if err != nil {
			panic(err)
		}
		state.persistActor = persistActorPID

		if state.mqttActorProvider != nil {
			mqttActorPID, err := state.startMQTTActor(ctx)
			if err != nil {
				panic(err)
			}
			state.mqttActor = mqttActorPID

			if state.config.MQTT.HADiscoveryEnable {
				if _, err := state.startHADiscoveryActor(ctx); err != nil {
					panic(err)
				}
			}
		}

		state.behavior.Become(state.DefaultReceive)
		state.stash.UnstashAll(ctx)
	default:
		state.logger.Debug("master@starting stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *MasterOfPuppetsActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthRequest:
		state.logger.Debug("master@default ActorHealthRequest")
		state.startHealthCheck(ctx)
		state.behavior.BecomeStacked(state.HealthCheckReceive)
	case *actor.Terminated:
		state.logger.Error("master@default child terminated", zap.String("child", msg.Who.Id))
	default:
		if !state.route(ctx, "default", msg) {
			state.logger.Debug("master@default recv", zap.String("type", fmt.Sprintf("%T", msg)))
		}
	}
}

// HealthCheckReceive keeps routing domain traffic while health replies are
// collected. Only a second health request waits.
func (state *MasterOfPuppetsActor) HealthCheckReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.ReceiveTimeout:
		// children that did not answer are unhealthy
		state.finishHealthCheck(ctx)
	case domain.ActorHealthResponse:
		state.logger.Debug("master@healthcheck ActorHealthResponse", zap.String("sender", msg.Id), zap.Bool("healthy", msg.Healthy))
		state.currentHealthCheck.record(msg)
		if state.currentHealthCheck.allReceived() {
			state.finishHealthCheck(ctx)
		}
	case domain.ActorHealthRequest:
		state.logger.Debug("master@healthcheck stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	default:
		if !state.route(ctx, "healthcheck", msg) {
			state.logger.Debug("master@healthcheck recv", zap.String("type", fmt.Sprintf("%T", msg)))
		}
	}
}

func (state *MasterOfPuppetsActor) route(ctx actor.Context, stateName string, msg any) bool {
	switch cmd := msg.(type) {
	case domain.SliderUpdateRequest, domain.VibrateUpdateRequest, domain.SetShockModeRequest,
		domain.ToggleShockModeRequest, domain.GetChannelSnapshotRequest:
		ctx.Forward(state.channelsActor)
	case domain.ImmediateDispatchRequest, domain.SetOutputRangeRequest, domain.GetOutputRangeRequest:
		ctx.Forward(state.persistActor)
	case domain.DispatchRequest, domain.HubRawCommandRequest, domain.GetOutputStatusRequest:
		ctx.Forward(state.outputActor)
	case adactor.ParsedCommand:
		state.logger.Debug(fmt.Sprintf("master@%s parsedCommand", stateName), zap.Any("command", cmd.Command))
		req, err := ParsedMQTTCommandToCommand(cmd.Command)
		if err != nil {
			state.logger.Warn(fmt.Sprintf("master@%s invalid mqtt command", stateName), zap.String("entity", cmd.Command.Entity), zap.Error(err))
			return true
		}
		switch req.(type) {
		case domain.SetShockModeRequest:
			ctx.Send(state.channelsActor, req)
		case domain.SetOutputRangeRequest:
			ctx.Send(state.persistActor, req)
		}
	case domain.StatusReportRequest:
		state.logger.Debug(fmt.Sprintf("master@%s StatusReportRequest", stateName))
		for _, pid := range []*actor.PID{state.channelsActor, state.persistActor, state.outputActor} {
			ctx.Send(pid, domain.PublishStateRequest{})
		}
		ctx.Request(state.channelsActor, domain.GetChannelSnapshotRequest{})
		ctx.Request(state.outputActor, domain.GetOutputStatusRequest{})
	case domain.GetChannelSnapshotResponse:
		state.logger.Info("master: status", zap.Int("vibrate", cmd.Snapshot.Vibrate), zap.Int("shock", cmd.Snapshot.Shock),
			zap.Bool("shockMode", cmd.Snapshot.ShockMode))
	case domain.GetOutputStatusResponse:
		state.logger.Info("master: output status", zap.String("transport", string(cmd.Status.Transport)),
			zap.String("state", cmd.Status.State), zap.Bool("connected", cmd.Status.Connected))
	default:
		return false
	}
	return true
}

func (state *MasterOfPuppetsActor) startHealthCheck(ctx actor.Context) {
	children := map[string]*actor.PID{
		domain.ACTOR_ID_CHANNELS: state.channelsActor,
		domain.ACTOR_ID_PERSIST:  state.persistActor,
		domain.ACTOR_ID_OUTPUT:   state.outputActor,
	}
	if state.mqttActor != nil {
		children[domain.ACTOR_ID_MQTT] = state.mqttActor
	}

	state.currentHealthCheck.reset()
	state.currentHealthCheck.respondTo = ctx.Sender()
	for id, pid := range children {
		state.currentHealthCheck.expected = append(state.currentHealthCheck.expected, id)
		PipeToSelfWithRecover(ctx, ctx.RequestFuture(pid, domain.ActorHealthRequest{}, HEALTH_CHILD_TIMEOUT), func(err error) any {
			return domain.ActorHealthResponse{
				Id:      id,
				Healthy: false,
			}
		})
	}
	ctx.SetReceiveTimeout(HEALTH_OVERALL_TIMEOUT)
}

func (state *MasterOfPuppetsActor) finishHealthCheck(ctx actor.Context) {
	ctx.CancelReceiveTimeout()
	state.currentHealthCheck.respond(ctx)
	state.behavior.UnbecomeStacked()
	state.stash.UnstashAll(ctx)
}

func (state *MasterOfPuppetsActor) startOutputActor(ctx actor.Context) (*actor.PID, error) {

	supervisor := actor.NewExponentialBackoffStrategy(10*time.Second, 1*time.Second)

	outputProps := actor.PropsFromProducer(func() actor.Actor {
		return state.outputActorProvider(state.eventStream)
	}, actor.WithSupervisor(supervisor))
	return ctx.SpawnNamed(outputProps, domain.ACTOR_ID_OUTPUT)
}

func (state *MasterOfPuppetsActor) startChannelsActor(ctx actor.Context) (*actor.PID, error) {

	decider := func(reason interface{}) actor.Directive {
		log.Printf("handling failure for child. reason: %v", reason)
		return actor.ResumeDirective
	}
	supervisor := actor.NewOneForOneStrategy(1, 10*time.Second, decider)

	channelsProps := actor.PropsFromProducer(func() actor.Actor {
		return NewChannelsActor(state.config.ShockMode, state.configWriter, state.eventStream, state.logger)
	}, actor.WithSupervisor(supervisor))
	return ctx.SpawnNamed(channelsProps, domain.ACTOR_ID_CHANNELS)
}

func (state *MasterOfPuppetsActor) startPersistActor(ctx actor.Context) (*actor.PID, error) {

	decider := func(reason interface{}) actor.Directive {
		log.Printf("handling failure for child. reason: %v", reason)
		return actor.RestartDirective
	}
	supervisor := actor.NewOneForOneStrategy(1, 10*time.Second, decider)

	persistProps := actor.PropsFromProducer(func() actor.Actor {
		return NewPersistActor(state.config.OutputRange(), state.planner, state.channelsActor, state.outputActor,
			state.configWriter, state.eventStream, state.logger)
	}, actor.WithSupervisor(supervisor))
	return ctx.SpawnNamed(persistProps, domain.ACTOR_ID_PERSIST)
}

func (state *MasterOfPuppetsActor) startMQTTActor(ctx actor.Context) (*actor.PID, error) {

	supervisor := actor.NewExponentialBackoffStrategy(10*time.Second, 1*time.Second)

	mqttProps := actor.PropsFromProducer(func() actor.Actor {
		return state.mqttActorProvider(state.eventStream)
	}, actor.WithSupervisor(supervisor))
	return ctx.SpawnNamed(mqttProps, domain.ACTOR_ID_MQTT)
}

func (state *MasterOfPuppetsActor) startHADiscoveryActor(ctx actor.Context) (*actor.PID, error) {

	decider := func(reason interface{}) actor.Directive {
		log.Printf("handling failure for child. reason: %v", reason)
		return actor.RestartDirective
	}
	supervisor := actor.NewOneForOneStrategy(1, 10*time.Second, decider)

	haDiscProps := actor.PropsFromProducer(func() actor.Actor {
		return NewHADiscoveryActor(&state.config, state.mqttActor, state.persistActor, state.logger)
	}, actor.WithSupervisor(supervisor))
	return ctx.SpawnNamed(haDiscProps, domain.ACTOR_ID_HA_DISCOVERY)
}

func (state *healthCheckResult) reset() {
	state.expected = nil
	state.healthy = map[string]bool{}
	state.states = map[string]string{}
	state.checksReceived = 0
	state.respondTo = nil
}

func (state *healthCheckResult) record(resp domain.ActorHealthResponse) {
	state.checksReceived++
	state.healthy[resp.Id] = resp.Healthy
	state.states[resp.Id] = resp.State
}

func (state *healthCheckResult) allReceived() bool {
	return state.checksReceived >= len(state.expected)
}

func (state *healthCheckResult) allHealthy() bool {
	for _, id := range state.expected {
		if !state.healthy[id] {
			return false
		}
	}
	return true
}

func (state *healthCheckResult) respond(ctx actor.Context) {
	resp := domain.ActorHealthResponse{
		Id:      domain.ACTOR_ID_MASTER,
		Healthy: state.allHealthy(),
		State:   fmt.Sprintf("output=%s", state.states[domain.ACTOR_ID_OUTPUT]),
	}
	if state.respondTo != nil {
		ctx.Send(state.respondTo, resp)
	}
}

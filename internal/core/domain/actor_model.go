package domain

const (
	ACTOR_ID_MASTER       = "master"
	ACTOR_ID_CHANNELS     = "channels"
	ACTOR_ID_PERSIST      = "persist"
	ACTOR_ID_OUTPUT       = "output"
	ACTOR_ID_MQTT         = "mqtt"
	ACTOR_ID_HA_DISCOVERY = "hadiscovery"
)

// Channel state (owned by the channels actor)

type SliderUpdateRequest struct {
	ActorRequestMixIn
	Slider    Slider
	Intensity int
	Source    string
}

type VibrateUpdateRequest struct {
	ActorRequestMixIn
	Intensity int
	Source    string
}

type SetShockModeRequest struct {
	ActorRequestMixIn
	Enable bool
}

type ToggleShockModeRequest struct {
	ActorRequestMixIn
}

type ShockModeResponse struct {
	ActorResponseMixIn
	ShockMode bool
}

type GetChannelSnapshotRequest struct {
	ActorRequestMixIn
	Trigger  DispatchTrigger
	Channels []Channel
}

type GetChannelSnapshotResponse struct {
	ActorResponseMixIn
	Trigger  DispatchTrigger
	Channels []Channel
	Snapshot ChannelSnapshot
}

// Persistence loop

type ImmediateDispatchRequest struct {
	ActorRequestMixIn
	Channels []Channel
	Source   string
}

type SetOutputRangeRequest struct {
	ActorRequestMixIn
	Min *int
	Max *int
}

type GetOutputRangeRequest struct {
	ActorRequestMixIn
}

type OutputRangeResponse struct {
	ActorResponseMixIn
	Range OutputRange
}

// Output channel

type DispatchRequest struct {
	ActorRequestMixIn
	Commands []CanonicalCommand
	Trigger  DispatchTrigger
}

type DispatchResponse struct {
	ActorResponseMixIn
	Sent int
}

type HubRawCommandRequest struct {
	ActorRequestMixIn
	Line string
}

type HubRawCommandResponse struct {
	ActorResponseMixIn
}

type GetOutputStatusRequest struct {
	ActorRequestMixIn
}

type GetOutputStatusResponse struct {
	ActorResponseMixIn
	Status OutputStatus
}

// Status

type StatusReportRequest struct {
	ActorRequestMixIn
}

type PublishStateRequest struct {
	ActorRequestMixIn
}

// MQTT

type PublishMessageRequest struct {
	ActorRequestMixIn
	Topic   string
	Payload string
	Retain  bool
}

type PublishMessageResponse struct {
	ActorResponseMixIn
}

type PublishSensorUpdateRequest struct {
	ActorRequestMixIn
	Retain bool
	Event  SensorUpdateEvent
}

type PublishSensorUpdateResponse struct {
	ActorResponseMixIn
}

type PublishDiscoveryRequest struct {
	ActorRequestMixIn
	Sensors      []GenericSensor
	Switches     []GenericSwitch
	InputNumbers []GenericInputNumber
}

type PublishDiscoveryResponse struct {
	ActorResponseMixIn
}

// Health

type ActorHealthRequest struct {
	ActorRequestMixIn
}

type ActorHealthResponse struct {
	ActorResponseMixIn
	Id      string
	Healthy bool
	State   string
}

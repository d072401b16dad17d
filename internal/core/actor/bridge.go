package actor

import (
	"errors"
	"fmt"
	"time"

	"github.com/shockbridge/shockbridge/internal/core/domain"
	"github.com/shockbridge/shockbridge/internal/core/port"

	"github.com/asynkron/protoactor-go/actor"
)

const DEFAULT_BRIDGE_TIMEOUT = 2 * time.Second

var ErrUnexpectedResponse = errors.New("bridge: unexpected response")

// Bridge is the entry point adapters use to talk to the actor tree.
type Bridge struct {
	root    *actor.RootContext
	master  *actor.PID
	timeout time.Duration
}

var _ port.ChannelSink = (*Bridge)(nil)

func NewBridge(root *actor.RootContext, master *actor.PID) *Bridge {
	return &Bridge{
		root:    root,
		master:  master,
		timeout: DEFAULT_BRIDGE_TIMEOUT,
	}
}

func (b *Bridge) UpdateSlider(slider domain.Slider, intensity int, source string) {
	b.root.Send(b.master, domain.SliderUpdateRequest{Slider: slider, Intensity: intensity, Source: source})
}

func (b *Bridge) UpdateVibrate(intensity int, source string) {
	b.root.Send(b.master, domain.VibrateUpdateRequest{Intensity: intensity, Source: source})
}

func (b *Bridge) DispatchNow(source string, channels ...domain.Channel) {
	b.root.Send(b.master, domain.ImmediateDispatchRequest{Channels: channels, Source: source})
}

func (b *Bridge) ToggleShockMode() (bool, error) {
	res, err := request[domain.ShockModeResponse](b, domain.ToggleShockModeRequest{})
	return res.ShockMode, err
}

// SetOutputRange changes any of the bounds given. A rejected range returns
// the unchanged one with the validation error.
func (b *Bridge) SetOutputRange(min, max *int) (domain.OutputRange, error) {
	res, err := request[domain.OutputRangeResponse](b, domain.SetOutputRangeRequest{Min: min, Max: max})
	if err != nil {
		return res.Range, err
	}
	return res.Range, res.GetResponseError()
}

func (b *Bridge) OutputRange() (domain.OutputRange, error) {
	res, err := request[domain.OutputRangeResponse](b, domain.GetOutputRangeRequest{})
	return res.Range, err
}

func (b *Bridge) Snapshot() (domain.ChannelSnapshot, error) {
	res, err := request[domain.GetChannelSnapshotResponse](b, domain.GetChannelSnapshotRequest{})
	return res.Snapshot, err
}

func (b *Bridge) OutputStatus() (domain.OutputStatus, error) {
	res, err := request[domain.GetOutputStatusResponse](b, domain.GetOutputStatusRequest{})
	return res.Status, err
}

// TestCommand sends one command straight to the output, outside the
// persistence loop.
func (b *Bridge) TestCommand(cmd domain.CanonicalCommand) {
	b.root.Send(b.master, domain.DispatchRequest{Commands: []domain.CanonicalCommand{cmd}, Trigger: domain.TriggerImmediate})
}

func (b *Bridge) HubCommand(line string) error {
	res, err := request[domain.HubRawCommandResponse](b, domain.HubRawCommandRequest{Line: line})
	if err != nil {
		return err
	}
	return res.GetResponseError()
}

func (b *Bridge) ReportStatus() {
	b.root.Send(b.master, domain.StatusReportRequest{})
}

func (b *Bridge) Health() (domain.ActorHealthResponse, error) {
	return request[domain.ActorHealthResponse](b, domain.ActorHealthRequest{})
}

func request[T any](b *Bridge, msg any) (T, error) {
	var zero T
	res, err := b.root.RequestFuture(b.master, msg, b.timeout).Result()
	if err != nil {
		return zero, err
	}
	typed, ok := res.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %T", ErrUnexpectedResponse, res)
	}
	return typed, nil
}

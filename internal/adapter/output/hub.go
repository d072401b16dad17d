package output

import (
	"context"

	"github.com/shockbridge/shockbridge/internal/core/domain"
	"github.com/shockbridge/shockbridge/pkg/openshock"
)

type HubOutput struct {
	hub *openshock.Hub
}

func NewHubOutput(hub *openshock.Hub) *HubOutput {
	return &HubOutput{hub: hub}
}

func (o *HubOutput) Name() domain.Transport {
	return domain.TransportHub
}

// Send writes one rftransmit line. The hub write does not block on the
// device, so ctx is only checked before writing.
func (o *HubOutput) Send(ctx context.Context, cmd domain.CanonicalCommand) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ct, err := controlType(cmd.Channel)
	if err != nil {
		return err
	}
	return o.hub.Transmit(ct, cmd.Intensity, cmd.DurationMs)
}

func (o *HubOutput) WriteLine(line string) error {
	return o.hub.WriteLine(line)
}

func (o *HubOutput) Status() domain.OutputStatus {
	state := o.hub.State()
	status := domain.OutputStatus{
		Transport: domain.TransportHub,
		Connected: state == openshock.HubConnected,
		State:     state.String(),
		Path:      o.hub.Path(),
	}
	if err := o.hub.Err(); err != nil {
		status.Error = err.Error()
	}
	return status
}

package output

import (
	"context"
	"sync/atomic"

	"github.com/shockbridge/shockbridge/internal/core/domain"
	"github.com/shockbridge/shockbridge/pkg/openshock"
)

type CloudController interface {
	Control(ctx context.Context, controlType openshock.ControlType, intensity, durationMs int) error
}

// CloudOutput sends every command to the OpenShock API. It reports itself
// disconnected while the last request failed.
type CloudOutput struct {
	client     CloudController
	lastFailed atomic.Bool
}

func NewCloudOutput(client CloudController) *CloudOutput {
	return &CloudOutput{client: client}
}

func (o *CloudOutput) Name() domain.Transport {
	return domain.TransportCloud
}

func (o *CloudOutput) Send(ctx context.Context, cmd domain.CanonicalCommand) error {
	ct, err := controlType(cmd.Channel)
	if err != nil {
		return err
	}
	err = o.client.Control(ctx, ct, cmd.Intensity, cmd.DurationMs)
	o.lastFailed.Store(err != nil)
	return err
}

func (o *CloudOutput) Status() domain.OutputStatus {
	return domain.OutputStatus{
		Transport: domain.TransportCloud,
		Connected: !o.lastFailed.Load(),
		State:     OUTPUT_STATE_CLOUD,
	}
}

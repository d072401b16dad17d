package service

import (
	"testing"
	"time"

	"github.com/shockbridge/shockbridge/internal/core/domain"

	"github.com/stretchr/testify/assert"
)

func TestCadenceFor(t *testing.T) {

	assert := assert.New(t)

	hub := CadenceFor(domain.TransportHub)
	assert.Equal(100*time.Millisecond, hub.Interval)
	assert.Equal(110, hub.DurationMs)

	cloud := CadenceFor(domain.TransportCloud)
	assert.Equal(time.Second, cloud.Interval)
	assert.Equal(1100, cloud.DurationMs)
}

func TestPlanSkipsIdleChannels(t *testing.T) {

	assert := assert.New(t)

	planner := NewDispatchPlanner(domain.TransportHub)
	full := domain.OutputRange{Min: 0, Max: 100}

	assert.Empty(planner.Plan(domain.ChannelSnapshot{}, full))

	cmds := planner.Plan(domain.ChannelSnapshot{Vibrate: 50}, full)
	assert.Equal([]domain.CanonicalCommand{{Channel: domain.ChannelVibrate, Intensity: 50, DurationMs: 110}}, cmds)

	cmds = planner.Plan(domain.ChannelSnapshot{Vibrate: 10, Shock: 30}, domain.OutputRange{Min: 0, Max: 50})
	assert.Equal([]domain.CanonicalCommand{
		{Channel: domain.ChannelVibrate, Intensity: 5, DurationMs: 110},
		{Channel: domain.ChannelShock, Intensity: 15, DurationMs: 110},
	}, cmds)
}

func TestPlanNeverDispatchesZero(t *testing.T) {

	assert := assert.New(t)

	planner := NewDispatchPlanner(domain.TransportCloud)
	for v := 0; v <= 100; v++ {
		for _, r := range []domain.OutputRange{{Min: 0, Max: 100}, {Min: 0, Max: 10}, {Min: 0, Max: 0}, {Min: 5, Max: 30}} {
			for _, cmd := range planner.Plan(domain.ChannelSnapshot{Vibrate: v, Shock: 100 - v}, r) {
				assert.Greater(cmd.Intensity, 0)
				assert.Equal(1100, cmd.DurationMs)
			}
		}
	}
}

func TestPlanOnlyRequestedChannels(t *testing.T) {

	assert := assert.New(t)

	planner := NewDispatchPlanner(domain.TransportHub)
	cmds := planner.Plan(domain.ChannelSnapshot{Vibrate: 100, Shock: 40}, domain.OutputRange{Min: 0, Max: 100}, domain.ChannelVibrate)
	assert.Len(cmds, 1)
	assert.Equal(domain.ChannelVibrate, cmds[0].Channel)
	assert.Equal(100, cmds[0].Intensity)
}

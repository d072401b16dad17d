package service

import (
	"time"

	"github.com/shockbridge/shockbridge/internal/core/domain"
)

type Cadence struct {
	Interval   time.Duration
	DurationMs int
}

var (
	HubCadence   = Cadence{Interval: 100 * time.Millisecond, DurationMs: 110}
	CloudCadence = Cadence{Interval: 1000 * time.Millisecond, DurationMs: 1100}
)

// CadenceFor picks the tick interval and command duration for a transport.
// Each command outlives its tick slightly so actuation has no gaps.
func CadenceFor(transport domain.Transport) Cadence {
	if transport == domain.TransportHub {
		return HubCadence
	}
	return CloudCadence
}

var persistedChannels = []domain.Channel{domain.ChannelVibrate, domain.ChannelShock}

type DefaultDispatchPlanner struct {
	Cadence Cadence
}

func NewDispatchPlanner(transport domain.Transport) *DefaultDispatchPlanner {
	return &DefaultDispatchPlanner{Cadence: CadenceFor(transport)}
}

func (p *DefaultDispatchPlanner) Interval() time.Duration {
	return p.Cadence.Interval
}

// Plan builds one command per channel whose mapped intensity is above zero.
// With no channels given, both persisted channels are considered.
func (p *DefaultDispatchPlanner) Plan(snapshot domain.ChannelSnapshot, outputRange domain.OutputRange,
	channels ...domain.Channel) []domain.CanonicalCommand {

	if len(channels) == 0 {
		channels = persistedChannels
	}
	var commands []domain.CanonicalCommand
	for _, ch := range channels {
		if snapshot.Intensity(ch) <= 0 {
			continue
		}
		mapped := MapToOutputRange(snapshot.Intensity(ch), outputRange)
		if mapped <= 0 {
			continue
		}
		commands = append(commands, domain.CanonicalCommand{
			Channel:    ch,
			Intensity:  mapped,
			DurationMs: p.Cadence.DurationMs,
		})
	}
	return commands
}

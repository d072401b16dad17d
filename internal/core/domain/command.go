package domain

import (
	"fmt"
	"time"
)

type Channel int

const (
	ChannelVibrate Channel = iota
	ChannelShock
	ChannelSound
)

func (c Channel) String() string {
	switch c {
	case ChannelVibrate:
		return "Vibrate"
	case ChannelShock:
		return "Shock"
	case ChannelSound:
		return "Sound"
	default:
		return fmt.Sprintf("Channel(%d)", int(c))
	}
}

// Slider is a physical slider of a two motor toy.
type Slider int

const (
	SliderOne Slider = 1
	SliderTwo Slider = 2
)

type Transport string

const (
	TransportCloud Transport = "cloud"
	TransportHub   Transport = "hub"
)

// CanonicalCommand is built fresh on every dispatch. Intensity is on the
// output scale once it has gone through the range mapper.
type CanonicalCommand struct {
	Channel    Channel
	Intensity  int
	DurationMs int
}

func (c CanonicalCommand) Duration() time.Duration {
	return time.Duration(c.DurationMs) * time.Millisecond
}

func (c CanonicalCommand) String() string {
	return fmt.Sprintf("%s %d%% %dms", c.Channel, c.Intensity, c.DurationMs)
}

// ChannelSnapshot is a consistent copy of the shared channel state.
type ChannelSnapshot struct {
	Vibrate   int
	Shock     int
	ShockMode bool
}

func (s ChannelSnapshot) Intensity(ch Channel) int {
	switch ch {
	case ChannelVibrate:
		return s.Vibrate
	case ChannelShock:
		return s.Shock
	default:
		return 0
	}
}

type OutputRange struct {
	Min int
	Max int
}

type OutputStatus struct {
	Transport Transport
	Connected bool
	State     string
	Path      string
	Error     string
}

type DispatchTrigger int

const (
	TriggerTick DispatchTrigger = iota
	TriggerImmediate
)

func (t DispatchTrigger) String() string {
	if t == TriggerImmediate {
		return "immediate"
	}
	return "tick"
}

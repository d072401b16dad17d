package port

import (
	"time"

	"github.com/shockbridge/shockbridge/internal/core/domain"
)

// ChannelSink is what protocol adapters use to update channel state.
type ChannelSink interface {
	UpdateSlider(slider domain.Slider, intensity int, source string)
	UpdateVibrate(intensity int, source string)
	DispatchNow(source string, channels ...domain.Channel)
}

type DispatchPlanner interface {
	Interval() time.Duration
	Plan(snapshot domain.ChannelSnapshot, outputRange domain.OutputRange, channels ...domain.Channel) []domain.CanonicalCommand
}

type ConfigWriter interface {
	Save(key string, value any) error
}

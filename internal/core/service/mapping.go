package service

import (
	"math"

	"github.com/shockbridge/shockbridge/internal/core/domain"
)

const (
	MIN_INTENSITY = 0
	MAX_INTENSITY = 100
)

// MapToOutputRange scales a canonical 0..100 intensity into [min, max] and
// rounds to the integer scale of the output transport.
func MapToOutputRange(intensity int, outputRange domain.OutputRange) int {
	intensity = ClampIntensity(intensity)
	span := float64(outputRange.Max - outputRange.Min)
	return int(math.Round(float64(outputRange.Min) + float64(intensity)/MAX_INTENSITY*span))
}

func ClampIntensity(intensity int) int {
	return max(MIN_INTENSITY, min(MAX_INTENSITY, intensity))
}

// SliderTarget returns the channel a slider drives. Slider one drives shock
// in shock mode and vibrate otherwise; slider two always drives the other one.
func SliderTarget(slider domain.Slider, shockMode bool) domain.Channel {
	first := domain.ChannelVibrate
	if shockMode {
		first = domain.ChannelShock
	}
	if slider == domain.SliderTwo {
		return Complement(first)
	}
	return first
}

func Complement(ch domain.Channel) domain.Channel {
	if ch == domain.ChannelShock {
		return domain.ChannelVibrate
	}
	return domain.ChannelShock
}

// ApplySlider writes the intensity to the slider's channel and zeroes the
// complementary one.
func ApplySlider(state domain.ChannelSnapshot, slider domain.Slider, intensity int) (domain.ChannelSnapshot, domain.Channel) {
	target := SliderTarget(slider, state.ShockMode)
	intensity = ClampIntensity(intensity)
	if target == domain.ChannelShock {
		state.Shock = intensity
		state.Vibrate = 0
	} else {
		state.Vibrate = intensity
		state.Shock = 0
	}
	return state, target
}

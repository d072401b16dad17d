package service

import (
	"testing"

	"github.com/shockbridge/shockbridge/internal/core/domain"

	"github.com/stretchr/testify/assert"
)

func TestMapToOutputRangeIdentity(t *testing.T) {

	assert := assert.New(t)

	identity := domain.OutputRange{Min: 0, Max: 100}
	for x := 0; x <= 100; x++ {
		assert.Equal(x, MapToOutputRange(x, identity))
	}
}

func TestMapToOutputRange(t *testing.T) {

	assert := assert.New(t)

	r := domain.OutputRange{Min: 20, Max: 60}
	assert.Equal(20, MapToOutputRange(0, r))
	assert.Equal(40, MapToOutputRange(50, r))
	assert.Equal(60, MapToOutputRange(100, r))
	assert.Equal(30, MapToOutputRange(25, r))
	assert.Equal(60, MapToOutputRange(150, r), "input is clamped")

	assert.Equal(1, MapToOutputRange(1, domain.OutputRange{Min: 0, Max: 50}), "0.5 rounds up")
	assert.Equal(0, MapToOutputRange(1, domain.OutputRange{Min: 0, Max: 40}))
	assert.Equal(35, MapToOutputRange(80, domain.OutputRange{Min: 35, Max: 35}))
}

func TestSliderTarget(t *testing.T) {

	assert := assert.New(t)

	assert.Equal(domain.ChannelVibrate, SliderTarget(domain.SliderOne, false))
	assert.Equal(domain.ChannelShock, SliderTarget(domain.SliderTwo, false))
	assert.Equal(domain.ChannelShock, SliderTarget(domain.SliderOne, true))
	assert.Equal(domain.ChannelVibrate, SliderTarget(domain.SliderTwo, true))
}

func TestApplySliderZeroesComplement(t *testing.T) {

	assert := assert.New(t)

	for _, shockMode := range []bool{false, true} {
		for _, slider := range []domain.Slider{domain.SliderOne, domain.SliderTwo} {
			state := domain.ChannelSnapshot{Vibrate: 80, Shock: 70, ShockMode: shockMode}
			next, target := ApplySlider(state, slider, 45)

			assert.Equal(45, next.Intensity(target))
			assert.Equal(0, next.Intensity(Complement(target)))
			assert.Equal(shockMode, next.ShockMode)
		}
	}

	next, target := ApplySlider(domain.ChannelSnapshot{}, domain.SliderOne, 50)
	assert.Equal(domain.ChannelVibrate, target)
	assert.Equal(domain.ChannelSnapshot{Vibrate: 50}, next)
}

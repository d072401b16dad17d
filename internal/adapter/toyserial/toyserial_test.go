package toyserial

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"

	"github.com/shockbridge/shockbridge/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type sliderUpdate struct {
	slider    domain.Slider
	intensity int
}

type fakeSink struct {
	mu      sync.Mutex
	sliders []sliderUpdate
	vibrate []int
}

func (s *fakeSink) UpdateSlider(slider domain.Slider, intensity int, _ string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sliders = append(s.sliders, sliderUpdate{slider, intensity})
}

func (s *fakeSink) UpdateVibrate(intensity int, _ string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vibrate = append(s.vibrate, intensity)
}

func (s *fakeSink) DispatchNow(string, ...domain.Channel) {}

// loopback reads from in and records what the adapter writes back.
type loopback struct {
	in  io.Reader
	out bytes.Buffer
}

func (l *loopback) Read(p []byte) (int, error) {
	return l.in.Read(p)
}

func (l *loopback) Write(p []byte) (int, error) {
	return l.out.Write(p)
}

func TestServe(t *testing.T) {

	require := require.New(t)

	sink := &fakeSink{}
	adapter := NewAdapter(sink, zap.Must(zap.NewDevelopment()))

	rw := &loopback{in: bytes.NewBufferString("DeviceType;Battery;Vibrate:10;Vibrate2:20;Vibrate1:0;PowerOff;Vibrate:x;")}
	require.NoError(adapter.Serve(context.Background(), rw))

	require.Equal("Z:13:00:00:00:00;100;", rw.out.String())
	require.Equal([]sliderUpdate{
		{domain.SliderOne, 50},
		{domain.SliderTwo, 100},
		{domain.SliderOne, 0},
	}, sink.sliders)
	require.Empty(sink.vibrate)
}

func TestServeSplitFrames(t *testing.T) {

	assert := assert.New(t)

	sink := &fakeSink{}
	adapter := NewAdapter(sink, zap.NewNop())

	pr, pw := io.Pipe()
	rw := &loopback{in: pr}

	done := make(chan error)
	go func() { done <- adapter.Serve(context.Background(), rw) }()

	_, _ = pw.Write([]byte("Vibr"))
	_, _ = pw.Write([]byte("ate:5"))
	_, _ = pw.Write([]byte(";"))
	_ = pw.Close()

	assert.NoError(<-done)
	assert.Equal([]sliderUpdate{{domain.SliderOne, 25}}, sink.sliders)
}

package output

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shockbridge/shockbridge/internal/core/domain"
	"github.com/shockbridge/shockbridge/pkg/openshock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type controlCall struct {
	controlType openshock.ControlType
	intensity   int
	durationMs  int
}

type fakeCloud struct {
	calls []controlCall
	err   error
}

func (f *fakeCloud) Control(_ context.Context, controlType openshock.ControlType, intensity, durationMs int) error {
	f.calls = append(f.calls, controlCall{controlType, intensity, durationMs})
	return f.err
}

type pipePort struct {
	r  *io.PipeReader
	w  *io.PipeWriter
	mu sync.Mutex
	sb strings.Builder
}

func newPipePort() *pipePort {
	r, w := io.Pipe()
	return &pipePort{r: r, w: w}
}

func (p *pipePort) Read(b []byte) (int, error) { return p.r.Read(b) }

func (p *pipePort) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sb.Write(b)
}

func (p *pipePort) Close() error {
	_ = p.w.Close()
	return nil
}

func (p *pipePort) written() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sb.String()
}

func TestCloudOutput(t *testing.T) {

	assert := assert.New(t)

	cloud := &fakeCloud{}
	out := NewCloudOutput(cloud)

	assert.NoError(out.Send(context.Background(), domain.CanonicalCommand{Channel: domain.ChannelVibrate, Intensity: 50, DurationMs: 1100}))
	assert.Equal([]controlCall{{openshock.ControlVibrate, 50, 1100}}, cloud.calls)
	assert.True(out.Status().Connected)

	cloud.err = errors.New("boom")
	assert.Error(out.Send(context.Background(), domain.CanonicalCommand{Channel: domain.ChannelShock, Intensity: 10, DurationMs: 300}))
	assert.Equal(domain.OutputStatus{Transport: domain.TransportCloud, Connected: false, State: OUTPUT_STATE_CLOUD}, out.Status())
}

func TestHubOutput(t *testing.T) {

	require := require.New(t)

	hub := openshock.NewHub(openshock.HubTarget{RFId: 42, Model: 1}, zap.Must(zap.NewDevelopment()))
	out := NewHubOutput(hub)
	require.Equal("unconfigured", out.Status().State)
	require.ErrorIs(out.Send(context.Background(), domain.CanonicalCommand{Channel: domain.ChannelVibrate, Intensity: 50, DurationMs: 110}), openshock.ErrHubNotConnected)

	port := newPipePort()
	hub.Attach("/dev/ttyUSB0", port)
	defer hub.Close()

	require.NoError(out.Send(context.Background(), domain.CanonicalCommand{Channel: domain.ChannelSound, Intensity: 10, DurationMs: 300}))
	require.Equal(`rftransmit {"id":42,"model":"Petrainer","type":"Sound","intensity":10,"durationMs":300}`+"\n", port.written())

	require.NoError(out.WriteLine("rfconfig"))
	require.True(strings.HasSuffix(port.written(), "rfconfig\n"))

	require.Equal(domain.OutputStatus{Transport: domain.TransportHub, Connected: true, State: "connected", Path: "/dev/ttyUSB0"}, out.Status())
}

func TestHubOutputReportsReadFailure(t *testing.T) {

	require := require.New(t)

	hub := openshock.NewHub(openshock.HubTarget{RFId: 42}, zap.NewNop())
	out := NewHubOutput(hub)

	port := newPipePort()
	hub.Attach("/dev/ttyUSB0", port)
	require.Empty(out.Status().Error)

	_ = port.w.CloseWithError(errors.New("device unplugged"))

	require.Eventually(func() bool {
		return out.Status().State == "degraded"
	}, time.Second, 10*time.Millisecond)
	status := out.Status()
	require.False(status.Connected)
	require.Equal("device unplugged", status.Error)
}

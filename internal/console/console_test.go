package console

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/shockbridge/shockbridge/internal/config"
	"github.com/shockbridge/shockbridge/internal/core/domain"
	"github.com/shockbridge/shockbridge/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeOperator struct {
	shockMode   bool
	outputRange domain.OutputRange
	tests       []domain.CanonicalCommand
	hubLines    []string
}

func (o *fakeOperator) ToggleShockMode() (bool, error) {
	o.shockMode = !o.shockMode
	return o.shockMode, nil
}

func (o *fakeOperator) SetOutputRange(min, max *int) (domain.OutputRange, error) {
	next := o.outputRange
	if min != nil {
		next.Min = *min
	}
	if max != nil {
		next.Max = *max
	}
	if err := config.CheckOutputRange(next.Min, next.Max); err != nil {
		return o.outputRange, err
	}
	o.outputRange = next
	return next, nil
}

func (o *fakeOperator) OutputRange() (domain.OutputRange, error) {
	return o.outputRange, nil
}

func (o *fakeOperator) Snapshot() (domain.ChannelSnapshot, error) {
	return domain.ChannelSnapshot{Vibrate: 40, ShockMode: o.shockMode}, nil
}

func (o *fakeOperator) OutputStatus() (domain.OutputStatus, error) {
	return domain.OutputStatus{Transport: domain.TransportHub, State: "connected", Connected: true, Path: "/dev/ttyUSB0"}, nil
}

func (o *fakeOperator) TestCommand(cmd domain.CanonicalCommand) {
	o.tests = append(o.tests, cmd)
}

func (o *fakeOperator) HubCommand(line string) error {
	o.hubLines = append(o.hubLines, line)
	return nil
}

func newTestConsole() (*Console, *fakeOperator, *util.MemoryConfigWriter, *bytes.Buffer) {
	op := &fakeOperator{outputRange: domain.OutputRange{Min: 0, Max: 100}}
	writer := util.NewMemoryConfigWriter()
	out := &bytes.Buffer{}
	return NewConsole(util.LoadTestConfig(), op, writer, out, zap.NewNop()), op, writer, out
}

func TestConsoleRange(t *testing.T) {

	assert := assert.New(t)

	c, op, _, out := newTestConsole()

	c.Execute("MIN 20")
	c.Execute("maximum 60")
	assert.Equal(domain.OutputRange{Min: 20, Max: 60}, op.outputRange)

	out.Reset()
	c.Execute("testrange 50")
	assert.Equal("input: 50, output: 40\n", out.String())

	out.Reset()
	c.Execute("max 10")
	assert.Contains(out.String(), "maximum rejected")
	assert.Equal(domain.OutputRange{Min: 20, Max: 60}, op.outputRange)

	out.Reset()
	c.Execute("min abc")
	assert.Contains(out.String(), "is not a number")
}

func TestConsolePersistedSettings(t *testing.T) {

	require := require.New(t)

	c, _, writer, out := newTestConsole()

	c.Execute("token s3cret")
	c.Execute("shocker abc-123")
	c.Execute("model 2")
	c.Execute("rfid 50685")
	c.Execute("hubport off")

	for key, want := range map[string]any{
		CONFIG_KEY_CLOUD_TOKEN:      "s3cret",
		CONFIG_KEY_CLOUD_SHOCKER_ID: "abc-123",
		CONFIG_KEY_HUB_MODEL:        2,
		CONFIG_KEY_HUB_RF_ID:        50685,
		CONFIG_KEY_HUB_PORT:         "",
	} {
		v, ok := writer.Get(key)
		require.True(ok, key)
		require.Equal(want, v, key)
	}

	out.Reset()
	c.Execute("model 7")
	require.Contains(out.String(), "model must be 0, 1 or 2")

	out.Reset()
	c.Execute("dumpconfig")
	require.NotContains(out.String(), "s3cret")
	require.Contains(out.String(), "abc-123")
}

func TestConsoleCommands(t *testing.T) {

	assert := assert.New(t)

	c, op, _, out := newTestConsole()

	err := c.Run(context.Background(), strings.NewReader("switch\ntestshock\ntestvibrate\ntestsound\nhubcmd rftransmit {}\nfoo\n\nstatus\n"))
	assert.NoError(err)

	assert.True(op.shockMode)
	assert.Equal([]domain.CanonicalCommand{TestShock, TestVibrate, TestSound}, op.tests)
	assert.Equal([]string{"rftransmit {}"}, op.hubLines)
	assert.Contains(out.String(), "slider one now drives SHOCK")
	assert.Contains(out.String(), "command not found: foo")
	assert.Contains(out.String(), "vibrate=40 shock=0 shockMode=true range=0-100")
	assert.Contains(out.String(), "path=/dev/ttyUSB0")
}

package lovense

import (
	"bufio"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {

	assert := assert.New(t)

	cmd, err := ParseCommand("DeviceType;")
	assert.NoError(err)
	assert.Equal(KindDeviceType, cmd.Kind)

	cmd, err = ParseCommand("Battery")
	assert.NoError(err)
	assert.Equal(KindBattery, cmd.Kind)

	cmd, err = ParseCommand("Vibrate:10;")
	assert.NoError(err)
	assert.Equal(Command{Kind: KindVibrate, Motor: 1, Level: 10}, cmd)

	cmd, err = ParseCommand("Vibrate1:20")
	assert.NoError(err)
	assert.Equal(Command{Kind: KindVibrate, Motor: 1, Level: 20}, cmd)

	cmd, err = ParseCommand(" Vibrate2:3; ")
	assert.NoError(err)
	assert.Equal(Command{Kind: KindVibrate, Motor: 2, Level: 3}, cmd)
}

func TestParseCommandErrors(t *testing.T) {

	assert := assert.New(t)

	_, err := ParseCommand("RotateChange;")
	assert.ErrorIs(err, ErrUnknownCommand)

	_, err = ParseCommand("Vibrate:abc;")
	assert.ErrorIs(err, ErrMalformedLevel)

	_, err = ParseCommand("Vibrate2:-4;")
	assert.ErrorIs(err, ErrMalformedLevel)

	_, err = ParseCommand("")
	assert.ErrorIs(err, ErrUnknownCommand)
}

func TestParseAction(t *testing.T) {

	assert := assert.New(t)

	level, err := ParseAction("Vibrate:20")
	assert.NoError(err)
	assert.Equal(20, level)

	_, err = ParseAction("Rotate:20")
	assert.ErrorIs(err, ErrUnknownCommand)

	_, err = ParseAction("Vibrate:")
	assert.ErrorIs(err, ErrMalformedLevel)
}

func TestNormalizeIsMonotonicAndBounded(t *testing.T) {

	assert := assert.New(t)

	prev := -1
	for n := 0; n <= MaxLevel; n++ {
		v := Normalize(n)
		assert.GreaterOrEqual(v, 0)
		assert.LessOrEqual(v, 100)
		assert.GreaterOrEqual(v, prev, "monotonic at %d", n)
		prev = v
	}
	assert.Equal(0, Normalize(0))
	assert.Equal(50, Normalize(10))
	assert.Equal(100, Normalize(20))
	assert.Equal(100, Normalize(35), "clamped above 20")
}

func TestScanFrames(t *testing.T) {

	require := require.New(t)

	scanner := bufio.NewScanner(strings.NewReader("DeviceType;Battery;\r\nVibrate:4;Vibrate2:1"))
	scanner.Split(ScanFrames)

	var frames []string
	for scanner.Scan() {
		frames = append(frames, scanner.Text())
	}
	require.NoError(scanner.Err())
	require.Equal([]string{"DeviceType", "Battery", "Vibrate:4", "Vibrate2:1"}, frames)
}

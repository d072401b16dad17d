package lovense

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	// Lush 2, firmware 13, placeholder MAC
	DeviceTypeResponse = "Z:13:00:00:00:00;"
	BatteryResponse    = "100;"

	FrameDelimiter = ';'
	MaxLevel       = 20
)

var (
	ErrUnknownCommand = errors.New("unknown lovense command")
	ErrMalformedLevel = errors.New("malformed lovense level")
)

type CommandKind int

const (
	KindDeviceType CommandKind = iota
	KindBattery
	KindVibrate
)

func (k CommandKind) String() string {
	switch k {
	case KindDeviceType:
		return "DeviceType"
	case KindBattery:
		return "Battery"
	case KindVibrate:
		return "Vibrate"
	default:
		return fmt.Sprintf("CommandKind(%d)", int(k))
	}
}

// Command is a decoded serial frame. Motor is 1 for "Vibrate:" and
// "Vibrate1:", 2 for "Vibrate2:".
type Command struct {
	Kind  CommandKind
	Motor int
	Level int
}

// ParseCommand decodes one frame. The trailing ';' is optional.
func ParseCommand(frame string) (Command, error) {
	line := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(frame), ";"))
	switch {
	case strings.HasPrefix(line, "DeviceType"):
		return Command{Kind: KindDeviceType}, nil
	case strings.HasPrefix(line, "Battery"):
		return Command{Kind: KindBattery}, nil
	case strings.HasPrefix(line, "Vibrate:"):
		return vibrateCommand(line, "Vibrate:", 1)
	case strings.HasPrefix(line, "Vibrate1:"):
		return vibrateCommand(line, "Vibrate1:", 1)
	case strings.HasPrefix(line, "Vibrate2:"):
		return vibrateCommand(line, "Vibrate2:", 2)
	}
	return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, line)
}

// ParseAction decodes a Connect API action string of the form "Vibrate:<n>".
func ParseAction(action string) (int, error) {
	action = strings.TrimSpace(action)
	if !strings.HasPrefix(action, "Vibrate:") {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCommand, action)
	}
	return parseLevel(strings.TrimPrefix(action, "Vibrate:"))
}

// Normalize maps a 0-20 level onto the 0-100 canonical scale. Levels
// outside 0-20 are clamped.
func Normalize(level int) int {
	level = max(0, min(level, MaxLevel))
	return int(math.Round(float64(level) / MaxLevel * 100))
}

// ScanFrames is a bufio.SplitFunc for ';'-terminated frames. The delimiter
// is dropped and blank frames are skipped by the caller.
func ScanFrames(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexByte(data, FrameDelimiter); i >= 0 {
		return i + 1, bytes.TrimSpace(data[:i]), nil
	}
	if atEOF {
		return len(data), bytes.TrimSpace(data), nil
	}
	return 0, nil, nil
}

func vibrateCommand(line, prefix string, motor int) (Command, error) {
	level, err := parseLevel(strings.TrimPrefix(line, prefix))
	if err != nil {
		return Command{}, err
	}
	return Command{Kind: KindVibrate, Motor: motor, Level: level}, nil
}

func parseLevel(s string) (int, error) {
	level, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedLevel, s)
	}
	if level < 0 {
		return 0, fmt.Errorf("%w: %d is negative", ErrMalformedLevel, level)
	}
	return level, nil
}

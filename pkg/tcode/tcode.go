package tcode

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
)

const MaxValue = 999

var ErrNoAxisToken = errors.New("no L0 token in packet")

// L0 followed by a value, with an optional interval suffix that is ignored
var axisToken = regexp.MustCompile(`^L0(\d+)(?:I\d+)?$`)

// ParseValue returns the raw value of the last well-formed L0 token of a
// whitespace separated packet.
func ParseValue(packet string) (int, error) {
	found := false
	value := 0
	for _, token := range strings.Fields(packet) {
		m := axisToken.FindStringSubmatch(token)
		if m == nil {
			continue
		}
		v, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		value = v
		found = true
	}
	if !found {
		return 0, ErrNoAxisToken
	}
	return value, nil
}

// Normalize maps a 0-999 axis value onto 0-100, clamped.
func Normalize(raw int) int {
	v := int(math.Round(float64(raw) / MaxValue * 100))
	return max(0, min(v, 100))
}

package openshock

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type ControlType string

const (
	ControlShock   ControlType = "Shock"
	ControlVibrate ControlType = "Vibrate"
	ControlSound   ControlType = "Sound"
)

const (
	TransmitVerb = "rftransmit"
	DefaultModel = "Petrainer"
)

var shockerModels = map[int]string{
	0: "CaiXianlin",
	1: "Petrainer",
	2: "Petrainer998DR",
}

// ModelName resolves the firmware model string for a numeric model id.
// Unknown ids fall back to DefaultModel.
func ModelName(model int) string {
	if name, ok := shockerModels[model]; ok {
		return name
	}
	return DefaultModel
}

// HubTarget identifies the shocker addressed over RF.
type HubTarget struct {
	RFId      int
	ShockerId string
	Model     int
}

// RadioId returns the explicit RF id, or the shocker id parsed as a number.
func (t HubTarget) RadioId() int {
	if t.RFId != 0 {
		return t.RFId
	}
	id, err := strconv.Atoi(strings.TrimSpace(t.ShockerId))
	if err != nil {
		return 0
	}
	return id
}

type RFTransmit struct {
	Id         int         `json:"id"`
	Model      string      `json:"model"`
	Type       ControlType `json:"type"`
	Intensity  int         `json:"intensity"`
	DurationMs int         `json:"durationMs"`
}

// BuildTransmitLine renders the newline terminated hub command.
func BuildTransmitLine(target HubTarget, controlType ControlType, intensity, durationMs int) (string, error) {
	payload, err := json.Marshal(RFTransmit{
		Id:         target.RadioId(),
		Model:      ModelName(target.Model),
		Type:       controlType,
		Intensity:  intensity,
		DurationMs: durationMs,
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s %s\n", TransmitVerb, payload), nil
}

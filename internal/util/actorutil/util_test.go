package actorutil

import (
	"testing"

	"github.com/shockbridge/shockbridge/internal/core/domain"
	"github.com/shockbridge/shockbridge/internal/mqtt"

	"github.com/stretchr/testify/assert"
)

func TestParsedMQTTCommandToCommand(t *testing.T) {

	assert := assert.New(t)

	cmd, err := ParsedMQTTCommandToCommand(mqtt.Command{Component: mqtt.COMPONENT_SWITCH, Entity: domain.SWITCH_ID_SHOCK_MODE, On: true})
	assert.NoError(err)
	assert.Equal(domain.SetShockModeRequest{Enable: true}, cmd)

	cmd, err = ParsedMQTTCommandToCommand(mqtt.Command{Component: mqtt.COMPONENT_NUMBER, Entity: domain.INPUT_NUMBER_ID_OUTPUT_MAX, Value: 59.6})
	assert.NoError(err)
	req, ok := cmd.(domain.SetOutputRangeRequest)
	assert.True(ok)
	assert.Nil(req.Min)
	assert.Equal(60, *req.Max)

	_, err = ParsedMQTTCommandToCommand(mqtt.Command{Component: mqtt.COMPONENT_NUMBER, Entity: domain.INPUT_NUMBER_ID_OUTPUT_MIN, Value: 150})
	assert.Error(err)

	_, err = ParsedMQTTCommandToCommand(mqtt.Command{Component: mqtt.COMPONENT_NUMBER, Entity: domain.SWITCH_ID_SHOCK_MODE, Value: 1})
	assert.Error(err, "shock mode only accepts switch commands")

	cmd, err = ParsedMQTTCommandToCommand(mqtt.Command{Component: mqtt.COMPONENT_SWITCH, Entity: "unknown"})
	assert.NoError(err)
	assert.Nil(cmd)
}

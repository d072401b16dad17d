package output

import (
	"fmt"

	"github.com/shockbridge/shockbridge/internal/core/domain"
	"github.com/shockbridge/shockbridge/pkg/openshock"
)

const OUTPUT_STATE_CLOUD = "cloud"

func controlType(ch domain.Channel) (openshock.ControlType, error) {
	switch ch {
	case domain.ChannelVibrate:
		return openshock.ControlVibrate, nil
	case domain.ChannelShock:
		return openshock.ControlShock, nil
	case domain.ChannelSound:
		return openshock.ControlSound, nil
	}
	return "", fmt.Errorf("unsupported channel %s", ch)
}

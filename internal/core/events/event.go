package events

import (
	. "github.com/shockbridge/shockbridge/internal/core/domain"
)

func ChannelSnapshotToUpdateEvents(snapshot ChannelSnapshot) []any {
	var events []any

	events = append(events, FloatSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: SENSOR_ID_VIBRATE_INTENSITY,
		},
		Value: float64(snapshot.Vibrate),
	})
	events = append(events, FloatSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: SENSOR_ID_SHOCK_INTENSITY,
		},
		Value: float64(snapshot.Shock),
	})
	events = append(events, ShockModeUpdateEvent(snapshot.ShockMode))

	return events
}

func ShockModeUpdateEvent(shockMode bool) any {
	return SwitchSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: SWITCH_ID_SHOCK_MODE,
		},
		Value: shockMode,
	}
}

func OutputRangeToUpdateEvents(outputRange OutputRange) []any {
	var events []any

	events = append(events, InputNumberSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: INPUT_NUMBER_ID_OUTPUT_MIN,
		},
		Value: float64(outputRange.Min),
	})
	events = append(events, InputNumberSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: INPUT_NUMBER_ID_OUTPUT_MAX,
		},
		Value: float64(outputRange.Max),
	})

	return events
}

func OutputStatusToUpdateEvents(status OutputStatus) []any {
	var events []any

	events = append(events, BinarySensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: SENSOR_ID_OUTPUT_CONNECTED,
		},
		Value: status.Connected,
	})
	events = append(events, TextSensorUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: SENSOR_ID_OUTPUT_STATE,
		},
		Value: status.State,
	})

	return events
}

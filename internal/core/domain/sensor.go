package domain

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"

	"github.com/carlmjohnson/versioninfo"
)

const (
	SENSOR_ID_BRIDGE_STATE      = "bridge"
	SENSOR_ID_VIBRATE_INTENSITY = "vibrate_intensity"
	SENSOR_ID_SHOCK_INTENSITY   = "shock_intensity"
	SENSOR_ID_OUTPUT_CONNECTED  = "output_connected"
	SENSOR_ID_OUTPUT_STATE      = "output_state"
	SWITCH_ID_SHOCK_MODE        = "shock_mode"
	INPUT_NUMBER_ID_OUTPUT_MIN  = "output_min"
	INPUT_NUMBER_ID_OUTPUT_MAX  = "output_max"

	STATE_CLASS_MEASUREMENT   = "measurement"
	DEVICE_CLASS_CONNECTIVITY = "connectivity"
	ENTITY_CLASS_DIAGNOSTIC   = "diagnostic"
	ENTITY_CLASS_CONFIG       = "config"
	SENSOR_TYPE_SENSOR        = "sensor"
	SENSOR_TYPE_BINARY        = "binary_sensor"
	INPUT_NUMBER_MODE_BOX     = "box"
	INPUT_NUMBER_MODE_SLIDER  = "slider"
)

// Home Assistant component model

type Device struct {
	Id           string
	Name         string
	Version      string
	Model        string
	Manufacturer string
}

type GenericSensor struct {
	Device            Device
	Id                string
	SensorType        string
	Name              string
	UniqueId          string
	UnitOfMeasurement string
	StateClass        string
	DeviceClass       string
	EntityCategory    string
	Icon              string
}

type GenericSwitch struct {
	Device   Device
	Id       string
	Name     string
	UniqueId string
	Icon     string
}

type GenericInputNumber struct {
	Device       Device
	Id           string
	Name         string
	UniqueId     string
	Icon         string
	Max          float64
	Min          float64
	Step         float64
	Mode         string
	InitialValue float64
}

// EventStream model

type SensorUpdateEventMixIn struct {
	Id string
}

type SensorUpdateEvent interface {
	SensorUpdateEvent() string
	SensorId() string
}

func (e SensorUpdateEventMixIn) SensorUpdateEvent() string {
	return fmt.Sprintf("%T", e)
}

func (e SensorUpdateEventMixIn) SensorId() string {
	return e.Id
}

type FloatSensorUpdateEvent struct {
	SensorUpdateEventMixIn
	Value    float64
	Decimals uint
}

type BinarySensorUpdateEvent struct {
	SensorUpdateEventMixIn
	Value bool
}

type SwitchSensorUpdateEvent struct {
	SensorUpdateEventMixIn
	Value bool
}

type TextSensorUpdateEvent struct {
	SensorUpdateEventMixIn
	Value string
}

type BridgeStateUpdateEvent struct {
	SensorUpdateEventMixIn
	Value bool
}

type InputNumberSensorUpdateEvent struct {
	SensorUpdateEventMixIn
	Value    float64
	Decimals uint
}

// Bridge entities

func BridgeDevice(baseTopic string) Device {
	return Device{
		Id:           fmt.Sprintf("shockbridge_%s", md5HashShort(baseTopic)),
		Manufacturer: "OpenShock",
		Model:        "Shockbridge",
		Version:      versioninfo.Short(),
		Name:         fmt.Sprintf("Shockbridge %s", md5HashShort(baseTopic)),
	}
}

func BridgeSensors(bridgeDevice Device) []GenericSensor {
	return []GenericSensor{
		{
			Device:         bridgeDevice,
			Id:             SENSOR_ID_BRIDGE_STATE,
			SensorType:     SENSOR_TYPE_BINARY,
			Name:           "Connection state",
			DeviceClass:    DEVICE_CLASS_CONNECTIVITY,
			EntityCategory: ENTITY_CLASS_DIAGNOSTIC,
			UniqueId:       uniqueId(bridgeDevice.Id, SENSOR_ID_BRIDGE_STATE),
		},
		{
			Device:            bridgeDevice,
			Id:                SENSOR_ID_VIBRATE_INTENSITY,
			SensorType:        SENSOR_TYPE_SENSOR,
			Name:              "Vibrate intensity",
			StateClass:        STATE_CLASS_MEASUREMENT,
			UnitOfMeasurement: "%",
			Icon:              "mdi:vibrate",
			UniqueId:          uniqueId(bridgeDevice.Id, SENSOR_ID_VIBRATE_INTENSITY),
		},
		{
			Device:            bridgeDevice,
			Id:                SENSOR_ID_SHOCK_INTENSITY,
			SensorType:        SENSOR_TYPE_SENSOR,
			Name:              "Shock intensity",
			StateClass:        STATE_CLASS_MEASUREMENT,
			UnitOfMeasurement: "%",
			Icon:              "mdi:flash",
			UniqueId:          uniqueId(bridgeDevice.Id, SENSOR_ID_SHOCK_INTENSITY),
		},
		{
			Device:         bridgeDevice,
			Id:             SENSOR_ID_OUTPUT_CONNECTED,
			SensorType:     SENSOR_TYPE_BINARY,
			Name:           "Output connected",
			DeviceClass:    DEVICE_CLASS_CONNECTIVITY,
			EntityCategory: ENTITY_CLASS_DIAGNOSTIC,
			UniqueId:       uniqueId(bridgeDevice.Id, SENSOR_ID_OUTPUT_CONNECTED),
		},
		{
			Device:         bridgeDevice,
			Id:             SENSOR_ID_OUTPUT_STATE,
			SensorType:     SENSOR_TYPE_SENSOR,
			Name:           "Output state",
			EntityCategory: ENTITY_CLASS_DIAGNOSTIC,
			UniqueId:       uniqueId(bridgeDevice.Id, SENSOR_ID_OUTPUT_STATE),
		},
	}
}

func BridgeSwitches(bridgeDevice Device) []GenericSwitch {
	return []GenericSwitch{
		{
			Device:   bridgeDevice,
			Id:       SWITCH_ID_SHOCK_MODE,
			Name:     "Slider 1 shock mode",
			UniqueId: uniqueId(bridgeDevice.Id, SWITCH_ID_SHOCK_MODE),
			Icon:     "mdi:swap-horizontal",
		},
	}
}

func BridgeInputNumbers(bridgeDevice Device, outputRange OutputRange) []GenericInputNumber {
	return []GenericInputNumber{
		{
			Device:       bridgeDevice,
			Id:           INPUT_NUMBER_ID_OUTPUT_MIN,
			Name:         "Output minimum",
			UniqueId:     uniqueId(bridgeDevice.Id, INPUT_NUMBER_ID_OUTPUT_MIN),
			Icon:         "mdi:arrow-collapse-down",
			Min:          0,
			Max:          100,
			Step:         1,
			Mode:         INPUT_NUMBER_MODE_BOX,
			InitialValue: float64(outputRange.Min),
		},
		{
			Device:       bridgeDevice,
			Id:           INPUT_NUMBER_ID_OUTPUT_MAX,
			Name:         "Output maximum",
			UniqueId:     uniqueId(bridgeDevice.Id, INPUT_NUMBER_ID_OUTPUT_MAX),
			Icon:         "mdi:arrow-collapse-up",
			Min:          0,
			Max:          100,
			Step:         1,
			Mode:         INPUT_NUMBER_MODE_BOX,
			InitialValue: float64(outputRange.Max),
		},
	}
}

func uniqueId(baseId, id string) string {
	return fmt.Sprintf("uid_%s_%s", baseId, id)
}

func md5HashShort(text string) string {
	hash := md5.Sum([]byte(text))
	return hex.EncodeToString(hash[:])[0:8]
}

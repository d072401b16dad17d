package mqtt

import (
	"github.com/shockbridge/shockbridge/internal/core/domain"
)

// DiscoveryPayload is the Home Assistant MQTT discovery config of one
// bridge entity.
type DiscoveryPayload struct {
	Name              string          `json:"name"`
	UniqueId          string          `json:"unique_id"`
	Device            DiscoveryDevice `json:"device"`
	StateTopic        string          `json:"state_topic"`
	CommandTopic      string          `json:"command_topic,omitempty"`
	AvailabilityTopic string          `json:"availability_topic"`
	Icon              string          `json:"icon,omitempty"`
	EntityCategory    string          `json:"entity_category,omitempty"`
	DeviceClass       string          `json:"device_class,omitempty"`
	StateClass        string          `json:"state_class,omitempty"`
	UnitOfMeasurement string          `json:"unit_of_measurement,omitempty"`
	PayloadOn         string          `json:"payload_on,omitempty"`
	PayloadOff        string          `json:"payload_off,omitempty"`
	Min               *float64        `json:"min,omitempty"`
	Max               *float64        `json:"max,omitempty"`
	Step              float64         `json:"step,omitempty"`
	Mode              string          `json:"mode,omitempty"`
}

type DiscoveryDevice struct {
	Identifiers  []string `json:"identifiers"`
	Name         string   `json:"name,omitempty"`
	Manufacturer string   `json:"manufacturer,omitempty"`
	Model        string   `json:"model,omitempty"`
	SwVersion    string   `json:"sw_version,omitempty"`
}

// DiscoveryMessage is published retained on Topic.
type DiscoveryMessage struct {
	Topic   string
	Payload DiscoveryPayload
}

// DiscoveryMessages renders the bridge entities. The bridge connection
// sensor reads the availability topic itself; binary sensors and the shock
// mode switch use on/off payloads.
func (t Topics) DiscoveryMessages(sensors []domain.GenericSensor, switches []domain.GenericSwitch,
	numbers []domain.GenericInputNumber) []DiscoveryMessage {
	msgs := make([]DiscoveryMessage, 0, len(sensors)+len(switches)+len(numbers))

	for _, s := range sensors {
		p := t.entity(s.Device, s.Name, s.UniqueId, s.Icon)
		p.StateTopic = t.State(s.SensorType, s.Id)
		p.EntityCategory = s.EntityCategory
		p.DeviceClass = s.DeviceClass
		p.StateClass = s.StateClass
		p.UnitOfMeasurement = s.UnitOfMeasurement
		switch {
		case s.Id == domain.SENSOR_ID_BRIDGE_STATE:
			p.StateTopic = t.Availability()
			p.PayloadOn, p.PayloadOff = MQTT_PAYLOAD_ONLINE, MQTT_PAYLOAD_OFFLINE
		case s.SensorType == COMPONENT_BINARY_SENSOR:
			p.PayloadOn, p.PayloadOff = MQTT_PAYLOAD_ON, MQTT_PAYLOAD_OFF
		}
		msgs = append(msgs, DiscoveryMessage{Topic: t.DiscoveryConfig(s.SensorType, s.Device.Id, s.Id), Payload: p})
	}

	for _, s := range switches {
		p := t.entity(s.Device, s.Name, s.UniqueId, s.Icon)
		p.StateTopic = t.State(COMPONENT_SWITCH, s.Id)
		p.CommandTopic = t.Command(COMPONENT_SWITCH, s.Id)
		p.PayloadOn, p.PayloadOff = MQTT_PAYLOAD_ON, MQTT_PAYLOAD_OFF
		msgs = append(msgs, DiscoveryMessage{Topic: t.DiscoveryConfig(COMPONENT_SWITCH, s.Device.Id, s.Id), Payload: p})
	}

	for _, n := range numbers {
		p := t.entity(n.Device, n.Name, n.UniqueId, n.Icon)
		p.StateTopic = t.State(COMPONENT_NUMBER, n.Id)
		p.CommandTopic = t.Command(COMPONENT_NUMBER, n.Id)
		p.EntityCategory = domain.ENTITY_CLASS_CONFIG
		p.UnitOfMeasurement = "%"
		p.Min, p.Max = &n.Min, &n.Max
		p.Step = n.Step
		p.Mode = n.Mode
		msgs = append(msgs, DiscoveryMessage{Topic: t.DiscoveryConfig(COMPONENT_NUMBER, n.Device.Id, n.Id), Payload: p})
	}
	return msgs
}

func (t Topics) entity(d domain.Device, name, uniqueId, icon string) DiscoveryPayload {
	return DiscoveryPayload{
		Name:     name,
		UniqueId: uniqueId,
		Device: DiscoveryDevice{
			Identifiers:  []string{d.Id},
			Name:         d.Name,
			Manufacturer: d.Manufacturer,
			Model:        d.Model,
			SwVersion:    d.Version,
		},
		AvailabilityTopic: t.Availability(),
		Icon:              icon,
	}
}

package mqtt

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shockbridge/shockbridge/internal/config"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const (
	MQTT_PAYLOAD_ONLINE  = "online"
	MQTT_PAYLOAD_OFFLINE = "offline"
	MQTT_PAYLOAD_ON      = "on"
	MQTT_PAYLOAD_OFF     = "off"

	COMPONENT_SENSOR        = "sensor"
	COMPONENT_BINARY_SENSOR = "binary_sensor"
	COMPONENT_SWITCH        = "switch"
	COMPONENT_NUMBER        = "number"

	DEFAULT_DISCOVERY_PREFIX = "homeassistant"
)

var ErrNotACommand = errors.New("not a bridge command topic")

// Topics is the bridge topic tree:
//
//	<base>/bridge/state                 availability (LWT)
//	<base>/<component>/<id>/state       retained entity state
//	<base>/switch/<id>/command          switch commands
//	<base>/number/<id>/set              number commands
type Topics struct {
	Base      string
	Discovery string
}

func NewTopics(cfg config.MQTTConfig) Topics {
	discovery := cfg.HADiscoveryTopic
	if discovery == "" {
		discovery = DEFAULT_DISCOVERY_PREFIX
	}
	return Topics{Base: cfg.BaseTopic, Discovery: discovery}
}

func (t Topics) Availability() string {
	return t.Base + "/bridge/state"
}

func (t Topics) State(component, id string) string {
	return fmt.Sprintf("%s/%s/%s/state", t.Base, component, id)
}

func (t Topics) Command(component, id string) string {
	return fmt.Sprintf("%s/%s/%s/%s", t.Base, component, id, commandVerb(component))
}

func (t Topics) DiscoveryConfig(component, deviceId, id string) string {
	return fmt.Sprintf("%s/%s/%s/%s/config", t.Discovery, component, deviceId, id)
}

// CommandFilters are the subscriptions needed to receive every command.
// State topics are left out so retained states are not read back.
func (t Topics) CommandFilters() map[string]byte {
	return map[string]byte{
		t.Command(COMPONENT_SWITCH, "+"): 1,
		t.Command(COMPONENT_NUMBER, "+"): 1,
	}
}

func commandVerb(component string) string {
	if component == COMPONENT_NUMBER {
		return "set"
	}
	return "command"
}

// Command is a decoded switch or number command.
type Command struct {
	Component string
	Entity    string
	On        bool
	Value     float64
}

// ParseCommand decodes a message received on a command topic.
func (t Topics) ParseCommand(topic string, payload []byte) (Command, error) {
	rest, ok := strings.CutPrefix(topic, t.Base+"/")
	if !ok {
		return Command{}, ErrNotACommand
	}
	parts := strings.Split(rest, "/")
	if len(parts) != 3 || parts[1] == "" || parts[2] != commandVerb(parts[0]) {
		return Command{}, ErrNotACommand
	}
	cmd := Command{Component: parts[0], Entity: parts[1]}
	value := strings.TrimSpace(string(payload))

	switch cmd.Component {
	case COMPONENT_SWITCH:
		switch strings.ToLower(value) {
		case MQTT_PAYLOAD_ON:
			cmd.On = true
		case MQTT_PAYLOAD_OFF:
		default:
			return Command{}, fmt.Errorf("switch %s: invalid payload %q", cmd.Entity, value)
		}
	case COMPONENT_NUMBER:
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return Command{}, fmt.Errorf("number %s: %w", cmd.Entity, err)
		}
		cmd.Value = v
	default:
		return Command{}, ErrNotACommand
	}
	return cmd, nil
}

// Client wraps a paho client with the bridge topics. Every blocking call
// reports its outcome through a continuation on a separate goroutine.
type Client struct {
	paho   mqtt.Client
	Topics Topics
}

func NewClientOptions(cfg *config.Config) *mqtt.ClientOptions {
	topics := NewTopics(cfg.MQTT)
	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", cfg.MQTT.Host, cfg.MQTT.Port))
	opts.SetClientID(fmt.Sprintf("shockbridge_%s_%d", topics.Base, time.Now().UnixNano()%100000))
	opts.SetAutoReconnect(false)
	opts.SetConnectTimeout(5 * time.Second)
	if cfg.MQTT.Username != "" {
		opts.SetUsername(cfg.MQTT.Username)
		opts.SetPassword(cfg.MQTT.Password)
	}
	opts.SetWill(topics.Availability(), MQTT_PAYLOAD_OFFLINE, 1, true)
	return opts
}

func NewClient(cfg *config.Config, onConnectionLost func(error)) *Client {
	opts := NewClientOptions(cfg)
	if onConnectionLost != nil {
		opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			onConnectionLost(err)
		})
	}
	return &Client{
		paho:   mqtt.NewClient(opts),
		Topics: NewTopics(cfg.MQTT),
	}
}

func (c *Client) IsConnected() bool {
	return c.paho.IsConnected()
}

func (c *Client) Connect(timeout time.Duration, done func(error)) {
	await(c.paho.Connect(), "connect", timeout, done)
}

func (c *Client) Publish(topic string, payload any, retain bool, timeout time.Duration, done func(error)) {
	await(c.paho.Publish(topic, 1, retain, payload), "publish", timeout, done)
}

// SubscribeCommands delivers every valid command to handler. Invalid
// payloads are passed to onInvalid when it is set.
func (c *Client) SubscribeCommands(handler func(Command), onInvalid func(topic string, err error), timeout time.Duration, done func(error)) {
	token := c.paho.SubscribeMultiple(c.Topics.CommandFilters(), func(_ mqtt.Client, msg mqtt.Message) {
		cmd, err := c.Topics.ParseCommand(msg.Topic(), msg.Payload())
		if err != nil {
			if onInvalid != nil {
				onInvalid(msg.Topic(), err)
			}
			return
		}
		handler(cmd)
	})
	await(token, "subscribe", timeout, done)
}

func (c *Client) Disconnect(timeout time.Duration) {
	c.paho.Disconnect(uint(timeout.Milliseconds()))
}

func await(token mqtt.Token, op string, timeout time.Duration, done func(error)) {
	go func() {
		if !token.WaitTimeout(timeout) {
			done(fmt.Errorf("mqtt %s timed out after %s", op, timeout))
			return
		}
		done(token.Error())
	}()
}

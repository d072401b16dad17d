package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shockbridge/shockbridge/internal/core/domain"

	"go.uber.org/zap/zapcore"
)

const (
	TRANSPORT_AUTO  = "auto"
	TRANSPORT_CLOUD = "cloud"
	TRANSPORT_HUB   = "hub"
)

type Config struct {
	LogLevel  zapcore.Level
	HttpLog   bool            `mapstructure:"http_log"`
	Console   bool            `mapstructure:"console"`
	Port      uint            `mapstructure:"port"`
	Transport string          `mapstructure:"transport"`
	ShockMode bool            `mapstructure:"shock_mode"`
	Output    OutputConfig    `mapstructure:"output"`
	Cloud     CloudConfig     `mapstructure:"cloud"`
	Hub       HubConfig       `mapstructure:"hub"`
	SerialToy SerialToyConfig `mapstructure:"serial_toy"`
	TCode     TCodeConfig     `mapstructure:"tcode"`
	MQTT      MQTTConfig      `mapstructure:"mqtt"`
	Status    StatusConfig    `mapstructure:"status"`
}

type OutputConfig struct {
	Min int
	Max int
}

type CloudConfig struct {
	URL           string `mapstructure:"url"`
	Token         string
	ShockerId     string `mapstructure:"shocker_id"`
	TimeoutMillis uint32 `mapstructure:"timeout_millis"`
}

type HubConfig struct {
	Port               string
	Model              int
	RFId               int      `mapstructure:"rf_id"`
	Baud               int      `mapstructure:"baud"`
	ProbeTimeoutMillis uint32   `mapstructure:"probe_timeout_millis"`
	VendorIds          []string `mapstructure:"vendor_ids"`
	Signatures         []string `mapstructure:"signatures"`
}

type SerialToyConfig struct {
	Enable bool
	Port   string
	Baud   int
}

type TCodeConfig struct {
	Enable bool
	Host   string
	Port   uint
}

type MQTTConfig struct {
	Enable            bool
	Host              string
	Port              int
	Username          string
	Password          string
	BaseTopic         string `mapstructure:"base_topic"`
	HADiscoveryEnable bool   `mapstructure:"ha_discovery_enable"`
	HADiscoveryTopic  string `mapstructure:"ha_discovery_topic"`
}

type StatusConfig struct {
	IntervalSeconds uint32 `mapstructure:"interval_seconds"`
}

// OutputTransport resolves "auto" to the hub when a hub port is configured.
func (c Config) OutputTransport() domain.Transport {
	switch strings.ToLower(c.Transport) {
	case TRANSPORT_HUB:
		return domain.TransportHub
	case TRANSPORT_CLOUD:
		return domain.TransportCloud
	}
	if strings.TrimSpace(c.Hub.Port) != "" {
		return domain.TransportHub
	}
	return domain.TransportCloud
}

func (c Config) OutputRange() domain.OutputRange {
	return domain.OutputRange{Min: c.Output.Min, Max: c.Output.Max}
}

// Validate checks bounds and normalizes the MQTT topics in place.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Transport) {
	case TRANSPORT_AUTO, TRANSPORT_CLOUD, TRANSPORT_HUB, "":
	default:
		return fmt.Errorf("config param transport must be one of auto, cloud or hub, got %q", c.Transport)
	}
	if err := CheckOutputRange(c.Output.Min, c.Output.Max); err != nil {
		return err
	}
	if c.Port == 0 {
		return errors.New("config param port should be > 0")
	}
	if c.TCode.Enable && c.TCode.Port == 0 {
		return errors.New("config param tcode.port should be > 0")
	}
	if c.OutputTransport() == domain.TransportCloud {
		if c.Cloud.Token == "" {
			return errors.New("config param cloud.token is required for the cloud transport")
		}
		if c.Cloud.ShockerId == "" {
			return errors.New("config param cloud.shocker_id is required for the cloud transport")
		}
	}
	if c.Hub.Model < 0 {
		return errors.New("config param hub.model should be >= 0")
	}

	if c.MQTT.Enable {
		baseTopic, err := CheckMQTTTopic(c.MQTT.BaseTopic)
		if err != nil {
			return errors.New("invalid base topic. can only contain letters, numbers and underscores")
		}
		c.MQTT.BaseTopic = baseTopic

		hadBaseTopic, err := CheckMQTTTopic(c.MQTT.HADiscoveryTopic)
		if err != nil {
			return errors.New("invalid homeassistant discovery topic. can only contain letters, numbers and underscores")
		}
		c.MQTT.HADiscoveryTopic = hadBaseTopic
	}
	return nil
}

func CheckOutputRange(min, max int) error {
	if min < 0 || min > 100 {
		return errors.New("config param output.min should be within 0..100")
	}
	if max < 0 || max > 100 {
		return errors.New("config param output.max should be within 0..100")
	}
	if min > max {
		return errors.New("config param output.min must be <= output.max")
	}
	return nil
}

func CheckMQTTTopic(baseTopic string) (string, error) {
	// check and fix base topic
	lowerBaseTopic := strings.ToLower(baseTopic)
	baseTopicRegexp := regexp.MustCompile("^[a-z0-9_]+$")
	matches := baseTopicRegexp.FindAllStringSubmatch(lowerBaseTopic, 1)
	if len(matches) <= 0 {
		return "", errors.New("invalid topic. can only contain letters, numbers and underscores")
	}
	return lowerBaseTopic, nil
}

// Redacted returns a copy safe to print.
func (c Config) Redacted() Config {
	if c.Cloud.Token != "" {
		c.Cloud.Token = "*redacted*"
	}
	c.MQTT.Username = "*redacted*"
	c.MQTT.Password = "*redacted*"
	return c
}

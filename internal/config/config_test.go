package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shockbridge/shockbridge/internal/core/domain"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Port:      20010,
		Transport: TRANSPORT_AUTO,
		Output:    OutputConfig{Min: 0, Max: 100},
		Cloud:     CloudConfig{Token: "t", ShockerId: "s"},
		MQTT:      MQTTConfig{BaseTopic: "ShockBridge", HADiscoveryTopic: "homeassistant"},
	}
}

func TestOutputTransport(t *testing.T) {

	assert := assert.New(t)

	cfg := validConfig()
	assert.Equal(domain.TransportCloud, cfg.OutputTransport())

	cfg.Hub.Port = "auto"
	assert.Equal(domain.TransportHub, cfg.OutputTransport(), "auto picks the hub when a port is set")

	cfg.Transport = TRANSPORT_CLOUD
	assert.Equal(domain.TransportCloud, cfg.OutputTransport())

	cfg.Transport = "HUB"
	cfg.Hub.Port = ""
	assert.Equal(domain.TransportHub, cfg.OutputTransport())
}

func TestValidate(t *testing.T) {

	assert := assert.New(t)

	cfg := validConfig()
	assert.NoError(cfg.Validate())

	cfg = validConfig()
	cfg.Output = OutputConfig{Min: 60, Max: 40}
	assert.Error(cfg.Validate(), "inverted range")

	cfg = validConfig()
	cfg.Output.Max = 101
	assert.Error(cfg.Validate())

	cfg = validConfig()
	cfg.Cloud.Token = ""
	assert.Error(cfg.Validate(), "cloud needs a token")

	cfg.Hub.Port = "/dev/ttyUSB0"
	assert.NoError(cfg.Validate(), "hub transport does not need cloud credentials")

	cfg = validConfig()
	cfg.Transport = "pigeon"
	assert.Error(cfg.Validate())
}

func TestValidateMQTTTopics(t *testing.T) {

	assert := assert.New(t)

	cfg := validConfig()
	cfg.MQTT.Enable = true
	assert.NoError(cfg.Validate())
	assert.Equal("shockbridge", cfg.MQTT.BaseTopic)

	cfg.MQTT.BaseTopic = "shock/bridge"
	assert.Error(cfg.Validate())
}

func TestRedacted(t *testing.T) {

	assert := assert.New(t)

	cfg := validConfig()
	cfg.MQTT.Password = "hunter2"
	red := cfg.Redacted()
	assert.Equal("*redacted*", red.Cloud.Token)
	assert.Equal("*redacted*", red.MQTT.Password)
	assert.Equal("t", cfg.Cloud.Token, "original untouched")
}

func TestStoreSave(t *testing.T) {

	require := require.New(t)

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	v := viper.New()
	v.SetDefault("output.min", 0)
	store := NewStore(v, path)

	require.NoError(store.Save("hub.port", "/dev/ttyACM0"))
	require.NoError(store.Save("shock_mode", true))

	read := viper.New()
	read.SetConfigFile(path)
	require.NoError(read.ReadInConfig())
	require.Equal("/dev/ttyACM0", read.GetString("hub.port"))
	require.True(read.GetBool("shock_mode"))
}

func TestStoreSaveKeepsSecretsOutOfFile(t *testing.T) {

	require := require.New(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(os.WriteFile(path, []byte("hub:\n  model: 2\n"), 0o600))

	t.Setenv("SHOCKBRIDGE_CLOUD_TOKEN", "env-secret")
	v := viper.New()
	v.SetEnvPrefix("shockbridge")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetDefault("cloud.token", "")
	v.SetDefault("mqtt.password", "default-secret")
	v.SetConfigFile(path)
	require.NoError(v.ReadInConfig())
	require.Equal("env-secret", v.GetString("cloud.token"))

	store := NewStore(v, path)
	require.NoError(store.Save("hub.port", "/dev/ttyACM0"))
	require.Equal("/dev/ttyACM0", v.GetString("hub.port"), "the live config sees the change")

	data, err := os.ReadFile(path)
	require.NoError(err)
	require.NotContains(string(data), "env-secret")
	require.NotContains(string(data), "default-secret")

	read := viper.New()
	read.SetConfigFile(path)
	require.NoError(read.ReadInConfig())
	require.Equal("/dev/ttyACM0", read.GetString("hub.port"))
	require.Equal(2, read.GetInt("hub.model"), "existing file values are kept")
}

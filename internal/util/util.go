package util

import (
	"github.com/shockbridge/shockbridge/internal/config"

	"go.uber.org/zap"
)

func LoadTestConfig() config.Config {
	return config.Config{
		LogLevel:  zap.DebugLevel,
		Port:      20010,
		Transport: config.TRANSPORT_HUB,
		Output: config.OutputConfig{
			Min: 0,
			Max: 100,
		},
		Cloud: config.CloudConfig{
			URL:           "http://127.0.0.1:1",
			Token:         "test-token",
			ShockerId:     "test-shocker",
			TimeoutMillis: 500,
		},
		Hub: config.HubConfig{
			Port:               "auto",
			Model:              1,
			RFId:               1234,
			Baud:               115200,
			ProbeTimeoutMillis: 200,
		},
		TCode: config.TCodeConfig{
			Enable: true,
			Host:   "127.0.0.1",
			Port:   54817,
		},
		MQTT: config.MQTTConfig{
			Host:              "localhost",
			Port:              1883,
			BaseTopic:         "shockbridge",
			HADiscoveryTopic:  "homeassistant",
			HADiscoveryEnable: true,
		},
	}
}

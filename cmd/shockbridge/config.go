package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/shockbridge/shockbridge/internal/config"
	"github.com/shockbridge/shockbridge/pkg/openshock"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// initConfig resolves the config file, loads it over the defaults and the
// environment, and returns the file path later writes go to.
func initConfig(cfgFile string) (*config.Config, string, error) {

	// alias PORT => SHOCKBRIDGE_PORT
	if port := os.Getenv("PORT"); port != "" {
		os.Setenv("SHOCKBRIDGE_PORT", port)
	}

	setConfigDefaults()

	viper.SetEnvPrefix("shockbridge")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if cfgFile == "" {
		cfgFile = os.Getenv("CONFIG_FILE")
	}
	if cfgFile == "" {
		cfgFile = config.DefaultConfigPath()
	}

	// if present, load config from yaml file
	if _, err := os.Stat(cfgFile); err == nil {
		slog.Info("Using config", "file", cfgFile)
		viper.SetConfigFile(cfgFile)

		err = viper.ReadInConfig()
		if err != nil {
			slog.Error("Error reading config file", "error", err)
		}
	} else {
		viper.SetConfigType("yaml")
	}

	var cfg config.Config

	err := viper.Unmarshal(&cfg)
	if err != nil {
		return nil, cfgFile, err
	}

	cfg.LogLevel = parseLogLevel(viper.GetString("log_level"))

	if err := cfg.Validate(); err != nil {
		return nil, cfgFile, err
	}

	return &cfg, cfgFile, nil
}

func parseLogLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "trace", "debug":
		return zap.DebugLevel
	case "info":
		return zap.InfoLevel
	case "warn":
		return zap.WarnLevel
	case "error":
		return zap.ErrorLevel
	case "fatal":
		return zap.FatalLevel
	default:
		return zap.InfoLevel
	}
}

func setConfigDefaults() {
	viper.SetDefault("log_level", "info")
	viper.SetDefault("http_log", false)
	viper.SetDefault("console", true)
	viper.SetDefault("port", 20010)
	viper.SetDefault("transport", config.TRANSPORT_AUTO)
	viper.SetDefault("shock_mode", false)
	viper.SetDefault("output.min", 0)
	viper.SetDefault("output.max", 100)
	viper.SetDefault("cloud.url", "https://api.openshock.app")
	viper.SetDefault("cloud.token", "")
	viper.SetDefault("cloud.shocker_id", "")
	viper.SetDefault("cloud.timeout_millis", 5000)
	viper.SetDefault("hub.port", "")
	viper.SetDefault("hub.model", 1)
	viper.SetDefault("hub.rf_id", 0)
	viper.SetDefault("hub.baud", openshock.DefaultBaudRate)
	viper.SetDefault("hub.probe_timeout_millis", openshock.DefaultProbeTimeout.Milliseconds())
	viper.SetDefault("hub.vendor_ids", openshock.DefaultVendorIds)
	viper.SetDefault("hub.signatures", openshock.DefaultSignatures)
	viper.SetDefault("serial_toy.enable", false)
	viper.SetDefault("serial_toy.port", "CNCA0")
	viper.SetDefault("serial_toy.baud", 115200)
	viper.SetDefault("tcode.enable", true)
	viper.SetDefault("tcode.host", "127.0.0.1")
	viper.SetDefault("tcode.port", 54817)
	viper.SetDefault("mqtt.enable", false)
	viper.SetDefault("mqtt.host", "localhost")
	viper.SetDefault("mqtt.port", 1883)
	viper.SetDefault("mqtt.username", "")
	viper.SetDefault("mqtt.password", "")
	viper.SetDefault("mqtt.base_topic", "shockbridge")
	viper.SetDefault("mqtt.ha_discovery_enable", false)
	viper.SetDefault("mqtt.ha_discovery_topic", "homeassistant")
	viper.SetDefault("status.interval_seconds", 60)
}

func safePrintConfig(cfg config.Config) {
	slog.Info("Using", "config", cfg.Redacted())
}

package main

import (
	"context"
	"time"

	"github.com/shockbridge/shockbridge/internal/adapter/output"
	"github.com/shockbridge/shockbridge/internal/config"
	"github.com/shockbridge/shockbridge/internal/core/domain"
	"github.com/shockbridge/shockbridge/internal/core/port"
	"github.com/shockbridge/shockbridge/pkg/openshock"

	"go.uber.org/zap"
)

const CONFIG_KEY_HUB_PORT = "hub.port"

func newProbe(cfg *config.Config, logger *zap.Logger) *openshock.Probe {
	probe := openshock.NewProbe(openshock.SerialPortLister{}, openshock.SerialOpener(cfg.Hub.Baud), logger)
	if len(cfg.Hub.VendorIds) > 0 {
		probe.VendorIds = cfg.Hub.VendorIds
	}
	if len(cfg.Hub.Signatures) > 0 {
		probe.Signatures = cfg.Hub.Signatures
	}
	if cfg.Hub.ProbeTimeoutMillis > 0 {
		probe.Timeout = time.Duration(cfg.Hub.ProbeTimeoutMillis) * time.Millisecond
	}
	return probe
}

// newOutput builds the configured transport. The hub is connected (or
// discovered) here, before any adapter is live; failing to find it leaves
// the bridge running with a degraded hub.
func newOutput(ctx context.Context, cfg *config.Config, store port.ConfigWriter, logger *zap.Logger) (port.OutputChannel, func()) {
	if cfg.OutputTransport() == domain.TransportCloud {
		client := openshock.NewCloudClient(cfg.Cloud.URL, cfg.Cloud.Token, cfg.Cloud.ShockerId,
			time.Duration(cfg.Cloud.TimeoutMillis)*time.Millisecond, logger)
		logger.Info("output: using OpenShock cloud API", zap.String("url", cfg.Cloud.URL))
		return output.NewCloudOutput(client), func() {}
	}

	hub := openshock.NewHub(openshock.HubTarget{
		RFId:      cfg.Hub.RFId,
		ShockerId: cfg.Cloud.ShockerId,
		Model:     cfg.Hub.Model,
	}, logger)

	discovered, err := hub.Connect(ctx, cfg.Hub.Port, openshock.SerialOpener(cfg.Hub.Baud), newProbe(cfg, logger))
	if err != nil {
		logger.Error("output: hub not available, commands will be dropped", zap.Error(err))
	} else {
		logger.Info("output: hub connected", zap.String("port", hub.Path()), zap.Bool("discovered", discovered))
	}
	if discovered {
		if err := store.Save(CONFIG_KEY_HUB_PORT, hub.Path()); err != nil {
			logger.Warn("output: could not save discovered hub port", zap.Error(err))
		}
	}
	return output.NewHubOutput(hub), func() {
		if err := hub.Close(); err != nil {
			logger.Debug("output: hub close", zap.Error(err))
		}
	}
}

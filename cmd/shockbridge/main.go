package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	adactor "github.com/shockbridge/shockbridge/internal/adapter/actor"
	"github.com/shockbridge/shockbridge/internal/adapter/toyserial"
	"github.com/shockbridge/shockbridge/internal/config"
	"github.com/shockbridge/shockbridge/internal/console"
	"github.com/shockbridge/shockbridge/internal/core/actor"
	"github.com/shockbridge/shockbridge/internal/core/domain"
	"github.com/shockbridge/shockbridge/internal/core/port"
	"github.com/shockbridge/shockbridge/internal/job"
	"github.com/shockbridge/shockbridge/internal/server"
	"github.com/shockbridge/shockbridge/internal/util/actorutil"
	"github.com/shockbridge/shockbridge/pkg/openshock"

	pactor "github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/carlmjohnson/versioninfo"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	cfgFile   string
	noConsole bool
	saveProbe bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "shockbridge",
		Short:         "Bridge toy control software to an OpenShock shocker",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runBridge,
	}
	registerFlags(rootCmd.PersistentFlags())

	probeCmd := &cobra.Command{
		Use:   "probe",
		Short: "Look for the OpenShock hub on the serial ports",
		RunE:  runProbe,
	}
	probeCmd.Flags().BoolVar(&saveProbe, "save", false, "save the found port to the config file")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "shockbridge %s (revision %s, %s, dirty=%t)\n", versioninfo.Version,
				versioninfo.Revision, versioninfo.LastCommit.Format(time.RFC3339), versioninfo.DirtyBuild)
		},
	}

	rootCmd.AddCommand(probeCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		slog.Error("shockbridge", "error", err)
		os.Exit(1)
	}
}

func registerFlags(flags *pflag.FlagSet) {
	flags.StringVar(&cfgFile, "config", "", "config file (default <user config dir>/shockbridge/config.yaml)")
	flags.String("log-level", "", "trace, debug, info, warn, error or fatal")
	flags.BoolVar(&noConsole, "no-console", false, "do not read operator commands from stdin")
	_ = viper.BindPFlag("log_level", flags.Lookup("log-level"))
}

func loadConfig() (*config.Config, *config.Store, *zap.Logger, error) {
	// load and print config
	cfg, path, err := initConfig(cfgFile)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("config errors: %w", err)
	}
	if noConsole {
		cfg.Console = false
	}
	safePrintConfig(*cfg)

	// zap logger
	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(cfg.LogLevel)

	logger := zap.Must(zapCfg.Build())

	return cfg, config.NewStore(viper.GetViper(), path), logger, nil
}

func runProbe(cmd *cobra.Command, _ []string) error {
	cfg, store, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer logger.Sync()

	path, conn, err := newProbe(cfg, logger).Find(cmd.Context())
	if err != nil {
		return err
	}
	_ = conn.Close()
	fmt.Fprintf(cmd.OutOrStdout(), "hub found on %s\n", path)

	if saveProbe {
		if err := store.Save(CONFIG_KEY_HUB_PORT, path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "saved to %s\n", store.Path())
	}
	return nil
}

func runBridge(cmd *cobra.Command, _ []string) error {
	cfg, store, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// output channel, connected before any adapter goes live
	out, closeOutput := newOutput(ctx, cfg, store, logger)
	defer closeOutput()

	// init actor system
	as := actorutil.NewActorSystemWithZapLogger(logger)
	root := as.Root

	props := pactor.PropsFromProducer(func() pactor.Actor {
		return actor.NewMasterOfPuppetsActor(*cfg, outputActorProvider(out, logger), mqttActorProvider(cfg, logger),
			store, nil, logger)
	})
	pid, err := root.SpawnNamed(props, domain.ACTOR_ID_MASTER)
	if err != nil {
		return err
	}
	bridge := actor.NewBridge(root, pid)

	servers := []*http.Server{server.NewServer(*cfg, root, pid, bridge, logger)}
	if cfg.TCode.Enable {
		servers = append(servers, server.NewTCodeServer(*cfg, bridge, logger))
	}

	if cfg.SerialToy.Enable {
		closeToy := startSerialToy(ctx, cfg, bridge, logger)
		defer closeToy()
	}

	if cfg.Console {
		c := console.NewConsole(*cfg, bridge, store, os.Stdout, logger)
		go func() {
			if err := c.Run(ctx, os.Stdin); err != nil {
				logger.Warn("console stopped", zap.Error(err))
			}
		}()
	}

	statusJob := job.NewStatusJob(time.Duration(cfg.Status.IntervalSeconds)*time.Second, bridge, logger)
	if err := statusJob.Start(ctx); err != nil {
		logger.Warn("status job not started", zap.Error(err))
	}

	// Create a done channel to signal when the shutdown is complete
	done := make(chan bool, 1)

	// Run graceful shutdown in a separate goroutine
	go gracefulShutdown(servers, done)

	startServers(servers, logger)

	<-done
	log.Println("Graceful shutdown complete.")

	stopCtx, stopCancel := context.WithTimeout(context.Background(), time.Second)
	defer stopCancel()
	statusJob.Stop(stopCtx)

	root.Stop(pid)
	as.Shutdown()
	return nil
}

// startServers runs every listener on its own goroutine. A listener that
// fails is logged and the others keep serving.
func startServers(servers []*http.Server, logger *zap.Logger) {
	for _, srv := range servers {
		go func(srv *http.Server) {
			logger.Info("listening", zap.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("listener failed", zap.String("addr", srv.Addr), zap.Error(err))
			}
		}(srv)
	}
}

func gracefulShutdown(servers []*http.Server, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Listen for the interrupt signal.
	<-ctx.Done()

	log.Println("shutting down gracefully, press Ctrl+C again to force")

	// The context is used to inform the servers they have 5 seconds to finish
	// the request they are currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, srv := range servers {
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Server %s forced to shutdown with error: %v", srv.Addr, err)
		}
	}

	log.Println("Server exiting")

	// Notify the main goroutine that the shutdown is complete
	done <- true
}

func startSerialToy(ctx context.Context, cfg *config.Config, sink port.ChannelSink, logger *zap.Logger) func() {
	toyPort, err := openshock.SerialOpener(cfg.SerialToy.Baud)(cfg.SerialToy.Port)
	if err != nil {
		logger.Error("serial toy: could not open port", zap.String("port", cfg.SerialToy.Port), zap.Error(err))
		return func() {}
	}
	logger.Info("serial toy: listening", zap.String("port", cfg.SerialToy.Port))

	adapter := toyserial.NewAdapter(sink, logger)
	go func() {
		if err := adapter.Serve(ctx, toyPort); err != nil && ctx.Err() == nil {
			logger.Error("serial toy: stopped", zap.Error(err))
		}
	}()
	return func() {
		_ = toyPort.Close()
	}
}

func outputActorProvider(out port.OutputChannel, logger *zap.Logger) actor.OutputActorProvider {
	return func(es *eventstream.EventStream) *adactor.OutputActor {
		return adactor.NewOutputActor(out, adactor.DEFAULT_SEND_TIMEOUT, es, logger)
	}
}

func mqttActorProvider(cfg *config.Config, logger *zap.Logger) actor.MQTTActorProvider {
	if !cfg.MQTT.Enable {
		return nil
	}
	return func(es *eventstream.EventStream) *adactor.MQTTActor {
		return adactor.NewMQTTActor(cfg, es, logger)
	}
}

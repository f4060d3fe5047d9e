// devicekeeper - credential store for network devices.
//
// devicekeeper keeps login credentials for routers, switches and other
// devices behind a small cookie-authenticated HTTP API. Passwords are stored
// as bcrypt hashes; device changes are published as audit events to MQTT
// and InfluxDB when those sinks are enabled.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nerrad567/devicekeeper/internal/api"
	"github.com/nerrad567/devicekeeper/internal/audit"
	"github.com/nerrad567/devicekeeper/internal/auth"
	"github.com/nerrad567/devicekeeper/internal/device"
	"github.com/nerrad567/devicekeeper/internal/infrastructure/config"
	"github.com/nerrad567/devicekeeper/internal/infrastructure/database"
	"github.com/nerrad567/devicekeeper/internal/infrastructure/influxdb"
	"github.com/nerrad567/devicekeeper/internal/infrastructure/logging"
	"github.com/nerrad567/devicekeeper/internal/infrastructure/mqtt"
	"github.com/nerrad567/devicekeeper/internal/location"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

const (
	defaultConfigPath = "configs/config.yaml"
	configEnvVar      = "DEVICEKEEPER_CONFIG"
)

func main() {
	configFlag := flag.String("config", "", "path to the YAML config file (default $"+configEnvVar+" or "+defaultConfigPath+")")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, getConfigPath(*configFlag)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run wires every component, serves until ctx is cancelled and shuts down
// in reverse order: HTTP server, audit queue, audit sinks, database.
func run(ctx context.Context, configPath string) error {
	log := logging.Default()
	log.Info("starting devicekeeper",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log = logging.New(cfg.Logging, version)
	log.Info("configuration loaded",
		"path", configPath,
		"database_driver", cfg.Database.Driver,
		"device_password_check", cfg.Security.DevicePasswordCheck,
	)

	db, err := database.Open(database.Config{
		Driver:      cfg.Database.Driver,
		Path:        cfg.Database.Path,
		DSN:         cfg.Database.DSN,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()

	if err := db.Migrate(ctx, log.Logger); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	if v, versionErr := db.SchemaVersion(ctx); versionErr == nil {
		log.Info("database ready", "driver", db.Driver(), "schema_version", v)
	}

	users := auth.NewUserRepository(db)
	locations := location.NewSQLRepository(db)
	hasher := auth.NewHasher(cfg.Security.Password.BcryptCost, cfg.Security.Password.MaxConcurrent)
	tokens := auth.NewTokenService(cfg.Security.JWT.Secret, cfg.GetAccessTokenTTL())

	devices := device.NewService(device.NewSQLRepository(db), locations, users, hasher,
		device.PasswordCheck(cfg.Security.DevicePasswordCheck))
	devices.SetLogger(log.With("component", "device"))

	sinks, closeSinks, err := connectAuditSinks(cfg, log)
	if err != nil {
		return err
	}
	defer closeSinks()

	var sink audit.Sink
	if len(sinks) > 0 {
		sink = sinks
	}
	dispatcher := audit.NewDispatcher(sink, log.With("component", "audit"), audit.DefaultQueueSize)
	auditCtx, stopAudit := context.WithCancel(context.Background())
	go dispatcher.Run(auditCtx)
	defer func() {
		stopAudit()
		<-dispatcher.Done()
	}()

	server, err := api.New(api.Deps{
		Config:   cfg.API,
		Security: cfg.Security,
		Logger:   log.With("component", "api"),
		DB:       db,
		Users:    users,
		Devices:  devices,
		Hasher:   hasher,
		Tokens:   tokens,
		Audit:    dispatcher,
		Version:  version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	log.Info("devicekeeper started", "address", server.Addr(), "audit_sinks", len(sinks))

	<-ctx.Done()
	log.Info("shutdown signal received")
	return nil
}

// connectAuditSinks connects the enabled audit sinks. The returned func
// closes whatever was connected.
func connectAuditSinks(cfg *config.Config, log *logging.Logger) (audit.Multi, func(), error) {
	var (
		sinks   audit.Multi
		closers []func()
	)
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	mqttClient, err := mqtt.Connect(cfg.MQTT)
	switch {
	case errors.Is(err, mqtt.ErrDisabled):
		log.Info("MQTT audit sink disabled")
	case err != nil:
		return nil, closeAll, fmt.Errorf("connecting to MQTT: %w", err)
	default:
		mqttClient.SetLogger(log.With("component", "mqtt"))
		sinks = append(sinks, audit.NewMQTTSink(mqttClient, mqttClient.Topics()))
		closers = append(closers, func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		})
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
			"topic", mqttClient.Topics().AllAudit(),
		)
	}

	influxClient, err := influxdb.Connect(cfg.InfluxDB)
	switch {
	case errors.Is(err, influxdb.ErrDisabled):
		log.Info("InfluxDB audit sink disabled")
	case err != nil:
		closeAll()
		return nil, func() {}, fmt.Errorf("connecting to InfluxDB: %w", err)
	default:
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		sinks = append(sinks, audit.NewInfluxSink(influxClient))
		closers = append(closers, func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		})
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)
	}

	return sinks, closeAll, nil
}

// getConfigPath picks the config file: the -config flag, then
// DEVICEKEEPER_CONFIG, then the default.
func getConfigPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if path := os.Getenv(configEnvVar); path != "" {
		return path
	}
	return defaultConfigPath
}

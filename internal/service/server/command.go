package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/sinawise/sinawise-server/internal/api/rest"
	"github.com/sinawise/sinawise-server/internal/config"
	"github.com/sinawise/sinawise-server/internal/logger"
	"github.com/sinawise/sinawise-server/internal/notify"
	airrepo "github.com/sinawise/sinawise-server/internal/repository/airquality"
	"github.com/sinawise/sinawise-server/internal/repository/alertstate"
	"github.com/sinawise/sinawise-server/internal/repository/shelter"
	"github.com/sinawise/sinawise-server/internal/repository/video"
	"github.com/sinawise/sinawise-server/internal/security"
	"github.com/sinawise/sinawise-server/internal/service/airquality"
	"github.com/sinawise/sinawise-server/internal/service/emergency"
)

// Options controls the sinawise-server process and configuration.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// ListenAddress provides an optional listen address override for the HTTP server.
	ListenAddress string
	// DatabasePath provides an optional override for the bbolt database file.
	DatabasePath string
}

const (
	// readHeaderTimeout bounds header parsing to shed slow-loris connections.
	readHeaderTimeout = 10 * time.Second
	// shutdownTimeout bounds graceful shutdown on SIGTERM.
	shutdownTimeout = 15 * time.Second
	// databaseOpenTimeout bounds the wait on the bbolt file lock.
	databaseOpenTimeout = time.Second
)

// Run starts the HTTP server and blocks until the context is canceled or the
// server stops. Configuration is loaded first, then storage is opened and the
// alert pipeline, repositories and router are wired together.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "sinawise-server")

	settings, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	if opts.ListenAddress != "" {
		settings.ListenAddress = opts.ListenAddress
	}

	if opts.DatabasePath != "" {
		settings.DatabasePath = opts.DatabasePath
	}

	if level, ok := logger.ParseLogLevel(settings.LogLevel); ok {
		logger.SetLevel(level)
	}

	db, err := bolt.Open(settings.DatabasePath, config.DefaultFilePermissions,
		&bolt.Options{Timeout: databaseOpenTimeout})
	if err != nil {
		return fmt.Errorf("open database %s: %w", settings.DatabasePath, err)
	}

	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.Errorf(ctx, "Failed to close database: %v", closeErr)
		}
	}()

	router := rest.NewRouter(routerOptions(ctx, settings, db))

	//nolint:exhaustruct // Zero values suit the remaining server settings.
	httpServer := &http.Server{
		Addr:              settings.ListenAddress,
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	logger.InfoKV(ctx, "Server listening",
		"listen_address", settings.ListenAddress, "database_path", settings.DatabasePath)

	// Done channel is closed after Shutdown finishes to ensure we block
	// until in-flight requests drain before returning.
	done := make(chan struct{})

	go func() {
		<-ctx.Done()
		logger.Info(ctx, "Shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		if shutdownErr := httpServer.Shutdown(shutdownCtx); shutdownErr != nil {
			logger.Errorf(ctx, "Failed to shut down gracefully: %v", shutdownErr)
		}

		close(done)
	}()

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve HTTP: %w", err)
	}

	<-done
	logger.Info(ctx, "HTTP server stopped")

	return nil
}

// routerOptions wires repositories, the alert pipeline and auth collaborators
// over the shared database.
func routerOptions(ctx context.Context, settings *config.Config, db *bolt.DB) rest.RouterOptions {
	manager := emergency.NewManager(alertstate.NewBoltRepository(db))
	policy := emergency.Policy{NotifyOnClear: settings.Emergency.NotifyOnClear}
	composer := emergency.Composer{
		Topic:            settings.Emergency.Topic,
		TTL:              time.Duration(settings.Emergency.TTLSeconds) * time.Second,
		AndroidChannelID: settings.Emergency.AndroidChannelID,
		Sound:            settings.Emergency.AndroidSound,
	}

	transport := newTransport(settings.Emergency)
	if _, degraded := transport.(notify.Noop); degraded {
		logger.Warn(ctx, "Push credentials are not configured, notification dispatch runs degraded")
	}

	dispatcher := emergency.NewDispatcher(
		manager, policy, composer,
		transport,
		settings.Emergency.SendTimeout,
	)

	return rest.RouterOptions{
		Emergency: dispatcher,
		AirQuality: airquality.NewService(
			airrepo.NewBoltRepository(db),
			settings.IoT.PM25GreenMax,
			settings.IoT.PM25YellowMax,
		),
		Shelters: shelter.NewBoltRepository(db),
		Videos:   video.NewBoltRepository(db),
		Tokens:   security.NewTokenManager(settings.Auth.JWTSecret, settings.Auth.TokenTTL),
		Credentials: security.Credentials{
			Username: settings.Auth.AdminUsername,
			Password: settings.Auth.AdminPassword,
		},
		IoTAPIKey: settings.IoT.APIKey,
	}
}

// newTransport selects the push transport. Without credentials the server
// runs degraded: state changes and reads keep working, delivery is reported
// as a degraded outcome.
func newTransport(settings config.EmergencyConfig) notify.Transport {
	transport := notify.NewFCM(settings.CredentialsFile, []byte(settings.CredentialsJSON))
	if transport.Configured() {
		return transport
	}

	return notify.Noop{}
}

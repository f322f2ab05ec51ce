// cmd/registration-server/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"member-registration/internal/common/auth"
	"member-registration/internal/common/aws"
	"member-registration/internal/common/camunda"
	"member-registration/internal/common/config"
	"member-registration/internal/common/database"
	httpclient "member-registration/internal/common/http"
	"member-registration/internal/common/i18n"
	"member-registration/internal/common/logger"
	"member-registration/internal/common/observability"

	draftstore "member-registration/internal/registration/draft-store"
	imagenormalize "member-registration/internal/registration/image-normalize"
	notifymember "member-registration/internal/registration/notify-member"
	stepvalidators "member-registration/internal/registration/step-validators"
	submissiongateway "member-registration/internal/registration/submission-gateway"
	submitproxy "member-registration/internal/registration/submit-proxy"
	wizardapi "member-registration/internal/registration/wizard-api"
	wizardcontroller "member-registration/internal/registration/wizard-controller"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting registration server...",
		zap.String("version", cfg.App.Version),
		zap.String("draftBackend", cfg.Draft.Backend),
		zap.String("gateway", cfg.Gateway.Mode),
	)

	obs, err := observability.New(cfg.App.Name, nil)
	if err != nil {
		zapLog.Fatal("observability setup failed", zap.Error(err))
	}
	defer obs.Shutdown(context.Background())

	ctx := context.Background()
	health := map[string]wizardapi.HealthCheck{}

	// --- Draft storage ---
	var backend draftstore.Backend
	switch cfg.Draft.Backend {
	case config.DraftBackendRedis:
		var redis *database.RedisClient
		err = retryWithBackoff(func() error {
			var err error
			redis, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return redis.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer redis.Close()
		backend = draftstore.NewRedisBackend(redis, config.GetDuration(cfg.Draft.TTL))
		health["redis"] = redis.Ping
		zapLog.Info("Redis connected successfully")

	case config.DraftBackendPostgres:
		var pg *database.PostgresClient
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()
		pgBackend := draftstore.NewPostgresBackend(pg)
		if err := pgBackend.EnsureSchema(ctx); err != nil {
			zapLog.Fatal("draft schema setup failed", zap.Error(err))
		}
		backend = pgBackend
		health["postgres"] = pg.Ping
		zapLog.Info("PostgreSQL connected successfully")

	default:
		backend = draftstore.NewMemoryBackend()
		zapLog.Warn("Drafts are kept in memory and will not survive a restart")
	}

	// --- Outbound credentials and proxy ---
	backendTimeout := config.GetDuration(cfg.Backend.Timeout)
	credentials, err := auth.FromConfig(cfg.Backend, &http.Client{Timeout: backendTimeout})
	if err != nil {
		zapLog.Fatal("backend credentials invalid", zap.Error(err))
	}
	proxy := submitproxy.NewHandler(submitproxy.ServiceDependencies{
		Logger:      log,
		Credentials: credentials,
	}, submitproxy.LoadConfig(cfg.Backend))

	// --- Submission gateway ---
	gatewayCfg := submissiongateway.LoadConfig(cfg)
	var gateway wizardcontroller.Gateway
	switch cfg.Gateway.Mode {
	case config.GatewayModeCamunda:
		var zeebe *camunda.Client
		err = retryWithBackoff(func() error {
			var err error
			zeebe, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
				GatewayAddress:         cfg.Camunda.BrokerAddress,
				UsePlaintextConnection: true,
				ConnectionTimeout:      10 * time.Second,
				RequestTimeout:         config.GetDuration(cfg.Camunda.RequestTimeout),
			})
			return err
		}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
		if err != nil {
			zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
		}
		defer zeebe.Close()
		gateway = submissiongateway.NewProcessGateway(submissiongateway.ServiceDependencies{
			Logger:        log,
			Observability: obs,
			Starter:       zeebe,
		}, gatewayCfg)
		health["camunda"] = zeebe.HealthCheck
		zapLog.Info("Zeebe client connected successfully")

	default:
		gateway = submissiongateway.NewHTTPGateway(submissiongateway.ServiceDependencies{
			Logger:        log,
			Observability: obs,
			Client:        httpclient.NewClient(gatewayCfg.Timeout),
		}, gatewayCfg)
	}

	// --- Notifications ---
	catalog, err := i18n.New(cfg.Locale.Default, cfg.Locale.Supported)
	if err != nil {
		zapLog.Fatal("locale setup failed", zap.Error(err))
	}

	var notifier wizardcontroller.Notifier
	if cfg.Notifications.SMS.Enabled {
		snsClient, err := aws.NewSNSClient(ctx, cfg.Notifications.SMS.Region)
		if err != nil {
			zapLog.Fatal("sns client setup failed", zap.Error(err))
		}
		notifier = notifymember.NewNotifier(notifymember.ServiceDependencies{
			Logger:  log,
			Sender:  snsClient,
			Catalog: catalog,
		}, notifymember.LoadConfig(cfg))
		zapLog.Info("SMS notifications enabled", zap.String("region", cfg.Notifications.SMS.Region))
	}

	// --- Wizard ---
	storeCfg := draftstore.LoadConfig(cfg.Draft)
	validator := stepvalidators.NewValidator(stepvalidators.ServiceDependencies{Logger: log}, stepvalidators.LoadConfig(cfg.Images))
	registry := wizardcontroller.NewRegistry(wizardcontroller.RegistryDependencies{
		Logger: log,
		NewStore: func(key string) wizardcontroller.DraftStore {
			return draftstore.NewStore(draftstore.ServiceDependencies{Logger: log, Backend: backend}, &draftstore.Config{Key: key, TTL: storeCfg.TTL})
		},
		Validator: validator,
		Gateway:   gateway,
		Notifier:  notifier,
	}, wizardcontroller.LoadConfig(cfg))

	gin.SetMode(cfg.Server.Mode)
	router := wizardapi.NewRouter(wizardapi.ServiceDependencies{
		Logger:     log,
		Registry:   registry,
		Normalizer: imagenormalize.NewNormalizer(imagenormalize.ServiceDependencies{Logger: log}, imagenormalize.LoadConfig(cfg.Images)),
		Catalog:    catalog,
		Proxy:      proxy,
		Health:     health,
	}, wizardapi.LoadConfig(cfg.Images))

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining requests...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down HTTP server", zap.Error(err))
	}

	zapLog.Info("Registration server stopped gracefully")
}

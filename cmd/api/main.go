package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/helpdesk-triage/internal/api/http"
	"github.com/spec-kit/helpdesk-triage/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-triage/internal/classify"
	"github.com/spec-kit/helpdesk-triage/internal/config"
	"github.com/spec-kit/helpdesk-triage/internal/domain"
	"github.com/spec-kit/helpdesk-triage/internal/events"
	"github.com/spec-kit/helpdesk-triage/internal/ingest"
	"github.com/spec-kit/helpdesk-triage/internal/mailbox"
	"github.com/spec-kit/helpdesk-triage/internal/observability"
	"github.com/spec-kit/helpdesk-triage/internal/persistence"
	"github.com/spec-kit/helpdesk-triage/internal/service"
	"github.com/spec-kit/helpdesk-triage/internal/store"
	"github.com/spec-kit/helpdesk-triage/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	// The one fatal startup condition: the poll loop must not run without
	// structurally valid mail credentials.
	if err := cfg.Mail.Validate(); err != nil {
		logger.Fatal("mail configuration invalid", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics := observability.NewMetrics()

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	dispatcher := events.NewInMemoryDispatcher()

	storeDeps := store.Dependencies{
		Routing: store.RoutingTable{
			Addresses: map[domain.StaffRole]string{
				domain.RoleSecurityOfficer:    cfg.Routing.SecurityOfficer,
				domain.RoleHelpdeskManager:    cfg.Routing.HelpdeskManager,
				domain.RoleHRCoordinator:      cfg.Routing.HRCoordinator,
				domain.RoleProcurementOfficer: cfg.Routing.ProcurementOfficer,
				domain.RoleNetworkAdmin:       cfg.Routing.NetworkAdmin,
			},
			Default: cfg.Routing.DefaultAddress,
		},
		Monitored:  cfg.Mail.Address,
		Dispatcher: dispatcher,
		Logger:     logger,
	}
	if cache := persistence.NewSeenCache(redis, cfg.Redis.SeenKey); cache != nil {
		storeDeps.Cache = cache
	}
	ticketStore := store.New(storeDeps)

	var remote classify.RemoteJudge
	if cfg.Classifier.APIKey != "" {
		remoteClassifier, err := classify.NewRemoteClassifier(classify.RemoteConfig{
			APIKey:  cfg.Classifier.APIKey,
			BaseURL: cfg.Classifier.BaseURL,
			Model:   cfg.Classifier.Model,
			Timeout: cfg.Classifier.Timeout(),
		})
		if err != nil {
			logger.Fatal("failed to init remote classifier", zap.Error(err))
		}
		remote = remoteClassifier
	} else {
		logger.Warn("CLASSIFIER_API_KEY not set; keyword fallback only")
	}
	classifier := classify.NewClassifier(remote, logger, metrics)

	pipeline := service.NewPipeline(service.Dependencies{
		Fetcher:    mailbox.NewIMAPFetcher(cfg.Mail, logger),
		Sender:     mailbox.NewSMTPSender(cfg.Mail, logger),
		Filter:     ingest.NewFilter(ticketStore.Seen),
		Classifier: classifier,
		Store:      ticketStore,
		Logger:     logger,
		Metrics:    metrics,
	})

	audit := service.NewAuditLog(dispatcher, logger)
	audit.RegisterHandlers()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics)

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, redis)
	ticketsHandler := handlers.NewTicketsHandler(ticketStore, pipeline)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:  healthHandler,
		Tickets: ticketsHandler,
	})

	poller := worker.NewInboxPoller(pipeline, cfg.App.PollInterval(), logger)
	go poller.Run(ctx)

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"devis_broker/internal/adapter/http/handlers"
	"devis_broker/internal/adapter/http/routes"
	"devis_broker/internal/adapter/persistence/memory"
	"devis_broker/internal/adapter/persistence/repository"
	"devis_broker/internal/infrastructure/config"
	"devis_broker/internal/infrastructure/database"
	"devis_broker/internal/infrastructure/scheduler"
	"devis_broker/internal/usecase"
	"devis_broker/internal/usecase/interfaces"

	_ "github.com/joho/godotenv/autoload"
	"golang.org/x/sync/errgroup"
)

// @title           Devis Broker API
// @version         1.0
// @description     Freight quote broker: quote lifecycle, forwarder assignment and polled notifications.
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.url    http://www.swagger.io/support
// @contact.email  support@swagger.io

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080

// @BasePath  /v1

const shutdownTimeout = 10 * time.Second

type stores struct {
	quotes        interfaces.IQuoteRepository
	notifications interfaces.INotificationRepository
	forwarders    interfaces.IForwarderRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open %s store: %v", cfg.StoreBackend, err)
	}

	emitter := usecase.NewNotificationEmitter(st.notifications, usecase.EmitterConfig{
		AdminInboxID: cfg.AdminInboxID,
		MaxAttempts:  cfg.NotifyMaxAttempts,
		BaseDelay:    cfg.NotifyRetryBaseDelay,
		MaxDelay:     cfg.NotifyRetryMaxDelay,
	})
	resolver := usecase.NewAssignmentResolver(st.forwarders)
	quoteUseCase := usecase.NewQuoteUseCase(st.quotes, resolver, emitter, usecase.QuoteUseCaseConfig{
		DefaultPageSize: cfg.DefaultPageSize,
		MaxPageSize:     cfg.MaxPageSize,
	})
	notificationUseCase := usecase.NewNotificationUseCase(st.notifications, emitter)
	forwarderUseCase := usecase.NewForwarderUseCase(st.forwarders)

	router := routes.NewRouter(routes.Handlers{
		Quote:        handlers.NewQuoteHandler(quoteUseCase),
		Notification: handlers.NewNotificationHandler(notificationUseCase),
		Forwarder:    handlers.NewForwarderHandler(forwarderUseCase),
	})
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	sweeper := scheduler.NewExpirySweeper(quoteUseCase, cfg.ExpirySweepInterval)

	g, groupCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("[api] listening addr=%s store=%s", server.Addr, cfg.StoreBackend)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return sweeper.Run(groupCtx)
	})
	g.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Printf("[api] shutting down")
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("Failed to run the application: %v", err)
	}
}

func openStores(ctx context.Context, cfg *config.Config) (stores, error) {
	if cfg.StoreBackend == config.StoreMemory {
		log.Printf("[api] using in-memory store, data is lost on restart")
		return stores{
			quotes:        memory.NewQuoteRepository(),
			notifications: memory.NewNotificationRepository(),
			forwarders:    memory.NewForwarderRepository(),
		}, nil
	}

	ddb, err := database.ConnectDynamoDB(ctx, cfg)
	if err != nil {
		return stores{}, err
	}
	return stores{
		quotes:        repository.NewQuoteDynamoRepository(ddb, cfg.QuotesTable),
		notifications: repository.NewNotificationDynamoRepository(ddb, cfg.NotificationsTable),
		forwarders:    repository.NewForwarderDynamoRepository(ddb, cfg.ForwardersTable),
	}, nil
}

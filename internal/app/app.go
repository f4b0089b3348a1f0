package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	natsio "github.com/nats-io/nats.go"
	"github.com/swapshop/marketplace-service/internal/adapter/email"
	mongoadapter "github.com/swapshop/marketplace-service/internal/adapter/mongo"
	natsadapter "github.com/swapshop/marketplace-service/internal/adapter/nats"
	"github.com/swapshop/marketplace-service/internal/app/config"
	"github.com/swapshop/marketplace-service/internal/platform/logger"
	httpport "github.com/swapshop/marketplace-service/internal/port/http"
	"github.com/swapshop/marketplace-service/internal/service"
	"go.mongodb.org/mongo-driver/mongo"
)

// App owns every long-lived resource of the process and tears them down in
// reverse order on shutdown.
type App struct {
	cfg        *config.Config
	log        logger.Logger
	mongo      *mongo.Client
	natsConn   *natsio.Conn
	dispatcher *service.Dispatcher
	server     *http.Server
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log := logger.NewZapLogger(logger.Config{
		Level:      cfg.Logger.Level,
		Encoding:   cfg.Logger.Encoding,
		TimeFormat: cfg.Logger.TimeFormat,
	})
	log.Infof("Starting marketplace service, env=%s", cfg.Env)

	client, err := mongoadapter.NewClient(ctx, cfg.MongoDB)
	if err != nil {
		return nil, err
	}
	db := client.Database(cfg.MongoDB.Database)

	offers := mongoadapter.NewListingRepository(db, mongoadapter.CollectionOffers)
	wanted := mongoadapter.NewListingRepository(db, mongoadapter.CollectionWanted)
	events := mongoadapter.NewEventRepository(db)
	subs := mongoadapter.NewSubscriptionRepository(db)
	users := mongoadapter.NewUserRepository(db)

	sender, err := email.NewSMTPSender(cfg.SMTP, log)
	if err != nil {
		return nil, err
	}

	var natsConn *natsio.Conn
	var publisher natsadapter.MessagePublisher
	if cfg.NATS.Enabled {
		natsConn, err = natsadapter.NewConnection(cfg.NATS)
		if err != nil {
			return nil, err
		}
		publisher, err = natsadapter.NewPublisher(natsConn)
		if err != nil {
			return nil, err
		}
	} else {
		log.Info("NATS publishing disabled")
	}

	dispatcher := service.NewDispatcher(
		offers, wanted, events, subs, users, sender,
		cfg.SMTP.SenderEmail, cfg.Subscription.DigestSubject, log,
	)

	itemSvc := service.NewItemService(offers, wanted, events, publisher, log)
	subSvc := service.NewSubscriptionService(subs, dispatcher, log)
	userSvc := service.NewUserService(
		users, sender,
		cfg.Auth.JWTSecret, cfg.Auth.TokenTimeout, cfg.Subscription.UIBaseURL, log,
	)

	router := httpport.NewRouter(
		httpport.NewItemHandler(itemSvc, log),
		httpport.NewSubscriptionHandler(subSvc, log),
		httpport.NewUserHandler(userSvc, log),
		cfg.Auth.JWTSecret, log,
	)

	server := &http.Server{
		Addr:         ":" + cfg.HTTPServer.Port,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
	}

	return &App{
		cfg:        cfg,
		log:        log,
		mongo:      client,
		natsConn:   natsConn,
		dispatcher: dispatcher,
		server:     server,
	}, nil
}

// Run re-arms any awaiting subscription, serves HTTP and blocks until a
// termination signal arrives.
func (a *App) Run(ctx context.Context) error {
	if err := a.dispatcher.Restore(ctx); err != nil {
		return fmt.Errorf("failed to restore dispatch timer: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Infof("HTTP server listening on %s", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		a.log.Infof("Received signal %s, shutting down", sig)
	case <-ctx.Done():
		a.log.Info("Context cancelled, shutting down")
	}

	return a.shutdown()
}

func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTPServer.TimeoutGraceful)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.log.Errorf("HTTP server shutdown failed: %v", err)
	}

	// A pending digest timer does not survive the process anyway; Restore
	// re-arms it on the next start.
	a.dispatcher.Stop()

	if a.natsConn != nil {
		a.natsConn.Close()
	}
	if err := a.mongo.Disconnect(ctx); err != nil {
		a.log.Errorf("MongoDB disconnect failed: %v", err)
	}

	a.log.Info("Shutdown complete")
	return nil
}

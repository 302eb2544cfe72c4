package modelshare

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/model-sharing-service/internal/config"
	"github.com/magabrotheeeer/model-sharing-service/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/model-sharing-service/internal/lib/token"
	"github.com/magabrotheeeer/model-sharing-service/internal/migrations"
	authservice "github.com/magabrotheeeer/model-sharing-service/internal/services/auth"
	commentservice "github.com/magabrotheeeer/model-sharing-service/internal/services/comment"
	eventsservice "github.com/magabrotheeeer/model-sharing-service/internal/services/events"
	modelservice "github.com/magabrotheeeer/model-sharing-service/internal/services/model"
	rightsservice "github.com/magabrotheeeer/model-sharing-service/internal/services/rights"
	"github.com/magabrotheeeer/model-sharing-service/internal/sessions"
	"github.com/magabrotheeeer/model-sharing-service/internal/storage/repository"
)

// App инкапсулирует HTTP-сервер и его зависимости.
type App struct {
	server   *http.Server
	logger   *slog.Logger
	db       *repository.Storage
	sessions *sessions.Store
}

// New собирает приложение: хранилище, миграции, сессии, RabbitMQ,
// сервисы и маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	sessionStore, err := sessions.InitServer(ctx, cfg.RedisConnection, cfg.Session.TTL)
	if err != nil {
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.AddressRabbit, 5, 2*time.Second)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn, cfg.Exchange, []rabbitmq.QueueConfig{
		{QueueName: "activity.models", RoutingKey: eventsservice.RoutingKeyModelCreated},
		{QueueName: "activity.comments", RoutingKey: eventsservice.RoutingKeyCommentCreated},
	})
	if err != nil {
		return nil, err
	}

	tokenMaker := token.NewMaker(cfg.APIToken.SecretKey, cfg.APIToken.TokenTTL)

	eventsService := eventsservice.NewEventsService(ch, cfg.Exchange, logger)
	authService := authservice.NewAuthService(db, tokenMaker, logger)
	rightsService := rightsservice.NewRightsService(db, logger)
	modelService := modelservice.NewModelService(db, rightsService, eventsService, logger)
	commentService := commentservice.NewCommentService(db, rightsService, eventsService, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, authService, modelService, rightsService,
		commentService, sessionStore, cfg.Session.CookieName)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:   srv,
		logger:   logger,
		db:       db,
		sessions: sessionStore,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его при отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		_ = a.db.DB.Close()
		return err
	}
}

package subscriptiontracker

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/magabrotheeeer/subscription-tracker/internal/cache"
	"github.com/magabrotheeeer/subscription-tracker/internal/config"
	"github.com/magabrotheeeer/subscription-tracker/internal/events"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/sessioncookie"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/jwt"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/metrics"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-tracker/internal/migrations"
	authservice "github.com/magabrotheeeer/subscription-tracker/internal/services/auth"
	subservice "github.com/magabrotheeeer/subscription-tracker/internal/services/subscription"
	"github.com/magabrotheeeer/subscription-tracker/internal/storage"
	"github.com/magabrotheeeer/subscription-tracker/internal/storage/memory"
	"github.com/magabrotheeeer/subscription-tracker/internal/storage/postgresql"
)

const shutdownTimeout = 15 * time.Second

// Store общий контракт хранилищ memory и postgres.
type Store interface {
	authservice.UserRepository
	subservice.Repository
	Ping(ctx context.Context) error
}

// App HTTP-приложение трекера подписок.
type App struct {
	server  *http.Server
	logger  *slog.Logger
	closers []io.Closer
}

// New собирает приложение по конфигу: хранилище, кэш, издатель событий, сервисы и роутер.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.New"
	a := &App{logger: logger}

	store, err := a.initStorage(ctx, cfg)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	subCache, err := a.initCache(ctx, cfg)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	publisher, err := a.initPublisher(ctx, cfg)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	secret, err := sessionSecret(cfg, logger)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	jwtMaker := jwt.NewJWTMaker(secret, cfg.TokenTTL)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	router := NewRouter(Deps{
		Logger:        logger,
		Auth:          authservice.NewService(store, jwtMaker, publisher, logger),
		Subscriptions: subservice.NewService(store, subCache, publisher, logger),
		Cookies:       sessioncookie.New(cfg.CookieName, cfg.SecureCookie(), jwtMaker.TTL()),
		Storage:       store,
		Backend:       cfg.Backend,
		Metrics:       metrics.New(reg),
		RateLimit:     cfg.RateLimit,
	})

	a.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return a, nil
}

func (a *App) initStorage(ctx context.Context, cfg *config.Config) (Store, error) {
	if cfg.Backend != storage.BackendPostgres {
		a.logger.Info("using in-memory storage")
		return memory.New(), nil
	}

	db, err := postgresql.New(ctx, cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, db)
	if err := migrations.Run(db.DB); err != nil {
		return nil, err
	}
	a.logger.Info("using postgres storage")
	return db, nil
}

func (a *App) initCache(ctx context.Context, cfg *config.Config) (subservice.Cache, error) {
	if cfg.AddressRedis == "" {
		a.logger.Info("redis address is empty, cache disabled")
		return cache.Nop{}, nil
	}
	c, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, c)
	return c, nil
}

func (a *App) initPublisher(ctx context.Context, cfg *config.Config) (events.Publisher, error) {
	if cfg.RabbitMQ.URL == "" {
		a.logger.Info("rabbitmq url is empty, events disabled")
		return events.Nop{}, nil
	}
	conn, err := rabbitmq.Connect(ctx, cfg.RabbitMQ.URL, cfg.Retries, cfg.Delay)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, conn)

	ch, err := rabbitmq.SetupExchange(conn, cfg.Exchange)
	if err != nil {
		return nil, err
	}
	pub := events.NewAMQPPublisher(ch, cfg.Exchange)
	// канал закрывается раньше соединения
	a.closers = append(a.closers, pub)
	return pub, nil
}

// sessionSecret возвращает секрет подписи токенов. В окружении local пустой
// секрет заменяется случайным, и сессии не переживают перезапуск.
func sessionSecret(cfg *config.Config, logger *slog.Logger) (string, error) {
	if cfg.Secret != "" {
		return cfg.Secret, nil
	}
	if cfg.Env != config.EnvLocal {
		return "", errors.New("session secret is not configured")
	}
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	logger.Warn("session secret is not configured, generated a random one; sessions will not survive restart")
	return hex.EncodeToString(buf), nil
}

// Handler возвращает корневой HTTP-обработчик.
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Run запускает HTTP-сервер и останавливает его при отмене ctx.
func (a *App) Run(ctx context.Context) error {
	defer a.close()

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
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		return a.server.Shutdown(timeoutCtx)
	}
}

func (a *App) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.logger.Warn("failed to close resource", sl.Err(err))
		}
	}
	a.closers = nil
}

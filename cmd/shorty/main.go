// Command shorty запускает HTTP-сервер редиректора коротких ссылок.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/tempizhere/shorty/internal/app"
	"github.com/tempizhere/shorty/internal/config"
	"github.com/tempizhere/shorty/internal/log"
	"github.com/tempizhere/shorty/internal/metrics"
	"github.com/tempizhere/shorty/internal/qrcode"
	"github.com/tempizhere/shorty/internal/repository"
	"github.com/tempizhere/shorty/internal/service"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

// server объединяет обработчик и ресурсы, которые нужно закрыть при остановке
type server struct {
	handler http.Handler
	db      *repository.DB
	redis   *redis.Client
}

// newServer собирает зависимости приложения по конфигурации
func newServer(cfg *config.Config, logger *zap.Logger) (*server, error) {
	db, err := repository.NewDB(cfg.DatabaseDSN, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("Using database", zap.String("driver", db.Driver()))

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	s := &server{db: db}

	var links repository.LinkRepository = repository.NewSQLLinkRepository(db, logger, cfg.QueryTimeout)
	if cfg.RedisAddr != "" {
		s.redis = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		links = repository.NewRedisLinkCache(links, s.redis, cfg.CacheTTL, logger)
		logger.Info("Link cache enabled",
			zap.String("redis_addr", cfg.RedisAddr),
			zap.Duration("ttl", cfg.CacheTTL))
	}
	quotations := repository.NewSQLQuotationRepository(db, logger, cfg.QueryTimeout)

	resolver := service.NewResolver(
		links,
		service.NewQuotationPicker(quotations, logger, m),
		qrcode.NewAdapter(qrcode.NewSVGEncoder()),
		cfg.CookieName,
		logger,
		m,
	)

	s.handler = app.NewRouter(app.NewApp(resolver, db, logger, m), app.RouterOptions{
		DevSubnet:  cfg.DevSubnet,
		EnableGzip: cfg.EnableGzip,
	})
	return s, nil
}

// Close освобождает подключения к базе данных и Redis
func (s *server) Close() error {
	var errs []error
	if s.redis != nil {
		errs = append(errs, s.redis.Close())
	}
	errs = append(errs, s.db.Close())
	return errors.Join(errs...)
}

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		panic(err)
	}

	logger := log.NewLogger(cfg.LogLevel)
	defer func() {
		_ = logger.Sync()
	}()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Server stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	s, err := newServer(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := s.Close(); err != nil {
			logger.Warn("Failed to release resources", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              cfg.RunAddr,
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", zap.String("address", cfg.RunAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

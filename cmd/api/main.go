package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/entegrahub/webhook-gateway/config"
	httpchi "github.com/entegrahub/webhook-gateway/internal/http/chi"
	"github.com/entegrahub/webhook-gateway/metrics"
	"github.com/entegrahub/webhook-gateway/sources"
	"github.com/entegrahub/webhook-gateway/webhook"
	"github.com/entegrahub/webhook-gateway/webhook/dispatch"
	"github.com/entegrahub/webhook-gateway/webhook/postgres"
	"github.com/entegrahub/webhook-gateway/webhook/redis"
)

const TIMEOUT = 30 * time.Second

/* main é a porta de entrada e saída da aplicação: é aqui que as dependências
 * são iniciadas e amarradas. As importações fluem em uma direção apenas:
 * aplicação -> negócio -> armazenamento.
 */

func main() {
	if err := run(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.GetConfig()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT,
	)
	defer stop()

	loader := sources.NewLoader()
	if err := loader.Load(cfg.SourcesFile); err != nil {
		return err
	}
	for _, id := range loader.Unsecured() {
		logger.Warn("source accepts deliveries WITHOUT signature verification: no secret configured",
			"source", id)
	}

	repo, err := newRepository(cfg)
	if err != nil {
		return err
	}
	defer repo.Close(ctx)

	// Business handlers are registered here by the deployment; without
	// registrations every event lands on the recording fallback
	registry := dispatch.NewRegistry(logger)
	dispatcher := dispatch.NewDispatcher(registry, cfg.GetHandlerTimeout(), logger)

	service := webhook.NewService(repo, loader, dispatcher, cfg.MaxRetries, logger)
	sweeper := webhook.NewSweeper(service, repo, cfg.SweepLimit, cfg.MaxRetries, logger)
	go sweeper.Run(ctx, cfg.GetSweepInterval())

	collector := metrics.NewStoreCollector(repo)
	exporter, err := metrics.NewOTelExporter(collector)
	if err != nil {
		return err
	}
	defer exporter.Shutdown(context.Background())

	r := httpchi.Handlers(ctx, service, sweeper, cfg.AdminToken, exporter.Handler())
	srv := &http.Server{
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		Addr:         ":" + cfg.Port,
		Handler:      r,
	}

	errShutdown := make(chan error, 1)
	go shutdown(srv, ctx, errShutdown)
	logger.Info("listening", "port", cfg.Port, "storage", cfg.Storage)
	err = srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return <-errShutdown
}

func newRepository(cfg *config.Config) (webhook.Repository, error) {
	switch cfg.Storage {
	case "postgres":
		return postgres.NewRepository(cfg.DatabaseURL)
	default:
		return redis.NewRepository(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	}
}

func shutdown(server *http.Server, ctxShutdown context.Context, errShutdown chan error) {
	<-ctxShutdown.Done()

	ctxTimeout, stop := context.WithTimeout(context.Background(), TIMEOUT)
	defer stop()

	err := server.Shutdown(ctxTimeout)
	switch err {
	case nil:
		errShutdown <- nil
	case context.DeadlineExceeded:
		errShutdown <- fmt.Errorf("forcing closing the server")
	default:
		errShutdown <- fmt.Errorf("forcing closing the server")
	}
}

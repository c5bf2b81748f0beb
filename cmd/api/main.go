package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"contractapi/internal/app"
	"contractapi/internal/config"
	"contractapi/internal/logger"
	"contractapi/internal/otel"
	"contractapi/internal/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.Location())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, cfg, log)
	stop()
	if err != nil {
		log.Fatal("server_failed", zap.Error(err))
	}
	_ = log.Sync()
}

// run owns every resource it opens; all of them are released before it returns.
func run(ctx context.Context, cfg *config.AppConfig, log *zap.Logger) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		return fmt.Errorf("initialize tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Error("tracing_shutdown_failed", zap.Error(err))
		}
	}()

	repo, closeRepo, err := app.OpenRepository(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("open contract store: %w", err)
	}
	defer func() {
		if err := closeRepo(); err != nil {
			log.Error("storage_close_failed", zap.Error(err))
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	svc := service.NewContractService(repo, log)
	server, err := app.NewServer(svc, log, reg)
	if err != nil {
		return fmt.Errorf("build server: %w", err)
	}

	go func() {
		<-ctx.Done()
		log.Info("shutting_down")
		if err := server.ShutdownWithTimeout(shutdownTimeout); err != nil {
			log.Error("server_shutdown_failed", zap.Error(err))
		}
	}()

	addr := ":" + cfg.Port
	log.Info("server_starting", zap.String("addr", addr), zap.String("storage_driver", cfg.Storage.Driver))
	if err := server.Listen(addr); err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	log.Info("server_stopped")
	return nil
}

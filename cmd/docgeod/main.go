package main

import (
	"context"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/joseph-ayodele/docgeo/internal/async"
	"github.com/joseph-ayodele/docgeo/internal/common"
	"github.com/joseph-ayodele/docgeo/internal/export"
	"github.com/joseph-ayodele/docgeo/internal/ingest"
	repo "github.com/joseph-ayodele/docgeo/internal/repository"
	"github.com/joseph-ayodele/docgeo/internal/server"
	"github.com/joseph-ayodele/docgeo/internal/services/resolve"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}
	addr := cfg.Server.GRPCAddr
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := server.ConnectDB(ctx, cfg.Database, logger)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer server.CloseDB(db, logger)

	var (
		results  repo.OCRResultRepository
		exporter server.Exporter
	)
	if db != nil {
		if err := server.PingDB(ctx, db, logger, 5*time.Second); err != nil {
			os.Exit(1)
		}
		results = repo.NewOCRResultRepository(db, logger)
		exporter = export.NewService(results, logger)
	}

	svc, err := resolve.Build(ctx, cfg, results, logger)
	if err != nil {
		logger.Error("failed to build resolver", "error", err)
		os.Exit(1)
	}

	queue := async.NewProcessorQueue(svc, logger,
		async.WithWorkers(cfg.Ingest.Workers),
		async.WithQueueSize(cfg.Ingest.QueueSize),
		async.WithProcessTimeout(cfg.Pipeline.JobTimeout),
	)
	inbox := ingest.NewInbox(queue, logger)

	if len(cfg.Ingest.InboxDirs) > 0 {
		paths, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
			Roots:    cfg.Ingest.InboxDirs,
			Debounce: cfg.Ingest.Debounce,
			Logger:   logger,
		})
		if err != nil {
			logger.Error("failed to watch inbox", "dirs", cfg.Ingest.InboxDirs, "error", err)
			os.Exit(1)
		}
		go inbox.Run(ctx, paths, errs)
		if cfg.Ingest.InitialScan {
			go func() {
				for _, dir := range cfg.Ingest.InboxDirs {
					if _, _, err := inbox.EnqueueDirectory(ctx, dir); err != nil {
						logger.Error("initial inbox scan failed", "dir", dir, "error", err)
					}
				}
			}()
		}
	}

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		logger.Error("failed to listen on address", "addr", addr, "error", err)
		os.Exit(1)
	}
	grpcServer, healthServer := server.NewGRPCServer(server.NewResolverService(svc, exporter, inbox, logger), logger)

	logger.Info("docgeod listening", "addr", addr)
	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			logger.Error("gRPC serve error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	grpcServer.GracefulStop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	queue.Shutdown(shutdownCtx)
}

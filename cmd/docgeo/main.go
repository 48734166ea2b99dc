package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/joseph-ayodele/docgeo/internal/common"
	repo "github.com/joseph-ayodele/docgeo/internal/repository"
	"github.com/joseph-ayodele/docgeo/internal/server"
	"github.com/joseph-ayodele/docgeo/internal/services/resolve"
)

func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		file    = flag.String("file", "", "PDF or image to resolve (required)")
		save    = flag.Bool("save", false, "store the record in the configured database")
		inmem   = flag.Bool("inmem", false, "use in-memory SQLite database (implies -save)")
		verbose = flag.Bool("verbose", false, "print per-page results instead of the single record")
		debug   = flag.Bool("debug", false, "debug logging")
	)
	flag.Parse()

	if *file == "" {
		printError("Error: --file is required\n")
		flag.Usage()
		os.Exit(2)
	}

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg := common.LoadConfig()
	if *inmem {
		cfg.Database.DSN = ""
		cfg.Database.SQLitePath = ":memory:"
		*save = true
	}

	var results repo.OCRResultRepository
	if *save {
		db, err := server.ConnectDB(ctx, cfg.Database, logger)
		if err != nil {
			logger.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer server.CloseDB(db, logger)
		if db != nil {
			results = repo.NewOCRResultRepository(db, logger)
		}
	}

	svc, err := resolve.Build(ctx, cfg, results, logger)
	if err != nil {
		logger.Error("failed to build resolver", "error", err)
		os.Exit(1)
	}

	start := time.Now()
	out, err := svc.ResolveFile(ctx, *file)
	if err != nil {
		logger.Error("resolve failed", "file", *file, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		os.Exit(1)
	}

	var payload any = out.Result.Records()
	if *verbose {
		payload = out.Result
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		logger.Error("failed to write output", "error", err)
		os.Exit(1)
	}
	if out.Saved != nil {
		logger.Info("record stored", "id", out.Saved.ID)
	}
}

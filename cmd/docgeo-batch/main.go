package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joseph-ayodele/docgeo/internal/common"
	"github.com/joseph-ayodele/docgeo/internal/export"
	"github.com/joseph-ayodele/docgeo/internal/ingest"
	repo "github.com/joseph-ayodele/docgeo/internal/repository"
	"github.com/joseph-ayodele/docgeo/internal/server"
	"github.com/joseph-ayodele/docgeo/internal/services/resolve"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		inmem  = flag.Bool("inmem", false, "use in-memory SQLite database")
		dir    = flag.String("dir", "", "directory of documents to resolve before exporting (optional)")
		out    = flag.String("out", "", "output XLSX file path (defaults to results.xlsx next to --dir)")
		lokasi = flag.String("lokasi", "", "only export results whose lokasi contains this text")
		limit  = flag.Int("limit", repo.MaxListLimit, "maximum rows to export")
	)
	flag.Parse()

	if *inmem && *dir == "" {
		printError("Error: --inmem needs --dir, an empty database has nothing to export\n")
		os.Exit(1)
	}
	if *out == "" {
		parent := "."
		if *dir != "" {
			parent = filepath.Dir(filepath.Clean(*dir))
		}
		*out = filepath.Join(parent, "results.xlsx")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()
	cfg := common.LoadConfig()
	if *inmem {
		cfg.Database.DSN = ""
		cfg.Database.SQLitePath = ":memory:"
	}

	db, err := server.ConnectDB(ctx, cfg.Database, logger)
	if err != nil {
		logger.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}
	if db == nil {
		printError("Error: set DB_URL or SQLITE_PATH, or use --inmem\n")
		os.Exit(1)
	}
	defer server.CloseDB(db, logger)
	results := repo.NewOCRResultRepository(db, logger)

	processed, failures := 0, 0
	if *dir != "" {
		svc, err := resolve.Build(ctx, cfg, results, logger)
		if err != nil {
			logger.Error("failed to build resolver", "error", err)
			os.Exit(1)
		}
		logger.Info("starting batch", "dir", *dir)
		err = filepath.WalkDir(*dir, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				logger.Warn("walk error", "path", path, "error", walkErr)
				return nil
			}
			if path != *dir && ingest.IsHidden(path) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() || !ingest.AllowedExt(filepath.Ext(path)) {
				return nil
			}
			start := time.Now()
			if _, err := svc.ResolveFile(ctx, path); err != nil {
				logger.Error("failed to process file", "path", path, "error", err)
				failures++
				return nil
			}
			logger.Info("processed file", "path", path, "elapsed_ms", time.Since(start).Milliseconds())
			processed++
			return nil
		})
		if err != nil {
			logger.Error("failed to walk directory", "error", err)
			os.Exit(1)
		}
	}

	logger.Info("exporting to XLSX", "output", *out)
	xlsxBytes, err := export.NewService(results, logger).ExportResultsXLSX(ctx, repo.ListFilter{Limit: *limit, Lokasi: *lokasi})
	if err != nil {
		logger.Error("failed to export results", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, xlsxBytes, 0o644); err != nil {
		logger.Error("failed to write output file", "error", err)
		os.Exit(1)
	}

	logger.Info("batch complete",
		"files_processed", processed,
		"failures", failures,
		"output", *out,
	)
}

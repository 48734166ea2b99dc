package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/joseph-ayodele/docgeo/internal/async"
)

// Inbox turns discovered files into queue jobs, skipping content it has already queued.
type Inbox struct {
	queue  async.Queue
	logger *slog.Logger

	mu   sync.Mutex
	seen map[string]string // sha256 hex -> first path
}

func NewInbox(queue async.Queue, logger *slog.Logger) *Inbox {
	if logger == nil {
		logger = slog.Default()
	}
	return &Inbox{queue: queue, logger: logger, seen: map[string]string{}}
}

// Submit hashes path and enqueues it unless identical content was queued before.
func (in *Inbox) Submit(ctx context.Context, path string) (string, bool, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", false, fmt.Errorf("abs path: %w", err)
	}
	hash, err := hashFile(abs)
	if err != nil {
		in.logger.Warn("inbox.hash.failed", "path", abs, "error", err)
		return "", false, err
	}

	in.mu.Lock()
	first, dup := in.seen[hash]
	if !dup {
		in.seen[hash] = abs
	}
	in.mu.Unlock()
	if dup {
		in.logger.Info("inbox.duplicate", "path", abs, "first_path", first, "sha256", hash)
		return hash, true, nil
	}

	if err := in.queue.Enqueue(ctx, async.Job{Path: abs, SubmittedAt: time.Now()}); err != nil {
		in.mu.Lock()
		delete(in.seen, hash)
		in.mu.Unlock()
		return hash, false, err
	}
	return hash, false, nil
}

// Run submits paths from a watcher until the channel closes or ctx is done.
func (in *Inbox) Run(ctx context.Context, paths <-chan string, errs <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case p, ok := <-paths:
			if !ok {
				return
			}
			if _, _, err := in.Submit(ctx, p); err != nil {
				in.logger.Error("inbox.submit.failed", "path", p, "error", err)
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			in.logger.Warn("inbox.watcher.error", "error", err)
		}
	}
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

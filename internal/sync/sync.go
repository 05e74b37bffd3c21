// Package sync periodically exports the movie catalog as JSONL to external
// destinations.
package sync

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/alfredjeanlab/ffs/internal/metrics"
	"github.com/alfredjeanlab/ffs/internal/store"
)

// Destination is the interface for a sync target (S3, git, etc.).
type Destination interface {
	// Name identifies the destination in logs.
	Name() string
	// Write sends the JSONL payload to the destination.
	Write(ctx context.Context, data []byte) error
}

// Scheduler runs periodic syncs to one or more destinations.
type Scheduler struct {
	store        store.Store
	destinations []Destination
	interval     time.Duration
	logger       *slog.Logger

	mu sync.Mutex
	// written holds the catalog digest last written to each destination.
	written []catalogDigest

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type catalogDigest [sha256.Size]byte

// digestCatalog hashes an export without its header, whose timestamp changes
// on every run.
func digestCatalog(data []byte) catalogDigest {
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		data = data[i+1:]
	}
	return sha256.Sum256(data)
}

// NewScheduler creates a scheduler that exports from the store to the given
// destinations at the specified interval.
func NewScheduler(s store.Store, destinations []Destination, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		store:        s,
		destinations: destinations,
		interval:     interval,
		logger:       logger,
		written:      make([]catalogDigest, len(destinations)),
	}
}

// Start begins periodic sync. It runs an initial sync immediately, then
// on each tick.
func (s *Scheduler) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run(ctx)
	}()
}

// Stop cancels the scheduler and waits for the current sync (if any) to finish.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

func (s *Scheduler) run(ctx context.Context) {
	// Run once immediately at startup.
	_ = s.SyncOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = s.SyncOnce(ctx)
		}
	}
}

// SyncOnce exports the catalog and writes it to every destination whose last
// successful write holds a different catalog. A failing destination does not
// prevent writes to the others; all failures are logged and joined into the
// returned error.
func (s *Scheduler) SyncOnce(ctx context.Context) (err error) {
	defer func() { metrics.RecordSyncRun(err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	var buf bytes.Buffer
	if err := ExportJSONL(ctx, s.store, &buf); err != nil {
		s.logger.Error("sync export failed", "err", err)
		return fmt.Errorf("export: %w", err)
	}
	data := buf.Bytes()
	digest := digestCatalog(data)

	var errs []error
	written := 0
	for i, dest := range s.destinations {
		if s.written[i] == digest {
			continue
		}
		if werr := dest.Write(ctx, data); werr != nil {
			s.logger.Error("sync destination write failed", "destination", dest.Name(), "err", werr)
			errs = append(errs, fmt.Errorf("%s: %w", dest.Name(), werr))
			continue
		}
		s.written[i] = digest
		written++
	}

	s.logger.Info("sync completed",
		"destinations", len(s.destinations),
		"written", written,
		"bytes", len(data),
		"failed", len(errs))
	return errors.Join(errs...)
}

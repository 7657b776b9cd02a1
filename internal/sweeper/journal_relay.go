package sweeper

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/feral-file/ff-settlement/internal/adapter"
	"github.com/feral-file/ff-settlement/internal/domain"
	"github.com/feral-file/ff-settlement/internal/logger"
	"github.com/feral-file/ff-settlement/internal/messaging"
	"github.com/feral-file/ff-settlement/internal/metrics"
	"github.com/feral-file/ff-settlement/internal/store"
)

// JournalRelayConfig holds configuration for the journal relay
type JournalRelayConfig struct {
	BatchSize      int           // Entries relayed per cycle
	WorkerPoolSize int           // Subjects published concurrently
	PollInterval   time.Duration // Sleep between cycles when the journal is drained
	RetryInitial   time.Duration // First publish retry delay
	RetryMaxTime   time.Duration // Give up on an entry for this cycle after this long
}

// journalRelay publishes unpublished journal entries and marks them published.
// Delivery is at least once; the publisher deduplicates by event id. Order is
// kept per subject only.
type journalRelay struct {
	config    *JournalRelayConfig
	store     store.Store
	publisher messaging.Publisher
	clock     adapter.Clock
	metrics   *metrics.Metrics
	running   atomic.Bool
	stopChan  chan struct{}
	stoppedCh chan struct{}
}

// NewJournalRelay creates a new journal relay
func NewJournalRelay(
	config *JournalRelayConfig,
	st store.Store,
	publisher messaging.Publisher,
	clock adapter.Clock,
	m *metrics.Metrics,
) Sweeper {
	return &journalRelay{
		config:    config,
		store:     st,
		publisher: publisher,
		clock:     clock,
		metrics:   m,
		stopChan:  make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

// Name returns the sweeper's name
func (r *journalRelay) Name() string {
	return "journal-relay"
}

// Start runs relay cycles until the context is canceled or Stop is called
func (r *journalRelay) Start(ctx context.Context) error {
	if !r.running.CompareAndSwap(false, true) {
		return fmt.Errorf("sweeper already running")
	}
	defer func() {
		r.running.Store(false)
		close(r.stoppedCh)
	}()

	logger.InfoCtx(ctx, "Starting journal relay",
		zap.Int("batch_size", r.config.BatchSize),
		zap.Int("worker_pool_size", r.config.WorkerPoolSize),
		zap.Duration("poll_interval", r.config.PollInterval),
	)

	for {
		select {
		case <-ctx.Done():
			logger.InfoCtx(ctx, "Journal relay stopping due to context cancellation", zap.Error(ctx.Err()))
			return nil
		case <-r.stopChan:
			logger.InfoCtx(ctx, "Journal relay stop requested")
			return nil
		default:
			relayed, err := r.runCycle(ctx)
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.ErrorCtx(ctx, err)
			}
			// A full batch means more may be waiting
			if err == nil && relayed == r.config.BatchSize {
				continue
			}
			if !r.sleep(ctx, r.config.PollInterval) {
				return nil
			}
		}
	}
}

// Stop gracefully stops the relay with timeout support
func (r *journalRelay) Stop(ctx context.Context) error {
	if !r.running.Load() {
		return nil
	}

	logger.InfoCtx(ctx, "Stopping journal relay")
	select {
	case <-r.stopChan:
	default:
		close(r.stopChan)
	}

	select {
	case <-r.stoppedCh:
		logger.InfoCtx(ctx, "Journal relay stopped gracefully")
		return nil
	case <-ctx.Done():
		logger.WarnCtx(ctx, "Journal relay stop interrupted by context timeout")
		return ctx.Err()
	}
}

// runCycle relays one batch and returns how many entries were marked published.
// Entries of one subject are published in sequence order on a single worker and a
// failure defers the rest of that subject to the next cycle. Different subjects are
// published concurrently, so consumers that need the global order sort by sequence.
func (r *journalRelay) runCycle(ctx context.Context) (int, error) {
	startTime := r.clock.Now()

	entries, err := r.store.ListUnpublishedJournalEntries(ctx, r.config.BatchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to list unpublished entries: %w", err)
	}
	if len(entries) == 0 {
		return 0, nil
	}

	lanes := subjectLanes(entries)
	pool := pond.NewPool(
		r.config.WorkerPoolSize,
		pond.WithQueueSize(len(lanes)),
		pond.WithContext(ctx),
	)

	var (
		mu        sync.Mutex
		published []int64
		failed    atomic.Int32
		deferred  atomic.Int32
	)
	for _, lane := range lanes {
		pool.Submit(func() {
			for i, entry := range lane {
				if err := r.publishWithRetry(ctx, entry); err != nil {
					failed.Add(1)
					deferred.Add(int32(len(lane) - i - 1)) //nolint:gosec,G115 // bounded by the batch size
					logger.ErrorCtx(ctx, err,
						zap.Int64("sequence", entry.Sequence),
						zap.String("subject", entry.Subject))
					return
				}
				mu.Lock()
				published = append(published, entry.Sequence)
				mu.Unlock()
			}
		})
	}
	pool.StopAndWait()

	sort.Slice(published, func(i, j int) bool { return published[i] < published[j] })
	if len(published) > 0 {
		if err := r.store.MarkJournalEntriesPublished(ctx, published, r.clock.Now().UTC()); err != nil {
			return 0, fmt.Errorf("failed to mark %d entries published: %w", len(published), err)
		}
	}

	r.metrics.Relayed("published", len(published))
	r.metrics.Relayed("failed", int(failed.Load()))
	r.metrics.Relayed("deferred", int(deferred.Load()))
	logger.InfoCtx(ctx, "Relay cycle completed",
		zap.Duration("duration", r.clock.Now().Sub(startTime)),
		zap.Int("published", len(published)),
		zap.Int32("failed", failed.Load()),
		zap.Int32("deferred", deferred.Load()),
	)
	return len(published), nil
}

// subjectLanes groups entries by subject, keeping sequence order inside each lane
func subjectLanes(entries []domain.JournalEntry) [][]*domain.JournalEntry {
	index := make(map[string]int)
	var lanes [][]*domain.JournalEntry
	for i := range entries {
		entry := &entries[i]
		n, ok := index[entry.Subject]
		if !ok {
			n = len(lanes)
			index[entry.Subject] = n
			lanes = append(lanes, nil)
		}
		lanes[n] = append(lanes[n], entry)
	}
	for _, lane := range lanes {
		sort.Slice(lane, func(i, j int) bool { return lane[i].Sequence < lane[j].Sequence })
	}
	return lanes
}

// publishWithRetry publishes one entry with exponential backoff
func (r *journalRelay) publishWithRetry(ctx context.Context, entry *domain.JournalEntry) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.config.RetryInitial
	b.MaxInterval = 10 * r.config.RetryInitial
	b.MaxElapsedTime = r.config.RetryMaxTime
	b.Multiplier = 2.0
	b.RandomizationFactor = 0.5

	var attemptCount int
	notifyOnError := func(err error, duration time.Duration) {
		attemptCount++
		logger.WarnCtx(ctx, "Journal entry publish failed, retrying",
			zap.Error(err),
			zap.Int64("sequence", entry.Sequence),
			zap.Int("attempt", attemptCount),
			zap.Duration("next_retry_in", duration),
		)
	}

	operation := func() error {
		return r.publisher.PublishEntry(ctx, entry)
	}
	if err := backoff.RetryNotify(operation, backoff.WithContext(b, ctx), notifyOnError); err != nil {
		return fmt.Errorf("failed to publish entry %d after %d attempts: %w", entry.Sequence, attemptCount+1, err)
	}
	return nil
}

// sleep returns false when interrupted by cancellation or stop
func (r *journalRelay) sleep(ctx context.Context, duration time.Duration) bool {
	select {
	case <-r.clock.After(duration):
		return true
	case <-ctx.Done():
		return false
	case <-r.stopChan:
		return false
	}
}

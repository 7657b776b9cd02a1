package sweeper_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-settlement/internal/adapter"
	"github.com/feral-file/ff-settlement/internal/domain"
	"github.com/feral-file/ff-settlement/internal/journal"
	"github.com/feral-file/ff-settlement/internal/metrics"
	"github.com/feral-file/ff-settlement/internal/mocks"
	"github.com/feral-file/ff-settlement/internal/store"
	"github.com/feral-file/ff-settlement/internal/sweeper"
)

func relayConfig() *sweeper.JournalRelayConfig {
	return &sweeper.JournalRelayConfig{
		BatchSize:      2,
		WorkerPoolSize: 2,
		PollInterval:   10 * time.Millisecond,
		RetryInitial:   time.Millisecond,
		RetryMaxTime:   20 * time.Millisecond,
	}
}

func seedJournal(t *testing.T, st store.Store, n int) {
	subjects := make([]string, n)
	for i := range subjects {
		subjects[i] = "subject"
	}
	seedSubjects(t, st, subjects...)
}

// seedSubjects appends one entry per subject, in order
func seedSubjects(t *testing.T, st store.Store, subjects ...string) {
	w := journal.NewWriter(adapter.NewClock(), adapter.NewJSON(), adapter.NewJCS())
	for i, subject := range subjects {
		_, err := w.Append(context.Background(), st, domain.EventKindItemAdded, subject, map[string]int{"i": i})
		require.NoError(t, err)
	}
}

// sequenceIs matches a journal entry by sequence
type sequenceIs int64

func (s sequenceIs) Matches(x interface{}) bool {
	entry, ok := x.(*domain.JournalEntry)
	return ok && entry.Sequence == int64(s)
}

func (s sequenceIs) String() string {
	return fmt.Sprintf("journal entry %d", int64(s))
}

func unpublished(t *testing.T, st store.Store) []int64 {
	entries, err := st.ListUnpublishedJournalEntries(context.Background(), 0)
	require.NoError(t, err)
	var sequences []int64
	for _, e := range entries {
		sequences = append(sequences, e.Sequence)
	}
	return sequences
}

func runRelay(t *testing.T, relay sweeper.Sweeper) func() {
	done := make(chan error, 1)
	go func() { done <- relay.Start(context.Background()) }()
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		require.NoError(t, relay.Stop(ctx))
		require.NoError(t, <-done)
	}
}

func TestJournalRelay_PublishesEverything(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	st := store.NewMemoryStore()
	seedJournal(t, st, 5)

	publisher := mocks.NewMockPublisher(ctrl)
	seen := make(chan int64, 5)
	publisher.EXPECT().
		PublishEntry(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, entry *domain.JournalEntry) error {
			seen <- entry.Sequence
			return nil
		}).
		Times(5)

	relay := sweeper.NewJournalRelay(relayConfig(), st, publisher, adapter.NewClock(), metrics.New())
	assert.Equal(t, "journal-relay", relay.Name())
	stop := runRelay(t, relay)

	require.Eventually(t, func() bool { return len(unpublished(t, st)) == 0 }, 5*time.Second, 10*time.Millisecond)
	stop()

	close(seen)
	got := map[int64]bool{}
	for s := range seen {
		got[s] = true
	}
	assert.Len(t, got, 5)

	entries, err := st.ListJournalEntries(context.Background(), 0, 0)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotNil(t, e.PublishedAt)
	}
}

func TestJournalRelay_PublishesSubjectInSequenceOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	st := store.NewMemoryStore()
	seedJournal(t, st, 5)

	publisher := mocks.NewMockPublisher(ctrl)
	calls := make([]*gomock.Call, 0, 5)
	for seq := int64(1); seq <= 5; seq++ {
		calls = append(calls, publisher.EXPECT().PublishEntry(gomock.Any(), sequenceIs(seq)).Return(nil))
	}
	gomock.InOrder(calls...)

	cfg := relayConfig()
	cfg.BatchSize = 10
	cfg.WorkerPoolSize = 4
	relay := sweeper.NewJournalRelay(cfg, st, publisher, adapter.NewClock(), metrics.New())
	stop := runRelay(t, relay)

	require.Eventually(t, func() bool { return len(unpublished(t, st)) == 0 }, 5*time.Second, 10*time.Millisecond)
	stop()
}

func TestJournalRelay_FailedEntryDefersItsSubject(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	st := store.NewMemoryStore()
	seedSubjects(t, st, "listing-a", "listing-b", "listing-a", "listing-b")

	var mu sync.Mutex
	var seen []int64
	publisher := mocks.NewMockPublisher(ctrl)
	publisher.EXPECT().
		PublishEntry(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, entry *domain.JournalEntry) error {
			if entry.Sequence == 1 {
				return errors.New("broker unavailable")
			}
			mu.Lock()
			seen = append(seen, entry.Sequence)
			mu.Unlock()
			return nil
		}).
		AnyTimes()

	cfg := relayConfig()
	cfg.BatchSize = 10
	relay := sweeper.NewJournalRelay(cfg, st, publisher, adapter.NewClock(), nil)
	stop := runRelay(t, relay)

	require.Eventually(t, func() bool {
		pending := unpublished(t, st)
		return len(pending) == 2 && pending[0] == 1 && pending[1] == 3
	}, 5*time.Second, 10*time.Millisecond)
	stop()

	mu.Lock()
	defer mu.Unlock()
	assert.NotContains(t, seen, int64(3), "an entry is never published ahead of its subject's failed predecessor")
	assert.Contains(t, seen, int64(2))
	assert.Contains(t, seen, int64(4))
}

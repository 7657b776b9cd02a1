package messaging

import (
	"context"

	"github.com/feral-file/ff-settlement/internal/domain"
)

// Publisher defines the interface for relaying journal entries to a message broker
//
//go:generate mockgen -source=publisher.go -destination=../mocks/publisher.go -package=mocks -mock_names=Publisher=MockPublisher
type Publisher interface {
	// PublishEntry publishes a committed journal entry. Publishing the same
	// entry twice must be safe; the broker deduplicates by event id.
	PublishEntry(ctx context.Context, entry *domain.JournalEntry) error
	// Close closes the connection
	Close()
	// CloseChan returns a channel that is closed when the publisher is closed
	CloseChan() <-chan struct{}
}

package jetstream

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/feral-file/ff-settlement/internal/adapter"
	"github.com/feral-file/ff-settlement/internal/domain"
	"github.com/feral-file/ff-settlement/internal/logger"
	"github.com/feral-file/ff-settlement/internal/messaging"
)

// Config holds the configuration for NATS JetStream connection
type Config struct {
	URL            string
	StreamName     string
	SubjectPrefix  string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectionName string
	// DuplicateWindow is how long JetStream remembers event ids for deduplication
	DuplicateWindow time.Duration
}

type publisher struct {
	nc        adapter.NatsConn
	js        adapter.JetStream
	prefix    string
	json      adapter.JSON
	closeOnce sync.Once
	closed    chan struct{}
}

// NewPublisher connects to NATS and makes sure the journal stream exists
func NewPublisher(ctx context.Context, cfg Config, natsJS adapter.NatsJetStream, jsonAdapter adapter.JSON) (messaging.Publisher, error) {
	p := &publisher{
		prefix: cfg.SubjectPrefix,
		json:   jsonAdapter,
		closed: make(chan struct{}),
	}

	opts := []nats.Option{
		nats.Name(cfg.ConnectionName),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				logger.Error(err, zap.String("message", "Disconnected from NATS"))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("Reconnected to NATS", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
			p.markClosed()
		}),
	}

	nc, js, err := natsJS.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS and create JetStream: %w", err)
	}
	p.nc = nc
	p.js = js

	err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:       cfg.StreamName,
		Subjects:   []string{p.prefix + ".>"},
		Storage:    jetstream.FileStorage,
		Duplicates: cfg.DuplicateWindow,
	})
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create stream %s: %w", cfg.StreamName, err)
	}

	return p, nil
}

// PublishEntry publishes a journal entry to NATS JetStream
func (p *publisher) PublishEntry(ctx context.Context, entry *domain.JournalEntry) error {
	logger.DebugCtx(ctx, "Publishing journal entry",
		zap.Int64("sequence", entry.Sequence),
		zap.String("kind", string(entry.Kind)))

	data, err := p.json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal entry: %w", err)
	}

	_, err = p.js.Publish(ctx, p.buildSubject(entry), data, jetstream.WithMsgID(entry.EventID))
	if err != nil {
		return fmt.Errorf("failed to publish entry %d: %w", entry.Sequence, err)
	}

	return nil
}

// buildSubject constructs the NATS subject for an entry
func (p *publisher) buildSubject(entry *domain.JournalEntry) string {
	// Format: {prefix}.{kind}, e.g. settlement.item_bought
	return fmt.Sprintf("%s.%s", p.prefix, entry.Kind)
}

func (p *publisher) markClosed() {
	p.closeOnce.Do(func() { close(p.closed) })
}

// Close closes the NATS connection
func (p *publisher) Close() {
	if p.nc != nil {
		p.nc.Close()
	}
	p.markClosed()
}

func (p *publisher) CloseChan() <-chan struct{} {
	return p.closed
}

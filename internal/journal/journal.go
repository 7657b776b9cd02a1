package journal

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/oklog/ulid/v2"

	"github.com/feral-file/ff-settlement/internal/adapter"
	"github.com/feral-file/ff-settlement/internal/domain"
	"github.com/feral-file/ff-settlement/internal/store"
)

// ErrChainBroken is returned when a journal entry does not link to its predecessor
var ErrChainBroken = errors.New("journal hash chain broken")

// Writer appends hash-chained entries to the settlement journal
type Writer struct {
	clock adapter.Clock
	json  adapter.JSON
	jcs   adapter.JCS
}

// NewWriter creates a journal writer
func NewWriter(clock adapter.Clock, json adapter.JSON, jcs adapter.JCS) *Writer {
	return &Writer{clock: clock, json: json, jcs: jcs}
}

// Append records payload as the next entry. The caller must hold the store's
// write lock so sequence numbers and the chain head cannot race.
func (w *Writer) Append(ctx context.Context, st store.Store, kind domain.EventKind, subject string, payload interface{}) (*domain.JournalEntry, error) {
	raw, err := w.json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", kind, err)
	}
	canonical, err := w.jcs.Transform(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to canonicalize %s payload: %w", kind, err)
	}

	head, err := st.LastJournalEntry(ctx)
	if err != nil {
		return nil, err
	}
	var (
		sequence int64 = 1
		prev     common.Hash
	)
	if head != nil {
		sequence = head.Sequence + 1
		prev = head.EntryHash
	}

	// timestamptz keeps microseconds; the hash must survive a round trip
	now := w.clock.Now().UTC().Truncate(time.Microsecond)
	payloadHash := crypto.Keccak256Hash(canonical)
	entry := &domain.JournalEntry{
		Sequence:    sequence,
		EventID:     ulid.MustNewDefault(now).String(),
		Kind:        kind,
		Subject:     subject,
		Payload:     canonical,
		PayloadHash: payloadHash,
		PrevHash:    prev,
		CreatedAt:   now,
	}
	entry.EntryHash = EntryHash(entry)
	if err := st.AppendJournalEntry(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// EntryHash links an entry to its predecessor and seals its metadata:
// keccak256(prev ‖ uint64be(sequence) ‖ uint64be(createdAtMicros) ‖ eventID ‖ kind ‖ subject ‖ payloadHash),
// each string prefixed with its uint32be length
func EntryHash(e *domain.JournalEntry) common.Hash {
	sequence := uint64(e.Sequence)                     //nolint:gosec,G115 // sequences start at 1
	createdAt := uint64(e.CreatedAt.UTC().UnixMicro()) //nolint:gosec,G115 // post-epoch timestamps

	buf := make([]byte, 0, 2*common.HashLength+16+len(e.EventID)+len(e.Kind)+len(e.Subject)+12)
	buf = append(buf, e.PrevHash.Bytes()...)
	buf = binary.BigEndian.AppendUint64(buf, sequence)
	buf = binary.BigEndian.AppendUint64(buf, createdAt)
	for _, field := range []string{e.EventID, string(e.Kind), e.Subject} {
		buf = binary.BigEndian.AppendUint32(buf, uint32(len(field))) //nolint:gosec,G115 // short identifiers
		buf = append(buf, field...)
	}
	buf = append(buf, e.PayloadHash.Bytes()...)
	return crypto.Keccak256Hash(buf)
}

// Verify checks that entries are contiguous, hash-consistent and chained onto prev.
// Pass the zero hash as prev when entries start at sequence 1.
func Verify(entries []domain.JournalEntry, prev common.Hash) error {
	for i, e := range entries {
		if i > 0 && e.Sequence != entries[i-1].Sequence+1 {
			return fmt.Errorf("%w: sequence %d follows %d", ErrChainBroken, e.Sequence, entries[i-1].Sequence)
		}
		if e.PrevHash != prev {
			return fmt.Errorf("%w: entry %d does not link to its predecessor", ErrChainBroken, e.Sequence)
		}
		if crypto.Keccak256Hash(e.Payload) != e.PayloadHash {
			return fmt.Errorf("%w: entry %d payload hash mismatch", ErrChainBroken, e.Sequence)
		}
		if EntryHash(&e) != e.EntryHash {
			return fmt.Errorf("%w: entry %d hash mismatch", ErrChainBroken, e.Sequence)
		}
		prev = e.EntryHash
	}
	return nil
}

package schema

import (
	"time"

	"gorm.io/datatypes"
)

// JournalEntry represents the journal_entries table - hash-chained log of committed operations
type JournalEntry struct {
	// Sequence is assigned under the write lock as the previous sequence plus one
	Sequence int64 `gorm:"column:sequence;primaryKey;autoIncrement:false"`
	// EventID is a ULID used for idempotent publication
	EventID string `gorm:"column:event_id;not null;type:text;uniqueIndex:idx_journal_entries_event_id"`
	// Kind identifies the operation
	Kind string `gorm:"column:kind;not null;type:text;index:idx_journal_entries_kind"`
	// Subject is the primary entity the operation touched
	Subject string `gorm:"column:subject;not null;type:text"`
	// Payload is the canonical JSON payload
	Payload datatypes.JSON `gorm:"column:payload;not null;type:jsonb"`
	// PayloadHash is keccak256 of the canonical payload bytes
	PayloadHash string `gorm:"column:payload_hash;not null;type:text"`
	// PrevHash is the entry hash of the previous entry
	PrevHash string `gorm:"column:prev_hash;not null;type:text"`
	// EntryHash chains PrevHash, PayloadHash and Sequence
	EntryHash string `gorm:"column:entry_hash;not null;type:text;uniqueIndex:idx_journal_entries_entry_hash"`
	// PayloadText keeps the exact canonical bytes, jsonb normalizes whitespace and key order
	PayloadText string     `gorm:"column:payload_text;not null;type:text"`
	CreatedAt   time.Time  `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	PublishedAt *time.Time `gorm:"column:published_at;type:timestamptz;index:idx_journal_entries_published_at"`
}

// TableName specifies the table name for the JournalEntry model
func (JournalEntry) TableName() string {
	return "journal_entries"
}

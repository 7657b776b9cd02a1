package schema

import "time"

// ConsumedNonce represents the consumed_nonces table - the authorization replay guard
type ConsumedNonce struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// Kind is the authorization kind
	Kind string `gorm:"column:kind;not null;type:text;uniqueIndex:idx_consumed_nonces_key,priority:1"`
	// Principal is the address the authorization was issued to
	Principal string `gorm:"column:principal;not null;type:text;uniqueIndex:idx_consumed_nonces_key,priority:2"`
	// Nonce is the consumed nonce
	Nonce string `gorm:"column:nonce;not null;type:numeric(78,0);uniqueIndex:idx_consumed_nonces_key,priority:3"`
	// Digest is the hex payload digest, unique across kinds
	Digest     string    `gorm:"column:digest;not null;type:text;uniqueIndex:idx_consumed_nonces_digest"`
	ConsumedAt time.Time `gorm:"column:consumed_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the ConsumedNonce model
func (ConsumedNonce) TableName() string {
	return "consumed_nonces"
}

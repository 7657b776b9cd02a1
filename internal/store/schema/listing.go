package schema

import "time"

// Listing represents the listings table - sell offers keyed by (collection, token, seller)
type Listing struct {
	// ID is the internal database primary key
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`
	// CollectionAddress is the checksummed collection address
	CollectionAddress string `gorm:"column:collection_address;not null;type:text;uniqueIndex:idx_listings_key,priority:1"`
	// TokenID is the token identifier (stored as string to support up to 78 digits)
	TokenID string `gorm:"column:token_id;not null;type:numeric(78,0);uniqueIndex:idx_listings_key,priority:2"`
	// SellerAddress is the checksummed seller address
	SellerAddress string `gorm:"column:seller_address;not null;type:text;uniqueIndex:idx_listings_key,priority:3;index:idx_listings_seller"`
	// Quantity is the remaining quantity for sale
	Quantity string `gorm:"column:quantity;not null;type:numeric(78,0)"`
	// UnitPrice is the unit price of the latest settlement
	UnitPrice string `gorm:"column:unit_price;not null;type:numeric(78,0);default:0"`
	// ContentURI is the token metadata URI
	ContentURI string `gorm:"column:content_uri;not null;type:text"`
	// Deadline is the authorization deadline the listing was created with (unix seconds)
	Deadline int64 `gorm:"column:deadline;not null"`
	// Nonce is the authorization nonce the listing was created with
	Nonce string `gorm:"column:nonce;not null;type:numeric(78,0)"`
	// Status is active, sold_out or cancelled
	Status    string    `gorm:"column:status;not null;type:text;index:idx_listings_status"`
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Listing model
func (Listing) TableName() string {
	return "listings"
}

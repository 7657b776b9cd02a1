package schema

import "time"

// Collection represents the collections table - the registry of NFT collections
type Collection struct {
	// Address is the checksummed collection contract address
	Address string `gorm:"column:address;primaryKey;type:text"`
	// Trusted marks the collection as eligible for trading
	Trusted bool `gorm:"column:trusted;not null;default:false"`
	// Standard is the token standard (erc721, erc1155, unknown)
	Standard string `gorm:"column:standard;not null;type:text;default:'unknown'"`
	// MarketAddress is the market the collection trusts for mints and transfers
	MarketAddress string `gorm:"column:market_address;not null;type:text;default:''"`
	CreatedAt     time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	UpdatedAt     time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Collection model
func (Collection) TableName() string {
	return "collections"
}

// RoyaltyPolicy represents the royalty_policies table - royalty configuration per collection
type RoyaltyPolicy struct {
	// CollectionAddress references the collection
	CollectionAddress string `gorm:"column:collection_address;primaryKey;type:text"`
	// Beneficiary receives the royalty; empty means the token creator
	Beneficiary string `gorm:"column:beneficiary;not null;type:text;default:''"`
	// Bps is the royalty rate in basis points
	Bps       int       `gorm:"column:bps;not null;default:0"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the RoyaltyPolicy model
func (RoyaltyPolicy) TableName() string {
	return "royalty_policies"
}

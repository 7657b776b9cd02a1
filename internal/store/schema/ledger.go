package schema

import "time"

// TokenBalance represents the token_balances table - payment token balances
type TokenBalance struct {
	TokenAddress   string    `gorm:"column:token_address;primaryKey;type:text"`
	AccountAddress string    `gorm:"column:account_address;primaryKey;type:text"`
	Amount         string    `gorm:"column:amount;not null;type:numeric(78,0);check:chk_token_balances_amount,amount >= 0"`
	UpdatedAt      time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the TokenBalance model
func (TokenBalance) TableName() string {
	return "token_balances"
}

// TokenAllowance represents the token_allowances table - payment token allowances
type TokenAllowance struct {
	TokenAddress   string    `gorm:"column:token_address;primaryKey;type:text"`
	OwnerAddress   string    `gorm:"column:owner_address;primaryKey;type:text"`
	SpenderAddress string    `gorm:"column:spender_address;primaryKey;type:text"`
	Amount         string    `gorm:"column:amount;not null;type:numeric(78,0)"`
	UpdatedAt      time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the TokenAllowance model
func (TokenAllowance) TableName() string {
	return "token_allowances"
}

// AssetToken represents the asset_tokens table - tokens minted through the asset ledger
type AssetToken struct {
	CollectionAddress string    `gorm:"column:collection_address;primaryKey;type:text"`
	TokenID           string    `gorm:"column:token_id;primaryKey;type:numeric(78,0)"`
	Creator           string    `gorm:"column:creator;not null;type:text"`
	URI               string    `gorm:"column:uri;not null;type:text"`
	Supply            string    `gorm:"column:supply;not null;type:numeric(78,0)"`
	CreatedAt         time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	UpdatedAt         time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the AssetToken model
func (AssetToken) TableName() string {
	return "asset_tokens"
}

// AssetBalance represents the asset_balances table - per-owner token quantities
type AssetBalance struct {
	CollectionAddress string    `gorm:"column:collection_address;primaryKey;type:text"`
	TokenID           string    `gorm:"column:token_id;primaryKey;type:numeric(78,0)"`
	OwnerAddress      string    `gorm:"column:owner_address;primaryKey;type:text"`
	Amount            string    `gorm:"column:amount;not null;type:numeric(78,0);check:chk_asset_balances_amount,amount >= 0"`
	UpdatedAt         time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the AssetBalance model
func (AssetBalance) TableName() string {
	return "asset_balances"
}

// AssetOperatorApproval represents the asset_operator_approvals table - setApprovalForAll state
type AssetOperatorApproval struct {
	CollectionAddress string    `gorm:"column:collection_address;primaryKey;type:text"`
	OwnerAddress      string    `gorm:"column:owner_address;primaryKey;type:text"`
	OperatorAddress   string    `gorm:"column:operator_address;primaryKey;type:text"`
	Approved          bool      `gorm:"column:approved;not null"`
	UpdatedAt         time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the AssetOperatorApproval model
func (AssetOperatorApproval) TableName() string {
	return "asset_operator_approvals"
}

// AssetCollectionMarket represents the asset_collection_markets table - the market each collection trusts
type AssetCollectionMarket struct {
	CollectionAddress string    `gorm:"column:collection_address;primaryKey;type:text"`
	MarketAddress     string    `gorm:"column:market_address;not null;type:text"`
	UpdatedAt         time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the AssetCollectionMarket model
func (AssetCollectionMarket) TableName() string {
	return "asset_collection_markets"
}

package schema

import "time"

// ProtocolConfigID is the primary key of the singleton protocol_configs row
const ProtocolConfigID = 1

// ProtocolConfig represents the protocol_configs table - the singleton administrative state
type ProtocolConfig struct {
	// ID is always ProtocolConfigID
	ID int64 `gorm:"column:id;primaryKey"`
	// AdminAddress may call administrative operations
	AdminAddress string `gorm:"column:admin_address;not null;type:text"`
	// SignerAddress is the operator whose signatures authorize trades
	SignerAddress string `gorm:"column:signer_address;not null;type:text"`
	// TeamWallet receives the service fee
	TeamWallet string `gorm:"column:team_wallet;not null;type:text"`
	// PaymentToken is the address of the fungible payment token
	PaymentToken string `gorm:"column:payment_token;not null;type:text"`
	// CustodyAddress holds escrowed proceeds and accrued royalty
	CustodyAddress string `gorm:"column:custody_address;not null;type:text"`
	// ServiceFeeBps is the service fee in basis points
	ServiceFeeBps int `gorm:"column:service_fee_bps;not null"`
	// Counter was added by schema version 2 (stored as string to support up to 78 digits)
	Counter string `gorm:"column:counter;not null;type:numeric(78,0);default:0"`
	// LogicVersion is the version of the binary that last wrote the row
	LogicVersion int `gorm:"column:logic_version;not null;default:1"`
	// CreatedAt is the timestamp when the protocol was initialized
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp when the config was last changed
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the ProtocolConfig model
func (ProtocolConfig) TableName() string {
	return "protocol_configs"
}

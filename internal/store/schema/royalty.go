package schema

import "time"

// RoyaltyBalance represents the royalty_balances table - accrued royalty per beneficiary
type RoyaltyBalance struct {
	// Beneficiary is the checksummed beneficiary address
	Beneficiary string `gorm:"column:beneficiary;primaryKey;type:text"`
	// Accrued is the claimable amount
	Accrued string `gorm:"column:accrued;not null;type:numeric(78,0);default:0;check:chk_royalty_balances_accrued,accrued >= 0"`
	// TotalClaimed is the lifetime claimed amount
	TotalClaimed  string     `gorm:"column:total_claimed;not null;type:numeric(78,0);default:0"`
	LastClaimedAt *time.Time `gorm:"column:last_claimed_at;type:timestamptz"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the RoyaltyBalance model
func (RoyaltyBalance) TableName() string {
	return "royalty_balances"
}

package schema

import (
	"github.com/shopspring/decimal"
)

// Commission represents the commissions table - creator royalties of a collection
type Commission struct {
	ID string `gorm:"column:id;primaryKey;type:text"`
	// Key is the collection id the royalty applies to
	Key                    string           `gorm:"column:key;not null;type:text;uniqueIndex:idx_commissions_key"`
	RoyaltyNumerator       decimal.Decimal  `gorm:"column:royalty_numerator;not null;type:numeric"`
	RoyaltyDenominator     decimal.Decimal  `gorm:"column:royalty_denominator;not null;type:numeric"`
	PayeeAddress           string           `gorm:"column:payee_address;not null;type:text"`
	Royalty                *decimal.Decimal `gorm:"column:royalty;type:numeric"`
	LastTransactionVersion int64            `gorm:"column:last_transaction_version;not null"`
}

// TableName specifies the table name for the Commission model
func (Commission) TableName() string {
	return "commissions"
}

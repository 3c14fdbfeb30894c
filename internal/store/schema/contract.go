package schema

// Contract represents the contracts table - one row per creator collection, linking its commission
type Contract struct {
	ID string `gorm:"column:id;primaryKey;type:text"`
	// Key is creator::collection_name
	Key                    string  `gorm:"column:key;not null;type:text;uniqueIndex:idx_contracts_key"`
	Name                   string  `gorm:"column:name;not null;type:text"`
	CreatorAddress         string  `gorm:"column:creator_address;not null;type:text"`
	CommissionID           *string `gorm:"column:commission_id;type:text"`
	LastTransactionVersion int64   `gorm:"column:last_transaction_version;not null"`
}

// TableName specifies the table name for the Contract model
func (Contract) TableName() string {
	return "contracts"
}

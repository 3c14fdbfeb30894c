package schema

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/feral-file/ff-marketplace-indexer/internal/domain"
)

// Collection represents the collections table - NFT collections reconstructed from collection
// resources and token-standard events
type Collection struct {
	// ID is a uuid v5 derived from creator and collection name
	ID string `gorm:"column:id;primaryKey;type:text"`
	// CollectionID is the on-chain collection object address, or a synthesized id for v1 collections
	CollectionID   string  `gorm:"column:collection_id;not null;type:text;uniqueIndex:idx_collections_collection_id"`
	CreatorAddress string  `gorm:"column:creator_address;not null;type:text"`
	Name           string  `gorm:"column:name;not null;type:text"`
	Description    *string `gorm:"column:description;type:text"`
	URI            *string `gorm:"column:uri;type:text"`
	// Supply is the current number of live tokens
	Supply      *decimal.Decimal `gorm:"column:supply;type:numeric"`
	MaxSupply   *decimal.Decimal `gorm:"column:max_supply;type:numeric"`
	TotalMinted *decimal.Decimal `gorm:"column:total_minted;type:numeric"`
	// ContractID references the contracts row of the collection
	ContractID               *string              `gorm:"column:contract_id;type:text"`
	TokenStandard            domain.TokenStandard `gorm:"column:token_standard;not null;type:text"`
	LastTransactionVersion   int64                `gorm:"column:last_transaction_version;not null"`
	LastTransactionTimestamp time.Time            `gorm:"column:last_transaction_timestamp;not null;type:timestamptz"`
}

// TableName specifies the table name for the Collection model
func (Collection) TableName() string {
	return "collections"
}

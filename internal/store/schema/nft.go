package schema

import (
	"time"

	"github.com/feral-file/ff-marketplace-indexer/internal/domain"
)

// Nft represents the nfts table - individual tokens and their current owner
type Nft struct {
	// ID is a uuid v5 derived from the token data id
	ID string `gorm:"column:id;primaryKey;type:text"`
	// TokenDataID is the token object address, or a synthesized id for v1 tokens
	TokenDataID  string  `gorm:"column:token_data_id;not null;type:text;uniqueIndex:idx_nfts_token_data_id"`
	CollectionID *string `gorm:"column:collection_id;type:text;index:idx_nfts_collection_id"`
	Name         *string `gorm:"column:name;type:text"`
	URI          *string `gorm:"column:uri;type:text"`
	Description  *string `gorm:"column:description;type:text"`
	// Owner is nil for burned tokens and for v1 tokens whose holder is unknown
	Owner *string `gorm:"column:owner;type:text;index:idx_nfts_owner"`
	// Burned indicates whether the token has been permanently destroyed
	Burned                   bool                 `gorm:"column:burned;not null;default:false"`
	TokenStandard            domain.TokenStandard `gorm:"column:token_standard;not null;type:text"`
	LastTransactionVersion   int64                `gorm:"column:last_transaction_version;not null"`
	LastTransactionTimestamp time.Time            `gorm:"column:last_transaction_timestamp;not null;type:timestamptz"`
}

// TableName specifies the table name for the Nft model
func (Nft) TableName() string {
	return "nfts"
}

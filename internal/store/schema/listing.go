package schema

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/feral-file/ff-marketplace-indexer/internal/domain"
)

// CurrentNftMarketplaceListing represents the current_nft_marketplace_listings table - whether an
// NFT is currently for sale on a marketplace
type CurrentNftMarketplaceListing struct {
	// TokenDataID is the token (object) address of the listed NFT
	TokenDataID string `gorm:"column:token_data_id;primaryKey;type:text"`
	// Marketplace is the configured marketplace name
	Marketplace string `gorm:"column:marketplace;primaryKey;type:text"`
	// ListingID is the marketplace listing identifier (nil once unlisted)
	ListingID       *string `gorm:"column:listing_id;type:text"`
	ContractAddress string  `gorm:"column:contract_address;not null;type:text"`
	CollectionID    *string `gorm:"column:collection_id;type:text;index:idx_listings_collection_id"`
	// Seller is the listing owner (nil once unlisted)
	Seller *string `gorm:"column:seller;type:text"`
	// Price is nil once unlisted
	Price             *decimal.Decimal            `gorm:"column:price;type:numeric"`
	TokenAmount       *decimal.Decimal            `gorm:"column:token_amount;type:numeric"`
	TokenName         *string                     `gorm:"column:token_name;type:text"`
	StandardEventType domain.MarketplaceEventType `gorm:"column:standard_event_type;not null;type:text"`
	// Listed is true while the listing is open
	Listed bool `gorm:"column:listed;not null;default:false"`
	// IsDeleted marks a listing that was cancelled or filled
	IsDeleted                bool      `gorm:"column:is_deleted;not null;default:false"`
	LastTransactionID        string    `gorm:"column:last_transaction_id;not null;type:text"`
	LastTransactionVersion   int64     `gorm:"column:last_transaction_version;not null"`
	LastTransactionTimestamp time.Time `gorm:"column:last_transaction_timestamp;not null;type:timestamptz"`
	// TxIndex is the packed (version, event index) of the winning event (nil once unlisted)
	TxIndex *int64 `gorm:"column:tx_index"`
}

// TableName specifies the table name for the CurrentNftMarketplaceListing model
func (CurrentNftMarketplaceListing) TableName() string {
	return "current_nft_marketplace_listings"
}

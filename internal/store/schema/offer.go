package schema

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/feral-file/ff-marketplace-indexer/internal/domain"
)

// CurrentNftMarketplaceTokenOffer represents the current_nft_marketplace_token_offers table - the
// latest state of a bid placed on a single NFT
type CurrentNftMarketplaceTokenOffer struct {
	// TokenDataID is the token (object) address the bid targets
	TokenDataID string `gorm:"column:token_data_id;primaryKey;type:text"`
	// Buyer is the bidder address
	Buyer string `gorm:"column:buyer;primaryKey;type:text"`
	// Marketplace is the configured marketplace name
	Marketplace     string  `gorm:"column:marketplace;primaryKey;type:text"`
	OfferID         *string `gorm:"column:offer_id;type:text"`
	ContractAddress string  `gorm:"column:contract_address;not null;type:text"`
	CollectionID    *string `gorm:"column:collection_id;type:text"`
	// Seller is set once the bid is accepted
	Seller            *string                     `gorm:"column:seller;type:text"`
	Price             *decimal.Decimal            `gorm:"column:price;type:numeric"`
	TokenAmount       *decimal.Decimal            `gorm:"column:token_amount;type:numeric"`
	TokenName         *string                     `gorm:"column:token_name;type:text"`
	StandardEventType domain.MarketplaceEventType `gorm:"column:standard_event_type;not null;type:text"`
	// Status is one of active, matched, cancelled
	Status       domain.BidStatus `gorm:"column:status;not null;type:text;index:idx_token_offers_status"`
	CreatedTxID  *string          `gorm:"column:created_tx_id;type:text"`
	AcceptedTxID *string          `gorm:"column:accepted_tx_id;type:text"`
	CanceledTxID *string          `gorm:"column:canceled_tx_id;type:text"`
	// IsDeleted is true whenever the bid is no longer active
	IsDeleted                bool             `gorm:"column:is_deleted;not null;default:false"`
	ExpirationTime           *decimal.Decimal `gorm:"column:expiration_time;type:numeric"`
	LastTransactionVersion   int64            `gorm:"column:last_transaction_version;not null"`
	LastTransactionTimestamp time.Time        `gorm:"column:last_transaction_timestamp;not null;type:timestamptz"`
}

// TableName specifies the table name for the CurrentNftMarketplaceTokenOffer model
func (CurrentNftMarketplaceTokenOffer) TableName() string {
	return "current_nft_marketplace_token_offers"
}

// CurrentNftMarketplaceCollectionOffer represents the current_nft_marketplace_collection_offers
// table - the latest state of a bid on any NFT of a collection
type CurrentNftMarketplaceCollectionOffer struct {
	// CollectionOfferID is the marketplace offer identifier
	CollectionOfferID string `gorm:"column:collection_offer_id;primaryKey;type:text"`
	// Marketplace is the configured marketplace name
	Marketplace string `gorm:"column:marketplace;primaryKey;type:text"`
	// CollectionID is nil when only later lifecycle events (cancel, fill) of the offer were seen
	CollectionID    *string `gorm:"column:collection_id;type:text;index:idx_collection_offers_collection_id"`
	ContractAddress string  `gorm:"column:contract_address;not null;type:text"`
	// TokenDataID is the token that filled the offer, if any
	TokenDataID       *string                     `gorm:"column:token_data_id;type:text"`
	Buyer             *string                     `gorm:"column:buyer;type:text"`
	Seller            *string                     `gorm:"column:seller;type:text"`
	Price             *decimal.Decimal            `gorm:"column:price;type:numeric"`
	TokenAmount       *decimal.Decimal            `gorm:"column:token_amount;type:numeric"`
	StandardEventType domain.MarketplaceEventType `gorm:"column:standard_event_type;not null;type:text"`
	// RemainingTokenAmount is the number of NFTs the offer can still buy
	RemainingTokenAmount     *decimal.Decimal `gorm:"column:remaining_token_amount;type:numeric"`
	Status                   domain.BidStatus `gorm:"column:status;not null;type:text"`
	CreatedTxID              *string          `gorm:"column:created_tx_id;type:text"`
	AcceptedTxID             *string          `gorm:"column:accepted_tx_id;type:text"`
	CanceledTxID             *string          `gorm:"column:canceled_tx_id;type:text"`
	IsDeleted                bool             `gorm:"column:is_deleted;not null;default:false"`
	ExpirationTime           *decimal.Decimal `gorm:"column:expiration_time;type:numeric"`
	LastTransactionVersion   int64            `gorm:"column:last_transaction_version;not null"`
	LastTransactionTimestamp time.Time        `gorm:"column:last_transaction_timestamp;not null;type:timestamptz"`
}

// TableName specifies the table name for the CurrentNftMarketplaceCollectionOffer model
func (CurrentNftMarketplaceCollectionOffer) TableName() string {
	return "current_nft_marketplace_collection_offers"
}

package schema

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/feral-file/ff-marketplace-indexer/internal/domain"
)

// NftMarketplaceActivity represents the nft_marketplace_activities table - the append-only log of
// recognized marketplace and token-standard events
type NftMarketplaceActivity struct {
	// TxnVersion is the version of the transaction that emitted the event
	TxnVersion int64 `gorm:"column:txn_version;primaryKey"`
	// EventIndex is the position of the event within the transaction
	EventIndex int64 `gorm:"column:event_index;primaryKey"`
	// Marketplace is the configured marketplace (stream) name
	Marketplace string `gorm:"column:marketplace;primaryKey;type:text"`
	// TxnID is the transaction hash
	TxnID string `gorm:"column:txn_id;not null;type:text"`
	// ContractAddress is the marketplace contract (module) address
	ContractAddress string `gorm:"column:contract_address;not null;type:text"`
	// RawEventType is the fully qualified move event type as emitted on chain
	RawEventType string `gorm:"column:raw_event_type;not null;type:text"`
	// StandardEventType is the canonical activity type
	StandardEventType domain.MarketplaceEventType `gorm:"column:standard_event_type;not null;type:text;index:idx_activities_standard_event_type"`
	CreatorAddress    *string                     `gorm:"column:creator_address;type:text"`
	CollectionID      *string                     `gorm:"column:collection_id;type:text;index:idx_activities_collection_id"`
	CollectionName    *string                     `gorm:"column:collection_name;type:text"`
	TokenDataID       *string                     `gorm:"column:token_data_id;type:text;index:idx_activities_token_data_id"`
	TokenName         *string                     `gorm:"column:token_name;type:text"`
	// Price is denominated in the smallest unit of the payment coin
	Price       *decimal.Decimal `gorm:"column:price;type:numeric"`
	TokenAmount *decimal.Decimal `gorm:"column:token_amount;type:numeric"`
	Buyer       *string          `gorm:"column:buyer;type:text"`
	Seller      *string          `gorm:"column:seller;type:text"`
	ListingID   *string          `gorm:"column:listing_id;type:text"`
	OfferID     *string          `gorm:"column:offer_id;type:text"`
	// CollectionOfferID is set for collection bid activities
	CollectionOfferID *string `gorm:"column:collection_offer_id;type:text"`
	// ExpirationTime is the on-chain expiration (seconds) of a listing or offer, when present
	ExpirationTime *decimal.Decimal `gorm:"column:expiration_time;type:numeric"`
	// BlockTimestamp is the chain timestamp of the transaction
	BlockTimestamp time.Time `gorm:"column:block_timestamp;not null;type:timestamptz"`
	BlockHeight    int64     `gorm:"column:block_height;not null"`
	// JSONData contains the RFC 8785 canonical JSON of the event payload
	JSONData datatypes.JSON `gorm:"column:json_data;type:jsonb"`
}

// TableName specifies the table name for the NftMarketplaceActivity model
func (NftMarketplaceActivity) TableName() string {
	return "nft_marketplace_activities"
}

// TxIndex returns the monotonic transaction-local index of the activity
func (a *NftMarketplaceActivity) TxIndex() int64 {
	return domain.TxIndex(uint64(a.TxnVersion), int(a.EventIndex)) //nolint:gosec,G115
}

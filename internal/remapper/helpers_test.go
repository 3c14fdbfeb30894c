package remapper

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-marketplace-indexer/internal/adapter"
	"github.com/feral-file/ff-marketplace-indexer/internal/domain"
)

const (
	testMarketplace = "wapal"
	testContract    = "0xabc"
	// testEntryFunction is the marketplace call every test transaction is submitted through
	testEntryFunction = "0xabc::marketplace::execute"
)

var testBlockTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func addr(s string) string {
	return domain.StandardizeAddress(s)
}

func testConfig() MarketplaceConfig {
	return MarketplaceConfig{
		Name:            testMarketplace,
		ContractAddress: testContract,
		Events: []EventConfig{
			{
				EventType:         "0xabc::events::ListingPlacedEvent",
				StandardEventType: "List",
				Fields: []FieldConfig{
					{Path: "$.price", Targets: []Target{{Table: "nft_marketplace_activities", Column: "price"}}},
					{Path: "$.seller", Targets: []Target{{Table: "nft_marketplace_activities", Column: "seller"}}},
					{Path: "$.listing", Targets: []Target{{Table: "listings", Column: "listing_id"}}},
					{Path: "$.token_metadata.token.vec[0].inner", Targets: []Target{
						{Table: "current_nft_marketplace_listings", Column: "token_data_id"},
					}},
					{Path: "$.token_metadata.collection_name", Targets: []Target{{Table: "activities", Column: "collection_name"}}},
				},
			},
			{
				EventType:         "0xabc::events::ListingCanceledEvent",
				StandardEventType: "Unlist",
				Fields: []FieldConfig{
					{Path: "$.token_metadata.token.vec[0].inner", Targets: []Target{{Table: "activities", Column: "token_data_id"}}},
					{Path: "$.seller", Targets: []Target{{Table: "activities", Column: "seller"}}},
				},
			},
			{
				EventType:         "0xabc::events::TokenOfferPlacedEvent",
				StandardEventType: "SoloBid",
				Fields: []FieldConfig{
					{Path: "$.offer_id", Targets: []Target{{Table: "activities", Column: "offer_id"}}},
					{Path: "$.price", Targets: []Target{{Table: "activities", Column: "price"}}},
					{Path: "$.purchaser", Targets: []Target{{Table: "token_offers", Column: "buyer"}}},
					{Path: "$.token_metadata.creator_address", Targets: []Target{{Table: "activities", Column: "creator_address"}}},
					{Path: "$.token_metadata.collection_name", Targets: []Target{{Table: "activities", Column: "collection_name"}}},
					{Path: "$.token_metadata.token_name", Targets: []Target{{Table: "activities", Column: "token_name"}}},
				},
			},
			{
				EventType:         "0xabc::events::CollectionOfferPlacedEvent",
				StandardEventType: "CollectionBid",
				Fields: []FieldConfig{
					{Path: "$.offer_id", Targets: []Target{{Table: "activities", Column: "offer_id"}}},
					{Path: "$.purchaser", Targets: []Target{{Table: "collection_offers", Column: "buyer"}}},
					{Path: "$.collection", Targets: []Target{{Table: "collection_offers", Column: "collection_id"}}},
					{Path: "$.remaining", Targets: []Target{{Table: "collection_offers", Column: "remaining_token_amount"}}},
				},
			},
			{
				EventType:         "0xabc::events::CollectionOfferCanceledEvent",
				StandardEventType: "CancelCollectionBid",
				Fields: []FieldConfig{
					{Path: "$.offer_id", Targets: []Target{{Table: "collection_offers", Column: "collection_offer_id"}}},
				},
			},
		},
	}
}

func newTestRemapper(t *testing.T) *Remapper {
	t.Helper()
	mapping, err := Compile(testConfig())
	require.NoError(t, err)
	return NewRemapper(mapping, adapter.NewJCS())
}

func newTxn(version uint64, events ...domain.Event) *domain.Transaction {
	for i := range events {
		events[i].Index = i
	}
	return &domain.Transaction{
		Version:       version,
		Hash:          fmt.Sprintf("0x%064x", version),
		BlockHeight:   version / 10,
		Timestamp:     testBlockTime,
		EntryFunction: testEntryFunction,
		Info:          &domain.TransactionInfo{Success: true, VMStatus: "Executed successfully"},
		Events:        events,
	}
}

func event(eventType, data string) domain.Event {
	return domain.Event{Type: eventType, Data: []byte(data)}
}

func writeResource(address, resourceType, data string) domain.WriteSetChange {
	return domain.WriteSetChange{
		Type:     domain.WriteSetChangeWrite,
		Address:  address,
		Resource: &domain.MoveResource{Type: resourceType, Data: []byte(data)},
	}
}

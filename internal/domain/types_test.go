package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseMarketplaceEventType(t *testing.T) {
	tests := []struct {
		input    string
		expected MarketplaceEventType
	}{
		{"List", EventTypeList},
		{"place_listing", EventTypeList},
		{"unlist", EventTypeUnlist},
		{"Buy", EventTypeBuy},
		{"SoloBid", EventTypeSoloBid},
		{"UnlistBid", EventTypeUnlistBid},
		{"AcceptBid", EventTypeAcceptBid},
		{"CollectionBid", EventTypeCollectionBid},
		{"CancelCollectionBid", EventTypeCancelCollectionBid},
		{"fill_collection_offer", EventTypeAcceptCollectionBid},
		{" Mint ", EventTypeMint},
		{"transfer", EventTypeTransfer},
		{"ListingPlacedEvent", EventTypeUnknown},
		{"", EventTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseMarketplaceEventType(tt.input))
		})
	}
}

func TestMarketplaceEventType_SecondaryKind(t *testing.T) {
	assert.Equal(t, SecondaryListing, EventTypeList.SecondaryKind())
	assert.Equal(t, SecondaryListing, EventTypeBuy.SecondaryKind())
	assert.Equal(t, SecondaryTokenBid, EventTypeUnlistBid.SecondaryKind())
	assert.Equal(t, SecondaryCollectionBid, EventTypeAcceptCollectionBid.SecondaryKind())
	assert.Equal(t, SecondaryNone, EventTypeMint.SecondaryKind())
	assert.Equal(t, SecondaryNone, EventTypeUnknown.SecondaryKind())
	assert.Equal(t, "token_bid", SecondaryTokenBid.String())
}

func TestMarketplaceEventType_Listed(t *testing.T) {
	listed, ok := EventTypeList.Listed()
	assert.True(t, ok)
	assert.True(t, listed)

	listed, ok = EventTypeBuy.Listed()
	assert.True(t, ok)
	assert.False(t, listed)

	_, ok = EventTypeSoloBid.Listed()
	assert.False(t, ok)
}

func TestMarketplaceEventType_BidStatus(t *testing.T) {
	assert.Equal(t, BidStatusActive, EventTypeSoloBid.BidStatus())
	assert.Equal(t, BidStatusActive, EventTypeCollectionBid.BidStatus())
	assert.Equal(t, BidStatusMatched, EventTypeAcceptBid.BidStatus())
	assert.Equal(t, BidStatusCancelled, EventTypeCancelCollectionBid.BidStatus())
}

func TestStandardizeAddress(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "short address is left padded",
			input:    "0x1",
			expected: "0x0000000000000000000000000000000000000000000000000000000000000001",
		},
		{
			name:     "upper case is lowered",
			input:    "0xABCDEF",
			expected: "0x0000000000000000000000000000000000000000000000000000000000abcdef",
		},
		{
			name:     "missing prefix",
			input:    "abc",
			expected: "0x0000000000000000000000000000000000000000000000000000000000000abc",
		},
		{
			name:     "full length address unchanged",
			input:    "0x" + strings.Repeat("a", 64),
			expected: "0x" + strings.Repeat("a", 64),
		},
		{
			name:     "non hex input",
			input:    " The Loonies ",
			expected: "the loonies",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StandardizeAddress(tt.input))
		})
	}
}

func TestSynthesizeIDs_Deterministic(t *testing.T) {
	a := SynthesizeTokenDataID("0x1", "The Loonies", "Loonie #1")
	b := SynthesizeTokenDataID("0x0001", "The Loonies", "Loonie #1")
	assert.Equal(t, a, b, "creator is standardized before hashing")
	assert.Len(t, a, 66)
	assert.True(t, strings.HasPrefix(a, "0x"))

	assert.NotEqual(t, a, SynthesizeTokenDataID("0x1", "The Loonies", "Loonie #2"))
	assert.NotEqual(t, a, SynthesizeCollectionID("0x1", "The Loonies"))
	assert.Equal(t, SynthesizeCollectionID("0x1", "The Loonies"), SynthesizeCollectionID("0x1", "The Loonies"))
}

func TestEntityID(t *testing.T) {
	id := EntityID("0x1", "The Loonies")
	assert.Equal(t, id, EntityID("0x1", "The Loonies"))
	assert.NotEqual(t, id, EntityID("0x1", "The Loonies", "x"))
	assert.Len(t, id, 36)
}

func TestTxIndex(t *testing.T) {
	assert.Equal(t, int64(1200003), TxIndex(12, 3))
	assert.Less(t, TxIndex(12, 99999), TxIndex(13, 0))
}

func TestActivityMessage(t *testing.T) {
	m := &ActivityMessage{
		Marketplace:       "Wapal Marketplace",
		StandardEventType: EventTypeList,
		TxnVersion:        10,
	}
	assert.True(t, m.Valid())
	assert.Equal(t, "marketplace.wapal_marketplace.place_listing", m.Subject("marketplace"))

	m.StandardEventType = EventTypeUnknown
	assert.False(t, m.Valid())

	assert.False(t, (&ActivityMessage{StandardEventType: EventTypeList, TxnVersion: 1}).Valid())
}

func TestStandardizeType(t *testing.T) {
	assert.Equal(t,
		"0x0000000000000000000000000000000000000000000000000000000000000001::object::Transfer",
		StandardizeType("0x1::object::Transfer"))
	assert.Equal(t,
		"0x00000000000000000000000000000000000000000000000000000000000000ab::events::ListingPlacedEvent<0x1::aptos_coin::AptosCoin>",
		StandardizeType("0xAB::events::ListingPlacedEvent<0x1::aptos_coin::AptosCoin>"))
	assert.Equal(t, "not_a_type", StandardizeType("not_a_type"))
}

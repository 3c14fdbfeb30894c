package remapper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-marketplace-indexer/internal/domain"
)

func TestCompile(t *testing.T) {
	mapping, err := Compile(testConfig())
	require.NoError(t, err)

	assert.Equal(t, testMarketplace, mapping.Marketplace)
	assert.Equal(t, addr(testContract), mapping.ContractAddress)

	standard, ok := mapping.StandardEventType("0xabc::events::ListingPlacedEvent")
	assert.True(t, ok)
	assert.Equal(t, domain.EventTypeList, standard)

	// lookups are insensitive to address padding
	standard, ok = mapping.StandardEventType(addr("0xabc") + "::events::TokenOfferPlacedEvent")
	assert.True(t, ok)
	assert.Equal(t, domain.EventTypeSoloBid, standard)

	_, ok = mapping.StandardEventType("0xabc::events::Unknown")
	assert.False(t, ok)
}

func TestCompile_Remappings(t *testing.T) {
	mapping, err := Compile(testConfig())
	require.NoError(t, err)

	remappings := mapping.Remappings()
	listing := remappings[domain.StandardizeType("0xabc::events::ListingPlacedEvent")]
	require.NotNil(t, listing)

	assert.Equal(t, []Target{{Table: string(TableActivities), Column: "price"}}, listing["$.price"])
	assert.Equal(t, []Target{{Table: string(TableListings), Column: "token_data_id"}}, listing["$.token_metadata.token.vec[0].inner"])
	assert.Equal(t, []Target{{Table: string(TableListings), Column: "listing_id"}}, listing["$.listing"])
}

func TestCompile_SkipsUnknownTargets(t *testing.T) {
	cfg := MarketplaceConfig{
		Name:            "m",
		ContractAddress: "0x1",
		Events: []EventConfig{{
			EventType:         "0x1::m::Listed",
			StandardEventType: "place_listing",
			Fields: []FieldConfig{
				{Path: "$.price", Targets: []Target{
					{Table: "bogus_table", Column: "price"},
					{Table: "activities", Column: "bogus_column"},
					{Table: "activities", Column: "price"},
				}},
			},
		}},
	}

	mapping, err := Compile(cfg)
	require.NoError(t, err)

	targets := mapping.Remappings()[domain.StandardizeType("0x1::m::Listed")]["$.price"]
	assert.Equal(t, []Target{{Table: string(TableActivities), Column: "price"}}, targets)
}

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		name string
		cfg  MarketplaceConfig
	}{
		{
			name: "missing name",
			cfg:  MarketplaceConfig{ContractAddress: "0x1"},
		},
		{
			name: "missing contract",
			cfg:  MarketplaceConfig{Name: "m"},
		},
		{
			name: "invalid path",
			cfg: MarketplaceConfig{Name: "m", ContractAddress: "0x1", Events: []EventConfig{{
				EventType:         "0x1::m::Listed",
				StandardEventType: "List",
				Fields:            []FieldConfig{{Path: "$.price[0", Targets: []Target{{Table: "activities", Column: "price"}}}},
			}}},
		},
		{
			name: "unknown standard event type",
			cfg: MarketplaceConfig{Name: "m", ContractAddress: "0x1", Events: []EventConfig{{
				EventType:         "0x1::m::Listed",
				StandardEventType: "Relist",
			}}},
		},
		{
			name: "conflicting standard event types",
			cfg: MarketplaceConfig{Name: "m", ContractAddress: "0x1", Events: []EventConfig{
				{EventType: "0x1::m::Listed", StandardEventType: "List"},
				{EventType: "0x1::m::Listed", StandardEventType: "Unlist"},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.cfg)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidMapping)
		})
	}
}

func TestParseTable(t *testing.T) {
	table, ok := ParseTable("Token_Offers")
	assert.True(t, ok)
	assert.Equal(t, TableTokenOffers, table)
	assert.Equal(t, domain.SecondaryTokenBid, table.secondaryKind())

	_, ok = ParseTable("nfts")
	assert.False(t, ok)
}

func TestEngine(t *testing.T) {
	other := testConfig()
	other.Name = "tradeport"

	engine, err := NewEngine([]MarketplaceConfig{testConfig(), other}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{testMarketplace, "tradeport"}, engine.Marketplaces())

	r, err := engine.Remapper("tradeport")
	require.NoError(t, err)
	assert.Equal(t, "tradeport", r.Marketplace())
	assert.Equal(t, addr(testContract), r.ContractAddress())

	_, err = engine.Remapper("missing")
	assert.ErrorIs(t, err, domain.ErrMarketplaceNotFound)

	_, err = NewEngine([]MarketplaceConfig{testConfig(), testConfig()}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidMapping)
}

func TestEventMapping_Touches(t *testing.T) {
	cfg := testConfig()
	cfg.Events = append(cfg.Events, EventConfig{
		EventType:         "0xfeed::legacy::BuyEvent",
		StandardEventType: "Buy",
	})
	mapping, err := Compile(cfg)
	require.NoError(t, err)

	tests := []struct {
		name     string
		entry    string
		events   []string
		expected bool
	}{
		{name: "entry function of the contract", entry: "0xabc::marketplace::buy", expected: true},
		{name: "padded contract address", entry: addr("0xabc") + "::marketplace::buy", expected: true},
		{name: "event declared by the contract", entry: "0x1::aptos_account::transfer", events: []string{"0xabc::events::Unmapped"}, expected: true},
		{name: "mapped event of another module", events: []string{"0x1::object::Transfer", "0xfeed::legacy::BuyEvent"}, expected: true},
		{name: "token events only", entry: "0x4::collection::mint", events: []string{"0x4::collection::Mint", "0x1::object::Transfer"}, expected: false},
		{name: "address prefix is not a match", entry: "0xabcd::marketplace::buy", expected: false},
		{name: "script transaction without events", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var events []domain.Event
			for _, e := range tt.events {
				events = append(events, event(e, `{}`))
			}
			txn := newTxn(1, events...)
			txn.EntryFunction = tt.entry
			assert.Equal(t, tt.expected, mapping.Touches(txn))
		})
	}
}

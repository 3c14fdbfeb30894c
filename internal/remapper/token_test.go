package remapper

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-marketplace-indexer/internal/adapter"
	"github.com/feral-file/ff-marketplace-indexer/internal/domain"
)

func v2MintTxn() *domain.Transaction {
	txn := newTxn(5000,
		event("0x4::collection::Mint", `{"collection":"0xc011","index":{"value":"7"},"token":"0x7015"}`),
		event("0x1::object::Transfer", `{"from":"0xc8ea","object":"0x7015","to":"0xb0b"}`),
	)
	txn.Changes = []domain.WriteSetChange{
		writeResource("0xc011", "0x4::collection::Collection", `{"creator":"0xc8ea","description":"Loonies","name":"The Loonies","uri":"https://loonies"}`),
		writeResource("0xc011", "0x4::collection::ConcurrentSupply", `{"current_supply":{"max_value":"10000","value":"8"},"total_minted":{"max_value":"18446744073709551615","value":"9"}}`),
		writeResource("0xc011", "0x4::royalty::Royalty", `{"denominator":"100","numerator":"5","payee_address":"0xfee"}`),
		writeResource("0x7015", "0x4::token::Token", `{"collection":{"inner":"0xc011"},"description":"a loonie","index":"0","name":"","uri":"https://loonies/7"}`),
		writeResource("0x7015", "0x4::token::TokenIdentifiers", `{"index":{"value":"7"},"name":{"padding":"0x","value":"Loonie #7"}}`),
		writeResource("0x7015", "0x1::object::ObjectCore", `{"allow_ungated_transfer":true,"guid_creation_num":"1125899906842625","owner":"0xb0b"}`),
	}
	return txn
}

func TestRemap_V2MintCompletedByTransfer(t *testing.T) {
	r := newTestRemapper(t)

	res, err := r.Remap(context.Background(), v2MintTxn())
	require.NoError(t, err)

	require.Len(t, res.Activities, 1, "the transfer patches the mint instead of emitting its own activity")
	mint := res.Activities[0]
	assert.Equal(t, domain.EventTypeMint, mint.StandardEventType)
	assert.Equal(t, testMarketplace, mint.Marketplace)
	assert.Equal(t, addr("0x7015"), *mint.TokenDataID)
	assert.Equal(t, addr("0xc011"), *mint.CollectionID)
	assert.Equal(t, "The Loonies", *mint.CollectionName)
	assert.Equal(t, addr("0xc8ea"), *mint.CreatorAddress)
	assert.Equal(t, "Loonie #7", *mint.TokenName)
	assert.Equal(t, addr("0xb0b"), *mint.Buyer)
	assert.Equal(t, "1", mint.TokenAmount.String())

	require.Len(t, res.Nfts, 1)
	nft := res.Nfts[0]
	assert.Equal(t, domain.EntityID(addr("0x7015")), nft.ID)
	assert.Equal(t, "Loonie #7", *nft.Name)
	assert.Equal(t, "https://loonies/7", *nft.URI)
	assert.Equal(t, addr("0xb0b"), *nft.Owner)
	assert.Equal(t, addr("0xc011"), *nft.CollectionID)
	assert.Equal(t, domain.TokenStandardV2, nft.TokenStandard)
	assert.False(t, nft.Burned)

	require.Len(t, res.Collections, 1)
	col := res.Collections[0]
	assert.Equal(t, addr("0xc011"), col.CollectionID)
	assert.Equal(t, "The Loonies", col.Name)
	assert.Equal(t, "8", col.Supply.String())
	assert.Equal(t, "10000", col.MaxSupply.String())
	assert.Equal(t, "9", col.TotalMinted.String())

	require.Len(t, res.Commissions, 1)
	assert.Equal(t, addr("0xc011"), res.Commissions[0].Key)
	assert.Equal(t, "0.05", res.Commissions[0].Royalty.String())
	assert.Equal(t, addr("0xfee"), res.Commissions[0].PayeeAddress)

	require.Len(t, res.Contracts, 1)
	contract := res.Contracts[0]
	assert.Equal(t, addr("0xc8ea")+"::The Loonies", contract.Key)
	assert.Equal(t, &res.Commissions[0].ID, contract.CommissionID)
	assert.Equal(t, contract.ID, *col.ContractID)
}

func TestRemap_V2TransferOfKnownToken(t *testing.T) {
	r := newTestRemapper(t)
	txn := newTxn(6000, event("0x1::object::TransferEvent", `{"from":"0xb0b","object":"0x7015","to":"0xca7"}`))
	txn.Changes = []domain.WriteSetChange{
		writeResource("0x7015", "0x4::token::Token", `{"collection":{"inner":"0xc011"},"name":"Loonie #7","uri":"u"}`),
	}

	res, err := r.Remap(context.Background(), txn)
	require.NoError(t, err)

	require.Len(t, res.Activities, 1)
	transfer := res.Activities[0]
	assert.Equal(t, domain.EventTypeTransfer, transfer.StandardEventType)
	assert.Equal(t, addr("0xb0b"), *transfer.Seller)
	assert.Equal(t, addr("0xca7"), *transfer.Buyer)
	assert.Equal(t, addr("0xc011"), *transfer.CollectionID)
	assert.Equal(t, "Loonie #7", *transfer.TokenName)

	require.Len(t, res.Nfts, 1)
	assert.Equal(t, addr("0xca7"), *res.Nfts[0].Owner)
}

func TestRemap_TransferMultipleHopsKeepsSender(t *testing.T) {
	r := newTestRemapper(t)
	txn := newTxn(6001,
		event("0x1::object::Transfer", `{"from":"0xb0b","object":"0x7015","to":"0x1157"}`),
		event("0x1::object::Transfer", `{"from":"0x1157","object":"0x7015","to":"0xca7"}`),
	)
	txn.Changes = []domain.WriteSetChange{
		writeResource("0x7015", "0x4::token::Token", `{"collection":{"inner":"0xc011"},"name":"Loonie #7"}`),
	}

	res, err := r.Remap(context.Background(), txn)
	require.NoError(t, err)

	require.Len(t, res.Activities, 1)
	assert.Equal(t, addr("0xb0b"), *res.Activities[0].Seller)
	assert.Equal(t, addr("0xca7"), *res.Activities[0].Buyer)
}

func TestRemap_TransferOfUnknownObjectIgnored(t *testing.T) {
	r := newTestRemapper(t)
	txn := newTxn(6002, event("0x1::object::Transfer", `{"from":"0xb0b","object":"0x1157","to":"0xca7"}`))

	res, err := r.Remap(context.Background(), txn)
	require.NoError(t, err)
	assert.True(t, res.Empty())
}

func TestRemap_V2Burn(t *testing.T) {
	r := newTestRemapper(t)
	txn := newTxn(7000, domain.Event{
		Type:           "0x4::collection::BurnEvent",
		AccountAddress: "0xc011",
		Data:           []byte(`{"index":"7","token":"0x7015"}`),
	})
	txn.Changes = []domain.WriteSetChange{{
		Type:     domain.WriteSetChangeDelete,
		Address:  "0x7015",
		Resource: &domain.MoveResource{Type: "0x4::token::Token"},
	}}

	res, err := r.Remap(context.Background(), txn)
	require.NoError(t, err)

	require.Len(t, res.Activities, 1)
	assert.Equal(t, domain.EventTypeBurn, res.Activities[0].StandardEventType)
	assert.Equal(t, addr("0xc011"), *res.Activities[0].CollectionID)

	require.Len(t, res.Nfts, 1)
	assert.True(t, res.Nfts[0].Burned)
}

const monkeyID = `{"collection":"Aptos Monkeys","creator":"0xa1","name":"Monkey #1"}`

func TestRemap_V1MintCompletedByDeposit(t *testing.T) {
	r := newTestRemapper(t)
	txn := newTxn(8000,
		event("0x3::token::CreateCollectionEvent", `{"collection_name":"Aptos Monkeys","creator":"0xa1","description":"","maximum":"1000","uri":"https://monkeys"}`),
		event("0x3::token::CreateTokenDataEvent", `{"id":`+monkeyID+`,"description":"first","uri":"https://monkeys/1","royalty_payee_address":"0xa1","royalty_points_denominator":"1000","royalty_points_numerator":"25"}`),
		event("0x3::token::MintTokenEvent", `{"amount":"1","id":`+monkeyID+`}`),
		domain.Event{Type: "0x3::token::DepositEvent", AccountAddress: "0xb0b",
			Data: []byte(`{"amount":"1","id":{"property_version":"0","token_data_id":` + monkeyID + `}}`)},
	)

	res, err := r.Remap(context.Background(), txn)
	require.NoError(t, err)

	tokenID := domain.SynthesizeTokenDataID("0xa1", "Aptos Monkeys", "Monkey #1")
	collectionID := domain.SynthesizeCollectionID("0xa1", "Aptos Monkeys")

	require.Len(t, res.Activities, 1)
	mint := res.Activities[0]
	assert.Equal(t, domain.EventTypeMint, mint.StandardEventType)
	assert.Equal(t, int64(2), mint.EventIndex)
	assert.Equal(t, tokenID, *mint.TokenDataID)
	assert.Equal(t, collectionID, *mint.CollectionID)
	assert.Equal(t, addr("0xb0b"), *mint.Buyer)

	require.Len(t, res.Collections, 1)
	assert.Equal(t, collectionID, res.Collections[0].CollectionID)
	assert.Equal(t, "1000", res.Collections[0].MaxSupply.String())
	assert.Equal(t, domain.TokenStandardV1, res.Collections[0].TokenStandard)

	require.Len(t, res.Nfts, 1)
	nft := res.Nfts[0]
	assert.Equal(t, tokenID, nft.TokenDataID)
	assert.Equal(t, "Monkey #1", *nft.Name)
	assert.Equal(t, "https://monkeys/1", *nft.URI)
	assert.Equal(t, addr("0xb0b"), *nft.Owner)

	require.Len(t, res.Commissions, 1)
	assert.Equal(t, "0.025", res.Commissions[0].Royalty.String())

	require.Len(t, res.Contracts, 1, "collection and token data share one contract")
	assert.Equal(t, &res.Commissions[0].ID, res.Contracts[0].CommissionID)
}

func TestRemap_V1WithdrawDepositIsTransfer(t *testing.T) {
	r := newTestRemapper(t)
	tokenID := `{"property_version":"0","token_data_id":` + monkeyID + `}`
	txn := newTxn(8001,
		domain.Event{Type: "0x3::token::WithdrawEvent", AccountAddress: "0xa11ce", Data: []byte(`{"amount":"1","id":` + tokenID + `}`)},
		domain.Event{Type: "0x3::token::DepositEvent", AccountAddress: "0xb0b", Data: []byte(`{"amount":"1","id":` + tokenID + `}`)},
	)

	res, err := r.Remap(context.Background(), txn)
	require.NoError(t, err)

	require.Len(t, res.Activities, 1)
	transfer := res.Activities[0]
	assert.Equal(t, domain.EventTypeTransfer, transfer.StandardEventType)
	assert.Equal(t, int64(1), transfer.EventIndex)
	assert.Equal(t, addr("0xa11ce"), *transfer.Seller)
	assert.Equal(t, addr("0xb0b"), *transfer.Buyer)
	assert.Equal(t, "Aptos Monkeys", *transfer.CollectionName)
}

func TestRemap_V1Burn(t *testing.T) {
	r := newTestRemapper(t)
	txn := newTxn(8002, event("0x3::token::Burn",
		`{"account":"0xb0b","amount":"1","id":{"property_version":"0","token_data_id":`+monkeyID+`}}`))

	res, err := r.Remap(context.Background(), txn)
	require.NoError(t, err)

	require.Len(t, res.Activities, 1)
	assert.Equal(t, domain.EventTypeBurn, res.Activities[0].StandardEventType)
	assert.Equal(t, addr("0xb0b"), *res.Activities[0].Seller)
	require.Len(t, res.Nfts, 1)
	assert.True(t, res.Nfts[0].Burned)
}

func TestRemap_MalformedTokenEvent(t *testing.T) {
	r := newTestRemapper(t)
	_, err := r.Remap(context.Background(), newTxn(9000, event("0x1::object::Transfer", `{`)))
	assert.ErrorIs(t, err, domain.ErrMalformedEvent)
}

func TestRemap_TransactionOutsideMarketplaceIgnored(t *testing.T) {
	r := newTestRemapper(t)

	txn := v2MintTxn()
	txn.EntryFunction = "0x1::aptos_account::transfer"

	res, err := r.Remap(context.Background(), txn)
	require.NoError(t, err)
	assert.True(t, res.Empty())
	assert.Equal(t, txn.Version, res.TxnVersion, "an ignored transaction still advances the round")
}

func TestRemap_TokenEventsBelongToTheCalledMarketplace(t *testing.T) {
	wapal := newTestRemapper(t)

	otherCfg := testConfig()
	otherCfg.Name = "other_market"
	otherCfg.ContractAddress = "0xdef"
	otherCfg.Events = nil
	otherMapping, err := Compile(otherCfg)
	require.NoError(t, err)
	other := NewRemapper(otherMapping, adapter.NewJCS())

	res, err := wapal.Remap(context.Background(), v2MintTxn())
	require.NoError(t, err)
	require.Len(t, res.Activities, 1)
	assert.Equal(t, testMarketplace, res.Activities[0].Marketplace)

	res, err = other.Remap(context.Background(), v2MintTxn())
	require.NoError(t, err)
	assert.Empty(t, res.Activities)
	assert.Empty(t, res.Nfts)
}

func TestRemap_MarketplaceEventOutsideEntryFunction(t *testing.T) {
	r := newTestRemapper(t)

	// a sale routed through an aggregator still emits the marketplace event
	txn := newTxn(5100,
		event("0xabc::events::ListingCanceledEvent", `{"seller":"0x5e11","token_metadata":{"token":{"vec":[{"inner":"0x7015"}]}}}`),
		event("0x1::object::Transfer", `{"from":"0x5e11","object":"0x7015","to":"0xb0b"}`),
	)
	txn.EntryFunction = "0xa99::router::swap"
	txn.Changes = []domain.WriteSetChange{
		writeResource("0x7015", "0x4::token::Token", `{"collection":{"inner":"0xc011"},"name":"Loonie #7"}`),
	}

	res, err := r.Remap(context.Background(), txn)
	require.NoError(t, err)
	require.Len(t, res.Activities, 2)
	assert.Equal(t, domain.EventTypeUnlist, res.Activities[0].StandardEventType)
	assert.Equal(t, domain.EventTypeTransfer, res.Activities[1].StandardEventType)
}

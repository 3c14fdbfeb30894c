package remapper

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-marketplace-indexer/internal/domain"
	"github.com/feral-file/ff-marketplace-indexer/internal/mocks"
)

const loonieListing = `{
	"listing": "0x11",
	"price": "3400000000",
	"seller": "0x5e11e7",
	"token_metadata": {
		"collection_name": "The Loonies",
		"token": {"vec": [{"inner": "0x7015"}]}
	}
}`

func TestRemap_ListingPlacedEndToEnd(t *testing.T) {
	r := newTestRemapper(t)
	txn := newTxn(1000, event("0xabc::events::ListingPlacedEvent", loonieListing))

	res, err := r.Remap(context.Background(), txn)
	require.NoError(t, err)

	require.Len(t, res.Activities, 1)
	activity := res.Activities[0]
	assert.Equal(t, domain.EventTypeList, activity.StandardEventType)
	assert.Equal(t, "3400000000", activity.Price.String())
	assert.Equal(t, addr("0x5e11e7"), *activity.Seller)
	assert.Equal(t, addr("0x7015"), *activity.TokenDataID, "token id is shared from the listing draft")
	assert.Equal(t, "The Loonies", *activity.CollectionName)
	assert.Equal(t, int64(1000), activity.TxnVersion)
	assert.Equal(t, int64(0), activity.EventIndex)
	assert.Equal(t, testMarketplace, activity.Marketplace)
	assert.Equal(t, addr(testContract), activity.ContractAddress)
	assert.Equal(t, txn.Hash, activity.TxnID)

	require.Len(t, res.Listings, 1)
	listing := res.Listings[0]
	assert.Equal(t, addr("0x7015"), listing.TokenDataID)
	assert.Equal(t, testMarketplace, listing.Marketplace)
	assert.False(t, listing.IsDeleted)
	assert.True(t, listing.Listed)
	assert.Equal(t, "3400000000", listing.Price.String())
	assert.Equal(t, addr("0x5e11e7"), *listing.Seller)
	assert.Equal(t, "0x11", *listing.ListingID)
	assert.Equal(t, int64(1000*domain.TxIndexMultiplier), *listing.TxIndex)
	assert.Equal(t, testBlockTime, listing.LastTransactionTimestamp)

	assert.Empty(t, res.TokenBids)
	assert.Empty(t, res.CollectionBids)
}

func TestRemap_Idempotent(t *testing.T) {
	r := newTestRemapper(t)
	txn := newTxn(1000, event("0xabc::events::ListingPlacedEvent", loonieListing))

	first, err := r.Remap(context.Background(), txn)
	require.NoError(t, err)
	second, err := r.Remap(context.Background(), txn)
	require.NoError(t, err)

	assert.Equal(t, first.Activities, second.Activities)
	assert.Equal(t, first.Listings, second.Listings)
	// canonical JSON is independent of the payload's key order and whitespace
	assert.JSONEq(t, loonieListing, string(first.Activities[0].JSONData))
	assert.NotContains(t, string(first.Activities[0].JSONData), "\n")
}

func TestRemap_NoExecutionMetadata(t *testing.T) {
	r := newTestRemapper(t)
	txn := newTxn(1, event("0xabc::events::ListingPlacedEvent", loonieListing))
	txn.Info = nil

	res, err := r.Remap(context.Background(), txn)
	require.NoError(t, err)
	assert.True(t, res.Empty())
}

func TestRemap_UnmappedEventDropped(t *testing.T) {
	r := newTestRemapper(t)
	txn := newTxn(1, event("0xabc::events::SomethingElse", `not json`))

	res, err := r.Remap(context.Background(), txn)
	require.NoError(t, err)
	assert.True(t, res.Empty())
}

func TestRemap_MalformedEnvelope(t *testing.T) {
	r := newTestRemapper(t)
	txn := newTxn(77, event("0xabc::events::ListingPlacedEvent", `{"price": `))

	_, err := r.Remap(context.Background(), txn)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMalformedEvent)
	assert.Contains(t, err.Error(), "version 77")
	assert.Contains(t, err.Error(), "ListingPlacedEvent")
}

func TestRemap_CanonicalizationFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockJCS := mocks.NewMockJCS(ctrl)
	mockJCS.EXPECT().Transform([]byte(loonieListing)).Return(nil, errors.New("invalid number"))

	mapping, err := Compile(testConfig())
	require.NoError(t, err)
	r := NewRemapper(mapping, mockJCS)

	_, err = r.Remap(context.Background(), newTxn(78, event("0xabc::events::ListingPlacedEvent", loonieListing)))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMalformedEvent)
	assert.Contains(t, err.Error(), "invalid number")
}

func TestRemap_TokenEventCanonicalizationFailureSkipped(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockJCS := mocks.NewMockJCS(ctrl)
	mockJCS.EXPECT().Transform(gomock.Any()).Return(nil, errors.New("invalid number"))

	mapping, err := Compile(testConfig())
	require.NoError(t, err)
	r := NewRemapper(mapping, mockJCS)

	txn := newTxn(79, event("0x3::token::Burn",
		`{"account":"0xb0b","amount":"1","id":{"property_version":"0","token_data_id":`+monkeyID+`}}`))

	res, err := r.Remap(context.Background(), txn)
	require.NoError(t, err)
	assert.Empty(t, res.Activities)
	assert.Empty(t, res.Nfts)
	assert.Equal(t, uint64(79), res.TxnVersion)
}

func TestRemap_ContextCanceled(t *testing.T) {
	r := newTestRemapper(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Remap(ctx, newTxn(1, event("0xabc::events::ListingPlacedEvent", loonieListing)))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRemap_UnlistSeedsDeletedListing(t *testing.T) {
	r := newTestRemapper(t)
	txn := newTxn(1001, event("0xabc::events::ListingCanceledEvent",
		`{"seller":"0x5e11e7","token_metadata":{"token":{"vec":[{"inner":"0x7015"}]}}}`))

	res, err := r.Remap(context.Background(), txn)
	require.NoError(t, err)

	require.Len(t, res.Activities, 1)
	assert.Equal(t, domain.EventTypeUnlist, res.Activities[0].StandardEventType)

	require.Len(t, res.Listings, 1)
	assert.Equal(t, addr("0x7015"), res.Listings[0].TokenDataID)
	assert.True(t, res.Listings[0].IsDeleted)
	assert.False(t, res.Listings[0].Listed)
	assert.Equal(t, domain.EventTypeUnlist, res.Listings[0].StandardEventType)
}

func TestRemap_ListingWithoutTokenEmitsActivityOnly(t *testing.T) {
	r := newTestRemapper(t)
	txn := newTxn(5, event("0xabc::events::ListingPlacedEvent", `{"price":"1","seller":"0x1"}`))

	res, err := r.Remap(context.Background(), txn)
	require.NoError(t, err)
	assert.Len(t, res.Activities, 1)
	assert.Empty(t, res.Listings)
}

func TestRemap_TokenBidSynthesizesTokenID(t *testing.T) {
	r := newTestRemapper(t)
	txn := newTxn(2000, event("0xabc::events::TokenOfferPlacedEvent", `{
		"offer_id": "0x0ffe",
		"price": "150000000",
		"purchaser": "0xb0b",
		"token_metadata": {"creator_address": "0x1", "collection_name": "The Loonies", "token_name": "Loonie #7"}
	}`))

	res, err := r.Remap(context.Background(), txn)
	require.NoError(t, err)

	expectedToken := domain.SynthesizeTokenDataID("0x1", "The Loonies", "Loonie #7")
	expectedCollection := domain.SynthesizeCollectionID("0x1", "The Loonies")

	require.Len(t, res.Activities, 1)
	activity := res.Activities[0]
	assert.Equal(t, expectedToken, *activity.TokenDataID)
	assert.Equal(t, expectedCollection, *activity.CollectionID)
	assert.Equal(t, addr("0xb0b"), *activity.Buyer, "buyer is shared from the bid draft")

	require.Len(t, res.TokenBids, 1)
	bid := res.TokenBids[0]
	assert.Equal(t, expectedToken, bid.TokenDataID)
	assert.Equal(t, expectedCollection, *bid.CollectionID)
	assert.Equal(t, addr("0xb0b"), bid.Buyer)
	assert.Equal(t, "0x0ffe", *bid.OfferID)
	assert.Equal(t, "150000000", bid.Price.String())
	assert.Equal(t, domain.BidStatusActive, bid.Status)
	assert.False(t, bid.IsDeleted)
	assert.Equal(t, txn.Hash, *bid.CreatedTxID)
	assert.Nil(t, bid.AcceptedTxID)
	assert.Nil(t, bid.CanceledTxID)
}

func TestRemap_TokenBidWithoutBuyerDropped(t *testing.T) {
	r := newTestRemapper(t)
	txn := newTxn(2001, event("0xabc::events::TokenOfferPlacedEvent", `{
		"offer_id": "0x0ffe",
		"token_metadata": {"creator_address": "0x1", "collection_name": "The Loonies", "token_name": "Loonie #7"}
	}`))

	res, err := r.Remap(context.Background(), txn)
	require.NoError(t, err)
	assert.Len(t, res.Activities, 1)
	assert.Empty(t, res.TokenBids)
}

func TestRemap_CollectionBidFallsBackToOfferID(t *testing.T) {
	r := newTestRemapper(t)
	txn := newTxn(3000, event("0xabc::events::CollectionOfferPlacedEvent",
		`{"offer_id":"42","purchaser":"0xb0b","collection":"0xc011","remaining":5}`))

	res, err := r.Remap(context.Background(), txn)
	require.NoError(t, err)

	require.Len(t, res.CollectionBids, 1)
	bid := res.CollectionBids[0]
	assert.Equal(t, "42", bid.CollectionOfferID)
	assert.Equal(t, addr("0xc011"), *bid.CollectionID)
	assert.Equal(t, "5", bid.RemainingTokenAmount.String())
	assert.Equal(t, addr("0xb0b"), *bid.Buyer)
	assert.Equal(t, domain.BidStatusActive, bid.Status)

	require.Len(t, res.Activities, 1)
	assert.Equal(t, "42", *res.Activities[0].CollectionOfferID)
}

func TestRemap_CollectionBidCancelWithOnlyOfferID(t *testing.T) {
	r := newTestRemapper(t)
	txn := newTxn(3001, event("0xabc::events::CollectionOfferCanceledEvent", `{"offer_id":"42"}`))

	res, err := r.Remap(context.Background(), txn)
	require.NoError(t, err)

	require.Len(t, res.CollectionBids, 1)
	bid := res.CollectionBids[0]
	assert.Equal(t, "42", bid.CollectionOfferID)
	assert.Nil(t, bid.CollectionID)
	assert.Equal(t, domain.BidStatusCancelled, bid.Status)
	assert.True(t, bid.IsDeleted)
	require.NotNil(t, bid.CanceledTxID)
	assert.Equal(t, txn.Hash, *bid.CanceledTxID)
}

func TestRemap_UnparseableValueSkipped(t *testing.T) {
	r := newTestRemapper(t)
	txn := newTxn(4000, event("0xabc::events::ListingPlacedEvent",
		`{"price":"not-a-number","token_metadata":{"token":{"vec":[{"inner":"0x7015"}]}}}`))

	res, err := r.Remap(context.Background(), txn)
	require.NoError(t, err)
	require.Len(t, res.Activities, 1)
	assert.Nil(t, res.Activities[0].Price)
	require.Len(t, res.Listings, 1)
	assert.Nil(t, res.Listings[0].Price)
}

func TestSecondaryModel_FieldDispatch(t *testing.T) {
	txn := newTxn(1)
	m := newSecondaryModel(domain.SecondaryTokenBid, domain.EventTypeAcceptBid, "m", "0x1", txn, 0)
	require.NotNil(t, m)

	assert.True(t, m.SetField(FieldBuyer, "0xb0b"))
	assert.True(t, m.SetField(FieldPrice, "12"))
	assert.False(t, m.SetField(FieldPrice, "twelve"))
	assert.False(t, m.SetField(FieldListingID, "1"), "token bids have no listing id")
	assert.False(t, m.SetField(FieldRemainingTokenAmount, "1"))

	v, ok := m.GetField(FieldBuyer)
	assert.True(t, ok)
	assert.Equal(t, addr("0xb0b"), v)

	_, ok = m.GetField(FieldSeller)
	assert.False(t, ok)

	assert.Equal(t, domain.BidStatusMatched, m.TokenBid.Status)
	assert.True(t, m.TokenBid.IsDeleted)
	assert.Equal(t, txn.Hash, *m.TokenBid.AcceptedTxID)
	assert.False(t, m.Valid(), "token id still missing")

	m.SetField(FieldTokenDataID, "0x7015")
	assert.True(t, m.Valid())

	assert.Nil(t, newSecondaryModel(domain.SecondaryNone, domain.EventTypeMint, "m", "0x1", txn, 0))
}

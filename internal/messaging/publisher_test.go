package messaging_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-marketplace-indexer/internal/domain"
	"github.com/feral-file/ff-marketplace-indexer/internal/messaging"
	"github.com/feral-file/ff-marketplace-indexer/internal/store/schema"
)

func TestNewActivityMessage(t *testing.T) {
	price := decimal.RequireFromString("150000000")
	token := "0x70a1"
	seller := "0x5e11"
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	msg := messaging.NewActivityMessage(&schema.NftMarketplaceActivity{
		TxnVersion:        1234,
		EventIndex:        2,
		Marketplace:       "wapal",
		ContractAddress:   "0xabc",
		RawEventType:      "0xabc::events::ListingPlacedEvent",
		StandardEventType: domain.EventTypeList,
		TokenDataID:       &token,
		Seller:            &seller,
		Price:             &price,
		BlockTimestamp:    ts,
	})

	require.NotNil(t, msg)
	assert.True(t, msg.Valid())
	assert.Equal(t, uint64(1234), msg.TxnVersion)
	assert.Equal(t, 2, msg.EventIndex)
	assert.Equal(t, "150000000", *msg.Price)
	assert.Equal(t, token, *msg.TokenDataID)
	assert.Nil(t, msg.Buyer)
	assert.Equal(t, "marketplace.wapal.place_listing", msg.Subject("marketplace"))
}

func TestNewActivityMessage_WithoutPrice(t *testing.T) {
	msg := messaging.NewActivityMessage(&schema.NftMarketplaceActivity{
		TxnVersion:        1,
		Marketplace:       "wapal",
		StandardEventType: domain.EventTypeMint,
	})
	assert.Nil(t, msg.Price)
}

func TestNoopPublisher(t *testing.T) {
	p := messaging.NewNoopPublisher()
	assert.NoError(t, p.PublishActivity(context.Background(), &domain.ActivityMessage{}))
	p.Close()
}

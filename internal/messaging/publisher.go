package messaging

import (
	"context"

	"github.com/feral-file/ff-marketplace-indexer/internal/domain"
	"github.com/feral-file/ff-marketplace-indexer/internal/store/schema"
)

// Publisher defines the interface for publishing persisted activities to message queue
//
//go:generate mockgen -source=publisher.go -destination=../mocks/publisher.go -package=mocks -mock_names=Publisher=MockPublisher
type Publisher interface {
	// PublishActivity publishes a persisted marketplace activity to the message broker
	PublishActivity(ctx context.Context, msg *domain.ActivityMessage) error
	// Close closes the connection
	Close()
}

// NewActivityMessage builds the broker message of a persisted activity
func NewActivityMessage(a *schema.NftMarketplaceActivity) *domain.ActivityMessage {
	msg := &domain.ActivityMessage{
		Marketplace:       a.Marketplace,
		ContractAddress:   a.ContractAddress,
		StandardEventType: a.StandardEventType,
		RawEventType:      a.RawEventType,
		TxnVersion:        uint64(a.TxnVersion), //nolint:gosec,G115
		EventIndex:        int(a.EventIndex),
		TokenDataID:       a.TokenDataID,
		CollectionID:      a.CollectionID,
		Buyer:             a.Buyer,
		Seller:            a.Seller,
		BlockTimestamp:    a.BlockTimestamp,
	}
	if a.Price != nil {
		price := a.Price.String()
		msg.Price = &price
	}
	return msg
}

type noopPublisher struct{}

// NewNoopPublisher returns a publisher that drops every message. Used when no broker is configured.
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) PublishActivity(context.Context, *domain.ActivityMessage) error {
	return nil
}

func (noopPublisher) Close() {}

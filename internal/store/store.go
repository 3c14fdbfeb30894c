package store

import (
	"context"

	"github.com/feral-file/ff-marketplace-indexer/internal/store/schema"
)

// RoundInput is the compacted output of one processing round
type RoundInput struct {
	Activities     []*schema.NftMarketplaceActivity
	Listings       []*schema.CurrentNftMarketplaceListing
	TokenBids      []*schema.CurrentNftMarketplaceTokenOffer
	CollectionBids []*schema.CurrentNftMarketplaceCollectionOffer
	Collections    []*schema.Collection
	Nfts           []*schema.Nft
	Commissions    []*schema.Commission
	Contracts      []*schema.Contract
}

// Empty reports whether the round has nothing to write
func (r RoundInput) Empty() bool {
	return len(r.Activities) == 0 && len(r.Listings) == 0 && len(r.TokenBids) == 0 &&
		len(r.CollectionBids) == 0 && len(r.Collections) == 0 && len(r.Nfts) == 0 &&
		len(r.Commissions) == 0 && len(r.Contracts) == 0
}

//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore

// Store defines the interface for database operations
type Store interface {
	CheckpointStore

	// WriteRound persists a round. Activities are insert-only, every other table is upserted and
	// never regresses to an older transaction version.
	WriteRound(ctx context.Context, input RoundInput) error

	// GetCurrentListing retrieves the current listing of a token on a marketplace
	GetCurrentListing(ctx context.Context, marketplace, tokenDataID string) (*schema.CurrentNftMarketplaceListing, error)
	// GetCurrentTokenBid retrieves the current bid of a buyer on a token
	GetCurrentTokenBid(ctx context.Context, marketplace, tokenDataID, buyer string) (*schema.CurrentNftMarketplaceTokenOffer, error)
	// GetCurrentCollectionBid retrieves the current state of a collection offer
	GetCurrentCollectionBid(ctx context.Context, marketplace, collectionOfferID string) (*schema.CurrentNftMarketplaceCollectionOffer, error)
	// GetActivities retrieves activities of a marketplace from a transaction version, in chain order
	GetActivities(ctx context.Context, marketplace string, fromVersion uint64, limit int) ([]*schema.NftMarketplaceActivity, error)
	// GetNftByTokenDataID retrieves an nft by its token data id
	GetNftByTokenDataID(ctx context.Context, tokenDataID string) (*schema.Nft, error)
	// GetCollectionByCollectionID retrieves a collection by its collection id
	GetCollectionByCollectionID(ctx context.Context, collectionID string) (*schema.Collection, error)
}

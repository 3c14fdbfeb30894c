// Package reducer compacts the records of one processing round into deduplicated current state.
package reducer

import (
	"time"

	"github.com/feral-file/ff-marketplace-indexer/internal/domain"
	"github.com/feral-file/ff-marketplace-indexer/internal/remapper"
	"github.com/feral-file/ff-marketplace-indexer/internal/store/schema"
)

// Output is the compacted state of a round
type Output struct {
	Activities     []*schema.NftMarketplaceActivity
	Listings       []*schema.CurrentNftMarketplaceListing
	TokenBids      []*schema.CurrentNftMarketplaceTokenOffer
	CollectionBids []*schema.CurrentNftMarketplaceCollectionOffer
	Collections    []*schema.Collection
	Nfts           []*schema.Nft
	Commissions    []*schema.Commission
	Contracts      []*schema.Contract

	// Transactions is the number of results folded into the round
	Transactions int
	MaxVersion   uint64
	MaxTimestamp time.Time
}

// Empty reports whether the output has no records to persist
func (o *Output) Empty() bool {
	return len(o.Activities) == 0 && len(o.Listings) == 0 && len(o.TokenBids) == 0 &&
		len(o.CollectionBids) == 0 && len(o.Collections) == 0 && len(o.Nfts) == 0 &&
		len(o.Commissions) == 0 && len(o.Contracts) == 0
}

type bidKey struct {
	marketplace, contract, bidID string
}

type listingKey struct {
	marketplace, contract, tokenDataID string
}

// ordered is an insertion-ordered map
type ordered[K comparable, V any] struct {
	items map[K]V
	keys  []K
}

func newOrdered[K comparable, V any]() *ordered[K, V] {
	return &ordered[K, V]{items: make(map[K]V)}
}

func (o *ordered[K, V]) get(k K) (V, bool) {
	v, ok := o.items[k]
	return v, ok
}

func (o *ordered[K, V]) put(k K, v V) {
	if _, ok := o.items[k]; !ok {
		o.keys = append(o.keys, k)
	}
	o.items[k] = v
}

func (o *ordered[K, V]) values() []V {
	out := make([]V, 0, len(o.keys))
	for _, k := range o.keys {
		out = append(out, o.items[k])
	}
	return out
}

// Round is the arena of a single processing round. A round never sees state from earlier
// rounds and cannot be reused once drained.
type Round struct {
	drained bool

	actions        *ordered[int64, *schema.NftMarketplaceActivity]
	listings       *ordered[listingKey, *schema.CurrentNftMarketplaceListing]
	tokenBids      *ordered[bidKey, *schema.CurrentNftMarketplaceTokenOffer]
	collectionBids *ordered[bidKey, *schema.CurrentNftMarketplaceCollectionOffer]
	collections    *ordered[string, *schema.Collection]
	nfts           *ordered[string, *schema.Nft]
	commissions    *ordered[string, *schema.Commission]
	contracts      *ordered[string, *schema.Contract]

	transactions int
	maxVersion   uint64
	maxTimestamp time.Time
}

// NewRound creates an empty round
func NewRound() *Round {
	return &Round{
		actions:        newOrdered[int64, *schema.NftMarketplaceActivity](),
		listings:       newOrdered[listingKey, *schema.CurrentNftMarketplaceListing](),
		tokenBids:      newOrdered[bidKey, *schema.CurrentNftMarketplaceTokenOffer](),
		collectionBids: newOrdered[bidKey, *schema.CurrentNftMarketplaceCollectionOffer](),
		collections:    newOrdered[string, *schema.Collection](),
		nfts:           newOrdered[string, *schema.Nft](),
		commissions:    newOrdered[string, *schema.Commission](),
		contracts:      newOrdered[string, *schema.Contract](),
	}
}

// Add folds one transaction's result into the round. Results must be added in chain order.
func (r *Round) Add(res *remapper.Result) error {
	if r.drained {
		return domain.ErrRoundDrained
	}
	if res == nil {
		return nil
	}

	r.transactions++
	if res.TxnVersion > r.maxVersion {
		r.maxVersion = res.TxnVersion
	}
	if res.TxnTimestamp.After(r.maxTimestamp) {
		r.maxTimestamp = res.TxnTimestamp
	}

	for _, a := range res.Activities {
		r.actions.put(a.TxIndex(), a)
	}
	for _, l := range res.Listings {
		r.foldListing(l)
	}
	for _, b := range res.TokenBids {
		r.foldTokenBid(b)
	}
	for _, b := range res.CollectionBids {
		r.foldCollectionBid(b)
	}
	for _, c := range res.Collections {
		foldEntity(r.collections, c.ID, c, remapper.MergeCollection)
	}
	for _, n := range res.Nfts {
		foldEntity(r.nfts, n.ID, n, remapper.MergeNft)
	}
	for _, c := range res.Commissions {
		foldEntity(r.commissions, c.ID, c, remapper.MergeCommission)
	}
	for _, c := range res.Contracts {
		foldEntity(r.contracts, c.ID, c, remapper.MergeContract)
	}
	return nil
}

// Drain returns the compacted output and retires the round
func (r *Round) Drain() Output {
	if r.drained {
		return Output{}
	}
	r.drained = true

	return Output{
		Activities:     r.actions.values(),
		Listings:       r.listings.values(),
		TokenBids:      r.tokenBids.values(),
		CollectionBids: r.collectionBids.values(),
		Collections:    r.collections.values(),
		Nfts:           r.nfts.values(),
		Commissions:    r.commissions.values(),
		Contracts:      r.contracts.values(),
		Transactions:   r.transactions,
		MaxVersion:     r.maxVersion,
		MaxTimestamp:   r.maxTimestamp,
	}
}

// foldEntity merges into a copy so results handed to the round are never mutated
func foldEntity[T any](m *ordered[string, *T], id string, incoming *T, merge func(dst, src *T)) {
	existing, ok := m.get(id)
	if !ok {
		cp := *incoming
		m.put(id, &cp)
		return
	}
	merge(existing, incoming)
}

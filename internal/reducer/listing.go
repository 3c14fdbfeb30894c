package reducer

import (
	"github.com/feral-file/ff-marketplace-indexer/internal/store/schema"
)

// foldListing keeps the listing with the latest chain time. Equal block times fall back to the
// transaction version, and within one transaction the later event wins.
func (r *Round) foldListing(incoming *schema.CurrentNftMarketplaceListing) {
	if incoming.TokenDataID == "" {
		return
	}
	key := listingKey{
		marketplace: incoming.Marketplace,
		contract:    incoming.ContractAddress,
		tokenDataID: incoming.TokenDataID,
	}

	existing, ok := r.listings.get(key)
	if !ok {
		cp := *incoming
		clearUnlisted(&cp)
		r.listings.put(key, &cp)
		return
	}

	if !listingSupersedes(incoming, existing) {
		return
	}

	cp := *incoming
	if cp.CollectionID == nil {
		cp.CollectionID = existing.CollectionID
	}
	if cp.TokenName == nil {
		cp.TokenName = existing.TokenName
	}
	clearUnlisted(&cp)
	r.listings.put(key, &cp)
}

func listingSupersedes(incoming, existing *schema.CurrentNftMarketplaceListing) bool {
	switch {
	case incoming.LastTransactionTimestamp.After(existing.LastTransactionTimestamp):
		return true
	case incoming.LastTransactionTimestamp.Before(existing.LastTransactionTimestamp):
		return false
	default:
		return incoming.LastTransactionVersion >= existing.LastTransactionVersion
	}
}

// clearUnlisted drops the financial fields of a listing that is no longer for sale
func clearUnlisted(l *schema.CurrentNftMarketplaceListing) {
	if l.Listed {
		return
	}
	l.IsDeleted = true
	l.Price = nil
	l.Seller = nil
	l.ListingID = nil
	l.TxIndex = nil
}

package reducer

import (
	"github.com/feral-file/ff-marketplace-indexer/internal/domain"
	"github.com/feral-file/ff-marketplace-indexer/internal/store/schema"
)

// bidState is the lifecycle bookkeeping shared by token and collection bids
type bidState struct {
	status       *domain.BidStatus
	createdTxID  **string
	acceptedTxID **string
	canceledTxID **string
	isDeleted    *bool
}

// applyTransitions moves a bid through its lifecycle based on which transaction ids the
// incoming record carries. A placement (created tx id) re-activates the bid even when it was
// already matched or cancelled.
func applyTransitions(existing bidState, createdTxID, acceptedTxID, canceledTxID *string) {
	if createdTxID != nil {
		*existing.createdTxID = createdTxID
		*existing.status = domain.BidStatusActive
	}
	if acceptedTxID != nil {
		*existing.acceptedTxID = acceptedTxID
		if *existing.status == domain.BidStatusActive {
			*existing.status = domain.BidStatusMatched
		}
	}
	if canceledTxID != nil {
		*existing.canceledTxID = canceledTxID
		if *existing.status == domain.BidStatusActive {
			*existing.status = domain.BidStatusCancelled
		}
	}
	*existing.isDeleted = *existing.status != domain.BidStatusActive
}

// tokenBidID mirrors the row key of current_nft_marketplace_token_offers. The offer id is not part
// of it: accept and cancel events often omit it, and they must land on the placement's row.
func tokenBidID(b *schema.CurrentNftMarketplaceTokenOffer) string {
	if b.TokenDataID == "" || b.Buyer == "" {
		return ""
	}
	return b.TokenDataID + "::" + b.Buyer
}

func collectionBidID(b *schema.CurrentNftMarketplaceCollectionOffer) string {
	return b.CollectionOfferID
}

func (r *Round) foldTokenBid(incoming *schema.CurrentNftMarketplaceTokenOffer) {
	id := tokenBidID(incoming)
	if id == "" {
		return
	}
	key := bidKey{marketplace: incoming.Marketplace, contract: incoming.ContractAddress, bidID: id}

	existing, ok := r.tokenBids.get(key)
	if !ok {
		cp := *incoming
		r.tokenBids.put(key, &cp)
		return
	}

	applyTransitions(bidState{
		status:       &existing.Status,
		createdTxID:  &existing.CreatedTxID,
		acceptedTxID: &existing.AcceptedTxID,
		canceledTxID: &existing.CanceledTxID,
		isDeleted:    &existing.IsDeleted,
	}, incoming.CreatedTxID, incoming.AcceptedTxID, incoming.CanceledTxID)

	overwrite(&existing.OfferID, incoming.OfferID)
	overwrite(&existing.CollectionID, incoming.CollectionID)
	overwrite(&existing.Seller, incoming.Seller)
	overwrite(&existing.Price, incoming.Price)
	overwrite(&existing.TokenAmount, incoming.TokenAmount)
	overwrite(&existing.TokenName, incoming.TokenName)
	overwrite(&existing.ExpirationTime, incoming.ExpirationTime)
	existing.StandardEventType = incoming.StandardEventType
	existing.LastTransactionVersion = incoming.LastTransactionVersion
	existing.LastTransactionTimestamp = incoming.LastTransactionTimestamp
}

func (r *Round) foldCollectionBid(incoming *schema.CurrentNftMarketplaceCollectionOffer) {
	id := collectionBidID(incoming)
	if id == "" {
		return
	}
	key := bidKey{marketplace: incoming.Marketplace, contract: incoming.ContractAddress, bidID: id}

	existing, ok := r.collectionBids.get(key)
	if !ok {
		cp := *incoming
		r.collectionBids.put(key, &cp)
		return
	}

	applyTransitions(bidState{
		status:       &existing.Status,
		createdTxID:  &existing.CreatedTxID,
		acceptedTxID: &existing.AcceptedTxID,
		canceledTxID: &existing.CanceledTxID,
		isDeleted:    &existing.IsDeleted,
	}, incoming.CreatedTxID, incoming.AcceptedTxID, incoming.CanceledTxID)

	overwrite(&existing.CollectionID, incoming.CollectionID)
	overwrite(&existing.TokenDataID, incoming.TokenDataID)
	overwrite(&existing.Buyer, incoming.Buyer)
	overwrite(&existing.Seller, incoming.Seller)
	overwrite(&existing.Price, incoming.Price)
	overwrite(&existing.TokenAmount, incoming.TokenAmount)
	overwrite(&existing.RemainingTokenAmount, incoming.RemainingTokenAmount)
	overwrite(&existing.ExpirationTime, incoming.ExpirationTime)
	existing.StandardEventType = incoming.StandardEventType
	existing.LastTransactionVersion = incoming.LastTransactionVersion
	existing.LastTransactionTimestamp = incoming.LastTransactionTimestamp
}

func overwrite[T any](dst **T, src *T) {
	if src != nil {
		*dst = src
	}
}

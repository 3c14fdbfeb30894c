package remapper

import (
	"github.com/shopspring/decimal"

	"github.com/feral-file/ff-marketplace-indexer/internal/domain"
	"github.com/feral-file/ff-marketplace-indexer/internal/store/schema"
)

// FieldID identifies a canonical column that path extraction can populate
type FieldID int

const (
	FieldUnknown FieldID = iota
	FieldTokenDataID
	FieldCollectionID
	FieldCollectionName
	FieldCreatorAddress
	FieldTokenName
	FieldPrice
	FieldTokenAmount
	FieldBuyer
	FieldSeller
	FieldListingID
	FieldOfferID
	FieldCollectionOfferID
	FieldExpirationTime
	FieldRemainingTokenAmount
)

var columnFields = map[string]FieldID{
	"token_data_id":          FieldTokenDataID,
	"collection_id":          FieldCollectionID,
	"collection_name":        FieldCollectionName,
	"creator_address":        FieldCreatorAddress,
	"token_name":             FieldTokenName,
	"price":                  FieldPrice,
	"token_amount":           FieldTokenAmount,
	"buyer":                  FieldBuyer,
	"seller":                 FieldSeller,
	"listing_id":             FieldListingID,
	"offer_id":               FieldOfferID,
	"collection_offer_id":    FieldCollectionOfferID,
	"expiration_time":        FieldExpirationTime,
	"remaining_token_amount": FieldRemainingTokenAmount,
}

// ParseFieldID resolves a column name to its FieldID
func ParseFieldID(column string) FieldID {
	return columnFields[column]
}

// sharedFields are copied between an activity and its secondary draft when one side lacks them
var sharedFields = []FieldID{
	FieldTokenDataID,
	FieldCollectionID,
	FieldTokenName,
	FieldPrice,
	FieldTokenAmount,
	FieldBuyer,
	FieldSeller,
	FieldListingID,
	FieldOfferID,
	FieldCollectionOfferID,
	FieldExpirationTime,
}

// FieldSetter provides column access by FieldID.
// SetField reports false when the model has no such field or the value cannot be parsed.
type FieldSetter interface {
	SetField(id FieldID, value string) bool
	GetField(id FieldID) (string, bool)
}

// SecondaryModel is a current-state draft produced alongside an activity
type SecondaryModel struct {
	Kind          domain.SecondaryKind
	Listing       *schema.CurrentNftMarketplaceListing
	TokenBid      *schema.CurrentNftMarketplaceTokenOffer
	CollectionBid *schema.CurrentNftMarketplaceCollectionOffer
}

func (m *SecondaryModel) setter() FieldSetter {
	switch m.Kind {
	case domain.SecondaryListing:
		return listingDraft{m.Listing}
	case domain.SecondaryTokenBid:
		return tokenBidDraft{m.TokenBid}
	case domain.SecondaryCollectionBid:
		return collectionBidDraft{m.CollectionBid}
	default:
		return nil
	}
}

func (m *SecondaryModel) SetField(id FieldID, value string) bool {
	s := m.setter()
	if s == nil {
		return false
	}
	return s.SetField(id, value)
}

func (m *SecondaryModel) GetField(id FieldID) (string, bool) {
	s := m.setter()
	if s == nil {
		return "", false
	}
	return s.GetField(id)
}

// Valid reports whether the draft carries its natural key
func (m *SecondaryModel) Valid() bool {
	switch m.Kind {
	case domain.SecondaryListing:
		return m.Listing != nil && m.Listing.TokenDataID != ""
	case domain.SecondaryTokenBid:
		return m.TokenBid != nil && m.TokenBid.TokenDataID != "" && m.TokenBid.Buyer != ""
	case domain.SecondaryCollectionBid:
		return m.CollectionBid != nil && m.CollectionBid.CollectionOfferID != ""
	default:
		return false
	}
}

// activityDraft exposes NftMarketplaceActivity columns by FieldID
type activityDraft struct {
	*schema.NftMarketplaceActivity
}

func (d activityDraft) SetField(id FieldID, value string) bool {
	a := d.NftMarketplaceActivity
	switch id {
	case FieldTokenDataID:
		a.TokenDataID = addressPtr(value)
	case FieldCollectionID:
		a.CollectionID = addressPtr(value)
	case FieldCollectionName:
		a.CollectionName = &value
	case FieldCreatorAddress:
		a.CreatorAddress = addressPtr(value)
	case FieldTokenName:
		a.TokenName = &value
	case FieldPrice:
		return setDecimal(&a.Price, value)
	case FieldTokenAmount:
		return setDecimal(&a.TokenAmount, value)
	case FieldBuyer:
		a.Buyer = addressPtr(value)
	case FieldSeller:
		a.Seller = addressPtr(value)
	case FieldListingID:
		a.ListingID = &value
	case FieldOfferID:
		a.OfferID = &value
	case FieldCollectionOfferID:
		a.CollectionOfferID = &value
	case FieldExpirationTime:
		return setDecimal(&a.ExpirationTime, value)
	default:
		return false
	}
	return true
}

func (d activityDraft) GetField(id FieldID) (string, bool) {
	a := d.NftMarketplaceActivity
	switch id {
	case FieldTokenDataID:
		return deref(a.TokenDataID)
	case FieldCollectionID:
		return deref(a.CollectionID)
	case FieldCollectionName:
		return deref(a.CollectionName)
	case FieldCreatorAddress:
		return deref(a.CreatorAddress)
	case FieldTokenName:
		return deref(a.TokenName)
	case FieldPrice:
		return derefDecimal(a.Price)
	case FieldTokenAmount:
		return derefDecimal(a.TokenAmount)
	case FieldBuyer:
		return deref(a.Buyer)
	case FieldSeller:
		return deref(a.Seller)
	case FieldListingID:
		return deref(a.ListingID)
	case FieldOfferID:
		return deref(a.OfferID)
	case FieldCollectionOfferID:
		return deref(a.CollectionOfferID)
	case FieldExpirationTime:
		return derefDecimal(a.ExpirationTime)
	default:
		return "", false
	}
}

type listingDraft struct {
	*schema.CurrentNftMarketplaceListing
}

func (d listingDraft) SetField(id FieldID, value string) bool {
	l := d.CurrentNftMarketplaceListing
	switch id {
	case FieldTokenDataID:
		l.TokenDataID = domain.StandardizeAddress(value)
	case FieldCollectionID:
		l.CollectionID = addressPtr(value)
	case FieldTokenName:
		l.TokenName = &value
	case FieldPrice:
		return setDecimal(&l.Price, value)
	case FieldTokenAmount:
		return setDecimal(&l.TokenAmount, value)
	case FieldSeller:
		l.Seller = addressPtr(value)
	case FieldListingID:
		l.ListingID = &value
	default:
		return false
	}
	return true
}

func (d listingDraft) GetField(id FieldID) (string, bool) {
	l := d.CurrentNftMarketplaceListing
	switch id {
	case FieldTokenDataID:
		return l.TokenDataID, l.TokenDataID != ""
	case FieldCollectionID:
		return deref(l.CollectionID)
	case FieldTokenName:
		return deref(l.TokenName)
	case FieldPrice:
		return derefDecimal(l.Price)
	case FieldTokenAmount:
		return derefDecimal(l.TokenAmount)
	case FieldSeller:
		return deref(l.Seller)
	case FieldListingID:
		return deref(l.ListingID)
	default:
		return "", false
	}
}

type tokenBidDraft struct {
	*schema.CurrentNftMarketplaceTokenOffer
}

func (d tokenBidDraft) SetField(id FieldID, value string) bool {
	b := d.CurrentNftMarketplaceTokenOffer
	switch id {
	case FieldTokenDataID:
		b.TokenDataID = domain.StandardizeAddress(value)
	case FieldCollectionID:
		b.CollectionID = addressPtr(value)
	case FieldTokenName:
		b.TokenName = &value
	case FieldPrice:
		return setDecimal(&b.Price, value)
	case FieldTokenAmount:
		return setDecimal(&b.TokenAmount, value)
	case FieldBuyer:
		b.Buyer = domain.StandardizeAddress(value)
	case FieldSeller:
		b.Seller = addressPtr(value)
	case FieldOfferID:
		b.OfferID = &value
	case FieldExpirationTime:
		return setDecimal(&b.ExpirationTime, value)
	default:
		return false
	}
	return true
}

func (d tokenBidDraft) GetField(id FieldID) (string, bool) {
	b := d.CurrentNftMarketplaceTokenOffer
	switch id {
	case FieldTokenDataID:
		return b.TokenDataID, b.TokenDataID != ""
	case FieldCollectionID:
		return deref(b.CollectionID)
	case FieldTokenName:
		return deref(b.TokenName)
	case FieldPrice:
		return derefDecimal(b.Price)
	case FieldTokenAmount:
		return derefDecimal(b.TokenAmount)
	case FieldBuyer:
		return b.Buyer, b.Buyer != ""
	case FieldSeller:
		return deref(b.Seller)
	case FieldOfferID:
		return deref(b.OfferID)
	case FieldExpirationTime:
		return derefDecimal(b.ExpirationTime)
	default:
		return "", false
	}
}

type collectionBidDraft struct {
	*schema.CurrentNftMarketplaceCollectionOffer
}

func (d collectionBidDraft) SetField(id FieldID, value string) bool {
	b := d.CurrentNftMarketplaceCollectionOffer
	switch id {
	case FieldCollectionOfferID:
		b.CollectionOfferID = value
	case FieldCollectionID:
		b.CollectionID = addressPtr(value)
	case FieldTokenDataID:
		b.TokenDataID = addressPtr(value)
	case FieldPrice:
		return setDecimal(&b.Price, value)
	case FieldTokenAmount:
		return setDecimal(&b.TokenAmount, value)
	case FieldRemainingTokenAmount:
		return setDecimal(&b.RemainingTokenAmount, value)
	case FieldBuyer:
		b.Buyer = addressPtr(value)
	case FieldSeller:
		b.Seller = addressPtr(value)
	case FieldExpirationTime:
		return setDecimal(&b.ExpirationTime, value)
	default:
		return false
	}
	return true
}

func (d collectionBidDraft) GetField(id FieldID) (string, bool) {
	b := d.CurrentNftMarketplaceCollectionOffer
	switch id {
	case FieldCollectionOfferID:
		return b.CollectionOfferID, b.CollectionOfferID != ""
	case FieldCollectionID:
		return deref(b.CollectionID)
	case FieldTokenDataID:
		return deref(b.TokenDataID)
	case FieldPrice:
		return derefDecimal(b.Price)
	case FieldTokenAmount:
		return derefDecimal(b.TokenAmount)
	case FieldRemainingTokenAmount:
		return derefDecimal(b.RemainingTokenAmount)
	case FieldBuyer:
		return deref(b.Buyer)
	case FieldSeller:
		return deref(b.Seller)
	case FieldExpirationTime:
		return derefDecimal(b.ExpirationTime)
	default:
		return "", false
	}
}

// newSecondaryModel seeds a draft for the event type with stream and transaction context
func newSecondaryModel(kind domain.SecondaryKind, eventType domain.MarketplaceEventType, marketplace, contract string, txn *domain.Transaction, eventIndex int) *SecondaryModel {
	version := int64(txn.Version) //nolint:gosec,G115
	txID := txn.Hash

	switch kind {
	case domain.SecondaryListing:
		listed, _ := eventType.Listed()
		txIndex := domain.TxIndex(txn.Version, eventIndex)
		return &SecondaryModel{Kind: kind, Listing: &schema.CurrentNftMarketplaceListing{
			Marketplace:              marketplace,
			ContractAddress:          contract,
			StandardEventType:        eventType,
			Listed:                   listed,
			IsDeleted:                !listed,
			LastTransactionID:        txID,
			LastTransactionVersion:   version,
			LastTransactionTimestamp: txn.Timestamp,
			TxIndex:                  &txIndex,
		}}
	case domain.SecondaryTokenBid:
		b := &schema.CurrentNftMarketplaceTokenOffer{
			Marketplace:              marketplace,
			ContractAddress:          contract,
			StandardEventType:        eventType,
			Status:                   eventType.BidStatus(),
			IsDeleted:                eventType.BidStatus() != domain.BidStatusActive,
			LastTransactionVersion:   version,
			LastTransactionTimestamp: txn.Timestamp,
		}
		b.CreatedTxID, b.AcceptedTxID, b.CanceledTxID = bidTxIDs(eventType, txID)
		return &SecondaryModel{Kind: kind, TokenBid: b}
	case domain.SecondaryCollectionBid:
		b := &schema.CurrentNftMarketplaceCollectionOffer{
			Marketplace:              marketplace,
			ContractAddress:          contract,
			StandardEventType:        eventType,
			Status:                   eventType.BidStatus(),
			IsDeleted:                eventType.BidStatus() != domain.BidStatusActive,
			LastTransactionVersion:   version,
			LastTransactionTimestamp: txn.Timestamp,
		}
		b.CreatedTxID, b.AcceptedTxID, b.CanceledTxID = bidTxIDs(eventType, txID)
		return &SecondaryModel{Kind: kind, CollectionBid: b}
	default:
		return nil
	}
}

// bidTxIDs returns the created, accepted and canceled transaction ids implied by a bid event
func bidTxIDs(eventType domain.MarketplaceEventType, txID string) (*string, *string, *string) {
	switch eventType.BidStatus() {
	case domain.BidStatusMatched:
		return nil, &txID, nil
	case domain.BidStatusCancelled:
		return nil, nil, &txID
	default:
		return &txID, nil, nil
	}
}

func addressPtr(v string) *string {
	s := domain.StandardizeAddress(v)
	return &s
}

func setDecimal(dst **decimal.Decimal, value string) bool {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return false
	}
	*dst = &d
	return true
}

func deref(s *string) (string, bool) {
	if s == nil || *s == "" {
		return "", false
	}
	return *s, true
}

func derefDecimal(d *decimal.Decimal) (string, bool) {
	if d == nil {
		return "", false
	}
	return d.String(), true
}

func stringPtr(v string) *string {
	return &v
}

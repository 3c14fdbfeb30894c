package domain

import "strings"

// MarketplaceEventType is the canonical activity type an event is mapped to
type MarketplaceEventType string

const (
	EventTypeList                MarketplaceEventType = "place_listing"
	EventTypeUnlist              MarketplaceEventType = "cancel_listing"
	EventTypeBuy                 MarketplaceEventType = "fill_listing"
	EventTypeSoloBid             MarketplaceEventType = "place_token_offer"
	EventTypeUnlistBid           MarketplaceEventType = "cancel_token_offer"
	EventTypeAcceptBid           MarketplaceEventType = "fill_token_offer"
	EventTypeCollectionBid       MarketplaceEventType = "place_collection_offer"
	EventTypeCancelCollectionBid MarketplaceEventType = "cancel_collection_offer"
	EventTypeAcceptCollectionBid MarketplaceEventType = "fill_collection_offer"
	EventTypeMint                MarketplaceEventType = "mint"
	EventTypeBurn                MarketplaceEventType = "burn"
	EventTypeTransfer            MarketplaceEventType = "transfer"
	EventTypeUnknown             MarketplaceEventType = "unknown"
)

var eventTypeAliases = map[string]MarketplaceEventType{
	"list":                    EventTypeList,
	"unlist":                  EventTypeUnlist,
	"buy":                     EventTypeBuy,
	"solobid":                 EventTypeSoloBid,
	"unlistbid":               EventTypeUnlistBid,
	"acceptbid":               EventTypeAcceptBid,
	"collectionbid":           EventTypeCollectionBid,
	"cancelcollectionbid":     EventTypeCancelCollectionBid,
	"acceptcollectionbid":     EventTypeAcceptCollectionBid,
	"mint":                    EventTypeMint,
	"burn":                    EventTypeBurn,
	"transfer":                EventTypeTransfer,
	"place_listing":           EventTypeList,
	"cancel_listing":          EventTypeUnlist,
	"fill_listing":            EventTypeBuy,
	"place_token_offer":       EventTypeSoloBid,
	"cancel_token_offer":      EventTypeUnlistBid,
	"fill_token_offer":        EventTypeAcceptBid,
	"place_collection_offer":  EventTypeCollectionBid,
	"cancel_collection_offer": EventTypeCancelCollectionBid,
	"fill_collection_offer":   EventTypeAcceptCollectionBid,
}

// ParseMarketplaceEventType converts a configured event type name to its canonical value.
// Both the canonical snake_case values and the short names (List, SoloBid, ...) are accepted.
func ParseMarketplaceEventType(s string) MarketplaceEventType {
	if t, ok := eventTypeAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return t
	}
	return EventTypeUnknown
}

// SecondaryKind identifies which current-state model an activity type feeds
type SecondaryKind int

const (
	SecondaryNone SecondaryKind = iota
	SecondaryListing
	SecondaryTokenBid
	SecondaryCollectionBid
)

func (k SecondaryKind) String() string {
	switch k {
	case SecondaryListing:
		return "listing"
	case SecondaryTokenBid:
		return "token_bid"
	case SecondaryCollectionBid:
		return "collection_bid"
	default:
		return "none"
	}
}

// SecondaryKind returns the current-state model produced by this event type
func (t MarketplaceEventType) SecondaryKind() SecondaryKind {
	switch t {
	case EventTypeList, EventTypeUnlist, EventTypeBuy:
		return SecondaryListing
	case EventTypeSoloBid, EventTypeUnlistBid, EventTypeAcceptBid:
		return SecondaryTokenBid
	case EventTypeCollectionBid, EventTypeCancelCollectionBid, EventTypeAcceptCollectionBid:
		return SecondaryCollectionBid
	default:
		return SecondaryNone
	}
}

// IsTokenStandard reports whether the type is one of the token-standard activity types
func (t MarketplaceEventType) IsTokenStandard() bool {
	return t == EventTypeMint || t == EventTypeBurn || t == EventTypeTransfer
}

// Listed returns the listed flag implied by a listing event type.
// The second value is false when the type does not determine a listing status.
func (t MarketplaceEventType) Listed() (bool, bool) {
	switch t {
	case EventTypeList:
		return true, true
	case EventTypeUnlist, EventTypeBuy:
		return false, true
	default:
		return false, false
	}
}

// BidStatus is the lifecycle status of a token or collection bid
type BidStatus string

const (
	BidStatusActive    BidStatus = "active"
	BidStatusMatched   BidStatus = "matched"
	BidStatusCancelled BidStatus = "cancelled"
)

// BidStatus returns the bid status implied by a bid event type
func (t MarketplaceEventType) BidStatus() BidStatus {
	switch t {
	case EventTypeAcceptBid, EventTypeAcceptCollectionBid:
		return BidStatusMatched
	case EventTypeUnlistBid, EventTypeCancelCollectionBid:
		return BidStatusCancelled
	default:
		return BidStatusActive
	}
}

package domain

import (
	"fmt"
	"strings"
	"time"
)

// TokenStandard represents the Move token standard an NFT was minted under
type TokenStandard string

const (
	TokenStandardV1 TokenStandard = "v1"
	TokenStandardV2 TokenStandard = "v2"
)

// ActivityMessage represents a persisted marketplace activity
// This is the standard format published to NATS
type ActivityMessage struct {
	Marketplace       string               `json:"marketplace"`
	ContractAddress   string               `json:"contract_address"`
	StandardEventType MarketplaceEventType `json:"standard_event_type"`
	RawEventType      string               `json:"raw_event_type"`
	TxnVersion        uint64               `json:"txn_version"`
	EventIndex        int                  `json:"event_index"`
	TokenDataID       *string              `json:"token_data_id,omitempty"`
	CollectionID      *string              `json:"collection_id,omitempty"`
	Price             *string              `json:"price,omitempty"`  // decimal string in octas
	Buyer             *string              `json:"buyer,omitempty"`  // nil unless the event has a buyer
	Seller            *string              `json:"seller,omitempty"` // nil unless the event has a seller
	BlockTimestamp    time.Time            `json:"block_timestamp"`
}

// Valid checks that the message identifies an activity and carries a known event type
func (m *ActivityMessage) Valid() bool {
	if m.Marketplace == "" || m.TxnVersion == 0 && m.EventIndex == 0 && m.RawEventType == "" {
		return false
	}
	return m.StandardEventType != EventTypeUnknown && m.StandardEventType != ""
}

// Subject returns the NATS subject the message is published on
func (m *ActivityMessage) Subject(prefix string) string {
	return fmt.Sprintf("%s.%s.%s", prefix, SubjectToken(m.Marketplace), m.StandardEventType)
}

// SubjectToken sanitizes a value for use as a single NATS subject token
func SubjectToken(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Map(func(r rune) rune {
		switch r {
		case '.', '*', '>', ' ', '\t':
			return '_'
		}
		return r
	}, s)
}

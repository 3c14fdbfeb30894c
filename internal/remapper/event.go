package remapper

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/feral-file/ff-marketplace-indexer/internal/adapter"
	"github.com/feral-file/ff-marketplace-indexer/internal/domain"
	"github.com/feral-file/ff-marketplace-indexer/internal/jsonpath"
	"github.com/feral-file/ff-marketplace-indexer/internal/logger"
	"github.com/feral-file/ff-marketplace-indexer/internal/store/schema"
)

// Result is everything derived from one transaction for one marketplace stream
type Result struct {
	TxnVersion     uint64
	TxnTimestamp   time.Time
	Activities     []*schema.NftMarketplaceActivity
	Listings       []*schema.CurrentNftMarketplaceListing
	TokenBids      []*schema.CurrentNftMarketplaceTokenOffer
	CollectionBids []*schema.CurrentNftMarketplaceCollectionOffer
	Collections    []*schema.Collection
	Nfts           []*schema.Nft
	Commissions    []*schema.Commission
	Contracts      []*schema.Contract
	Resources      *ResourceState
}

// Empty reports whether the result carries no records
func (r *Result) Empty() bool {
	return len(r.Activities) == 0 && len(r.Listings) == 0 && len(r.TokenBids) == 0 &&
		len(r.CollectionBids) == 0 && len(r.Collections) == 0 && len(r.Nfts) == 0 &&
		len(r.Commissions) == 0 && len(r.Contracts) == 0
}

// Remapper converts raw transactions into canonical records for one marketplace
type Remapper struct {
	mapping   *EventMapping
	resources *ResourceRemapper
	jcs       adapter.JCS
}

// NewRemapper creates a remapper for a compiled marketplace mapping
func NewRemapper(mapping *EventMapping, jcs adapter.JCS) *Remapper {
	return &Remapper{
		mapping:   mapping,
		resources: NewResourceRemapper(),
		jcs:       jcs,
	}
}

// Marketplace returns the marketplace name the remapper emits records for
func (r *Remapper) Marketplace() string {
	return r.mapping.Marketplace
}

// ContractAddress returns the marketplace contract address
func (r *Remapper) ContractAddress() string {
	return r.mapping.ContractAddress
}

// txnContext is the per-transaction scratch space shared by event handlers
type txnContext struct {
	txn       *domain.Transaction
	resources *ResourceState
	entities  *entitySet
	result    *Result
	// actions indexes canonical activities by "<address>::<verb>" so later events can patch them
	actions map[string]*schema.NftMarketplaceActivity
	// withdrawals holds the sender of v1 withdrawals awaiting a deposit
	withdrawals map[string]string
}

// Remap derives activities, secondary models and entities from a transaction.
// Transactions that do not touch the marketplace contract yield an empty result.
// It returns domain.ErrMalformedEvent when a handled event's payload is not valid JSON.
func (r *Remapper) Remap(ctx context.Context, txn *domain.Transaction) (*Result, error) {
	res := &Result{TxnVersion: txn.Version, TxnTimestamp: txn.Timestamp}
	if txn.Info == nil {
		return res, nil
	}
	if !r.mapping.Touches(txn) {
		return res, nil
	}

	tc := &txnContext{
		txn:         txn,
		resources:   r.resources.Remap(txn),
		entities:    newEntitySet(),
		result:      res,
		actions:     make(map[string]*schema.NftMarketplaceActivity),
		withdrawals: make(map[string]string),
	}
	res.Resources = tc.resources
	tc.resources.entities(txn, tc.entities)

	for i := range txn.Events {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		ev := &txn.Events[i]
		eventType := domain.StandardizeType(ev.Type)

		if handler, ok := tokenHandlers[eventType]; ok {
			data, err := r.parse(txn, ev)
			if err != nil {
				return nil, err
			}
			handler(r, tc, ev, data)
			continue
		}

		em, ok := r.mapping.lookup(eventType)
		if !ok {
			logger.Debug("Dropping unmapped event",
				zap.String("marketplace", r.mapping.Marketplace),
				zap.Uint64("version", txn.Version),
				zap.String("eventType", ev.Type))
			continue
		}

		data, err := r.parse(txn, ev)
		if err != nil {
			return nil, err
		}
		if err := r.remapEvent(tc, ev, em, data); err != nil {
			return nil, err
		}
	}

	tc.entities.flush(res)
	return res, nil
}

func (r *Remapper) parse(txn *domain.Transaction, ev *domain.Event) (any, error) {
	data, err := jsonpath.Parse(ev.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: version %d event %d (%s): %w", domain.ErrMalformedEvent, txn.Version, ev.Index, ev.Type, err)
	}
	return data, nil
}

// remapEvent applies the configured path remappings of a marketplace event
func (r *Remapper) remapEvent(tc *txnContext, ev *domain.Event, em *eventMapping, data any) error {
	activity, err := r.newActivity(tc.txn, ev, em.standard)
	if err != nil {
		return err
	}
	act := activityDraft{activity}

	kind := em.standard.SecondaryKind()
	secondary := newSecondaryModel(kind, em.standard, r.mapping.Marketplace, r.mapping.ContractAddress, tc.txn, ev.Index)

	for _, path := range em.paths {
		value, ok := path.Extract(data)
		if !ok {
			logger.Debug("Path not found in event",
				zap.String("marketplace", r.mapping.Marketplace),
				zap.Uint64("version", tc.txn.Version),
				zap.String("eventType", ev.Type),
				zap.String("path", path.String()))
			continue
		}

		for _, target := range em.targets[path.String()] {
			var setter FieldSetter
			switch {
			case target.table == TableActivities:
				setter = act
			case secondary != nil && target.table.secondaryKind() == kind:
				setter = secondary
			default:
				logger.Debug("Remapping target has no draft for this event",
					zap.String("eventType", ev.Type),
					zap.String("table", string(target.table)))
				continue
			}
			if !setter.SetField(target.field, value.String()) {
				logger.Warn("Skipping value that cannot be set",
					zap.String("marketplace", r.mapping.Marketplace),
					zap.Uint64("version", tc.txn.Version),
					zap.String("eventType", ev.Type),
					zap.String("table", string(target.table)),
					zap.String("column", columnName(target.field)),
					zap.String("value", value.String()))
			}
		}
	}

	if secondary != nil {
		shareFields(act, secondary)
	}
	synthesizeKeys(act, secondary)

	tc.result.Activities = append(tc.result.Activities, activity)

	if secondary == nil {
		return nil
	}
	if !secondary.Valid() {
		logger.Debug("Dropping secondary model without natural key",
			zap.String("marketplace", r.mapping.Marketplace),
			zap.Uint64("version", tc.txn.Version),
			zap.String("eventType", ev.Type),
			zap.String("kind", secondary.Kind.String()))
		return nil
	}

	switch secondary.Kind {
	case domain.SecondaryListing:
		tc.result.Listings = append(tc.result.Listings, secondary.Listing)
	case domain.SecondaryTokenBid:
		tc.result.TokenBids = append(tc.result.TokenBids, secondary.TokenBid)
	case domain.SecondaryCollectionBid:
		tc.result.CollectionBids = append(tc.result.CollectionBids, secondary.CollectionBid)
	}
	return nil
}

// newActivity seeds an activity with the transaction and stream context
func (r *Remapper) newActivity(txn *domain.Transaction, ev *domain.Event, standard domain.MarketplaceEventType) (*schema.NftMarketplaceActivity, error) {
	canonical, err := r.jcs.Transform(ev.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: version %d event %d (%s): %w", domain.ErrMalformedEvent, txn.Version, ev.Index, ev.Type, err)
	}

	return &schema.NftMarketplaceActivity{
		TxnVersion:        int64(txn.Version), //nolint:gosec,G115
		EventIndex:        int64(ev.Index),
		Marketplace:       r.mapping.Marketplace,
		TxnID:             txn.Hash,
		ContractAddress:   r.mapping.ContractAddress,
		RawEventType:      ev.Type,
		StandardEventType: standard,
		BlockTimestamp:    txn.Timestamp,
		BlockHeight:       int64(txn.BlockHeight), //nolint:gosec,G115
		JSONData:          datatypes.JSON(canonical),
	}, nil
}

// shareFields fills fields missing on one side from the other
func shareFields(a, b FieldSetter) {
	for _, id := range sharedFields {
		av, aok := a.GetField(id)
		bv, bok := b.GetField(id)
		switch {
		case aok && !bok:
			b.SetField(id, av)
		case bok && !aok:
			a.SetField(id, bv)
		}
	}
}

// synthesizeKeys derives missing natural keys from creator, collection and token names
func synthesizeKeys(act activityDraft, secondary *SecondaryModel) {
	creator, hasCreator := act.GetField(FieldCreatorAddress)
	collection, hasCollection := act.GetField(FieldCollectionName)

	setBoth := func(id FieldID, value string) {
		if _, ok := act.GetField(id); !ok {
			act.SetField(id, value)
		}
		if secondary != nil {
			if _, ok := secondary.GetField(id); !ok {
				secondary.SetField(id, value)
			}
		}
	}

	if hasCreator && hasCollection {
		collectionID := domain.SynthesizeCollectionID(creator, collection)
		setBoth(FieldCollectionID, collectionID)

		if token, ok := act.GetField(FieldTokenName); ok {
			setBoth(FieldTokenDataID, domain.SynthesizeTokenDataID(creator, collection, token))
		}
	}

	if secondary != nil && secondary.Kind == domain.SecondaryCollectionBid {
		if _, ok := secondary.GetField(FieldCollectionOfferID); !ok {
			if offerID, ok := act.GetField(FieldOfferID); ok {
				setBoth(FieldCollectionOfferID, offerID)
			}
		}
	}
}

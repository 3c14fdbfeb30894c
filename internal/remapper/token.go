package remapper

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/feral-file/ff-marketplace-indexer/internal/domain"
	"github.com/feral-file/ff-marketplace-indexer/internal/jsonpath"
	"github.com/feral-file/ff-marketplace-indexer/internal/logger"
	"github.com/feral-file/ff-marketplace-indexer/internal/store/schema"
)

var oneToken = decimal.NewFromInt(1)

type tokenHandler func(r *Remapper, tc *txnContext, ev *domain.Event, data any)

// tokenHandlers dispatches token-standard events by standardized move type
var tokenHandlers = map[string]tokenHandler{}

func init() {
	register := func(h tokenHandler, types ...string) {
		for _, t := range types {
			tokenHandlers[domain.StandardizeType(t)] = h
		}
	}

	register(handleV1CreateCollection, domain.TokenV1CreateCollectionEvent, domain.TokenV1CreateCollection)
	register(handleV1CreateTokenData, domain.TokenV1CreateTokenDataEvent, domain.TokenV1CreateTokenData)
	register(handleV1Mint, domain.TokenV1MintTokenEvent, domain.TokenV1Mint)
	register(handleV1Burn, domain.TokenV1BurnTokenEvent, domain.TokenV1Burn)
	register(handleV1Deposit, domain.TokenV1DepositEvent, domain.TokenV1Deposit)
	register(handleV1Withdraw, domain.TokenV1WithdrawEvent, domain.TokenV1Withdraw)
	register(handleV2Mint, domain.TokenV2MintEvent, domain.TokenV2Mint)
	register(handleV2Burn, domain.TokenV2BurnEvent, domain.TokenV2Burn)
	register(handleTransfer, domain.ObjectTransferEvent, domain.ObjectTransfer)
}

var (
	pathCollectionName = jsonpath.MustCompile("$.collection_name")
	pathMaximum        = jsonpath.MustCompile("$.maximum")
	pathAmount         = jsonpath.MustCompile("$.amount")
	pathAccount        = jsonpath.MustCompile("$.account")

	// v1 token data id, either directly under id or nested in a token id
	pathDataIDCreator     = jsonpath.MustCompile("$.id.creator")
	pathDataIDCollection  = jsonpath.MustCompile("$.id.collection")
	pathDataIDName        = jsonpath.MustCompile("$.id.name")
	pathTokenIDCreator    = jsonpath.MustCompile("$.id.token_data_id.creator")
	pathTokenIDCollection = jsonpath.MustCompile("$.id.token_data_id.collection")
	pathTokenIDName       = jsonpath.MustCompile("$.id.token_data_id.name")

	pathRoyaltyPayee       = jsonpath.MustCompile("$.royalty_payee_address")
	pathRoyaltyNumerator   = jsonpath.MustCompile("$.royalty_points_numerator")
	pathRoyaltyDenominator = jsonpath.MustCompile("$.royalty_points_denominator")

	pathV2Collection    = jsonpath.MustCompile("$.collection")
	pathV2Token         = jsonpath.MustCompile("$.token")
	pathV2PreviousOwner = jsonpath.MustCompile("$.previous_owner")
	pathObject          = jsonpath.MustCompile("$.object")
	pathFrom            = jsonpath.MustCompile("$.from")
	pathTo              = jsonpath.MustCompile("$.to")
)

// v1TokenDataID identifies a v1 token by creator, collection and name
type v1TokenDataID struct {
	creator, collection, name string
}

func (id v1TokenDataID) valid() bool {
	return id.creator != "" && id.collection != "" && id.name != ""
}

func (id v1TokenDataID) tokenDataID() string {
	return domain.SynthesizeTokenDataID(id.creator, id.collection, id.name)
}

func (id v1TokenDataID) collectionID() string {
	return domain.SynthesizeCollectionID(id.creator, id.collection)
}

func parseV1TokenDataID(data any) v1TokenDataID {
	id := v1TokenDataID{
		creator:    str(pathTokenIDCreator, data),
		collection: str(pathTokenIDCollection, data),
		name:       str(pathTokenIDName, data),
	}
	if id.valid() {
		id.creator = domain.StandardizeAddress(id.creator)
		return id
	}
	id = v1TokenDataID{
		creator:    domain.StandardizeAddress(str(pathDataIDCreator, data)),
		collection: str(pathDataIDCollection, data),
		name:       str(pathDataIDName, data),
	}
	return id
}

// eventAccount returns the account of a v1 event: the module event field, else the handle owner
func eventAccount(ev *domain.Event, data any) string {
	if account := str(pathAccount, data); account != "" {
		return domain.StandardizeAddress(account)
	}
	if ev.AccountAddress != "" {
		return domain.StandardizeAddress(ev.AccountAddress)
	}
	return ""
}

// canonicalActivity emits (or returns the already emitted) token-standard activity for key
func (r *Remapper) canonicalActivity(tc *txnContext, ev *domain.Event, eventType domain.MarketplaceEventType, key string) *schema.NftMarketplaceActivity {
	if existing, ok := tc.actions[key]; ok {
		return existing
	}
	activity, err := r.newActivity(tc.txn, ev, eventType)
	if err != nil {
		// the payload was already parsed as JSON, so canonicalization only fails on exotic input
		logger.Warn("Failed to canonicalize token event",
			zap.Uint64("version", tc.txn.Version),
			zap.String("eventType", ev.Type),
			zap.Error(err))
		return nil
	}
	tc.actions[key] = activity
	tc.result.Activities = append(tc.result.Activities, activity)
	return activity
}

func handleV1CreateCollection(_ *Remapper, tc *txnContext, _ *domain.Event, data any) {
	creator := domain.StandardizeAddress(str(pathCreator, data))
	name := str(pathCollectionName, data)
	if creator == "" || name == "" {
		logger.Debug("Skipping v1 collection without creator or name", zap.Uint64("version", tc.txn.Version))
		return
	}

	version := int64(tc.txn.Version) //nolint:gosec,G115
	col := newCollection(domain.SynthesizeCollectionID(creator, name), creator, name, domain.TokenStandardV1, version, tc.txn)
	col.Description = nonEmpty(str(pathDescription, data))
	col.URI = nonEmpty(str(pathURI, data))
	col.MaxSupply = dec(pathMaximum, data)

	contract := newContract(creator, name, nil, version)
	col.ContractID = &contract.ID
	tc.entities.putContract(contract)
	tc.entities.putCollection(col)
}

func handleV1CreateTokenData(_ *Remapper, tc *txnContext, _ *domain.Event, data any) {
	id := parseV1TokenDataID(data)
	if !id.valid() {
		logger.Debug("Skipping v1 token data without id", zap.Uint64("version", tc.txn.Version))
		return
	}

	version := int64(tc.txn.Version) //nolint:gosec,G115
	nft := newNft(id.tokenDataID(), domain.TokenStandardV1, version, tc.txn)
	nft.CollectionID = stringPtr(id.collectionID())
	nft.Name = stringPtr(id.name)
	nft.Description = nonEmpty(str(pathDescription, data))
	nft.URI = nonEmpty(str(pathURI, data))
	tc.entities.putNft(nft)

	num := dec(pathRoyaltyNumerator, data)
	den := dec(pathRoyaltyDenominator, data)
	if num != nil && den != nil && !den.IsZero() {
		payee := domain.StandardizeAddress(str(pathRoyaltyPayee, data))
		commission := newCommission(nft.TokenDataID, *num, *den, payee, version)
		tc.entities.putCommission(commission)
		tc.entities.putContract(newContract(id.creator, id.collection, &commission.ID, version))
	}
}

func handleV1Mint(r *Remapper, tc *txnContext, ev *domain.Event, data any) {
	id := parseV1TokenDataID(data)
	if !id.valid() {
		logger.Debug("Skipping v1 mint without token id", zap.Uint64("version", tc.txn.Version))
		return
	}
	tokenDataID := id.tokenDataID()

	activity := r.canonicalActivity(tc, ev, domain.EventTypeMint, tokenDataID+"::mint")
	if activity == nil {
		return
	}
	fillV1Activity(activity, id)
	activity.TokenAmount = dec(pathAmount, data)

	nft := newNft(tokenDataID, domain.TokenStandardV1, activity.TxnVersion, tc.txn)
	nft.CollectionID = stringPtr(id.collectionID())
	nft.Name = stringPtr(id.name)
	tc.entities.putNft(nft)
}

func handleV1Burn(r *Remapper, tc *txnContext, ev *domain.Event, data any) {
	id := parseV1TokenDataID(data)
	if !id.valid() {
		logger.Debug("Skipping v1 burn without token id", zap.Uint64("version", tc.txn.Version))
		return
	}
	tokenDataID := id.tokenDataID()

	activity := r.canonicalActivity(tc, ev, domain.EventTypeBurn, tokenDataID+"::burn")
	if activity == nil {
		return
	}
	fillV1Activity(activity, id)
	activity.TokenAmount = dec(pathAmount, data)
	if account := eventAccount(ev, data); account != "" {
		activity.Seller = &account
	}

	nft := newNft(tokenDataID, domain.TokenStandardV1, activity.TxnVersion, tc.txn)
	nft.Burned = true
	tc.entities.putNft(nft)
}

func handleV1Withdraw(_ *Remapper, tc *txnContext, ev *domain.Event, data any) {
	id := parseV1TokenDataID(data)
	if !id.valid() {
		return
	}
	if account := eventAccount(ev, data); account != "" {
		tc.withdrawals[id.tokenDataID()] = account
	}
}

// handleV1Deposit completes a mint in the same transaction with its receiver, or pairs a
// withdrawal into a transfer
func handleV1Deposit(r *Remapper, tc *txnContext, ev *domain.Event, data any) {
	id := parseV1TokenDataID(data)
	account := eventAccount(ev, data)
	if !id.valid() || account == "" {
		logger.Debug("Skipping v1 deposit without token id or account", zap.Uint64("version", tc.txn.Version))
		return
	}
	tokenDataID := id.tokenDataID()
	version := int64(tc.txn.Version) //nolint:gosec,G115

	if mint, ok := tc.actions[tokenDataID+"::mint"]; ok {
		mint.Buyer = &account
	} else if from, ok := tc.withdrawals[tokenDataID]; ok {
		activity := r.canonicalActivity(tc, ev, domain.EventTypeTransfer, tokenDataID+"::transfer")
		if activity == nil {
			return
		}
		fillV1Activity(activity, id)
		activity.TokenAmount = dec(pathAmount, data)
		activity.Seller = &from
		activity.Buyer = &account
		delete(tc.withdrawals, tokenDataID)
	}

	nft := newNft(tokenDataID, domain.TokenStandardV1, version, tc.txn)
	nft.Owner = &account
	tc.entities.putNft(nft)
}

func fillV1Activity(a *schema.NftMarketplaceActivity, id v1TokenDataID) {
	a.TokenDataID = stringPtr(id.tokenDataID())
	a.CollectionID = stringPtr(id.collectionID())
	a.CreatorAddress = stringPtr(id.creator)
	a.CollectionName = stringPtr(id.collection)
	a.TokenName = stringPtr(id.name)
}

// fillV2Activity copies token and collection metadata resolved from resources
func fillV2Activity(a *schema.NftMarketplaceActivity, tc *txnContext, token, collection string) {
	a.TokenDataID = stringPtr(token)
	if t, ok := tc.resources.TokenByAddress(token); ok {
		a.TokenName = nonEmpty(t.Name)
		if collection == "" {
			collection = t.Collection
		}
	}
	if collection == "" {
		return
	}
	a.CollectionID = stringPtr(collection)
	if c, ok := tc.resources.CollectionByAddress(collection); ok {
		a.CollectionName = nonEmpty(c.Name)
		a.CreatorAddress = nonEmpty(c.Creator)
	}
}

func handleV2Mint(r *Remapper, tc *txnContext, ev *domain.Event, data any) {
	token := domain.StandardizeAddress(str(pathV2Token, data))
	if token == "" {
		logger.Debug("Skipping v2 mint without token", zap.Uint64("version", tc.txn.Version))
		return
	}
	collection := str(pathV2Collection, data)
	if collection == "" {
		// handle events are emitted by the collection object
		collection = ev.AccountAddress
	}
	if collection != "" {
		collection = domain.StandardizeAddress(collection)
	}

	activity := r.canonicalActivity(tc, ev, domain.EventTypeMint, token+"::mint")
	if activity == nil {
		return
	}
	fillV2Activity(activity, tc, token, collection)
	one := oneToken
	activity.TokenAmount = &one
	if owner, ok := tc.resources.OwnerOf(token); ok {
		activity.Buyer = &owner
	}

	nft := newNft(token, domain.TokenStandardV2, activity.TxnVersion, tc.txn)
	nft.CollectionID = activity.CollectionID
	nft.Name = activity.TokenName
	nft.Owner = activity.Buyer
	tc.entities.putNft(nft)
}

func handleV2Burn(r *Remapper, tc *txnContext, ev *domain.Event, data any) {
	token := domain.StandardizeAddress(str(pathV2Token, data))
	if token == "" {
		logger.Debug("Skipping v2 burn without token", zap.Uint64("version", tc.txn.Version))
		return
	}
	collection := str(pathV2Collection, data)
	if collection == "" {
		collection = ev.AccountAddress
	}
	if collection != "" {
		collection = domain.StandardizeAddress(collection)
	}

	activity := r.canonicalActivity(tc, ev, domain.EventTypeBurn, token+"::burn")
	if activity == nil {
		return
	}
	fillV2Activity(activity, tc, token, collection)
	one := oneToken
	activity.TokenAmount = &one
	if prev := str(pathV2PreviousOwner, data); prev != "" {
		activity.Seller = stringPtr(domain.StandardizeAddress(prev))
	}

	nft := newNft(token, domain.TokenStandardV2, activity.TxnVersion, tc.txn)
	nft.CollectionID = activity.CollectionID
	nft.Burned = true
	tc.entities.putNft(nft)
}

// handleTransfer records object transfers of tokens. A transfer of a token minted in the same
// transaction completes the mint with its receiver; transfers of objects that are not known
// tokens are ignored.
func handleTransfer(r *Remapper, tc *txnContext, ev *domain.Event, data any) {
	object := domain.StandardizeAddress(str(pathObject, data))
	to := domain.StandardizeAddress(str(pathTo, data))
	from := domain.StandardizeAddress(str(pathFrom, data))
	if object == "" || to == "" {
		return
	}

	if mint, ok := tc.actions[object+"::mint"]; ok {
		mint.Buyer = &to
		if nft, ok := tc.entities.nfts[domain.EntityID(object)]; ok {
			nft.Owner = &to
		}
		return
	}

	if _, ok := tc.resources.TokenByAddress(object); !ok {
		logger.Debug("Ignoring transfer of unknown object",
			zap.Uint64("version", tc.txn.Version),
			zap.String("object", object))
		return
	}

	if existing, ok := tc.actions[object+"::transfer"]; ok {
		// keep the original sender across hops within one transaction
		existing.Buyer = &to
		if nft, ok := tc.entities.nfts[domain.EntityID(object)]; ok {
			nft.Owner = &to
		}
		return
	}

	activity := r.canonicalActivity(tc, ev, domain.EventTypeTransfer, object+"::transfer")
	if activity == nil {
		return
	}
	fillV2Activity(activity, tc, object, "")
	one := oneToken
	activity.TokenAmount = &one
	activity.Seller = &from
	activity.Buyer = &to

	nft := newNft(object, domain.TokenStandardV2, activity.TxnVersion, tc.txn)
	nft.Owner = &to
	tc.entities.putNft(nft)
}

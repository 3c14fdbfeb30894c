package remapper

import (
	"github.com/shopspring/decimal"

	"github.com/feral-file/ff-marketplace-indexer/internal/domain"
	"github.com/feral-file/ff-marketplace-indexer/internal/store/schema"
)

type typeSet struct {
	collection, concurrentSupply, fixedSupply, unlimitedSupply string
	token, tokenIdentifiers, royalty, objectCore            string
}

func (t typeSet) known(s string) bool {
	switch s {
	case t.collection, t.concurrentSupply, t.fixedSupply, t.unlimitedSupply,
		t.token, t.tokenIdentifiers, t.royalty, t.objectCore:
		return true
	}
	return false
}

var resourceTypes = typeSet{
	collection:       domain.StandardizeType(domain.ResourceCollection),
	concurrentSupply: domain.StandardizeType(domain.ResourceConcurrentSupply),
	fixedSupply:      domain.StandardizeType(domain.ResourceFixedSupply),
	unlimitedSupply:  domain.StandardizeType(domain.ResourceUnlimitedSupply),
	token:            domain.StandardizeType(domain.ResourceToken),
	tokenIdentifiers: domain.StandardizeType(domain.ResourceTokenIdentifiers),
	royalty:          domain.StandardizeType(domain.ResourceRoyalty),
	objectCore:       domain.StandardizeType(domain.ResourceObjectCore),
}

// entitySet collects derived entities of one transaction keyed by id, in first-seen order
type entitySet struct {
	collections     map[string]*schema.Collection
	collectionOrder []string
	nfts            map[string]*schema.Nft
	nftOrder        []string
	commissions     map[string]*schema.Commission
	commissionOrder []string
	contracts       map[string]*schema.Contract
	contractOrder   []string
}

func newEntitySet() *entitySet {
	return &entitySet{
		collections: make(map[string]*schema.Collection),
		nfts:        make(map[string]*schema.Nft),
		commissions: make(map[string]*schema.Commission),
		contracts:   make(map[string]*schema.Contract),
	}
}

func (e *entitySet) putCollection(c *schema.Collection) {
	if existing, ok := e.collections[c.ID]; ok {
		MergeCollection(existing, c)
		return
	}
	e.collections[c.ID] = c
	e.collectionOrder = append(e.collectionOrder, c.ID)
}

func (e *entitySet) putNft(n *schema.Nft) {
	if existing, ok := e.nfts[n.ID]; ok {
		MergeNft(existing, n)
		return
	}
	e.nfts[n.ID] = n
	e.nftOrder = append(e.nftOrder, n.ID)
}

func (e *entitySet) putCommission(c *schema.Commission) {
	if existing, ok := e.commissions[c.ID]; ok {
		MergeCommission(existing, c)
		return
	}
	e.commissions[c.ID] = c
	e.commissionOrder = append(e.commissionOrder, c.ID)
}

func (e *entitySet) putContract(c *schema.Contract) {
	if existing, ok := e.contracts[c.ID]; ok {
		MergeContract(existing, c)
		return
	}
	e.contracts[c.ID] = c
	e.contractOrder = append(e.contractOrder, c.ID)
}

// putV2Collection adds a v2 collection with its contract and collection-level royalty
func (e *entitySet) putV2Collection(c *CollectionResource, s *ResourceState, version int64, txn *domain.Transaction) {
	col := newCollection(c.Address, c.Creator, c.Name, domain.TokenStandardV2, version, txn)
	col.Description = nonEmpty(c.Description)
	col.URI = nonEmpty(c.URI)
	col.Supply, col.MaxSupply, col.TotalMinted = c.Supply, c.MaxSupply, c.TotalMinted

	var commissionID *string
	if royalty, ok := s.royalties[c.Address]; ok {
		commission := newCommission(c.Address, royalty.Numerator, royalty.Denominator, royalty.PayeeAddress, version)
		e.putCommission(commission)
		commissionID = &commission.ID
	}

	if c.Creator != "" && c.Name != "" {
		contract := newContract(c.Creator, c.Name, commissionID, version)
		e.putContract(contract)
		col.ContractID = &contract.ID
	}
	e.putCollection(col)
}

func (e *entitySet) flush(res *Result) {
	for _, id := range e.collectionOrder {
		res.Collections = append(res.Collections, e.collections[id])
	}
	for _, id := range e.nftOrder {
		res.Nfts = append(res.Nfts, e.nfts[id])
	}
	for _, id := range e.commissionOrder {
		res.Commissions = append(res.Commissions, e.commissions[id])
	}
	for _, id := range e.contractOrder {
		res.Contracts = append(res.Contracts, e.contracts[id])
	}
}

func newCollection(collectionID, creator, name string, standard domain.TokenStandard, version int64, txn *domain.Transaction) *schema.Collection {
	return &schema.Collection{
		ID:                       domain.EntityID(collectionID),
		CollectionID:             collectionID,
		CreatorAddress:           creator,
		Name:                     name,
		TokenStandard:            standard,
		LastTransactionVersion:   version,
		LastTransactionTimestamp: txn.Timestamp,
	}
}

func newNft(tokenDataID string, standard domain.TokenStandard, version int64, txn *domain.Transaction) *schema.Nft {
	return &schema.Nft{
		ID:                       domain.EntityID(tokenDataID),
		TokenDataID:              tokenDataID,
		TokenStandard:            standard,
		LastTransactionVersion:   version,
		LastTransactionTimestamp: txn.Timestamp,
	}
}

func newCommission(key string, numerator, denominator decimal.Decimal, payee string, version int64) *schema.Commission {
	c := &schema.Commission{
		ID:                     domain.EntityID("commission", key),
		Key:                    key,
		RoyaltyNumerator:       numerator,
		RoyaltyDenominator:     denominator,
		PayeeAddress:           payee,
		LastTransactionVersion: version,
	}
	if !denominator.IsZero() {
		royalty := numerator.Div(denominator)
		c.Royalty = &royalty
	}
	return c
}

func newContract(creator, name string, commissionID *string, version int64) *schema.Contract {
	key := creator + "::" + name
	return &schema.Contract{
		ID:                     domain.EntityID("contract", key),
		Key:                    key,
		Name:                   name,
		CreatorAddress:         creator,
		CommissionID:           commissionID,
		LastTransactionVersion: version,
	}
}

// MergeCollection folds src into dst. Set fields of src overwrite dst; the version only moves forward.
func MergeCollection(dst, src *schema.Collection) {
	mergeString(&dst.CreatorAddress, src.CreatorAddress)
	mergeString(&dst.Name, src.Name)
	mergePtr(&dst.Description, src.Description)
	mergePtr(&dst.URI, src.URI)
	mergePtr(&dst.Supply, src.Supply)
	mergePtr(&dst.MaxSupply, src.MaxSupply)
	mergePtr(&dst.TotalMinted, src.TotalMinted)
	mergePtr(&dst.ContractID, src.ContractID)
	if src.TokenStandard != "" {
		dst.TokenStandard = src.TokenStandard
	}
	if src.LastTransactionVersion > dst.LastTransactionVersion {
		dst.LastTransactionVersion = src.LastTransactionVersion
		dst.LastTransactionTimestamp = src.LastTransactionTimestamp
	}
}

// MergeNft folds src into dst. A newer src decides the burned flag; within one version a burn sticks.
func MergeNft(dst, src *schema.Nft) {
	mergePtr(&dst.CollectionID, src.CollectionID)
	mergePtr(&dst.Name, src.Name)
	mergePtr(&dst.URI, src.URI)
	mergePtr(&dst.Description, src.Description)
	mergePtr(&dst.Owner, src.Owner)
	if src.TokenStandard != "" {
		dst.TokenStandard = src.TokenStandard
	}
	if src.LastTransactionVersion > dst.LastTransactionVersion {
		dst.Burned = src.Burned
		dst.LastTransactionVersion = src.LastTransactionVersion
		dst.LastTransactionTimestamp = src.LastTransactionTimestamp
	} else {
		dst.Burned = dst.Burned || src.Burned
	}
}

// MergeCommission folds src into dst
func MergeCommission(dst, src *schema.Commission) {
	if src.LastTransactionVersion < dst.LastTransactionVersion {
		return
	}
	dst.RoyaltyNumerator = src.RoyaltyNumerator
	dst.RoyaltyDenominator = src.RoyaltyDenominator
	mergeString(&dst.PayeeAddress, src.PayeeAddress)
	mergePtr(&dst.Royalty, src.Royalty)
	dst.LastTransactionVersion = src.LastTransactionVersion
}

// MergeContract folds src into dst
func MergeContract(dst, src *schema.Contract) {
	mergeString(&dst.Name, src.Name)
	mergeString(&dst.CreatorAddress, src.CreatorAddress)
	mergePtr(&dst.CommissionID, src.CommissionID)
	if src.LastTransactionVersion > dst.LastTransactionVersion {
		dst.LastTransactionVersion = src.LastTransactionVersion
	}
}

func mergeString(dst *string, src string) {
	if src != "" {
		*dst = src
	}
}

func mergePtr[T any](dst **T, src *T) {
	if src != nil {
		*dst = src
	}
}

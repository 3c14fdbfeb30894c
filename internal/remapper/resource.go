package remapper

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/feral-file/ff-marketplace-indexer/internal/domain"
	"github.com/feral-file/ff-marketplace-indexer/internal/jsonpath"
	"github.com/feral-file/ff-marketplace-indexer/internal/logger"
)

var (
	pathCreator          = jsonpath.MustCompile("$.creator")
	pathName             = jsonpath.MustCompile("$.name")
	pathDescription      = jsonpath.MustCompile("$.description")
	pathURI              = jsonpath.MustCompile("$.uri")
	pathIndex            = jsonpath.MustCompile("$.index")
	pathCollectionInner  = jsonpath.MustCompile("$.collection.inner")
	pathIdentifierName   = jsonpath.MustCompile("$.name.value")
	pathIdentifierIndex  = jsonpath.MustCompile("$.index.value")
	pathCurrentSupply    = jsonpath.MustCompile("$.current_supply")
	pathCurrentSupplyAgg = jsonpath.MustCompile("$.current_supply.value")
	pathTotalMinted      = jsonpath.MustCompile("$.total_minted")
	pathTotalMintedAgg   = jsonpath.MustCompile("$.total_minted.value")
	pathMaxSupply        = jsonpath.MustCompile("$.max_supply")
	pathMaxSupplyAgg     = jsonpath.MustCompile("$.current_supply.max_value")
	pathNumerator        = jsonpath.MustCompile("$.numerator")
	pathDenominator      = jsonpath.MustCompile("$.denominator")
	pathPayeeAddress     = jsonpath.MustCompile("$.payee_address")
	pathOwner            = jsonpath.MustCompile("$.owner")
)

// CollectionResource is the state of a v2 collection object written in a transaction
type CollectionResource struct {
	Address     string
	Creator     string
	Name        string
	Description string
	URI         string
	Supply      *decimal.Decimal
	MaxSupply   *decimal.Decimal
	TotalMinted *decimal.Decimal
}

// TokenResource is the state of a v2 token object written in a transaction
type TokenResource struct {
	Address     string
	Collection  string
	Name        string
	Description string
	URI         string
	Index       string
}

// RoyaltyResource is a royalty attached to a collection or token object
type RoyaltyResource struct {
	Address      string
	Numerator    decimal.Decimal
	Denominator  decimal.Decimal
	PayeeAddress string
}

type supplyResource struct {
	supply, maxSupply, totalMinted *decimal.Decimal
}

type identifiers struct {
	name, index string
}

// ResourceState holds the object resources written by one transaction, keyed by object address
type ResourceState struct {
	collections     map[string]*CollectionResource
	collectionOrder []string
	tokens          map[string]*TokenResource
	tokenOrder      []string
	royalties       map[string]*RoyaltyResource
	owners          map[string]string
	burned          map[string]bool
	burnedOrder     []string
}

func newResourceState() *ResourceState {
	return &ResourceState{
		collections: make(map[string]*CollectionResource),
		tokens:      make(map[string]*TokenResource),
		royalties:   make(map[string]*RoyaltyResource),
		owners:      make(map[string]string),
		burned:      make(map[string]bool),
	}
}

// CollectionByAddress returns the collection written at the address
func (s *ResourceState) CollectionByAddress(addr string) (*CollectionResource, bool) {
	c, ok := s.collections[domain.StandardizeAddress(addr)]
	return c, ok
}

// TokenByAddress returns the token written at the address
func (s *ResourceState) TokenByAddress(addr string) (*TokenResource, bool) {
	t, ok := s.tokens[domain.StandardizeAddress(addr)]
	return t, ok
}

// RoyaltyByAddress returns the royalty attached to a collection or token object
func (s *ResourceState) RoyaltyByAddress(addr string) (*RoyaltyResource, bool) {
	r, ok := s.royalties[domain.StandardizeAddress(addr)]
	return r, ok
}

// OwnerOf returns the owner recorded in the object's ObjectCore
func (s *ResourceState) OwnerOf(addr string) (string, bool) {
	o, ok := s.owners[domain.StandardizeAddress(addr)]
	return o, ok
}

// IsBurned reports whether the token resource was deleted in the transaction
func (s *ResourceState) IsBurned(addr string) bool {
	return s.burned[domain.StandardizeAddress(addr)]
}

// ResourceRemapper reconstructs collection and token state from resource writes
type ResourceRemapper struct{}

// NewResourceRemapper creates a new resource remapper
func NewResourceRemapper() *ResourceRemapper {
	return &ResourceRemapper{}
}

// Remap scans the write set of a transaction.
// Unknown resource types are ignored and malformed resources are skipped.
func (r *ResourceRemapper) Remap(txn *domain.Transaction) *ResourceState {
	state := newResourceState()
	supplies := make(map[string]*supplyResource)
	ids := make(map[string]*identifiers)

	for i := range txn.Changes {
		change := &txn.Changes[i]
		if change.Resource == nil {
			continue
		}

		addr := domain.StandardizeAddress(change.Address)
		resourceType := domain.StandardizeType(change.Resource.Type)

		if change.Type == domain.WriteSetChangeDelete {
			if resourceType == resourceTypes.token && !state.burned[addr] {
				state.burned[addr] = true
				state.burnedOrder = append(state.burnedOrder, addr)
			}
			continue
		}
		if change.Type != domain.WriteSetChangeWrite {
			continue
		}

		if !resourceTypes.known(resourceType) {
			continue
		}

		data, err := jsonpath.Parse(change.Resource.Data)
		if err != nil {
			logger.Warn("Skipping malformed resource",
				zap.Uint64("version", txn.Version),
				zap.String("type", change.Resource.Type),
				zap.String("address", addr),
				zap.Error(err))
			continue
		}

		switch resourceType {
		case resourceTypes.collection:
			if _, ok := state.collections[addr]; !ok {
				state.collectionOrder = append(state.collectionOrder, addr)
			}
			state.collections[addr] = &CollectionResource{
				Address:     addr,
				Creator:     domain.StandardizeAddress(str(pathCreator, data)),
				Name:        str(pathName, data),
				Description: str(pathDescription, data),
				URI:         str(pathURI, data),
			}
		case resourceTypes.concurrentSupply:
			supplies[addr] = &supplyResource{
				supply:      dec(pathCurrentSupplyAgg, data),
				maxSupply:   dec(pathMaxSupplyAgg, data),
				totalMinted: dec(pathTotalMintedAgg, data),
			}
		case resourceTypes.fixedSupply:
			supplies[addr] = &supplyResource{
				supply:      dec(pathCurrentSupply, data),
				maxSupply:   dec(pathMaxSupply, data),
				totalMinted: dec(pathTotalMinted, data),
			}
		case resourceTypes.unlimitedSupply:
			supplies[addr] = &supplyResource{
				supply:      dec(pathCurrentSupply, data),
				totalMinted: dec(pathTotalMinted, data),
			}
		case resourceTypes.token:
			if _, ok := state.tokens[addr]; !ok {
				state.tokenOrder = append(state.tokenOrder, addr)
			}
			state.tokens[addr] = &TokenResource{
				Address:     addr,
				Collection:  domain.StandardizeAddress(str(pathCollectionInner, data)),
				Name:        str(pathName, data),
				Description: str(pathDescription, data),
				URI:         str(pathURI, data),
				Index:       str(pathIndex, data),
			}
		case resourceTypes.tokenIdentifiers:
			ids[addr] = &identifiers{
				name:  str(pathIdentifierName, data),
				index: str(pathIdentifierIndex, data),
			}
		case resourceTypes.royalty:
			num := dec(pathNumerator, data)
			den := dec(pathDenominator, data)
			if num == nil || den == nil {
				logger.Debug("Skipping royalty without numerator or denominator",
					zap.Uint64("version", txn.Version), zap.String("address", addr))
				continue
			}
			state.royalties[addr] = &RoyaltyResource{
				Address:      addr,
				Numerator:    *num,
				Denominator:  *den,
				PayeeAddress: domain.StandardizeAddress(str(pathPayeeAddress, data)),
			}
		case resourceTypes.objectCore:
			if owner := str(pathOwner, data); owner != "" {
				state.owners[addr] = domain.StandardizeAddress(owner)
			}
		}
	}

	// join supply counters onto their collections
	for addr, s := range supplies {
		if c, ok := state.collections[addr]; ok {
			c.Supply, c.MaxSupply, c.TotalMinted = s.supply, s.maxSupply, s.totalMinted
		}
	}

	// v2 tokens with identifiers carry the authoritative name and index
	for addr, id := range ids {
		t, ok := state.tokens[addr]
		if !ok {
			continue
		}
		if id.name != "" {
			t.Name = id.name
		}
		if id.index != "" {
			t.Index = id.index
		}
	}

	return state
}

// entities builds the collection, nft, commission and contract rows implied by the resources
func (s *ResourceState) entities(txn *domain.Transaction, set *entitySet) {
	version := int64(txn.Version) //nolint:gosec,G115

	for _, addr := range s.collectionOrder {
		c := s.collections[addr]
		set.putV2Collection(c, s, version, txn)
	}

	for _, addr := range s.tokenOrder {
		t := s.tokens[addr]
		nft := newNft(t.Address, domain.TokenStandardV2, version, txn)
		nft.CollectionID = nonEmpty(t.Collection)
		nft.Name = nonEmpty(t.Name)
		nft.Description = nonEmpty(t.Description)
		nft.URI = nonEmpty(t.URI)
		if owner, ok := s.owners[addr]; ok {
			nft.Owner = &owner
		}
		set.putNft(nft)

		if royalty, ok := s.royalties[addr]; ok {
			set.putCommission(newCommission(addr, royalty.Numerator, royalty.Denominator, royalty.PayeeAddress, version))
		}
	}

	for _, addr := range s.burnedOrder {
		nft := newNft(addr, domain.TokenStandardV2, version, txn)
		nft.Burned = true
		set.putNft(nft)
	}
}

func str(p *jsonpath.Path, data any) string {
	v, ok := p.Extract(data)
	if !ok {
		return ""
	}
	return v.String()
}

func dec(p *jsonpath.Path, data any) *decimal.Decimal {
	v, ok := p.Extract(data)
	if !ok {
		return nil
	}
	d, ok := v.Decimal()
	if !ok {
		return nil
	}
	return &d
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

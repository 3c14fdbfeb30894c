package remapper

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/feral-file/ff-marketplace-indexer/internal/domain"
	"github.com/feral-file/ff-marketplace-indexer/internal/jsonpath"
	"github.com/feral-file/ff-marketplace-indexer/internal/logger"
)

// Table identifies a remapping target table
type Table string

const (
	TableActivities       Table = "nft_marketplace_activities"
	TableListings         Table = "current_nft_marketplace_listings"
	TableTokenOffers      Table = "current_nft_marketplace_token_offers"
	TableCollectionOffers Table = "current_nft_marketplace_collection_offers"
)

var tableAliases = map[string]Table{
	"nft_marketplace_activities":                TableActivities,
	"activities":                                TableActivities,
	"current_nft_marketplace_listings":          TableListings,
	"listings":                                  TableListings,
	"current_nft_marketplace_token_offers":      TableTokenOffers,
	"token_offers":                              TableTokenOffers,
	"current_nft_marketplace_collection_offers": TableCollectionOffers,
	"collection_offers":                         TableCollectionOffers,
}

// ParseTable resolves a table name or alias
func ParseTable(name string) (Table, bool) {
	t, ok := tableAliases[strings.ToLower(strings.TrimSpace(name))]
	return t, ok
}

// secondaryKind returns the secondary model the table stores
func (t Table) secondaryKind() domain.SecondaryKind {
	switch t {
	case TableListings:
		return domain.SecondaryListing
	case TableTokenOffers:
		return domain.SecondaryTokenBid
	case TableCollectionOffers:
		return domain.SecondaryCollectionBid
	default:
		return domain.SecondaryNone
	}
}

// Target is a (table, column) destination of an extracted value
type Target struct {
	Table  string `json:"table"`
	Column string `json:"column"`
}

// FieldConfig maps one path expression to its targets
type FieldConfig struct {
	Path    string   `json:"path"`
	Targets []Target `json:"targets"`
}

// EventConfig is the remapping of one raw event type
type EventConfig struct {
	EventType         string        `json:"event_type"`
	StandardEventType string        `json:"standard_event_type"`
	Fields            []FieldConfig `json:"fields"`
}

// MarketplaceConfig is the declarative remapping table of one marketplace
type MarketplaceConfig struct {
	Name            string        `json:"name"`
	ContractAddress string        `json:"contract_address"`
	Events          []EventConfig `json:"events"`
}

type compiledTarget struct {
	table Table
	field FieldID
}

type eventMapping struct {
	standard domain.MarketplaceEventType
	// paths keeps configuration order so later paths win deterministically
	paths   []*jsonpath.Path
	targets map[string][]compiledTarget
}

// EventMapping is the compiled form of a MarketplaceConfig
type EventMapping struct {
	Marketplace     string
	ContractAddress string
	events          map[string]*eventMapping
}

// Compile validates a marketplace config and resolves it into lookup maps.
// Invalid paths and unknown event types fail compilation; unknown tables or columns are skipped.
func Compile(cfg MarketplaceConfig) (*EventMapping, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("%w: marketplace name is required", domain.ErrInvalidMapping)
	}
	if cfg.ContractAddress == "" {
		return nil, fmt.Errorf("%w: contract address is required for %s", domain.ErrInvalidMapping, cfg.Name)
	}

	m := &EventMapping{
		Marketplace:     cfg.Name,
		ContractAddress: domain.StandardizeAddress(cfg.ContractAddress),
		events:          make(map[string]*eventMapping, len(cfg.Events)),
	}

	for _, ec := range cfg.Events {
		eventType := domain.StandardizeType(ec.EventType)
		if eventType == "" {
			return nil, fmt.Errorf("%w: empty event type in %s", domain.ErrInvalidMapping, cfg.Name)
		}

		standard := domain.ParseMarketplaceEventType(ec.StandardEventType)
		if standard == domain.EventTypeUnknown {
			return nil, fmt.Errorf("%w: unknown standard event type %q for %s", domain.ErrInvalidMapping, ec.StandardEventType, ec.EventType)
		}

		em, ok := m.events[eventType]
		if !ok {
			em = &eventMapping{standard: standard, targets: make(map[string][]compiledTarget)}
			m.events[eventType] = em
		} else if em.standard != standard {
			return nil, fmt.Errorf("%w: conflicting standard event types for %s", domain.ErrInvalidMapping, ec.EventType)
		}

		for _, fc := range ec.Fields {
			if _, seen := em.targets[fc.Path]; !seen {
				path, err := jsonpath.Compile(fc.Path)
				if err != nil {
					return nil, fmt.Errorf("%w: %s: %w", domain.ErrInvalidMapping, ec.EventType, err)
				}
				em.paths = append(em.paths, path)
				em.targets[fc.Path] = nil
			}

			for _, t := range fc.Targets {
				table, ok := ParseTable(t.Table)
				if !ok {
					logger.Warn("Skipping remapping target with unknown table",
						zap.String("marketplace", cfg.Name),
						zap.String("eventType", ec.EventType),
						zap.String("table", t.Table))
					continue
				}
				field := ParseFieldID(t.Column)
				if field == FieldUnknown {
					logger.Warn("Skipping remapping target with unknown column",
						zap.String("marketplace", cfg.Name),
						zap.String("eventType", ec.EventType),
						zap.String("table", t.Table),
						zap.String("column", t.Column))
					continue
				}
				em.targets[fc.Path] = append(em.targets[fc.Path], compiledTarget{table: table, field: field})
			}
		}
	}

	return m, nil
}

// StandardEventType returns the canonical type a raw event type is mapped to
func (m *EventMapping) StandardEventType(eventType string) (domain.MarketplaceEventType, bool) {
	em, ok := m.events[domain.StandardizeType(eventType)]
	if !ok {
		return domain.EventTypeUnknown, false
	}
	return em.standard, true
}

// Remappings returns the resolved event type -> path -> targets table
func (m *EventMapping) Remappings() map[string]map[string][]Target {
	out := make(map[string]map[string][]Target, len(m.events))
	for eventType, em := range m.events {
		paths := make(map[string][]Target, len(em.targets))
		for path, targets := range em.targets {
			for _, t := range targets {
				paths[path] = append(paths[path], Target{Table: string(t.table), Column: columnName(t.field)})
			}
		}
		out[eventType] = paths
	}
	return out
}

// Touches reports whether a transaction interacts with the marketplace contract: it calls an
// entry function of the contract, or emits an event declared by the contract or mapped for it.
func (m *EventMapping) Touches(txn *domain.Transaction) bool {
	if m.ownsType(txn.EntryFunction) {
		return true
	}
	for i := range txn.Events {
		eventType := domain.StandardizeType(txn.Events[i].Type)
		if m.ownsType(eventType) {
			return true
		}
		if _, ok := m.events[eventType]; ok {
			return true
		}
	}
	return false
}

func (m *EventMapping) ownsType(moveType string) bool {
	addr, _, ok := strings.Cut(moveType, "::")
	return ok && domain.StandardizeAddress(addr) == m.ContractAddress
}

func (m *EventMapping) lookup(eventType string) (*eventMapping, bool) {
	em, ok := m.events[eventType]
	return em, ok
}

func columnName(id FieldID) string {
	for name, f := range columnFields {
		if f == id {
			return name
		}
	}
	return ""
}

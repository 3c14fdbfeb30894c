package registry

import (
	"fmt"
	"strings"

	"github.com/feral-file/ff-marketplace-indexer/internal/adapter"
	"github.com/feral-file/ff-marketplace-indexer/internal/domain"
	"github.com/feral-file/ff-marketplace-indexer/internal/processor"
	"github.com/feral-file/ff-marketplace-indexer/internal/remapper"
)

// MarketplaceRegistry defines the interface for marketplace lookups
type MarketplaceRegistry interface {
	// Marketplaces returns every configured marketplace in file order
	Marketplaces() []MarketplaceEntry

	// Lookup looks up a marketplace by name
	Lookup(name string) (*MarketplaceEntry, bool)

	// Configs returns the remapping configs of every marketplace
	Configs() []remapper.MarketplaceConfig
}

// MarketplaceEntry is one marketplace stream: its remapping table plus optional stream overrides
type MarketplaceEntry struct {
	remapper.MarketplaceConfig

	// StartingVersion overrides the global starting version for this marketplace
	StartingVersion *uint64 `json:"starting_version,omitempty"`
	// EndingVersion stops the stream once reached
	EndingVersion *uint64 `json:"ending_version,omitempty"`
	// BatchSize overrides the global number of transactions fetched per round
	BatchSize *int `json:"batch_size,omitempty"`
}

// StreamConfig applies the entry's overrides on top of the global stream settings
func (e MarketplaceEntry) StreamConfig(base processor.Config) processor.Config {
	cfg := base
	if e.StartingVersion != nil {
		cfg.StartingVersion = *e.StartingVersion
	}
	if e.EndingVersion != nil {
		end := *e.EndingVersion
		cfg.EndingVersion = &end
	}
	if e.BatchSize != nil {
		cfg.BatchSize = *e.BatchSize
	}
	return cfg
}

// MarketplaceRegistryData represents the structure of the registry JSON file
type MarketplaceRegistryData struct {
	Version      int                `json:"version"`
	Marketplaces []MarketplaceEntry `json:"marketplaces"`
}

// marketplaceRegistry is the internal implementation of MarketplaceRegistry interface
type marketplaceRegistry struct {
	data *MarketplaceRegistryData
	// name (lower-cased) -> index in data.Marketplaces
	byName map[string]int
}

// MarketplaceRegistryLoader defines the interface for loading marketplace registries from files
type MarketplaceRegistryLoader interface {
	// Load loads the marketplace registry from a JSON file
	Load(filePath string) (MarketplaceRegistry, error)
}

// marketplaceRegistryLoader is the internal implementation of MarketplaceRegistryLoader interface
type marketplaceRegistryLoader struct {
	fs   adapter.FileSystem
	json adapter.JSON
}

// NewMarketplaceRegistryLoader creates a new MarketplaceRegistryLoader with injected dependencies
func NewMarketplaceRegistryLoader(fs adapter.FileSystem, json adapter.JSON) MarketplaceRegistryLoader {
	return &marketplaceRegistryLoader{
		fs:   fs,
		json: json,
	}
}

// Load loads the marketplace registry from a JSON file
func (l *marketplaceRegistryLoader) Load(filePath string) (MarketplaceRegistry, error) {
	data, err := l.fs.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry file: %w", err)
	}

	var registryData MarketplaceRegistryData
	if err := l.json.Unmarshal(data, &registryData); err != nil {
		return nil, fmt.Errorf("failed to parse registry JSON: %w", err)
	}

	if len(registryData.Marketplaces) == 0 {
		return nil, fmt.Errorf("%w: registry %s has no marketplaces", domain.ErrInvalidMapping, filePath)
	}

	registry := &marketplaceRegistry{
		data:   &registryData,
		byName: make(map[string]int, len(registryData.Marketplaces)),
	}

	for i := range registryData.Marketplaces {
		m := &registryData.Marketplaces[i]
		name := strings.ToLower(strings.TrimSpace(m.Name))
		if name == "" {
			return nil, fmt.Errorf("%w: marketplace #%d has no name", domain.ErrInvalidMapping, i)
		}
		if _, ok := registry.byName[name]; ok {
			return nil, fmt.Errorf("%w: duplicate marketplace %q", domain.ErrInvalidMapping, m.Name)
		}
		if m.StartingVersion != nil && m.EndingVersion != nil && *m.EndingVersion < *m.StartingVersion {
			return nil, fmt.Errorf("%w: marketplace %q ends before it starts", domain.ErrInvalidMapping, m.Name)
		}
		if m.BatchSize != nil && *m.BatchSize <= 0 {
			return nil, fmt.Errorf("%w: marketplace %q has non-positive batch_size %d", domain.ErrInvalidMapping, m.Name, *m.BatchSize)
		}
		registry.byName[name] = i
	}

	return registry, nil
}

// Marketplaces returns every configured marketplace in file order
func (r *marketplaceRegistry) Marketplaces() []MarketplaceEntry {
	if r == nil || r.data == nil {
		return nil
	}
	return r.data.Marketplaces
}

// Lookup looks up a marketplace by name
func (r *marketplaceRegistry) Lookup(name string) (*MarketplaceEntry, bool) {
	if r == nil {
		return nil, false
	}
	i, ok := r.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, false
	}
	return &r.data.Marketplaces[i], true
}

// Configs returns the remapping configs of every marketplace
func (r *marketplaceRegistry) Configs() []remapper.MarketplaceConfig {
	entries := r.Marketplaces()
	configs := make([]remapper.MarketplaceConfig, 0, len(entries))
	for _, e := range entries {
		configs = append(configs, e.MarketplaceConfig)
	}
	return configs
}

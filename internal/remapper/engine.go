package remapper

import (
	"fmt"

	"github.com/feral-file/ff-marketplace-indexer/internal/adapter"
	"github.com/feral-file/ff-marketplace-indexer/internal/domain"
)

// Engine holds one compiled remapper per configured marketplace
type Engine struct {
	remappers map[string]*Remapper
	names     []string
}

// NewEngine compiles every marketplace config. Duplicate marketplace names are rejected.
func NewEngine(configs []MarketplaceConfig, jcs adapter.JCS) (*Engine, error) {
	e := &Engine{remappers: make(map[string]*Remapper, len(configs))}
	for _, cfg := range configs {
		if _, ok := e.remappers[cfg.Name]; ok {
			return nil, fmt.Errorf("%w: duplicate marketplace %s", domain.ErrInvalidMapping, cfg.Name)
		}
		mapping, err := Compile(cfg)
		if err != nil {
			return nil, err
		}
		e.remappers[cfg.Name] = NewRemapper(mapping, jcs)
		e.names = append(e.names, cfg.Name)
	}
	return e, nil
}

// Remapper returns the remapper of a marketplace
func (e *Engine) Remapper(name string) (*Remapper, error) {
	r, ok := e.remappers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrMarketplaceNotFound, name)
	}
	return r, nil
}

// Marketplaces returns the configured marketplace names in configuration order
func (e *Engine) Marketplaces() []string {
	return append([]string(nil), e.names...)
}

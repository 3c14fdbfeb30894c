package processor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/feral-file/ff-marketplace-indexer/internal/logger"
)

// Manager runs the streams of every configured marketplace
type Manager struct {
	processors []Processor
}

// NewManager creates a manager over the given streams
func NewManager(processors ...Processor) *Manager {
	return &Manager{processors: processors}
}

// Run starts every stream and waits for all of them. A failing stream is logged and does not
// stop its siblings; the failures are returned together once every stream has finished.
func (m *Manager) Run(ctx context.Context) error {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)

	for _, p := range m.processors {
		wg.Add(1)
		go func() {
			defer wg.Done()

			streamCtx := logger.WithStream(ctx, p.Marketplace(), p.ContractAddress())
			logger.InfoCtx(streamCtx, "Starting marketplace stream")

			err := p.Run(streamCtx)
			if err == nil || errors.Is(err, context.Canceled) {
				logger.InfoCtx(streamCtx, "Marketplace stream stopped")
				return
			}

			logger.ErrorCtx(streamCtx, err, zap.String("message", "Marketplace stream failed"))

			mu.Lock()
			errs = append(errs, fmt.Errorf("marketplace %s: %w", p.Marketplace(), err))
			mu.Unlock()
		}()
	}

	wg.Wait()
	return errors.Join(errs...)
}

package processor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/feral-file/ff-marketplace-indexer/internal/adapter"
	"github.com/feral-file/ff-marketplace-indexer/internal/domain"
	"github.com/feral-file/ff-marketplace-indexer/internal/logger"
	"github.com/feral-file/ff-marketplace-indexer/internal/messaging"
	"github.com/feral-file/ff-marketplace-indexer/internal/metrics"
	"github.com/feral-file/ff-marketplace-indexer/internal/providers/aptos"
	"github.com/feral-file/ff-marketplace-indexer/internal/reducer"
	"github.com/feral-file/ff-marketplace-indexer/internal/remapper"
	"github.com/feral-file/ff-marketplace-indexer/internal/store"
)

// Config holds the configuration of one marketplace stream
type Config struct {
	StartingVersion uint64
	EndingVersion   *uint64 // nil follows the chain head
	BatchSize       int
	ChannelSize     int
	PollInterval    time.Duration
}

// Remapper turns a transaction into marketplace records
type Remapper interface {
	Marketplace() string
	ContractAddress() string
	Remap(ctx context.Context, txn *domain.Transaction) (*remapper.Result, error)
}

// Processor defines the interface of a marketplace stream
//
//go:generate mockgen -source=processor.go -destination=../mocks/processor.go -package=mocks -mock_names=Processor=MockProcessor
type Processor interface {
	// Run processes the stream until the ending version, an error or context cancellation
	Run(ctx context.Context) error
	// Marketplace returns the marketplace name of the stream
	Marketplace() string
	// ContractAddress returns the marketplace contract address of the stream
	ContractAddress() string
}

type processor struct {
	source    aptos.TransactionSource
	remapper  Remapper
	store     store.Store
	publisher messaging.Publisher
	pool      pond.ResultPool[*remapper.Result]
	metrics   *metrics.Metrics
	config    Config
	clock     adapter.Clock
}

// NewProcessor creates a new marketplace stream processor
func NewProcessor(
	src aptos.TransactionSource,
	rm Remapper,
	st store.Store,
	pub messaging.Publisher,
	pool pond.ResultPool[*remapper.Result],
	m *metrics.Metrics,
	cfg Config,
	clock adapter.Clock,
) Processor {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.ChannelSize <= 0 {
		cfg.ChannelSize = 1
	}
	return &processor{
		source:    src,
		remapper:  rm,
		store:     st,
		publisher: pub,
		pool:      pool,
		metrics:   m,
		config:    cfg,
		clock:     clock,
	}
}

func (p *processor) Marketplace() string {
	return p.remapper.Marketplace()
}

func (p *processor) ContractAddress() string {
	return p.remapper.ContractAddress()
}

// batch is a fetched page of transactions
type batch struct {
	txns      []*domain.Transaction
	fetchedAt time.Time
}

// remapped holds the per-transaction results of a batch in chain order
type remapped struct {
	results   []*remapper.Result
	fetchedAt time.Time
}

// reduced is the compacted output of a batch
type reduced struct {
	output    reducer.Output
	fetchedAt time.Time
}

// Run starts the stream: fetch -> remap -> reduce -> persist, connected by bounded channels
func (p *processor) Run(ctx context.Context) error {
	ctx = logger.WithStream(ctx, p.Marketplace(), p.ContractAddress())

	start, err := p.startVersion(ctx)
	if err != nil {
		return err
	}

	if p.config.EndingVersion != nil && start > *p.config.EndingVersion {
		logger.InfoCtx(ctx, "Stream already reached its ending version",
			zap.Uint64("endingVersion", *p.config.EndingVersion),
		)
		return nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	fetched := make(chan batch, p.config.ChannelSize)
	results := make(chan remapped, p.config.ChannelSize)
	outputs := make(chan reduced, p.config.ChannelSize)
	errCh := make(chan error, 3)

	stage := func(wg *sync.WaitGroup, run func() error) {
		defer wg.Done()
		if err := run(); err != nil {
			errCh <- err
			cancel()
		}
	}

	var wg sync.WaitGroup
	wg.Add(3)
	go stage(&wg, func() error {
		defer close(fetched)
		return p.fetch(runCtx, start, fetched)
	})
	go stage(&wg, func() error {
		defer close(results)
		return p.remap(runCtx, fetched, results)
	})
	go stage(&wg, func() error {
		defer close(outputs)
		return p.reduce(runCtx, results, outputs)
	})

	persistErr := p.persist(runCtx, outputs)
	if persistErr != nil {
		cancel()
	}
	wg.Wait()
	close(errCh)

	var errs []error
	if persistErr != nil && !errors.Is(persistErr, context.Canceled) {
		errs = append(errs, persistErr)
	}
	for err := range errCh {
		if !errors.Is(err, context.Canceled) {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return ctx.Err()
}

// startVersion resumes after the checkpoint unless the configured starting version is further
func (p *processor) startVersion(ctx context.Context) (uint64, error) {
	checkpoint, found, err := p.store.GetCheckpoint(ctx, p.Marketplace())
	if err != nil {
		return 0, fmt.Errorf("failed to get checkpoint: %w", err)
	}

	start := p.config.StartingVersion
	if found && checkpoint >= start {
		start = checkpoint + 1
		logger.InfoCtx(ctx, "Resuming from checkpoint", zap.Uint64("version", start))
	} else {
		logger.InfoCtx(ctx, "Starting from configured version", zap.Uint64("version", start))
	}

	if latest, err := p.source.LatestVersion(ctx); err == nil && latest >= start {
		logger.InfoCtx(ctx, "Stream is behind the chain head",
			zap.Uint64("head", latest),
			zap.Uint64("lag", latest-start),
		)
	}

	return start, nil
}

// fetch pages through the source, polling when it has nothing new
func (p *processor) fetch(ctx context.Context, from uint64, out chan<- batch) error {
	end := p.config.EndingVersion
	for {
		if end != nil && from > *end {
			return nil
		}

		limit := p.config.BatchSize
		if end != nil && *end-from+1 < uint64(limit) { //nolint:gosec,G115
			limit = int(*end - from + 1) //nolint:gosec,G115
		}

		txns, err := p.source.FetchBatch(ctx, from, limit)
		if err != nil {
			p.metrics.RoundFailed(p.Marketplace(), "fetch")
			return fmt.Errorf("failed to fetch transactions from %d: %w", from, err)
		}

		if end != nil {
			txns = trimTo(txns, *end)
		}

		if len(txns) == 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-p.clock.After(p.config.PollInterval):
			}
			continue
		}

		select {
		case out <- batch{txns: txns, fetchedAt: p.clock.Now()}:
		case <-ctx.Done():
			return ctx.Err()
		}
		from = txns[len(txns)-1].Version + 1
	}
}

func trimTo(txns []*domain.Transaction, end uint64) []*domain.Transaction {
	for i, txn := range txns {
		if txn.Version > end {
			return txns[:i]
		}
	}
	return txns
}

// remap runs the transactions of a batch in parallel and rejoins the results in batch order
func (p *processor) remap(ctx context.Context, in <-chan batch, out chan<- remapped) error {
	for b := range in {
		group := p.pool.NewGroupContext(ctx)
		for _, txn := range b.txns {
			group.SubmitErr(func() (*remapper.Result, error) {
				return p.remapper.Remap(ctx, txn)
			})
		}

		res, err := group.Wait()
		if err != nil {
			p.metrics.RoundFailed(p.Marketplace(), "remap")
			return fmt.Errorf("failed to remap transactions %d-%d: %w",
				b.txns[0].Version, b.txns[len(b.txns)-1].Version, err)
		}

		select {
		case out <- remapped{results: res, fetchedAt: b.fetchedAt}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// reduce folds each batch into a fresh round
func (p *processor) reduce(ctx context.Context, in <-chan remapped, out chan<- reduced) error {
	for r := range in {
		round := reducer.NewRound()
		for _, res := range r.results {
			if err := round.Add(res); err != nil {
				return err
			}
		}

		select {
		case out <- reduced{output: round.Drain(), fetchedAt: r.fetchedAt}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// persist writes each round, advances the checkpoint and publishes the new activities.
// A failed write stops the stream without moving the checkpoint.
func (p *processor) persist(ctx context.Context, in <-chan reduced) error {
	for r := range in {
		if err := ctx.Err(); err != nil {
			return err
		}

		out := r.output
		if !out.Empty() {
			if err := p.store.WriteRound(ctx, toRoundInput(out)); err != nil {
				p.metrics.RoundFailed(p.Marketplace(), "persist")
				return fmt.Errorf("failed to persist round up to version %d: %w", out.MaxVersion, err)
			}
		}

		if err := p.store.SetCheckpoint(ctx, p.Marketplace(), out.MaxVersion, out.MaxTimestamp); err != nil {
			p.metrics.RoundFailed(p.Marketplace(), "checkpoint")
			return fmt.Errorf("failed to set checkpoint %d: %w", out.MaxVersion, err)
		}

		p.publish(ctx, &out)

		p.metrics.ObserveRound(p.Marketplace(), out.Transactions, len(out.Activities), out.MaxVersion, p.clock.Since(r.fetchedAt))
		logger.DebugCtx(ctx, "Round persisted",
			zap.Uint64("version", out.MaxVersion),
			zap.Int("transactions", out.Transactions),
			zap.Int("activities", len(out.Activities)),
			zap.Int("listings", len(out.Listings)),
			zap.Int("tokenBids", len(out.TokenBids)),
			zap.Int("collectionBids", len(out.CollectionBids)),
		)
	}
	return nil
}

// publish sends the persisted activities downstream. The round is already durable, so
// failures are logged and counted rather than stopping the stream.
func (p *processor) publish(ctx context.Context, out *reducer.Output) {
	for _, a := range out.Activities {
		if err := p.publisher.PublishActivity(ctx, messaging.NewActivityMessage(a)); err != nil {
			p.metrics.PublishErrors.WithLabelValues(p.Marketplace()).Inc()
			logger.ErrorCtx(ctx, err,
				zap.Int64("txnVersion", a.TxnVersion),
				zap.Int64("eventIndex", a.EventIndex),
			)
		}
	}
}

func toRoundInput(out reducer.Output) store.RoundInput {
	return store.RoundInput{
		Activities:     out.Activities,
		Listings:       out.Listings,
		TokenBids:      out.TokenBids,
		CollectionBids: out.CollectionBids,
		Collections:    out.Collections,
		Nfts:           out.Nfts,
		Commissions:    out.Commissions,
		Contracts:      out.Contracts,
	}
}

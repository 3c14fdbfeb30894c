package aptos

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/feral-file/ff-marketplace-indexer/internal/adapter"
	"github.com/feral-file/ff-marketplace-indexer/internal/domain"
	"github.com/feral-file/ff-marketplace-indexer/internal/logger"
)

// TransactionSource delivers committed transactions in ascending version order
//
//go:generate mockgen -source=source.go -destination=../../mocks/source.go -package=mocks -mock_names=TransactionSource=MockTransactionSource
type TransactionSource interface {
	// FetchBatch returns up to limit transactions starting at version from.
	// An empty batch means the source has nothing past from yet.
	FetchBatch(ctx context.Context, from uint64, limit int) ([]*domain.Transaction, error)
	// LatestVersion returns the latest committed version
	LatestVersion(ctx context.Context) (uint64, error)
}

type source struct {
	client Client
}

// NewSource creates a transaction source backed by the Aptos REST client
func NewSource(client Client) TransactionSource {
	return &source{client: client}
}

// FetchBatch fetches a page of transactions and stamps each with its block height.
// The height of the first transaction comes from the block containing from; every later
// block metadata transaction opens the next block.
func (s *source) FetchBatch(ctx context.Context, from uint64, limit int) ([]*domain.Transaction, error) {
	raw, err := s.client.GetTransactions(ctx, from, limit)
	if err != nil {
		if errors.Is(err, adapter.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrSourceUnavailable, err)
	}
	if len(raw) == 0 {
		return nil, nil
	}

	block, err := s.client.GetBlockByVersion(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSourceUnavailable, err)
	}

	height := block.BlockHeight
	txs := make([]*domain.Transaction, 0, len(raw))
	for i := range raw {
		if i > 0 && raw[i].Type == TransactionTypeBlockMetadata {
			height++
		}
		txn, err := raw[i].ToDomain(height)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrSourceUnavailable, err)
		}
		txs = append(txs, txn)
	}

	logger.DebugCtx(ctx, "Fetched transaction batch",
		zap.Uint64("from", from),
		zap.Uint64("to", txs[len(txs)-1].Version),
		zap.Uint64("blockHeight", block.BlockHeight),
	)

	return txs, nil
}

// LatestVersion returns the ledger version of the fullnode
func (s *source) LatestVersion(ctx context.Context) (uint64, error) {
	info, err := s.client.GetLedgerInfo(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrSourceUnavailable, err)
	}
	return info.LedgerVersion, nil
}

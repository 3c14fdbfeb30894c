package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/feral-file/ff-marketplace-indexer/internal/domain"
	"github.com/feral-file/ff-marketplace-indexer/internal/logger"
	"github.com/feral-file/ff-marketplace-indexer/internal/store/schema"
)

// defaultWriteConcurrency is the number of tables written in parallel by WriteRound
const defaultWriteConcurrency = 4

type pgStore struct {
	CheckpointStore

	db               *gorm.DB
	writeConcurrency int
}

func hasDBResolver(db *gorm.DB) bool {
	return db != nil && db.Callback().Query().Get("gorm:db_resolver") != nil
}

// inTransaction reports whether db is bound to an open transaction. A transaction is a single
// connection, so its writes must not run in parallel.
func inTransaction(db *gorm.DB) bool {
	if db == nil || db.Statement == nil {
		return false
	}
	_, ok := db.Statement.ConnPool.(gorm.TxCommitter)
	return ok
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	concurrency := defaultWriteConcurrency
	if inTransaction(db) {
		concurrency = 1
	}
	return &pgStore{
		CheckpointStore:  NewCheckpointStore(db),
		db:               db,
		writeConcurrency: concurrency,
	}
}

// ConfigureConnectionPool configures the connection pool settings for a GORM database connection.
// It accesses the underlying *sql.DB and sets the pool configuration.
// If any of the pool settings are 0 or empty, reasonable defaults are used:
//   - MaxOpenConns: 20 (if 0)
//   - MaxIdleConns: 5 (if 0)
//   - ConnMaxLifetime: 5 minutes (if 0)
//   - ConnMaxIdleTime: 10 minutes (if 0)
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime =
		NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// NormalizeConnectionPoolSettings applies defaults and clamps pool settings into safe values.
//
// Defaults (when zero):
//   - MaxOpenConns: 20
//   - MaxIdleConns: 5
//   - ConnMaxLifetime: 5 minutes
//   - ConnMaxIdleTime: 10 minutes
func NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) (int, int, time.Duration, time.Duration) {
	if maxOpenConns == 0 {
		maxOpenConns = 20
	}
	if maxIdleConns == 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}

	// Ensure MaxIdleConns doesn't exceed MaxOpenConns
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	return maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime
}

// calculateSafeBatchSize computes the batch size for bulk inserts that stays under PostgreSQL's
// limit of 65535 parameters per query.
//
// Example with headroom of 1000:
//   - Commission: 7 fields → (65,535 - 1,000) / 7 = 9,219 records/batch
//   - NftMarketplaceActivity: 25 fields → (65,535 - 1,000) / 25 = 2,581 records/batch
//
// The headroom covers batch-level overhead such as ON CONFLICT clause parameters.
func calculateSafeBatchSize(totalRecords int, fieldsPerRecord int) int {
	const maxParams = 65535
	const totalHeadroom = 1000

	availableParams := maxParams - totalHeadroom
	safeBatchSize := max(availableParams/fieldsPerRecord, 1)

	if safeBatchSize > totalRecords {
		return totalRecords
	}

	return safeBatchSize
}

// versionGuard restricts an upsert to rows whose stored version is older than the incoming one
func versionGuard(table, column string) clause.Where {
	return clause.Where{Exprs: []clause.Expression{
		clause.Expr{SQL: fmt.Sprintf("%q.%s < excluded.%s", table, column, column)},
	}}
}

// coalesce keeps the stored value when the incoming one is null
func coalesce(table string, columns ...string) []clause.Assignment {
	set := make([]clause.Assignment, 0, len(columns))
	for _, c := range columns {
		set = append(set, clause.Assignment{
			Column: clause.Column{Name: c},
			Value:  gorm.Expr(fmt.Sprintf("COALESCE(excluded.%s, %q.%s)", c, table, c)),
		})
	}
	return set
}

// bidLifecycle keeps a matched or cancelled bid terminal unless the incoming row re-places it
func bidLifecycle(table string) []clause.Assignment {
	cond := fmt.Sprintf("excluded.created_tx_id IS NOT NULL OR %q.status = '%s'", table, domain.BidStatusActive)
	set := make([]clause.Assignment, 0, 2)
	for _, c := range []string{"status", "is_deleted"} {
		set = append(set, clause.Assignment{
			Column: clause.Column{Name: c},
			Value:  gorm.Expr(fmt.Sprintf("CASE WHEN %s THEN excluded.%s ELSE %q.%s END", cond, c, table, c)),
		})
	}
	return set
}

func pkColumns(names ...string) []clause.Column {
	cols := make([]clause.Column, 0, len(names))
	for _, n := range names {
		cols = append(cols, clause.Column{Name: n})
	}
	return cols
}

// dedupe drops rows sharing a primary key, keeping the one with the greatest version.
// Equal versions keep the later row. PostgreSQL rejects an upsert touching the same row twice.
func dedupe[T any, K comparable](rows []*T, key func(*T) K, version func(*T) int64) []*T {
	idx := make(map[K]int, len(rows))
	out := make([]*T, 0, len(rows))
	for _, r := range rows {
		k := key(r)
		if i, ok := idx[k]; ok {
			if version(r) >= version(out[i]) {
				out[i] = r
			}
			continue
		}
		idx[k] = len(out)
		out = append(out, r)
	}
	return out
}

// tableWrite is one table's share of a round
type tableWrite struct {
	table string
	rows  int
	write func(tx *gorm.DB) error
}

// WriteRound persists a round. Tables are written in parallel; on any failure the aggregated
// error wraps domain.ErrStorageWrite and the caller must not advance its checkpoint.
func (s *pgStore) WriteRound(ctx context.Context, input RoundInput) error {
	if input.Empty() {
		return nil
	}

	writes := s.roundWrites(input)

	pool := pond.NewPool(s.writeConcurrency, pond.WithContext(ctx))
	defer pool.StopAndWait()

	var (
		mu   sync.Mutex
		errs []error
	)
	group := pool.NewGroup()
	for _, w := range writes {
		group.Submit(func() {
			start := time.Now()
			if err := w.write(s.db.WithContext(ctx)); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", w.table, err))
				mu.Unlock()
				return
			}
			logger.Debug("Wrote table",
				zap.String("table", w.table),
				zap.Int("rows", w.rows),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
	if err := group.Wait(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", domain.ErrStorageWrite, errors.Join(errs...))
	}
	return nil
}

func (s *pgStore) roundWrites(input RoundInput) []tableWrite {
	var writes []tableWrite

	if len(input.Activities) > 0 {
		rows := dedupe(input.Activities,
			func(a *schema.NftMarketplaceActivity) activityKey {
				return activityKey{a.TxnVersion, a.EventIndex, a.Marketplace}
			},
			func(a *schema.NftMarketplaceActivity) int64 { return a.TxnVersion })
		writes = append(writes, tableWrite{
			table: schema.NftMarketplaceActivity{}.TableName(),
			rows:  len(rows),
			write: func(tx *gorm.DB) error { return insertActivities(tx, rows) },
		})
	}

	if len(input.Listings) > 0 {
		rows := dedupe(input.Listings,
			func(l *schema.CurrentNftMarketplaceListing) [2]string {
				return [2]string{l.TokenDataID, l.Marketplace}
			},
			func(l *schema.CurrentNftMarketplaceListing) int64 { return l.LastTransactionVersion })
		writes = append(writes, tableWrite{
			table: schema.CurrentNftMarketplaceListing{}.TableName(),
			rows:  len(rows),
			write: func(tx *gorm.DB) error { return upsertListings(tx, rows) },
		})
	}

	if len(input.TokenBids) > 0 {
		rows := dedupe(input.TokenBids,
			func(b *schema.CurrentNftMarketplaceTokenOffer) [3]string {
				return [3]string{b.TokenDataID, b.Buyer, b.Marketplace}
			},
			func(b *schema.CurrentNftMarketplaceTokenOffer) int64 { return b.LastTransactionVersion })
		writes = append(writes, tableWrite{
			table: schema.CurrentNftMarketplaceTokenOffer{}.TableName(),
			rows:  len(rows),
			write: func(tx *gorm.DB) error { return upsertTokenBids(tx, rows) },
		})
	}

	if len(input.CollectionBids) > 0 {
		rows := dedupe(input.CollectionBids,
			func(b *schema.CurrentNftMarketplaceCollectionOffer) [2]string {
				return [2]string{b.CollectionOfferID, b.Marketplace}
			},
			func(b *schema.CurrentNftMarketplaceCollectionOffer) int64 { return b.LastTransactionVersion })
		writes = append(writes, tableWrite{
			table: schema.CurrentNftMarketplaceCollectionOffer{}.TableName(),
			rows:  len(rows),
			write: func(tx *gorm.DB) error { return upsertCollectionBids(tx, rows) },
		})
	}

	if len(input.Collections) > 0 {
		rows := dedupe(input.Collections,
			func(c *schema.Collection) string { return c.ID },
			func(c *schema.Collection) int64 { return c.LastTransactionVersion })
		writes = append(writes, tableWrite{
			table: schema.Collection{}.TableName(),
			rows:  len(rows),
			write: func(tx *gorm.DB) error { return upsertCollections(tx, rows) },
		})
	}

	if len(input.Nfts) > 0 {
		rows := dedupe(input.Nfts,
			func(n *schema.Nft) string { return n.ID },
			func(n *schema.Nft) int64 { return n.LastTransactionVersion })
		writes = append(writes, tableWrite{
			table: schema.Nft{}.TableName(),
			rows:  len(rows),
			write: func(tx *gorm.DB) error { return upsertNfts(tx, rows) },
		})
	}

	if len(input.Commissions) > 0 {
		rows := dedupe(input.Commissions,
			func(c *schema.Commission) string { return c.ID },
			func(c *schema.Commission) int64 { return c.LastTransactionVersion })
		writes = append(writes, tableWrite{
			table: schema.Commission{}.TableName(),
			rows:  len(rows),
			write: func(tx *gorm.DB) error { return upsertCommissions(tx, rows) },
		})
	}

	if len(input.Contracts) > 0 {
		rows := dedupe(input.Contracts,
			func(c *schema.Contract) string { return c.ID },
			func(c *schema.Contract) int64 { return c.LastTransactionVersion })
		writes = append(writes, tableWrite{
			table: schema.Contract{}.TableName(),
			rows:  len(rows),
			write: func(tx *gorm.DB) error { return upsertContracts(tx, rows) },
		})
	}

	return writes
}

type activityKey struct {
	version, eventIndex int64
	marketplace         string
}

func insertActivities(tx *gorm.DB, rows []*schema.NftMarketplaceActivity) error {
	// NftMarketplaceActivity has 25 fields
	batchSize := calculateSafeBatchSize(len(rows), 25)

	// Activities are immutable; a replayed round leaves them untouched
	return tx.Clauses(clause.OnConflict{
		Columns:   pkColumns("txn_version", "event_index", "marketplace"),
		DoNothing: true,
	}).CreateInBatches(rows, batchSize).Error
}

func upsertListings(tx *gorm.DB, rows []*schema.CurrentNftMarketplaceListing) error {
	table := schema.CurrentNftMarketplaceListing{}.TableName()
	batchSize := calculateSafeBatchSize(len(rows), 15)

	// Unlisting clears price, seller and listing id, so those take the incoming value as is
	set := clause.AssignmentColumns([]string{
		"listing_id",
		"contract_address",
		"seller",
		"price",
		"token_amount",
		"standard_event_type",
		"listed",
		"is_deleted",
		"last_transaction_id",
		"last_transaction_version",
		"last_transaction_timestamp",
		"tx_index",
	})
	set = append(set, coalesce(table, "collection_id", "token_name")...)

	return tx.Clauses(clause.OnConflict{
		Columns:   pkColumns("token_data_id", "marketplace"),
		DoUpdates: set,
		Where:     versionGuard(table, "last_transaction_version"),
	}).CreateInBatches(rows, batchSize).Error
}

func upsertTokenBids(tx *gorm.DB, rows []*schema.CurrentNftMarketplaceTokenOffer) error {
	table := schema.CurrentNftMarketplaceTokenOffer{}.TableName()
	batchSize := calculateSafeBatchSize(len(rows), 19)

	set := clause.AssignmentColumns([]string{
		"contract_address",
		"standard_event_type",
		"last_transaction_version",
		"last_transaction_timestamp",
	})
	set = append(set, coalesce(table,
		"offer_id",
		"collection_id",
		"seller",
		"price",
		"token_amount",
		"token_name",
		"created_tx_id",
		"accepted_tx_id",
		"canceled_tx_id",
		"expiration_time",
	)...)
	set = append(set, bidLifecycle(table)...)

	return tx.Clauses(clause.OnConflict{
		Columns:   pkColumns("token_data_id", "buyer", "marketplace"),
		DoUpdates: set,
		Where:     versionGuard(table, "last_transaction_version"),
	}).CreateInBatches(rows, batchSize).Error
}

func upsertCollectionBids(tx *gorm.DB, rows []*schema.CurrentNftMarketplaceCollectionOffer) error {
	table := schema.CurrentNftMarketplaceCollectionOffer{}.TableName()
	batchSize := calculateSafeBatchSize(len(rows), 19)

	set := clause.AssignmentColumns([]string{
		"contract_address",
		"standard_event_type",
		"last_transaction_version",
		"last_transaction_timestamp",
	})
	set = append(set, coalesce(table,
		"collection_id",
		"token_data_id",
		"buyer",
		"seller",
		"price",
		"token_amount",
		"remaining_token_amount",
		"created_tx_id",
		"accepted_tx_id",
		"canceled_tx_id",
		"expiration_time",
	)...)
	set = append(set, bidLifecycle(table)...)

	return tx.Clauses(clause.OnConflict{
		Columns:   pkColumns("collection_offer_id", "marketplace"),
		DoUpdates: set,
		Where:     versionGuard(table, "last_transaction_version"),
	}).CreateInBatches(rows, batchSize).Error
}

func upsertCollections(tx *gorm.DB, rows []*schema.Collection) error {
	table := schema.Collection{}.TableName()
	batchSize := calculateSafeBatchSize(len(rows), 13)

	set := clause.AssignmentColumns([]string{
		"creator_address",
		"name",
		"token_standard",
		"last_transaction_version",
		"last_transaction_timestamp",
	})
	set = append(set, coalesce(table, "description", "uri", "supply", "max_supply", "total_minted", "contract_id")...)

	return tx.Clauses(clause.OnConflict{
		Columns:   pkColumns("id"),
		DoUpdates: set,
		Where:     versionGuard(table, "last_transaction_version"),
	}).CreateInBatches(rows, batchSize).Error
}

func upsertNfts(tx *gorm.DB, rows []*schema.Nft) error {
	table := schema.Nft{}.TableName()
	batchSize := calculateSafeBatchSize(len(rows), 11)

	set := clause.AssignmentColumns([]string{
		"burned",
		"token_standard",
		"last_transaction_version",
		"last_transaction_timestamp",
	})
	set = append(set, coalesce(table, "collection_id", "name", "uri", "description")...)
	// A burned token has no owner
	set = append(set, clause.Assignment{
		Column: clause.Column{Name: "owner"},
		Value:  gorm.Expr(fmt.Sprintf("CASE WHEN excluded.burned THEN NULL ELSE COALESCE(excluded.owner, %q.owner) END", table)),
	})

	return tx.Clauses(clause.OnConflict{
		Columns:   pkColumns("id"),
		DoUpdates: set,
		Where:     versionGuard(table, "last_transaction_version"),
	}).CreateInBatches(rows, batchSize).Error
}

func upsertCommissions(tx *gorm.DB, rows []*schema.Commission) error {
	table := schema.Commission{}.TableName()
	batchSize := calculateSafeBatchSize(len(rows), 7)

	set := clause.AssignmentColumns([]string{
		"royalty_numerator",
		"royalty_denominator",
		"payee_address",
		"last_transaction_version",
	})
	set = append(set, coalesce(table, "royalty")...)

	return tx.Clauses(clause.OnConflict{
		Columns:   pkColumns("id"),
		DoUpdates: set,
		Where:     versionGuard(table, "last_transaction_version"),
	}).CreateInBatches(rows, batchSize).Error
}

func upsertContracts(tx *gorm.DB, rows []*schema.Contract) error {
	table := schema.Contract{}.TableName()
	batchSize := calculateSafeBatchSize(len(rows), 6)

	set := clause.AssignmentColumns([]string{"name", "creator_address", "last_transaction_version"})
	set = append(set, coalesce(table, "commission_id")...)

	return tx.Clauses(clause.OnConflict{
		Columns:   pkColumns("id"),
		DoUpdates: set,
		Where:     versionGuard(table, "last_transaction_version"),
	}).CreateInBatches(rows, batchSize).Error
}

// GetCurrentListing retrieves the current listing of a token on a marketplace
func (s *pgStore) GetCurrentListing(ctx context.Context, marketplace, tokenDataID string) (*schema.CurrentNftMarketplaceListing, error) {
	var listing schema.CurrentNftMarketplaceListing
	err := s.db.WithContext(ctx).
		Where("marketplace = ? AND token_data_id = ?", marketplace, tokenDataID).
		First(&listing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}
	return &listing, nil
}

// GetCurrentTokenBid retrieves the current bid of a buyer on a token
func (s *pgStore) GetCurrentTokenBid(ctx context.Context, marketplace, tokenDataID, buyer string) (*schema.CurrentNftMarketplaceTokenOffer, error) {
	var bid schema.CurrentNftMarketplaceTokenOffer
	err := s.db.WithContext(ctx).
		Where("marketplace = ? AND token_data_id = ? AND buyer = ?", marketplace, tokenDataID, buyer).
		First(&bid).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get token bid: %w", err)
	}
	return &bid, nil
}

// GetCurrentCollectionBid retrieves the current state of a collection offer
func (s *pgStore) GetCurrentCollectionBid(ctx context.Context, marketplace, collectionOfferID string) (*schema.CurrentNftMarketplaceCollectionOffer, error) {
	var bid schema.CurrentNftMarketplaceCollectionOffer
	err := s.db.WithContext(ctx).
		Where("marketplace = ? AND collection_offer_id = ?", marketplace, collectionOfferID).
		First(&bid).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get collection bid: %w", err)
	}
	return &bid, nil
}

// GetActivities retrieves activities of a marketplace from a transaction version, in chain order
func (s *pgStore) GetActivities(ctx context.Context, marketplace string, fromVersion uint64, limit int) ([]*schema.NftMarketplaceActivity, error) {
	if limit <= 0 {
		limit = 100
	}

	var activities []*schema.NftMarketplaceActivity
	err := s.db.WithContext(ctx).
		Where("marketplace = ? AND txn_version >= ?", marketplace, int64(fromVersion)). //nolint:gosec,G115
		Order("txn_version ASC, event_index ASC").
		Limit(limit).
		Find(&activities).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get activities: %w", err)
	}
	return activities, nil
}

// GetNftByTokenDataID retrieves an nft by its token data id
func (s *pgStore) GetNftByTokenDataID(ctx context.Context, tokenDataID string) (*schema.Nft, error) {
	var nft schema.Nft
	err := s.db.WithContext(ctx).Where("token_data_id = ?", tokenDataID).First(&nft).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get nft: %w", err)
	}
	return &nft, nil
}

// GetCollectionByCollectionID retrieves a collection by its collection id
func (s *pgStore) GetCollectionByCollectionID(ctx context.Context, collectionID string) (*schema.Collection, error) {
	var collection schema.Collection
	err := s.db.WithContext(ctx).Where("collection_id = ?", collectionID).First(&collection).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get collection: %w", err)
	}
	return &collection, nil
}
